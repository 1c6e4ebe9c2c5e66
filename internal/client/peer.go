package client

import (
	"context"
	"sync"

	"chordstab/internal/domain"
	"chordstab/internal/rpcx"
)

// grpcPeer adapts one pooled connection to the node.Peer interface.
// Its ring ID is fetched lazily (once) via Identify, since a
// PeerResolver only ever has an address to start from.
type grpcPeer struct {
	addr   string
	client *rpcx.DHTClient

	idOnce sync.Once
	id     domain.ID
	idErr  error
}

func (p *grpcPeer) Addr() string { return p.addr }

func (p *grpcPeer) ensureID(ctx context.Context) error {
	p.idOnce.Do(func() {
		resp, err := p.client.Identify(ctx, &rpcx.Empty{})
		if err != nil {
			p.idErr = err
			return
		}
		p.id = domain.ID(resp.Self.ID)
	})
	return p.idErr
}

func (p *grpcPeer) ID() domain.ID {
	return p.id
}

func (p *grpcPeer) CheckPredecessor(ctx context.Context, candidate domain.Node) error {
	_, err := p.client.CheckPredecessor(ctx, &rpcx.CheckPredecessorRequest{Candidate: rpcx.ToNodeMsg(candidate)})
	return err
}

func (p *grpcPeer) AdoptAsSuccessor(ctx context.Context, candidate domain.Node) error {
	_, err := p.client.AdoptAsSuccessor(ctx, &rpcx.AdoptAsSuccessorRequest{Candidate: rpcx.ToNodeMsg(candidate)})
	return err
}

func (p *grpcPeer) InsertSuccessor(ctx context.Context, candidate domain.Node) error {
	_, err := p.client.InsertSuccessor(ctx, &rpcx.InsertSuccessorRequest{Candidate: rpcx.ToNodeMsg(candidate)})
	return err
}

func (p *grpcPeer) GetPredecessor(ctx context.Context) (*domain.Node, error) {
	resp, err := p.client.GetPredecessor(ctx, &rpcx.Empty{})
	if err != nil {
		return nil, err
	}
	return rpcx.FromNodeResponse(resp), nil
}

func (p *grpcPeer) GetSuccessorList(ctx context.Context) ([]domain.Node, error) {
	resp, err := p.client.GetSuccessorList(ctx, &rpcx.Empty{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Node, len(resp.Nodes))
	for i, m := range resp.Nodes {
		out[i] = rpcx.FromNodeMsg(m)
	}
	return out, nil
}

func (p *grpcPeer) DelegateOwnedData(ctx context.Context, newOwner domain.ID, force bool) ([]domain.KeyValue, error) {
	resp, err := p.client.DelegateOwnedData(ctx, &rpcx.DelegateOwnedDataRequest{NewOwner: []byte(newOwner), Force: force})
	if err != nil {
		return nil, err
	}
	return rpcx.FromKeyValueMsgs(resp.Items), nil
}

func (p *grpcPeer) ReceiveReplica(ctx context.Context, master domain.Node, items []domain.KeyValue, replaceAll bool) error {
	_, err := p.client.ReceiveReplica(ctx, &rpcx.ReceiveReplicaRequest{
		Master:     rpcx.ToNodeMsg(master),
		Items:      rpcx.ToKeyValueMsgs(items),
		ReplaceAll: replaceAll,
	})
	return err
}

func (p *grpcPeer) DeleteReplica(ctx context.Context, master domain.Node) error {
	_, err := p.client.DeleteReplica(ctx, &rpcx.DeleteReplicaRequest{Master: rpcx.ToNodeMsg(master)})
	return err
}

func (p *grpcPeer) PassOwnedForReplication(ctx context.Context) ([]domain.KeyValue, error) {
	resp, err := p.client.PassOwnedForReplication(ctx, &rpcx.Empty{})
	if err != nil {
		return nil, err
	}
	return rpcx.FromKeyValueMsgs(resp.Items), nil
}

func (p *grpcPeer) PassAllReplica(ctx context.Context) ([]domain.ReplicaBundle, error) {
	resp, err := p.client.PassAllReplica(ctx, &rpcx.Empty{})
	if err != nil {
		return nil, err
	}
	return rpcx.FromReplicaSets(resp.Sets), nil
}

func (p *grpcPeer) StoreOwned(ctx context.Context, kv domain.KeyValue) error {
	_, err := p.client.StoreOwned(ctx, &rpcx.StoreOwnedRequest{Item: rpcx.ToKeyValueMsg(kv)})
	return err
}

func (p *grpcPeer) CheckReplicationRedundancy(ctx context.Context) error {
	_, err := p.client.CheckReplicationRedundancy(ctx, &rpcx.Empty{})
	return err
}

// HandleLeave and FindSuccessor are not part of node.Peer. The
// operator surface reaches both over the wire, and node.Join checks
// the mediator Peer it resolved for FindSuccessor and uses it for its
// first lookup.

func (p *grpcPeer) HandleLeave(ctx context.Context, leaving domain.Node) error {
	_, err := p.client.HandleLeave(ctx, &rpcx.HandleLeaveRequest{Leaving: rpcx.ToNodeMsg(leaving)})
	return err
}

func (p *grpcPeer) FindSuccessor(ctx context.Context, id domain.ID) (domain.Node, error) {
	resp, err := p.client.FindSuccessor(ctx, &rpcx.FindSuccessorRequest{ID: []byte(id)})
	if err != nil {
		return domain.Node{}, err
	}
	n := rpcx.FromNodeResponse(resp)
	if n == nil {
		return domain.Node{}, domain.ErrAppropriateNodeNotFound
	}
	return *n, nil
}
