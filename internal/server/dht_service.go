package server

import (
	"context"
	"errors"

	"chordstab/internal/domain"
	"chordstab/internal/node"
	"chordstab/internal/rpcx"
)

// dhtService adapts a *node.Node to rpcx.DHTServer: every method here
// is a thin decode/encode shim around the stabilization core's own
// operations, with no logic of its own.
type dhtService struct {
	node *node.Node
}

// NewDHTService creates a DHT service bound to the given node.
func NewDHTService(n *node.Node) rpcx.DHTServer {
	return &dhtService{node: n}
}

func (s *dhtService) Identify(ctx context.Context, _ *rpcx.Empty) (*rpcx.IdentifyResponse, error) {
	return &rpcx.IdentifyResponse{Self: rpcx.ToNodeMsg(*s.node.Self())}, nil
}

func (s *dhtService) Ping(ctx context.Context, _ *rpcx.Empty) (*rpcx.Empty, error) {
	return &rpcx.Empty{}, nil
}

func (s *dhtService) CheckPredecessor(ctx context.Context, req *rpcx.CheckPredecessorRequest) (*rpcx.Empty, error) {
	if err := s.node.CheckPredecessor(ctx, rpcx.FromNodeMsg(req.Candidate)); err != nil {
		return nil, err
	}
	return &rpcx.Empty{}, nil
}

func (s *dhtService) AdoptAsSuccessor(ctx context.Context, req *rpcx.AdoptAsSuccessorRequest) (*rpcx.Empty, error) {
	if err := s.node.AdoptAsSuccessor(ctx, rpcx.FromNodeMsg(req.Candidate)); err != nil {
		return nil, err
	}
	return &rpcx.Empty{}, nil
}

func (s *dhtService) InsertSuccessor(ctx context.Context, req *rpcx.InsertSuccessorRequest) (*rpcx.Empty, error) {
	if err := s.node.InsertSuccessor(ctx, rpcx.FromNodeMsg(req.Candidate)); err != nil {
		return nil, err
	}
	return &rpcx.Empty{}, nil
}

func (s *dhtService) GetPredecessor(ctx context.Context, _ *rpcx.Empty) (*rpcx.NodeResponse, error) {
	pred, err := s.node.GetPredecessor(ctx)
	if err != nil {
		return nil, err
	}
	return rpcx.ToNodeResponse(pred), nil
}

func (s *dhtService) GetSuccessorList(ctx context.Context, _ *rpcx.Empty) (*rpcx.NodeListResponse, error) {
	list, err := s.node.GetSuccessorList(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]rpcx.NodeMsg, len(list))
	for i, n := range list {
		out[i] = rpcx.ToNodeMsg(n)
	}
	return &rpcx.NodeListResponse{Nodes: out}, nil
}

func (s *dhtService) DelegateOwnedData(ctx context.Context, req *rpcx.DelegateOwnedDataRequest) (*rpcx.KeyValueListResponse, error) {
	items, err := s.node.DelegateOwnedData(ctx, domain.ID(req.NewOwner), req.Force)
	if err != nil {
		return nil, err
	}
	return &rpcx.KeyValueListResponse{Items: rpcx.ToKeyValueMsgs(items)}, nil
}

func (s *dhtService) ReceiveReplica(ctx context.Context, req *rpcx.ReceiveReplicaRequest) (*rpcx.Empty, error) {
	master := rpcx.FromNodeMsg(req.Master)
	if err := s.node.ReceiveReplica(ctx, master, rpcx.FromKeyValueMsgs(req.Items), req.ReplaceAll); err != nil {
		return nil, err
	}
	return &rpcx.Empty{}, nil
}

func (s *dhtService) DeleteReplica(ctx context.Context, req *rpcx.DeleteReplicaRequest) (*rpcx.Empty, error) {
	if err := s.node.DeleteReplica(ctx, rpcx.FromNodeMsg(req.Master)); err != nil {
		return nil, err
	}
	return &rpcx.Empty{}, nil
}

func (s *dhtService) PassOwnedForReplication(ctx context.Context, _ *rpcx.Empty) (*rpcx.KeyValueListResponse, error) {
	items, err := s.node.PassOwnedForReplication(ctx)
	if err != nil {
		return nil, err
	}
	return &rpcx.KeyValueListResponse{Items: rpcx.ToKeyValueMsgs(items)}, nil
}

func (s *dhtService) PassAllReplica(ctx context.Context, _ *rpcx.Empty) (*rpcx.AllReplicaResponse, error) {
	sets, err := s.node.PassAllReplica(ctx)
	if err != nil {
		return nil, err
	}
	return &rpcx.AllReplicaResponse{Sets: rpcx.ToReplicaSets(sets)}, nil
}

func (s *dhtService) CheckReplicationRedundancy(ctx context.Context, _ *rpcx.Empty) (*rpcx.Empty, error) {
	if err := s.node.CheckReplicationRedundancy(ctx); err != nil {
		return nil, err
	}
	return &rpcx.Empty{}, nil
}

func (s *dhtService) StoreOwned(ctx context.Context, req *rpcx.StoreOwnedRequest) (*rpcx.Empty, error) {
	if err := s.node.StoreOwned(ctx, rpcx.FromKeyValueMsg(req.Item)); err != nil {
		return nil, err
	}
	return &rpcx.Empty{}, nil
}

func (s *dhtService) HandleLeave(ctx context.Context, req *rpcx.HandleLeaveRequest) (*rpcx.Empty, error) {
	if err := s.node.HandleLeave(ctx, rpcx.FromNodeMsg(req.Leaving)); err != nil {
		return nil, err
	}
	return &rpcx.Empty{}, nil
}

// FindSuccessor answers a remote lookup hop. A miss
// (domain.ErrAppropriateNodeNotFound) is reported as Present=false
// rather than a gRPC error, since it is a routine routing outcome, not
// a transport failure.
func (s *dhtService) FindSuccessor(ctx context.Context, req *rpcx.FindSuccessorRequest) (*rpcx.NodeResponse, error) {
	succ, err := s.node.FindSuccessor(ctx, domain.ID(req.ID))
	if err != nil {
		if errors.Is(err, domain.ErrAppropriateNodeNotFound) {
			return &rpcx.NodeResponse{Present: false}, nil
		}
		return nil, err
	}
	return rpcx.ToNodeResponse(&succ), nil
}
