package node

import (
	"context"
	"fmt"

	"chordstab/internal/domain"
	"chordstab/internal/logger"
)

// GetPredecessor returns the current predecessor, or nil if unset.
// Exposed to remote callers; also used locally.
func (n *Node) GetPredecessor(ctx context.Context) (*domain.Node, error) {
	return n.rt.GetPredecessor(), nil
}

// GetSuccessorList returns a snapshot of the successor list. Exposed
// to remote callers so a peer can refill its own list from ours
// (see stabilizeSuccessor).
func (n *Node) GetSuccessorList(ctx context.Context) ([]domain.Node, error) {
	list := n.rt.SuccessorList()
	out := make([]domain.Node, len(list))
	for i, nd := range list {
		out[i] = *nd
	}
	return out, nil
}

// ReceiveReplica stores items as a replica set tagged by master.
// Exposed to remote callers.
func (n *Node) ReceiveReplica(ctx context.Context, master domain.Node, items []domain.KeyValue, replaceAll bool) error {
	n.s.ReceiveReplica(master, items, replaceAll)
	n.lgr.Debug("receive_replica: stored", logger.FNode("master", &master), logger.F("count", len(items)))
	return nil
}

// DeleteReplica discards the replica set tagged by master. Exposed to
// remote callers.
func (n *Node) DeleteReplica(ctx context.Context, master domain.Node) error {
	n.s.DeleteReplica(master)
	n.lgr.Debug("delete_replica: discarded", logger.FNode("master", &master))
	return nil
}

// DelegateOwnedData transfers primary ownership of every item now
// belonging to newOwner (or every item, if force) to the caller.
// Exposed to remote callers.
func (n *Node) DelegateOwnedData(ctx context.Context, newOwner domain.ID, force bool) ([]domain.KeyValue, error) {
	items := n.s.DelegateOwnedData(newOwner, force)
	n.lgr.Debug("delegate_my_tantou_data: delegated",
		logger.F("newOwner", newOwner.ToHexString(true)), logger.F("count", len(items)), logger.F("force", force))
	return items, nil
}

// PassOwnedForReplication returns a snapshot of this node's primary
// items, for a new predecessor to shadow as replicas. Exposed to
// remote callers.
func (n *Node) PassOwnedForReplication(ctx context.Context) ([]domain.KeyValue, error) {
	return n.s.OwnedForReplication(), nil
}

// PassAllReplica returns a snapshot of every replica set this node
// holds, one bundle per master. Exposed to remote callers.
func (n *Node) PassAllReplica(ctx context.Context) ([]domain.ReplicaBundle, error) {
	return n.s.AllReplica(), nil
}

// CheckReplicationRedundancy is the remotely-invocable trigger for the
// trim pass, called by a joining node's old predecessor on itself
// after accepting the join. It simply runs the same local pass the
// successor stabilizer runs after swapping in a new successor.
func (n *Node) CheckReplicationRedundancy(ctx context.Context) error {
	n.checkReplicationRedundancy(ctx)
	return nil
}

// StoreOwned stores kv as a primary item, used by the ownership
// repair pass of a remote peer to migrate an item onto this node
// once this node becomes responsible for it.
func (n *Node) StoreOwned(ctx context.Context, kv domain.KeyValue) error {
	n.s.StoreNew(kv.Key, kv.RawKey, kv.Value, nil)
	return nil
}

// HandleLeave processes a graceful leave notification from a
// departing predecessor, so this node can drop the pointer
// immediately instead of waiting for the next failed liveness probe.
func (n *Node) HandleLeave(ctx context.Context, leaving domain.Node) error {
	pred := n.rt.GetPredecessor()
	if pred == nil || !leaving.ID.Equal(pred.ID) {
		n.lgr.Debug("handle_leave: ignoring leave for non-predecessor", logger.FNode("leaving", &leaving))
		return nil
	}
	n.rt.SetPredecessor(nil)
	n.lgr.Info("handle_leave: predecessor removed", logger.FNode("leaving", &leaving))
	return nil
}

// FindSuccessor answers the router-facing lookup by delegating to the
// node's configured Router. Exposed so the node's gRPC surface can
// serve lookups for other nodes walking the ring, without the
// stabilization core depending on the router's internal strategy.
func (n *Node) FindSuccessor(ctx context.Context, id domain.ID) (domain.Node, error) {
	succ, err := n.router.FindSuccessor(ctx, id)
	if err != nil {
		return domain.Node{}, fmt.Errorf("find_successor: %w", err)
	}
	return succ, nil
}
