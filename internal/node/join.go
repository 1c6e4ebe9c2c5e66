package node

import (
	"context"
	"errors"
	"fmt"

	"chordstab/internal/domain"
	"chordstab/internal/logger"
)

// CreateNewDHT bootstraps a brand-new, single-node ring: this node is
// its own successor, predecessor and finger[0].
func (n *Node) CreateNewDHT() {
	n.rt.InitSingleNode()
	n.lgr.Info("created new ring, single-node mode")
}

// Join attaches this node to an existing ring through mediatorAddr,
// which the caller guarantees is currently live.
//
// On domain.ErrAppropriateNodeNotFound the join is not retried inline;
// instead it is latched in the node's JoinRetrySlot for the caller to
// re-drive later (spec's process-wide single-slot retry record).
func (n *Node) Join(ctx context.Context, mediatorAddr string) error {
	self := *n.rt.Self()

	mediator, err := n.resolver.Resolve(ctx, mediatorAddr)
	if err != nil {
		return fmt.Errorf("join: failed to resolve mediator %s: %w", mediatorAddr, err)
	}

	// Step 1: ask the mediator's router for our successor. A mediator
	// Peer that serves FindSuccessor itself (the gRPC-backed peer does)
	// answers the lookup; any other Peer falls back to this node's own
	// Router.
	var succ domain.Node
	if remote, ok := mediator.(interface {
		FindSuccessor(ctx context.Context, id domain.ID) (domain.Node, error)
	}); ok {
		succ, err = remote.FindSuccessor(ctx, self.ID)
	} else {
		succ, err = n.router.FindSuccessor(ctx, self.ID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAppropriateNodeNotFound) {
			n.retry.Set(self, mediatorAddr)
			n.lgr.Warn("join: no appropriate node found, latched for retry",
				logger.F("mediator", mediatorAddr))
			return nil
		}
		return fmt.Errorf("join: find_successor failed: %w", err)
	}

	// Step 2: install it as our successor.
	n.rt.SetSuccessor(0, &succ)
	n.rt.SetFinger(0, &succ) // step 4, done early so later steps see a consistent table

	succPeer, err := n.resolver.Resolve(ctx, succ.Addr)
	if err != nil {
		n.lgr.Warn("join: could not resolve new successor, deferring to stabilization",
			logger.FNode("successor", &succ), logger.F("err", err))
		return nil
	}

	// Step 3: pull primary data now owned by us.
	delegated, err := succPeer.DelegateOwnedData(ctx, self.ID, false)
	if err != nil {
		n.lgr.Warn("join: failed to pull delegated primary data",
			logger.FNode("successor", &succ), logger.F("err", err))
		delegated = nil
	}
	for _, kv := range delegated {
		n.s.StoreNew(kv.Key, kv.RawKey, kv.Value, nil)
	}

	// Step 5: two-node special case — mediator is alone on the ring.
	mediatorSuccList, err := mediator.GetSuccessorList(ctx)
	if err == nil && len(mediatorSuccList) > 0 && mediatorSuccList[0].ID.Equal(mediator.ID()) {
		n.wireTwoNodeRing(ctx, self, mediator)
	} else {
		// Step 6: general case.
		n.joinGeneralCase(ctx, self, succPeer, &succ)
	}

	// Step 7: push replicas of delegated primary data to our successor list.
	if len(delegated) > 0 {
		for _, peerNode := range n.rt.SuccessorList() {
			if peerNode.ID.Equal(self.ID) {
				continue
			}
			peer, err := n.resolver.Resolve(ctx, peerNode.Addr)
			if err != nil {
				n.lgr.Warn("join: skipping replica push, peer unreachable",
					logger.FNode("peer", peerNode), logger.F("err", err))
				continue
			}
			if err := peer.ReceiveReplica(ctx, self, delegated, false); err != nil {
				n.lgr.Warn("join: replica push failed",
					logger.FNode("peer", peerNode), logger.F("err", err))
			}
		}
	}

	// Step 8: pull our predecessor's primary data as replica, then ask it
	// to trim its now-possibly-over-long successor list.
	if pred := n.rt.GetPredecessor(); pred != nil && !pred.ID.Equal(self.ID) {
		if predPeer, err := n.resolver.Resolve(ctx, pred.Addr); err == nil {
			items, err := predPeer.PassOwnedForReplication(ctx)
			if err != nil {
				n.lgr.Warn("join: failed to pull predecessor's replica set",
					logger.FNode("predecessor", pred), logger.F("err", err))
			} else {
				for _, kv := range items {
					n.s.StoreNew(kv.Key, kv.RawKey, kv.Value, pred)
				}
			}
			if err := predPeer.CheckReplicationRedundancy(ctx); err != nil {
				n.lgr.Warn("join: failed to trigger predecessor's replication trim pass",
					logger.FNode("predecessor", pred), logger.F("err", err))
			}
		} else {
			n.lgr.Warn("join: predecessor unreachable, skipping replica pull",
				logger.FNode("predecessor", pred), logger.F("err", err))
		}
	}

	// Step 9: shadow everything our successor already shadows.
	allReplica, err := succPeer.PassAllReplica(ctx)
	if err != nil {
		n.lgr.Warn("join: failed to pull successor's replica inventory",
			logger.FNode("successor", &succ), logger.F("err", err))
	} else if len(allReplica) > 0 {
		n.s.StoreReplicaOfSeveralMasters(allReplica)
	}

	n.lgr.Info("join: completed", logger.FNode("successor", &succ))
	return nil
}

// wireTwoNodeRing forcibly links self and mediator into a two-node
// ring (step 5): each becomes the other's predecessor, successor and
// finger[0].
func (n *Node) wireTwoNodeRing(ctx context.Context, self domain.Node, mediator Peer) {
	mediatorInfo := domain.Node{ID: mediator.ID(), Addr: mediator.Addr()}
	n.rt.SetPredecessor(&mediatorInfo)
	n.rt.SetSuccessor(0, &mediatorInfo)
	n.rt.SetFinger(0, &mediatorInfo)

	if err := mediator.CheckPredecessor(ctx, self); err != nil {
		n.lgr.Warn("join: failed to notify mediator of two-node wiring", logger.F("err", err))
	}
	if err := mediator.AdoptAsSuccessor(ctx, self); err != nil {
		n.lgr.Warn("join: failed to force mediator successor wiring", logger.F("err", err))
	}
	n.lgr.Info("join: wired two-node ring", logger.FNode("mediator", &mediatorInfo))
}

// joinGeneralCase implements step 6: adopt the successor's current
// predecessor as our own, then insert self at the front of that old
// predecessor's own successor list so it discovers us as its new
// nearest successor. Self's own successor list is left untouched here
// ([succ] from step 2); the subsequent stabilizeSuccessor call is what
// fills the rest of it, including pulling oldPred back in if it is
// still the correct second entry.
func (n *Node) joinGeneralCase(ctx context.Context, self domain.Node, succPeer Peer, succ *domain.Node) {
	oldPred, err := succPeer.GetPredecessor(ctx)
	if err != nil || oldPred == nil {
		n.lgr.Warn("join: successor reported no predecessor, leaving join incomplete",
			logger.FNode("successor", succ), logger.F("err", err))
		return
	}

	n.rt.SetPredecessor(oldPred)
	if err := succPeer.CheckPredecessor(ctx, self); err != nil {
		n.lgr.Warn("join: failed to install self as successor's predecessor",
			logger.FNode("successor", succ), logger.F("err", err))
	}

	if oldPred.ID.Equal(self.ID) {
		return
	}
	oldPredPeer, err := n.resolver.Resolve(ctx, oldPred.Addr)
	if err != nil {
		n.lgr.Warn("join: old predecessor is down, deferring repair to stabilization",
			logger.FNode("oldPredecessor", oldPred), logger.F("err", err))
		return
	}
	if err := oldPredPeer.InsertSuccessor(ctx, self); err != nil {
		n.lgr.Warn("join: failed to insert self into old predecessor's successor list",
			logger.FNode("oldPredecessor", oldPred), logger.F("err", err))
	}
	n.stabilizeSuccessor(ctx)
}
