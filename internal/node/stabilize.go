package node

import (
	"context"
	"errors"

	"chordstab/internal/domain"
	"chordstab/internal/logger"
)

// stabilizeSuccessorInner repairs one hop of the successor list. It
// returns the NodeInfo that now occupies successor_list[0], updating
// that slot as a side effect.
//
// domain.ErrNoLiveSuccessor is fatal: it means every entry in the
// successor list is down, which only happens when the successor-list
// size K is too small for the observed failure rate.
func (n *Node) stabilizeSuccessorInner(ctx context.Context) (domain.Node, error) {
	self := *n.rt.Self()
	size := n.rt.SuccListSize()

	var livePeer Peer
	liveIdx := -1
	var liveNode domain.Node

	for i := 0; i < size; i++ {
		cand := n.rt.GetSuccessor(i)
		if cand == nil {
			continue
		}
		peer, err := n.resolver.Resolve(ctx, cand.Addr)
		if err != nil {
			if errors.Is(err, domain.ErrTargetNodeDoesNotExist) {
				cur := n.rt.FirstSuccessor()
				if cur == nil {
					return domain.Node{}, domain.ErrNoLiveSuccessor
				}
				return *cur, nil
			}
			n.lgr.Warn("stabilize_successor_inner: candidate unreachable, scanning next",
				logger.FNode("candidate", cand), logger.F("err", err))
			continue
		}
		livePeer = peer
		liveIdx = i
		liveNode = *cand
		break
	}

	if livePeer == nil {
		n.lgr.Error("stabilize_successor_inner: no live successor remains")
		return domain.Node{}, domain.ErrNoLiveSuccessor
	}
	if liveIdx > 0 {
		n.rt.PromoteCandidate(liveIdx)
	}
	succ := liveNode

	predOfSucc, err := livePeer.GetPredecessor(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrTargetNodeDoesNotExist) {
			return succ, nil
		}
		n.lgr.Warn("stabilize_successor_inner: could not read successor's predecessor",
			logger.FNode("successor", &succ), logger.F("err", err))
		return succ, nil
	}
	if predOfSucc == nil || predOfSucc.ID.Equal(self.ID) {
		// Pattern 1: ring is locally consistent.
		return succ, nil
	}

	x := *predOfSucc

	// Double probe: re-assert self on the successor regardless of
	// whether x ends up adopted below.
	if err := livePeer.CheckPredecessor(ctx, self); err != nil {
		if errors.Is(err, domain.ErrTargetNodeDoesNotExist) {
			return succ, nil
		}
		n.lgr.Warn("stabilize_successor_inner: check_predecessor on successor failed",
			logger.FNode("successor", &succ), logger.F("err", err))
	}

	space := n.rt.Space()
	if space.DistLeft(succ.ID, x.ID).Cmp(space.DistLeft(succ.ID, self.ID)) >= 0 {
		// x does not lie strictly between self and succ.
		return succ, nil
	}

	xPeer, err := n.resolver.Resolve(ctx, x.Addr)
	if err != nil {
		// x is dead: abandon the swap, self has already re-asserted
		// itself as successor's predecessor above.
		n.lgr.Warn("stabilize_successor_inner: candidate predecessor unreachable, abandoning swap",
			logger.FNode("candidate", &x), logger.F("err", err))
		return succ, nil
	}

	n.rt.SetSuccessor(0, &x)
	items := n.s.OwnedForReplication()
	if err := xPeer.ReceiveReplica(ctx, self, items, true); err != nil {
		n.lgr.Warn("stabilize_successor_inner: replica push to new successor failed",
			logger.FNode("successor", &x), logger.F("err", err))
	}
	n.checkReplicationRedundancy(ctx)
	if err := xPeer.CheckPredecessor(ctx, self); err != nil && !errors.Is(err, domain.ErrTargetNodeDoesNotExist) {
		n.lgr.Warn("stabilize_successor_inner: check_predecessor on new successor failed",
			logger.FNode("successor", &x), logger.F("err", err))
	}
	n.lgr.Info("stabilize_successor_inner: adopted tighter successor", logger.FNode("successor", &x))
	return x, nil
}

// stabilizeSuccessor refills the successor list. A full walk would
// invoke stabilizeSuccessorInner on each of the K hops in turn, but
// since every node already runs this same procedure on its own,
// independently-scheduled timer, a single node reproduces the same
// convergent effect by repairing its own head (stabilizeSuccessorInner)
// and then copying the rest of the list directly from that head,
// which is itself already kept correct by the head's own ticks.
func (n *Node) stabilizeSuccessor(ctx context.Context) error {
	self := n.rt.Self()

	succ, err := n.stabilizeSuccessorInner(ctx)
	if err != nil {
		return err
	}
	if succ.ID.Equal(self.ID) {
		// First-node-alone case (ring smaller than K): do not overwrite
		// the list.
		return nil
	}

	peer, err := n.resolver.Resolve(ctx, succ.Addr)
	if err != nil {
		n.lgr.Warn("stabilize_successor: could not resolve successor to refill list",
			logger.FNode("successor", &succ), logger.F("err", err))
		return nil
	}
	remoteList, err := peer.GetSuccessorList(ctx)
	if err != nil {
		n.lgr.Warn("stabilize_successor: could not fetch successor's list",
			logger.FNode("successor", &succ), logger.F("err", err))
		return nil
	}

	size := n.rt.SuccListSize()
	newList := make([]*domain.Node, size)
	newList[0] = &succ
	for i := 1; i < size && i-1 < len(remoteList); i++ {
		cand := remoteList[i-1]
		if cand.ID.Equal(self.ID) {
			break
		}
		newList[i] = &cand
	}
	n.rt.SetSuccessorList(newList)
	return nil
}

// checkReplicationRedundancy trims successor-list entries that no
// longer need to hold a replica of self's primary range. The routing
// table is a fixed-capacity array rather than an unbounded sequence,
// so "overflow beyond K" here means a duplicate id introduced by a
// successor-list refill; each duplicate's replica is revoked (if it
// is still live) and its slot is cleared.
func (n *Node) checkReplicationRedundancy(ctx context.Context) {
	self := *n.rt.Self()
	size := n.rt.SuccListSize()
	list := n.rt.SuccessorList()

	seen := make(map[string]bool, len(list))
	kept := make([]*domain.Node, 0, len(list))
	for _, nd := range list {
		key := nd.ID.ToHexString(false)
		if seen[key] {
			if peer, err := n.resolver.Resolve(ctx, nd.Addr); err == nil {
				if err := peer.DeleteReplica(ctx, self); err != nil {
					n.lgr.Warn("check_replication_redundancy: delete_replica failed",
						logger.FNode("node", nd), logger.F("err", err))
				}
			}
			continue
		}
		seen[key] = true
		kept = append(kept, nd)
	}
	if len(kept) == len(list) {
		return
	}

	newList := make([]*domain.Node, size)
	for i, nd := range kept {
		if i >= size {
			break
		}
		newList[i] = nd
	}
	n.rt.SetSuccessorList(newList)
	n.lgr.Debug("check_replication_redundancy: trimmed successor list",
		logger.F("before", len(list)), logger.F("after", len(kept)))
}
