package node

import (
	"context"

	"chordstab/internal/domain"
	"chordstab/internal/logger"
)

// CheckPredecessor is the core's exposed "am I your predecessor?"
// probe. It is invoked remotely by a node's successor during
// successor-list stabilization, and locally during join.
//
// If the currently-known predecessor is live, candidate is adopted
// only when it is a strictly tighter fit (smaller left-going distance
// from self). If the current predecessor is not live, candidate is
// adopted unconditionally.
func (n *Node) CheckPredecessor(ctx context.Context, candidate domain.Node) error {
	self := *n.rt.Self()
	cur := n.rt.GetPredecessor()

	if cur != nil && !cur.ID.Equal(self.ID) {
		if n.resolver.IsAlive(ctx, cur.Addr) {
			space := n.rt.Space()
			dCand := space.DistLeft(self.ID, candidate.ID)
			dCur := space.DistLeft(self.ID, cur.ID)
			if dCand.Cmp(dCur) >= 0 {
				return nil
			}
		}
	}

	n.rt.SetPredecessor(&candidate)
	n.lgr.Debug("check_predecessor: adopted candidate",
		logger.FNode("candidate", &candidate), logger.FNode("previous", cur))
	return nil
}

// AdoptAsSuccessor forces self to install candidate as
// successor_list[0] and finger[0], but only when self is currently
// alone on the ring. See the Peer interface docs for why this exists
// as a distinct, narrowly-scoped RPC.
func (n *Node) AdoptAsSuccessor(ctx context.Context, candidate domain.Node) error {
	self := n.rt.Self()
	succ := n.rt.FirstSuccessor()
	if succ == nil || !succ.ID.Equal(self.ID) {
		return nil
	}
	n.rt.SetSuccessor(0, &candidate)
	n.rt.SetFinger(0, &candidate)
	n.lgr.Info("adopt_as_successor: wired two-node ring", logger.FNode("successor", &candidate))
	return nil
}

// InsertSuccessor splices candidate into successor_list[0], shifting
// every existing entry down by one and dropping whatever falls off the
// end. Used by a joining node to insert itself ahead of an existing
// node's successor list, rather than that node's own stabilizer
// discovering it indirectly.
func (n *Node) InsertSuccessor(ctx context.Context, candidate domain.Node) error {
	old := n.rt.SuccessorList()
	size := n.rt.SuccListSize()
	newList := make([]*domain.Node, size)
	newList[0] = &candidate
	for i := 1; i < size && i-1 < len(old); i++ {
		newList[i] = old[i-1]
	}
	n.rt.SetSuccessorList(newList)
	n.rt.SetFinger(0, &candidate)
	n.lgr.Info("insert_successor: spliced candidate into successor list", logger.FNode("candidate", &candidate))
	return nil
}

// checkPredecessorLiveness is a self-initiated maintenance pass: it
// pings the currently-known predecessor and clears the pointer if it
// no longer answers, so a dead predecessor is forgotten even before
// some other node's successor stabilizer happens to probe this node.
func (n *Node) checkPredecessorLiveness(ctx context.Context) {
	pred := n.rt.GetPredecessor()
	if pred == nil || pred.ID.Equal(n.rt.Self().ID) {
		return
	}
	ctx, cancel := n.ctxTimeout(ctx)
	defer cancel()
	if !n.resolver.IsAlive(ctx, pred.Addr) {
		n.lgr.Warn("predecessor unresponsive, clearing", logger.FNode("predecessor", pred))
		n.rt.SetPredecessor(nil)
	}
}
