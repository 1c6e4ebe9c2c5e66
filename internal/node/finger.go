package node

import (
	"context"
	"errors"

	"chordstab/internal/domain"
	"chordstab/internal/logger"
)

// stabilizeFingerTable refreshes one finger table slot. Callers cycle
// idx over 0..M on successive ticks.
func (n *Node) stabilizeFingerTable(ctx context.Context, idx int) {
	self := n.rt.Self()
	target, err := n.rt.Space().FingerStart(self.ID, idx)
	if err != nil {
		n.lgr.Error("stabilize_finger_table: failed to compute target",
			logger.F("idx", idx), logger.F("err", err))
		return
	}

	found, err := n.router.FindSuccessor(ctx, target)
	if err != nil {
		if errors.Is(err, domain.ErrAppropriateNodeNotFound) {
			n.rt.SetFinger(idx, nil)
			n.lgr.Debug("stabilize_finger_table: no appropriate node, cleared slot",
				logger.F("idx", idx), logger.F("target", target.ToHexString(true)))
			return
		}
		n.lgr.Warn("stabilize_finger_table: find_successor failed",
			logger.F("idx", idx), logger.F("target", target.ToHexString(true)), logger.F("err", err))
		return
	}

	n.rt.SetFinger(idx, &found)
}
