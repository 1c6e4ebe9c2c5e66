package node

import (
	"context"
	"time"

	"chordstab/internal/logger"
)

// StartStabilizers launches the node's periodic maintenance loops and
// returns once ctx is canceled. Three independent tickers run
// concurrently:
//   - successorInterval drives stabilizeSuccessor and a predecessor
//     liveness sweep.
//   - fingerInterval drives stabilizeFingerTable, cycling one slot at
//     a time over the finger table.
//   - storageInterval drives the ownership-repair pass.
//
// A fatal domain.ErrNoLiveSuccessor from the successor loop is
// reported on the returned channel and stops that loop; the caller is
// expected to treat it as a successor-list-exhausted condition and
// tear the process down.
func (n *Node) StartStabilizers(ctx context.Context, successorInterval, fingerInterval, storageInterval time.Duration) <-chan error {
	fatal := make(chan error, 1)

	go func() {
		ticker := time.NewTicker(successorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				n.lgr.Info("successor stabilizer stopped")
				return
			case <-ticker.C:
				if err := n.stabilizeSuccessor(ctx); err != nil {
					n.lgr.Error("successor stabilizer: fatal condition", logger.F("err", err))
					select {
					case fatal <- err:
					default:
					}
					return
				}
				n.checkPredecessorLiveness(ctx)
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(fingerInterval)
		defer ticker.Stop()
		idx := 0
		m := n.rt.FingerTableSize()
		for {
			select {
			case <-ctx.Done():
				n.lgr.Info("finger stabilizer stopped")
				return
			case <-ticker.C:
				if m > 0 {
					n.stabilizeFingerTable(ctx, idx)
					idx = (idx + 1) % m
				}
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(storageInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				n.lgr.Info("ownership repair stopped")
				return
			case <-ticker.C:
				n.repairOwnership(ctx)
			}
		}
	}()

	return fatal
}

// repairOwnership re-validates every locally-held primary item
// against a fresh lookup and migrates any item that now belongs to a
// different node, so ownership of data stays consistent with topology
// once a stabilize_successor swap moves the ownership boundary.
func (n *Node) repairOwnership(ctx context.Context) {
	self := n.rt.Self()
	items := n.s.OwnedForReplication()
	for _, kv := range items {
		responsible, err := n.router.FindSuccessor(ctx, kv.Key)
		if err != nil {
			n.lgr.Warn("repair_ownership: lookup failed",
				logger.F("key", kv.RawKey), logger.F("err", err))
			continue
		}
		if responsible.ID.Equal(self.ID) {
			continue
		}
		peer, err := n.resolver.Resolve(ctx, responsible.Addr)
		if err != nil {
			n.lgr.Warn("repair_ownership: responsible node unreachable",
				logger.F("key", kv.RawKey), logger.FNode("responsible", &responsible), logger.F("err", err))
			continue
		}
		if err := peer.StoreOwned(ctx, kv); err != nil {
			n.lgr.Warn("repair_ownership: migration failed",
				logger.F("key", kv.RawKey), logger.FNode("responsible", &responsible), logger.F("err", err))
			continue
		}
		if err := n.s.Delete(kv.Key); err != nil {
			n.lgr.Warn("repair_ownership: local delete after migration failed",
				logger.F("key", kv.RawKey), logger.F("err", err))
			continue
		}
		n.lgr.Info("repair_ownership: item migrated", logger.F("key", kv.RawKey), logger.FNode("responsible", &responsible))
	}
}
