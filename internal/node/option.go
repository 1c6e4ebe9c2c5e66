package node

import (
	"time"

	"chordstab/internal/logger"
)

type Option func(*Node)

// WithLogger sets the logger used by the node.
func WithLogger(l logger.Logger) Option {
	return func(n *Node) {
		if l != nil {
			n.lgr = l
		}
	}
}

// WithFailureTimeout sets the per-call timeout applied to every
// suspension point (peer resolution, remote RPC) the stabilization
// core reaches out through.
func WithFailureTimeout(d time.Duration) Option {
	return func(n *Node) {
		if d > 0 {
			n.failureTimeout = d
		}
	}
}

// WithRetrySlot overrides the join retry slot, e.g. to share one slot
// across a process hosting several Node lifetimes in tests.
func WithRetrySlot(slot *JoinRetrySlot) Option {
	return func(n *Node) {
		if slot != nil {
			n.retry = slot
		}
	}
}
