// Package router implements node.Router with a textbook
// closest-preceding-finger walk. It is deliberately simple: the
// stabilization core this module builds around treats lookup routing
// as an external collaborator, not a concern of its own.
package router

import (
	"context"
	"fmt"

	"chordstab/internal/domain"
	"chordstab/internal/logger"
	"chordstab/internal/routingtable"
)

// PeerFinder is the subset of node.PeerResolver this package needs:
// just enough to ask a remote node for its own FindSuccessor answer
// when the local table can't resolve id directly.
type PeerFinder interface {
	Resolve(ctx context.Context, addr string) (RemotePeer, error)
}

// RemotePeer is the subset of node.Peer this package needs.
type RemotePeer interface {
	FindSuccessor(ctx context.Context, id domain.ID) (domain.Node, error)
}

// Router answers FindSuccessor by checking whether self's own
// (predecessor, self] range already covers id, then walking the
// finger table for the closest preceding node and delegating the
// lookup to it over one hop, up to maxHops times before giving up.
type Router struct {
	lgr     logger.Logger
	rt      *routingtable.RoutingTable
	resolve func(ctx context.Context, addr string) (RemotePeer, error)
	maxHops int
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used by the router.
func WithLogger(l logger.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.lgr = l
		}
	}
}

// WithMaxHops bounds how many remote delegations a single lookup may
// take before it gives up with ErrAppropriateNodeNotFound.
func WithMaxHops(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.maxHops = n
		}
	}
}

// New creates a Router over rt, resolving remote hops through resolve.
func New(rt *routingtable.RoutingTable, resolve func(ctx context.Context, addr string) (RemotePeer, error), opts ...Option) *Router {
	r := &Router{
		rt:      rt,
		resolve: resolve,
		maxHops: rt.Space().Bits + 1,
		lgr:     &logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindSuccessor resolves the node responsible for id.
func (r *Router) FindSuccessor(ctx context.Context, id domain.ID) (domain.Node, error) {
	self := *r.rt.Self()
	pred := r.rt.GetPredecessor()

	if pred != nil && id.Between(pred.ID, self.ID) {
		return self, nil
	}
	succ := r.rt.FirstSuccessor()
	if succ != nil && id.Between(self.ID, succ.ID) {
		return *succ, nil
	}
	if succ != nil && succ.ID.Equal(self.ID) {
		// Alone on the ring: self is responsible for everything.
		return self, nil
	}

	next := r.closestPrecedingFinger(id)
	if next == nil {
		if succ == nil {
			return domain.Node{}, domain.ErrAppropriateNodeNotFound
		}
		next = succ
	}
	if next.ID.Equal(self.ID) {
		return domain.Node{}, domain.ErrAppropriateNodeNotFound
	}

	for hop := 0; hop < r.maxHops; hop++ {
		peer, err := r.resolve(ctx, next.Addr)
		if err != nil {
			r.lgr.Warn("find_successor: hop unreachable, giving up",
				logger.F("addr", next.Addr), logger.F("err", err))
			return domain.Node{}, domain.ErrAppropriateNodeNotFound
		}
		found, err := peer.FindSuccessor(ctx, id)
		if err != nil {
			return domain.Node{}, fmt.Errorf("find_successor: remote hop failed: %w", err)
		}
		return found, nil
	}
	return domain.Node{}, domain.ErrAppropriateNodeNotFound
}

// closestPrecedingFinger scans the finger table from the far end
// inward for the node closest to, but not past, id.
func (r *Router) closestPrecedingFinger(id domain.ID) *domain.Node {
	self := r.rt.Self()
	space := r.rt.Space()
	for i := space.Bits - 1; i >= 0; i-- {
		f := r.rt.GetFinger(i)
		if f == nil {
			continue
		}
		if f.ID.Between(self.ID, id) {
			return f
		}
	}
	return nil
}
