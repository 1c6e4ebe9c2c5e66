package domain

import "errors"

// Control-flow sentinel errors matched with errors.Is at the
// swallow-points the stabilization core defines. None of these are
// ever raised as panics.
var (
	// ErrNodeIsDowned is returned by a PeerResolver/Peer call when the
	// remote node did not respond within its failure timeout, or
	// refused the connection outright. Most stabilization steps treat
	// a downed node as "try the next candidate" rather than a fatal
	// condition.
	ErrNodeIsDowned = errors.New("node is downed")

	// ErrAppropriateNodeNotFound is returned by a Router when a lookup
	// cannot find any node to answer for an id, typically because the
	// node has no live successor list entries left to route through.
	ErrAppropriateNodeNotFound = errors.New("appropriate node not found")

	// ErrTargetNodeDoesNotExist is returned when a remote call resolves
	// to the address of a node that has not finished joining the ring,
	// as distinct from being merely unreachable.
	ErrTargetNodeDoesNotExist = errors.New("target node does not exist")

	// ErrNoLiveSuccessor is the one fatal condition this core
	// recognizes: every entry of the successor list is down and no
	// live successor could be found to repair it. Invariant 1 (every
	// node has a non-nil, reachable successor) no longer holds and the
	// condition is propagated to the process supervisor instead of
	// swallowed.
	ErrNoLiveSuccessor = errors.New("no live successor remains in the successor list")
)
