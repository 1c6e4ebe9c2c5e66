package node

import (
	"sync"

	"chordstab/internal/domain"
)

// PendingJoin records a join attempt that failed because the mediator
// could not find an appropriate successor
// (domain.ErrAppropriateNodeNotFound), so the caller can retry it
// later with the same arguments.
type PendingJoin struct {
	Self     domain.Node
	Mediator string
}

// JoinRetrySlot is a process-wide single-slot retry record: only the
// most recent failed join is remembered, and a later failure silently
// overwrites an earlier one. It is an explicit struct owned by
// whoever drives joins (typically one per process), not a
// package-level global.
type JoinRetrySlot struct {
	mu      sync.Mutex
	pending *PendingJoin
}

// NewJoinRetrySlot returns an empty retry slot.
func NewJoinRetrySlot() *JoinRetrySlot {
	return &JoinRetrySlot{}
}

// Set latches a failed join for later retry, discarding any previously
// latched one.
func (s *JoinRetrySlot) Set(self domain.Node, mediatorAddr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &PendingJoin{Self: self, Mediator: mediatorAddr}
}

// Peek returns the currently latched retry request, if any, without
// clearing it.
func (s *JoinRetrySlot) Peek() (PendingJoin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingJoin{}, false
	}
	return *s.pending, true
}

// Take returns and clears the currently latched retry request, if any.
func (s *JoinRetrySlot) Take() (PendingJoin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingJoin{}, false
	}
	p := *s.pending
	s.pending = nil
	return p, true
}

// Clear discards any latched retry request.
func (s *JoinRetrySlot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}
