package routingtable

import (
	"chordstab/internal/domain"
	"chordstab/internal/logger"
	"fmt"
	"sync"
)

// routingEntry holds a single node pointer behind its own lock, so
// readers and writers of different slots never contend with each
// other.
type routingEntry struct {
	node *domain.Node
	mu   sync.RWMutex
}

// RoutingTable holds the ring-position state of a single node: its
// successor list (for fault tolerance), its predecessor, and its
// finger table (for logarithmic routing). It is owned by one node
// (self) and mutated only through the stabilization protocols.
type RoutingTable struct {
	logger        logger.Logger
	space         domain.Space
	self          *domain.Node
	successorList []*routingEntry // fixed length succListSize
	succListSize  int
	predecessor   *routingEntry
	fingerTable   []*routingEntry // fixed length space.Bits
}

// New creates a RoutingTable for self, with an empty successor list,
// no predecessor, and an empty finger table. Call InitSingleNode to
// bootstrap a brand-new ring, or Join to attach to an existing one.
func New(self *domain.Node, space domain.Space, succListSize int, opts ...Option) *RoutingTable {
	rt := &RoutingTable{
		self:          self,
		space:         space,
		successorList: make([]*routingEntry, succListSize),
		succListSize:  succListSize,
		predecessor:   &routingEntry{},
		fingerTable:   make([]*routingEntry, space.Bits),
		logger:        &logger.NopLogger{},
	}
	for i := range rt.successorList {
		rt.successorList[i] = &routingEntry{}
	}
	for i := range rt.fingerTable {
		rt.fingerTable[i] = &routingEntry{}
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.logger.Debug("routing table initialized")
	return rt
}

// InitSingleNode configures the routing table to represent a
// single-node ring: every successor slot, the predecessor, and finger
// 0 all point to self. Used when bootstrapping a brand-new ring.
func (rt *RoutingTable) InitSingleNode() {
	rt.successorList[0] = &routingEntry{node: rt.self}
	rt.predecessor = &routingEntry{node: rt.self}
	rt.fingerTable[0] = &routingEntry{node: rt.self}
	rt.logger.Debug("routing table set to single-node ring")
}

// Space returns the identifier space configuration.
func (rt *RoutingTable) Space() domain.Space {
	return rt.space
}

// Self returns the local node owning this routing table.
func (rt *RoutingTable) Self() *domain.Node {
	return rt.self
}

// SuccListSize returns the configured size of the successor list.
func (rt *RoutingTable) SuccListSize() int {
	return rt.succListSize
}

// GetSuccessor returns the i-th successor, or nil if unset or i is
// out of range.
func (rt *RoutingTable) GetSuccessor(i int) *domain.Node {
	if i < 0 || i >= len(rt.successorList) {
		rt.logger.Warn("GetSuccessor: index out of range",
			logger.F("requested", i), logger.F("valid_range", fmt.Sprintf("[0..%d]", len(rt.successorList)-1)))
		return nil
	}
	entry := rt.successorList[i]
	entry.mu.RLock()
	node := entry.node
	entry.mu.RUnlock()
	return node
}

// FirstSuccessor is a convenience wrapper for GetSuccessor(0).
func (rt *RoutingTable) FirstSuccessor() *domain.Node {
	return rt.GetSuccessor(0)
}

// SetSuccessor updates the i-th successor entry.
func (rt *RoutingTable) SetSuccessor(i int, node *domain.Node) {
	if i < 0 || i >= len(rt.successorList) {
		rt.logger.Warn("SetSuccessor: index out of range",
			logger.F("requested", i), logger.F("valid_range", fmt.Sprintf("[0..%d]", len(rt.successorList)-1)))
		return
	}
	entry := rt.successorList[i]
	entry.mu.Lock()
	entry.node = node
	entry.mu.Unlock()
	rt.logger.Debug("SetSuccessor: updated", logger.F("index", i), logger.FNode("successor", node))
}

// SuccessorList returns a snapshot of every non-nil entry in the
// successor list, in order, as a plain slice callers may freely
// modify.
func (rt *RoutingTable) SuccessorList() []*domain.Node {
	out := make([]*domain.Node, 0, len(rt.successorList))
	for _, entry := range rt.successorList {
		entry.mu.RLock()
		node := entry.node
		entry.mu.RUnlock()
		if node != nil {
			out = append(out, node)
		}
	}
	return out
}

// SetSuccessorList replaces the whole successor list. The input must
// have exactly SuccListSize() elements; entries may be nil.
func (rt *RoutingTable) SetSuccessorList(nodes []*domain.Node) {
	if len(nodes) != len(rt.successorList) {
		rt.logger.Warn("SetSuccessorList: length mismatch",
			logger.F("expected", len(rt.successorList)), logger.F("got", len(nodes)))
		return
	}
	for i, node := range nodes {
		rt.SetSuccessor(i, node)
	}
	rt.logger.Debug("SetSuccessorList: updated", logger.F("count", len(nodes)))
}

// PromoteCandidate restructures the successor list by promoting the
// entry at index i to position 0: entries before i are discarded,
// entries after i keep their relative order, and the list is padded
// with nils back up to its configured size.
func (rt *RoutingTable) PromoteCandidate(i int) {
	if i <= 0 || i >= rt.succListSize {
		rt.logger.Warn("PromoteCandidate: invalid index",
			logger.F("requested", i), logger.F("valid_range", fmt.Sprintf("[1..%d]", rt.succListSize-1)))
		return
	}
	candidate := rt.GetSuccessor(i)
	if candidate == nil {
		rt.logger.Warn("PromoteCandidate: candidate is nil", logger.F("index", i))
		return
	}
	newList := make([]*domain.Node, 0, rt.succListSize)
	newList = append(newList, candidate)
	for j := i + 1; j < rt.succListSize; j++ {
		if succ := rt.GetSuccessor(j); succ != nil {
			newList = append(newList, succ)
		}
	}
	for len(newList) < rt.succListSize {
		newList = append(newList, nil)
	}
	rt.SetSuccessorList(newList)
	rt.logger.Debug("PromoteCandidate: successor promoted", logger.F("from_index", i), logger.FNode("candidate", candidate))
}

// GetPredecessor returns the current predecessor, or nil if unset.
func (rt *RoutingTable) GetPredecessor() *domain.Node {
	rt.predecessor.mu.RLock()
	node := rt.predecessor.node
	rt.predecessor.mu.RUnlock()
	return node
}

// SetPredecessor updates the predecessor pointer.
func (rt *RoutingTable) SetPredecessor(node *domain.Node) {
	rt.predecessor.mu.Lock()
	rt.predecessor.node = node
	rt.predecessor.mu.Unlock()
	rt.logger.Debug("SetPredecessor: updated", logger.FNode("predecessor", node))
}

// GetFinger returns the node stored at finger table slot i, or nil if
// unset or i is out of range.
func (rt *RoutingTable) GetFinger(i int) *domain.Node {
	if i < 0 || i >= len(rt.fingerTable) {
		rt.logger.Warn("GetFinger: index out of range",
			logger.F("requested", i), logger.F("valid_range", fmt.Sprintf("[0..%d]", len(rt.fingerTable)-1)))
		return nil
	}
	entry := rt.fingerTable[i]
	entry.mu.RLock()
	node := entry.node
	entry.mu.RUnlock()
	return node
}

// SetFinger updates finger table slot i. A nil node clears the slot,
// matching the spec's behavior when a finger refresh's FindSuccessor
// call reports AppropriateNodeNotFound.
func (rt *RoutingTable) SetFinger(i int, node *domain.Node) {
	if i < 0 || i >= len(rt.fingerTable) {
		rt.logger.Warn("SetFinger: index out of range",
			logger.F("requested", i), logger.F("valid_range", fmt.Sprintf("[0..%d]", len(rt.fingerTable)-1)))
		return
	}
	entry := rt.fingerTable[i]
	entry.mu.Lock()
	entry.node = node
	entry.mu.Unlock()
	rt.logger.Debug("SetFinger: updated", logger.F("index", i), logger.FNode("finger", node))
}

// FingerTableSize returns the number of finger table slots (== space.Bits).
func (rt *RoutingTable) FingerTableSize() int {
	return len(rt.fingerTable)
}

// DebugLog emits a single structured DEBUG-level snapshot of the whole
// routing table: self, predecessor, successor list and finger table.
// Reads are all taken directly under each entry's own lock so this
// produces one compact log line without recursing into the other
// logging getters.
func (rt *RoutingTable) DebugLog() {
	rt.predecessor.mu.RLock()
	pred := rt.predecessor.node
	rt.predecessor.mu.RUnlock()

	successors := make([]map[string]any, 0, len(rt.successorList))
	for i, entry := range rt.successorList {
		entry.mu.RLock()
		node := entry.node
		entry.mu.RUnlock()
		successors = append(successors, nodeLogEntry(i, node))
	}

	fingers := make([]map[string]any, 0, len(rt.fingerTable))
	for i, entry := range rt.fingerTable {
		entry.mu.RLock()
		node := entry.node
		entry.mu.RUnlock()
		fingers = append(fingers, nodeLogEntry(i, node))
	}

	rt.logger.Debug("routing table snapshot",
		logger.FNode("self", rt.self),
		logger.FNode("predecessor", pred),
		logger.F("successors", successors),
		logger.F("fingers", fingers),
	)
}

func nodeLogEntry(index int, node *domain.Node) map[string]any {
	if node == nil {
		return map[string]any{"index": index, "node": nil}
	}
	return map[string]any{"index": index, "id": node.ID.ToHexString(false), "addr": node.Addr}
}
