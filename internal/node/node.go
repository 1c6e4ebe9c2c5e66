package node

import (
	"context"
	"time"

	"chordstab/internal/domain"
	"chordstab/internal/logger"
	"chordstab/internal/routingtable"
)

// PeerResolver turns a node address into a live Peer, or reports it
// down. In production it is a gRPC dialer over a connection pool; in
// tests it is a map of fakes.
type PeerResolver interface {
	// Resolve returns a Peer for addr. It returns domain.ErrNodeIsDowned
	// if the address is known but unreachable, or
	// domain.ErrTargetNodeDoesNotExist if the address refers to a node
	// that has not finished joining.
	Resolve(ctx context.Context, addr string) (Peer, error)
	// IsAlive is a best-effort liveness probe used where a caller only
	// needs a boolean, not a usable Peer.
	IsAlive(ctx context.Context, addr string) bool
}

// Peer is a remote node as seen by the stabilization core: every
// capability the core invokes on some other node in the ring.
type Peer interface {
	Addr() string
	ID() domain.ID
	CheckPredecessor(ctx context.Context, candidate domain.Node) error
	// AdoptAsSuccessor forces the callee to install candidate as
	// successor_list[0] and finger[0] when the callee is currently
	// alone on the ring. Used only by the two-node join special case,
	// as an explicit, narrowly-scoped RPC rather than a side effect of
	// some other operation.
	AdoptAsSuccessor(ctx context.Context, candidate domain.Node) error
	// InsertSuccessor splices candidate into the callee's
	// successor_list[0], shifting the rest of the list down by one.
	// Used by a joining node to insert itself into its new successor's
	// old predecessor's list without reaching into that node's routing
	// table directly.
	InsertSuccessor(ctx context.Context, candidate domain.Node) error
	GetPredecessor(ctx context.Context) (*domain.Node, error)
	GetSuccessorList(ctx context.Context) ([]domain.Node, error)
	DelegateOwnedData(ctx context.Context, newOwner domain.ID, force bool) ([]domain.KeyValue, error)
	ReceiveReplica(ctx context.Context, master domain.Node, items []domain.KeyValue, replaceAll bool) error
	DeleteReplica(ctx context.Context, master domain.Node) error
	PassOwnedForReplication(ctx context.Context) ([]domain.KeyValue, error)
	PassAllReplica(ctx context.Context) ([]domain.ReplicaBundle, error)
	// CheckReplicationRedundancy asks the callee to re-run its trim
	// pass, dropping replica sets whose master is no longer within its
	// successor list. Called by a joining node on its new predecessor
	// after insertion, since the predecessor's successor list just grew.
	CheckReplicationRedundancy(ctx context.Context) error

	// StoreOwned stores kv as a primary item at the remote peer. Used
	// by ownership repair to migrate an item that has drifted outside
	// this node's range to the node now responsible for it.
	StoreOwned(ctx context.Context, kv domain.KeyValue) error
}

// Router resolves the node currently responsible for an id. Its
// internal routing strategy (finger-table walk, linear scan, whatever)
// is deliberately out of the stabilization core's concern.
type Router interface {
	// FindSuccessor returns domain.ErrAppropriateNodeNotFound if no live
	// node could be located.
	FindSuccessor(ctx context.Context, id domain.ID) (domain.Node, error)
}

// DataStore is the local key-value store backing this node's primary
// range and the replicas it shadows for its predecessor and
// successors.
type DataStore interface {
	DelegateOwnedData(newOwner domain.ID, force bool) []domain.KeyValue
	StoreNew(id domain.ID, rawKey, value string, master *domain.Node)
	ReceiveReplica(master domain.Node, items []domain.KeyValue, replaceAll bool)
	DeleteReplica(master domain.Node)
	OwnedForReplication() []domain.KeyValue
	AllReplica() []domain.ReplicaBundle
	StoreReplicaOfSeveralMasters(sets []domain.ReplicaBundle)
	ReplicaByMaster(masterID domain.ID) []domain.KeyValue

	// Delete removes an owned item by id. Used by the ownership-repair
	// maintenance pass to drop items that have drifted to another
	// node's primary range.
	Delete(id domain.ID) error
}

// Node owns one position on the ring: its routing table, its local
// data store, and the collaborators it reaches the rest of the ring
// through. All mutation of rt and s happens under rt's own locking;
// Node itself adds no further lock, since routing table entries each
// guard their own slot and the worker loop below serializes the
// stabilization ticks onto a single goroutine.
type Node struct {
	lgr      logger.Logger
	rt       *routingtable.RoutingTable
	s        DataStore
	resolver PeerResolver
	router   Router
	retry    *JoinRetrySlot

	failureTimeout time.Duration
}

// New creates a Node wired to its routing table, store, peer resolver
// and router. A fresh JoinRetrySlot is allocated; callers that want to
// share one slot across several node lifetimes can override it with
// WithRetrySlot.
func New(rt *routingtable.RoutingTable, s DataStore, resolver PeerResolver, router Router, opts ...Option) *Node {
	n := &Node{
		rt:             rt,
		s:              s,
		resolver:       resolver,
		router:         router,
		retry:          NewJoinRetrySlot(),
		failureTimeout: 2 * time.Second,
		lgr:            &logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Self returns this node's own identity.
func (n *Node) Self() *domain.Node {
	return n.rt.Self()
}

// Space returns the identifier space configuration.
func (n *Node) Space() domain.Space {
	return n.rt.Space()
}

// RoutingTable exposes the underlying routing table for read-only
// inspection (operator CLI, tests).
func (n *Node) RoutingTable() *routingtable.RoutingTable {
	return n.rt
}

// RetrySlot exposes the join retry slot so a supervisor can poll it
// and re-drive Join.
func (n *Node) RetrySlot() *JoinRetrySlot {
	return n.retry
}

func (n *Node) ctxTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, n.failureTimeout)
}
