package storage

import (
	"errors"

	"chordstab/internal/domain"
)

// ErrNotFound is returned when a lookup finds no item for the given key.
var ErrNotFound = errors.New("key not found")

// DataStore is the contract the stabilization core and the exposed
// replication operations rely on. Owned items are this node's primary
// copies; replica items are copies of some other node's owned data,
// tagged by the Node that owns them ("the master").
type DataStore interface {
	// DelegateOwnedData removes and returns every owned item that now
	// belongs to newOwner instead of this node (id <= newOwner, per the
	// ring's (pred, id] ownership rule), or every owned item
	// unconditionally when force is true. Used during join, when a new
	// node inserts itself between this node and its former predecessor.
	DelegateOwnedData(newOwner domain.ID, force bool) []domain.KeyValue

	// StoreNew inserts an owned item (master == nil) or a replica item
	// tagged with the given master.
	StoreNew(id domain.ID, rawKey, value string, master *domain.Node)

	// ReceiveReplica stores items as replicas tagged by master. When
	// replaceAll is true, any previous replica set held for that master
	// is discarded first.
	ReceiveReplica(master domain.Node, items []domain.KeyValue, replaceAll bool)

	// DeleteReplica discards every replica item tagged with master.
	DeleteReplica(master domain.Node)

	// OwnedForReplication returns a snapshot of this node's owned
	// items, to be pushed to a replication target.
	OwnedForReplication() []domain.KeyValue

	// AllReplica returns a snapshot of every replica set this node
	// holds, one bundle per master.
	AllReplica() []domain.ReplicaBundle

	// StoreReplicaOfSeveralMasters merges in replica sets for several
	// masters at once, replacing each master's existing set.
	StoreReplicaOfSeveralMasters(sets []domain.ReplicaBundle)

	// ReplicaByMaster returns the replica set held for the given
	// master id, if any.
	ReplicaByMaster(masterID domain.ID) []domain.KeyValue

	// Put/Get/Delete operate on owned data by key, for the (non-core)
	// client-facing surface.
	Put(id domain.ID, rawKey, value string)
	Get(id domain.ID) (domain.KeyValue, error)
	Delete(id domain.ID) error

	// DebugLog emits a structured snapshot of the store's contents.
	DebugLog()
}
