package domain

import "errors"

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrNotResponsible   = errors.New("node not responsible for the given key")
)

// KeyValue is a single item stored in the ring: a key identifier, its
// original raw form (useful for logging and debugging), and the value.
type KeyValue struct {
	Key    ID
	RawKey string
	Value  string
}

// Resource is retained as an alias of KeyValue for call sites carried
// over from earlier code that spoke of "resources" rather than
// key/value items; both names denote the same stored item.
type Resource = KeyValue

// ReplicaBundle is one master's replica set: the items a node holds
// as a shadow copy on master's behalf. A plain slice of bundles is
// used everywhere a full replica snapshot is exchanged (rather than
// map[Node][]KeyValue) since Node embeds a byte-slice ID and so is not
// a valid map key type.
type ReplicaBundle struct {
	Master Node
	Items  []KeyValue
}
