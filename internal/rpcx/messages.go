package rpcx

// Every message below is the gob-encoded wire shape of one RPC's
// request or response. Field names are exported so gob can see them;
// there is otherwise no schema beyond this file.

// NodeMsg is the wire form of domain.Node.
type NodeMsg struct {
	ID   []byte
	Addr string
}

// KeyValueMsg is the wire form of domain.KeyValue.
type KeyValueMsg struct {
	Key    []byte
	RawKey string
	Value  string
}

// ReplicaSetMsg is one master's replica set, as exchanged by
// PassAllReplica: a flat list of {master, items} pairs rather than a
// map, since a struct containing a []byte field cannot be a map key.
type ReplicaSetMsg struct {
	Master NodeMsg
	Items  []KeyValueMsg
}

// Empty is the request/response shape for RPCs with no payload.
type Empty struct{}

// IdentifyResponse answers "who are you": a node's own identity, used
// by the client side to learn a peer's ID from just its address.
type IdentifyResponse struct {
	Self NodeMsg
}

// CheckPredecessorRequest carries the candidate predecessor being
// offered to the callee.
type CheckPredecessorRequest struct {
	Candidate NodeMsg
}

// AdoptAsSuccessorRequest carries the candidate being forced onto the
// callee's successor_list[0]/finger[0].
type AdoptAsSuccessorRequest struct {
	Candidate NodeMsg
}

// InsertSuccessorRequest carries the candidate being spliced into the
// callee's successor_list[0], shifting the existing list down by one.
type InsertSuccessorRequest struct {
	Candidate NodeMsg
}

// NodeResponse wraps a possibly-absent domain.Node (Present=false
// means "no predecessor known yet").
type NodeResponse struct {
	Present bool
	Node    NodeMsg
}

// NodeListResponse carries an ordered node list (a successor list).
type NodeListResponse struct {
	Nodes []NodeMsg
}

// DelegateOwnedDataRequest asks the callee to hand over primary items
// that now belong to NewOwner (or everything, if Force).
type DelegateOwnedDataRequest struct {
	NewOwner []byte
	Force    bool
}

// KeyValueListResponse carries a batch of items.
type KeyValueListResponse struct {
	Items []KeyValueMsg
}

// ReceiveReplicaRequest pushes a replica batch tagged by Master.
type ReceiveReplicaRequest struct {
	Master     NodeMsg
	Items      []KeyValueMsg
	ReplaceAll bool
}

// DeleteReplicaRequest asks the callee to drop the replica set tagged
// by Master.
type DeleteReplicaRequest struct {
	Master NodeMsg
}

// AllReplicaResponse carries every replica set the callee holds.
type AllReplicaResponse struct {
	Sets []ReplicaSetMsg
}

// StoreOwnedRequest asks the callee to store Item as a primary item.
type StoreOwnedRequest struct {
	Item KeyValueMsg
}

// FindSuccessorRequest asks the callee to resolve the node responsible
// for ID.
type FindSuccessorRequest struct {
	ID []byte
}

// HandleLeaveRequest informs the callee that Leaving is departing the
// ring.
type HandleLeaveRequest struct {
	Leaving NodeMsg
}
