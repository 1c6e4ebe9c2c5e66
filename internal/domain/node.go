package domain

// Node identifies a participant on the ring: its position (ID) and the
// network address other nodes use to reach it.
type Node struct {
	ID   ID
	Addr string
}

// Equal reports whether two Node values refer to the same participant.
func (n Node) Equal(other Node) bool {
	return n.ID.Equal(other.ID) && n.Addr == other.Addr
}

// IsZero reports whether n is the unset Node value.
func (n Node) IsZero() bool {
	return n.ID == nil && n.Addr == ""
}
