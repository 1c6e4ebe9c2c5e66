package rpcx

import "chordstab/internal/domain"

// ToNodeMsg converts a domain.Node into its wire form.
func ToNodeMsg(n domain.Node) NodeMsg {
	return NodeMsg{ID: []byte(n.ID), Addr: n.Addr}
}

// FromNodeMsg converts a wire NodeMsg back into a domain.Node.
func FromNodeMsg(m NodeMsg) domain.Node {
	return domain.Node{ID: domain.ID(m.ID), Addr: m.Addr}
}

// ToNodeResponse builds a NodeResponse from a possibly-nil *domain.Node.
func ToNodeResponse(n *domain.Node) *NodeResponse {
	if n == nil {
		return &NodeResponse{Present: false}
	}
	return &NodeResponse{Present: true, Node: ToNodeMsg(*n)}
}

// FromNodeResponse is the inverse of ToNodeResponse.
func FromNodeResponse(r *NodeResponse) *domain.Node {
	if r == nil || !r.Present {
		return nil
	}
	n := FromNodeMsg(r.Node)
	return &n
}

// ToKeyValueMsg converts a domain.KeyValue into its wire form.
func ToKeyValueMsg(kv domain.KeyValue) KeyValueMsg {
	return KeyValueMsg{Key: []byte(kv.Key), RawKey: kv.RawKey, Value: kv.Value}
}

// FromKeyValueMsg converts a wire KeyValueMsg back into a domain.KeyValue.
func FromKeyValueMsg(m KeyValueMsg) domain.KeyValue {
	return domain.KeyValue{Key: domain.ID(m.Key), RawKey: m.RawKey, Value: m.Value}
}

// ToKeyValueMsgs converts a slice of domain.KeyValue.
func ToKeyValueMsgs(items []domain.KeyValue) []KeyValueMsg {
	out := make([]KeyValueMsg, len(items))
	for i, kv := range items {
		out[i] = ToKeyValueMsg(kv)
	}
	return out
}

// FromKeyValueMsgs converts a slice of wire KeyValueMsg.
func FromKeyValueMsgs(items []KeyValueMsg) []domain.KeyValue {
	out := make([]domain.KeyValue, len(items))
	for i, m := range items {
		out[i] = FromKeyValueMsg(m)
	}
	return out
}

// ToReplicaSets converts a replica snapshot into its wire list form.
func ToReplicaSets(sets []domain.ReplicaBundle) []ReplicaSetMsg {
	out := make([]ReplicaSetMsg, 0, len(sets))
	for _, bundle := range sets {
		out = append(out, ReplicaSetMsg{Master: ToNodeMsg(bundle.Master), Items: ToKeyValueMsgs(bundle.Items)})
	}
	return out
}

// FromReplicaSets is the inverse of ToReplicaSets.
func FromReplicaSets(sets []ReplicaSetMsg) []domain.ReplicaBundle {
	out := make([]domain.ReplicaBundle, 0, len(sets))
	for _, rs := range sets {
		out = append(out, domain.ReplicaBundle{Master: FromNodeMsg(rs.Master), Items: FromKeyValueMsgs(rs.Items)})
	}
	return out
}
