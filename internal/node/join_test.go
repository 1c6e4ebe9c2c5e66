package node

import (
	"context"
	"testing"

	"chordstab/internal/domain"
)

func TestTwoNodeJoin(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	a := newMember(t, net, space, "node-a")
	a.n.CreateNewDHT()

	b := newMember(t, net, space, "node-b")
	if err := b.n.Join(ctx, "node-a"); err != nil {
		t.Fatalf("join: %v", err)
	}

	bSelf := b.n.Self()
	aSelf := a.n.Self()

	if got := a.n.RoutingTable().FirstSuccessor(); got == nil || !got.ID.Equal(bSelf.ID) {
		t.Fatalf("mediator successor not wired to joiner: got %v", got)
	}
	if got := a.n.RoutingTable().GetFinger(0); got == nil || !got.ID.Equal(bSelf.ID) {
		t.Fatalf("mediator finger[0] not wired to joiner: got %v", got)
	}
	if got := b.n.RoutingTable().FirstSuccessor(); got == nil || !got.ID.Equal(aSelf.ID) {
		t.Fatalf("joiner successor not wired to mediator: got %v", got)
	}
	if got := b.n.RoutingTable().GetPredecessor(); got == nil || !got.ID.Equal(aSelf.ID) {
		t.Fatalf("joiner predecessor not wired to mediator: got %v", got)
	}
	if got := a.n.RoutingTable().GetPredecessor(); got == nil || !got.ID.Equal(bSelf.ID) {
		t.Fatalf("mediator predecessor not wired to joiner: got %v", got)
	}
}

func TestThirdNodeBetweenJoin(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	a := newMember(t, net, space, "alpha")
	a.n.CreateNewDHT()
	b := newMember(t, net, space, "beta")
	if err := b.n.Join(ctx, "alpha"); err != nil {
		t.Fatalf("b join: %v", err)
	}

	// Seed data on whichever of a/b currently owns it so the
	// third join below has something to delegate.
	aID := a.n.Self().ID
	bID := b.n.Self().ID
	var owner *memberNode
	key := space.NewIdFromString("some-resource")
	if key.Between(bID, aID) {
		owner = a
	} else {
		owner = b
	}
	owner.store.StoreNew(key, "some-resource", "v1", nil)

	c := newMember(t, net, space, "gamma")
	if err := c.n.Join(ctx, "alpha"); err != nil {
		t.Fatalf("c join: %v", err)
	}

	// Every node's successor list must only reference registered peers.
	for _, m := range []*memberNode{a, b, c} {
		for _, s := range m.n.RoutingTable().SuccessorList() {
			if _, err := net.Resolve(ctx, s.Addr); err != nil {
				t.Fatalf("node %s has dangling successor %s: %v", m.n.Self().Addr, s.Addr, err)
			}
		}
	}

	cSelf := c.n.Self()
	pred := c.n.RoutingTable().GetPredecessor()
	if pred == nil {
		t.Fatalf("joiner has no predecessor after general-case join")
	}
	if pred.ID.Equal(cSelf.ID) {
		t.Fatalf("joiner adopted itself as predecessor")
	}
}

func TestJoinLatchesRetryWhenNoSuccessorFound(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	newMember(t, net, space, "solo")
	// Deliberately do not call CreateNewDHT: a has no predecessor, so
	// FindSuccessor's linear scan finds no owner and reports
	// ErrAppropriateNodeNotFound.

	b := newMember(t, net, space, "joiner")
	if err := b.n.Join(ctx, "solo"); err != nil {
		t.Fatalf("join should latch rather than error: %v", err)
	}

	pending, ok := b.n.RetrySlot().Peek()
	if !ok {
		t.Fatalf("expected a latched retry request")
	}
	if pending.Mediator != "solo" {
		t.Fatalf("unexpected latched mediator: %q", pending.Mediator)
	}
}

func TestAdoptAsSuccessorNoopWhenNotAlone(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	a := newMember(t, net, space, "one")
	a.n.CreateNewDHT()
	b := newMember(t, net, space, "two")
	if err := b.n.Join(ctx, "one"); err != nil {
		t.Fatalf("join: %v", err)
	}

	// a is no longer alone; a third node forcing AdoptAsSuccessor on it
	// must be rejected so it cannot clobber a's real successor.
	intruder := domain.Node{ID: space.NewIdFromString("intruder"), Addr: "intruder"}
	before := a.n.RoutingTable().FirstSuccessor()
	if err := a.n.AdoptAsSuccessor(ctx, intruder); err != nil {
		t.Fatalf("adopt_as_successor: %v", err)
	}
	after := a.n.RoutingTable().FirstSuccessor()
	if !after.ID.Equal(before.ID) {
		t.Fatalf("adopt_as_successor mutated a non-alone node's successor: before=%v after=%v", before, after)
	}
}
