package node

import (
	"context"
	"errors"
	"testing"

	"chordstab/internal/domain"
)

// ring builds a small ring of n nodes by joining them one at a time
// through the first node, then runs one settling pass of
// stabilizeSuccessor on every member so successor lists converge.
func ring(t *testing.T, net *fakeNetwork, space domain.Space, addrs []string) []*memberNode {
	t.Helper()
	ctx := context.Background()

	members := make([]*memberNode, len(addrs))
	members[0] = newMember(t, net, space, addrs[0])
	members[0].n.CreateNewDHT()
	for i := 1; i < len(addrs); i++ {
		m := newMember(t, net, space, addrs[i])
		if err := m.n.Join(ctx, addrs[0]); err != nil {
			t.Fatalf("join %s: %v", addrs[i], err)
		}
		members[i] = m
	}

	for pass := 0; pass < 3; pass++ {
		for _, m := range members {
			if err := m.n.stabilizeSuccessor(ctx); err != nil {
				t.Fatalf("stabilizeSuccessor settling pass: %v", err)
			}
		}
	}
	return members
}

func TestSuccessorFailureAndPromotion(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	members := ring(t, net, space, []string{"r0", "r1", "r2", "r3"})

	// Find the node whose first successor is r1, to exercise promotion.
	var victim *memberNode
	for _, m := range members {
		if s := m.n.RoutingTable().FirstSuccessor(); s != nil && s.Addr == "r1" {
			victim = m
			break
		}
	}
	if victim == nil {
		t.Fatalf("no node has r1 as its first successor: ring did not converge as expected")
	}

	net.setDown("r1", true)

	if err := victim.n.stabilizeSuccessor(ctx); err != nil {
		t.Fatalf("stabilizeSuccessor after failure: %v", err)
	}

	newSucc := victim.n.RoutingTable().FirstSuccessor()
	if newSucc == nil {
		t.Fatalf("victim lost its successor entirely")
	}
	if newSucc.Addr == "r1" {
		t.Fatalf("victim still points at the downed node")
	}
}

func TestNoLiveSuccessorIsFatal(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	members := ring(t, net, space, []string{"s0", "s1"})
	// With only two nodes and a successor list of size 3, s0's list is
	// [s1, nil, nil]. Bring s1 down: no live successor remains.
	net.setDown("s1", true)

	_, err := members[0].n.stabilizeSuccessorInner(ctx)
	if !errors.Is(err, domain.ErrNoLiveSuccessor) {
		t.Fatalf("expected ErrNoLiveSuccessor, got %v", err)
	}
}

func TestCheckPredecessorAdoptsTighterCandidate(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	a := newMember(t, net, space, "pa")
	a.n.CreateNewDHT()
	c := newMember(t, net, space, "pc")
	c.n.Join(ctx, "pa")

	// Now introduce a node that sits strictly between a's current
	// predecessor (none yet distinguishing) and a: check_predecessor
	// should adopt it if it is tighter than whatever a currently has.
	bCandidate := domain.Node{ID: space.NewIdFromString("pb"), Addr: "pb"}
	before := a.n.RoutingTable().GetPredecessor()

	if err := a.n.CheckPredecessor(ctx, bCandidate); err != nil {
		t.Fatalf("check_predecessor: %v", err)
	}

	after := a.n.RoutingTable().GetPredecessor()
	if after == nil {
		t.Fatalf("predecessor cleared unexpectedly")
	}

	selfID := a.n.Self().ID
	distBefore := space.DistLeft(selfID, before.ID)
	distCandidate := space.DistLeft(selfID, bCandidate.ID)
	if distCandidate.Cmp(distBefore) < 0 {
		if !after.ID.Equal(bCandidate.ID) {
			t.Fatalf("expected tighter candidate to be adopted, got %v", after)
		}
	} else {
		if !after.ID.Equal(before.ID) {
			t.Fatalf("expected existing predecessor to be kept, got %v", after)
		}
	}
}

func TestCheckPredecessorAdoptsWhenCurrentIsDown(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	a := newMember(t, net, space, "da")
	a.n.CreateNewDHT()
	b := newMember(t, net, space, "db")
	b.n.Join(ctx, "da")

	// a's predecessor is now b. Bring b down and offer a new candidate:
	// it must be adopted unconditionally regardless of distance.
	net.setDown("db", true)

	farCandidate := domain.Node{ID: space.NewIdFromString("far-node"), Addr: "dc"}
	// Register dc so a later Resolve (if any) would succeed; not
	// strictly required for CheckPredecessor itself.
	newMember(t, net, space, "dc")

	if err := a.n.CheckPredecessor(ctx, farCandidate); err != nil {
		t.Fatalf("check_predecessor: %v", err)
	}
	got := a.n.RoutingTable().GetPredecessor()
	if got == nil || !got.ID.Equal(farCandidate.ID) {
		t.Fatalf("expected unconditional adoption of candidate while old predecessor is down, got %v", got)
	}
}

func TestStabilizeFingerTableRefreshesSlot(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	members := ring(t, net, space, []string{"f0", "f1", "f2", "f3"})

	for idx := 0; idx < space.Bits; idx++ {
		members[0].n.stabilizeFingerTable(ctx, idx)
	}

	finger0 := members[0].n.RoutingTable().GetFinger(0)
	if finger0 == nil {
		t.Fatalf("finger[0] was not populated")
	}
	if _, err := net.Resolve(ctx, finger0.Addr); err != nil {
		t.Fatalf("finger[0] points at an unregistered address: %v", err)
	}
}

func TestStabilizeFingerTableClearsSlotWhenNoTargetFound(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	solo := newMember(t, net, space, "lonely")
	// No CreateNewDHT: no predecessor means every FindSuccessor lookup
	// reports ErrAppropriateNodeNotFound, so the slot should clear.
	solo.n.RoutingTable().SetFinger(3, &domain.Node{ID: space.NewIdFromString("stale"), Addr: "stale"})

	solo.n.stabilizeFingerTable(ctx, 3)

	if got := solo.n.RoutingTable().GetFinger(3); got != nil {
		t.Fatalf("expected finger[3] to be cleared, got %v", got)
	}
}

func TestCheckReplicationRedundancyTrimsDuplicates(t *testing.T) {
	ctx := context.Background()
	space := testSpace()
	net := newFakeNetwork()

	a := newMember(t, net, space, "xa")
	a.n.CreateNewDHT()
	newMember(t, net, space, "xb")

	dupNode := &domain.Node{ID: space.NewIdFromString("xb"), Addr: "xb"}
	list := make([]*domain.Node, a.n.RoutingTable().SuccListSize())
	list[0] = dupNode
	list[1] = dupNode
	a.n.RoutingTable().SetSuccessorList(list)

	a.n.CheckReplicationRedundancy(ctx)

	trimmed := a.n.RoutingTable().SuccessorList()
	if len(trimmed) != 1 {
		t.Fatalf("expected duplicate entries collapsed to one, got %d entries: %v", len(trimmed), trimmed)
	}
}
