package routingtable

import (
	"testing"

	"chordstab/internal/domain"
)

func testSpace(t *testing.T) domain.Space {
	t.Helper()
	sp, err := domain.NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	return sp
}

func TestInitSingleNode(t *testing.T) {
	sp := testSpace(t)
	self := &domain.Node{ID: sp.FromUint64(1), Addr: "n1:7000"}
	rt := New(self, sp, 3)
	rt.InitSingleNode()

	if got := rt.FirstSuccessor(); got == nil || !got.Equal(*self) {
		t.Errorf("FirstSuccessor = %v, want self", got)
	}
	if got := rt.GetPredecessor(); got == nil || !got.Equal(*self) {
		t.Errorf("GetPredecessor = %v, want self", got)
	}
	if got := rt.GetFinger(0); got == nil || !got.Equal(*self) {
		t.Errorf("GetFinger(0) = %v, want self", got)
	}
}

func TestSuccessorListRoundTrip(t *testing.T) {
	sp := testSpace(t)
	self := &domain.Node{ID: sp.FromUint64(1), Addr: "n1:7000"}
	rt := New(self, sp, 3)

	n2 := &domain.Node{ID: sp.FromUint64(2), Addr: "n2:7000"}
	n3 := &domain.Node{ID: sp.FromUint64(3), Addr: "n3:7000"}
	rt.SetSuccessorList([]*domain.Node{n2, n3, nil})

	list := rt.SuccessorList()
	if len(list) != 2 {
		t.Fatalf("SuccessorList len = %d, want 2", len(list))
	}
	if !list[0].Equal(*n2) || !list[1].Equal(*n3) {
		t.Errorf("SuccessorList = %+v, want [n2, n3]", list)
	}
}

func TestPromoteCandidate(t *testing.T) {
	sp := testSpace(t)
	self := &domain.Node{ID: sp.FromUint64(1), Addr: "n1:7000"}
	rt := New(self, sp, 3)

	n2 := &domain.Node{ID: sp.FromUint64(2), Addr: "n2:7000"}
	n3 := &domain.Node{ID: sp.FromUint64(3), Addr: "n3:7000"}
	rt.SetSuccessorList([]*domain.Node{nil, n2, n3})

	rt.PromoteCandidate(1)

	if got := rt.GetSuccessor(0); got == nil || !got.Equal(*n2) {
		t.Errorf("after promote, successor 0 = %v, want n2", got)
	}
	if got := rt.GetSuccessor(1); got == nil || !got.Equal(*n3) {
		t.Errorf("after promote, successor 1 = %v, want n3", got)
	}
	if got := rt.GetSuccessor(2); got != nil {
		t.Errorf("after promote, successor 2 = %v, want nil", got)
	}
}

func TestPromoteCandidateRejectsInvalidIndex(t *testing.T) {
	sp := testSpace(t)
	self := &domain.Node{ID: sp.FromUint64(1), Addr: "n1:7000"}
	rt := New(self, sp, 3)
	n2 := &domain.Node{ID: sp.FromUint64(2), Addr: "n2:7000"}
	rt.SetSuccessorList([]*domain.Node{n2, nil, nil})

	rt.PromoteCandidate(0)
	if got := rt.GetSuccessor(0); got == nil || !got.Equal(*n2) {
		t.Errorf("PromoteCandidate(0) should be a no-op, successor 0 = %v", got)
	}
}

func TestFingerTableSize(t *testing.T) {
	sp := testSpace(t)
	self := &domain.Node{ID: sp.FromUint64(1), Addr: "n1:7000"}
	rt := New(self, sp, 3)
	if rt.FingerTableSize() != sp.Bits {
		t.Errorf("FingerTableSize = %d, want %d", rt.FingerTableSize(), sp.Bits)
	}
}

func TestSetGetFinger(t *testing.T) {
	sp := testSpace(t)
	self := &domain.Node{ID: sp.FromUint64(1), Addr: "n1:7000"}
	rt := New(self, sp, 3)

	n2 := &domain.Node{ID: sp.FromUint64(2), Addr: "n2:7000"}
	rt.SetFinger(3, n2)
	if got := rt.GetFinger(3); got == nil || !got.Equal(*n2) {
		t.Errorf("GetFinger(3) = %v, want n2", got)
	}
	if got := rt.GetFinger(sp.Bits); got != nil {
		t.Errorf("GetFinger(out of range) = %v, want nil", got)
	}
}
