package storage

import (
	"testing"

	"chordstab/internal/domain"
	"chordstab/internal/logger"
)

func testSpace(t *testing.T) domain.Space {
	t.Helper()
	sp, err := domain.NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	return sp
}

func TestOwnedPutGetDelete(t *testing.T) {
	sp := testSpace(t)
	s := NewMemoryStorage(&logger.NopLogger{})

	id := sp.FromUint64(42)
	s.Put(id, "key-42", "hello")

	kv, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if kv.Value != "hello" {
		t.Errorf("Get value = %q, want %q", kv.Value, "hello")
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(id); err != domain.ErrResourceNotFound {
		t.Errorf("Get after delete = %v, want ErrResourceNotFound", err)
	}
}

func TestDelegateOwnedData(t *testing.T) {
	sp := testSpace(t)
	s := NewMemoryStorage(&logger.NopLogger{})

	s.Put(sp.FromUint64(10), "a", "va")
	s.Put(sp.FromUint64(20), "b", "vb")
	s.Put(sp.FromUint64(30), "c", "vc")

	moved := s.DelegateOwnedData(sp.FromUint64(20), false)
	if len(moved) != 2 {
		t.Fatalf("DelegateOwnedData moved %d items, want 2", len(moved))
	}

	remaining := s.OwnedForReplication()
	if len(remaining) != 1 || !remaining[0].Key.Equal(sp.FromUint64(30)) {
		t.Errorf("unexpected remaining owned items: %+v", remaining)
	}
}

func TestDelegateOwnedDataForce(t *testing.T) {
	sp := testSpace(t)
	s := NewMemoryStorage(&logger.NopLogger{})

	s.Put(sp.FromUint64(10), "a", "va")
	s.Put(sp.FromUint64(200), "b", "vb")

	moved := s.DelegateOwnedData(sp.FromUint64(5), true)
	if len(moved) != 2 {
		t.Fatalf("force delegate moved %d items, want 2", len(moved))
	}
	if len(s.OwnedForReplication()) != 0 {
		t.Error("expected no owned items left after forced delegation")
	}
}

func TestReceiveReplicaReplaceAll(t *testing.T) {
	sp := testSpace(t)
	s := NewMemoryStorage(&logger.NopLogger{})
	master := domain.Node{ID: sp.FromUint64(99), Addr: "peer:1"}

	s.ReceiveReplica(master, []domain.KeyValue{
		{Key: sp.FromUint64(1), RawKey: "k1", Value: "v1"},
		{Key: sp.FromUint64(2), RawKey: "k2", Value: "v2"},
	}, false)
	if got := s.ReplicaByMaster(master.ID); len(got) != 2 {
		t.Fatalf("ReplicaByMaster = %d items, want 2", len(got))
	}

	s.ReceiveReplica(master, []domain.KeyValue{
		{Key: sp.FromUint64(3), RawKey: "k3", Value: "v3"},
	}, true)
	got := s.ReplicaByMaster(master.ID)
	if len(got) != 1 || !got[0].Key.Equal(sp.FromUint64(3)) {
		t.Errorf("replaceAll did not discard previous replica items: %+v", got)
	}
}

func TestDeleteReplica(t *testing.T) {
	sp := testSpace(t)
	s := NewMemoryStorage(&logger.NopLogger{})
	master := domain.Node{ID: sp.FromUint64(50), Addr: "peer:2"}

	s.ReceiveReplica(master, []domain.KeyValue{{Key: sp.FromUint64(1), RawKey: "k1", Value: "v1"}}, true)
	s.DeleteReplica(master)

	if got := s.ReplicaByMaster(master.ID); len(got) != 0 {
		t.Errorf("expected no replica items after DeleteReplica, got %d", len(got))
	}
}

func TestStoreReplicaOfSeveralMasters(t *testing.T) {
	sp := testSpace(t)
	s := NewMemoryStorage(&logger.NopLogger{})
	m1 := domain.Node{ID: sp.FromUint64(10), Addr: "peer:1"}
	m2 := domain.Node{ID: sp.FromUint64(20), Addr: "peer:2"}

	s.StoreReplicaOfSeveralMasters([]domain.ReplicaBundle{
		{Master: m1, Items: []domain.KeyValue{{Key: sp.FromUint64(1), RawKey: "k1", Value: "v1"}}},
		{Master: m2, Items: []domain.KeyValue{{Key: sp.FromUint64(2), RawKey: "k2", Value: "v2"}}},
	})

	all := s.AllReplica()
	if len(all) != 2 {
		t.Fatalf("AllReplica returned %d masters, want 2", len(all))
	}
}
