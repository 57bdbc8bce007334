package session

import (
	"errors"
	"testing"
	"time"
)

func TestManager_CreateGetDelete(t *testing.T) {
	m := NewManager(10, 8)

	s, err := m.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.ID() == "" {
		t.Fatal("session id is empty")
	}

	got, err := m.Get(s.ID())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	if err := m.Delete(s.ID()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after delete = %v, want ErrSessionNotFound", err)
	}
	if err := m.Delete(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_CapacityLimit(t *testing.T) {
	m := NewManager(2, 8)

	for i := 0; i < 2; i++ {
		if _, err := m.Create(); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}
	if _, err := m.Create(); !errors.Is(err, ErrSessionLimit) {
		t.Errorf("Create at capacity = %v, want ErrSessionLimit", err)
	}

	// Deleting frees capacity.
	infos := m.List()
	if err := m.Delete(infos[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Create(); err != nil {
		t.Errorf("Create after delete failed: %v", err)
	}
}

func TestManager_UnlimitedWhenZero(t *testing.T) {
	m := NewManager(0, 8)
	for i := 0; i < 50; i++ {
		if _, err := m.Create(); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}
	if m.Count() != 50 {
		t.Errorf("Count = %d, want 50", m.Count())
	}
}

func TestManager_GetTouchesSession(t *testing.T) {
	m := NewManager(0, 8)
	s, err := m.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	before := s.LastAccessed()
	time.Sleep(5 * time.Millisecond)
	if _, err := m.Get(s.ID()); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if !s.LastAccessed().After(before) {
		t.Error("Get did not advance last-accessed time")
	}
}

func TestManager_ExpireIdle(t *testing.T) {
	m := NewManager(0, 8)
	stale, err := m.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	fresh, err := m.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	fresh.Touch()

	// Cutoff between the stale and fresh access times.
	expired := m.ExpireIdle(fresh.LastAccessed().Add(-time.Millisecond))
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}
	if _, err := m.Get(stale.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session still present: %v", err)
	}
	if _, err := m.Get(fresh.ID()); err != nil {
		t.Errorf("fresh session expired: %v", err)
	}
}

func TestManager_ListSorted(t *testing.T) {
	m := NewManager(0, 4)
	for i := 0; i < 5; i++ {
		if _, err := m.Create(); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	infos := m.List()
	if len(infos) != 5 {
		t.Fatalf("List length = %d, want 5", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].ID >= infos[i].ID {
			t.Errorf("List not sorted at %d: %s >= %s", i, infos[i-1].ID, infos[i].ID)
		}
	}
	if infos[0].UseCases != 4 {
		t.Errorf("UseCases = %d, want 4", infos[0].UseCases)
	}
}
