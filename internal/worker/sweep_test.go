package worker

import (
	"context"
	"sync"
	"testing"
	"time"
)

// mockExpirer implements SessionExpirer for testing.
type mockExpirer struct {
	mu      sync.Mutex
	calls   int
	cutoffs []time.Time
	expired int
}

func (m *mockExpirer) ExpireIdle(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.cutoffs = append(m.cutoffs, cutoff)
	return m.expired
}

func (m *mockExpirer) Count() int {
	return 0
}

func (m *mockExpirer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestSweepCoordinator_ExpiresOnInterval(t *testing.T) {
	expirer := &mockExpirer{expired: 2}
	c := NewSweepCoordinator(expirer, 10*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for expirer.callCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweep never ran twice")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestSweepCoordinator_CutoffReflectsTTL(t *testing.T) {
	expirer := &mockExpirer{}
	ttl := time.Hour
	c := NewSweepCoordinator(expirer, 5*time.Millisecond, ttl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	deadline := time.After(2 * time.Second)
	for expirer.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("sweep never ran")
		case <-time.After(2 * time.Millisecond):
		}
	}

	expirer.mu.Lock()
	cutoff := expirer.cutoffs[0]
	expirer.mu.Unlock()

	drift := time.Since(cutoff.Add(ttl))
	if drift < 0 || drift > time.Minute {
		t.Errorf("cutoff drift = %v, want within [0, 1m] of now-ttl", drift)
	}
}

func TestSweepCoordinator_StopsImmediatelyWhenCancelled(t *testing.T) {
	expirer := &mockExpirer{}
	c := NewSweepCoordinator(expirer, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return for a cancelled context")
	}
	if expirer.callCount() != 0 {
		t.Errorf("sweep ran %d times before first interval", expirer.callCount())
	}
}
