package queue

import (
	"sync"
	"testing"
	"time"
)

// recorder collects dispatched keys in dispatch order.
type recorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *recorder) Dispatch(key string, _ int) func() {
	r.mu.Lock()
	r.keys = append(r.keys, key)
	r.mu.Unlock()
	return nil
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestScheduler_DrainsAndGoesIdle(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler[int](Config{}, rec)
	defer s.Stop()

	for _, k := range []string{"a", "b", "c"} {
		if _, ok := s.Enqueue(k, 0, nil); !ok {
			t.Fatalf("expected %s to be queued", k)
		}
	}

	waitFor(t, func() bool { return len(rec.snapshot()) == 3 })
	waitFor(t, func() bool { return !s.isDraining() })

	// Idle again: the next enqueue must restart the loop.
	s.Enqueue("d", 0, nil)
	waitFor(t, func() bool { return len(rec.snapshot()) == 4 })
}

func TestScheduler_RejectsQueuedAndUnadmitted(t *testing.T) {
	gate := make(chan struct{})
	s := NewScheduler[int](Config{}, HandlerFunc[int](func(string, int) func() {
		return func() { <-gate }
	}))
	defer func() {
		close(gate)
		s.Stop()
	}()

	s.Enqueue("busy", 0, nil) // occupies the loop inside run()
	waitFor(t, func() bool { return s.Len() == 0 })

	if _, ok := s.Enqueue("k", 1, nil); !ok {
		t.Fatalf("expected k to be queued")
	}
	if job, ok := s.Enqueue("k", 2, nil); !ok || job != 1 {
		t.Fatalf("expected duplicate key to keep the first job, got %d", job)
	}
	if _, ok := s.Enqueue("other", 3, func(string) bool { return false }); ok {
		t.Fatalf("expected admit to reject")
	}
	if job, ok := s.Cancel("k"); !ok || job != 1 || s.Len() != 0 {
		t.Fatalf("expected cancel to remove k")
	}
}

func TestScheduler_RateLimit(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler[int](Config{RequestsPerSecond: 20}, rec)
	defer s.Stop()

	for i := 0; i < 50; i++ {
		s.Enqueue(string(rune('A'+i)), i, nil)
	}

	time.Sleep(500 * time.Millisecond)

	// 20/s for half a second: one immediate dispatch plus about ten more.
	n := len(rec.snapshot())
	if n < 7 || n > 13 {
		t.Fatalf("expected about 11 dispatches, got %d", n)
	}
}

func TestScheduler_StopDropsQueued(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler[int](Config{RequestsPerSecond: 1}, rec)

	s.Enqueue("a", 0, nil)
	s.Enqueue("b", 0, nil)
	s.Enqueue("c", 0, nil)
	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })

	if dropped := s.Stop(); len(dropped) != 2 {
		t.Fatalf("expected 2 dropped jobs, got %d", len(dropped))
	}
	if _, ok := s.Enqueue("d", 0, nil); ok {
		t.Fatalf("expected enqueue after stop to fail")
	}
	if s.Stop() != nil {
		t.Fatalf("second stop must be a no-op")
	}
}

func TestScheduler_LIFOUnderThrottle(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler[int](Config{RequestsPerSecond: 10}, rec)
	defer s.Stop()

	// The first dispatch spends the limiter's token, so the next three
	// are all queued before the loop may take another one.
	s.Enqueue("first", 0, nil)
	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })

	s.Enqueue("x", 0, nil)
	s.Enqueue("y", 0, nil)
	s.Enqueue("z", 0, nil)
	waitFor(t, func() bool { return len(rec.snapshot()) == 4 })

	got := rec.snapshot()[1:]
	want := []string{"z", "y", "x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
