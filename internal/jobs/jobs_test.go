package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/practiz/internal/logging"
)

type fakeReaper struct {
	mu    sync.Mutex
	calls []time.Duration
	err   error
}

func (f *fakeReaper) ReapIdle(_ context.Context, idleFor time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, idleFor)
	return 1, f.err
}

func (f *fakeReaper) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestSchedulerRunsReaper(t *testing.T) {
	r := &fakeReaper{}
	s := New(r, 2*time.Hour, 20*time.Millisecond, logging.Discard())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for r.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := r.count(); got < 2 {
		t.Fatalf("reaper ran %d times, want at least 2", got)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls[0] != 2*time.Hour {
		t.Errorf("idleFor = %v, want 2h", r.calls[0])
	}
}

func TestSchedulerDisabledReaper(t *testing.T) {
	r := &fakeReaper{}
	s := New(r, 0, 10*time.Millisecond, logging.Discard())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if got := r.count(); got != 0 {
		t.Errorf("reaper ran %d times with idle timeout 0", got)
	}
}

func TestReapIdleLogsErrors(t *testing.T) {
	r := &fakeReaper{err: errors.New("db down")}
	s := New(r, time.Hour, time.Hour, logging.Discard())
	s.reapIdle()
	if r.count() != 1 {
		t.Errorf("calls = %d, want 1", r.count())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(&fakeReaper{}, time.Hour, time.Hour, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
