// Package jobs runs periodic maintenance while the server is up.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Reaper ends idle sessions. *session.Coordinator satisfies it.
type Reaper interface {
	ReapIdle(ctx context.Context, idleFor time.Duration) (int, error)
}

// Scheduler manages scheduled tasks for the server.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reaper    Reaper
	idleFor   time.Duration
	every     time.Duration
	log       *slog.Logger
}

// New creates a scheduler that reaps sessions idle for longer than idleFor
// once every interval.
func New(reaper Reaper, idleFor, every time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		reaper:    reaper,
		idleFor:   idleFor,
		every:     every,
		log:       log,
	}
}

// Start registers the jobs and runs them in the background. A zero idle
// timeout disables the reaper.
func (s *Scheduler) Start() error {
	if s.idleFor > 0 {
		if _, err := s.scheduler.Every(s.every).Do(s.reapIdle); err != nil {
			return err
		}
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Run blocks until ctx is done, then stops the scheduler.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Scheduler) reapIdle() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.reaper.ReapIdle(ctx, s.idleFor)
	if err != nil {
		s.log.Error("reap idle sessions", "error", err, "reaped", n)
		return
	}
	if n > 0 {
		s.log.Info("reaped idle sessions", "count", n)
	}
}
