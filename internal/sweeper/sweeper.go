// Package sweeper periodically re-persists in-memory state so that writes
// which failed earlier get another chance.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/naturepower/internal/logging"
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = 5 * time.Minute

// Sweepable is a service with state worth flushing.
type Sweepable interface {
	Sweep(ctx context.Context)
}

// Sweeper runs Sweep on every target on a fixed schedule.
type Sweeper struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	targets   []Sweepable
	log       *logging.Logger
}

// New creates a sweeper. Non-positive intervals use DefaultInterval.
func New(interval time.Duration, log *logging.Logger, targets ...Sweepable) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Sweeper{
		scheduler: s,
		interval:  interval,
		targets:   targets,
		log:       logging.OrNop(log).With("component", "sweeper"),
	}
}

// Start schedules the sweep and returns immediately. The first sweep runs
// one interval from now. The schedule stops when ctx is done.
func (s *Sweeper) Start(ctx context.Context) error {
	if _, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.RunNow, ctx); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	s.scheduler.StartAsync()
	s.log.Debug("sweeper started", "interval", s.interval)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// RunNow sweeps every target once.
func (s *Sweeper) RunNow(ctx context.Context) {
	for _, t := range s.targets {
		if ctx.Err() != nil {
			return
		}
		t.Sweep(ctx)
	}
}

// Stop halts the schedule. A final sweep is not run.
func (s *Sweeper) Stop() {
	if s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}
