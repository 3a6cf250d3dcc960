// services/scheduler.go
package services

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// Scheduler owns the single gocron instance shared by all background work:
// the minute lease sweep and the one-shot payment verifications. Jobs run
// off the dispatch path, so a pending verification never blocks foreground
// interaction handling.
type Scheduler struct {
	clock clockwork.Clock
	inner gocron.Scheduler
}

func NewScheduler(clock clockwork.Clock) (*Scheduler, error) {
	inner, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{clock: clock, inner: inner}, nil
}

func (s *Scheduler) Start() {
	s.inner.Start()
}

func (s *Scheduler) Shutdown() {
	if err := s.inner.Shutdown(); err != nil {
		log.Printf("⚠️ Scheduler shutdown: %v", err)
	}
}

// Every registers a fixed-interval background job.
func (s *Scheduler) Every(interval time.Duration, name string, task func()) error {
	_, err := s.inner.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	return nil
}

// After registers a one-shot job that fires once the delay elapses.
func (s *Scheduler) After(delay time.Duration, name string, task func()) error {
	_, err := s.inner.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(s.clock.Now().Add(delay))),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	return nil
}
