// Package maintenance runs periodic housekeeping against the database.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vytor/vocabflash/internal/logger"
)

// Checkpointer is implemented by *db.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// Scheduler runs database maintenance every interval.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Checkpointer
	interval  time.Duration
	timeout   time.Duration
	log       *logger.Logger
}

func New(target Checkpointer, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		interval:  interval,
		timeout:   time.Minute,
		log:       logger.Default().WithPrefix("maintenance"),
	}
}

// Start schedules the maintenance job without blocking. The first run
// happens one interval after Start.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().WaitForSchedule().Do(s.RunOnce)
	if err != nil {
		return fmt.Errorf("schedule maintenance: %w", err)
	}
	s.scheduler.StartAsync()
	s.log.Info("maintenance scheduled every %s", s.interval)
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Debug("maintenance scheduler stopped")
}

// RunOnce performs one maintenance pass. Failures are logged only.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.target.Checkpoint(ctx); err != nil {
		s.log.WithError(err).Error("database maintenance failed")
		return
	}
	s.log.Info("database maintenance completed in %v", time.Since(start))
}
