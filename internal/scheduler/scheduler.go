package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"hazel-marketplace/internal/config"
	"hazel-marketplace/internal/jobs"
	"hazel-marketplace/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler registers the rental jobs on cfg's schedules. Specs carry a
// seconds field and run in UTC.
func NewScheduler(jobRunner *jobs.JobRunner, cfg config.SchedulerConfig) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}
	if err := s.registerJobs(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs(cfg config.SchedulerConfig) error {
	entries := []struct {
		name string
		spec string
		run  func()
	}{
		{"MarkOverdueRentals", cfg.MarkOverdueRentals, s.jobs.MarkOverdueRentals},
		{"SendReturnReminders", cfg.SendReturnReminders, s.jobs.SendReturnReminders},
	}
	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, e.run); err != nil {
			return fmt.Errorf("failed to register %s job: %w", e.name, err)
		}
		logger.Debug("Registered cron job", "job", e.name, "schedule", e.spec)
	}

	logger.Info("All cron jobs registered successfully", "count", len(entries))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
