package jobs

import (
	"context"
	"time"

	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/service"
)

// JobRunner runs the scheduled rental jobs.
type JobRunner struct {
	rentals service.RentalService
	timeout time.Duration
	now     func() time.Time
}

func NewJobRunner(rentals service.RentalService, timeout time.Duration) *JobRunner {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &JobRunner{rentals: rentals, timeout: timeout, now: time.Now}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	if err = jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// MarkOverdueRentals flags active rentals whose end date has passed.
func (jr *JobRunner) MarkOverdueRentals() {
	_ = jr.runWithRecovery("MarkOverdueRentals", func(ctx context.Context) error {
		n, err := jr.rentals.MarkOverdueRentals(ctx, jr.now())
		if err != nil {
			return err
		}
		logger.Info("Marked rentals as overdue", "count", n)
		return nil
	})
}

// SendReturnReminders emails renters whose rental ends tomorrow.
func (jr *JobRunner) SendReturnReminders() {
	_ = jr.runWithRecovery("SendReturnReminders", func(ctx context.Context) error {
		sent, err := jr.rentals.SendReturnReminders(ctx, jr.now())
		if err != nil {
			return err
		}
		logger.Info("Sent return reminders", "count", sent)
		return nil
	})
}

// RunAllNightlyJobs runs every job once (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkOverdueRentals()
	jr.SendReturnReminders()
}
