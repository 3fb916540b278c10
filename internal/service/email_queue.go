package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"hazel-marketplace/internal/logger"
)

var ErrEmailQueueFull = errors.New("email queue is full")

type emailJob struct {
	ID        string
	Msg       Email
	Retries   int
	CreatedAt time.Time
}

// EmailQueue sends emails on background workers with retries. It is itself
// a Mailer so services enqueue without waiting on the provider.
type EmailQueue struct {
	sender     Mailer
	jobs       chan emailJob
	maxRetries int
	workers    int
	backoff    func(attempt int) time.Duration

	wg      sync.WaitGroup
	stopped chan struct{}
}

func NewEmailQueue(sender Mailer, workers, queueSize, maxRetries int) *EmailQueue {
	if workers < 1 {
		workers = 1
	}
	return &EmailQueue{
		sender:     sender,
		jobs:       make(chan emailJob, queueSize),
		maxRetries: maxRetries,
		workers:    workers,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt*attempt) * time.Second
		},
		stopped: make(chan struct{}),
	}
}

// SetBackoff replaces the retry delay schedule.
func (q *EmailQueue) SetBackoff(fn func(attempt int) time.Duration) {
	q.backoff = fn
}

// Start launches the workers. They exit when ctx is cancelled.
func (q *EmailQueue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		close(q.stopped)
	}()
}

// Wait blocks until every worker has stopped.
func (q *EmailQueue) Wait() {
	q.wg.Wait()
}

func (q *EmailQueue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	logger.Debug("Email worker started", "worker", id)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Email worker stopping", "worker", id)
			return
		case job := <-q.jobs:
			q.process(ctx, job)
		}
	}
}

func (q *EmailQueue) process(ctx context.Context, job emailJob) {
	err := q.sender.Send(ctx, job.Msg)
	if err == nil {
		logger.Info("Email sent", "jobID", job.ID, "to", job.Msg.To, "attempts", job.Retries+1)
		return
	}

	if job.Retries >= q.maxRetries {
		logger.Error("Email dropped after retries", "jobID", job.ID, "to", job.Msg.To, "retries", job.Retries, "error", err)
		return
	}
	job.Retries++
	delay := q.backoff(job.Retries)
	logger.Warn("Email send failed, retrying", "jobID", job.ID, "attempt", job.Retries, "maxRetries", q.maxRetries, "delay", delay, "error", err)
	time.AfterFunc(delay, func() {
		select {
		case <-q.stopped:
			logger.Warn("Email retry dropped, queue stopped", "jobID", job.ID, "to", job.Msg.To)
		case q.jobs <- job:
		default:
			logger.Error("Email retry dropped, queue full", "jobID", job.ID, "to", job.Msg.To)
		}
	})
}

// Drain sends the emails still buffered after the workers stop, one attempt
// each, until ctx expires. It returns how many were not delivered.
func (q *EmailQueue) Drain(ctx context.Context) int {
	sent, dropped := 0, 0
	for {
		select {
		case job := <-q.jobs:
			if ctx.Err() != nil {
				dropped += 1 + len(q.jobs)
				logger.Error("Email queue drain timed out", "sent", sent, "dropped", dropped)
				return dropped
			}
			if err := q.sender.Send(ctx, job.Msg); err != nil {
				logger.Error("Email dropped during shutdown", "jobID", job.ID, "to", job.Msg.To, "error", err)
				dropped++
				continue
			}
			sent++
		default:
			if sent > 0 || dropped > 0 {
				logger.Info("Email queue drained", "sent", sent, "dropped", dropped)
			}
			return dropped
		}
	}
}

// Send enqueues msg and returns immediately.
func (q *EmailQueue) Send(_ context.Context, msg Email) error {
	job := emailJob{ID: uuid.NewString(), Msg: msg, CreatedAt: time.Now()}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrEmailQueueFull
	}
}
