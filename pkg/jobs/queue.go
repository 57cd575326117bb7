package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one unit of background work. Attempt counts completed failures,
// so a freshly enqueued job carries Attempt 0.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes a single job. A non-nil error triggers a retry until
// MaxRetries attempts have failed.
type Handler func(context.Context, Job) error

// QueueConfig sizes the worker pool and its retry behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Queue is an in-process job dispatcher. Jobs live in a buffered channel
// and are lost on shutdown; callers needing durability persist job state
// themselves and replay pending work at startup.
type Queue struct {
	name    string
	handler Handler

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	pending chan Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewQueue builds a queue around the given handler.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue{
		name:       name,
		handler:    handler,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		pending:    make(chan Job, cfg.BufferSize),
	}
}

// Start launches the worker pool. Calling Start twice is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.run()
	}
	q.started = true
	q.logger.Info("queue started", zap.String("queue", q.name), zap.Int("workers", q.workers))
}

// Stop cancels the workers and blocks until they drain.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Info("queue stopped", zap.String("queue", q.name))
}

// Enqueue submits a job. It fails when the queue has not been started or
// has been stopped.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	ctx := q.ctx
	started := q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.pending <- job:
		return nil
	}
}

func (q *Queue) run() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.pending:
			if err := q.handler(q.ctx, job); err != nil {
				q.retry(job, err)
			}
		}
	}
}

func (q *Queue) retry(job Job, cause error) {
	job.Attempt++
	if job.Attempt > q.maxRetries {
		q.logger.Error("job dropped after retries",
			zap.String("queue", q.name),
			zap.String("job_id", job.ID),
			zap.String("type", job.Type),
			zap.Error(cause),
		)
		return
	}
	q.logger.Warn("job failed, scheduling retry",
		zap.String("queue", q.name),
		zap.String("job_id", job.ID),
		zap.Int("attempt", job.Attempt),
		zap.Error(cause),
	)

	go func(j Job) {
		timer := time.NewTimer(q.retryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			if err := q.Enqueue(j); err != nil {
				q.logger.Error("failed to requeue job", zap.String("queue", q.name), zap.String("job_id", j.ID), zap.Error(err))
			}
		}
	}(job)
}
