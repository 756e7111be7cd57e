// Package background runs deferred work, such as refilling the layout cache
// after a publish, on a small pool of workers.
package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"storefront-layout-backend/pkg/logger"
)

type SchedulerConfig struct {
	WorkerCount int
	QueueSize   int
}

type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Job is a named unit of work. Jobs scheduled with ScheduleUnique are
// deduplicated by name while queued or running.
type Job struct {
	Name        string
	Run         func(ctx context.Context) error
	Delay       time.Duration
	Timeout     time.Duration
	RetryPolicy RetryPolicy
}

var (
	ErrSchedulerNotStarted = errors.New("scheduler not started")
	ErrJobAlreadyScheduled = errors.New("job already scheduled")
	ErrSchedulerStopped    = errors.New("scheduler is shutting down")
	ErrQueueFull           = errors.New("job queue is full")
)

type Scheduler struct {
	config SchedulerConfig

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	pending map[string]struct{}

	queue   chan queuedJob
	workers sync.WaitGroup
}

type queuedJob struct {
	job     Job
	attempt int
	unique  bool
}

var (
	metricsOnce        sync.Once
	jobRunsTotal       *prometheus.CounterVec
	jobDurationSeconds *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront_layout",
			Subsystem: "background",
			Name:      "job_runs_total",
			Help:      "Background job executions by outcome",
		}, []string{"job", "status"})

		jobDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront_layout",
			Subsystem: "background",
			Name:      "job_duration_seconds",
			Help:      "Duration of background job executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"})
	})
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	initMetrics()

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 32
	}

	return &Scheduler{
		config:  cfg,
		queue:   make(chan queuedJob, cfg.QueueSize),
		pending: make(map[string]struct{}),
	}
}

// Start launches the workers. They stop when ctx is cancelled or Shutdown
// is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	for i := 0; i < s.config.WorkerCount; i++ {
		s.workers.Add(1)
		go s.worker()
	}
}

func (s *Scheduler) worker() {
	defer s.workers.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case job := <-s.queue:
			s.execute(job)
		}
	}
}

func (s *Scheduler) execute(job queuedJob) {
	if job.job.Delay > 0 {
		timer := time.NewTimer(job.job.Delay)
		select {
		case <-timer.C:
		case <-s.ctx.Done():
			timer.Stop()
			s.finish(job, context.Canceled)
			return
		}
	}

	err := s.run(job)
	if err != nil && s.shouldRetry(job, err) {
		retry := job
		retry.attempt++
		retry.job.Delay = retry.job.RetryPolicy.Backoff
		qerr := s.enqueue(retry)
		if qerr == nil {
			return
		}
		if errors.Is(qerr, ErrQueueFull) {
			err = fmt.Errorf("retry dropped: %w", qerr)
		}
	}
	s.finish(job, err)
}

func (s *Scheduler) run(job queuedJob) (err error) {
	started := time.Now()
	status := "success"

	ctx := s.ctx
	if job.job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.job.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			status = "canceled"
		default:
			status = "failure"
		}
		jobDurationSeconds.WithLabelValues(job.job.Name).Observe(time.Since(started).Seconds())
		jobRunsTotal.WithLabelValues(job.job.Name, status).Inc()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return job.job.Run(ctx)
}

func (s *Scheduler) shouldRetry(job queuedJob, err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return job.attempt <= job.job.RetryPolicy.MaxRetries
}

// enqueue fails fast with ErrQueueFull instead of waiting for a free slot.
func (s *Scheduler) enqueue(job queuedJob) error {
	if s.ctx.Err() != nil {
		return ErrSchedulerStopped
	}
	select {
	case s.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *Scheduler) finish(job queuedJob, err error) {
	if job.unique {
		s.mu.Lock()
		delete(s.pending, job.job.Name)
		s.mu.Unlock()
	}

	fields := map[string]interface{}{"job": job.job.Name, "attempt": job.attempt}
	switch {
	case err == nil:
		logger.Debug("Background job completed", fields)
	case errors.Is(err, context.Canceled):
		logger.Warn("Background job canceled", fields)
	default:
		logger.Error(err, "Background job failed", fields)
	}
}

func (s *Scheduler) Schedule(job Job) error {
	return s.schedule(job, false)
}

func (s *Scheduler) ScheduleUnique(job Job) error {
	return s.schedule(job, true)
}

func (s *Scheduler) schedule(job Job, unique bool) error {
	if job.Name == "" {
		return errors.New("job name is required")
	}
	if job.Run == nil {
		return errors.New("job runner is required")
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrSchedulerNotStarted
	}
	if unique {
		if _, exists := s.pending[job.Name]; exists {
			s.mu.Unlock()
			return ErrJobAlreadyScheduled
		}
		s.pending[job.Name] = struct{}{}
	}
	s.mu.Unlock()

	if err := s.enqueue(queuedJob{job: job, attempt: 1, unique: unique}); err != nil {
		if unique {
			s.mu.Lock()
			delete(s.pending, job.Name)
			s.mu.Unlock()
		}
		return err
	}
	return nil
}

// Shutdown cancels queued work and waits for running jobs to return.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PendingCount returns the number of unique jobs queued or running.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
