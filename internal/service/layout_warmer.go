package service

import (
	"context"
	"errors"
	"time"

	"storefront-layout-backend/internal/background"
	"storefront-layout-backend/pkg/logger"
)

// JobScheduler queues deduplicated background jobs.
type JobScheduler interface {
	ScheduleUnique(job background.Job) error
}

// LayoutWarmer refills the layout cache in the background so the first
// storefront read after a publish does not go to the database.
type LayoutWarmer struct {
	layouts   LayoutPersister
	scheduler JobScheduler
	retry     background.RetryPolicy
	timeout   time.Duration
}

func NewLayoutWarmer(layouts LayoutPersister, scheduler JobScheduler) *LayoutWarmer {
	return &LayoutWarmer{
		layouts:   layouts,
		scheduler: scheduler,
		retry:     background.RetryPolicy{MaxRetries: 3, Backoff: 2 * time.Second},
		timeout:   10 * time.Second,
	}
}

// Warm queues a cache refill for scopeID. A refill already queued for the
// same scope absorbs the request.
func (w *LayoutWarmer) Warm(scopeID string) {
	if w == nil || w.scheduler == nil || scopeID == "" {
		return
	}

	err := w.scheduler.ScheduleUnique(background.Job{
		Name:        "layout-warm:" + scopeID,
		Timeout:     w.timeout,
		RetryPolicy: w.retry,
		Run: func(ctx context.Context) error {
			_, err := w.layouts.Load(ctx, scopeID)
			return err
		},
	})

	switch {
	case err == nil, errors.Is(err, background.ErrJobAlreadyScheduled):
	default:
		logger.Warn("Failed to schedule layout cache refill", map[string]interface{}{
			"scope_id": scopeID,
			"error":    err.Error(),
		})
	}
}
