package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-layout-backend/internal/background"
	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/repository"
)

type recordingScheduler struct {
	jobs []background.Job
	err  error
}

func (s *recordingScheduler) ScheduleUnique(job background.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

type countingPersister struct {
	LayoutPersister
	loads []string
}

func (p *countingPersister) Load(ctx context.Context, scopeID string) (models.LayoutDocument, error) {
	p.loads = append(p.loads, scopeID)
	return p.LayoutPersister.Load(ctx, scopeID)
}

func TestLayoutWarmer_SchedulesLoadPerScope(t *testing.T) {
	store := NewLayoutStore(repository.NewMemoryLayoutRepository(), nil, newTestRegistry())
	persister := &countingPersister{LayoutPersister: store}
	scheduler := &recordingScheduler{}

	warmer := NewLayoutWarmer(persister, scheduler)
	warmer.Warm("collection:shoes")
	warmer.Warm("")

	if len(scheduler.jobs) != 1 {
		t.Fatalf("expected one job, got %d", len(scheduler.jobs))
	}
	job := scheduler.jobs[0]
	if job.Name != "layout-warm:collection:shoes" {
		t.Fatalf("unexpected job name %q", job.Name)
	}
	if job.RetryPolicy.MaxRetries == 0 {
		t.Fatalf("expected warm jobs to retry")
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("job returned error: %v", err)
	}
	if len(persister.loads) != 1 || persister.loads[0] != "collection:shoes" {
		t.Fatalf("expected a load of the warmed scope, got %v", persister.loads)
	}
}

func TestLayoutWarmer_ToleratesSchedulerErrors(t *testing.T) {
	store := NewLayoutStore(repository.NewMemoryLayoutRepository(), nil, newTestRegistry())

	for _, err := range []error{background.ErrJobAlreadyScheduled, errors.New("queue closed")} {
		warmer := NewLayoutWarmer(store, &recordingScheduler{err: err})
		warmer.Warm(models.GlobalScope)
	}

	var nilWarmer *LayoutWarmer
	nilWarmer.Warm(models.GlobalScope)
}

func TestEditorService_PublishRunsHooks(t *testing.T) {
	svc, _ := newTestEditorService(t, repository.NewMemoryLayoutRepository())
	scheduler := &recordingScheduler{}
	warmer := NewLayoutWarmer(svc.store, scheduler)
	svc.OnPublish(warmer.Warm)

	view, err := svc.Open(context.Background(), "page:about", "")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, err := svc.Publish(context.Background(), view.ID); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if len(scheduler.jobs) != 1 || scheduler.jobs[0].Name != "layout-warm:page:about" {
		t.Fatalf("expected a warm job for the published scope, got %+v", scheduler.jobs)
	}
}

func TestLayoutWarmer_RunsOnScheduler(t *testing.T) {
	scheduler := background.NewScheduler(background.SchedulerConfig{WorkerCount: 1})
	scheduler.Start(context.Background())
	defer func() { _ = scheduler.Shutdown(context.Background()) }()

	store := NewLayoutStore(repository.NewMemoryLayoutRepository(), nil, newTestRegistry())
	NewLayoutWarmer(store, scheduler).Warm(models.GlobalScope)

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.PendingCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("warm job did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
