package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-layout-backend/internal/layout"
	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/repository"
	"storefront-layout-backend/internal/sections"
)

func newTestEditorService(t *testing.T, repo repository.LayoutRepository) (*EditorService, *LayoutStore) {
	t.Helper()
	registry := newTestRegistry()
	store := NewLayoutStore(repo, nil, registry)
	catalog := sections.NewTemplateCatalog()
	if err := catalog.Add(registry, sections.BuiltinTemplates()...); err != nil {
		t.Fatalf("failed to add templates: %v", err)
	}
	return NewEditorService(store, registry, catalog, time.Hour), store
}

func TestEditorService_ExampleScenarioPublishes(t *testing.T) {
	svc, store := newTestEditorService(t, repository.NewMemoryLayoutRepository())
	ctx := context.Background()

	view, err := svc.Open(ctx, models.GlobalScope, "")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if view.Dirty {
		t.Fatalf("expected a fresh session to be clean")
	}

	hero, _, err := svc.AddSection(view.ID, models.KindHero)
	if err != nil {
		t.Fatalf("AddSection returned error: %v", err)
	}
	if _, _, err := svc.AddSection(view.ID, models.KindCollections); err != nil {
		t.Fatalf("AddSection returned error: %v", err)
	}
	if _, err := svc.MoveSection(view.ID, hero.ID, layout.Down); err != nil {
		t.Fatalf("MoveSection returned error: %v", err)
	}
	view, err = svc.SetActive(view.ID, hero.ID, false)
	if err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}
	if !view.Dirty {
		t.Fatalf("expected session to be dirty after edits")
	}

	published, err := svc.Publish(ctx, view.ID)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if published.Dirty {
		t.Fatalf("expected session to be clean after publish")
	}
	if published.PublishedAt == nil {
		t.Fatalf("expected publish time to be recorded")
	}

	stored, err := store.Load(ctx, models.GlobalScope)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(stored.Sections) != 2 {
		t.Fatalf("expected 2 stored sections, got %d", len(stored.Sections))
	}
	if stored.Sections[0].Kind != models.KindCollections || !stored.Sections[0].IsActive {
		t.Fatalf("unexpected first section %+v", stored.Sections[0])
	}
	if stored.Sections[1].ID != hero.ID || stored.Sections[1].IsActive {
		t.Fatalf("unexpected second section %+v", stored.Sections[1])
	}
}

func TestEditorService_PublishFailureRetainsEdits(t *testing.T) {
	repo := &failingLayoutRepository{putErr: errors.New("database unavailable"), inner: repository.NewMemoryLayoutRepository()}
	svc, store := newTestEditorService(t, repo)
	ctx := context.Background()

	view, err := svc.Open(ctx, "product:9", "")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, _, err := svc.AddSection(view.ID, models.KindNewsletter); err != nil {
		t.Fatalf("AddSection returned error: %v", err)
	}

	failed, err := svc.Publish(ctx, view.ID)
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
	if !failed.Dirty || len(failed.Document.Sections) != 1 {
		t.Fatalf("expected edits to be retained, got %+v", failed)
	}

	current, err := svc.Get(view.ID)
	if err != nil {
		t.Fatalf("expected session to survive a failed publish, got %v", err)
	}
	if len(current.Document.Sections) != 1 {
		t.Fatalf("expected 1 retained section, got %d", len(current.Document.Sections))
	}

	repo.putErr = nil
	if _, err := svc.Publish(ctx, view.ID); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if repo.puts != 2 {
		t.Fatalf("expected 2 save attempts, got %d", repo.puts)
	}

	stored, err := store.Load(ctx, "product:9")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(stored.Sections) != 1 || stored.Sections[0].Kind != models.KindNewsletter {
		t.Fatalf("unexpected stored layout %+v", stored)
	}
}

func TestEditorService_OpenWithTemplate(t *testing.T) {
	svc, _ := newTestEditorService(t, repository.NewMemoryLayoutRepository())

	view, err := svc.Open(context.Background(), models.GlobalScope, "storefront")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if len(view.Document.Sections) == 0 {
		t.Fatalf("expected template sections to be loaded")
	}

	if _, err := svc.Open(context.Background(), models.GlobalScope, "missing"); !errors.Is(err, sections.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestEditorService_UnknownSession(t *testing.T) {
	svc, _ := newTestEditorService(t, repository.NewMemoryLayoutRepository())

	if _, err := svc.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound from Get, got %v", err)
	}
	if _, _, err := svc.AddSection("nope", models.KindHero); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound from AddSection, got %v", err)
	}
	if _, err := svc.Publish(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound from Publish, got %v", err)
	}
	if err := svc.Discard("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound from Discard, got %v", err)
	}
}

func TestEditorService_DiscardDropsSession(t *testing.T) {
	svc, _ := newTestEditorService(t, repository.NewMemoryLayoutRepository())

	view, err := svc.Open(context.Background(), models.GlobalScope, "")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if svc.Count() != 1 {
		t.Fatalf("expected 1 open session, got %d", svc.Count())
	}
	if err := svc.Discard(view.ID); err != nil {
		t.Fatalf("Discard returned error: %v", err)
	}
	if _, err := svc.Get(view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected discarded session to be gone, got %v", err)
	}
}

func TestEditorService_UnknownKindAndField(t *testing.T) {
	svc, _ := newTestEditorService(t, repository.NewMemoryLayoutRepository())

	view, err := svc.Open(context.Background(), models.GlobalScope, "")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, _, err := svc.AddSection(view.ID, models.SectionKind("carousel")); !errors.Is(err, sections.ErrUnknownSectionKind) {
		t.Fatalf("expected ErrUnknownSectionKind, got %v", err)
	}

	hero, _, err := svc.AddSection(view.ID, models.KindHero)
	if err != nil {
		t.Fatalf("AddSection returned error: %v", err)
	}
	if _, err := svc.UpdateField(view.ID, hero.ID, "kind", "videos"); !errors.Is(err, layout.ErrUnsupportedField) {
		t.Fatalf("expected ErrUnsupportedField, got %v", err)
	}

	updated, err := svc.UpdateSettings(view.ID, hero.ID, "heading", "Summer sale")
	if err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}
	if got := updated.Document.Sections[0].Settings.String("heading", ""); got != "Summer sale" {
		t.Fatalf("expected heading to be updated, got %q", got)
	}
}

func TestEditorService_ViewsAreSnapshots(t *testing.T) {
	svc, _ := newTestEditorService(t, repository.NewMemoryLayoutRepository())

	view, err := svc.Open(context.Background(), models.GlobalScope, "")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	hero, first, err := svc.AddSection(view.ID, models.KindHero)
	if err != nil {
		t.Fatalf("AddSection returned error: %v", err)
	}

	first.Document.Sections[0].Settings["heading"] = "mutated"

	current, err := svc.Get(view.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got := current.Document.Sections[0].Settings.String("heading", ""); got == "mutated" {
		t.Fatalf("expected session state to be isolated from returned views, section %s", hero.ID)
	}
}

type blockingPersister struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingPersister) Load(ctx context.Context, scopeID string) (models.LayoutDocument, error) {
	return models.NewLayoutDocument(scopeID), nil
}

func (p *blockingPersister) Save(ctx context.Context, doc models.LayoutDocument) error {
	close(p.entered)
	<-p.release
	return nil
}

func TestEditorService_DiscardDuringPublishIsFinal(t *testing.T) {
	persister := &blockingPersister{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewEditorService(persister, newTestRegistry(), nil, time.Hour)
	ctx := context.Background()

	view, err := svc.Open(ctx, models.GlobalScope, "")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	published := make(chan error, 1)
	go func() {
		_, err := svc.Publish(ctx, view.ID)
		published <- err
	}()
	<-persister.entered

	added := make(chan error, 1)
	go func() {
		_, _, err := svc.AddSection(view.ID, models.KindHero)
		added <- err
	}()
	// Give AddSection time to find the session and queue on its lock.
	time.Sleep(20 * time.Millisecond)

	if err := svc.Discard(view.ID); err != nil {
		t.Fatalf("Discard returned error: %v", err)
	}
	close(persister.release)

	if err := <-published; err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if err := <-added; !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound from an edit on a discarded session, got %v", err)
	}
	if _, err := svc.Get(view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected discarded session to stay gone, got %v", err)
	}
	if svc.Count() != 0 {
		t.Fatalf("expected no open sessions, got %d", svc.Count())
	}
}
