package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"storefront-layout-backend/internal/layout"
	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/sections"
	"storefront-layout-backend/pkg/logger"
)

// ErrSessionNotFound is returned for unknown or expired authoring sessions.
var ErrSessionNotFound = errors.New("editor session not found")

// LayoutPersister is the part of the layout store the editor service needs.
type LayoutPersister interface {
	Load(ctx context.Context, scopeID string) (models.LayoutDocument, error)
	Save(ctx context.Context, doc models.LayoutDocument) error
}

// SessionView is a snapshot of an authoring session.
type SessionView struct {
	ID          string                `json:"id"`
	ScopeID     string                `json:"scope_id"`
	Dirty       bool                  `json:"dirty"`
	OpenedAt    time.Time             `json:"opened_at"`
	PublishedAt *time.Time            `json:"published_at,omitempty"`
	Document    models.LayoutDocument `json:"document"`
}

type editorSession struct {
	mu          sync.Mutex
	id          string
	scopeID     string
	openedAt    time.Time
	publishedAt *time.Time
	editor      *layout.Editor
}

func (s *editorSession) view() SessionView {
	return SessionView{
		ID:          s.id,
		ScopeID:     s.scopeID,
		Dirty:       s.editor.Dirty(),
		OpenedAt:    s.openedAt,
		PublishedAt: s.publishedAt,
		Document:    s.editor.Commit(),
	}
}

// EditorService keeps authoring sessions between requests. Each session owns
// its own editor; operations on one session are applied one at a time in the
// order they arrive. Sessions expire after the configured idle TTL.
type EditorService struct {
	store     LayoutPersister
	registry  *sections.Registry
	templates *sections.TemplateCatalog
	sessions  *cache.Cache
	ttl       time.Duration

	onPublish []func(scopeID string)
}

func NewEditorService(store LayoutPersister, registry *sections.Registry, templates *sections.TemplateCatalog, ttl time.Duration) *EditorService {
	initMetrics()
	if registry == nil {
		registry = sections.DefaultRegistry()
	}
	if templates == nil {
		templates = sections.NewTemplateCatalog()
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}

	sessions := cache.New(ttl, 10*time.Minute)
	sessions.OnEvicted(func(string, interface{}) {
		editorSessionsOpen.Dec()
	})

	return &EditorService{
		store:     store,
		registry:  registry,
		templates: templates,
		sessions:  sessions,
		ttl:       ttl,
	}
}

// Open loads the layout for scopeID and starts a session on it. When
// templateID is set, the loaded sections are replaced by the template's.
func (s *EditorService) Open(ctx context.Context, scopeID, templateID string) (SessionView, error) {
	doc, err := s.store.Load(ctx, scopeID)
	if err != nil {
		return SessionView{}, err
	}

	if templateID = strings.TrimSpace(templateID); templateID != "" {
		tmpl, err := s.templates.Get(templateID)
		if err != nil {
			return SessionView{}, err
		}
		instantiated, err := tmpl.Instantiate(s.registry)
		if err != nil {
			return SessionView{}, err
		}
		doc.Sections = instantiated
	}

	session := &editorSession{
		id:       uuid.New().String(),
		scopeID:  doc.ScopeID,
		openedAt: time.Now().UTC(),
		editor:   layout.NewEditor(doc, s.registry),
	}
	s.sessions.Set(session.id, session, cache.DefaultExpiration)
	editorSessionsOpen.Inc()

	logger.FromContext(ctx).WithFields(map[string]interface{}{
		"session_id": session.id,
		"scope_id":   session.scopeID,
		"template":   templateID,
	}).Info("Editor session opened")

	return session.view(), nil
}

// Get returns the current state of a session.
func (s *EditorService) Get(sessionID string) (SessionView, error) {
	var view SessionView
	err := s.withSession(sessionID, func(session *editorSession) error {
		view = session.view()
		return nil
	})
	return view, err
}

// Discard drops a session and its unpublished edits.
func (s *EditorService) Discard(sessionID string) error {
	if _, found := s.sessions.Get(sessionID); !found {
		return ErrSessionNotFound
	}
	s.sessions.Delete(sessionID)
	return nil
}

// Count returns the number of open sessions.
func (s *EditorService) Count() int {
	return s.sessions.ItemCount()
}

func (s *EditorService) AddSection(sessionID string, kind models.SectionKind) (models.Section, SessionView, error) {
	var added models.Section
	view, err := s.apply(sessionID, func(editor *layout.Editor) error {
		section, err := editor.AddSection(kind)
		added = section
		return err
	})
	return added, view, err
}

func (s *EditorService) RemoveSection(sessionID, sectionID string) (SessionView, error) {
	return s.apply(sessionID, func(editor *layout.Editor) error {
		editor.RemoveSection(sectionID)
		return nil
	})
}

func (s *EditorService) MoveSection(sessionID, sectionID string, direction layout.Direction) (SessionView, error) {
	return s.apply(sessionID, func(editor *layout.Editor) error {
		editor.MoveSection(sectionID, direction)
		return nil
	})
}

func (s *EditorService) SetActive(sessionID, sectionID string, active bool) (SessionView, error) {
	return s.apply(sessionID, func(editor *layout.Editor) error {
		editor.SetActive(sectionID, active)
		return nil
	})
}

func (s *EditorService) UpdateSettings(sessionID, sectionID, key string, value interface{}) (SessionView, error) {
	return s.apply(sessionID, func(editor *layout.Editor) error {
		editor.UpdateSettings(sectionID, key, value)
		return nil
	})
}

func (s *EditorService) UpdateField(sessionID, sectionID, field, value string) (SessionView, error) {
	return s.apply(sessionID, func(editor *layout.Editor) error {
		return editor.UpdateField(sectionID, field, value)
	})
}

func (s *EditorService) UpdateStyle(sessionID, sectionID string, style *models.StyleConfig) (SessionView, error) {
	return s.apply(sessionID, func(editor *layout.Editor) error {
		editor.UpdateStyle(sectionID, style)
		return nil
	})
}

// DuplicateSection copies a section to the end of the layout. The returned
// bool is false when the section does not exist.
func (s *EditorService) DuplicateSection(sessionID, sectionID string) (models.Section, bool, SessionView, error) {
	var (
		duplicate models.Section
		ok        bool
	)
	view, err := s.apply(sessionID, func(editor *layout.Editor) error {
		duplicate, ok = editor.DuplicateSection(sectionID)
		return nil
	})
	return duplicate, ok, view, err
}

// OnPublish registers fn to run after every successful publish.
func (s *EditorService) OnPublish(fn func(scopeID string)) {
	if fn != nil {
		s.onPublish = append(s.onPublish, fn)
	}
}

// Publish saves the session's document. On failure the session keeps every
// edit so the caller can retry.
func (s *EditorService) Publish(ctx context.Context, sessionID string) (SessionView, error) {
	var view SessionView
	err := s.withSession(sessionID, func(session *editorSession) error {
		doc := session.editor.Commit()
		if err := s.store.Save(ctx, doc); err != nil {
			editorPublishTotal.WithLabelValues("error").Inc()
			view = session.view()
			logger.FromContext(ctx).WithError(err).WithFields(map[string]interface{}{
				"session_id": session.id,
				"scope_id":   session.scopeID,
			}).Warn("Publish failed, session retained")
			return err
		}

		editorPublishTotal.WithLabelValues("success").Inc()
		session.editor.MarkSaved()
		now := time.Now().UTC()
		session.publishedAt = &now
		view = session.view()
		return nil
	})
	if err == nil {
		for _, fn := range s.onPublish {
			fn(view.ScopeID)
		}
	}
	return view, err
}

func (s *EditorService) apply(sessionID string, op func(*layout.Editor) error) (SessionView, error) {
	var view SessionView
	err := s.withSession(sessionID, func(session *editorSession) error {
		if err := op(session.editor); err != nil {
			return err
		}
		view = session.view()
		return nil
	})
	return view, err
}

func (s *EditorService) withSession(sessionID string, fn func(*editorSession) error) error {
	value, found := s.sessions.Get(sessionID)
	if !found {
		return ErrSessionNotFound
	}
	session := value.(*editorSession)

	session.mu.Lock()
	defer session.mu.Unlock()

	// Touching a session extends its idle timeout. Replace fails when the
	// session was discarded or expired while this call waited for the lock.
	if err := s.sessions.Replace(sessionID, session, cache.DefaultExpiration); err != nil {
		return ErrSessionNotFound
	}
	return fn(session)
}
