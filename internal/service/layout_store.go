package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/repository"
	"storefront-layout-backend/internal/sections"
	"storefront-layout-backend/pkg/cache"
	"storefront-layout-backend/pkg/logger"
)

// Store operations reported in PersistenceError.Op.
const (
	OpLoad = "load"
	OpSave = "save"
)

var (
	// ErrPersistenceFailure matches every error raised by the persistence
	// collaborator. Such failures are transient and safe to retry.
	ErrPersistenceFailure = errors.New("persistence failure")
	// ErrInvalidScope is returned when a document has no scope id.
	ErrInvalidScope = errors.New("layout scope id is required")
)

// PersistenceError carries the operation and scope of a failed store call.
type PersistenceError struct {
	Op      string
	ScopeID string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s layout %q: %v", e.Op, e.ScopeID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistenceFailure
}

// LayoutStore loads and saves whole layout documents keyed by scope.
type LayoutStore struct {
	repo     repository.LayoutRepository
	cache    *cache.Cache
	registry *sections.Registry
}

// NewLayoutStore creates a store. cache may be nil.
func NewLayoutStore(repo repository.LayoutRepository, layoutCache *cache.Cache, registry *sections.Registry) *LayoutStore {
	initMetrics()
	if registry == nil {
		registry = sections.DefaultRegistry()
	}
	return &LayoutStore{repo: repo, cache: layoutCache, registry: registry}
}

// Load returns the document stored for scopeID. A scope without a stored
// layout yields an empty document.
func (s *LayoutStore) Load(ctx context.Context, scopeID string) (doc models.LayoutDocument, err error) {
	scopeID = strings.TrimSpace(scopeID)
	if scopeID == "" {
		return models.LayoutDocument{}, ErrInvalidScope
	}

	started := time.Now()
	defer func() { observeStore(OpLoad, started, err) }()

	if cached, ok := s.fromCache(ctx, scopeID); ok {
		return cached, nil
	}

	record, err := s.repo.Get(ctx, scopeID)
	if errors.Is(err, repository.ErrLayoutNotFound) {
		return models.NewLayoutDocument(scopeID), nil
	}
	if err != nil {
		return models.LayoutDocument{}, &PersistenceError{Op: OpLoad, ScopeID: scopeID, Err: err}
	}

	doc, err = DecodeLayout(record.Payload, scopeID, s.registry)
	if err != nil {
		return models.LayoutDocument{}, &PersistenceError{Op: OpLoad, ScopeID: scopeID, Err: err}
	}

	if _, err := s.cache.FillLayout(ctx, scopeID, doc); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("scope_id", scopeID).Warn("Failed to cache layout")
	}
	return doc, nil
}

// Save replaces the stored document for doc.ScopeID. Concurrent saves to the
// same scope are last-write-wins.
func (s *LayoutStore) Save(ctx context.Context, doc models.LayoutDocument) (err error) {
	doc.ScopeID = strings.TrimSpace(doc.ScopeID)
	if doc.ScopeID == "" {
		return ErrInvalidScope
	}

	started := time.Now()
	defer func() { observeStore(OpSave, started, err) }()

	payload, err := EncodeLayout(doc)
	if err != nil {
		return &PersistenceError{Op: OpSave, ScopeID: doc.ScopeID, Err: err}
	}

	if err := s.repo.Put(ctx, &models.LayoutRecord{ScopeID: doc.ScopeID, Payload: payload}); err != nil {
		return &PersistenceError{Op: OpSave, ScopeID: doc.ScopeID, Err: err}
	}

	// The saved document replaces any cached copy. Loads only fill an empty
	// entry, so a load that read the repository before this save cannot
	// overwrite it afterwards.
	if err := s.cache.CacheLayout(ctx, doc.ScopeID, doc); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("scope_id", doc.ScopeID).Warn("Failed to cache saved layout")
		if err := s.cache.InvalidateLayout(ctx, doc.ScopeID); err != nil {
			logger.FromContext(ctx).WithError(err).WithField("scope_id", doc.ScopeID).Warn("Failed to invalidate cached layout")
		}
	}

	logger.FromContext(ctx).WithFields(map[string]interface{}{
		"scope_id": doc.ScopeID,
		"sections": len(doc.Sections),
	}).Info("Layout saved")
	return nil
}

func (s *LayoutStore) fromCache(ctx context.Context, scopeID string) (models.LayoutDocument, bool) {
	if !s.cache.Enabled() {
		return models.LayoutDocument{}, false
	}

	var doc models.LayoutDocument
	err := s.cache.GetCachedLayout(ctx, scopeID, &doc)
	switch {
	case err == nil:
		layoutCacheLookups.WithLabelValues("hit").Inc()
		if doc.Sections == nil {
			doc.Sections = []models.Section{}
		}
		doc.ScopeID = scopeID
		return doc, true
	case errors.Is(err, cache.ErrCacheMiss):
		layoutCacheLookups.WithLabelValues("miss").Inc()
	default:
		layoutCacheLookups.WithLabelValues("error").Inc()
		logger.FromContext(ctx).WithError(err).WithField("scope_id", scopeID).Warn("Failed to read cached layout")
	}
	return models.LayoutDocument{}, false
}
