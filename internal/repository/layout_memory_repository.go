package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"storefront-layout-backend/internal/models"
)

// MemoryLayoutRepository keeps layouts in process memory. It is used for local
// development, the CLI and tests.
type MemoryLayoutRepository struct {
	cache *cache.Cache
	now   func() time.Time
}

func NewMemoryLayoutRepository() *MemoryLayoutRepository {
	return &MemoryLayoutRepository{
		cache: cache.New(cache.NoExpiration, 0),
		now:   time.Now,
	}
}

func (r *MemoryLayoutRepository) Get(ctx context.Context, scopeID string) (*models.LayoutRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, found := r.cache.Get(scopeID)
	if !found {
		return nil, ErrLayoutNotFound
	}
	stored := value.(models.LayoutRecord)
	return copyRecord(&stored), nil
}

func (r *MemoryLayoutRepository) Put(ctx context.Context, record *models.LayoutRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := copyRecord(record)
	now := r.now()
	stored.UpdatedAt = now
	stored.CreatedAt = now
	if existing, found := r.cache.Get(record.ScopeID); found {
		stored.CreatedAt = existing.(models.LayoutRecord).CreatedAt
	}
	r.cache.Set(record.ScopeID, *stored, cache.NoExpiration)
	return nil
}

// Len returns the number of stored layouts.
func (r *MemoryLayoutRepository) Len() int {
	return r.cache.ItemCount()
}

func copyRecord(record *models.LayoutRecord) *models.LayoutRecord {
	cloned := *record
	cloned.Payload = append([]byte(nil), record.Payload...)
	return &cloned
}
