package repository

import (
	"context"
	"errors"

	"storefront-layout-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLayoutNotFound is returned by Get when no layout is stored for a scope.
var ErrLayoutNotFound = errors.New("layout not found")

// LayoutRepository is the keyed document store layouts are persisted in. Put
// replaces the whole record for its scope.
type LayoutRepository interface {
	Get(ctx context.Context, scopeID string) (*models.LayoutRecord, error)
	Put(ctx context.Context, record *models.LayoutRecord) error
}

type layoutRepository struct {
	db *gorm.DB
}

func NewLayoutRepository(db *gorm.DB) LayoutRepository {
	return &layoutRepository{db: db}
}

func (r *layoutRepository) Get(ctx context.Context, scopeID string) (*models.LayoutRecord, error) {
	var record models.LayoutRecord
	err := r.db.WithContext(ctx).First(&record, "scope_id = ?", scopeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLayoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *layoutRepository) Put(ctx context.Context, record *models.LayoutRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(record).Error
}
