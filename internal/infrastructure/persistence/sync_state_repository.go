package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockledger/backend/internal/domain/erpsync"
)

// GormSyncStateRepository implements erpsync.SyncStateRepository using GORM
type GormSyncStateRepository struct {
	db *gorm.DB
}

// NewGormSyncStateRepository creates a new GormSyncStateRepository
func NewGormSyncStateRepository(db *gorm.DB) *GormSyncStateRepository {
	return &GormSyncStateRepository{db: db}
}

// Get returns the sync state, creating the empty singleton on first use
func (r *GormSyncStateRepository) Get(ctx context.Context) (*erpsync.SyncState, error) {
	var state erpsync.SyncState
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&state).Error
	if err == nil {
		return &state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := erpsync.NewSyncState()
	if err := r.db.WithContext(ctx).Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

// Save persists the sync state
func (r *GormSyncStateRepository) Save(ctx context.Context, state *erpsync.SyncState) error {
	return r.db.WithContext(ctx).Save(state).Error
}

// IsImported reports whether the ERP order identifier was imported before
func (r *GormSyncStateRepository) IsImported(ctx context.Context, erpOrderID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&erpsync.ImportedOrder{}).
		Where("erp_order_id = ?", erpOrderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkImported records an ERP order identifier as imported. A concurrent
// insert of the same identifier is tolerated.
func (r *GormSyncStateRepository) MarkImported(ctx context.Context, record *erpsync.ImportedOrder) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "erp_order_id"}},
			DoNothing: true,
		}).
		Create(record).Error
}

// ImportedCount returns the size of the imported identifier set
func (r *GormSyncStateRepository) ImportedCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&erpsync.ImportedOrder{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormSyncStateRepository implements SyncStateRepository
var _ erpsync.SyncStateRepository = (*GormSyncStateRepository)(nil)
