package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockledger/backend/internal/domain/ledger"
	"github.com/stockledger/backend/internal/domain/shared"
)

// GormMovementRepository implements ledger.MovementRepository using GORM.
// Movements are append-only; the repository exposes no update or delete.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append persists a new movement record
func (r *GormMovementRepository) Append(ctx context.Context, movement *ledger.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByKey returns movements for an (item, location) key within the sequence
// range, ordered by sequence ascending
func (r *GormMovementRepository) FindByKey(ctx context.Context, itemID, locationID uuid.UUID, rng ledger.SequenceRange) ([]ledger.Movement, error) {
	var movements []ledger.Movement
	query := r.db.WithContext(ctx).
		Where("item_id = ? AND location_id = ?", itemID, locationID)
	if rng.From > 0 {
		query = query.Where("sequence >= ?", rng.From)
	}
	if rng.To > 0 {
		query = query.Where("sequence <= ?", rng.To)
	}
	if err := query.Order("sequence ASC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindRecent returns the most recent movements across all keys, newest first
func (r *GormMovementRepository) FindRecent(ctx context.Context, limit int) ([]ledger.Movement, error) {
	if limit <= 0 {
		limit = 50
	}
	var movements []ledger.Movement
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountByKey counts movements for an (item, location) key
func (r *GormMovementRepository) CountByKey(ctx context.Context, itemID, locationID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.Movement{}).
		Where("item_id = ? AND location_id = ?", itemID, locationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GormBalanceRepository implements ledger.BalanceRepository using GORM
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

// FindByKey returns the balance for an (item, location) key
func (r *GormBalanceRepository) FindByKey(ctx context.Context, itemID, locationID uuid.UUID) (*ledger.Balance, error) {
	var balance ledger.Balance
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND location_id = ?", itemID, locationID).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// FindByItem returns all balances for an item across locations
func (r *GormBalanceRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]ledger.Balance, error) {
	var balances []ledger.Balance
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// FindAll returns all balance projections
func (r *GormBalanceRepository) FindAll(ctx context.Context) ([]ledger.Balance, error) {
	var balances []ledger.Balance
	if err := r.db.WithContext(ctx).Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// Save upserts a balance projection with optimistic locking. A stale version
// means another writer got there first and the caller must retry from a fresh
// read.
func (r *GormBalanceRepository) Save(ctx context.Context, balance *ledger.Balance) error {
	result := r.db.WithContext(ctx).
		Model(balance).
		Where("id = ? AND version = ?", balance.ID, balance.Version-1).
		Updates(map[string]interface{}{
			"quantity":      balance.Quantity,
			"last_sequence": balance.LastSequence,
			"version":       balance.Version,
			"updated_at":    balance.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// No matching row: either the projection is new or another writer moved
	// the version forward.
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.Balance{}).
		Where("id = ?", balance.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrConcurrencyConflict
	}
	return r.db.WithContext(ctx).Create(balance).Error
}

// TotalQuantity returns the summed quantity across all balances
func (r *GormBalanceRepository) TotalQuantity(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&ledger.Balance{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// FindBelowReorderLevel returns items whose total projected quantity across
// locations is strictly below their reorder level. Items with no balance rows
// yet read as zero, so a zero reorder level only alerts once the total goes
// negative.
func (r *GormBalanceRepository) FindBelowReorderLevel(ctx context.Context) ([]ledger.LowStockItem, error) {
	var rows []ledger.LowStockItem
	if err := r.db.WithContext(ctx).
		Table("items").
		Select("items.id as item_id, items.sku, items.name, COALESCE(SUM(balances.quantity), 0) as quantity, items.reorder_level").
		Joins("LEFT JOIN balances ON balances.item_id = items.id").
		Group("items.id, items.sku, items.name, items.reorder_level").
		Having("COALESCE(SUM(balances.quantity), 0) < items.reorder_level").
		Order("items.sku ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure interfaces are implemented
var (
	_ ledger.MovementRepository = (*GormMovementRepository)(nil)
	_ ledger.BalanceRepository  = (*GormBalanceRepository)(nil)
)
