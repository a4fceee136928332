package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementRepository defines the persistence interface for the append-only
// movement ledger. There is deliberately no update or delete.
type MovementRepository interface {
	// Append persists a new movement record
	Append(ctx context.Context, movement *Movement) error
	// FindByKey returns movements for an (item, location) key within the
	// sequence range, ordered by sequence ascending
	FindByKey(ctx context.Context, itemID, locationID uuid.UUID, rng SequenceRange) ([]Movement, error)
	// FindRecent returns the most recent movements across all keys, newest first
	FindRecent(ctx context.Context, limit int) ([]Movement, error)
	// CountByKey counts movements for an (item, location) key
	CountByKey(ctx context.Context, itemID, locationID uuid.UUID) (int64, error)
}

// BalanceRepository defines the persistence interface for balance projections
type BalanceRepository interface {
	// FindByKey returns the balance for an (item, location) key, or ErrNotFound
	FindByKey(ctx context.Context, itemID, locationID uuid.UUID) (*Balance, error)
	// FindByItem returns all balances for an item across locations
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]Balance, error)
	// FindAll returns all balance projections
	FindAll(ctx context.Context) ([]Balance, error)
	// Save upserts a balance projection
	Save(ctx context.Context, balance *Balance) error
	// TotalQuantity returns the summed quantity across all balances
	TotalQuantity(ctx context.Context) (decimal.Decimal, error)
	// FindBelowReorderLevel returns, per item, the total projected quantity for
	// items whose total across locations is strictly below their reorder level
	FindBelowReorderLevel(ctx context.Context) ([]LowStockItem, error)
}

// LowStockItem is a read model row for the reorder alert computation
type LowStockItem struct {
	ItemID       uuid.UUID       `json:"item_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}
