package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/ledger"
)

// RecordMovementRequest represents a request to append a movement to the ledger
type RecordMovementRequest struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	Kind       string          `json:"kind" binding:"required,oneof=RECEIPT ISSUE CORRECTION"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Reference  string          `json:"reference"`
	Note       string          `json:"note"`
	Actor      string          `json:"actor"`
}

// MovementResponse represents a ledger movement in API responses
type MovementResponse struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Sequence   int64           `json:"sequence"`
	Kind       string          `json:"kind"`
	Delta      decimal.Decimal `json:"delta"`
	Reference  string          `json:"reference,omitempty"`
	Note       string          `json:"note,omitempty"`
	Actor      string          `json:"actor,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// BalanceResponse represents a balance projection in API responses
type BalanceResponse struct {
	ItemID       uuid.UUID       `json:"item_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	LastSequence int64           `json:"last_sequence"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RecordMovementResult pairs the appended movement with the balance it produced
type RecordMovementResult struct {
	Movement MovementResponse `json:"movement"`
	Balance  BalanceResponse  `json:"balance"`
}

// ReorderAlertResponse represents an active reorder alert
type ReorderAlertResponse struct {
	ItemID       uuid.UUID       `json:"item_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Shortfall    decimal.Decimal `json:"shortfall"`
}

// LocationQuantity is one location's share of an item's stock
type LocationQuantity struct {
	LocationID   uuid.UUID       `json:"location_id"`
	LocationName string          `json:"location_name"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// StockOverviewRow aggregates an item's projected stock across locations
type StockOverviewRow struct {
	ItemID        uuid.UUID          `json:"item_id"`
	SKU           string             `json:"sku"`
	Name          string             `json:"name"`
	UnitOfMeasure string             `json:"unit_of_measure"`
	ReorderLevel  decimal.Decimal    `json:"reorder_level"`
	TotalQuantity decimal.Decimal    `json:"total_quantity"`
	BelowReorder  bool               `json:"below_reorder"`
	Locations     []LocationQuantity `json:"locations"`
}

// LedgerSummary holds the stock side of the dashboard metrics
type LedgerSummary struct {
	ItemCount     int64           `json:"item_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	LowStockCount int64           `json:"low_stock_count"`
}

func toMovementResponse(m *ledger.Movement) MovementResponse {
	return MovementResponse{
		ID:         m.ID,
		ItemID:     m.ItemID,
		LocationID: m.LocationID,
		Sequence:   m.Sequence,
		Kind:       m.Kind.String(),
		Delta:      m.Delta,
		Reference:  m.Reference,
		Note:       m.Note,
		Actor:      m.Actor,
		CreatedAt:  m.CreatedAt,
	}
}

// BalanceResponseOf maps a balance projection into its response form. Other
// services that append movements use it to refresh the balance cache.
func BalanceResponseOf(b *ledger.Balance) BalanceResponse {
	return toBalanceResponse(b)
}

func toBalanceResponse(b *ledger.Balance) BalanceResponse {
	return BalanceResponse{
		ItemID:       b.ItemID,
		LocationID:   b.LocationID,
		Quantity:     b.Quantity,
		LastSequence: b.LastSequence,
		UpdatedAt:    b.UpdatedAt,
	}
}
