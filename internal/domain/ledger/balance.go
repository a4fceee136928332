package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// Balance is the projected current quantity for an (item, location) pair.
// It is derived state: the movement ledger is the only source of truth and
// the invariant Quantity == sum of all movement deltas for the key holds at
// every consistent observation point. The projection is updated in the same
// transaction as the movement append.
type Balance struct {
	shared.BaseAggregateRoot
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balances_item_location,priority:1"`
	LocationID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_balances_item_location,priority:2"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastSequence int64           `gorm:"not null;default:0"` // Sequence of the last applied movement
}

// TableName returns the table name for GORM
func (Balance) TableName() string {
	return "balances"
}

// NewBalance creates a zero balance for an (item, location) key
func NewBalance(itemID, locationID uuid.UUID) *Balance {
	return &Balance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemID:            itemID,
		LocationID:        locationID,
		Quantity:          decimal.Zero,
		LastSequence:      0,
	}
}

// Apply applies a movement delta to the projection. An issue that would take
// the balance negative is rejected with InsufficientStock; a correction is
// the override path and may take the balance negative.
func (b *Balance) Apply(m *Movement) error {
	if m.ItemID != b.ItemID || m.LocationID != b.LocationID {
		return shared.NewDomainError("KEY_MISMATCH", "Movement does not belong to this balance key")
	}
	if m.Sequence <= b.LastSequence {
		return shared.ErrConcurrencyConflict
	}

	next := b.Quantity.Add(m.Delta)
	if next.IsNegative() && !m.IsOverride() {
		return shared.ErrInsufficientStock
	}

	b.Quantity = next
	b.LastSequence = m.Sequence
	b.Touch()
	b.IncrementVersion()

	b.AddDomainEvent(NewMovementAppliedEvent(b, m))
	return nil
}

// NextSequence returns the sequence number for the next movement on this key
func (b *Balance) NextSequence() int64 {
	return b.LastSequence + 1
}
