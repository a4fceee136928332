package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// Event types for the stock ledger
const (
	EventTypeMovementApplied = "ledger.movement_applied"
)

// MovementAppliedEvent is emitted when a movement has been appended and the
// balance projection updated
type MovementAppliedEvent struct {
	shared.BaseDomainEvent
	MovementID uuid.UUID       `json:"movement_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Kind       MovementKind    `json:"kind"`
	Delta      decimal.Decimal `json:"delta"`
	Sequence   int64           `json:"sequence"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// NewMovementAppliedEvent creates a new MovementAppliedEvent
func NewMovementAppliedEvent(balance *Balance, movement *Movement) *MovementAppliedEvent {
	return &MovementAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementApplied, "Balance", balance.ID),
		MovementID:      movement.ID,
		ItemID:          movement.ItemID,
		LocationID:      movement.LocationID,
		Kind:            movement.Kind,
		Delta:           movement.Delta,
		Sequence:        movement.Sequence,
		NewBalance:      balance.Quantity,
	}
}
