package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// MovementKind represents the kind of stock movement
type MovementKind string

const (
	// MovementKindReceipt represents stock coming into a location (purchase receiving, return)
	MovementKindReceipt MovementKind = "RECEIPT"
	// MovementKindIssue represents stock leaving a location (shipment, consumption)
	MovementKindIssue MovementKind = "ISSUE"
	// MovementKindCorrection represents a signed stock correction (count difference, shrinkage)
	MovementKindCorrection MovementKind = "CORRECTION"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsValid returns true if the movement kind is valid
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementKindReceipt, MovementKindIssue, MovementKindCorrection:
		return true
	}
	return false
}

// Movement is an immutable record of a single stock-quantity change for an
// (item, location) pair. Movements are append-only: corrections are new
// movements with kind CORRECTION, never edits of history.
//
// Movements for one (item, location) key are totally ordered by Sequence,
// assigned at record time under the ledger's per-key serialization. Wall-clock
// timestamps are informational only.
type Movement struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_movements_key_seq,priority:1"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_movements_key_seq,priority:2"`
	Sequence   int64           `gorm:"not null;uniqueIndex:idx_movements_key_seq,priority:3"`
	Kind       MovementKind    `gorm:"type:varchar(20);not null"`
	Delta      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed quantity change
	Reference  string          `gorm:"type:varchar(128)"`           // e.g. purchase-order line or manual reason
	Note       string          `gorm:"type:text"`
	Actor      string          `gorm:"type:varchar(128)"`
	CreatedAt  time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// NewMovement creates a new movement from a kind and a caller-facing quantity.
// Receipt and Issue quantities must be positive; the issue quantity is stored
// as a negative delta. Correction takes a signed, non-zero delta and is the
// designated override path that may take a balance negative.
func NewMovement(itemID, locationID uuid.UUID, kind MovementKind, quantity decimal.Decimal, reference, note, actor string) (*Movement, error) {
	if itemID == uuid.Nil || locationID == uuid.Nil {
		return nil, shared.ErrUnknownReference
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown movement kind")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}

	delta := quantity
	switch kind {
	case MovementKindReceipt:
		if quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
		}
	case MovementKindIssue:
		if quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Issue quantity must be positive")
		}
		delta = quantity.Neg()
	case MovementKindCorrection:
		// Signed as given.
	}

	return &Movement{
		ID:         uuid.New(),
		ItemID:     itemID,
		LocationID: locationID,
		Kind:       kind,
		Delta:      delta,
		Reference:  reference,
		Note:       note,
		Actor:      actor,
		CreatedAt:  time.Now(),
	}, nil
}

// WithSequence assigns the per-key sequence number. Called exactly once inside
// the ledger's per-key critical section before the append is persisted.
func (m *Movement) WithSequence(seq int64) *Movement {
	m.Sequence = seq
	return m
}

// IsOverride returns true if this movement bypasses the non-negative balance check
func (m *Movement) IsOverride() bool {
	return m.Kind == MovementKindCorrection
}

// MovementKey returns the serialization key for an (item, location) pair.
// All writers appending to the same key must hold its lock while assigning
// the next sequence number.
func MovementKey(itemID, locationID uuid.UUID) string {
	return itemID.String() + "/" + locationID.String()
}

// SequenceRange selects movements by their per-key sequence numbers.
// A zero bound means unbounded on that side.
type SequenceRange struct {
	From int64
	To   int64
}
