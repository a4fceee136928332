package erpsync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/shared"
)

// SyncState tracks the reconciliation checkpoints with the ERP endpoint.
// There is exactly one row; it is owned by the reconciliation coordinator and
// only advanced after a successful export or import.
type SyncState struct {
	shared.BaseAggregateRoot
	LastExportCheckpoint string     `gorm:"type:varchar(64)"`
	LastExportAt         *time.Time
	LastImportAt         *time.Time
}

// TableName returns the table name for GORM
func (SyncState) TableName() string {
	return "erp_sync_state"
}

// NewSyncState creates an empty sync state
func NewSyncState() *SyncState {
	return &SyncState{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
}

// AdvanceExport records a successful export
func (s *SyncState) AdvanceExport(checkpoint string, at time.Time) {
	s.LastExportCheckpoint = checkpoint
	s.LastExportAt = &at
	s.Touch()
	s.IncrementVersion()
}

// AdvanceImport records a successful import
func (s *SyncState) AdvanceImport(at time.Time) {
	s.LastImportAt = &at
	s.Touch()
	s.IncrementVersion()
}

// ImportedOrder marks an ERP order identifier as already imported. Membership
// of this set is what makes repeated imports of the same ERP order a no-op.
type ImportedOrder struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ErpOrderID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_erp_imported_orders_erp_id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null"` // The local purchase order created for it
	ImportedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ImportedOrder) TableName() string {
	return "erp_imported_orders"
}

// NewImportedOrder records that an ERP order produced a local purchase order
func NewImportedOrder(erpOrderID string, orderID uuid.UUID) *ImportedOrder {
	return &ImportedOrder{
		ID:         uuid.New(),
		ErpOrderID: erpOrderID,
		OrderID:    orderID,
		ImportedAt: time.Now(),
	}
}

// SyncStateRepository persists the sync state singleton and the imported
// order identifier set
type SyncStateRepository interface {
	// Get returns the sync state, creating the empty singleton on first use
	Get(ctx context.Context) (*SyncState, error)
	Save(ctx context.Context, state *SyncState) error
	// IsImported reports whether the ERP order identifier was imported before
	IsImported(ctx context.Context, erpOrderID string) (bool, error)
	// MarkImported records an ERP order identifier as imported
	MarkImported(ctx context.Context, record *ImportedOrder) error
	// ImportedCount returns the size of the imported identifier set
	ImportedCount(ctx context.Context) (int64, error)
}
