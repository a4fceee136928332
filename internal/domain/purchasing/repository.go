package purchasing

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the persistence interface for purchase
// orders. Implementations load and save the aggregate with its lines.
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)
	FindByErpOrderID(ctx context.Context, erpOrderID string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// CountOpen counts orders that are neither received nor cancelled
	CountOpen(ctx context.Context) (int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
}
