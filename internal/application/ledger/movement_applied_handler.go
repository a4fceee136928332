package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/domain/ledger"
	"github.com/stockledger/backend/internal/domain/shared"
)

// MovementAppliedHandler reacts to movements applied to the balance
// projection. It writes an audit log line for every movement and flags items
// that drop below their reorder level so operators see the alert condition
// the moment it arises, not only on the next alert query.
type MovementAppliedHandler struct {
	logger      *zap.Logger
	balanceRepo ledger.BalanceRepository
}

// NewMovementAppliedHandler creates a new MovementAppliedHandler
func NewMovementAppliedHandler(logger *zap.Logger, balanceRepo ledger.BalanceRepository) *MovementAppliedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovementAppliedHandler{
		logger:      logger.Named("ledger.audit"),
		balanceRepo: balanceRepo,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *MovementAppliedHandler) EventTypes() []string {
	return []string{ledger.EventTypeMovementApplied}
}

// Handle processes a movement applied event
func (h *MovementAppliedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	applied, ok := event.(*ledger.MovementAppliedEvent)
	if !ok {
		return nil
	}

	h.logger.Info("movement applied",
		zap.String("movement_id", applied.MovementID.String()),
		zap.String("item_id", applied.ItemID.String()),
		zap.String("location_id", applied.LocationID.String()),
		zap.String("kind", applied.Kind.String()),
		zap.String("delta", applied.Delta.String()),
		zap.Int64("sequence", applied.Sequence),
		zap.String("new_balance", applied.NewBalance.String()),
	)

	if !applied.Delta.IsNegative() {
		return nil
	}

	lowStock, err := h.balanceRepo.FindBelowReorderLevel(ctx)
	if err != nil {
		return err
	}
	for _, row := range lowStock {
		if row.ItemID == applied.ItemID {
			h.logger.Warn("item below reorder level",
				zap.String("item_id", row.ItemID.String()),
				zap.String("sku", row.SKU),
				zap.String("quantity", row.Quantity.String()),
				zap.String("reorder_level", row.ReorderLevel.String()),
			)
			break
		}
	}
	return nil
}

// Ensure MovementAppliedHandler implements EventHandler
var _ shared.EventHandler = (*MovementAppliedHandler)(nil)
