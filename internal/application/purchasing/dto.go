package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/purchasing"
)

// CreateOrderRequest represents a request to create a purchase order
type CreateOrderRequest struct {
	OrderNumber  string             `json:"order_number" binding:"required,max=64"`
	SupplierID   uuid.UUID          `json:"supplier_id" binding:"required"`
	ExpectedDate *time.Time         `json:"expected_date"`
	Notes        string             `json:"notes"`
	Lines        []OrderLineRequest `json:"lines"`
}

// OrderLineRequest represents one line of a create order request
type OrderLineRequest struct {
	ItemID      uuid.UUID       `json:"item_id" binding:"required"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ReceiveLineRequest represents a request to receive goods against a line
type ReceiveLineRequest struct {
	LineID     uuid.UUID       `json:"line_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	LocationID *uuid.UUID      `json:"location_id"` // defaults to the receiving location
	Actor      string          `json:"actor"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderLineResponse represents a purchase order line in API responses
type OrderLineResponse struct {
	ID                uuid.UUID       `json:"id"`
	ItemID            uuid.UUID       `json:"item_id"`
	Description       string          `json:"description,omitempty"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	FullyReceived     bool            `json:"fully_received"`
}

// OrderResponse represents a purchase order in API responses
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	SupplierID   uuid.UUID           `json:"supplier_id"`
	Status       string              `json:"status"`
	ExpectedDate *time.Time          `json:"expected_date,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	ErpOrderID   string              `json:"erp_order_id,omitempty"`
	Lines        []OrderLineResponse `json:"lines"`
	SubmittedAt  *time.Time          `json:"submitted_at,omitempty"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED PARTIALLY_RECEIVED RECEIVED CANCELLED"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Open       *bool      `form:"open"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func toOrderResponse(order *purchasing.PurchaseOrder) OrderResponse {
	lines := make([]OrderLineResponse, len(order.Lines))
	for i := range order.Lines {
		line := &order.Lines[i]
		lines[i] = OrderLineResponse{
			ID:                line.ID,
			ItemID:            line.ItemID,
			Description:       line.Description,
			OrderedQuantity:   line.OrderedQuantity,
			ReceivedQuantity:  line.ReceivedQuantity,
			RemainingQuantity: line.RemainingQuantity(),
			UnitPrice:         line.UnitPrice,
			FullyReceived:     line.IsFullyReceived(),
		}
	}
	return OrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		SupplierID:   order.SupplierID,
		Status:       order.Status.String(),
		ExpectedDate: order.ExpectedDate,
		Notes:        order.Notes,
		ErpOrderID:   order.ErpOrderID,
		Lines:        lines,
		SubmittedAt:  order.SubmittedAt,
		ReceivedAt:   order.ReceivedAt,
		CancelledAt:  order.CancelledAt,
		CancelReason: order.CancelReason,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}
