package purchasing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated      = "PurchaseOrderCreated"
	EventTypePurchaseOrderSubmitted    = "PurchaseOrderSubmitted"
	EventTypePurchaseOrderLineReceived = "PurchaseOrderLineReceived"
	EventTypePurchaseOrderCancelled    = "PurchaseOrderCancelled"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	ErpOrderID  string    `json:"erp_order_id,omitempty"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		ErpOrderID:      order.ErpOrderID,
	}
}

// PurchaseOrderSubmittedEvent is raised when an order is submitted to the supplier
type PurchaseOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	LineCount   int       `json:"line_count"`
}

// NewPurchaseOrderSubmittedEvent creates a new PurchaseOrderSubmittedEvent
func NewPurchaseOrderSubmittedEvent(order *PurchaseOrder) *PurchaseOrderSubmittedEvent {
	return &PurchaseOrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderSubmitted, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		LineCount:       len(order.Lines),
	}
}

// PurchaseOrderLineReceivedEvent is raised when goods are received against a line
type PurchaseOrderLineReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID           `json:"order_id"`
	OrderNumber      string              `json:"order_number"`
	LineID           uuid.UUID           `json:"line_id"`
	ItemID           uuid.UUID           `json:"item_id"`
	Quantity         decimal.Decimal     `json:"quantity"`
	ReceivedQuantity decimal.Decimal     `json:"received_quantity"`
	NewStatus        PurchaseOrderStatus `json:"new_status"`
}

// NewPurchaseOrderLineReceivedEvent creates a new PurchaseOrderLineReceivedEvent
func NewPurchaseOrderLineReceivedEvent(order *PurchaseOrder, line *PurchaseOrderLine, quantity decimal.Decimal) *PurchaseOrderLineReceivedEvent {
	return &PurchaseOrderLineReceivedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePurchaseOrderLineReceived, AggregateTypePurchaseOrder, order.ID),
		OrderID:          order.ID,
		OrderNumber:      order.OrderNumber,
		LineID:           line.ID,
		ItemID:           line.ItemID,
		Quantity:         quantity,
		ReceivedQuantity: line.ReceivedQuantity,
		NewStatus:        order.Status,
	}
}

// PurchaseOrderCancelledEvent is raised when an order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Reason:          order.CancelReason,
	}
}
