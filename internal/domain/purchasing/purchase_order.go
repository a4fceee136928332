package purchasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusSubmitted         PurchaseOrderStatus = "SUBMITTED"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSubmitted, PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSubmitted || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusSubmitted:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusSubmitted || s == PurchaseOrderStatusPartiallyReceived
}

// IsTerminal returns true for RECEIVED and CANCELLED
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// PurchaseOrderLine represents a line item in a purchase order.
// ReceivedQuantity is monotonically non-decreasing and never exceeds
// OrderedQuantity.
type PurchaseOrderLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	Description      string          `gorm:"type:text"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}

// NewPurchaseOrderLine creates a new purchase order line
func NewPurchaseOrderLine(orderID, itemID uuid.UUID, description string, orderedQuantity, unitPrice decimal.Decimal) (*PurchaseOrderLine, error) {
	if itemID == uuid.Nil {
		return nil, shared.ErrUnknownReference
	}
	if orderedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderLine{
		ID:               uuid.New(),
		OrderID:          orderID,
		ItemID:           itemID,
		Description:      description,
		OrderedQuantity:  orderedQuantity,
		ReceivedQuantity: decimal.Zero,
		UnitPrice:        unitPrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// RemainingQuantity returns the quantity still to be received
func (l *PurchaseOrderLine) RemainingQuantity() decimal.Decimal {
	remaining := l.OrderedQuantity.Sub(l.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (l *PurchaseOrderLine) IsFullyReceived() bool {
	return l.ReceivedQuantity.GreaterThanOrEqual(l.OrderedQuantity)
}

// AddReceivedQuantity adds to the received quantity, capped at the ordered quantity
func (l *PurchaseOrderLine) AddReceivedQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}

	newReceived := l.ReceivedQuantity.Add(quantity)
	if newReceived.GreaterThan(l.OrderedQuantity) {
		return &shared.DomainError{
			Code:    shared.ErrOverReceipt.Code,
			Message: fmt.Sprintf("Cannot receive %s, only %s remaining", quantity.String(), l.RemainingQuantity().String()),
		}
	}

	l.ReceivedQuantity = newReceived
	l.UpdatedAt = time.Now()
	return nil
}

// PurchaseOrder is the aggregate root for supplier purchase orders. It owns
// the order lifecycle; received lines feed Receipt movements into the stock
// ledger but never hold inventory state themselves.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string              `gorm:"type:varchar(64);not null;uniqueIndex:idx_purchase_orders_number"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(24);not null;default:'DRAFT'"`
	ExpectedDate *time.Time
	Notes        string              `gorm:"type:text"`
	ErpOrderID   string              `gorm:"type:varchar(64);index"` // Identifier on the ERP side, set for imported orders
	Lines        []PurchaseOrderLine `gorm:"foreignKey:OrderID;references:ID"`
	SubmittedAt  *time.Time          `gorm:"index"`
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in DRAFT status
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 64 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 64 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.ErrUnknownReference
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		Status:            PurchaseOrderStatusDraft,
		Lines:             make([]PurchaseOrderLine, 0),
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// SetErpOrderID marks the order as originating from the ERP system
func (o *PurchaseOrder) SetErpOrderID(erpOrderID string) {
	o.ErpOrderID = erpOrderID
	o.Touch()
}

// AddLine adds a new line to the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) AddLine(itemID uuid.UUID, description string, orderedQuantity, unitPrice decimal.Decimal) (*PurchaseOrderLine, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.ErrInvalidTransition
	}

	line, err := NewPurchaseOrderLine(o.ID, itemID, description, orderedQuantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.Touch()
	o.IncrementVersion()

	return line, nil
}

// Submit transitions the order from DRAFT to SUBMITTED. Requires at least one line.
func (o *PurchaseOrder) Submit() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusSubmitted) {
		return &shared.DomainError{
			Code:    shared.ErrInvalidTransition.Code,
			Message: fmt.Sprintf("Cannot submit order in %s status", o.Status),
		}
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot submit an order without lines")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusSubmitted
	o.SubmittedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderSubmittedEvent(o))

	return nil
}

// ReceiveLine records a received quantity against a line and recomputes the
// order status: all lines fully received means RECEIVED, some but not all
// means PARTIALLY_RECEIVED, none keeps the order SUBMITTED. The caller is
// responsible for appending the matching Receipt movement in the same
// transaction.
func (o *PurchaseOrder) ReceiveLine(lineID uuid.UUID, quantity decimal.Decimal) (*PurchaseOrderLine, error) {
	if !o.Status.CanReceive() {
		return nil, &shared.DomainError{
			Code:    shared.ErrInvalidTransition.Code,
			Message: fmt.Sprintf("Cannot receive goods for order in %s status", o.Status),
		}
	}

	var line *PurchaseOrderLine
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			line = &o.Lines[idx]
			break
		}
	}
	if line == nil {
		return nil, shared.ErrUnknownReference
	}

	if err := line.AddReceivedQuantity(quantity); err != nil {
		return nil, err
	}

	o.recomputeStatus()
	o.Touch()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderLineReceivedEvent(o, line, quantity))

	return line, nil
}

// Cancel cancels the order. Allowed only from DRAFT, or from SUBMITTED with
// zero receipts.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) || o.HasReceivedAnyGoods() {
		return &shared.DomainError{
			Code:    shared.ErrInvalidTransition.Code,
			Message: fmt.Sprintf("Cannot cancel order in %s status", o.Status),
		}
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

// recomputeStatus derives the status from the per-line receipt progress
func (o *PurchaseOrder) recomputeStatus() {
	if !o.HasReceivedAnyGoods() {
		return
	}
	if o.isAllLinesReceived() {
		o.Status = PurchaseOrderStatusReceived
		now := time.Now()
		o.ReceivedAt = &now
		return
	}
	o.Status = PurchaseOrderStatusPartiallyReceived
}

// isAllLinesReceived checks if all lines have been fully received
func (o *PurchaseOrder) isAllLinesReceived() bool {
	for _, line := range o.Lines {
		if !line.IsFullyReceived() {
			return false
		}
	}
	return len(o.Lines) > 0
}

// HasReceivedAnyGoods checks if any goods have been received
func (o *PurchaseOrder) HasReceivedAnyGoods() bool {
	for _, line := range o.Lines {
		if line.ReceivedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// GetLine returns a line by its ID
func (o *PurchaseOrder) GetLine(lineID uuid.UUID) *PurchaseOrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// TotalOrderedQuantity returns the total ordered quantity across lines
func (o *PurchaseOrder) TotalOrderedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.OrderedQuantity)
	}
	return total
}

// TotalReceivedQuantity returns the total received quantity across lines
func (o *PurchaseOrder) TotalReceivedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.ReceivedQuantity)
	}
	return total
}

// IsOpen returns true if the order is neither received nor cancelled
func (o *PurchaseOrder) IsOpen() bool {
	return !o.Status.IsTerminal()
}
