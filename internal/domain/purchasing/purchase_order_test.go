package purchasing

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/backend/internal/domain/shared"
)

func TestPurchaseOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    PurchaseOrderStatus
		to      PurchaseOrderStatus
		allowed bool
	}{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusSubmitted, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusReceived, false},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusPartiallyReceived, false},
		{PurchaseOrderStatusSubmitted, PurchaseOrderStatusPartiallyReceived, true},
		{PurchaseOrderStatusSubmitted, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusSubmitted, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusSubmitted, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusPartiallyReceived, true},
		{PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusSubmitted, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusSubmitted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPurchaseOrderStatusHelpers(t *testing.T) {
	assert.True(t, PurchaseOrderStatusSubmitted.CanReceive())
	assert.True(t, PurchaseOrderStatusPartiallyReceived.CanReceive())
	assert.False(t, PurchaseOrderStatusDraft.CanReceive())
	assert.False(t, PurchaseOrderStatusReceived.CanReceive())
	assert.False(t, PurchaseOrderStatusCancelled.CanReceive())

	assert.True(t, PurchaseOrderStatusReceived.IsTerminal())
	assert.True(t, PurchaseOrderStatusCancelled.IsTerminal())
	assert.False(t, PurchaseOrderStatusDraft.IsTerminal())

	assert.True(t, PurchaseOrderStatusDraft.IsValid())
	assert.False(t, PurchaseOrderStatus("CLOSED").IsValid())
}

func TestNewPurchaseOrder(t *testing.T) {
	supplierID := uuid.New()

	t.Run("creates draft order", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-2026-0001", supplierID)
		require.NoError(t, err)
		require.NotNil(t, order)

		assert.Equal(t, "PO-2026-0001", order.OrderNumber)
		assert.Equal(t, supplierID, order.SupplierID)
		assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
		assert.Empty(t, order.Lines)
		assert.Nil(t, order.SubmittedAt)
		assert.True(t, order.IsOpen())
	})

	t.Run("publishes created event", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-2026-0002", supplierID)
		require.NoError(t, err)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePurchaseOrderCreated, events[0].EventType())
	})

	t.Run("fails with empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder("", supplierID)
		require.Error(t, err)
	})

	t.Run("fails with order number too long", func(t *testing.T) {
		_, err := NewPurchaseOrder(strings.Repeat("X", 65), supplierID)
		require.Error(t, err)
	})

	t.Run("fails with nil supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder("PO-2026-0003", uuid.Nil)
		require.Error(t, err)
	})
}

func TestNewPurchaseOrderLine(t *testing.T) {
	orderID := uuid.New()
	itemID := uuid.New()

	t.Run("creates line", func(t *testing.T) {
		line, err := NewPurchaseOrderLine(orderID, itemID, "Bolts M8", decimal.NewFromInt(100), decimal.NewFromFloat(0.25))
		require.NoError(t, err)
		assert.Equal(t, orderID, line.OrderID)
		assert.Equal(t, itemID, line.ItemID)
		assert.True(t, line.ReceivedQuantity.IsZero())
		assert.True(t, line.RemainingQuantity().Equal(decimal.NewFromInt(100)))
		assert.False(t, line.IsFullyReceived())
	})

	t.Run("fails with nil item", func(t *testing.T) {
		_, err := NewPurchaseOrderLine(orderID, uuid.Nil, "", decimal.NewFromInt(1), decimal.Zero)
		require.Error(t, err)
	})

	t.Run("fails with non-positive quantity", func(t *testing.T) {
		_, err := NewPurchaseOrderLine(orderID, itemID, "", decimal.Zero, decimal.Zero)
		require.Error(t, err)

		_, err = NewPurchaseOrderLine(orderID, itemID, "", decimal.NewFromInt(-1), decimal.Zero)
		require.Error(t, err)
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewPurchaseOrderLine(orderID, itemID, "", decimal.NewFromInt(1), decimal.NewFromInt(-1))
		require.Error(t, err)
	})
}

func TestPurchaseOrderLineAddReceivedQuantity(t *testing.T) {
	newLine := func(t *testing.T, ordered int64) *PurchaseOrderLine {
		t.Helper()
		line, err := NewPurchaseOrderLine(uuid.New(), uuid.New(), "", decimal.NewFromInt(ordered), decimal.Zero)
		require.NoError(t, err)
		return line
	}

	t.Run("accumulates receipts", func(t *testing.T) {
		line := newLine(t, 10)
		before := line.UpdatedAt
		require.NoError(t, line.AddReceivedQuantity(decimal.NewFromInt(4)))
		require.NoError(t, line.AddReceivedQuantity(decimal.NewFromInt(6)))
		assert.True(t, line.IsFullyReceived())
		assert.True(t, line.RemainingQuantity().IsZero())
		assert.False(t, line.UpdatedAt.Before(before))
	})

	t.Run("rejects over-receipt", func(t *testing.T) {
		line := newLine(t, 10)
		require.NoError(t, line.AddReceivedQuantity(decimal.NewFromInt(8)))

		err := line.AddReceivedQuantity(decimal.NewFromInt(3))
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.ErrOverReceipt.Code, domainErr.Code)
		assert.Contains(t, domainErr.Message, "only 2 remaining")

		// Failed receive leaves the line untouched.
		assert.True(t, line.ReceivedQuantity.Equal(decimal.NewFromInt(8)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		line := newLine(t, 10)
		require.Error(t, line.AddReceivedQuantity(decimal.Zero))
		require.Error(t, line.AddReceivedQuantity(decimal.NewFromInt(-1)))
	})
}

func newSubmittedOrder(t *testing.T, quantities ...int64) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder("PO-TEST", uuid.New())
	require.NoError(t, err)
	for _, q := range quantities {
		_, err := order.AddLine(uuid.New(), "", decimal.NewFromInt(q), decimal.NewFromInt(1))
		require.NoError(t, err)
	}
	require.NoError(t, order.Submit())
	order.ClearDomainEvents()
	return order
}

func TestPurchaseOrderAddLine(t *testing.T) {
	t.Run("adds line in draft", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-TEST", uuid.New())
		require.NoError(t, err)

		line, err := order.AddLine(uuid.New(), "Widgets", decimal.NewFromInt(5), decimal.NewFromInt(2))
		require.NoError(t, err)
		assert.Equal(t, order.ID, line.OrderID)
		assert.Len(t, order.Lines, 1)
		assert.True(t, order.TotalOrderedQuantity().Equal(decimal.NewFromInt(5)))
	})

	t.Run("rejects line after submit", func(t *testing.T) {
		order := newSubmittedOrder(t, 5)

		_, err := order.AddLine(uuid.New(), "", decimal.NewFromInt(1), decimal.Zero)
		require.Error(t, err)
		assert.Equal(t, shared.ErrInvalidTransition, err)
	})
}

func TestPurchaseOrderSubmit(t *testing.T) {
	t.Run("submits draft with lines", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-TEST", uuid.New())
		require.NoError(t, err)
		_, err = order.AddLine(uuid.New(), "", decimal.NewFromInt(5), decimal.Zero)
		require.NoError(t, err)
		order.ClearDomainEvents()

		require.NoError(t, order.Submit())
		assert.Equal(t, PurchaseOrderStatusSubmitted, order.Status)
		require.NotNil(t, order.SubmittedAt)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePurchaseOrderSubmitted, events[0].EventType())
	})

	t.Run("rejects submit without lines", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-TEST", uuid.New())
		require.NoError(t, err)

		err = order.Submit()
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "NO_LINES", domainErr.Code)
		assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
	})

	t.Run("rejects double submit", func(t *testing.T) {
		order := newSubmittedOrder(t, 5)

		err := order.Submit()
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.ErrInvalidTransition.Code, domainErr.Code)
	})
}

func TestPurchaseOrderReceiveLine(t *testing.T) {
	t.Run("partial receipt moves to partially received", func(t *testing.T) {
		order := newSubmittedOrder(t, 10)
		lineID := order.Lines[0].ID

		line, err := order.ReceiveLine(lineID, decimal.NewFromInt(4))
		require.NoError(t, err)
		assert.True(t, line.ReceivedQuantity.Equal(decimal.NewFromInt(4)))
		assert.Equal(t, PurchaseOrderStatusPartiallyReceived, order.Status)
		assert.Nil(t, order.ReceivedAt)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePurchaseOrderLineReceived, events[0].EventType())
	})

	t.Run("full receipt across lines moves to received", func(t *testing.T) {
		order := newSubmittedOrder(t, 10, 5)

		_, err := order.ReceiveLine(order.Lines[0].ID, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusPartiallyReceived, order.Status)

		_, err = order.ReceiveLine(order.Lines[1].ID, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
		require.NotNil(t, order.ReceivedAt)
		assert.False(t, order.IsOpen())
		assert.True(t, order.TotalReceivedQuantity().Equal(decimal.NewFromInt(15)))
	})

	t.Run("further receipts in partially received stay allowed", func(t *testing.T) {
		order := newSubmittedOrder(t, 10)
		lineID := order.Lines[0].ID

		_, err := order.ReceiveLine(lineID, decimal.NewFromInt(4))
		require.NoError(t, err)
		_, err = order.ReceiveLine(lineID, decimal.NewFromInt(6))
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
	})

	t.Run("rejects receive in draft", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-TEST", uuid.New())
		require.NoError(t, err)
		line, err := order.AddLine(uuid.New(), "", decimal.NewFromInt(5), decimal.Zero)
		require.NoError(t, err)

		_, err = order.ReceiveLine(line.ID, decimal.NewFromInt(1))
		require.Error(t, err)
	})

	t.Run("rejects receive after terminal status", func(t *testing.T) {
		order := newSubmittedOrder(t, 5)
		lineID := order.Lines[0].ID
		_, err := order.ReceiveLine(lineID, decimal.NewFromInt(5))
		require.NoError(t, err)

		_, err = order.ReceiveLine(lineID, decimal.NewFromInt(1))
		require.Error(t, err)
	})

	t.Run("rejects unknown line", func(t *testing.T) {
		order := newSubmittedOrder(t, 5)

		_, err := order.ReceiveLine(uuid.New(), decimal.NewFromInt(1))
		require.Error(t, err)
		assert.Equal(t, shared.ErrUnknownReference, err)
	})

	t.Run("over-receipt leaves status unchanged", func(t *testing.T) {
		order := newSubmittedOrder(t, 5)
		lineID := order.Lines[0].ID

		_, err := order.ReceiveLine(lineID, decimal.NewFromInt(6))
		require.Error(t, err)
		assert.Equal(t, PurchaseOrderStatusSubmitted, order.Status)
		assert.Empty(t, order.GetDomainEvents())
	})
}

func TestPurchaseOrderCancel(t *testing.T) {
	t.Run("cancels draft", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-TEST", uuid.New())
		require.NoError(t, err)
		order.ClearDomainEvents()

		require.NoError(t, order.Cancel("supplier out of business"))
		assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
		assert.Equal(t, "supplier out of business", order.CancelReason)
		require.NotNil(t, order.CancelledAt)
		assert.False(t, order.IsOpen())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePurchaseOrderCancelled, events[0].EventType())
	})

	t.Run("cancels submitted order with no receipts", func(t *testing.T) {
		order := newSubmittedOrder(t, 5)
		require.NoError(t, order.Cancel("no longer needed"))
		assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
	})

	t.Run("rejects cancel after any receipt", func(t *testing.T) {
		order := newSubmittedOrder(t, 5)
		_, err := order.ReceiveLine(order.Lines[0].ID, decimal.NewFromInt(1))
		require.NoError(t, err)

		err = order.Cancel("too late")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.ErrInvalidTransition.Code, domainErr.Code)
		assert.Equal(t, PurchaseOrderStatusPartiallyReceived, order.Status)
	})

	t.Run("rejects cancel of received order", func(t *testing.T) {
		order := newSubmittedOrder(t, 5)
		_, err := order.ReceiveLine(order.Lines[0].ID, decimal.NewFromInt(5))
		require.NoError(t, err)

		require.Error(t, order.Cancel("nope"))
	})
}

func TestPurchaseOrderGetLine(t *testing.T) {
	order := newSubmittedOrder(t, 5)

	line := order.GetLine(order.Lines[0].ID)
	require.NotNil(t, line)
	assert.Equal(t, order.Lines[0].ID, line.ID)

	assert.Nil(t, order.GetLine(uuid.New()))
}

func TestPurchaseOrderSetErpOrderID(t *testing.T) {
	order, err := NewPurchaseOrder("PO-TEST", uuid.New())
	require.NoError(t, err)

	order.SetErpOrderID("ERP-42")
	assert.Equal(t, "ERP-42", order.ErpOrderID)
}
