package purchasing

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/stockledger/backend/internal/application/ledger"
	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/ledger"
	"github.com/stockledger/backend/internal/domain/purchasing"
	"github.com/stockledger/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------------

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*purchasing.PurchaseOrder
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*purchasing.PurchaseOrder)}
}

// cloneOrder deep-copies the aggregate so a failed operation on the returned
// copy cannot leak into the stored state
func cloneOrder(order *purchasing.PurchaseOrder) *purchasing.PurchaseOrder {
	copied := *order
	copied.Lines = make([]purchasing.PurchaseOrderLine, len(order.Lines))
	copy(copied.Lines, order.Lines)
	copied.ClearDomainEvents()
	return &copied
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *memOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*purchasing.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			return cloneOrder(order), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindByErpOrderID(_ context.Context, erpOrderID string) (*purchasing.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.ErpOrderID == erpOrderID {
			return cloneOrder(order), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindAll(_ context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []purchasing.PurchaseOrder
	for _, order := range r.orders {
		if status, ok := filter.Filters["status"]; ok && order.Status.String() != status {
			continue
		}
		if supplierID, ok := filter.Filters["supplier_id"]; ok && order.SupplierID != supplierID {
			continue
		}
		if _, ok := filter.Filters["open"]; ok && !order.IsOpen() {
			continue
		}
		out = append(out, *cloneOrder(order))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out, nil
}

func (r *memOrderRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	orders, err := r.FindAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(orders)), nil
}

func (r *memOrderRepo) CountOpen(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, order := range r.orders {
		if order.IsOpen() {
			count++
		}
	}
	return count, nil
}

func (r *memOrderRepo) Save(_ context.Context, order *purchasing.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

type memMovementRepo struct {
	mu        sync.Mutex
	movements []ledger.Movement
}

func (r *memMovementRepo) Append(_ context.Context, movement *ledger.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepo) FindByKey(_ context.Context, itemID, locationID uuid.UUID, rng ledger.SequenceRange) ([]ledger.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Movement
	for _, m := range r.movements {
		if m.ItemID == itemID && m.LocationID == locationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *memMovementRepo) FindRecent(_ context.Context, limit int) ([]ledger.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledger.Movement, len(r.movements))
	copy(out, r.movements)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMovementRepo) CountByKey(_ context.Context, itemID, locationID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.movements {
		if m.ItemID == itemID && m.LocationID == locationID {
			count++
		}
	}
	return count, nil
}

type memBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]ledger.Balance
}

func newMemBalanceRepo() *memBalanceRepo {
	return &memBalanceRepo{balances: make(map[string]ledger.Balance)}
}

func (r *memBalanceRepo) FindByKey(_ context.Context, itemID, locationID uuid.UUID) (*ledger.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[ledger.MovementKey(itemID, locationID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := b
	return &copied, nil
}

func (r *memBalanceRepo) FindByItem(_ context.Context, itemID uuid.UUID) ([]ledger.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Balance
	for _, b := range r.balances {
		if b.ItemID == itemID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBalanceRepo) FindAll(_ context.Context) ([]ledger.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledger.Balance, 0, len(r.balances))
	for _, b := range r.balances {
		out = append(out, b)
	}
	return out, nil
}

func (r *memBalanceRepo) Save(_ context.Context, balance *ledger.Balance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[ledger.MovementKey(balance.ItemID, balance.LocationID)] = *balance
	return nil
}

func (r *memBalanceRepo) TotalQuantity(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, b := range r.balances {
		total = total.Add(b.Quantity)
	}
	return total, nil
}

func (r *memBalanceRepo) FindBelowReorderLevel(_ context.Context) ([]ledger.LowStockItem, error) {
	return nil, nil
}

type memSupplierRepo struct {
	suppliers map[uuid.UUID]catalog.Supplier
}

func (r *memSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *memSupplierRepo) FindByName(_ context.Context, name string) (*catalog.Supplier, error) {
	for _, s := range r.suppliers {
		if s.Name == name {
			copied := s
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSupplierRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Supplier, error) {
	out := make([]catalog.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSupplierRepo) Save(_ context.Context, supplier *catalog.Supplier) error {
	r.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *memSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

type memItemRepo struct {
	items map[uuid.UUID]catalog.Item
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *memItemRepo) FindBySKU(_ context.Context, sku string) (*catalog.Item, error) {
	for _, item := range r.items {
		if item.SKU == sku {
			copied := item
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Item, error) {
	out := make([]catalog.Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *memItemRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *memItemRepo) Save(_ context.Context, item *catalog.Item) error {
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

type fixedLocationProvider struct {
	location *catalog.StorageLocation
}

func (p *fixedLocationProvider) DefaultReceivingLocation(_ context.Context) (*catalog.StorageLocation, error) {
	return p.location, nil
}

// MockEventPublisher captures published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range m.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Test fixture
// ---------------------------------------------------------------------------

type orderFixture struct {
	service      *PurchaseOrderService
	orderRepo    *memOrderRepo
	movementRepo *memMovementRepo
	balanceRepo  *memBalanceRepo
	publisher    *MockEventPublisher
	supplier     *catalog.Supplier
	item         *catalog.Item
	location     *catalog.StorageLocation
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	orderRepo := newMemOrderRepo()
	movementRepo := &memMovementRepo{}
	balanceRepo := newMemBalanceRepo()

	supplier, err := catalog.NewSupplier("Acme GmbH", "", "", "")
	require.NoError(t, err)
	supplierRepo := &memSupplierRepo{suppliers: map[uuid.UUID]catalog.Supplier{supplier.ID: *supplier}}

	item, err := catalog.NewItem("SKU-001", "M8 Bolt", "", "pcs", decimal.Zero)
	require.NoError(t, err)
	itemRepo := &memItemRepo{items: map[uuid.UUID]catalog.Item{item.ID: *item}}

	location, err := catalog.NewStorageLocation("Main warehouse", "")
	require.NoError(t, err)

	scope := NewNoOpTransactionScope(orderRepo, movementRepo, balanceRepo)
	service := NewPurchaseOrderService(
		scope, orderRepo, supplierRepo, itemRepo,
		&fixedLocationProvider{location: location},
		shared.NewKeyedMutex(),
	)

	publisher := &MockEventPublisher{}
	service.SetEventPublisher(publisher)

	return &orderFixture{
		service:      service,
		orderRepo:    orderRepo,
		movementRepo: movementRepo,
		balanceRepo:  balanceRepo,
		publisher:    publisher,
		supplier:     supplier,
		item:         item,
		location:     location,
	}
}

func (f *orderFixture) createSubmitted(t *testing.T, quantity int64) *OrderResponse {
	t.Helper()
	ctx := context.Background()

	created, err := f.service.Create(ctx, CreateOrderRequest{
		OrderNumber: "PO-2026-0001",
		SupplierID:  f.supplier.ID,
		Lines: []OrderLineRequest{
			{ItemID: f.item.ID, Quantity: decimal.NewFromInt(quantity)},
		},
	})
	require.NoError(t, err)

	submitted, err := f.service.Submit(ctx, created.ID)
	require.NoError(t, err)
	return submitted
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestPurchaseOrderServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates draft order with lines", func(t *testing.T) {
		f := newOrderFixture(t)

		order, err := f.service.Create(ctx, CreateOrderRequest{
			OrderNumber: "PO-2026-0001",
			SupplierID:  f.supplier.ID,
			Notes:       "restock",
			Lines: []OrderLineRequest{
				{ItemID: f.item.ID, Quantity: decimal.NewFromInt(100), UnitPrice: decimal.NewFromFloat(0.25)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "PO-2026-0001", order.OrderNumber)
		assert.Equal(t, "DRAFT", order.Status)
		require.Len(t, order.Lines, 1)
		assert.True(t, order.Lines[0].RemainingQuantity.Equal(decimal.NewFromInt(100)))

		events := f.publisher.GetEventsByType(purchasing.EventTypePurchaseOrderCreated)
		assert.Len(t, events, 1)
	})

	t.Run("rejects duplicate order number", func(t *testing.T) {
		f := newOrderFixture(t)

		req := CreateOrderRequest{
			OrderNumber: "PO-2026-0001",
			SupplierID:  f.supplier.ID,
			Lines:       []OrderLineRequest{{ItemID: f.item.ID, Quantity: decimal.NewFromInt(1)}},
		}
		_, err := f.service.Create(ctx, req)
		require.NoError(t, err)

		_, err = f.service.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, shared.ErrAlreadyExists, err)
	})

	t.Run("rejects unknown supplier", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.service.Create(ctx, CreateOrderRequest{
			OrderNumber: "PO-2026-0002",
			SupplierID:  uuid.New(),
		})
		require.Error(t, err)
		assert.Equal(t, shared.ErrUnknownReference, err)
	})

	t.Run("rejects unknown item on a line", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.service.Create(ctx, CreateOrderRequest{
			OrderNumber: "PO-2026-0003",
			SupplierID:  f.supplier.ID,
			Lines:       []OrderLineRequest{{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})
		require.Error(t, err)
		assert.Equal(t, shared.ErrUnknownReference, err)
	})
}

func TestPurchaseOrderServiceSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("submits draft", func(t *testing.T) {
		f := newOrderFixture(t)

		created, err := f.service.Create(ctx, CreateOrderRequest{
			OrderNumber: "PO-2026-0001",
			SupplierID:  f.supplier.ID,
			Lines:       []OrderLineRequest{{ItemID: f.item.ID, Quantity: decimal.NewFromInt(5)}},
		})
		require.NoError(t, err)

		submitted, err := f.service.Submit(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "SUBMITTED", submitted.Status)
		require.NotNil(t, submitted.SubmittedAt)

		events := f.publisher.GetEventsByType(purchasing.EventTypePurchaseOrderSubmitted)
		assert.Len(t, events, 1)
	})

	t.Run("rejects submit of order without lines", func(t *testing.T) {
		f := newOrderFixture(t)

		created, err := f.service.Create(ctx, CreateOrderRequest{
			OrderNumber: "PO-2026-0002",
			SupplierID:  f.supplier.ID,
		})
		require.NoError(t, err)

		_, err = f.service.Submit(ctx, created.ID)
		require.Error(t, err)
	})

	t.Run("rejects submit of unknown order", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.service.Submit(ctx, uuid.New())
		require.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestPurchaseOrderServiceReceiveLine(t *testing.T) {
	ctx := context.Background()

	t.Run("partial receipt books movement and balance", func(t *testing.T) {
		f := newOrderFixture(t)
		order := f.createSubmitted(t, 10)

		received, err := f.service.ReceiveLine(ctx, order.ID, ReceiveLineRequest{
			LineID:   order.Lines[0].ID,
			Quantity: decimal.NewFromInt(4),
			Actor:    "alice",
		})
		require.NoError(t, err)
		assert.Equal(t, "PARTIALLY_RECEIVED", received.Status)
		assert.True(t, received.Lines[0].ReceivedQuantity.Equal(decimal.NewFromInt(4)))

		movements, err := f.movementRepo.FindByKey(ctx, f.item.ID, f.location.ID, ledger.SequenceRange{})
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, ledger.MovementKindReceipt, movements[0].Kind)
		assert.True(t, movements[0].Delta.Equal(decimal.NewFromInt(4)))
		assert.Equal(t, int64(1), movements[0].Sequence)
		assert.Contains(t, movements[0].Reference, order.OrderNumber)
		assert.Equal(t, "alice", movements[0].Actor)

		balance, err := f.balanceRepo.FindByKey(ctx, f.item.ID, f.location.ID)
		require.NoError(t, err)
		assert.True(t, balance.Quantity.Equal(decimal.NewFromInt(4)))
	})

	t.Run("full receipt moves order to received", func(t *testing.T) {
		f := newOrderFixture(t)
		order := f.createSubmitted(t, 10)
		lineID := order.Lines[0].ID

		_, err := f.service.ReceiveLine(ctx, order.ID, ReceiveLineRequest{LineID: lineID, Quantity: decimal.NewFromInt(6)})
		require.NoError(t, err)

		received, err := f.service.ReceiveLine(ctx, order.ID, ReceiveLineRequest{LineID: lineID, Quantity: decimal.NewFromInt(4)})
		require.NoError(t, err)
		assert.Equal(t, "RECEIVED", received.Status)
		require.NotNil(t, received.ReceivedAt)
		assert.True(t, received.Lines[0].FullyReceived)

		balance, err := f.balanceRepo.FindByKey(ctx, f.item.ID, f.location.ID)
		require.NoError(t, err)
		assert.True(t, balance.Quantity.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, int64(2), balance.LastSequence)

		events := f.publisher.GetEventsByType(purchasing.EventTypePurchaseOrderLineReceived)
		assert.Len(t, events, 2)
	})

	t.Run("over-receipt writes nothing", func(t *testing.T) {
		f := newOrderFixture(t)
		order := f.createSubmitted(t, 10)

		_, err := f.service.ReceiveLine(ctx, order.ID, ReceiveLineRequest{
			LineID:   order.Lines[0].ID,
			Quantity: decimal.NewFromInt(11),
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrOverReceipt.Code, domainErr.Code)

		// Neither the order nor the ledger may change.
		reloaded, err := f.service.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "SUBMITTED", reloaded.Status)
		assert.True(t, reloaded.Lines[0].ReceivedQuantity.IsZero())

		count, err := f.movementRepo.CountByKey(ctx, f.item.ID, f.location.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("rejects receive on draft order", func(t *testing.T) {
		f := newOrderFixture(t)

		created, err := f.service.Create(ctx, CreateOrderRequest{
			OrderNumber: "PO-2026-0009",
			SupplierID:  f.supplier.ID,
			Lines:       []OrderLineRequest{{ItemID: f.item.ID, Quantity: decimal.NewFromInt(5)}},
		})
		require.NoError(t, err)

		_, err = f.service.ReceiveLine(ctx, created.ID, ReceiveLineRequest{
			LineID:   created.Lines[0].ID,
			Quantity: decimal.NewFromInt(1),
		})
		require.Error(t, err)
	})

	t.Run("rejects unknown line", func(t *testing.T) {
		f := newOrderFixture(t)
		order := f.createSubmitted(t, 5)

		_, err := f.service.ReceiveLine(ctx, order.ID, ReceiveLineRequest{
			LineID:   uuid.New(),
			Quantity: decimal.NewFromInt(1),
		})
		require.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("receives into an explicit location", func(t *testing.T) {
		f := newOrderFixture(t)
		order := f.createSubmitted(t, 5)

		otherLocation, err := catalog.NewStorageLocation("Overflow", "")
		require.NoError(t, err)

		_, err = f.service.ReceiveLine(ctx, order.ID, ReceiveLineRequest{
			LineID:     order.Lines[0].ID,
			Quantity:   decimal.NewFromInt(5),
			LocationID: &otherLocation.ID,
		})
		require.NoError(t, err)

		balance, err := f.balanceRepo.FindByKey(ctx, f.item.ID, otherLocation.ID)
		require.NoError(t, err)
		assert.True(t, balance.Quantity.Equal(decimal.NewFromInt(5)))
	})

	t.Run("receipt refreshes the balance cache", func(t *testing.T) {
		f := newOrderFixture(t)
		order := f.createSubmitted(t, 10)

		cache := &recordingBalanceCache{}
		f.service.SetBalanceCache(cache)

		_, err := f.service.ReceiveLine(ctx, order.ID, ReceiveLineRequest{
			LineID:   order.Lines[0].ID,
			Quantity: decimal.NewFromInt(6),
		})
		require.NoError(t, err)

		require.Len(t, cache.set, 1)
		assert.Equal(t, f.item.ID, cache.set[0].ItemID)
		assert.Equal(t, f.location.ID, cache.set[0].LocationID)
		assert.True(t, cache.set[0].Quantity.Equal(decimal.NewFromInt(6)))
		assert.Equal(t, int64(1), cache.set[0].LastSequence)
	})
}

type recordingBalanceCache struct {
	set []appledger.BalanceResponse
}

func (c *recordingBalanceCache) Get(context.Context, uuid.UUID, uuid.UUID) (*appledger.BalanceResponse, error) {
	return nil, nil
}

func (c *recordingBalanceCache) Set(_ context.Context, balance appledger.BalanceResponse) error {
	c.set = append(c.set, balance)
	return nil
}

func (c *recordingBalanceCache) Invalidate(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func TestPurchaseOrderServiceCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels submitted order without receipts", func(t *testing.T) {
		f := newOrderFixture(t)
		order := f.createSubmitted(t, 5)

		cancelled, err := f.service.Cancel(ctx, order.ID, CancelOrderRequest{Reason: "supplier delay"})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", cancelled.Status)
		assert.Equal(t, "supplier delay", cancelled.CancelReason)

		events := f.publisher.GetEventsByType(purchasing.EventTypePurchaseOrderCancelled)
		assert.Len(t, events, 1)
	})

	t.Run("rejects cancel after receipt", func(t *testing.T) {
		f := newOrderFixture(t)
		order := f.createSubmitted(t, 5)

		_, err := f.service.ReceiveLine(ctx, order.ID, ReceiveLineRequest{
			LineID:   order.Lines[0].ID,
			Quantity: decimal.NewFromInt(1),
		})
		require.NoError(t, err)

		_, err = f.service.Cancel(ctx, order.ID, CancelOrderRequest{Reason: "too late"})
		require.Error(t, err)

		reloaded, err := f.service.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "PARTIALLY_RECEIVED", reloaded.Status)
	})
}

func TestPurchaseOrderServiceListAndCount(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	first, err := f.service.Create(ctx, CreateOrderRequest{
		OrderNumber: "PO-2026-0001",
		SupplierID:  f.supplier.ID,
		Lines:       []OrderLineRequest{{ItemID: f.item.ID, Quantity: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)
	_, err = f.service.Submit(ctx, first.ID)
	require.NoError(t, err)

	second, err := f.service.Create(ctx, CreateOrderRequest{
		OrderNumber: "PO-2026-0002",
		SupplierID:  f.supplier.ID,
		Lines:       []OrderLineRequest{{ItemID: f.item.ID, Quantity: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)
	_, err = f.service.Cancel(ctx, second.ID, CancelOrderRequest{Reason: "dup"})
	require.NoError(t, err)

	t.Run("filters by status", func(t *testing.T) {
		orders, total, err := f.service.List(ctx, OrderListFilter{Status: "SUBMITTED"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, "PO-2026-0001", orders[0].OrderNumber)
	})

	t.Run("filters open orders", func(t *testing.T) {
		open := true
		orders, total, err := f.service.List(ctx, OrderListFilter{Open: &open})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
	})

	t.Run("counts open orders", func(t *testing.T) {
		count, err := f.service.CountOpen(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
