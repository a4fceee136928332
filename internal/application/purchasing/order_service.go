package purchasing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	appledger "github.com/stockledger/backend/internal/application/ledger"
	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/ledger"
	"github.com/stockledger/backend/internal/domain/purchasing"
	"github.com/stockledger/backend/internal/domain/shared"
)

// ReceivingLocationProvider resolves the storage location goods are received
// into when the caller does not name one
type ReceivingLocationProvider interface {
	DefaultReceivingLocation(ctx context.Context) (*catalog.StorageLocation, error)
}

// PurchaseOrderService handles the purchase order lifecycle. Receiving a line
// appends the matching receipt movement to the ledger in the same database
// transaction as the order update, so the two can never diverge.
type PurchaseOrderService struct {
	scope            TransactionScope
	orderRepo        purchasing.PurchaseOrderRepository
	supplierRepo     catalog.SupplierRepository
	itemRepo         catalog.ItemRepository
	locationProvider ReceivingLocationProvider
	movementLocks    *shared.KeyedMutex
	orderLocks       *shared.KeyedMutex
	cache            appledger.BalanceCache
	eventPublisher   shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService. The
// movementLocks instance must be the one the ledger service appends under.
func NewPurchaseOrderService(
	scope TransactionScope,
	orderRepo purchasing.PurchaseOrderRepository,
	supplierRepo catalog.SupplierRepository,
	itemRepo catalog.ItemRepository,
	locationProvider ReceivingLocationProvider,
	movementLocks *shared.KeyedMutex,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:            scope,
		orderRepo:        orderRepo,
		supplierRepo:     supplierRepo,
		itemRepo:         itemRepo,
		locationProvider: locationProvider,
		movementLocks:    movementLocks,
		orderLocks:       shared.NewKeyedMutex(),
	}
}

// SetBalanceCache sets the optional balance cache refreshed on receiving
func (s *PurchaseOrderService) SetBalanceCache(cache appledger.BalanceCache) {
	s.cache = cache
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a purchase order in DRAFT status with its lines
func (s *PurchaseOrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if _, err := s.orderRepo.FindByOrderNumber(ctx, req.OrderNumber); err == nil {
		return nil, shared.ErrAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnknownReference
		}
		return nil, err
	}

	order, err := purchasing.NewPurchaseOrder(req.OrderNumber, req.SupplierID)
	if err != nil {
		return nil, err
	}
	order.ExpectedDate = req.ExpectedDate
	order.Notes = req.Notes

	for _, line := range req.Lines {
		if _, err := s.itemRepo.FindByID(ctx, line.ItemID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.ErrUnknownReference
			}
			return nil, err
		}
		if _, err := order.AddLine(line.ItemID, line.Description, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	resp := toOrderResponse(order)
	return &resp, nil
}

// Submit moves a draft order to SUBMITTED
func (s *PurchaseOrderService) Submit(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	unlock := s.orderLocks.Lock(orderID.String())
	defer unlock()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Submit(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	resp := toOrderResponse(order)
	return &resp, nil
}

// ReceiveLine books received goods against an order line. The order update
// and the receipt movement commit atomically; over-receiving a line fails the
// whole operation and nothing is written.
func (s *PurchaseOrderService) ReceiveLine(ctx context.Context, orderID uuid.UUID, req ReceiveLineRequest) (*OrderResponse, error) {
	locationID, err := s.resolveLocation(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	unlockOrder := s.orderLocks.Lock(orderID.String())
	defer unlockOrder()

	// The line's item is only known once the order is loaded, so a first read
	// resolves the movement key before the locked transaction starts.
	peek, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	peekLine := peek.GetLine(req.LineID)
	if peekLine == nil {
		return nil, shared.ErrNotFound
	}
	itemID := peekLine.ItemID

	unlockKey := s.movementLocks.Lock(ledger.MovementKey(itemID, locationID))
	defer unlockKey()

	var order *purchasing.PurchaseOrder
	var balance *ledger.Balance
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		line, err := order.ReceiveLine(req.LineID, req.Quantity)
		if err != nil {
			return err
		}

		movement, err := ledger.NewMovement(
			line.ItemID, locationID,
			ledger.MovementKindReceipt, req.Quantity,
			fmt.Sprintf("PO:%s", order.OrderNumber),
			fmt.Sprintf("Received against line %s", line.ID),
			req.Actor,
		)
		if err != nil {
			return err
		}

		balance, err = repos.BalanceRepo().FindByKey(ctx, line.ItemID, locationID)
		if errors.Is(err, shared.ErrNotFound) {
			balance = ledger.NewBalance(line.ItemID, locationID)
			err = nil
		}
		if err != nil {
			return err
		}

		movement.WithSequence(balance.NextSequence())
		if err := balance.Apply(movement); err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}
		if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
			return err
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Still under the shared movement key lock; see BalanceCache.
		if err := s.cache.Set(ctx, appledger.BalanceResponseOf(balance)); err != nil {
			_ = s.cache.Invalidate(ctx, itemID, locationID)
		}
	}
	s.publishEvents(ctx, order)

	resp := toOrderResponse(order)
	return &resp, nil
}

// Cancel cancels an order that has not received any goods
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	unlock := s.orderLocks.Lock(orderID.String())
	defer unlock()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	resp := toOrderResponse(order)
	return &resp, nil
}

// Get retrieves a purchase order by ID
func (s *PurchaseOrderService) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

// List returns purchase orders matching the filter together with the total count
func (s *PurchaseOrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	sf := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Filters:  map[string]interface{}{},
	}
	if sf.Page == 0 {
		sf.Page = 1
	}
	if sf.PageSize == 0 {
		sf.PageSize = 20
	}
	if filter.Status != "" {
		sf.Filters["status"] = filter.Status
	}
	if filter.SupplierID != nil {
		sf.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Open != nil && *filter.Open {
		sf.Filters["open"] = true
	}

	orders, err := s.orderRepo.FindAll(ctx, sf)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, sf)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = toOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// CountOpen counts orders that are neither received nor cancelled
func (s *PurchaseOrderService) CountOpen(ctx context.Context) (int64, error) {
	return s.orderRepo.CountOpen(ctx)
}

// publishEvents publishes and clears pending domain events
func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *purchasing.PurchaseOrder) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	events := order.PullDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func (s *PurchaseOrderService) resolveLocation(ctx context.Context, locationID *uuid.UUID) (uuid.UUID, error) {
	if locationID != nil && *locationID != uuid.Nil {
		return *locationID, nil
	}
	location, err := s.locationProvider.DefaultReceivingLocation(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return location.ID, nil
}
