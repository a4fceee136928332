package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/ledger"
	"github.com/stockledger/backend/internal/domain/shared"
)

// BalanceCache caches balance projections by (item, location) key.
// Implementations return (nil, nil) on a miss. Entries are written only from
// the append path while the per-key writer lock is held; readers never
// populate the cache, so an entry can never overwrite a newer one.
type BalanceCache interface {
	Get(ctx context.Context, itemID, locationID uuid.UUID) (*BalanceResponse, error)
	Set(ctx context.Context, balance BalanceResponse) error
	Invalidate(ctx context.Context, itemID, locationID uuid.UUID) error
}

// LedgerService handles the movement ledger and its balance projection.
// Appending a movement and updating the projection happen in one transaction;
// writers for the same (item, location) key are serialized so sequence
// numbers stay dense and the projection never observes a partial append.
type LedgerService struct {
	scope          TransactionScope
	movementRepo   ledger.MovementRepository
	balanceRepo    ledger.BalanceRepository
	itemRepo       catalog.ItemRepository
	locationRepo   catalog.StorageLocationRepository
	cache          BalanceCache
	eventPublisher shared.EventPublisher
	locks          *shared.KeyedMutex
}

// NewLedgerService creates a new LedgerService. The locks instance must be
// shared with every other writer that appends movements, such as the
// purchase order receiving path.
func NewLedgerService(
	scope TransactionScope,
	movementRepo ledger.MovementRepository,
	balanceRepo ledger.BalanceRepository,
	itemRepo catalog.ItemRepository,
	locationRepo catalog.StorageLocationRepository,
	locks *shared.KeyedMutex,
) *LedgerService {
	return &LedgerService{
		scope:        scope,
		movementRepo: movementRepo,
		balanceRepo:  balanceRepo,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		locks:        locks,
	}
}

// SetBalanceCache sets the optional balance cache
func (s *LedgerService) SetBalanceCache(cache BalanceCache) {
	s.cache = cache
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Record validates and appends a movement, updating the balance projection in
// the same transaction. Movements referencing unknown items or locations are
// rejected before anything is written.
func (s *LedgerService) Record(ctx context.Context, req RecordMovementRequest) (*RecordMovementResult, error) {
	if _, err := s.itemRepo.FindByID(ctx, req.ItemID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnknownReference
		}
		return nil, err
	}
	if _, err := s.locationRepo.FindByID(ctx, req.LocationID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnknownReference
		}
		return nil, err
	}

	movement, err := ledger.NewMovement(
		req.ItemID, req.LocationID,
		ledger.MovementKind(req.Kind), req.Quantity,
		req.Reference, req.Note, req.Actor,
	)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(ledger.MovementKey(req.ItemID, req.LocationID))
	defer unlock()

	var balance *ledger.Balance
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		balance, err = repos.BalanceRepo().FindByKey(ctx, req.ItemID, req.LocationID)
		if errors.Is(err, shared.ErrNotFound) {
			balance = ledger.NewBalance(req.ItemID, req.LocationID)
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
		return repos.BalanceRepo().Save(ctx, balance)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Still under the key lock, so the entry cannot clobber a newer one.
		// A failed refresh must not leave the previous entry behind.
		if err := s.cache.Set(ctx, toBalanceResponse(balance)); err != nil {
			_ = s.cache.Invalidate(ctx, req.ItemID, req.LocationID)
		}
	}
	s.publishEvents(ctx, balance)

	result := &RecordMovementResult{
		Movement: toMovementResponse(movement),
		Balance:  toBalanceResponse(balance),
	}
	return result, nil
}

// BalanceOf returns the projected balance for an (item, location) key.
// A key with no movements yet reads as zero. Misses read through to the
// database without populating the cache; a read racing a writer could
// otherwise store a balance the writer has already replaced.
func (s *LedgerService) BalanceOf(ctx context.Context, itemID, locationID uuid.UUID) (*BalanceResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, itemID, locationID); err == nil && cached != nil {
			return cached, nil
		}
	}

	balance, err := s.balanceRepo.FindByKey(ctx, itemID, locationID)
	if errors.Is(err, shared.ErrNotFound) {
		return &BalanceResponse{
			ItemID:     itemID,
			LocationID: locationID,
			Quantity:   decimal.Zero,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	resp := toBalanceResponse(balance)
	return &resp, nil
}

// BalancesOfItem returns all balances for an item across locations
func (s *LedgerService) BalancesOfItem(ctx context.Context, itemID uuid.UUID) ([]BalanceResponse, error) {
	balances, err := s.balanceRepo.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	responses := make([]BalanceResponse, len(balances))
	for i := range balances {
		responses[i] = toBalanceResponse(&balances[i])
	}
	return responses, nil
}

// History returns the movements for an (item, location) key within the
// sequence range, oldest first
func (s *LedgerService) History(ctx context.Context, itemID, locationID uuid.UUID, rng ledger.SequenceRange) ([]MovementResponse, error) {
	movements, err := s.movementRepo.FindByKey(ctx, itemID, locationID, rng)
	if err != nil {
		return nil, err
	}
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = toMovementResponse(&movements[i])
	}
	return responses, nil
}

// RecentMovements returns the latest movements across all keys, newest first
func (s *LedgerService) RecentMovements(ctx context.Context, limit int) ([]MovementResponse, error) {
	movements, err := s.movementRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = toMovementResponse(&movements[i])
	}
	return responses, nil
}

// ActiveAlerts returns reorder alerts for items whose total projected
// quantity is below their reorder level. Alerts are derived on read; an
// alert clears as soon as the underlying condition does.
func (s *LedgerService) ActiveAlerts(ctx context.Context) ([]ReorderAlertResponse, error) {
	rows, err := s.balanceRepo.FindBelowReorderLevel(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]ReorderAlertResponse, len(rows))
	for i, row := range rows {
		alerts[i] = ReorderAlertResponse{
			ItemID:       row.ItemID,
			SKU:          row.SKU,
			Name:         row.Name,
			Quantity:     row.Quantity,
			ReorderLevel: row.ReorderLevel,
			Shortfall:    row.ReorderLevel.Sub(row.Quantity),
		}
	}
	return alerts, nil
}

// Overview returns per-item stock totals with a per-location breakdown
func (s *LedgerService) Overview(ctx context.Context) ([]StockOverviewRow, error) {
	items, err := s.itemRepo.FindAll(ctx, shared.Filter{OrderBy: "sku", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}
	locations, err := s.locationRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	balances, err := s.balanceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	locationNames := make(map[uuid.UUID]string, len(locations))
	for _, loc := range locations {
		locationNames[loc.ID] = loc.Name
	}

	byItem := make(map[uuid.UUID][]LocationQuantity)
	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, b := range balances {
		byItem[b.ItemID] = append(byItem[b.ItemID], LocationQuantity{
			LocationID:   b.LocationID,
			LocationName: locationNames[b.LocationID],
			Quantity:     b.Quantity,
		})
		totals[b.ItemID] = totals[b.ItemID].Add(b.Quantity)
	}

	rows := make([]StockOverviewRow, len(items))
	for i, item := range items {
		total := totals[item.ID]
		rows[i] = StockOverviewRow{
			ItemID:        item.ID,
			SKU:           item.SKU,
			Name:          item.Name,
			UnitOfMeasure: item.UnitOfMeasure,
			ReorderLevel:  item.ReorderLevel,
			TotalQuantity: total,
			BelowReorder:  total.LessThan(item.ReorderLevel),
			Locations:     byItem[item.ID],
		}
	}
	return rows, nil
}

// Summary returns the stock side of the dashboard metrics
func (s *LedgerService) Summary(ctx context.Context) (*LedgerSummary, error) {
	itemCount, err := s.itemRepo.Count(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	total, err := s.balanceRepo.TotalQuantity(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.balanceRepo.FindBelowReorderLevel(ctx)
	if err != nil {
		return nil, err
	}
	return &LedgerSummary{
		ItemCount:     itemCount,
		TotalQuantity: total,
		LowStockCount: int64(len(lowStock)),
	}, nil
}

// publishEvents publishes and clears pending domain events
func (s *LedgerService) publishEvents(ctx context.Context, balance *ledger.Balance) {
	if s.eventPublisher == nil {
		return
	}
	events := balance.PullDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
