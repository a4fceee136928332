package erpsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/erpsync"
	"github.com/stockledger/backend/internal/domain/ledger"
	"github.com/stockledger/backend/internal/domain/purchasing"
	"github.com/stockledger/backend/internal/domain/shared"
)

// ErrCycleInProgress indicates a reconciliation cycle is already running.
// Cycles are serialized; a trigger that finds one running is coalesced into
// it rather than queued behind it.
var ErrCycleInProgress = errors.New("erpsync: reconciliation cycle already in progress")

// ReconciliationService coordinates the periodic exchange with the ERP
// endpoint: balances flow out, open purchase orders flow in. At most one
// cycle runs at a time and checkpoints only advance after a successful leg.
type ReconciliationService struct {
	gateway       erpsync.Gateway
	scope         TransactionScope
	syncStateRepo erpsync.SyncStateRepository
	balanceRepo   ledger.BalanceRepository
	itemRepo      catalog.ItemRepository
	locationRepo  catalog.StorageLocationRepository
	logger        *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	gateway erpsync.Gateway,
	scope TransactionScope,
	syncStateRepo erpsync.SyncStateRepository,
	balanceRepo ledger.BalanceRepository,
	itemRepo catalog.ItemRepository,
	locationRepo catalog.StorageLocationRepository,
	logger *zap.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		gateway:       gateway,
		scope:         scope,
		syncStateRepo: syncStateRepo,
		balanceRepo:   balanceRepo,
		itemRepo:      itemRepo,
		locationRepo:  locationRepo,
		logger:        logger.Named("reconciliation"),
	}
}

// RunCycle runs one full reconciliation cycle: export balances, then import
// open orders. A failed export does not block the import; each leg reports
// its own outcome.
func (s *ReconciliationService) RunCycle(ctx context.Context) (*ReconciliationResult, error) {
	if !s.tryAcquire() {
		return nil, ErrCycleInProgress
	}
	defer s.release()

	result := &ReconciliationResult{StartedAt: time.Now()}
	result.Export = s.doExport(ctx)
	result.Import = s.doImport(ctx)
	result.FinishedAt = time.Now()

	s.logger.Info("reconciliation cycle finished",
		zap.String("export_status", result.Export.Status),
		zap.Int("export_transmitted", result.Export.Transmitted),
		zap.String("import_status", result.Import.Status),
		zap.Int("import_imported", result.Import.Imported),
		zap.Int("import_skipped", result.Import.Skipped),
		zap.Int("import_failed", result.Import.Failed),
	)
	return result, nil
}

// Export pushes a point-in-time balance snapshot to the ERP endpoint
func (s *ReconciliationService) Export(ctx context.Context) (*ExportOutcome, error) {
	if !s.tryAcquire() {
		return nil, ErrCycleInProgress
	}
	defer s.release()

	outcome := s.doExport(ctx)
	return &outcome, nil
}

// Import pulls open purchase orders from the ERP endpoint
func (s *ReconciliationService) Import(ctx context.Context) (*ImportOutcome, error) {
	if !s.tryAcquire() {
		return nil, ErrCycleInProgress
	}
	defer s.release()

	outcome := s.doImport(ctx)
	return &outcome, nil
}

// Status reports the gateway mode and the reconciliation checkpoints
func (s *ReconciliationService) Status(ctx context.Context) (*SyncStatusResponse, error) {
	state, err := s.syncStateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	importedCount, err := s.syncStateRepo.ImportedCount(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	return &SyncStatusResponse{
		Enabled:              s.gateway.Enabled(),
		LastExportCheckpoint: state.LastExportCheckpoint,
		LastExportAt:         state.LastExportAt,
		LastImportAt:         state.LastImportAt,
		ImportedOrderCount:   importedCount,
		CycleInProgress:      running,
	}, nil
}

// doExport builds the snapshot before any network call, pushes it, and
// advances the export checkpoint only on success
func (s *ReconciliationService) doExport(ctx context.Context) ExportOutcome {
	snapshot, err := s.buildSnapshot(ctx)
	if err != nil {
		return ExportOutcome{Status: outcomeFailed, Error: err.Error()}
	}

	result, err := s.gateway.ExportBalances(ctx, *snapshot)
	if err != nil {
		s.logger.Warn("balance export failed", zap.Error(err))
		return ExportOutcome{Status: outcomeFailed, Error: err.Error()}
	}
	if result.Status.IsDisabled() {
		return ExportOutcome{Status: outcomeDisabled}
	}

	state, err := s.syncStateRepo.Get(ctx)
	if err != nil {
		return ExportOutcome{Status: outcomeFailed, Error: err.Error()}
	}
	state.AdvanceExport(snapshot.Checkpoint, time.Now())
	if err := s.syncStateRepo.Save(ctx, state); err != nil {
		return ExportOutcome{Status: outcomeFailed, Error: err.Error()}
	}

	return ExportOutcome{
		Status:      outcomeOK,
		Transmitted: result.Transmitted,
		Checkpoint:  snapshot.Checkpoint,
	}
}

// doImport pulls open orders and imports the previously unseen ones
func (s *ReconciliationService) doImport(ctx context.Context) ImportOutcome {
	result, err := s.gateway.ImportOpenOrders(ctx)
	if err != nil {
		s.logger.Warn("order import failed", zap.Error(err))
		return ImportOutcome{Status: outcomeFailed, Errors: []string{err.Error()}}
	}
	if result.Status.IsDisabled() {
		return ImportOutcome{Status: outcomeDisabled}
	}

	outcome := ImportOutcome{Status: outcomeOK, Fetched: len(result.Orders)}
	for _, erpOrder := range result.Orders {
		imported, err := s.importOrder(ctx, erpOrder)
		switch {
		case err != nil:
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %v", erpOrder.ErpOrderID, err))
			s.logger.Warn("order import rejected",
				zap.String("erp_order_id", erpOrder.ErpOrderID),
				zap.Error(err),
			)
		case imported:
			outcome.Imported++
		default:
			outcome.Skipped++
		}
	}

	// A leg with per-order failures still advances the import timestamp: the
	// failed orders stay unimported and are retried on the next cycle.
	state, err := s.syncStateRepo.Get(ctx)
	if err != nil {
		outcome.Status = outcomeFailed
		outcome.Errors = append(outcome.Errors, err.Error())
		return outcome
	}
	state.AdvanceImport(time.Now())
	if err := s.syncStateRepo.Save(ctx, state); err != nil {
		outcome.Status = outcomeFailed
		outcome.Errors = append(outcome.Errors, err.Error())
	}
	return outcome
}

// localStatusForErpOrder maps the ERP-reported order status onto the local
// purchase order lifecycle. ERP systems report placed orders under several
// names; anything explicitly marked as a draft stays editable locally, and
// unknown values default to submitted since exported orders are normally
// already placed with the supplier.
func localStatusForErpOrder(erpStatus string) purchasing.PurchaseOrderStatus {
	switch strings.ToLower(strings.TrimSpace(erpStatus)) {
	case "draft":
		return purchasing.PurchaseOrderStatusDraft
	case "released", "submitted", "open", "confirmed":
		return purchasing.PurchaseOrderStatusSubmitted
	default:
		return purchasing.PurchaseOrderStatusSubmitted
	}
}

// importOrder creates the local purchase order for an ERP order. Returns
// false when the ERP order identifier was imported before.
func (s *ReconciliationService) importOrder(ctx context.Context, erpOrder erpsync.ErpOrder) (bool, error) {
	if erpOrder.ErpOrderID == "" {
		return false, shared.ErrInvalidInput
	}
	seen, err := s.syncStateRepo.IsImported(ctx, erpOrder.ErpOrderID)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplier, err := s.getOrCreateSupplier(ctx, repos.SupplierRepo(), erpOrder.SupplierName)
		if err != nil {
			return err
		}

		orderNumber := erpOrder.OrderNumber
		if orderNumber == "" {
			orderNumber = erpOrder.ErpOrderID
		}
		if _, err := repos.OrderRepo().FindByOrderNumber(ctx, orderNumber); err == nil {
			return shared.ErrAlreadyExists
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		order, err := purchasing.NewPurchaseOrder(orderNumber, supplier.ID)
		if err != nil {
			return err
		}
		order.SetErpOrderID(erpOrder.ErpOrderID)
		order.ExpectedDate = erpOrder.ExpectedDate
		order.Notes = erpOrder.Notes

		for _, line := range erpOrder.Lines {
			item, err := s.getOrCreateItem(ctx, repos.ItemRepo(), line)
			if err != nil {
				return err
			}
			if _, err := order.AddLine(item.ID, line.Description, line.OrderedQuantity, line.UnitPrice); err != nil {
				return err
			}
		}

		if len(order.Lines) > 0 && localStatusForErpOrder(erpOrder.Status) == purchasing.PurchaseOrderStatusSubmitted {
			if err := order.Submit(); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		return repos.SyncStateRepo().MarkImported(ctx, erpsync.NewImportedOrder(erpOrder.ErpOrderID, order.ID))
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ReconciliationService) getOrCreateSupplier(ctx context.Context, repo catalog.SupplierRepository, name string) (*catalog.Supplier, error) {
	if name == "" {
		name = "Unknown supplier"
	}
	supplier, err := repo.FindByName(ctx, name)
	if err == nil {
		return supplier, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	supplier, err = catalog.NewSupplier(name, "", "", "Created by ERP import")
	if err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *ReconciliationService) getOrCreateItem(ctx context.Context, repo catalog.ItemRepository, line erpsync.ErpOrderLine) (*catalog.Item, error) {
	if line.ItemCode == "" {
		return nil, shared.ErrInvalidInput
	}
	item, err := repo.FindBySKU(ctx, line.ItemCode)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	name := line.ItemName
	if name == "" {
		name = line.ItemCode
	}
	item, err = catalog.NewItem(line.ItemCode, name, "Created by ERP import", "", decimal.Zero)
	if err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// buildSnapshot materializes the current balance projection with catalog
// names resolved. The checkpoint token is derived from the generation time.
func (s *ReconciliationService) buildSnapshot(ctx context.Context) (*erpsync.BalanceSnapshot, error) {
	balances, err := s.balanceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	locations, err := s.locationRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	itemsByID := make(map[uuid.UUID]*catalog.Item, len(items))
	for i := range items {
		itemsByID[items[i].ID] = &items[i]
	}
	locationNames := make(map[uuid.UUID]string, len(locations))
	for _, loc := range locations {
		locationNames[loc.ID] = loc.Name
	}

	now := time.Now().UTC()
	snapshot := &erpsync.BalanceSnapshot{
		GeneratedAt: now,
		Checkpoint:  now.Format(time.RFC3339Nano),
		Entries:     make([]erpsync.BalanceRecord, 0, len(balances)),
	}
	for _, b := range balances {
		item, ok := itemsByID[b.ItemID]
		if !ok {
			continue
		}
		snapshot.Entries = append(snapshot.Entries, erpsync.BalanceRecord{
			ItemCode:      item.SKU,
			ItemName:      item.Name,
			LocationCode:  locationNames[b.LocationID],
			Quantity:      b.Quantity,
			UnitOfMeasure: item.UnitOfMeasure,
		})
	}
	return snapshot, nil
}

func (s *ReconciliationService) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *ReconciliationService) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
