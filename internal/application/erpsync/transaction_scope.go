package erpsync

import (
	"context"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/erpsync"
	"github.com/stockledger/backend/internal/domain/purchasing"
)

// TransactionScope provides transactional access to the repositories an order
// import touches. Creating the order, any missing master data, and the
// imported-identifier record commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction
type TransactionalRepositories interface {
	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() purchasing.PurchaseOrderRepository
	// SupplierRepo returns the supplier repository scoped to the current transaction
	SupplierRepo() catalog.SupplierRepository
	// ItemRepo returns the item repository scoped to the current transaction
	ItemRepo() catalog.ItemRepository
	// SyncStateRepo returns the sync state repository scoped to the current transaction
	SyncStateRepo() erpsync.SyncStateRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	orderRepo     purchasing.PurchaseOrderRepository
	supplierRepo  catalog.SupplierRepository
	itemRepo      catalog.ItemRepository
	syncStateRepo erpsync.SyncStateRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	orderRepo purchasing.PurchaseOrderRepository,
	supplierRepo catalog.SupplierRepository,
	itemRepo catalog.ItemRepository,
	syncStateRepo erpsync.SyncStateRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:     orderRepo,
		supplierRepo:  supplierRepo,
		itemRepo:      itemRepo,
		syncStateRepo: syncStateRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the purchase order repository
func (s *NoOpTransactionScope) OrderRepo() purchasing.PurchaseOrderRepository {
	return s.orderRepo
}

// SupplierRepo returns the supplier repository
func (s *NoOpTransactionScope) SupplierRepo() catalog.SupplierRepository {
	return s.supplierRepo
}

// ItemRepo returns the item repository
func (s *NoOpTransactionScope) ItemRepo() catalog.ItemRepository {
	return s.itemRepo
}

// SyncStateRepo returns the sync state repository
func (s *NoOpTransactionScope) SyncStateRepo() erpsync.SyncStateRepository {
	return s.syncStateRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
