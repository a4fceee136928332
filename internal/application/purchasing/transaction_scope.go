package purchasing

import (
	"context"

	"github.com/stockledger/backend/internal/domain/ledger"
	"github.com/stockledger/backend/internal/domain/purchasing"
)

// TransactionScope provides transactional access to purchasing repositories.
// Receiving a line updates the order and appends the matching receipt
// movement with its balance projection, all in one database transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a receiving
// transaction touches
type TransactionalRepositories interface {
	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() purchasing.PurchaseOrderRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() ledger.MovementRepository
	// BalanceRepo returns the balance repository scoped to the current transaction
	BalanceRepo() ledger.BalanceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	orderRepo    purchasing.PurchaseOrderRepository
	movementRepo ledger.MovementRepository
	balanceRepo  ledger.BalanceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	orderRepo purchasing.PurchaseOrderRepository,
	movementRepo ledger.MovementRepository,
	balanceRepo ledger.BalanceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		movementRepo: movementRepo,
		balanceRepo:  balanceRepo,
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

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() ledger.MovementRepository {
	return s.movementRepo
}

// BalanceRepo returns the balance repository
func (s *NoOpTransactionScope) BalanceRepo() ledger.BalanceRepository {
	return s.balanceRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
