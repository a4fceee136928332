package ledger

import (
	"context"

	"github.com/stockledger/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// The movement append and its balance projection update must commit or roll
// back together, so both repositories share one database transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to ledger repositories within a
// transaction
type TransactionalRepositories interface {
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() ledger.MovementRepository
	// BalanceRepo returns the balance repository scoped to the current transaction
	BalanceRepo() ledger.BalanceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests backed by repositories that need no rollback.
type NoOpTransactionScope struct {
	movementRepo ledger.MovementRepository
	balanceRepo  ledger.BalanceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	movementRepo ledger.MovementRepository,
	balanceRepo ledger.BalanceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		movementRepo: movementRepo,
		balanceRepo:  balanceRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
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
