package persistence

import (
	"context"

	"gorm.io/gorm"

	apperpsync "github.com/stockledger/backend/internal/application/erpsync"
	appledger "github.com/stockledger/backend/internal/application/ledger"
	apppurchasing "github.com/stockledger/backend/internal/application/purchasing"
	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/erpsync"
	"github.com/stockledger/backend/internal/domain/ledger"
	"github.com/stockledger/backend/internal/domain/purchasing"
)

// GormLedgerTransactionScope implements the ledger transaction scope using
// GORM transactions
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

type gormLedgerRepositories struct {
	tx *gorm.DB
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormLedgerRepositories) MovementRepo() ledger.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// BalanceRepo returns the balance repository scoped to the current transaction
func (r *gormLedgerRepositories) BalanceRepo() ledger.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

// GormPurchasingTransactionScope implements the purchasing transaction scope
// using GORM transactions
type GormPurchasingTransactionScope struct {
	db *gorm.DB
}

// NewGormPurchasingTransactionScope creates a new GormPurchasingTransactionScope
func NewGormPurchasingTransactionScope(db *gorm.DB) *GormPurchasingTransactionScope {
	return &GormPurchasingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormPurchasingTransactionScope) Execute(ctx context.Context, fn func(repos apppurchasing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPurchasingRepositories{tx: tx})
	})
}

type gormPurchasingRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the purchase order repository scoped to the current transaction
func (r *gormPurchasingRepositories) OrderRepo() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormPurchasingRepositories) MovementRepo() ledger.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// BalanceRepo returns the balance repository scoped to the current transaction
func (r *gormPurchasingRepositories) BalanceRepo() ledger.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

// GormErpSyncTransactionScope implements the ERP sync transaction scope using
// GORM transactions
type GormErpSyncTransactionScope struct {
	db *gorm.DB
}

// NewGormErpSyncTransactionScope creates a new GormErpSyncTransactionScope
func NewGormErpSyncTransactionScope(db *gorm.DB) *GormErpSyncTransactionScope {
	return &GormErpSyncTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormErpSyncTransactionScope) Execute(ctx context.Context, fn func(repos apperpsync.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormErpSyncRepositories{tx: tx})
	})
}

type gormErpSyncRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the purchase order repository scoped to the current transaction
func (r *gormErpSyncRepositories) OrderRepo() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction
func (r *gormErpSyncRepositories) SupplierRepo() catalog.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// ItemRepo returns the item repository scoped to the current transaction
func (r *gormErpSyncRepositories) ItemRepo() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// SyncStateRepo returns the sync state repository scoped to the current transaction
func (r *gormErpSyncRepositories) SyncStateRepo() erpsync.SyncStateRepository {
	return NewGormSyncStateRepository(r.tx)
}

// Ensure the scopes implement their interfaces
var (
	_ appledger.TransactionScope     = (*GormLedgerTransactionScope)(nil)
	_ apppurchasing.TransactionScope = (*GormPurchasingTransactionScope)(nil)
	_ apperpsync.TransactionScope    = (*GormErpSyncTransactionScope)(nil)
)
