package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/shared"
)

// ItemRepository defines the persistence interface for items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StorageLocationRepository defines the persistence interface for storage locations
type StorageLocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StorageLocation, error)
	FindByName(ctx context.Context, name string) (*StorageLocation, error)
	// FindFirst returns the oldest location, used as the default receiving location
	FindFirst(ctx context.Context) (*StorageLocation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]StorageLocation, error)
	Save(ctx context.Context, location *StorageLocation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierRepository defines the persistence interface for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByName(ctx context.Context, name string) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}
