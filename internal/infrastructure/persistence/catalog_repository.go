package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/shared"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindBySKU finds an item by its SKU
func (r *GormItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll returns items matching the filter
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	var items []catalog.Item
	query := r.db.WithContext(ctx).Model(&catalog.Item{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(sku) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?)", pattern, pattern)
	}
	query = applyFilter(query, filter, "sku ASC")

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count counts items matching the filter
func (r *GormItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Item{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(sku) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?)", pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes an item
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormStorageLocationRepository implements catalog.StorageLocationRepository using GORM
type GormStorageLocationRepository struct {
	db *gorm.DB
}

// NewGormStorageLocationRepository creates a new GormStorageLocationRepository
func NewGormStorageLocationRepository(db *gorm.DB) *GormStorageLocationRepository {
	return &GormStorageLocationRepository{db: db}
}

// FindByID finds a storage location by its ID
func (r *GormStorageLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.StorageLocation, error) {
	var location catalog.StorageLocation
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByName finds a storage location by its name
func (r *GormStorageLocationRepository) FindByName(ctx context.Context, name string) (*catalog.StorageLocation, error) {
	var location catalog.StorageLocation
	if err := r.db.WithContext(ctx).First(&location, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindFirst returns the oldest storage location
func (r *GormStorageLocationRepository) FindFirst(ctx context.Context) (*catalog.StorageLocation, error) {
	var location catalog.StorageLocation
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindAll returns storage locations matching the filter
func (r *GormStorageLocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.StorageLocation, error) {
	var locations []catalog.StorageLocation
	query := applyFilter(r.db.WithContext(ctx).Model(&catalog.StorageLocation{}), filter, "name ASC")
	if err := query.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a storage location
func (r *GormStorageLocationRepository) Save(ctx context.Context, location *catalog.StorageLocation) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// Delete deletes a storage location
func (r *GormStorageLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.StorageLocation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormSupplierRepository implements catalog.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	var supplier catalog.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByName finds a supplier by its name
func (r *GormSupplierRepository) FindByName(ctx context.Context, name string) (*catalog.Supplier, error) {
	var supplier catalog.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAll returns suppliers matching the filter
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Supplier, error) {
	var suppliers []catalog.Supplier
	query := applyFilter(r.db.WithContext(ctx).Model(&catalog.Supplier{}), filter, "name ASC")
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *catalog.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete deletes a supplier
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interfaces are implemented
var (
	_ catalog.ItemRepository            = (*GormItemRepository)(nil)
	_ catalog.StorageLocationRepository = (*GormStorageLocationRepository)(nil)
	_ catalog.SupplierRepository        = (*GormSupplierRepository)(nil)
)
