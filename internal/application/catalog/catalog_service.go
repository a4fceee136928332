package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/shared"
)

// DefaultLocationName is the name of the receiving location created when the
// catalog has no storage locations yet
const DefaultLocationName = "Main warehouse"

// CatalogService handles master data for items, storage locations and suppliers
type CatalogService struct {
	itemRepo     catalog.ItemRepository
	locationRepo catalog.StorageLocationRepository
	supplierRepo catalog.SupplierRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	itemRepo catalog.ItemRepository,
	locationRepo catalog.StorageLocationRepository,
	supplierRepo catalog.SupplierRepository,
) *CatalogService {
	return &CatalogService{
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		supplierRepo: supplierRepo,
	}
}

// CreateItem creates a new item. SKUs are unique.
func (s *CatalogService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	if _, err := s.itemRepo.FindBySKU(ctx, req.SKU); err == nil {
		return nil, shared.ErrAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err := catalog.NewItem(req.SKU, req.Name, req.Description, req.UnitOfMeasure, req.ReorderLevel)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// UpdateItem updates an item's mutable fields
func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Update(req.Name, req.Description, req.UnitOfMeasure, req.ReorderLevel); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// GetItem retrieves an item by ID
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// GetItemBySKU retrieves an item by SKU
func (s *CatalogService) GetItemBySKU(ctx context.Context, sku string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// ListItems returns items matching the filter together with the total count
func (s *CatalogService) ListItems(ctx context.Context, filter ListFilter) ([]ItemResponse, int64, error) {
	sf := filter.toShared()
	items, err := s.itemRepo.FindAll(ctx, sf)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, sf)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = toItemResponse(&items[i])
	}
	return responses, total, nil
}

// DeleteItem deletes an item
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.itemRepo.Delete(ctx, id)
}

// CreateLocation creates a new storage location. Names are unique.
func (s *CatalogService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	if _, err := s.locationRepo.FindByName(ctx, req.Name); err == nil {
		return nil, shared.ErrAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	location, err := catalog.NewStorageLocation(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}
	resp := toLocationResponse(location)
	return &resp, nil
}

// GetLocation retrieves a storage location by ID
func (s *CatalogService) GetLocation(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toLocationResponse(location)
	return &resp, nil
}

// ListLocations returns all storage locations
func (s *CatalogService) ListLocations(ctx context.Context) ([]LocationResponse, error) {
	locations, err := s.locationRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	responses := make([]LocationResponse, len(locations))
	for i := range locations {
		responses[i] = toLocationResponse(&locations[i])
	}
	return responses, nil
}

// DeleteLocation deletes a storage location
func (s *CatalogService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return s.locationRepo.Delete(ctx, id)
}

// DefaultReceivingLocation returns the location goods are received into,
// creating the default one when the catalog has no locations yet
func (s *CatalogService) DefaultReceivingLocation(ctx context.Context) (*catalog.StorageLocation, error) {
	location, err := s.locationRepo.FindFirst(ctx)
	if err == nil {
		return location, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	location, err = catalog.NewStorageLocation(DefaultLocationName, "Default receiving location")
	if err != nil {
		return nil, err
	}
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// CreateSupplier creates a new supplier. Names are unique.
func (s *CatalogService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	if _, err := s.supplierRepo.FindByName(ctx, req.Name); err == nil {
		return nil, shared.ErrAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	supplier, err := catalog.NewSupplier(req.Name, req.ContactEmail, req.ContactPhone, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := toSupplierResponse(supplier)
	return &resp, nil
}

// UpdateSupplier updates a supplier's contact details
func (s *CatalogService) UpdateSupplier(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.UpdateContact(req.ContactEmail, req.ContactPhone, req.Notes)
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := toSupplierResponse(supplier)
	return &resp, nil
}

// GetSupplier retrieves a supplier by ID
func (s *CatalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSupplierResponse(supplier)
	return &resp, nil
}

// ListSuppliers returns all suppliers
func (s *CatalogService) ListSuppliers(ctx context.Context) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = toSupplierResponse(&suppliers[i])
	}
	return responses, nil
}

// DeleteSupplier deletes a supplier
func (s *CatalogService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, id)
}
