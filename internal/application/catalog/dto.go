package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/shared"
)

// CreateItemRequest represents a request to create an item
type CreateItemRequest struct {
	SKU           string          `json:"sku" binding:"required,max=64"`
	Name          string          `json:"name" binding:"required,max=255"`
	Description   string          `json:"description"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
}

// UpdateItemRequest represents a request to update an item
type UpdateItemRequest struct {
	Name          string           `json:"name" binding:"required,max=255"`
	Description   string           `json:"description"`
	UnitOfMeasure string           `json:"unit_of_measure"`
	ReorderLevel  *decimal.Decimal `json:"reorder_level"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateLocationRequest represents a request to create a storage location
type CreateLocationRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// LocationResponse represents a storage location in API responses
type LocationResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
	Notes        string `json:"notes"`
}

// UpdateSupplierRequest represents a request to update a supplier's contact details
type UpdateSupplierRequest struct {
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
	Notes        string `json:"notes"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListFilter represents common list filter options
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toShared() shared.Filter {
	sf := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
	}
	if sf.Page == 0 {
		sf.Page = 1
	}
	if sf.PageSize == 0 {
		sf.PageSize = 20
	}
	return sf
}

func toItemResponse(item *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:            item.ID,
		SKU:           item.SKU,
		Name:          item.Name,
		Description:   item.Description,
		UnitOfMeasure: item.UnitOfMeasure,
		ReorderLevel:  item.ReorderLevel,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func toLocationResponse(location *catalog.StorageLocation) LocationResponse {
	return LocationResponse{
		ID:          location.ID,
		Name:        location.Name,
		Description: location.Description,
		CreatedAt:   location.CreatedAt,
	}
}

func toSupplierResponse(supplier *catalog.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           supplier.ID,
		Name:         supplier.Name,
		ContactEmail: supplier.ContactEmail,
		ContactPhone: supplier.ContactPhone,
		Notes:        supplier.Notes,
		CreatedAt:    supplier.CreatedAt,
	}
}
