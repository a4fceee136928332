package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/stockledger/backend/internal/domain/shared"
)

// Item represents item master data. Identity (ID, SKU) is immutable;
// descriptive fields may be updated.
type Item struct {
	shared.BaseAggregateRoot
	SKU           string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_items_sku"`
	Name          string          `gorm:"type:varchar(255);not null"`
	Description   string          `gorm:"type:text"`
	UnitOfMeasure string          `gorm:"type:varchar(32);not null;default:'pcs'"`
	ReorderLevel  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Minimum stock threshold for alerts
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new item
func NewItem(sku, name, description, unitOfMeasure string, reorderLevel decimal.Decimal) (*Item, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if reorderLevel.IsNegative() {
		return nil, shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}
	if unitOfMeasure == "" {
		unitOfMeasure = "pcs"
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Description:       description,
		UnitOfMeasure:     unitOfMeasure,
		ReorderLevel:      reorderLevel,
	}, nil
}

// Update updates the mutable descriptive fields
func (i *Item) Update(name, description, unitOfMeasure string, reorderLevel *decimal.Decimal) error {
	if name != "" {
		i.Name = name
	}
	if description != "" {
		i.Description = description
	}
	if unitOfMeasure != "" {
		i.UnitOfMeasure = unitOfMeasure
	}
	if reorderLevel != nil {
		if reorderLevel.IsNegative() {
			return shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
		}
		i.ReorderLevel = *reorderLevel
	}
	i.Touch()
	i.IncrementVersion()
	return nil
}
