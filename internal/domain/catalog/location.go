package catalog

import (
	"github.com/stockledger/backend/internal/domain/shared"
)

// StorageLocation represents a storage location within the business.
// Identity is immutable.
type StorageLocation struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_storage_locations_name"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StorageLocation) TableName() string {
	return "storage_locations"
}

// NewStorageLocation creates a new storage location
func NewStorageLocation(name, description string) (*StorageLocation, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}

	return &StorageLocation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
	}, nil
}

// UpdateDescription updates the location description
func (l *StorageLocation) UpdateDescription(description string) {
	l.Description = description
	l.Touch()
	l.IncrementVersion()
}
