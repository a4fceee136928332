package catalog

import (
	"github.com/stockledger/backend/internal/domain/shared"
)

// Supplier represents a supplier for purchase orders
type Supplier struct {
	shared.BaseAggregateRoot
	Name         string `gorm:"type:varchar(255);not null;uniqueIndex:idx_suppliers_name"`
	ContactEmail string `gorm:"type:varchar(255)"`
	ContactPhone string `gorm:"type:varchar(64)"`
	Notes        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name, contactEmail, contactPhone, notes string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ContactEmail:      contactEmail,
		ContactPhone:      contactPhone,
		Notes:             notes,
	}, nil
}

// UpdateContact updates the supplier contact details
func (s *Supplier) UpdateContact(contactEmail, contactPhone, notes string) {
	if contactEmail != "" {
		s.ContactEmail = contactEmail
	}
	if contactPhone != "" {
		s.ContactPhone = contactPhone
	}
	if notes != "" {
		s.Notes = notes
	}
	s.Touch()
	s.IncrementVersion()
}
