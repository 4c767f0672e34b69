package entity

import (
	"context"
	"strings"

	"bizdesk/internal/core/apperror"
)

// Status of a catalog counterparty.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Catalog is the base type for reference data.
// Examples: clients, suppliers, warehouses.
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier, generated when left empty
	Code string `json:"code"`

	// Name is the display name
	Name string `json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	// Code is optional here; services fill it from the numerator before saving.
	return nil
}

// SetCode assigns a code when none was given.
func (c *Catalog) SetCode(code string) {
	if c.Code == "" {
		c.Code = code
	}
}

// GetCode returns the catalog code.
func (c *Catalog) GetCode() string {
	return c.Code
}
