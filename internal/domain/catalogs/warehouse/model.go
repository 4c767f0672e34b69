// Package warehouse provides the warehouse catalog.
package warehouse

import (
	"context"

	"bizdesk/internal/core/entity"
)

// Warehouse is a storage location. At most one warehouse is the default;
// the service clears the flag on the others whenever it is set.
type Warehouse struct {
	entity.Catalog

	Location  string `json:"location"`
	IsDefault bool   `json:"isDefault"`
}

// New creates a warehouse.
func New(name, location string, isDefault bool) *Warehouse {
	return &Warehouse{
		Catalog:   entity.NewCatalog("", name),
		Location:  location,
		IsDefault: isDefault,
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	return w.Catalog.Validate(ctx)
}
