package dto

import (
	"bizdesk/internal/domain/catalogs/warehouse"
)

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name" binding:"required"`
	Location  string `json:"location"`
	IsDefault bool   `json:"isDefault"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.New(r.Name, r.Location, r.IsDefault)
	wh.Code = r.Code
	return wh
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Name      string `json:"name" binding:"required"`
	Location  string `json:"location"`
	IsDefault bool   `json:"isDefault"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Name = r.Name
	wh.Location = r.Location
	wh.IsDefault = r.IsDefault
}
