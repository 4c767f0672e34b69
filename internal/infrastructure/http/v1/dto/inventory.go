package dto

import (
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/inventory"
)

// TransferRequest is the request body for a stock transfer.
type TransferRequest struct {
	ProductID       string     `json:"productId" binding:"required"`
	FromWarehouseID string     `json:"fromWarehouseId" binding:"required"`
	ToWarehouseID   string     `json:"toWarehouseId" binding:"required"`
	Quantity        int        `json:"quantity"`
	Date            *time.Time `json:"date"`
	Reference       string     `json:"reference"`
	Notes           string     `json:"notes"`
}

// ToParams parses ids into service parameters.
func (r *TransferRequest) ToParams() (inventory.TransferParams, error) {
	productID, err := id.ParseField("productId", r.ProductID)
	if err != nil {
		return inventory.TransferParams{}, err
	}
	from, err := id.ParseField("fromWarehouseId", r.FromWarehouseID)
	if err != nil {
		return inventory.TransferParams{}, err
	}
	to, err := id.ParseField("toWarehouseId", r.ToWarehouseID)
	if err != nil {
		return inventory.TransferParams{}, err
	}
	p := inventory.TransferParams{
		ProductID:       productID,
		FromWarehouseID: from,
		ToWarehouseID:   to,
		Quantity:        r.Quantity,
		Reference:       r.Reference,
		Notes:           r.Notes,
	}
	if r.Date != nil {
		p.Date = *r.Date
	}
	return p, nil
}

// AdjustmentRequest is the request body for a manual stock adjustment.
type AdjustmentRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
}
