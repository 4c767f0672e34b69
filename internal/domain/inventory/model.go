// Package inventory records stock transfers between warehouses and manual
// stock adjustments. Both records are immutable once written.
package inventory

import (
	"time"

	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/id"
)

// StockTransfer moves a quantity of one product between two warehouses.
// It is a log entry only; product stock (a single total) is not changed.
type StockTransfer struct {
	entity.BaseEntity

	ProductID       id.ID     `json:"productId"`
	FromWarehouseID id.ID     `json:"fromWarehouseId"`
	ToWarehouseID   id.ID     `json:"toWarehouseId"`
	Quantity        int       `json:"quantity"`
	Date            time.Time `json:"date"`
	Reference       string    `json:"reference,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// StockAdjustment records a manual change of product stock.
type StockAdjustment struct {
	entity.BaseEntity

	ProductID  id.ID     `json:"productId"`
	Delta      int       `json:"delta"`
	StockAfter int       `json:"stockAfter"`
	Reason     string    `json:"reason"`
	Date       time.Time `json:"date"`
}

// TransferParams are the inputs of Service.Transfer.
type TransferParams struct {
	ProductID       id.ID
	FromWarehouseID id.ID
	ToWarehouseID   id.ID
	Quantity        int
	Date            time.Time
	Reference       string
	Notes           string
}
