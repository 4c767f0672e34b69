// Package product provides the product catalog with stock-derived status.
package product

import (
	"context"
	"strings"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/types"
)

// Status is derived from stock; it is never set directly.
type Status string

const (
	StatusInStock    Status = "in_stock"
	StatusLowStock   Status = "low_stock"
	StatusOutOfStock Status = "out_of_stock"
)

// LowStockThreshold is the highest stock level still reported as low.
const LowStockThreshold = 10

// StatusFor is the one place product status is computed from stock.
func StatusFor(stock int) Status {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Product is a sellable item.
type Product struct {
	entity.BaseEntity

	SKU      string      `json:"sku"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Stock    int         `json:"stock"`
	Price    types.Money `json:"price"`
	Cost     types.Money `json:"cost"`
	Status   Status      `json:"status"`
}

// New creates a product with its status already derived.
func New(sku, name, category string, stock int, price, cost types.Money) *Product {
	p := &Product{
		BaseEntity: entity.NewBaseEntity(),
		SKU:        sku,
		Name:       name,
		Category:   category,
		Stock:      stock,
		Price:      price,
		Cost:       cost,
	}
	p.RefreshStatus()
	return p
}

// RefreshStatus re-derives Status from Stock.
func (p *Product) RefreshStatus() {
	p.Status = StatusFor(p.Stock)
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.SKU) == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}
	if p.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").
			WithDetail("field", "cost")
	}
	return nil
}

// Margin is price minus cost.
func (p *Product) Margin() types.Money {
	return p.Price.Sub(p.Cost)
}

// MarginPercent is margin / price * 100, or 0 when the price is 0.
func (p *Product) MarginPercent() types.Money {
	if p.Price.IsZero() {
		return types.Zero()
	}
	return p.Margin().Div(p.Price).Mul(types.NewMoney(100)).Round(2)
}
