package dto

import (
	"bizdesk/internal/domain/catalogs/product"
)

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
	Price    string `json:"price" binding:"required"`
	Cost     string `json:"cost"`
}

// ToEntity parses amounts and builds the product.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	price, err := ParseMoney("price", r.Price)
	if err != nil {
		return nil, err
	}
	cost, err := ParseOptionalMoney("cost", r.Cost)
	if err != nil {
		return nil, err
	}
	return product.New(r.SKU, r.Name, r.Category, r.Stock, price, cost), nil
}

// UpdateProductRequest is the request body for updating a product.
// Stock changes go through inventory adjustments.
type UpdateProductRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Price    string `json:"price" binding:"required"`
	Cost     string `json:"cost"`
}

// ApplyTo parses amounts and applies the update onto p.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	price, err := ParseMoney("price", r.Price)
	if err != nil {
		return err
	}
	cost, err := ParseOptionalMoney("cost", r.Cost)
	if err != nil {
		return err
	}
	p.SKU = r.SKU
	p.Name = r.Name
	p.Category = r.Category
	p.Price = price
	p.Cost = cost
	return nil
}

// ProductResponse adds the derived margin figures.
type ProductResponse struct {
	*product.Product
	Margin        string `json:"margin"`
	MarginPercent string `json:"marginPercent"`
}

// FromProduct builds a ProductResponse.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		Product:       p,
		Margin:        p.Margin().StringFixed(2),
		MarginPercent: p.MarginPercent().StringFixed(2),
	}
}
