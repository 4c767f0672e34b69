package product

import (
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/view"
)

// Repository is the storage contract for products.
type Repository = domain.Repository[*Product]

// ViewSchema describes how product lists are searched, filtered and sorted.
func ViewSchema() view.Schema[*Product] {
	return view.Schema[*Product]{
		Searchable: []func(*Product) string{
			func(p *Product) string { return p.Name },
			func(p *Product) string { return p.SKU },
			func(p *Product) string { return p.Category },
		},
		Fields: map[string]view.Field[*Product]{
			"sku":      view.Str(func(p *Product) string { return p.SKU }),
			"name":     view.Str(func(p *Product) string { return p.Name }),
			"category": view.Str(func(p *Product) string { return p.Category }),
			"status":   view.Str(func(p *Product) string { return string(p.Status) }),
			"stock":    view.Int(func(p *Product) int { return p.Stock }),
			"price":    view.Num(func(p *Product) types.Money { return p.Price }),
			"cost":     view.Num(func(p *Product) types.Money { return p.Cost }),
		},
		PageSize: 10,
	}
}
