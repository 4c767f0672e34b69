package warehouse

import (
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/view"
)

// Repository is the storage contract for warehouses.
type Repository = domain.Repository[*Warehouse]

// ViewSchema describes how warehouse lists are searched and sorted.
func ViewSchema() view.Schema[*Warehouse] {
	return view.Schema[*Warehouse]{
		Searchable: []func(*Warehouse) string{
			func(w *Warehouse) string { return w.Name },
			func(w *Warehouse) string { return w.Location },
		},
		Fields: map[string]view.Field[*Warehouse]{
			"code":     view.Str(func(w *Warehouse) string { return w.Code }),
			"name":     view.Str(func(w *Warehouse) string { return w.Name }),
			"location": view.Str(func(w *Warehouse) string { return w.Location }),
		},
		PageSize: 10,
	}
}
