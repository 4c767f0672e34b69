package documents

import (
	"time"

	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/view"
)

// Repository is the storage contract for documents.
type Repository = domain.Repository[*Document]

// ViewSchema describes how document lists are searched, filtered and sorted.
func ViewSchema() view.Schema[*Document] {
	return view.Schema[*Document]{
		Searchable: []func(*Document) string{
			func(d *Document) string { return d.Number },
			func(d *Document) string { return d.CounterpartyName },
		},
		Fields: map[string]view.Field[*Document]{
			"number":       view.Str(func(d *Document) string { return d.Number }),
			"type":         view.Str(func(d *Document) string { return string(d.Type) }),
			"status":       view.Str(func(d *Document) string { return string(d.Status) }),
			"counterparty": view.Str(func(d *Document) string { return d.CounterpartyName }),
			"amount":       view.Num(func(d *Document) types.Money { return d.Amount }),
			"date":         view.Date(func(d *Document) time.Time { return d.Date }),
			"dueDate":      view.Date(func(d *Document) time.Time { return d.DueDate }),
		},
		PageSize: 10,
	}
}
