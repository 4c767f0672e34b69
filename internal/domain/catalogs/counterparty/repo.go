package counterparty

import (
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/view"
)

// Repository is the storage contract for one counterparty collection.
type Repository = domain.Repository[*Counterparty]

// ViewSchema describes how counterparty lists are searched, filtered and sorted.
func ViewSchema() view.Schema[*Counterparty] {
	return view.Schema[*Counterparty]{
		Searchable: []func(*Counterparty) string{
			func(c *Counterparty) string { return c.Name },
			func(c *Counterparty) string { return c.ContactName },
			func(c *Counterparty) string { return c.Email },
		},
		Fields: map[string]view.Field[*Counterparty]{
			"code":        view.Str(func(c *Counterparty) string { return c.Code }),
			"name":        view.Str(func(c *Counterparty) string { return c.Name }),
			"contactName": view.Str(func(c *Counterparty) string { return c.ContactName }),
			"email":       view.Str(func(c *Counterparty) string { return c.Email }),
			"status":      view.Str(func(c *Counterparty) string { return string(c.Status) }),
			"total":       view.Num(func(c *Counterparty) types.Money { return c.Total }),
		},
		PageSize: 10,
	}
}
