package bank

import (
	"time"

	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/view"
)

// AccountRepository stores accounts.
type AccountRepository = domain.Repository[*Account]

// TransactionRepository stores transactions.
type TransactionRepository = domain.Repository[*Transaction]

// TransactionViewSchema describes the bank transaction list.
func TransactionViewSchema() view.Schema[*Transaction] {
	return view.Schema[*Transaction]{
		Searchable: []func(*Transaction) string{
			func(t *Transaction) string { return t.Description },
		},
		Fields: map[string]view.Field[*Transaction]{
			"accountId":   view.Str(func(t *Transaction) string { return t.AccountID.String() }),
			"description": view.Str(func(t *Transaction) string { return t.Description }),
			"type":        view.Str(func(t *Transaction) string { return string(t.Type) }),
			"status":      view.Str(func(t *Transaction) string { return string(t.Status) }),
			"amount":      view.Num(func(t *Transaction) types.Money { return t.Amount }),
			"date":        view.Date(func(t *Transaction) time.Time { return t.Date }),
		},
		PageSize: 10,
	}
}
