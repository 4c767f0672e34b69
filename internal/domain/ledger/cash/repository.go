package cash

import (
	"time"

	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/view"
)

// SessionRepository stores register sessions.
type SessionRepository = domain.Repository[*Session]

// TransactionRepository stores cash transactions.
type TransactionRepository = domain.Repository[*Transaction]

// TransactionViewSchema describes the cash transaction list.
func TransactionViewSchema() view.Schema[*Transaction] {
	return view.Schema[*Transaction]{
		Searchable: []func(*Transaction) string{
			func(t *Transaction) string { return t.Description },
		},
		Fields: map[string]view.Field[*Transaction]{
			"sessionId":   view.Str(func(t *Transaction) string { return t.SessionID.String() }),
			"type":        view.Str(func(t *Transaction) string { return string(t.Type) }),
			"description": view.Str(func(t *Transaction) string { return t.Description }),
			"amount":      view.Num(func(t *Transaction) types.Money { return t.Amount }),
			"date":        view.Date(func(t *Transaction) time.Time { return t.Date }),
		},
		PageSize: 10,
	}
}
