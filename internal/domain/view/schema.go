package view

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// Kind selects how a field is compared.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindTime
)

// Field describes one sortable/filterable attribute of T.
// Exactly one accessor matching Kind must be set.
type Field[T any] struct {
	Kind   Kind
	String func(T) string
	Number func(T) decimal.Decimal
	Time   func(T) time.Time
}

// Str declares a string field.
func Str[T any](fn func(T) string) Field[T] {
	return Field[T]{Kind: KindString, String: fn}
}

// Num declares a numeric field.
func Num[T any](fn func(T) decimal.Decimal) Field[T] {
	return Field[T]{Kind: KindNumber, Number: fn}
}

// Int declares an integer field.
func Int[T any](fn func(T) int) Field[T] {
	return Field[T]{Kind: KindNumber, Number: func(v T) decimal.Decimal {
		return decimal.NewFromInt(int64(fn(v)))
	}}
}

// Date declares a time field.
func Date[T any](fn func(T) time.Time) Field[T] {
	return Field[T]{Kind: KindTime, Time: fn}
}

// text renders the field for equality and substring filters.
func (f Field[T]) text(v T) string {
	switch f.Kind {
	case KindNumber:
		return f.Number(v).String()
	case KindTime:
		return f.Time(v).Format(time.DateOnly)
	default:
		return f.String(v)
	}
}

// value renders the field for CEL evaluation.
func (f Field[T]) value(v T) any {
	switch f.Kind {
	case KindNumber:
		return f.Number(v).InexactFloat64()
	case KindTime:
		return f.Time(v)
	default:
		return f.String(v)
	}
}

// Schema is the per-type view description.
type Schema[T any] struct {
	// Searchable fields are matched by the free-text query
	Searchable []func(T) string

	// Fields available to filters, sorting and expressions, keyed by name
	Fields map[string]Field[T]

	// PageSize is the fixed page size of the view
	PageSize int

	// Locale drives string collation; English when unset
	Locale language.Tag
}
