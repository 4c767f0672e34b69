package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"bizdesk/internal/core/apperror"
)

// DefaultCurrency is used when nothing else is configured.
const DefaultCurrency = "EUR"

// ParseMoney parses user-entered amounts. Empty input and garbage are rejected
// before any mutation is attempted.
func ParseMoney(field, s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero(), apperror.NewInvalidInput(field, s, fmt.Errorf("empty amount"))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero(), apperror.NewInvalidInput(field, s, err)
	}
	return d, nil
}

// Amount is a monetary figure together with its currency code.
type Amount struct {
	Value    Money  `json:"value"`
	Currency string `json:"currency"`
}

// NewAmount pairs a value with a currency code.
func NewAmount(v Money, code string) Amount {
	return Amount{Value: v, Currency: code}
}

// Formatter renders amounts for display. It is the single place money is turned into text.
type Formatter struct {
	base    string
	printer *message.Printer
}

// NewFormatter creates a Formatter for a locale (BCP 47) and base currency.
// Unknown locales fall back to English; an unknown base currency is an error.
func NewFormatter(locale, base string) (*Formatter, error) {
	if base == "" {
		base = DefaultCurrency
	}
	if _, err := currency.ParseISO(base); err != nil {
		return nil, fmt.Errorf("base currency %q: %w", base, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{base: strings.ToUpper(base), printer: message.NewPrinter(tag)}, nil
}

// Base returns the configured base currency code.
func (f *Formatter) Base() string { return f.base }

// Amount tags v with the base currency.
func (f *Formatter) Amount(v Money) Amount {
	return Amount{Value: v, Currency: f.base}
}

// Format renders a value in the given currency; empty code means base currency.
func (f *Formatter) Format(v Money, code string) string {
	if code == "" {
		code = f.base
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", v.StringFixed(2), code)
	}
	scale, _ := currency.Standard.Rounding(unit)
	rounded := v.Round(int32(scale))

	symbol := f.printer.Sprint(currency.Symbol(unit))
	digits := f.printer.Sprint(number.Decimal(rounded.Abs().InexactFloat64(), number.Scale(scale)))
	if rounded.IsNegative() {
		return fmt.Sprintf("-%s %s", symbol, digits)
	}
	return fmt.Sprintf("%s %s", symbol, digits)
}

// FormatAmount renders an Amount.
func (f *Formatter) FormatAmount(a Amount) string {
	return f.Format(a.Value, a.Currency)
}
