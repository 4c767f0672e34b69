package entity

import (
	"context"

	"golang.org/x/text/currency"

	"bizdesk/internal/core/apperror"
)

// CurrencyAware is a trait for entities denominated in one currency.
// Used for composition in models like bank accounts.
type CurrencyAware struct {
	// Currency is the ISO 4217 code, e.g. "EUR"
	Currency string `json:"currency"`
}

// ValidateCurrency ensures the currency is a known ISO code.
func (c *CurrencyAware) ValidateCurrency(ctx context.Context) error {
	if c.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		return apperror.NewValidation("unknown currency code").
			WithDetail("field", "currency").
			WithDetail("value", c.Currency)
	}
	return nil
}

// GetCurrency returns the currency code.
func (c *CurrencyAware) GetCurrency() string {
	return c.Currency
}
