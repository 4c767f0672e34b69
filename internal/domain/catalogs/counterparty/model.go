// Package counterparty provides the client and supplier catalogs.
// Both share one model; the Role decides which collection a record lives in.
package counterparty

import (
	"context"
	"regexp"
	"strings"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/types"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Role defines which side of the business a counterparty is on.
type Role string

const (
	RoleClient   Role = "client"
	RoleSupplier Role = "supplier"
)

// Counterparty is a client or supplier. Name holds the company name.
type Counterparty struct {
	entity.Catalog

	Role        Role          `json:"role"`
	ContactName string        `json:"contactName"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone,omitempty"`
	Address     string        `json:"address,omitempty"`
	Status      entity.Status `json:"status"`

	// Total is totalSpent for clients and totalPurchased for suppliers.
	// It only grows, and only through Service.AddTotal.
	Total types.Money `json:"total"`
}

// New creates an active counterparty.
func New(role Role, companyName, contactName, email string) *Counterparty {
	return &Counterparty{
		Catalog:     entity.NewCatalog("", companyName),
		Role:        role,
		ContactName: contactName,
		Email:       email,
		Status:      entity.StatusActive,
		Total:       types.Zero(),
	}
}

// Validate implements entity.Validatable interface.
func (c *Counterparty) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Role != RoleClient && c.Role != RoleSupplier {
		return apperror.NewValidation("invalid counterparty role").
			WithDetail("field", "role").
			WithDetail("value", string(c.Role))
	}

	if !c.Status.IsValid() {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(c.Status))
	}

	if c.Email != "" && !emailRE.MatchString(strings.TrimSpace(c.Email)) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

// IsActive reports whether the counterparty is active.
func (c *Counterparty) IsActive() bool {
	return c.Status == entity.StatusActive
}
