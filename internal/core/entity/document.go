package entity

import (
	"context"
	"time"

	"bizdesk/internal/core/apperror"
)

// Document is the base type for business transactions.
// Examples: estimates, orders, delivery notes, invoices.
type Document struct {
	BaseEntity

	// Number is the human-readable reference; assigned once and never changed
	Number string `json:"number"`

	// Date is the business date of the document
	Date time.Time `json:"date"`

	// Comment is an optional user comment
	Comment string `json:"comment,omitempty"`
}

// NewDocument creates a new Document dated today.
func NewDocument() Document {
	return Document{
		BaseEntity: NewBaseEntity(),
		Date:       time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// AssignNumber sets the reference number once; later calls are ignored.
func (d *Document) AssignNumber(number string) {
	if d.Number == "" {
		d.Number = number
	}
}
