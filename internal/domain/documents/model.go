// Package documents manages sales and purchase documents and their
// conversion chains (estimate -> order -> delivery -> invoice).
package documents

import (
	"context"
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

// Kind separates the sales side from the purchase side.
type Kind string

const (
	KindSales    Kind = "sales"
	KindPurchase Kind = "purchase"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == KindSales || k == KindPurchase
}

// Type is the stage of a document in its chain.
type Type string

const (
	TypeEstimate Type = "estimate"
	TypeOrder    Type = "order"
	TypeDelivery Type = "delivery"
	TypeInvoice  Type = "invoice"
	TypeIssue    Type = "issue"
)

// Status of a document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusCompleted, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Settled reports whether an invoice in this status counts as revenue (or expense).
func (s Status) Settled() bool {
	return s == StatusPaid || s == StatusCompleted
}

// Line is one line item.
type Line struct {
	Description string         `json:"description"`
	ProductID   *id.ID         `json:"productId,omitempty"`
	Quantity    types.Quantity `json:"quantity"`
	UnitPrice   types.Money    `json:"unitPrice"`
}

// Extension is quantity x unit price.
func (l Line) Extension() types.Money {
	return l.UnitPrice.Mul(l.Quantity.Decimal())
}

// Document is a sales or purchase document.
// Identity, kind and type never change after creation.
type Document struct {
	entity.Document
	entity.CurrencyAware

	Kind             Kind        `json:"kind"`
	Type             Type        `json:"type"`
	CounterpartyID   id.ID       `json:"counterpartyId"`
	CounterpartyName string      `json:"counterpartyName"`
	DueDate          time.Time   `json:"dueDate,omitempty"`
	Lines            []Line      `json:"lines"`
	Amount           types.Money `json:"amount"`
	Status           Status      `json:"status"`

	// LinkedDocumentID points at the predecessor this document was converted from.
	LinkedDocumentID *id.ID `json:"linkedDocumentId,omitempty"`

	// RevenueRecognized is set once the amount was added to the counterparty total.
	RevenueRecognized bool `json:"revenueRecognized"`
}

// Detach implements entity.Detacher.
func (d *Document) Detach() {
	lines := make([]Line, len(d.Lines))
	for i, l := range d.Lines {
		if l.ProductID != nil {
			pid := *l.ProductID
			l.ProductID = &pid
		}
		lines[i] = l
	}
	d.Lines = lines
	if d.LinkedDocumentID != nil {
		linked := *d.LinkedDocumentID
		d.LinkedDocumentID = &linked
	}
}

// RecalculateAmount sets Amount to the sum of line extensions.
func (d *Document) RecalculateAmount() {
	total := types.Zero()
	for _, l := range d.Lines {
		total = total.Add(l.Extension())
	}
	d.Amount = total
}

// IsInvoice reports whether the document is an invoice.
func (d *Document) IsInvoice() bool {
	return d.Type == TypeInvoice
}

// Validate implements entity.Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}
	if err := d.CurrencyAware.ValidateCurrency(ctx); err != nil {
		return err
	}
	if !d.Kind.IsValid() {
		return apperror.NewValidation("invalid document kind").
			WithDetail("field", "kind").
			WithDetail("value", string(d.Kind))
	}
	if !TypeAllowed(d.Kind, d.Type) {
		return apperror.NewValidation("document type not available for this kind").
			WithDetail("field", "type").
			WithDetail("kind", string(d.Kind)).
			WithDetail("value", string(d.Type))
	}
	if !d.Status.IsValid() {
		return apperror.NewValidation("invalid document status").
			WithDetail("field", "status").
			WithDetail("value", string(d.Status))
	}
	if id.IsNil(d.CounterpartyID) {
		return apperror.NewValidation("counterparty is required").
			WithDetail("field", "counterpartyId")
	}
	return ValidateLines(d.Lines)
}

// ValidateDueDate rejects a due date before the document date. It applies to
// user-entered dates only; converted documents keep the due date of their
// predecessor even when it has already passed.
func (d *Document) ValidateDueDate() error {
	if !d.DueDate.IsZero() && d.DueDate.Before(d.Date.Truncate(24*time.Hour)) {
		return apperror.NewValidation("due date is before document date").
			WithDetail("field", "dueDate")
	}
	return nil
}

// ValidateLines checks line items on their own.
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	for i, line := range lines {
		if strings.TrimSpace(line.Description) == "" {
			return apperror.NewValidation("line description is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}
