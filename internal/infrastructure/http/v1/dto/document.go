package dto

import (
	"fmt"
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/documents"
)

// LineRequest is one line item; unitPrice is a decimal string.
type LineRequest struct {
	Description string         `json:"description"`
	ProductID   *string        `json:"productId"`
	Quantity    types.Quantity `json:"quantity"`
	UnitPrice   string         `json:"unitPrice" binding:"required"`
}

// ParseLines converts line requests into domain lines.
func ParseLines(reqs []LineRequest) ([]documents.Line, error) {
	lines := make([]documents.Line, 0, len(reqs))
	for i, r := range reqs {
		price, err := ParseMoney(fmt.Sprintf("lines[%d].unitPrice", i), r.UnitPrice)
		if err != nil {
			return nil, err
		}
		line := documents.Line{
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   price,
		}
		if r.ProductID != nil && *r.ProductID != "" {
			pid, err := id.ParseField(fmt.Sprintf("lines[%d].productId", i), *r.ProductID)
			if err != nil {
				return nil, err
			}
			line.ProductID = &pid
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// CreateDocumentRequest is the request body for creating a document.
// The kind comes from the URL.
type CreateDocumentRequest struct {
	Type           documents.Type   `json:"type" binding:"required"`
	CounterpartyID string           `json:"counterpartyId" binding:"required"`
	Lines          []LineRequest    `json:"lines" binding:"required,min=1,dive"`
	Status         documents.Status `json:"status"`
	Date           *time.Time       `json:"date"`
	DueDate        *time.Time       `json:"dueDate"`
	Comment        string           `json:"comment"`
}

// ToParams parses the request into service parameters.
func (r *CreateDocumentRequest) ToParams(kind documents.Kind) (documents.CreateParams, error) {
	cpID, err := id.ParseField("counterpartyId", r.CounterpartyID)
	if err != nil {
		return documents.CreateParams{}, err
	}
	lines, err := ParseLines(r.Lines)
	if err != nil {
		return documents.CreateParams{}, err
	}
	p := documents.CreateParams{
		Kind:           kind,
		Type:           r.Type,
		CounterpartyID: cpID,
		Lines:          lines,
		Status:         r.Status,
		Comment:        r.Comment,
	}
	if r.Date != nil {
		p.Date = *r.Date
	}
	if r.DueDate != nil {
		p.DueDate = *r.DueDate
	}
	return p, nil
}

// ConvertRequest names the target document type.
type ConvertRequest struct {
	Target documents.Type `json:"target" binding:"required"`
}

// StatusRequest is the request body for a status change.
type StatusRequest struct {
	Status documents.Status `json:"status" binding:"required"`
}

// LinesRequest replaces the line items of an open document.
type LinesRequest struct {
	Lines []LineRequest `json:"lines" binding:"required,min=1,dive"`
}
