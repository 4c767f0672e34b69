// Package reports derives read-only aggregates from the store.
// Nothing is cached: every report is recomputed from the current records.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/catalogs/product"
	"bizdesk/internal/domain/documents"
)

// --- Sales by customer ---

// CustomerSales is one row of the sales-by-customer report.
type CustomerSales struct {
	ClientID     id.ID        `json:"clientId"`
	ClientName   string       `json:"clientName"`
	InvoiceCount int          `json:"invoiceCount"`
	Total        types.Amount `json:"total"`
}

// --- VAT ---

// VATLine is the synthetic net/tax/gross split of one invoice.
type VATLine struct {
	DocumentID id.ID          `json:"documentId"`
	Number     string         `json:"number"`
	Kind       documents.Kind `json:"kind"`
	Date       time.Time      `json:"date"`
	Net        types.Amount   `json:"net"`
	Tax        types.Amount   `json:"tax"`
	Gross      types.Amount   `json:"gross"`
}

// VATReport applies one fixed rate to every invoice amount.
// Per-line tax data does not exist, so the figures are an approximation.
type VATReport struct {
	Rate      decimal.Decimal `json:"rate"`
	Lines     []VATLine       `json:"lines"`
	OutputTax types.Amount    `json:"outputTax"`
	InputTax  types.Amount    `json:"inputTax"`
	Payable   types.Amount    `json:"payable"`
}

// --- Product performance ---

// ProductPerformance is one row of the product performance report.
type ProductPerformance struct {
	ProductID     id.ID           `json:"productId"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Stock         int             `json:"stock"`
	Status        product.Status  `json:"status"`
	Price         types.Amount    `json:"price"`
	Cost          types.Amount    `json:"cost"`
	Margin        types.Amount    `json:"margin"`
	MarginPercent decimal.Decimal `json:"marginPercent"`

	// EstimatedUnitsSold is max(0, 100 - stock). It is a placeholder, not a
	// count of anything; UnitsSoldEstimated is always true to say so.
	EstimatedUnitsSold int  `json:"estimatedUnitsSold"`
	UnitsSoldEstimated bool `json:"unitsSoldEstimated"`

	// InvoicedUnits sums sales invoice lines that reference the product.
	InvoicedUnits decimal.Decimal `json:"invoicedUnits"`
}

// --- Stock movements ---

// Direction of a stock movement.
type Direction string

const (
	DirectionIn  Direction = "In"
	DirectionOut Direction = "Out"
)

// StockMovement is one document line seen as goods moving in or out.
type StockMovement struct {
	Date           time.Time       `json:"date"`
	DocumentID     id.ID           `json:"documentId"`
	DocumentNumber string          `json:"documentNumber"`
	DocumentType   documents.Type  `json:"documentType"`
	Counterparty   string          `json:"counterparty"`
	ProductID      *id.ID          `json:"productId,omitempty"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	Direction      Direction       `json:"direction"`

	// Balance is always nil: no running per-product balance is kept.
	Balance *decimal.Decimal `json:"balance"`
}

// --- Dashboard ---

// ClientSpend is a client and its accumulated spend.
type ClientSpend struct {
	ClientID id.ID        `json:"clientId"`
	Name     string       `json:"name"`
	Total    types.Amount `json:"total"`
}

// StockAlert is a product that is low or out of stock.
type StockAlert struct {
	ProductID id.ID          `json:"productId"`
	SKU       string         `json:"sku"`
	Name      string         `json:"name"`
	Stock     int            `json:"stock"`
	Status    product.Status `json:"status"`
}

// InvoiceSummary is a short view of an invoice.
type InvoiceSummary struct {
	DocumentID   id.ID            `json:"documentId"`
	Number       string           `json:"number"`
	Counterparty string           `json:"counterparty"`
	Date         time.Time        `json:"date"`
	Amount       types.Amount     `json:"amount"`
	Status       documents.Status `json:"status"`
}

// Dashboard is the fixed set of headline figures.
type Dashboard struct {
	Revenue         types.Amount     `json:"revenue"`
	Expenses        types.Amount     `json:"expenses"`
	Profit          types.Amount     `json:"profit"`
	PendingInvoices int              `json:"pendingInvoices"`
	TopClients      []ClientSpend    `json:"topClients"`
	StockAlerts     []StockAlert     `json:"stockAlerts"`
	RecentInvoices  []InvoiceSummary `json:"recentInvoices"`
}
