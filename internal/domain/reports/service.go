package reports

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/catalogs/counterparty"
	"bizdesk/internal/domain/catalogs/product"
	"bizdesk/internal/domain/documents"
)

const (
	// unitsSoldCeiling drives the placeholder units-sold estimate.
	unitsSoldCeiling = 100

	// RecentInvoiceCount is how many invoices the dashboard lists.
	RecentInvoiceCount = 5
)

// Config holds report settings. A zero VATRate is a valid rate.
type Config struct {
	VATRate  decimal.Decimal
	Currency string
}

// Service provides report generation operations.
// Every report reads its collections inside one read-only transaction.
type Service struct {
	repo     Repository
	txm      tx.ReadOnlyManager
	vatRate  decimal.Decimal
	currency string
}

// NewService creates a new reports service.
func NewService(repo Repository, txm tx.ReadOnlyManager, cfg Config) *Service {
	if cfg.Currency == "" {
		cfg.Currency = types.DefaultCurrency
	}
	return &Service{repo: repo, txm: txm, vatRate: cfg.VATRate, currency: cfg.Currency}
}

// consistent runs build against one snapshot of the store.
func consistent[R any](ctx context.Context, s *Service, build func(ctx context.Context) (R, error)) (R, error) {
	var out R
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = build(ctx)
		return err
	})
	return out, err
}

// Currency returns the code every amount is reported in.
func (s *Service) Currency() string {
	return s.currency
}

func (s *Service) amount(v types.Money) types.Amount {
	return types.NewAmount(v, s.currency)
}

func (s *Service) invoices(ctx context.Context) ([]*documents.Document, error) {
	docs, err := s.repo.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := docs[:0]
	for _, d := range docs {
		if d.IsInvoice() {
			out = append(out, d)
		}
	}
	return out, nil
}

// SalesByCustomer groups sales invoices by client, largest total first.
// Ties keep the order in which clients first appear.
func (s *Service) SalesByCustomer(ctx context.Context) ([]CustomerSales, error) {
	return consistent(ctx, s, s.salesByCustomer)
}

func (s *Service) salesByCustomer(ctx context.Context) ([]CustomerSales, error) {
	invoices, err := s.invoices(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[id.ID]int)
	var rows []CustomerSales
	for _, inv := range invoices {
		if inv.Kind != documents.KindSales {
			continue
		}
		i, ok := index[inv.CounterpartyID]
		if !ok {
			i = len(rows)
			index[inv.CounterpartyID] = i
			rows = append(rows, CustomerSales{
				ClientID:   inv.CounterpartyID,
				ClientName: inv.CounterpartyName,
				Total:      s.amount(types.Zero()),
			})
		}
		rows[i].InvoiceCount++
		rows[i].Total.Value = rows[i].Total.Value.Add(inv.Amount)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Total.Value.GreaterThan(rows[b].Total.Value)
	})
	return rows, nil
}

// VAT splits every invoice into net, tax and gross at the configured rate.
// Sales invoices make up output tax, purchase invoices input tax.
func (s *Service) VAT(ctx context.Context) (*VATReport, error) {
	return consistent(ctx, s, s.vat)
}

func (s *Service) vat(ctx context.Context) (*VATReport, error) {
	invoices, err := s.invoices(ctx)
	if err != nil {
		return nil, err
	}

	out, in := types.Zero(), types.Zero()
	lines := make([]VATLine, 0, len(invoices))
	for _, inv := range invoices {
		tax := inv.Amount.Mul(s.vatRate).Round(2)
		lines = append(lines, VATLine{
			DocumentID: inv.ID,
			Number:     inv.Number,
			Kind:       inv.Kind,
			Date:       inv.Date,
			Net:        s.amount(inv.Amount),
			Tax:        s.amount(tax),
			Gross:      s.amount(inv.Amount.Add(tax)),
		})
		if inv.Kind == documents.KindSales {
			out = out.Add(tax)
		} else {
			in = in.Add(tax)
		}
	}

	return &VATReport{
		Rate:      s.vatRate,
		Lines:     lines,
		OutputTax: s.amount(out),
		InputTax:  s.amount(in),
		Payable:   s.amount(out.Sub(in)),
	}, nil
}

// EstimatedUnitsSold is the placeholder units-sold figure: max(0, 100 - stock).
func EstimatedUnitsSold(stock int) int {
	if stock >= unitsSoldCeiling {
		return 0
	}
	return unitsSoldCeiling - stock
}

// ProductPerformance reports margins and sales figures per product.
func (s *Service) ProductPerformance(ctx context.Context) ([]ProductPerformance, error) {
	return consistent(ctx, s, s.productPerformance)
}

func (s *Service) productPerformance(ctx context.Context) ([]ProductPerformance, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	invoices, err := s.invoices(ctx)
	if err != nil {
		return nil, err
	}

	invoiced := make(map[id.ID]decimal.Decimal)
	for _, inv := range invoices {
		if inv.Kind != documents.KindSales {
			continue
		}
		for _, l := range inv.Lines {
			if l.ProductID == nil {
				continue
			}
			invoiced[*l.ProductID] = invoiced[*l.ProductID].Add(l.Quantity.Decimal())
		}
	}

	rows := make([]ProductPerformance, 0, len(products))
	for _, p := range products {
		rows = append(rows, ProductPerformance{
			ProductID:          p.ID,
			SKU:                p.SKU,
			Name:               p.Name,
			Category:           p.Category,
			Stock:              p.Stock,
			Status:             p.Status,
			Price:              s.amount(p.Price),
			Cost:               s.amount(p.Cost),
			Margin:             s.amount(p.Margin()),
			MarginPercent:      p.MarginPercent(),
			EstimatedUnitsSold: EstimatedUnitsSold(p.Stock),
			UnitsSoldEstimated: true,
			InvoicedUnits:      invoiced[p.ID],
		})
	}
	return rows, nil
}

// StockMovements lists every document line as a movement, newest first.
// Sales lines go out, purchase lines come in.
func (s *Service) StockMovements(ctx context.Context) ([]StockMovement, error) {
	return consistent(ctx, s, s.stockMovements)
}

func (s *Service) stockMovements(ctx context.Context) ([]StockMovement, error) {
	docs, err := s.repo.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var rows []StockMovement
	for _, d := range docs {
		dir := DirectionOut
		if d.Kind == documents.KindPurchase {
			dir = DirectionIn
		}
		for _, l := range d.Lines {
			rows = append(rows, StockMovement{
				Date:           d.Date,
				DocumentID:     d.ID,
				DocumentNumber: d.Number,
				DocumentType:   d.Type,
				Counterparty:   d.CounterpartyName,
				ProductID:      l.ProductID,
				Description:    l.Description,
				Quantity:       l.Quantity.Decimal(),
				Direction:      dir,
			})
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Date.After(rows[b].Date)
	})
	return rows, nil
}

// Dashboard computes the headline figures. topN limits the client list.
func (s *Service) Dashboard(ctx context.Context, topN int) (*Dashboard, error) {
	return consistent(ctx, s, func(ctx context.Context) (*Dashboard, error) {
		return s.dashboard(ctx, topN)
	})
}

func (s *Service) dashboard(ctx context.Context, topN int) (*Dashboard, error) {
	invoices, err := s.invoices(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	revenue, expenses := types.Zero(), types.Zero()
	pending := 0
	var sales []*documents.Document
	for _, inv := range invoices {
		switch inv.Kind {
		case documents.KindSales:
			sales = append(sales, inv)
			if inv.Status.Settled() {
				revenue = revenue.Add(inv.Amount)
			}
			if inv.Status == documents.StatusPending || inv.Status == documents.StatusOverdue {
				pending++
			}
		case documents.KindPurchase:
			if inv.Status.Settled() {
				expenses = expenses.Add(inv.Amount)
			}
		}
	}

	d := &Dashboard{
		Revenue:         s.amount(revenue),
		Expenses:        s.amount(expenses),
		Profit:          s.amount(revenue.Sub(expenses)),
		PendingInvoices: pending,
		TopClients:      s.topClients(clients, topN),
		StockAlerts:     []StockAlert{},
		RecentInvoices:  []InvoiceSummary{},
	}

	for _, p := range products {
		if p.Status == product.StatusInStock {
			continue
		}
		d.StockAlerts = append(d.StockAlerts, StockAlert{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Stock:     p.Stock,
			Status:    p.Status,
		})
	}

	// newest first; later-created wins on equal dates
	sort.SliceStable(sales, func(a, b int) bool {
		if !sales[a].Date.Equal(sales[b].Date) {
			return sales[a].Date.After(sales[b].Date)
		}
		return sales[a].CreatedAt.After(sales[b].CreatedAt)
	})
	for i, inv := range sales {
		if i == RecentInvoiceCount {
			break
		}
		d.RecentInvoices = append(d.RecentInvoices, InvoiceSummary{
			DocumentID:   inv.ID,
			Number:       inv.Number,
			Counterparty: inv.CounterpartyName,
			Date:         inv.Date,
			Amount:       s.amount(inv.Amount),
			Status:       inv.Status,
		})
	}
	return d, nil
}

func (s *Service) topClients(clients []*counterparty.Counterparty, n int) []ClientSpend {
	sorted := append([]*counterparty.Counterparty(nil), clients...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Total.GreaterThan(sorted[b].Total)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]ClientSpend, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, ClientSpend{ClientID: c.ID, Name: c.Name, Total: s.amount(c.Total)})
	}
	return out
}
