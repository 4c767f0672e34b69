// Package app is the application-state container: it owns the store and every
// service built on it. Nothing here is global; each App is independent.
package app

import (
	"context"
	"fmt"

	"bizdesk/internal/config"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/assistant"
	"bizdesk/internal/domain/catalogs/counterparty"
	"bizdesk/internal/domain/catalogs/product"
	"bizdesk/internal/domain/catalogs/warehouse"
	"bizdesk/internal/domain/documents"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/ledger/bank"
	"bizdesk/internal/domain/ledger/cash"
	"bizdesk/internal/domain/reports"
	"bizdesk/internal/infrastructure/ai/anthropic"
	"bizdesk/internal/infrastructure/ai/noop"
	"bizdesk/internal/infrastructure/ai/openai"
	"bizdesk/internal/infrastructure/numerator"
	"bizdesk/internal/infrastructure/storage/memory"
	"bizdesk/internal/metadata"
)

// App holds the store and the services.
type App struct {
	Config    *config.Config
	Store     *memory.Store
	Audit     *memory.AuditLog
	Formatter *types.Formatter
	Meta      *metadata.Registry

	Clients    *counterparty.Service
	Suppliers  *counterparty.Service
	Products   *product.Service
	Warehouses *warehouse.Service
	Inventory  *inventory.Service
	Documents  *documents.Service
	Bank       *bank.Service
	Cash       *cash.Service
	Reports    *reports.Service
	Assistant  *assistant.Service
}

// Option customizes New.
type Option func(*options)

type options struct {
	completer assistant.Completer
}

// WithCompleter replaces the completer chosen from configuration.
func WithCompleter(c assistant.Completer) Option {
	return func(o *options) { o.completer = c }
}

// New builds an empty application.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	formatter, err := types.NewFormatter(cfg.Money.Locale, cfg.Money.BaseCurrency)
	if err != nil {
		return nil, fmt.Errorf("money formatter: %w", err)
	}
	vat, err := cfg.VATRate()
	if err != nil {
		return nil, err
	}

	store := memory.New()
	auditLog, err := memory.NewAuditLog(store, cfg.Audit.CompressThreshold)
	if err != nil {
		return nil, fmt.Errorf("audit log: %w", err)
	}
	gen := numerator.New()

	a := &App{
		Config:    cfg,
		Store:     store,
		Audit:     auditLog,
		Formatter: formatter,
		Meta:      newRegistry(),
	}

	a.Clients = counterparty.NewService(counterparty.RoleClient,
		memory.NewRepo[counterparty.Counterparty](store, "client"), store, gen)
	a.Suppliers = counterparty.NewService(counterparty.RoleSupplier,
		memory.NewRepo[counterparty.Counterparty](store, "supplier"), store, gen)
	a.Products = product.NewService(memory.NewRepo[product.Product](store, "product"), store)
	a.Warehouses = warehouse.NewService(memory.NewRepo[warehouse.Warehouse](store, "warehouse"), store, gen)
	a.Inventory = inventory.NewService(
		memory.NewRepo[inventory.StockTransfer](store, "stock transfer"),
		memory.NewRepo[inventory.StockAdjustment](store, "stock adjustment"),
		a.Products, a.Warehouses, store)
	a.Documents = documents.NewService(
		memory.NewRepo[documents.Document](store, "document"),
		a.Clients, a.Suppliers, a.Products, gen, store, auditLog, formatter.Base())
	a.Bank = bank.NewService(
		memory.NewRepo[bank.Account](store, "bank account"),
		memory.NewRepo[bank.Transaction](store, "bank transaction"),
		store, auditLog)
	a.Cash = cash.NewService(
		memory.NewRepo[cash.Session](store, "cash session"),
		memory.NewRepo[cash.Transaction](store, "cash transaction"),
		store, auditLog)
	a.Reports = reports.NewService(&reportSource{app: a}, store, reports.Config{
		VATRate:  vat,
		Currency: formatter.Base(),
	})

	completer := o.completer
	if completer == nil {
		completer = newCompleter(cfg)
	}
	a.Assistant = assistant.NewService(completer, a.Reports, formatter, assistant.Config{
		Model:      cfg.Assistant.Model,
		TopClients: cfg.Reports.TopClients,
	})

	return a, nil
}

func newCompleter(cfg *config.Config) assistant.Completer {
	switch cfg.Assistant.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewClient(anthropic.Config{
			APIKey:  cfg.Assistant.APIKey,
			BaseURL: cfg.Assistant.BaseURL,
			Model:   cfg.Assistant.Model,
			Timeout: cfg.Assistant.Timeout,
		})
	case config.ProviderOpenAI:
		return openai.NewClient(openai.Config{
			APIKey:  cfg.Assistant.APIKey,
			BaseURL: cfg.Assistant.BaseURL,
			Model:   cfg.Assistant.Model,
			Timeout: cfg.Assistant.Timeout,
		})
	default:
		return noop.Completer{}
	}
}

// reportSource feeds the aggregator from the live services.
type reportSource struct {
	app *App
}

func (r *reportSource) ListDocuments(ctx context.Context) ([]*documents.Document, error) {
	return r.app.Documents.List(ctx, "")
}

func (r *reportSource) ListClients(ctx context.Context) ([]*counterparty.Counterparty, error) {
	return r.app.Clients.List(ctx)
}

func (r *reportSource) ListProducts(ctx context.Context) ([]*product.Product, error) {
	return r.app.Products.List(ctx)
}
