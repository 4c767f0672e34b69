package reports

import (
	"context"

	"bizdesk/internal/domain/catalogs/counterparty"
	"bizdesk/internal/domain/catalogs/product"
	"bizdesk/internal/domain/documents"
)

// Repository is the read side the aggregator works from.
// Every call returns a fresh copy of the current collection.
type Repository interface {
	ListDocuments(ctx context.Context) ([]*documents.Document, error)
	ListClients(ctx context.Context) ([]*counterparty.Counterparty, error)
	ListProducts(ctx context.Context) ([]*product.Product, error)
}
