package product

import (
	"context"
	"fmt"
	"strings"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/view"
	"bizdesk/pkg/logger"
)

// Service provides business logic for the product catalog.
// Every write path goes through the before-create/update hooks, which is
// where Status is re-derived from Stock.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
	txm  tx.Manager
}

// NewService creates a new product service.
func NewService(repo Repository, txm tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txm:            txm,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if err := s.ensureUniqueSKU(ctx, p); err != nil {
		return err
	}
	p.RefreshStatus()
	return nil
}

func (s *Service) prepareForUpdate(ctx context.Context, p *Product) error {
	if err := s.ensureUniqueSKU(ctx, p); err != nil {
		return err
	}
	p.Touch()
	p.RefreshStatus()
	return nil
}

func (s *Service) ensureUniqueSKU(ctx context.Context, p *Product) error {
	sku := strings.TrimSpace(p.SKU)
	_, taken, err := s.repo.FindOne(ctx, func(other *Product) bool {
		return other.ID != p.ID && strings.EqualFold(other.SKU, sku)
	})
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewDuplicate("product", "sku", sku)
	}
	p.SKU = sku
	return nil
}

// FindBySKU returns the product with the given SKU.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Product, error) {
	p, ok, err := s.repo.FindOne(ctx, func(p *Product) bool {
		return strings.EqualFold(p.SKU, sku)
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFound("product", sku)
	}
	return p, nil
}

// AdjustStock changes stock by delta and returns the updated product.
// Negative results are allowed; status follows stock either way.
func (s *Service) AdjustStock(ctx context.Context, productID id.ID, delta int) (*Product, error) {
	var updated *Product
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		p.Stock += delta
		if err := s.Update(ctx, p); err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "product stock adjusted",
		"id", productID, "delta", delta, "stock", updated.Stock, "status", updated.Status)
	return updated, nil
}

// LowStock returns products whose status is low or out of stock.
func (s *Service) LowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.Find(ctx, func(p *Product) bool {
		return p.Status != StatusInStock
	})
}

// Query returns a projection of the product list.
func (s *Service) Query(ctx context.Context, q view.Query) (view.Result[*Product], error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return view.Result[*Product]{}, err
	}
	return view.Apply(items, ViewSchema(), q)
}
