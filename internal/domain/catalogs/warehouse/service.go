package warehouse

import (
	"context"
	"fmt"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/numerator"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/view"
)

// Service provides business logic for the warehouse catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo Repository
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txm tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txm,
		Numerator:  gen,
		CodePrefix: "WH",
		EntityName: "warehouse",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles the default flag.
func (s *Service) prepareForCreate(ctx context.Context, wh *Warehouse) error {
	if wh.IsDefault {
		return s.clearDefault(ctx, wh)
	}
	return nil
}

// prepareForUpdate handles the default flag.
func (s *Service) prepareForUpdate(ctx context.Context, wh *Warehouse) error {
	wh.Touch()
	if wh.IsDefault {
		return s.clearDefault(ctx, wh)
	}
	return nil
}

// clearDefault drops the default flag from every warehouse except keep.
func (s *Service) clearDefault(ctx context.Context, keep *Warehouse) error {
	others, err := s.repo.Find(ctx, func(w *Warehouse) bool {
		return w.IsDefault && w.ID != keep.ID
	})
	if err != nil {
		return err
	}
	for _, w := range others {
		w.IsDefault = false
		w.Touch()
		if err := s.repo.Update(ctx, w); err != nil {
			return fmt.Errorf("clear default warehouse: %w", err)
		}
	}
	return nil
}

// Default returns the default warehouse.
func (s *Service) Default(ctx context.Context) (*Warehouse, error) {
	w, ok, err := s.repo.FindOne(ctx, func(w *Warehouse) bool { return w.IsDefault })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFound("default warehouse", "")
	}
	return w, nil
}

// Query returns a projection of the warehouse list.
func (s *Service) Query(ctx context.Context, q view.Query) (view.Result[*Warehouse], error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return view.Result[*Warehouse]{}, err
	}
	return view.Apply(items, ViewSchema(), q)
}
