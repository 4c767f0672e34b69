package counterparty

import (
	"context"
	"fmt"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/numerator"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/view"
	"bizdesk/pkg/logger"
)

// Service provides business logic for one counterparty collection.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Counterparty]
	role Role
	repo Repository
	txm  tx.Manager
}

// NewService creates a service bound to one role ("client" or "supplier").
func NewService(role Role, repo Repository, txm tx.Manager, gen numerator.Generator) *Service {
	prefix, name := "CL", "client"
	if role == RoleSupplier {
		prefix, name = "SUP", "supplier"
	}

	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Counterparty]{
		Repo:       repo,
		TxManager:  txm,
		Numerator:  gen,
		CodePrefix: prefix,
		EntityName: name,
	})

	svc := &Service{
		CatalogService: base,
		role:           role,
		repo:           repo,
		txm:            txm,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// Role returns the role this service manages.
func (s *Service) Role() Role {
	return s.role
}

// prepareForCreate pins the role and starts the accumulator at zero.
func (s *Service) prepareForCreate(ctx context.Context, c *Counterparty) error {
	if c.Role != s.role {
		return apperror.NewValidation(fmt.Sprintf("expected a %s record", s.role)).
			WithDetail("field", "role")
	}
	c.Total = types.Zero()
	return nil
}

// prepareForUpdate keeps fields that plain edits must not change.
func (s *Service) prepareForUpdate(ctx context.Context, c *Counterparty) error {
	stored, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	c.Role = stored.Role
	c.Code = stored.Code
	c.Total = stored.Total
	c.CreatedAt = stored.CreatedAt
	c.Touch()
	return nil
}

// AddTotal grows the accumulator by a positive amount.
func (s *Service) AddTotal(ctx context.Context, counterpartyID id.ID, amount types.Money) error {
	if !amount.IsPositive() {
		return apperror.NewValidation("accumulated amount must be positive").
			WithDetail("amount", amount.String())
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.GetByID(ctx, counterpartyID)
		if err != nil {
			return err
		}
		c.Total = c.Total.Add(amount)
		c.Touch()
		if err := s.repo.Update(ctx, c); err != nil {
			return fmt.Errorf("update %s total: %w", s.role, err)
		}
		logger.Debug(ctx, "counterparty total increased",
			"id", counterpartyID, "role", s.role, "amount", amount.String(), "total", c.Total.String())
		return nil
	})
}

// Query returns a projection of the collection.
func (s *Service) Query(ctx context.Context, q view.Query) (view.Result[*Counterparty], error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return view.Result[*Counterparty]{}, err
	}
	return view.Apply(items, ViewSchema(), q)
}
