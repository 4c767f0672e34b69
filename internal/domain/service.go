// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"fmt"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/numerator"
	"bizdesk/internal/core/tx"
	"bizdesk/pkg/logger"
)

// coded is implemented by catalogs carrying a generated code.
type coded interface {
	GetCode() string
	SetCode(code string)
}

// CatalogService provides the create/get/update/delete flow for catalog entities.
// Before-hooks run inside the transaction, so checks they make against other
// collections hold for the whole operation.
type CatalogService[T interface {
	entity.Validatable
	entity.Identifiable
}] struct {
	repo      Repository[T]
	txManager tx.Manager
	numerator numerator.Generator
	codes     numerator.Config
	hooks     *HookRegistry[T]

	// entityName for error messages and log lines
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T interface {
	entity.Validatable
	entity.Identifiable
}] struct {
	Repo       Repository[T]
	TxManager  tx.Manager
	Numerator  numerator.Generator // Optional; codes are left as given when nil
	CodePrefix string
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T interface {
	entity.Validatable
	entity.Identifiable
}](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		numerator:  cfg.Numerator,
		codes:      numerator.CatalogConfig(cfg.CodePrefix),
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// Repo exposes the underlying repository to the owning service.
func (s *CatalogService[T]) Repo() Repository[T] {
	return s.repo
}

// TxManager exposes the transaction manager to the owning service.
func (s *CatalogService[T]) TxManager() tx.Manager {
	return s.txManager
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, key any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, key)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", key)
}

func (s *CatalogService[T]) assignCode(ctx context.Context, e T) error {
	c, ok := any(e).(coded)
	if !ok || s.numerator == nil || c.GetCode() != "" {
		return nil
	}
	code, err := s.numerator.GetNextNumber(ctx, s.codes, time.Now())
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("generate %s code: %w", s.entityName, err))
	}
	c.SetCode(code)
	return nil
}

// Create validates and stores a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, e); err != nil {
			return err
		}
		if err := s.assignCode(ctx, e); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, e); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		logger.Debug(ctx, "create rejected", "entity", s.entityName, "error", err)
		return err
	}

	if err := s.hooks.Run(ctx, AfterCreate, e); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}
	logger.Info(ctx, s.entityName+" created", "id", e.GetID())
	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return e, s.normalizeGetErr(err, entityID.String())
	}
	return e, nil
}

// Update validates and replaces an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeUpdate, e); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, e); err != nil {
			if apperror.IsNotFound(err) {
				return s.normalizeGetErr(err, e.GetID().String())
			}
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterUpdate, e); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// Delete removes an entity. Before-delete hooks may veto it, typically when
// other records still reference the entity.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	var e T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		e, err = s.repo.GetByID(ctx, entityID)
		if err != nil {
			return s.normalizeGetErr(err, entityID.String())
		}
		if err := s.hooks.Run(ctx, BeforeDelete, e); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, entityID); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		logger.Debug(ctx, "delete rejected", "entity", s.entityName, "id", entityID, "error", err)
		return err
	}

	if err := s.hooks.Run(ctx, AfterDelete, e); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "error", err)
	}
	logger.Info(ctx, s.entityName+" deleted", "id", entityID)
	return nil
}

// List returns all entities in insertion order.
func (s *CatalogService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

// Exists checks if entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}
