// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"bizdesk/internal/core/id"
)

// --- Repository Interfaces ---

// Repository defines storage operations shared by every entity collection.
// P is the pointer type handed to and returned from the store; returned values
// are copies owned by the caller.
type Repository[P any] interface {
	// Create inserts a new entity
	Create(ctx context.Context, entity P) error

	// GetByID retrieves entity by ID (NOT_FOUND AppError when missing)
	GetByID(ctx context.Context, id id.ID) (P, error)

	// Update replaces an existing entity
	Update(ctx context.Context, entity P) error

	// Delete removes the entity
	Delete(ctx context.Context, id id.ID) error

	// List returns all entities in insertion order
	List(ctx context.Context) ([]P, error)

	// Find returns entities matching pred, in insertion order
	Find(ctx context.Context, pred func(P) bool) ([]P, error)

	// FindOne returns the first entity matching pred
	FindOne(ctx context.Context, pred func(P) bool) (P, bool, error)

	// Count returns the number of entities matching pred
	Count(ctx context.Context, pred func(P) bool) (int, error)

	// Exists checks if entity with given ID exists
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnAfterCreate registers a hook to run after create.
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T]) {
	r.On(AfterCreate, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnAfterUpdate registers a hook to run after update.
func (r *HookRegistry[T]) OnAfterUpdate(hook Hook[T]) {
	r.On(AfterUpdate, hook)
}

// OnBeforeDelete registers a hook to run before delete.
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) {
	r.On(BeforeDelete, hook)
}

// OnAfterDelete registers a hook to run after delete.
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T]) {
	r.On(AfterDelete, hook)
}
