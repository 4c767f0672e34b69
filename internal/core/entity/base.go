package entity

import (
	"context"
	"time"

	"bizdesk/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants only, without looking at other records.
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Identifiable is implemented by every record kept in the entity store.
type Identifiable interface {
	GetID() id.ID
}

///////////////////
// Base Entity   //
///////////////////

// BaseEntity contains common fields for all records (catalogs, documents, ledger rows).
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `json:"id"`

	// Version is incremented on each update
	Version int `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBaseEntity creates a new BaseEntity with generated ID and timestamps.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the record identity.
func (b BaseEntity) GetID() id.ID {
	return b.ID
}

// Touch updates the UpdatedAt timestamp and increments version.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.Version++
}

// Detacher is implemented by records holding slices or maps, so copies
// handed in and out of the store never share backing arrays.
type Detacher interface {
	Detach()
}
