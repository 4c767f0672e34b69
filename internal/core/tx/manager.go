// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces, not on the store that implements them.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
//
// The implementation lives in infrastructure/storage/memory.
type Manager interface {
	// RunInTransaction executes fn as one atomic unit.
	// If fn returns an error, every change made through ctx is rolled back.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
// Use for reads spanning several collections (reports, summaries).
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn against one consistent state.
	// Attempts to modify data will fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
