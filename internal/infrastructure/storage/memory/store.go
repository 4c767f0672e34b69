// Package memory provides the process-lifetime entity store.
//
// All collections share one RWMutex. Mutations run inside RunInTransaction,
// which holds the write lock and snapshots every collection it touches, so a
// failed operation leaves the store exactly as it was.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bizdesk/internal/core/tx"
	"bizdesk/pkg/logger"
)

var tracer = otel.Tracer("bizdesk/memory")

// Compile-time check that Store implements tx.ReadOnlyManager interface.
var _ tx.ReadOnlyManager = (*Store)(nil)

// ErrReadOnly is returned when a mutation is attempted inside ReadOnly.
var ErrReadOnly = errors.New("memory: write attempted in read-only transaction")

// table is a collection that can take part in a transaction.
type table interface {
	// snapshot captures current contents and returns a function restoring them.
	snapshot() func()
}

// Store is the single owner of every entity collection.
type Store struct {
	mu     sync.RWMutex
	tables []table
}

// New creates an empty store. Collections are attached with NewRepo.
func New() *Store {
	return &Store{}
}

func (s *Store) register(t table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = append(s.tables, t)
}

// txKey is the context key for the active transaction.
type txKey struct{}

// txState tracks one transaction over this store.
type txState struct {
	store    *Store
	readOnly bool
	touched  map[table]func()
	order    []table
}

func (s *Store) state(ctx context.Context) *txState {
	if st, ok := ctx.Value(txKey{}).(*txState); ok && st.store == s {
		return st
	}
	return nil
}

// InTransaction reports whether ctx already carries a transaction on this store.
func (s *Store) InTransaction(ctx context.Context) bool {
	return s.state(ctx) != nil
}

// RunInTransaction executes fn holding the write lock.
// If fn returns an error (or panics) every touched collection is restored.
// Nested calls reuse the existing transaction from context.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if st := s.state(ctx); st != nil {
		if st.readOnly {
			return ErrReadOnly
		}
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(attribute.Bool("tx.read_only", false)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	st := &txState{store: s, touched: make(map[table]func())}
	txCtx := context.WithValue(ctx, txKey{}, st)

	if err := s.execute(txCtx, st, fn); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("tx.tables_touched", len(st.order)))
	return nil
}

// ReadOnly executes fn holding the read lock so multi-collection reads see one state.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.state(ctx) != nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(attribute.Bool("tx.read_only", true)))
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(context.WithValue(ctx, txKey{}, &txState{store: s, readOnly: true}))
}

func (s *Store) execute(ctx context.Context, st *txState, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			st.rollback()
			logger.Error(ctx, "transaction panicked, rolled back", "panic", r)
			panic(r)
		}
	}()

	if err = fn(ctx); err != nil {
		st.rollback()
		logger.Debug(ctx, "transaction rolled back", "error", err, "tables", len(st.order))
		return err
	}
	return nil
}

// track snapshots t the first time it is written in this transaction.
func (st *txState) track(t table) {
	if _, ok := st.touched[t]; ok {
		return
	}
	st.touched[t] = t.snapshot()
	st.order = append(st.order, t)
}

func (st *txState) rollback() {
	for i := len(st.order) - 1; i >= 0; i-- {
		st.touched[st.order[i]]()
	}
}

// read runs fn under the read lock unless ctx already holds a transaction.
func (s *Store) read(ctx context.Context, fn func()) {
	if s.state(ctx) != nil {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// write runs fn inside a transaction, snapshotting t before it is modified.
func (s *Store) write(ctx context.Context, t table, fn func() error) error {
	return s.RunInTransaction(ctx, func(ctx context.Context) error {
		st := s.state(ctx)
		if st == nil {
			return fmt.Errorf("memory: missing transaction state")
		}
		st.track(t)
		return fn()
	})
}
