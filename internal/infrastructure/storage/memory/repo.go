package memory

import (
	"context"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/id"
)

// Record constrains the pointer type of a stored entity.
type Record[T any] interface {
	*T
	entity.Identifiable
}

// Repo is an insertion-ordered collection of T values.
// Values are copied in and out, so callers never alias stored state.
type Repo[T any, P Record[T]] struct {
	store *Store
	name  string
	items []T
	index map[id.ID]int
}

// NewRepo attaches a new collection to the store.
// name is used in not-found errors, e.g. "client".
func NewRepo[T any, P Record[T]](store *Store, name string) *Repo[T, P] {
	r := &Repo[T, P]{
		store: store,
		name:  name,
		index: make(map[id.ID]int),
	}
	store.register(r)
	return r
}

func (r *Repo[T, P]) snapshot() func() {
	items := make([]T, len(r.items))
	copy(items, r.items)
	index := make(map[id.ID]int, len(r.index))
	for k, v := range r.index {
		index[k] = v
	}
	return func() {
		r.items = items
		r.index = index
	}
}

func detached[T any, P Record[T]](v T) P {
	p := P(&v)
	if d, ok := any(p).(entity.Detacher); ok {
		d.Detach()
	}
	return p
}

// Create appends a new record.
func (r *Repo[T, P]) Create(ctx context.Context, e P) error {
	return r.store.write(ctx, r, func() error {
		key := e.GetID()
		if id.IsNil(key) {
			return apperror.NewValidation(r.name + " id is required")
		}
		if _, ok := r.index[key]; ok {
			return apperror.NewConflict(r.name + " already exists").WithDetail("id", key.String())
		}
		r.index[key] = len(r.items)
		r.items = append(r.items, *detached[T, P](*e))
		return nil
	})
}

// GetByID returns a copy of the record.
func (r *Repo[T, P]) GetByID(ctx context.Context, key id.ID) (P, error) {
	var (
		out P
		err error
	)
	r.store.read(ctx, func() {
		i, ok := r.index[key]
		if !ok {
			err = apperror.NewNotFound(r.name, key.String())
			return
		}
		out = detached[T, P](r.items[i])
	})
	return out, err
}

// Exists checks if a record with the given id is stored.
func (r *Repo[T, P]) Exists(ctx context.Context, key id.ID) (bool, error) {
	var ok bool
	r.store.read(ctx, func() {
		_, ok = r.index[key]
	})
	return ok, nil
}

// Update replaces a stored record keeping its position.
func (r *Repo[T, P]) Update(ctx context.Context, e P) error {
	return r.store.write(ctx, r, func() error {
		i, ok := r.index[e.GetID()]
		if !ok {
			return apperror.NewNotFound(r.name, e.GetID().String())
		}
		r.items[i] = *detached[T, P](*e)
		return nil
	})
}

// Delete removes a record, keeping the order of the rest.
func (r *Repo[T, P]) Delete(ctx context.Context, key id.ID) error {
	return r.store.write(ctx, r, func() error {
		i, ok := r.index[key]
		if !ok {
			return apperror.NewNotFound(r.name, key.String())
		}
		items := make([]T, 0, len(r.items)-1)
		items = append(items, r.items[:i]...)
		items = append(items, r.items[i+1:]...)
		r.items = items
		r.reindex()
		return nil
	})
}

func (r *Repo[T, P]) reindex() {
	r.index = make(map[id.ID]int, len(r.items))
	for i := range r.items {
		r.index[P(&r.items[i]).GetID()] = i
	}
}

// List returns copies of all records in insertion order.
func (r *Repo[T, P]) List(ctx context.Context) ([]P, error) {
	return r.Find(ctx, nil)
}

// Find returns copies of records matching pred (all when pred is nil).
func (r *Repo[T, P]) Find(ctx context.Context, pred func(P) bool) ([]P, error) {
	out := make([]P, 0)
	r.store.read(ctx, func() {
		for i := range r.items {
			p := detached[T, P](r.items[i])
			if pred == nil || pred(p) {
				out = append(out, p)
			}
		}
	})
	return out, nil
}

// FindOne returns the first record matching pred.
func (r *Repo[T, P]) FindOne(ctx context.Context, pred func(P) bool) (P, bool, error) {
	var (
		out   P
		found bool
	)
	r.store.read(ctx, func() {
		for i := range r.items {
			if pred(P(&r.items[i])) {
				out = detached[T, P](r.items[i])
				found = true
				return
			}
		}
	})
	return out, found, nil
}

// Count returns the number of records matching pred.
func (r *Repo[T, P]) Count(ctx context.Context, pred func(P) bool) (int, error) {
	n := 0
	r.store.read(ctx, func() {
		for i := range r.items {
			if pred == nil || pred(P(&r.items[i])) {
				n++
			}
		}
	})
	return n, nil
}
