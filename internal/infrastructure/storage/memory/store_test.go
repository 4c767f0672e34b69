package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/audit"
)

type widget struct {
	entity.BaseEntity
	Name string
	Tags []string
}

func (w *widget) Detach() {
	w.Tags = append([]string(nil), w.Tags...)
}

func newWidget(name string, tags ...string) *widget {
	return &widget{BaseEntity: entity.NewBaseEntity(), Name: name, Tags: tags}
}

func TestRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := NewRepo[widget](store, "widget")

	a, b, c := newWidget("a"), newWidget("b"), newWidget("c")
	for _, w := range []*widget{a, b, c} {
		require.NoError(t, repo.Create(ctx, w))
	}

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)

	got.Name = "b2"
	require.NoError(t, repo.Update(ctx, got))

	require.NoError(t, repo.Delete(ctx, a.ID))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b2", list[0].Name)
	assert.Equal(t, "c", list[1].Name)

	_, err = repo.GetByID(ctx, a.ID)
	assert.True(t, apperror.IsNotFound(err))

	assert.True(t, apperror.IsCode(repo.Create(ctx, c), apperror.CodeConflict))
	assert.True(t, apperror.IsNotFound(repo.Delete(ctx, id.New())))
}

func TestRepo_CopiesDoNotAlias(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := NewRepo[widget](store, "widget")

	w := newWidget("w", "x")
	require.NoError(t, repo.Create(ctx, w))
	w.Tags[0] = "mutated"
	w.Name = "mutated"

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "w", got.Name)
	assert.Equal(t, []string{"x"}, got.Tags)

	got.Tags[0] = "again"
	again, _ := repo.GetByID(ctx, w.ID)
	assert.Equal(t, []string{"x"}, again.Tags)
}

func TestRunInTransaction_RollsBackEveryTouchedCollection(t *testing.T) {
	ctx := context.Background()
	store := New()
	widgets := NewRepo[widget](store, "widget")
	others := NewRepo[widget](store, "other")

	keep := newWidget("keep")
	require.NoError(t, widgets.Create(ctx, keep))

	boom := errors.New("boom")
	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, widgets.Create(ctx, newWidget("temp")))
		require.NoError(t, others.Create(ctx, newWidget("other")))
		require.NoError(t, widgets.Delete(ctx, keep.ID))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, _ := widgets.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	n, _ := others.Count(ctx, nil)
	assert.Zero(t, n)
}

func TestRunInTransaction_NestedReusesOuter(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := NewRepo[widget](store, "widget")

	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		assert.True(t, store.InTransaction(ctx))
		inner := store.RunInTransaction(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, newWidget("inner"))
		})
		require.NoError(t, inner)
		// reads inside the transaction must not block on the held lock
		list, _ := repo.List(ctx)
		assert.Len(t, list, 1)
		return errors.New("abort")
	})
	require.Error(t, err)

	n, _ := repo.Count(ctx, nil)
	assert.Zero(t, n)
}

func TestReadOnly_RejectsWrites(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := NewRepo[widget](store, "widget")

	err := store.ReadOnly(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, newWidget("nope"))
	})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestRunInTransaction_PanicRollsBack(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := NewRepo[widget](store, "widget")

	assert.Panics(t, func() {
		_ = store.RunInTransaction(ctx, func(ctx context.Context) error {
			_ = repo.Create(ctx, newWidget("x"))
			panic("kaboom")
		})
	})

	n, _ := repo.Count(ctx, nil)
	assert.Zero(t, n)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := NewRepo[widget](store, "widget")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Create(ctx, newWidget("w"))
			_, _ = repo.List(ctx)
		}()
	}
	wg.Wait()

	n, _ := repo.Count(ctx, nil)
	assert.Equal(t, 50, n)
}

func TestAuditLog_CompressesLargeChangesAndRollsBack(t *testing.T) {
	ctx := context.Background()
	store := New()
	log, err := NewAuditLog(store, 64)
	require.NoError(t, err)

	entityID := id.New()
	require.NoError(t, audit.Change(ctx, log, "document", entityID, audit.ActionCreate,
		map[string]any{"number": "INV-2026-00001"}))
	require.NoError(t, audit.Change(ctx, log, "document", entityID, audit.ActionUpdate,
		map[string]any{"notes": strings.Repeat("long text ", 50)}))

	_ = store.RunInTransaction(ctx, func(ctx context.Context) error {
		_ = audit.Change(ctx, log, "document", entityID, audit.ActionDelete, nil)
		return errors.New("rejected")
	})

	assert.Equal(t, 1, log.CompressedCount(ctx))

	history, err := log.History(ctx, entityID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, audit.ActionUpdate, history[0].Action)
	assert.Contains(t, string(history[0].Changes), "long text")
	assert.Equal(t, audit.ActionCreate, history[1].Action)
}
