package counterparty_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/catalogs/counterparty"
	"bizdesk/internal/domain/view"
	"bizdesk/internal/infrastructure/numerator"
	"bizdesk/internal/infrastructure/storage/memory"
)

func newService(role counterparty.Role) *counterparty.Service {
	store := memory.New()
	return counterparty.NewService(role,
		memory.NewRepo[counterparty.Counterparty](store, string(role)), store, numerator.New())
}

func TestCreate_AssignsCodeAndZeroTotal(t *testing.T) {
	ctx := context.Background()
	svc := newService(counterparty.RoleClient)

	c := counterparty.New(counterparty.RoleClient, "Acme GmbH", "Anna", "anna@acme.example")
	c.Total = types.MustMoney("999")
	require.NoError(t, svc.Create(ctx, c))

	assert.Equal(t, "CL-0001", c.Code)
	assert.True(t, c.Total.IsZero())
}

func TestCreate_Rejections(t *testing.T) {
	ctx := context.Background()
	svc := newService(counterparty.RoleClient)

	err := svc.Create(ctx, counterparty.New(counterparty.RoleSupplier, "Parts Ltd", "", ""))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = svc.Create(ctx, counterparty.New(counterparty.RoleClient, "Acme", "", "not-an-email"))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddTotal_OnlyGrows(t *testing.T) {
	ctx := context.Background()
	svc := newService(counterparty.RoleSupplier)

	s := counterparty.New(counterparty.RoleSupplier, "Parts Ltd", "Tom", "")
	require.NoError(t, svc.Create(ctx, s))

	require.NoError(t, svc.AddTotal(ctx, s.ID, types.MustMoney("325")))
	err := svc.AddTotal(ctx, s.ID, types.MustMoney("-10"))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	// plain edits cannot move the accumulator
	stored, err := svc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	stored.Total = types.Zero()
	stored.ContactName = "Tina"
	require.NoError(t, svc.Update(ctx, stored))

	stored, err = svc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tina", stored.ContactName)
	assert.True(t, stored.Total.Equal(types.MustMoney("325")))
}

func TestQuery_SearchesContactAndEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService(counterparty.RoleClient)

	require.NoError(t, svc.Create(ctx, counterparty.New(counterparty.RoleClient, "Acme GmbH", "Anna Berg", "anna@acme.example")))
	require.NoError(t, svc.Create(ctx, counterparty.New(counterparty.RoleClient, "Nordlicht AG", "Lars Holm", "lars@nordlicht.example")))

	res, err := svc.Query(ctx, view.NewQuery().WithSearch("HOLM"))
	require.NoError(t, err)
	require.Equal(t, 1, res.TotalCount)
	assert.Equal(t, "Nordlicht AG", res.PageItems[0].Name)

	res, err = svc.Query(ctx, view.NewQuery().WithSearch("acme.example"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalCount)
}
