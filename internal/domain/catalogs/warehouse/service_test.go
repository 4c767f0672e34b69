package warehouse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/domain/catalogs/warehouse"
	"bizdesk/internal/infrastructure/numerator"
	"bizdesk/internal/infrastructure/storage/memory"
)

func TestDefaultWarehouseIsUnique(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := warehouse.NewService(memory.NewRepo[warehouse.Warehouse](store, "warehouse"), store, numerator.New())

	primary := warehouse.New("Main", "Berlin", true)
	require.NoError(t, svc.Create(ctx, primary))
	assert.Equal(t, "WH-0001", primary.Code)

	outlet := warehouse.New("Outlet", "Hamburg", true)
	require.NoError(t, svc.Create(ctx, outlet))

	def, err := svc.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, outlet.ID, def.ID)

	stored, err := svc.GetByID(ctx, primary.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDefault)

	stored.IsDefault = true
	require.NoError(t, svc.Update(ctx, stored))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	defaults := 0
	for _, w := range all {
		if w.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}
