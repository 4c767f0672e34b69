package product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/catalogs/product"
	"bizdesk/internal/infrastructure/storage/memory"
)

func newService() *product.Service {
	store := memory.New()
	return product.NewService(memory.NewRepo[product.Product](store, "product"), store)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		stock int
		want  product.Status
	}{
		{-3, product.StatusOutOfStock},
		{0, product.StatusOutOfStock},
		{1, product.StatusLowStock},
		{10, product.StatusLowStock},
		{11, product.StatusInStock},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, product.StatusFor(tt.stock), "stock %d", tt.stock)
	}
}

func TestStatusFollowsStockOnEveryWrite(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	p := product.New("WID-1", "Widget", "Parts", 50, types.MustMoney("10"), types.MustMoney("6"))
	p.Status = product.StatusOutOfStock // ignored, derived on create
	require.NoError(t, svc.Create(ctx, p))
	assert.Equal(t, product.StatusInStock, p.Status)

	stored, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	stored.Stock = 4
	require.NoError(t, svc.Update(ctx, stored))

	stored, err = svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, product.StatusLowStock, stored.Status)

	adjusted, err := svc.AdjustStock(ctx, p.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 0, adjusted.Stock)
	assert.Equal(t, product.StatusOutOfStock, adjusted.Status)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 1)
}

func TestCreate_DuplicateSKU(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	require.NoError(t, svc.Create(ctx, product.New("WID-1", "Widget", "", 1, types.Zero(), types.Zero())))
	err := svc.Create(ctx, product.New("wid-1", "Other", "", 1, types.Zero(), types.Zero()))
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	found, err := svc.FindBySKU(ctx, "WID-1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", found.Name)
}

func TestCreate_RejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	err := svc.Create(ctx, product.New("", "Widget", "", 1, types.Zero(), types.Zero()))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = svc.Create(ctx, product.New("WID-1", "Widget", "", 1, types.MustMoney("-1"), types.Zero()))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestMargin(t *testing.T) {
	p := product.New("WID-1", "Widget", "", 1, types.MustMoney("10.00"), types.MustMoney("6.50"))
	assert.True(t, p.Margin().Equal(types.MustMoney("3.5")))
	assert.True(t, p.MarginPercent().Equal(types.MustMoney("35")))

	free := product.New("FREE", "Sample", "", 1, types.Zero(), types.MustMoney("1"))
	assert.True(t, free.MarginPercent().IsZero())
}
