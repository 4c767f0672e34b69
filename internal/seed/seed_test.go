package seed_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/app"
	"bizdesk/internal/config"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/documents"
	"bizdesk/internal/seed"
)

func newApp(t *testing.T) *app.App {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	a, err := app.New(cfg)
	require.NoError(t, err)
	return a
}

func TestDemo(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)

	res, err := seed.Demo(ctx, a)
	require.NoError(t, err)

	assert.Equal(t, documents.StatusCompleted, mustGet(t, a, res.Estimate).Status)
	assert.Equal(t, documents.StatusCompleted, mustGet(t, a, res.Order).Status)
	assert.Equal(t, documents.StatusPaid, res.Invoice.Status)

	chain, err := a.Documents.Chain(ctx, res.Invoice.ID)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, res.Estimate.ID, chain[0].ID)

	dash, err := a.Reports.Dashboard(ctx, 5)
	require.NoError(t, err)
	assert.True(t, dash.Revenue.Value.Equal(types.MustMoney("25")), dash.Revenue.Value.String())
	assert.True(t, dash.Expenses.Value.Equal(types.MustMoney("325")), dash.Expenses.Value.String())
	assert.True(t, dash.Profit.Value.Equal(types.MustMoney("-300")), dash.Profit.Value.String())
	assert.Equal(t, 1, dash.PendingInvoices)
	assert.Len(t, dash.StockAlerts, 2)
	require.NotEmpty(t, dash.TopClients)
	assert.Equal(t, "Acme GmbH", dash.TopClients[0].Name)

	accounts, err := a.Bank.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	for _, acc := range accounts {
		expected, ok, err := a.Bank.VerifyBalance(ctx, acc.ID)
		require.NoError(t, err)
		assert.True(t, ok, "account %s expected %s got %s", acc.Name, expected, acc.Balance)
	}

	session, open, err := a.Cash.CurrentSession(ctx)
	require.NoError(t, err)
	require.True(t, open)
	assert.True(t, session.ExpectedBalance.Equal(types.MustMoney("120")))
}

func TestDemo_SecondRunFails(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)

	_, err := seed.Demo(ctx, a)
	require.NoError(t, err)

	// product SKUs from the first run already exist
	_, err = seed.Demo(ctx, a)
	assert.Error(t, err)
}

func mustGet(t *testing.T, a *app.App, doc *documents.Document) *documents.Document {
	t.Helper()
	got, err := a.Documents.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	return got
}
