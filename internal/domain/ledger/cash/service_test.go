package cash_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/ledger/cash"
	"bizdesk/internal/infrastructure/storage/memory"
)

func newService(t *testing.T) *cash.Service {
	t.Helper()
	store := memory.New()
	auditLog, err := memory.NewAuditLog(store, 0)
	require.NoError(t, err)
	return cash.NewService(
		memory.NewRepo[cash.Session](store, "cash session"),
		memory.NewRepo[cash.Transaction](store, "cash transaction"),
		store, auditLog)
}

func money(s string) types.Money { return types.MustMoney(s) }

func TestSessionScenario(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sess, err := svc.OpenSession(ctx, money("100"), "morning")
	require.NoError(t, err)

	_, err = svc.AddTransaction(ctx, cash.TxDeposit, money("50"), "sale")
	require.NoError(t, err)
	w, err := svc.AddTransaction(ctx, cash.TxWithdrawal, money("30"), "supplies")
	require.NoError(t, err)
	assert.True(t, w.Amount.Equal(money("-30")))

	current, ok, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, current.ExpectedBalance.Equal(money("120")), "expected %s", current.ExpectedBalance)

	closed, err := svc.CloseSession(ctx, money("115"), "short")
	require.NoError(t, err)
	assert.Equal(t, cash.SessionClosed, closed.Status)
	require.NotNil(t, closed.Variance)
	assert.True(t, closed.Variance.Equal(money("-5")), "variance %s", closed.Variance)
	require.NotNil(t, closed.EndTime)

	_, ok, err = svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	txs, err := svc.ListTransactions(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestOpenSession_AlreadyOpen(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.OpenSession(ctx, money("10"), "")
	require.NoError(t, err)

	_, err = svc.OpenSession(ctx, money("20"), "")
	assert.True(t, apperror.IsCode(err, apperror.CodeSessionAlreadyOpen), "got %v", err)

	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestNoOpenSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, cash.TxDeposit, money("1"), "")
	assert.True(t, apperror.IsCode(err, apperror.CodeNoOpenSession))

	_, err = svc.CloseSession(ctx, money("0"), "")
	assert.True(t, apperror.IsCode(err, apperror.CodeNoOpenSession))

	txs, err := svc.ListTransactions(ctx, id.Nil())
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestAddTransaction_RejectsNonPositive(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.OpenSession(ctx, money("10"), "")
	require.NoError(t, err)

	for _, amt := range []string{"0", "-5"} {
		_, err := svc.AddTransaction(ctx, cash.TxDeposit, money(amt), "")
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation), amt)
	}
	_, err = svc.AddTransaction(ctx, cash.TxType("refund"), money("1"), "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestAtMostOneOpenSession_Concurrent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.OpenSession(ctx, money("1"), "")
		}()
	}
	wg.Wait()

	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	open := 0
	for _, s := range sessions {
		if s.IsOpen() {
			open++
		}
	}
	assert.Equal(t, 1, open)
}
