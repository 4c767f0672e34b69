package bank_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/ledger/bank"
	"bizdesk/internal/infrastructure/storage/memory"
)

func newService(t *testing.T) *bank.Service {
	t.Helper()
	store := memory.New()
	auditLog, err := memory.NewAuditLog(store, 0)
	require.NoError(t, err)
	return bank.NewService(
		memory.NewRepo[bank.Account](store, "bank account"),
		memory.NewRepo[bank.Transaction](store, "bank transaction"),
		store, auditLog)
}

func addAccount(t *testing.T, svc *bank.Service, name, currency, opening string) *bank.Account {
	t.Helper()
	a := bank.NewAccount(name, "First Bank", "DE00 1234", currency, bank.AccountChecking, types.MustMoney(opening))
	require.NoError(t, svc.AddAccount(context.Background(), a))
	return a
}

func requireBalance(t *testing.T, svc *bank.Service, accountID id.ID, want string) {
	t.Helper()
	a, err := svc.GetAccount(context.Background(), accountID)
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(types.MustMoney(want)), "balance %s, want %s", a.Balance, want)

	expected, ok, err := svc.VerifyBalance(context.Background(), accountID)
	require.NoError(t, err)
	assert.True(t, ok, "stored %s, recomputed %s", a.Balance, expected)
}

func TestBalanceFollowsTransactions(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a := addAccount(t, svc, "Main", "EUR", "1000")

	dep, err := svc.AddTransaction(ctx, bank.TransactionParams{
		AccountID: a.ID, Amount: bank.SignedAmount(bank.TxDeposit, types.MustMoney("250")), Type: bank.TxDeposit,
	})
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, bank.TransactionParams{
		AccountID: a.ID, Amount: bank.SignedAmount(bank.TxPayment, types.MustMoney("100.50")), Type: bank.TxPayment,
	})
	require.NoError(t, err)
	requireBalance(t, svc, a.ID, "1149.50")

	require.NoError(t, svc.DeleteTransaction(ctx, dep.ID))
	requireBalance(t, svc, a.ID, "899.50")
}

func TestAddTransaction_Rejections(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a := addAccount(t, svc, "Main", "EUR", "0")

	_, err := svc.AddTransaction(ctx, bank.TransactionParams{AccountID: a.ID, Amount: types.Zero(), Type: bank.TxFee})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.AddTransaction(ctx, bank.TransactionParams{AccountID: id.New(), Amount: types.MustMoney("1"), Type: bank.TxDeposit})
	assert.True(t, apperror.IsNotFound(err))

	txs, err := svc.ListTransactions(ctx, id.Nil())
	require.NoError(t, err)
	assert.Empty(t, txs)
	requireBalance(t, svc, a.ID, "0")
}

func TestUpdateAccount_OpeningDeltaShiftsBalance(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a := addAccount(t, svc, "Main", "EUR", "100")
	_, err := svc.AddTransaction(ctx, bank.TransactionParams{AccountID: a.ID, Amount: types.MustMoney("20"), Type: bank.TxDeposit})
	require.NoError(t, err)

	a.OpeningBalance = types.MustMoney("150")
	a.Balance = types.MustMoney("999999")
	require.NoError(t, svc.UpdateAccount(ctx, a))
	requireBalance(t, svc, a.ID, "170")
}

func TestDeleteAccount_RejectedWithTransactions(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a := addAccount(t, svc, "Main", "EUR", "0")
	tr, err := svc.AddTransaction(ctx, bank.TransactionParams{AccountID: a.ID, Amount: types.MustMoney("5"), Type: bank.TxDeposit})
	require.NoError(t, err)

	err = svc.DeleteAccount(ctx, a.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeReferenced), "got %v", err)

	require.NoError(t, svc.DeleteTransaction(ctx, tr.ID))
	require.NoError(t, svc.DeleteAccount(ctx, a.ID))
}

func TestTransfer(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a := addAccount(t, svc, "Main", "EUR", "500")
	b := addAccount(t, svc, "Savings", "EUR", "0")
	usd := addAccount(t, svc, "US", "USD", "0")

	out, in, err := svc.Transfer(ctx, bank.TransferParams{FromAccountID: a.ID, ToAccountID: b.ID, Amount: types.MustMoney("200")})
	require.NoError(t, err)
	assert.Equal(t, *out.TransferID, *in.TransferID)
	requireBalance(t, svc, a.ID, "300")
	requireBalance(t, svc, b.ID, "200")

	_, _, err = svc.Transfer(ctx, bank.TransferParams{FromAccountID: a.ID, ToAccountID: usd.ID, Amount: types.MustMoney("1")})
	assert.True(t, apperror.IsCode(err, apperror.CodeBusinessRule), "got %v", err)
	requireBalance(t, svc, a.ID, "300")

	_, _, err = svc.Transfer(ctx, bank.TransferParams{FromAccountID: a.ID, ToAccountID: a.ID, Amount: types.MustMoney("1")})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	require.NoError(t, svc.DeleteTransaction(ctx, in.ID))
	requireBalance(t, svc, a.ID, "500")
	requireBalance(t, svc, b.ID, "0")
}

func TestReconcile_WholeBatchOrNothing(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a := addAccount(t, svc, "Main", "EUR", "0")

	var ids []id.ID
	for i := 0; i < 3; i++ {
		tr, err := svc.AddTransaction(ctx, bank.TransactionParams{AccountID: a.ID, Amount: types.MustMoney("10"), Type: bank.TxDeposit})
		require.NoError(t, err)
		ids = append(ids, tr.ID)
	}
	require.NoError(t, svc.Clear(ctx, ids[:2]))

	err := svc.Reconcile(ctx, a.ID, ids)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotCleared), "got %v", err)

	txs, err := svc.ListTransactions(ctx, a.ID)
	require.NoError(t, err)
	for _, tr := range txs {
		assert.NotEqual(t, bank.StatusReconciled, tr.Status)
	}

	require.NoError(t, svc.Reconcile(ctx, a.ID, ids[:2]))
	requireBalance(t, svc, a.ID, "30")

	err = svc.DeleteTransaction(ctx, ids[0])
	assert.True(t, apperror.IsCode(err, apperror.CodeBusinessRule))
}

func TestSignedAmount(t *testing.T) {
	ten := types.MustMoney("10")
	assert.True(t, bank.SignedAmount(bank.TxDeposit, ten.Neg()).Equal(ten))
	assert.True(t, bank.SignedAmount(bank.TxPayment, ten).Equal(ten.Neg()))
	assert.True(t, bank.SignedAmount(bank.TxFee, ten).Equal(ten.Neg()))
	assert.True(t, bank.SignedAmount(bank.TxTransfer, ten.Neg()).Equal(ten.Neg()))
}
