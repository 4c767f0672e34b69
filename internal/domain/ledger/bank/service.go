package bank

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/audit"
	"bizdesk/internal/domain/view"
	"bizdesk/pkg/logger"
)

const (
	accountEntity     = "bank account"
	transactionEntity = "bank transaction"
)

// TransactionParams holds input for a new transaction. Amount is already signed.
type TransactionParams struct {
	AccountID   id.ID
	Amount      types.Money
	Type        TxType
	Description string
	Date        time.Time
	Status      TxStatus // pending when empty
}

// TransferParams holds input for an account-to-account transfer.
type TransferParams struct {
	FromAccountID id.ID
	ToAccountID   id.ID
	Amount        types.Money // positive
	Description   string
	Date          time.Time
}

// Service is the bank side of the ledger.
type Service struct {
	accounts     AccountRepository
	transactions TransactionRepository
	txm          tx.Manager
	audit        audit.Recorder
}

// NewService creates the bank ledger service.
func NewService(accounts AccountRepository, transactions TransactionRepository, txm tx.Manager, rec audit.Recorder) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		txm:          txm,
		audit:        rec,
	}
}

// AddAccount stores a new account with balance equal to its opening balance.
func (s *Service) AddAccount(ctx context.Context, a *Account) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}
	a.Balance = a.OpeningBalance

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.accounts.Create(ctx, a); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		return audit.Change(ctx, s.audit, accountEntity, a.ID, audit.ActionCreate, map[string]any{
			"name":           a.Name,
			"openingBalance": a.OpeningBalance.String(),
		})
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "bank account created", "id", a.ID, "name", a.Name, "currency", a.Currency)
	return nil
}

// UpdateAccount replaces account details. A changed opening balance shifts the
// balance by the same delta; the stored balance is otherwise kept.
func (s *Service) UpdateAccount(ctx context.Context, a *Account) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.GetAccount(ctx, a.ID)
		if err != nil {
			return err
		}
		if stored.Currency != a.Currency {
			n, err := s.transactions.Count(ctx, func(t *Transaction) bool { return t.AccountID == a.ID })
			if err != nil {
				return err
			}
			if n > 0 {
				return apperror.NewBusinessRule(apperror.CodeBusinessRule,
					"currency cannot change once transactions exist").
					WithDetail("field", "currency")
			}
		}
		delta := a.OpeningBalance.Sub(stored.OpeningBalance)
		a.Balance = stored.Balance.Add(delta)
		a.CreatedAt = stored.CreatedAt
		a.Touch()
		if err := s.accounts.Update(ctx, a); err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		return audit.Change(ctx, s.audit, accountEntity, a.ID, audit.ActionUpdate, map[string]any{
			"openingDelta": delta.String(),
		})
	})
}

// DeleteAccount removes an account that has no transactions.
func (s *Service) DeleteAccount(ctx context.Context, accountID id.ID) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetAccount(ctx, accountID); err != nil {
			return err
		}
		n, err := s.transactions.Count(ctx, func(t *Transaction) bool { return t.AccountID == accountID })
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.NewReferenced(accountEntity, accountID.String(), "bank transactions").
				WithDetail("count", n)
		}
		if err := s.accounts.Delete(ctx, accountID); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return audit.Change(ctx, s.audit, accountEntity, accountID, audit.ActionDelete, nil)
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "bank account deleted", "id", accountID)
	return nil
}

// GetAccount returns an account by ID.
func (s *Service) GetAccount(ctx context.Context, accountID id.ID) (*Account, error) {
	a, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(accountEntity, accountID.String())
		}
		return nil, err
	}
	return a, nil
}

// ListAccounts returns all accounts in creation order.
func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.accounts.List(ctx)
}

// AddTransaction appends a transaction and moves the account balance by its amount.
func (s *Service) AddTransaction(ctx context.Context, p TransactionParams) (*Transaction, error) {
	t, err := newTransaction(p)
	if err != nil {
		return nil, err
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.post(ctx, t)
	})
	if err != nil {
		logger.Debug(ctx, "bank transaction rejected", "account_id", p.AccountID, "error", err)
		return nil, err
	}

	logger.Info(ctx, "bank transaction added",
		"id", t.ID, "account_id", t.AccountID, "type", t.Type, "amount", t.Amount.String())
	return t, nil
}

func newTransaction(p TransactionParams) (*Transaction, error) {
	if !p.Type.IsValid() {
		return nil, apperror.NewValidation("invalid transaction type").
			WithDetail("field", "type").
			WithDetail("value", string(p.Type))
	}
	if p.Amount.IsZero() {
		return nil, apperror.NewValidation("amount must not be zero").
			WithDetail("field", "amount")
	}
	status := p.Status
	if status == "" {
		status = StatusPending
	}
	if status != StatusPending && status != StatusCleared {
		return nil, apperror.NewValidation("new transactions are pending or cleared").
			WithDetail("field", "status")
	}
	t := &Transaction{
		BaseEntity:  entity.NewBaseEntity(),
		AccountID:   p.AccountID,
		Date:        p.Date,
		Description: strings.TrimSpace(p.Description),
		Amount:      p.Amount,
		Type:        p.Type,
		Status:      status,
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	return t, nil
}

// post stores t and applies it to its account. Must run inside a transaction.
func (s *Service) post(ctx context.Context, t *Transaction) error {
	a, err := s.GetAccount(ctx, t.AccountID)
	if err != nil {
		return err
	}
	a.Balance = a.Balance.Add(t.Amount)
	a.Touch()
	if err := s.accounts.Update(ctx, a); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return audit.Change(ctx, s.audit, transactionEntity, t.ID, audit.ActionCreate, map[string]any{
		"accountId": t.AccountID,
		"amount":    t.Amount.String(),
	})
}

// DeleteTransaction removes a transaction and reverses its effect on the balance.
// Both legs of a transfer are removed together. Reconciled transactions stay.
func (s *Service) DeleteTransaction(ctx context.Context, txID id.ID) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.getTransaction(ctx, txID)
		if err != nil {
			return err
		}
		legs := []*Transaction{t}
		if t.TransferID != nil {
			legs, err = s.transactions.Find(ctx, func(o *Transaction) bool {
				return o.TransferID != nil && *o.TransferID == *t.TransferID
			})
			if err != nil {
				return err
			}
		}
		for _, leg := range legs {
			if leg.Status == StatusReconciled {
				return apperror.NewBusinessRule(apperror.CodeBusinessRule,
					"reconciled transactions cannot be deleted").
					WithDetail("id", leg.ID.String())
			}
		}
		for _, leg := range legs {
			if err := s.unpost(ctx, leg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "bank transaction deleted", "id", txID)
	return nil
}

func (s *Service) unpost(ctx context.Context, t *Transaction) error {
	a, err := s.GetAccount(ctx, t.AccountID)
	if err != nil {
		return err
	}
	a.Balance = a.Balance.Sub(t.Amount)
	a.Touch()
	if err := s.accounts.Update(ctx, a); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if err := s.transactions.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return audit.Change(ctx, s.audit, transactionEntity, t.ID, audit.ActionDelete, map[string]any{
		"accountId": t.AccountID,
		"amount":    t.Amount.String(),
	})
}

func (s *Service) getTransaction(ctx context.Context, txID id.ID) (*Transaction, error) {
	t, err := s.transactions.GetByID(ctx, txID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(transactionEntity, txID.String())
		}
		return nil, err
	}
	return t, nil
}

// Transfer moves money between two accounts of the same currency as two linked
// transactions posted atomically.
func (s *Service) Transfer(ctx context.Context, p TransferParams) (out, in *Transaction, err error) {
	if p.FromAccountID == p.ToAccountID {
		return nil, nil, apperror.NewValidation("source and destination account must differ").
			WithDetail("field", "toAccountId")
	}
	if !p.Amount.IsPositive() {
		return nil, nil, apperror.NewValidation("transfer amount must be positive").
			WithDetail("field", "amount")
	}

	link := id.New()
	out, err = newTransaction(TransactionParams{
		AccountID: p.FromAccountID, Amount: p.Amount.Neg(), Type: TxTransfer,
		Description: p.Description, Date: p.Date,
	})
	if err != nil {
		return nil, nil, err
	}
	in, err = newTransaction(TransactionParams{
		AccountID: p.ToAccountID, Amount: p.Amount, Type: TxTransfer,
		Description: p.Description, Date: out.Date,
	})
	if err != nil {
		return nil, nil, err
	}
	out.TransferID, in.TransferID = &link, &link

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		from, err := s.GetAccount(ctx, p.FromAccountID)
		if err != nil {
			return err
		}
		to, err := s.GetAccount(ctx, p.ToAccountID)
		if err != nil {
			return err
		}
		if from.Currency != to.Currency {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"transfers between currencies are not supported").
				WithDetail("from", from.Currency).
				WithDetail("to", to.Currency)
		}
		if err := s.post(ctx, out); err != nil {
			return err
		}
		return s.post(ctx, in)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "bank transfer posted",
		"transfer_id", link, "from", p.FromAccountID, "to", p.ToAccountID, "amount", p.Amount.String())
	return out, in, nil
}

// Clear marks pending transactions as cleared. The batch is rejected as a
// whole if any id is unknown or not pending.
func (s *Service) Clear(ctx context.Context, ids []id.ID) error {
	return s.transition(ctx, ids, StatusPending, StatusCleared, nil)
}

// Reconcile marks cleared transactions of one account as reconciled. The batch
// is rejected as a whole if any id is not a cleared transaction of that account.
// Balances are not affected.
func (s *Service) Reconcile(ctx context.Context, accountID id.ID, ids []id.ID) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetAccount(ctx, accountID); err != nil {
			return err
		}
		if err := s.transition(ctx, ids, StatusCleared, StatusReconciled, &accountID); err != nil {
			return err
		}
		return audit.Change(ctx, s.audit, accountEntity, accountID, audit.ActionReconcile, map[string]any{
			"count": len(ids),
		})
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "bank transactions reconciled", "account_id", accountID, "count", len(ids))
	return nil
}

func (s *Service) transition(ctx context.Context, ids []id.ID, from, to TxStatus, accountID *id.ID) error {
	if len(ids) == 0 {
		return apperror.NewValidation("no transactions selected").
			WithDetail("field", "ids")
	}
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, txID := range ids {
			t, err := s.getTransaction(ctx, txID)
			if err != nil {
				return err
			}
			if accountID != nil && t.AccountID != *accountID {
				return apperror.NewValidation("transaction belongs to another account").
					WithDetail("id", txID.String())
			}
			if t.Status != from {
				code := apperror.CodeBusinessRule
				if to == StatusReconciled {
					code = apperror.CodeNotCleared
				}
				return apperror.NewBusinessRule(code,
					fmt.Sprintf("transaction is %s, expected %s", t.Status, from)).
					WithDetail("id", txID.String())
			}
			t.Status = to
			t.Touch()
			if err := s.transactions.Update(ctx, t); err != nil {
				return fmt.Errorf("update transaction status: %w", err)
			}
		}
		return nil
	})
}

// ListTransactions returns the transactions of one account, or all when accountID is nil.
func (s *Service) ListTransactions(ctx context.Context, accountID id.ID) ([]*Transaction, error) {
	if id.IsNil(accountID) {
		return s.transactions.List(ctx)
	}
	return s.transactions.Find(ctx, func(t *Transaction) bool { return t.AccountID == accountID })
}

// Query returns a projection of the transaction list.
func (s *Service) Query(ctx context.Context, q view.Query) (view.Result[*Transaction], error) {
	items, err := s.transactions.List(ctx)
	if err != nil {
		return view.Result[*Transaction]{}, err
	}
	return view.Apply(items, TransactionViewSchema(), q)
}

// VerifyBalance recomputes opening balance plus the sum of transactions and
// reports whether it matches the stored balance.
func (s *Service) VerifyBalance(ctx context.Context, accountID id.ID) (types.Money, bool, error) {
	var (
		expected types.Money
		ok       bool
	)
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := s.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		txs, err := s.ListTransactions(ctx, accountID)
		if err != nil {
			return err
		}
		expected = a.OpeningBalance
		for _, t := range txs {
			expected = expected.Add(t.Amount)
		}
		ok = expected.Equal(a.Balance)
		return nil
	})
	return expected, ok, err
}
