// Package bank keeps bank accounts and their transactions.
// An account balance always equals its opening balance plus the sum of its
// transaction amounts.
package bank

import (
	"context"
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

// AccountType of a bank account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountInvestment:
		return true
	}
	return false
}

// Account is a bank account.
type Account struct {
	entity.BaseEntity
	entity.CurrencyAware

	Name           string      `json:"name"`
	BankName       string      `json:"bankName"`
	AccountNumber  string      `json:"accountNumber"`
	Type           AccountType `json:"type"`
	OpeningBalance types.Money `json:"openingBalance"`

	// Balance is maintained by the service; edits to it are ignored.
	Balance types.Money `json:"balance"`
}

// NewAccount creates an account whose balance starts at the opening balance.
func NewAccount(name, bankName, number, currency string, t AccountType, opening types.Money) *Account {
	return &Account{
		BaseEntity:     entity.NewBaseEntity(),
		CurrencyAware:  entity.CurrencyAware{Currency: currency},
		Name:           name,
		BankName:       bankName,
		AccountNumber:  number,
		Type:           t,
		OpeningBalance: opening,
		Balance:        opening,
	}
}

// Validate implements entity.Validatable.
func (a *Account) Validate(ctx context.Context) error {
	if strings.TrimSpace(a.Name) == "" {
		return apperror.NewValidation("account name is required").
			WithDetail("field", "name")
	}
	if !a.Type.IsValid() {
		return apperror.NewValidation("invalid account type").
			WithDetail("field", "type").
			WithDetail("value", string(a.Type))
	}
	return a.ValidateCurrency(ctx)
}

// TxType is the kind of a bank transaction.
type TxType string

const (
	TxPayment  TxType = "payment"
	TxDeposit  TxType = "deposit"
	TxTransfer TxType = "transfer"
	TxFee      TxType = "fee"
)

// IsValid reports whether t is a known transaction type.
func (t TxType) IsValid() bool {
	switch t {
	case TxPayment, TxDeposit, TxTransfer, TxFee:
		return true
	}
	return false
}

// TxStatus tracks clearing and reconciliation.
type TxStatus string

const (
	StatusPending    TxStatus = "pending"
	StatusCleared    TxStatus = "cleared"
	StatusReconciled TxStatus = "reconciled"
)

// Transaction is one signed movement on an account.
type Transaction struct {
	entity.BaseEntity

	AccountID   id.ID       `json:"accountId"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description"`
	Amount      types.Money `json:"amount"`
	Type        TxType      `json:"type"`
	Status      TxStatus    `json:"status"`

	// TransferID links the two legs of an account-to-account transfer.
	TransferID *id.ID `json:"transferId,omitempty"`
}

// Detach implements entity.Detacher.
func (t *Transaction) Detach() {
	if t.TransferID != nil {
		v := *t.TransferID
		t.TransferID = &v
	}
}

// SignedAmount turns a user-entered magnitude into a signed amount:
// deposits add, payments and fees subtract, transfers keep the given sign.
func SignedAmount(t TxType, magnitude types.Money) types.Money {
	switch t {
	case TxDeposit:
		return magnitude.Abs()
	case TxPayment, TxFee:
		return magnitude.Abs().Neg()
	default:
		return magnitude
	}
}
