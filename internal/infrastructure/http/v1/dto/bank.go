package dto

import (
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/ledger/bank"
)

// AccountRequest is the request body for creating or updating a bank account.
type AccountRequest struct {
	Name           string           `json:"name" binding:"required"`
	BankName       string           `json:"bankName"`
	AccountNumber  string           `json:"accountNumber"`
	Currency       string           `json:"currency"`
	Type           bank.AccountType `json:"type" binding:"required"`
	OpeningBalance string           `json:"openingBalance"`
}

// ToEntity parses the opening balance and builds the account.
// An empty currency means the base currency.
func (r *AccountRequest) ToEntity(baseCurrency string) (*bank.Account, error) {
	opening, err := ParseOptionalMoney("openingBalance", r.OpeningBalance)
	if err != nil {
		return nil, err
	}
	currency := r.Currency
	if currency == "" {
		currency = baseCurrency
	}
	return bank.NewAccount(r.Name, r.BankName, r.AccountNumber, currency, r.Type, opening), nil
}

// ApplyTo applies the update onto a copy of a. An omitted opening balance
// keeps the stored one.
func (r *AccountRequest) ApplyTo(a *bank.Account) error {
	if r.OpeningBalance != "" {
		opening, err := ParseMoney("openingBalance", r.OpeningBalance)
		if err != nil {
			return err
		}
		a.OpeningBalance = opening
	}
	a.Name = r.Name
	a.BankName = r.BankName
	a.AccountNumber = r.AccountNumber
	if r.Currency != "" {
		a.Currency = r.Currency
	}
	a.Type = r.Type
	return nil
}

// TransactionRequest is the request body for a bank transaction.
// For payments, deposits and fees the amount is a magnitude and the sign
// follows the type.
type TransactionRequest struct {
	AccountID   string        `json:"accountId" binding:"required"`
	Amount      string        `json:"amount" binding:"required"`
	Type        bank.TxType   `json:"type" binding:"required"`
	Description string        `json:"description"`
	Date        *time.Time    `json:"date"`
	Status      bank.TxStatus `json:"status"`
}

// ToParams parses the request into service parameters.
func (r *TransactionRequest) ToParams() (bank.TransactionParams, error) {
	accountID, err := id.ParseField("accountId", r.AccountID)
	if err != nil {
		return bank.TransactionParams{}, err
	}
	amount, err := ParseMoney("amount", r.Amount)
	if err != nil {
		return bank.TransactionParams{}, err
	}
	p := bank.TransactionParams{
		AccountID:   accountID,
		Amount:      bank.SignedAmount(r.Type, amount),
		Type:        r.Type,
		Description: r.Description,
		Status:      r.Status,
	}
	if r.Date != nil {
		p.Date = *r.Date
	}
	return p, nil
}

// BankTransferRequest moves money between two accounts.
type BankTransferRequest struct {
	FromAccountID string     `json:"fromAccountId" binding:"required"`
	ToAccountID   string     `json:"toAccountId" binding:"required"`
	Amount        string     `json:"amount" binding:"required"`
	Description   string     `json:"description"`
	Date          *time.Time `json:"date"`
}

// ToParams parses the request into service parameters.
func (r *BankTransferRequest) ToParams() (bank.TransferParams, error) {
	from, err := id.ParseField("fromAccountId", r.FromAccountID)
	if err != nil {
		return bank.TransferParams{}, err
	}
	to, err := id.ParseField("toAccountId", r.ToAccountID)
	if err != nil {
		return bank.TransferParams{}, err
	}
	amount, err := ParseMoney("amount", r.Amount)
	if err != nil {
		return bank.TransferParams{}, err
	}
	p := bank.TransferParams{
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount,
		Description:   r.Description,
	}
	if r.Date != nil {
		p.Date = *r.Date
	}
	return p, nil
}

// TransferResponse holds both legs of a transfer.
type TransferResponse struct {
	Out *bank.Transaction `json:"out"`
	In  *bank.Transaction `json:"in"`
}

// ReconcileRequest reconciles cleared transactions of one account.
type ReconcileRequest struct {
	AccountID string   `json:"accountId" binding:"required"`
	IDs       []string `json:"ids" binding:"required,min=1"`
}

// BalanceCheckResponse compares the stored balance with the ledger.
type BalanceCheckResponse struct {
	AccountID  string `json:"accountId"`
	Balance    string `json:"balance"`
	Expected   string `json:"expected"`
	Consistent bool   `json:"consistent"`
}
