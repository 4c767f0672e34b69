package dto

import (
	"bizdesk/internal/domain/ledger/cash"
)

// OpenSessionRequest opens the cash register.
type OpenSessionRequest struct {
	OpeningBalance string `json:"openingBalance" binding:"required"`
	Note           string `json:"note"`
}

// CloseSessionRequest closes the cash register with a counted balance.
type CloseSessionRequest struct {
	ClosingBalance string `json:"closingBalance" binding:"required"`
	Note           string `json:"note"`
}

// CashTransactionRequest records a deposit or withdrawal; amount is positive.
type CashTransactionRequest struct {
	Type        cash.TxType `json:"type" binding:"required"`
	Amount      string      `json:"amount" binding:"required"`
	Description string      `json:"description"`
}

// CurrentSessionResponse reports the open session, if any.
type CurrentSessionResponse struct {
	Open    bool          `json:"open"`
	Session *cash.Session `json:"session,omitempty"`
}
