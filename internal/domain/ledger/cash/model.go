// Package cash runs the cash register: at most one open session at a time,
// transactions scoped to the open session, and a counted close with variance.
package cash

import (
	"time"

	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

// SessionStatus of a register session.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "open"
	SessionClosed SessionStatus = "closed"
)

// Session is one register session. Closed sessions are immutable.
type Session struct {
	entity.BaseEntity

	Status          SessionStatus `json:"status"`
	OpeningBalance  types.Money   `json:"openingBalance"`
	ExpectedBalance types.Money   `json:"expectedBalance"`
	ClosingBalance  *types.Money  `json:"closingBalance,omitempty"`
	Variance        *types.Money  `json:"variance,omitempty"`
	StartTime       time.Time     `json:"startTime"`
	EndTime         *time.Time    `json:"endTime,omitempty"`
	OpenNote        string        `json:"openNote,omitempty"`
	CloseNote       string        `json:"closeNote,omitempty"`
}

// Detach implements entity.Detacher.
func (s *Session) Detach() {
	if s.ClosingBalance != nil {
		v := *s.ClosingBalance
		s.ClosingBalance = &v
	}
	if s.Variance != nil {
		v := *s.Variance
		s.Variance = &v
	}
	if s.EndTime != nil {
		v := *s.EndTime
		s.EndTime = &v
	}
}

// IsOpen reports whether the session accepts transactions.
func (s *Session) IsOpen() bool {
	return s.Status == SessionOpen
}

// TxType of a cash movement.
type TxType string

const (
	TxDeposit    TxType = "deposit"
	TxWithdrawal TxType = "withdrawal"
)

// IsValid reports whether t is a known type.
func (t TxType) IsValid() bool {
	return t == TxDeposit || t == TxWithdrawal
}

// Sign applies the direction of t to a positive magnitude.
func (t TxType) Sign(magnitude types.Money) types.Money {
	if t == TxWithdrawal {
		return magnitude.Neg()
	}
	return magnitude
}

// Transaction is one signed cash movement within a session.
type Transaction struct {
	entity.BaseEntity

	SessionID   id.ID       `json:"sessionId"`
	Date        time.Time   `json:"date"`
	Amount      types.Money `json:"amount"`
	Type        TxType      `json:"type"`
	Description string      `json:"description"`
}
