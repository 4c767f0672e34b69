package cash

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

const sessionEntity = "cash session"

// Service is the cash register side of the ledger.
type Service struct {
	sessions     SessionRepository
	transactions TransactionRepository
	txm          tx.Manager
	audit        audit.Recorder
	now          func() time.Time
}

// NewService creates the cash register service.
func NewService(sessions SessionRepository, transactions TransactionRepository, txm tx.Manager, rec audit.Recorder) *Service {
	return &Service{
		sessions:     sessions,
		transactions: transactions,
		txm:          txm,
		audit:        rec,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) openSession(ctx context.Context) (*Session, bool, error) {
	return s.sessions.FindOne(ctx, func(sess *Session) bool { return sess.IsOpen() })
}

func noOpenSession() error {
	return apperror.NewBusinessRule(apperror.CodeNoOpenSession, "no cash session is open")
}

// OpenSession starts a new session. Fails while another session is open.
func (s *Service) OpenSession(ctx context.Context, openingBalance types.Money, note string) (*Session, error) {
	if openingBalance.IsNegative() {
		return nil, apperror.NewValidation("opening balance cannot be negative").
			WithDetail("field", "openingBalance")
	}

	sess := &Session{
		BaseEntity:      entity.NewBaseEntity(),
		Status:          SessionOpen,
		OpeningBalance:  openingBalance,
		ExpectedBalance: openingBalance,
		StartTime:       s.now(),
		OpenNote:        strings.TrimSpace(note),
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		current, ok, err := s.openSession(ctx)
		if err != nil {
			return err
		}
		if ok {
			return apperror.NewBusinessRule(apperror.CodeSessionAlreadyOpen, "a cash session is already open").
				WithDetail("sessionId", current.ID.String())
		}
		if err := s.sessions.Create(ctx, sess); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return audit.Change(ctx, s.audit, sessionEntity, sess.ID, audit.ActionOpen, map[string]any{
			"openingBalance": openingBalance.String(),
		})
	})
	if err != nil {
		logger.Debug(ctx, "cash session open rejected", "error", err)
		return nil, err
	}

	logger.Info(ctx, "cash session opened", "id", sess.ID, "opening_balance", openingBalance.String())
	return sess, nil
}

// AddTransaction records a deposit or withdrawal of a positive amount in the
// open session and moves its expected balance.
func (s *Service) AddTransaction(ctx context.Context, t TxType, amount types.Money, description string) (*Transaction, error) {
	if !t.IsValid() {
		return nil, apperror.NewValidation("invalid cash transaction type").
			WithDetail("field", "type").
			WithDetail("value", string(t))
	}
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}

	var rec *Transaction
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		sess, ok, err := s.openSession(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return noOpenSession()
		}
		rec = &Transaction{
			BaseEntity:  entity.NewBaseEntity(),
			SessionID:   sess.ID,
			Date:        s.now(),
			Amount:      t.Sign(amount),
			Type:        t,
			Description: strings.TrimSpace(description),
		}
		if err := s.transactions.Create(ctx, rec); err != nil {
			return fmt.Errorf("create cash transaction: %w", err)
		}
		sess.ExpectedBalance = sess.ExpectedBalance.Add(rec.Amount)
		sess.Touch()
		if err := s.sessions.Update(ctx, sess); err != nil {
			return fmt.Errorf("update expected balance: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Debug(ctx, "cash transaction rejected", "type", t, "error", err)
		return nil, err
	}

	logger.Info(ctx, "cash transaction added",
		"id", rec.ID, "session_id", rec.SessionID, "type", rec.Type, "amount", rec.Amount.String())
	return rec, nil
}

// CloseSession records the counted closing balance and closes the open
// session. Variance is closing minus expected and is reported, not corrected.
func (s *Service) CloseSession(ctx context.Context, closingBalance types.Money, note string) (*Session, error) {
	if closingBalance.IsNegative() {
		return nil, apperror.NewValidation("closing balance cannot be negative").
			WithDetail("field", "closingBalance")
	}

	var sess *Session
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var (
			ok  bool
			err error
		)
		sess, ok, err = s.openSession(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return noOpenSession()
		}
		end := s.now()
		variance := closingBalance.Sub(sess.ExpectedBalance)
		sess.Status = SessionClosed
		sess.ClosingBalance = &closingBalance
		sess.Variance = &variance
		sess.EndTime = &end
		sess.CloseNote = strings.TrimSpace(note)
		sess.Touch()
		if err := s.sessions.Update(ctx, sess); err != nil {
			return fmt.Errorf("close session: %w", err)
		}
		return audit.Change(ctx, s.audit, sessionEntity, sess.ID, audit.ActionClose, map[string]any{
			"expected": sess.ExpectedBalance.String(),
			"closing":  closingBalance.String(),
			"variance": variance.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cash session closed",
		"id", sess.ID, "expected", sess.ExpectedBalance.String(), "variance", sess.Variance.String())
	return sess, nil
}

// CurrentSession returns the open session, if any.
func (s *Service) CurrentSession(ctx context.Context) (*Session, bool, error) {
	return s.openSession(ctx)
}

// GetSession returns a session by ID.
func (s *Service) GetSession(ctx context.Context, sessionID id.ID) (*Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(sessionEntity, sessionID.String())
		}
		return nil, err
	}
	return sess, nil
}

// ListSessions returns every session, oldest first.
func (s *Service) ListSessions(ctx context.Context) ([]*Session, error) {
	return s.sessions.List(ctx)
}

// ListTransactions returns the transactions of one session, or all when sessionID is nil.
func (s *Service) ListTransactions(ctx context.Context, sessionID id.ID) ([]*Transaction, error) {
	if id.IsNil(sessionID) {
		return s.transactions.List(ctx)
	}
	return s.transactions.Find(ctx, func(t *Transaction) bool { return t.SessionID == sessionID })
}

// Query returns a projection of the cash transaction list.
func (s *Service) Query(ctx context.Context, q view.Query) (view.Result[*Transaction], error) {
	items, err := s.transactions.List(ctx)
	if err != nil {
		return view.Result[*Transaction]{}, err
	}
	return view.Apply(items, TransactionViewSchema(), q)
}
