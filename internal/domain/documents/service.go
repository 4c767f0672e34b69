package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/numerator"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/audit"
	"bizdesk/internal/domain/catalogs/counterparty"
	"bizdesk/internal/domain/catalogs/product"
	"bizdesk/internal/domain/view"
	"bizdesk/pkg/logger"
)

const entityName = "document"

// CreateParams holds input for a new document.
type CreateParams struct {
	Kind           Kind
	Type           Type
	CounterpartyID id.ID
	Lines          []Line
	Status         Status // draft or pending; pending when empty
	Date           time.Time
	DueDate        time.Time
	Comment        string
}

// Service is the document lifecycle manager.
type Service struct {
	repo      Repository
	clients   *counterparty.Service
	suppliers *counterparty.Service
	numerator numerator.Generator
	txm       tx.Manager
	audit     audit.Recorder
	currency  string
}

// NewService creates the document service and registers delete guards on
// counterparties and products referenced by documents.
func NewService(
	repo Repository,
	clients, suppliers *counterparty.Service,
	products *product.Service,
	gen numerator.Generator,
	txm tx.Manager,
	rec audit.Recorder,
	currency string,
) *Service {
	if currency == "" {
		currency = types.DefaultCurrency
	}
	svc := &Service{
		repo:      repo,
		clients:   clients,
		suppliers: suppliers,
		numerator: gen,
		txm:       txm,
		audit:     rec,
		currency:  currency,
	}

	clients.Hooks().OnBeforeDelete(svc.guardCounterparty)
	suppliers.Hooks().OnBeforeDelete(svc.guardCounterparty)
	if products != nil {
		products.Hooks().OnBeforeDelete(svc.guardProduct)
	}

	return svc
}

func (s *Service) parties(k Kind) *counterparty.Service {
	if k == KindPurchase {
		return s.suppliers
	}
	return s.clients
}

// Create validates and stores a new document. Counterparty totals are not touched.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Document, error) {
	status := p.Status
	if status == "" {
		status = StatusPending
	}
	if status != StatusDraft && status != StatusPending {
		return nil, apperror.NewValidation("new documents start as draft or pending").
			WithDetail("field", "status").
			WithDetail("value", string(status))
	}

	doc := &Document{
		Document:       entity.NewDocument(),
		CurrencyAware:  entity.CurrencyAware{Currency: s.currency},
		Kind:           p.Kind,
		Type:           p.Type,
		CounterpartyID: p.CounterpartyID,
		DueDate:        p.DueDate,
		Lines:          cloneLines(p.Lines),
		Status:         status,
	}
	if !p.Date.IsZero() {
		doc.Date = p.Date
	}
	doc.Comment = strings.TrimSpace(p.Comment)
	doc.RecalculateAmount()

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}
	if err := doc.ValidateDueDate(); err != nil {
		return nil, err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		party, err := s.parties(doc.Kind).GetByID(ctx, doc.CounterpartyID)
		if err != nil {
			return err
		}
		doc.CounterpartyName = party.Name

		if err := s.assignNumber(ctx, doc); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return audit.Change(ctx, s.audit, entityName, doc.ID, audit.ActionCreate, map[string]any{
			"number": doc.Number,
			"type":   doc.Type,
			"amount": doc.Amount.String(),
		})
	})
	if err != nil {
		logger.Debug(ctx, "document create rejected", "kind", p.Kind, "type", p.Type, "error", err)
		return nil, err
	}

	logger.Info(ctx, "document created",
		"id", doc.ID, "number", doc.Number, "kind", doc.Kind, "type", doc.Type, "amount", doc.Amount.String())
	return doc, nil
}

func (s *Service) assignNumber(ctx context.Context, doc *Document) error {
	if s.numerator == nil {
		return nil
	}
	number, err := s.numerator.GetNextNumber(ctx, NumberConfig(doc.Kind, doc.Type), doc.Date)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("generate document number: %w", err))
	}
	doc.AssignNumber(number)
	return nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, docID id.ID) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(entityName, docID.String())
		}
		return nil, err
	}
	return doc, nil
}

// List returns the documents of one kind in creation order; every kind when k is empty.
func (s *Service) List(ctx context.Context, k Kind) ([]*Document, error) {
	if k == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Find(ctx, func(d *Document) bool { return d.Kind == k })
}

// Query returns a projection of the documents of one kind.
func (s *Service) Query(ctx context.Context, k Kind, q view.Query) (view.Result[*Document], error) {
	items, err := s.List(ctx, k)
	if err != nil {
		return view.Result[*Document]{}, err
	}
	return view.Apply(items, ViewSchema(), q)
}

// successor returns the document converted from docID, if any.
func (s *Service) successor(ctx context.Context, docID id.ID) (*Document, bool, error) {
	return s.repo.FindOne(ctx, func(d *Document) bool {
		return d.LinkedDocumentID != nil && *d.LinkedDocumentID == docID
	})
}

// Convert creates the next document in the chain from sourceID and marks the
// source completed. Both writes happen in one transaction.
func (s *Service) Convert(ctx context.Context, sourceID id.ID, target Type) (*Document, error) {
	var next *Document
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		src, err := s.Get(ctx, sourceID)
		if err != nil {
			return err
		}
		if src.Status == StatusCompleted {
			return apperror.NewBusinessRule(apperror.CodeDocumentCompleted,
				"document is already completed").
				WithDetail("id", src.ID.String()).
				WithDetail("number", src.Number)
		}
		if !CanConvert(src.Kind, src.Type, target) {
			return apperror.NewBusinessRule(apperror.CodeInvalidConversion,
				fmt.Sprintf("cannot convert %s to %s", src.Type, target)).
				WithDetail("from", string(src.Type)).
				WithDetail("to", string(target))
		}
		if succ, ok, err := s.successor(ctx, src.ID); err != nil {
			return err
		} else if ok {
			return apperror.NewBusinessRule(apperror.CodeDocumentCompleted,
				"document was already converted").
				WithDetail("id", src.ID.String()).
				WithDetail("successor", succ.Number)
		}

		linked := src.ID
		next = &Document{
			Document:         entity.NewDocument(),
			CurrencyAware:    src.CurrencyAware,
			Kind:             src.Kind,
			Type:             target,
			CounterpartyID:   src.CounterpartyID,
			CounterpartyName: src.CounterpartyName,
			DueDate:          src.DueDate,
			Lines:            cloneLines(src.Lines),
			Status:           StatusPending,
			LinkedDocumentID: &linked,
		}
		next.Comment = src.Comment
		next.RecalculateAmount()
		if err := next.Validate(ctx); err != nil {
			return err
		}
		if err := s.assignNumber(ctx, next); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, next); err != nil {
			return fmt.Errorf("create converted document: %w", err)
		}

		src.Status = StatusCompleted
		src.Touch()
		if err := s.repo.Update(ctx, src); err != nil {
			return fmt.Errorf("complete source document: %w", err)
		}
		return audit.Change(ctx, s.audit, entityName, src.ID, audit.ActionConvert, map[string]any{
			"to":     next.Number,
			"toType": next.Type,
		})
	})
	if err != nil {
		logger.Debug(ctx, "document conversion rejected", "source", sourceID, "target", target, "error", err)
		return nil, err
	}

	logger.Info(ctx, "document converted",
		"source", sourceID, "id", next.ID, "number", next.Number, "type", next.Type)
	return next, nil
}

// UpdateLines replaces the line items of an open document and recomputes its amount.
func (s *Service) UpdateLines(ctx context.Context, docID id.ID, lines []Line) (*Document, error) {
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	var doc *Document
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.Get(ctx, docID)
		if err != nil {
			return err
		}
		if err := s.ensureOpen(ctx, doc); err != nil {
			return err
		}
		doc.Lines = cloneLines(lines)
		doc.RecalculateAmount()
		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document lines: %w", err)
		}
		return audit.Change(ctx, s.audit, entityName, doc.ID, audit.ActionUpdate, map[string]any{
			"lines":  len(doc.Lines),
			"amount": doc.Amount.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ensureOpen rejects edits of completed, settled or converted documents.
func (s *Service) ensureOpen(ctx context.Context, doc *Document) error {
	if doc.Status == StatusCompleted || doc.Status == StatusPaid {
		return apperror.NewBusinessRule(apperror.CodeDocumentCompleted,
			"document can no longer be modified").
			WithDetail("id", doc.ID.String()).
			WithDetail("status", string(doc.Status))
	}
	if _, ok, err := s.successor(ctx, doc.ID); err != nil {
		return err
	} else if ok {
		return apperror.NewBusinessRule(apperror.CodeDocumentCompleted,
			"document was already converted").
			WithDetail("id", doc.ID.String())
	}
	return nil
}

// SetStatus changes the status of a document. The first time an invoice
// becomes paid or completed its amount is added to the counterparty total.
func (s *Service) SetStatus(ctx context.Context, docID id.ID, status Status) (*Document, error) {
	if !status.IsValid() {
		return nil, apperror.NewValidation("invalid document status").
			WithDetail("field", "status").
			WithDetail("value", string(status))
	}

	var doc *Document
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.Get(ctx, docID)
		if err != nil {
			return err
		}
		if status == StatusOverdue && !doc.IsInvoice() {
			return apperror.NewValidation("only invoices can be overdue").
				WithDetail("field", "status")
		}
		if _, ok, err := s.successor(ctx, doc.ID); err != nil {
			return err
		} else if ok && status != StatusCompleted {
			return apperror.NewBusinessRule(apperror.CodeDocumentCompleted,
				"converted documents stay completed").
				WithDetail("id", doc.ID.String())
		}

		previous := doc.Status
		doc.Status = status
		if doc.IsInvoice() && status.Settled() && !doc.RevenueRecognized && doc.Amount.IsPositive() {
			if err := s.parties(doc.Kind).AddTotal(ctx, doc.CounterpartyID, doc.Amount); err != nil {
				return err
			}
			doc.RevenueRecognized = true
		}
		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document status: %w", err)
		}
		return audit.Change(ctx, s.audit, entityName, doc.ID, audit.ActionStatus, map[string]any{
			"from": previous,
			"to":   status,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "document status changed", "id", doc.ID, "number", doc.Number, "status", status)
	return doc, nil
}

// Delete removes a document that nothing was converted from.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.Get(ctx, docID)
		if err != nil {
			return err
		}
		if succ, ok, err := s.successor(ctx, doc.ID); err != nil {
			return err
		} else if ok {
			return apperror.NewReferenced(entityName, doc.ID.String(), "document "+succ.Number)
		}
		if err := s.repo.Delete(ctx, doc.ID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return audit.Change(ctx, s.audit, entityName, doc.ID, audit.ActionDelete, map[string]any{
			"number": doc.Number,
		})
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "document deleted", "id", docID)
	return nil
}

// Chain returns the conversion chain ending at docID, oldest first.
func (s *Service) Chain(ctx context.Context, docID id.ID) ([]*Document, error) {
	var chain []*Document
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		seen := make(map[id.ID]bool)
		cur := docID
		for {
			if seen[cur] {
				return apperror.NewInternal(fmt.Errorf("document chain cycle at %s", cur))
			}
			seen[cur] = true
			doc, err := s.Get(ctx, cur)
			if err != nil {
				return err
			}
			chain = append(chain, doc)
			if doc.LinkedDocumentID == nil {
				return nil
			}
			cur = *doc.LinkedDocumentID
		}
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// MarkOverdue moves pending invoices whose due date is before now to overdue.
// Returns how many were changed.
func (s *Service) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	changed := 0
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		due, err := s.repo.Find(ctx, func(d *Document) bool {
			return d.IsInvoice() && d.Status == StatusPending &&
				!d.DueDate.IsZero() && d.DueDate.Before(now)
		})
		if err != nil {
			return err
		}
		for _, d := range due {
			d.Status = StatusOverdue
			d.Touch()
			if err := s.repo.Update(ctx, d); err != nil {
				return fmt.Errorf("mark overdue: %w", err)
			}
			if err := audit.Change(ctx, s.audit, entityName, d.ID, audit.ActionStatus, map[string]any{
				"from": StatusPending,
				"to":   StatusOverdue,
			}); err != nil {
				return err
			}
		}
		changed = len(due)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		logger.Info(ctx, "invoices marked overdue", "count", changed)
	}
	return changed, nil
}

func (s *Service) guardCounterparty(ctx context.Context, c *counterparty.Counterparty) error {
	n, err := s.repo.Count(ctx, func(d *Document) bool { return d.CounterpartyID == c.ID })
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.NewReferenced(string(c.Role), c.ID.String(), "documents").
			WithDetail("count", n)
	}
	return nil
}

func (s *Service) guardProduct(ctx context.Context, p *product.Product) error {
	n, err := s.repo.Count(ctx, func(d *Document) bool {
		for _, l := range d.Lines {
			if l.ProductID != nil && *l.ProductID == p.ID {
				return true
			}
		}
		return false
	})
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.NewReferenced("product", p.ID.String(), "document lines").
			WithDetail("count", n)
	}
	return nil
}

func cloneLines(lines []Line) []Line {
	d := Document{Lines: lines}
	d.Detach()
	return d.Lines
}
