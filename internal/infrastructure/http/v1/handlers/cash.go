package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/ledger/cash"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// CashHandler serves the cash register.
type CashHandler struct {
	*BaseHandler
	service *cash.Service
}

// NewCashHandler creates a new cash handler.
func NewCashHandler(base *BaseHandler, service *cash.Service) *CashHandler {
	return &CashHandler{BaseHandler: base, service: service}
}

// Current handles GET /cash/session
func (h *CashHandler) Current(c *gin.Context) {
	s, open, err := h.service.CurrentSession(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.CurrentSessionResponse{Open: open, Session: s})
}

// Open handles POST /cash/session
func (h *CashHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	opening, err := dto.ParseMoney("openingBalance", req.OpeningBalance)
	if err != nil {
		h.Error(c, err)
		return
	}
	s, err := h.service.OpenSession(c.Request.Context(), opening, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, s)
}

// Close handles POST /cash/session/close
func (h *CashHandler) Close(c *gin.Context) {
	var req dto.CloseSessionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	closing, err := dto.ParseMoney("closingBalance", req.ClosingBalance)
	if err != nil {
		h.Error(c, err)
		return
	}
	s, err := h.service.CloseSession(c.Request.Context(), closing, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// ListSessions handles GET /cash/sessions
func (h *CashHandler) ListSessions(c *gin.Context) {
	items, err := h.service.ListSessions(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(items))
}

// SessionTransactions handles GET /cash/sessions/:id/transactions
func (h *CashHandler) SessionTransactions(c *gin.Context) {
	sessionID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListTransactions(c.Request.Context(), sessionID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(items))
}

// ListTransactions handles GET /cash/transactions
func (h *CashHandler) ListTransactions(c *gin.Context) {
	q, ok := h.ViewQuery(c)
	if !ok {
		return
	}
	result, err := h.service.Query(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromResult(result))
}

// AddTransaction handles POST /cash/transactions
func (h *CashHandler) AddTransaction(c *gin.Context) {
	var req dto.CashTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	amount, err := dto.ParseMoney("amount", req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}
	t, err := h.service.AddTransaction(c.Request.Context(), req.Type, amount, req.Description)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, t)
}
