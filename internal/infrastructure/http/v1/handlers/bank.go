package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/ledger/bank"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// BankHandler serves bank accounts and their transactions.
type BankHandler struct {
	*BaseHandler
	service      *bank.Service
	baseCurrency string
}

// NewBankHandler creates a new bank handler. New accounts without a currency
// get baseCurrency.
func NewBankHandler(base *BaseHandler, service *bank.Service, baseCurrency string) *BankHandler {
	return &BankHandler{BaseHandler: base, service: service, baseCurrency: baseCurrency}
}

// ListAccounts handles GET /bank/accounts
func (h *BankHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(accounts))
}

// CreateAccount handles POST /bank/accounts
func (h *BankHandler) CreateAccount(c *gin.Context) {
	var req dto.AccountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	account, err := req.ToEntity(h.baseCurrency)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.AddAccount(c.Request.Context(), account); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, account)
}

// GetAccount handles GET /bank/accounts/:id
func (h *BankHandler) GetAccount(c *gin.Context) {
	accountID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	account, err := h.service.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, account)
}

// UpdateAccount handles PUT /bank/accounts/:id
func (h *BankHandler) UpdateAccount(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.service.GetAccount(ctx, accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := req.ApplyTo(account); err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.UpdateAccount(ctx, account); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, account)
}

// DeleteAccount handles DELETE /bank/accounts/:id
func (h *BankHandler) DeleteAccount(c *gin.Context) {
	accountID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteAccount(c.Request.Context(), accountID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// AccountTransactions handles GET /bank/accounts/:id/transactions
func (h *BankHandler) AccountTransactions(c *gin.Context) {
	accountID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListTransactions(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(items))
}

// VerifyBalance handles GET /bank/accounts/:id/verify
func (h *BankHandler) VerifyBalance(c *gin.Context) {
	ctx := c.Request.Context()

	accountID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	expected, consistent, err := h.service.VerifyBalance(ctx, accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	account, err := h.service.GetAccount(ctx, accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.BalanceCheckResponse{
		AccountID:  accountID.String(),
		Balance:    account.Balance.String(),
		Expected:   expected.String(),
		Consistent: consistent,
	})
}

// ListTransactions handles GET /bank/transactions, a derived view over all accounts.
func (h *BankHandler) ListTransactions(c *gin.Context) {
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

// AddTransaction handles POST /bank/transactions
func (h *BankHandler) AddTransaction(c *gin.Context) {
	var req dto.TransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	params, err := req.ToParams()
	if err != nil {
		h.Error(c, err)
		return
	}
	t, err := h.service.AddTransaction(c.Request.Context(), params)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, t)
}

// DeleteTransaction handles DELETE /bank/transactions/:id
func (h *BankHandler) DeleteTransaction(c *gin.Context) {
	txID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteTransaction(c.Request.Context(), txID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Transfer handles POST /bank/transfers
func (h *BankHandler) Transfer(c *gin.Context) {
	var req dto.BankTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}
	params, err := req.ToParams()
	if err != nil {
		h.Error(c, err)
		return
	}
	out, in, err := h.service.Transfer(c.Request.Context(), params)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.TransferResponse{Out: out, In: in})
}

// Clear handles POST /bank/clear
func (h *BankHandler) Clear(c *gin.Context) {
	var req dto.IDsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ids, err := dto.ParseIDs("ids", req.IDs)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.Clear(c.Request.Context(), ids); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "transactions cleared")
}

// Reconcile handles POST /bank/reconcile
func (h *BankHandler) Reconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	accountID, err := id.ParseField("accountId", req.AccountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	ids, err := dto.ParseIDs("ids", req.IDs)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.Reconcile(c.Request.Context(), accountID, ids); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "transactions reconciled")
}
