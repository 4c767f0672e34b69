package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/app"
	"bizdesk/internal/config"
	"bizdesk/internal/core/apperror"
	"bizdesk/internal/infrastructure/ai/noop"
	v1 "bizdesk/internal/infrastructure/http/v1"
	"bizdesk/internal/infrastructure/http/v1/middleware"
)

func newRouter(t *testing.T) (*gin.Engine, *app.App) {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	a, err := app.New(cfg, app.WithCompleter(noop.Completer{}))
	require.NoError(t, err)
	return v1.NewRouter(v1.RouterConfig{App: a}), a
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderActor, "tester")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func create(t *testing.T, r http.Handler, path string, body any) string {
	t.Helper()
	w := do(t, r, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["id"].(string)
}

func TestHealth(t *testing.T) {
	r, _ := newRouter(t)

	w := do(t, r, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderTraceID))

	w = do(t, r, http.MethodGet, "/health/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EUR", decode(t, w)["baseCurrency"])
}

func TestDocumentLifecycle(t *testing.T) {
	r, a := newRouter(t)

	clientID := create(t, r, "/api/v1/clients", map[string]any{
		"companyName": "Acme GmbH", "contactName": "Anna", "email": "anna@acme.example",
	})
	productID := create(t, r, "/api/v1/products", map[string]any{
		"sku": "WID-1", "name": "Widget", "stock": 42, "price": "10.00", "cost": "6.50",
	})

	estimateID := create(t, r, "/api/v1/documents/sales", map[string]any{
		"type":           "estimate",
		"counterpartyId": clientID,
		"lines": []map[string]any{
			{"description": "Widget", "productId": productID, "quantity": 2, "unitPrice": "10"},
			{"description": "Setup", "quantity": 1, "unitPrice": "5"},
		},
	})

	w := do(t, r, http.MethodGet, "/api/v1/documents/sales/"+estimateID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode(t, w)
	assert.Equal(t, "25", doc["amount"])
	assert.Equal(t, "pending", doc["status"])

	w = do(t, r, http.MethodPost, "/api/v1/documents/sales/"+estimateID+"/convert", map[string]any{"target": "order"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := decode(t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/api/v1/documents/sales/"+estimateID+"/convert", map[string]any{"target": "order"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeDocumentCompleted, decode(t, w)["code"])

	w = do(t, r, http.MethodPost, "/api/v1/documents/sales/"+orderID+"/convert", map[string]any{"target": "issue"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeInvalidConversion, decode(t, w)["code"])

	w = do(t, r, http.MethodPost, "/api/v1/documents/sales/"+orderID+"/convert", map[string]any{"target": "invoice"})
	require.Equal(t, http.StatusCreated, w.Code)
	invoiceID := decode(t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/api/v1/documents/sales/"+invoiceID+"/status", map[string]any{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/documents/sales/"+invoiceID+"/chain", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]any)
	require.Len(t, items, 3)
	assert.Equal(t, estimateID, items[0].(map[string]any)["id"])

	w = do(t, r, http.MethodGet, "/api/v1/clients/"+clientID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "25", decode(t, w)["total"])

	w = do(t, r, http.MethodDelete, "/api/v1/clients/"+clientID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeReferenced, decode(t, w)["code"])

	// the document belongs to the sales kind only
	w = do(t, r, http.MethodGet, "/api/v1/documents/purchase/"+estimateID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/audit/"+invoiceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["items"])

	docs, err := a.Documents.List(t.Context(), "")
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestBadAmountIsRejectedBeforeMutation(t *testing.T) {
	r, a := newRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/products", map[string]any{
		"sku": "X-1", "name": "Broken", "price": "ten euros",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, apperror.CodeInvalidInput, body["code"])
	assert.Equal(t, "price", body["details"].(map[string]any)["field"])

	products, err := a.Products.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestUnknownDocumentKind(t *testing.T) {
	r, _ := newRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/documents/rental", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListView(t *testing.T) {
	r, _ := newRouter(t)

	for _, name := range []string{"Beta", "alpha", "Gamma"} {
		create(t, r, "/api/v1/warehouses", map[string]any{"name": name})
	}

	w := do(t, r, http.MethodGet, "/api/v1/warehouses?sort=name&pageSize=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 3, body["totalCount"])
	assert.EqualValues(t, 2, body["totalPages"])
	items := body["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "alpha", items[0].(map[string]any)["name"])

	w = do(t, r, http.MethodGet, "/api/v1/warehouses?search=zzz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.EqualValues(t, 0, body["totalPages"])
	assert.Empty(t, body["items"])

	w = do(t, r, http.MethodGet, "/api/v1/warehouses?filter=notjson", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListView_RejectsMalformedExpr(t *testing.T) {
	r, _ := newRouter(t)
	create(t, r, "/api/v1/warehouses", map[string]any{"name": "Main"})

	w := do(t, r, http.MethodGet, "/api/v1/warehouses?expr="+url.QueryEscape(`record.name ==`), nil)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, apperror.CodeValidation, decode(t, w)["code"])

	w = do(t, r, http.MethodGet, "/api/v1/warehouses?expr="+url.QueryEscape(`record.name == "Main"`), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode(t, w)["totalCount"])
}

func TestCashSession(t *testing.T) {
	r, _ := newRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/cash/transactions", map[string]any{"type": "deposit", "amount": "5"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeNoOpenSession, decode(t, w)["code"])

	create(t, r, "/api/v1/cash/session", map[string]any{"openingBalance": "100"})

	w = do(t, r, http.MethodPost, "/api/v1/cash/session", map[string]any{"openingBalance": "1"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeSessionAlreadyOpen, decode(t, w)["code"])

	create(t, r, "/api/v1/cash/transactions", map[string]any{"type": "deposit", "amount": "50"})
	create(t, r, "/api/v1/cash/transactions", map[string]any{"type": "withdrawal", "amount": "30"})

	w = do(t, r, http.MethodPost, "/api/v1/cash/session/close", map[string]any{"closingBalance": "115"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	session := decode(t, w)
	assert.Equal(t, "120", session["expectedBalance"])
	assert.Equal(t, "-5", session["variance"])

	w = do(t, r, http.MethodGet, "/api/v1/cash/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["open"])
}

func TestBankReconcile(t *testing.T) {
	r, _ := newRouter(t)

	accountID := create(t, r, "/api/v1/bank/accounts", map[string]any{
		"name": "Operating", "type": "checking", "openingBalance": "1000",
	})
	paymentID := create(t, r, "/api/v1/bank/transactions", map[string]any{
		"accountId": accountID, "type": "payment", "amount": "200", "description": "rent",
	})

	w := do(t, r, http.MethodGet, "/api/v1/bank/accounts/"+accountID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "800", decode(t, w)["balance"])

	w = do(t, r, http.MethodPost, "/api/v1/bank/reconcile", map[string]any{"accountId": accountID, "ids": []string{paymentID}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeNotCleared, decode(t, w)["code"])

	w = do(t, r, http.MethodPost, "/api/v1/bank/clear", map[string]any{"ids": []string{paymentID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, r, http.MethodPost, "/api/v1/bank/reconcile", map[string]any{"accountId": accountID, "ids": []string{paymentID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/bank/accounts/"+accountID+"/verify", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["consistent"])
}

func TestBankAccountUpdateKeepsOmittedOpeningBalance(t *testing.T) {
	r, _ := newRouter(t)

	accountID := create(t, r, "/api/v1/bank/accounts", map[string]any{
		"name": "Operating", "type": "checking", "openingBalance": "1000",
	})

	w := do(t, r, http.MethodPut, "/api/v1/bank/accounts/"+accountID, map[string]any{
		"name": "Main operating", "type": "checking",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Main operating", body["name"])
	assert.Equal(t, "1000", body["openingBalance"])
	assert.Equal(t, "1000", body["balance"])

	w = do(t, r, http.MethodPut, "/api/v1/bank/accounts/"+accountID, map[string]any{
		"name": "Main operating", "type": "checking", "openingBalance": "1200",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1200", decode(t, w)["balance"])
}

func TestAssistantFallback(t *testing.T) {
	r, _ := newRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/assistant/messages", map[string]any{"text": "How are we doing?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reply := decode(t, w)["reply"].(map[string]any)
	assert.Equal(t, true, reply["fallback"])

	w = do(t, r, http.MethodGet, "/api/v1/assistant/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 2)

	w = do(t, r, http.MethodGet, "/api/v1/assistant/context", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["prompt"], "Pending invoices: 0")
}

func TestMetadata(t *testing.T) {
	r, _ := newRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/meta", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]any)
	assert.Len(t, items, 11)

	w = do(t, r, http.MethodGet, "/api/v1/meta/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	def := decode(t, w)
	assert.Equal(t, "document", def["type"])
	parts := def["tableParts"].([]any)
	require.Len(t, parts, 1)
	assert.Equal(t, "lines", parts[0].(map[string]any)["name"])

	w = do(t, r, http.MethodGet, "/api/v1/meta/nothing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, decode(t, w)["code"])
}
