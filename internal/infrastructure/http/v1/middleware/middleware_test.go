package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	appctx "bizdesk/internal/core/context"
	"bizdesk/pkg/logger"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), Logger(logger.Nop()), Actor(), ErrorHandler())
	return r
}

func serve(r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestErrorHandler_AppError(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(apperror.NewBusinessRule(apperror.CodeNoOpenSession, "no session"))
	})

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeNoOpenSession, body["code"])
}

func TestErrorHandler_HidesUnknownErrors(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("disk on fire"))
	})

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestRecovery(t *testing.T) {
	r := newEngine()
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body["code"])
}

func TestTraceAndActor(t *testing.T) {
	r := newEngine()
	var requestID, actor string
	r.GET("/x", func(c *gin.Context) {
		requestID = appctx.GetRequestID(c.Request.Context())
		actor = appctx.GetActorName(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	req.Header.Set(HeaderActor, "maria")
	w, _ := serve(r, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-42", requestID)
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))
	assert.Equal(t, "maria", actor)
}

func TestActor_DefaultsToAnonymous(t *testing.T) {
	r := newEngine()
	var actor string
	r.GET("/x", func(c *gin.Context) {
		actor = appctx.GetActorName(c.Request.Context())
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "anonymous", actor)
}
