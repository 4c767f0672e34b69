package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizdesk/internal/app"
)

// Version is reported by the info endpoint; set at build time.
var Version = "dev"

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	app *app.App
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{app: a}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	cfg := h.app.Config
	c.JSON(http.StatusOK, gin.H{
		"app":          cfg.App.Name,
		"version":      Version,
		"baseCurrency": h.app.Formatter.Base(),
		"assistant":    cfg.Assistant.Provider,
		"audit": gin.H{
			"compressedEntries": h.app.Audit.CompressedCount(c.Request.Context()),
		},
	})
}
