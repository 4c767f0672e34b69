package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/audit"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// AuditHandler serves the audit trail of a record.
type AuditHandler struct {
	*BaseHandler
	recorder audit.Recorder
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, recorder audit.Recorder) *AuditHandler {
	return &AuditHandler{BaseHandler: base, recorder: recorder}
}

// History handles GET /audit/:id, newest entry first.
func (h *AuditHandler) History(c *gin.Context) {
	entityID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	entries, err := h.recorder.History(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(entries))
}
