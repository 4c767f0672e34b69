package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/infrastructure/http/v1/dto"
	"bizdesk/internal/metadata"
)

// MetadataHandler exposes entity field descriptions.
type MetadataHandler struct {
	*BaseHandler
	registry *metadata.Registry
}

func NewMetadataHandler(base *BaseHandler, registry *metadata.Registry) *MetadataHandler {
	return &MetadataHandler{
		BaseHandler: base,
		registry:    registry,
	}
}

// ListEntities handles GET /meta
func (h *MetadataHandler) ListEntities(c *gin.Context) {
	h.OK(c, dto.Items(h.registry.List()))
}

// GetEntity handles GET /meta/:name
func (h *MetadataHandler) GetEntity(c *gin.Context) {
	name := c.Param("name")
	def, ok := h.registry.Get(name)
	if !ok {
		h.Error(c, apperror.NewNotFound("entity definition", name))
		return
	}
	h.OK(c, def)
}
