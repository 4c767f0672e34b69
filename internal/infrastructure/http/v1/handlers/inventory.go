package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// InventoryHandler serves stock transfers and adjustments.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, service: service}
}

// ListTransfers handles GET /inventory/transfers
func (h *InventoryHandler) ListTransfers(c *gin.Context) {
	items, err := h.service.ListTransfers(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(items))
}

// Transfer handles POST /inventory/transfers
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}
	params, err := req.ToParams()
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.Transfer(c.Request.Context(), params)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, t)
}

// ListAdjustments handles GET /inventory/adjustments
func (h *InventoryHandler) ListAdjustments(c *gin.Context) {
	items, err := h.service.ListAdjustments(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(items))
}

// Adjust handles POST /inventory/adjustments
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	productID, err := id.ParseField("productId", req.ProductID)
	if err != nil {
		h.Error(c, err)
		return
	}

	adj, err := h.service.Adjust(c.Request.Context(), productID, req.Delta, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, adj)
}
