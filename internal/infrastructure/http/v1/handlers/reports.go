package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/reports"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
	topN    int
}

// NewReportsHandler creates a new reports handler. topN is the default number
// of clients on the dashboard.
func NewReportsHandler(base *BaseHandler, service *reports.Service, topN int) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
		topN:        topN,
	}
}

// Dashboard handles GET /reports/dashboard?top=N
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	top := h.ParseIntQuery(c, "top", h.topN)
	d, err := h.service.Dashboard(c.Request.Context(), top)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// SalesByCustomer handles GET /reports/sales-by-customer
func (h *ReportsHandler) SalesByCustomer(c *gin.Context) {
	rows, err := h.service.SalesByCustomer(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(rows))
}

// VAT handles GET /reports/vat
func (h *ReportsHandler) VAT(c *gin.Context) {
	r, err := h.service.VAT(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// ProductPerformance handles GET /reports/product-performance
func (h *ReportsHandler) ProductPerformance(c *gin.Context) {
	rows, err := h.service.ProductPerformance(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(rows))
}

// StockMovements handles GET /reports/stock-movements
func (h *ReportsHandler) StockMovements(c *gin.Context) {
	rows, err := h.service.StockMovements(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(rows))
}
