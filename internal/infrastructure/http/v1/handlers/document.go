package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/domain/documents"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// DocumentHandler serves sales and purchase documents. The kind is taken from
// the :kind path segment.
type DocumentHandler struct {
	*BaseHandler
	service *documents.Service
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(base *BaseHandler, service *documents.Service) *DocumentHandler {
	return &DocumentHandler{BaseHandler: base, service: service}
}

func (h *DocumentHandler) kind(c *gin.Context) (documents.Kind, bool) {
	k := documents.Kind(c.Param("kind"))
	if !k.IsValid() {
		h.Error(c, apperror.NewNotFound("document kind", c.Param("kind")))
		return "", false
	}
	return k, true
}

// load fetches the document in :id and checks it belongs to :kind.
func (h *DocumentHandler) load(c *gin.Context) (*documents.Document, bool) {
	k, ok := h.kind(c)
	if !ok {
		return nil, false
	}
	docID, ok := h.ParamID(c, "id")
	if !ok {
		return nil, false
	}
	doc, err := h.service.Get(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	if doc.Kind != k {
		h.Error(c, apperror.NewNotFound("document", docID))
		return nil, false
	}
	return doc, true
}

// List handles GET /documents/:kind
func (h *DocumentHandler) List(c *gin.Context) {
	k, ok := h.kind(c)
	if !ok {
		return
	}
	q, ok := h.ViewQuery(c)
	if !ok {
		return
	}

	result, err := h.service.Query(c.Request.Context(), k, q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromResult(result))
}

// Create handles POST /documents/:kind
func (h *DocumentHandler) Create(c *gin.Context) {
	k, ok := h.kind(c)
	if !ok {
		return
	}

	var req dto.CreateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	params, err := req.ToParams(k)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Create(c.Request.Context(), params)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// Get handles GET /documents/:kind/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /documents/:kind/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), doc.ID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Convert handles POST /documents/:kind/:id/convert
func (h *DocumentHandler) Convert(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}

	var req dto.ConvertRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Convert(c.Request.Context(), doc.ID, req.Target)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// SetStatus handles POST /documents/:kind/:id/status
func (h *DocumentHandler) SetStatus(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}

	var req dto.StatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.SetStatus(c.Request.Context(), doc.ID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// UpdateLines handles PUT /documents/:kind/:id/lines
func (h *DocumentHandler) UpdateLines(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}

	var req dto.LinesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	lines, err := dto.ParseLines(req.Lines)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.UpdateLines(c.Request.Context(), doc.ID, lines)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Chain handles GET /documents/:kind/:id/chain
func (h *DocumentHandler) Chain(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}

	chain, err := h.service.Chain(c.Request.Context(), doc.ID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.Items(chain))
}

// Targets handles GET /documents/:kind/:id/targets, the types the document
// may still be converted to.
func (h *DocumentHandler) Targets(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}
	if doc.Status == documents.StatusCompleted {
		h.OK(c, dto.Items([]documents.Type{}))
		return
	}
	h.OK(c, dto.Items(documents.Targets(doc.Kind, doc.Type)))
}
