package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/assistant"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// AssistantHandler exposes one shared conversation. The dashboard is a
// single-user tool, so there is no per-client session.
type AssistantHandler struct {
	*BaseHandler
	service      *assistant.Service
	conversation *assistant.Conversation
}

// NewAssistantHandler creates a handler with a fresh conversation.
func NewAssistantHandler(base *BaseHandler, service *assistant.Service) *AssistantHandler {
	return &AssistantHandler{
		BaseHandler:  base,
		service:      service,
		conversation: service.NewConversation(),
	}
}

// Context handles GET /assistant/context
func (h *AssistantHandler) Context(c *gin.Context) {
	prompt, err := h.service.ContextPrompt(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ContextResponse{Prompt: prompt})
}

// Messages handles GET /assistant/messages
func (h *AssistantHandler) Messages(c *gin.Context) {
	h.OK(c, dto.Items(h.conversation.Messages()))
}

// Send handles POST /assistant/messages. Completion failures still return a
// reply (the fallback text); only a busy conversation or empty text is an error.
func (h *AssistantHandler) Send(c *gin.Context) {
	var req dto.MessageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	reply, err := h.conversation.Send(c.Request.Context(), req.Text)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Reply: reply})
}
