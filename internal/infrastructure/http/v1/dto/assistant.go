package dto

import (
	"bizdesk/internal/domain/assistant"
)

// MessageRequest is a user message to the assistant.
type MessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// MessageResponse carries the assistant reply.
type MessageResponse struct {
	Reply assistant.Message `json:"reply"`
}

// ContextResponse is the business snapshot sent to the model.
type ContextResponse struct {
	Prompt string `json:"prompt"`
}
