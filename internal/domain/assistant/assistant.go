// Package assistant builds the dashboard context handed to an external text
// completion service and runs the conversation around it. The completion
// service is treated as unreliable: its failures never reach the caller.
package assistant

import (
	"context"
	"time"

	"bizdesk/internal/domain/reports"
)

//go:generate mockgen -source=assistant.go -destination=completer_mock.go -package=assistant

// Request is one completion call.
type Request struct {
	Model   string
	System  string
	History []Message
	Prompt  string
}

// Completer is an external text completion service.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// DashboardSource provides the figures the context prompt is built from.
type DashboardSource interface {
	Dashboard(ctx context.Context, topN int) (*reports.Dashboard, error)
}

// Role of a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation.
type Message struct {
	Role     Role      `json:"role"`
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
	Fallback bool      `json:"fallback,omitempty"`
}
