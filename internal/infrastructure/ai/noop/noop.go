// Package noop is the completer used when no assistant provider is configured.
package noop

import (
	"context"
	"errors"

	"bizdesk/internal/domain/assistant"
)

// ErrDisabled is returned by every call.
var ErrDisabled = errors.New("assistant provider is not configured")

// Completer always fails, which the conversation turns into its fallback reply.
type Completer struct{}

var _ assistant.Completer = Completer{}

// Complete implements assistant.Completer.
func (Completer) Complete(context.Context, assistant.Request) (string, error) {
	return "", ErrDisabled
}
