// Package audit defines the audit trail contract for state-changing operations.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bizdesk/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionConvert   Action = "convert"
	ActionStatus    Action = "status"
	ActionOpen      Action = "open"
	ActionClose     Action = "close"
	ActionReconcile Action = "reconcile"
)

// Entry is a single audit log record.
type Entry struct {
	ID         id.ID           `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   id.ID           `json:"entityId"`
	Action     Action          `json:"action"`
	Actor      string          `json:"actor,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Recorder appends audit entries. Entries recorded inside a store transaction
// are discarded together with it when the transaction rolls back.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	History(ctx context.Context, entityID id.ID) ([]Entry, error)
}

// Change is a convenience for recording a change set.
func Change(ctx context.Context, r Recorder, entityType string, entityID id.ID, action Action, changes map[string]any) error {
	if r == nil {
		return nil
	}
	raw, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal audit changes: %w", err)
	}
	return r.Record(ctx, Entry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    raw,
	})
}
