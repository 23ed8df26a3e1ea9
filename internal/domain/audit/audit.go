// Package audit defines the change-history contract. Entries record
// who changed what; the postgres implementation compresses large
// change sets before storing them.
package audit

import (
	"context"
	"encoding/json"
	"time"
)

// Action names what happened to an entity.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is one recorded change.
type Entry struct {
	ID         int64           `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   int64           `json:"entityId"`
	Action     Action          `json:"action"`
	Actor      string          `json:"actor"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Logger records entries. Implementations must not fail the calling
// transaction on serialization problems; a lost audit row is logged,
// not surfaced.
type Logger interface {
	Record(ctx context.Context, e Entry) error
	ListByEntity(ctx context.Context, entityType string, entityID int64, limit int) ([]Entry, error)
}
