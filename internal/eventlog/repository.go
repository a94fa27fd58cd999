package eventlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry is one persisted event
type Entry struct {
	ID        int64           `json:"id"`
	EventType string          `json:"event_type"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Repository defines the interface for event logging storage
type Repository interface {
	// LogEvent stores an event. userID is nil for events not addressed to a user.
	LogEvent(ctx context.Context, eventType string, userID *uuid.UUID, payload json.RawMessage) error

	// GetEventsByUser returns the user's newest events first
	GetEventsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error)

	// CleanupOldEvents removes events older than the specified number of days
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}
