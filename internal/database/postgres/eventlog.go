package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/NexusMissions_Go/internal/eventlog"
)

// EventLogRepository implements eventlog.Repository for PostgreSQL
type EventLogRepository struct {
	db *pgxpool.Pool
}

// NewEventLogRepository creates a new EventLogRepository
func NewEventLogRepository(db *pgxpool.Pool) *EventLogRepository {
	return &EventLogRepository{db: db}
}

func (r *EventLogRepository) LogEvent(ctx context.Context, eventType string, userID *uuid.UUID, payload json.RawMessage) error {
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO mission_events (event_type, user_id, payload)
		VALUES ($1, $2, $3)
	`, eventType, userID, []byte(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLogEvent, err)
	}
	return nil
}

func (r *EventLogRepository) GetEventsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]eventlog.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, event_type, user_id, payload, created_at
		FROM mission_events
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEvents, err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (eventlog.Entry, error) {
		var (
			e       eventlog.Entry
			payload []byte
		)
		if err := row.Scan(&e.ID, &e.EventType, &e.UserID, &payload, &e.CreatedAt); err != nil {
			return e, err
		}
		e.Payload = json.RawMessage(payload)
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEvents, err)
	}
	return entries, nil
}

func (r *EventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	tag, err := r.db.Exec(ctx, `DELETE FROM mission_events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCleanupEvent, err)
	}
	return tag.RowsAffected(), nil
}
