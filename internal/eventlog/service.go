package eventlog

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/event"
	"github.com/osse101/NexusMissions_Go/internal/logger"
)

// Service persists mission events and serves them back per user
type Service interface {
	// Subscribe registers the event logger for every logged type
	Subscribe(bus event.Bus) error

	// History returns the user's newest events. limit is clamped to
	// [1, MaxHistoryLimit]; zero means DefaultHistoryLimit.
	History(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error)

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new event logging service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Subscribe(bus event.Bus) error {
	for _, eventType := range LoggedTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}
	return nil
}

func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		log.Warn(LogMsgPayloadEncodeFailed, "type", evt.Type, "error", err)
		return nil
	}

	var userID *uuid.UUID
	if id, err := uuid.Parse(event.UserIDOf(evt)); err == nil {
		userID = &id
	}

	if err := s.repo.LogEvent(ctx, string(evt.Type), userID, payload); err != nil {
		log.Error(LogMsgFailedToLogEvent, "error", err, "type", evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, "type", evt.Type, "user_id", userID)
	return nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.repo.GetEventsByUser(ctx, userID, limit)
}

func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}
