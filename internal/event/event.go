package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"`
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Mission lifecycle event types
const (
	MissionStarted  Type = domain.EventTypeMissionStarted
	MissionReady    Type = domain.EventTypeMissionReady
	MissionResolved Type = domain.EventTypeMissionResolved
	MissionReloaded Type = domain.EventTypeMissionReloaded
	AlertFired      Type = domain.EventTypeAlertFired
)

// AllMissionTypes lists every event type a client can subscribe to
var AllMissionTypes = []Type{MissionStarted, MissionReady, MissionResolved, MissionReloaded, AlertFired}

const metadataKeyUserID = "user_id"

func userMetadata(userID uuid.UUID) Metadata {
	return map[string]interface{}{
		metadataKeyUserID: userID.String(),
		"timestamp":       time.Now().Unix(),
	}
}

// UserIDOf returns the user an event is addressed to, or "" for broadcasts
func UserIDOf(e Event) string {
	if v, ok := e.GetMetadataValue(metadataKeyUserID).(string); ok {
		return v
	}
	return ""
}

// NewMissionStartedEvent creates a mission.started event
func NewMissionStartedEvent(a domain.MissionAssignment, m domain.MissionDefinition) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MissionStarted,
		Payload: domain.MissionStartedPayload{
			UserID:    a.UserID.String(),
			MissionID: m.ID.String(),
			Title:     m.Title,
			FinishAt:  a.FinishAt.Unix(),
		},
		Metadata: userMetadata(a.UserID),
	}
}

// NewMissionReadyEvent creates a mission.ready event
func NewMissionReadyEvent(userID uuid.UUID, m domain.MissionDefinition) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MissionReady,
		Payload: domain.MissionReadyPayload{
			UserID:    userID.String(),
			MissionID: m.ID.String(),
			Title:     m.Title,
		},
		Metadata: userMetadata(userID),
	}
}

// NewMissionResolvedEvent creates a mission.resolved event
func NewMissionResolvedEvent(userID uuid.UUID, r domain.MissionResult, debug bool) Event {
	reward := 0
	if r.IsSuccess {
		reward = r.Mission.Reward
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    MissionResolved,
		Payload: domain.MissionResolvedPayload{
			UserID:    userID.String(),
			MissionID: r.Mission.ID.String(),
			Title:     r.Mission.Title,
			IsSuccess: r.IsSuccess,
			Message:   r.Message,
			Reward:    reward,
			Debug:     debug,
		},
		Metadata: userMetadata(userID),
	}
}

// NewMissionReloadedEvent creates a mission.reloaded event from a snapshot
func NewMissionReloadedEvent(s domain.MissionSnapshot) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MissionReloaded,
		Payload: domain.MissionReloadedPayload{
			UserID:     s.UserID.String(),
			Generation: s.Generation,
			Available:  len(s.AvailableMissions),
			Active:     len(s.ActiveMissions),
			Completed:  len(s.CompletedMissions),
		},
		Metadata: userMetadata(s.UserID),
	}
}

// NewAlertFiredEvent creates an alert.fired event. userID may be uuid.Nil.
func NewAlertFiredEvent(userID uuid.UUID, key, title, body string, fireAt time.Time) Event {
	var md Metadata
	if userID != uuid.Nil {
		md = userMetadata(userID)
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    AlertFired,
		Payload: domain.AlertFiredPayload{
			Key:    key,
			Title:  title,
			Body:   body,
			FireAt: fireAt.Unix(),
		},
		Metadata: md,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Publisher is the fire-and-forget side used by services
type Publisher interface {
	PublishWithRetry(ctx context.Context, event Event)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every handler for the event type synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
