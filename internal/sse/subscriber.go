package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/NexusMissions_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe forwards every mission and alert event to the owning user's clients
func (s *Subscriber) Subscribe() {
	types := make([]string, 0, len(event.AllMissionTypes))
	for _, t := range event.AllMissionTypes {
		s.bus.Subscribe(t, s.forward)
		types = append(types, string(t))
	}
	slog.Info(LogMsgSubscribed, "types", types)
}

func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	userID := event.UserIDOf(evt)
	if userID == "" && evt.Type != event.AlertFired {
		slog.Warn(LogMsgMissingUser, "event_type", evt.Type)
		return nil
	}

	// alerts without a user go to every stream
	s.hub.Broadcast(string(evt.Type), userID, evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "user_id", userID)
	return nil
}
