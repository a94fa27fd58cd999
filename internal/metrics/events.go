package metrics

import (
	"context"

	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/event"
	"github.com/osse101/NexusMissions_Go/internal/logger"
)

// EventMetricsCollector subscribes to mission events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all mission event types
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllMissionTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.MissionStarted:
		MissionsStarted.Inc()

	case event.MissionReady:
		MissionsReady.Inc()

	case event.MissionResolved:
		payload, err := event.DecodePayload[domain.MissionResolvedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return nil
		}
		switch {
		case payload.Debug:
			MissionsResolved.WithLabelValues(OutcomeDebug).Inc()
		case payload.IsSuccess:
			MissionsResolved.WithLabelValues(OutcomeSuccess).Inc()
			CurrencyCredited.Add(float64(payload.Reward))
		default:
			MissionsResolved.WithLabelValues(OutcomeFailure).Inc()
		}

	case event.MissionReloaded:
		payload, err := event.DecodePayload[domain.MissionReloadedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return nil
		}
		MissionReloads.Inc()
		MissionReloadDuration.Observe(float64(payload.DurationMs) / 1000)

	case event.AlertFired:
		AlertsFired.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
