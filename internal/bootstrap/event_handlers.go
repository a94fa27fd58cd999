package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/NexusMissions_Go/internal/event"
	"github.com/osse101/NexusMissions_Go/internal/eventlog"
	"github.com/osse101/NexusMissions_Go/internal/metrics"
	"github.com/osse101/NexusMissions_Go/internal/sse"
)

// RegisterEventHandlers subscribes the metrics collector and, when given,
// the SSE forwarder and the audit logger to the bus.
func RegisterEventHandlers(bus event.Bus, hub *sse.Hub, eventLog eventlog.Service) error {
	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if hub != nil {
		sse.NewSubscriber(hub, bus).Subscribe()
		slog.Info(LogMsgSSESubscriberRegistered)
	}

	if eventLog != nil {
		if err := eventLog.Subscribe(bus); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLogger, err)
		}
		slog.Info(LogMsgEventLoggerInitialized)
	}
	return nil
}
