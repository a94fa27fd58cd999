package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/NexusMissions_Go/internal/event"
	"github.com/osse101/NexusMissions_Go/internal/scheduler"
	"github.com/osse101/NexusMissions_Go/internal/server"
	"github.com/osse101/NexusMissions_Go/internal/sse"
	"github.com/osse101/NexusMissions_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	Workers            *worker.Pool
	Hub                *sse.Hub
	Alerts             *AlertStore
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops components in dependency order:
//  1. HTTP server (stop accepting new requests)
//  2. Tick scheduler and worker pool (no new ticks or alert dispatch)
//  3. SSE hub (close client streams)
//  4. Alert store
//  5. Event publisher (flush pending retries)
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownScheduler)
	if c.Scheduler != nil {
		if err := c.Scheduler.Stop(ctx); err != nil {
			slog.Error(LogMsgSchedulerStopFailed, "error", err)
		}
	}
	if c.Workers != nil {
		c.Workers.Stop()
	}

	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.Alerts != nil && c.Alerts.Close != nil {
		if err := c.Alerts.Close(); err != nil {
			slog.Error(LogMsgAlertStoreCloseFailed, "error", err)
		}
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
