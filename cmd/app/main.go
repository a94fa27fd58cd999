package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/NexusMissions_Go/internal/bootstrap"
	"github.com/osse101/NexusMissions_Go/internal/config"
	"github.com/osse101/NexusMissions_Go/internal/database"
	"github.com/osse101/NexusMissions_Go/internal/database/postgres"
	"github.com/osse101/NexusMissions_Go/internal/eventlog"
	"github.com/osse101/NexusMissions_Go/internal/handler"
	"github.com/osse101/NexusMissions_Go/internal/metrics"
	"github.com/osse101/NexusMissions_Go/internal/mission"
	"github.com/osse101/NexusMissions_Go/internal/scheduler"
	"github.com/osse101/NexusMissions_Go/internal/server"
	"github.com/osse101/NexusMissions_Go/internal/sse"
	"github.com/osse101/NexusMissions_Go/internal/worker"
	"github.com/osse101/NexusMissions_Go/migrations"
)

const (
	// tickQueueSize bounds queued tick jobs; a full queue drops the tick
	tickQueueSize = 4

	eventLogCleanupInterval = 24 * time.Hour
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load reads .env, so validation runs after it
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return err
	}

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		log.Printf("Invalid environment: %v", err)
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	for _, w := range warnings {
		slog.Warn("Configuration warning", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if err := database.Migrate(ctx, dbPool, migrations.FS); err != nil {
		return err
	}

	missionRepo := postgres.NewMissionRepository(dbPool, cfg.CatalogCacheTTL)
	if err := bootstrap.SyncMissionCatalog(ctx, cfg.MissionCatalogPath, missionRepo); err != nil {
		return err
	}

	eventBus, resilientPublisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	hub := sse.NewHub()
	hub.Start()

	eventLog := eventlog.NewService(postgres.NewEventLogRepository(dbPool))
	if err := bootstrap.RegisterEventHandlers(eventBus, hub, eventLog); err != nil {
		return err
	}

	alerts, err := bootstrap.InitializeAlertStore(ctx, cfg, resilientPublisher)
	if err != nil {
		return err
	}

	manager := mission.NewManager(mission.Deps{
		Gateway:   missionRepo,
		Alerts:    alerts,
		Publisher: resilientPublisher,
	}, mission.ManagerConfig{
		CacheSize: cfg.EngineCacheSize,
		IdleTTL:   cfg.EngineIdleTTL,
	})
	metrics.RegisterActiveEngines(func() float64 { return float64(manager.Len()) })

	workers := worker.NewPool(cfg.WorkerCount, tickQueueSize)
	workers.Start()

	ticks := scheduler.New(workers)
	ticks.Schedule(cfg.TickInterval, worker.NewMissionTickJob(manager, alerts, nil))
	ticks.Schedule(eventLogCleanupInterval, eventlog.NewCleanupJob(eventLog, cfg.EventLogRetentionDays))

	var checkers []handler.HealthChecker
	if alerts.Checker != nil {
		checkers = append(checkers, alerts.Checker)
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		ServiceName:    cfg.ServiceName,
		DBPool:         dbPool,
		Missions:       manager,
		Hub:            hub,
		History:        eventLog,
		AllowDebug:     !cfg.IsProduction(),
		HealthCheckers: checkers,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          ticks,
		Workers:            workers,
		Hub:                hub,
		Alerts:             alerts,
		ResilientPublisher: resilientPublisher,
	})
	return nil
}
