package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/NexusMissions_Go/internal/config"
	"github.com/osse101/NexusMissions_Go/internal/event"
	"github.com/osse101/NexusMissions_Go/internal/handler"
	"github.com/osse101/NexusMissions_Go/internal/notify"
)

// AlertStore bundles the chosen alert store with its shutdown and
// readiness hooks
type AlertStore struct {
	notify.Store
	Close   func() error
	Checker handler.HealthChecker // nil for the in-memory store
}

// InitializeAlertStore uses Redis when REDIS_ADDR is set and an in-memory
// store otherwise
func InitializeAlertStore(ctx context.Context, cfg *config.Config, publisher event.Publisher) (*AlertStore, error) {
	if cfg.RedisAddr == "" {
		slog.Warn(LogMsgAlertStoreMemory)
		return &AlertStore{
			Store: notify.NewMemoryStore(publisher),
			Close: func() error { return nil },
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, AlertStoreConnectTimeout)
	defer cancel()

	store, err := notify.NewRedisStore(connectCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, publisher)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
	}
	slog.Info(LogMsgAlertStoreRedis, "addr", cfg.RedisAddr, "db", cfg.RedisDB)

	return &AlertStore{
		Store:   store,
		Close:   store.Close,
		Checker: handler.HealthCheckFunc{Component: "alerts", Check: store.Ping},
	}, nil
}
