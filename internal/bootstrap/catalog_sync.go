package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/NexusMissions_Go/internal/catalog"
	"github.com/osse101/NexusMissions_Go/internal/repository"
)

// SyncMissionCatalog loads, validates and upserts the mission catalog file
func SyncMissionCatalog(ctx context.Context, path string, repo repository.MissionCatalog) error {
	slog.Info(LogMsgSyncingCatalog, "path", path)

	result, err := catalog.LoadAndSync(ctx, path, repo)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSyncCatalog, err)
	}

	if result.MissionsInserted > 0 || result.MissionsUpdated > 0 {
		slog.Info(LogMsgCatalogSynced,
			"inserted", result.MissionsInserted,
			"updated", result.MissionsUpdated)
	} else {
		slog.Info(LogMsgCatalogUnchanged)
	}
	return nil
}
