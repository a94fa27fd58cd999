package config

import "time"

// Defaults applied when the environment leaves a value unset
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultLogDir      = "logs"
	DefaultServiceName = "nexus-missions"
	DefaultVersion     = "dev"
	DefaultEnvironment = "dev"
	DefaultDBName      = "nexus"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = time.Hour

	DefaultTickInterval       = time.Second
	DefaultEngineCacheSize    = 1024
	DefaultEngineIdleTTL      = 30 * time.Minute
	DefaultCatalogCacheTTL    = 5 * time.Minute
	DefaultMissionCatalogPath = "configs/missions/catalog.json"
	DefaultDeadLetterPath     = "logs/event_deadletter.jsonl"
	DefaultWorkerCount        = 2
	DefaultShutdownTimeout    = 15 * time.Second

	DefaultEventLogRetentionDays = 90
)
