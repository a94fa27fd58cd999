package eventlog

import "github.com/osse101/NexusMissions_Go/internal/event"

// LoggedTypes are the event types persisted to the audit trail. Reload
// events fire on every state refresh and are left out.
var LoggedTypes = []event.Type{
	event.MissionStarted,
	event.MissionReady,
	event.MissionResolved,
	event.AlertFired,
}

// History limits
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// DefaultRetentionDays is how long audit rows are kept
const DefaultRetentionDays = 90

// Log messages - service events
const (
	LogMsgPayloadEncodeFailed = "Event payload could not be encoded, skipping log"
	LogMsgFailedToLogEvent    = "Failed to log event to database"
	LogMsgEventLogged         = "Event logged to database"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting event log cleanup job"
	LogMsgCleanupJobFailed    = "Event log cleanup failed"
	LogMsgCleanupJobCompleted = "Event log cleanup completed"
)
