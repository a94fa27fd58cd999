package domain

// Event type constants used for event bus subscriptions, SSE filtering
// and metrics labels.
//
// Event types follow the pattern: <entity>.<action> (e.g., "mission.started")
const (
	// EventTypeMissionStarted is published after an assignment insert succeeds
	EventTypeMissionStarted = "mission.started"

	// EventTypeMissionReady is published once when an active assignment's countdown elapses
	EventTypeMissionReady = "mission.ready"

	// EventTypeMissionResolved is published as soon as a resolution roll completes,
	// before the remote mutation is applied
	EventTypeMissionResolved = "mission.resolved"

	// EventTypeMissionReloaded is published after a load cycle swaps in a new snapshot
	EventTypeMissionReloaded = "mission.reloaded"

	// EventTypeAlertFired is published by alert stores when a scheduled alert comes due
	EventTypeAlertFired = "alert.fired"
)

// MissionStartedPayload is the payload for EventTypeMissionStarted
type MissionStartedPayload struct {
	UserID    string `json:"user_id"`
	MissionID string `json:"mission_id"`
	Title     string `json:"title"`
	FinishAt  int64  `json:"finish_at"`
}

// MissionReadyPayload is the payload for EventTypeMissionReady
type MissionReadyPayload struct {
	UserID    string `json:"user_id"`
	MissionID string `json:"mission_id"`
	Title     string `json:"title"`
}

// MissionResolvedPayload is the payload for EventTypeMissionResolved
type MissionResolvedPayload struct {
	UserID    string `json:"user_id"`
	MissionID string `json:"mission_id"`
	Title     string `json:"title"`
	IsSuccess bool   `json:"is_success"`
	Message   string `json:"message"`
	Reward    int    `json:"reward"`
	Debug     bool   `json:"debug"`
}

// MissionReloadedPayload is the payload for EventTypeMissionReloaded
type MissionReloadedPayload struct {
	UserID     string `json:"user_id"`
	Generation uint64 `json:"generation"`
	Available  int    `json:"available"`
	Active     int    `json:"active"`
	Completed  int    `json:"completed"`
	DurationMs int64  `json:"duration_ms"`
}

// AlertFiredPayload is the payload for EventTypeAlertFired
type AlertFiredPayload struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	FireAt int64  `json:"fire_at"`
}
