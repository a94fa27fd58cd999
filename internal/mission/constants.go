package mission

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTickInterval is how often the scheduler re-evaluates readiness
const DefaultTickInterval = time.Second

// Roll bounds, inclusive
const (
	RollMin = 1
	RollMax = 100
)

// User-facing text
const (
	// ReadyToCompleteText replaces the countdown once remaining time reaches zero
	ReadyToCompleteText = "Ready to Complete"

	// GenericFailMessage is shown when a mission fails without its own fail message
	GenericFailMessage = "Mission failed. Regroup and try again."

	// FailMessagePlaceholder marks a fail message authored as intentionally empty
	FailMessagePlaceholder = "none"

	AlertTitle      = "Mission Ready"
	AlertBodyFormat = "%s is ready to complete."

	// AlertKeyPrefix prefixes the mission id to form a stable alert key
	AlertKeyPrefix = "mission-"
)

// Error messages recorded on the snapshot for display
const (
	ErrMsgLoadFailed     = "Could not load missions. Pull to retry."
	ErrMsgStartFailed    = "Could not start mission"
	ErrMsgCompleteFailed = "Could not save mission result"
	ErrMsgSignInRequired = "Please sign in to continue"
)

// Log messages
const (
	LogMsgLoadStarted         = "Loading missions"
	LogMsgLoadFailed          = "Failed to load missions"
	LogMsgLoadApplied         = "Mission snapshot applied"
	LogMsgLoadDiscardedStale  = "Discarding stale mission load"
	LogMsgMissionStarted      = "Mission started"
	LogMsgStartFailed         = "Failed to start mission"
	LogMsgMissionReady        = "Mission ready to complete"
	LogMsgMissionResolved     = "Mission resolved"
	LogMsgResolutionWriteFail = "Failed to apply mission resolution"
	LogMsgAlertScheduleFailed = "Failed to schedule mission alert"
	LogMsgAlertCancelFailed   = "Failed to cancel mission alert"
	LogMsgEngineEvicted       = "Mission engine evicted"
)

// Manager defaults
const (
	DefaultEngineCacheSize = 1024
	DefaultEngineIdleTTL   = 30 * time.Minute
)

// resolutionNamespace scopes reward idempotency keys
var resolutionNamespace = uuid.MustParse("6f1c2b7e-4d0a-5e39-9b1f-8a2c3d4e5f60")
