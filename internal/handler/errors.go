package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"
	ErrMsgDebugDisabled         = "Debug resolution is disabled"
)

// Success messages for API responses
const (
	MsgMissionStarted   = "Mission started"
	MsgMissionSucceeded = "Mission complete"
	MsgMissionFailed    = "Mission failed"
	MsgMissionsReloaded = "Missions reloaded"
	MsgResultDismissed  = "Result dismissed"
)

// Log messages
const (
	LogMsgRequestFailed   = "Mission request failed"
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgDebugRefused    = "Refused debug resolution"
)
