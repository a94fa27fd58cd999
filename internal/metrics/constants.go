package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Mission metric names
const (
	MetricNameMissionsStarted      = "missions_started_total"
	MetricNameMissionsResolved     = "missions_resolved_total"
	MetricNameMissionsReady        = "missions_ready_total"
	MetricNameCurrencyCredited     = "mission_currency_credited_total"
	MetricNameMissionReloads       = "mission_reloads_total"
	MetricNameMissionReloadSeconds = "mission_reload_duration_seconds"
	MetricNameAlertsFired          = "mission_alerts_fired_total"
	MetricNameActiveEngines        = "mission_engines_active"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Mission metric help text
const (
	HelpTextMissionsStarted      = "Total number of missions started"
	HelpTextMissionsResolved     = "Total number of mission resolutions by outcome"
	HelpTextMissionsReady        = "Total number of missions that became ready to complete"
	HelpTextCurrencyCredited     = "Total currency awarded by successful missions"
	HelpTextMissionReloads       = "Total number of applied mission snapshot reloads"
	HelpTextMissionReloadSeconds = "Mission snapshot reload latency in seconds"
	HelpTextAlertsFired          = "Total number of mission alerts delivered"
	HelpTextActiveEngines        = "Number of per-user mission engines held in memory"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelOutcome = "outcome"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDebug   = "debug"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets ranges from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ReloadLatencyBuckets covers the two concurrent remote reads of a reload
var ReloadLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadInvalid = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
