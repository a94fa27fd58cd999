package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Mission Metrics
var (
	MissionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMissionsStarted,
			Help: HelpTextMissionsStarted,
		},
	)

	MissionsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMissionsResolved,
			Help: HelpTextMissionsResolved,
		},
		[]string{LabelOutcome},
	)

	MissionsReady = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMissionsReady,
			Help: HelpTextMissionsReady,
		},
	)

	CurrencyCredited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCurrencyCredited,
			Help: HelpTextCurrencyCredited,
		},
	)

	MissionReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMissionReloads,
			Help: HelpTextMissionReloads,
		},
	)

	MissionReloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameMissionReloadSeconds,
			Help:    HelpTextMissionReloadSeconds,
			Buckets: ReloadLatencyBuckets,
		},
	)

	AlertsFired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAlertsFired,
			Help: HelpTextAlertsFired,
		},
	)
)

// RegisterActiveEngines exposes the engine count reported by fn as a gauge
func RegisterActiveEngines(fn func() float64) prometheus.GaugeFunc {
	return promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: MetricNameActiveEngines,
			Help: HelpTextActiveEngines,
		},
		fn,
	)
}
