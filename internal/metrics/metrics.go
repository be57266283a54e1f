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

// Business Metrics
var (
	BoxesOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBoxesOpened,
			Help: HelpTextBoxesOpened,
		},
		[]string{LabelBox, LabelRarity},
	)

	OpenFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOpenFailures,
			Help: HelpTextOpenFailures,
		},
		[]string{LabelReason},
	)

	OpeningsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOpeningsSettled,
			Help: HelpTextOpeningsSettled,
		},
		[]string{LabelSettlement},
	)

	Compensations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCompensations,
			Help: HelpTextCompensations,
		},
		[]string{LabelOperation},
	)

	BattlesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBattlesCreated,
			Help: HelpTextBattlesCreated,
		},
	)

	BattlesActivated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBattlesActivated,
			Help: HelpTextBattlesActivated,
		},
		[]string{LabelReason},
	)

	BattlesFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBattlesFinished,
			Help: HelpTextBattlesFinished,
		},
		[]string{LabelWinner},
	)

	BattleClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBattleClaims,
			Help: HelpTextBattleClaims,
		},
		[]string{LabelChoice},
	)

	MoneySpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMoneySpent,
			Help: HelpTextMoneySpent,
		},
	)

	MoneyPaidOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMoneyPaidOut,
			Help: HelpTextMoneyPaidOut,
		},
	)

	SeedRotations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSeedRotations,
			Help: HelpTextSeedRotations,
		},
	)

	TransientRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransientRetries,
			Help: HelpTextTransientRetries,
		},
		[]string{LabelOperation},
	)
)
