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

// Business metric names
const (
	MetricNameBoxesOpened      = "boxes_opened_total"
	MetricNameOpenFailures     = "box_open_failures_total"
	MetricNameOpeningsSettled  = "openings_settled_total"
	MetricNameCompensations    = "compensations_total"
	MetricNameBattlesCreated   = "battles_created_total"
	MetricNameBattlesActivated = "battles_activated_total"
	MetricNameBattlesFinished  = "battles_finished_total"
	MetricNameBattleClaims     = "battle_claims_total"
	MetricNameMoneySpent       = "money_spent_total"
	MetricNameMoneyPaidOut     = "money_paid_out_total"
	MetricNameSeedRotations    = "server_seed_rotations_total"
	MetricNameTransientRetries = "transient_retries_total"
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

// Business metric help text
const (
	HelpTextBoxesOpened      = "Total number of paid box openings"
	HelpTextOpenFailures     = "Total number of box openings that failed, by reason"
	HelpTextOpeningsSettled  = "Total number of openings settled, by settlement"
	HelpTextCompensations    = "Total number of compensating credits or reverts, by operation"
	HelpTextBattlesCreated   = "Total number of battles created"
	HelpTextBattlesActivated = "Total number of battles activated, by reason"
	HelpTextBattlesFinished  = "Total number of battles finished, by winner kind"
	HelpTextBattleClaims     = "Total number of battle prize claims, by choice"
	HelpTextMoneySpent       = "Total money debited for openings and battle entries"
	HelpTextMoneyPaidOut     = "Total money credited for sell-backs and battle claims"
	HelpTextSeedRotations    = "Total number of server seed rotations"
	HelpTextTransientRetries = "Total number of retried transient storage failures, by operation"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelType       = "type"
	LabelBox        = "box"
	LabelRarity     = "rarity"
	LabelReason     = "reason"
	LabelSettlement = "settlement"
	LabelOperation  = "operation"
	LabelWinner     = "winner"
	LabelChoice     = "choice"
)

// Winner label values
const (
	WinnerHuman = "human"
	WinnerBot   = "bot"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, ranging from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded          = "Metrics recorded for event"
)
