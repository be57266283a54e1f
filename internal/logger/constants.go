package logger

// Log Level String Values
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log Format String Values
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Log Attribute Keys
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyUserID      = "user_id"
)

// Unrevealed server seeds must never reach a log sink. Any attribute with
// one of these keys is replaced before it is written.
var secretAttrKeys = map[string]struct{}{
	"server_seed": {},
	"api_key":     {},
	"password":    {},
}

const RedactedValue = "[REDACTED]"
