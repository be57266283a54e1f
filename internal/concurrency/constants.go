package concurrency

// Log messages
const (
	LogMsgTransientRetry = "Transient storage failure, retrying"
)
