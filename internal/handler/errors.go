package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Identity and parameter error messages
	ErrMsgMissingUserID     = "Missing X-User-ID header"
	ErrMsgInvalidOpeningID  = "Invalid opening ID"
	ErrMsgInvalidBattleID   = "Invalid battle ID"
	ErrMsgInvalidStatus     = "Invalid battle status"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
	ErrMsgMissingQueryParam = "Missing %s query parameter"
)

// Success messages for API responses
const (
	MsgSeedRotatedSuccess    = "Server seed rotated"
	MsgCreditedSuccess       = "Balance credited"
	MsgClientSeedSetSuccess  = "Client seed updated"
	MsgBackfillScheduledNote = "Empty slots are filled with bots if nobody joins"
)

// Log messages for handler operations
const (
	LogMsgServiceCallFailed = "Service call failed"
	LogMsgDecodeFailed      = "Failed to decode request"
	LogMsgRequestDecoded    = "Request decoded"
	LogMsgMissingUserID     = "Request without user identity"
	LogMsgReadinessFailed   = "Readiness check failed"
)

// HeaderUserID carries the caller's player identity, set by the trusted front end
const HeaderUserID = "X-User-ID"
