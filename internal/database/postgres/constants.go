package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeCheckViolation is raised when a CHECK constraint fails
	PgErrorCodeCheckViolation = "23514"
	// PgErrorCodeSerializationFailure is raised when a serializable transaction conflicts
	PgErrorCodeSerializationFailure = "40001"
	// PgErrorCodeDeadlockDetected is raised when two transactions deadlock
	PgErrorCodeDeadlockDetected = "40P01"
	// PgErrorCodeQueryCanceled is raised when statement_timeout fires
	PgErrorCodeQueryCanceled = "57014"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Ledger
const (
	ErrMsgFailedToDebit      = "failed to debit balance"
	ErrMsgFailedToCredit     = "failed to credit balance"
	ErrMsgFailedToGetBalance = "failed to get balance"
)

// Error Messages - Seeds
const (
	ErrMsgFailedToGetClientSeed = "failed to get client seed"
	ErrMsgFailedToSetClientSeed = "failed to set client seed"
	ErrMsgFailedToAdvanceNonce  = "failed to advance nonce"
)

// Error Messages - Inventory
const (
	ErrMsgFailedToAddItem  = "failed to add inventory item"
	ErrMsgFailedToGetItems = "failed to get inventory"
)

// Error Messages - Openings
const (
	ErrMsgFailedToCreateOpening = "failed to create opening"
	ErrMsgFailedToGetOpening    = "failed to get opening"
	ErrMsgFailedToSettleOpening = "failed to settle opening"
	ErrMsgFailedToListOpenings  = "failed to list pending openings"
)

// Error Messages - Battles
const (
	ErrMsgFailedToCreateBattle = "failed to create battle"
	ErrMsgFailedToGetBattle    = "failed to get battle"
	ErrMsgFailedToSwapBattle   = "failed to update battle"
	ErrMsgFailedToListBattles  = "failed to list battles"
	ErrMsgFailedToCountBattles = "failed to count battles"
	ErrMsgFailedToEncodeBattle = "failed to encode battle"
	ErrMsgFailedToDecodeBattle = "failed to decode battle"
)

// Log Messages
const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
)
