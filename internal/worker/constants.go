package worker

import "time"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for worker pool operations
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgQueueFull       = "Worker queue full, running job inline"
)

// ============================================================================
// Log Messages - Battle Worker
// ============================================================================

// Log messages for battle worker operations
const (
	LogMsgFailedToRecoverBattles = "Failed to recover battles on startup"
	LogMsgRecoveringBattles      = "Recovering battles"
	LogMsgSchedulingBackfill     = "Scheduling battle backfill"
	LogMsgBackfillTimerFired     = "Backfill timer fired"
	LogMsgFailedToBackfill       = "Failed to backfill battle"
	LogMsgFallbackBackfilled     = "Fallback timer backfilled battle"
	LogMsgRunningBattle          = "Running battle"
	LogMsgFailedToRunBattle      = "Failed to run battle"
	LogMsgBattleRunComplete      = "Battle run complete"
	LogMsgInvalidBattleEvent     = "Ignoring battle event with invalid payload"
	LogMsgCancelledBackfill      = "Cancelled pending backfill"
)

// ============================================================================
// Log Messages - Settlement Job
// ============================================================================

// Log messages for the pending settlement sweep
const (
	LogMsgSettlementSweepDone   = "Pending settlement sweep done"
	LogMsgSettlementSweepFailed = "Pending settlement sweep failed"
)

// ============================================================================
// Backfill Timing
// ============================================================================

// Default backfill timings
const (
	DefaultBackfillMinWait = 3 * time.Second
	DefaultBackfillMaxWait = 8 * time.Second
	DefaultBackfillCeiling = 20 * time.Second
	DefaultRunTimeout      = 30 * time.Second
)
