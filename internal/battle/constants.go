package battle

// ============================================================================
// Battle Rules
// ============================================================================

// AllowedSlotCounts are the supported battle sizes (1v1, 2v2 or 3v3 style)
var AllowedSlotCounts = []int{2, 4, 6}

// DefaultMaxRounds bounds how many boxes each player opens in one battle
const DefaultMaxRounds = 50

// DefaultListLimit caps ListBattles when the caller passes no limit
const DefaultListLimit = 50

// BotIDPrefix marks synthetic backfill players
const BotIDPrefix = "bot"

// botNames are combined with the battle id to name backfilled bots
var botNames = []string{
	"crimson fox", "silent viper", "lucky otter", "iron falcon",
	"neon tiger", "frosty lynx", "golden wolf", "shadow hare",
	"rusty badger", "swift mantis", "velvet raven", "storm bison",
}

// Retry operation names
const (
	OpCreateBattle = "create_battle"
	OpUpdateBattle = "update_battle"
	OpRefundEntry  = "refund_entry"
	OpRevertClaim  = "revert_claim"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgCreateBattleCalled = "CreateBattle called"
	LogMsgJoinBattleCalled   = "JoinBattle called"
	LogMsgBackfillCalled     = "Backfill called"
	LogMsgResolveRoundCalled = "ResolveRound called"
	LogMsgFinishCalled       = "Finish called"
	LogMsgClaimCalled        = "Claim called"
	LogMsgBattleCreated      = "Battle created"
	LogMsgPlayerJoined       = "Player joined battle"
	LogMsgBattleActivated    = "Battle activated"
	LogMsgBackfillNoop       = "Backfill skipped, battle no longer waiting"
	LogMsgRoundResolved      = "Battle round resolved"
	LogMsgBattleFinished     = "Battle finished"
	LogMsgBattleClaimed      = "Battle prize claimed"
	LogMsgEntryRefunded      = "Entry price refunded after failed join"
	LogMsgRefundFailed       = "Failed to refund entry price, balance needs manual repair"
	LogMsgClaimReverted      = "Claim reverted after failed payout"
	LogMsgClaimRevertFailed  = "Failed to revert claim, battle needs manual repair"
	LogMsgPublishFailed      = "Failed to publish event"
	LogMsgInvariantViolation = "Invariant violation during battle"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrContextFailedToGetBox    = "failed to get box"
	ErrContextFailedToDebit     = "failed to debit entry price"
	ErrContextFailedToCreate    = "failed to create battle"
	ErrContextFailedToGetBattle = "failed to get battle"
	ErrContextFailedToUpdate    = "failed to update battle"
	ErrContextFailedToDraw      = "failed to draw outcome"
	ErrContextFailedToCredit    = "failed to credit prize pool"
	ErrContextFailedToAddItems  = "failed to add prize items"
	ErrContextFailedToList      = "failed to list battles"
	ErrContextFailedToResolve   = "failed to resolve round"
)
