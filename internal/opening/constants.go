package opening

import "time"

// MaxClientSeedLength bounds user supplied client seeds
const MaxClientSeedLength = 64

// DefaultSettleBatchSize is how many expired openings one sweep settles
const DefaultSettleBatchSize = 100

// DefaultSettleWindow is how long an opening may stay pending before it is kept automatically
const DefaultSettleWindow = 10 * time.Minute

// DemoUserID tags demo openings, which are never persisted
const DemoUserID = "demo"

// Retry operation names
const (
	OpCreateOpening    = "create_opening"
	OpSettleOpening    = "settle_opening"
	OpRevertSettlement = "revert_settlement"
	OpCompensateDebit  = "compensate_debit"
)

// Log messages
const (
	LogMsgOpenBoxCalled       = "OpenBox called"
	LogMsgSellBackCalled      = "SellBack called"
	LogMsgKeepItemCalled      = "KeepItem called"
	LogMsgDemoOpenCalled      = "DemoOpen called"
	LogMsgBoxOpened           = "Box opened"
	LogMsgDebitCompensated    = "Debit rolled back after failed opening"
	LogMsgCompensationFailed  = "Failed to roll back debit, balance needs manual repair"
	LogMsgSettlementReverted  = "Settlement reverted after failed payout"
	LogMsgRevertFailed        = "Failed to revert settlement, opening needs manual repair"
	LogMsgClientSeedGenerated = "Generated client seed for user"
	LogMsgClientSeedChanged   = "Client seed changed"
	LogMsgSeedRotated         = "Server seed rotated"
	LogMsgOpeningSettled      = "Opening settled"
	LogMsgRevealWithheld      = "Retired seed withheld until open battles finish"
	LogMsgExpiredSettled      = "Expired openings kept automatically"
	LogMsgExpiredSettleFailed = "Failed to keep expired opening"
	LogMsgPublishFailed       = "Failed to publish event"
	LogMsgInvariantViolation  = "Invariant violation during opening"
)

// Error context messages for wrapped errors
const (
	ErrContextFailedToGetBox        = "failed to get box"
	ErrContextFailedToDebit         = "failed to debit balance"
	ErrContextFailedToGetClientSeed = "failed to get client seed"
	ErrContextFailedToSetClientSeed = "failed to set client seed"
	ErrContextFailedToNextNonce     = "failed to advance nonce"
	ErrContextFailedToGetNonce      = "failed to get nonce"
	ErrContextFailedToRoll          = "failed to roll outcome"
	ErrContextFailedToPersist       = "failed to persist opening"
	ErrContextFailedToGetOpening    = "failed to get opening"
	ErrContextFailedToSettle        = "failed to settle opening"
	ErrContextFailedToCredit        = "failed to credit balance"
	ErrContextFailedToAddItem       = "failed to add item to inventory"
	ErrContextFailedToBuildReel     = "failed to build reel"
	ErrContextFailedToRevealSeed    = "failed to reveal server seed"
	ErrContextFailedToVerify        = "failed to verify opening"
	ErrContextFailedToRotateSeed    = "failed to rotate server seed"
	ErrContextFailedToListPending   = "failed to list pending openings"
	ErrContextFailedToGenerateSeed  = "failed to generate seed"
	ErrContextFailedToCountHolders  = "failed to count battles holding seed"
)
