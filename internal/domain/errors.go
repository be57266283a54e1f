package domain

import (
	"context"
	"errors"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Configuration errors
	ErrMsgMissingServerSeed = "server seed is not configured"
	ErrMsgMissingClientSeed = "client seed is empty"
	ErrMsgInvalidPrizeTable = "invalid prize table"
	ErrMsgEmptyPrizeTable   = "prize table has no entries"
	ErrMsgInvalidSlotCount  = "slot count must be 2, 4 or 6"
	ErrMsgInvalidRoundCount = "round count out of range"
	ErrMsgInvalidConfig     = "invalid configuration"

	// Precondition errors
	ErrMsgUserNotFound          = "user not found"
	ErrMsgBoxNotFound           = "box not found"
	ErrMsgInsufficientFunds     = "insufficient funds"
	ErrMsgOpeningNotFound       = "opening not found"
	ErrMsgOpeningAlreadySettled = "opening already settled"
	ErrMsgBattleNotFound        = "battle not found"
	ErrMsgBattleNotWaiting      = "battle is not accepting players"
	ErrMsgBattleNotActive       = "battle is not active"
	ErrMsgBattleNotFinished     = "battle is not finished"
	ErrMsgSlotTaken             = "slot taken"
	ErrMsgAlreadySeated         = "user already seated in battle"
	ErrMsgRoundOutOfOrder       = "round out of order"
	ErrMsgRoundsIncomplete      = "battle rounds incomplete"
	ErrMsgAlreadyClaimed        = "prize already claimed"
	ErrMsgNotWinner             = "user is not the battle winner"
	ErrMsgInvalidClaimChoice    = "invalid claim choice"
	ErrMsgSeedNotRevealed       = "server seed not revealed yet"
	ErrMsgInvalidInput          = "invalid input"

	// Transient storage errors
	ErrMsgWriteConflict  = "write conflict"
	ErrMsgStorageTimeout = "storage timeout"

	// Invariant violations
	ErrMsgRandomOutOfRange   = "random value outside [0,1)"
	ErrMsgInvariantViolation = "invariant violation"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Configuration errors
	ErrMissingServerSeed = errors.New(ErrMsgMissingServerSeed)
	ErrMissingClientSeed = errors.New(ErrMsgMissingClientSeed)
	ErrInvalidPrizeTable = errors.New(ErrMsgInvalidPrizeTable)
	ErrEmptyPrizeTable   = errors.New(ErrMsgEmptyPrizeTable)
	ErrInvalidConfig     = errors.New(ErrMsgInvalidConfig)

	// Precondition errors
	ErrUserNotFound          = errors.New(ErrMsgUserNotFound)
	ErrBoxNotFound           = errors.New(ErrMsgBoxNotFound)
	ErrInsufficientFunds     = errors.New(ErrMsgInsufficientFunds)
	ErrOpeningNotFound       = errors.New(ErrMsgOpeningNotFound)
	ErrOpeningAlreadySettled = errors.New(ErrMsgOpeningAlreadySettled)
	ErrBattleNotFound        = errors.New(ErrMsgBattleNotFound)
	ErrBattleNotWaiting      = errors.New(ErrMsgBattleNotWaiting)
	ErrBattleNotActive       = errors.New(ErrMsgBattleNotActive)
	ErrBattleNotFinished     = errors.New(ErrMsgBattleNotFinished)
	ErrSlotTaken             = errors.New(ErrMsgSlotTaken)
	ErrAlreadySeated         = errors.New(ErrMsgAlreadySeated)
	ErrRoundOutOfOrder       = errors.New(ErrMsgRoundOutOfOrder)
	ErrRoundsIncomplete      = errors.New(ErrMsgRoundsIncomplete)
	ErrAlreadyClaimed        = errors.New(ErrMsgAlreadyClaimed)
	ErrNotWinner             = errors.New(ErrMsgNotWinner)
	ErrInvalidClaimChoice    = errors.New(ErrMsgInvalidClaimChoice)
	ErrInvalidSlotCount      = errors.New(ErrMsgInvalidSlotCount)
	ErrInvalidRoundCount     = errors.New(ErrMsgInvalidRoundCount)
	ErrSeedNotRevealed       = errors.New(ErrMsgSeedNotRevealed)
	ErrInvalidInput          = errors.New(ErrMsgInvalidInput)

	// Transient storage errors
	ErrWriteConflict  = errors.New(ErrMsgWriteConflict)
	ErrStorageTimeout = errors.New(ErrMsgStorageTimeout)

	// Invariant violations
	ErrRandomOutOfRange   = errors.New(ErrMsgRandomOutOfRange)
	ErrInvariantViolation = errors.New(ErrMsgInvariantViolation)
)

// ErrorKind groups errors by how callers must react to them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindConfiguration is fatal and never retried.
	KindConfiguration
	// KindPrecondition is rejected synchronously with no side effects.
	KindPrecondition
	// KindTransient may be retried at the operation boundary.
	KindTransient
	// KindInvariant is a bug caught at runtime; the operation aborts.
	KindInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindPrecondition:
		return "precondition"
	case KindTransient:
		return "transient"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

var configurationErrors = []error{
	ErrMissingServerSeed, ErrMissingClientSeed, ErrInvalidPrizeTable, ErrEmptyPrizeTable, ErrInvalidConfig,
}

var invariantErrors = []error{ErrRandomOutOfRange, ErrInvariantViolation}

// preconditionReasons maps each precondition error to its stable reason code.
var preconditionReasons = []struct {
	err    error
	reason string
}{
	{ErrUserNotFound, "user_not_found"},
	{ErrBoxNotFound, "box_not_found"},
	{ErrInsufficientFunds, "insufficient_funds"},
	{ErrOpeningNotFound, "opening_not_found"},
	{ErrOpeningAlreadySettled, "opening_already_settled"},
	{ErrBattleNotFound, "battle_not_found"},
	{ErrBattleNotWaiting, "battle_not_waiting"},
	{ErrBattleNotActive, "battle_not_active"},
	{ErrBattleNotFinished, "battle_not_finished"},
	{ErrSlotTaken, "slot_taken"},
	{ErrAlreadySeated, "already_seated"},
	{ErrRoundOutOfOrder, "round_out_of_order"},
	{ErrRoundsIncomplete, "rounds_incomplete"},
	{ErrAlreadyClaimed, "already_claimed"},
	{ErrNotWinner, "not_winner"},
	{ErrInvalidClaimChoice, "invalid_claim_choice"},
	{ErrInvalidSlotCount, "invalid_slot_count"},
	{ErrInvalidRoundCount, "invalid_round_count"},
	{ErrSeedNotRevealed, "seed_not_revealed"},
	{ErrInvalidInput, "invalid_input"},
}

// KindOf classifies err into the error taxonomy.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, e := range configurationErrors {
		if errors.Is(err, e) {
			return KindConfiguration
		}
	}
	for _, e := range invariantErrors {
		if errors.Is(err, e) {
			return KindInvariant
		}
	}
	if IsTransient(err) {
		return KindTransient
	}
	for _, p := range preconditionReasons {
		if errors.Is(err, p.err) {
			return KindPrecondition
		}
	}
	return KindUnknown
}

// IsTransient reports whether err is a storage failure worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrWriteConflict) ||
		errors.Is(err, ErrStorageTimeout) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ReasonCode returns the stable reason code for a precondition error, or ""
// when err is not a precondition violation.
func ReasonCode(err error) string {
	for _, p := range preconditionReasons {
		if errors.Is(err, p.err) {
			return p.reason
		}
	}
	return ""
}
