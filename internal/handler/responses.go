package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Reason is the stable code of a
// rejected precondition, empty for other failures.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	// Encode to a pooled buffer first so an encoding failure can still send a 500
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and maps it to a user facing response
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceCallFailed, "op", op, "kind", domain.KindOf(err).String(), "error", err)
	} else {
		log.Warn(LogMsgServiceCallFailed, "op", op, "reason", domain.ReasonCode(err), "error", err)
	}
	respondJSON(w, status, ErrorResponse{Error: msg, Reason: domain.ReasonCode(err)})
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgInvalidInputError  = "Invalid request. Please check your inputs."
	ErrMsgUnavailableError   = "Server is temporarily unavailable. Please try again later."

	// Wallet messages
	ErrMsgUserNotFoundError  = "User not found"
	ErrMsgNotEnoughMoneyErr  = "Not enough money"
	ErrMsgBoxNotFoundError   = "Box not found"
	ErrMsgSeedNotRevealedErr = "Server seed is not revealed yet. It is still active or held by an open battle."

	// Opening messages
	ErrMsgOpeningNotFoundError = "Opening not found"
	ErrMsgAlreadySettledError  = "That item was already kept or sold"

	// Battle messages
	ErrMsgBattleNotFoundError    = "Battle not found"
	ErrMsgBattleNotWaitingError  = "Battle is not accepting players"
	ErrMsgBattleNotActiveError   = "Battle is not running"
	ErrMsgBattleNotFinishedError = "Battle has not finished"
	ErrMsgSlotTakenError         = "Battle is full"
	ErrMsgAlreadySeatedError     = "You already joined this battle"
	ErrMsgRoundOrderError        = "Rounds must be resolved in order"
	ErrMsgAlreadyClaimedError    = "Prize already claimed"
	ErrMsgNotWinnerError         = "Only the winner can claim the prize"
	ErrMsgInvalidClaimError      = "Claim must be cash or items"
	ErrMsgInvalidSlotCountError  = "Battles have 2, 4 or 6 slots"
	ErrMsgInvalidRoundCountError = "Round count out of range"
)

var errorResponses = []struct {
	err    error
	status int
	msg    string
}{
	{domain.ErrUserNotFound, http.StatusNotFound, ErrMsgUserNotFoundError},
	{domain.ErrBoxNotFound, http.StatusNotFound, ErrMsgBoxNotFoundError},
	{domain.ErrOpeningNotFound, http.StatusNotFound, ErrMsgOpeningNotFoundError},
	{domain.ErrBattleNotFound, http.StatusNotFound, ErrMsgBattleNotFoundError},
	{domain.ErrInsufficientFunds, http.StatusPaymentRequired, ErrMsgNotEnoughMoneyErr},
	{domain.ErrOpeningAlreadySettled, http.StatusConflict, ErrMsgAlreadySettledError},
	{domain.ErrBattleNotWaiting, http.StatusConflict, ErrMsgBattleNotWaitingError},
	{domain.ErrBattleNotActive, http.StatusConflict, ErrMsgBattleNotActiveError},
	{domain.ErrBattleNotFinished, http.StatusConflict, ErrMsgBattleNotFinishedError},
	{domain.ErrSlotTaken, http.StatusConflict, ErrMsgSlotTakenError},
	{domain.ErrAlreadySeated, http.StatusConflict, ErrMsgAlreadySeatedError},
	{domain.ErrRoundOutOfOrder, http.StatusConflict, ErrMsgRoundOrderError},
	{domain.ErrRoundsIncomplete, http.StatusConflict, ErrMsgRoundOrderError},
	{domain.ErrAlreadyClaimed, http.StatusConflict, ErrMsgAlreadyClaimedError},
	{domain.ErrSeedNotRevealed, http.StatusConflict, ErrMsgSeedNotRevealedErr},
	{domain.ErrNotWinner, http.StatusForbidden, ErrMsgNotWinnerError},
	{domain.ErrInvalidClaimChoice, http.StatusBadRequest, ErrMsgInvalidClaimError},
	{domain.ErrInvalidSlotCount, http.StatusBadRequest, ErrMsgInvalidSlotCountError},
	{domain.ErrInvalidRoundCount, http.StatusBadRequest, ErrMsgInvalidRoundCountError},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidInputError},
	{domain.ErrMissingClientSeed, http.StatusBadRequest, ErrMsgInvalidInputError},
}

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
// This function converts internal service errors to appropriate HTTP status codes and messages
// that users can understand and act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	for _, e := range errorResponses {
		if errors.Is(err, e.err) {
			return e.status, e.msg
		}
	}

	if domain.IsTransient(err) {
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	// Configuration and invariant errors never leak details
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
