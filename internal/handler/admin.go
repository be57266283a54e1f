package handler

import (
	"net/http"

	"github.com/osse101/CaseBattle_Go/internal/logger"
	"github.com/osse101/CaseBattle_Go/internal/opening"
	"github.com/osse101/CaseBattle_Go/internal/repository"
)

// AdminHandler exposes operator actions. Routes sit behind the API key.
type AdminHandler struct {
	openings opening.Service
	ledger   repository.Ledger
}

func NewAdminHandler(openings opening.Service, ledger repository.Ledger) *AdminHandler {
	return &AdminHandler{openings: openings, ledger: ledger}
}

type CreditRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	Amount int64  `json:"amount" validate:"gt=0"`
}

// HandleRotateSeed retires the active server seed and publishes the next commitment
func (h *AdminHandler) HandleRotateSeed(w http.ResponseWriter, r *http.Request) {
	c, err := h.openings.RotateSeed(r.Context())
	if err != nil {
		respondServiceError(w, r, "rotate seed", err)
		return
	}

	logger.FromContext(r.Context()).Info(MsgSeedRotatedSuccess, "retired_hash", c.Hash)
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgSeedRotatedSuccess, Data: c})
}

// HandleCredit tops up a user's balance
func (h *AdminHandler) HandleCredit(w http.ResponseWriter, r *http.Request) {
	var req CreditRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Credit user"); err != nil {
		return
	}

	if err := h.ledger.Credit(r.Context(), req.UserID, req.Amount); err != nil {
		respondServiceError(w, r, "credit user", err)
		return
	}

	balance, err := h.ledger.Balance(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, "get balance", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{
		Message: MsgCreditedSuccess,
		Data:    BalanceResponse{UserID: req.UserID, Balance: balance},
	})
}
