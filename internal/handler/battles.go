package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/CaseBattle_Go/internal/battle"
	"github.com/osse101/CaseBattle_Go/internal/domain"
)

const (
	defaultBattleListLimit = 20
	maxBattleListLimit     = 100
)

type BattleHandler struct {
	service battle.Service
}

func NewBattleHandler(service battle.Service) *BattleHandler {
	return &BattleHandler{service: service}
}

type CreateBattleRequest struct {
	BoxID      string `json:"box_id" validate:"required,max=64"`
	SlotCount  int    `json:"slot_count" validate:"required,oneof=2 4 6"`
	RoundCount int    `json:"round_count" validate:"required,min=1"`
}

type ClaimRequest struct {
	Choice string `json:"choice" validate:"required,oneof=cash items"`
}

// JoinBattleResponse tells the caller which seat they got
type JoinBattleResponse struct {
	Slot   int            `json:"slot"`
	Battle *domain.Battle `json:"battle"`
}

// HandleCreateBattle debits the creator and seats them in slot 0
func (h *BattleHandler) HandleCreateBattle(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	var req CreateBattleRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create battle"); err != nil {
		return
	}

	b, err := h.service.CreateBattle(r.Context(), userID, req.BoxID, req.SlotCount, req.RoundCount)
	if err != nil {
		respondServiceError(w, r, "create battle", err)
		return
	}
	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgBackfillScheduledNote, Data: b})
}

func (h *BattleHandler) HandleJoinBattle(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}
	id, ok := PathUUID(w, r, "battleID", ErrMsgInvalidBattleID)
	if !ok {
		return
	}

	b, slot, err := h.service.JoinBattle(r.Context(), id, userID)
	if err != nil {
		respondServiceError(w, r, "join battle", err)
		return
	}
	respondJSON(w, http.StatusOK, JoinBattleResponse{Slot: slot, Battle: b})
}

func (h *BattleHandler) HandleGetBattle(w http.ResponseWriter, r *http.Request) {
	id, ok := PathUUID(w, r, "battleID", ErrMsgInvalidBattleID)
	if !ok {
		return
	}

	b, err := h.service.GetBattle(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get battle", err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// HandleListBattles lists battles by status, WAITING by default
func (h *BattleHandler) HandleListBattles(w http.ResponseWriter, r *http.Request) {
	status := domain.BattleStatus(strings.ToUpper(GetOptionalQueryParam(r, "status", string(domain.BattleStatusWaiting))))
	switch status {
	case domain.BattleStatusWaiting, domain.BattleStatusActive, domain.BattleStatusFinished:
	default:
		respondError(w, http.StatusBadRequest, ErrMsgInvalidStatus)
		return
	}
	limit, ok := GetLimitParam(w, r, defaultBattleListLimit, maxBattleListLimit)
	if !ok {
		return
	}

	battles, err := h.service.ListBattles(r.Context(), status, limit)
	if err != nil {
		respondServiceError(w, r, "list battles", err)
		return
	}
	respondJSON(w, http.StatusOK, battles)
}

// HandleClaim pays the prize pool to the winner as cash or items
func (h *BattleHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}
	id, ok := PathUUID(w, r, "battleID", ErrMsgInvalidBattleID)
	if !ok {
		return
	}

	var req ClaimRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim prize"); err != nil {
		return
	}

	b, err := h.service.Claim(r.Context(), id, userID, domain.ClaimChoice(req.Choice))
	if err != nil {
		respondServiceError(w, r, "claim prize", err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}
