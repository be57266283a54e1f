package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/CaseBattle_Go/internal/opening"
)

type FairnessHandler struct {
	service opening.Service
}

func NewFairnessHandler(service opening.Service) *FairnessHandler {
	return &FairnessHandler{service: service}
}

// SetClientSeedRequest replaces the caller's client seed
type SetClientSeedRequest struct {
	ClientSeed string `json:"client_seed" validate:"required,max=64,clientseed"`
}

// HandleGetState returns the active commitment with the caller's seed and nonce
func (h *FairnessHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	state, err := h.service.GetFairnessState(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "get fairness state", err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *FairnessHandler) HandleSetClientSeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	var req SetClientSeedRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set client seed"); err != nil {
		return
	}

	state, err := h.service.SetClientSeed(r.Context(), userID, req.ClientSeed)
	if err != nil {
		respondServiceError(w, r, "set client seed", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgClientSeedSetSuccess, Data: state})
}

// HandleRevealSeed returns a retired server seed by its published hash
func (h *FairnessHandler) HandleRevealSeed(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.RevealSeed(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		respondServiceError(w, r, "reveal seed", err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}
