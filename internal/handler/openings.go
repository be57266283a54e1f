package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/opening"
)

type settleFunc func(ctx context.Context, userID string, openingID uuid.UUID) (*domain.Opening, error)

type OpeningHandler struct {
	service opening.Service
}

func NewOpeningHandler(service opening.Service) *OpeningHandler {
	return &OpeningHandler{service: service}
}

func (h *OpeningHandler) HandleGetOpening(w http.ResponseWriter, r *http.Request) {
	id, ok := PathUUID(w, r, "openingID", ErrMsgInvalidOpeningID)
	if !ok {
		return
	}

	o, err := h.service.GetOpening(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get opening", err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// HandleSellBack credits the caller with the item's display value
func (h *OpeningHandler) HandleSellBack(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, "sell back", h.service.SellBack)
}

// HandleKeepItem moves the item into the caller's inventory
func (h *OpeningHandler) HandleKeepItem(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, "keep item", h.service.KeepItem)
}

func (h *OpeningHandler) settle(w http.ResponseWriter, r *http.Request, op string, fn settleFunc) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}
	id, ok := PathUUID(w, r, "openingID", ErrMsgInvalidOpeningID)
	if !ok {
		return
	}

	o, err := fn(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, r, op, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// HandleVerifyOpening recomputes an opening once its server seed is revealed
func (h *OpeningHandler) HandleVerifyOpening(w http.ResponseWriter, r *http.Request) {
	id, ok := PathUUID(w, r, "openingID", ErrMsgInvalidOpeningID)
	if !ok {
		return
	}

	v, err := h.service.VerifyOpening(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "verify opening", err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}
