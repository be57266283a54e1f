package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/CaseBattle_Go/internal/opening"
	"github.com/osse101/CaseBattle_Go/internal/repository"
)

// BoxHandler serves the box catalog and box openings
type BoxHandler struct {
	catalog repository.Catalog
	service opening.Service
}

func NewBoxHandler(catalog repository.Catalog, service opening.Service) *BoxHandler {
	return &BoxHandler{catalog: catalog, service: service}
}

// HandleListBoxes returns every box in the catalog
func (h *BoxHandler) HandleListBoxes(w http.ResponseWriter, r *http.Request) {
	boxes, err := h.catalog.ListBoxes(r.Context())
	if err != nil {
		respondServiceError(w, r, "list boxes", err)
		return
	}
	respondJSON(w, http.StatusOK, boxes)
}

func (h *BoxHandler) HandleGetBox(w http.ResponseWriter, r *http.Request) {
	box, err := h.catalog.GetBox(r.Context(), chi.URLParam(r, "boxID"))
	if err != nil {
		respondServiceError(w, r, "get box", err)
		return
	}
	respondJSON(w, http.StatusOK, box)
}

// HandleOpenBox debits the caller and draws a verifiable outcome
func (h *BoxHandler) HandleOpenBox(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	o, err := h.service.OpenBox(r.Context(), userID, chi.URLParam(r, "boxID"))
	if err != nil {
		respondServiceError(w, r, "open box", err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

// HandleDemoOpen draws without payment. No identity needed.
func (h *BoxHandler) HandleDemoOpen(w http.ResponseWriter, r *http.Request) {
	demo, err := h.service.DemoOpen(r.Context(), chi.URLParam(r, "boxID"))
	if err != nil {
		respondServiceError(w, r, "demo open", err)
		return
	}
	respondJSON(w, http.StatusOK, demo)
}
