package handler

import (
	"net/http"

	"github.com/osse101/CaseBattle_Go/internal/repository"
)

type WalletHandler struct {
	ledger    repository.Ledger
	inventory repository.Inventory
}

func NewWalletHandler(ledger repository.Ledger, inventory repository.Inventory) *WalletHandler {
	return &WalletHandler{ledger: ledger, inventory: inventory}
}

type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

type InventoryResponse struct {
	UserID string         `json:"user_id"`
	Items  map[string]int `json:"items"`
}

func (h *WalletHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	balance, err := h.ledger.Balance(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "get balance", err)
		return
	}
	respondJSON(w, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

func (h *WalletHandler) HandleGetInventory(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	items, err := h.inventory.GetItems(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "get inventory", err)
		return
	}
	if items == nil {
		items = map[string]int{}
	}
	respondJSON(w, http.StatusOK, InventoryResponse{UserID: userID, Items: items})
}
