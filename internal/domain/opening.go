package domain

import (
	"time"

	"github.com/google/uuid"
)

// SettlementState tracks what the user did with an opened item
type SettlementState string

const (
	SettlementPending  SettlementState = "pending"
	SettlementKept     SettlementState = "kept"
	SettlementSoldBack SettlementState = "sold_back"
)

// ReelLength and ReelWinnerIndex describe the cosmetic reel layout
const (
	ReelLength      = 70
	ReelWinnerIndex = 60
)

// Opening is a single paid (or demo) box opening
type Opening struct {
	ID         uuid.UUID       `json:"id"`
	UserID     string          `json:"user_id"`
	BoxID      string          `json:"box_id"`
	Price      int64           `json:"price"`
	Result     OutcomeResult   `json:"result"`
	Settlement SettlementState `json:"settlement"`
	Demo       bool            `json:"demo,omitempty"`
	Reel       []ReelSlot      `json:"reel,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	SettledAt  *time.Time      `json:"settled_at,omitempty"`
}

// ReelSlot is one cosmetic tile of the spinning reel
type ReelSlot struct {
	ItemID string     `json:"item_id"`
	Rarity RarityTier `json:"rarity"`
}
