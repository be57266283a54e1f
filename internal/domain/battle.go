package domain

import (
	"time"

	"github.com/google/uuid"
)

// BattleStatus is the lifecycle state of a battle. It only moves forward.
type BattleStatus string

const (
	BattleStatusWaiting  BattleStatus = "WAITING"
	BattleStatusActive   BattleStatus = "ACTIVE"
	BattleStatusFinished BattleStatus = "FINISHED"
)

// SlotKind identifies who occupies a battle slot
type SlotKind string

const (
	SlotEmpty SlotKind = "empty"
	SlotHuman SlotKind = "human"
	SlotBot   SlotKind = "bot"
)

// ClaimChoice selects how a battle prize pool is paid out
type ClaimChoice string

const (
	ClaimCash  ClaimChoice = "cash"
	ClaimItems ClaimChoice = "items"
)

// Valid reports whether c is a known claim choice
func (c ClaimChoice) Valid() bool {
	return c == ClaimCash || c == ClaimItems
}

// ActivationReason records how a battle became full
type ActivationReason string

const (
	ActivationJoin     ActivationReason = "join"
	ActivationBackfill ActivationReason = "backfill"
)

// BotIdentity is a synthetic player generated for backfill
type BotIdentity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ClientSeed  string `json:"client_seed"`
}

// BattleSlot is one seat of a battle
type BattleSlot struct {
	Kind   SlotKind     `json:"kind"`
	UserID string       `json:"user_id,omitempty"`
	Bot    *BotIdentity `json:"bot,omitempty"`
}

// IsEmpty reports whether nobody occupies the slot
func (s BattleSlot) IsEmpty() bool {
	return s.Kind == SlotEmpty || s.Kind == ""
}

// Battle is a multi-slot case battle
type Battle struct {
	ID              uuid.UUID               `json:"id"`
	BoxID           string                  `json:"box_id"`
	EntryPrice      int64                   `json:"entry_price"`
	SlotCount       int                     `json:"slot_count"`
	RoundCount      int                     `json:"round_count"`
	Slots           []BattleSlot            `json:"slots"`
	Status          BattleStatus            `json:"status"`
	ServerSeedHash  string                  `json:"server_seed_hash"`
	RoundsResolved  int                     `json:"rounds_resolved"`
	PerRoundResults map[int][]OutcomeResult `json:"per_round_results"`
	Totals          []int64                 `json:"totals,omitempty"`
	WinnerSlot      *int                    `json:"winner_slot,omitempty"`
	Claimed         bool                    `json:"claimed"`
	ClaimChoice     ClaimChoice             `json:"claim_choice,omitempty"`
	ActivatedBy     ActivationReason        `json:"activated_by,omitempty"`
	Version         int64                   `json:"version"`
	CreatedAt       time.Time               `json:"created_at"`
	ActivatedAt     *time.Time              `json:"activated_at,omitempty"`
	FinishedAt      *time.Time              `json:"finished_at,omitempty"`
	ClaimedAt       *time.Time              `json:"claimed_at,omitempty"`
}

// FirstEmptySlot returns the lowest empty slot index, or -1 when full
func (b *Battle) FirstEmptySlot() int {
	for i, s := range b.Slots {
		if s.IsEmpty() {
			return i
		}
	}
	return -1
}

// IsFull reports whether every slot is occupied
func (b *Battle) IsFull() bool {
	return b.FirstEmptySlot() == -1
}

// IsSeated reports whether userID already holds a slot
func (b *Battle) IsSeated(userID string) bool {
	for _, s := range b.Slots {
		if s.Kind == SlotHuman && s.UserID == userID {
			return true
		}
	}
	return false
}

// HumanCount is the number of slots held by paying players
func (b *Battle) HumanCount() int {
	n := 0
	for _, s := range b.Slots {
		if s.Kind == SlotHuman {
			n++
		}
	}
	return n
}

// PrizePool is the sum of every entry price actually paid. Bots pay nothing.
func (b *Battle) PrizePool() int64 {
	return b.EntryPrice * int64(b.HumanCount())
}

// SlotResults returns the outcomes a slot collected across resolved rounds
func (b *Battle) SlotResults(slot int) []OutcomeResult {
	out := make([]OutcomeResult, 0, b.RoundsResolved)
	for r := 0; r < b.RoundsResolved; r++ {
		results := b.PerRoundResults[r]
		if slot < len(results) {
			out = append(out, results[slot])
		}
	}
	return out
}

// Clone returns a deep copy so callers can mutate without touching stored state
func (b *Battle) Clone() *Battle {
	c := *b
	c.Slots = make([]BattleSlot, len(b.Slots))
	for i, s := range b.Slots {
		c.Slots[i] = s
		if s.Bot != nil {
			bot := *s.Bot
			c.Slots[i].Bot = &bot
		}
	}
	c.PerRoundResults = make(map[int][]OutcomeResult, len(b.PerRoundResults))
	for r, results := range b.PerRoundResults {
		c.PerRoundResults[r] = append([]OutcomeResult(nil), results...)
	}
	if b.Totals != nil {
		c.Totals = append([]int64(nil), b.Totals...)
	}
	if b.WinnerSlot != nil {
		w := *b.WinnerSlot
		c.WinnerSlot = &w
	}
	c.ActivatedAt = cloneTime(b.ActivatedAt)
	c.FinishedAt = cloneTime(b.FinishedAt)
	c.ClaimedAt = cloneTime(b.ClaimedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
