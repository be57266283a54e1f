package lootbox

import (
	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/utils"
)

// ReelBuilder generates the decorative reel shown while a box spins.
// It runs after the outcome is fixed and has no influence on it.
type ReelBuilder struct {
	length      int
	winnerIndex int
	randInt     func(min, max int) int
}

// NewReelBuilder returns a builder with the standard reel layout
func NewReelBuilder() *ReelBuilder {
	return &ReelBuilder{
		length:      domain.ReelLength,
		winnerIndex: domain.ReelWinnerIndex,
		randInt:     utils.RandomInt,
	}
}

// Build returns the reel with winner at the winner index and teaser tiles next to it
func (b *ReelBuilder) Build(table domain.PrizeTable, winner domain.PrizeTableEntry) ([]domain.ReelSlot, error) {
	if len(table) == 0 {
		return nil, domain.ErrEmptyPrizeTable
	}

	highRarity := make([]domain.PrizeTableEntry, 0, len(table))
	for _, e := range table {
		if e.Rarity >= TeaserMinRarity {
			highRarity = append(highRarity, e)
		}
	}

	reel := make([]domain.ReelSlot, b.length)
	for i := range reel {
		reel[i] = b.pick(table)
	}
	for _, off := range TeaserOffsets {
		idx := b.winnerIndex + off
		if idx < 0 || idx >= b.length {
			continue
		}
		if len(highRarity) > 0 && b.randInt(1, 100) <= TeaserBiasPercent {
			reel[idx] = b.pick(highRarity)
		}
	}

	// Written last so no decoration pass can overwrite it.
	reel[b.winnerIndex] = domain.ReelSlot{ItemID: winner.ItemID, Rarity: winner.Rarity}
	return reel, nil
}

func (b *ReelBuilder) pick(entries []domain.PrizeTableEntry) domain.ReelSlot {
	e := entries[b.randInt(0, len(entries)-1)]
	return domain.ReelSlot{ItemID: e.ItemID, Rarity: e.Rarity}
}
