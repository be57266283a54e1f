package lootbox

import (
	"fmt"
	"math"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// Select walks the table in authored order accumulating weight/100 and returns
// the first entry whose cumulative share reaches randomValue. Zero-weight
// entries are skipped. If drift leaves randomValue above the final cumulative
// sum, the last reachable entry is returned.
func Select(randomValue float64, table domain.PrizeTable) (domain.PrizeTableEntry, error) {
	if len(table) == 0 {
		return domain.PrizeTableEntry{}, domain.ErrEmptyPrizeTable
	}
	if math.IsNaN(randomValue) || randomValue < 0 || randomValue >= 1 {
		return domain.PrizeTableEntry{}, fmt.Errorf("%w: %v", domain.ErrRandomOutOfRange, randomValue)
	}

	cumulative := 0.0
	last := -1
	for i, entry := range table {
		if entry.Weight <= 0 {
			continue
		}
		last = i
		cumulative += entry.Weight / TotalWeight
		if randomValue <= cumulative {
			return entry, nil
		}
	}

	if last == -1 {
		return domain.PrizeTableEntry{}, fmt.Errorf("%w: no entry has positive weight", domain.ErrInvalidPrizeTable)
	}
	return table[last], nil
}

// ValidateTable checks a prize table before it is accepted from a catalog
func ValidateTable(table domain.PrizeTable) error {
	if len(table) == 0 {
		return domain.ErrEmptyPrizeTable
	}

	seen := make(map[string]struct{}, len(table))
	sum := 0.0
	for i, entry := range table {
		if entry.ItemID == "" {
			return fmt.Errorf("%w: entry %d has no item id", domain.ErrInvalidPrizeTable, i)
		}
		if _, dup := seen[entry.ItemID]; dup {
			return fmt.Errorf("%w: duplicate item %q", domain.ErrInvalidPrizeTable, entry.ItemID)
		}
		seen[entry.ItemID] = struct{}{}

		if math.IsNaN(entry.Weight) || math.IsInf(entry.Weight, 0) || entry.Weight < 0 || entry.Weight > TotalWeight {
			return fmt.Errorf("%w: item %q weight %v outside [0,100]", domain.ErrInvalidPrizeTable, entry.ItemID, entry.Weight)
		}
		if entry.DisplayValue < 0 {
			return fmt.Errorf("%w: item %q has negative value", domain.ErrInvalidPrizeTable, entry.ItemID)
		}
		sum += entry.Weight
	}

	if math.Abs(sum-TotalWeight) > WeightEpsilon {
		return fmt.Errorf("%w: weights sum to %v, want %v", domain.ErrInvalidPrizeTable, sum, TotalWeight)
	}
	return nil
}

// ValidateBox checks the box fields and its prize table
func ValidateBox(box *domain.Box) error {
	if box.ID == "" {
		return fmt.Errorf("%w: box has no id", domain.ErrInvalidPrizeTable)
	}
	if box.Price <= 0 {
		return fmt.Errorf("%w: box %q price must be positive", domain.ErrInvalidPrizeTable, box.ID)
	}
	if box.SalePrice != nil && (*box.SalePrice <= 0 || *box.SalePrice > box.Price) {
		return fmt.Errorf("%w: box %q sale price out of range", domain.ErrInvalidPrizeTable, box.ID)
	}
	if err := ValidateTable(box.Prizes); err != nil {
		return fmt.Errorf("%s %q: %w", ErrContextInvalidBox, box.ID, err)
	}
	return nil
}
