package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RarityTier is the cosmetic rarity of a prize. It never influences selection.
type RarityTier int

const (
	RarityCommon RarityTier = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = [...]string{"common", "uncommon", "rare", "epic", "legendary"}

func (r RarityTier) String() string {
	if r < RarityCommon || r > RarityLegendary {
		return fmt.Sprintf("rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// ParseRarity converts a rarity name into a RarityTier
func ParseRarity(s string) (RarityTier, error) {
	for i, name := range rarityNames {
		if strings.EqualFold(s, name) {
			return RarityTier(i), nil
		}
	}
	return RarityCommon, fmt.Errorf("%w: unknown rarity %q", ErrInvalidPrizeTable, s)
}

func (r RarityTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RarityTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRarity(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// PrizeTableEntry is one weighted outcome of a box.
// Weight is a percentage in [0,100]; all entries of a table sum to 100.
type PrizeTableEntry struct {
	ItemID       string     `json:"item_id"`
	DisplayValue int64      `json:"display_value"`
	Rarity       RarityTier `json:"rarity"`
	Weight       float64    `json:"weight"`
}

// PrizeTable is an ordered list of entries. Order is significant for selection.
type PrizeTable []PrizeTableEntry

// Box is a purchasable case with a prize table
type Box struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Price     int64      `json:"price"`
	SalePrice *int64     `json:"sale_price,omitempty"`
	Prizes    PrizeTable `json:"prizes"`
}

// EffectivePrice is the sale price when one is set, otherwise the list price
func (b *Box) EffectivePrice() int64 {
	if b.SalePrice != nil {
		return *b.SalePrice
	}
	return b.Price
}

// Entry returns the prize table entry with the given item id
func (b *Box) Entry(itemID string) (PrizeTableEntry, bool) {
	for _, e := range b.Prizes {
		if e.ItemID == itemID {
			return e, true
		}
	}
	return PrizeTableEntry{}, false
}
