package lootbox

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

func abcTable() domain.PrizeTable {
	return domain.PrizeTable{
		{ItemID: "A", DisplayValue: 10, Rarity: domain.RarityCommon, Weight: 50},
		{ItemID: "B", DisplayValue: 50, Rarity: domain.RarityRare, Weight: 30},
		{ItemID: "C", DisplayValue: 200, Rarity: domain.RarityLegendary, Weight: 20},
	}
}

func TestSelect_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		rv   float64
		want string
	}{
		{"zero returns first entry", 0.0, "A"},
		{"inside first bucket", 0.4, "A"},
		{"first bucket upper bound inclusive", 0.5, "A"},
		{"inside second bucket", 0.75, "B"},
		{"inside third bucket", 0.81, "C"},
		{"near one returns last", 0.999999, "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.rv, abcTable())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ItemID)
		})
	}
}

func TestSelect_SingleEntryAlwaysWins(t *testing.T) {
	table := domain.PrizeTable{{ItemID: "only", Weight: 100}}
	for _, rv := range []float64{0, 0.25, 0.5, 0.999999} {
		got, err := Select(rv, table)
		require.NoError(t, err)
		assert.Equal(t, "only", got.ItemID)
	}
}

func TestSelect_ZeroWeightUnreachable(t *testing.T) {
	table := domain.PrizeTable{
		{ItemID: "never", Weight: 0},
		{ItemID: "A", Weight: 60},
		{ItemID: "ghost", Weight: 0},
		{ItemID: "B", Weight: 40},
	}

	got, err := Select(0, table)
	require.NoError(t, err)
	assert.Equal(t, "A", got.ItemID)

	got, err = Select(0.6, table)
	require.NoError(t, err)
	assert.Equal(t, "A", got.ItemID)

	got, err = Select(0.61, table)
	require.NoError(t, err)
	assert.Equal(t, "B", got.ItemID)
}

func TestSelect_DriftFallsBackToLastEntry(t *testing.T) {
	// Weights short of 100 leave the top of the range uncovered.
	table := domain.PrizeTable{
		{ItemID: "A", Weight: 49.99},
		{ItemID: "B", Weight: 49.99},
		{ItemID: "zero", Weight: 0},
	}

	got, err := Select(0.9999, table)
	require.NoError(t, err)
	assert.Equal(t, "B", got.ItemID)
}

func TestSelect_Errors(t *testing.T) {
	_, err := Select(0.5, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyPrizeTable)

	for _, rv := range []float64{-0.1, 1, 1.5, math.NaN()} {
		_, err := Select(rv, abcTable())
		assert.ErrorIs(t, err, domain.ErrRandomOutOfRange)
		assert.Equal(t, domain.KindInvariant, domain.KindOf(err))
	}

	_, err = Select(0.5, domain.PrizeTable{{ItemID: "x", Weight: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidPrizeTable)
}

func TestSelect_AlwaysReturnsMember(t *testing.T) {
	table := abcTable()
	members := map[string]bool{"A": true, "B": true, "C": true}
	for i := 0; i < 1000; i++ {
		rv := float64(i) / 1000
		got, err := Select(rv, table)
		require.NoError(t, err)
		assert.True(t, members[got.ItemID])
	}
}

func TestValidateTable(t *testing.T) {
	tests := []struct {
		name    string
		table   domain.PrizeTable
		wantErr error
	}{
		{"valid", abcTable(), nil},
		{"thirds within epsilon", domain.PrizeTable{
			{ItemID: "a", Weight: 33.33333},
			{ItemID: "b", Weight: 33.33333},
			{ItemID: "c", Weight: 33.33334},
		}, nil},
		{"empty", domain.PrizeTable{}, domain.ErrEmptyPrizeTable},
		{"sum too low", domain.PrizeTable{{ItemID: "a", Weight: 60}, {ItemID: "b", Weight: 30}}, domain.ErrInvalidPrizeTable},
		{"sum too high", domain.PrizeTable{{ItemID: "a", Weight: 60}, {ItemID: "b", Weight: 50}}, domain.ErrInvalidPrizeTable},
		{"negative weight", domain.PrizeTable{{ItemID: "a", Weight: -10}, {ItemID: "b", Weight: 110}}, domain.ErrInvalidPrizeTable},
		{"nan weight", domain.PrizeTable{{ItemID: "a", Weight: math.NaN()}}, domain.ErrInvalidPrizeTable},
		{"duplicate item", domain.PrizeTable{{ItemID: "a", Weight: 50}, {ItemID: "a", Weight: 50}}, domain.ErrInvalidPrizeTable},
		{"missing item id", domain.PrizeTable{{Weight: 100}}, domain.ErrInvalidPrizeTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTable(tt.table)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
		})
	}
}

func TestValidateBox(t *testing.T) {
	sale := int64(80)
	box := &domain.Box{ID: "b", Name: "Box", Price: 100, SalePrice: &sale, Prizes: abcTable()}
	assert.NoError(t, ValidateBox(box))

	tooHigh := int64(150)
	box.SalePrice = &tooHigh
	assert.ErrorIs(t, ValidateBox(box), domain.ErrInvalidPrizeTable)

	box.SalePrice = nil
	box.Price = 0
	assert.ErrorIs(t, ValidateBox(box), domain.ErrInvalidPrizeTable)
}
