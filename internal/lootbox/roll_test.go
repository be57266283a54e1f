package lootbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/fairness"
)

func TestRoll_RecordsVerifiableResult(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	req := domain.OutcomeRequest{ServerSeed: "server", ClientSeed: "client", Nonce: 9, Table: abcTable()}

	result, err := Roll(req, now)
	require.NoError(t, err)

	rv, err := fairness.Derive("server", "client", 9)
	require.NoError(t, err)
	want, err := Select(rv, abcTable())
	require.NoError(t, err)

	assert.Equal(t, want.ItemID, result.WonItemID)
	assert.Equal(t, want.DisplayValue, result.DisplayValue)
	assert.Equal(t, rv, result.RandomValue)
	assert.Equal(t, fairness.HashServerSeed("server"), result.ServerSeedHash)
	assert.Equal(t, uint64(9), result.Nonce)
	assert.Equal(t, "client", result.ClientSeed)
	assert.Equal(t, now, result.Timestamp)
}

func TestRoll_SameNonceSameOutcome(t *testing.T) {
	req := domain.OutcomeRequest{ServerSeed: "server", ClientSeed: "client", Nonce: 3, Table: abcTable()}

	first, err := Roll(req, time.Now())
	require.NoError(t, err)
	second, err := Roll(req, time.Now())
	require.NoError(t, err)

	assert.Equal(t, first.WonItemID, second.WonItemID)
	assert.Equal(t, first.RandomValue, second.RandomValue)
}

func TestRoll_ConfigurationErrors(t *testing.T) {
	_, err := Roll(domain.OutcomeRequest{ClientSeed: "c", Table: abcTable()}, time.Now())
	assert.ErrorIs(t, err, domain.ErrMissingServerSeed)

	_, err = Roll(domain.OutcomeRequest{ServerSeed: "s", ClientSeed: "c"}, time.Now())
	assert.ErrorIs(t, err, domain.ErrEmptyPrizeTable)
}

func TestVerify(t *testing.T) {
	req := domain.OutcomeRequest{ServerSeed: "server", ClientSeed: "client", Nonce: 1, Table: abcTable()}
	result, err := Roll(req, time.Now())
	require.NoError(t, err)

	v, err := Verify("server", result, abcTable())
	require.NoError(t, err)
	assert.True(t, v.CommitmentValid)
	assert.True(t, v.Match)
	assert.Equal(t, result.WonItemID, v.ExpectedItemID)

	v, err = Verify("wrong-seed", result, abcTable())
	require.NoError(t, err)
	assert.False(t, v.CommitmentValid)
	assert.False(t, v.Match)

	tampered := result
	tampered.WonItemID = "not-in-table"
	v, err = Verify("server", tampered, abcTable())
	require.NoError(t, err)
	assert.False(t, v.Match)
}
