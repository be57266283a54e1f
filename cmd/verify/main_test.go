package main

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBattle_Go/configs"
	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/fairness"
	"github.com/osse101/CaseBattle_Go/internal/lootbox"
)

const (
	testServerSeed = "verify-cli-server-seed-0123456789abcdef"
	testClientSeed = "player-seed"
)

func starterOutcome(t *testing.T, nonce uint64) (string, domain.OutcomeResult) {
	t.Helper()
	catalog, err := lootbox.ParseCatalog(configs.DefaultBoxes)
	require.NoError(t, err)
	boxes, err := catalog.ListBoxes(t.Context())
	require.NoError(t, err)
	box := boxes[0]

	result, err := lootbox.Roll(domain.OutcomeRequest{
		ServerSeed: testServerSeed,
		ClientSeed: testClientSeed,
		Nonce:      nonce,
		Table:      box.Prizes,
	}, time.Now())
	require.NoError(t, err)
	return box.ID, result
}

func TestRun_MatchingOpening(t *testing.T) {
	boxID, result := starterOutcome(t, 7)

	var out bytes.Buffer
	err := run([]string{
		"-server-seed", testServerSeed,
		"-hash", fairness.HashServerSeed(testServerSeed),
		"-client-seed", testClientSeed,
		"-nonce", strconv.FormatUint(result.Nonce, 10),
		"-box", boxID,
		"-item", result.WonItemID,
	}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "commitment valid:  true")
	assert.Contains(t, out.String(), "expected item:     "+result.WonItemID)
	assert.Contains(t, out.String(), "match:             true")
}

func TestRun_WrongItem(t *testing.T) {
	boxID, result := starterOutcome(t, 3)

	var out bytes.Buffer
	err := run([]string{
		"-server-seed", testServerSeed,
		"-client-seed", testClientSeed,
		"-nonce", "3",
		"-box", boxID,
		"-item", result.WonItemID + "_forged",
	}, &out)

	assert.ErrorIs(t, err, errMismatch)
	assert.Contains(t, out.String(), "match:             false")
}

func TestRun_WrongCommitment(t *testing.T) {
	boxID, _ := starterOutcome(t, 0)

	var out bytes.Buffer
	err := run([]string{
		"-server-seed", testServerSeed,
		"-hash", fairness.HashServerSeed("some other seed"),
		"-client-seed", testClientSeed,
		"-box", boxID,
	}, &out)

	assert.ErrorIs(t, err, errMismatch)
	assert.Contains(t, out.String(), "commitment valid:  false")
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer

	assert.Error(t, run([]string{"-client-seed", "x", "-box", "starter"}, &out))
	assert.ErrorIs(t, run([]string{"-server-seed", "s", "-client-seed", "c", "-box", "nope"}, &out), domain.ErrBoxNotFound)
	assert.Error(t, run([]string{"-server-seed", "s", "-client-seed", "c", "-box", "starter", "-catalog", "/does/not/exist.json"}, &out))
	assert.Error(t, run([]string{"-unknown-flag"}, &out))
}
