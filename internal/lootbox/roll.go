package lootbox

import (
	"fmt"
	"time"

	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/fairness"
)

// Roll derives the random value for req and selects the winning entry.
// The returned result carries the seed commitment, never the seed itself.
func Roll(req domain.OutcomeRequest, now time.Time) (domain.OutcomeResult, error) {
	rv, err := fairness.Derive(req.ServerSeed, req.ClientSeed, req.Nonce)
	if err != nil {
		return domain.OutcomeResult{}, fmt.Errorf("%s: %w", ErrContextDeriveFailed, err)
	}

	entry, err := Select(rv, req.Table)
	if err != nil {
		return domain.OutcomeResult{}, fmt.Errorf("%s: %w", ErrContextSelectFailed, err)
	}

	return domain.OutcomeResult{
		WonItemID:      entry.ItemID,
		DisplayValue:   entry.DisplayValue,
		Rarity:         entry.Rarity,
		RandomValue:    rv,
		ServerSeedHash: fairness.HashServerSeed(req.ServerSeed),
		ClientSeed:     req.ClientSeed,
		Nonce:          req.Nonce,
		Timestamp:      now.UTC(),
	}, nil
}

// Verify replays a recorded result against a revealed server seed
func Verify(serverSeed string, result domain.OutcomeResult, table domain.PrizeTable) (domain.Verification, error) {
	v := domain.Verification{
		CommitmentValid: fairness.VerifyCommitment(serverSeed, result.ServerSeedHash),
		RecordedItemID:  result.WonItemID,
	}

	rv, err := fairness.Derive(serverSeed, result.ClientSeed, result.Nonce)
	if err != nil {
		return v, fmt.Errorf("%s: %w", ErrContextDeriveFailed, err)
	}
	v.RandomValue = rv

	entry, err := Select(rv, table)
	if err != nil {
		return v, fmt.Errorf("%s: %w", ErrContextSelectFailed, err)
	}
	v.ExpectedItemID = entry.ItemID
	v.Match = v.CommitmentValid && entry.ItemID == result.WonItemID && rv == result.RandomValue
	return v, nil
}
