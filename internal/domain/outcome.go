package domain

import "time"

// OutcomeRequest carries everything needed to derive one outcome
type OutcomeRequest struct {
	ServerSeed string
	ClientSeed string
	Nonce      uint64
	Table      PrizeTable
}

// OutcomeResult is the public, verifiable record of a single draw.
// It never contains the raw server seed.
type OutcomeResult struct {
	WonItemID      string     `json:"won_item_id"`
	DisplayValue   int64      `json:"display_value"`
	Rarity         RarityTier `json:"rarity"`
	RandomValue    float64    `json:"random_value"`
	ServerSeedHash string     `json:"server_seed_hash"`
	ClientSeed     string     `json:"client_seed"`
	Nonce          uint64     `json:"nonce"`
	Timestamp      time.Time  `json:"timestamp"`
}

// Verification is the result of replaying a recorded outcome against a revealed seed
type Verification struct {
	CommitmentValid bool    `json:"commitment_valid"`
	RandomValue     float64 `json:"random_value"`
	ExpectedItemID  string  `json:"expected_item_id"`
	RecordedItemID  string  `json:"recorded_item_id"`
	Match           bool    `json:"match"`
}
