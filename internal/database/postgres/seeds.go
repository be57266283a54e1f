package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedRepository stores client seeds and nonce counters in user_seeds
type SeedRepository struct {
	db *pgxpool.Pool
}

// NewSeedRepository creates a new SeedRepository
func NewSeedRepository(db *pgxpool.Pool) *SeedRepository {
	return &SeedRepository{db: db}
}

// ClientSeed returns the user's client seed, or "" when none is set
func (r *SeedRepository) ClientSeed(ctx context.Context, userID string) (string, error) {
	var seed string
	err := r.db.QueryRow(ctx, `SELECT client_seed FROM user_seeds WHERE user_id = $1`, userID).Scan(&seed)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", wrapErr(ErrMsgFailedToGetClientSeed, err)
	}
	return seed, nil
}

// SetClientSeed replaces the client seed and leaves the nonce counter untouched
func (r *SeedRepository) SetClientSeed(ctx context.Context, userID, clientSeed string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_seeds (user_id, client_seed, nonce) VALUES ($1, $2, 0)
		ON CONFLICT (user_id) DO UPDATE
		SET client_seed = EXCLUDED.client_seed, updated_at = NOW()`, userID, clientSeed)
	return wrapErr(ErrMsgFailedToSetClientSeed, err)
}

// NextNonce hands out the stored nonce and advances it in a single statement
func (r *SeedRepository) NextNonce(ctx context.Context, userID string) (uint64, error) {
	var nonce int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_seeds (user_id, nonce) VALUES ($1, 1)
		ON CONFLICT (user_id) DO UPDATE
		SET nonce = user_seeds.nonce + 1, updated_at = NOW()
		RETURNING nonce - 1`, userID).Scan(&nonce)
	if err != nil {
		return 0, wrapErr(ErrMsgFailedToAdvanceNonce, err)
	}
	return uint64(nonce), nil
}

// CurrentNonce returns the nonce the next draw will use
func (r *SeedRepository) CurrentNonce(ctx context.Context, userID string) (uint64, error) {
	var nonce int64
	err := r.db.QueryRow(ctx, `SELECT nonce FROM user_seeds WHERE user_id = $1`, userID).Scan(&nonce)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, wrapErr(ErrMsgFailedToGetClientSeed, err)
	}
	return uint64(nonce), nil
}
