package repository

import "context"

// SeedStore holds each user's client seed and nonce counter.
// NextNonce returns the nonce to use for the next draw and advances the counter
// in one atomic step, so two concurrent callers never receive the same value.
type SeedStore interface {
	ClientSeed(ctx context.Context, userID string) (string, error)
	SetClientSeed(ctx context.Context, userID, clientSeed string) error
	NextNonce(ctx context.Context, userID string) (uint64, error)
	CurrentNonce(ctx context.Context, userID string) (uint64, error)
}
