// Package redisstore implements the client seed and nonce store on Redis.
// INCR gives every caller a distinct nonce without any application lock.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// Key layouts
const (
	KeyClientSeed = "casebattle:seed:%s"
	KeyNonce      = "casebattle:nonce:%s"
)

// Error context messages
const (
	ErrContextConnect       = "failed to connect to redis"
	ErrContextGetClientSeed = "failed to get client seed"
	ErrContextSetClientSeed = "failed to set client seed"
	ErrContextNextNonce     = "failed to advance nonce"
	ErrContextCurrentNonce  = "failed to read nonce"
)

// SeedStore keeps client seeds and nonce counters in Redis
type SeedStore struct {
	client redis.UniversalClient
}

// Options configures the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient opens and pings a Redis client
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", ErrContextConnect, err)
	}
	return client, nil
}

// NewSeedStore wraps an existing client
func NewSeedStore(client redis.UniversalClient) *SeedStore {
	return &SeedStore{client: client}
}

// ClientSeed returns the user's client seed, or "" when none is set
func (s *SeedStore) ClientSeed(ctx context.Context, userID string) (string, error) {
	seed, err := s.client.Get(ctx, fmt.Sprintf(KeyClientSeed, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", wrap(ErrContextGetClientSeed, err)
	}
	return seed, nil
}

// SetClientSeed stores the seed. The INCR counter is never reset.
func (s *SeedStore) SetClientSeed(ctx context.Context, userID, clientSeed string) error {
	err := s.client.Set(ctx, fmt.Sprintf(KeyClientSeed, userID), clientSeed, 0).Err()
	return wrap(ErrContextSetClientSeed, err)
}

// NextNonce increments the counter and returns the value before the increment
func (s *SeedStore) NextNonce(ctx context.Context, userID string) (uint64, error) {
	n, err := s.client.Incr(ctx, fmt.Sprintf(KeyNonce, userID)).Result()
	if err != nil {
		return 0, wrap(ErrContextNextNonce, err)
	}
	return uint64(n - 1), nil
}

// CurrentNonce returns the nonce the next draw will use
func (s *SeedStore) CurrentNonce(ctx context.Context, userID string) (uint64, error) {
	raw, err := s.client.Get(ctx, fmt.Sprintf(KeyNonce, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, wrap(ErrContextCurrentNonce, err)
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextCurrentNonce, err)
	}
	return n, nil
}

// wrap maps timeouts onto the transient storage error
func wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return fmt.Errorf("%s: %w: %v", msg, domain.ErrStorageTimeout, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
