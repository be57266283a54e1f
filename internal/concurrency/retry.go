package concurrency

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/logger"
	"github.com/osse101/CaseBattle_Go/internal/metrics"
)

// RetryPolicy bounds retries of transient storage failures
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy is used when no policy is configured
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	BaseDelay:   20 * time.Millisecond,
	MaxDelay:    500 * time.Millisecond,
}

const retryJitterPercent = 20

// Retry runs fn until it succeeds, returns a non-transient error, or the
// attempts run out. Only domain.IsTransient errors are retried.
func Retry(ctx context.Context, policy RetryPolicy, op string, fn func(ctx context.Context) error) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryPolicy.BaseDelay
	}

	b := retry.NewExponential(policy.BaseDelay)
	if policy.MaxDelay > 0 {
		b = retry.WithCappedDuration(policy.MaxDelay, b)
	}
	b = retry.WithJitterPercent(retryJitterPercent, b)
	b = retry.WithMaxRetries(uint64(policy.MaxAttempts-1), b)

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if domain.IsTransient(err) {
			logger.FromContext(ctx).Warn(LogMsgTransientRetry, "op", op, "attempt", attempt, "error", err)
			metrics.TransientRetries.WithLabelValues(op).Inc()
			return retry.RetryableError(err)
		}
		return err
	})
}
