// Package utils holds small helpers shared by the reel builder and the workers.
package utils

import (
	"math/rand"
	"time"
)

// RandomInt returns a random integer between min and max (inclusive)
func RandomInt(min, max int) int {
	if min > max {
		return min
	}
	return rand.Intn(max-min+1) + min //nolint:gosec // Cosmetic and scheduling jitter, never outcome selection
}

// RandomDuration returns a random duration between min and max (inclusive)
func RandomDuration(min, max time.Duration) time.Duration {
	if min >= max {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1)) //nolint:gosec // Scheduling jitter only
}
