package utils

import (
	"math"
	"math/rand"
	"time"
)

// CalculateExponentialBackoffWithJitter computes a jittered exponential backoff delay.
// - count: Retry attempt number (1-based, e.g., 1 for first retry)
// - base: Base delay (e.g., 200 * time.Millisecond)
// - max: Maximum allowable delay (e.g., 2 * time.Second)
func CalculateExponentialBackoffWithJitter(count int, base time.Duration, max time.Duration) time.Duration {
	if count <= 0 || base <= 0 {
		return 0
	}

	// Exponential backoff: base * 2^(count-1)
	baseDelay := base * time.Duration(math.Pow(2, float64(count-1)))
	if baseDelay <= 0 || baseDelay > max { // overflow or past the cap
		baseDelay = max
	}

	// Jitter: -12.5% to +12.5% of baseDelay
	delay := baseDelay
	if spread := int64(baseDelay / 4); spread > 0 {
		delay += time.Duration(rand.Int63n(spread)) - (baseDelay / 8)
	}

	if delay > max {
		delay = max
	}
	return delay
}
