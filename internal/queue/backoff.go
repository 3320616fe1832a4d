package queue

import (
	"math/rand/v2"
	"time"
)

// uncappedCeiling bounds the delay when Max is unset so doubling cannot
// overflow time.Duration.
const uncappedCeiling = 24 * time.Hour

// Backoff computes the delay before a failed job becomes eligible again.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
	// Jitter returns a value in [0, n); nil uses math/rand.
	Jitter func(n int64) int64
}

// Delay picks a value in [d/2, d] where d is base*2^(attempts-1) capped at
// Max, or at one day when Max is not positive. A zero base disables backoff.
func (b Backoff) Delay(attempts int) time.Duration {
	if b.Base <= 0 || attempts < 1 {
		return 0
	}

	limit := b.Max
	if limit <= 0 {
		limit = uncappedCeiling
	}

	d := b.Base
	for i := 1; i < attempts && d < limit; i++ {
		d *= 2
	}
	if d > limit {
		d = limit
	}

	half := int64(d / 2)
	if half <= 0 {
		return d
	}
	jitter := b.Jitter
	if jitter == nil {
		jitter = rand.Int64N
	}
	return d/2 + time.Duration(jitter(half+1))
}

// RetryAt returns the next eligible time, or nil when backoff is disabled.
func (b Backoff) RetryAt(now time.Time, attempts int) *time.Time {
	d := b.Delay(attempts)
	if d <= 0 {
		return nil
	}
	at := now.Add(d)
	return &at
}
