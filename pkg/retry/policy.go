package retry

import (
	"math/rand"
	"time"
)

// jitterFraction is the maximum share of the computed delay that is added as
// random jitter, de-synchronizing concurrent callers retrying at once.
const jitterFraction = 0.25

// Policy bounds the retries of one logical operation: how many attempts it
// may consume and how long to wait between them. Delay grows exponentially
// from BaseDelay up to MaxDelay, plus jitter.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int

	// BaseDelay is the wait after the first failed attempt.
	BaseDelay time.Duration

	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration
}

// DefaultPolicy mirrors the query retry bounds a chain client typically
// ships with; configuration overrides it in production use.
var DefaultPolicy = Policy{
	MaxAttempts: 4,
	BaseDelay:   250 * time.Millisecond,
	MaxDelay:    4 * time.Second,
}

// Delay returns how long to wait before the attempt following attemptNumber
// (zero-based: pass 0 after the first failure). The result is the base delay
// doubled per attempt, capped at MaxDelay, with up to 25% random jitter
// added on top.
func (p Policy) Delay(attemptNumber int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < attemptNumber && delay < p.MaxDelay; i++ {
		delay *= 2
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(float64(delay)*jitterFraction) + 1))
	return delay + jitter
}
