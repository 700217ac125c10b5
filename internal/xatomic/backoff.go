package xatomic

import (
	"math/rand/v2"
	"time"
)

const (
	// MinBackoff is the initial sleep duration used once a lock's spin
	// budget is exhausted.
	MinBackoff = 1000 * time.Nanosecond
	// MaxBackoff caps the exponential growth of Backoff.Sleep.
	MaxBackoff = 64000 * time.Nanosecond
)

// Backoff implements the exponential-backoff-with-jitter sleep used by the
// TAS and TTAS locks once their spin budget is exhausted: sleep
// current+uniform(0,MinBackoff), then double current up to MaxBackoff.
//
// A Backoff is not safe for concurrent use; each spinning goroutine owns one
// on its stack.
type Backoff struct {
	current time.Duration
}

// NewBackoff returns a Backoff ready to sleep starting at MinBackoff.
func NewBackoff() Backoff {
	return Backoff{current: MinBackoff}
}

// Sleep blocks for current+jitter nanoseconds, then grows current towards
// MaxBackoff for the next call.
func (b *Backoff) Sleep() {
	if b.current == 0 {
		b.current = MinBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(MinBackoff)))
	time.Sleep(b.current + jitter)

	if b.current < MaxBackoff {
		b.current *= 2
		if b.current > MaxBackoff {
			b.current = MaxBackoff
		}
	}
}

// Reset restores current to MinBackoff, used after a lock is finally
// acquired so the next contention episode starts cold again.
func (b *Backoff) Reset() {
	b.current = MinBackoff
}
