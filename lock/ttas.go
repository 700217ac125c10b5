package lock

import (
	"sync/atomic"

	"github.com/hcl271/crow/internal/xatomic"
)

// TTASCyclesToSpin is the number of read-only spin iterations a TTASLock
// performs before falling back to exponential backoff.
const TTASCyclesToSpin = 10

// TTASLock is a test-test-and-set lock: goroutines spin reading the flag
// (generating only shared cache-line traffic) and only attempt the
// mutating compare-and-swap once they observe the lock free. This produces
// far less interconnect traffic than TASLock under contention, at the cost
// of being structurally identical otherwise: same flag, same fairness (or
// lack of it).
type TTASLock struct {
	_     xatomic.CacheLinePad
	taken atomic.Bool
	_     xatomic.CacheLinePad
}

// NewTTASLock returns an unlocked TTASLock.
func NewTTASLock() *TTASLock {
	return &TTASLock{}
}

// Lock blocks until the lock is acquired, spin-reading first and backing off
// exponentially once reads alone stop making progress.
func (l *TTASLock) Lock() {
	backoff := xatomic.NewBackoff()
	for {
		cycle := 0
		for l.taken.Load() && cycle < TTASCyclesToSpin {
			xatomic.PauseSpin()
			cycle++
		}

		if l.taken.Load() {
			backoff.Sleep()
			continue
		}

		if !l.taken.CompareAndSwap(false, true) {
			continue
		}
		return
	}
}

// TryLock attempts to acquire the lock without spinning.
func (l *TTASLock) TryLock() bool {
	if l.taken.Load() {
		return false
	}
	return l.taken.CompareAndSwap(false, true)
}

// Unlock releases the lock.
func (l *TTASLock) Unlock() {
	l.taken.Store(false)
}
