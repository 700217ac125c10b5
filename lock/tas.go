package lock

import (
	"sync/atomic"

	"github.com/hcl271/crow/internal/xatomic"
)

// TASCyclesToSpin is the number of consecutive failed test-and-set attempts
// a TASLock makes before falling back to exponential backoff.
const TASCyclesToSpin = 10

// TASLock is the simplest busy-wait lock: a single flag, spun on with a
// compare-and-swap. Go exposes no CPU-level test-and-set instruction to
// package code, so the test-and-set is a CAS against the unlocked value.
//
// TASLock provides mutual exclusion with no fairness guarantee: under
// contention, any single goroutine may be starved indefinitely.
type TASLock struct {
	_     xatomic.CacheLinePad
	taken atomic.Bool
	_     xatomic.CacheLinePad
}

// NewTASLock returns an unlocked TASLock.
func NewTASLock() *TASLock {
	return &TASLock{}
}

// Lock blocks (by spinning, then backing off) until the lock is acquired.
func (l *TASLock) Lock() {
	backoff := xatomic.NewBackoff()
	cycle := 0
	for !l.taken.CompareAndSwap(false, true) {
		cycle++
		if cycle == TASCyclesToSpin {
			backoff.Sleep()
			cycle = 0
			continue
		}
		xatomic.PauseSpin()
	}
}

// TryLock attempts to acquire the lock without spinning, returning whether it
// succeeded.
func (l *TASLock) TryLock() bool {
	return l.taken.CompareAndSwap(false, true)
}

// Unlock releases the lock. The caller must hold it; releasing a lock you
// do not hold silently hands it to whoever else believes they hold it.
func (l *TASLock) Unlock() {
	l.taken.Store(false)
}
