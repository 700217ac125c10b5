// Package xatomic collects the low-level spin/backoff helpers shared by the
// lock, stack, and skiplist packages: a pause hint, a cooperative yield, and
// an exponential-backoff sleeper, plus a cache-line padding type used to keep
// contended atomic words from sharing a cache line with their neighbors.
package xatomic

import "runtime"

// PauseSpin hints to the scheduler that the calling goroutine is in a
// busy-wait spin. Go exposes no portable user-mode PAUSE/YIELD instruction to
// package code (the runtime's own procyield is private), so this calls
// runtime.Gosched, trading the spin's cache-friendliness for a definite
// preemption point; it is cheap enough to call every failed poll.
func PauseSpin() {
	runtime.Gosched()
}

// SchedYield surrenders the current goroutine's remaining turn to the
// scheduler. Call sites that reach this after a fixed number of PauseSpin
// rounds are signaling "give another goroutine a real chance to make
// progress," not just hinting.
func SchedYield() {
	runtime.Gosched()
}
