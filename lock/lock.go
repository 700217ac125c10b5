// Package lock implements three busy-wait mutual-exclusion primitives:
// test-and-set, test-test-and-set, and ticket locks. All three spin rather
// than park the calling goroutine on a queue. The TAS and TTAS locks fall
// back to the exponential backoff policy in internal/xatomic once spinning
// stops making progress; the ticket lock instead keeps polling with a
// scheduler yield between reads.
//
// None of the three locks is reentrant, and Unlock is undefined (may
// silently hand the lock to a goroutine that believes it holds it) if
// called by a goroutine that does not hold the lock.
package lock

// Locker is satisfied by all three lock variants and mirrors sync.Locker so
// any of them can be used as a drop-in mutual-exclusion primitive.
type Locker interface {
	Lock()
	Unlock()
}

// TryLocker is additionally satisfied by TASLock and TTASLock, whose
// algorithms have a natural non-blocking "attempt once" operation. TicketLock
// does not implement it: a ticket lock's fairness comes from committing to a
// queue position, which a try-lock would have to either abandon (breaking
// FIFO order for whoever is behind it) or never truly attempt.
type TryLocker interface {
	Locker
	TryLock() bool
}

var (
	_ Locker    = (*TASLock)(nil)
	_ Locker    = (*TTASLock)(nil)
	_ Locker    = (*TicketLock)(nil)
	_ TryLocker = (*TASLock)(nil)
	_ TryLocker = (*TTASLock)(nil)
)
