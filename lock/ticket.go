package lock

import (
	"sync/atomic"

	"github.com/hcl271/crow/internal/xatomic"
)

// TicketCyclesToSpin is the number of pure-spin iterations a TicketLock
// performs, reading now-serving, before switching to a cooperative
// runtime.Gosched loop.
const TicketCyclesToSpin = 100

// TicketLock hands out monotonically increasing tickets and serves them in
// order, giving FIFO fairness modulo the OS/Go scheduler: whichever
// goroutine asked first is guaranteed to be served before a goroutine that
// asked later.
//
// The counters are uint32: Go's atomic package has no 16-bit atomic type,
// and 32 bits keeps ticket wraparound a non-issue for any plausible waiter
// count.
type TicketLock struct {
	_          xatomic.CacheLinePad
	nextTicket atomic.Uint32
	_          xatomic.CacheLinePad
	nowServing atomic.Uint32
	_          xatomic.CacheLinePad
}

// NewTicketLock returns an unlocked TicketLock.
func NewTicketLock() *TicketLock {
	return &TicketLock{}
}

// Lock blocks until this goroutine's ticket is being served.
func (l *TicketLock) Lock() {
	ticket := l.nextTicket.Add(1) - 1

	cycle := 0
	for l.nowServing.Load() != ticket && cycle < TicketCyclesToSpin {
		xatomic.PauseSpin()
		cycle++
	}

	for l.nowServing.Load() != ticket {
		xatomic.SchedYield()
	}
}

// Unlock advances now-serving, admitting the next ticket holder.
func (l *TicketLock) Unlock() {
	l.nowServing.Add(1)
}
