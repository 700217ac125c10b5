package stack

import (
	"sync/atomic"

	"github.com/hcl271/crow/errs"
	"github.com/hcl271/crow/internal/threadlocal"
	"github.com/hcl271/crow/internal/xatomic"
)

// MaxHazardPointers is the fixed size of a Stack's hazard-pointer slot
// array. It bounds the number of goroutines that may hold a hazard slot on
// one Stack at once; a goroutine keeps its slot from its first Pop until it
// calls Stack.ReleaseCurrentSlot.
const MaxHazardPointers = 64

// hazardSlot is one entry in the hazard-pointer array: owner is the id of the
// goroutine that claimed it (0 means free), and protected is the node that
// goroutine is currently dereferencing, if any. Any other goroutine must not
// free a node whose address appears in protected on any slot.
type hazardSlot[T any] struct {
	_         xatomic.CacheLinePad
	owner     atomic.Int64
	protected atomic.Pointer[node[T]]
	_         xatomic.CacheLinePad
}

// hazardRegistry owns a fixed array of hazard slots plus the goroutine-local
// cache that hands each goroutine the same slot across repeated calls.
type hazardRegistry[T any] struct {
	slots [MaxHazardPointers]hazardSlot[T]
	local *threadlocal.Registry[hazardSlot[T]]
}

func newHazardRegistry[T any]() *hazardRegistry[T] {
	return &hazardRegistry[T]{local: threadlocal.NewRegistry[hazardSlot[T]]()}
}

// claimSlot scans the slot array for the first free slot (owner == 0) and
// claims it for id via CAS. It returns errs.ErrNoThreads if every slot is
// already owned.
func (r *hazardRegistry[T]) claimSlot(id int64) (*hazardSlot[T], error) {
	for i := range r.slots {
		slot := &r.slots[i]
		if slot.owner.CompareAndSwap(0, id) {
			return slot, nil
		}
	}
	return nil, errs.ErrNoThreads
}

// releaseSlot clears a slot so it can be reused by a different goroutine.
// Since Go has no thread-exit hook, callers must invoke this explicitly
// (typically via Stack.ReleaseCurrentSlot) before a short-lived goroutine
// that used the stack returns for good.
func (r *hazardRegistry[T]) releaseSlot(slot *hazardSlot[T]) {
	slot.protected.Store(nil)
	slot.owner.Store(0)
}

// slotForGoroutine returns the calling goroutine's hazard slot, claiming one
// on first use.
func (r *hazardRegistry[T]) slotForGoroutine(id int64) (*hazardSlot[T], error) {
	return r.local.Get(func() (*hazardSlot[T], error) {
		return r.claimSlot(id)
	})
}

// anySlotProtects reports whether any hazard slot currently protects danger.
// Safe to call on a node that has already been unlinked from the stack,
// since the caller holds it only via the reclaim list at that point.
func (r *hazardRegistry[T]) anySlotProtects(danger *node[T]) bool {
	for i := range r.slots {
		if r.slots[i].protected.Load() == danger {
			return true
		}
	}
	return false
}
