package skiplist

import (
	"sync/atomic"

	"github.com/hcl271/crow/errs"
	"github.com/hcl271/crow/internal/threadlocal"
	"github.com/hcl271/crow/internal/xatomic"
)

// NumEpochs is the size of the epoch ring.
const NumEpochs = 4

// MaxThreads is the fixed size of a SkipList's epoch-cell array. It bounds
// the number of goroutines that may concurrently hold an active epoch on
// one SkipList.
const MaxThreads = 256

// unclaimed marks an epoch cell nobody has claimed yet. tryReclaim skips
// unclaimed cells outright; only claimed cells can hold the global epoch
// back.
const unclaimed = -1

type epochCell struct {
	_     xatomic.CacheLinePad
	value atomic.Int32
	_     xatomic.CacheLinePad
}

// epochRegistry is the epoch-based reclamation scheme: a global epoch
// counter, a per-accessor cell recording the epoch each accessor last
// observed, and one pending-free list per epoch. A node
// retired during epoch E is dropped only once the global epoch has reached
// E+2 (mod NumEpochs) and every claimed cell has caught up to it, so no
// accessor can still be mid-traversal with a reference taken during E.
type epochRegistry[K any, V any] struct {
	cells        [MaxThreads]epochCell
	local        *threadlocal.Registry[epochCell]
	globalEpoch  atomic.Int32
	reclaimLists [NumEpochs]atomic.Pointer[tower[K, V]]
	reclaiming   atomic.Bool
}

func newEpochRegistry[K any, V any]() *epochRegistry[K, V] {
	r := &epochRegistry[K, V]{local: threadlocal.NewRegistry[epochCell]()}
	for i := range r.cells {
		r.cells[i].value.Store(unclaimed)
	}
	return r
}

func (r *epochRegistry[K, V]) claimCell() (*epochCell, error) {
	ge := r.globalEpoch.Load()
	for i := range r.cells {
		cell := &r.cells[i]
		if cell.value.CompareAndSwap(unclaimed, ge) {
			return cell, nil
		}
	}
	return nil, errs.ErrNoThreads
}

// enter returns the calling goroutine's epoch cell, claiming one on first
// use.
func (r *epochRegistry[K, V]) enter() (*epochCell, error) {
	return r.local.Get(r.claimCell)
}

// leave moves the calling goroutine's cell one epoch forward if it lags the
// current global epoch, the signal to tryReclaim that this accessor is no
// longer mid traversal with a stale reference. A cell that already equals
// the global epoch is left as it is.
func (r *epochRegistry[K, V]) leave(cell *epochCell) {
	ge := r.globalEpoch.Load()
	if cell.value.Load() != ge {
		cell.value.Store((cell.value.Load() + 1) % NumEpochs)
	}
}

// retire enqueues a logically removed tower onto the pending-free list for
// the current global epoch.
func (r *epochRegistry[K, V]) retire(twr *tower[K, V]) {
	epoch := r.globalEpoch.Load()
	for {
		head := r.reclaimLists[epoch].Load()
		twr.reclaimNext.Store(head)
		if r.reclaimLists[epoch].CompareAndSwap(head, twr) {
			return
		}
	}
}

// tryReclaim advances the global epoch and frees the oldest pending-free
// list once every claimed cell has observed the current epoch. At most one
// goroutine performs the scan at a time; others skip it rather than
// blocking, since the next successful Remove will retry.
func (r *epochRegistry[K, V]) tryReclaim() {
	if !r.reclaiming.CompareAndSwap(false, true) {
		return
	}
	defer r.reclaiming.Store(false)

	ge := r.globalEpoch.Load()
	for i := range r.cells {
		v := r.cells[i].value.Load()
		if v != unclaimed && v != ge {
			return
		}
	}

	reclaimEpoch := (ge + NumEpochs - 2) % NumEpochs
	cur := r.reclaimLists[reclaimEpoch].Swap(nil)
	for cur != nil {
		cur = cur.reclaimNext.Load()
	}

	r.globalEpoch.Store((ge + 1) % NumEpochs)
}

func (r *epochRegistry[K, V]) releaseCurrentSlot() {
	r.local.Release(func(c *epochCell) { c.value.Store(unclaimed) })
}

func (r *epochRegistry[K, V]) drainAll() {
	for epoch := 0; epoch < NumEpochs; epoch++ {
		cur := r.reclaimLists[epoch].Swap(nil)
		for cur != nil {
			cur = cur.reclaimNext.Load()
		}
	}
}
