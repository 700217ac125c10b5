// Package skiplist implements a lock-free ordered map as a skip list with
// epoch-based memory reclamation: removed towers are parked on per-epoch
// lists and only dropped once every active accessor has observed a later
// epoch.
package skiplist

import (
	"cmp"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/hcl271/crow/errs"
)

// NumLevels is the fixed tower height cap; randomLevel never returns a
// level above NumLevels-1.
const NumLevels = 16

// tower is one skip-list node. forward holds level+1 markable links, index
// 0 being the base list. reclaimNext threads the node onto an epoch
// registry's pending-free list once logically removed.
type tower[K any, V any] struct {
	key         K
	value       atomic.Pointer[V]
	level       int
	reclaimNext atomic.Pointer[tower[K, V]]
	forward     []markableLink[K, V]
}

func newTower[K any, V any](key K, value V, level int) *tower[K, V] {
	t := &tower[K, V]{key: key, level: level, forward: make([]markableLink[K, V], level+1)}
	t.value.Store(&value)
	return t
}

func newHeader[K any, V any]() *tower[K, V] {
	return &tower[K, V]{level: NumLevels - 1, forward: make([]markableLink[K, V], NumLevels)}
}

// randomLevel draws a tower height from a geometric distribution
// (P(level >= k) = 2^-k), capped at NumLevels-1. math/rand/v2's top-level
// generator is safe and contention-free across goroutines, so no explicit
// per-goroutine PRNG state is needed.
func randomLevel() int {
	level := 0
	for level < NumLevels-1 && rand.Uint64() < math.MaxUint64/2 {
		level++
	}
	return level
}

// SkipList is a lock-free, sorted associative structure keyed by any
// cmp.Ordered type, reclaiming removed nodes via an internal epoch scheme
// rather than hazard pointers. The zero value is not usable; construct with
// NewSkipList.
type SkipList[K cmp.Ordered, V any] struct {
	header   *tower[K, V]
	maxLevel atomic.Int32
	epochs   *epochRegistry[K, V]
	lastErr  atomic.Pointer[error]
}

// NewSkipList returns an empty SkipList.
func NewSkipList[K cmp.Ordered, V any]() *SkipList[K, V] {
	return &SkipList[K, V]{
		header: newHeader[K, V](),
		epochs: newEpochRegistry[K, V](),
	}
}

func (s *SkipList[K, V]) setErr(err error) error {
	s.lastErr.Store(&err)
	return err
}

// LastError returns the error recorded by the most recent failing operation
// on this SkipList, best-effort under concurrency exactly as stack.Stack's
// LastError is; the authoritative signal for any one call is always that
// call's own return value.
func (s *SkipList[K, V]) LastError() error {
	if p := s.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// fill walks from s.header down from fromLvl to toLvl, splicing out any
// tower already marked deleted at the level being walked, and records in
// preds/succs (each pre-sized to NumLevels by the caller) the predecessor
// and successor of key at every level in that range. On a failed splice CAS
// it restarts the whole walk from the header.
func (s *SkipList[K, V]) fill(preds, succs []*tower[K, V], key K, fromLvl, toLvl int) {
resetSearch:
	cur := s.header
	for lvl := fromLvl; lvl >= toLvl; lvl-- {
		next, _ := cur.forward[lvl].load()
		for next != nil {
			nextNext, marked := next.forward[lvl].load()
			if marked {
				if !cur.forward[lvl].compareAndSwap(next, false, nextNext, false) {
					goto resetSearch
				}
				next, _ = cur.forward[lvl].load()
				continue
			}
			if next.key < key {
				cur = next
				next = nextNext
				continue
			}
			break
		}
		preds[lvl] = cur
		succs[lvl] = next
	}
}

// Insert adds key/value, or overwrites the value of an existing tower for
// key. It never blocks and, once a new tower is allocated, always succeeds
// except when the epoch-cell registry is exhausted.
func (s *SkipList[K, V]) Insert(key K, value V) error {
	preds := make([]*tower[K, V], NumLevels)
	succs := make([]*tower[K, V], NumLevels)

	cell, err := s.epochs.enter()
	if err != nil {
		return s.setErr(err)
	}
	defer s.epochs.leave(cell)

	s.fill(preds, succs, key, NumLevels-1, 0)

	if succs[0] != nil && succs[0].key == key {
		succs[0].value.Store(&value)
		return nil
	}

	newLevel := randomLevel()
	newNode := newTower[K, V](key, value, newLevel)

	for {
		old := s.maxLevel.Load()
		if int32(newLevel) <= old {
			break
		}
		if s.maxLevel.CompareAndSwap(old, int32(newLevel)) {
			break
		}
	}

	for lvl := 0; lvl <= newLevel; lvl++ {
		newNode.forward[lvl].store(succs[lvl], false)
		for !preds[lvl].forward[lvl].compareAndSwap(succs[lvl], false, newNode, false) {
			s.fill(preds, succs, key, NumLevels-1, lvl)

			// A concurrent insert of the same key may have won while this
			// tower was unlinked. Converting to an update here keeps level-0
			// keys strictly increasing; a blind retry would link a duplicate.
			if lvl == 0 && succs[0] != nil && succs[0].key == key {
				succs[0].value.Store(&value)
				return nil
			}

			newNode.forward[lvl].store(succs[lvl], false)
		}
	}
	return nil
}

// Remove deletes the tower for key, if present, in two phases: mark every
// level above 0 deleted (harmless if interrupted, since search and fill
// already skip marked links), then attempt to mark level 0, the
// linearization point. Only the goroutine that wins the level-0 mark
// splices the node out and hands it to the epoch registry for deferred
// reclamation. Remove against a missing key is a no-op, not an error.
func (s *SkipList[K, V]) Remove(key K) error {
	preds := make([]*tower[K, V], NumLevels)
	succs := make([]*tower[K, V], NumLevels)

	cell, err := s.epochs.enter()
	if err != nil {
		return s.setErr(err)
	}

	s.fill(preds, succs, key, NumLevels-1, 0)
	cur := succs[0]
	if cur == nil || cur.key != key {
		s.epochs.leave(cell)
		return nil
	}

	for lvl := cur.level; lvl >= 1; lvl-- {
		for {
			next, marked := cur.forward[lvl].load()
			if marked {
				break
			}
			if cur.forward[lvl].compareAndSwap(next, false, next, true) {
				break
			}
		}
	}

	iMarkedIt := false
	for {
		next, marked := cur.forward[0].load()
		if marked {
			break
		}
		if cur.forward[0].compareAndSwap(next, false, next, true) {
			iMarkedIt = true
			break
		}
	}

	if iMarkedIt {
		s.fill(preds, succs, key, NumLevels-1, 0)
		s.epochs.retire(cur)
	}

	s.epochs.leave(cell)

	if iMarkedIt {
		s.epochs.tryReclaim()
	}
	return nil
}

// Search returns the value associated with key, or errs.ErrNoElement if no
// tower for key is present (whether never inserted or already logically
// removed).
func (s *SkipList[K, V]) Search(key K) (V, error) {
	var zero V

	preds := make([]*tower[K, V], NumLevels)
	succs := make([]*tower[K, V], NumLevels)

	cell, err := s.epochs.enter()
	if err != nil {
		return zero, s.setErr(err)
	}

	s.fill(preds, succs, key, int(s.maxLevel.Load()), 0)

	cur := succs[0]
	if cur != nil && cur.key == key {
		v := *cur.value.Load()
		s.epochs.leave(cell)
		return v, nil
	}

	s.epochs.leave(cell)
	return zero, s.setErr(errs.ErrNoElement)
}

// ReleaseCurrentSlot releases the calling goroutine's epoch cell, if it has
// claimed one. Call this before a short-lived goroutine that used the
// SkipList exits; see package threadlocal's doc comment.
func (s *SkipList[K, V]) ReleaseCurrentSlot() {
	s.epochs.releaseCurrentSlot()
}

// Close drops every tower still reachable from the base list and every
// tower still pending on an epoch reclaim list. The caller must have
// exclusive access: Close races with any concurrent Insert/Remove/Search.
func (s *SkipList[K, V]) Close() {
	cur, _ := s.header.forward[0].load()
	for cur != nil {
		next, _ := cur.forward[0].load()
		cur = next
	}
	s.epochs.drainAll()
}
