// Package threadlocal provides a per-goroutine slot cache in the shape of
// pthread_key_create / pthread_getspecific / pthread_setspecific. The
// alternative of threading an explicit accessor handle through every call
// was considered and rejected so that the stack and skiplist operations
// keep their minimal signatures (Push/Pop/Insert/Remove/Search take no
// extra context argument).
package threadlocal

import (
	"sync"

	"github.com/hcl271/crow/internal/goid"
)

// Registry hands out and caches one slot of type *S per goroutine. New
// allocates a slot the first time a goroutine calls Get; subsequent calls
// from the same goroutine return the cached value.
type Registry[S any] struct {
	mu    sync.RWMutex
	slots map[int64]*S
}

// NewRegistry returns an empty Registry.
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{slots: make(map[int64]*S)}
}

// Get returns the slot cached for the calling goroutine, allocating one via
// newSlot on first use. newSlot may return an error (e.g. the hazard array is
// full); in that case no slot is cached and the error propagates to the
// caller.
func (r *Registry[S]) Get(newSlot func() (*S, error)) (*S, error) {
	id := goid.Get()

	r.mu.RLock()
	slot, ok := r.slots[id]
	r.mu.RUnlock()
	if ok {
		return slot, nil
	}

	slot, err := newSlot()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.slots[id] = slot
	r.mu.Unlock()
	return slot, nil
}

// Release drops the calling goroutine's cached slot, if any, after invoking
// cleanup on it. pthread keys run a destructor automatically when their
// thread exits; Go has no goroutine-exit hook, so a goroutine that is about
// to return for good must call this itself (typically via the owning
// structure's ReleaseCurrentSlot method) if it wants its slot reclaimed
// promptly rather than left to the registry's lifetime.
func (r *Registry[S]) Release(cleanup func(*S)) {
	id := goid.Get()

	r.mu.Lock()
	slot, ok := r.slots[id]
	if ok {
		delete(r.slots, id)
	}
	r.mu.Unlock()

	if ok && cleanup != nil {
		cleanup(slot)
	}
}
