package stack_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcl271/crow/errs"
	"github.com/hcl271/crow/stack"
)

// TestSingleThreadLIFO checks that a single goroutine pops values in
// reverse push order, and that draining past empty fails cleanly.
func TestSingleThreadLIFO(t *testing.T) {
	s := stack.NewStack[int](nil)

	for _, v := range []int{10, 20, 30, 40, 50} {
		require.NoError(t, s.Push(v))
	}

	for _, want := range []int{50, 40, 30, 20, 10} {
		got, err := s.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := s.Pop()
	assert.ErrorIs(t, err, errs.ErrNoElement)
}

// TestEmptyPopFails exercises the last element and the subsequent
// NoElement error explicitly.
func TestEmptyPopFails(t *testing.T) {
	s := stack.NewStack[int](nil)
	require.NoError(t, s.Push(1))

	v, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = s.Pop()
	require.ErrorIs(t, err, errs.ErrNoElement)
	assert.ErrorIs(t, s.LastError(), errs.ErrNoElement)
}

// TestConcurrentConservation has P goroutines each push N distinct values
// then each pop N times; the multiset of popped values must equal the
// multiset pushed, with a final NoElement pop.
func TestConcurrentConservation(t *testing.T) {
	const goroutines = 16
	const perGoroutine = 10_000

	s := stack.NewStack[int](nil)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		base := i * perGoroutine
		go func() {
			defer wg.Done()
			for v := base; v < base+perGoroutine; v++ {
				require.NoError(t, s.Push(v))
			}
		}()
	}
	wg.Wait()

	seen := make([]int32, goroutines*perGoroutine)
	var seenMu sync.Mutex
	var popWG sync.WaitGroup
	popWG.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer popWG.Done()
			defer s.ReleaseCurrentSlot()
			for j := 0; j < perGoroutine; j++ {
				v, err := s.Pop()
				require.NoError(t, err)
				seenMu.Lock()
				seen[v]++
				seenMu.Unlock()
			}
		}()
	}
	popWG.Wait()

	for i, count := range seen {
		assert.Equal(t, int32(1), count, "value %d popped %d times", i, count)
	}

	_, err := s.Pop()
	assert.ErrorIs(t, err, errs.ErrNoElement)
}

// TestCloseInvokesDestructor checks Close's single-threaded teardown path.
func TestCloseInvokesDestructor(t *testing.T) {
	s := stack.NewStack[int](nil)
	var destroyed []int
	s2 := stack.NewStack[int](func(v int) { destroyed = append(destroyed, v) })
	for _, v := range []int{1, 2, 3} {
		require.NoError(t, s2.Push(v))
	}
	s2.Close()
	assert.ElementsMatch(t, []int{1, 2, 3}, destroyed)

	// s with no destructor must not panic on Close.
	require.NoError(t, s.Push(1))
	s.Close()
}
