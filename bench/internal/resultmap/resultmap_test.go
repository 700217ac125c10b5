package resultmap_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcl271/crow/bench/internal/resultmap"
)

func TestStoreLoad(t *testing.T) {
	m := resultmap.New[string, int]()
	m.Store("a", 1)

	v, ok := m.Load("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = m.Load("missing")
	assert.False(t, ok)
}

func TestLoadOrStore(t *testing.T) {
	m := resultmap.New[string, int]()
	actual, loaded := m.LoadOrStore("a", 1)
	assert.False(t, loaded)
	assert.Equal(t, 1, actual)

	actual, loaded = m.LoadOrStore("a", 2)
	assert.True(t, loaded)
	assert.Equal(t, 1, actual)
}

func TestConcurrentStoreCount(t *testing.T) {
	const goroutines = 32

	m := resultmap.New[int, int]()
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			m.Store(i, i*i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, goroutines, m.Len())

	seen := 0
	m.Range(func(k, v int) bool {
		assert.Equal(t, k*k, v)
		seen++
		return true
	})
	assert.Equal(t, goroutines, seen)
}

func TestDelete(t *testing.T) {
	m := resultmap.New[string, int]()
	m.Store("a", 1)
	m.Delete("a")
	_, ok := m.Load("a")
	assert.False(t, ok)
}
