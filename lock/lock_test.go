package lock_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcl271/crow/lock"
)

// newLockers returns one fresh instance of each lock variant under test,
// named for failure messages.
func newLockers() map[string]lock.Locker {
	return map[string]lock.Locker{
		"tas":    lock.NewTASLock(),
		"ttas":   lock.NewTTASLock(),
		"ticket": lock.NewTicketLock(),
	}
}

// TestMutualExclusionCounter runs 10 goroutines each through 1000 critical
// sections incrementing a shared counter; the final counter must equal
// 10000 for every lock variant.
func TestMutualExclusionCounter(t *testing.T) {
	const goroutines = 10
	const iterations = 1000

	for name, l := range newLockers() {
		t.Run(name, func(t *testing.T) {
			l := l
			counter := 0
			var wg sync.WaitGroup
			wg.Add(goroutines)
			for i := 0; i < goroutines; i++ {
				go func() {
					defer wg.Done()
					for j := 0; j < iterations; j++ {
						l.Lock()
						counter++
						l.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, goroutines*iterations, counter)
		})
	}
}

// TestTryLockExcludesHolder exercises TASLock/TTASLock's TryLock: it must
// fail while another goroutine holds the lock, and succeed once released.
func TestTryLockExcludesHolder(t *testing.T) {
	for name, l := range map[string]lock.TryLocker{
		"tas":  lock.NewTASLock(),
		"ttas": lock.NewTTASLock(),
	} {
		t.Run(name, func(t *testing.T) {
			l := l
			l.Lock()
			require.False(t, l.TryLock(), "TryLock must fail while held")
			l.Unlock()
			require.True(t, l.TryLock(), "TryLock must succeed once released")
			l.Unlock()
		})
	}
}

// TestTicketLockFairness checks FIFO admission: while one goroutine holds
// the lock, waiters are launched one at a time with enough of a gap that
// each has taken its ticket before the next starts. Once the holder
// releases, the waiters must be admitted in launch order.
func TestTicketLockFairness(t *testing.T) {
	const goroutines = 20

	l := lock.NewTicketLock()
	l.Lock()

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			l.Lock()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			l.Unlock()
		}(i)
		// Give goroutine i time to take its ticket before launching i+1.
		time.Sleep(10 * time.Millisecond)
	}

	l.Unlock()
	wg.Wait()

	require.Len(t, order, goroutines)
	for i, v := range order {
		assert.Equal(t, i, v, "tickets must be served in acquisition order")
	}
}

// TestLockExcludesConcurrentHolders asserts, for each variant, that no two
// goroutines ever observe themselves simultaneously inside the critical
// section.
func TestLockExcludesConcurrentHolders(t *testing.T) {
	const goroutines = 16
	const iterations = 2000

	for name, l := range newLockers() {
		t.Run(name, func(t *testing.T) {
			l := l
			var inside atomic.Int32
			var violations atomic.Int32
			var wg sync.WaitGroup
			wg.Add(goroutines)
			for i := 0; i < goroutines; i++ {
				go func() {
					defer wg.Done()
					for j := 0; j < iterations; j++ {
						l.Lock()
						if inside.Add(1) != 1 {
							violations.Add(1)
						}
						inside.Add(-1)
						l.Unlock()
					}
				}()
			}
			wg.Wait()
			assert.Zero(t, violations.Load())
		})
	}
}
