// Package bench is the benchmark harness for crow/lock, crow/stack, and
// crow/skiplist: each driver spins up N goroutines performing a
// configurable number of operations against one shared instance, collects
// per-goroutine timing samples, and reports total elapsed wall-clock time.
package bench

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hcl271/crow/bench/internal/resultmap"
	"github.com/hcl271/crow/bench/internal/samplelog"
	"github.com/hcl271/crow/lock"
)

// LockVariant selects which busy-wait lock RunLocks exercises.
type LockVariant string

const (
	VariantTAS    LockVariant = "tas"
	VariantTTAS   LockVariant = "ttas"
	VariantTicket LockVariant = "ticket"
)

// LockConfig configures one RunLocks invocation: a number of goroutines
// each performing LockAcquisitions acquisitions of a critical section that
// runs CyclesPerAcquisition increments.
type LockConfig struct {
	Variant              LockVariant
	Threads              int
	LockAcquisitions     int
	CyclesPerAcquisition int
}

// LockResult summarizes one RunLocks invocation.
type LockResult struct {
	Variant LockVariant
	Counter int64
	Elapsed time.Duration
	Samples []time.Duration
}

func newLocker(variant LockVariant) lock.Locker {
	switch variant {
	case VariantTAS:
		return lock.NewTASLock()
	case VariantTTAS:
		return lock.NewTTASLock()
	default:
		return lock.NewTicketLock()
	}
}

// RunLocks drives cfg.Threads goroutines, each acquiring the selected lock
// cfg.LockAcquisitions times and incrementing a shared counter
// cfg.CyclesPerAcquisition times per acquisition, and reports wall-clock
// elapsed time plus a sample of per-acquisition durations, each covering
// both the wait for the lock and the critical section.
func RunLocks(ctx context.Context, cfg LockConfig, log zerolog.Logger) (LockResult, error) {
	l := newLocker(cfg.Variant)
	var counter int64
	var samples samplelog.Log

	start := time.Now()
	g, _ := errgroup.WithContext(ctx)
	for t := 0; t < cfg.Threads; t++ {
		accessor := uint32(t)
		g.Go(func() error {
			for a := 0; a < cfg.LockAcquisitions; a++ {
				opStart := time.Now()
				l.Lock()
				for c := 0; c < cfg.CyclesPerAcquisition; c++ {
					counter++
				}
				l.Unlock()
				samples.Record(accessor, time.Since(opStart))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LockResult{}, err
	}
	elapsed := time.Since(start)

	log.Info().
		Str("variant", string(cfg.Variant)).
		Int("threads", cfg.Threads).
		Int("acquisitions", cfg.LockAcquisitions).
		Dur("elapsed", elapsed).
		Int64("counter", counter).
		Msg("lock benchmark complete")

	return LockResult{
		Variant: cfg.Variant,
		Counter: counter,
		Elapsed: elapsed,
		Samples: samples.Snapshot(),
	}, nil
}

// RunAllLocks runs the same workload against every lock variant and returns
// the results keyed by variant, for side-by-side comparison.
func RunAllLocks(ctx context.Context, cfg LockConfig, log zerolog.Logger) (*resultmap.Map[LockVariant, LockResult], error) {
	results := resultmap.New[LockVariant, LockResult]()
	for _, variant := range []LockVariant{VariantTAS, VariantTTAS, VariantTicket} {
		cfg.Variant = variant
		result, err := RunLocks(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		results.Store(variant, result)
	}
	return results, nil
}
