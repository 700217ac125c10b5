package bench

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hcl271/crow/bench/internal/samplelog"
	"github.com/hcl271/crow/skiplist"
)

// SkipListConfig configures one RunSkipList invocation: a number of
// goroutines each running Cycles rounds of insert-then-search-then-remove
// over a disjoint key range.
type SkipListConfig struct {
	Threads          int
	Cycles           int
	KeysPerGoroutine int
}

// SkipListResult summarizes one RunSkipList invocation.
type SkipListResult struct {
	Operations int
	Elapsed    time.Duration
	Samples    []time.Duration
}

// RunSkipList drives cfg.Threads goroutines against one
// crow/skiplist.SkipList[int,int], each churning through cfg.Cycles rounds
// of insert/search/remove over its own disjoint key range.
func RunSkipList(ctx context.Context, cfg SkipListConfig, log zerolog.Logger) (SkipListResult, error) {
	sl := skiplist.NewSkipList[int, int]()
	var samples samplelog.Log

	start := time.Now()
	g, _ := errgroup.WithContext(ctx)
	for t := 0; t < cfg.Threads; t++ {
		accessor := uint32(t)
		base := t * cfg.KeysPerGoroutine
		g.Go(func() error {
			defer sl.ReleaseCurrentSlot()

			for c := 0; c < cfg.Cycles; c++ {
				opStart := time.Now()
				for k := base; k < base+cfg.KeysPerGoroutine; k++ {
					if err := sl.Insert(k, c); err != nil {
						return err
					}
				}
				for k := base; k < base+cfg.KeysPerGoroutine; k++ {
					if _, err := sl.Search(k); err != nil {
						return err
					}
				}
				for k := base; k < base+cfg.KeysPerGoroutine; k++ {
					if err := sl.Remove(k); err != nil {
						return err
					}
				}
				samples.Record(accessor, time.Since(opStart))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SkipListResult{}, err
	}
	elapsed := time.Since(start)

	ops := cfg.Threads * cfg.Cycles * cfg.KeysPerGoroutine * 3

	log.Info().
		Int("threads", cfg.Threads).
		Int("cycles", cfg.Cycles).
		Int("operations", ops).
		Dur("elapsed", elapsed).
		Msg("skip list benchmark complete")

	return SkipListResult{
		Operations: ops,
		Elapsed:    elapsed,
		Samples:    samples.Snapshot(),
	}, nil
}
