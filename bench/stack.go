package bench

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hcl271/crow/bench/internal/samplelog"
	"github.com/hcl271/crow/errs"
	"github.com/hcl271/crow/stack"
)

// StackConfig configures one RunStack invocation: a number of goroutines
// each pushing, then popping, PerThread values.
type StackConfig struct {
	Threads   int
	PerThread int
}

// StackResult summarizes one RunStack invocation.
type StackResult struct {
	Pushed  int
	Popped  int
	Elapsed time.Duration
	Samples []time.Duration
}

// RunStack drives cfg.Threads goroutines against one crow/stack.Stack[int],
// each pushing cfg.PerThread values and then popping cfg.PerThread values,
// reporting elapsed time and per-operation timing samples.
func RunStack(ctx context.Context, cfg StackConfig, log zerolog.Logger) (StackResult, error) {
	s := stack.NewStack[int](nil)
	var samples samplelog.Log
	var pushed int64
	var popped atomic.Int64

	start := time.Now()
	g, _ := errgroup.WithContext(ctx)
	for t := 0; t < cfg.Threads; t++ {
		accessor := uint32(t)
		base := t * cfg.PerThread
		g.Go(func() error {
			defer s.ReleaseCurrentSlot()

			for v := base; v < base+cfg.PerThread; v++ {
				opStart := time.Now()
				if err := s.Push(v); err != nil {
					return err
				}
				samples.Record(accessor, time.Since(opStart))
			}
			for i := 0; i < cfg.PerThread; i++ {
				opStart := time.Now()
				if _, err := s.Pop(); err != nil {
					if !errors.Is(err, errs.ErrNoElement) {
						return err
					}
				} else {
					popped.Add(1)
				}
				samples.Record(accessor, time.Since(opStart))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return StackResult{}, err
	}
	elapsed := time.Since(start)

	pushed = int64(cfg.Threads * cfg.PerThread)

	log.Info().
		Int("threads", cfg.Threads).
		Int("per_thread", cfg.PerThread).
		Dur("elapsed", elapsed).
		Msg("stack benchmark complete")

	return StackResult{
		Pushed:  int(pushed),
		Popped:  int(popped.Load()),
		Elapsed: elapsed,
		Samples: samples.Snapshot(),
	}, nil
}
