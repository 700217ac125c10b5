package bench

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/hcl271/crow/bench/matrix"
)

// MatrixConfig configures one RunMatrix invocation.
type MatrixConfig struct {
	Size    int
	Threads int
}

// MatrixResult summarizes one RunMatrix invocation.
type MatrixResult struct {
	Size    int
	Elapsed time.Duration
}

// RunMatrix multiplies two Size x Size matrices using Threads goroutines
// and reports elapsed wall-clock time.
func RunMatrix(cfg MatrixConfig, log zerolog.Logger) MatrixResult {
	a := matrix.New(cfg.Size, 1)
	b := matrix.New(cfg.Size, 1)

	start := time.Now()
	matrix.Multiply(a, b, cfg.Threads)
	elapsed := time.Since(start)

	log.Info().
		Int("size", cfg.Size).
		Int("threads", cfg.Threads).
		Dur("elapsed", elapsed).
		Msg("matrix benchmark complete")

	return MatrixResult{Size: cfg.Size, Elapsed: elapsed}
}
