// Command crowbench is the CLI entrypoint for the crow/bench harness:
//
//	crowbench locks     --variant=tas|ttas|ticket|all --threads=N --acquisitions=N
//	crowbench stack     --threads=N --per-thread=N
//	crowbench skiplist  --threads=N --cycles=N --keys=N
//	crowbench matrix    --size=N --threads=N
//
// No environment variables or config files are read; every knob is a flag.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hcl271/crow/bench"
)

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	log := newLogger()

	switch os.Args[1] {
	case "locks":
		runLocks(log, os.Args[2:])
	case "stack":
		runStack(log, os.Args[2:])
	case "skiplist":
		runSkipList(log, os.Args[2:])
	case "matrix":
		runMatrix(log, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: crowbench locks|stack|skiplist|matrix [flags]")
}

func runLocks(log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("locks", flag.ExitOnError)
	variant := fs.String("variant", "ticket", "lock variant: tas, ttas, ticket, or all")
	threads := fs.Int("threads", 8, "number of goroutines")
	acquisitions := fs.Int("acquisitions", 1000, "lock acquisitions per goroutine")
	cycles := fs.Int("cycles", 10, "increments performed per acquisition")
	fs.Parse(args)

	cfg := bench.LockConfig{
		Variant:              bench.LockVariant(*variant),
		Threads:              *threads,
		LockAcquisitions:     *acquisitions,
		CyclesPerAcquisition: *cycles,
	}

	if *variant == "all" {
		results, err := bench.RunAllLocks(context.Background(), cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("locks benchmark failed")
		}
		results.Range(func(v bench.LockVariant, r bench.LockResult) bool {
			fmt.Printf("variant=%s threads=%d counter=%d elapsed=%s\n",
				v, *threads, r.Counter, r.Elapsed)
			return true
		})
		return
	}

	result, err := bench.RunLocks(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("locks benchmark failed")
	}

	fmt.Printf("variant=%s threads=%d counter=%d elapsed=%s\n",
		result.Variant, *threads, result.Counter, result.Elapsed)
}

func runStack(log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("stack", flag.ExitOnError)
	threads := fs.Int("threads", 8, "number of goroutines")
	perThread := fs.Int("per-thread", 10000, "pushes (and pops) per goroutine")
	fs.Parse(args)

	cfg := bench.StackConfig{Threads: *threads, PerThread: *perThread}

	result, err := bench.RunStack(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("stack benchmark failed")
	}

	fmt.Printf("threads=%d pushed=%d popped=%d elapsed=%s\n",
		*threads, result.Pushed, result.Popped, result.Elapsed)
}

func runSkipList(log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("skiplist", flag.ExitOnError)
	threads := fs.Int("threads", 8, "number of goroutines")
	cycles := fs.Int("cycles", 100, "insert/search/remove rounds per goroutine")
	keys := fs.Int("keys", 16, "keys owned per goroutine")
	fs.Parse(args)

	cfg := bench.SkipListConfig{Threads: *threads, Cycles: *cycles, KeysPerGoroutine: *keys}

	result, err := bench.RunSkipList(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("skiplist benchmark failed")
	}

	fmt.Printf("threads=%d operations=%d elapsed=%s\n",
		*threads, result.Operations, result.Elapsed)
}

func runMatrix(log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("matrix", flag.ExitOnError)
	size := fs.Int("size", 128, "matrix dimension")
	threads := fs.Int("threads", 6, "number of goroutines")
	fs.Parse(args)

	result := bench.RunMatrix(bench.MatrixConfig{Size: *size, Threads: *threads}, log)

	fmt.Printf("size=%d threads=%d elapsed=%s\n", result.Size, *threads, result.Elapsed)
}
