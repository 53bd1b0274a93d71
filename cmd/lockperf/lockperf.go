// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Command lockperf measures contention on the guarded values in package
// guard.
//
// Run "lockperf <mutex|rwmutex|recursive>" to start goroutines that read
// and increment a shared counter, then report throughput.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"lockwrap.dev/envknob"
	"lockwrap.dev/syncs"
	"lockwrap.dev/types/logger"
)

var args struct {
	goroutines int
	iters      int
	readRatio  float64
	hold       time.Duration
	verbose    bool
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("lockperf", flag.ExitOnError)
	fs.IntVar(&args.goroutines, "goroutines", 8, "number of goroutines contending for the lock")
	fs.IntVar(&args.iters, "iters", 100000, "operations per goroutine")
	fs.Float64Var(&args.readRatio, "read-ratio", 0.9, "fraction of operations that are read-only, in [0, 1]")
	fs.DurationVar(&args.hold, "hold", 0, "how long each operation holds the lock")
	fs.BoolVar(&args.verbose, "verbose", false, "log progress and debug knobs")
	return fs
}

func newCommand(logf logger.Logf) *ffcli.Command {
	return &ffcli.Command{
		Name:       "lockperf",
		ShortUsage: "lockperf [flags] <mutex|rwmutex|recursive>",
		ShortHelp:  "guarded value contention benchmark",
		FlagSet:    newFlagSet(),
		Options:    []ff.Option{ff.WithEnvVarPrefix("LOCKPERF")},
		Exec: func(ctx context.Context, posArgs []string) error {
			if len(posArgs) != 1 {
				return flag.ErrHelp
			}
			cfg := config{
				goroutines: args.goroutines,
				iters:      args.iters,
				readRatio:  args.readRatio,
				hold:       args.hold,
			}
			if args.verbose {
				envknob.LogCurrent(logf)
				logf("deadlock reporting: %v", syncs.DebugEnabled)
			}
			res, err := run(ctx, posArgs[0], cfg, logf)
			if err != nil {
				return err
			}
			logf("%s: %d reads, %d writes in %v (%.0f ops/s)",
				posArgs[0], res.reads, res.writes, res.elapsed.Round(time.Millisecond), res.opsPerSec())
			return nil
		},
	}
}

func main() {
	logf := logger.Logf(log.Printf)
	syncs.SetDebugLogf(logf)
	if err := newCommand(logf).ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
