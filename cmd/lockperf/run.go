// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"lockwrap.dev/guard"
	"lockwrap.dev/types/logger"
)

type config struct {
	goroutines int
	iters      int
	readRatio  float64
	hold       time.Duration
}

func (c config) validate() error {
	switch {
	case c.goroutines <= 0:
		return fmt.Errorf("goroutines must be positive, got %d", c.goroutines)
	case c.iters < 0:
		return fmt.Errorf("iters must not be negative, got %d", c.iters)
	case c.readRatio < 0 || c.readRatio > 1:
		return fmt.Errorf("read-ratio must be in [0, 1], got %v", c.readRatio)
	case c.hold < 0:
		return fmt.Errorf("hold must not be negative, got %v", c.hold)
	}
	return nil
}

type result struct {
	reads, writes int64
	elapsed       time.Duration
}

func (r result) opsPerSec() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.reads+r.writes) / r.elapsed.Seconds()
}

// counter is the guarded value under test, with its lock type erased.
type counter struct {
	incr func(hold time.Duration)
	read func(hold time.Duration) int
	load func() int
}

func counterOf[M any, L guard.Lockable[M], S guard.Strategy[L]](g *guard.Basic[int, M, L, S]) counter {
	return counter{
		incr: func(hold time.Duration) {
			g.WithLock(func(v *int) {
				spin(hold)
				*v++
			})
		},
		read: func(hold time.Duration) int {
			return guard.View(g, func(v int) int {
				spin(hold)
				return v
			})
		},
		load: g.Load,
	}
}

func newCounter(variant string) (counter, error) {
	switch variant {
	case "mutex":
		return counterOf(guard.NewMutex(0)), nil
	case "rwmutex":
		return counterOf(guard.NewRWMutex(0)), nil
	case "recursive":
		return counterOf(guard.NewRecursive(0)), nil
	}
	return counter{}, fmt.Errorf("unknown variant %q", variant)
}

// spin busy-waits for d so the lock stays held without parking the goroutine.
func spin(d time.Duration) {
	if d <= 0 {
		return
	}
	for start := time.Now(); time.Since(start) < d; {
	}
}

func run(ctx context.Context, variant string, cfg config, logf logger.Logf) (result, error) {
	if err := cfg.validate(); err != nil {
		return result{}, err
	}
	c, err := newCounter(variant)
	if err != nil {
		return result{}, err
	}

	var reads, writes atomic.Int64
	progressDone := make(chan struct{})
	stopProgress := reportProgress(logger.LogOnChange(logf, 10*time.Second, time.Now), &reads, &writes, progressDone)
	defer func() {
		stopProgress()
		<-progressDone
	}()

	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	for range cfg.goroutines {
		eg.Go(func() error {
			for i := range cfg.iters {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if rand.Float64() < cfg.readRatio {
					c.read(cfg.hold)
					reads.Add(1)
				} else {
					c.incr(cfg.hold)
					writes.Add(1)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return result{}, err
	}
	res := result{
		reads:   reads.Load(),
		writes:  writes.Load(),
		elapsed: time.Since(start),
	}
	if got := int64(c.load()); got != res.writes {
		return res, fmt.Errorf("%s: lost updates: counter is %d after %d writes", variant, got, res.writes)
	}
	return res, nil
}

// reportProgress logs the operation counts every second until stop is
// called, then closes done.
func reportProgress(logf logger.Logf, reads, writes *atomic.Int64, done chan<- struct{}) (stop func()) {
	quit := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				logf("progress: %d reads, %d writes", reads.Load(), writes.Load())
			}
		}
	}()
	return func() { close(quit) }
}
