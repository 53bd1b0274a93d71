// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package guard_test

import (
	"errors"
	"fmt"
	"sync"

	"lockwrap.dev/guard"
)

type Stats struct {
	Hits, Misses int
}

func ExampleRWMutex() {
	var stats guard.RWMutex[Stats]

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			stats.WithLock(func(s *Stats) {
				if i%3 == 0 {
					s.Misses++
				} else {
					s.Hits++
				}
			})
		})
	}
	wg.Wait()

	ratio := guard.View(&stats, func(s Stats) float64 {
		return float64(s.Hits) / float64(s.Hits+s.Misses)
	})
	fmt.Printf("%+v %.1f\n", stats.Load(), ratio)
	// Output: {Hits:6 Misses:4} 0.6
}

func ExampleDo() {
	balance := guard.NewMutex(100)
	errInsufficient := errors.New("insufficient funds")

	withdraw := func(amount int) error {
		return guard.Do(balance, func(b *int) error {
			if *b < amount {
				return errInsufficient
			}
			*b -= amount
			return nil
		})
	}

	fmt.Println(withdraw(30), withdraw(80), balance.Load())
	// Output: <nil> insufficient funds 70
}

type Tree struct {
	Children []*Tree
}

func ExampleRecursive() {
	root := &Tree{Children: []*Tree{{}, {Children: []*Tree{{}}}}}
	visited := guard.NewRecursive(0)

	var walk func(*Tree)
	walk = func(t *Tree) {
		visited.WithLock(func(n *int) {
			*n++
			for _, c := range t.Children {
				walk(c) // relocks visited from the same goroutine
			}
		})
	}
	walk(root)
	fmt.Println(visited.Load())
	// Output: 4
}

type spinLock struct {
	mu sync.Mutex
}

func (l *spinLock) Lock() {
	for !l.mu.TryLock() {
	}
}

func (l *spinLock) Unlock() { l.mu.Unlock() }

func ExampleNew() {
	// Any type whose pointer has Lock and Unlock methods can guard a value.
	g := guard.New[spinLock, *spinLock, guard.Exclusive[*spinLock]]("hello")
	g.WithLock(func(s *string) { *s += ", world" })
	fmt.Println(g.Load())
	// Output: hello, world
}
