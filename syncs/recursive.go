// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package syncs

import (
	"sync/atomic"

	"github.com/petermattis/goid"
)

// RecursiveMutex is a mutual exclusion lock that the goroutine holding it
// may lock again. Every Lock must be paired with an Unlock; other
// goroutines can acquire the mutex once the outermost Unlock returns.
//
// The zero value is an unlocked mutex. A RecursiveMutex must not be copied
// after first use.
type RecursiveMutex struct {
	mu    Mutex
	owner atomic.Int64 // goroutine ID of the holder, or 0
	depth int          // only touched by the holder
}

// Lock locks m. If the calling goroutine already holds m, Lock only
// increments the nesting depth.
func (m *RecursiveMutex) Lock() {
	id := goid.Get()
	if m.owner.Load() == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
}

// Unlock undoes one call to Lock. It panics if the calling goroutine does
// not hold m.
func (m *RecursiveMutex) Unlock() {
	if m.owner.Load() != goid.Get() {
		panic("syncs: unlock of RecursiveMutex not held by this goroutine")
	}
	m.depth--
	if m.depth > 0 {
		return
	}
	m.owner.Store(0)
	m.mu.Unlock()
}

// Held reports whether the calling goroutine holds m.
func (m *RecursiveMutex) Held() bool {
	return m.owner.Load() == goid.Get()
}
