// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package syncs contains additional sync types and the lock primitives
// used by package guard.
package syncs

import "sync"

type tryLocker interface {
	TryLock() bool
	Unlock()
}

type tryRWLocker interface {
	tryLocker
	TryRLock() bool
	RUnlock()
}

// stateReporter is implemented by the lw_mutex_debug Mutex and RWMutex.
// Their holder must not probe them with TryLock, since the deadlock
// detector treats that as recursive locking.
type stateReporter interface {
	lockState() (writer bool, readers int32)
}

// AssertLocked panics if m is not locked.
//
// For a *RecursiveMutex it panics unless the calling goroutine holds m.
// Otherwise the check probes m with TryLock when m has one, so it can
// miss an unlocked m that lacks TryLock. A read-locked RWMutex counts as
// locked.
func AssertLocked(m sync.Locker) {
	switch m := m.(type) {
	case *RecursiveMutex:
		if !m.Held() {
			panic("mutex is not held by this goroutine")
		}
	case stateReporter:
		if w, r := m.lockState(); !w && r == 0 {
			panic("mutex is not locked")
		}
	case tryLocker:
		if m.TryLock() {
			m.Unlock()
			panic("mutex is not locked")
		}
	}
}

// AssertRLocked panics if rw is not locked for reading or writing.
func AssertRLocked(rw tryRWLocker) {
	if sr, ok := rw.(stateReporter); ok {
		if w, r := sr.lockState(); !w && r == 0 {
			panic("mutex is not locked")
		}
		return
	}
	if rw.TryLock() {
		rw.Unlock()
		panic("mutex is not locked")
	}
}

// AssertWLocked panics if rw is not locked for writing.
//
// A pending writer makes TryRLock fail, so AssertWLocked can miss an rw
// that is only read-locked while a writer waits.
func AssertWLocked(rw tryRWLocker) {
	if sr, ok := rw.(stateReporter); ok {
		if w, _ := sr.lockState(); !w {
			panic("mutex is not locked for writing")
		}
		return
	}
	if rw.TryRLock() {
		rw.RUnlock()
		panic("mutex is not locked for writing")
	}
}
