// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build lw_mutex_debug

package syncs

import (
	"log"
	"sync/atomic"
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
	"lockwrap.dev/envknob"
	"lockwrap.dev/types/logger"
)

// DebugEnabled reports whether Mutex and RWMutex report potential deadlocks.
const DebugEnabled = true

// A Mutex is a mutual exclusion lock that reports locks held for longer
// than LW_DEADLOCK_TIMEOUT and inconsistent lock ordering.
type Mutex struct {
	deadlock.Mutex
	locked atomic.Bool
}

func (m *Mutex) Lock() {
	m.Mutex.Lock()
	m.locked.Store(true)
}

func (m *Mutex) TryLock() bool {
	// A TryLock by the holder is reported as recursive locking.
	if m.locked.Load() || !m.Mutex.TryLock() {
		return false
	}
	m.locked.Store(true)
	return true
}

func (m *Mutex) Unlock() {
	m.locked.Store(false)
	m.Mutex.Unlock()
}

func (m *Mutex) lockState() (writer bool, readers int32) {
	return m.locked.Load(), 0
}

// An RWMutex is a reader/writer mutual exclusion lock with the same
// reporting as Mutex.
//
// Its TryLock and TryRLock fail whenever rw is held in any mode.
type RWMutex struct {
	deadlock.RWMutex
	writer  atomic.Bool
	readers atomic.Int32
}

func (rw *RWMutex) Lock() {
	rw.RWMutex.Lock()
	rw.writer.Store(true)
}

func (rw *RWMutex) TryLock() bool {
	if rw.writer.Load() || rw.readers.Load() > 0 || !rw.RWMutex.TryLock() {
		return false
	}
	rw.writer.Store(true)
	return true
}

func (rw *RWMutex) Unlock() {
	rw.writer.Store(false)
	rw.RWMutex.Unlock()
}

func (rw *RWMutex) RLock() {
	rw.RWMutex.RLock()
	rw.readers.Add(1)
}

func (rw *RWMutex) TryRLock() bool {
	if rw.writer.Load() || rw.readers.Load() > 0 || !rw.RWMutex.TryRLock() {
		return false
	}
	rw.readers.Add(1)
	return true
}

func (rw *RWMutex) RUnlock() {
	rw.readers.Add(-1)
	rw.RWMutex.RUnlock()
}

func (rw *RWMutex) lockState() (writer bool, readers int32) {
	return rw.writer.Load(), rw.readers.Load()
}

func init() {
	deadlock.Opts.DeadlockTimeout = 30 * time.Second
	if d, ok := envknob.LookupDuration("LW_DEADLOCK_TIMEOUT"); ok {
		deadlock.Opts.DeadlockTimeout = d
	}
	deadlock.Opts.Disable = envknob.Bool("LW_DEADLOCK_DISABLE")
	deadlock.Opts.DisableLockOrderDetection = envknob.Bool("LW_DEADLOCK_NO_LOCK_ORDER")
	SetDebugLogf(log.Printf)
}

// SetDebugLogf sets the logger for potential deadlock reports.
//
// It must be called before any Mutex or RWMutex is in use.
func SetDebugLogf(logf logger.Logf) {
	deadlock.Opts.LogBuf = logger.FuncWriter(logger.WithPrefix(logf, "syncs: "))
}
