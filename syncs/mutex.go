// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !lw_mutex_debug

package syncs

import (
	"sync"

	"lockwrap.dev/types/logger"
)

// DebugEnabled reports whether Mutex and RWMutex report potential deadlocks.
const DebugEnabled = false

// Mutex is an alias for sync.Mutex.
//
// It's only not a sync.Mutex when built with the lw_mutex_debug build tag.
type Mutex = sync.Mutex

// RWMutex is an alias for sync.RWMutex.
//
// It's only not a sync.RWMutex when built with the lw_mutex_debug build tag.
type RWMutex = sync.RWMutex

// SetDebugLogf sets the logger for potential deadlock reports.
// It does nothing unless built with the lw_mutex_debug build tag.
func SetDebugLogf(logger.Logf) {}
