// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package guard

import "sync"

// Locker is anything that can act as the lock of a [Basic]: a mutual
// exclusion primitive with Lock and Unlock methods.
type Locker = sync.Locker

// RWLocker is a Locker that can also be locked for reading.
type RWLocker interface {
	Locker
	RLock()
	RUnlock()
}

// Lockable constrains L to be *M where *M is a Locker. It lets a [Basic]
// hold its primitive by value while calling its pointer methods.
type Lockable[M any] interface {
	*M
	Locker
}

// Strategy selects how a [Basic] acquires its lock L. Lock and Unlock
// bracket mutating access; RLock and RUnlock bracket read-only access.
//
// A Strategy is always used as its zero value, so implementations should be
// empty structs.
type Strategy[L any] interface {
	Lock(L)
	Unlock(L)
	RLock(L)
	RUnlock(L)
}

// Exclusive is the Strategy for primitives without a shared mode. Read-only
// access takes the lock exclusively too, so concurrent readers are
// serialized.
type Exclusive[L Locker] struct{}

func (Exclusive[L]) Lock(l L)    { l.Lock() }
func (Exclusive[L]) Unlock(l L)  { l.Unlock() }
func (Exclusive[L]) RLock(l L)   { l.Lock() }
func (Exclusive[L]) RUnlock(l L) { l.Unlock() }

// Shared is the Strategy for reader/writer primitives. Read-only access
// takes the lock in shared mode.
type Shared[L RWLocker] struct{}

func (Shared[L]) Lock(l L)    { l.Lock() }
func (Shared[L]) Unlock(l L)  { l.Unlock() }
func (Shared[L]) RLock(l L)   { l.RLock() }
func (Shared[L]) RUnlock(l L) { l.RUnlock() }
