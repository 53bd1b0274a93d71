// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package guard provides values that can only be reached through their lock.
//
// A guarded value owns a T and a private mutual exclusion primitive. Code
// that needs the T passes a func to [Do], [View], [Basic.WithLock] or
// [Basic.WithRLock]. The lock is held for exactly the duration of that call
// and is released however the func returns, including by panicking.
//
// Whether a func gets exclusive or shared access follows from its
// signature: funcs taking *T may mutate the value and get the exclusive
// lock, funcs taking T get the read lock. For primitives without a read
// lock ([Mutex] and [Recursive]), read-only access is exclusive as well.
package guard

import (
	"lockwrap.dev/syncs"
	"lockwrap.dev/util/callable"
)

// Basic is a value of type T guarded by a lock of type M.
//
// L is always *M. S picks the acquisition strategy for L; see [Exclusive]
// and [Shared]. Most code should use [Mutex], [RWMutex] or [Recursive]
// rather than spelling out a Basic. Supporting another primitive is a
// matter of declaring another such alias.
//
// The zero value holds the zero T and is ready for use. A Basic must not be
// copied after first use.
type Basic[T any, M any, L Lockable[M], S Strategy[L]] struct {
	mu M
	v  T
}

// Mutex is a T guarded by a [syncs.Mutex].
type Mutex[T any] = Basic[T, syncs.Mutex, *syncs.Mutex, Exclusive[*syncs.Mutex]]

// RWMutex is a T guarded by a [syncs.RWMutex]. Read-only funcs may run
// concurrently with each other.
type RWMutex[T any] = Basic[T, syncs.RWMutex, *syncs.RWMutex, Shared[*syncs.RWMutex]]

// Recursive is a T guarded by a [syncs.RecursiveMutex]. A func running under
// its lock may call back into the same Recursive without deadlocking.
type Recursive[T any] = Basic[T, syncs.RecursiveMutex, *syncs.RecursiveMutex, Exclusive[*syncs.RecursiveMutex]]

// New returns a Basic holding v, for primitive types other than those with
// aliases in this package:
//
//	g := guard.New[mylock.Lock, *mylock.Lock, guard.Exclusive[*mylock.Lock]](v)
func New[M any, L Lockable[M], S Strategy[L], T any](v T) *Basic[T, M, L, S] {
	return &Basic[T, M, L, S]{v: v}
}

// NewMutex returns a Mutex holding v.
func NewMutex[T any](v T) *Mutex[T] { return &Mutex[T]{v: v} }

// NewRWMutex returns an RWMutex holding v.
func NewRWMutex[T any](v T) *RWMutex[T] { return &RWMutex[T]{v: v} }

// NewRecursive returns a Recursive holding v.
func NewRecursive[T any](v T) *Recursive[T] { return &Recursive[T]{v: v} }

func (g *Basic[T, M, L, S]) locker() L { return L(&g.mu) }

// checkHeld panics in lw_mutex_debug builds if S returned without locking
// g's primitive.
func (g *Basic[T, M, L, S]) checkHeld() {
	if syncs.DebugEnabled {
		syncs.AssertLocked(g.locker())
	}
}

// WithLock calls f with a pointer to the value while holding the lock
// exclusively. The pointer must not be retained after f returns.
func (g *Basic[T, M, L, S]) WithLock(f func(*T)) {
	var s S
	s.Lock(g.locker())
	g.checkHeld()
	defer s.Unlock(g.locker())
	f(&g.v)
}

// WithRLock calls f with a copy of the value while holding the lock for
// reading. f must not mutate anything reachable through the copy, such as
// the elements of a slice or map.
func (g *Basic[T, M, L, S]) WithRLock(f func(T)) {
	var s S
	s.RLock(g.locker())
	g.checkHeld()
	defer s.RUnlock(g.locker())
	f(g.v)
}

// Load returns a copy of the value, taken under the read lock.
func (g *Basic[T, M, L, S]) Load() T {
	var s S
	s.RLock(g.locker())
	g.checkHeld()
	defer s.RUnlock(g.locker())
	return g.v
}

// Store replaces the value.
func (g *Basic[T, M, L, S]) Store(v T) {
	var s S
	s.Lock(g.locker())
	g.checkHeld()
	defer s.Unlock(g.locker())
	g.v = v
}

// Swap replaces the value and returns the old one.
func (g *Basic[T, M, L, S]) Swap(v T) (old T) {
	var s S
	s.Lock(g.locker())
	g.checkHeld()
	defer s.Unlock(g.locker())
	old, g.v = g.v, v
	return old
}

// UnsafePtr returns a pointer to the value without locking.
//
// It's for callers that already serialize access some other way, such as
// during construction before g is shared. Mixing it with concurrent locked
// access is a data race.
func (g *Basic[T, M, L, S]) UnsafePtr() *T { return &g.v }

// UnsafeValue returns a copy of the value without locking.
// The same caveats as UnsafePtr apply.
func (g *Basic[T, M, L, S]) UnsafeValue() T { return g.v }

// Do calls f with a pointer to g's value while holding g's lock exclusively,
// and returns f's result.
//
// To report failure, f returns an error (R = error); Do passes it through
// unchanged. If f panics, the lock is released before the panic continues.
// Use [Basic.WithLock] for funcs without a result.
func Do[T, R any, M any, L Lockable[M], S Strategy[L], F callable.Mutator[T, R]](g *Basic[T, M, L, S], f F) R {
	var s S
	s.Lock(g.locker())
	g.checkHeld()
	defer s.Unlock(g.locker())
	return f(&g.v)
}

// View calls f with a copy of g's value while holding g's lock for reading,
// and returns f's result. As with [Basic.WithRLock], f must not mutate
// anything reachable through the copy.
func View[T, R any, M any, L Lockable[M], S Strategy[L], F callable.Viewer[T, R]](g *Basic[T, M, L, S], f F) R {
	var s S
	s.RLock(g.locker())
	g.checkHeld()
	defer s.RUnlock(g.locker())
	return f(g.v)
}
