// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package shardmap provides a synchronized map made of independently
// guarded shards.
package shardmap

import (
	"golang.org/x/sys/cpu"
	"lockwrap.dev/guard"
)

// Map is a synchronized map[K]V, internally sharded by a user-defined
// K-sharding function. Each shard is a [guard.Mutex], so operations on keys
// in different shards don't contend.
//
// The zero value is not safe for use; use New.
type Map[K comparable, V any] struct {
	shardFunc func(K) int
	shards    []shard[K, V]
}

type shard[K comparable, V any] struct {
	m guard.Mutex[map[K]V]
	_ cpu.CacheLinePad // avoid false sharing of neighboring shards' mutexes
}

// New returns a new Map with the given number of shards and sharding
// function.
//
// The shard func must return an integer in the range [0, shards) purely
// deterministically based on the provided K.
func New[K comparable, V any](shards int, shardFunc func(K) int) *Map[K, V] {
	if shards <= 0 {
		panic("shardmap: shards must be positive")
	}
	m := &Map[K, V]{
		shardFunc: shardFunc,
		shards:    make([]shard[K, V], shards),
	}
	for i := range m.shards {
		*m.shards[i].m.UnsafePtr() = make(map[K]V) // m isn't shared yet
	}
	return m
}

func (m *Map[K, V]) shard(key K) *guard.Mutex[map[K]V] {
	return &m.shards[m.shardFunc(key)].m
}

// GetOk returns m[key] and whether it was present.
func (m *Map[K, V]) GetOk(key K) (value V, ok bool) {
	m.shard(key).WithRLock(func(sm map[K]V) {
		value, ok = sm[key]
	})
	return
}

// Get returns m[key] or the zero value of V if key is not present.
func (m *Map[K, V]) Get(key K) (value V) {
	value, _ = m.GetOk(key)
	return
}

// Mutate atomically mutates m[k] by calling mutator.
//
// The mutator function is called with the old value (or its zero value) and
// whether it existed in the map and it returns the new value and whether it
// should be set in the map (true) or deleted from the map (false).
//
// It returns the change in size of the map as a result of the mutation, one of
// -1 (delete), 0 (change), or 1 (addition).
func (m *Map[K, V]) Mutate(key K, mutator func(oldValue V, oldValueExisted bool) (newValue V, keep bool)) (sizeDelta int) {
	return guard.Do(m.shard(key), func(sm *map[K]V) int {
		oldV, oldOK := (*sm)[key]
		newV, newOK := mutator(oldV, oldOK)
		if newOK {
			(*sm)[key] = newV
			if oldOK {
				return 0
			}
			return 1
		}
		delete(*sm, key)
		if oldOK {
			return -1
		}
		return 0
	})
}

// Set sets m[key] = value.
//
// It reports whether the map grew in size (that is, whether key was not
// already present in m).
func (m *Map[K, V]) Set(key K, value V) (grew bool) {
	return guard.Do(m.shard(key), func(sm *map[K]V) bool {
		s0 := len(*sm)
		(*sm)[key] = value
		return len(*sm) > s0
	})
}

// Delete removes key from m.
//
// It reports whether the map size shrunk (that is, whether key was present in
// the map).
func (m *Map[K, V]) Delete(key K) (shrunk bool) {
	return guard.Do(m.shard(key), func(sm *map[K]V) bool {
		s0 := len(*sm)
		delete(*sm, key)
		return len(*sm) < s0
	})
}

// Contains reports whether m contains key.
func (m *Map[K, V]) Contains(key K) bool {
	return guard.View(m.shard(key), func(sm map[K]V) bool {
		_, ok := sm[key]
		return ok
	})
}

// Len returns the number of elements in m.
//
// It does so by locking shards one at a time, so it's not particularly cheap,
// nor does it give a consistent snapshot of the map. It's mostly intended for
// metrics or testing.
func (m *Map[K, V]) Len() int {
	n := 0
	for i := range m.shards {
		n += guard.View(&m.shards[i].m, func(sm map[K]V) int { return len(sm) })
	}
	return n
}
