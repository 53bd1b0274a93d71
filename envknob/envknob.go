// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package envknob provides access to environment-variable tweakable
// debug settings.
//
// These are knobs for debugging lock behavior during development, such as
// the deadlock reporting enabled by the lw_mutex_debug build tag. They are
// not a stable interface and may be removed at any time.
package envknob

import (
	"log"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	set = map[string]string{} // knobs read with a non-empty value
)

func noteEnv(k, v string) {
	mu.Lock()
	defer mu.Unlock()
	set[k] = v
}

// logf is logger.Logf, but logger would make envknob depend on it for a
// single func type, so use an alias (so it's still assignable, but has nice
// docs here).
type logf = func(format string, args ...any)

// LogCurrent logs the knobs that have been read so far and were set, in
// name order.
func LogCurrent(logf logf) {
	mu.Lock()
	defer mu.Unlock()

	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		logf("envknob: %s=%q", k, set[k])
	}
}

// Bool returns the boolean value of the named environment variable.
// If the variable is not set, it returns false.
// An invalid value exits the binary with a failure.
func Bool(envVar string) bool {
	b, _ := LookupBool(envVar)
	return b
}

// LookupBool returns the boolean value of the named environment variable,
// as parsed by strconv.ParseBool. The ok result is whether a value was set.
// If the value isn't a valid bool, it exits the program with a failure.
func LookupBool(envVar string) (v bool, ok bool) {
	return lookup(envVar, "boolean", strconv.ParseBool)
}

// LookupDuration returns the time.Duration value of the named environment
// variable, as parsed by time.ParseDuration. The ok result is whether a
// value was set. If the value isn't a valid duration, it exits the program
// with a failure.
func LookupDuration(envVar string) (v time.Duration, ok bool) {
	return lookup(envVar, "duration", time.ParseDuration)
}

// lookup parses the named variable with parse and notes it for LogCurrent.
// A value that doesn't parse is fatal.
func lookup[T any](envVar, kind string, parse func(string) (T, error)) (v T, ok bool) {
	val := os.Getenv(envVar)
	if val == "" {
		return v, false
	}
	v, err := parse(val)
	if err != nil {
		log.Fatalf("envknob: invalid %s environment variable %s value %q", kind, envVar, val)
	}
	noteEnv(envVar, val)
	return v, true
}
