// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package tstest provides utilities for use in unit tests.
package tstest

import (
	"testing"

	"go.uber.org/goleak"
)

// ResourceCheck records the goroutines running now and registers a cleanup
// on tb that fails the test if any goroutine started since is still running
// once the test and its subtests finish. Goroutines get a grace period to
// exit before they count as leaked.
//
// It panics if called from a parallel test, since other tests' goroutines
// would be reported as leaks.
func ResourceCheck(tb testing.TB, opts ...goleak.Option) {
	tb.Helper()

	// Set an environment variable (anything at all) just for the
	// side effect of tb.Setenv panicking if we're in a parallel test.
	tb.Setenv("LW_CHECKING_RESOURCES", "1")

	opts = append(opts, goleak.IgnoreCurrent())
	tb.Cleanup(func() {
		if tb.Failed() {
			// Leaked goroutines are the least of our problems, and a
			// failing test often leaves some behind.
			return
		}
		goleak.VerifyNone(tb, opts...)
	})
}
