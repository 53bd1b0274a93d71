// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package reject holds code that must not type-check.
package reject

import "lockwrap.dev/guard"

// notALock has no Lock or Unlock method.
type notALock struct{}

var _ guard.Basic[int, notALock, *notALock, guard.Exclusive[*notALock]]
