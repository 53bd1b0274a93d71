// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package reject

import "lockwrap.dev/guard"

func twoParams() int {
	g := guard.NewMutex(0)
	return guard.Do(g, func(a, b *int) int { return *a + *b })
}
