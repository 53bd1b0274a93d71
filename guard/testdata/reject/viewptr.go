// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package reject

import "lockwrap.dev/guard"

func viewGetsPointer() int {
	g := guard.NewRWMutex(0)
	return guard.View(g, func(v *int) int { return *v })
}
