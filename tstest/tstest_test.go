// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package tstest

import (
	"testing"
	"time"
)

func TestResourceCheck(t *testing.T) {
	ResourceCheck(t)
	done := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(done)
	}()
	<-done
}

func TestResourceCheckIgnoresEarlierGoroutines(t *testing.T) {
	stop := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		<-stop
	}()
	t.Run("check", func(t *testing.T) {
		ResourceCheck(t)
	})
	close(stop)
	<-exited
}
