// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package guard

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"golang.org/x/tools/go/packages"
)

// TestRejectedAtCompileTime type-checks testdata/reject and verifies that
// a non-lockable primitive and each mis-shaped func is a type error.
func TestRejectedAtCompileTime(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in -short mode; runs the go command")
	}
	c := qt.New(t)

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes,
		Dir:  ".",
	}
	pkgs, err := packages.Load(cfg, "./testdata/reject")
	c.Assert(err, qt.IsNil)
	c.Assert(pkgs, qt.HasLen, 1)

	var errs []string
	for _, e := range pkgs[0].Errors {
		errs = append(errs, e.Error())
	}
	all := strings.Join(errs, "\n")
	t.Logf("errors:\n%s", all)

	c.Assert(errs, qt.Not(qt.HasLen), 0)
	c.Check(all, qt.Contains, "missing method Lock")
	for _, file := range []string{
		"notlockable.go",  // primitive without Lock/Unlock
		"badshape.go",     // two parameters
		"noparams.go",     // no parameters
		"viewptr.go",      // *T passed to a read-only entry point
		"wrongpayload.go", // *string over an int payload
	} {
		c.Check(all, qt.Contains, file+":", qt.Commentf("no type error reported in %s", file))
	}
}
