// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var gotBuf strings.Builder
		if err := tab.Format(&gotBuf); err != nil {
			t.Fatal(err)
		}
		got := gotBuf.String()
		if want != got {
			t.Errorf("want:\n%sgot:\n%s", want, got)
		}
		// Reset tab.
		tab = Table{}
	}

	// Basic test.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a  b  c\nd  e  f\n")

	// Padding, without trailing spaces.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("long").Cell("e").Cell("long")
	check("a     b  c\nlong  e  long\n")

	// Per-cell and per-column alignment.
	tab.SetRight(1)
	tab.Row().Cell("x").Cell("1").Cell("y", Right)
	tab.Row().Cell("x").Cell("100").Cell("zzz")
	check("x    1    y\nx  100  zzz\n")

	// Short rows.
	tab.Row().Cell("abc").Cell("d")
	tab.Row().Cell("e")
	check("abc  d\ne\n")

	// Multi-byte runes count as one column.
	tab.Row().Cell("µs").Cell("x")
	tab.Row().Cell("ms").Cell("y")
	check("µs  x\nms  y\n")

	// Empty table.
	check("")
}
