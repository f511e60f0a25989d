// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff compares expected and actual test output.
package diff

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Diff returns a unified diff from want to got, or "" if they are
// equal. Without a diff command, it returns both texts in full.
func Diff(want, got []byte) string {
	if bytes.Equal(want, got) {
		return ""
	}
	if _, err := exec.LookPath("diff"); err != nil {
		return fmt.Sprintf("want:\n%sgot:\n%s", want, got)
	}

	dir, err := os.MkdirTemp("", "scaleplot-diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(dir)
	if err := os.WriteFile(filepath.Join(dir, "want"), want, 0666); err != nil {
		return err.Error()
	}
	if err := os.WriteFile(filepath.Join(dir, "got"), got, 0666); err != nil {
		return err.Error()
	}

	cmd := exec.Command("diff", "-Nu", "want", "got")
	cmd.Dir = dir
	data, err := cmd.CombinedOutput()
	if len(data) > 0 {
		// diff exits non-zero when the files differ.
		return string(data)
	}
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("want:\n%sgot:\n%s", want, got)
}
