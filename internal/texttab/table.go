// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out plain-text tables with aligned columns.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// A Table accumulates rows of cells and writes them with each
// column padded to its widest cell.
//
// Row and Cell return the Table so calls can be chained.
type Table struct {
	rows  [][]cell
	right []bool // per column
}

type cell struct {
	value string
	right bool
}

// A CellOption adjusts a single cell.
type CellOption func(c *cell)

// Right aligns a cell to the right edge of its column.
var Right CellOption = func(c *cell) { c.right = true }

// SetRight right-aligns every cell of column col.
func (t *Table) SetRight(col int) *Table {
	for len(t.right) <= col {
		t.right = append(t.right, false)
	}
	t.right[col] = true
	return t
}

// Row starts a new row.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell appends a cell to the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	c := cell{value: value}
	col := len(t.rows[len(t.rows)-1])
	if col < len(t.right) {
		c.right = t.right[col]
	}
	for _, o := range opts {
		o(&c)
	}
	t.rows[len(t.rows)-1] = append(t.rows[len(t.rows)-1], c)
	return t
}

// Format lays out t and writes it to w. Columns are separated by
// two spaces and lines carry no trailing spaces.
func (t *Table) Format(w io.Writer) error {
	var widths []int
	for _, row := range t.rows {
		for i, c := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(c.value); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var line strings.Builder
	for _, row := range t.rows {
		line.Reset()
		for i, c := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			pad := widths[i] - utf8.RuneCountInString(c.value)
			if c.right {
				line.WriteString(strings.Repeat(" ", pad))
				line.WriteString(c.value)
			} else {
				line.WriteString(c.value)
				line.WriteString(strings.Repeat(" ", pad))
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
