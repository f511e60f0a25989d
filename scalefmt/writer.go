// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"bytes"
	"io"
	"strconv"
	"strings"
)

// A Writer writes records in the results file format.
type Writer struct {
	w      io.Writer
	buf    bytes.Buffer
	format Format

	header Header
	first  bool
}

// NewWriter returns a writer that writes results to w in the given
// format. If header is non-nil, it is written before the first
// record.
func NewWriter(w io.Writer, format Format, header Header) *Writer {
	return &Writer{w: w, format: format, header: header, first: true}
}

// Write writes rec to w.
func (w *Writer) Write(rec Record) error {
	sep := string(w.format.comma())
	if w.first {
		w.first = false
		if w.header != nil {
			w.buf.WriteString(strings.Join(w.header, sep))
			w.buf.WriteByte('\n')
		}
	}
	w.buf.WriteString(strconv.Itoa(rec.Ranks))
	w.buf.WriteString(sep)
	w.buf.WriteString(strconv.Itoa(rec.Threads))
	w.buf.WriteString(sep)
	w.buf.WriteString(strconv.FormatFloat(rec.Seconds, 'g', -1, 64))
	w.buf.WriteByte('\n')

	// Writes to the buffer can't fail, so only the flush can.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

// WriteAll writes every record of d.
func (w *Writer) WriteAll(d *Dataset) error {
	for i := 0; i < d.Len(); i++ {
		if err := w.Write(d.At(i)); err != nil {
			return err
		}
	}
	return nil
}
