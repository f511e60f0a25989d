// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strconv"
	"strings"
)

// A Reader reads a results file.
//
// Its API is modeled on bufio.Scanner. To construct a new Reader,
// call NewReader.
type Reader struct {
	br       *bufio.Reader
	cr       *csv.Reader
	format   Format
	fileName string
	line     int
	started  bool

	rec Record
	err error
}

// A LoadError reports a results file that could not be read or
// contains a row that is neither a valid record nor a header.
type LoadError struct {
	FileName string
	Line     int // 0 if the error is not tied to a line
	Err      error
}

func (e *LoadError) Error() string {
	if e.Line == 0 {
		var pe *fs.PathError
		if errors.As(e.Err, &pe) {
			// PathError already names the file.
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.FileName, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.FileName, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrFieldCount is wrapped by a LoadError for rows that do not have
// exactly three fields.
var ErrFieldCount = errors.New("wrong number of fields")

// NewReader constructs a reader to parse results from r in the given
// format. fileName is used in error messages; it is purely
// diagnostic.
func NewReader(r io.Reader, fileName string, format Format) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	br := bufio.NewReader(r)
	cr := csv.NewReader(br)
	cr.Comma = format.comma()
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{br: br, cr: cr, format: format, fileName: fileName}
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Record method to get
// the record. If Scan reaches EOF or any error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
//
// Rows are parsed numerically first. A row that does not parse is
// skipped only if it is exactly one of the format's header rows;
// otherwise Scan stops with a *LoadError.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if !r.started {
		r.started = true
		skipBOM(r.br)
	}
	for {
		fields, err := r.cr.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				r.err = &LoadError{r.fileName, pe.Line, pe.Err}
			} else {
				r.err = &LoadError{r.fileName, r.line, err}
			}
			return false
		}
		r.line, _ = r.cr.FieldPos(0)
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}

		rec, err := parseRecord(fields)
		if err == nil {
			r.rec = rec
			return true
		}
		if r.format.isHeader(fields) {
			continue
		}
		r.err = &LoadError{r.fileName, r.line, err}
		return false
	}
}

// Record returns the record that was just read by Scan.
func (r *Reader) Record() Record {
	return r.rec
}

// Line returns the input line of the record just read by Scan.
func (r *Reader) Line() int {
	return r.line
}

// Err returns the first error encountered by the Reader. If Scan
// stopped because it reached EOF, Err returns nil.
func (r *Reader) Err() error {
	return r.err
}

// skipBOM discards a UTF-8 byte order mark at the start of br, as
// written by spreadsheet exports.
func skipBOM(br *bufio.Reader) {
	if b, err := br.Peek(3); err == nil && string(b) == "\ufeff" {
		br.Discard(3)
	}
}

func parseRecord(fields []string) (Record, error) {
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("%w: got %d, want 3", ErrFieldCount, len(fields))
	}
	var rec Record
	var err error
	if rec.Ranks, err = strconv.Atoi(fields[0]); err != nil {
		return Record{}, fmt.Errorf("bad rank count %q", fields[0])
	}
	if rec.Ranks < 1 {
		return Record{}, fmt.Errorf("rank count %d is not positive", rec.Ranks)
	}
	if rec.Threads, err = strconv.Atoi(fields[1]); err != nil {
		return Record{}, fmt.Errorf("bad thread count %q", fields[1])
	}
	if rec.Threads < 1 {
		return Record{}, fmt.Errorf("thread count %d is not positive", rec.Threads)
	}
	if rec.Seconds, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return Record{}, fmt.Errorf("bad elapsed time %q", fields[2])
	}
	if math.IsNaN(rec.Seconds) || math.IsInf(rec.Seconds, 0) || rec.Seconds < 0 {
		return Record{}, fmt.Errorf("elapsed time %q is not a finite non-negative number", fields[2])
	}
	return rec, nil
}
