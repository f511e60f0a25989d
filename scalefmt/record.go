// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalefmt reads and writes hybrid MPI/OpenMP scaling results.
//
// A results file is a delimited text table with one benchmark run per
// line:
//
//	mpi_ranks,omp_threads,time
//	1,1,10.0
//	1,2,5.0
//	2,1,8.0
//
// Columns are, in order, the number of MPI ranks, the number of
// OpenMP threads per rank, and the elapsed wall-clock time in
// seconds. Results files are commonly built by appending runs and
// concatenating files, so header rows may appear anywhere and any
// number of times. Blank lines and lines starting with '#' are
// ignored.
package scalefmt

import "fmt"

// A Record is a single benchmark measurement.
type Record struct {
	// Ranks is the number of MPI ranks. Always >= 1.
	Ranks int

	// Threads is the number of OpenMP threads per rank. Always >= 1.
	Threads int

	// Seconds is the elapsed time. Always finite and >= 0.
	Seconds float64
}

func (r Record) String() string {
	return fmt.Sprintf("MPI=%d OMP=%d %gs", r.Ranks, r.Threads, r.Seconds)
}

// A Dataset is an immutable, ordered sequence of Records.
//
// The zero Dataset and a nil *Dataset are both empty.
type Dataset struct {
	records []Record
}

// NewDataset returns a Dataset holding a copy of recs.
func NewDataset(recs []Record) *Dataset {
	return &Dataset{append([]Record(nil), recs...)}
}

// Len returns the number of records in d.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i'th record of d.
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of the records in d, in input order.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return append([]Record(nil), d.records...)
}

// A Header is the list of column names of a header row.
type Header []string

// DefaultHeaders are the header rows recognized when a Format does
// not name its own. The first is what the benchmark driver writes;
// the second is the naming used by older plotting scripts.
var DefaultHeaders = []Header{
	{"mpi_ranks", "omp_threads", "time"},
	{"MPI", "OMP", "Time"},
}

// A Format describes the textual layout of a results file.
//
// The zero Format is comma-delimited and recognizes DefaultHeaders.
type Format struct {
	// Comma is the field delimiter. If 0, ',' is used.
	Comma rune

	// Headers lists the header rows to skip. If nil,
	// DefaultHeaders is used.
	Headers []Header
}

func (f Format) comma() rune {
	if f.Comma == 0 {
		return ','
	}
	return f.Comma
}

func (f Format) headers() []Header {
	if f.Headers == nil {
		return DefaultHeaders
	}
	return f.Headers
}

// isHeader reports whether fields exactly match one of f's headers.
func (f Format) isHeader(fields []string) bool {
	for _, h := range f.headers() {
		if len(h) != len(fields) {
			continue
		}
		match := true
		for i := range h {
			if h[i] != fields[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
