// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"io"
	"os"
)

// A Files reads records from a sequence of input files, as if they
// had been concatenated.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin and if the file list is empty, it should be treated
	// as consisting of stdin.
	AllowStdin bool

	// Stdin is read for "-" when AllowStdin is set. If nil,
	// os.Stdin is used.
	Stdin io.Reader

	// Format is the layout of every input file.
	Format Format

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet.
	inputs []string

	reader *Reader
	file   *os.File
	err    error
}

func (f *Files) init() {
	f.inputs = []string{}
	if f.AllowStdin && len(f.Paths) == 0 {
		f.inputs = append(f.inputs, "-")
	}
	f.inputs = append(f.inputs, f.Paths...)
}

// Scan advances to the next record in the sequence of files and
// reports whether a record was read. If Scan reaches the end of the
// file sequence, or if an error occurs, it returns false. In this
// case, the caller should use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if f.inputs == nil {
		f.init()
	}

	for {
		if f.reader == nil {
			if len(f.inputs) == 0 {
				return false
			}
			path := f.inputs[0]
			f.inputs = f.inputs[1:]

			var r io.Reader
			if f.AllowStdin && path == "-" {
				r = f.Stdin
				if r == nil {
					r = os.Stdin
				}
				path = "<stdin>"
			} else {
				file, err := os.Open(path)
				if err != nil {
					f.err = &LoadError{FileName: path, Err: err}
					return false
				}
				f.file, r = file, file
			}
			f.reader = NewReader(r, path, f.Format)
		}

		if f.reader.Scan() {
			return true
		}
		f.err = f.reader.Err()
		f.close()
		if f.err != nil {
			return false
		}
	}
}

func (f *Files) close() {
	if f.file != nil {
		f.file.Close()
		f.file = nil
	}
	f.reader = nil
}

// Record returns the record that was just read by Scan.
func (f *Files) Record() Record {
	return f.reader.Record()
}

// Err returns the error that stopped Scan, if any.
// If Scan stopped because it read each file to completion,
// or if Scan has not yet returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}

// Load reads every record from files and returns them as a Dataset.
// Loading is all or nothing: the first error is returned and no
// Dataset is produced.
func Load(files *Files) (*Dataset, error) {
	var recs []Record
	for files.Scan() {
		recs = append(recs, files.Record())
	}
	if err := files.Err(); err != nil {
		return nil, err
	}
	return &Dataset{recs}, nil
}

// LoadFile reads the results file at path.
func LoadFile(path string, format Format) (*Dataset, error) {
	return Load(&Files{Paths: []string{path}, Format: format})
}
