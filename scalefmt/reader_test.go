// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseAll(t *testing.T, data string, format Format) ([]Record, error) {
	t.Helper()
	r := NewReader(strings.NewReader(data), "test", format)
	var out []Record
	for r.Scan() {
		out = append(out, r.Record())
	}
	return out, r.Err()
}

func TestReader(t *testing.T) {
	for _, test := range []struct {
		name   string
		data   string
		format Format
		want   []Record
	}{
		{
			"basic",
			"1,1,10.0\n1,2,5.0\n2,1,8.0\n",
			Format{},
			[]Record{{1, 1, 10}, {1, 2, 5}, {2, 1, 8}},
		},
		{
			"leading header",
			"mpi_ranks,omp_threads,time\n1,1,10.0\n",
			Format{},
			[]Record{{1, 1, 10}},
		},
		{
			"repeated header mid-file",
			"mpi_ranks,omp_threads,time\n1,1,10.0\nmpi_ranks,omp_threads,time\n2,4,2.5\n",
			Format{},
			[]Record{{1, 1, 10}, {2, 4, 2.5}},
		},
		{
			"byte order mark",
			"\ufeffmpi_ranks,omp_threads,time\n1,1,10\n",
			Format{},
			[]Record{{1, 1, 10}},
		},
		{
			"byte order mark without header",
			"\ufeff2,4,1.5\n",
			Format{},
			[]Record{{2, 4, 1.5}},
		},
		{
			"alternate header",
			"MPI,OMP,Time\n4,2,1e-3\n",
			Format{},
			[]Record{{4, 2, 0.001}},
		},
		{
			"header only",
			"mpi_ranks,omp_threads,time\n",
			Format{},
			nil,
		},
		{
			"empty input",
			"",
			Format{},
			nil,
		},
		{
			"blank lines and comments",
			"# run on node17\n\n1,1,3\n\n# done\n",
			Format{},
			[]Record{{1, 1, 3}},
		},
		{
			"spaces around fields",
			" 1 , 8 , 0.25 \n",
			Format{},
			[]Record{{1, 8, 0.25}},
		},
		{
			"semicolon delimiter",
			"mpi_ranks;omp_threads;time\n2;2;1.5\n",
			Format{Comma: ';'},
			[]Record{{2, 2, 1.5}},
		},
		{
			"tab delimiter",
			"2\t2\t1.5\n",
			Format{Comma: '\t'},
			[]Record{{2, 2, 1.5}},
		},
		{
			"custom header",
			"ranks,threads,seconds\n1,1,1\n",
			Format{Headers: []Header{{"ranks", "threads", "seconds"}}},
			[]Record{{1, 1, 1}},
		},
		{
			"zero time",
			"1,1,0\n",
			Format{},
			[]Record{{1, 1, 0}},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := parseAll(t, test.data, test.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReaderErrors(t *testing.T) {
	for _, test := range []struct {
		name   string
		data   string
		format Format
		line   int
		msg    string
	}{
		{"non-numeric time", "1,1,10.0\n1,2,NaN_text\n", Format{}, 2, `test:2: bad elapsed time "NaN_text"`},
		{"non-numeric ranks", "x,1,1\n", Format{}, 1, `test:1: bad rank count "x"`},
		{"non-numeric threads", "1,four,1\n", Format{}, 1, `test:1: bad thread count "four"`},
		{"literal NaN", "1,1,NaN\n", Format{}, 1, `test:1: elapsed time "NaN" is not a finite non-negative number`},
		{"infinite time", "1,1,+Inf\n", Format{}, 1, `test:1: elapsed time "+Inf" is not a finite non-negative number`},
		{"negative time", "1,1,-2\n", Format{}, 1, `test:1: elapsed time "-2" is not a finite non-negative number`},
		{"zero ranks", "0,1,1\n", Format{}, 1, `test:1: rank count 0 is not positive`},
		{"zero threads", "1,0,1\n", Format{}, 1, `test:1: thread count 0 is not positive`},
		{"too few fields", "1,1\n", Format{}, 1, `test:1: wrong number of fields: got 2, want 3`},
		{"too many fields", "1,1,1,1\n", Format{}, 1, `test:1: wrong number of fields: got 4, want 3`},
		// A header-like row that is not exactly a known header is
		// malformed data, not a header.
		{"near header", "mpi_ranks,threads,time\n", Format{}, 1, `test:1: bad rank count "mpi_ranks"`},
		{"header in wrong format", "mpi_ranks;omp_threads;time\n", Format{}, 1, `test:1: wrong number of fields: got 1, want 3`},
		{"default header with custom headers", "mpi_ranks,omp_threads,time\n", Format{Headers: []Header{{"r", "t", "s"}}}, 1, `test:1: bad rank count "mpi_ranks"`},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := parseAll(t, test.data, test.format)
			if err == nil {
				t.Fatalf("want error %q, got none", test.msg)
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("want *LoadError, got %T: %v", err, err)
			}
			if le.Line != test.line {
				t.Errorf("want line %d, got %d", test.line, le.Line)
			}
			if err.Error() != test.msg {
				t.Errorf("want error %q, got %q", test.msg, err.Error())
			}
		})
	}
}

func TestReaderStopsAtError(t *testing.T) {
	got, err := parseAll(t, "1,1,1\nbad\n2,2,2\n", Format{})
	if err == nil {
		t.Fatal("want error, got none")
	}
	if !errors.Is(err, ErrFieldCount) {
		t.Errorf("want ErrFieldCount, got %v", err)
	}
	// No record after the bad row is returned.
	if diff := cmp.Diff([]Record{{1, 1, 1}}, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderLine(t *testing.T) {
	r := NewReader(strings.NewReader("# c\nmpi_ranks,omp_threads,time\n\n1,1,1\n"), "test", Format{})
	if !r.Scan() {
		t.Fatalf("Scan failed: %v", r.Err())
	}
	if r.Line() != 4 {
		t.Errorf("want line 4, got %d", r.Line())
	}
}
