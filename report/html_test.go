// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"strings"
	"testing"

	"github.com/hybridbench/scaleplot/scaleseries"
)

func testSeries() []*scaleseries.Series {
	return []*scaleseries.Series{
		{Ranks: 1, Points: []scaleseries.Point{{1, 10, 10, 10, 1}, {2, 5, 4.5, 5.5, 2}}},
		{Ranks: 2, Points: []scaleseries.Point{{1, 8, 8, 8, 1}}},
	}
}

func TestWriteHTML(t *testing.T) {
	var buf strings.Builder
	err := WriteHTML(&buf, Page{Lang: "en", Chart: "chart.svg", Series: testSeries()})
	if err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{
		"<h1>Hybrid MPI / OpenMP scalability</h1>",
		`<img src="chart.svg"`,
		"<th>Execution time (s)</th>",
		"<tr><td>1</td><td>2</td><td>5.0000</td><td>4.5000</td><td>5.5000</td><td>2</td></tr>",
		"<tr><td>2</td><td>1</td><td>8.0000</td>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("page does not contain %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "<tr><td>"); n != 3 {
		t.Errorf("want 3 rows, got %d", n)
	}
}

func TestWriteHTMLDefaults(t *testing.T) {
	var buf strings.Builder
	if err := WriteHTML(&buf, Page{}); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "Scalabilité hybride MPI / OpenMP") {
		t.Errorf("want French title, got:\n%s", got)
	}
	if strings.Contains(got, "<img") {
		t.Errorf("page without chart has an image:\n%s", got)
	}
	if strings.Contains(got, "<tr><td>") {
		t.Errorf("page without series has rows:\n%s", got)
	}
}

func TestWriteHTMLEscapes(t *testing.T) {
	var buf strings.Builder
	if err := WriteHTML(&buf, Page{Title: "<script>x</script>", Lang: "en"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); strings.Contains(got, "<script>") {
		t.Errorf("title not escaped:\n%s", got)
	}
}
