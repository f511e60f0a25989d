// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hybridbench/scaleplot/internal/diff"
	"github.com/hybridbench/scaleplot/scalefmt"
	"github.com/hybridbench/scaleplot/scaleseries"
)

func TestSummary(t *testing.T) {
	// The repeated header row is not a point.
	golden(t, "summary", "-o", "", "-summary", "results.csv")
	golden(t, "summaryMean", "-o", "", "-summary", "-agg", "mean", "results.csv")
	golden(t, "summarySpeedup", "-o", "", "-summary", "-metric", "speedup", "results.csv")
	golden(t, "headerOnly", "-o", "", "-summary", "header-only.csv")
}

func TestCSV(t *testing.T) {
	golden(t, "csvMean", "-o", "", "-csv", "-agg", "mean", "results.csv")
	golden(t, "csvSemicolon", "-o", "", "-csv", "-d", ";", "semicolon.csv")
	golden(t, "csvCustomHeader", "-o", "", "-csv", "-header", "ranks, threads, seconds", "custom.csv")
}

func TestErrors(t *testing.T) {
	check := func(wantErr string, args ...string) {
		t.Helper()
		var got, gotErr bytes.Buffer
		err := scaleplot(&got, &gotErr, args)
		if err == nil {
			t.Errorf("%s: want error %q, got none", strings.Join(args, " "), wantErr)
			return
		}
		if !strings.Contains(err.Error(), wantErr) {
			t.Errorf("%s: want error containing %q, got %q", strings.Join(args, " "), wantErr, err)
		}
	}
	td := func(name string) string { return filepath.Join("testdata", name) }

	check(`bad.csv:3: bad elapsed time "NaN_text"`, "-o", "", td("bad.csv"))
	check("missing.csv", "-o", "", td("missing.csv"))
	check(`unknown aggregate "max"`, "-agg", "max", td("results.csv"))
	check(`unknown metric "gflops"`, "-metric", "gflops", td("results.csv"))
	check(`bad delimiter ";;"`, "-d", ";;", td("results.csv"))
	check(`bad header "a,b"`, "-header", "a,b", td("results.csv"))
	check("not positive", "-dpi", "0", td("results.csv"))
	check("unknown chart format", "-o", filepath.Join(t.TempDir(), "chart.bmp"), td("results.csv"))
	check("usage error", "-nosuchflag")
	check("missing-key.json", "-o", "gs://results/chart.png", "-gcs-credentials", td("missing-key.json"), td("results.csv"))
	check("-http cannot read standard input", "-http", "localhost:0", td("results.csv"), "-")

	// A load error is a LoadError with the offending line.
	var le *scalefmt.LoadError
	err := scaleplot(new(bytes.Buffer), new(bytes.Buffer), []string{"-o", "", td("bad.csv")})
	if !errors.As(err, &le) || le.Line != 3 {
		t.Errorf("want LoadError at line 3, got %v", err)
	}
}

func TestChart(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "charts", "scalability.svg")
	html := filepath.Join(dir, "report.html")
	var got, gotErr bytes.Buffer
	err := scaleplot(&got, &gotErr, []string{"-o", out, "-html", html, "-lang", "en", "-agg", "min", "-logx", filepath.Join("testdata", "results.csv")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 0 || gotErr.Len() != 0 {
		t.Errorf("unexpected output:\n%s%s", got.String(), gotErr.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		t.Errorf("chart is not SVG")
	}
	if !bytes.Contains(data, []byte("MPI=4")) {
		t.Errorf("chart legend lacks MPI=4")
	}

	page, err := os.ReadFile(html)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`<img src="charts/scalability.svg"`, "Hybrid MPI / OpenMP scalability"} {
		if !bytes.Contains(page, []byte(want)) {
			t.Errorf("report does not contain %q", want)
		}
	}
}

func TestChartStdout(t *testing.T) {
	var got bytes.Buffer
	err := scaleplot(&got, new(bytes.Buffer), []string{"-o", "-", "-format", "png", filepath.Join("testdata", "results.csv")})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(got.Bytes(), []byte("\x89PNG")) {
		t.Errorf("stdout is not a PNG")
	}
}

func TestChartFormatFromDest(t *testing.T) {
	for _, format := range scaleseries.Formats {
		out := filepath.Join(t.TempDir(), "chart."+format)
		if err := scaleplot(new(bytes.Buffer), new(bytes.Buffer), []string{"-o", out, "-width", "3", "-height", "2", "-dpi", "40", filepath.Join("testdata", "results.csv")}); err != nil {
			t.Errorf("%s: %v", format, err)
			continue
		}
		if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
			t.Errorf("%s: chart not written: %v", format, err)
		}
	}
}

func TestChartRef(t *testing.T) {
	for _, test := range []struct {
		html, chart, want string
	}{
		{"report.html", "scalability.png", "scalability.png"},
		{"out/report.html", "out/img/chart.svg", "img/chart.svg"},
		{"report.html", "-", ""},
		{"report.html", "", ""},
		{"gs://b/r/report.html", "gs://b/r/chart.png", "chart.png"},
		{"gs://b/report.html", "gs://other/chart.png", ""},
		{"report.html", "gs://b/chart.png", ""},
	} {
		if got := chartRef(test.html, test.chart); got != test.want {
			t.Errorf("chartRef(%q, %q) = %q, want %q", test.html, test.chart, got, test.want)
		}
	}
}

func golden(t *testing.T, name string, args ...string) {
	t.Helper()
	if err := os.Chdir("testdata"); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir("..")

	// Get the scaleplot output.
	var got, gotErr bytes.Buffer
	t.Logf("scaleplot %s", strings.Join(args, " "))
	if err := scaleplot(&got, &gotErr, args); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	// Compare to the golden output.
	compare(t, name, "stdout", got.Bytes())
	compare(t, name, "stderr", gotErr.Bytes())
}

func compare(t *testing.T, name, sub string, got []byte) {
	t.Helper()

	wantPath := name + "." + sub
	want, err := os.ReadFile(wantPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Treat a missing file as empty.
			want = nil
		} else {
			t.Fatal(err)
		}
	}

	if !differs(t, want, got) {
		return
	}
	// differs printed the error.

	// Write a "got" file for reference.
	gotPath := name + ".got-" + sub
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}
}

func differs(t *testing.T, want, got []byte) bool {
	t.Helper()
	if d := diff.Diff(want, got); d != "" {
		t.Errorf("\n%s", d)
		return true
	}
	return false
}
