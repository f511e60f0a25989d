// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Scaleplot charts the scalability of hybrid MPI/OpenMP benchmarks.
//
// Usage:
//
//	scaleplot [flags] [results.csv ...]
//
// Each input file is a delimited table with one benchmark run per
// line: the number of MPI ranks, the number of OpenMP threads per
// rank, and the elapsed time in seconds. Files may carry a header
// row, possibly repeated where runs were appended or files
// concatenated. With no arguments, scaleplot reads results.csv. The
// file name "-" reads standard input.
//
// Scaleplot draws execution time against thread count, one line per
// rank count, and writes the chart to scalability.png. The -o flag
// picks another destination: a local path, "-" for standard output,
// or a gs://bucket/object URL. The chart format follows the
// destination's extension unless -format is given; png, jpg, tif,
// svg, pdf and eps are supported. -o "" disables the chart.
//
// The -metric flag plots speedup or parallel efficiency instead of
// time, relative to the smallest thread count of each rank count.
// The -agg flag combines repeated runs of the same configuration by
// their mean, median or minimum; the chart then shows error bars
// spanning the fastest and slowest run.
//
// The -summary flag prints a text table of the plotted points, and
// -csv prints the cleaned, sorted and optionally aggregated input in
// results format so it can be fed back to scaleplot. The -html flag
// writes an HTML report referencing the chart.
//
// The -http flag serves a live view instead: every page load rereads
// the input files, so a refresh shows new benchmark runs.
//
// Chart labels are in French by default; -lang en selects English.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hybridbench/scaleplot/internal/sink"
	"github.com/hybridbench/scaleplot/report"
	"github.com/hybridbench/scaleplot/scalefmt"
	"github.com/hybridbench/scaleplot/scaleseries"
	"golang.org/x/oauth2"
	"gonum.org/v1/plot/vg"
)

var exit = os.Exit // replaced during testing

// errUsage reports bad command-line flags. The flag package has
// already printed the details.
var errUsage = errors.New("usage error")

func main() {
	log.SetPrefix("scaleplot: ")
	log.SetFlags(0)

	if err := scaleplot(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			exit(0)
		}
		if errors.Is(err, errUsage) {
			exit(2)
		}
		log.Print(err)
		exit(1)
	}
}

type config struct {
	out, format   string
	width, height float64
	dpi           int
	lang, title   string
	metric, agg   string
	logX, logY    bool
	delim         string
	header        string
	csv, summary  bool
	html          string
	http          string
	credentials   string

	// tokens authorizes gs:// writes, shared by all outputs.
	tokens oauth2.TokenSource
}

func parseFlags(wErr io.Writer, args []string) (*config, []string, error) {
	var c config
	flags := flag.NewFlagSet("scaleplot", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(wErr, "Usage: scaleplot [flags] [results.csv ...]\n")
		flags.PrintDefaults()
	}
	flags.StringVar(&c.out, "o", "scalability.png", "write the chart to `dest`: a path, - for stdout, or gs://bucket/object; empty disables the chart")
	flags.StringVar(&c.format, "format", "", "chart `format`: png, jpg, tif, svg, pdf or eps (default from -o)")
	flags.Float64Var(&c.width, "width", 8, "chart width in `inches`")
	flags.Float64Var(&c.height, "height", 5, "chart height in `inches`")
	flags.IntVar(&c.dpi, "dpi", scaleseries.DefaultDPI, "raster chart resolution in `dots` per inch")
	flags.StringVar(&c.lang, "lang", "fr", "label `language`")
	flags.StringVar(&c.title, "title", "", "chart `title` (default from -lang)")
	flags.StringVar(&c.metric, "metric", "time", "plotted `metric`: time, speedup or efficiency")
	flags.StringVar(&c.agg, "agg", "none", "combine repeated runs by `method`: none, mean, median or min")
	flags.BoolVar(&c.logX, "logx", false, "use a logarithmic thread axis")
	flags.BoolVar(&c.logY, "logy", false, "use a logarithmic value axis")
	flags.StringVar(&c.delim, "d", ",", "field `delimiter` of input and -csv output")
	flags.StringVar(&c.header, "header", "", "accepted header row as comma-separated `names` (default mpi_ranks,omp_threads,time and MPI,OMP,Time)")
	flags.BoolVar(&c.csv, "csv", false, "print the cleaned results table")
	flags.BoolVar(&c.summary, "summary", false, "print a text table of the plotted points")
	flags.StringVar(&c.html, "html", "", "write an HTML report to `dest`")
	flags.StringVar(&c.http, "http", "", "serve a live view on `address` instead of writing files")
	flags.StringVar(&c.credentials, "gcs-credentials", "", "service account key `file` for gs:// destinations")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, errUsage
	}
	return &c, flags.Args(), nil
}

// inputFormat returns the results format selected by c.
func (c *config) inputFormat() (scalefmt.Format, error) {
	var f scalefmt.Format
	r, size := utf8.DecodeRuneInString(c.delim)
	if size == 0 || size != len(c.delim) || r == '\n' || r == '\r' || r == '"' || r == '#' {
		return f, fmt.Errorf("bad delimiter %q: want a single character other than newline, quote or #", c.delim)
	}
	f.Comma = r
	if c.header != "" {
		h := strings.Split(c.header, ",")
		if len(h) != 3 {
			return f, fmt.Errorf("bad header %q: want three comma-separated names", c.header)
		}
		for i := range h {
			h[i] = strings.TrimSpace(h[i])
		}
		f.Headers = []scalefmt.Header{h}
	}
	return f, nil
}

func scaleplot(w, wErr io.Writer, args []string) error {
	c, paths, err := parseFlags(wErr, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		paths = []string{"results.csv"}
	}

	format, err := c.inputFormat()
	if err != nil {
		return err
	}
	var opts scaleseries.Options
	if opts.Aggregate, err = scaleseries.ParseAggregate(c.agg); err != nil {
		return err
	}
	if opts.Metric, err = scaleseries.ParseMetric(c.metric); err != nil {
		return err
	}
	chartOpts := scaleseries.ChartOptions{
		Labels: scaleseries.LabelsFor(c.lang, opts.Metric),
		LogX:   c.logX,
		LogY:   c.logY,
		Width:  vg.Length(c.width) * vg.Inch,
		Height: vg.Length(c.height) * vg.Inch,
		DPI:    c.dpi,
	}
	if c.title != "" {
		chartOpts.Labels.Title = c.title
	}
	if c.width <= 0 || c.height <= 0 || c.dpi <= 0 {
		return fmt.Errorf("chart size %gx%gin at %d dpi is not positive", c.width, c.height, c.dpi)
	}

	if c.http != "" {
		// Every request rereads the inputs, which stdin cannot do.
		for _, path := range paths {
			if path == "-" {
				return fmt.Errorf("-http cannot read standard input; name the results files")
			}
		}
		return serve(c.http, &report.App{Paths: paths, Format: format, Options: opts, Chart: chartOpts, Lang: c.lang})
	}

	d, err := scalefmt.Load(&scalefmt.Files{Paths: paths, AllowStdin: true, Format: format})
	if err != nil {
		return err
	}
	if d.Len() == 0 {
		fmt.Fprintf(wErr, "warning: no results in %s\n", strings.Join(paths, ", "))
	}
	series, err := scaleseries.Build(d, opts)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if c.csv {
		if err := writeCSV(w, d, opts.Aggregate, format, c.header != ""); err != nil {
			return err
		}
	}
	if c.summary {
		if err := scaleseries.WriteText(w, series); err != nil {
			return err
		}
	}
	if c.out != "" {
		chart, err := scaleseries.NewChart(series, chartOpts)
		if err != nil {
			return err
		}
		chartFormat := c.format
		if chartFormat == "" {
			chartFormat = scaleseries.FormatFromPath(c.out)
		}
		if chartFormat == "" {
			chartFormat = "png"
		}
		// Render fully before opening the destination so a
		// failed render leaves no partial file behind.
		var buf bytes.Buffer
		if err := chart.Render(&buf, chartFormat); err != nil {
			return err
		}
		if err := save(ctx, c, c.out, sink.ContentType(chartFormat), w, buf.Bytes()); err != nil {
			return err
		}
	}
	if c.html != "" {
		var buf bytes.Buffer
		page := report.Page{Title: chartOpts.Labels.Title, Lang: c.lang, Chart: chartRef(c.html, c.out), Series: series}
		if err := report.WriteHTML(&buf, page); err != nil {
			return err
		}
		if err := save(ctx, c, c.html, sink.ContentType("html"), w, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// writeCSV writes the records of d sorted by configuration, combined
// by agg, in the input format. The header is the custom one if the
// format has one.
func writeCSV(w io.Writer, d *scalefmt.Dataset, agg scaleseries.Aggregate, format scalefmt.Format, custom bool) error {
	series, err := scaleseries.Build(d, scaleseries.Options{Aggregate: agg})
	if err != nil {
		return err
	}
	header := scalefmt.DefaultHeaders[0]
	if custom {
		header = format.Headers[0]
	}
	cw := scalefmt.NewWriter(w, format, header)
	for _, s := range series {
		for _, p := range s.Points {
			if err := cw.Write(scalefmt.Record{Ranks: s.Ranks, Threads: p.Threads, Seconds: p.Value}); err != nil {
				return err
			}
		}
	}
	return nil
}

func save(ctx context.Context, c *config, dest, contentType string, stdout io.Writer, data []byte) error {
	if _, _, err := sink.ParseGCS(dest); err == nil && c.tokens == nil {
		if c.tokens, err = sink.NewTokenSource(ctx, c.credentials); err != nil {
			return fmt.Errorf("%s: %w", dest, err)
		}
	}
	f, err := sink.Create(ctx, dest, sink.Options{TokenSource: c.tokens, ContentType: contentType, Stdout: stdout})
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// chartRef returns the URL of the chart at chartDest relative to an
// HTML report at htmlDest, or "" if the report cannot reference it.
func chartRef(htmlDest, chartDest string) string {
	if chartDest == "" || chartDest == "-" {
		return ""
	}
	if strings.HasPrefix(htmlDest, "gs://") || strings.HasPrefix(chartDest, "gs://") {
		hb, ho, err1 := sink.ParseGCS(htmlDest)
		cb, co, err2 := sink.ParseGCS(chartDest)
		if err1 != nil || err2 != nil || hb != cb {
			return ""
		}
		htmlDest, chartDest = ho, co
	}
	rel, err := filepath.Rel(filepath.Dir(htmlDest), chartDest)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}

func serve(addr string, app *report.App) error {
	mux := http.NewServeMux()
	app.RegisterOnMux(mux)
	log.Printf("Listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
