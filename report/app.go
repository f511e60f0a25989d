// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"net/http"

	"github.com/hybridbench/scaleplot/internal/sink"
	"github.com/hybridbench/scaleplot/scalefmt"
	"github.com/hybridbench/scaleplot/scaleseries"
)

// App serves a live view of results files. Every request reloads
// the files, so new benchmark runs show up on refresh.
type App struct {
	// Paths are the results files to load.
	Paths []string

	// Format is the layout of the results files.
	Format scalefmt.Format

	// Options configures how series are built.
	Options scaleseries.Options

	// Chart configures the served charts.
	Chart scaleseries.ChartOptions

	// Lang selects the page locale.
	Lang string
}

// RegisterOnMux registers the viewer's handlers on mux:
// / serves the HTML page, /chart.svg and /chart.png the chart.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/", a.index)
	mux.HandleFunc("/chart.svg", a.chart("svg"))
	mux.HandleFunc("/chart.png", a.chart("png"))
}

func (a *App) load() ([]*scaleseries.Series, error) {
	d, err := scalefmt.Load(&scalefmt.Files{Paths: a.Paths, Format: a.Format})
	if err != nil {
		return nil, err
	}
	return scaleseries.Build(d, a.Options)
}

// index handles /.
func (a *App) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	series, err := a.load()
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	var buf bytes.Buffer
	page := Page{Title: a.Chart.Labels.Title, Lang: a.Lang, Chart: "chart.svg", Series: series}
	if err := WriteHTML(&buf, page); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", sink.ContentType("html"))
	w.Write(buf.Bytes())
}

// chart returns a handler that renders the chart in format.
func (a *App) chart(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		series, err := a.load()
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		c, err := scaleseries.NewChart(series, a.Chart)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		var buf bytes.Buffer
		if err := c.Render(&buf, format); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", sink.ContentType(format))
		w.Write(buf.Bytes())
	}
}
