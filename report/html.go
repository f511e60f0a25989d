// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders scaling results as HTML and serves them
// over HTTP.
package report

import (
	"io"
	"strconv"

	"github.com/google/safehtml/template"
	"github.com/hybridbench/scaleplot/scaleseries"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>scaleplot</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-top: 1em; }
th, td { padding: 0.2em 0.8em; text-align: right; }
th { border-bottom: 1px solid #888; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Chart}}<p><img src="{{.Chart}}" alt="chart"></p>{{end}}
<table>
<tr><th>MPI</th><th>OMP</th><th>{{.Metric}}</th><th>min</th><th>max</th><th>n</th></tr>
{{range .Rows}}<tr><td>{{.Ranks}}</td><td>{{.Threads}}</td><td>{{.Value}}</td><td>{{.Low}}</td><td>{{.High}}</td><td>{{.N}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// A Page is the content of an HTML report.
type Page struct {
	// Title is the page heading. If empty, the chart title for
	// Lang is used.
	Title string

	// Lang selects the number format and default labels, as in
	// scaleseries.LabelsFor.
	Lang string

	// Chart is the URL of the chart image, relative to the page.
	// If empty, the page has no image.
	Chart string

	Series []*scaleseries.Series
}

type pageData struct {
	Title  string
	Chart  string
	Metric string
	Rows   []pageRow
}

type pageRow struct {
	Ranks, Threads   string
	Value, Low, High string
	N                string
}

var langMatcher = language.NewMatcher([]language.Tag{language.French, language.English})

// WriteHTML writes p to w as a self-contained HTML page.
func WriteHTML(w io.Writer, p Page) error {
	metric := scaleseries.MetricTime
	if len(p.Series) > 0 {
		metric = p.Series[0].Metric
	}
	labels := scaleseries.LabelsFor(p.Lang, metric)
	tag, _ := language.MatchStrings(langMatcher, p.Lang)
	printer := message.NewPrinter(tag)
	num := func(v float64) string {
		return printer.Sprintf("%.4f", v)
	}

	data := pageData{Title: p.Title, Chart: p.Chart, Metric: labels.Y}
	if data.Title == "" {
		data.Title = labels.Title
	}
	for _, s := range p.Series {
		for _, pt := range s.Points {
			data.Rows = append(data.Rows, pageRow{
				Ranks:   strconv.Itoa(s.Ranks),
				Threads: strconv.Itoa(pt.Threads),
				Value:   num(pt.Value),
				Low:     num(pt.Low),
				High:    num(pt.High),
				N:       strconv.Itoa(pt.N),
			})
		}
	}
	return pageTemplate.Execute(w, data)
}
