// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaleseries

import "golang.org/x/text/language"

// Labels holds the text of a chart.
type Labels struct {
	Title string
	X, Y  string
}

type localeLabels struct {
	title, x string
	y        [3]string // indexed by Metric
}

// Supported label languages. The first is the fallback.
var labelTags = []language.Tag{language.French, language.English}

var labelTable = []localeLabels{
	{
		title: "Scalabilité hybride MPI / OpenMP",
		x:     "Nombre de threads OpenMP",
		y:     [3]string{"Temps d'exécution (s)", "Accélération", "Efficacité parallèle"},
	},
	{
		title: "Hybrid MPI / OpenMP scalability",
		x:     "Number of OpenMP threads",
		y:     [3]string{"Execution time (s)", "Speedup", "Parallel efficiency"},
	},
}

var labelMatcher = language.NewMatcher(labelTags)

// LabelsFor returns the chart labels for metric m in the language
// best matching lang, a BCP 47 tag such as "fr" or "en-US".
// Unsupported or malformed tags get French labels.
func LabelsFor(lang string, m Metric) Labels {
	_, i := language.MatchStrings(labelMatcher, lang)
	l := labelTable[i]
	y := l.y[MetricTime]
	if m >= 0 && int(m) < len(l.y) {
		y = l.y[m]
	}
	return Labels{Title: l.title, X: l.x, Y: y}
}
