// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaleseries

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aclements/go-moremath/stats"
	"github.com/hybridbench/scaleplot/internal/texttab"
	"github.com/hybridbench/scaleplot/scaleunit"
)

// WriteText writes a table of the points of series to w, one row per
// point. Times share a common SI scale. For time series, the table
// also shows the speedup and parallel efficiency of each point
// relative to the smallest thread count of its series.
func WriteText(w io.Writer, series []*Series) error {
	metric := MetricTime
	var vals []float64
	for _, s := range series {
		metric = s.Metric
		for _, p := range s.Points {
			vals = append(vals, p.Value)
		}
	}
	scaler := scaleunit.CommonScale(vals)

	var tab texttab.Table
	for col := 0; col < 6; col++ {
		tab.SetRight(col)
	}
	tab.Row().Cell("MPI").Cell("OMP").Cell(metric.String()).Cell("n")
	if metric == MetricTime {
		tab.Cell("speedup").Cell("efficiency")
	}

	for _, s := range series {
		var speedups []float64
		if metric == MetricTime {
			speedups = relativeSpeedups(s)
		}
		for i, p := range s.Points {
			tab.Row().Cell(strconv.Itoa(s.Ranks)).Cell(strconv.Itoa(p.Threads))
			switch metric {
			case MetricTime:
				tab.Cell(scaler.Format(p.Value, "s"))
			case MetricSpeedup:
				tab.Cell(formatSpeedup(p.Value))
			case MetricEfficiency:
				tab.Cell(formatEfficiency(p.Value))
			}
			tab.Cell(strconv.Itoa(p.N))
			if speedups != nil {
				sp := speedups[i]
				eff := sp * float64(s.Points[0].Threads) / float64(p.Threads)
				tab.Cell(formatSpeedup(sp)).Cell(formatEfficiency(eff))
			}
		}
	}
	return tab.Format(w)
}

// relativeSpeedups returns the speedup of each time point of s over
// the mean time at its smallest thread count. Undefined speedups are
// NaN.
func relativeSpeedups(s *Series) []float64 {
	out := make([]float64, len(s.Points))
	if len(s.Points) == 0 {
		return out
	}
	var baseTimes []float64
	for _, p := range s.Points {
		if p.Threads != s.Points[0].Threads {
			break
		}
		baseTimes = append(baseTimes, p.Value)
	}
	base := stats.Mean(baseTimes)
	for i, p := range s.Points {
		if base == 0 || p.Value == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = base / p.Value
	}
	return out
}

func formatSpeedup(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2fx", v)
}

func formatEfficiency(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*v)
}
