// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scaleseries turns hybrid MPI/OpenMP results into per-rank
// scaling series and renders them as line charts and text tables.
//
// A series holds the measurements for one MPI rank count, ordered by
// OpenMP thread count. Build produces one series per distinct rank
// count, in ascending rank order.
package scaleseries

import (
	"errors"
	"fmt"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/hybridbench/scaleplot/scalefmt"
)

// An Aggregate selects how repeated measurements of the same
// (ranks, threads) configuration are combined.
type Aggregate int

const (
	// AggNone keeps every record as its own point.
	AggNone Aggregate = iota
	AggMean
	AggMedian
	AggMin
)

var aggNames = []string{"none", "mean", "median", "min"}

func (a Aggregate) String() string {
	if a < 0 || int(a) >= len(aggNames) {
		return fmt.Sprintf("Aggregate(%d)", int(a))
	}
	return aggNames[a]
}

// ParseAggregate returns the Aggregate named s.
func ParseAggregate(s string) (Aggregate, error) {
	for i, name := range aggNames {
		if s == name {
			return Aggregate(i), nil
		}
	}
	return 0, fmt.Errorf("unknown aggregate %q (want none, mean, median or min)", s)
}

// A Metric selects the quantity plotted for each point.
type Metric int

const (
	// MetricTime is the elapsed time in seconds.
	MetricTime Metric = iota
	// MetricSpeedup is T(base)/T(threads), where base is the
	// smallest thread count of the series.
	MetricSpeedup
	// MetricEfficiency is the speedup divided by threads/base.
	MetricEfficiency
)

var metricNames = []string{"time", "speedup", "efficiency"}

func (m Metric) String() string {
	if m < 0 || int(m) >= len(metricNames) {
		return fmt.Sprintf("Metric(%d)", int(m))
	}
	return metricNames[m]
}

// ParseMetric returns the Metric named s.
func ParseMetric(s string) (Metric, error) {
	for i, name := range metricNames {
		if s == name {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q (want time, speedup or efficiency)", s)
}

// Options configures Build. The zero Options plots raw times.
type Options struct {
	Aggregate Aggregate
	Metric    Metric
}

// A Point is one plotted value of a series.
type Point struct {
	Threads int

	// Value is the metric value at Threads.
	Value float64

	// Low and High bound the metric over the sample. They equal
	// Value when N is 1.
	Low, High float64

	// N is the number of records behind this point.
	N int
}

// A Series is the scaling curve for one MPI rank count.
type Series struct {
	Ranks  int
	Metric Metric

	// Points is ordered by non-decreasing Threads. Without
	// aggregation, points with equal Threads keep input order.
	Points []Point
}

// Label returns the legend label of s.
func (s *Series) Label() string {
	return fmt.Sprintf("MPI=%d", s.Ranks)
}

// spread reports whether any point of s summarizes more than one
// record.
func (s *Series) spread() bool {
	for _, p := range s.Points {
		if p.N > 1 {
			return true
		}
	}
	return false
}

// ErrZeroTime is wrapped by Build errors for configurations whose
// elapsed time is zero, where speedup is undefined.
var ErrZeroTime = errors.New("zero elapsed time")

// Build groups the records of d by rank count and returns one Series
// per distinct rank count, in ascending order. An empty Dataset
// yields no series.
func Build(d *scalefmt.Dataset, opts Options) ([]*Series, error) {
	recs := d.Records()
	if len(recs) == 0 {
		return nil, nil
	}

	// SortBy skips columns that are already sorted, so a multi-column
	// sort can lose the primary order. Sort by ranks, split into
	// groups, then sort each group by threads.
	tab := table.TableFromStructs(recs)
	g := table.GroupBy(table.SortBy(tab, "Ranks"), "Ranks")
	g = table.SortBy(g, "Threads")

	var out []*Series
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		s := &Series{
			Ranks:  gid.Label().(int),
			Metric: opts.Metric,
			Points: aggregate(t.MustColumn("Threads").([]int), t.MustColumn("Seconds").([]float64), opts.Aggregate),
		}
		if err := derive(s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// aggregate combines runs of equal thread counts in threads, which
// must be sorted.
func aggregate(threads []int, secs []float64, agg Aggregate) []Point {
	pts := make([]Point, 0, len(threads))
	if agg == AggNone {
		for i, th := range threads {
			pts = append(pts, Point{th, secs[i], secs[i], secs[i], 1})
		}
		return pts
	}

	for i := 0; i < len(threads); {
		j := i + 1
		for j < len(threads) && threads[j] == threads[i] {
			j++
		}
		sample := stats.Sample{Xs: secs[i:j]}
		lo, hi := stats.Bounds(sample.Xs)
		var v float64
		switch agg {
		case AggMean:
			v = sample.Mean()
		case AggMedian:
			v = sample.Quantile(0.5)
		case AggMin:
			v = lo
		}
		pts = append(pts, Point{threads[i], v, lo, hi, j - i})
		i = j
	}
	return pts
}

// derive converts the times in s.Points to s.Metric.
func derive(s *Series) error {
	if s.Metric == MetricTime || len(s.Points) == 0 {
		return nil
	}

	// The base is the mean time at the smallest thread count.
	base := s.Points[0].Threads
	var baseTimes []float64
	for _, p := range s.Points {
		if p.Threads != base {
			break
		}
		baseTimes = append(baseTimes, p.Value)
	}
	tBase := stats.Mean(baseTimes)
	if tBase == 0 {
		return fmt.Errorf("speedup for MPI=%d OMP=%d: %w", s.Ranks, base, ErrZeroTime)
	}

	for i := range s.Points {
		p := &s.Points[i]
		if p.Value == 0 || p.Low == 0 {
			return fmt.Errorf("speedup for MPI=%d OMP=%d: %w", s.Ranks, p.Threads, ErrZeroTime)
		}
		// Larger times mean smaller speedups, so the bounds swap.
		v, lo, hi := tBase/p.Value, tBase/p.High, tBase/p.Low
		if s.Metric == MetricEfficiency {
			scale := float64(base) / float64(p.Threads)
			v, lo, hi = v*scale, lo*scale, hi*scale
		}
		p.Value, p.Low, p.High = v, lo, hi
	}
	return nil
}
