// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaleseries

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Default chart geometry.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
	DefaultDPI    = 100
)

// Formats lists the chart formats Render accepts.
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps"}

// ErrUnknownFormat is wrapped by a RenderError for formats not in
// Formats.
var ErrUnknownFormat = errors.New("unknown chart format")

// A RenderError reports a chart that could not be drawn or encoded.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s chart: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ChartOptions configures NewChart.
type ChartOptions struct {
	// Labels are the title and axis labels. Empty fields are
	// filled in from the French labels of the series metric.
	Labels Labels

	// LogX and LogY select logarithmic axes.
	LogX, LogY bool

	// Width and Height are the chart size. If 0, DefaultWidth and
	// DefaultHeight are used.
	Width, Height vg.Length

	// DPI is the resolution of raster formats. If 0, DefaultDPI
	// is used.
	DPI int
}

// A Chart is a scaling line chart with one line per series.
type Chart struct {
	plot  *plot.Plot
	lines int

	width, height vg.Length
	dpi           int
}

// NewChart builds a chart of series. Each series becomes one line
// with glyphs at its points, in the order given. Points that
// summarize several records get error bars spanning their bounds.
//
// With no series, the chart has a title, axes and a grid but no
// lines.
func NewChart(series []*Series, opts ChartOptions) (*Chart, error) {
	metric := MetricTime
	if len(series) > 0 {
		metric = series[0].Metric
	}
	labels := opts.Labels
	def := LabelsFor("", metric)
	if labels.Title == "" {
		labels.Title = def.Title
	}
	if labels.X == "" {
		labels.X = def.X
	}
	if labels.Y == "" {
		labels.Y = def.Y
	}

	p := plot.New()
	p.Title.Text = labels.Title
	p.X.Label.Text = labels.X
	p.Y.Label.Text = labels.Y
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if opts.LogY {
		for _, s := range series {
			for _, pt := range s.Points {
				if !(pt.Low > 0) {
					return nil, fmt.Errorf("log scale: %s OMP=%d has non-positive value %g", s.Label(), pt.Threads, pt.Low)
				}
			}
		}
	}

	colors := seriesColors(len(series))
	threadSet := make(map[int]bool)
	for i, s := range series {
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j].X = float64(pt.Threads)
			xys[j].Y = pt.Value
			threadSet[pt.Threads] = true
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Label(), err)
		}
		line.Color = colors[i]
		points.Color = colors[i]
		points.Shape = plotutil.Shape(i)
		points.Radius = vg.Points(3)
		p.Add(line, points)

		if s.spread() {
			bars, err := plotter.NewYErrorBars(errorPoints(s, xys))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s.Label(), err)
			}
			bars.Color = colors[i]
			p.Add(bars)
		}
		p.Legend.Add(s.Label(), line, points)
	}

	threads := make([]int, 0, len(threadSet))
	for t := range threadSet {
		threads = append(threads, t)
	}
	sort.Ints(threads)
	if len(threads) > 0 {
		ticks := make(plot.ConstantTicks, len(threads))
		for i, t := range threads {
			ticks[i] = plot.Tick{Value: float64(t), Label: strconv.Itoa(t)}
		}
		p.X.Tick.Marker = ticks
	}

	if opts.LogX {
		p.X.Scale = plot.LogScale{}
		fixLogRange(&p.X)
	}
	if opts.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = logTicks{}
		fixLogRange(&p.Y)
	}

	c := &Chart{plot: p, lines: len(series), width: opts.Width, height: opts.Height, dpi: opts.DPI}
	if c.width == 0 {
		c.width = DefaultWidth
	}
	if c.height == 0 {
		c.height = DefaultHeight
	}
	if c.dpi == 0 {
		c.dpi = DefaultDPI
	}
	return c, nil
}

// Plot returns the underlying plot of c.
func (c *Chart) Plot() *plot.Plot {
	return c.plot
}

// Lines returns the number of lines drawn by c.
func (c *Chart) Lines() int {
	return c.lines
}

// Render draws c in the given format and writes it to w.
// Any failure is a *RenderError.
func (c *Chart) Render(w io.Writer, format string) error {
	cw, err := c.canvas(format)
	if err != nil {
		return &RenderError{Format: format, Err: err}
	}
	c.plot.Draw(draw.New(cw))
	if _, err := cw.WriteTo(w); err != nil {
		return &RenderError{Format: format, Err: err}
	}
	return nil
}

// Save renders c to the file at path, in the format named by its
// extension. The file is only written once the chart is fully
// encoded.
func (c *Chart) Save(path string) error {
	var buf bytes.Buffer
	if err := c.Render(&buf, FormatFromPath(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}

// FormatFromPath returns the chart format implied by path's
// extension, or "" if it has none.
func FormatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func (c *Chart) canvas(format string) (vg.CanvasWriterTo, error) {
	img := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(c.width, c.height), vgimg.UseDPI(c.dpi), vgimg.UseBackgroundColor(color.White))
	}
	switch strings.ToLower(format) {
	case "png":
		return vgimg.PngCanvas{Canvas: img()}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: img()}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: img()}, nil
	case "svg":
		return vgsvg.New(c.width, c.height), nil
	case "pdf":
		return vgpdf.New(c.width, c.height), nil
	case "eps":
		return vgeps.New(c.width, c.height), nil
	}
	return nil, ErrUnknownFormat
}

// seriesColors returns n distinguishable colors.
func seriesColors(n int) []color.Color {
	colors := make([]color.Color, n)
	k := n
	if k < 3 {
		// The smallest Set1 palette has three colors.
		k = 3
	}
	if pal, err := brewer.GetPalette(brewer.TypeQualitative, "Set1", k); err == nil {
		copy(colors, pal.Colors())
		return colors
	}
	for i := range colors {
		colors[i] = plotutil.Color(i)
	}
	return colors
}

type yErrorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// errorPoints returns the error bars of s, whose points are at xys.
func errorPoints(s *Series, xys plotter.XYs) yErrorPoints {
	errs := make(plotter.YErrors, len(s.Points))
	for i, pt := range s.Points {
		errs[i].Low = math.Max(0, pt.Value-pt.Low)
		errs[i].High = math.Max(0, pt.High-pt.Value)
	}
	return yErrorPoints{xys, errs}
}

// fixLogRange keeps a log axis range positive and non-empty.
func fixLogRange(a *plot.Axis) {
	switch {
	case math.IsInf(a.Min, 0) || math.IsInf(a.Max, 0):
		a.Min, a.Max = 1, 10
	case a.Min == a.Max:
		a.Min, a.Max = a.Min/2, a.Max*2
	}
}

// logTicks marks every multiple of each power of ten in range,
// labeling the powers themselves. A range spanning less than two
// powers labels the 1, 2 and 5 multiples instead, or every tick if
// that still gives fewer than two labels.
type logTicks struct{}

func (logTicks) Ticks(min, max float64) []plot.Tick {
	if !(min > 0) || max < min {
		return nil
	}
	var ticks []plot.Tick
	var mults []float64
	for e := math.Floor(math.Log10(min)); ; e++ {
		base := math.Pow(10, e)
		if base > max {
			break
		}
		for m := 1.0; m < 10; m++ {
			v := m * base
			if v < min {
				continue
			}
			if v > max {
				break
			}
			ticks = append(ticks, plot.Tick{Value: v})
			mults = append(mults, m)
		}
	}
	for _, labeled := range []func(m float64) bool{
		func(m float64) bool { return m == 1 },
		func(m float64) bool { return m == 1 || m == 2 || m == 5 },
		func(m float64) bool { return true },
	} {
		n := 0
		for _, m := range mults {
			if labeled(m) {
				n++
			}
		}
		if n < 2 && n < len(ticks) {
			continue
		}
		for i := range ticks {
			if labeled(mults[i]) {
				ticks[i].Label = formatTick(ticks[i].Value)
			}
		}
		break
	}
	return ticks
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
