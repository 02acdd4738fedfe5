// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Color returns the default color
// of the i-th element of a plot.
func Color(i int) color.Color {
	return plotutil.Color(i)
}

// A Series is a set of values
// ordered by time.
type Series struct {
	Label string
	X, Y  []float64
	Color color.Color

	// Step draws the series as steps
	// between consecutive values.
	Step bool
}

// AddSeries adds a series to a plot.
// If the plot has a logarithmic Y axis
// non-positive values are ignored.
func AddSeries(p *plot.Plot, s Series) error {
	_, logY := p.Y.Scale.(plot.LogScale)

	xys := make(plotter.XYs, 0, len(s.X))
	for i, x := range s.X {
		if i >= len(s.Y) {
			break
		}
		y := s.Y[i]
		if !finite(x) || !finite(y) {
			continue
		}
		if logY && y <= 0 {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
	}
	if len(xys) == 0 {
		return fmt.Errorf("series %q: no valid values", s.Label)
	}

	ln, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("series %q: %v", s.Label, err)
	}
	if s.Step {
		ln.StepStyle = plotter.PreStep
	}
	ln.LineStyle.Width = vg.Points(2)
	if s.Color != nil {
		ln.LineStyle.Color = s.Color
	}
	p.Add(ln)
	if s.Label != "" {
		p.Legend.Add(s.Label, ln)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Fit is a distribution fitted
// to the values of a histogram.
type Fit string

// Valid distribution fits.
const (
	NoFit     Fit = ""
	NormalFit Fit = "norm"
	LogNormal Fit = "lognorm"
)

// ParseBins parses a bin definition
// in the form "<bins>[,<fit>]",
// for example "50,norm".
func ParseBins(s string) (int, Fit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, NoFit, nil
	}
	v := strings.Split(s, ",")
	if len(v) > 2 {
		return 0, NoFit, fmt.Errorf("invalid bins %q", s)
	}
	var bins int
	if _, err := fmt.Sscan(strings.TrimSpace(v[0]), &bins); err != nil {
		return 0, NoFit, fmt.Errorf("invalid bins %q: %v", s, err)
	}
	if bins < 1 {
		return 0, NoFit, fmt.Errorf("invalid bins %q: want a positive number", s)
	}
	if len(v) == 1 {
		return bins, NoFit, nil
	}
	f := Fit(strings.ToLower(strings.TrimSpace(v[1])))
	switch f {
	case NoFit, NormalFit, LogNormal:
	default:
		return 0, NoFit, fmt.Errorf("invalid bins %q: unknown fit %q", s, f)
	}
	return bins, f, nil
}

// A Hist is the histogram
// of a set of values.
type Hist struct {
	Label  string
	Values []float64
	Bins   int
	Fit    Fit
	Color  color.Color
}

// AddHist adds a histogram to a plot.
// If a fit is defined,
// the histogram is normalized
// and the density of the fitted distribution
// is added to the plot.
func AddHist(p *plot.Plot, h Hist) error {
	vals := make(plotter.Values, 0, len(h.Values))
	for _, v := range h.Values {
		if finite(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return fmt.Errorf("histogram %q: no valid values", h.Label)
	}
	bins := h.Bins
	if bins < 1 {
		bins = 20
	}

	hist, err := plotter.NewHist(vals, bins)
	if err != nil {
		return fmt.Errorf("histogram %q: %v", h.Label, err)
	}
	if h.Color != nil {
		hist.FillColor = h.Color
	}
	hist.LineStyle.Width = vg.Length(0)
	p.Add(hist)
	if h.Label != "" {
		p.Legend.Add(h.Label, hist)
	}
	if h.Fit == NoFit {
		return nil
	}
	hist.Normalize(1)

	density, err := fitDensity(vals, h.Fit)
	if err != nil {
		return fmt.Errorf("histogram %q: %v", h.Label, err)
	}
	fn := plotter.NewFunction(density)
	fn.XMin, fn.XMax = floats.Min(vals), floats.Max(vals)
	fn.Samples = 200
	fn.Width = vg.Points(2)
	fn.Color = color.Black
	p.Add(fn)
	if h.Label != "" {
		p.Legend.Add(fmt.Sprintf("%s (%s)", h.Label, h.Fit), fn)
	}
	return nil
}

// fitDensity returns the density function
// of a distribution fitted to a set of values.
func fitDensity(vals []float64, f Fit) (func(float64) float64, error) {
	switch f {
	case NormalFit:
		mu, sigma := stat.MeanStdDev(vals, nil)
		if !(sigma > 0) {
			return nil, fmt.Errorf("%s fit: values without variance", f)
		}
		d := distuv.Normal{Mu: mu, Sigma: sigma}
		return d.Prob, nil
	case LogNormal:
		logs := make([]float64, 0, len(vals))
		for _, v := range vals {
			if v > 0 {
				logs = append(logs, math.Log(v))
			}
		}
		if len(logs) < 2 {
			return nil, fmt.Errorf("%s fit: not enough positive values", f)
		}
		mu, sigma := stat.MeanStdDev(logs, nil)
		if !(sigma > 0) {
			return nil, fmt.Errorf("%s fit: values without variance", f)
		}
		d := distuv.LogNormal{Mu: mu, Sigma: sigma}
		return d.Prob, nil
	}
	return nil, fmt.Errorf("unknown fit %q", f)
}
