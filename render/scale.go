// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package render implements plotters and figures
// for maps, summary vectors and histograms.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/js-arias/resplot/colormap"
	"github.com/js-arias/resplot/pixkey"
	"gonum.org/v1/plot"
)

// A Scale maps values to colors.
type Scale struct {
	G        colormap.Gradienter
	Min, Max float64

	// Log sets a logarithmic scale.
	Log bool

	// Key is an optional color key.
	// If defined,
	// values are rounded to an integer
	// and painted with the key colors.
	Key  *pixkey.PixKey
	Gray bool
}

// NewScale returns a scale for the values
// in the indicated range.
// For a logarithmic scale,
// the range is limited to positive values.
func NewScale(g colormap.Gradienter, min, max float64, log bool) *Scale {
	s := &Scale{G: g, Min: min, Max: max, Log: log}
	if log {
		if s.Max <= 0 {
			s.Max = 1
		}
		if s.Min <= 0 {
			s.Min = s.Max / 1000
		}
	}
	return s
}

// Norm returns a value
// normalized into the [0, 1] interval.
func (s *Scale) Norm(v float64) float64 {
	if !s.Log {
		if s.Max == s.Min {
			return 0
		}
		return (v - s.Min) / (s.Max - s.Min)
	}
	if v <= 0 {
		return 0
	}
	lmin, lmax := math.Log10(s.Min), math.Log10(s.Max)
	if lmax == lmin {
		return 0
	}
	return (math.Log10(v) - lmin) / (lmax - lmin)
}

// Value returns the value
// at a given position of the scale.
func (s *Scale) Value(t float64) float64 {
	if !s.Log {
		return s.Min + t*(s.Max-s.Min)
	}
	lmin, lmax := math.Log10(s.Min), math.Log10(s.Max)
	return math.Pow(10, lmin+t*(lmax-lmin))
}

// Color returns the color of a value.
// NaN values are transparent.
func (s *Scale) Color(v float64) color.Color {
	if math.IsNaN(v) {
		return color.RGBA{}
	}
	if s.Key != nil {
		k := int(math.Round(v))
		if s.Gray {
			if c, ok := s.Key.Gray(k); ok {
				return c
			}
		}
		if c, ok := s.Key.Color(k); ok {
			return c
		}
		return color.RGBA{}
	}
	return s.G.Gradient(s.Norm(v))
}

// Ticks is a tick marker
// with a fixed number of ticks
// formatted with a given format.
type Ticks struct {
	N      int
	Format string
	Log    bool

	// Labels is an optional function
	// to label a tick.
	Labels func(v float64) string
}

// Ticks implements the plot.Ticker interface.
func (t Ticks) Ticks(min, max float64) []plot.Tick {
	n := t.N
	if max == min || n < 1 {
		n = 1
	}

	sc := Scale{Min: min, Max: max, Log: t.Log && min > 0}
	ticks := make([]plot.Tick, 0, n)
	for i := 0; i < n; i++ {
		v := min
		if n > 1 {
			v = sc.Value(float64(i) / float64(n-1))
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: t.label(v)})
	}
	return ticks
}

func (t Ticks) label(v float64) string {
	if t.Labels != nil {
		return t.Labels(v)
	}
	if t.Format == "" {
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf(t.Format, v)
}
