// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"image/color"
	"math"

	"github.com/js-arias/resplot/grid"
	"github.com/js-arias/resplot/slide"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A QuadMesh is a plot of the cells of a map.
type QuadMesh struct {
	Map   *slide.Map
	Scale *Scale

	// Edges is the style of the cell edges.
	// If the width is zero,
	// no edges are drawn.
	Edges draw.LineStyle
}

// DataRange implements the plot.DataRanger interface.
func (qm *QuadMesh) DataRange() (xMin, xMax, yMin, yMax float64) {
	return qm.Map.Bounds()
}

// Plot implements the plot.Plotter interface.
func (qm *QuadMesh) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	m := qm.Map

	for r := 0; r < m.Rows; r++ {
		for col := 0; col < m.Cols; col++ {
			v := m.Cell(r, col)
			if math.IsNaN(v) {
				continue
			}
			var pts []vg.Point
			for _, p := range [5][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}} {
				x, y := m.Corner(2*r+p[0], 2*col+p[1])
				pts = append(pts, vg.Point{X: trX(x), Y: trY(y)})
			}
			c.FillPolygon(qm.Scale.Color(v), c.ClipPolygonXY(pts))
			if qm.Edges.Width > 0 {
				c.StrokeLines(qm.Edges, c.ClipLinesXY(pts)...)
			}
		}
	}
}

// A ColorBar is a plot of a color scale.
type ColorBar struct {
	Scale *Scale

	// Samples is the number of color blocks
	// of a continuous scale.
	Samples int
}

// keys returns the keys of the scale
// if the scale is defined by a color key.
func (cb *ColorBar) keys() []int {
	if cb.Scale.Key == nil {
		return nil
	}
	return cb.Scale.Key.Keys()
}

// DataRange implements the plot.DataRanger interface.
func (cb *ColorBar) DataRange() (xMin, xMax, yMin, yMax float64) {
	if k := cb.keys(); k != nil {
		return 0, 1, 0, float64(len(k))
	}
	return 0, 1, cb.Scale.Min, cb.Scale.Max
}

// Plot implements the plot.Plotter interface.
func (cb *ColorBar) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	x0, x1 := trX(0), trX(1)

	rect := func(clr color.Color, y0, y1 float64) {
		pts := []vg.Point{
			{X: x0, Y: trY(y0)},
			{X: x1, Y: trY(y0)},
			{X: x1, Y: trY(y1)},
			{X: x0, Y: trY(y1)},
		}
		c.FillPolygon(clr, c.ClipPolygonXY(pts))
	}

	if k := cb.keys(); k != nil {
		for i, v := range k {
			rect(cb.Scale.Color(float64(v)), float64(i), float64(i+1))
		}
		return
	}

	n := cb.Samples
	if n < 1 {
		n = 256
	}
	if cb.Scale.Min == cb.Scale.Max {
		rect(cb.Scale.Color(cb.Scale.Min), cb.Scale.Min, cb.Scale.Max)
		return
	}
	for i := 0; i < n; i++ {
		t0 := float64(i) / float64(n)
		t1 := float64(i+1) / float64(n)
		v := cb.Scale.Value((t0 + t1) / 2)
		rect(cb.Scale.Color(v), cb.Scale.Value(t0), cb.Scale.Value(t1))
	}
}

// NewColorBar returns a plot
// with the color bar of a scale.
// The number of ticks is given by n.
func NewColorBar(s *Scale, label, format string, n int) *plot.Plot {
	p := plot.New()
	cb := &ColorBar{Scale: s}
	p.Add(cb)
	p.HideX()
	p.Y.Label.Text = label

	if k := cb.keys(); k != nil {
		p.Y.Tick.Marker = plot.TickerFunc(func(min, max float64) []plot.Tick {
			ticks := make([]plot.Tick, 0, len(k))
			for i, v := range k {
				ticks = append(ticks, plot.Tick{Value: float64(i) + 0.5, Label: s.Key.Label(v)})
			}
			return ticks
		})
		return p
	}

	if s.Log {
		p.Y.Scale = plot.LogScale{}
	}
	if s.Min == s.Max {
		n = 1
		p.Y.Min, p.Y.Max = s.Min-0.5, s.Max+0.5
	}
	p.Y.Tick.Marker = Ticks{N: n, Format: format, Log: s.Log}
	return p
}

// NewMap returns a plot of a map.
// Vertical maps are drawn
// with the depth increasing downwards.
func NewMap(m *slide.Map, s *Scale) *plot.Plot {
	p := plot.New()
	p.Add(&QuadMesh{Map: m, Scale: s})
	p.X.Label.Text = axisLabel(m, true)
	p.Y.Label.Text = axisLabel(m, false)
	if m.Vertical() {
		p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}
	}
	return p
}

func axisLabel(m *slide.Map, x bool) string {
	switch {
	case m.Axis == grid.Z && x:
		return "x [m]"
	case m.Axis == grid.Z:
		return "y [m]"
	case m.Axis == grid.X && x:
		return "y [m]"
	case x:
		return "x [m]"
	}
	return "z [m]"
}

// A Mark is a labeled point over a plot.
type Mark struct {
	X, Y  float64
	Label string
	Color color.Color
}

// AddMarks adds a set of marks to a plot.
func AddMarks(p *plot.Plot, marks []Mark) error {
	if len(marks) == 0 {
		return nil
	}
	for _, m := range marks {
		xys := plotter.XYs{{X: m.X, Y: m.Y}}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Color = m.Color
		p.Add(sc)

		if m.Label == "" {
			continue
		}
		lb, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    xys,
			Labels: []string{m.Label},
		})
		if err != nil {
			return err
		}
		lb.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(5)}
		for i := range lb.TextStyle {
			lb.TextStyle[i].Color = m.Color
		}
		p.Add(lb)
	}
	return nil
}
