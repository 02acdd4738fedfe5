// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mapping builds the maps
// of the variables of a simulation case.
package mapping

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/js-arias/resplot/colormap"
	"github.com/js-arias/resplot/deck"
	"github.com/js-arias/resplot/grid"
	"github.com/js-arias/resplot/pixkey"
	"github.com/js-arias/resplot/render"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/slide"
	"github.com/js-arias/resplot/style"
	"github.com/js-arias/resplot/variable"
	"gonum.org/v1/gonum/floats"
)

// ErrNoValues is returned when a map
// does not have any value to draw.
var ErrNoValues = errors.New("map without values")

// A Request is the definition of a map.
type Request struct {
	Case *simcase.Case

	// Diff is an optional case
	// that is subtracted from the values
	// of the case.
	Diff *simcase.Case

	Expr   *variable.Expr
	Filter *variable.Filter

	// Mask is an optional field.
	// Cells in which the mask is zero
	// or undefined
	// are not drawn.
	Mask *variable.Expr

	Slide   slide.Selection
	How     slide.How
	Restart int
}

// A Result is a map of a variable.
type Result struct {
	Req *Request
	Map *slide.Map

	// Values of the field
	// for each grid cell.
	Values []float64

	// Restart is the resolved restart,
	// and Time is the time of the restart
	// (in days).
	// Time is NaN for static variables.
	Restart int
	Time    float64
}

// IsDynamic returns true if the expression
// uses a field from the restart file
// without an explicit restart.
func IsDynamic(c *simcase.Case, e *variable.Expr) bool {
	for _, r := range e.Names() {
		if !r.Tagged && c.IsDynamic(r.Name) {
			return true
		}
	}
	return false
}

// Values returns the values of the requested variable
// for each grid cell,
// and the resolved restart.
func (r *Request) Values() ([]float64, int, error) {
	rst, err := r.Case.ResolveRestart(r.Restart)
	if err != nil {
		return nil, 0, err
	}
	v, err := r.Case.Evaluate(r.Expr, rst)
	if err != nil {
		return nil, 0, err
	}

	if r.Diff != nil {
		drst, err := r.Diff.ResolveRestart(r.Restart)
		if err != nil {
			return nil, 0, fmt.Errorf("case %q: %v", r.Diff.Name(), err)
		}
		d, err := r.Diff.Evaluate(r.Expr, drst)
		if err != nil {
			return nil, 0, fmt.Errorf("case %q: %v", r.Diff.Name(), err)
		}
		if len(d) != len(v) {
			return nil, 0, fmt.Errorf("case %q: found %d cells, want %d", r.Diff.Name(), len(d), len(v))
		}
		floats.Sub(v, d)
	}

	v, err = r.Case.Filter(r.Filter, v, rst)
	if err != nil {
		return nil, 0, err
	}
	if r.Mask != nil {
		m, err := r.Case.Evaluate(r.Mask, rst)
		if err != nil {
			return nil, 0, fmt.Errorf("mask: %v", err)
		}
		for i, x := range m {
			if math.IsNaN(x) || x == 0 {
				v[i] = math.NaN()
			}
		}
	}
	return v, rst, nil
}

// Build builds the requested map.
func (r *Request) Build() (*Result, error) {
	v, rst, err := r.Values()
	if err != nil {
		return nil, err
	}

	kind := slide.Intensive
	if r.Expr.IsRef() {
		kind = slide.FieldKind(r.Expr.Names()[0].Name)
	}
	m, err := Project(r.Case, v, r.Slide, r.How, kind)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Req:     r,
		Map:     m,
		Values:  v,
		Restart: rst,
		Time:    math.NaN(),
	}
	if IsDynamic(r.Case, r.Expr) {
		if times, err := r.Case.RestartTimes(); err == nil && rst < len(times) {
			res.Time = times[rst]
		}
	}
	return res, nil
}

// Project projects the values of a field
// of a case.
func Project(c *simcase.Case, values []float64, sel slide.Selection, how slide.How, kind slide.Kind) (*slide.Map, error) {
	g, err := c.Grid()
	if err != nil {
		return nil, err
	}
	opt := slide.Options{How: how, Kind: kind}
	if how == slide.PVMean {
		pv, err := c.PoreVolume()
		if err != nil {
			return nil, err
		}
		opt.PoreVolume = pv
	}
	return slide.Project(g, values, sel, opt)
}

// Title returns the title of a map.
func (res *Result) Title(label string) string {
	var b strings.Builder
	b.WriteString(label)
	fmt.Fprintf(&b, ", slide %s", res.Req.Slide.Name())
	if !math.IsNaN(res.Time) {
		fmt.Fprintf(&b, ", t=%g d", res.Time)
	}
	if res.Req.Diff != nil {
		fmt.Fprintf(&b, " (diff %s)", res.Req.Diff.Name())
	}
	if res.Req.Expr.IsRef() && strings.EqualFold(res.Req.Expr.Names()[0].Name, "porv") {
		var sum float64
		for _, v := range res.Values {
			if !math.IsNaN(v) {
				sum += v
			}
		}
		fmt.Fprintf(&b, " (sum=%.3e)", sum)
	}
	return b.String()
}

// Props returns the plot properties of an expression
// and the label used in titles.
func Props(opt *style.Options, e *variable.Expr) (style.Props, string) {
	name := e.String()
	if e.IsRef() {
		name = e.Names()[0].Name
	}
	p := opt.Props(name)
	label := e.String()
	if p.Label != "" {
		label = p.Label
	}
	return p, label
}

// Colors are the color options of a map.
type Colors struct {
	Props style.Props

	// Range is an optional color range.
	Range []float64

	Key  *pixkey.PixKey
	Gray bool
}

// Scale returns the color scale of a map
// and the number of ticks of its color bar.
func Scale(m *slide.Map, cl Colors) (*render.Scale, int, error) {
	min, max := m.Range()
	if len(cl.Range) == 2 {
		min, max = cl.Range[0], cl.Range[1]
	}
	if math.IsNaN(min) {
		return nil, 0, ErrNoValues
	}

	g, err := colormap.ByName(cl.Props.ColorMap)
	if err != nil {
		return nil, 0, err
	}
	ticks := 5
	if min == max {
		ticks = 1
	} else if colormap.IsQualitative(cl.Props.ColorMap) && isInteger(min) && isInteger(max) {
		n := int(max-min) + 1
		g = colormap.Discrete{G: g, N: n}
		ticks = n
		if ticks > 20 {
			ticks = 5
		}
	}

	sc := render.NewScale(g, min, max, cl.Props.Log)
	sc.Key = cl.Key
	sc.Gray = cl.Gray
	return sc, ticks, nil
}

func isInteger(v float64) bool {
	return v == math.Trunc(v)
}

// Figure returns the figure of a map.
func (res *Result) Figure(label string, cl Colors, opt *style.Options) (*render.Figure, error) {
	sc, ticks, err := Scale(res.Map, cl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}

	p := render.NewMap(res.Map, sc)
	p.Title.Text = res.Title(label)
	bar := render.NewColorBar(sc, cl.Props.Units, cl.Props.Format, ticks)
	fig := render.NewFigure(p, bar, opt)
	fig.Equal = opt.Scale
	return fig, nil
}

// WellMarks returns the marks
// of the wells visible in a map.
func WellMarks(m *slide.Map, sel slide.Selection, wells []deck.Well) []render.Mark {
	var marks []render.Mark
	for w, wl := range wells {
		var i, j, k int
		switch m.Axis {
		case grid.Z:
			if wl.K2 < sel.K.Lo || wl.K1 > sel.K.Hi {
				continue
			}
			i, j, k = wl.I, wl.J, sel.K.Lo
		case grid.X:
			if wl.I < sel.I.Lo || wl.I > sel.I.Hi {
				continue
			}
			i, j, k = wl.I, wl.J, wl.K1
		case grid.Y:
			if wl.J < sel.J.Lo || wl.J > sel.J.Hi {
				continue
			}
			i, j, k = wl.I, wl.J, wl.K1
		}
		r, c := m.Position(i, j, k)
		if r < 0 || r >= m.Rows || c < 0 || c >= m.Cols {
			continue
		}
		x, y := m.Center(r, c)
		marks = append(marks, render.Mark{
			X:     x,
			Y:     y,
			Label: wl.Name,
			Color: render.Color(w),
		})
	}
	return marks
}

// SplitSlides returns the slides of a list
// separated by spaces.
// An empty list is the default slide.
func SplitSlides(s string) []string {
	sl := strings.Fields(s)
	if len(sl) == 0 {
		return []string{""}
	}
	return sl
}

// CaseSlides returns the slides
// used by the case i of n cases.
// If there are several cases,
// and the same number of slides,
// each case uses its own slide.
// Otherwise all the slides are used
// by each case.
func CaseSlides(slides []string, i, n int) []string {
	if n > 1 && len(slides) == n {
		return slides[i : i+1]
	}
	return slides
}

// CaseFilter returns the filter
// used by the case i.
// A single filter is used by all the cases.
func CaseFilter(filters []*variable.Filter, i int) *variable.Filter {
	switch len(filters) {
	case 0:
		return nil
	case 1:
		return filters[0]
	}
	return filters[i]
}

// FileName returns the name of the file
// of a map.
func FileName(caseName, varName, slideName string, rst int) string {
	return fmt.Sprintf("%s_%s_%s_t%d.png", strings.ToLower(caseName), varName, slideName, rst)
}
