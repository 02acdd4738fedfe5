// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package slide

import (
	"fmt"
	"math"
	"strings"

	"github.com/js-arias/resplot/grid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// How is the rule used to collapse
// the cells of a range into a single value.
type How string

// Valid projection rules.
const (
	Auto       How = ""
	Mean       How = "mean"
	PVMean     How = "pvmean"
	Min        How = "min"
	Max        How = "max"
	First      How = "first"
	Last       How = "last"
	Sum        How = "sum"
	Harmonic   How = "harmonic"
	Arithmetic How = "arithmetic"
)

var hows = []How{Mean, PVMean, Min, Max, First, Last, Sum, Harmonic, Arithmetic}

// ParseHow returns a projection rule from a string.
func ParseHow(s string) (How, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Auto, nil
	}
	for _, h := range hows {
		if string(h) == s {
			return h, nil
		}
	}
	return Auto, fmt.Errorf("unknown projection rule %q", s)
}

// Kind is the kind of field
// used by the default projection rule.
type Kind int

// Field kinds.
const (
	// Intensive fields are averaged.
	Intensive Kind = iota

	// Extensive fields (such as the pore volume)
	// are added.
	Extensive

	// Permeabilities are averaged
	// with an harmonic mean
	// along its own direction,
	// and an arithmetic mean
	// across it.
	PermX
	PermY
	PermZ
)

// FieldKind returns the kind of a field
// from its name.
func FieldKind(name string) Kind {
	switch strings.ToLower(name) {
	case "porv":
		return Extensive
	case "permx":
		return PermX
	case "permy":
		return PermY
	case "permz":
		return PermZ
	}
	return Intensive
}

// Options are the options for a projection.
type Options struct {
	How  How
	Kind Kind

	// Pore volume of each cell.
	// Required by the pore volume weighted mean.
	PoreVolume []float64
}

// rule returns the projection rule
// used over a range of n cells along an axis.
func (o Options) rule(ax grid.Axis, n int) How {
	if o.How != Auto {
		return o.How
	}
	if n == 1 {
		return First
	}
	switch o.Kind {
	case Extensive:
		return Sum
	case PermX, PermY, PermZ:
		if grid.Axis(o.Kind-PermX) == ax {
			return Harmonic
		}
		return Arithmetic
	}
	return Mean
}

// A Map is a 2D quad mesh
// of a projected field.
//
// Each cell of the map is defined by four corners,
// so a map of R rows and C columns
// has 2R x 2C corners,
// and (2R-1) x (2C-1) values.
// The value of the cell at row r and column c
// is at [2r][2c]
// and values at odd positions are NaN
// (the gaps between cells).
type Map struct {
	Rows, Cols int

	// Axis is the axis cut by the map.
	Axis grid.Axis

	// Corner coordinates.
	// For vertical maps,
	// Y is the depth.
	X, Y [][]float64

	Values [][]float64
}

func newMap(rows, cols int, ax grid.Axis) *Map {
	m := &Map{
		Rows:   rows,
		Cols:   cols,
		Axis:   ax,
		X:      matrix(2*rows, 2*cols, 0),
		Y:      matrix(2*rows, 2*cols, 0),
		Values: matrix(2*rows-1, 2*cols-1, math.NaN()),
	}
	return m
}

func matrix(rows, cols int, v float64) [][]float64 {
	m := make([][]float64, rows)
	for r := range m {
		m[r] = make([]float64, cols)
		if v != 0 {
			for c := range m[r] {
				m[r][c] = v
			}
		}
	}
	return m
}

// Vertical returns true if the map
// is a vertical section.
func (m *Map) Vertical() bool {
	return m.Axis != grid.Z
}

// Cell returns the value of a map cell.
func (m *Map) Cell(r, c int) float64 {
	return m.Values[2*r][2*c]
}

// Corner returns the coordinates of a map corner.
func (m *Map) Corner(r, c int) (x, y float64) {
	return m.X[r][c], m.Y[r][c]
}

// Center returns the center of a map cell.
func (m *Map) Center(r, c int) (x, y float64) {
	for _, p := range [4][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		x += m.X[2*r+p[0]][2*c+p[1]]
		y += m.Y[2*r+p[0]][2*c+p[1]]
	}
	return x / 4, y / 4
}

// Position returns the map cell
// that contains a grid cell.
func (m *Map) Position(i, j, k int) (r, c int) {
	switch m.Axis {
	case grid.X:
		return m.Rows - 1 - k, j
	case grid.Y:
		return m.Rows - 1 - k, i
	}
	return j, i
}

// Range returns the minimum and maximum
// of the finite values of the map.
// If there are no finite values,
// it returns NaN.
func (m *Map) Range() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range m.Values {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	if min > max {
		return math.NaN(), math.NaN()
	}
	return min, max
}

// Bounds returns the extension of the map.
func (m *Map) Bounds() (minX, maxX, minY, maxY float64) {
	var xs, ys []float64
	for r := range m.X {
		xs = append(xs, m.X[r]...)
		ys = append(ys, m.Y[r]...)
	}
	return floats.Min(xs), floats.Max(xs), floats.Min(ys), floats.Max(ys)
}

// plane returns the axes of the rows and columns
// of a map cutting an axis.
func plane(ax grid.Axis) (row, col grid.Axis) {
	switch ax {
	case grid.X:
		return grid.Z, grid.Y
	case grid.Y:
		return grid.Z, grid.X
	}
	return grid.Y, grid.X
}

// cell returns the grid cell
// of a map position
// at the layer l along the cut axis.
// Vertical maps start at the bottom layer.
func cell(g *grid.Grid, ax grid.Axis, r, c, l int) (i, j, k int) {
	switch ax {
	case grid.X:
		return l, c, g.NZ - 1 - r
	case grid.Y:
		return c, l, g.NZ - 1 - r
	}
	return c, r, l
}

// Project collapses the cells of a field
// along the axis and range of a selection
// into a 2D map.
//
// The field must be defined for all the cells of the grid,
// with NaN (or inactive cells)
// ignored during the projection.
func Project(g *grid.Grid, field []float64, sel Selection, opt Options) (*Map, error) {
	if len(field) != g.Len() {
		return nil, fmt.Errorf("field: found %d values, want %d", len(field), g.Len())
	}
	ax, err := sel.Axis()
	if err != nil {
		return nil, err
	}
	if err := sel.check(g); err != nil {
		return nil, err
	}
	rng := sel.ranges()[ax]
	how := opt.rule(ax, rng.Len())
	if how == PVMean && len(opt.PoreVolume) != g.Len() {
		return nil, fmt.Errorf("projection %q: pore volume undefined", how)
	}

	rowAx, colAx := plane(ax)
	m := newMap(g.Dim(rowAx), g.Dim(colAx), ax)

	p := &projector{g: g, field: field, how: how, pv: opt.PoreVolume}
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			p.reset()
			for l := rng.Lo; l <= rng.Hi; l++ {
				i, j, k := cell(g, ax, r, c, l)
				p.add(i, j, k, ax)
			}
			m.Values[2*r][2*c] = p.value()
		}
	}

	setCorners(g, m, rng.Lo)
	return m, nil
}

// setCorners sets the corners of a map
// using the cells at layer l.
func setCorners(g *grid.Grid, m *Map, l int) {
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			i, j, k := cell(g, m.Axis, r, c, l)
			pts := g.Corners(i, j, k)
			for a := 0; a < 2; a++ {
				for b := 0; b < 2; b++ {
					var p grid.Point
					switch m.Axis {
					case grid.X:
						// rows from the bottom face
						p = pts[2*b+4*(1-a)]
						m.X[2*r+a][2*c+b] = p.Y
						m.Y[2*r+a][2*c+b] = p.Z
					case grid.Y:
						p = pts[b+4*(1-a)]
						m.X[2*r+a][2*c+b] = p.X
						m.Y[2*r+a][2*c+b] = p.Z
					default:
						p = pts[b+2*a]
						m.X[2*r+a][2*c+b] = p.X
						m.Y[2*r+a][2*c+b] = p.Y
					}
				}
			}
		}
	}
}

// Reduce collapses all the cells of a sensor selection
// into a single value.
//
// With the default rule,
// extensive fields are added
// and other fields are averaged.
func Reduce(g *grid.Grid, field []float64, sel Selection, opt Options) (float64, error) {
	if len(field) != g.Len() {
		return 0, fmt.Errorf("field: found %d values, want %d", len(field), g.Len())
	}
	if !sel.IsSensor() {
		return 0, fmt.Errorf("%w: %s: not a sensor", ErrSlide, sel.Name())
	}
	if err := sel.check(g); err != nil {
		return 0, err
	}

	n := sel.I.Len() * sel.J.Len() * sel.K.Len()
	how := opt.How
	if how == Auto {
		switch {
		case n == 1:
			how = First
		case opt.Kind == Extensive:
			how = Sum
		default:
			how = Mean
		}
	}
	if how == PVMean && len(opt.PoreVolume) != g.Len() {
		return 0, fmt.Errorf("projection %q: pore volume undefined", how)
	}

	p := &projector{g: g, field: field, how: how, pv: opt.PoreVolume}
	for k := sel.K.Lo; k <= sel.K.Hi; k++ {
		for j := sel.J.Lo; j <= sel.J.Hi; j++ {
			for i := sel.I.Lo; i <= sel.I.Hi; i++ {
				p.add(i, j, k, grid.Z)
			}
		}
	}
	return p.value(), nil
}

// A projector accumulates the values
// of a set of cells.
type projector struct {
	g     *grid.Grid
	field []float64
	pv    []float64
	how   How

	vals []float64
	w    []float64
}

func (p *projector) reset() {
	p.vals = p.vals[:0]
	p.w = p.w[:0]
}

func (p *projector) add(i, j, k int, ax grid.Axis) {
	idx := p.g.Index(i, j, k)
	if !p.g.Active(idx) {
		return
	}
	v := p.field[idx]
	if math.IsNaN(v) {
		return
	}
	p.vals = append(p.vals, v)
	switch p.how {
	case PVMean:
		p.w = append(p.w, p.pv[idx])
	case Harmonic, Arithmetic:
		p.w = append(p.w, p.g.Size(i, j, k, ax))
	}
}

func (p *projector) value() float64 {
	if len(p.vals) == 0 {
		return math.NaN()
	}
	switch p.how {
	case PVMean, Arithmetic:
		return stat.Mean(p.vals, p.w)
	case Harmonic:
		for _, v := range p.vals {
			if v == 0 {
				return 0
			}
		}
		return stat.HarmonicMean(p.vals, p.w)
	case Min:
		return floats.Min(p.vals)
	case Max:
		return floats.Max(p.vals)
	case First:
		return p.vals[0]
	case Last:
		return p.vals[len(p.vals)-1]
	case Sum:
		return floats.Sum(p.vals)
	}
	return stat.Mean(p.vals, nil)
}
