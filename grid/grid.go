// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package grid implements a corner-point grid
// of a reservoir model.
//
// A corner-point grid is a structured grid
// of NX x NY x NZ cells,
// defined by a set of pillars (COORD)
// and the depth of the eight corners of each cell (ZCORN).
// Cells are indexed in a flattened array
// with the index i + j*NX + k*NX*NY,
// i.e., i moves fastest,
// and k is the layer (going down).
package grid

import (
	"fmt"
	"math"

	"github.com/js-arias/resplot/ecl"
)

// Axis is a grid direction.
type Axis int

// Grid axes.
const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Point is a location in space.
// Z is the depth.
type Point struct {
	X, Y, Z float64
}

// Grid is a corner-point grid.
type Grid struct {
	NX, NY, NZ int

	coord []float64
	zcorn []float64

	// active index of each cell (-1 for inactive cells)
	actIdx  []int
	numAct  int
	masked  []bool
	visible int
}

// FromEGRID returns a grid
// from the keywords of an EGRID file.
func FromEGRID(f *ecl.File) (*Grid, error) {
	head, err := f.Ints("GRIDHEAD", 0)
	if err != nil {
		return nil, err
	}
	if len(head) < 4 {
		return nil, fmt.Errorf("GRIDHEAD: found %d values, want at least 4", len(head))
	}
	nx, ny, nz := head[1], head[2], head[3]
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("GRIDHEAD: invalid dimensions [%d,%d,%d]", nx, ny, nz)
	}

	coord, err := f.Floats("COORD", 0)
	if err != nil {
		return nil, err
	}
	zcorn, err := f.Floats("ZCORN", 0)
	if err != nil {
		return nil, err
	}

	var act []int
	if f.Has("ACTNUM") {
		act, err = f.Ints("ACTNUM", 0)
		if err != nil {
			return nil, err
		}
	}
	return New(nx, ny, nz, coord, zcorn, act)
}

// New returns a new grid
// from the pillar and corner depth arrays.
// If actnum is nil,
// all cells will be active.
func New(nx, ny, nz int, coord, zcorn []float64, actnum []int) (*Grid, error) {
	if want := 6 * (nx + 1) * (ny + 1); len(coord) != want {
		return nil, fmt.Errorf("COORD: found %d values, want %d", len(coord), want)
	}
	n := nx * ny * nz
	if want := 8 * n; len(zcorn) != want {
		return nil, fmt.Errorf("ZCORN: found %d values, want %d", len(zcorn), want)
	}
	if actnum != nil && len(actnum) != n {
		return nil, fmt.Errorf("ACTNUM: found %d values, want %d", len(actnum), n)
	}

	g := &Grid{
		NX:     nx,
		NY:     ny,
		NZ:     nz,
		coord:  coord,
		zcorn:  zcorn,
		actIdx: make([]int, n),
		masked: make([]bool, n),
	}
	for i := range g.actIdx {
		if actnum != nil && actnum[i] <= 0 {
			g.actIdx[i] = -1
			continue
		}
		g.actIdx[i] = g.numAct
		g.numAct++
	}
	g.visible = g.numAct
	return g, nil
}

// Cartesian returns a grid of orthogonal cells.
//
// The cell sizes dx, dy, and dz might have a single value
// (the same size for all cells)
// or a value for each cell.
// Tops is the depth of the top of the cells
// it might have a single value,
// a value for each cell of the first layer,
// or a value for each cell.
func Cartesian(nx, ny, nz int, dx, dy, dz, tops []float64) (*Grid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("invalid dimensions [%d,%d,%d]", nx, ny, nz)
	}
	n := nx * ny * nz
	at := func(v []float64, name string, idx int) (float64, error) {
		switch len(v) {
		case 1:
			return v[0], nil
		case n:
			return v[idx], nil
		}
		return 0, fmt.Errorf("%s: found %d values, want 1 or %d", name, len(v), n)
	}
	if len(tops) == 0 {
		tops = []float64{0}
	}
	if len(tops) != 1 && len(tops) != nx*ny && len(tops) != n {
		return nil, fmt.Errorf("TOPS: found %d values, want 1, %d, or %d", len(tops), nx*ny, n)
	}

	coord := make([]float64, 0, 6*(nx+1)*(ny+1))
	xs := make([]float64, nx+1)
	for i := 0; i < nx; i++ {
		d, err := at(dx, "DX", i)
		if err != nil {
			return nil, err
		}
		xs[i+1] = xs[i] + d
	}
	ys := make([]float64, ny+1)
	for j := 0; j < ny; j++ {
		d, err := at(dy, "DY", j*nx)
		if err != nil {
			return nil, err
		}
		ys[j+1] = ys[j] + d
	}
	// vertical pillars
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			coord = append(coord, xs[i], ys[j], 0, xs[i], ys[j], 1)
		}
	}

	zcorn := make([]float64, 8*n)
	top := make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			switch len(tops) {
			case 1:
				top[i+j*nx] = tops[0]
			default:
				top[i+j*nx] = tops[i+j*nx]
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				idx := i + j*nx + k*nx*ny
				d, err := at(dz, "DZ", idx)
				if err != nil {
					return nil, err
				}
				t := top[i+j*nx]
				if len(tops) == n {
					t = tops[idx]
				}
				b := t + d
				top[i+j*nx] = b
				for kk, z := range []float64{t, b} {
					for jj := 0; jj < 2; jj++ {
						for ii := 0; ii < 2; ii++ {
							zcorn[zcornIndex(nx, ny, i, j, k, ii, jj, kk)] = z
						}
					}
				}
			}
		}
	}
	return New(nx, ny, nz, coord, zcorn, nil)
}

func zcornIndex(nx, ny, i, j, k, ii, jj, kk int) int {
	return ((2*k+kk)*2*ny+2*j+jj)*2*nx + 2*i + ii
}

// Len returns the number of cells in the grid.
func (g *Grid) Len() int {
	return g.NX * g.NY * g.NZ
}

// Dim returns the number of cells along an axis.
func (g *Grid) Dim(a Axis) int {
	switch a {
	case X:
		return g.NX
	case Y:
		return g.NY
	}
	return g.NZ
}

// Index returns the index of a cell
// in the flattened array.
func (g *Grid) Index(i, j, k int) int {
	return i + j*g.NX + k*g.NX*g.NY
}

// IJK returns the cell coordinates
// of an index.
func (g *Grid) IJK(idx int) (i, j, k int) {
	i = idx % g.NX
	j = (idx / g.NX) % g.NY
	k = idx / (g.NX * g.NY)
	return i, j, k
}

// Corners returns the eight corners of a cell.
// The first four corners are the top face
// in the order (i,j), (i+1,j), (i,j+1), (i+1,j+1),
// and the last four corners
// are the bottom face in the same order.
func (g *Grid) Corners(i, j, k int) [8]Point {
	var pts [8]Point
	for c := range pts {
		ii, jj, kk := c&1, (c>>1)&1, c>>2
		p := 6 * ((j+jj)*(g.NX+1) + i + ii)
		x1, y1, z1 := g.coord[p], g.coord[p+1], g.coord[p+2]
		x2, y2, z2 := g.coord[p+3], g.coord[p+4], g.coord[p+5]

		z := g.zcorn[zcornIndex(g.NX, g.NY, i, j, k, ii, jj, kk)]
		x, y := x1, y1
		if z2 != z1 {
			t := (z - z1) / (z2 - z1)
			x = x1 + t*(x2-x1)
			y = y1 + t*(y2-y1)
		}
		pts[c] = Point{X: x, Y: y, Z: z}
	}
	return pts
}

// edge corner pairs along each axis
var edges = [3][4][2]int{
	{{0, 1}, {2, 3}, {4, 5}, {6, 7}},
	{{0, 2}, {1, 3}, {4, 6}, {5, 7}},
	{{0, 4}, {1, 5}, {2, 6}, {3, 7}},
}

// Size returns the length of a cell along an axis,
// as the average of the four cell edges
// in that direction.
func (g *Grid) Size(i, j, k int, a Axis) float64 {
	pts := g.Corners(i, j, k)
	var sum float64
	for _, e := range edges[a] {
		p, q := pts[e[0]], pts[e[1]]
		sum += math.Sqrt((p.X-q.X)*(p.X-q.X) + (p.Y-q.Y)*(p.Y-q.Y) + (p.Z-q.Z)*(p.Z-q.Z))
	}
	return sum / 4
}

// Center returns the center of a cell.
func (g *Grid) Center(i, j, k int) Point {
	pts := g.Corners(i, j, k)
	var c Point
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
		c.Z += p.Z
	}
	c.X /= 8
	c.Y /= 8
	c.Z /= 8
	return c
}

// Depth returns the depth of the center
// of each cell.
func (g *Grid) Depth() []float64 {
	v := make([]float64, g.Len())
	for idx := range v {
		i, j, k := g.IJK(idx)
		v[idx] = g.Center(i, j, k).Z
	}
	return v
}

// Sizes returns the length of each cell
// along an axis.
func (g *Grid) Sizes(a Axis) []float64 {
	v := make([]float64, g.Len())
	for idx := range v {
		i, j, k := g.IJK(idx)
		v[idx] = g.Size(i, j, k, a)
	}
	return v
}

// Active returns true if a cell is active.
func (g *Grid) Active(idx int) bool {
	return g.actIdx[idx] >= 0 && !g.masked[idx]
}

// ActiveIndex returns the index of the cell
// in the arrays of active cells.
// It returns -1 if the cell is inactive.
func (g *Grid) ActiveIndex(idx int) int {
	return g.actIdx[idx]
}

// NumActive returns the number of active cells.
func (g *Grid) NumActive() int {
	return g.visible
}

// SetPoreVolume sets as inactive
// any cell with a pore volume of zero, or less.
// The pore volume is given for all cells
// of the grid.
func (g *Grid) SetPoreVolume(porv []float64) error {
	if len(porv) != g.Len() {
		return fmt.Errorf("PORV: found %d values, want %d", len(porv), g.Len())
	}
	g.visible = 0
	for idx, pv := range porv {
		g.masked[idx] = !(pv > 0)
		if g.Active(idx) {
			g.visible++
		}
	}
	return nil
}

// Expand returns an array with a value
// for each cell of the grid
// and NaN for inactive cells.
//
// The input values can be defined for all the cells,
// for the active cells of the grid definition,
// or for the cells with a positive pore volume.
func (g *Grid) Expand(values []float64) ([]float64, error) {
	v := make([]float64, g.Len())
	switch len(values) {
	case g.Len():
		for idx := range v {
			v[idx] = math.NaN()
			if g.Active(idx) {
				v[idx] = values[idx]
			}
		}
	case g.numAct:
		for idx := range v {
			v[idx] = math.NaN()
			if g.Active(idx) {
				v[idx] = values[g.actIdx[idx]]
			}
		}
	case g.visible:
		var n int
		for idx := range v {
			v[idx] = math.NaN()
			if g.Active(idx) {
				v[idx] = values[n]
				n++
			}
		}
	default:
		return nil, fmt.Errorf("found %d values, want %d (all cells) or %d (active cells)", len(values), g.Len(), g.visible)
	}
	return v, nil
}

// Compress returns the values of the active cells
// of a field with values for all cells.
func (g *Grid) Compress(field []float64) []float64 {
	v := make([]float64, 0, g.visible)
	for idx, x := range field {
		if g.Active(idx) {
			v = append(v, x)
		}
	}
	return v
}
