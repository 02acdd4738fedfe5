// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package slide implements the projection
// of the fields of a 3D grid
// into 2D maps.
//
// A slide is a section of the grid
// at a given index range along an axis.
// All the cells of the range
// are collapsed into a single value
// using a projection rule.
package slide

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/js-arias/resplot/grid"
)

// ErrSlide is the error returned
// for an invalid slide definition.
var ErrSlide = errors.New("invalid slide")

// A Range is an inclusive range of cell indexes
// along an axis.
// Indexes start at 0.
type Range struct {
	Lo, Hi int

	// Set is true if the range
	// was explicitly given.
	Set bool
}

// Len returns the number of cells in the range.
func (r Range) Len() int {
	return r.Hi - r.Lo + 1
}

// Selection is a definition of a section of a grid.
type Selection struct {
	I, J, K Range
}

// Default is the default slide:
// the first cell along the y axis.
var Default = Selection{
	J: Range{Lo: 0, Hi: 0, Set: true},
}

var axisName = [3]string{"i", "j", "k"}

// Parse reads a selection
// from a string of the form "i,j,k",
// in which each part can be:
// empty or the axis name, for the whole axis;
// a single 1-based index;
// a 1-based index range "a:b";
// or ":" to use all the cells along the axis.
//
// An empty string returns the default slide.
func Parse(s string, nx, ny, nz int) (Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Selection{}, fmt.Errorf("%w: %q: found %d parts, want 3", ErrSlide, s, len(parts))
	}

	dims := [3]int{nx, ny, nz}
	var rs [3]Range
	for a, p := range parts {
		r, err := parseRange(strings.ToLower(strings.TrimSpace(p)), axisName[a], dims[a])
		if err != nil {
			return Selection{}, fmt.Errorf("%w: %q: %v", ErrSlide, s, err)
		}
		rs[a] = r
	}
	return Selection{I: rs[0], J: rs[1], K: rs[2]}, nil
}

func parseRange(p, name string, n int) (Range, error) {
	full := Range{Lo: 0, Hi: n - 1}
	if p == "" || p == name {
		return full, nil
	}
	if p == ":" {
		full.Set = true
		return full, nil
	}

	lo, hi := p, p
	if i := strings.IndexByte(p, ':'); i >= 0 {
		lo, hi = p[:i], p[i+1:]
	}
	a, err := parseIndex(lo, 1)
	if err != nil {
		return Range{}, fmt.Errorf("axis %s: %v", name, err)
	}
	b, err := parseIndex(hi, n)
	if err != nil {
		return Range{}, fmt.Errorf("axis %s: %v", name, err)
	}
	if a > b {
		return Range{}, fmt.Errorf("axis %s: reversed range %d:%d", name, a, b)
	}
	if a < 1 || b > n {
		return Range{}, fmt.Errorf("axis %s: range %d:%d out of bounds [1, %d]", name, a, b, n)
	}
	return Range{Lo: a - 1, Hi: b - 1, Set: true}, nil
}

func parseIndex(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return v, nil
}

func (s Selection) ranges() [3]Range {
	return [3]Range{s.I, s.J, s.K}
}

// Axis returns the axis cut by the selection.
// It is an error if the selection
// does not restrict exactly one axis.
func (s Selection) Axis() (grid.Axis, error) {
	ax := -1
	for a, r := range s.ranges() {
		if !r.Set {
			continue
		}
		if ax >= 0 {
			return 0, fmt.Errorf("%w: %s: more than one restricted axis", ErrSlide, s.Name())
		}
		ax = a
	}
	if ax < 0 {
		return 0, fmt.Errorf("%w: %s: no restricted axis", ErrSlide, s.Name())
	}
	return grid.Axis(ax), nil
}

// IsSensor returns true if the three axes
// of the selection are restricted.
func (s Selection) IsSensor() bool {
	return s.I.Set && s.J.Set && s.K.Set
}

// Name returns a name for the selection,
// usable in file names.
func (s Selection) Name() string {
	parts := make([]string, 3)
	for a, r := range s.ranges() {
		switch {
		case !r.Set:
			parts[a] = axisName[a]
		case r.Lo == r.Hi:
			parts[a] = strconv.Itoa(r.Lo + 1)
		default:
			parts[a] = fmt.Sprintf("%d:%d", r.Lo+1, r.Hi+1)
		}
	}
	return strings.Join(parts, ",")
}

// check validates the selection
// with the dimensions of a grid.
func (s Selection) check(g *grid.Grid) error {
	for a, r := range s.ranges() {
		n := g.Dim(grid.Axis(a))
		if r.Lo < 0 || r.Hi >= n || r.Lo > r.Hi {
			return fmt.Errorf("%w: %s: axis %s out of bounds [1, %d]", ErrSlide, s.Name(), axisName[a], n)
		}
	}
	return nil
}
