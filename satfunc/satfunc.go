// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package satfunc interprets the saturation function tables
// of an input deck.
package satfunc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/js-arias/resplot/deck"
)

// A Curve is a saturation function.
type Curve struct {
	Name  string
	Label string
	Sat   []float64
	Val   []float64
}

// quantity definition:
// the keywords that define it,
// and the column of the value in each keyword.
type quantity struct {
	label string
	sat   string
	cols  map[string]int
}

var quantities = map[string]quantity{
	"krw": {
		label: "Water relative permeability",
		sat:   "S_w",
		cols:  map[string]int{"SWOF": 1, "SWFN": 1, "SGWFN": 2},
	},
	"krow": {
		label: "Oil relative permeability in water",
		sat:   "S_w",
		cols:  map[string]int{"SWOF": 2},
	},
	"pcow": {
		label: "Oil-water capillary pressure",
		sat:   "S_w",
		cols:  map[string]int{"SWOF": 3, "SWFN": 2},
	},
	"krg": {
		label: "Gas relative permeability",
		sat:   "S_g",
		cols:  map[string]int{"SGOF": 1, "SGFN": 1, "SGWFN": 1},
	},
	"krog": {
		label: "Oil relative permeability in gas",
		sat:   "S_g",
		cols:  map[string]int{"SGOF": 2},
	},
	"pcog": {
		label: "Oil-gas capillary pressure",
		sat:   "S_g",
		cols:  map[string]int{"SGOF": 3, "SGFN": 2},
	},
	"pcwg": {
		label: "Gas-water capillary pressure",
		sat:   "S_g",
		cols:  map[string]int{"SGWFN": 3},
	},
}

// search order of the keywords
var keywords = []string{"SWOF", "SGOF", "SWFN", "SGFN", "SGWFN"}

// Tables is the set of saturation functions
// of a deck.
type Tables struct {
	d *deck.Deck
}

// New returns the saturation functions of a deck.
func New(d *deck.Deck) *Tables {
	return &Tables{d: d}
}

// Quantities returns the names of the quantities
// defined in the deck.
func (t *Tables) Quantities() []string {
	var qs []string
	for _, q := range []string{"krw", "krow", "pcow", "krg", "krog", "pcog", "pcwg"} {
		for kw := range quantities[q].cols {
			if len(t.d.Tables(kw)) > 0 {
				qs = append(qs, q)
				break
			}
		}
	}
	return qs
}

// ParseName returns the quantity and the table number
// (1-based)
// of a curve name,
// for example "krw3".
func ParseName(name string) (string, int, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	i := strings.IndexFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	q, num := name, "1"
	if i >= 0 {
		q, num = name[:i], name[i:]
	}
	if _, ok := quantities[q]; !ok {
		return "", 0, fmt.Errorf("unknown saturation function %q", name)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("saturation function %q: invalid table %q", name, num)
	}
	return q, n, nil
}

// Curve returns a saturation function
// by its name.
func (t *Tables) Curve(name string) (Curve, error) {
	q, n, err := ParseName(name)
	if err != nil {
		return Curve{}, err
	}
	def := quantities[q]
	for _, kw := range keywords {
		col, ok := def.cols[kw]
		if !ok {
			continue
		}
		tbls := t.d.Tables(kw)
		if len(tbls) == 0 {
			continue
		}
		if n > len(tbls) {
			return Curve{}, fmt.Errorf("saturation function %q: table %d undefined in %s (%d tables)", name, n, kw, len(tbls))
		}
		sat, val := columns(tbls[n-1], deck.Columns(kw), col)
		if len(sat) == 0 {
			return Curve{}, fmt.Errorf("saturation function %q: empty table %d in %s", name, n, kw)
		}
		return Curve{
			Name:  fmt.Sprintf("%s%d", q, n),
			Label: def.label,
			Sat:   sat,
			Val:   val,
		}, nil
	}
	return Curve{}, fmt.Errorf("saturation function %q: no table defined", name)
}

// SatLabel returns the label of the saturation
// of a curve.
func SatLabel(name string) string {
	q, _, err := ParseName(name)
	if err != nil {
		return ""
	}
	return quantities[q].sat
}

// columns returns the saturation
// and the values of a column of a table.
// Default values are linearly interpolated.
func columns(tbl []float64, ncol, col int) (sat, val []float64) {
	rows := len(tbl) / ncol
	sat = make([]float64, rows)
	val = make([]float64, rows)
	for r := 0; r < rows; r++ {
		sat[r] = tbl[r*ncol]
		val[r] = tbl[r*ncol+col]
	}
	interpolate(sat, val)
	return sat, val
}

func interpolate(x, y []float64) {
	for i := range y {
		if !math.IsNaN(y[i]) {
			continue
		}
		lo, hi := i-1, i+1
		for hi < len(y) && math.IsNaN(y[hi]) {
			hi++
		}
		switch {
		case lo < 0 && hi >= len(y):
			continue
		case lo < 0:
			y[i] = y[hi]
		case hi >= len(y):
			y[i] = y[lo]
		default:
			t := (x[i] - x[lo]) / (x[hi] - x[lo])
			y[i] = y[lo] + t*(y[hi]-y[lo])
		}
	}
}
