// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package simcase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/js-arias/resplot/deck"
	"github.com/js-arias/resplot/ecl"
	"github.com/js-arias/resplot/grid"
	"github.com/js-arias/resplot/summary"
	"github.com/js-arias/resplot/variable"
)

// Grid returns the grid of the case.
//
// The grid is read from the EGRID file,
// or built from the grid keywords of the input deck.
// If the pore volume is defined,
// cells without pore volume are set as inactive.
func (c *Case) Grid() (*grid.Grid, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadGrid()
}

func (c *Case) loadGrid() (*grid.Grid, error) {
	if c.geom != nil {
		return c.geom, nil
	}

	var g *grid.Grid
	if name := c.Path(EGrid); name != "" {
		f, err := ecl.ReadFile(name)
		if err != nil {
			return nil, err
		}
		g, err = grid.FromEGRID(f)
		if err != nil {
			return nil, fmt.Errorf("on file %q: %v", name, err)
		}
	} else {
		d, err := c.loadDeck()
		if err != nil {
			return nil, fmt.Errorf("grid not defined in case %q", c.base)
		}
		g, err = deckGrid(d)
		if err != nil {
			return nil, fmt.Errorf("on file %q: %v", c.Path(Deck), err)
		}
	}

	pv, err := c.poreVolume(g)
	if err == nil {
		if err := g.SetPoreVolume(pv); err != nil {
			return nil, err
		}
	}
	c.geom = g
	return g, nil
}

func deckGrid(d *deck.Deck) (*grid.Grid, error) {
	nx, ny, nz, ok := d.Dims()
	if !ok {
		return nil, fmt.Errorf("grid dimensions undefined")
	}
	var arr [4][]float64
	for i, kw := range []string{"DX", "DY", "DZ", "TOPS"} {
		v, ok := d.Array(kw)
		if !ok {
			return nil, fmt.Errorf("grid keyword %s undefined", kw)
		}
		arr[i] = v
	}
	g, err := grid.Cartesian(nx, ny, nz, arr[0], arr[1], arr[2], arr[3])
	if err != nil {
		return nil, err
	}
	if act, ok := d.Array("ACTNUM"); ok {
		if len(act) != g.Len() {
			return nil, fmt.Errorf("ACTNUM: found %d values, want %d", len(act), g.Len())
		}
		mask := make([]float64, len(act))
		for i, a := range act {
			mask[i] = a
		}
		if err := g.SetPoreVolume(mask); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// poreVolume returns the pore volume of each cell
// from the INIT file,
// or from the porosity of the deck.
func (c *Case) poreVolume(g *grid.Grid) ([]float64, error) {
	if f, err := c.loadInit(); err == nil && f.Has("PORV") {
		pv, err := f.Floats("PORV", 0)
		if err != nil {
			return nil, err
		}
		if len(pv) == g.Len() {
			return pv, nil
		}
		return g.Expand(pv)
	}

	d, err := c.loadDeck()
	if err != nil {
		return nil, fmt.Errorf("pore volume undefined in case %q", c.base)
	}
	poro, ok := d.Array("PORO")
	if !ok || len(poro) != g.Len() {
		return nil, fmt.Errorf("pore volume undefined in case %q", c.base)
	}
	ntg, hasNTG := d.Array("NTG")
	if hasNTG && len(ntg) != g.Len() {
		hasNTG = false
	}
	act, hasAct := d.Array("ACTNUM")

	pv := make([]float64, g.Len())
	for idx := range pv {
		if hasAct && act[idx] == 0 {
			continue
		}
		i, j, k := g.IJK(idx)
		v := g.Size(i, j, k, grid.X) * g.Size(i, j, k, grid.Y) * g.Size(i, j, k, grid.Z) * poro[idx]
		if hasNTG {
			v *= ntg[idx]
		}
		pv[idx] = v
	}
	return pv, nil
}

// PoreVolume returns the pore volume
// of each cell of the grid.
// Inactive cells are NaN.
func (c *Case) PoreVolume() ([]float64, error) {
	return c.Field("porv", 0)
}

// Init returns the INIT file of the case.
func (c *Case) Init() (*ecl.File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadInit()
}

func (c *Case) loadInit() (*ecl.File, error) {
	if c.static != nil {
		return c.static, nil
	}
	name := c.Path(Init)
	if name == "" {
		return nil, fmt.Errorf("INIT file not defined in case %q", c.base)
	}
	f, err := ecl.ReadFile(name)
	if err != nil {
		return nil, err
	}
	c.static = f
	return f, nil
}

// Restart returns the UNRST file of the case.
func (c *Case) Restart() (*ecl.File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadRestart()
}

func (c *Case) loadRestart() (*ecl.File, error) {
	if c.restart != nil {
		return c.restart, nil
	}
	name := c.Path(UnRst)
	if name == "" {
		return nil, fmt.Errorf("UNRST file not defined in case %q", c.base)
	}
	f, err := ecl.ReadFile(name)
	if err != nil {
		return nil, err
	}

	// report boundaries
	for i, kw := range f.Keywords {
		if kw.Name == "SEQNUM" {
			c.reports = append(c.reports, i)
		}
	}
	if len(c.reports) == 0 && len(f.Keywords) > 0 {
		c.reports = []int{0}
	}
	c.restart = f
	return f, nil
}

// Summary returns the summary vectors of the case.
func (c *Case) Summary() (*summary.Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sum != nil {
		return c.sum, nil
	}
	specName := c.Path(SMSpec)
	dataName := c.Path(UnSmry)
	if specName == "" || dataName == "" {
		return nil, fmt.Errorf("summary files not defined in case %q", c.base)
	}
	spec, err := ecl.ReadFile(specName)
	if err != nil {
		return nil, err
	}
	data, err := ecl.ReadFile(dataName)
	if err != nil {
		return nil, err
	}
	s, err := summary.Read(spec, data)
	if err != nil {
		return nil, fmt.Errorf("on case %q: %v", c.base, err)
	}
	c.sum = s
	return s, nil
}

// Deck returns the input deck of the case.
func (c *Case) Deck() (*deck.Deck, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadDeck()
}

func (c *Case) loadDeck() (*deck.Deck, error) {
	if c.input != nil {
		return c.input, nil
	}
	name := c.Path(Deck)
	if name == "" {
		return nil, fmt.Errorf("input deck not defined in case %q", c.base)
	}
	d, err := deck.ReadFile(name)
	if err != nil {
		return nil, err
	}
	c.input = d
	return d, nil
}

// Restarts returns the number of restarts
// of the case.
func (c *Case) Restarts() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.loadRestart(); err != nil {
		return 0
	}
	return len(c.reports)
}

// RestartTimes returns the simulation time
// (in days)
// of each restart.
func (c *Case) RestartTimes() ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := c.loadRestart()
	if err != nil {
		return nil, err
	}
	times := make([]float64, len(c.reports))
	for r := range times {
		kw := c.reportKeyword(f, "DOUBHEAD", r)
		if kw == nil {
			times[r] = float64(r)
			continue
		}
		v, err := kw.Floats()
		if err != nil || len(v) == 0 {
			return nil, fmt.Errorf("on file %q: restart %d: invalid DOUBHEAD", c.Path(UnRst), r)
		}
		times[r] = v[0]
	}
	return times, nil
}

// ResolveRestart returns the index of a restart.
// A negative value is the last restart.
func (c *Case) ResolveRestart(rst int) (int, error) {
	n := c.Restarts()
	if n == 0 {
		if rst <= 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("restart %d: case %q without restarts", rst, c.base)
	}
	if rst < 0 {
		return n - 1, nil
	}
	if rst >= n {
		return 0, fmt.Errorf("restart %d: out of range [0, %d]", rst, n-1)
	}
	return rst, nil
}

// ParseRestarts parses a list of restarts
// of a case with n restarts.
//
// An empty list is all the restarts.
// A single value is a single restart.
// Two values are the first and the last restart
// of a range,
// for example "0,5".
// Three or more values are an explicit list of restarts
// in increasing order,
// for example "0,2,5".
func ParseRestarts(s string, n int) ([]int, error) {
	if n == 0 {
		return nil, fmt.Errorf("case without restarts")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		rst := make([]int, n)
		for i := range rst {
			rst[i] = i
		}
		return rst, nil
	}

	var ls []int
	for _, v := range strings.Split(s, ",") {
		r, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid restart list %q: %v", s, err)
		}
		if r < 0 || r >= n {
			return nil, fmt.Errorf("invalid restart list %q: restart %d out of range [0, %d]", s, r, n-1)
		}
		if len(ls) > 0 && r <= ls[len(ls)-1] {
			return nil, fmt.Errorf("invalid restart list %q: restarts must be increasing", s)
		}
		ls = append(ls, r)
	}
	if len(ls) != 2 {
		return ls, nil
	}
	rst := make([]int, 0, ls[1]-ls[0]+1)
	for r := ls[0]; r <= ls[1]; r++ {
		rst = append(rst, r)
	}
	return rst, nil
}

// reportKeyword returns a keyword
// in a restart report.
func (c *Case) reportKeyword(f *ecl.File, name string, r int) *ecl.Keyword {
	start := c.reports[r]
	end := len(f.Keywords)
	if r+1 < len(c.reports) {
		end = c.reports[r+1]
	}
	for _, kw := range f.Keywords[start:end] {
		if kw.Name == name {
			return kw
		}
	}
	return nil
}

// IsDynamic returns true if a field
// is defined in the restart file.
func (c *Case) IsDynamic(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	up := strings.ToUpper(name)
	if f, err := c.loadInit(); err == nil && f.Has(up) {
		return false
	}
	f, err := c.loadRestart()
	if err != nil {
		return false
	}
	return f.Has(up)
}

// Field returns the values of a field
// at a given restart
// (a negative value for the last restart).
//
// The field is searched,
// in order,
// in the INIT file,
// in the UNRST file,
// in the grid geometry
// (depth, dx, dy, and dz),
// and in the grid keywords of the input deck.
// The returned array has a value for each cell of the grid,
// and NaN for inactive cells.
func (c *Case) Field(name string, rst int) ([]float64, error) {
	r, err := c.ResolveRestart(rst)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.field(name, r)
}

func (c *Case) field(name string, rst int) ([]float64, error) {
	up := strings.ToUpper(strings.TrimSpace(name))
	if v, ok := c.fields[up]; ok {
		return v, nil
	}
	if v, ok := c.fields[fieldKey(up, rst)]; ok {
		return v, nil
	}
	g, err := c.loadGrid()
	if err != nil {
		return nil, err
	}

	v, dynamic, err := c.rawField(g, up, rst)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("unknown variable %q in case %q", name, c.base)
	}
	field, err := g.Expand(v)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %v", name, err)
	}
	if !dynamic {
		rst = -1
	}
	c.fields[fieldKey(up, rst)] = field
	return field, nil
}

func fieldKey(name string, rst int) string {
	if rst < 0 {
		return name
	}
	return fmt.Sprintf("%d:%s", rst, name)
}

// rawField returns the values of a field
// as stored in the files of the case.
// It returns nil if the field is not found.
func (c *Case) rawField(g *grid.Grid, name string, rst int) (v []float64, dynamic bool, err error) {
	if name == "PORV" {
		pv, err := c.poreVolume(g)
		return pv, false, err
	}

	if f, err := c.loadInit(); err == nil && f.Has(name) {
		v, err := f.Floats(name, 0)
		return v, false, err
	}

	if f, err := c.loadRestart(); err == nil && f.Has(name) {
		kw := c.reportKeyword(f, name, rst)
		if kw == nil {
			return nil, true, fmt.Errorf("variable %q undefined at restart %d", name, rst)
		}
		v, err := kw.Floats()
		return v, true, err
	}

	switch name {
	case "DEPTH":
		return g.Depth(), false, nil
	case "DX":
		return g.Sizes(grid.X), false, nil
	case "DY":
		return g.Sizes(grid.Y), false, nil
	case "DZ":
		return g.Sizes(grid.Z), false, nil
	}

	if d, err := c.loadDeck(); err == nil {
		if v, ok := d.Array(name); ok {
			return v, false, nil
		}
	}
	return nil, false, nil
}

// Evaluate evaluates an expression
// at a given restart.
// Fields of the expression
// with an explicit restart
// are taken at that restart.
func (c *Case) Evaluate(e *variable.Expr, rst int) ([]float64, error) {
	r, err := c.ResolveRestart(rst)
	if err != nil {
		return nil, err
	}
	g, err := c.Grid()
	if err != nil {
		return nil, err
	}
	return e.Eval(g.Len(), c.lookup(r))
}

// Filter applies a cell filter
// to the values of a field.
func (c *Case) Filter(f *variable.Filter, values []float64, rst int) ([]float64, error) {
	r, err := c.ResolveRestart(rst)
	if err != nil {
		return nil, err
	}
	return f.Apply(values, c.lookup(r))
}

func (c *Case) lookup(rst int) variable.Lookup {
	return func(ref variable.Ref) ([]float64, error) {
		r := rst
		if ref.Tagged {
			var err error
			if r, err = c.ResolveRestart(ref.Restart); err != nil {
				return nil, fmt.Errorf("variable %q: %v", ref, err)
			}
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.field(ref.Name, r)
	}
}

// NoWell is the value of the active cells
// without a well completion
// in the well field.
const NoWell = -1

// Wells returns the well completions
// as a field in which the completed cells
// have the index of the well,
// other active cells are NoWell,
// and inactive cells are NaN.
func (c *Case) Wells() ([]float64, []deck.Well, error) {
	g, err := c.Grid()
	if err != nil {
		return nil, nil, err
	}
	d, err := c.Deck()
	if err != nil {
		return nil, nil, err
	}
	wells := d.Wells()
	v := make([]float64, g.Len())
	for i := range v {
		v[i] = math.NaN()
		if g.Active(i) {
			v[i] = NoWell
		}
	}
	for w, wl := range wells {
		if wl.I >= g.NX || wl.J >= g.NY || wl.K2 >= g.NZ {
			return nil, nil, fmt.Errorf("well %q: completion out of grid", wl.Name)
		}
		for k := wl.K1; k <= wl.K2; k++ {
			v[g.Index(wl.I, wl.J, k)] = float64(w)
		}
	}
	return v, wells, nil
}
