// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mapping_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/js-arias/resplot/ecl"
	"github.com/js-arias/resplot/mapping"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/slide"
	"github.com/js-arias/resplot/style"
	"github.com/js-arias/resplot/variable"
)

var deckBlob = `DIMENS
 2 2 1 /
GRID
DX
 4*10 /
DY
 4*10 /
DZ
 4*1 /
TOPS
 4*100 /
PORO
 4*0.25 /
SCHEDULE
COMPDAT
 'PROD' 2 2 1 1 'OPEN' /
/
`

// newCase returns a 2x2x1 case
// in which the second cell is inactive.
func newCase(t testing.TB) *simcase.Case {
	t.Helper()

	dir := t.TempDir()
	base := filepath.Join(dir, "CASE")
	if err := os.WriteFile(base+".DATA", []byte(deckBlob), 0644); err != nil {
		t.Fatalf("unable to write deck: %v", err)
	}

	ini := ecl.New()
	ini.Add(ecl.NewReals("PORV", []float32{25, 0, 25, 25}))
	if err := ecl.WriteFile(base+".INIT", ini); err != nil {
		t.Fatalf("unable to write INIT: %v", err)
	}

	rst := ecl.New()
	for r, p := range [][]float32{{100, 100, 100}, {110, 120, 130}} {
		rst.Add(ecl.NewInts("SEQNUM", []int32{int32(r)}))
		rst.Add(ecl.NewDoubles("DOUBHEAD", []float64{float64(r) * 365, 0}))
		rst.Add(ecl.NewReals("PRESSURE", p))
	}
	if err := ecl.WriteFile(base+".UNRST", rst); err != nil {
		t.Fatalf("unable to write UNRST: %v", err)
	}

	c, err := simcase.Open(base)
	if err != nil {
		t.Fatalf("unable to open case: %v", err)
	}
	return c
}

func newRequest(t testing.TB, c *simcase.Case, expr, filter string) *mapping.Request {
	t.Helper()

	e, err := variable.Parse(expr)
	if err != nil {
		t.Fatalf("unable to parse %q: %v", expr, err)
	}
	f, err := variable.ParseFilter(filter)
	if err != nil {
		t.Fatalf("unable to parse filter %q: %v", filter, err)
	}
	sel, err := slide.Parse(",,1", 2, 2, 1)
	if err != nil {
		t.Fatalf("unable to parse slide: %v", err)
	}
	return &mapping.Request{
		Case:    c,
		Expr:    e,
		Filter:  f,
		Slide:   sel,
		Restart: -1,
	}
}

func TestBuild(t *testing.T) {
	c := newCase(t)

	req := newRequest(t, c, "pressure", "")
	res, err := req.Build()
	if err != nil {
		t.Fatalf("unable to build map: %v", err)
	}
	if res.Restart != 1 || res.Time != 365 {
		t.Errorf("restart: got %d (t=%g), want 1 (t=365)", res.Restart, res.Time)
	}
	want := [][]float64{{110, math.NaN()}, {120, 130}}
	for r, row := range want {
		for col, w := range row {
			v := res.Map.Cell(r, col)
			if math.IsNaN(w) {
				if !math.IsNaN(v) {
					t.Errorf("cell %d,%d: got %g, want NaN", r, col, v)
				}
				continue
			}
			if v != w {
				t.Errorf("cell %d,%d: got %g, want %g", r, col, v, w)
			}
		}
	}
	if title := res.Title("pressure"); title != "pressure, slide i,j,1, t=365 d" {
		t.Errorf("title: got %q", title)
	}

	d, err := c.Deck()
	if err != nil {
		t.Fatalf("unable to read deck: %v", err)
	}
	marks := mapping.WellMarks(res.Map, req.Slide, d.Wells())
	if len(marks) != 1 || marks[0].Label != "PROD" || marks[0].X != 15 || marks[0].Y != 15 {
		t.Errorf("wells: got %+v", marks)
	}

	req = newRequest(t, c, "porv", "")
	res, err = req.Build()
	if err != nil {
		t.Fatalf("unable to build map: %v", err)
	}
	if !math.IsNaN(res.Time) {
		t.Errorf("static time: got %g, want NaN", res.Time)
	}
	if title := res.Title("porv"); title != "porv, slide i,j,1 (sum=7.500e+01)" {
		t.Errorf("title: got %q", title)
	}

	if n := mapping.FileName("CASE", "pressure", req.Slide.Name(), 1); n != "case_pressure_i,j,1_t1.png" {
		t.Errorf("file name: got %q", n)
	}
}

func TestDiffAndFilter(t *testing.T) {
	c := newCase(t)

	req := newRequest(t, c, "pressure - 0pressure", "pressure > 115")
	res, err := req.Build()
	if err != nil {
		t.Fatalf("unable to build map: %v", err)
	}
	if v := res.Map.Cell(0, 0); !math.IsNaN(v) {
		t.Errorf("filtered cell: got %g, want NaN", v)
	}
	if v := res.Map.Cell(1, 1); v != 30 {
		t.Errorf("cell 1,1: got %g, want %g", v, 30.0)
	}

	req = newRequest(t, c, "pressure", "")
	req.Diff = c
	res, err = req.Build()
	if err != nil {
		t.Fatalf("unable to build map: %v", err)
	}
	if min, max := res.Map.Range(); min != 0 || max != 0 {
		t.Errorf("difference range: got %g %g, want 0 0", min, max)
	}
	opt := style.Default()
	opt.Width, opt.Height, opt.DPI = 2, 1.5, 40
	if _, err := res.Figure("pressure", mapping.Colors{Props: style.Lookup("pressure")}, opt); err != nil {
		t.Errorf("figure: unexpected error: %v", err)
	}

	req = newRequest(t, c, "pressure", "pressure > 1000")
	res, err = req.Build()
	if err != nil {
		t.Fatalf("unable to build map: %v", err)
	}
	_, err = res.Figure("pressure", mapping.Colors{Props: style.Lookup("pressure")}, opt)
	if !errors.Is(err, mapping.ErrNoValues) {
		t.Errorf("empty map: got error %v, want %v", err, mapping.ErrNoValues)
	}
}

func TestMask(t *testing.T) {
	c := newCase(t)

	req := newRequest(t, c, "porv", "")
	mask, err := variable.Parse("pressure > 115")
	if err != nil {
		t.Fatalf("unable to parse mask: %v", err)
	}
	req.Mask = mask
	res, err := req.Build()
	if err != nil {
		t.Fatalf("unable to build map: %v", err)
	}
	if v := res.Map.Cell(0, 0); !math.IsNaN(v) {
		t.Errorf("masked cell: got %g, want NaN", v)
	}
	if v := res.Map.Cell(1, 0); v != 25 {
		t.Errorf("cell 1,0: got %g, want %g", v, 25.0)
	}

	req.Mask, _ = variable.Parse("satnum")
	if _, err := req.Build(); err == nil {
		t.Errorf("undefined mask: expecting error")
	}
}

func TestCaseLists(t *testing.T) {
	slides := mapping.SplitSlides("1:2,,  ,1,")
	if !reflect.DeepEqual(slides, []string{"1:2,,", ",1,"}) {
		t.Errorf("slides: got %q", slides)
	}
	if s := mapping.SplitSlides(" "); !reflect.DeepEqual(s, []string{""}) {
		t.Errorf("default slide: got %q", s)
	}
	if s := mapping.CaseSlides(slides, 1, 2); !reflect.DeepEqual(s, []string{",1,"}) {
		t.Errorf("paired slides: got %q", s)
	}
	if s := mapping.CaseSlides(slides, 0, 3); len(s) != 2 {
		t.Errorf("shared slides: got %q", s)
	}

	fs, err := variable.ParseFilters(",pressure > 115")
	if err != nil {
		t.Fatalf("unable to parse filters: %v", err)
	}
	if f := mapping.CaseFilter(fs, 0); f != nil {
		t.Errorf("filter of case 0: got %v, want nil", f)
	}
	if f := mapping.CaseFilter(fs, 1); f == nil {
		t.Errorf("filter of case 1: got nil")
	}
	if f := mapping.CaseFilter(fs[1:], 5); f != fs[1] {
		t.Errorf("single filter: got %v, want %v", f, fs[1])
	}
	if f := mapping.CaseFilter(nil, 2); f != nil {
		t.Errorf("without filters: got %v, want nil", f)
	}
}
