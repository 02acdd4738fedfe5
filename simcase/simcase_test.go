// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package simcase_test

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/resplot/ecl"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/variable"
)

type setPath struct {
	set  simcase.Dataset
	path string
}

func TestCaseFile(t *testing.T) {
	c := simcase.New()

	sets := []setPath{
		{simcase.EGrid, "out/SPE11B.EGRID"},
		{simcase.Init, "out/SPE11B.INIT"},
		{simcase.UnRst, "out/SPE11B.UNRST"},
		{simcase.SMSpec, "out/SPE11B.SMSPEC"},
		{simcase.UnSmry, "out/SPE11B.UNSMRY"},
		{simcase.Deck, "SPE11B.DATA"},
	}

	for _, s := range sets {
		c.Add(s.set, s.path)
	}
	testCase(t, c, sets)

	name := "tmp-case-for-test.tab"
	defer os.Remove(name)

	c.SetName(name)
	if err := c.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	nc, err := simcase.Open(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testCase(t, nc, sets)
	if n := nc.Name(); n != "tmp-case-for-test" {
		t.Errorf("name: got %q, want %q", n, "tmp-case-for-test")
	}
}

func testCase(t testing.TB, c *simcase.Case, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := c.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]simcase.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := c.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}

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

// newCase writes a 2x2x1 case
// in which the second cell is inactive.
func newCase(t testing.TB) string {
	t.Helper()

	dir := t.TempDir()
	base := filepath.Join(dir, "CASE")
	if err := os.WriteFile(base+".DATA", []byte(deckBlob), 0644); err != nil {
		t.Fatalf("unable to write deck: %v", err)
	}

	ini := ecl.New()
	ini.Add(ecl.NewReals("PORV", []float32{25, 0, 25, 25}))
	ini.Add(ecl.NewReals("PERMX", []float32{100, 200, 300}))
	if err := ecl.WriteFile(base+".INIT", ini); err != nil {
		t.Fatalf("unable to write INIT: %v", err)
	}

	rst := ecl.New()
	for r, p := range [][]float32{{100, 100, 100}, {110, 120, 130}} {
		rst.Add(ecl.NewInts("SEQNUM", []int32{int32(r)}))
		rst.Add(ecl.NewDoubles("DOUBHEAD", []float64{float64(r) * 365, 0}))
		rst.Add(ecl.NewReals("PRESSURE", p))
	}
	if err := ecl.WriteFile(base+".FUNRST", rst); err != nil {
		t.Fatalf("unable to write UNRST: %v", err)
	}
	return base
}

func TestFields(t *testing.T) {
	base := newCase(t)
	c, err := simcase.Open(base + ".DATA")
	if err != nil {
		t.Fatalf("unable to open case: %v", err)
	}
	if n := c.Name(); n != "CASE" {
		t.Errorf("name: got %q, want %q", n, "CASE")
	}
	if c.Path(simcase.EGrid) != "" || c.Path(simcase.UnRst) != base+".FUNRST" {
		t.Errorf("paths: got %v", c.Sets())
	}

	g, err := c.Grid()
	if err != nil {
		t.Fatalf("unable to build grid: %v", err)
	}
	if g.NumActive() != 3 {
		t.Errorf("active cells: got %d, want %d", g.NumActive(), 3)
	}

	if n := c.Restarts(); n != 2 {
		t.Errorf("restarts: got %d, want %d", n, 2)
	}
	times, err := c.RestartTimes()
	if err != nil {
		t.Fatalf("restart times: %v", err)
	}
	if !reflect.DeepEqual(times, []float64{0, 365}) {
		t.Errorf("restart times: got %v, want %v", times, []float64{0, 365})
	}
	if r, err := c.ResolveRestart(-1); err != nil || r != 1 {
		t.Errorf("last restart: got %d (%v), want 1", r, err)
	}
	if _, err := c.ResolveRestart(2); err == nil {
		t.Errorf("restart out of range: expecting error")
	}
	if !c.IsDynamic("pressure") || c.IsDynamic("permx") {
		t.Errorf("dynamic: got %v and %v, want true and false", c.IsDynamic("pressure"), c.IsDynamic("permx"))
	}

	nan := math.NaN()
	tests := map[string]struct {
		rst  int
		want []float64
	}{
		"pressure": {rst: -1, want: []float64{110, nan, 120, 130}},
		"PRESSURE": {rst: 0, want: []float64{100, nan, 100, 100}},
		"porv":     {rst: 0, want: []float64{25, nan, 25, 25}},
		"permx":    {rst: 1, want: []float64{100, nan, 200, 300}},
		"depth":    {rst: 0, want: []float64{100.5, nan, 100.5, 100.5}},
		"dx":       {rst: 0, want: []float64{10, nan, 10, 10}},
		"poro":     {rst: 0, want: []float64{0.25, nan, 0.25, 0.25}},
	}
	for name, test := range tests {
		v, err := c.Field(name, test.rst)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		testValues(t, name, v, test.want)
	}
	if _, err := c.Field("swat", 0); err == nil {
		t.Errorf("unknown field: expecting error")
	}

	e, err := variable.Parse("pressure - 0pressure")
	if err != nil {
		t.Fatalf("unable to parse expression: %v", err)
	}
	v, err := c.Evaluate(e, 1)
	if err != nil {
		t.Fatalf("unable to evaluate: %v", err)
	}
	testValues(t, e.String(), v, []float64{10, nan, 20, 30})

	f, err := variable.ParseFilter("pressure > 115")
	if err != nil {
		t.Fatalf("unable to parse filter: %v", err)
	}
	v, err = c.Filter(f, v, -1)
	if err != nil {
		t.Fatalf("unable to filter: %v", err)
	}
	testValues(t, "filter", v, []float64{nan, nan, 20, 30})

	wv, wells, err := c.Wells()
	if err != nil {
		t.Fatalf("wells: %v", err)
	}
	if len(wells) != 1 || wells[0].Name != "PROD" {
		t.Errorf("wells: got %v", wells)
	}
	testValues(t, "wells", wv, []float64{simcase.NoWell, nan, simcase.NoWell, 0})
}

func testValues(t testing.TB, name string, got, want []float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Errorf("%s: got %d values, want %d", name, len(got), len(want))
		return
	}
	for i, w := range want {
		if math.IsNaN(w) {
			if !math.IsNaN(got[i]) {
				t.Errorf("%s: value %d: got %g, want NaN", name, i, got[i])
			}
			continue
		}
		if math.Abs(got[i]-w) > 1e-6 {
			t.Errorf("%s: value %d: got %g, want %g", name, i, got[i], w)
		}
	}
}

func TestParseDataset(t *testing.T) {
	if s, err := simcase.ParseDataset(" UNRST "); err != nil || s != simcase.UnRst {
		t.Errorf("dataset: got %q (%v), want %q", s, err, simcase.UnRst)
	}
	if _, err := simcase.ParseDataset("rft"); err == nil {
		t.Errorf("unknown dataset: expecting error")
	}
}

func TestParseRestarts(t *testing.T) {
	tests := map[string][]int{
		"":      {0, 1, 2, 3, 4, 5},
		"3":     {3},
		"1,3":   {1, 2, 3},
		"0,2,5": {0, 2, 5},
		" 4 ,5": {4, 5},
	}
	for s, want := range tests {
		got, err := simcase.ParseRestarts(s, 6)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", s, err)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%q: got %v, want %v", s, got, want)
		}
	}

	for _, s := range []string{"6", "3,1", "0,2,2", "-1", "a", "1,,2"} {
		if _, err := simcase.ParseRestarts(s, 6); err == nil {
			t.Errorf("%q: expecting error", s)
		}
	}
	if _, err := simcase.ParseRestarts("", 0); err == nil {
		t.Errorf("case without restarts: expecting error")
	}
}
