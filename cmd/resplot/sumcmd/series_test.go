// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sumcmd

import (
	"errors"
	"reflect"
	"testing"

	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/slide"
	"github.com/js-arias/resplot/summary"
	"github.com/js-arias/resplot/variable"
)

func TestConvertTime(t *testing.T) {
	days := []float64{0, 7, 14}
	tests := map[string][]float64{
		"d": {0, 7, 14},
		"w": {0, 1, 2},
		"h": {0, 168, 336},
	}
	for u, want := range tests {
		got, err := convertTime(days, u)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", u, err)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %v, want %v", u, got, want)
		}
	}
	if _, err := convertTime(days, "m"); err == nil {
		t.Errorf("unknown units: expecting error")
	}
}

func TestEvalSummary(t *testing.T) {
	s, err := summary.New(map[string][]float64{
		"TIME":      {0, 10, 20},
		"FGIP":      {10, 20, 30},
		"FGIPL":     {10, 0, 10},
		"WBHP:INJ0": {200, 210, 220},
	}, map[string]string{
		"TIME": "DAYS",
		"FGIP": "SM3",
	})
	if err != nil {
		t.Fatalf("unable to build summary: %v", err)
	}

	tests := map[string][]float64{
		"fgip":              {10, 20, 30},
		"fgip/(fgip+fgipl)": {0.5, 1, 0.75},
		"wbhp:INJ0 - 200":   {0, 10, 20},
	}
	for src, want := range tests {
		e, err := variable.Parse(src)
		if err != nil {
			t.Fatalf("%s: unable to parse: %v", src, err)
		}
		got, err := evalSummary(s, e)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", src, err)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %v, want %v", src, got, want)
		}
	}

	e, _ := variable.Parse("fgip")
	if u := units(s, e); u != "[sm3]" {
		t.Errorf("units: got %q, want %q", u, "[sm3]")
	}

	e, _ = variable.Parse("fopr")
	if _, err := evalSummary(s, e); !errors.Is(err, summary.ErrNoVector) {
		t.Errorf("missing vector: got error %v, want %v", err, summary.ErrNoVector)
	}
	e, _ = variable.Parse("0fgip")
	if _, err := evalSummary(s, e); err == nil {
		t.Errorf("tagged vector: expecting error")
	}
}

func TestParseSensors(t *testing.T) {
	sensors, err := parseSensors("1,1,1 2:3,1,4", 3, 1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sensors) != 2 {
		t.Fatalf("sensors: got %d, want 2", len(sensors))
	}
	if n := sensors[1].Name(); n != "2:3,1,4" {
		t.Errorf("sensor name: got %q, want %q", n, "2:3,1,4")
	}
	if _, err := parseSensors(",1,", 3, 1, 4); !errors.Is(err, slide.ErrSlide) {
		t.Errorf("map slide: got error %v, want %v", err, slide.ErrSlide)
	}
}

func TestPlots(t *testing.T) {
	var cases []simCase
	for _, n := range []string{"A", "B", "C"} {
		sc := simcase.New()
		sc.SetName(n)
		cases = append(cases, simCase{c: sc, label: n})
	}
	parse := func(vs ...string) []*variable.Expr {
		var exprs []*variable.Expr
		for _, v := range vs {
			e, err := variable.Parse(v)
			if err != nil {
				t.Fatalf("%s: unable to parse: %v", v, err)
			}
			exprs = append(exprs, e)
		}
		return exprs
	}
	labels := func(pls [][]line) [][]string {
		var ls [][]string
		for _, p := range pls {
			var l []string
			for _, ln := range p {
				l = append(l, ln.label)
			}
			ls = append(ls, l)
		}
		return ls
	}

	pls := plots(cases, parse("fgip", "fgip * 2", "fgip / 2"), nil)
	want := [][]string{{"A fgip", "B fgip * 2", "C fgip / 2"}}
	if got := labels(pls); !reflect.DeepEqual(got, want) {
		t.Errorf("paired variables: got %q, want %q", got, want)
	}

	pls = plots(cases, parse("fgip", "fopr"), nil)
	want = [][]string{{"A", "B", "C"}, {"A", "B", "C"}}
	if got := labels(pls); !reflect.DeepEqual(got, want) {
		t.Errorf("variables: got %q, want %q", got, want)
	}

	pls = plots(cases, parse("pressure"), []string{"1,1,1", "2,1,1", "3,1,1"})
	want = [][]string{{"A", "B", "C"}}
	if got := labels(pls); !reflect.DeepEqual(got, want) {
		t.Errorf("paired sensors: got %q, want %q", got, want)
	}
	if s := pls[0][2].sensor; s != "3,1,1" {
		t.Errorf("paired sensors: case C: got %q, want %q", s, "3,1,1")
	}

	pls = plots(cases[:1], parse("pressure"), []string{"1,1,1", "2,1,1"})
	want = [][]string{{"A (1,1,1)", "A (2,1,1)"}}
	if got := labels(pls); !reflect.DeepEqual(got, want) {
		t.Errorf("sensors: got %q, want %q", got, want)
	}
}
