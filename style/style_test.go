// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package style_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/resplot/style"
)

func TestLookup(t *testing.T) {
	tests := map[string]style.Props{
		"depth":    {Units: "[m]", ColorMap: "jet", Format: "%.2e"},
		"DZ":       {Units: "[m]", ColorMap: "jet", Format: "%.2e"},
		"porv":     {Units: "[m^3]", ColorMap: "terrain", Format: "%.2e"},
		"permz":    {Units: "[mD]", ColorMap: "turbo", Format: "%.0f"},
		"satnum":   {Units: "[-]", ColorMap: "tab20b", Format: "%.0f"},
		"fipnum":   {Units: "[-]", ColorMap: "tab20b", Format: "%.0f"},
		"poro":     {Units: "[-]", ColorMap: "gnuplot", Format: "%.1f"},
		"pressure": {Units: "[-]", ColorMap: "gnuplot", Format: "%.2f"},
	}
	for name, want := range tests {
		if p := style.Lookup(name); p != want {
			t.Errorf("%s: got %+v, want %+v", name, p, want)
		}
	}
}

var styleBlob = `font-size: 14
width: 10
scale: false
xlim: [0, 100]
variables:
  Pressure:
    units: "[bar]"
    colormap: viridis
  permx:
    log: true
`

func TestReadYAML(t *testing.T) {
	o := style.Default()
	if err := o.ReadYAML(strings.NewReader(styleBlob)); err != nil {
		t.Fatalf("unable to read style: %v", err)
	}

	if o.FontSize != 14 || o.Width != 10 || o.Height != 6 || o.Scale {
		t.Errorf("options: got %+v", o)
	}
	if !reflect.DeepEqual(o.XLim, []float64{0, 100}) {
		t.Errorf("xlim: got %v, want %v", o.XLim, []float64{0, 100})
	}
	if o.YLim != nil {
		t.Errorf("ylim: got %v, want nil", o.YLim)
	}

	want := style.Props{Units: "[bar]", ColorMap: "viridis", Format: "%.2f"}
	if p := o.Props("pressure"); p != want {
		t.Errorf("pressure: got %+v, want %+v", p, want)
	}
	want = style.Props{Units: "[mD]", ColorMap: "turbo", Format: "%.0f", Log: true}
	if p := o.Props("PERMX"); p != want {
		t.Errorf("permx: got %+v, want %+v", p, want)
	}

	for _, bad := range []string{
		"width: -1\n",
		"xlim: [1, 2, 3]\n",
		"colour: red\n",
	} {
		o := style.Default()
		if err := o.ReadYAML(strings.NewReader(bad)); err == nil {
			t.Errorf("%q: expecting error", bad)
		}
	}

	o = style.Default()
	if err := o.ReadYAML(strings.NewReader("")); err != nil {
		t.Errorf("empty file: unexpected error: %v", err)
	}
}

func TestParseLim(t *testing.T) {
	lim, err := style.ParseLim("0, 2.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(lim, []float64{0, 2.5}) {
		t.Errorf("limit: got %v, want %v", lim, []float64{0, 2.5})
	}
	if lim, err := style.ParseLim(""); err != nil || lim != nil {
		t.Errorf("empty limit: got %v (%v), want nil", lim, err)
	}
	for _, bad := range []string{"1", "1,a", "2,2"} {
		if _, err := style.ParseLim(bad); err == nil {
			t.Errorf("%q: expecting error", bad)
		}
	}
}

func TestSplitLabels(t *testing.T) {
	tests := map[string][]string{
		"":                                  nil,
		"a b c":                             {"a", "b", "c"},
		"Left corner  Middle  Right corner": {"Left corner", "Middle", "Right corner"},
		"  fipnum >= 2   satnum == 5 ":      {"fipnum >= 2", "satnum == 5"},
	}
	for s, want := range tests {
		if got := style.SplitLabels(s); !reflect.DeepEqual(got, want) {
			t.Errorf("%q: got %q, want %q", s, got, want)
		}
	}
}
