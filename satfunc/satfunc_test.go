// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package satfunc_test

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/resplot/deck"
	"github.com/js-arias/resplot/satfunc"
)

var tablesBlob = `
SWOF
 0.1 0.0 1.0 0
 0.5 0.3 1* 0
 1.0 1.0 0.0 0 /
 0.2 0.0 1.0 0
 1.0 1.0 0.0 0 /

SGOF
 0.0 0.0 1.0 0
 0.9 1.0 0.0 0.5 /
`

func TestCurve(t *testing.T) {
	d, err := deck.Read(strings.NewReader(tablesBlob))
	if err != nil {
		t.Fatalf("unable to read deck: %v", err)
	}
	tbls := satfunc.New(d)

	want := []string{"krw", "krow", "pcow", "krg", "krog", "pcog"}
	if q := tbls.Quantities(); !reflect.DeepEqual(q, want) {
		t.Errorf("quantities: got %v, want %v", q, want)
	}

	c, err := tbls.Curve("KRW2")
	if err != nil {
		t.Fatalf("krw2: %v", err)
	}
	if c.Name != "krw2" || !reflect.DeepEqual(c.Sat, []float64{0.2, 1}) || !reflect.DeepEqual(c.Val, []float64{0, 1}) {
		t.Errorf("krw2: got %+v", c)
	}

	c, err = tbls.Curve("krow")
	if err != nil {
		t.Fatalf("krow: %v", err)
	}
	if c.Name != "krow1" {
		t.Errorf("krow: name: got %q, want %q", c.Name, "krow1")
	}
	if v := c.Val[1]; math.Abs(v-(1-0.4/0.9)) > 1e-12 {
		t.Errorf("krow1: defaulted value: got %g, want %g", v, 1-0.4/0.9)
	}

	c, err = tbls.Curve("pcog1")
	if err != nil {
		t.Fatalf("pcog1: %v", err)
	}
	if !reflect.DeepEqual(c.Val, []float64{0, 0.5}) {
		t.Errorf("pcog1: got %v, want %v", c.Val, []float64{0, 0.5})
	}
	if l := satfunc.SatLabel("pcog1"); l != "S_g" {
		t.Errorf("pcog1: saturation label: got %q, want %q", l, "S_g")
	}

	for _, name := range []string{"krw3", "pcwg1", "foo1", "krw0"} {
		if _, err := tbls.Curve(name); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func TestKeywordEnd(t *testing.T) {
	blob := "SWOF\n 0.1 0.0 1.0 0\n 1.0 1.0 0.0 0 /\n/\n"
	d, err := deck.Read(strings.NewReader(blob))
	if err != nil {
		t.Fatalf("unable to read deck: %v", err)
	}
	tbls := satfunc.New(d)
	if _, err := tbls.Curve("krw1"); err != nil {
		t.Errorf("krw1: %v", err)
	}
	if _, err := tbls.Curve("krw2"); err == nil {
		t.Errorf("krw2: expecting error")
	}
}
