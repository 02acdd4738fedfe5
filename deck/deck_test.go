// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package deck_test

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/resplot/deck"
)

var deckBlob = `-- a small test deck
RUNSPEC
TITLE
  test case

DIMENS
 3 2 2 /

OIL
WATER

GRID
DX
 12*10 /
DY
 12*5 /
DZ
 6*1 6*2 /
TOPS
 6*100 /  -- only the first layer
PORO
 0.1 0.2 0.3 0.1 0.2 0.3
 4*0.25 2*0.3 /

FAULTS
-- name i1 i2 j1 j2 k1 k2 face
 'F1' 2 2 1 2 1 2 'X' /
/

PROPS
SWOF
-- sw krw krow pcow
 0.1 0.0 1.0 0
 0.5 0.3 1* 0
 1.0 1.0 0.0 0 /
 0.2 0.0 1.0 0
 1.0 1.0 0.0 0 /

SGOF
 0.0 0.0 1.0 0
 0.9 1.0 0.0 0 /

SCHEDULE
WELSPECS
 'INJ' 'G1' 1 1 1* 'WATER' /
 'PROD' 'G1' 3 2 1* 'OIL' /
/
COMPDAT
 'INJ' 2* 1 2 'OPEN' /
 'PROD' 3 2 2 1 'OPEN' /
/
SOURCE
 2 1 2 'GAS' 0.1 /
/
TSTEP
 10*1 /
END
DX
 1 /
`

func TestRead(t *testing.T) {
	d, err := deck.Read(strings.NewReader(deckBlob))
	if err != nil {
		t.Fatalf("unable to read deck: %v", err)
	}

	nx, ny, nz, ok := d.Dims()
	if !ok || nx != 3 || ny != 2 || nz != 2 {
		t.Errorf("dims: got %d,%d,%d (%v), want 3,2,2", nx, ny, nz, ok)
	}

	dz, ok := d.Array("dz")
	if !ok {
		t.Fatalf("array DZ: not found")
	}
	if len(dz) != 12 || dz[0] != 1 || dz[11] != 2 {
		t.Errorf("array DZ: got %v", dz)
	}
	if dx, _ := d.Array("DX"); len(dx) != 12 {
		t.Errorf("array DX: got %d values, want %d (data after END should be ignored)", len(dx), 12)
	}
	if tops, _ := d.Array("TOPS"); len(tops) != 6 {
		t.Errorf("array TOPS: got %d values, want %d", len(tops), 6)
	}
	if _, err := deck.Read(strings.NewReader("PORO\n 3*0.1 1* /\n")); err == nil {
		t.Errorf("defaulted array value: expecting error")
	}

	wantArrays := []string{"DX", "DY", "DZ", "PORO", "TOPS"}
	if !reflect.DeepEqual(d.Arrays(), wantArrays) {
		t.Errorf("arrays: got %v, want %v", d.Arrays(), wantArrays)
	}

	wantWells := []deck.Well{
		{Name: "INJ", I: 0, J: 0, K1: 0, K2: 1},
		{Name: "PROD", I: 2, J: 1, K1: 0, K2: 1},
		{Name: "source-3", I: 1, J: 0, K1: 1, K2: 1},
	}
	if !reflect.DeepEqual(d.Wells(), wantWells) {
		t.Errorf("wells: got %v, want %v", d.Wells(), wantWells)
	}

	wantFaults := []deck.Fault{
		{Name: "F1", I1: 1, I2: 1, J1: 0, J2: 1, K1: 0, K2: 1, Face: "X"},
	}
	if !reflect.DeepEqual(d.Faults(), wantFaults) {
		t.Errorf("faults: got %v, want %v", d.Faults(), wantFaults)
	}

	swof := d.Tables("SWOF")
	if len(swof) != 2 {
		t.Fatalf("SWOF: got %d tables, want %d", len(swof), 2)
	}
	if len(swof[0]) != 12 || len(swof[1]) != 8 {
		t.Errorf("SWOF: got %d and %d values, want 12 and 8", len(swof[0]), len(swof[1]))
	}
	if !math.IsNaN(swof[0][6]) {
		t.Errorf("SWOF: defaulted value: got %g, want NaN", swof[0][6])
	}
	if sgof := d.Tables("sgof"); len(sgof) != 1 {
		t.Errorf("SGOF: got %d tables, want %d", len(sgof), 1)
	}
	if n := deck.Columns("SGWFN"); n != 4 {
		t.Errorf("SGWFN columns: got %d, want %d", n, 4)
	}
}

func TestInclude(t *testing.T) {
	dir := t.TempDir()
	include := "PERMX\n 4*100 /\n"
	if err := os.WriteFile(filepath.Join(dir, "PERM.INC"), []byte(include), 0644); err != nil {
		t.Fatalf("unable to write include file: %v", err)
	}
	main := "DIMENS\n 2 2 1 /\nINCLUDE\n 'PERM.INC' /\nPORO\n 4*0.2 /\n"
	name := filepath.Join(dir, "CASE.DATA")
	if err := os.WriteFile(name, []byte(main), 0644); err != nil {
		t.Fatalf("unable to write deck: %v", err)
	}

	d, err := deck.ReadFile(name)
	if err != nil {
		t.Fatalf("unable to read deck: %v", err)
	}
	perm, ok := d.Array("PERMX")
	if !ok || !reflect.DeepEqual(perm, []float64{100, 100, 100, 100}) {
		t.Errorf("included PERMX: got %v", perm)
	}
	if poro, _ := d.Array("PORO"); len(poro) != 4 {
		t.Errorf("PORO after include: got %v", poro)
	}

	bad := "INCLUDE\n 'MISSING.INC' /\n"
	if err := os.WriteFile(name, []byte(bad), 0644); err != nil {
		t.Fatalf("unable to write deck: %v", err)
	}
	if _, err := deck.ReadFile(name); err == nil {
		t.Errorf("missing include: expecting error")
	}
}

func TestEditKeywords(t *testing.T) {
	blob := `DIMENS
 2 1 1 /
PERMX
 2*50 /
EQUALS
 PERMX 100 1 1 1 1 1 1 /
 PORO 0.3 /
/
MULTIPLY
 PERMX 2 /
/
DZ
 2*5 /
`
	d, err := deck.Read(strings.NewReader(blob))
	if err != nil {
		t.Fatalf("unable to read deck: %v", err)
	}
	if perm, _ := d.Array("PERMX"); !reflect.DeepEqual(perm, []float64{50, 50}) {
		t.Errorf("PERMX: got %v, want %v", perm, []float64{50, 50})
	}
	if _, ok := d.Array("PORO"); ok {
		t.Errorf("PORO: should be undefined")
	}
	if dz, _ := d.Array("DZ"); !reflect.DeepEqual(dz, []float64{5, 5}) {
		t.Errorf("DZ after edit keywords: got %v", dz)
	}
}

func TestTableEnd(t *testing.T) {
	blob := `SWOF
 0.1 0.0 1.0 0
 1.0 1.0 0.0 0 /
/
PORO
 0.2 /
`
	d, err := deck.Read(strings.NewReader(blob))
	if err != nil {
		t.Fatalf("unable to read deck: %v", err)
	}
	if swof := d.Tables("SWOF"); len(swof) != 1 {
		t.Errorf("SWOF: got %d tables, want %d", len(swof), 1)
	}
	if poro, _ := d.Array("PORO"); len(poro) != 1 {
		t.Errorf("PORO after tables: got %v", poro)
	}
}
