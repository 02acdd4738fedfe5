// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package casetest writes small simulation cases
// for the tests of the commands.
package casetest

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/js-arias/resplot/ecl"
)

// Restarts is the number of restarts
// of a test case.
const Restarts = 6

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
PROPS
SWOF
 0.1 0.0 1.0 0
 0.5 0.3 0.4 0
 1.0 1.0 0.0 0 /
SCHEDULE
COMPDAT
 'PROD' 2 2 1 1 'OPEN' /
 'INJ' 1 1 1 1 'OPEN' /
/
`

// Write writes a 2x2x1 case
// with the name "CASE",
// in which the second cell is inactive,
// and returns the base name of the case files.
//
// The case has an input deck,
// an INIT file with PORV and FIPNUM,
// a restart file with PRESSURE at each restart,
// and a summary with TIME, FOPR, and WBHP of the producer.
func Write(t testing.TB) string {
	t.Helper()
	return WriteIn(t, t.TempDir(), "CASE")
}

// WriteIn writes a test case
// in a directory, with a given name.
func WriteIn(t testing.TB, dir, name string) string {
	t.Helper()

	base := filepath.Join(dir, name)
	if err := os.WriteFile(base+".DATA", []byte(deckBlob), 0644); err != nil {
		t.Fatalf("unable to write deck: %v", err)
	}

	ini := ecl.New()
	ini.Add(ecl.NewReals("PORV", []float32{25, 0, 25, 25}))
	ini.Add(ecl.NewInts("FIPNUM", []int32{1, 2, 2}))
	if err := ecl.WriteFile(base+".INIT", ini); err != nil {
		t.Fatalf("unable to write INIT: %v", err)
	}

	rst := ecl.New()
	for r := 0; r < Restarts; r++ {
		p := float32(100 + 10*r)
		rst.Add(ecl.NewInts("SEQNUM", []int32{int32(r)}))
		rst.Add(ecl.NewDoubles("DOUBHEAD", []float64{float64(r) * 365, 0}))
		rst.Add(ecl.NewReals("PRESSURE", []float32{p, p + 5, p + 10}))
	}
	if err := ecl.WriteFile(base+".UNRST", rst); err != nil {
		t.Fatalf("unable to write UNRST: %v", err)
	}

	spec := ecl.New()
	spec.Add(ecl.NewInts("DIMENS", []int32{3, 2, 2, 1, 0, 0}))
	spec.Add(ecl.NewStrings("KEYWORDS", []string{"TIME", "FOPR", "WBHP"}))
	spec.Add(ecl.NewStrings("WGNAMES", []string{":+:+:+:+", ":+:+:+:+", "PROD"}))
	spec.Add(ecl.NewInts("NUMS", []int32{0, 0, 0}))
	spec.Add(ecl.NewStrings("UNITS", []string{"DAYS", "SM3/DAY", "BARSA"}))
	if err := ecl.WriteFile(base+".SMSPEC", spec); err != nil {
		t.Fatalf("unable to write SMSPEC: %v", err)
	}

	data := ecl.New()
	for step := 0; step < Restarts; step++ {
		s := float32(step)
		data.Add(ecl.NewInts("SEQHDR", []int32{int32(step)}))
		data.Add(ecl.NewInts("MINISTEP", []int32{int32(step)}))
		data.Add(ecl.NewReals("PARAMS", []float32{s * 365, 100 + s, 200 - s}))
	}
	if err := ecl.WriteFile(base+".UNSMRY", data); err != nil {
		t.Fatalf("unable to write UNSMRY: %v", err)
	}
	return base
}

// Exists reports an error
// for each file that is not found
// in a directory.
func Exists(t testing.TB, dir string, names ...string) {
	t.Helper()

	for _, n := range names {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Errorf("file %q: %v", n, err)
		}
	}
}

// Files returns the sorted names
// of the files in a directory.
func Files(t testing.TB, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unable to read %q: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names
}
