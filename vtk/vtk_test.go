// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package vtk_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/js-arias/resplot/grid"
	"github.com/js-arias/resplot/vtk"
)

func newGrid(t testing.TB) *grid.Grid {
	t.Helper()

	g, err := grid.Cartesian(2, 1, 1, []float64{10}, []float64{5}, []float64{2}, []float64{100})
	if err != nil {
		t.Fatalf("unable to build grid: %v", err)
	}
	if err := g.SetPoreVolume([]float64{1, 0}); err != nil {
		t.Fatalf("unable to set pore volume: %v", err)
	}
	return g
}

func TestWriteGrid(t *testing.T) {
	g := newGrid(t)

	var buf bytes.Buffer
	arrays := []vtk.Array{
		{Name: "PRESSURE", Values: []float64{250.5, math.NaN()}},
		{Name: "SATNUM", Values: []float64{3, math.NaN()}},
		{Name: "mpi_rank", Values: []float64{0, 0}},
	}
	if err := vtk.WriteGrid(&buf, g, arrays); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<Piece NumberOfPoints="8" NumberOfCells="1">`,
		`<CellData Scalars="PRESSURE">`,
		`<DataArray type="Float32" Name="pressure" NumberOfComponents="1" format="ascii">` + "\n250.5 \n",
		`<DataArray type="UInt16" Name="satnum" NumberOfComponents="1" format="ascii">` + "\n3 \n",
		`<DataArray type="UInt16" Name="mpi_rank" NumberOfComponents="1" format="ascii">` + "\n1 \n",
		"0 1 2 3 4 5 6 7 \n",
		"\n8 \n",
		"\n12 \n",
		// first point: bottom face corner at the origin
		"0.000000e+00 0.000000e+00 -1.020000e+02 ",
		// fifth point: top face corner at the origin
		"0.000000e+00 0.000000e+00 -1.000000e+02 ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output: expecting %q", want)
		}
	}

	bad := []vtk.Array{{Name: "poro", Values: []float64{1}}}
	if err := vtk.WriteGrid(&buf, g, bad); err == nil {
		t.Errorf("array with wrong length: expecting error")
	}
}

func TestWritePVD(t *testing.T) {
	var buf bytes.Buffer
	entries := []vtk.Entry{
		{Time: 0, File: vtk.RestartFile("SPE11B", 0)},
		{Time: 365, File: vtk.RestartFile("SPE11B", 1)},
	}
	if err := vtk.WritePVD(&buf, entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<VTKFile type="Collection"`,
		`<DataSet timestep="0" group="" part="0" file="SPE11B-0000.vtu"/>`,
		`<DataSet timestep="365" group="" part="0" file="SPE11B-0001.vtu"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output: expecting %q", want)
		}
	}

	if n := vtk.GridFile("SPE11B"); n != "SPE11B-GRID.vtu" {
		t.Errorf("grid file: got %q", n)
	}
	if n := vtk.CollectionFile("SPE11B"); n != "SPE11B.pvd" {
		t.Errorf("collection file: got %q", n)
	}
	if !vtk.IsInteger("FIPNUM") || vtk.IsInteger("poro") {
		t.Errorf("integer arrays: got %v and %v, want true and false", vtk.IsInteger("FIPNUM"), vtk.IsInteger("poro"))
	}
}
