// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package vtk writes grids and cell fields
// as VTK XML files.
package vtk

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/js-arias/resplot/grid"
)

// Hexahedron is the VTK cell type
// of a grid cell.
const Hexahedron = 12

// hexOrder is the order of the grid corners
// of a VTK hexahedron:
// the bottom face first.
var hexOrder = [8]int{4, 5, 7, 6, 0, 1, 3, 2}

// An Array is a field
// with a value for each grid cell.
type Array struct {
	Name   string
	Values []float64
}

var integerArrays = map[string]int{
	"mpi_rank": 1,
	"satnum":   0,
	"fipnum":   0,
	"pvtnum":   0,
}

// IsInteger returns true if an array
// is stored as unsigned integers.
func IsInteger(name string) bool {
	_, ok := integerArrays[strings.ToLower(name)]
	return ok
}

// WriteGrid writes the active cells of a grid
// and its cell arrays
// as a VTK unstructured grid.
func WriteGrid(w io.Writer, g *grid.Grid, arrays []Array) error {
	for _, a := range arrays {
		if len(a.Values) != g.Len() {
			return fmt.Errorf("array %q: got %d values, want %d", a.Name, len(a.Values), g.Len())
		}
	}

	cells := make([]int, 0, g.NumActive())
	for idx := 0; idx < g.Len(); idx++ {
		if g.Active(idx) {
			cells = append(cells, idx)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(bw, "<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	fmt.Fprintf(bw, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", 8*len(cells), len(cells))

	// coordinates
	fmt.Fprintf(bw, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, idx := range cells {
		i, j, k := g.IJK(idx)
		corners := g.Corners(i, j, k)
		for _, p := range hexOrder {
			c := corners[p]
			fmt.Fprintf(bw, "%.6e %.6e %.6e ", c.X, c.Y, -c.Z)
		}
		fmt.Fprintf(bw, "\n")
	}
	fmt.Fprintf(bw, "</DataArray>\n</Points>\n")

	// connectivities
	fmt.Fprintf(bw, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for c := range cells {
		for p := 0; p < 8; p++ {
			fmt.Fprintf(bw, "%d ", 8*c+p)
		}
	}
	fmt.Fprintf(bw, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	for c := range cells {
		fmt.Fprintf(bw, "%d ", 8*(c+1))
	}
	fmt.Fprintf(bw, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for range cells {
		fmt.Fprintf(bw, "%d ", Hexahedron)
	}
	fmt.Fprintf(bw, "\n</DataArray>\n</Cells>\n")

	if len(arrays) > 0 {
		fmt.Fprintf(bw, "<CellData Scalars=\"%s\">\n", attr(arrays[0].Name))
		for _, a := range arrays {
			writeArray(bw, a, cells)
		}
		fmt.Fprintf(bw, "</CellData>\n")
	}

	fmt.Fprintf(bw, "</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	return bw.Flush()
}

func writeArray(bw *bufio.Writer, a Array, cells []int) {
	name := strings.ToLower(a.Name)
	inc, isInt := integerArrays[name]
	tp := "Float32"
	if isInt {
		tp = "UInt16"
	}
	fmt.Fprintf(bw, "<DataArray type=\"%s\" Name=\"%s\" NumberOfComponents=\"1\" format=\"ascii\">\n", tp, attr(name))
	for _, idx := range cells {
		v := a.Values[idx]
		if isInt {
			n := 0
			if !math.IsNaN(v) {
				n = int(math.Round(v)) + inc
			}
			if n < 0 {
				n = 0
			}
			fmt.Fprintf(bw, "%d ", n)
			continue
		}
		fmt.Fprintf(bw, "%g ", float32(v))
	}
	fmt.Fprintf(bw, "\n</DataArray>\n")
}

func attr(s string) string {
	return html.EscapeString(s)
}

// An Entry is a file
// of a time collection.
type Entry struct {
	Time float64
	File string
}

// WritePVD writes a collection of files
// ordered by time.
func WritePVD(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(bw, "<VTKFile type=\"Collection\" version=\"0.1\" byte_order=\"LittleEndian\">\n<Collection>\n")
	for _, e := range entries {
		fmt.Fprintf(bw, "<DataSet timestep=\"%g\" group=\"\" part=\"0\" file=\"%s\"/>\n", e.Time, attr(e.File))
	}
	fmt.Fprintf(bw, "</Collection>\n</VTKFile>\n")
	return bw.Flush()
}

// GridFile returns the name of the file
// with the grid of a case.
func GridFile(name string) string {
	return name + "-GRID.vtu"
}

// RestartFile returns the name of the file
// of a restart.
func RestartFile(name string, rst int) string {
	return fmt.Sprintf("%s-%04d.vtu", name, rst)
}

// CollectionFile returns the name of the file
// with the time collection of a case.
func CollectionFile(name string) string {
	return name + ".pvd"
}
