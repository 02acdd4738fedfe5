// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package vtkcmd implements a command to export
// the fields of a simulation case as VTK files.
package vtkcmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/variable"
	"github.com/js-arias/resplot/vtk"
)

var Command = &command.Command{
	Usage: `vtk [-v|--variables <variable-list>] [-r|--restart <restart-list>]
	[-o|--output <dir>] [--quiet] <case>`,
	Short: "export fields as VTK files",
	Long: `
Command vtk reads a simulation case and writes the active cells of the grid,
and the indicated fields, as VTK unstructured grid files, that can be read
with ParaView.

The argument of the command is the name of the case.

The static fields are written in the file "<case>-GRID.vtu". The dynamic
fields of each restart are written in the file "<case>-<restart>.vtu", and
the file "<case>.pvd" defines the time collection of the restarts.

By default, the fields "porv", "permx", "permz", "poro", "fipnum", "satnum",
"pressure", "sgas", and "swat" are written, and fields not found in the case
are ignored. Use the flag --variables, or -v, to define a different set of
fields, separated by commas. Any field can be an expression (see
'resplot help variables'), and it will be written as a dynamic field if it
uses a dynamic field.

By default, all the restarts are written. Use the flag --restart, or -r, to
define the restarts to write: a single value is a single restart, two values
separated by a comma are the first and the last restart, for example "-r 0,5",
and three or more values are the list of restarts, for example "-r 0,2,5".

By default, the files will be written in the current directory. Use the flag
--output, or -o, to define a different directory. The flag --quiet suppress
the warnings.
	`,
	SetFlags: setFlags,
	Run:      run,
}

const defaultVariables = "porv,permx,permz,poro,fipnum,satnum,pressure,sgas,swat"

var quietFlag bool
var varsFlag string
var rstFlag string
var outDir string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&quietFlag, "quiet", false, "")
	c.Flags().StringVar(&varsFlag, "variables", defaultVariables, "")
	c.Flags().StringVar(&varsFlag, "v", defaultVariables, "")
	c.Flags().StringVar(&rstFlag, "restart", "", "")
	c.Flags().StringVar(&rstFlag, "r", "", "")
	c.Flags().StringVar(&outDir, "output", ".", "")
	c.Flags().StringVar(&outDir, "o", ".", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting case")
	}

	var exprs []*variable.Expr
	for _, v := range variable.Split(varsFlag) {
		e, err := variable.Parse(v)
		if err != nil {
			return c.UsageError(fmt.Sprintf("flag --variables: %v", err))
		}
		exprs = append(exprs, e)
	}
	skip := varsFlag == defaultVariables

	sc, err := simcase.Open(args[0])
	if err != nil {
		return err
	}
	g, err := sc.Grid()
	if err != nil {
		return fmt.Errorf("case %q: %v", sc.Name(), err)
	}

	var static, dynamic []*variable.Expr
	for _, e := range exprs {
		if isDynamic(sc, e) {
			dynamic = append(dynamic, e)
			continue
		}
		static = append(static, e)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	base := strings.ToUpper(sc.Name())

	arrays, err := evaluate(c, sc, static, 0, skip, true)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, vtk.GridFile(base)), func(w io.Writer) error {
		return vtk.WriteGrid(w, g, arrays)
	}); err != nil {
		return err
	}

	if len(dynamic) == 0 || sc.Restarts() == 0 {
		return nil
	}
	restarts, err := simcase.ParseRestarts(rstFlag, sc.Restarts())
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --restart: %v", err))
	}
	times, err := sc.RestartTimes()
	if err != nil {
		return err
	}

	var entries []vtk.Entry
	for i, r := range restarts {
		arrays, err := evaluate(c, sc, dynamic, r, skip, i == 0)
		if err != nil {
			return err
		}
		if len(arrays) == 0 {
			break
		}
		name := vtk.RestartFile(base, r)
		if err := writeFile(filepath.Join(outDir, name), func(w io.Writer) error {
			return vtk.WriteGrid(w, g, arrays)
		}); err != nil {
			return err
		}
		entries = append(entries, vtk.Entry{Time: times[r], File: name})
	}
	if len(entries) == 0 {
		return nil
	}

	return writeFile(filepath.Join(outDir, vtk.CollectionFile(base)), func(w io.Writer) error {
		return vtk.WritePVD(w, entries)
	})
}

func isDynamic(sc *simcase.Case, e *variable.Expr) bool {
	for _, r := range e.Names() {
		if r.Tagged || sc.IsDynamic(r.Name) {
			return true
		}
	}
	return false
}

// evaluate returns the arrays of a set of fields
// at a restart.
// If skip is true,
// unknown fields are ignored,
// and reported if warn is true.
func evaluate(c *command.Command, sc *simcase.Case, exprs []*variable.Expr, rst int, skip, warn bool) ([]vtk.Array, error) {
	var arrays []vtk.Array
	for _, e := range exprs {
		v, err := sc.Evaluate(e, rst)
		if err != nil {
			if skip {
				if warn && !quietFlag {
					fmt.Fprintf(c.Stderr(), "WARNING: case %q: %v\n", sc.Name(), err)
				}
				continue
			}
			return nil, fmt.Errorf("case %q: %v", sc.Name(), err)
		}
		arrays = append(arrays, vtk.Array{
			Name:   e.Name(),
			Values: v,
		})
	}
	return arrays, nil
}

func writeFile(name string, fn func(w io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := fn(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
