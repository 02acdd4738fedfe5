// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package csvcmd implements a command to export
// the values of a map as a CSV file.
package csvcmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/js-arias/command"
	"github.com/js-arias/resplot/mapping"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/slide"
	"github.com/js-arias/resplot/variable"
)

var Command = &command.Command{
	Usage: `csv -v|--variables <variable-list> [-s|--slide <slide>]
	[--how <rule>] [-r|--restart <number>]
	[--diff <case>] [--filter <filter>] [--all]
	[-o|--output <file>] <case>`,
	Short: "export the values of a map",
	Long: `
Command csv reads a simulation case, builds the map of one or more variables,
as in 'resplot map', and writes the values of the map as a CSV file.

The argument of the command is the name of the case.

The flag --variables, or -v, is required and defines the variables, separated
by commas. The flags --slide (or -s), --how, --restart (or -r), --diff, and
--filter, have the same meaning as in 'resplot map'.

The output file contains the fields:

	- x  the x coordinate of the center of the map cell
	- y  the y coordinate of the center of the map cell

and a field for each variable. By default, only cells with at least one defined
value are written. Use the flag --all to write all the cells, and undefined
values will be written as "NaN".

By default, the output is printed in the standard output. Use the flag
--output, or -o, to define an output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var allFlag bool
var restart int
var varsFlag string
var slideFlag string
var howFlag string
var diffCase string
var filterFlag string
var output string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&allFlag, "all", false, "")
	c.Flags().IntVar(&restart, "restart", -1, "")
	c.Flags().IntVar(&restart, "r", -1, "")
	c.Flags().StringVar(&varsFlag, "variables", "", "")
	c.Flags().StringVar(&varsFlag, "v", "", "")
	c.Flags().StringVar(&slideFlag, "slide", "", "")
	c.Flags().StringVar(&slideFlag, "s", "", "")
	c.Flags().StringVar(&howFlag, "how", "", "")
	c.Flags().StringVar(&diffCase, "diff", "", "")
	c.Flags().StringVar(&filterFlag, "filter", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) (err error) {
	if len(args) < 1 {
		return c.UsageError("expecting case")
	}
	if varsFlag == "" {
		return c.UsageError("expecting variables, flag --variables")
	}

	var exprs []*variable.Expr
	for _, v := range variable.Split(varsFlag) {
		e, err := variable.Parse(v)
		if err != nil {
			return c.UsageError(fmt.Sprintf("flag --variables: %v", err))
		}
		exprs = append(exprs, e)
	}
	filter, err := variable.ParseFilter(filterFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --filter: %v", err))
	}
	how, err := slide.ParseHow(howFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --how: %v", err))
	}

	sc, err := simcase.Open(args[0])
	if err != nil {
		return err
	}
	var diff *simcase.Case
	if diffCase != "" {
		diff, err = simcase.Open(diffCase)
		if err != nil {
			return err
		}
	}
	g, err := sc.Grid()
	if err != nil {
		return fmt.Errorf("case %q: %v", sc.Name(), err)
	}
	sel, err := slide.Parse(slideFlag, g.NX, g.NY, g.NZ)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --slide: %v", err))
	}

	var maps []*slide.Map
	for _, e := range exprs {
		req := &mapping.Request{
			Case:    sc,
			Diff:    diff,
			Expr:    e,
			Filter:  filter,
			Slide:   sel,
			How:     how,
			Restart: restart,
		}
		res, err := req.Build()
		if err != nil {
			return fmt.Errorf("case %q: %v", sc.Name(), err)
		}
		maps = append(maps, res.Map)
	}

	w := c.Stdout()
	if output != "" {
		var f *os.File
		f, err = os.Create(output)
		if err != nil {
			return err
		}
		defer func() {
			e := f.Close()
			if e != nil && err == nil {
				err = e
			}
		}()
		w = f
	}

	if err := writeMaps(w, exprs, maps); err != nil {
		if output != "" {
			return fmt.Errorf("on file %q: %v", output, err)
		}
		return err
	}
	return nil
}

func writeMaps(w io.Writer, exprs []*variable.Expr, maps []*slide.Map) error {
	out := csv.NewWriter(w)

	header := []string{"x", "y"}
	for _, e := range exprs {
		header = append(header, e.String())
	}
	if err := out.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	m := maps[0]
	for r := 0; r < m.Rows; r++ {
		for col := 0; col < m.Cols; col++ {
			row := make([]string, 0, len(header))
			x, y := m.Center(r, col)
			row = append(row, strconv.FormatFloat(x, 'g', -1, 64), strconv.FormatFloat(y, 'g', -1, 64))
			defined := false
			for _, mp := range maps {
				v := mp.Cell(r, col)
				if !math.IsNaN(v) {
					defined = true
				}
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
			if !defined && !allFlag {
				continue
			}
			if err := out.Write(row); err != nil {
				return err
			}
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
