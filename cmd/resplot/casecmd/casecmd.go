// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package casecmd implements a command to create,
// edit, and print the information
// of a simulation case.
package casecmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/resplot/simcase"
)

var Command = &command.Command{
	Usage: `case [--base <name>] [--set <dataset-list>] <case>`,
	Short: "create or view a simulation case",
	Long: `
Command case prints the information of a simulation case, or creates or edits
a case file (see 'resplot help case-files').

The argument of the command is the name of the case, either the base name of
the simulation files, or a case file.

If no flag is defined, the command prints the files of the case, the
dimensions of the grid, the number of active cells, the number of restarts,
the number of summary vectors, and the wells of the input deck.

If the flag --base is defined, the files that share the given base name will
be searched, and written in the case file. If the flag --set is defined, the
indicated files will be added to the case file, as a list of pairs separated
by spaces, in which each pair is a dataset keyword and a path, separated by a
comma, for example: --set "egrid,out/SPE11B.EGRID unrst,out/SPE11B.UNRST". A
pair with an empty path removes the dataset from the case file. If the case
file does not exist, it will be created. Case files must have the extension
".tab", ".tsv", or ".txt".
	`,
	SetFlags: setFlags,
	Run:      run,
}

var baseFlag string
var setFlag string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&baseFlag, "base", "", "")
	c.Flags().StringVar(&setFlag, "set", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting case")
	}

	if baseFlag == "" && setFlag == "" {
		sc, err := simcase.Open(args[0])
		if err != nil {
			return err
		}
		return printCase(c.Stdout(), sc)
	}

	name := args[0]
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tab", ".tsv", ".txt":
	default:
		return c.UsageError(fmt.Sprintf("invalid case file %q: expecting extension .tab, .tsv, or .txt", name))
	}

	sc, err := openCase(name)
	if err != nil {
		return err
	}
	if baseFlag != "" {
		d, err := simcase.Discover(baseFlag)
		if err != nil {
			return err
		}
		for _, s := range d.Sets() {
			sc.Add(s, d.Path(s))
		}
	}
	if setFlag != "" {
		if err := setPaths(sc, setFlag); err != nil {
			return c.UsageError(fmt.Sprintf("flag --set: %v", err))
		}
	}
	return sc.Write()
}

func openCase(name string) (*simcase.Case, error) {
	sc, err := simcase.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		sc = simcase.New()
		sc.SetName(name)
		return sc, nil
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func setPaths(sc *simcase.Case, s string) error {
	for _, p := range strings.Fields(s) {
		set, path, _ := strings.Cut(p, ",")
		d, err := simcase.ParseDataset(set)
		if err != nil {
			return err
		}
		sc.Add(d, path)
	}
	return nil
}

func printCase(w io.Writer, sc *simcase.Case) error {
	fmt.Fprintf(w, "Case: %s\n", sc.Name())
	for _, s := range sc.Sets() {
		fmt.Fprintf(w, "\t%s: %s\n", s, sc.Path(s))
	}
	fmt.Fprintf(w, "\n")

	g, err := sc.Grid()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Grid:\n")
	fmt.Fprintf(w, "\tdimensions: %d x %d x %d\n", g.NX, g.NY, g.NZ)
	fmt.Fprintf(w, "\tcells: %d\n", g.Len())
	fmt.Fprintf(w, "\tactive cells: %d\n", g.NumActive())
	fmt.Fprintf(w, "\n")

	if sc.Path(simcase.UnRst) != "" {
		times, err := sc.RestartTimes()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Restarts: %d", len(times))
		if len(times) > 0 {
			fmt.Fprintf(w, " [%g-%g d]", times[0], times[len(times)-1])
		}
		fmt.Fprintf(w, "\n\n")
	}

	if sc.Path(simcase.SMSpec) != "" && sc.Path(simcase.UnSmry) != "" {
		s, err := sc.Summary()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Summary:\n")
		fmt.Fprintf(w, "\tvectors: %d\n", len(s.Keys()))
		fmt.Fprintf(w, "\ttime steps: %d\n", s.Len())
		fmt.Fprintf(w, "\n")
	}

	if sc.Path(simcase.Deck) != "" {
		d, err := sc.Deck()
		if err != nil {
			return err
		}
		wells := d.Wells()
		fmt.Fprintf(w, "Wells: %d\n", len(wells))
		for _, wl := range wells {
			fmt.Fprintf(w, "\t%s: %d,%d,%d:%d\n", wl.Name, wl.I+1, wl.J+1, wl.K1+1, wl.K2+1)
		}
	}
	return nil
}
