// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package satcmd implements a command to draw
// the saturation functions of an input deck.
package satcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/resplot/render"
	"github.com/js-arias/resplot/satfunc"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/style"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

var Command = &command.Command{
	Usage: `satfunc [-v|--variables <function-list>] [--list]
	[--labels <label-list>] [--ylog] [--style <style-file>]
	[-o|--output <dir>] [--save <name>] <case>...`,
	Short: "draw saturation functions",
	Long: `
Command satfunc reads the input deck of one or more simulation cases and draws
the indicated saturation functions, on a single plot.

The arguments of the command are the names of the cases.

The flag --variables, or -v, defines the functions, separated by commas. A
function is the name of a quantity, optionally followed by the number of the
table (starting at 1), for example "krw", "krg2", or "pcow3". Valid
quantities are:

	- krw   water relative permeability
	- krow  oil relative permeability in water
	- pcow  oil-water capillary pressure
	- krg   gas relative permeability
	- krog  oil relative permeability in gas
	- pcog  oil-gas capillary pressure
	- pcwg  gas-water capillary pressure

By default, the function "krw" is drawn. If the flag --list is defined, the
quantities defined in the deck of each case will be printed, and no plot will
be drawn.

By default, the curves are labeled with the case name and the function. Use
the flag --labels to define the labels of each case, separated by spaces (or
by two spaces, if a label has spaces, for example "base case  new case"). The
flag --ylog sets a logarithmic scale for the values. The flag --style defines
a style file.

By default, the plot will be saved in the current directory as
"<case>_<function>.png", using the first case and function. Use the flag
--output, or -o, to set a different directory, and the flag --save to set a
different name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var listFlag bool
var yLog bool
var varsFlag string
var labelsFlag string
var styleFile string
var outDir string
var saveName string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&listFlag, "list", false, "")
	c.Flags().BoolVar(&yLog, "ylog", false, "")
	c.Flags().StringVar(&varsFlag, "variables", "krw", "")
	c.Flags().StringVar(&varsFlag, "v", "krw", "")
	c.Flags().StringVar(&labelsFlag, "labels", "", "")
	c.Flags().StringVar(&styleFile, "style", "", "")
	c.Flags().StringVar(&outDir, "output", ".", "")
	c.Flags().StringVar(&outDir, "o", ".", "")
	c.Flags().StringVar(&saveName, "save", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting case")
	}

	var names []string
	for _, n := range strings.Split(varsFlag, ",") {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, _, err := satfunc.ParseName(n); err != nil {
			return c.UsageError(fmt.Sprintf("flag --variables: %v", err))
		}
		names = append(names, n)
	}
	if len(names) == 0 {
		return c.UsageError("flag --variables: expecting function")
	}
	labels := style.SplitLabels(labelsFlag)
	if len(labels) > 0 && len(labels) != len(args) {
		return c.UsageError(fmt.Sprintf("flag --labels: found %d labels, want %d", len(labels), len(args)))
	}

	opt, err := style.Open(styleFile)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	if yLog {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	var first string
	var n int
	for i, a := range args {
		sc, err := simcase.Open(a)
		if err != nil {
			return err
		}
		d, err := sc.Deck()
		if err != nil {
			return fmt.Errorf("case %q: %v", sc.Name(), err)
		}
		tbl := satfunc.New(d)
		if listFlag {
			fmt.Fprintf(c.Stdout(), "%s\t%s\n", sc.Name(), strings.Join(tbl.Quantities(), ","))
			continue
		}
		if i == 0 {
			first = sc.Name()
		}

		label := sc.Name()
		if len(labels) > 0 {
			label = labels[i]
		}
		for _, nm := range names {
			cv, err := tbl.Curve(nm)
			if err != nil {
				return fmt.Errorf("case %q: %v", sc.Name(), err)
			}
			if err := render.AddSeries(p, render.Series{
				Label: fmt.Sprintf("%s %s", label, cv.Name),
				X:     cv.Sat,
				Y:     cv.Val,
				Color: render.Color(n),
			}); err != nil {
				return fmt.Errorf("case %q: %v", sc.Name(), err)
			}
			if n == 0 {
				p.Y.Label.Text = cv.Label
			} else if p.Y.Label.Text != cv.Label {
				p.Y.Label.Text = ""
			}
			n++
		}
	}
	if listFlag {
		return nil
	}

	p.X.Label.Text = satfunc.SatLabel(names[0])
	p.X.Min, p.X.Max = 0, 1

	name := fmt.Sprintf("%s_%s.png", strings.ToLower(first), names[0])
	if saveName != "" {
		name = saveName + ".png"
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	fig := render.NewFigure(p, nil, opt)
	return fig.SavePNG(filepath.Join(outDir, name))
}
