// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package hist implements a command to draw
// histograms of the variables of simulation cases.
package hist

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/resplot/colormap"
	"github.com/js-arias/resplot/mapping"
	"github.com/js-arias/resplot/render"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/style"
	"github.com/js-arias/resplot/variable"
	"gonum.org/v1/plot"
)

var Command = &command.Command{
	Usage: `hist -v|--variables <variable-list> [-r|--restart <number>]
	[--filter <filter-list>] [--bins <bins-list>] [-c|--colors <color-list>]
	[--xlabel <label>] [--ylabel <label>] [--xlim <min,max>]
	[--style <style-file>] [-o|--output <dir>] [--save <name>] <case>...`,
	Short: "draw histograms of variables",
	Long: `
Command hist reads one or more simulation cases and draws the histogram of the
values of a variable over all the active cells of each case, in a single plot.

The arguments of the command are the names of the cases.

The flag --variables, or -v, is required and defines the variables, separated
by commas. If a single variable is given, it will be used with all cases,
otherwise, each variable is paired with a case, in the order given.

By default, dynamic variables are taken from the last restart. Use the flag
--restart, or -r, to define a different restart. The flag --filter defines a
filter of the cells (see 'resplot help variables'). A list of filters
separated by commas defines a filter for each case, in the order of the cases,
and an empty element keeps all the cells of its case.

By default, histograms have 20 bins. Use the flag --bins to define the number
of bins, and optionally, a distribution fitted to the values, separated by a
comma. Valid distributions are "norm", for a normal distribution, and
"lognorm", for a log-normal distribution. If a distribution is given, the
histogram is normalized. Each histogram can have its own definition, separated
by spaces, for example: --bins "50,norm 20,lognorm 100".

By default, histograms use the default colors of the plots. Use the flag
--colors, or -c, to define the colors in hexadecimal form, separated by
commas, for example: -c "#1f77b4,#ff7f0e".

By default, the x axis is labeled with the variable and the y axis with
"frequency" (or "density" if the histogram is normalized). Use the flags
--xlabel and --ylabel to change the labels. The flag --xlim sets the limits of
the x axis. The flag --style defines a style file.

By default, the plot is saved in the current directory as
"<case>_<variable>_hist.png", using the first case and variable. Use the flag
--output, or -o, to set a different directory, and the flag --save to set a
different name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var restart int
var varsFlag string
var filterFlag string
var binsFlag string
var colorsFlag string
var xLabel string
var yLabel string
var xLim string
var styleFile string
var outDir string
var saveName string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&restart, "restart", -1, "")
	c.Flags().IntVar(&restart, "r", -1, "")
	c.Flags().StringVar(&varsFlag, "variables", "", "")
	c.Flags().StringVar(&varsFlag, "v", "", "")
	c.Flags().StringVar(&filterFlag, "filter", "", "")
	c.Flags().StringVar(&binsFlag, "bins", "", "")
	c.Flags().StringVar(&colorsFlag, "colors", "", "")
	c.Flags().StringVar(&colorsFlag, "c", "", "")
	c.Flags().StringVar(&xLabel, "xlabel", "", "")
	c.Flags().StringVar(&yLabel, "ylabel", "", "")
	c.Flags().StringVar(&xLim, "xlim", "", "")
	c.Flags().StringVar(&styleFile, "style", "", "")
	c.Flags().StringVar(&outDir, "output", ".", "")
	c.Flags().StringVar(&outDir, "o", ".", "")
	c.Flags().StringVar(&saveName, "save", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting case")
	}
	if varsFlag == "" {
		return c.UsageError("expecting variables, flag --variables")
	}

	opt, err := style.Open(styleFile)
	if err != nil {
		return err
	}
	lim, err := style.ParseLim(xLim)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --xlim: %v", err))
	}
	if lim != nil {
		opt.XLim = lim
	}

	vars := variable.Split(varsFlag)
	if len(vars) != 1 && len(vars) != len(args) {
		return c.UsageError(fmt.Sprintf("flag --variables: found %d variables, want 1 or %d", len(vars), len(args)))
	}
	exprs := make([]*variable.Expr, len(args))
	for i := range args {
		v := vars[0]
		if len(vars) > 1 {
			v = vars[i]
		}
		exprs[i], err = variable.Parse(v)
		if err != nil {
			return c.UsageError(fmt.Sprintf("flag --variables: %v", err))
		}
	}
	filters, err := variable.ParseFilters(filterFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --filter: %v", err))
	}
	if len(filters) > 1 && len(filters) != len(args) {
		return c.UsageError(fmt.Sprintf("flag --filter: found %d filters, want %d", len(filters), len(args)))
	}
	bins, err := parseBins(binsFlag, len(args))
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --bins: %v", err))
	}
	colors, err := parseColors(colorsFlag, len(args))
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --colors: %v", err))
	}

	p := plot.New()
	p.Legend.Top = true
	normalized := false
	var first string
	for i, a := range args {
		sc, err := simcase.Open(a)
		if err != nil {
			return err
		}
		vals, err := values(sc, exprs[i], mapping.CaseFilter(filters, i))
		if err != nil {
			return fmt.Errorf("case %q: %v", sc.Name(), err)
		}
		if i == 0 {
			first = sc.Name()
		}

		_, label := mapping.Props(opt, exprs[i])
		h := render.Hist{
			Label:  fmt.Sprintf("%s %s", sc.Name(), label),
			Values: vals,
			Bins:   bins[i].n,
			Fit:    bins[i].fit,
			Color:  colors[i],
		}
		if h.Fit != render.NoFit {
			normalized = true
		}
		if err := render.AddHist(p, h); err != nil {
			return fmt.Errorf("case %q: %v", sc.Name(), err)
		}
	}

	props, label := mapping.Props(opt, exprs[0])
	p.X.Label.Text = fmt.Sprintf("%s %s", label, props.Units)
	if xLabel != "" {
		p.X.Label.Text = xLabel
	}
	p.Y.Label.Text = "frequency"
	if normalized {
		p.Y.Label.Text = "density"
	}
	if yLabel != "" {
		p.Y.Label.Text = yLabel
	}

	name := fmt.Sprintf("%s_%s_hist.png", strings.ToLower(first), exprs[0].Name())
	if saveName != "" {
		name = saveName + ".png"
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	fig := render.NewFigure(p, nil, opt)
	return fig.SavePNG(filepath.Join(outDir, name))
}

// values returns the values of a variable
// over the active cells of a case.
func values(sc *simcase.Case, e *variable.Expr, f *variable.Filter) ([]float64, error) {
	req := &mapping.Request{
		Case:    sc,
		Expr:    e,
		Filter:  f,
		Restart: restart,
	}
	v, _, err := req.Values()
	if err != nil {
		return nil, err
	}
	g, err := sc.Grid()
	if err != nil {
		return nil, err
	}
	return g.Compress(v), nil
}

type binDef struct {
	n   int
	fit render.Fit
}

func parseBins(s string, n int) ([]binDef, error) {
	defs := make([]binDef, n)
	f := strings.Fields(s)
	if len(f) == 0 {
		return defs, nil
	}
	if len(f) != 1 && len(f) != n {
		return nil, fmt.Errorf("found %d definitions, want 1 or %d", len(f), n)
	}
	for i := range defs {
		v := f[0]
		if len(f) > 1 {
			v = f[i]
		}
		b, fit, err := render.ParseBins(v)
		if err != nil {
			return nil, err
		}
		defs[i] = binDef{n: b, fit: fit}
	}
	return defs, nil
}

func parseColors(s string, n int) ([]color.Color, error) {
	colors := make([]color.Color, n)
	f := variable.Split(s)
	if len(f) > 0 && len(f) < n {
		return nil, fmt.Errorf("found %d colors, want %d", len(f), n)
	}
	for i := range colors {
		if len(f) == 0 {
			colors[i] = render.Color(i)
			continue
		}
		c, err := colormap.ParseColor(f[i])
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return colors, nil
}
