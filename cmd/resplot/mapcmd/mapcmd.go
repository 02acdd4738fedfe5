// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mapcmd implements a command to draw
// maps of the variables of a simulation case.
package mapcmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/resplot/deck"
	"github.com/js-arias/resplot/mapping"
	"github.com/js-arias/resplot/pixkey"
	"github.com/js-arias/resplot/render"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/slide"
	"github.com/js-arias/resplot/style"
	"github.com/js-arias/resplot/variable"
)

var Command = &command.Command{
	Usage: `map [-v|--variables <variable-list>] [-s|--slide <slide>]
	[--how <rule>] [-r|--restart <number>]
	[--diff <case>] [--filter <filter-list>] [--mask <field>]
	[--color <color-map>] [--clabel <label>] [--cformat <format>]
	[--crange <min,max>] [--log] [--key <key-file>] [--gray]
	[--xlim <min,max>] [--ylim <min,max>] [--noscale]
	[--wells] [--style <style-file>]
	[-o|--output <dir>] [--save <name>] [--quiet] <case>...`,
	Short: "draw maps of variables",
	Long: `
Command map reads one or more simulation cases and draws a map of the
indicated variables on a slide of the grid. The maps are saved as PNG images.

The arguments of the command are the names of the cases, either the base name
of the simulation files or a case file (see 'resplot help case-files').

By default, the maps of the variables "porv", "permx", "permz", "poro",
"fipnum", and "satnum" are drawn, and variables not found in the case are
ignored. Use the flag --variables, or -v, to define a different set of
variables, separated by commas. Any variable can be an expression (see
'resplot help variables'). For example, -v "pressure,sgas*porv".

By default, the slide ",1," is used. Use the flag --slide, or -s, to define a
different slide (see 'resplot help slides'). Several slides can be given
separated by spaces, for example -s ",1, ,2,", and a map is drawn for each
slide. If there are several cases and the same number of slides, each case is
drawn with its own slide. If the slide is a range of cells, the rule used to
collapse the range is defined by the variable, use the flag --how to set a
different rule.

By default, dynamic variables are taken from the last restart. Use the flag
--restart, or -r, to define a different restart (starting at 0). A negative
number counts from the last restart.

The flag --diff sets a case that will be subtracted from the values of each
case. The flag --filter defines a filter of the cells (for example,
"sgas > 0.1"), and cells that do not fulfill the filter are not drawn. A list
of filters separated by commas defines a filter for each case, in the order of
the cases, and an empty element keeps all the cells of its case. The flag
--mask defines a field (for example "satnum"), and the cells in which the
field is zero or undefined are not drawn.

Each variable has a default color map, units label, and number format of the
color bar (see 'resplot help style-files'). Use the flags --color, --clabel,
and --cformat, to change them. The flag --crange sets the range of the color
bar, and the flag --log sets a logarithmic color scale. Integer variables can
be painted using a key file (see 'resplot help key-files') with the flag --key.
If the flag --gray is defined, the gray scale of the key will be used.

The flags --xlim and --ylim set the limits of the axes. By default, both axes
of the map have the same scale, use the flag --noscale to change this
behavior. If the flag --wells is defined, the wells of the deck are added to
the map. The flag --style defines a style file.

By default, the maps are saved in the current directory, with a name in the
form "<case>_<variable>_<slide>_t<restart>.png". Use the flag --output, or -o,
to set a different directory, and the flag --save to set a different name (the
case and variable names will be added if more than one map is drawn). If a
name is repeated, a number is added to it. The flag --quiet suppress the
warnings.
	`,
	SetFlags: setFlags,
	Run:      run,
}

const defaultVariables = "porv,permx,permz,poro,fipnum,satnum"

var logFlag bool
var grayFlag bool
var noScale bool
var wellsFlag bool
var quietFlag bool
var restart int
var varsFlag string
var slideFlag string
var howFlag string
var diffCase string
var filterFlag string
var maskFlag string
var colorFlag string
var cLabel string
var cFormat string
var cRange string
var keyFile string
var xLim string
var yLim string
var styleFile string
var outDir string
var saveName string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&logFlag, "log", false, "")
	c.Flags().BoolVar(&grayFlag, "gray", false, "")
	c.Flags().BoolVar(&noScale, "noscale", false, "")
	c.Flags().BoolVar(&wellsFlag, "wells", false, "")
	c.Flags().BoolVar(&quietFlag, "quiet", false, "")
	c.Flags().IntVar(&restart, "restart", -1, "")
	c.Flags().IntVar(&restart, "r", -1, "")
	c.Flags().StringVar(&varsFlag, "variables", defaultVariables, "")
	c.Flags().StringVar(&varsFlag, "v", defaultVariables, "")
	c.Flags().StringVar(&slideFlag, "slide", "", "")
	c.Flags().StringVar(&slideFlag, "s", "", "")
	c.Flags().StringVar(&howFlag, "how", "", "")
	c.Flags().StringVar(&diffCase, "diff", "", "")
	c.Flags().StringVar(&filterFlag, "filter", "", "")
	c.Flags().StringVar(&maskFlag, "mask", "", "")
	c.Flags().StringVar(&colorFlag, "color", "", "")
	c.Flags().StringVar(&cLabel, "clabel", "", "")
	c.Flags().StringVar(&cFormat, "cformat", "", "")
	c.Flags().StringVar(&cRange, "crange", "", "")
	c.Flags().StringVar(&keyFile, "key", "", "")
	c.Flags().StringVar(&xLim, "xlim", "", "")
	c.Flags().StringVar(&yLim, "ylim", "", "")
	c.Flags().StringVar(&styleFile, "style", "", "")
	c.Flags().StringVar(&outDir, "output", ".", "")
	c.Flags().StringVar(&outDir, "o", ".", "")
	c.Flags().StringVar(&saveName, "save", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting case")
	}

	opt, err := style.Open(styleFile)
	if err != nil {
		return err
	}
	if err := setLimits(opt); err != nil {
		return c.UsageError(err.Error())
	}
	if noScale {
		opt.Scale = false
	}

	exprs, err := parseVariables(varsFlag)
	if err != nil {
		return c.UsageError(err.Error())
	}
	// unknown variables in the default list
	// are skipped with a warning
	skip := varsFlag == defaultVariables

	filters, err := variable.ParseFilters(filterFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --filter: %v", err))
	}
	if len(filters) > 1 && len(filters) != len(args) {
		return c.UsageError(fmt.Sprintf("flag --filter: found %d filters, want %d", len(filters), len(args)))
	}
	var mask *variable.Expr
	if maskFlag != "" {
		mask, err = variable.Parse(maskFlag)
		if err != nil {
			return c.UsageError(fmt.Sprintf("flag --mask: %v", err))
		}
	}
	how, err := slide.ParseHow(howFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --how: %v", err))
	}
	rng, err := style.ParseLim(cRange)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --crange: %v", err))
	}

	var keys *pixkey.PixKey
	if keyFile != "" {
		keys, err = pixkey.Read(keyFile)
		if err != nil {
			return err
		}
		if grayFlag && !keys.HasGrayScale() {
			grayFlag = false
		}
	}

	var diff *simcase.Case
	if diffCase != "" {
		diff, err = simcase.Open(diffCase)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	slides := mapping.SplitSlides(slideFlag)
	many := len(args) > 1 || len(exprs) > 1 || len(slides) > 1
	names := make(map[string]int)
	for i, a := range args {
		sc, err := simcase.Open(a)
		if err != nil {
			return err
		}
		g, err := sc.Grid()
		if err != nil {
			return fmt.Errorf("case %q: %v", sc.Name(), err)
		}

		var wells []deck.Well
		if wellsFlag {
			d, err := sc.Deck()
			if err != nil {
				return fmt.Errorf("case %q: %v", sc.Name(), err)
			}
			wells = d.Wells()
		}

		for _, sl := range mapping.CaseSlides(slides, i, len(args)) {
			sel, err := slide.Parse(sl, g.NX, g.NY, g.NZ)
			if err != nil {
				return c.UsageError(fmt.Sprintf("flag --slide: %v", err))
			}
			for _, e := range exprs {
				req := &mapping.Request{
					Case:    sc,
					Diff:    diff,
					Expr:    e,
					Filter:  mapping.CaseFilter(filters, i),
					Mask:    mask,
					Slide:   sel,
					How:     how,
					Restart: restart,
				}
				res, err := req.Build()
				if err != nil {
					if skip {
						warn(c, "case %q: %v", sc.Name(), err)
						continue
					}
					return fmt.Errorf("case %q: %v", sc.Name(), err)
				}

				props, label := mapping.Props(opt, e)
				setProps(&props)
				fig, err := res.Figure(label, mapping.Colors{
					Props: props,
					Range: rng,
					Key:   keys,
					Gray:  grayFlag,
				}, opt)
				if errors.Is(err, mapping.ErrNoValues) {
					warn(c, "case %q: %v", sc.Name(), err)
					continue
				}
				if err != nil {
					return fmt.Errorf("case %q: %v", sc.Name(), err)
				}
				if len(wells) > 0 {
					marks := mapping.WellMarks(res.Map, sel, wells)
					if err := render.AddMarks(fig.Plot, marks); err != nil {
						return err
					}
				}
				fig.SetLimits()

				name := mapping.FileName(sc.Name(), e.Name(), sel.Name(), res.Restart)
				if saveName != "" {
					name = saveName + ".png"
					if many {
						name = fmt.Sprintf("%s_%s_%s.png", saveName, strings.ToLower(sc.Name()), e.Name())
					}
				}
				name = uniqueName(names, name)
				if err := fig.SavePNG(filepath.Join(outDir, name)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// uniqueName adds a number to a file name
// already used in the current run.
func uniqueName(names map[string]int, name string) string {
	n := names[name]
	names[name] = n + 1
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
}

func parseVariables(s string) ([]*variable.Expr, error) {
	var exprs []*variable.Expr
	for _, v := range variable.Split(s) {
		e, err := variable.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("flag --variables: %v", err)
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 0 {
		return nil, errors.New("flag --variables: expecting variable")
	}
	return exprs, nil
}

func setLimits(opt *style.Options) error {
	x, err := style.ParseLim(xLim)
	if err != nil {
		return fmt.Errorf("flag --xlim: %v", err)
	}
	if x != nil {
		opt.XLim = x
	}
	y, err := style.ParseLim(yLim)
	if err != nil {
		return fmt.Errorf("flag --ylim: %v", err)
	}
	if y != nil {
		opt.YLim = y
	}
	return nil
}

func setProps(p *style.Props) {
	if colorFlag != "" {
		p.ColorMap = colorFlag
	}
	if cLabel != "" {
		p.Units = cLabel
	}
	if cFormat != "" {
		p.Format = cFormat
	}
	if logFlag {
		p.Log = true
	}
}

func warn(c *command.Command, format string, a ...any) {
	if quietFlag {
		return
	}
	fmt.Fprintf(c.Stderr(), "WARNING: "+format+"\n", a...)
}
