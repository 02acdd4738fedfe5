// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sumcmd implements a command to draw
// time series of summary vectors.
package sumcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/resplot/mapping"
	"github.com/js-arias/resplot/render"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/slide"
	"github.com/js-arias/resplot/style"
	"github.com/js-arias/resplot/variable"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

var Command = &command.Command{
	Usage: `summary -v|--variables <variable-list>
	[-s|--sensors <sensor-list>] [--how <rule>]
	[--labels <label-list>] [--tunits <units>] [--ylog] [--steps]
	[--xlim <min,max>] [--ylim <min,max>] [--style <style-file>]
	[-o|--output <dir>] [--save <name>] <case>...`,
	Short: "draw time series of summary vectors",
	Long: `
Command summary reads one or more simulation cases and draws the time series
of the indicated summary vectors. The series of all the cases are drawn in the
same plot, one plot for each variable.

The arguments of the command are the names of the cases.

The flag --variables, or -v, is required and defines the vectors, separated by
commas, for example: -v "fgip,wbhp:INJ0,bpr:1,1,1". Any variable can be an
expression of summary vectors, for example "fgip/(fgip+fgipl)".

If the flag --sensors, or -s, is defined, the variables are fields of the grid
that are reduced over the cells of each sensor at each restart. Sensors are
slides with the three components restricted, separated by spaces, for
example: -s "1,1,1 41,1,29". The flag --how defines the rule used to reduce
the cells of the sensor (see 'resplot help slides').

If there are several cases and the same number of variables, each case is
paired with its variable, and all of them are drawn in a single plot, for
example: -v "fgip,fgip * 2,fgip / 2" with three cases. In the same way, if
there are several cases and the same number of sensors, each case is paired
with its sensor.

By default, the series are labeled with the case name. Use the flag --labels
to define the labels of each case, separated by spaces, or, if a label
contains spaces, separated by two spaces, for example:
--labels "Left corner  Middle  Right corner".

By default, the time is shown in days. Use the flag --tunits to define a
different unit. Valid units are "s" (seconds), "h" (hours), "d" (days), "w"
(weeks), and "y" (years). The flag --ylog sets a logarithmic scale for the
values, and the flag --steps draws the series as steps.

The flags --xlim and --ylim set the limits of the axes. The flag --style
defines a style file.

By default, the plots are saved in the current directory, with the name
"<case>_<variable>.png", using the first case. Use the flag --output, or -o,
to set a different directory, and the flag --save to set a different name (the
variable name will be added if more than one plot is drawn).
	`,
	SetFlags: setFlags,
	Run:      run,
}

var yLog bool
var steps bool
var varsFlag string
var sensorsFlag string
var howFlag string
var labelsFlag string
var tUnits string
var xLim string
var yLim string
var styleFile string
var outDir string
var saveName string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&yLog, "ylog", false, "")
	c.Flags().BoolVar(&steps, "steps", false, "")
	c.Flags().StringVar(&varsFlag, "variables", "", "")
	c.Flags().StringVar(&varsFlag, "v", "", "")
	c.Flags().StringVar(&sensorsFlag, "sensors", "", "")
	c.Flags().StringVar(&sensorsFlag, "s", "", "")
	c.Flags().StringVar(&howFlag, "how", "", "")
	c.Flags().StringVar(&labelsFlag, "labels", "", "")
	c.Flags().StringVar(&tUnits, "tunits", "d", "")
	c.Flags().StringVar(&xLim, "xlim", "", "")
	c.Flags().StringVar(&yLim, "ylim", "", "")
	c.Flags().StringVar(&styleFile, "style", "", "")
	c.Flags().StringVar(&outDir, "output", ".", "")
	c.Flags().StringVar(&outDir, "o", ".", "")
	c.Flags().StringVar(&saveName, "save", "", "")
}

// a plotted case
type simCase struct {
	c     *simcase.Case
	label string

	// named is true if the label
	// was set by the user.
	named bool
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting case")
	}
	if varsFlag == "" {
		return c.UsageError("expecting variables, flag --variables")
	}
	if _, ok := timeUnits[strings.ToLower(tUnits)]; !ok {
		return c.UsageError(fmt.Sprintf("flag --tunits: unknown units %q", tUnits))
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
	lim, err = style.ParseLim(yLim)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --ylim: %v", err))
	}
	if lim != nil {
		opt.YLim = lim
	}

	var exprs []*variable.Expr
	for _, v := range variable.Split(varsFlag) {
		e, err := variable.Parse(v)
		if err != nil {
			return c.UsageError(fmt.Sprintf("flag --variables: %v", err))
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 0 {
		return c.UsageError("expecting variables, flag --variables")
	}
	how, err := slide.ParseHow(howFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --how: %v", err))
	}

	labels := style.SplitLabels(labelsFlag)
	if len(labels) > 0 && len(labels) != len(args) {
		return c.UsageError(fmt.Sprintf("flag --labels: found %d labels, want %d", len(labels), len(args)))
	}
	cases := make([]simCase, 0, len(args))
	for i, a := range args {
		sc, err := simcase.Open(a)
		if err != nil {
			return err
		}
		cs := simCase{c: sc, label: sc.Name()}
		if len(labels) > 0 {
			cs.label = labels[i]
			cs.named = true
		}
		cases = append(cases, cs)
	}

	sensors := strings.Fields(sensorsFlag)
	for _, cs := range cases {
		if len(sensors) == 0 {
			break
		}
		g, err := cs.c.Grid()
		if err != nil {
			return fmt.Errorf("case %q: %v", cs.c.Name(), err)
		}
		if _, err := parseSensors(sensorsFlag, g.NX, g.NY, g.NZ); err != nil {
			return c.UsageError(fmt.Sprintf("flag --sensors: case %q: %v", cs.c.Name(), err))
		}
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	pls := plots(cases, exprs, sensors)
	for _, lines := range pls {
		p, err := drawPlot(lines, how, opt)
		if err != nil {
			return err
		}

		e := lines[0].e
		name := fmt.Sprintf("%s_%s.png", strings.ToLower(lines[0].sc.c.Name()), e.Name())
		if saveName != "" {
			name = saveName + ".png"
			if len(pls) > 1 {
				name = fmt.Sprintf("%s_%s.png", saveName, e.Name())
			}
		}
		fig := render.NewFigure(p, nil, opt)
		if err := fig.SavePNG(filepath.Join(outDir, name)); err != nil {
			return err
		}
	}
	return nil
}

// A line is a series in a plot.
type line struct {
	sc     simCase
	e      *variable.Expr
	sensor string // empty for summary vectors
	label  string
}

// plots returns the lines of each plot.
//
// If there are several cases,
// and the same number of variables,
// the variable i is drawn for the case i
// in a single plot.
// Otherwise each variable has its own plot.
// In the same way,
// if there are several cases,
// and the same number of sensors,
// the sensor i is used for the case i.
// Otherwise all the sensors are used
// for each case.
func plots(cases []simCase, exprs []*variable.Expr, sensors []string) [][]line {
	paired := len(cases) > 1 && len(sensors) == len(cases)
	caseLines := func(i int, cs simCase, e *variable.Expr, withExpr bool) []line {
		base := cs.label
		if withExpr && !cs.named {
			base = fmt.Sprintf("%s %s", cs.label, e)
		}
		if len(sensors) == 0 {
			return []line{{sc: cs, e: e, label: base}}
		}
		if paired {
			return []line{{sc: cs, e: e, sensor: sensors[i], label: base}}
		}
		var ls []line
		for _, sn := range sensors {
			l := line{sc: cs, e: e, sensor: sn, label: base}
			if len(sensors) > 1 {
				l.label = fmt.Sprintf("%s (%s)", base, sn)
			}
			ls = append(ls, l)
		}
		return ls
	}

	if len(cases) > 1 && len(exprs) == len(cases) {
		var ls []line
		for i, cs := range cases {
			ls = append(ls, caseLines(i, cs, exprs[i], true)...)
		}
		return [][]line{ls}
	}

	var pls [][]line
	for _, e := range exprs {
		var ls []line
		for i, cs := range cases {
			ls = append(ls, caseLines(i, cs, e, false)...)
		}
		pls = append(pls, ls)
	}
	return pls
}

// yLabel returns the label of the values
// of a plot.
func yLabel(lines []line) string {
	e := lines[0].e.String()
	for _, l := range lines[1:] {
		if l.e.String() != e {
			return ""
		}
	}
	return e
}

func newPlot(label, units string) *plot.Plot {
	p := plot.New()
	p.Legend.Top = true
	p.X.Label.Text = fmt.Sprintf("time [%s]", strings.ToLower(tUnits))
	p.Y.Label.Text = strings.TrimSpace(label + " " + units)
	if yLog {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Add(plotter.NewGrid())
	return p
}

func drawPlot(lines []line, how slide.How, opt *style.Options) (*plot.Plot, error) {
	var p *plot.Plot
	for i, ln := range lines {
		var days, v []float64
		var u string
		var err error
		if ln.sensor == "" {
			days, v, u, err = vectorLine(ln)
		} else {
			days, v, u, err = sensorLine(ln, how, opt)
		}
		if err != nil {
			return nil, fmt.Errorf("case %q: %v", ln.sc.c.Name(), err)
		}
		if p == nil {
			p = newPlot(yLabel(lines), u)
		}
		tm, err := convertTime(days, tUnits)
		if err != nil {
			return nil, err
		}
		if err := render.AddSeries(p, render.Series{
			Label: ln.label,
			X:     tm,
			Y:     v,
			Color: render.Color(i),
			Step:  steps,
		}); err != nil {
			return nil, fmt.Errorf("case %q: %v", ln.sc.c.Name(), err)
		}
	}
	return p, nil
}

// vectorLine returns the time,
// values and units of a summary vector.
func vectorLine(ln line) (days, values []float64, u string, err error) {
	s, err := ln.sc.c.Summary()
	if err != nil {
		return nil, nil, "", err
	}
	values, err = evalSummary(s, ln.e)
	if err != nil {
		return nil, nil, "", err
	}
	days, err = s.Time()
	if err != nil {
		return nil, nil, "", err
	}
	return days, values, units(s, ln.e), nil
}

// sensorLine returns the time,
// values and units of a field
// reduced over a sensor.
func sensorLine(ln line, how slide.How, opt *style.Options) (days, values []float64, u string, err error) {
	g, err := ln.sc.c.Grid()
	if err != nil {
		return nil, nil, "", err
	}
	sensors, err := parseSensors(ln.sensor, g.NX, g.NY, g.NZ)
	if err != nil {
		return nil, nil, "", err
	}
	days, values, err = sensorSeries(ln.sc.c, ln.e, sensors[0], how)
	if err != nil {
		return nil, nil, "", fmt.Errorf("sensor %s: %v", ln.sensor, err)
	}
	props, _ := mapping.Props(opt, ln.e)
	return days, values, props.Units, nil
}
