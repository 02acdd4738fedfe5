// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package gifcmd implements a command to draw
// an animation of a dynamic variable.
package gifcmd

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/js-arias/command"
	"github.com/js-arias/resplot/mapping"
	"github.com/js-arias/resplot/render"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/slide"
	"github.com/js-arias/resplot/style"
	"github.com/js-arias/resplot/variable"
)

var Command = &command.Command{
	Usage: `gif -v|--variable <variable> [-s|--slide <slide>]
	[--how <rule>] [-r|--restart <restart-list>]
	[--diff <case>] [--filter <filter>] [--mask <field>]
	[--color <color-map>] [--clabel <label>] [--cformat <format>]
	[--crange <min,max>] [--log]
	[--interval <milliseconds>] [--loop] [--noscale]
	[--style <style-file>] [--cpu <number>]
	[-o|--output <dir>] <case>`,
	Short: "draw an animation of a variable",
	Long: `
Command gif reads a simulation case and draws the maps of a dynamic variable
on each restart, as an animated GIF image.

The argument of the command is the name of the case.

The flag --variable, or -v, is required and defines the variable (or
expression) to be drawn. The flags --slide (or -s), --how, --diff, --filter,
--color, --clabel, --cformat, --log, --noscale, and --style, have the same
meaning as in 'resplot map'.

The flag --mask defines a field (for example "satnum"), and the cells in which
the field is zero, or undefined, are not drawn.

By default, all the restarts are drawn. Use the flag --restart, or -r, to
define the restarts to draw: a single value is a single restart, two values
separated by a comma are the first and the last restart, for example
"-r 0,10", and three or more values are the list of restarts, for example
"-r 0,2,5".

By default, all the frames use the same color range, defined by the minimum
and maximum values over all the restarts. Use the flag --crange to set a
different range.

By default, each frame is shown during 500 milliseconds. Use the flag
--interval to define a different time. By default, the animation is shown
only once, use the flag --loop to repeat it.

By default, the image will be saved in the current directory, with the name
"<case>_<variable>.gif". Use the flag --output, or -o, to set a different
directory.

By default, all available CPUs will be used to draw the frames. Use the flag
--cpu to change the number of CPUs.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var logFlag bool
var loopFlag bool
var noScale bool
var interval int
var numCPU int
var varFlag string
var slideFlag string
var howFlag string
var rstFlag string
var diffCase string
var filterFlag string
var maskFlag string
var colorFlag string
var cLabel string
var cFormat string
var cRange string
var styleFile string
var outDir string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&logFlag, "log", false, "")
	c.Flags().BoolVar(&loopFlag, "loop", false, "")
	c.Flags().BoolVar(&noScale, "noscale", false, "")
	c.Flags().IntVar(&interval, "interval", 500, "")
	c.Flags().IntVar(&numCPU, "cpu", runtime.GOMAXPROCS(0), "")
	c.Flags().StringVar(&varFlag, "variable", "", "")
	c.Flags().StringVar(&varFlag, "v", "", "")
	c.Flags().StringVar(&slideFlag, "slide", "", "")
	c.Flags().StringVar(&slideFlag, "s", "", "")
	c.Flags().StringVar(&howFlag, "how", "", "")
	c.Flags().StringVar(&rstFlag, "restart", "", "")
	c.Flags().StringVar(&rstFlag, "r", "", "")
	c.Flags().StringVar(&diffCase, "diff", "", "")
	c.Flags().StringVar(&filterFlag, "filter", "", "")
	c.Flags().StringVar(&maskFlag, "mask", "", "")
	c.Flags().StringVar(&colorFlag, "color", "", "")
	c.Flags().StringVar(&cLabel, "clabel", "", "")
	c.Flags().StringVar(&cFormat, "cformat", "", "")
	c.Flags().StringVar(&cRange, "crange", "", "")
	c.Flags().StringVar(&styleFile, "style", "", "")
	c.Flags().StringVar(&outDir, "output", ".", "")
	c.Flags().StringVar(&outDir, "o", ".", "")
}

func run(c *command.Command, args []string) (err error) {
	if len(args) < 1 {
		return c.UsageError("expecting case")
	}
	if varFlag == "" {
		return c.UsageError("expecting variable, flag --variable")
	}
	if interval <= 0 {
		return c.UsageError("flag --interval: expecting a positive value")
	}
	if numCPU < 1 {
		numCPU = 1
	}

	opt, err := style.Open(styleFile)
	if err != nil {
		return err
	}
	if noScale {
		opt.Scale = false
	}
	e, err := variable.Parse(varFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --variable: %v", err))
	}
	filter, err := variable.ParseFilter(filterFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --filter: %v", err))
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
	restarts, err := simcase.ParseRestarts(rstFlag, sc.Restarts())
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --restart: %v", err))
	}

	// maps are built sequentially
	// as the case caches its fields
	var results []*mapping.Result
	min, max := math.Inf(1), math.Inf(-1)
	for _, r := range restarts {
		req := &mapping.Request{
			Case:    sc,
			Diff:    diff,
			Expr:    e,
			Filter:  filter,
			Mask:    mask,
			Slide:   sel,
			How:     how,
			Restart: r,
		}
		res, err := req.Build()
		if err != nil {
			return fmt.Errorf("case %q: %v", sc.Name(), err)
		}
		results = append(results, res)
		lo, hi := res.Map.Range()
		if math.IsNaN(lo) {
			continue
		}
		min = math.Min(min, lo)
		max = math.Max(max, hi)
	}
	if rng == nil {
		if min > max {
			return fmt.Errorf("case %q: %s: %v", sc.Name(), e, mapping.ErrNoValues)
		}
		rng = []float64{min, max}
	}

	props, label := mapping.Props(opt, e)
	if colorFlag != "" {
		props.ColorMap = colorFlag
	}
	if cLabel != "" {
		props.Units = cLabel
	}
	if cFormat != "" {
		props.Format = cFormat
	}
	if logFlag {
		props.Log = true
	}
	colors := mapping.Colors{
		Props: props,
		Range: rng,
	}

	fc := make(chan frameChan, numCPU*2)
	for i := 0; i < numCPU; i++ {
		go procFrame(fc)
	}

	frames := make([]image.Image, len(results))

	// errChan can hold an error of each frame
	// so workers never block
	errChan := make(chan error, len(results))
	doneChan := make(chan struct{})
	var wg sync.WaitGroup
	go func() {
		for i, res := range results {
			wg.Add(1)
			fc <- frameChan{
				res:    res,
				label:  label,
				colors: colors,
				opt:    opt,
				frames: frames,
				pos:    i,
				err:    errChan,
				wg:     &wg,
			}
		}
		close(fc)
		wg.Wait()
		close(doneChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-doneChan:
	}
	if len(errChan) > 0 {
		return <-errChan
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	name := filepath.Join(outDir, fmt.Sprintf("%s_%s.gif", strings.ToLower(sc.Name()), e.Name()))
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

	if err := render.WriteGIF(f, frames, interval/10, loopFlag); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

type frameChan struct {
	res    *mapping.Result
	label  string
	colors mapping.Colors
	opt    *style.Options

	frames []image.Image
	pos    int

	err chan error
	wg  *sync.WaitGroup
}

func procFrame(c chan frameChan) {
	for fc := range c {
		fig, err := fc.res.Figure(fc.label, fc.colors, fc.opt)
		if err != nil {
			fc.err <- err
			fc.wg.Done()
			continue
		}
		fig.SetLimits()
		fc.frames[fc.pos] = fig.Image()
		fc.wg.Done()
	}
}
