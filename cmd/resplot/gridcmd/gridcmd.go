// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package gridcmd implements a command to draw
// the active cells of a grid.
package gridcmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/resplot/grid"
	"github.com/js-arias/resplot/mapping"
	"github.com/js-arias/resplot/render"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/slide"
	"github.com/js-arias/resplot/style"
)

var Command = &command.Command{
	Usage: `grid [-s|--slide <slide>] [--how <rule>] [--color <color-map>]
	[--noscale] [--style <style-file>]
	[-o|--output <dir>] [--save <name>] <case>`,
	Short: "draw the active cells of a grid",
	Long: `
Command grid reads a simulation case and draws a map of the active cells of
the grid, painted by the index of the active cell (starting at 1), and titled
with the dimensions of the grid and the number of active cells.

The argument of the command is the name of the case.

The flags --slide (or -s), --how, --noscale, and --style, have the same
meaning as in 'resplot map'. By default, the "nipy_spectral" color map is
used, use the flag --color to define a different color map.

By default, the map is saved in the current directory as
"<case>_grid_<slide>.png". Use the flag --output, or -o, to set a different
directory, and the flag --save to set a different name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var noScale bool
var slideFlag string
var howFlag string
var colorFlag string
var styleFile string
var outDir string
var saveName string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&noScale, "noscale", false, "")
	c.Flags().StringVar(&slideFlag, "slide", "", "")
	c.Flags().StringVar(&slideFlag, "s", "", "")
	c.Flags().StringVar(&howFlag, "how", "", "")
	c.Flags().StringVar(&colorFlag, "color", "nipy_spectral", "")
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
	if noScale {
		opt.Scale = false
	}
	how, err := slide.ParseHow(howFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --how: %v", err))
	}

	sc, err := simcase.Open(args[0])
	if err != nil {
		return err
	}
	g, err := sc.Grid()
	if err != nil {
		return fmt.Errorf("case %q: %v", sc.Name(), err)
	}
	sel, err := slide.Parse(slideFlag, g.NX, g.NY, g.NZ)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --slide: %v", err))
	}

	m, err := mapping.Project(sc, activeIndex(g), sel, how, slide.Intensive)
	if err != nil {
		return fmt.Errorf("case %q: %v", sc.Name(), err)
	}
	props := opt.Props("active")
	props.ColorMap = colorFlag
	props.Units = "[-]"
	props.Format = "%.0f"
	scale, ticks, err := mapping.Scale(m, mapping.Colors{Props: props})
	if err != nil {
		return fmt.Errorf("case %q: %v", sc.Name(), err)
	}

	p := render.NewMap(m, scale)
	p.Title.Text = fmt.Sprintf("Grid = [%d,%d,%d], Total no. active cells = %d", g.NX, g.NY, g.NZ, g.NumActive())
	bar := render.NewColorBar(scale, props.Units, props.Format, ticks)
	fig := render.NewFigure(p, bar, opt)
	fig.Equal = opt.Scale

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s_grid_%s.png", strings.ToLower(sc.Name()), sel.Name())
	if saveName != "" {
		name = saveName + ".png"
	}
	return fig.SavePNG(filepath.Join(outDir, name))
}

// activeIndex returns the index of each active cell,
// starting at 1.
// Inactive cells are NaN.
func activeIndex(g *grid.Grid) []float64 {
	v := make([]float64, g.Len())
	n := 0
	for idx := range v {
		if !g.Active(idx) {
			v[idx] = math.NaN()
			continue
		}
		n++
		v[idx] = float64(n)
	}
	return v
}
