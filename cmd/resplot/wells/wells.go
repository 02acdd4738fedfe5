// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package wells implements a command to draw
// the well completions of a simulation case.
package wells

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/resplot/colormap"
	"github.com/js-arias/resplot/deck"
	"github.com/js-arias/resplot/mapping"
	"github.com/js-arias/resplot/pixkey"
	"github.com/js-arias/resplot/render"
	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/slide"
	"github.com/js-arias/resplot/style"
)

var Command = &command.Command{
	Usage: `wells [-s|--slide <slide>] [--color <color-map>] [--names]
	[--noscale] [--style <style-file>]
	[-o|--output <dir>] [--save <name>] <case>`,
	Short: "draw the well completions",
	Long: `
Command wells reads a simulation case and draws a map of the cells completed
by the wells of the input deck. Each well has its own color, and the color
bar shows the name of the wells.

The argument of the command is the name of the case.

The flags --slide (or -s), --noscale, and --style, have the same meaning as
in 'resplot map'. If the slide is a range of cells, a cell of the map is
painted if any cell of the range is completed. Active cells without wells are
painted in light gray, so the outline of the reservoir is visible. By default, the colors of the
wells are taken from the "nipy_spectral" color map, use the flag --color to
define a different color map. If the flag --names is defined, the name of each
well will be added at the top of its completion.

By default, the map is saved in the current directory as
"<case>_wells_<slide>.png". Use the flag --output, or -o, to set a different
directory, and the flag --save to set a different name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var namesFlag bool
var noScale bool
var slideFlag string
var colorFlag string
var styleFile string
var outDir string
var saveName string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&namesFlag, "names", false, "")
	c.Flags().BoolVar(&noScale, "noscale", false, "")
	c.Flags().StringVar(&slideFlag, "slide", "", "")
	c.Flags().StringVar(&slideFlag, "s", "", "")
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
	grad, err := colormap.ByName(colorFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --color: %v", err))
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

	field, wells, err := sc.Wells()
	if err != nil {
		return fmt.Errorf("case %q: %v", sc.Name(), err)
	}
	if len(wells) == 0 {
		return fmt.Errorf("case %q: no wells defined", sc.Name())
	}

	m, err := mapping.Project(sc, field, sel, slide.Max, slide.Intensive)
	if err != nil {
		return fmt.Errorf("case %q: %v", sc.Name(), err)
	}

	props := opt.Props("wells")
	props.ColorMap = colorFlag
	scale, _, err := mapping.Scale(m, mapping.Colors{
		Props: props,
		Key:   wellKey(grad, wells),
	})
	if err != nil {
		return fmt.Errorf("case %q: %v", sc.Name(), err)
	}
	if _, max := m.Range(); max < 0 {
		warn(c, "case %q: wells not visible in slide %s", sc.Name(), sel.Name())
	}

	p := render.NewMap(m, scale)
	p.Title.Text = fmt.Sprintf("Wells, slide %s", sel.Name())
	bar := render.NewColorBar(scale, "", "", len(wells)+1)
	fig := render.NewFigure(p, bar, opt)
	fig.Equal = opt.Scale
	if namesFlag {
		marks := mapping.WellMarks(m, sel, wells)
		for i := range marks {
			marks[i].Color = color.Black
		}
		if err := render.AddMarks(p, marks); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s_wells_%s.png", strings.ToLower(sc.Name()), sel.Name())
	if saveName != "" {
		name = saveName + ".png"
	}
	return fig.SavePNG(filepath.Join(outDir, name))
}

// background is the color of the active cells
// without wells.
var background = color.RGBA{220, 220, 220, 255}

func warn(c *command.Command, format string, a ...any) {
	fmt.Fprintf(c.Stderr(), "WARNING: "+format+"\n", a...)
}

// wellKey returns a color key
// with a color for each well,
// and the background of the active cells.
func wellKey(g colormap.Gradienter, wells []deck.Well) *pixkey.PixKey {
	pk := pixkey.New()
	pk.Set(simcase.NoWell, background, "no well")
	for w, wl := range wells {
		v := 0.0
		if len(wells) > 1 {
			v = float64(w) / float64(len(wells)-1)
		}
		pk.Set(w, g.Gradient(v), wl.Name)
	}
	return pk
}
