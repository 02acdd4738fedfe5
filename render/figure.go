// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"image/color/palette"
	imgdraw "image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/js-arias/resplot/style"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// BarWidth is the fraction of the figure width
// used by the color bar.
const BarWidth = 0.15

// A Figure is a plot
// with an optional color bar.
type Figure struct {
	Plot *plot.Plot
	Bar  *plot.Plot
	Opt  *style.Options

	// Equal draws both axes of the plot
	// at the same scale.
	Equal bool
}

// NewFigure returns a figure of a plot.
func NewFigure(p *plot.Plot, bar *plot.Plot, opt *style.Options) *Figure {
	if opt == nil {
		opt = style.Default()
	}
	setFont(p, opt.FontSize)
	if bar != nil {
		setFont(bar, opt.FontSize)
	}
	return &Figure{Plot: p, Bar: bar, Opt: opt}
}

func setFont(p *plot.Plot, size float64) {
	sz := vg.Points(size)
	p.Title.TextStyle.Font.Size = sz
	p.X.Label.TextStyle.Font.Size = sz
	p.Y.Label.TextStyle.Font.Size = sz
	p.X.Tick.Label.Font.Size = sz * 0.85
	p.Y.Tick.Label.Font.Size = sz * 0.85
	p.Legend.TextStyle.Font.Size = sz * 0.85
}

// SetLimits sets the axis limits
// defined in the figure options.
func (f *Figure) SetLimits() {
	if len(f.Opt.XLim) == 2 {
		f.Plot.X.Min, f.Plot.X.Max = f.Opt.XLim[0], f.Opt.XLim[1]
	}
	if len(f.Opt.YLim) == 2 {
		f.Plot.Y.Min, f.Plot.Y.Max = f.Opt.YLim[0], f.Opt.YLim[1]
	}
}

// Draw draws the figure in a canvas.
func (f *Figure) Draw(dc draw.Canvas) {
	f.SetLimits()

	pc := dc
	if f.Bar != nil {
		w := dc.Max.X - dc.Min.X
		bw := w * BarWidth
		pc = draw.Crop(dc, 0, -bw, 0, 0)
		bc := draw.Crop(dc, w-bw, 0, 0, 0)
		bc = draw.Crop(bc, bw/6, -bw/6, 0, 0)
		f.Bar.Draw(bc)
	}

	if f.Equal {
		equalAspect(f.Plot, pc)
	}
	f.Plot.Draw(pc)
}

// equalAspect expands an axis
// so both axes of a plot
// are drawn at the same scale.
func equalAspect(p *plot.Plot, dc draw.Canvas) {
	da := p.DataCanvas(dc)
	w := float64(da.Max.X - da.Min.X)
	h := float64(da.Max.Y - da.Min.Y)
	dx := p.X.Max - p.X.Min
	dy := p.Y.Max - p.Y.Min
	if w <= 0 || h <= 0 || dx <= 0 || dy <= 0 {
		return
	}

	if dx/w > dy/h {
		ext := (dx/w*h - dy) / 2
		p.Y.Min -= ext
		p.Y.Max += ext
		return
	}
	ext := (dy/h*w - dx) / 2
	p.X.Min -= ext
	p.X.Max += ext
}

func (f *Figure) canvas() *vgimg.Canvas {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(f.Opt.Width)*vg.Inch, vg.Length(f.Opt.Height)*vg.Inch),
		vgimg.UseDPI(f.Opt.DPI),
	)
	f.Draw(draw.New(c))
	return c
}

// Image returns the figure
// as an image.
func (f *Figure) Image() image.Image {
	return f.canvas().Image()
}

// SavePNG writes the figure
// as a PNG image.
func (f *Figure) SavePNG(name string) (err error) {
	c := f.canvas()

	w, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := w.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("when encoding image file %q: %v", name, err)
	}
	return nil
}

// WriteGIF writes a set of images
// as an animated GIF.
// The delay between frames
// is in hundredths of a second.
func WriteGIF(w io.Writer, frames []image.Image, delay int, loop bool) error {
	if len(frames) == 0 {
		return fmt.Errorf("animation without frames")
	}

	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(frames)),
		Delay: make([]int, 0, len(frames)),
	}
	if !loop {
		anim.LoopCount = -1
	}
	for _, img := range frames {
		b := img.Bounds()
		pi := image.NewPaletted(b, palette.Plan9)
		imgdraw.FloydSteinberg.Draw(pi, b, img, b.Min)
		anim.Image = append(anim.Image, pi)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, anim)
}
