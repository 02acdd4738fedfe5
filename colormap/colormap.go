// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package colormap implements color gradients
// used to paint the values of a map.
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/js-arias/blind"
)

// Gradienter is an interface for types
// that return a color gradient.
// Values are expected in the [0, 1] interval.
type Gradienter interface {
	Gradient(v float64) color.Color
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GrayScale returns a gray scale
// between 0 (black)
// and 255 (white).
type GrayScale struct{}

func (g GrayScale) Gradient(v float64) color.Color {
	c := uint8(math.Round(clamp(v) * 255))
	return color.RGBA{c, c, c, 255}
}

// Incandescent is the incandescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_incandescent>.
type Incandescent struct{}

func (i Incandescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Incandescent, clamp(v))
}

// Iridescent is the iridescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_iridescent>.
type Iridescent struct{}

func (i Iridescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Iridescent, clamp(v))
}

// RainbowPurpleToRed is the rainbow color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_rainbow_smooth>
// starting at purple and ending at red.
type RainbowPurpleToRed struct{}

func (r RainbowPurpleToRed) Gradient(v float64) color.Color {
	return blind.Sequential(blind.RainbowPurpleToRed, clamp(v))
}

// Reverse is a gradient
// with the colors in reverse order.
type Reverse struct {
	G Gradienter
}

func (r Reverse) Gradient(v float64) color.Color {
	return r.G.Gradient(1 - clamp(v))
}

// Discrete is a gradient
// with a limited number of colors.
type Discrete struct {
	G Gradienter
	N int
}

func (d Discrete) Gradient(v float64) color.Color {
	if d.N < 2 {
		return d.G.Gradient(clamp(v))
	}
	i := math.Floor(clamp(v) * float64(d.N))
	if i >= float64(d.N) {
		i = float64(d.N - 1)
	}
	return d.G.Gradient(i / float64(d.N-1))
}

// A stop is a color at a position
// of a gradient.
type stop struct {
	at float64
	c  [3]float64
}

// stops is a gradient
// that interpolates linearly between color stops.
type stops []stop

func (s stops) Gradient(v float64) color.Color {
	v = clamp(v)
	for i := 1; i < len(s); i++ {
		if v > s[i].at {
			continue
		}
		a, b := s[i-1], s[i]
		t := (v - a.at) / (b.at - a.at)
		return rgb(
			a.c[0]+t*(b.c[0]-a.c[0]),
			a.c[1]+t*(b.c[1]-a.c[1]),
			a.c[2]+t*(b.c[2]-a.c[2]),
		)
	}
	last := s[len(s)-1].c
	return rgb(last[0], last[1], last[2])
}

// segments is a gradient
// defined independently for each channel.
type segments [3][][2]float64

func (s segments) Gradient(v float64) color.Color {
	v = clamp(v)
	var c [3]float64
	for ch, pts := range s {
		c[ch] = pts[len(pts)-1][1]
		for i := 1; i < len(pts); i++ {
			if v > pts[i][0] {
				continue
			}
			a, b := pts[i-1], pts[i]
			t := (v - a[0]) / (b[0] - a[0])
			c[ch] = a[1] + t*(b[1]-a[1])
			break
		}
	}
	return rgb(c[0], c[1], c[2])
}

// palette is a qualitative set of colors.
type palette []color.RGBA

func (p palette) Gradient(v float64) color.Color {
	i := int(clamp(v) * float64(len(p)))
	if i >= len(p) {
		i = len(p) - 1
	}
	return p[i]
}

// fn is a gradient defined
// by a function for each channel.
type fn func(v float64) (r, g, b float64)

func (f fn) Gradient(v float64) color.Color {
	return rgb(f(clamp(v)))
}

func rgb(r, g, b float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(clamp(r) * 255)),
		G: uint8(math.Round(clamp(g) * 255)),
		B: uint8(math.Round(clamp(b) * 255)),
		A: 255,
	}
}

func hex(s string) color.RGBA {
	var c color.RGBA
	fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	c.A = 255
	return c
}

// ParseColor parses a color
// in the hexadecimal form "#rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	var c color.RGBA
	if _, err := fmt.Sscanf(strings.ToLower(s), "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %v", s, err)
	}
	c.A = 255
	return c, nil
}

var jet = segments{
	{{0, 0}, {0.35, 0}, {0.66, 1}, {0.89, 1}, {1, 0.5}},
	{{0, 0}, {0.125, 0}, {0.375, 1}, {0.64, 1}, {0.91, 0}, {1, 0}},
	{{0, 0.5}, {0.11, 1}, {0.34, 1}, {0.65, 0}, {1, 0}},
}

var nipySpectral = segments{
	{{0, 0}, {0.05, 0.4667}, {0.10, 0.5333}, {0.15, 0}, {0.60, 0}, {0.65, 0.7333}, {0.70, 0.9333}, {0.75, 1}, {0.85, 1}, {0.90, 0.8667}, {0.95, 0.80}, {1, 0.80}},
	{{0, 0}, {0.20, 0}, {0.25, 0.4667}, {0.30, 0.6000}, {0.35, 0.6667}, {0.40, 0.6667}, {0.45, 0.6000}, {0.50, 0.7333}, {0.55, 0.8667}, {0.60, 1}, {0.65, 1}, {0.70, 0.9333}, {0.75, 0.8000}, {0.80, 0.6000}, {0.85, 0}, {0.95, 0}, {1, 0.80}},
	{{0, 0}, {0.05, 0.5333}, {0.10, 0.6000}, {0.15, 0.6667}, {0.20, 0.8667}, {0.30, 0.8667}, {0.35, 0.6667}, {0.40, 0.5333}, {0.45, 0}, {0.95, 0}, {1, 0.80}},
}

var terrain = stops{
	{0, [3]float64{0.2, 0.2, 0.6}},
	{0.15, [3]float64{0, 0.6, 1}},
	{0.25, [3]float64{0, 0.8, 0.4}},
	{0.50, [3]float64{1, 1, 0.6}},
	{0.75, [3]float64{0.5, 0.36, 0.33}},
	{1, [3]float64{1, 1, 1}},
}

var viridis = func() stops {
	hx := []string{"#440154", "#472c7a", "#3b518b", "#2c718e", "#21908d", "#27ad81", "#5cc863", "#aadc32", "#fde725"}
	s := make(stops, len(hx))
	for i, h := range hx {
		c := hex(h)
		s[i] = stop{
			at: float64(i) / float64(len(hx)-1),
			c:  [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255},
		}
	}
	return s
}()

var tab20b = func() palette {
	hx := []string{
		"#393b79", "#5254a3", "#6b6ecf", "#9c9ede",
		"#637939", "#8ca252", "#b5cf6b", "#cedb9c",
		"#8c6d31", "#bd9e39", "#e7ba52", "#e7cb94",
		"#843c39", "#ad494a", "#d6616b", "#e7969c",
		"#7b4173", "#a55194", "#ce6dbd", "#de9ed6",
	}
	p := make(palette, len(hx))
	for i, h := range hx {
		p[i] = hex(h)
	}
	return p
}()

// gnuplot is the traditional gnuplot scheme.
var gnuplot = fn(func(v float64) (r, g, b float64) {
	return math.Sqrt(v), v * v * v, math.Sin(2 * math.Pi * v)
})

// turbo is the polynomial approximation
// of the turbo color scheme
// <https://research.google/blog/turbo-an-improved-rainbow-colormap-for-visualization/>.
var turbo = fn(func(v float64) (r, g, b float64) {
	poly := func(c ...float64) float64 {
		var s float64
		for i := len(c) - 1; i >= 0; i-- {
			s = s*v + c[i]
		}
		return s
	}
	r = poly(0.13572138, 4.61539260, -42.66032258, 132.13108234, -152.94239396, 59.28637943)
	g = poly(0.09140261, 2.19418839, 4.84296658, -14.18503333, 4.27729857, 2.82956604)
	b = poly(0.10667330, 12.64194608, -60.58204836, 110.36276771, -89.90310912, 27.34824973)
	return r, g, b
})

var byName = map[string]Gradienter{
	"gnuplot":       gnuplot,
	"gray":          GrayScale{},
	"incandescent":  Incandescent{},
	"iridescent":    Iridescent{},
	"jet":           jet,
	"nipy_spectral": nipySpectral,
	"rainbow":       RainbowPurpleToRed{},
	"tab20b":        tab20b,
	"terrain":       terrain,
	"turbo":         turbo,
	"viridis":       viridis,
}

// ByName returns a gradient by its name.
// A name with the suffix "_r"
// returns the reversed gradient.
func ByName(name string) (Gradienter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	rev := false
	if n, ok := strings.CutSuffix(name, "_r"); ok {
		name = n
		rev = true
	}
	g, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown color map %q", name)
	}
	if rev {
		return Reverse{G: g}, nil
	}
	return g, nil
}

// Names returns the names of the defined gradients.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// IsQualitative returns true if the named gradient
// is a set of discrete colors.
func IsQualitative(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "_r")
	_, ok := byName[name].(palette)
	return ok
}
