// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package style implements the plot properties
// of the mapped variables
// and the figure options.
package style

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Props are the plot properties of a variable.
type Props struct {
	// Units is the text added to the color bar
	// (or the axis) label.
	Units string `yaml:"units"`

	// ColorMap is the name of the color gradient.
	ColorMap string `yaml:"colormap"`

	// Format is the format used for tick labels.
	Format string `yaml:"format"`

	// Log sets a logarithmic color scale.
	Log bool `yaml:"log"`

	// Label replaces the variable name
	// in titles and legends.
	Label string `yaml:"label"`
}

// Lookup returns the default properties of a variable.
func Lookup(name string) Props {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "depth" || name == "dx" || name == "dy" || name == "dz":
		return Props{Units: "[m]", ColorMap: "jet", Format: "%.2e"}
	case name == "porv":
		return Props{Units: "[m^3]", ColorMap: "terrain", Format: "%.2e"}
	case name == "permx" || name == "permy" || name == "permz":
		return Props{Units: "[mD]", ColorMap: "turbo", Format: "%.0f"}
	case strings.Contains(name, "num"):
		return Props{Units: "[-]", ColorMap: "tab20b", Format: "%.0f"}
	case name == "poro":
		return Props{Units: "[-]", ColorMap: "gnuplot", Format: "%.1f"}
	}
	return Props{Units: "[-]", ColorMap: "gnuplot", Format: "%.2f"}
}

// Options are the options of a figure.
type Options struct {
	// FontSize is the size of the text,
	// in points.
	FontSize float64 `yaml:"font-size"`

	// Width and Height of the figure,
	// in inches.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// DPI is the resolution of raster images.
	DPI int `yaml:"dpi"`

	// Scale keeps the same scale
	// on both axes of a map.
	Scale bool `yaml:"scale"`

	// Axis limits,
	// as a pair of values.
	XLim []float64 `yaml:"xlim"`
	YLim []float64 `yaml:"ylim"`

	// Variables are the properties
	// that override the default properties
	// of a variable.
	Variables map[string]Props `yaml:"variables"`
}

// Default returns the default figure options.
func Default() *Options {
	return &Options{
		FontSize: 12,
		Width:    8,
		Height:   6,
		DPI:      150,
		Scale:    true,
	}
}

// Props returns the properties of a variable,
// with the values defined in the options
// taking precedence over the default values.
func (o *Options) Props(name string) Props {
	p := Lookup(name)
	v, ok := o.Variables[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return p
	}
	if v.Units != "" {
		p.Units = v.Units
	}
	if v.ColorMap != "" {
		p.ColorMap = v.ColorMap
	}
	if v.Format != "" {
		p.Format = v.Format
	}
	if v.Label != "" {
		p.Label = v.Label
	}
	p.Log = p.Log || v.Log
	return p
}

// ReadYAML reads a style file
// and sets the values defined in the file.
// Values not defined in the file
// are left as they are.
//
// Here is an example of a style file:
//
//	font-size: 14
//	width: 10
//	height: 4
//	scale: false
//	variables:
//	  pressure:
//	    units: "[bar]"
//	    colormap: viridis
//	    format: "%.1f"
//	  permx:
//	    log: true
func (o *Options) ReadYAML(r io.Reader) error {
	var f struct {
		FontSize  *float64         `yaml:"font-size"`
		Width     *float64         `yaml:"width"`
		Height    *float64         `yaml:"height"`
		DPI       *int             `yaml:"dpi"`
		Scale     *bool            `yaml:"scale"`
		XLim      []float64        `yaml:"xlim"`
		YLim      []float64        `yaml:"ylim"`
		Variables map[string]Props `yaml:"variables"`
	}
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&f); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	if f.FontSize != nil {
		if *f.FontSize <= 0 {
			return fmt.Errorf("invalid font size %g", *f.FontSize)
		}
		o.FontSize = *f.FontSize
	}
	if f.Width != nil {
		if *f.Width <= 0 {
			return fmt.Errorf("invalid width %g", *f.Width)
		}
		o.Width = *f.Width
	}
	if f.Height != nil {
		if *f.Height <= 0 {
			return fmt.Errorf("invalid height %g", *f.Height)
		}
		o.Height = *f.Height
	}
	if f.DPI != nil {
		if *f.DPI <= 0 {
			return fmt.Errorf("invalid resolution %d", *f.DPI)
		}
		o.DPI = *f.DPI
	}
	if f.Scale != nil {
		o.Scale = *f.Scale
	}
	if f.XLim != nil {
		if len(f.XLim) != 2 {
			return fmt.Errorf("xlim: found %d values, want 2", len(f.XLim))
		}
		o.XLim = f.XLim
	}
	if f.YLim != nil {
		if len(f.YLim) != 2 {
			return fmt.Errorf("ylim: found %d values, want 2", len(f.YLim))
		}
		o.YLim = f.YLim
	}
	if len(f.Variables) > 0 && o.Variables == nil {
		o.Variables = make(map[string]Props, len(f.Variables))
	}
	for n, p := range f.Variables {
		o.Variables[strings.ToLower(strings.TrimSpace(n))] = p
	}
	return nil
}

// ReadFile reads a style file
// over the default options.
func ReadFile(name string) (*Options, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	o := Default()
	if err := o.ReadYAML(f); err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return o, nil
}

// Open returns the options of a style file,
// or the default options
// if no file is given.
func Open(name string) (*Options, error) {
	if name == "" {
		return Default(), nil
	}
	return ReadFile(name)
}

// ParseLim parses an axis limit
// given as two comma-separated values.
func ParseLim(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v := strings.Split(s, ",")
	if len(v) != 2 {
		return nil, fmt.Errorf("invalid limit %q: want two values", s)
	}
	var lim [2]float64
	for i, x := range v {
		if _, err := fmt.Sscan(strings.TrimSpace(x), &lim[i]); err != nil {
			return nil, fmt.Errorf("invalid limit %q: %v", s, err)
		}
	}
	if lim[0] == lim[1] {
		return nil, fmt.Errorf("invalid limit %q: empty interval", s)
	}
	return lim[:], nil
}

// SplitLabels splits a list of labels.
// If the list contains two consecutive spaces,
// labels are separated by two or more spaces,
// so a label can contain single spaces,
// for example "Left corner  Middle  Right corner".
// Otherwise labels are separated by spaces.
func SplitLabels(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !strings.Contains(s, "  ") {
		return strings.Fields(s)
	}
	var labels []string
	for _, l := range strings.Split(s, "  ") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}
