// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pixkey implements a simple color key
// for maps of integer values,
// such as saturation or fluid-in-place regions.
package pixkey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/resplot/colormap"
)

// PixKey stores the color values
// for a cell value.
type PixKey struct {
	color map[int]color.Color
	gray  map[int]uint8
	label map[int]string
}

// New returns an empty key.
func New() *PixKey {
	return &PixKey{
		color: make(map[int]color.Color),
		gray:  make(map[int]uint8),
		label: make(map[int]string),
	}
}

// Set sets the color and label of a value.
func (pk *PixKey) Set(v int, c color.Color, label string) {
	pk.color[v] = c
	if label != "" {
		pk.label[v] = label
	}
}

// Keys returns the values with a defined color.
func (pk *PixKey) Keys() []int {
	keys := make([]int, 0, len(pk.color))
	for k := range pk.color {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Label returns the label of a value.
// If no label is defined,
// it returns the value.
func (pk *PixKey) Label(v int) string {
	if l, ok := pk.label[v]; ok {
		return l
	}
	return strconv.Itoa(v)
}

// Color returns the color associated with a given value.
// If no color is defined for the value,
// it will return transparent black.
func (pk *PixKey) Color(v int) (color.Color, bool) {
	c, ok := pk.color[v]
	if !ok {
		return color.RGBA{0, 0, 0, 0}, false
	}
	return c, true
}

// HasGrayScale returns true if a gray scale is defined
// for the keys.
func (pk *PixKey) HasGrayScale() bool {
	return len(pk.gray) > 0
}

// Gray returns the gray color associated with a given value.
// If no color is defined for the value,
// it will return transparent black.
func (pk *PixKey) Gray(v int) (color.Color, bool) {
	g, ok := pk.gray[v]
	if !ok {
		return color.RGBA{0, 0, 0, 0}, false
	}
	return color.RGBA{g, g, g, 255}, true
}

// Read reads a key file used to define the colors
// for the values of an integer field.
//
// A key file is a tab-delimited file
// with the following required columns:
//
//	-key	the value used as identifier
//	-color	an RGB value separated by commas,
//		for example "125,132,148",
//		or an hexadecimal value, such as "#7d8494".
//
// Optionally it can contain the following columns:
//
//	-gray:  for a gray scale value
//	-label: for the name used in the legend
//
// Any other columns, will be ignored.
// Here is an example of a key file:
//
//	key	color	gray	label
//	1	0, 26, 51	0	shale
//	2	0, 84, 119	40	facies 2
//	3	68, 167, 196	80	facies 3
//	4	251, 236, 93	120	facies 4
//	5	255, 165, 0	160	facies 5
//	6	229, 229, 224	200	facies 6
//	7	120, 120, 120	240	facies 7
func Read(name string) (*PixKey, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pk, err := ReadKeys(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return pk, nil
}

// ReadKeys reads a key table from a reader.
func ReadKeys(r io.Reader) (*PixKey, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'
	tsv.FieldsPerRecord = -1

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	cols := make(map[string]int, len(head))
	for i, h := range head {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["key"]; !ok {
		return nil, errors.New("header: missing column \"key\"")
	}
	if _, ok := cols["color"]; !ok {
		return nil, errors.New("header: missing column \"color\"")
	}
	get := func(row []string, col string) (string, bool) {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	pk := New()
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		v, _ := get(row, "key")
		k, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("on row %d: key: %v", ln, err)
		}
		v, _ = get(row, "color")
		c, err := parseColor(v)
		if err != nil {
			return nil, fmt.Errorf("on row %d: key %d: %v", ln, k, err)
		}
		label, _ := get(row, "label")
		pk.Set(k, c, label)

		v, ok := get(row, "gray")
		if !ok || v == "" {
			continue
		}
		g, err := channel(v)
		if err != nil {
			return nil, fmt.Errorf("on row %d: key %d: gray: %v", ln, k, err)
		}
		pk.gray[k] = g
	}
	return pk, nil
}

// parseColor reads a color
// either as "#rrggbb",
// or as three comma separated values.
func parseColor(s string) (color.RGBA, error) {
	if strings.HasPrefix(s, "#") {
		return colormap.ParseColor(s)
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("color %q: want 3 values, found %d", s, len(parts))
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := channel(p)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %v", s, err)
		}
		rgb[i] = v
	}
	return color.RGBA{rgb[0], rgb[1], rgb[2], 255}, nil
}

func channel(s string) (uint8, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("value %d out of range [0, 255]", v)
	}
	return uint8(v), nil
}
