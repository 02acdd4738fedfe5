// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sumcmd

import (
	"fmt"
	"strings"

	"github.com/js-arias/resplot/simcase"
	"github.com/js-arias/resplot/slide"
	"github.com/js-arias/resplot/summary"
	"github.com/js-arias/resplot/variable"
)

// timeUnits are the number of units in a day.
var timeUnits = map[string]float64{
	"s": 86400,
	"h": 24,
	"d": 1,
	"w": 1.0 / 7,
	"y": 1.0 / 365.25,
}

// convertTime converts a time in days
// to the given units.
func convertTime(days []float64, units string) ([]float64, error) {
	f, ok := timeUnits[strings.ToLower(units)]
	if !ok {
		return nil, fmt.Errorf("unknown time units %q", units)
	}
	t := make([]float64, len(days))
	for i, d := range days {
		t[i] = d * f
	}
	return t, nil
}

// evalSummary evaluates an expression
// over the vectors of a summary.
func evalSummary(s *summary.Summary, e *variable.Expr) ([]float64, error) {
	lookup := func(r variable.Ref) ([]float64, error) {
		if r.Tagged {
			return nil, fmt.Errorf("vector %q: restart tags are not valid in summary vectors", r)
		}
		return s.Vector(r.Name)
	}
	return e.Eval(s.Len(), lookup)
}

// units returns the units label of an expression
// over summary vectors.
func units(s *summary.Summary, e *variable.Expr) string {
	if !e.IsRef() {
		return ""
	}
	u := s.Units(e.Names()[0].Name)
	if u == "" {
		return ""
	}
	return "[" + strings.ToLower(u) + "]"
}

// sensorSeries returns the values of a variable
// reduced over the cells of a sensor
// at each restart,
// and the time of each restart.
func sensorSeries(c *simcase.Case, e *variable.Expr, sel slide.Selection, how slide.How) (times, values []float64, err error) {
	g, err := c.Grid()
	if err != nil {
		return nil, nil, err
	}
	times, err = c.RestartTimes()
	if err != nil {
		return nil, nil, err
	}

	opt := slide.Options{How: how}
	if e.IsRef() {
		opt.Kind = slide.FieldKind(e.Names()[0].Name)
	}
	if how == slide.PVMean {
		opt.PoreVolume, err = c.PoreVolume()
		if err != nil {
			return nil, nil, err
		}
	}

	values = make([]float64, len(times))
	for r := range times {
		field, err := c.Evaluate(e, r)
		if err != nil {
			return nil, nil, fmt.Errorf("restart %d: %v", r, err)
		}
		v, err := slide.Reduce(g, field, sel, opt)
		if err != nil {
			return nil, nil, err
		}
		values[r] = v
	}
	return times, values, nil
}

// parseSensors parses a list of sensors
// separated by spaces.
func parseSensors(s string, nx, ny, nz int) ([]slide.Selection, error) {
	var sensors []slide.Selection
	for _, f := range strings.Fields(s) {
		sel, err := slide.Parse(f, nx, ny, nz)
		if err != nil {
			return nil, err
		}
		if !sel.IsSensor() {
			return nil, fmt.Errorf("%w: %q: not a sensor", slide.ErrSlide, f)
		}
		sensors = append(sensors, sel)
	}
	return sensors, nil
}
