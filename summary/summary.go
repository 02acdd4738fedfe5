// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package summary reads the summary vectors
// of a simulation
// from the specification (SMSPEC)
// and data (UNSMRY) keyword files.
//
// Vectors are identified by keys
// built from the keyword and its associated entity:
//
//	FOPR            field and miscellaneous vectors
//	WBHP:PROD       well and group vectors
//	RGIP:3          region vectors
//	BPR:1,2,3       block vectors (1-based cell indexes)
//	CWIR:INJ:10     completion vectors (cell number)
//	AAQR:1          aquifer vectors
package summary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/js-arias/resplot/ecl"
	"golang.org/x/exp/slices"
)

// ErrNoVector is the error returned
// when a vector is not in the summary.
var ErrNoVector = errors.New("vector not found")

// Summary is a collection of summary vectors.
type Summary struct {
	keys  []string
	units map[string]string
	index map[string]int
	data  [][]float64
}

// dummy well name used for vectors
// without an entity.
const dummyWell = ":+:+:+:+"

// Read reads a summary
// from the specification and data files.
func Read(spec, data *ecl.File) (*Summary, error) {
	kws, err := spec.Strings("KEYWORDS", 0)
	if err != nil {
		return nil, fmt.Errorf("SMSPEC: %v", err)
	}
	names, err := spec.Strings("WGNAMES", 0)
	if err != nil {
		names, err = spec.Strings("NAMES", 0)
		if err != nil {
			names = make([]string, len(kws))
		}
	}
	nums, err := spec.Ints("NUMS", 0)
	if err != nil {
		nums = make([]int, len(kws))
	}
	units, err := spec.Strings("UNITS", 0)
	if err != nil {
		units = make([]string, len(kws))
	}
	if len(names) != len(kws) || len(nums) != len(kws) || len(units) != len(kws) {
		return nil, fmt.Errorf("SMSPEC: inconsistent definition of %d vectors", len(kws))
	}

	nx, ny := 1, 1
	if dims, err := spec.Ints("DIMENS", 0); err == nil && len(dims) >= 3 {
		nx, ny = dims[1], dims[2]
	}

	s := &Summary{
		units: make(map[string]string),
		index: make(map[string]int),
	}
	cols := make([]int, len(kws))
	for i, kw := range kws {
		cols[i] = -1
		key := vectorKey(kw, names[i], nums[i], nx, ny)
		if key == "" {
			continue
		}
		up := strings.ToUpper(key)
		if _, ok := s.index[up]; ok {
			continue
		}
		cols[i] = len(s.keys)
		s.index[up] = len(s.keys)
		s.keys = append(s.keys, key)
		s.units[up] = units[i]
	}

	s.data = make([][]float64, len(s.keys))
	for occ, p := range data.All("PARAMS") {
		v, err := p.Floats()
		if err != nil {
			return nil, fmt.Errorf("UNSMRY: PARAMS %d: %v", occ, err)
		}
		if len(v) != len(kws) {
			return nil, fmt.Errorf("UNSMRY: PARAMS %d: found %d values, want %d", occ, len(v), len(kws))
		}
		for i, x := range v {
			if cols[i] < 0 {
				continue
			}
			s.data[cols[i]] = append(s.data[cols[i]], x)
		}
	}
	return s, nil
}

// vectorKey returns the key of a vector.
// It returns an empty string
// for vectors without a valid entity.
func vectorKey(kw, name string, num, nx, ny int) string {
	kw = strings.TrimSpace(kw)
	name = strings.TrimSpace(name)
	if kw == "" {
		return ""
	}
	switch kw[0] {
	case 'F':
		return kw
	case 'W', 'G':
		if name == "" || name == dummyWell {
			return ""
		}
		return kw + ":" + name
	case 'R':
		if num < 1 {
			return ""
		}
		return kw + ":" + strconv.Itoa(num)
	case 'A':
		if num < 1 {
			return ""
		}
		return kw + ":" + strconv.Itoa(num)
	case 'B':
		if num < 1 {
			return ""
		}
		i := (num-1)%nx + 1
		j := ((num-1)/nx)%ny + 1
		k := (num-1)/(nx*ny) + 1
		return fmt.Sprintf("%s:%d,%d,%d", kw, i, j, k)
	case 'C':
		if name == "" || name == dummyWell || num < 1 {
			return ""
		}
		return fmt.Sprintf("%s:%s:%d", kw, name, num)
	}
	return kw
}

// Keys returns the keys of the vectors,
// sorted alphabetically.
func (s *Summary) Keys() []string {
	keys := slices.Clone(s.keys)
	slices.Sort(keys)
	return keys
}

// Has returns true if the summary has a vector.
func (s *Summary) Has(key string) bool {
	_, ok := s.index[strings.ToUpper(key)]
	return ok
}

// Len returns the number of time steps
// of the summary.
func (s *Summary) Len() int {
	if len(s.data) == 0 {
		return 0
	}
	return len(s.data[0])
}

// Vector returns the values of a vector.
func (s *Summary) Vector(key string) ([]float64, error) {
	i, ok := s.index[strings.ToUpper(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoVector, key)
	}
	return s.data[i], nil
}

// Units returns the units of a vector.
func (s *Summary) Units(key string) string {
	return strings.TrimSpace(s.units[strings.ToUpper(key)])
}

// Time returns the simulation time
// of each time step,
// in days.
func (s *Summary) Time() ([]float64, error) {
	return s.Vector("TIME")
}

// Write stores the vectors of a summary
// in specification and data keyword files.
// Each time step is stored as a ministep.
func (s *Summary) Write() (spec, data *ecl.File) {
	n := len(s.keys)
	kws := make([]string, n)
	names := make([]string, n)
	nums := make([]int32, n)
	units := make([]string, n)
	for i, key := range s.keys {
		kws[i], names[i], nums[i] = splitKey(key)
		units[i] = s.Units(key)
	}

	spec = ecl.New()
	spec.Add(ecl.NewStrings("KEYWORDS", kws))
	spec.Add(ecl.NewStrings("WGNAMES", names))
	spec.Add(ecl.NewInts("NUMS", nums))
	spec.Add(ecl.NewStrings("UNITS", units))

	data = ecl.New()
	for step := 0; step < s.Len(); step++ {
		data.Add(ecl.NewInts("SEQHDR", []int32{int32(step)}))
		data.Add(ecl.NewInts("MINISTEP", []int32{int32(step)}))
		p := make([]float32, n)
		for i := range s.keys {
			p[i] = float32(s.data[i][step])
		}
		data.Add(ecl.NewReals("PARAMS", p))
	}
	return spec, data
}

func splitKey(key string) (kw, name string, num int32) {
	parts := strings.Split(key, ":")
	kw = parts[0]
	name = dummyWell
	if len(parts) == 1 {
		return kw, name, 0
	}
	switch kw[0] {
	case 'W', 'G':
		return kw, parts[1], 0
	case 'C':
		v, _ := strconv.Atoi(parts[len(parts)-1])
		return kw, parts[1], int32(v)
	}
	v, _ := strconv.Atoi(parts[1])
	return kw, name, int32(v)
}

// New returns a summary
// from a set of vectors.
// All vectors must have the same length.
func New(vectors map[string][]float64, units map[string]string) (*Summary, error) {
	s := &Summary{
		units: make(map[string]string),
		index: make(map[string]int),
	}
	for key := range vectors {
		s.keys = append(s.keys, key)
	}
	slices.Sort(s.keys)

	n := -1
	for i, key := range s.keys {
		if strings.HasPrefix(key, "B") {
			return nil, fmt.Errorf("vector %q: block vectors are not supported", key)
		}
		v := vectors[key]
		if n >= 0 && len(v) != n {
			return nil, fmt.Errorf("vector %q: found %d values, want %d", key, len(v), n)
		}
		n = len(v)
		up := strings.ToUpper(key)
		s.index[up] = i
		s.units[up] = units[key]
		s.data = append(s.data, slices.Clone(v))
	}
	return s, nil
}
