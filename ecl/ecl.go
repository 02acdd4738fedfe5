// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package ecl implements reading and writing
// of keyword-record files
// produced by reservoir flow simulators
// (EGRID, INIT, UNRST, SMSPEC, UNSMRY,
// and their formatted variants).
//
// A keyword file is a sequence of keywords,
// each keyword has a name of up to eight characters,
// a data type,
// and an array of values.
package ecl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoKeyword is returned when a keyword
// is not found in a file.
var ErrNoKeyword = errors.New("keyword not found")

// Type is the data type of a keyword.
type Type string

// Valid keyword types.
// Character types of arbitrary length
// are written as "C0nn",
// for example "C008".
const (
	Inte Type = "INTE" // 32 bit integers
	Real Type = "REAL" // 32 bit floats
	Doub Type = "DOUB" // 64 bit floats
	Logi Type = "LOGI" // logicals
	Char Type = "CHAR" // strings of 8 characters
	Mess Type = "MESS" // a message (no data)
)

// Number of elements on each data block.
const (
	numBlock  = 1000
	charBlock = 105
)

// Size returns the size, in bytes,
// of an element of the type.
func (t Type) Size() (int, error) {
	switch t {
	case Inte, Real, Logi:
		return 4, nil
	case Doub, Char:
		return 8, nil
	case Mess:
		return 0, nil
	}
	if len(t) == 4 && t[0] == 'C' {
		sz, err := strconv.Atoi(string(t[1:]))
		if err == nil && sz > 0 {
			return sz, nil
		}
	}
	return 0, fmt.Errorf("unknown type %q", string(t))
}

// IsChar returns true if the type stores strings.
func (t Type) IsChar() bool {
	return t == Char || (len(t) == 4 && t[0] == 'C')
}

func (t Type) block() int {
	if t.IsChar() {
		return charBlock
	}
	return numBlock
}

// A Keyword is a named array of values.
type Keyword struct {
	Name string
	Type Type

	// Data is one of []int32, []float32, []float64,
	// []bool, or []string,
	// depending on the type.
	// It is nil for messages.
	Data any
}

// NewInts returns an integer keyword.
func NewInts(name string, v []int32) *Keyword {
	return &Keyword{Name: canon(name), Type: Inte, Data: v}
}

// NewReals returns a single precision keyword.
func NewReals(name string, v []float32) *Keyword {
	return &Keyword{Name: canon(name), Type: Real, Data: v}
}

// NewDoubles returns a double precision keyword.
func NewDoubles(name string, v []float64) *Keyword {
	return &Keyword{Name: canon(name), Type: Doub, Data: v}
}

// NewBools returns a logical keyword.
func NewBools(name string, v []bool) *Keyword {
	return &Keyword{Name: canon(name), Type: Logi, Data: v}
}

// NewStrings returns a keyword of 8 character strings.
func NewStrings(name string, v []string) *Keyword {
	return &Keyword{Name: canon(name), Type: Char, Data: v}
}

// NewMessage returns a message keyword.
func NewMessage(name string) *Keyword {
	return &Keyword{Name: canon(name), Type: Mess}
}

// Len returns the number of elements of the keyword.
func (kw *Keyword) Len() int {
	switch d := kw.Data.(type) {
	case []int32:
		return len(d)
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	case []bool:
		return len(d)
	case []string:
		return len(d)
	}
	return 0
}

// Floats returns the values of a numeric keyword
// as float64.
func (kw *Keyword) Floats() ([]float64, error) {
	switch d := kw.Data.(type) {
	case []int32:
		v := make([]float64, len(d))
		for i, x := range d {
			v[i] = float64(x)
		}
		return v, nil
	case []float32:
		v := make([]float64, len(d))
		for i, x := range d {
			v[i] = float64(x)
		}
		return v, nil
	case []float64:
		v := make([]float64, len(d))
		copy(v, d)
		return v, nil
	}
	return nil, fmt.Errorf("keyword %q: type %s is not numeric", kw.Name, kw.Type)
}

// Ints returns the values of an integer or logical keyword.
// Logical true is 1.
func (kw *Keyword) Ints() ([]int, error) {
	switch d := kw.Data.(type) {
	case []int32:
		v := make([]int, len(d))
		for i, x := range d {
			v[i] = int(x)
		}
		return v, nil
	case []bool:
		v := make([]int, len(d))
		for i, x := range d {
			if x {
				v[i] = 1
			}
		}
		return v, nil
	}
	return nil, fmt.Errorf("keyword %q: type %s is not integer", kw.Name, kw.Type)
}

// Strings returns the values of a character keyword,
// without trailing spaces.
func (kw *Keyword) Strings() ([]string, error) {
	d, ok := kw.Data.([]string)
	if !ok {
		return nil, fmt.Errorf("keyword %q: type %s is not character", kw.Name, kw.Type)
	}
	v := make([]string, len(d))
	for i, s := range d {
		v[i] = strings.TrimRight(s, " ")
	}
	return v, nil
}

func (kw *Keyword) check() error {
	if kw.Name == "" || len(kw.Name) > 8 {
		return fmt.Errorf("invalid keyword name %q", kw.Name)
	}
	var ok bool
	switch {
	case kw.Type == Mess:
		ok = kw.Data == nil
	case kw.Type == Inte:
		_, ok = kw.Data.([]int32)
	case kw.Type == Real:
		_, ok = kw.Data.([]float32)
	case kw.Type == Doub:
		_, ok = kw.Data.([]float64)
	case kw.Type == Logi:
		_, ok = kw.Data.([]bool)
	case kw.Type.IsChar():
		_, ok = kw.Data.([]string)
	}
	if !ok {
		return fmt.Errorf("keyword %q: data %T does not match type %s", kw.Name, kw.Data, kw.Type)
	}
	return nil
}

// A File is an ordered collection of keywords.
type File struct {
	Keywords []*Keyword

	index map[string][]int
}

// New returns an empty file.
func New() *File {
	return &File{index: make(map[string][]int)}
}

// Add adds a keyword at the end of the file.
func (f *File) Add(kw *Keyword) {
	if f.index == nil {
		f.reindex()
	}
	kw.Name = canon(kw.Name)
	f.index[kw.Name] = append(f.index[kw.Name], len(f.Keywords))
	f.Keywords = append(f.Keywords, kw)
}

func (f *File) reindex() {
	f.index = make(map[string][]int)
	for i, kw := range f.Keywords {
		f.index[kw.Name] = append(f.index[kw.Name], i)
	}
}

// Count returns the number of occurrences
// of a keyword.
func (f *File) Count(name string) int {
	if f.index == nil {
		f.reindex()
	}
	return len(f.index[canon(name)])
}

// Has returns true if the keyword is in the file.
func (f *File) Has(name string) bool {
	return f.Count(name) > 0
}

// Get returns the given occurrence of a keyword.
// Occurrences start at 0,
// a negative occurrence returns the last one.
func (f *File) Get(name string, occ int) (*Keyword, error) {
	if f.index == nil {
		f.reindex()
	}
	name = canon(name)
	ids := f.index[name]
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoKeyword, name)
	}
	if occ < 0 {
		occ = len(ids) - 1
	}
	if occ >= len(ids) {
		return nil, fmt.Errorf("%w: %q occurrence %d (found %d)", ErrNoKeyword, name, occ, len(ids))
	}
	return f.Keywords[ids[occ]], nil
}

// All returns all the occurrences of a keyword.
func (f *File) All(name string) []*Keyword {
	if f.index == nil {
		f.reindex()
	}
	ids := f.index[canon(name)]
	kws := make([]*Keyword, 0, len(ids))
	for _, i := range ids {
		kws = append(kws, f.Keywords[i])
	}
	return kws
}

// Floats returns the values of a numeric keyword occurrence.
func (f *File) Floats(name string, occ int) ([]float64, error) {
	kw, err := f.Get(name, occ)
	if err != nil {
		return nil, err
	}
	return kw.Floats()
}

// Ints returns the values of an integer keyword occurrence.
func (f *File) Ints(name string, occ int) ([]int, error) {
	kw, err := f.Get(name, occ)
	if err != nil {
		return nil, err
	}
	return kw.Ints()
}

// Strings returns the values of a character keyword occurrence.
func (f *File) Strings(name string, occ int) ([]string, error) {
	kw, err := f.Get(name, occ)
	if err != nil {
		return nil, err
	}
	return kw.Strings()
}

// Names returns the keyword names
// in order of first appearance.
func (f *File) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, kw := range f.Keywords {
		if seen[kw.Name] {
			continue
		}
		seen[kw.Name] = true
		names = append(names, kw.Name)
	}
	return names
}

// IsFormatted returns true if the file name
// corresponds to a formatted (ASCII) file,
// for example "CASE.FEGRID" or "CASE.FUNRST".
func IsFormatted(name string) bool {
	ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "FEGRID", "FINIT", "FUNRST", "FSMSPEC", "FUNSMRY", "FGRID":
		return true
	}
	return false
}

// ReadFile reads a keyword file,
// using the formatted reader
// if the extension indicates a formatted file.
func ReadFile(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var kf *File
	if IsFormatted(name) {
		kf, err = ReadFormatted(f)
	} else {
		kf, err = Read(f)
	}
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return kf, nil
}

// WriteFile writes a keyword file,
// using the formatted writer
// if the extension indicates a formatted file.
func WriteFile(name string, kf *File) (err error) {
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

	if IsFormatted(name) {
		err = WriteFormatted(f, kf)
	} else {
		err = Write(f, kf)
	}
	if err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func canon(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
