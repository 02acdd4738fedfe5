// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package deck implements a line-oriented scanner
// of the text input deck (.DATA) of a reservoir simulation.
//
// Only the keywords used for plotting are interpreted:
// grid dimensions and grid arrays,
// well completions and sources,
// faults,
// and saturation function tables.
// Any other keyword is skipped.
package deck

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// A Well is a set of completed cells
// in a column of the grid.
// Indexes start at 0.
type Well struct {
	Name   string
	I, J   int
	K1, K2 int
}

// A Fault is a fault segment.
// Indexes start at 0.
type Fault struct {
	Name   string
	I1, I2 int
	J1, J2 int
	K1, K2 int
	Face   string
}

// Deck is the interpreted content of an input deck.
type Deck struct {
	dims   [3]int
	arrays map[string][]float64
	wells  []Well
	faults []Fault
	tables map[string][][]float64

	heads map[string][2]int
	dir   string
}

// Grid array keywords.
var arrayKeys = map[string]bool{
	"ACTNUM": true,
	"DX":     true,
	"DY":     true,
	"DZ":     true,
	"EQLNUM": true,
	"FIPNUM": true,
	"MULTX":  true,
	"MULTY":  true,
	"MULTZ":  true,
	"NTG":    true,
	"PERMX":  true,
	"PERMY":  true,
	"PERMZ":  true,
	"PORO":   true,
	"PVTNUM": true,
	"SATNUM": true,
	"TOPS":   true,
}

// Keywords that edit grid arrays
// with records terminated by an empty record.
// They are skipped,
// so their records are not read as keywords.
var editKeys = map[string]bool{
	"ADD":      true,
	"ADDREG":   true,
	"COPY":     true,
	"COPYREG":  true,
	"EQUALREG": true,
	"EQUALS":   true,
	"MAXVALUE": true,
	"MINVALUE": true,
	"MULTIPLY": true,
	"MULTIREG": true,
	"MULTREGT": true,
	"OPERATE":  true,
}

// Saturation function keywords
// and their number of columns.
var tableKeys = map[string]int{
	"SGFN":  3,
	"SGOF":  4,
	"SGWFN": 4,
	"SWFN":  3,
	"SWOF":  4,
}

// ReadFile reads an input deck from a file.
// Included files are searched
// relative to the directory of the deck.
func ReadFile(name string) (*Deck, error) {
	d := newDeck(filepath.Dir(name))
	if err := d.readFile(name); err != nil {
		return nil, err
	}
	return d, nil
}

// Read reads an input deck.
// Included files are searched
// relative to the working directory.
func Read(r io.Reader) (*Deck, error) {
	d := newDeck(".")
	if err := d.read(r); err != nil {
		return nil, err
	}
	return d, nil
}

func newDeck(dir string) *Deck {
	return &Deck{
		arrays: make(map[string][]float64),
		tables: make(map[string][][]float64),
		heads:  make(map[string][2]int),
		dir:    dir,
	}
}

func (d *Deck) readFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := d.read(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

// A token is a value in a deck.
type token struct {
	s      string
	quoted bool
	first  bool // first token in the line
	line   int
}

func (t token) isEnd() bool {
	return !t.quoted && t.s == "/"
}

// isKeyword returns true if the token
// looks like a keyword.
func (t token) isKeyword() bool {
	if t.quoted || !t.first || t.s == "" || len(t.s) > 8 {
		return false
	}
	if t.s[0] < 'A' || t.s[0] > 'Z' {
		return false
	}
	for _, r := range t.s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' && r != '-' && r != '+' {
			return false
		}
	}
	return true
}

func tokenize(r io.Reader) ([]token, error) {
	var tks []token
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	ln := 0
	for s.Scan() {
		ln++
		line := s.Text()
		first := true
		for len(line) > 0 {
			line = strings.TrimLeft(line, " \t\r,")
			if line == "" || strings.HasPrefix(line, "--") {
				break
			}
			if line[0] == '\'' {
				end := strings.IndexByte(line[1:], '\'')
				if end < 0 {
					return nil, fmt.Errorf("on line %d: unterminated string", ln)
				}
				tks = append(tks, token{s: line[1 : end+1], quoted: true, first: first, line: ln})
				line = line[end+2:]
				first = false
				continue
			}
			if line[0] == '/' {
				tks = append(tks, token{s: "/", first: first, line: ln})
				line = line[1:]
				first = false
				continue
			}
			end := strings.IndexAny(line, " \t\r,/'")
			if end < 0 {
				end = len(line)
			}
			word := line[:end]
			line = line[end:]
			if i := strings.Index(word, "--"); i >= 0 {
				word = word[:i]
				line = ""
			}
			if word == "" {
				continue
			}

			// repeated values
			if i := strings.IndexByte(word, '*'); i > 0 {
				n, err := strconv.Atoi(word[:i])
				if err == nil {
					v := word[i+1:]
					for j := 0; j < n; j++ {
						tks = append(tks, token{s: v, first: first && j == 0, line: ln})
					}
					first = false
					continue
				}
			}
			tks = append(tks, token{s: word, first: first, line: ln})
			first = false
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return tks, nil
}

func (d *Deck) read(r io.Reader) error {
	tks, err := tokenize(r)
	if err != nil {
		return err
	}

	for i := 0; i < len(tks); {
		t := tks[i]
		if !t.isKeyword() {
			i++
			continue
		}
		kw := t.s
		i++
		if kw == "END" {
			break
		}

		var err error
		switch {
		case kw == "DIMENS" || kw == "SPECGRID":
			i, err = d.readDims(tks, i)
		case kw == "INCLUDE":
			i, err = d.readInclude(tks, i)
		case editKeys[kw]:
			i, err = d.readRecords(tks, i, kw, nil)
		case arrayKeys[kw]:
			i, err = d.readArray(tks, i, kw)
		case tableKeys[kw] > 0:
			i, err = d.readTables(tks, i, kw)
		case kw == "WELSPECS":
			i, err = d.readRecords(tks, i, kw, d.welspecs)
		case kw == "COMPDAT":
			i, err = d.readRecords(tks, i, kw, d.compdat)
		case kw == "SOURCE":
			i, err = d.readRecords(tks, i, kw, d.source)
		case kw == "FAULTS":
			i, err = d.readRecords(tks, i, kw, d.fault)
		}
		if err != nil {
			return fmt.Errorf("on line %d: keyword %s: %v", t.line, kw, err)
		}
	}
	return nil
}

// record returns the values of a record
// and the index of the next token
// after the record end.
func record(tks []token, i int) ([]token, int, error) {
	start := i
	for ; i < len(tks); i++ {
		if tks[i].isEnd() {
			return tks[start:i], i + 1, nil
		}
	}
	return nil, i, fmt.Errorf("record without end %q", "/")
}

func (d *Deck) readDims(tks []token, i int) (int, error) {
	rec, next, err := record(tks, i)
	if err != nil {
		return next, err
	}
	if len(rec) < 3 {
		return next, fmt.Errorf("found %d values, want 3", len(rec))
	}
	for a := 0; a < 3; a++ {
		v, err := strconv.Atoi(rec[a].s)
		if err != nil || v <= 0 {
			return next, fmt.Errorf("invalid dimension %q", rec[a].s)
		}
		d.dims[a] = v
	}
	return next, nil
}

func (d *Deck) readInclude(tks []token, i int) (int, error) {
	rec, next, err := record(tks, i)
	if err != nil {
		return next, err
	}
	if len(rec) == 0 {
		return next, fmt.Errorf("expecting file name")
	}
	name := rec[0].s
	if !filepath.IsAbs(name) {
		name = filepath.Join(d.dir, name)
	}
	return next, d.readFile(name)
}

func (d *Deck) readArray(tks []token, i int, kw string) (int, error) {
	rec, next, err := record(tks, i)
	if err != nil {
		return next, err
	}
	v := make([]float64, 0, len(rec))
	for _, t := range rec {
		x, err := parseNumber(t.s)
		if err != nil {
			return next, fmt.Errorf("line %d: %v", t.line, err)
		}
		v = append(v, x)
	}
	d.arrays[kw] = v
	return next, nil
}

func (d *Deck) readTables(tks []token, i int, kw string) (int, error) {
	var tbls [][]float64
	for i < len(tks) {
		if tks[i].isKeyword() {
			break
		}
		rec, next, err := record(tks, i)
		if err != nil {
			return next, err
		}
		i = next
		if len(rec) == 0 {
			break
		}

		v := make([]float64, 0, len(rec))
		for _, t := range rec {
			if t.s == "" {
				v = append(v, math.NaN())
				continue
			}
			x, err := parseNumber(t.s)
			if err != nil {
				return next, fmt.Errorf("table %d: line %d: %v", len(tbls)+1, t.line, err)
			}
			v = append(v, x)
		}
		if len(v)%tableKeys[kw] != 0 {
			return next, fmt.Errorf("table %d: found %d values, want a multiple of %d", len(tbls)+1, len(v), tableKeys[kw])
		}
		tbls = append(tbls, v)
	}
	d.tables[kw] = tbls
	return i, nil
}

// readRecords reads a keyword
// made of records
// and terminated by an empty record.
func (d *Deck) readRecords(tks []token, i int, kw string, fn func([]token) error) (int, error) {
	for i < len(tks) {
		rec, next, err := record(tks, i)
		if err != nil {
			return next, err
		}
		i = next
		if len(rec) == 0 {
			break
		}
		if fn == nil {
			continue
		}
		if err := fn(rec); err != nil {
			return i, fmt.Errorf("line %d: %v", rec[0].line, err)
		}
	}
	return i, nil
}

func (d *Deck) welspecs(rec []token) error {
	if len(rec) < 4 {
		return fmt.Errorf("found %d values, want at least 4", len(rec))
	}
	i, err := index(rec[2].s)
	if err != nil {
		return err
	}
	j, err := index(rec[3].s)
	if err != nil {
		return err
	}
	d.heads[rec[0].s] = [2]int{i, j}
	return nil
}

func (d *Deck) compdat(rec []token) error {
	if len(rec) < 5 {
		return fmt.Errorf("found %d values, want at least 5", len(rec))
	}
	w := Well{Name: rec[0].s}
	head, hasHead := d.heads[w.Name]
	var err error
	pos := []*int{&w.I, &w.J, &w.K1, &w.K2}
	for p, v := range pos {
		s := rec[p+1].s
		if (s == "" || s == "0") && p < 2 && hasHead {
			*v = head[p]
			continue
		}
		if *v, err = index(s); err != nil {
			return err
		}
	}
	if w.K2 < w.K1 {
		w.K1, w.K2 = w.K2, w.K1
	}
	d.wells = append(d.wells, w)
	return nil
}

func (d *Deck) source(rec []token) error {
	if len(rec) < 3 {
		return fmt.Errorf("found %d values, want at least 3", len(rec))
	}
	w := Well{Name: fmt.Sprintf("source-%d", len(d.wells)+1)}
	var err error
	if w.I, err = index(rec[0].s); err != nil {
		return err
	}
	if w.J, err = index(rec[1].s); err != nil {
		return err
	}
	if w.K1, err = index(rec[2].s); err != nil {
		return err
	}
	w.K2 = w.K1
	d.wells = append(d.wells, w)
	return nil
}

func (d *Deck) fault(rec []token) error {
	if len(rec) < 8 {
		return fmt.Errorf("found %d values, want 8", len(rec))
	}
	f := Fault{Name: rec[0].s, Face: strings.ToUpper(rec[7].s)}
	pos := []*int{&f.I1, &f.I2, &f.J1, &f.J2, &f.K1, &f.K2}
	var err error
	for p, v := range pos {
		if *v, err = index(rec[p+1].s); err != nil {
			return err
		}
	}
	d.faults = append(d.faults, f)
	return nil
}

// index parses a 1-based index.
func index(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid index %d", v)
	}
	return v - 1, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// Dims returns the grid dimensions.
// It returns false if the dimensions are not defined.
func (d *Deck) Dims() (nx, ny, nz int, ok bool) {
	if d.dims[0] == 0 {
		return 0, 0, 0, false
	}
	return d.dims[0], d.dims[1], d.dims[2], true
}

// Array returns the values of a grid array.
func (d *Deck) Array(name string) ([]float64, bool) {
	v, ok := d.arrays[strings.ToUpper(name)]
	return v, ok
}

// Arrays returns the names of the grid arrays
// defined in the deck.
func (d *Deck) Arrays() []string {
	names := make([]string, 0, len(d.arrays))
	for n := range d.arrays {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Wells returns the well completions and sources,
// in the order of the deck.
func (d *Deck) Wells() []Well {
	return d.wells
}

// Faults returns the fault segments.
func (d *Deck) Faults() []Fault {
	return d.faults
}

// Tables returns the tables of a saturation function keyword.
// Each table is a flat array of values
// (row by row).
func (d *Deck) Tables(name string) [][]float64 {
	return d.tables[strings.ToUpper(name)]
}

// Columns returns the number of columns
// of a saturation function keyword.
func Columns(name string) int {
	return tableKeys[strings.ToUpper(name)]
}
