// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package simcase implements a simulation case:
// the collection of files
// produced by a reservoir simulation.
//
// By default the files of a case
// share a base name
// with the extension defining the kind of file
// (for example SPE11B.EGRID and SPE11B.UNRST).
// Cases with files that do not follow this convention
// can be defined with a case file:
// a tab-delimited file (TSV)
// with the path of each dataset.
package simcase

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/js-arias/resplot/deck"
	"github.com/js-arias/resplot/ecl"
	"github.com/js-arias/resplot/grid"
	"github.com/js-arias/resplot/summary"
)

// Dataset is a keyword to identify
// the type of a dataset file in a case.
type Dataset string

// Valid dataset types.
const (
	// Grid geometry.
	EGrid Dataset = "egrid"

	// Static properties.
	Init Dataset = "init"

	// Dynamic properties at each restart.
	UnRst Dataset = "unrst"

	// Summary specification.
	SMSpec Dataset = "smspec"

	// Summary data.
	UnSmry Dataset = "unsmry"

	// Input deck.
	Deck Dataset = "deck"
)

// file extensions of each dataset
var extensions = map[Dataset][]string{
	EGrid:  {".EGRID", ".FEGRID"},
	Init:   {".INIT", ".FINIT"},
	UnRst:  {".UNRST", ".FUNRST"},
	SMSpec: {".SMSPEC", ".FSMSPEC"},
	UnSmry: {".UNSMRY", ".FUNSMRY"},
	Deck:   {".DATA"},
}

// ParseDataset returns a dataset type
// from its name.
func ParseDataset(s string) (Dataset, error) {
	set := Dataset(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := extensions[set]; !ok {
		return "", fmt.Errorf("unknown dataset %q", s)
	}
	return set, nil
}

// A Case represents a collection of paths
// for the datasets of a simulation.
type Case struct {
	name  string
	base  string
	paths map[Dataset]string

	mu      sync.Mutex
	geom    *grid.Grid
	static  *ecl.File
	restart *ecl.File
	reports []int
	sum     *summary.Summary
	input   *deck.Deck
	fields  map[string][]float64
}

// New creates a new empty case.
func New() *Case {
	return &Case{
		paths:  make(map[Dataset]string),
		fields: make(map[string][]float64),
	}
}

// Discover creates a case
// from the files that share a base name.
// The base name can include a known extension,
// that will be ignored.
// It is an error if no file is found.
func Discover(base string) (*Case, error) {
	base = trimExt(base)
	c := New()
	c.base = filepath.Base(base)
	for set, exts := range extensions {
		for _, ext := range exts {
			for _, e := range []string{ext, strings.ToLower(ext)} {
				path := base + e
				if _, err := os.Stat(path); err != nil {
					continue
				}
				c.paths[set] = path
				break
			}
			if c.paths[set] != "" {
				break
			}
		}
	}
	if len(c.paths) == 0 {
		return nil, fmt.Errorf("case %q: no simulation files found", base)
	}
	return c, nil
}

func trimExt(name string) string {
	ext := strings.ToUpper(filepath.Ext(name))
	for _, exts := range extensions {
		for _, e := range exts {
			if e == ext {
				return strings.TrimSuffix(name, filepath.Ext(name))
			}
		}
	}
	return name
}

// Open opens a case.
// If the name is a case file
// (with extension .tab, .tsv or .txt)
// the case is read from the file,
// otherwise the case is discovered
// from the base name.
func Open(name string) (*Case, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tab", ".tsv", ".txt":
		return Read(name)
	}
	return Discover(name)
}

var header = []string{
	"dataset",
	"path",
}

// Read reads a case file from a TSV file.
//
// The TSV must contain the following fields:
//
//   - dataset, for the kind of file
//   - path, for the path of the file
//
// Here is an example file:
//
//	# resplot case files
//	dataset	path
//	egrid	output/SPE11B.EGRID
//	init	output/SPE11B.INIT
//	unrst	output/SPE11B.UNRST
//	deck	SPE11B.DATA
func Read(name string) (*Case, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	c := New()
	c.name = name
	c.base = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		f := "dataset"
		s := Dataset(strings.ToLower(row[fields[f]]))
		if _, ok := extensions[s]; !ok {
			return nil, fmt.Errorf("on file %q: on row %d: unknown dataset %q", name, ln, s)
		}

		f = "path"
		path := row[fields[f]]
		c.paths[s] = path
	}

	return c, nil
}

// Add adds a filepath of a dataset to a given case.
// It returns the previous value
// for the dataset.
func (c *Case) Add(set Dataset, path string) string {
	prev := c.paths[set]
	if path == "" {
		delete(c.paths, set)
		return prev
	}

	c.paths[set] = path
	return prev
}

// Path returns the path of the given dataset.
func (c *Case) Path(set Dataset) string {
	return c.paths[set]
}

// Sets returns the datasets defined on a case.
func (c *Case) Sets() []Dataset {
	var sets []Dataset
	for s := range c.paths {
		sets = append(sets, s)
	}
	slices.Sort(sets)
	return sets
}

// Name returns the name of the case.
func (c *Case) Name() string {
	return c.base
}

// SetName sets the case file name.
func (c *Case) SetName(name string) {
	c.name = name
	if c.base == "" {
		c.base = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
}

// Write writes a case into a file.
func (c *Case) Write() (err error) {
	f, err := os.Create(c.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# resplot case files\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", c.name, err)
	}

	sets := c.Sets()
	for _, s := range sets {
		row := []string{
			string(s),
			c.paths[s],
		}
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", c.name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", c.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", c.name, err)
	}
	return nil
}
