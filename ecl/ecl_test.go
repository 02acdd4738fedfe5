// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package ecl_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/js-arias/resplot/ecl"
)

func newFile() *ecl.File {
	f := ecl.New()

	big := make([]int32, 2500)
	for i := range big {
		big[i] = int32(i - 10)
	}
	f.Add(ecl.NewInts("gridhead", []int32{1, 3, 2, 4}))
	f.Add(ecl.NewInts("ACTNUM", big))
	f.Add(ecl.NewReals("PORV", []float32{0, 1.5, 2.25, 1e5}))
	f.Add(ecl.NewDoubles("DOUBHEAD", []float64{0.5, 365.25, -1.125}))
	f.Add(ecl.NewBools("LOGIHEAD", []bool{true, false, true}))

	names := make([]string, 230)
	for i := range names {
		names[i] = "FOPR"
	}
	names[229] = "WBHP"
	f.Add(ecl.NewStrings("KEYWORDS", names))
	f.Add(ecl.NewMessage("ENDGRID"))
	f.Add(ecl.NewReals("PORV", []float32{3, 4, 5, 6}))
	f.Add(ecl.NewInts("EMPTY", []int32{}))
	return f
}

func TestUnformatted(t *testing.T) {
	f := newFile()

	var buf bytes.Buffer
	if err := ecl.Write(&buf, f); err != nil {
		t.Fatalf("unable to write data: %v", err)
	}

	nf, err := ecl.Read(&buf)
	if err != nil {
		t.Fatalf("unable to read data: %v", err)
	}
	testFile(t, "unformatted", nf, f)
}

func TestFormatted(t *testing.T) {
	f := newFile()

	var buf bytes.Buffer
	if err := ecl.WriteFormatted(&buf, f); err != nil {
		t.Fatalf("unable to write data: %v", err)
	}

	nf, err := ecl.ReadFormatted(&buf)
	if err != nil {
		t.Logf("input data:\n%s\n", buf.String())
		t.Fatalf("unable to read data: %v", err)
	}
	testFile(t, "formatted", nf, f)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	f := newFile()
	for _, name := range []string{"CASE.INIT", "CASE.FINIT"} {
		path := filepath.Join(dir, name)
		if err := ecl.WriteFile(path, f); err != nil {
			t.Fatalf("%s: unable to write data: %v", name, err)
		}
		nf, err := ecl.ReadFile(path)
		if err != nil {
			t.Fatalf("%s: unable to read data: %v", name, err)
		}
		testFile(t, name, nf, f)
	}
}

func testFile(t testing.TB, name string, got, want *ecl.File) {
	t.Helper()

	if !reflect.DeepEqual(got.Names(), want.Names()) {
		t.Fatalf("%s: names: got %v, want %v", name, got.Names(), want.Names())
	}
	if n := got.Count("porv"); n != 2 {
		t.Errorf("%s: PORV count: got %d, want %d", name, n, 2)
	}

	for _, kw := range want.Keywords {
		for occ := 0; occ < want.Count(kw.Name); occ++ {
			w, _ := want.Get(kw.Name, occ)
			g, err := got.Get(kw.Name, occ)
			if err != nil {
				t.Errorf("%s: %s[%d]: %v", name, kw.Name, occ, err)
				continue
			}
			if g.Type != w.Type {
				t.Errorf("%s: %s[%d]: type: got %q, want %q", name, kw.Name, occ, g.Type, w.Type)
			}
			if g.Len() != w.Len() {
				t.Errorf("%s: %s[%d]: length: got %d, want %d", name, kw.Name, occ, g.Len(), w.Len())
				continue
			}
			if w.Type.IsChar() {
				ws, _ := w.Strings()
				gs, _ := g.Strings()
				if !reflect.DeepEqual(gs, ws) {
					t.Errorf("%s: %s[%d]: got %v, want %v", name, kw.Name, occ, gs, ws)
				}
				continue
			}
			if !reflect.DeepEqual(g.Data, w.Data) {
				t.Errorf("%s: %s[%d]: got %v, want %v", name, kw.Name, occ, g.Data, w.Data)
			}
		}
	}

	last, err := got.Floats("PORV", -1)
	if err != nil {
		t.Fatalf("%s: last PORV: %v", name, err)
	}
	if !reflect.DeepEqual(last, []float64{3, 4, 5, 6}) {
		t.Errorf("%s: last PORV: got %v, want %v", name, last, []float64{3, 4, 5, 6})
	}
	head, err := got.Ints("GRIDHEAD", 0)
	if err != nil {
		t.Fatalf("%s: GRIDHEAD: %v", name, err)
	}
	if !reflect.DeepEqual(head, []int{1, 3, 2, 4}) {
		t.Errorf("%s: GRIDHEAD: got %v, want %v", name, head, []int{1, 3, 2, 4})
	}
}

func TestMissingKeyword(t *testing.T) {
	f := newFile()
	if _, err := f.Get("SWAT", 0); !errors.Is(err, ecl.ErrNoKeyword) {
		t.Errorf("missing keyword: got error %v, want %v", err, ecl.ErrNoKeyword)
	}
	if _, err := f.Get("PORV", 2); !errors.Is(err, ecl.ErrNoKeyword) {
		t.Errorf("missing occurrence: got error %v, want %v", err, ecl.ErrNoKeyword)
	}
	if _, err := f.Floats("KEYWORDS", 0); err == nil {
		t.Errorf("character keyword as floats: expecting error")
	}
}

func TestTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := ecl.Write(&buf, newFile()); err != nil {
		t.Fatalf("unable to write data: %v", err)
	}
	data := buf.Bytes()
	if _, err := ecl.Read(bytes.NewReader(data[:len(data)-30])); err == nil {
		t.Errorf("truncated file: expecting error")
	}

	// corrupt the tail marker of the first header
	bad := append([]byte{}, data...)
	bad[20] = 0xff
	if _, err := ecl.Read(bytes.NewReader(bad)); err == nil {
		t.Errorf("bad record marker: expecting error")
	}
}

func TestHugeCount(t *testing.T) {
	record := func(p []byte) []byte {
		var m [4]byte
		binary.BigEndian.PutUint32(m[:], uint32(len(p)))
		r := append([]byte{}, m[:]...)
		r = append(r, p...)
		return append(r, m[:]...)
	}

	head := make([]byte, 16)
	copy(head, "PORV    ")
	binary.BigEndian.PutUint32(head[8:], 0x7fffffff)
	copy(head[12:], "DOUB")
	if _, err := ecl.Read(bytes.NewReader(record(head))); err == nil {
		t.Errorf("header without data: expecting error")
	}

	// a record larger than the declared count
	head = make([]byte, 16)
	copy(head, "PORV    ")
	binary.BigEndian.PutUint32(head[8:], 1)
	copy(head[12:], "DOUB")
	data := append(record(head), record(make([]byte, 16))...)
	if _, err := ecl.Read(bytes.NewReader(data)); err == nil {
		t.Errorf("record with extra elements: expecting error")
	}

	// a record marker larger than the file
	var m [4]byte
	binary.BigEndian.PutUint32(m[:], 0x7ffffff0)
	if _, err := ecl.Read(bytes.NewReader(m[:])); err == nil {
		t.Errorf("huge record marker: expecting error")
	}
}

func TestIsFormatted(t *testing.T) {
	tests := map[string]bool{
		"SPE11B.EGRID":  false,
		"SPE11B.FEGRID": true,
		"case.funrst":   true,
		"case.UNRST":    false,
		"case.FSMSPEC":  true,
	}
	for name, want := range tests {
		if got := ecl.IsFormatted(name); got != want {
			t.Errorf("%s: got %v, want %v", name, got, want)
		}
	}
}
