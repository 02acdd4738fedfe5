// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package ecl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// Read reads an unformatted keyword file.
//
// An unformatted file is a sequence of Fortran records
// (a payload between two big-endian 32 bit length markers).
// Each keyword starts with a 16 byte header record
// (the keyword name in 8 characters,
// the number of elements as a 32 bit integer,
// and the type in 4 characters)
// followed by the data records.
// Data is stored in blocks of 1000 elements
// except for character data,
// stored in blocks of 105 elements.
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	f := New()
	for {
		head, err := readRecord(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("keyword %d: header: %v", len(f.Keywords)+1, err)
		}
		if len(head) != 16 {
			return nil, fmt.Errorf("keyword %d: header size %d, want 16", len(f.Keywords)+1, len(head))
		}

		name := strings.TrimSpace(string(head[:8]))
		n := int(int32(binary.BigEndian.Uint32(head[8:12])))
		tp := Type(strings.ToUpper(string(head[12:16])))
		if n < 0 {
			return nil, fmt.Errorf("keyword %q: invalid number of elements %d", name, n)
		}

		kw, err := readData(br, name, n, tp)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %v", name, err)
		}
		f.Add(kw)
	}
	return f, nil
}

func readRecord(r io.Reader) ([]byte, error) {
	var mark [4]byte
	if _, err := io.ReadFull(r, mark[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, io.ErrUnexpectedEOF
	}
	sz := int(int32(binary.BigEndian.Uint32(mark[:])))
	if sz < 0 {
		return nil, fmt.Errorf("invalid record size %d", sz)
	}
	// the buffer grows with the data read
	// so a corrupt marker cannot force a huge allocation
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(sz)); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	var tail [4]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	if end := int(int32(binary.BigEndian.Uint32(tail[:]))); end != sz {
		return nil, fmt.Errorf("record markers mismatch: %d, %d", sz, end)
	}
	return buf.Bytes(), nil
}

func readData(r io.Reader, name string, n int, tp Type) (*Keyword, error) {
	sz, err := tp.Size()
	if err != nil {
		return nil, err
	}
	kw := &Keyword{Name: name, Type: tp}
	if tp == Mess || sz == 0 {
		return kw, nil
	}

	want := n * sz
	var data []byte
	for len(data) < want {
		rec, err := readRecord(r)
		if err != nil {
			return nil, fmt.Errorf("data: found %d elements, want %d: %v", len(data)/sz, n, err)
		}
		if len(rec)%sz != 0 {
			return nil, fmt.Errorf("data record of %d bytes, not a multiple of %d", len(rec), sz)
		}
		if len(data)+len(rec) > want {
			return nil, fmt.Errorf("found %d elements, want %d", (len(data)+len(rec))/sz, n)
		}
		data = append(data, rec...)
	}
	if len(data) != n*sz {
		return nil, fmt.Errorf("found %d elements, want %d", len(data)/sz, n)
	}

	switch {
	case tp == Inte:
		v := make([]int32, n)
		for i := range v {
			v[i] = int32(binary.BigEndian.Uint32(data[i*4:]))
		}
		kw.Data = v
	case tp == Real:
		v := make([]float32, n)
		for i := range v {
			v[i] = math.Float32frombits(binary.BigEndian.Uint32(data[i*4:]))
		}
		kw.Data = v
	case tp == Doub:
		v := make([]float64, n)
		for i := range v {
			v[i] = math.Float64frombits(binary.BigEndian.Uint64(data[i*8:]))
		}
		kw.Data = v
	case tp == Logi:
		v := make([]bool, n)
		for i := range v {
			v[i] = binary.BigEndian.Uint32(data[i*4:]) != 0
		}
		kw.Data = v
	case tp.IsChar():
		v := make([]string, n)
		for i := range v {
			v[i] = string(data[i*sz : (i+1)*sz])
		}
		kw.Data = v
	}
	return kw, nil
}

// Write writes an unformatted keyword file.
func Write(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	for _, kw := range f.Keywords {
		if err := writeKeyword(bw, kw); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}

func writeKeyword(w io.Writer, kw *Keyword) error {
	if err := kw.check(); err != nil {
		return err
	}
	sz, err := kw.Type.Size()
	if err != nil {
		return fmt.Errorf("keyword %q: %v", kw.Name, err)
	}

	head := make([]byte, 16)
	copy(head, fmt.Sprintf("%-8s", kw.Name))
	binary.BigEndian.PutUint32(head[8:], uint32(int32(kw.Len())))
	copy(head[12:], fmt.Sprintf("%-4s", string(kw.Type)))
	if err := writeRecord(w, head); err != nil {
		return fmt.Errorf("keyword %q: %v", kw.Name, err)
	}

	n := kw.Len()
	blk := kw.Type.block()
	for start := 0; start < n; start += blk {
		end := start + blk
		if end > n {
			end = n
		}
		buf := make([]byte, (end-start)*sz)
		for i := start; i < end; i++ {
			p := buf[(i-start)*sz:]
			switch d := kw.Data.(type) {
			case []int32:
				binary.BigEndian.PutUint32(p, uint32(d[i]))
			case []float32:
				binary.BigEndian.PutUint32(p, math.Float32bits(d[i]))
			case []float64:
				binary.BigEndian.PutUint64(p, math.Float64bits(d[i]))
			case []bool:
				var v uint32
				if d[i] {
					v = math.MaxUint32
				}
				binary.BigEndian.PutUint32(p, v)
			case []string:
				s := d[i]
				if len(s) > sz {
					s = s[:sz]
				}
				copy(p[:sz], s+strings.Repeat(" ", sz-len(s)))
			}
		}
		if err := writeRecord(w, buf); err != nil {
			return fmt.Errorf("keyword %q: %v", kw.Name, err)
		}
	}
	return nil
}

func writeRecord(w io.Writer, p []byte) error {
	var mark [4]byte
	binary.BigEndian.PutUint32(mark[:], uint32(len(p)))
	if _, err := w.Write(mark[:]); err != nil {
		return err
	}
	if _, err := w.Write(p); err != nil {
		return err
	}
	_, err := w.Write(mark[:])
	return err
}
