// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package ecl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadFormatted reads a formatted (ASCII) keyword file.
//
// Each keyword starts with a header line
// with the quoted keyword name,
// the number of elements,
// and the quoted type,
// for example:
//
//	'PORV    '        1000 'REAL'
//
// followed by the values,
// separated by spaces.
// Character values are quoted.
// Double precision values might use a 'D' exponent.
func ReadFormatted(r io.Reader) (*File, error) {
	tk := &tokenizer{r: bufio.NewReader(r), line: 1}
	f := New()
	for {
		name, err := tk.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("on line %d: %v", tk.line, err)
		}
		ln := tk.line
		cnt, err := tk.next()
		if err != nil {
			return nil, fmt.Errorf("on line %d: keyword %q: %v", ln, name, err)
		}
		n, err := strconv.Atoi(cnt)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("on line %d: keyword %q: invalid number of elements %q", ln, name, cnt)
		}
		ts, err := tk.next()
		if err != nil {
			return nil, fmt.Errorf("on line %d: keyword %q: %v", ln, name, err)
		}
		tp := Type(strings.ToUpper(strings.TrimSpace(ts)))
		if _, err := tp.Size(); err != nil {
			return nil, fmt.Errorf("on line %d: keyword %q: %v", ln, name, err)
		}

		kw, err := readFormattedData(tk, strings.TrimSpace(name), n, tp)
		if err != nil {
			return nil, fmt.Errorf("on line %d: keyword %q: %v", tk.line, name, err)
		}
		f.Add(kw)
	}
	return f, nil
}

func readFormattedData(tk *tokenizer, name string, n int, tp Type) (*Keyword, error) {
	kw := &Keyword{Name: name, Type: tp}
	if tp == Mess {
		return kw, nil
	}

	var ints []int32
	var reals []float32
	var doubs []float64
	var bools []bool
	var strs []string
	for i := 0; i < n; i++ {
		s, err := tk.next()
		if err != nil {
			return nil, fmt.Errorf("value %d: %v", i+1, err)
		}
		switch {
		case tp == Inte:
			v, err := strconv.ParseInt(s, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("value %d: %v", i+1, err)
			}
			ints = append(ints, int32(v))
		case tp == Real:
			v, err := parseFloat(s, 32)
			if err != nil {
				return nil, fmt.Errorf("value %d: %v", i+1, err)
			}
			reals = append(reals, float32(v))
		case tp == Doub:
			v, err := parseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("value %d: %v", i+1, err)
			}
			doubs = append(doubs, v)
		case tp == Logi:
			switch strings.ToUpper(strings.Trim(s, ".")) {
			case "T", "TRUE":
				bools = append(bools, true)
			case "F", "FALSE":
				bools = append(bools, false)
			default:
				return nil, fmt.Errorf("value %d: invalid logical %q", i+1, s)
			}
		case tp.IsChar():
			strs = append(strs, s)
		}
	}

	switch {
	case tp == Inte:
		kw.Data = nonNil(ints)
	case tp == Real:
		kw.Data = nonNil(reals)
	case tp == Doub:
		kw.Data = nonNil(doubs)
	case tp == Logi:
		kw.Data = nonNil(bools)
	case tp.IsChar():
		kw.Data = nonNil(strs)
	}
	return kw, nil
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func parseFloat(s string, bits int) (float64, error) {
	s = strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, s)
	return strconv.ParseFloat(s, bits)
}

// A tokenizer splits a formatted file
// into space separated tokens
// or quoted strings.
type tokenizer struct {
	r    *bufio.Reader
	line int
}

func (tk *tokenizer) next() (string, error) {
	// skip spaces
	var c rune
	for {
		var err error
		c, _, err = tk.r.ReadRune()
		if err != nil {
			return "", err
		}
		if c == '\n' {
			tk.line++
			continue
		}
		if c != ' ' && c != '\t' && c != '\r' {
			break
		}
	}

	var sb strings.Builder
	if c == '\'' {
		for {
			c, _, err := tk.r.ReadRune()
			if err != nil {
				return "", fmt.Errorf("unterminated string: %v", io.ErrUnexpectedEOF)
			}
			if c == '\'' {
				return sb.String(), nil
			}
			if c == '\n' {
				tk.line++
			}
			sb.WriteRune(c)
		}
	}

	sb.WriteRune(c)
	for {
		c, _, err := tk.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			tk.r.UnreadRune()
			return sb.String(), nil
		}
		sb.WriteRune(c)
	}
}

// WriteFormatted writes a formatted keyword file.
func WriteFormatted(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	for _, kw := range f.Keywords {
		if err := kw.check(); err != nil {
			return err
		}
		fmt.Fprintf(bw, " '%-8s' %11d '%-4s'\n", kw.Name, kw.Len(), string(kw.Type))

		perLine := 6
		switch {
		case kw.Type == Real:
			perLine = 4
		case kw.Type == Doub:
			perLine = 3
		case kw.Type == Logi:
			perLine = 25
		case kw.Type.IsChar():
			perLine = 7
		}
		sz, _ := kw.Type.Size()

		n := kw.Len()
		for i := 0; i < n; i++ {
			switch d := kw.Data.(type) {
			case []int32:
				fmt.Fprintf(bw, " %11d", d[i])
			case []float32:
				fmt.Fprintf(bw, " %16.8E", d[i])
			case []float64:
				s := fmt.Sprintf(" %22.14E", d[i])
				bw.WriteString(strings.Replace(s, "E", "D", 1))
			case []bool:
				if d[i] {
					bw.WriteString("  T")
				} else {
					bw.WriteString("  F")
				}
			case []string:
				s := d[i]
				if len(s) > sz {
					s = s[:sz]
				}
				fmt.Fprintf(bw, " '%-*s'", sz, s)
			}
			if (i+1)%perLine == 0 || i == n-1 {
				bw.WriteString("\n")
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
