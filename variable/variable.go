// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package variable implements arithmetic expressions
// over the fields of a simulation.
//
// An expression is made of numbers,
// field names,
// and binary operators.
// A field name prefixed with an integer
// (for example "0pressure")
// refers to the field at that restart.
package variable

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrSyntax is the error returned
// for a malformed expression.
var ErrSyntax = errors.New("invalid expression")

// A Ref is a reference to a field
// in an expression.
type Ref struct {
	Name string

	// Restart is the restart of the field.
	// It is only valid if Tagged is true,
	// otherwise the field is taken
	// from the restart in use.
	Restart int
	Tagged  bool
}

func (r Ref) String() string {
	if r.Tagged {
		return strconv.Itoa(r.Restart) + r.Name
	}
	return r.Name
}

// Lookup is a function that returns the values
// of a referenced field.
type Lookup func(r Ref) ([]float64, error)

// Expr is a parsed expression.
type Expr struct {
	src  string
	root *node
}

type node struct {
	op    string
	left  *node
	right *node

	num   float64
	ref   *Ref
	paren bool
}

// Parse parses an expression.
func Parse(s string) (*Expr, error) {
	tks, err := lex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
	}
	if len(tks) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	p := &parser{tks: tks}
	root, err := p.expr(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
	}
	if p.pos < len(p.tks) {
		return nil, fmt.Errorf("%w: %q: unexpected %q", ErrSyntax, s, p.tks[p.pos].s)
	}
	return &Expr{src: strings.TrimSpace(s), root: root}, nil
}

// String returns the expression source.
func (e *Expr) String() string {
	return e.src
}

// IsRef returns true if the expression
// is a single field reference.
func (e *Expr) IsRef() bool {
	return e.root.ref != nil
}

// Names returns the field references
// of the expression,
// in the order of the expression.
func (e *Expr) Names() []Ref {
	var refs []Ref
	seen := make(map[Ref]bool)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		if n.ref != nil {
			if !seen[*n.ref] {
				seen[*n.ref] = true
				refs = append(refs, *n.ref)
			}
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(e.root)
	return refs
}

var opNames = map[string]string{
	"+":  "+",
	"-":  "-",
	"*":  "x",
	"/":  "d",
	">":  "gt",
	"<":  "lt",
	">=": "ge",
	"<=": "le",
	"==": "eq",
	"!=": "ne",
}

// Name returns a name for the expression
// usable in file names.
func (e *Expr) Name() string {
	var sb strings.Builder
	var walk func(n *node)
	walk = func(n *node) {
		if n.paren {
			sb.WriteString("(")
			defer sb.WriteString(")")
		}
		switch {
		case n.ref != nil:
			sb.WriteString(n.ref.String())
		case n.op == "neg":
			sb.WriteString("-")
			walk(n.left)
		case n.op != "":
			walk(n.left)
			sb.WriteString(opNames[n.op])
			walk(n.right)
		default:
			sb.WriteString(strconv.FormatFloat(n.num, 'g', -1, 64))
		}
	}
	walk(e.root)
	return sb.String()
}

// Eval evaluates the expression
// over n elements.
// Numbers are used for all elements.
func (e *Expr) Eval(n int, lookup Lookup) ([]float64, error) {
	return eval(e.root, n, lookup)
}

func eval(nd *node, n int, lookup Lookup) ([]float64, error) {
	if nd.ref != nil {
		v, err := lookup(*nd.ref)
		if err != nil {
			return nil, err
		}
		if len(v) != n {
			return nil, fmt.Errorf("field %q: found %d values, want %d", nd.ref, len(v), n)
		}
		return append([]float64{}, v...), nil
	}
	if nd.op == "" {
		v := make([]float64, n)
		for i := range v {
			v[i] = nd.num
		}
		return v, nil
	}

	left, err := eval(nd.left, n, lookup)
	if err != nil {
		return nil, err
	}
	if nd.op == "neg" {
		for i, x := range left {
			left[i] = -x
		}
		return left, nil
	}
	right, err := eval(nd.right, n, lookup)
	if err != nil {
		return nil, err
	}
	for i, x := range left {
		left[i] = apply(nd.op, x, right[i])
	}
	return left, nil
}

func apply(op string, x, y float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}
	switch op {
	case "+":
		return x + y
	case "-":
		return x - y
	case "*":
		return x * y
	case "/":
		return x / y
	case ">":
		return boolValue(x > y)
	case "<":
		return boolValue(x < y)
	case ">=":
		return boolValue(x >= y)
	case "<=":
		return boolValue(x <= y)
	case "==":
		return boolValue(x == y)
	case "!=":
		return boolValue(x != y)
	}
	return math.NaN()
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// A Filter is a set of conditions
// that a cell must fulfill.
type Filter struct {
	conds []*Expr
}

// ParseFilter parses a filter
// made of one or more conditions
// joined by "&",
// for example "fipnum >= 2 & fipnum != 4".
//
// An empty string returns a nil filter,
// that accepts any cell.
func ParseFilter(s string) (*Filter, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	f := &Filter{}
	for _, c := range strings.Split(s, "&") {
		e, err := Parse(c)
		if err != nil {
			return nil, err
		}
		f.conds = append(f.conds, e)
	}
	return f, nil
}

// ParseFilters parses a comma-separated list of filters,
// for example ",fipnum >= 2 & fipnum != 4,satnum == 5".
// An empty element is a filter
// that keeps all the cells
// (a nil filter).
func ParseFilters(s string) ([]*Filter, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var fs []*Filter
	for _, p := range split(s) {
		f, err := ParseFilter(p)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", p, err)
		}
		fs = append(fs, f)
	}
	return fs, nil
}

// Names returns the fields used by the filter.
func (f *Filter) Names() []Ref {
	if f == nil {
		return nil
	}
	var refs []Ref
	for _, c := range f.conds {
		refs = append(refs, c.Names()...)
	}
	return refs
}

// Apply returns a copy of the values
// in which the elements that do not fulfill
// the filter conditions are set to NaN.
func (f *Filter) Apply(values []float64, lookup Lookup) ([]float64, error) {
	v := append([]float64{}, values...)
	if f == nil {
		return v, nil
	}
	for _, c := range f.conds {
		ok, err := c.Eval(len(v), lookup)
		if err != nil {
			return nil, err
		}
		for i, x := range ok {
			if x == 0 || math.IsNaN(x) {
				v[i] = math.NaN()
			}
		}
	}
	return v, nil
}

// A token is an element of an expression.
type token struct {
	s   string
	num bool
	ref *Ref
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == ':' || r == ','
}

func lex(s string) ([]token, error) {
	var tks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(' || r == ')' || r == '+' || r == '-' || r == '*' || r == '/':
			tks = append(tks, token{s: string(r)})
			i++
		case r == '>' || r == '<' || r == '=' || r == '!':
			if i+1 < len(rs) && rs[i+1] == '=' {
				tks = append(tks, token{s: string(rs[i : i+2])})
				i += 2
				continue
			}
			if r == '=' || r == '!' {
				return nil, fmt.Errorf("unknown operator %q", string(r))
			}
			tks = append(tks, token{s: string(r)})
			i++
		case unicode.IsDigit(r) || r == '.':
			j := numberEnd(rs, i)
			num := string(rs[i:j])
			if j < len(rs) && (unicode.IsLetter(rs[j]) || rs[j] == '_') {
				// restart tag
				rst, err := strconv.Atoi(num)
				if err != nil {
					return nil, fmt.Errorf("invalid restart %q", num)
				}
				k := j
				for k < len(rs) && isNameRune(rs[k]) {
					k++
				}
				tks = append(tks, token{s: string(rs[i:k]), ref: &Ref{Name: string(rs[j:k]), Restart: rst, Tagged: true}})
				i = k
				continue
			}
			if _, err := strconv.ParseFloat(num, 64); err != nil {
				return nil, fmt.Errorf("invalid number %q", num)
			}
			tks = append(tks, token{s: num, num: true})
			i = j
		case unicode.IsLetter(r) || r == '_':
			k := i
			for k < len(rs) && isNameRune(rs[k]) {
				k++
			}
			tks = append(tks, token{s: string(rs[i:k]), ref: &Ref{Name: string(rs[i:k])}})
			i = k
		default:
			return nil, fmt.Errorf("unexpected character %q", string(r))
		}
	}
	return tks, nil
}

// numberEnd returns the end of a number
// that starts at i.
func numberEnd(rs []rune, i int) int {
	j := i
	for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
		j++
	}
	if j < len(rs) && (rs[j] == 'e' || rs[j] == 'E') {
		k := j + 1
		if k < len(rs) && (rs[k] == '+' || rs[k] == '-') {
			k++
		}
		if k < len(rs) && unicode.IsDigit(rs[k]) {
			for k < len(rs) && unicode.IsDigit(rs[k]) {
				k++
			}
			return k
		}
	}
	return j
}

// operator precedence
var prec = map[string]int{
	">":  1,
	"<":  1,
	">=": 1,
	"<=": 1,
	"==": 1,
	"!=": 1,
	"+":  2,
	"-":  2,
	"*":  3,
	"/":  3,
}

type parser struct {
	tks []token
	pos int
}

func (p *parser) expr(minPrec int) (*node, error) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.tks) {
		op := p.tks[p.pos].s
		pr, ok := prec[op]
		if !ok || p.tks[p.pos].ref != nil || p.tks[p.pos].num || pr <= minPrec {
			break
		}
		p.pos++
		right, err := p.expr(pr)
		if err != nil {
			return nil, err
		}
		left = &node{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) primary() (*node, error) {
	if p.pos >= len(p.tks) {
		return nil, errors.New("unexpected end of expression")
	}
	t := p.tks[p.pos]
	p.pos++
	switch {
	case t.ref != nil:
		return &node{ref: t.ref}, nil
	case t.num:
		v, _ := strconv.ParseFloat(t.s, 64)
		return &node{num: v}, nil
	case t.s == "-":
		n, err := p.primary()
		if err != nil {
			return nil, err
		}
		return &node{op: "neg", left: n}, nil
	case t.s == "(":
		n, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.tks) || p.tks[p.pos].s != ")" {
			return nil, errors.New("missing closing parenthesis")
		}
		p.pos++
		n.paren = true
		return n, nil
	}
	return nil, fmt.Errorf("unexpected %q", t.s)
}

// Split splits a comma-separated list of expressions.
// Commas between the indexes of a name
// (as in "bpr:1,1,1")
// are kept as part of the name.
func Split(s string) []string {
	var ls []string
	for _, e := range split(s) {
		if e != "" {
			ls = append(ls, e)
		}
	}
	return ls
}

// split is like Split
// but keeps the empty elements.
func split(s string) []string {
	var ls []string
	rs := []rune(s)
	start := 0
	inIdx := false
	for i, r := range rs {
		switch {
		case r == ':':
			inIdx = true
			continue
		case unicode.IsDigit(r):
			continue
		case r != ',':
			if !isNameRune(r) {
				inIdx = false
			}
			continue
		}
		if inIdx && i > 0 && unicode.IsDigit(rs[i-1]) && i+1 < len(rs) && unicode.IsDigit(rs[i+1]) {
			continue
		}
		inIdx = false
		ls = append(ls, strings.TrimSpace(string(rs[start:i])))
		start = i + 1
	}
	return append(ls, strings.TrimSpace(string(rs[start:])))
}
