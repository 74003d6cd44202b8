// Package kicadsexp provides a small S-expression reader and a
// pretty writer for the KiCad file dialect.
package kicadsexp

import (
	"math"
	"strconv"
	"strings"
)

// Sexp represents an S-expression node.
// It can be either a leaf (atom) or a list.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// LeafCount returns the number of elements in a list (1 for atoms)
	LeafCount() int

	// Head returns the first element of a list (the atom itself for atoms)
	Head() Sexp

	// Tail returns the rest of the list after the first element (nil for atoms)
	Tail() Sexp

	// String returns the string representation
	String() string
}

// Symbol is a bare atom: keyword, number or identifier
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// Quoted is a string atom written between double quotes
type Quoted string

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func (q Quoted) IsLeaf() bool   { return true }
func (q Quoted) LeafCount() int { return 1 }
func (q Quoted) Head() Sexp     { return q }
func (q Quoted) Tail() Sexp     { return nil }
func (q Quoted) String() string { return `"` + quoteEscaper.Replace(string(q)) + `"` }

// List represents a list of S-expressions
type List struct {
	elements []Sexp
}

// NewList builds a list from its elements
func NewList(items ...Sexp) *List {
	return &List{elements: items}
}

// L builds a list whose first element is the symbol head
func L(head string, items ...Sexp) *List {
	return &List{elements: append([]Sexp{Symbol(head)}, items...)}
}

// Num formats a number the way KiCad does: fixed point, at most six
// decimals, no trailing zeros.
func Num(f float64) Symbol {
	v := math.Round(f*1e6) / 1e6
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return Symbol(strconv.FormatFloat(v, 'f', -1, 64))
}

// Int formats an integer atom
func Int(i int) Symbol {
	return Symbol(strconv.Itoa(i))
}

// Append adds elements to the end of the list
func (l *List) Append(items ...Sexp) *List {
	l.elements = append(l.elements, items...)
	return l
}

// Items returns the list elements
func (l *List) Items() []Sexp {
	return l.elements
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return nil
	}
	return &List{elements: l.elements[1:]}
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Get returns the element at the given index
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.elements)
}

// AtomValue returns the text of a Symbol or Quoted atom
func AtomValue(s Sexp) (string, bool) {
	switch v := s.(type) {
	case Symbol:
		return string(v), true
	case Quoted:
		return string(v), true
	}
	return "", false
}
