package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// Writer pretty-prints S-expressions in the layout KiCad uses for its own
// files: a list that fits in MaxInline columns stays on one line; otherwise
// its leading atoms stay with the head and each nested list starts a new,
// indented line.
type Writer struct {
	w         *bufio.Writer
	Indent    string
	MaxInline int
}

// NewWriter creates a writer with two-space indentation
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:         bufio.NewWriter(w),
		Indent:    "  ",
		MaxInline: 100,
	}
}

// Write emits one top-level expression followed by a newline and flushes
func (w *Writer) Write(s Sexp) error {
	w.write(s, 0)
	w.w.WriteByte('\n')
	return w.w.Flush()
}

func (w *Writer) write(s Sexp, depth int) {
	l, ok := s.(*List)
	if !ok {
		w.w.WriteString(s.String())
		return
	}
	flat := l.String()
	if len(flat)+depth*len(w.Indent) <= w.MaxInline || !hasSublist(l) {
		w.w.WriteString(flat)
		return
	}

	w.w.WriteByte('(')
	i := 0
	for ; i < len(l.elements) && l.elements[i].IsLeaf(); i++ {
		if i > 0 {
			w.w.WriteByte(' ')
		}
		w.w.WriteString(l.elements[i].String())
	}
	pad := strings.Repeat(w.Indent, depth+1)
	for ; i < len(l.elements); i++ {
		w.w.WriteByte('\n')
		w.w.WriteString(pad)
		w.write(l.elements[i], depth+1)
	}
	w.w.WriteByte('\n')
	w.w.WriteString(strings.Repeat(w.Indent, depth))
	w.w.WriteByte(')')
}

func hasSublist(l *List) bool {
	for _, e := range l.elements {
		if !e.IsLeaf() {
			return true
		}
	}
	return false
}

// Write pretty-prints s to w with the default layout
func Write(w io.Writer, s Sexp) error {
	return NewWriter(w).Write(s)
}
