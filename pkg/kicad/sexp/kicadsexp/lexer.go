package kicadsexp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is wrapped by every parse error
var ErrSyntax = errors.New("s-expression syntax error")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOpen
	tokClose
	tokSymbol
	tokString
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokOpen:
		return "'('"
	case tokClose:
		return "')'"
	case tokSymbol:
		return "symbol"
	case tokString:
		return "string"
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Pos is a 1-based line and column
type Pos struct {
	Line, Col int
}

func (p Pos) String() string {
	return fmt.Sprintf("line %d:%d", p.Line, p.Col)
}

type token struct {
	kind tokenKind
	text string
	pos  Pos
}

// scanner splits KiCad s-expression text into tokens. KiCad files are small
// enough to hold in memory, so it walks a string rather than a reader.
type scanner struct {
	src  string
	off  int
	line int
	col  int
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1, col: 1}
}

func (s *scanner) errorf(p Pos, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrSyntax, p, fmt.Sprintf(format, args...))
}

func (s *scanner) pos() Pos { return Pos{Line: s.line, Col: s.col} }

func (s *scanner) advance() byte {
	c := s.src[s.off]
	s.off++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

// skip drops whitespace and '#' line comments
func (s *scanner) skip() {
	for s.off < len(s.src) {
		switch c := s.src[s.off]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.advance()
		case c == '#':
			for s.off < len(s.src) && s.src[s.off] != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *scanner) next() (token, error) {
	s.skip()
	start := s.pos()
	if s.off >= len(s.src) {
		return token{kind: tokEOF, pos: start}, nil
	}
	switch s.src[s.off] {
	case '(':
		s.advance()
		return token{kind: tokOpen, text: "(", pos: start}, nil
	case ')':
		s.advance()
		return token{kind: tokClose, text: ")", pos: start}, nil
	case '"':
		text, err := s.quoted(start)
		return token{kind: tokString, text: text, pos: start}, err
	}
	begin := s.off
	for s.off < len(s.src) && !isDelim(s.src[s.off]) {
		s.advance()
	}
	return token{kind: tokSymbol, text: s.src[begin:s.off], pos: start}, nil
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '"':
		return true
	}
	return false
}

// quoted reads a double-quoted string. Both backslash escapes and the
// doubled-quote form written by older KiCad versions are accepted.
func (s *scanner) quoted(start Pos) (string, error) {
	s.advance()
	var b strings.Builder
	for {
		if s.off >= len(s.src) {
			return "", s.errorf(start, "unterminated string")
		}
		c := s.advance()
		switch c {
		case '"':
			if s.off < len(s.src) && s.src[s.off] == '"' {
				s.advance()
				b.WriteByte('"')
				continue
			}
			return b.String(), nil
		case '\\':
			if s.off >= len(s.src) {
				return "", s.errorf(start, "unterminated escape")
			}
			b.WriteByte(unescape(s.advance()))
		default:
			b.WriteByte(c)
		}
	}
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return c
}
