package kicadsexp

import (
	"fmt"
	"io"
)

type frame struct {
	open  Pos
	items []Sexp
}

// parse builds every top-level expression in src. Nesting is tracked on an
// explicit stack so deeply nested boards cannot exhaust the goroutine stack.
func parse(src string) ([]Sexp, error) {
	sc := newScanner(src)
	var (
		top   []Sexp
		stack []frame
	)
	emit := func(e Sexp) {
		if n := len(stack); n > 0 {
			stack[n-1].items = append(stack[n-1].items, e)
			return
		}
		top = append(top, e)
	}

	for {
		tok, err := sc.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokOpen:
			stack = append(stack, frame{open: tok.pos})
		case tokClose:
			n := len(stack)
			if n == 0 {
				return nil, sc.errorf(tok.pos, "unexpected ')'")
			}
			f := stack[n-1]
			stack = stack[:n-1]
			emit(&List{elements: f.items})
		case tokSymbol:
			emit(Symbol(tok.text))
		case tokString:
			emit(Quoted(tok.text))
		case tokEOF:
			if n := len(stack); n > 0 {
				return nil, sc.errorf(stack[n-1].open, "list not closed before %s", tok.kind)
			}
			return top, nil
		default:
			return nil, sc.errorf(tok.pos, "unexpected %v", tok.kind)
		}
	}
}

// Parse reads r to the end and parses all top-level expressions
func Parse(r io.Reader) ([]Sexp, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read s-expression: %w", err)
	}
	return parse(string(data))
}

// ParseString parses s-expressions from a string
func ParseString(s string) ([]Sexp, error) {
	return parse(s)
}
