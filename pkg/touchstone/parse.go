package touchstone

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes Touchstone v1 files. Line structure carries no meaning:
// a point's values may wrap freely.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `![^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Hash", Pattern: `#`},
	{Name: "Number", Pattern: `[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
})

// File is the parsed token structure of a Touchstone file
type File struct {
	Options []*Option `( Hash @@* )?`
	Values  []float64 `@Number*`
}

// Option is one word of the option line. Only the reference resistance
// takes a value.
type Option struct {
	Ref  *float64 `  ( "R" | "r" ) @Number`
	Word string   `| @Ident`
}

var parser = participle.MustBuild[File](
	participle.Lexer(Lexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

type options struct {
	scale  float64
	format Format
	z0     float64
}

func (f *File) options() (options, error) {
	opts := options{scale: 1e9, format: MA, z0: DefaultImpedance}
	for _, o := range f.Options {
		if o.Ref != nil {
			opts.z0 = *o.Ref
			continue
		}
		switch w := strings.ToUpper(o.Word); w {
		case "HZ":
			opts.scale = 1
		case "KHZ":
			opts.scale = 1e3
		case "MHZ":
			opts.scale = 1e6
		case "GHZ":
			opts.scale = 1e9
		case "DB", "MA", "RI":
			opts.format = Format(w)
		case "S":
		default:
			return opts, fmt.Errorf("touchstone: unsupported option %q: %w", o.Word, ErrFormat)
		}
	}
	return opts, nil
}

// Parse reads an N-port file. The port count comes from the caller since
// version 1 files only carry it in the extension (see PortsFromPath).
func Parse(r io.Reader, ports int) (*Network, error) {
	if ports < 1 {
		return nil, fmt.Errorf("touchstone: %d ports: %w", ports, ErrFormat)
	}
	file, err := parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("touchstone: parse error: %w", err)
	}
	opts, err := file.options()
	if err != nil {
		return nil, err
	}

	record := 1 + 2*ports*ports
	if len(file.Values)%record != 0 {
		return nil, fmt.Errorf("touchstone: %d values do not split into %d-value points: %w", len(file.Values), record, ErrFormat)
	}

	n := NewNetwork(ports, opts.z0)
	seq := order(ports)
	for off := 0; off < len(file.Values); off += record {
		v := file.Values[off : off+record]
		s := make([]complex128, ports*ports)
		for idx, ij := range seq {
			s[ij[0]*ports+ij[1]] = fromPair(v[1+2*idx], v[2+2*idx], opts.format)
		}
		if err := n.Append(v[0]*opts.scale, s); err != nil {
			return nil, err
		}
	}
	return n, nil
}
