package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// FindNode searches for a child list with the given key (first symbol)
// Example: FindNode(pad, "at") finds (at 1 2) inside a pad
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range SexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			return item, true
		}
	}
	return nil, false
}

// FindAllNodes finds all child lists with the given key
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp
	for _, item := range SexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			results = append(results, item)
		}
	}
	return results
}

// GetListItems returns all items in a list (excluding the first symbol/key)
// Example: GetListItems((layers "F.Cu" "F.Mask")) returns ["F.Cu", "F.Mask"]
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	items := SexpToSlice(s)
	if len(items) <= 1 {
		return nil
	}
	return items[1:]
}

// SexpToSlice converts an s-expression list to a Go slice
func SexpToSlice(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}
	if l, ok := s.(*kicadsexp.List); ok {
		return l.Items()
	}

	var items []kicadsexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		items = append(items, s.Head())
		s = s.Tail()
	}
	return items
}

// Typed value extraction helpers

// GetString extracts the text of the atom at the given index in a list.
// Index 0 is the key, 1 is first value, etc. Quoted and bare atoms are
// both accepted.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}

	items := SexpToSlice(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}

	if v, ok := kicadsexp.AtomValue(items[index]); ok {
		return v, nil
	}
	return "", fmt.Errorf("expected atom at index %d, got %T", index, items[index])
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}
	return val, nil
}

// GetStrings returns the text of every atom after the key
func GetStrings(s kicadsexp.Sexp) []string {
	var out []string
	for _, item := range GetListItems(s) {
		if v, ok := kicadsexp.AtomValue(item); ok {
			out = append(out, v)
		}
	}
	return out
}

// Domain-specific extraction helpers

// GetPositionXY extracts a Position from an (at X Y [angle]) or (xy X Y) node
func GetPositionXY(s kicadsexp.Sexp) (Position, error) {
	x, err := GetFloat(s, 1)
	if err != nil {
		return Position{}, fmt.Errorf("invalid X coordinate: %w", err)
	}
	y, err := GetFloat(s, 2)
	if err != nil {
		return Position{}, fmt.Errorf("invalid Y coordinate: %w", err)
	}
	return Position{X: x, Y: y}, nil
}

// GetSize extracts a Size from a (size W H) node
func GetSize(s kicadsexp.Sexp) (Size, error) {
	w, err := GetFloat(s, 1)
	if err != nil {
		return Size{}, fmt.Errorf("invalid width: %w", err)
	}
	h, err := GetFloat(s, 2)
	if err != nil {
		return Size{}, fmt.Errorf("invalid height: %w", err)
	}
	return Size{Width: w, Height: h}, nil
}

// GetPoints extracts every (xy X Y) entry of a (pts ...) node
func GetPoints(s kicadsexp.Sexp) ([]Position, error) {
	var pts []Position
	for i, xy := range FindAllNodes(s, "xy") {
		p, err := GetPositionXY(xy)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// HasSymbol checks if a list contains a specific bare symbol
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	for _, item := range SexpToSlice(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// GetNodeName returns the first symbol of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil node")
	}
	if s.IsLeaf() {
		if sym, ok := s.(kicadsexp.Symbol); ok {
			return string(sym), nil
		}
		return "", fmt.Errorf("expected symbol leaf")
	}

	if sym, ok := s.Head().(kicadsexp.Symbol); ok {
		return string(sym), nil
	}
	return "", fmt.Errorf("expected symbol at head of list")
}
