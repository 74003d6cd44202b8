package sexp

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp/kicadsexp"
)

func parseOne(t *testing.T, s string) kicadsexp.Sexp {
	t.Helper()
	nodes, err := kicadsexp.ParseString(s)
	if err != nil {
		t.Fatalf("ParseString(%q) error: %v", s, err)
	}
	if len(nodes) != 1 {
		t.Fatalf("ParseString(%q) returned %d nodes", s, len(nodes))
	}
	return nodes[0]
}

func TestFindNode(t *testing.T) {
	pad := parseOne(t, `(pad "1" smd rect (at 1.5 -2) (size 1 0.5) (layers "F.Cu" "F.Mask"))`)

	tests := []struct {
		name    string
		key     string
		wantOK  bool
		wantStr string
	}{
		{name: "at", key: "at", wantOK: true, wantStr: "(at 1.5 -2)"},
		{name: "layers", key: "layers", wantOK: true, wantStr: `(layers "F.Cu" "F.Mask")`},
		{name: "missing", key: "drill", wantOK: false},
		{name: "bare symbol is not a node", key: "smd", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindNode(pad, tt.key)
			if ok != tt.wantOK {
				t.Fatalf("FindNode(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if ok && got.String() != tt.wantStr {
				t.Errorf("FindNode(%q) = %s, want %s", tt.key, got, tt.wantStr)
			}
		})
	}

	if !HasSymbol(pad, "smd") || HasSymbol(pad, "thru_hole") {
		t.Errorf("HasSymbol gave wrong answer")
	}
}

func TestTypedGetters(t *testing.T) {
	pad := parseOne(t, `(pad "A1" thru_hole circle (at 1.5 -2) (size 1 0.5) (drill 0.3) (layers "*.Cu" "*.Mask"))`)

	name, err := GetString(pad, 1)
	if err != nil || name != "A1" {
		t.Errorf("GetString(1) = %q, %v", name, err)
	}

	at, _ := FindNode(pad, "at")
	pos, err := GetPositionXY(at)
	if err != nil {
		t.Fatalf("GetPositionXY() error: %v", err)
	}
	if pos != (Position{X: 1.5, Y: -2}) {
		t.Errorf("GetPositionXY() = %+v", pos)
	}

	size, _ := FindNode(pad, "size")
	sz, err := GetSize(size)
	if err != nil || sz != (Size{Width: 1, Height: 0.5}) {
		t.Errorf("GetSize() = %+v, %v", sz, err)
	}

	layers, _ := FindNode(pad, "layers")
	if diff := cmp.Diff([]string{"*.Cu", "*.Mask"}, GetStrings(layers)); diff != "" {
		t.Errorf("GetStrings() mismatch (-want +got):\n%s", diff)
	}

	if _, err := GetFloat(pad, 2); err == nil {
		t.Errorf("GetFloat(thru_hole) expected error")
	}
}

func TestGetPoints(t *testing.T) {
	poly := parseOne(t, `(fp_poly (pts (xy 0 0) (xy 1 0) (xy 1 1)) (layer "F.Cu") (width 0))`)
	pts, _ := FindNode(poly, "pts")
	got, err := GetPoints(pts)
	if err != nil {
		t.Fatalf("GetPoints() error: %v", err)
	}
	want := []Position{{0, 0}, {1, 0}, {1, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetPoints() mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundingBox(t *testing.T) {
	bb := NewBoundingBox()
	if !bb.IsEmpty() {
		t.Fatal("new box should be empty")
	}
	bb.Expand(Position{X: -1, Y: 2})
	bb.ExpandBox(BoundingBox{Min: Position{X: 0, Y: -1}, Max: Position{X: 3, Y: 0}})
	if bb.Width() != 4 || bb.Height() != 3 {
		t.Errorf("size = %gx%g, want 4x3", bb.Width(), bb.Height())
	}
	if c := bb.Center(); c != (Position{X: 1, Y: 0.5}) {
		t.Errorf("Center() = %+v", c)
	}
}
