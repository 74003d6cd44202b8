package polygon

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/OpenTraceLab/planarem/pkg/geom"
)

const eps = 1e-12

func near(a, b geom.Vec2) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestArc(t *testing.T) {
	center := geom.V2(1, -2)
	tests := []struct {
		name   string
		r      float64
		a0, a1 float64
		n      int
	}{
		{name: "quarter", r: 0.5, a0: 0, a1: math.Pi / 2, n: 9},
		{name: "half reversed", r: 2, a0: math.Pi, a1: 0, n: 17},
		{name: "two points", r: 1e-3, a0: -math.Pi / 4, a1: math.Pi / 4, n: 2},
		{name: "single", r: 1, a0: 0.3, a1: 2, n: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := Arc(center, tt.r, tt.a0, tt.a1, tt.n)
			if len(pts) != tt.n {
				t.Fatalf("Arc() returned %d points, want %d", len(pts), tt.n)
			}
			first := geom.V2(center.X+tt.r*math.Cos(tt.a0), center.Y+tt.r*math.Sin(tt.a0))
			if !near(pts[0], first) {
				t.Errorf("first point = %v, want %v", pts[0], first)
			}
			if tt.n > 1 {
				last := geom.V2(center.X+tt.r*math.Cos(tt.a1), center.Y+tt.r*math.Sin(tt.a1))
				if !near(pts[len(pts)-1], last) {
					t.Errorf("last point = %v, want %v", pts[len(pts)-1], last)
				}
			}
			for i, p := range pts {
				if d := p.Sub(center).Len(); math.Abs(d-tt.r) > eps {
					t.Errorf("point %d at distance %g, want %g", i, d, tt.r)
				}
			}
		})
	}

	if pts := Arc(center, 1, 0, 1, 0); pts != nil {
		t.Errorf("Arc(n=0) = %v, want nil", pts)
	}
}

// an L-shaped outline, simple and counterclockwise
var lShape = []geom.Vec2{
	{X: 0.1, Y: 0.1}, {X: 2, Y: 0.1}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 3}, {X: 0.1, Y: 3},
}

func TestMirrorWinding(t *testing.T) {
	if got := Orientation(lShape); got != CCW {
		t.Fatalf("fixture winding = %v, want ccw", got)
	}

	tests := []struct {
		axes string
		want Winding
	}{
		{axes: "", want: CCW},
		{axes: "x", want: CW},
		{axes: "y", want: CW},
		{axes: "xy", want: CCW},
		{axes: "z", want: CCW},
		{axes: "xz", want: CW},
		{axes: "xyz", want: CCW},
	}

	for _, tt := range tests {
		t.Run("mirror_"+tt.axes, func(t *testing.T) {
			axes := geom.MustAxes(tt.axes)
			m := Mirror(lShape, axes)
			if got := Orientation(m); got != tt.want {
				t.Errorf("Mirror(%q) winding = %v, want %v", tt.axes, got, tt.want)
			}
			if SelfIntersects(m) {
				t.Errorf("Mirror(%q) is self-intersecting", tt.axes)
			}
			if got := Orientation(Reflect(lShape, axes)); got != CCW {
				t.Errorf("Reflect(%q) winding = %v, want ccw", tt.axes, got)
			}
			if diff := cmp.Diff(lShape, Mirror(m, axes)); diff != "" {
				t.Errorf("double mirror mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSymmetric(t *testing.T) {
	// upper half of a stepped line, drawn left to right above the x axis
	half := []geom.Vec2{
		{X: -2, Y: 0.5}, {X: 0, Y: 0.5}, {X: 0, Y: 1}, {X: 2, Y: 1},
	}
	full, err := Symmetric(half, geom.Y)
	if err != nil {
		t.Fatalf("Symmetric() error: %v", err)
	}

	want := []geom.Vec2{
		{X: -2, Y: 0.5}, {X: 0, Y: 0.5}, {X: 0, Y: 1}, {X: 2, Y: 1},
		{X: 2, Y: -1}, {X: 0, Y: -1}, {X: 0, Y: -0.5}, {X: -2, Y: -0.5},
	}
	if diff := cmp.Diff(want, full); diff != "" {
		t.Fatalf("Symmetric() mismatch (-want +got):\n%s", diff)
	}
	if err := ValidateSimple(full); err != nil {
		t.Errorf("Symmetric() outline invalid: %v", err)
	}
	if got := Orientation(full); got != CW {
		t.Errorf("Symmetric() winding = %v, want cw", got)
	}
	if a := Area(full); math.Abs(a-6) > eps {
		t.Errorf("Area() = %g, want 6", a)
	}
	if len(half) != 4 || half[0] != geom.V2(-2, 0.5) {
		t.Errorf("Symmetric modified its input")
	}

	// mirroring the closed shape about both axes keeps it simple and its winding
	both := Mirror(full, geom.AxesXY)
	if Orientation(both) != Orientation(full) || SelfIntersects(both) {
		t.Errorf("double-axis mirror changed winding or crossed itself")
	}
}

func TestSymmetricAxes(t *testing.T) {
	half := []geom.Vec2{{X: 0.5, Y: -1}, {X: 0.5, Y: 1}}
	full, err := Symmetric(half, geom.X)
	if err != nil {
		t.Fatalf("Symmetric(x) error: %v", err)
	}
	want := []geom.Vec2{{X: 0.5, Y: -1}, {X: 0.5, Y: 1}, {X: -0.5, Y: 1}, {X: -0.5, Y: -1}}
	if diff := cmp.Diff(want, full); diff != "" {
		t.Errorf("Symmetric(x) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(SymmetricY(half), mustSymmetric(t, half, geom.Y)); diff != "" {
		t.Errorf("SymmetricY differs from Symmetric(y):\n%s", diff)
	}

	if _, err := Symmetric(half, geom.Z); !errors.Is(err, ErrPlaneAxis) {
		t.Errorf("Symmetric(z) error = %v, want ErrPlaneAxis", err)
	}
}

func mustSymmetric(t *testing.T, half []geom.Vec2, axis geom.Axis) []geom.Vec2 {
	t.Helper()
	out, err := Symmetric(half, axis)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestConcatQuadrant(t *testing.T) {
	// quarter disk built from one arc, then closed by mirroring twice
	q := Concat(Arc(geom.V2(0, 0), 1, 0, math.Pi/2, 17))
	top := Concat(q, Reverse(Mirror(q, geom.AxesX))[1:])
	full := Concat(top, Reverse(Mirror(top, geom.AxesY))[1:len(top)-1])
	if err := ValidateSimple(full); err != nil {
		t.Fatalf("disk outline invalid: %v", err)
	}
	if a := Area(full); math.Abs(a-math.Pi) > 0.03 {
		t.Errorf("disk area = %g, want about pi", a)
	}
	if c := Centroid(full); !near(c, geom.V2(0, 0)) {
		t.Errorf("Centroid() = %v, want origin", c)
	}
}

func TestTranslateBound(t *testing.T) {
	pts := Translate(Rect(0, 0, 2, 1), geom.V2(1, 1))
	lo, hi := Bound(pts)
	if diff := cmp.Diff([]geom.Vec2{{X: 1, Y: 1}, {X: 3, Y: 2}}, []geom.Vec2{lo, hi}, cmpopts.EquateApprox(0, eps)); diff != "" {
		t.Errorf("Bound() mismatch (-want +got):\n%s", diff)
	}
	if got := Orientation(pts); got != CCW {
		t.Errorf("Rect winding = %v, want ccw", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		pts  []geom.Vec2
		want error
	}{
		{name: "ok", pts: Rect(0, 0, 1, 1)},
		{name: "two points", pts: []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}, want: ErrTooFewPoints},
		{name: "nan", pts: []geom.Vec2{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}, {X: 1, Y: 0}}, want: ErrNonFinite},
		{name: "collinear", pts: []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}, want: ErrZeroArea},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.pts)
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}

	bowtie := []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	if !errors.Is(ValidateSimple(bowtie), ErrSelfCrossing) {
		t.Errorf("ValidateSimple(bowtie) did not report crossing")
	}

	// a through line whose notch has collapsed onto the lower edge
	line := []geom.Vec2{
		{X: -3, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: -1}, {X: 1, Y: -1},
		{X: 1, Y: -1}, {X: -1, Y: -1}, {X: -1, Y: -1}, {X: -3, Y: -1},
	}
	if err := ValidateSimple(line); err != nil {
		t.Errorf("ValidateSimple(line) unexpected error: %v", err)
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name string
		pts  []geom.Vec2
		want []geom.Vec2
	}{
		{
			name: "repeated",
			pts:  []geom.Vec2{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 0}},
			want: []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		},
		{
			name: "straight",
			pts:  []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 1}},
			want: []geom.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}},
		},
		{
			name: "doubles back",
			pts:  []geom.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
			want: []geom.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Simplify(tt.pts)); diff != "" {
				t.Errorf("Simplify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
