// Package polygon builds the point sequences for non-rectangular copper:
// arcs, straight runs, and mirror-and-concatenate symmetry.
//
// All functions return new slices and never modify their inputs.
// Point sequences are open: the closing edge from the last point back to
// the first is implied.
package polygon

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/OpenTraceLab/planarem/pkg/geom"
)

var (
	ErrTooFewPoints = errors.New("polygon: fewer than three points")
	ErrNonFinite    = errors.New("polygon: non-finite coordinate")
	ErrZeroArea     = errors.New("polygon: zero area")
	ErrSelfCrossing = errors.New("polygon: self-intersecting outline")
	ErrPlaneAxis    = errors.New("polygon: axis is not in the polygon plane")
)

// Winding is the orientation of a closed outline
type Winding int

const (
	Degenerate Winding = 0
	CCW        Winding = 1
	CW         Winding = -1
)

func (w Winding) String() string {
	switch w {
	case CCW:
		return "ccw"
	case CW:
		return "cw"
	}
	return "degenerate"
}

// Arc samples a circular arc at n equally spaced angles from a0 to a1
// (radians), both endpoints included. n == 1 yields only the a0 point and
// n <= 0 yields nil.
func Arc(center geom.Vec2, r, a0, a1 float64, n int) []geom.Vec2 {
	if n <= 0 {
		return nil
	}
	pts := make([]geom.Vec2, n)
	for i := range pts {
		a := a0
		if n > 1 {
			a = a0 + (a1-a0)*float64(i)/float64(n-1)
		}
		pts[i] = geom.Vec2{
			X: center.X + r*math.Cos(a),
			Y: center.Y + r*math.Sin(a),
		}
	}
	return pts
}

// Rect returns the four corners of an axis-aligned rectangle, counterclockwise
// when x0 < x1 and y0 < y1.
func Rect(x0, y0, x1, y1 float64) []geom.Vec2 {
	return []geom.Vec2{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// Concat joins point runs into one sequence
func Concat(parts ...[]geom.Vec2) []geom.Vec2 {
	return slices.Concat(parts...)
}

// Reverse returns the points in reverse order
func Reverse(pts []geom.Vec2) []geom.Vec2 {
	out := slices.Clone(pts)
	slices.Reverse(out)
	return out
}

// Mirror negates the selected components of every point. Only x and y are
// meaningful in the plane; a z in axes is ignored. Point order is kept, so
// an odd number of reflected axes reverses the winding.
func Mirror(pts []geom.Vec2, axes geom.Axes) []geom.Vec2 {
	out := make([]geom.Vec2, len(pts))
	for i, p := range pts {
		if axes.Has(geom.X) {
			p.X = -p.X
		}
		if axes.Has(geom.Y) {
			p.Y = -p.Y
		}
		out[i] = p
	}
	return out
}

// Reflect mirrors like Mirror and then reverses the point order when an odd
// number of in-plane axes was reflected, so the winding is preserved.
func Reflect(pts []geom.Vec2, axes geom.Axes) []geom.Vec2 {
	out := Mirror(pts, axes)
	if axes.Without(geom.Z).Count()%2 == 1 {
		slices.Reverse(out)
	}
	return out
}

// Symmetric closes an open half outline into a shape symmetric about the
// given in-plane axis: the half is followed by its mirror image traversed
// backwards. Symmetric(half, geom.Y) reflects in y (y → −y), which closes a
// half drawn above the x axis. The points are 2-D, so geom.Z is rejected.
func Symmetric(half []geom.Vec2, axis geom.Axis) ([]geom.Vec2, error) {
	switch axis {
	case geom.X:
		return SymmetricX(half), nil
	case geom.Y:
		return SymmetricY(half), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrPlaneAxis, axis)
}

// SymmetricX is Symmetric about x
func SymmetricX(half []geom.Vec2) []geom.Vec2 {
	return Concat(half, Reverse(Mirror(half, geom.AxesX)))
}

// SymmetricY is Symmetric about y
func SymmetricY(half []geom.Vec2) []geom.Vec2 {
	return Concat(half, Reverse(Mirror(half, geom.AxesY)))
}

// Translate shifts every point by d
func Translate(pts []geom.Vec2, d geom.Vec2) []geom.Vec2 {
	out := make([]geom.Vec2, len(pts))
	for i, p := range pts {
		out[i] = p.Add(d)
	}
	return out
}

// Scale multiplies every coordinate by k
func Scale(pts []geom.Vec2, k float64) []geom.Vec2 {
	out := make([]geom.Vec2, len(pts))
	for i, p := range pts {
		out[i] = p.Scale(k)
	}
	return out
}

// Ring converts points to a closed orb ring
func Ring(pts []geom.Vec2) orb.Ring {
	r := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		r = append(r, orb.Point{p.X, p.Y})
	}
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// Orientation returns the winding of the closed outline
func Orientation(pts []geom.Vec2) Winding {
	if len(pts) < 3 {
		return Degenerate
	}
	switch Ring(pts).Orientation() {
	case orb.CCW:
		return CCW
	case orb.CW:
		return CW
	}
	return Degenerate
}

// Area returns the unsigned enclosed area
func Area(pts []geom.Vec2) float64 {
	if len(pts) < 3 {
		return 0
	}
	return math.Abs(planar.Area(Ring(pts)))
}

// Centroid returns the area centroid, or the vertex mean for a degenerate
// outline.
func Centroid(pts []geom.Vec2) geom.Vec2 {
	if len(pts) == 0 {
		return geom.Vec2{}
	}
	if len(pts) >= 3 {
		c, a := planar.CentroidArea(Ring(pts))
		if a != 0 && !math.IsNaN(c[0]) && !math.IsNaN(c[1]) {
			return geom.Vec2{X: c[0], Y: c[1]}
		}
	}
	var sum geom.Vec2
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(pts)))
}

// Bound returns the lower-left and upper-right corners
func Bound(pts []geom.Vec2) (min, max geom.Vec2) {
	if len(pts) == 0 {
		return
	}
	b := Ring(pts).Bound()
	return geom.Vec2{X: b.Min[0], Y: b.Min[1]}, geom.Vec2{X: b.Max[0], Y: b.Max[1]}
}

// Simplify drops repeated vertices and vertices lying on the straight edge
// between their neighbours. The outline shape is unchanged; a vertex where the
// outline doubles back is kept.
func Simplify(pts []geom.Vec2) []geom.Vec2 {
	out := make([]geom.Vec2, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	for changed := true; changed && len(out) > 3; {
		changed = false
		for i := 0; i < len(out) && len(out) > 3; i++ {
			a, b, c := out[(i+len(out)-1)%len(out)], out[i], out[(i+1)%len(out)]
			if cross(a, b, c) == 0 && onSegment(a, b, c) {
				out = slices.Delete(out, i, i+1)
				changed = true
				i--
			}
		}
	}
	return out
}

// SelfIntersects reports whether any two non-adjacent edges of the closed
// outline touch or cross.
func SelfIntersects(pts []geom.Vec2) bool {
	n := len(pts)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a0, a1 := pts[i], pts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b0, b1 := pts[j], pts[(j+1)%n]
			if segmentsIntersect(a0, a1, b0, b1) {
				return true
			}
		}
	}
	return false
}

func cross(o, a, b geom.Vec2) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func onSegment(p, q, r geom.Vec2) bool {
	return math.Min(p.X, r.X) <= q.X && q.X <= math.Max(p.X, r.X) &&
		math.Min(p.Y, r.Y) <= q.Y && q.Y <= math.Max(p.Y, r.Y)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func segmentsIntersect(p1, p2, p3, p4 geom.Vec2) bool {
	d1 := sign(cross(p3, p4, p1))
	d2 := sign(cross(p3, p4, p2))
	d3 := sign(cross(p1, p2, p3))
	d4 := sign(cross(p1, p2, p4))
	if d1 != d2 && d3 != d4 && d1 != 0 && d2 != 0 && d3 != 0 && d4 != 0 {
		return true
	}
	switch {
	case d1 == 0 && onSegment(p3, p1, p4):
		return true
	case d2 == 0 && onSegment(p3, p2, p4):
		return true
	case d3 == 0 && onSegment(p1, p3, p2):
		return true
	case d4 == 0 && onSegment(p1, p4, p2):
		return true
	}
	return false
}

// Validate checks that the points describe a fillable outline: at least three
// finite points enclosing a non-zero area.
func Validate(pts []geom.Vec2) error {
	if len(pts) < 3 {
		return fmt.Errorf("%d points: %w", len(pts), ErrTooFewPoints)
	}
	for i, p := range pts {
		if !p.Finite() {
			return fmt.Errorf("point %d %v: %w", i, p, ErrNonFinite)
		}
	}
	if Area(pts) == 0 {
		return ErrZeroArea
	}
	return nil
}

// ValidateSimple is Validate plus a check that the outline does not cross
// itself. Repeated and straight-through vertices are ignored for the crossing
// test, see Simplify.
func ValidateSimple(pts []geom.Vec2) error {
	if err := Validate(pts); err != nil {
		return err
	}
	if SelfIntersects(Simplify(pts)) {
		return ErrSelfCrossing
	}
	return nil
}
