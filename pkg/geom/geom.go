// Package geom provides the small vector and axis vocabulary shared by the
// scene kernel and its exporters.
//
// All scene coordinates are in meters. Exporters convert to their own units
// (the footprint backend works in millimeters, like KiCad).
package geom

import (
	"fmt"
	"math"
	"strings"
)

// Axis identifies one spatial axis
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// String returns "x", "y" or "z"
func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Valid reports whether a is one of X, Y, Z
func (a Axis) Valid() bool {
	return a >= X && a <= Z
}

// Unit returns the unit vector along the axis
func (a Axis) Unit() Vec3 {
	var v Vec3
	return v.With(a, 1)
}

// ParseAxis parses a single axis letter
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return X, nil
	case "y":
		return Y, nil
	case "z":
		return Z, nil
	}
	return 0, fmt.Errorf("invalid axis %q", s)
}

// Axes is a set of axes, used to select mirror planes.
// Mirroring "about x" negates the x component (reflection in the x=0 plane).
type Axes uint8

const (
	AxesNone Axes = 0
	AxesX    Axes = 1 << X
	AxesY    Axes = 1 << Y
	AxesZ    Axes = 1 << Z
	AxesXY        = AxesX | AxesY
	AxesXYZ       = AxesX | AxesY | AxesZ
)

// ParseAxes parses an axis set such as "", "x", "xy" or "yz".
// Letters may repeat; order does not matter.
func ParseAxes(s string) (Axes, error) {
	var set Axes
	for _, r := range strings.ToLower(s) {
		switch r {
		case 'x':
			set |= AxesX
		case 'y':
			set |= AxesY
		case 'z':
			set |= AxesZ
		case ' ', ',':
		default:
			return 0, fmt.Errorf("invalid axis %q in %q", r, s)
		}
	}
	return set, nil
}

// MustAxes is ParseAxes for constant strings
func MustAxes(s string) Axes {
	a, err := ParseAxes(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Has reports whether the axis is in the set
func (a Axes) Has(axis Axis) bool {
	return a&(1<<axis) != 0
}

// Count returns the number of axes in the set
func (a Axes) Count() int {
	n := 0
	for axis := X; axis <= Z; axis++ {
		if a.Has(axis) {
			n++
		}
	}
	return n
}

// Without returns the set minus one axis
func (a Axes) Without(axis Axis) Axes {
	return a &^ (1 << axis)
}

func (a Axes) String() string {
	var b strings.Builder
	for axis := X; axis <= Z; axis++ {
		if a.Has(axis) {
			b.WriteString(axis.String())
		}
	}
	return b.String()
}

// Vec3 is a point or displacement in 3-D
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for Vec3{x, y, z}
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Get returns the component along an axis
func (v Vec3) Get(a Axis) float64 {
	switch a {
	case X:
		return v.X
	case Y:
		return v.Y
	default:
		return v.Z
	}
}

// With returns v with the component along a replaced
func (v Vec3) With(a Axis, val float64) Vec3 {
	switch a {
	case X:
		v.X = val
	case Y:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{v.X * k, v.Y * k, v.Z * k}
}

// Mirror negates the components selected by axes
func (v Vec3) Mirror(axes Axes) Vec3 {
	if axes.Has(X) {
		v.X = -v.X
	}
	if axes.Has(Y) {
		v.Y = -v.Y
	}
	if axes.Has(Z) {
		v.Z = -v.Z
	}
	return v
}

// RotateCCW90 rotates 90 degrees counterclockwise in the xy-plane
func (v Vec3) RotateCCW90() Vec3 {
	return Vec3{X: -v.Y, Y: v.X, Z: v.Z}
}

// XY drops the z component
func (v Vec3) XY() Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}

// Finite reports whether all components are finite
func (v Vec3) Finite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func (v Vec3) String() string {
	return fmt.Sprintf("[%g %g %g]", v.X, v.Y, v.Z)
}

// Vec2 is a point in a plane
type Vec2 struct {
	X, Y float64
}

// V2 is shorthand for Vec2{x, y}
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{v.X * k, v.Y * k}
}

// Len returns the Euclidean length
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Finite reports whether both components are finite
func (v Vec2) Finite() bool {
	return finite(v.X) && finite(v.Y)
}

func (v Vec2) String() string {
	return fmt.Sprintf("[%g %g]", v.X, v.Y)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Bounds is an axis-aligned bounding box in 3-D
type Bounds struct {
	Min Vec3
	Max Vec3
}

// NewBounds creates an empty bounding box
func NewBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// BoundsOf returns the box spanned by the given points
func BoundsOf(pts ...Vec3) Bounds {
	b := NewBounds()
	for _, p := range pts {
		b.Expand(p)
	}
	return b
}

// IsEmpty reports whether no point was added
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Expand grows the box to include p
func (b *Bounds) Expand(p Vec3) {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
}

// Union grows the box to include another box
func (b *Bounds) Union(o Bounds) {
	if o.IsEmpty() {
		return
	}
	b.Expand(o.Min)
	b.Expand(o.Max)
}

// Size returns the extent along each axis
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
