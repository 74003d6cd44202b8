// Package mesh collects the per-axis discretization coordinates that scene
// primitives propose to the field solver's mesh generator.
package mesh

import (
	"math"
	"slices"

	"github.com/OpenTraceLab/planarem/pkg/geom"
)

// Tolerance is the distance below which two proposed lines are considered
// the same line when sorting.
const Tolerance = 1e-9

// Lines holds proposed mesh coordinates, one list per axis.
// Lists are append-only; duplicates are kept until Sorted is called.
type Lines struct {
	X []float64
	Y []float64
	Z []float64
}

// New creates an empty accumulator
func New() *Lines {
	return &Lines{}
}

func (l *Lines) axis(a geom.Axis) *[]float64 {
	switch a {
	case geom.X:
		return &l.X
	case geom.Y:
		return &l.Y
	default:
		return &l.Z
	}
}

// Add appends coordinates along one axis
func (l *Lines) Add(a geom.Axis, values ...float64) {
	p := l.axis(a)
	*p = append(*p, values...)
}

// AddPoint appends each component of v to its axis
func (l *Lines) AddPoint(v geom.Vec3) {
	l.X = append(l.X, v.X)
	l.Y = append(l.Y, v.Y)
	l.Z = append(l.Z, v.Z)
}

// AddBounds proposes lines at both extrema of b on every axis
func (l *Lines) AddBounds(b geom.Bounds) {
	if b.IsEmpty() {
		return
	}
	l.AddPoint(b.Min)
	l.AddPoint(b.Max)
}

// Merge appends all lines of other
func (l *Lines) Merge(other *Lines) {
	if other == nil {
		return
	}
	l.X = append(l.X, other.X...)
	l.Y = append(l.Y, other.Y...)
	l.Z = append(l.Z, other.Z...)
}

// Clone returns an independent copy
func (l *Lines) Clone() *Lines {
	return &Lines{
		X: slices.Clone(l.X),
		Y: slices.Clone(l.Y),
		Z: slices.Clone(l.Z),
	}
}

// Get returns the raw, unsorted lines along an axis
func (l *Lines) Get(a geom.Axis) []float64 {
	return *l.axis(a)
}

// Len returns the total number of proposed lines
func (l *Lines) Len() int {
	return len(l.X) + len(l.Y) + len(l.Z)
}

// Sorted returns the lines along an axis in ascending order with values
// closer than Tolerance collapsed into one.
func (l *Lines) Sorted(a geom.Axis) []float64 {
	vals := slices.Clone(*l.axis(a))
	slices.Sort(vals)
	return slices.CompactFunc(vals, func(x, y float64) bool {
		return math.Abs(x-y) < Tolerance
	})
}

// Contains reports whether a line within Tolerance of v was proposed
func (l *Lines) Contains(a geom.Axis, v float64) bool {
	for _, x := range *l.axis(a) {
		if math.Abs(x-v) < Tolerance {
			return true
		}
	}
	return false
}
