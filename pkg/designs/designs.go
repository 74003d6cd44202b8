// Package designs builds parametric planar structures on top of the scene
// kernel: bends, filters, couplers, dividers, chip resistors, connectors and
// ground slabs.
//
// A design only references materials by name; the caller registers them on
// the scene first. Coordinates are meters, and microstrip designs take their
// z levels from a Stackup.
package designs

import (
	"fmt"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

const mm = 1e-3

// DefaultPriority is the priority of copper in every design. Substrates use 1.
const DefaultPriority = 9

// DefaultArcPoints is the number of samples per arc when a design does not
// say otherwise
const DefaultArcPoints = 32

// FillWidth is the fabrication stroke for filled copper polygons
const FillWidth = 1e-6

// PortImpedance is the reference impedance of every design port
const PortImpedance = 50.0

// Design adds a structure to a scene
type Design interface {
	Generate(s *scene.Scene) error
}

// Stackup holds the z levels of a single-layer microstrip build
type Stackup struct {
	// Bottom of the substrate
	Bottom float64
	// Top of the substrate, which is the bottom of the metal
	Top float64
	// Metal is the top of the copper
	Metal float64
}

// NewStackup stacks a substrate and a foil from z=0
func NewStackup(substrate, foil float64) Stackup {
	return Stackup{Bottom: 0, Top: substrate, Metal: substrate + foil}
}

func (z Stackup) metal() [2]float64 {
	return [2]float64{z.Top, z.Metal}
}

func priority(p int) int {
	if p == 0 {
		return DefaultPriority
	}
	return p
}

// linspace returns n evenly spaced values from a to b inclusive
func linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		if n == 1 {
			out[i] = a
			continue
		}
		out[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	return out
}

// mirrorIf returns AxesX when flip is set
func mirrorIf(flip bool) geom.Axes {
	if flip {
		return geom.AxesX
	}
	return geom.AxesNone
}

// withPad sets the fabrication pad and returns the box
func withPad(b *scene.Box, pad string) *scene.Box {
	b.SetPad(pad)
	return b
}

func wrap(design string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", design, err)
}
