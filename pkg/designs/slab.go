package designs

import (
	"math"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/polygon"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// Slab is a rectangular planar region spanning X and Y, used for ground
// planes and dielectric layers that fill the whole simulation box.
type Slab struct {
	X [2]float64
	Y [2]float64
}

// Add fills the slab between two z levels
func (p Slab) Add(s *scene.Scene, mat string, z [2]float64, prio int) (*scene.Box, error) {
	return s.AddBox(scene.BoxSpec{
		Material: mat, Priority: prio,
		Start: geom.V3(p.X[0], p.Y[0], z[0]),
		Stop:  geom.V3(p.X[1], p.Y[1], z[1]),
	})
}

// HalfWithHole returns the right half of the slab outline around a
// centered hole of radius r: the hole arc from bottom to top, then the
// outer edge.
func (p Slab) HalfWithHole(r float64) []geom.Vec2 {
	return polygon.Concat(
		polygon.Arc(geom.Vec2{}, r, -0.5*math.Pi, 0.5*math.Pi, DefaultArcPoints),
		[]geom.Vec2{
			{X: 0, Y: p.Y[1]},
			{X: p.X[1], Y: p.Y[1]},
			{X: p.X[1], Y: p.Y[0]},
			{X: 0, Y: p.Y[0]},
		},
	)
}

// AddCenterHole fills the slab except for a centered round hole, as two
// polygons mirrored about x. A non-empty pad puts both halves in the
// footprint on layer.
func (p Slab) AddCenterHole(s *scene.Scene, mat string, z [2]float64, r float64, prio int, pad, layer string) ([]*scene.Polygon, error) {
	right, err := s.AddPolygon(scene.PolygonSpec{
		Material: mat, Priority: prio, Normal: geom.Z,
		Points: p.HalfWithHole(r), Elevation: z,
		Pad: pad, Layer: layer,
	})
	if err != nil {
		return nil, err
	}
	left := right.Duplicate().Mirror(geom.AxesX)
	return []*scene.Polygon{right, left}, nil
}
