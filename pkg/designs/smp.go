package designs

import (
	"math"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/polygon"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// SMPConnector is a vertical SMP board connector standing on the board at
// (X, Y, Z) and reaching up to ZMax: a square shield with a round cavity, a
// stepped center pin and an insulator. A coax port of CoaxPortLength sits
// at the top of the pin.
type SMPConnector struct {
	X, Y, Z float64
	ZMax    float64

	// CoaxPortLength is zero for no port
	CoaxPortLength float64
	PinDiameter    float64

	Shield    string
	Pin       string
	Insulator string
}

// NewSMPConnector returns a connector with the usual pin and port sizes
func NewSMPConnector(x, y, z, zmax float64) SMPConnector {
	return SMPConnector{
		X: x, Y: y, Z: z, ZMax: zmax,
		CoaxPortLength: 0.2 * mm,
		PinDiameter:    0.85 * mm,
		Shield:         "smp_shield",
		Pin:            "smp_pin",
		Insulator:      "lcp",
	}
}

func (c SMPConnector) Generate(s *scene.Scene) error {
	return wrap("smp", c.generate(s))
}

func (c SMPConnector) generate(s *scene.Scene) error {
	at := geom.V2(c.X, c.Y)
	shield := func(pts []geom.Vec2, z [2]float64) (*scene.Polygon, error) {
		return s.AddPolygon(scene.PolygonSpec{
			Material: c.Shield, Priority: DefaultPriority, Normal: geom.Z,
			Points: polygon.Translate(pts, at), Elevation: z,
		})
	}
	z1 := c.Z + 0.9*mm

	// base: the cavity opens to -x for the board trace
	angle := math.Asin(1.0 / 2.25)
	base := polygon.Concat(
		polygon.Arc(geom.Vec2{}, 2.25*mm, -math.Pi+angle, math.Pi-angle, DefaultArcPoints),
		polygon.Scale([]geom.Vec2{{X: -2.5, Y: 1}, {X: -2.5, Y: 2.5}, {X: 2.5, Y: 2.5}, {X: 2.5, Y: -2.5}, {X: -2.5, Y: -2.5}, {X: -2.5, Y: -1}}, mm),
	)
	if _, err := shield(base, [2]float64{c.Z, z1}); err != nil {
		return err
	}

	// upper body, closed around the pin from both halves
	half := polygon.Concat(
		polygon.Arc(geom.Vec2{}, 0.975*mm, -0.5*math.Pi, 0.5*math.Pi, DefaultArcPoints),
		polygon.Scale([]geom.Vec2{{X: 0, Y: 2.5}, {X: 2.5, Y: 2.5}, {X: 2.5, Y: -2.5}, {X: 0, Y: -2.5}}, mm),
	)
	for _, pts := range [][]geom.Vec2{half, polygon.Mirror(half, geom.AxesX)} {
		if _, err := shield(pts, [2]float64{z1, c.ZMax}); err != nil {
			return err
		}
	}

	pinTop := geom.V3(c.X, c.Y, c.ZMax-c.CoaxPortLength)
	for _, cyl := range []scene.CylinderSpec{
		{Material: c.Pin, Priority: DefaultPriority, Start: pinTop, Stop: geom.V3(c.X, c.Y, z1), Radius: 0.5 * c.PinDiameter},
		{Material: c.Pin, Priority: DefaultPriority, Start: pinTop, Stop: geom.V3(c.X, c.Y, c.Z), Radius: 0.4 * mm},
		{Material: c.Insulator, Priority: 1, Start: geom.V3(c.X, c.Y, c.Z), Stop: geom.V3(c.X, c.Y, z1), Radius: 2.25 * mm},
	} {
		if _, err := s.AddCylinder(cyl); err != nil {
			return err
		}
	}

	if c.CoaxPortLength == 0 {
		return nil
	}
	h := 0.5 * c.CoaxPortLength
	start := geom.V3(c.X+h, c.Y+h, c.ZMax-c.CoaxPortLength)
	if _, err := s.AddPort(scene.PortSpec{
		Start: start, Stop: geom.V3(c.X-h, c.Y-h, c.ZMax),
		Z0: PortImpedance, Direction: geom.Z,
	}); err != nil {
		return err
	}
	s.AddMeshLines(geom.Z, start.Z)
	return nil
}
