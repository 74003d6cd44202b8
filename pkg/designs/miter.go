package designs

import (
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// Miter is a 90 degree microstrip bend with a chamfered outer corner. Port 1
// feeds from +y, port 2 from +x.
type Miter struct {
	Metal     string
	Substrate string
	Z         Stackup
	// Miter is the chamfer depth from the inner corner
	Miter      float64
	PortLength float64
	Width      float64
	BoxSize    float64
	Priority   int
}

func (m Miter) Generate(s *scene.Scene) error {
	return wrap("miter", m.generate(s))
}

func (m Miter) generate(s *scene.Scene) error {
	prio := priority(m.Priority)
	w := 0.5 * m.Width
	d1 := 0.5 * m.BoxSize
	d2 := d1 - m.PortLength
	d3 := d2 - 0.2*mm
	d4 := -w + m.Miter

	if _, err := s.AddBox(scene.BoxSpec{
		Name: "substrate", Material: m.Substrate, Priority: 1,
		Start: geom.V3(d1, d1, m.Z.Bottom), Stop: geom.V3(-d1, -d1, m.Z.Top),
	}); err != nil {
		return err
	}

	pads := []scene.BoxSpec{
		{Name: "line_p1", Pad: "1", Start: geom.V3(w, d2, m.Z.Top), Stop: geom.V3(-w, d3, m.Z.Metal)},
		{Name: "line_p2", Pad: "2", Start: geom.V3(d2, w, m.Z.Top), Stop: geom.V3(d3, -w, m.Z.Metal)},
	}
	for _, spec := range pads {
		spec.Material, spec.Priority = m.Metal, prio
		if _, err := s.AddBox(spec); err != nil {
			return err
		}
	}

	if _, err := s.AddPolygon(scene.PolygonSpec{
		Name: "miter_line", Material: m.Metal, Priority: prio, Normal: geom.Z,
		Points: []geom.Vec2{
			{X: -w, Y: d2},
			{X: w, Y: d2},
			{X: w, Y: w},
			{X: d2, Y: w},
			{X: d2, Y: -w},
			{X: d4, Y: -w},
			{X: -w, Y: d4},
		},
		Elevation: m.Z.metal(),
		Width:     FillWidth,
		Pad:       scene.PadFilledPolygon,
	}); err != nil {
		return err
	}

	if _, err := s.AddPort(scene.PortSpec{
		Start: geom.V3(w, d1, m.Z.Top), Stop: geom.V3(-w, d2, m.Z.Metal),
		Z0: PortImpedance, Direction: geom.Y,
	}); err != nil {
		return err
	}
	_, err := s.AddPort(scene.PortSpec{
		Start: geom.V3(d1, w, m.Z.Top), Stop: geom.V3(d2, -w, m.Z.Metal),
		Z0: PortImpedance, Direction: geom.X,
	})
	return err
}
