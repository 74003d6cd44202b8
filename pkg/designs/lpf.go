package designs

import (
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/polygon"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// Section is one stepped-impedance segment: its length along x and its
// line width.
type Section struct {
	Length float64
	Width  float64
}

// LPF is a stepped-impedance microstrip low-pass filter along x, with
// a port at each end.
type LPF struct {
	Metal      string
	Substrate  string
	Z          Stackup
	PortLength float64
	// Width is the 50 ohm feed width
	Width    float64
	BoxWidth float64
	Sections []Section
	Priority int
}

// BoxLength is the substrate length: both ports plus every section
func (f LPF) BoxLength() float64 {
	l := 2 * f.PortLength
	for _, sec := range f.Sections {
		l += sec.Length
	}
	return l
}

// Outline returns the filter copper: the upper edge of the sections closed
// by its mirror image below the x axis.
func (f LPF) Outline() []geom.Vec2 {
	x := -0.5*f.BoxLength() + f.PortLength
	half := make([]geom.Vec2, 0, 2*len(f.Sections))
	for _, sec := range f.Sections {
		half = append(half, geom.V2(x, 0.5*sec.Width))
		x += sec.Length
		half = append(half, geom.V2(x, 0.5*sec.Width))
	}
	return polygon.SymmetricY(half)
}

func (f LPF) Generate(s *scene.Scene) error {
	return wrap("lpf", f.generate(s))
}

func (f LPF) generate(s *scene.Scene) error {
	prio := priority(f.Priority)
	length := f.BoxLength()
	if _, err := s.AddBox(scene.BoxSpec{
		Name: "sub", Material: f.Substrate, Priority: 1,
		Start: geom.V3(0.5*length, 0.5*f.BoxWidth, f.Z.Bottom),
		Stop:  geom.V3(-0.5*length, -0.5*f.BoxWidth, f.Z.Top),
	}); err != nil {
		return err
	}

	x0 := -0.5 * length
	x1 := x0 + f.PortLength
	x2 := x1 + f.Width
	l1, err := s.AddBox(scene.BoxSpec{
		Name: "line_p1", Material: f.Metal, Priority: prio, Pad: "1",
		Start: geom.V3(x1, 0.5*f.Width, f.Z.Top), Stop: geom.V3(x2, -0.5*f.Width, f.Z.Metal),
	})
	if err != nil {
		return err
	}
	l2, err := l1.DuplicateAs("line_p2")
	if err != nil {
		return err
	}
	withPad(l2.Mirror(geom.AxesX), "2")

	if _, err := s.AddPolygon(scene.PolygonSpec{
		Name: "f", Material: f.Metal, Priority: prio, Normal: geom.Z,
		Points:    f.Outline(),
		Elevation: f.Z.metal(),
		Width:     FillWidth,
		Pad:       scene.PadFilledPolygon,
	}); err != nil {
		return err
	}

	p, err := s.AddPort(scene.PortSpec{
		Start: geom.V3(x0, -0.5*f.Width, f.Z.Top), Stop: geom.V3(x1, 0.5*f.Width, f.Z.Metal),
		Z0: PortImpedance, Direction: geom.X,
	})
	if err != nil {
		return err
	}
	p.Duplicate().Mirror(geom.AxesX)
	return nil
}
