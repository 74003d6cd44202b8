package designs

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/polygon"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// WilkinsonArcPoints is the number of samples per meander bend
const WilkinsonArcPoints = 16

// Wilkinson is a multi-section meandered Wilkinson divider. The common
// port feeds from -x; the two outputs leave at +x either side of the
// center line. Each section is a meander of radius R between the rails at
// y = -Y1 and y = -Y2, mirrored into the upper half, with an optional chip
// resistor bridging the arms at the end of the section.
type Wilkinson struct {
	Metal     string
	Substrate string
	// ResistorBody is the chip resistor ceramic
	ResistorBody string
	Z            Stackup

	Y1, Y2 float64
	R      float64
	// Resistors holds one value per section; zero leaves the section
	// without a resistor
	Resistors []float64
	// Widths holds the line width of each section
	Widths []float64

	PortLength float64
	Width      float64
	EndSpace   float64
}

func (w Wilkinson) sections() int { return len(w.Resistors) }

// Outline returns the divider copper: the lower arm outline closed by its
// mirror image in y.
func (w Wilkinson) Outline() []geom.Vec2 {
	arc := func(cx, cy, r, a0, a1 float64) []geom.Vec2 {
		return polygon.Arc(geom.V2(cx, cy), r, a0, a1, WilkinsonArcPoints)
	}
	r, w0 := w.R, w.Widths[0]
	lo := polygon.Concat(
		arc(r, -w.Y1, r+0.5*w0, math.Pi, 2*math.Pi),
		arc(3*r, -w.Y2, r-0.5*w0, math.Pi, 0.55*math.Pi),
	)
	li := polygon.Concat(
		arc(r, -w.Y1, r-0.5*w0, math.Pi, 2*math.Pi),
		arc(3*r, -w.Y2, r+0.5*w0, math.Pi, 0.55*math.Pi),
	)
	for i := 0; i < w.sections()-1; i++ {
		x := float64(4*i+3) * r
		w2 := w.Widths[1+i]
		lo = polygon.Concat(lo,
			arc(x, -w.Y2, r-0.5*w2, 0.45*math.Pi, 0),
			arc(2*r+x, -w.Y1, r+0.5*w2, math.Pi, 2*math.Pi),
			arc(4*r+x, -w.Y2, r-0.5*w2, math.Pi, 0.55*math.Pi),
		)
		li = polygon.Concat(li,
			arc(x, -w.Y2, r+0.5*w2, 0.45*math.Pi, 0),
			arc(2*r+x, -w.Y1, r-0.5*w2, math.Pi, 2*math.Pi),
			arc(4*r+x, -w.Y2, r+0.5*w2, math.Pi, 0.55*math.Pi),
		)
	}
	return polygon.SymmetricY(polygon.Concat(lo, polygon.Reverse(li)))
}

func (w Wilkinson) Generate(s *scene.Scene) error {
	n := w.sections()
	if n == 0 || len(w.Widths) < n {
		return fmt.Errorf("wilkinson: %d sections need as many widths: %w", n, scene.ErrInvalidGeometry)
	}
	return wrap("wilkinson", w.generate(s))
}

func (w Wilkinson) generate(s *scene.Scene) error {
	n := w.sections()
	r := w.R
	xEnd := float64(4*n-1)*r + w.EndSpace
	hw := 0.5 * w.Width

	if _, err := s.AddBox(scene.BoxSpec{
		Material: w.Substrate, Priority: 1,
		Start: geom.V3(xEnd, w.Y1+r+w.EndSpace, w.Z.Bottom),
		Stop:  geom.V3(-w.EndSpace, -(w.Y1 + r + w.EndSpace), w.Z.Top),
	}); err != nil {
		return err
	}

	if _, err := s.AddBox(scene.BoxSpec{
		Material: w.Metal, Priority: DefaultPriority, Pad: "1",
		Start: geom.V3(-w.EndSpace+w.PortLength, hw, w.Z.Top), Stop: geom.V3(0, -hw, w.Z.Metal),
	}); err != nil {
		return err
	}

	for i := 0; i < n-1; i++ {
		x := float64(4*i+3) * r
		w2 := w.Widths[1+i]
		s.AddMeshLines(geom.X, x+r-0.5*w2, x+r+0.5*w2, x+3*r-0.5*w2, x+3*r+0.5*w2)
	}
	if _, err := s.AddPolygon(scene.PolygonSpec{
		Material: w.Metal, Priority: DefaultPriority, Normal: geom.Z,
		Points: w.Outline(), Elevation: w.Z.metal(), Width: FillWidth, Pad: scene.PadFilledPolygon,
	}); err != nil {
		return err
	}

	out := geom.V3(xEnd-w.PortLength, 0.25*mm, w.Z.Top)
	lp2, err := s.AddBox(scene.BoxSpec{
		Name: "line_p2", Material: w.Metal, Priority: DefaultPriority, Pad: "2",
		Start: out, Stop: geom.V3(float64(4*n-1)*r-0.25*mm, 0.25*mm+w.Width, w.Z.Metal),
	})
	if err != nil {
		return err
	}
	lp3, err := lp2.DuplicateAs("line_p3")
	if err != nil {
		return err
	}
	withPad(lp3.Mirror(geom.AxesY), "3")

	p, err := s.AddPort(scene.PortSpec{
		Start: out, Stop: geom.V3(xEnd, 0.25*mm+w.Width, w.Z.Metal),
		Z0: PortImpedance, Direction: geom.X,
	})
	if err != nil {
		return err
	}
	p.Duplicate().Mirror(geom.AxesY)
	if _, err := s.AddPort(scene.PortSpec{
		Start: geom.V3(-w.EndSpace, -hw, w.Z.Top), Stop: geom.V3(-w.EndSpace+w.PortLength, hw, w.Z.Metal),
		Z0: PortImpedance, Direction: geom.X,
	}); err != nil {
		return err
	}

	for i, value := range w.Resistors {
		if value == 0 {
			continue
		}
		res := Resistor{
			Name:       fmt.Sprintf("r%d", i),
			Origin:     geom.V3(4*r*float64(i)+3*r, 0, w.Z.Metal),
			Direction:  geom.Y,
			Value:      value,
			Dielectric: w.ResistorBody,
			Metal:      w.Metal,
		}
		if err := res.Generate(s); err != nil {
			return err
		}
	}
	return nil
}
