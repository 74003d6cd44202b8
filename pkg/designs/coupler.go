package designs

import (
	"math"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// Coupler is a microstrip directional coupler: a through line along x and a
// coupled section above it whose arms turn up to the +y edge. With Dual the
// coupled section is repeated below the through line.
type Coupler struct {
	Metal     string
	Substrate string
	Z         Stackup

	Miter      float64
	PortLength float64
	BoxLength  float64
	// BoxY is the substrate extent in y: bottom, top
	BoxY [2]float64

	Width         float64
	CouplerGap    float64
	CouplerLength float64
	CouplerWidth  float64
	// MainLineWidth is the through line width under the coupled section;
	// zero means CouplerWidth
	MainLineWidth float64
	// PinLength is the pad length at each line end; zero means 0.2 mm
	PinLength float64
	// CPWGap adds grounded coplanar copper at this gap when positive
	CPWGap float64

	// FeedCoupled numbers the coupled ports before the through ports
	FeedCoupled bool
	Dual        bool
	Priority    int
}

func (c Coupler) Generate(s *scene.Scene) error {
	return wrap("coupler", c.generate(s))
}

func (c Coupler) generate(s *scene.Scene) error {
	prio := priority(c.Priority)
	pin := c.PinLength
	if pin == 0 {
		pin = 0.2 * mm
	}
	mainWidth := c.MainLineWidth
	if mainWidth == 0 {
		mainWidth = c.CouplerWidth
	}
	w := 0.5 * c.Width
	metal := func(name, pad string, start, stop geom.Vec3) (*scene.Box, error) {
		return s.AddBox(scene.BoxSpec{Name: name, Material: c.Metal, Priority: prio, Pad: pad, Start: start, Stop: stop})
	}

	if _, err := s.AddBox(scene.BoxSpec{
		Name: "coupler_sub", Material: c.Substrate, Priority: 1,
		Start: geom.V3(0.5*c.BoxLength, c.BoxY[0], c.Z.Bottom),
		Stop:  geom.V3(-0.5*c.BoxLength, c.BoxY[1], c.Z.Top),
	}); err != nil {
		return err
	}

	// through line
	x0 := -0.5 * c.BoxLength
	x1 := x0 + c.PortLength
	l1, err := metal("line_p1", "1", geom.V3(x1, w, c.Z.Top), geom.V3(x1+pin, -w, c.Z.Metal))
	if err != nil {
		return err
	}
	l2, err := l1.DuplicateAs("line_p2")
	if err != nil {
		return err
	}
	withPad(l2.Mirror(geom.AxesX), "2")

	xc1 := -0.5*c.CouplerLength - w
	xc2 := xc1 + c.Width
	xm := xc1 + c.Miter
	diff := 0.5 * math.Abs(c.Width-mainWidth)
	if _, err := s.AddPolygon(scene.PolygonSpec{
		Name: "throughline", Material: c.Metal, Priority: prio, Normal: geom.Z,
		Points: []geom.Vec2{
			{X: x1, Y: w},
			{X: -x1, Y: w},
			{X: -x1, Y: -w},
			{X: -xm + diff, Y: -w},
			{X: -xm - diff, Y: w - mainWidth},
			{X: xm + diff, Y: w - mainWidth},
			{X: xm - diff, Y: -w},
			{X: x1, Y: -w},
		},
		Elevation: c.Z.metal(), Width: FillWidth, Pad: scene.PadFilledPolygon,
	}); err != nil {
		return err
	}

	// coupled line
	yc0 := w + c.CouplerGap
	yc1 := yc0 + c.CouplerWidth
	yc4 := c.BoxY[1]
	yc3 := yc4 - c.PortLength
	yc2 := yc3 - pin
	l3, err := metal("line_p3", "3", geom.V3(xc1, yc2, c.Z.Top), geom.V3(xc2, yc3, c.Z.Metal))
	if err != nil {
		return err
	}
	l4, err := l3.DuplicateAs("line_p4")
	if err != nil {
		return err
	}
	withPad(l4.Mirror(geom.AxesX), "4")
	if c.Dual {
		withPad(l3.Duplicate().Mirror(geom.AxesY), "5")
		withPad(l4.Duplicate().Mirror(geom.AxesY), "6")
	}

	coupled, err := s.AddPolygon(scene.PolygonSpec{
		Name: "coupledline", Material: c.Metal, Priority: prio, Normal: geom.Z,
		Points: []geom.Vec2{
			{X: xc1 + c.Miter, Y: yc0},
			{X: xc1, Y: yc0 + c.Miter},
			{X: xc1, Y: yc3},
			{X: xc2, Y: yc3},
			{X: xc2, Y: yc1},
			{X: -xc2, Y: yc1},
			{X: -xc2, Y: yc3},
			{X: -xc1, Y: yc3},
			{X: -xc1, Y: yc0 + c.Miter},
			{X: -xc1 - c.Miter, Y: yc0},
		},
		Elevation: c.Z.metal(), Width: FillWidth, Pad: scene.PadFilledPolygon,
	})
	if err != nil {
		return err
	}
	if c.Dual {
		coupled.Duplicate().Mirror(geom.AxesY)
	}

	mainPorts := func() error {
		p, err := s.AddPort(scene.PortSpec{
			Start: geom.V3(x0, -w, c.Z.Top), Stop: geom.V3(x1, w, c.Z.Metal),
			Z0: PortImpedance, Direction: geom.X,
		})
		if err != nil {
			return err
		}
		p.Duplicate().Mirror(geom.AxesX)
		return nil
	}
	if !c.FeedCoupled {
		if err := mainPorts(); err != nil {
			return err
		}
	}
	cp1, err := s.AddPort(scene.PortSpec{
		Start: geom.V3(xc1, yc4, c.Z.Top), Stop: geom.V3(xc2, yc3, c.Z.Metal),
		Z0: PortImpedance, Direction: geom.Y,
	})
	if err != nil {
		return err
	}
	cp2 := cp1.Duplicate().Mirror(geom.AxesX)
	if c.Dual {
		cp1.Duplicate().Mirror(geom.AxesY)
		cp2.Duplicate().Mirror(geom.AxesY)
	}
	if c.FeedCoupled {
		if err := mainPorts(); err != nil {
			return err
		}
	}

	if c.CPWGap <= 0 {
		return nil
	}
	if _, err := metal("ground_lower_top", "",
		geom.V3(-0.5*c.BoxLength, -w-c.CPWGap, c.Z.Bottom),
		geom.V3(0.5*c.BoxLength, c.BoxY[0], c.Z.Metal)); err != nil {
		return err
	}
	upper, err := metal("ground_upper_left", "",
		geom.V3(-0.5*c.BoxLength, w+c.CPWGap, c.Z.Bottom),
		geom.V3(xc1-c.CPWGap, c.BoxY[1], c.Z.Metal))
	if err != nil {
		return err
	}
	right, err := upper.DuplicateAs("ground_upper_right")
	if err != nil {
		return err
	}
	right.Mirror(geom.AxesX)
	return nil
}

