package designs

import (
	"fmt"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/material"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// Resistor is a 0201-style chip resistor: two metal end caps, a ceramic
// body and a thin lumped resistive element on top of the body (or under it
// with ElementDown). It is built along y at the origin, flipped about z
// when Invert is set, turned onto x when Direction is x, then moved to
// Origin.
//
// The lumped element material "<Name>_element" is registered by Generate.
type Resistor struct {
	Name        string
	Origin      geom.Vec3
	Direction   geom.Axis
	Value       float64
	Invert      bool
	ElementDown bool
	// Dielectric is the body material, Metal the end caps
	Dielectric string
	Metal      string
	Priority   int
}

func (r Resistor) Generate(s *scene.Scene) error {
	return wrap("resistor "+r.Name, r.generate(s))
}

func (r Resistor) generate(s *scene.Scene) error {
	if r.Direction != geom.X && r.Direction != geom.Y {
		return fmt.Errorf("direction %v: %w", r.Direction, scene.ErrInvalidGeometry)
	}
	prio := priority(r.Priority)
	elementName := r.Name + "_element"
	element, err := material.NewLumpedElement(elementName, material.Resistor, r.Value, r.Direction)
	if err != nil {
		return err
	}
	if err := s.AddMaterial(element); err != nil {
		return err
	}

	cap1, err := s.AddBox(scene.BoxSpec{
		Name: r.Name + "_end_cap", Material: r.Metal, Priority: prio,
		Start: geom.V3(-0.15*mm, -0.3*mm, 0), Stop: geom.V3(0.15*mm, -0.125*mm, 0.25*mm),
	})
	if err != nil {
		return err
	}
	cap2, err := cap1.DuplicateAs(r.Name + "_end_cap2")
	if err != nil {
		return err
	}
	cap2.Mirror(geom.AxesY)

	body, err := s.AddBox(scene.BoxSpec{
		Name: r.Name + "_body", Material: r.Dielectric, Priority: prio + 1,
		Start: geom.V3(-0.15*mm, -0.27*mm, 0.02*mm), Stop: geom.V3(0.15*mm, 0.27*mm, 0.23*mm),
	})
	if err != nil {
		return err
	}

	zoff := 0.23 * mm
	if r.ElementDown {
		zoff = 0
	}
	film, err := s.AddBox(scene.BoxSpec{
		Name: elementName, Material: elementName, Priority: prio + 1,
		Start: geom.V3(-0.1*mm, -0.125*mm, zoff), Stop: geom.V3(0.1*mm, 0.125*mm, zoff+0.02*mm),
	})
	if err != nil {
		return err
	}

	for _, b := range []*scene.Box{cap1, cap2, body, film} {
		if r.Invert {
			b.Mirror(geom.AxesZ)
		}
		if r.Direction != geom.Y {
			b.RotateCCW90()
		}
		b.Offset(r.Origin)
	}
	return nil
}
