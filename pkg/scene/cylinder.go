package scene

import (
	"fmt"

	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/solver"
)

// CylinderSpec describes a cylinder to add
type CylinderSpec struct {
	Name     string
	Material string
	Priority int
	Start    geom.Vec3
	Stop     geom.Vec3
	Radius   float64
}

// Cylinder is a right circular cylinder between two axial endpoints.
// Cylinders are solver-only: they never produce fabrication items.
type Cylinder struct {
	object
	Start  geom.Vec3
	Stop   geom.Vec3
	Radius float64
}

// AddCylinder creates a cylinder and registers it in the scene
func (s *Scene) AddCylinder(spec CylinderSpec) (*Cylinder, error) {
	if !spec.Start.Finite() || !spec.Stop.Finite() {
		return nil, fmt.Errorf("cylinder %q: non-finite endpoint: %w", spec.Name, ErrInvalidGeometry)
	}
	if !(spec.Radius > 0) {
		return nil, fmt.Errorf("cylinder %q: radius %g: %w", spec.Name, spec.Radius, ErrInvalidGeometry)
	}
	c := &Cylinder{
		object: newObject(spec.Material, spec.Priority, "", ""),
		Start:  spec.Start,
		Stop:   spec.Stop,
		Radius: spec.Radius,
	}
	if err := s.add(c, spec.Name); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cylinder) Kind() Kind { return KindCylinder }

func (c *Cylinder) shape() *solver.Cylinder {
	return &solver.Cylinder{
		Object:   c.name,
		Material: c.material,
		Priority: c.priority,
		Start:    c.Start,
		Stop:     c.Stop,
		Radius:   c.Radius,
	}
}

func (c *Cylinder) Bounds() geom.Bounds {
	return c.shape().Bounds()
}

// Mirror reflects the cylinder in place and returns it
func (c *Cylinder) Mirror(axes geom.Axes) *Cylinder {
	c.mirror(axes)
	return c
}

// RotateCCW90 rotates the cylinder about the z axis and returns it
func (c *Cylinder) RotateCCW90() *Cylinder {
	c.rotateCCW90()
	return c
}

// Offset translates the cylinder and returns it
func (c *Cylinder) Offset(v geom.Vec3) *Cylinder {
	c.translate(v)
	return c
}

// Duplicate registers an automatically named copy and returns it
func (c *Cylinder) Duplicate() *Cylinder {
	return mustDuplicate(c).(*Cylinder)
}

// DuplicateAs registers a copy under name
func (c *Cylinder) DuplicateAs(name string) (*Cylinder, error) {
	d, err := Duplicate(c, name)
	if err != nil {
		return nil, err
	}
	return d.(*Cylinder), nil
}

func (c *Cylinder) mirror(axes geom.Axes) {
	c.Start = c.Start.Mirror(axes)
	c.Stop = c.Stop.Mirror(axes)
}

func (c *Cylinder) rotateCCW90() {
	c.Start = c.Start.RotateCCW90()
	c.Stop = c.Stop.RotateCCW90()
}

func (c *Cylinder) translate(v geom.Vec3) {
	c.Start = c.Start.Add(v)
	c.Stop = c.Stop.Add(v)
}

func (c *Cylinder) clone() Primitive {
	d := *c
	return &d
}

func (c *Cylinder) EmitSolver(d *solver.Description) error {
	d.AddShape(c.shape())
	return nil
}

func (c *Cylinder) EmitFabrication(*footprint.Footprint) error {
	return nil
}
