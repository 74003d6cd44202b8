package scene

import (
	"fmt"

	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/solver"
)

// PortSpec describes a lumped port to add. Ports are named "p<N>" after
// their number unless Name is set. An empty Pad keeps the port out of the
// footprint.
type PortSpec struct {
	Name      string
	Start     geom.Vec3
	Stop      geom.Vec3
	Z0        float64
	Direction geom.Axis
	Pad       string
	Layer     string
}

// Port is a rectangular excitation and measurement region
type Port struct {
	object
	Start     geom.Vec3
	Stop      geom.Vec3
	Z0        float64
	Direction geom.Axis

	number int
}

// AddPort creates a port, gives it the next port number and registers it
func (s *Scene) AddPort(spec PortSpec) (*Port, error) {
	if !spec.Start.Finite() || !spec.Stop.Finite() {
		return nil, fmt.Errorf("port: non-finite corner: %w", ErrInvalidGeometry)
	}
	if !spec.Direction.Valid() {
		return nil, fmt.Errorf("port: direction %v: %w", spec.Direction, ErrInvalidGeometry)
	}
	if !(spec.Z0 > 0) {
		return nil, fmt.Errorf("port: impedance %g: %w", spec.Z0, ErrInvalidGeometry)
	}
	p := &Port{
		object:    newObject("", 0, spec.Pad, spec.Layer),
		Start:     spec.Start,
		Stop:      spec.Stop,
		Z0:        spec.Z0,
		Direction: spec.Direction,
	}
	if err := s.registerPort(p, spec.Name); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Port) Kind() Kind { return KindPort }

// Number is the port number, starting at 1 in creation order
func (p *Port) Number() int { return p.number }

func (p *Port) Bounds() geom.Bounds {
	return geom.BoundsOf(p.Start, p.Stop)
}

// Mirror reflects the port in place and returns it
func (p *Port) Mirror(axes geom.Axes) *Port {
	p.mirror(axes)
	return p
}

// RotateCCW90 rotates the port about the z axis and returns it. An x or y
// direction turns with it.
func (p *Port) RotateCCW90() *Port {
	p.rotateCCW90()
	return p
}

// Offset translates the port and returns it
func (p *Port) Offset(v geom.Vec3) *Port {
	p.translate(v)
	return p
}

// Duplicate registers a copy with the next port number and returns it
func (p *Port) Duplicate() *Port {
	return mustDuplicate(p).(*Port)
}

// DuplicateAs registers a copy with the next port number under name
func (p *Port) DuplicateAs(name string) (*Port, error) {
	c, err := Duplicate(p, name)
	if err != nil {
		return nil, err
	}
	return c.(*Port), nil
}

func (p *Port) mirror(axes geom.Axes) {
	p.Start = p.Start.Mirror(axes)
	p.Stop = p.Stop.Mirror(axes)
}

func (p *Port) rotateCCW90() {
	p.Start = p.Start.RotateCCW90()
	p.Stop = p.Stop.RotateCCW90()
	switch p.Direction {
	case geom.X:
		p.Direction = geom.Y
	case geom.Y:
		p.Direction = geom.X
	}
}

func (p *Port) translate(v geom.Vec3) {
	p.Start = p.Start.Add(v)
	p.Stop = p.Stop.Add(v)
}

func (p *Port) clone() Primitive {
	c := *p
	c.number = 0
	return &c
}

func (p *Port) EmitSolver(d *solver.Description) error {
	d.AddPort(solver.Port{
		Object:    p.name,
		Number:    p.number,
		Z0:        p.Z0,
		Start:     p.Start,
		Stop:      p.Stop,
		Direction: p.Direction,
	})
	return nil
}

// EmitFabrication adds a rectangular SMD pad when the port has a pad
func (p *Port) EmitFabrication(f *footprint.Footprint) error {
	if !p.fabricates() {
		return nil
	}
	f.Add(rectPad(p.pad, p.layer, p.name, p.Start, p.Stop))
	return nil
}
