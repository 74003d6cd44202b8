package scene

import (
	"fmt"

	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp"
	"github.com/OpenTraceLab/planarem/pkg/material"
	"github.com/OpenTraceLab/planarem/pkg/solver"
)

// BoxSpec describes a box to add. An empty Name gets an automatic one, an
// empty Layer means DefaultLayer and an empty Pad means no fabrication.
type BoxSpec struct {
	Name     string
	Material string
	Priority int
	Start    geom.Vec3
	Stop     geom.Vec3
	Pad      string
	Layer    string
}

// Box is an axis-aligned rectangular prism between two opposite corners
type Box struct {
	object
	Start geom.Vec3
	Stop  geom.Vec3
}

// AddBox creates a box and registers it in the scene
func (s *Scene) AddBox(spec BoxSpec) (*Box, error) {
	if !spec.Start.Finite() || !spec.Stop.Finite() {
		return nil, fmt.Errorf("box %q: non-finite corner: %w", spec.Name, ErrInvalidGeometry)
	}
	b := &Box{
		object: newObject(spec.Material, spec.Priority, spec.Pad, spec.Layer),
		Start:  spec.Start,
		Stop:   spec.Stop,
	}
	if err := s.add(b, spec.Name); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Box) Kind() Kind { return KindBox }

func (b *Box) Bounds() geom.Bounds {
	return geom.BoundsOf(b.Start, b.Stop)
}

// Mirror reflects the box in place and returns it
func (b *Box) Mirror(axes geom.Axes) *Box {
	b.mirror(axes)
	return b
}

// RotateCCW90 rotates the box about the z axis and returns it
func (b *Box) RotateCCW90() *Box {
	b.rotateCCW90()
	return b
}

// Offset translates the box and returns it
func (b *Box) Offset(v geom.Vec3) *Box {
	b.translate(v)
	return b
}

// Duplicate registers an automatically named copy and returns it
func (b *Box) Duplicate() *Box {
	return mustDuplicate(b).(*Box)
}

// DuplicateAs registers a copy under name
func (b *Box) DuplicateAs(name string) (*Box, error) {
	c, err := Duplicate(b, name)
	if err != nil {
		return nil, err
	}
	return c.(*Box), nil
}

func (b *Box) mirror(axes geom.Axes) {
	b.Start = b.Start.Mirror(axes)
	b.Stop = b.Stop.Mirror(axes)
}

func (b *Box) rotateCCW90() {
	b.Start = b.Start.RotateCCW90()
	b.Stop = b.Stop.RotateCCW90()
}

func (b *Box) translate(v geom.Vec3) {
	b.Start = b.Start.Add(v)
	b.Stop = b.Stop.Add(v)
}

func (b *Box) clone() Primitive {
	c := *b
	return &c
}

// EmitSolver adds one box, or six face sheets for a lossy metal
func (b *Box) EmitSolver(d *solver.Description) error {
	m, ok := b.scene.Material(b.material)
	if !ok {
		return fmt.Errorf("material %q: %w", b.material, ErrUndefinedMaterial)
	}
	if m.Kind() != material.KindLossyMetal {
		d.AddShape(&solver.Box{
			Object:   b.name,
			Material: b.material,
			Priority: b.priority,
			Start:    b.Start,
			Stop:     b.Stop,
		})
		return nil
	}
	for _, face := range boxFaces(b.Start, b.Stop) {
		d.AddShape(&solver.Box{
			Object:   b.name,
			Material: b.material,
			Priority: b.priority,
			Start:    face[0],
			Stop:     face[1],
		})
	}
	return nil
}

// boxFaces returns the six faces of a box: bottom, top, then the y-start,
// y-stop, x-start and x-stop walls.
func boxFaces(start, stop geom.Vec3) [6][2]geom.Vec3 {
	return [6][2]geom.Vec3{
		{start, stop.With(geom.Z, start.Z)},
		{start.With(geom.Z, stop.Z), stop},
		{start, stop.With(geom.Y, start.Y)},
		{start.With(geom.Y, stop.Y), stop},
		{start, stop.With(geom.X, start.X)},
		{start.With(geom.X, stop.X), stop},
	}
}

// EmitFabrication adds a rectangular SMD pad covering the box's xy extent
func (b *Box) EmitFabrication(f *footprint.Footprint) error {
	if !b.fabricates() {
		return nil
	}
	f.Add(rectPad(b.pad, b.layer, b.name, b.Start, b.Stop))
	return nil
}

func rectPad(name, layer, source string, start, stop geom.Vec3) *footprint.Pad {
	bb := geom.BoundsOf(start, stop)
	c, size := bb.Center(), bb.Size()
	return &footprint.Pad{
		Name:   name,
		Type:   footprint.PadSMD,
		Shape:  footprint.ShapeRect,
		At:     sexp.Position{X: mm(c.X), Y: mm(c.Y)},
		Size:   sexp.Size{Width: mm(size.X), Height: mm(size.Y)},
		Layers: footprint.SMDLayers(layer),
		Source: source,
	}
}
