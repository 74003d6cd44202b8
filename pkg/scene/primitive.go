package scene

import (
	"fmt"

	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/material"
	"github.com/OpenTraceLab/planarem/pkg/solver"
)

// Kind tags the primitive variant
type Kind int

const (
	KindBox Kind = iota
	KindCylinder
	KindVia
	KindPolygon
	KindPort
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindCylinder:
		return "cylinder"
	case KindVia:
		return "via"
	case KindPolygon:
		return "polygon"
	case KindPort:
		return "port"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// PadFilledPolygon is the pad value that renders a Polygon as filled copper
// (fp_poly) instead of a named custom pad.
const PadFilledPolygon = "~poly"

// DefaultLayer is the fabrication layer primitives start on
const DefaultLayer = "F.Cu"

// Primitive is implemented by *Box, *Cylinder, *Via, *Polygon and *Port.
// The set is closed: the unexported methods keep other packages from adding
// variants.
type Primitive interface {
	Name() string
	Kind() Kind
	Scene() *Scene
	// MaterialName is empty for ports
	MaterialName() string
	// Priority decides overlaps in the solver: higher wins. Equal
	// priorities are resolved by the solver, not here.
	Priority() int
	Pad() string
	Layer() string
	SetPad(pad string)
	SetLayer(layer string)
	// Bounds returns the solid extent in scene coordinates
	Bounds() geom.Bounds
	EmitSolver(d *solver.Description) error
	EmitFabrication(f *footprint.Footprint) error

	base() *object
	mirror(axes geom.Axes)
	rotateCCW90()
	translate(v geom.Vec3)
	// clone deep-copies the geometry without registering the copy
	clone() Primitive
}

// object holds what every primitive shares
type object struct {
	scene    *Scene
	name     string
	material string
	priority int
	pad      string
	layer    string
}

func (o *object) base() *object         { return o }
func (o *object) Name() string          { return o.name }
func (o *object) Scene() *Scene         { return o.scene }
func (o *object) MaterialName() string  { return o.material }
func (o *object) Priority() int         { return o.priority }
func (o *object) Pad() string           { return o.pad }
func (o *object) Layer() string         { return o.layer }
func (o *object) SetPad(pad string)     { o.pad = pad }
func (o *object) SetLayer(layer string) { o.layer = layer }

func newObject(mat string, priority int, pad, layer string) object {
	if layer == "" {
		layer = DefaultLayer
	}
	return object{material: mat, priority: priority, pad: pad, layer: layer}
}

// fabricates reports whether the primitive takes part in the fabrication
// export: it needs a pad and a layer, and dielectrics never do.
func (o *object) fabricates() bool {
	if o.pad == "" || o.layer == "" {
		return false
	}
	if o.material == "" {
		return true
	}
	m, ok := o.scene.materials[o.material]
	return ok && m.Kind() != material.KindDielectric
}

// Mirror reflects p about the x=0, y=0 and/or z=0 planes in place
func Mirror(p Primitive, axes geom.Axes) Primitive {
	p.mirror(axes)
	return p
}

// RotateCCW90 rotates p by 90 degrees counterclockwise about the z axis
func RotateCCW90(p Primitive) Primitive {
	p.rotateCCW90()
	return p
}

// Offset translates p by v
func Offset(p Primitive, v geom.Vec3) Primitive {
	p.translate(v)
	return p
}

// Duplicate deep-copies p and registers the copy under name, or under an
// automatic name when name is empty. Ports get the next port number.
func Duplicate(p Primitive, name string) (Primitive, error) {
	s := p.Scene()
	c := p.clone()
	if port, ok := c.(*Port); ok {
		if err := s.registerPort(port, name); err != nil {
			return nil, fmt.Errorf("duplicate %q: %w", p.Name(), err)
		}
		return port, nil
	}
	if err := s.registerOrAuto(c, name); err != nil {
		return nil, fmt.Errorf("duplicate %q: %w", p.Name(), err)
	}
	return c, nil
}

// mustDuplicate copies p under an automatic name, which is always free
func mustDuplicate(p Primitive) Primitive {
	c, err := Duplicate(p, "")
	if err != nil {
		panic(err)
	}
	return c
}

// DuplicateN makes count-1 copies of p named "<name>_2", "<name>_3", …
// with copy i offset by i·step. Every name is checked before the first copy
// is made, so on error the scene is unchanged.
func DuplicateN(p Primitive, step geom.Vec3, count int) ([]Primitive, error) {
	s := p.Scene()
	names := make([]string, 0, max(count-1, 0))
	for i := 1; i < count; i++ {
		name := fmt.Sprintf("%s_%d", p.Name(), i+1)
		if _, taken := s.objects[name]; taken {
			return nil, fmt.Errorf("duplicate %q: %s %q: %w", p.Name(), p.Kind(), name, ErrDuplicateName)
		}
		names = append(names, name)
	}
	out := make([]Primitive, 0, len(names))
	for i, name := range names {
		c, err := Duplicate(p, name)
		if err != nil {
			return nil, err
		}
		c.translate(step.Scale(float64(i + 1)))
		out = append(out, c)
	}
	return out, nil
}

func mm(v float64) float64 {
	return v * footprint.MetersToMM
}
