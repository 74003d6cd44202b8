// Package solver holds the volumetric description handed to the external
// FDTD field solver and renders it as an openEMS Octave script.
//
// The description is backend-neutral: materials, shapes tagged with a
// material name and an overlap priority, lumped ports and proposed mesh
// lines. Priorities are passed through untouched; when two overlapping
// shapes share a priority, the solver decides which one wins.
package solver

import (
	"math"
	"slices"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/material"
	"github.com/OpenTraceLab/planarem/pkg/mesh"
)

// Shape is one solid primitive: *Box, *Cylinder or *LinPoly
type Shape interface {
	// Source returns the name of the scene object that emitted the shape
	Source() string
	// MaterialName returns the material the shape is filled with
	MaterialName() string
	// Bounds returns the axis-aligned extent
	Bounds() geom.Bounds
}

// Box is an axis-aligned box. A conducting sheet material makes it a sheet
// when one extent is zero.
type Box struct {
	Object   string
	Material string
	Priority int
	Start    geom.Vec3
	Stop     geom.Vec3
}

func (b *Box) Source() string       { return b.Object }
func (b *Box) MaterialName() string { return b.Material }
func (b *Box) Bounds() geom.Bounds  { return geom.BoundsOf(b.Start, b.Stop) }

// Cylinder is a right circular cylinder between two axial points
type Cylinder struct {
	Object   string
	Material string
	Priority int
	Start    geom.Vec3
	Stop     geom.Vec3
	Radius   float64
}

func (c *Cylinder) Source() string       { return c.Object }
func (c *Cylinder) MaterialName() string { return c.Material }

// Bounds pads the endpoints by the radius on every axis the cylinder does
// not run along.
func (c *Cylinder) Bounds() geom.Bounds {
	b := geom.BoundsOf(c.Start, c.Stop)
	d := c.Stop.Sub(c.Start)
	l := math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
	for a := geom.X; a <= geom.Z; a++ {
		// the end disks reach r·sqrt(1-u²) along an axis, u being the
		// axis component of the unit direction
		pad := c.Radius
		if l > 0 {
			u := d.Get(a) / l
			pad = c.Radius * math.Sqrt(math.Max(0, 1-u*u))
		}
		if pad == 0 {
			continue
		}
		b.Min = b.Min.With(a, b.Min.Get(a)-pad)
		b.Max = b.Max.With(a, b.Max.Get(a)+pad)
	}
	return b
}

// LinPoly is a polygon in the plane normal to Normal, extruded from
// Elevation by Height.
type LinPoly struct {
	Object    string
	Material  string
	Priority  int
	Normal    geom.Axis
	Elevation float64
	Height    float64
	Points    []geom.Vec2
}

func (p *LinPoly) Source() string       { return p.Object }
func (p *LinPoly) MaterialName() string { return p.Material }

// Bounds maps the in-plane coordinates back onto the 3-D axes
func (p *LinPoly) Bounds() geom.Bounds {
	b := geom.NewBounds()
	u, v := InPlaneAxes(p.Normal)
	for _, pt := range p.Points {
		var at geom.Vec3
		at = at.With(u, pt.X).With(v, pt.Y)
		b.Expand(at.With(p.Normal, p.Elevation))
		b.Expand(at.With(p.Normal, p.Elevation+p.Height))
	}
	return b
}

// InPlaneAxes returns the axes carried by a polygon's first and second
// point coordinates for a given normal: z→(x,y), x→(y,z), y→(z,x).
func InPlaneAxes(normal geom.Axis) (geom.Axis, geom.Axis) {
	switch normal {
	case geom.X:
		return geom.Y, geom.Z
	case geom.Y:
		return geom.Z, geom.X
	default:
		return geom.X, geom.Y
	}
}

// Port is a lumped excitation/measurement port
type Port struct {
	Object    string
	Number    int
	Z0        float64
	Start     geom.Vec3
	Stop      geom.Vec3
	Direction geom.Axis
}

// Bounds returns the port rectangle extent
func (p Port) Bounds() geom.Bounds {
	return geom.BoundsOf(p.Start, p.Stop)
}

// Description is the complete volumetric scene handed to the solver
type Description struct {
	Settings  Settings
	Materials []material.Material
	Shapes    []Shape
	Ports     []Port
	Mesh      *mesh.Lines
}

// New creates an empty description
func New(settings Settings) *Description {
	return &Description{
		Settings: settings,
		Mesh:     mesh.New(),
	}
}

// AddMaterial appends a material definition
func (d *Description) AddMaterial(m material.Material) {
	d.Materials = append(d.Materials, m)
}

// AddShape appends a shape and proposes mesh lines at its extrema
func (d *Description) AddShape(s Shape) {
	d.Shapes = append(d.Shapes, s)
	d.Mesh.AddBounds(s.Bounds())
}

// AddPort appends a port and proposes mesh lines at its extrema
func (d *Description) AddPort(p Port) {
	d.Ports = append(d.Ports, p)
	d.Mesh.AddBounds(p.Bounds())
}

// Port returns the port with the given number
func (d *Description) Port(n int) (Port, bool) {
	i := slices.IndexFunc(d.Ports, func(p Port) bool { return p.Number == n })
	if i < 0 {
		return Port{}, false
	}
	return d.Ports[i], true
}

// Material returns the material with the given name
func (d *Description) Material(name string) (material.Material, bool) {
	i := slices.IndexFunc(d.Materials, func(m material.Material) bool { return m.Name() == name })
	if i < 0 {
		return nil, false
	}
	return d.Materials[i], true
}

// ShapesOf returns the shapes emitted by one scene object, in order
func (d *Description) ShapesOf(object string) []Shape {
	var out []Shape
	for _, s := range d.Shapes {
		if s.Source() == object {
			out = append(out, s)
		}
	}
	return out
}
