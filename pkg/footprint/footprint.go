// Package footprint holds the 2-D fabrication view of a scene: rectangular
// and round pads, filled copper polygons and custom pads, all in
// millimeters, plus writers for KiCad, DXF and PNG previews.
package footprint

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp"
)

// MetersToMM converts scene units to footprint units
const MetersToMM = 1000.0

// PadType is the KiCad pad attribute
type PadType string

const (
	PadSMD         PadType = "smd"
	PadThroughHole PadType = "thru_hole"
)

// PadShape is the KiCad pad shape
type PadShape string

const (
	ShapeRect   PadShape = "rect"
	ShapeCircle PadShape = "circle"
	ShapeCustom PadShape = "custom"
)

// Item is one footprint element: Pad, Poly or CustomPad
type Item interface {
	// Bounds returns the extent in millimeters
	Bounds() sexp.BoundingBox
	mirror(axes geom.Axes)
}

// Pad is a rectangular or round pad. Drill is zero for SMD pads.
type Pad struct {
	Name   string
	Type   PadType
	Shape  PadShape
	At     sexp.Position
	Size   sexp.Size
	Drill  float64
	Layers []string
	// MaskMargin is the solder mask expansion; negative shrinks the opening
	MaskMargin float64
	// Source names the scene object the pad came from
	Source string
}

func (p *Pad) Bounds() sexp.BoundingBox {
	bb := sexp.NewBoundingBox()
	bb.Expand(sexp.Position{X: p.At.X - p.Size.Width/2, Y: p.At.Y - p.Size.Height/2})
	bb.Expand(sexp.Position{X: p.At.X + p.Size.Width/2, Y: p.At.Y + p.Size.Height/2})
	return bb
}

func (p *Pad) mirror(axes geom.Axes) {
	p.At = mirrorPos(p.At, axes)
}

// Poly is a filled copper polygon on one layer
type Poly struct {
	Points []sexp.Position
	Layer  string
	Width  float64
	Source string
}

func (p *Poly) Bounds() sexp.BoundingBox {
	return pointsBounds(p.Points, sexp.Position{})
}

func (p *Poly) mirror(axes geom.Axes) {
	for i := range p.Points {
		p.Points[i] = mirrorPos(p.Points[i], axes)
	}
}

// CustomPad is a pad whose copper is an arbitrary polygon. Points are
// relative to At, which is the pad anchor.
type CustomPad struct {
	Name   string
	At     sexp.Position
	Layer  string
	Points []sexp.Position
	Width  float64
	Source string
}

func (p *CustomPad) Bounds() sexp.BoundingBox {
	return pointsBounds(p.Points, p.At)
}

func (p *CustomPad) mirror(axes geom.Axes) {
	p.At = mirrorPos(p.At, axes)
	for i := range p.Points {
		p.Points[i] = mirrorPos(p.Points[i], axes)
	}
}

func mirrorPos(p sexp.Position, axes geom.Axes) sexp.Position {
	if axes.Has(geom.X) {
		p.X = -p.X
	}
	if axes.Has(geom.Y) {
		p.Y = -p.Y
	}
	return p
}

func pointsBounds(pts []sexp.Position, origin sexp.Position) sexp.BoundingBox {
	bb := sexp.NewBoundingBox()
	for _, p := range pts {
		bb.Expand(sexp.Position{X: origin.X + p.X, Y: origin.Y + p.Y})
	}
	return bb
}

// Footprint is an ordered list of items
type Footprint struct {
	Name  string
	Items []Item
}

// New creates an empty footprint
func New(name string) *Footprint {
	return &Footprint{Name: name}
}

// Add appends an item
func (f *Footprint) Add(item Item) {
	f.Items = append(f.Items, item)
}

// Mirror negates the x and/or y coordinate of every item. A z in axes is
// ignored: the footprint is flat.
func (f *Footprint) Mirror(axes geom.Axes) {
	if axes.Without(geom.Z) == geom.AxesNone {
		return
	}
	for _, it := range f.Items {
		it.mirror(axes)
	}
}

// Bounds returns the extent of all items
func (f *Footprint) Bounds() sexp.BoundingBox {
	bb := sexp.NewBoundingBox()
	for _, it := range f.Items {
		bb.ExpandBox(it.Bounds())
	}
	return bb
}

// Pads returns the rectangular and round pads in order
func (f *Footprint) Pads() []*Pad {
	var out []*Pad
	for _, it := range f.Items {
		if p, ok := it.(*Pad); ok {
			out = append(out, p)
		}
	}
	return out
}

// Polys returns the filled polygons in order
func (f *Footprint) Polys() []*Poly {
	var out []*Poly
	for _, it := range f.Items {
		if p, ok := it.(*Poly); ok {
			out = append(out, p)
		}
	}
	return out
}

// CustomPads returns the custom pads in order
func (f *Footprint) CustomPads() []*CustomPad {
	var out []*CustomPad
	for _, it := range f.Items {
		if p, ok := it.(*CustomPad); ok {
			out = append(out, p)
		}
	}
	return out
}

// Layers returns every copper or mask layer referenced, in first-use order
func (f *Footprint) Layers() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(l string) {
		if l != "" && !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for _, it := range f.Items {
		switch it := it.(type) {
		case *Pad:
			for _, l := range it.Layers {
				add(l)
			}
		case *Poly:
			add(it.Layer)
		case *CustomPad:
			add(it.Layer)
		}
	}
	return out
}

// SMDLayers returns the copper and mask layers for an SMD pad on a copper
// layer: "F.Cu" gives F.Cu and F.Mask.
func SMDLayers(copper string) []string {
	side, ok := strings.CutSuffix(copper, ".Cu")
	if !ok || side == "*" {
		return []string{copper}
	}
	return []string{copper, side + ".Mask"}
}

// ThroughHoleLayers are the layers of a plated hole
func ThroughHoleLayers() []string {
	return []string{"*.Cu", "*.Mask"}
}

func (p *Pad) String() string {
	return fmt.Sprintf("pad %q %s %s at (%g, %g) size %gx%g", p.Name, p.Type, p.Shape,
		p.At.X, p.At.Y, p.Size.Width, p.Size.Height)
}
