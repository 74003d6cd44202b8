package scene

import (
	"fmt"
	"slices"

	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp"
	"github.com/OpenTraceLab/planarem/pkg/polygon"
	"github.com/OpenTraceLab/planarem/pkg/solver"
)

// PolygonSpec describes an extruded polygon to add.
//
// Points are in the plane normal to Normal: (x, y) for z, (y, z) for x and
// (z, x) for y. Elevation is the start and stop along the normal. Width is
// the fabrication outline stroke. Anchor places the custom pad origin; when
// nil the centroid is used.
type PolygonSpec struct {
	Name      string
	Material  string
	Priority  int
	Points    []geom.Vec2
	Normal    geom.Axis
	Elevation [2]float64
	Width     float64
	Anchor    *geom.Vec2
	Pad       string
	Layer     string
}

// Polygon is a closed point sequence extruded along its normal axis
type Polygon struct {
	object
	Points    []geom.Vec2
	Normal    geom.Axis
	Elevation [2]float64
	Width     float64

	anchor   geom.Vec2
	anchored bool
}

// AddPolygon creates a polygon and registers it in the scene. The points
// are copied. Point validity is only enforced when the polygon is exported
// as fabrication copper.
func (s *Scene) AddPolygon(spec PolygonSpec) (*Polygon, error) {
	if !spec.Normal.Valid() {
		return nil, fmt.Errorf("polygon %q: normal %v: %w", spec.Name, spec.Normal, ErrInvalidGeometry)
	}
	if !geom.V2(spec.Elevation[0], spec.Elevation[1]).Finite() {
		return nil, fmt.Errorf("polygon %q: non-finite elevation: %w", spec.Name, ErrInvalidGeometry)
	}
	p := &Polygon{
		object:    newObject(spec.Material, spec.Priority, spec.Pad, spec.Layer),
		Points:    slices.Clone(spec.Points),
		Normal:    spec.Normal,
		Elevation: spec.Elevation,
		Width:     spec.Width,
	}
	if spec.Anchor != nil {
		p.anchor, p.anchored = *spec.Anchor, true
	}
	if err := s.add(p, spec.Name); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Polygon) Kind() Kind { return KindPolygon }

// Height is the extrusion length along the normal
func (p *Polygon) Height() float64 {
	return p.Elevation[1] - p.Elevation[0]
}

// Anchor returns the custom pad origin
func (p *Polygon) Anchor() geom.Vec2 {
	if p.anchored {
		return p.anchor
	}
	return polygon.Centroid(p.Points)
}

func (p *Polygon) shape() *solver.LinPoly {
	return &solver.LinPoly{
		Object:    p.name,
		Material:  p.material,
		Priority:  p.priority,
		Normal:    p.Normal,
		Elevation: p.Elevation[0],
		Height:    p.Height(),
		Points:    slices.Clone(p.Points),
	}
}

func (p *Polygon) Bounds() geom.Bounds {
	return p.shape().Bounds()
}

// Mirror negates the selected in-plane coordinate of every point and returns
// the polygon. The normal axis is not mirrored: when axes includes it a
// diagnostic is recorded and only the in-plane axes are applied.
func (p *Polygon) Mirror(axes geom.Axes) *Polygon {
	p.mirror(axes)
	return p
}

// RotateCCW90 is not supported for polygons. It records a diagnostic and
// returns the polygon unchanged.
func (p *Polygon) RotateCCW90() *Polygon {
	p.rotateCCW90()
	return p
}

// Offset translates the points by the in-plane components of v and the
// elevation by the normal component.
func (p *Polygon) Offset(v geom.Vec3) *Polygon {
	p.translate(v)
	return p
}

// Duplicate registers an automatically named copy and returns it
func (p *Polygon) Duplicate() *Polygon {
	return mustDuplicate(p).(*Polygon)
}

// DuplicateAs registers a copy under name
func (p *Polygon) DuplicateAs(name string) (*Polygon, error) {
	c, err := Duplicate(p, name)
	if err != nil {
		return nil, err
	}
	return c.(*Polygon), nil
}

func (p *Polygon) mirror(axes geom.Axes) {
	if axes.Has(p.Normal) {
		p.scene.diagnose(p, "mirror", fmt.Sprintf("cannot mirror about the normal axis %v, mirroring in-plane axes only", p.Normal))
	}
	u, v := solver.InPlaneAxes(p.Normal)
	var in geom.Axes
	if axes.Has(u) {
		in |= geom.AxesX
	}
	if axes.Has(v) {
		in |= geom.AxesY
	}
	if in == geom.AxesNone {
		return
	}
	p.Points = polygon.Mirror(p.Points, in)
	if p.anchored {
		p.anchor = polygon.Mirror([]geom.Vec2{p.anchor}, in)[0]
	}
}

func (p *Polygon) rotateCCW90() {
	p.scene.diagnose(p, "rotate_ccw_90", "rotation is not supported for polygons")
}

func (p *Polygon) translate(v geom.Vec3) {
	u, w := solver.InPlaneAxes(p.Normal)
	d := geom.V2(v.Get(u), v.Get(w))
	p.Points = polygon.Translate(p.Points, d)
	if p.anchored {
		p.anchor = p.anchor.Add(d)
	}
	p.Elevation[0] += v.Get(p.Normal)
	p.Elevation[1] += v.Get(p.Normal)
}

func (p *Polygon) clone() Primitive {
	c := *p
	c.Points = slices.Clone(p.Points)
	return &c
}

func (p *Polygon) EmitSolver(d *solver.Description) error {
	d.AddShape(p.shape())
	return nil
}

// EmitFabrication adds a filled polygon when the pad is PadFilledPolygon,
// and a custom pad named after the pad otherwise. Only polygons in the xy
// plane have a footprint.
func (p *Polygon) EmitFabrication(f *footprint.Footprint) error {
	if !p.fabricates() {
		return nil
	}
	if p.Normal != geom.Z {
		p.scene.logger.Debug("polygon not in the board plane, no footprint", "name", p.name, "normal", p.Normal)
		return nil
	}
	if err := polygon.ValidateSimple(p.Points); err != nil {
		return fmt.Errorf("polygon %q: %w: %w", p.name, ErrMalformedPolygon, err)
	}
	if p.pad == PadFilledPolygon {
		f.Add(&footprint.Poly{
			Points: positions(p.Points, geom.Vec2{}),
			Layer:  p.layer,
			Width:  mm(p.Width),
			Source: p.name,
		})
		return nil
	}
	at := p.Anchor()
	f.Add(&footprint.CustomPad{
		Name:   p.pad,
		At:     sexp.Position{X: mm(at.X), Y: mm(at.Y)},
		Layer:  p.layer,
		Points: positions(p.Points, at),
		Width:  mm(p.Width),
		Source: p.name,
	})
	return nil
}

// positions converts points relative to origin into millimeters
func positions(pts []geom.Vec2, origin geom.Vec2) []sexp.Position {
	out := make([]sexp.Position, len(pts))
	for i, pt := range pts {
		out[i] = sexp.Position{X: mm(pt.X - origin.X), Y: mm(pt.Y - origin.Y)}
	}
	return out
}
