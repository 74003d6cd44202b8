package scene

import (
	"fmt"
	"slices"

	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp"
	"github.com/OpenTraceLab/planarem/pkg/solver"
)

// ViaMaskOverlap is added to the via mask margin so the mask opening
// slightly overlaps the annular ring edge, in millimeters.
const ViaMaskOverlap = 0.03

// ZRange is an interval along z. Start and Stop may be given in either order
// but must differ.
type ZRange struct {
	Start float64
	Stop  float64
}

// ViaSpec describes a via to add. The first range is the plated barrel, the
// rest are annular pads on the copper layers the via passes.
type ViaSpec struct {
	Name          string
	Material      string
	Priority      int
	X, Y          float64
	Z             []ZRange
	DrillRadius   float64
	PadRadius     float64
	WallThickness float64
	Pad           string
	Layer         string
}

// Via is a plated through-hole: one barrel cylinder plus one pad cylinder per
// additional z-range, all on the same xy axis.
type Via struct {
	object
	X, Y          float64
	Z             []ZRange
	DrillRadius   float64
	PadRadius     float64
	WallThickness float64
}

// AddVia creates a via and registers it in the scene
func (s *Scene) AddVia(spec ViaSpec) (*Via, error) {
	if err := validateVia(spec); err != nil {
		return nil, fmt.Errorf("via %q: %w", spec.Name, err)
	}
	v := &Via{
		object:        newObject(spec.Material, spec.Priority, spec.Pad, spec.Layer),
		X:             spec.X,
		Y:             spec.Y,
		Z:             slices.Clone(spec.Z),
		DrillRadius:   spec.DrillRadius,
		PadRadius:     spec.PadRadius,
		WallThickness: spec.WallThickness,
	}
	if err := s.add(v, spec.Name); err != nil {
		return nil, err
	}
	return v, nil
}

func validateVia(spec ViaSpec) error {
	if len(spec.Z) == 0 {
		return fmt.Errorf("no z ranges: %w", ErrInvalidGeometry)
	}
	for i, z := range spec.Z {
		if z.Start == z.Stop {
			return fmt.Errorf("z range %d is empty at %g: %w", i, z.Start, ErrInvalidGeometry)
		}
		if !geom.V3(spec.X, spec.Y, z.Start).Finite() || !geom.V3(0, 0, z.Stop).Finite() {
			return fmt.Errorf("z range %d: non-finite coordinate: %w", i, ErrInvalidGeometry)
		}
	}
	if !(spec.DrillRadius > 0) {
		return fmt.Errorf("drill radius %g: %w", spec.DrillRadius, ErrInvalidGeometry)
	}
	if len(spec.Z) > 1 && !(spec.PadRadius > 0) {
		return fmt.Errorf("pad radius %g: %w", spec.PadRadius, ErrInvalidGeometry)
	}
	if spec.WallThickness < 0 {
		return fmt.Errorf("wall thickness %g: %w", spec.WallThickness, ErrInvalidGeometry)
	}
	return nil
}

func (v *Via) Kind() Kind { return KindVia }

// BarrelRadius is the drill radius inflated by the plating wall
func (v *Via) BarrelRadius() float64 {
	return v.DrillRadius + v.WallThickness
}

// cylinders returns the barrel followed by the pads. Only the barrel is
// shifted by off.
func (v *Via) cylinders(off geom.Vec2) []*solver.Cylinder {
	out := make([]*solver.Cylinder, 0, len(v.Z))
	for i, z := range v.Z {
		r, at := v.PadRadius, geom.V2(v.X, v.Y)
		if i == 0 {
			r, at = v.BarrelRadius(), at.Add(off)
		}
		out = append(out, &solver.Cylinder{
			Object:   v.name,
			Material: v.material,
			Priority: v.priority,
			Start:    geom.V3(at.X, at.Y, z.Start),
			Stop:     geom.V3(at.X, at.Y, z.Stop),
			Radius:   r,
		})
	}
	return out
}

func (v *Via) Bounds() geom.Bounds {
	b := geom.NewBounds()
	for _, c := range v.cylinders(geom.Vec2{}) {
		b.Union(c.Bounds())
	}
	return b
}

// Mirror reflects the via in place and returns it. Mirroring about z
// negates every z-range.
func (v *Via) Mirror(axes geom.Axes) *Via {
	v.mirror(axes)
	return v
}

// RotateCCW90 rotates the via position about the z axis and returns it
func (v *Via) RotateCCW90() *Via {
	v.rotateCCW90()
	return v
}

// Offset translates the via and returns it
func (v *Via) Offset(d geom.Vec3) *Via {
	v.translate(d)
	return v
}

// Duplicate registers an automatically named copy and returns it
func (v *Via) Duplicate() *Via {
	return mustDuplicate(v).(*Via)
}

// DuplicateAs registers a copy under name
func (v *Via) DuplicateAs(name string) (*Via, error) {
	c, err := Duplicate(v, name)
	if err != nil {
		return nil, err
	}
	return c.(*Via), nil
}

func (v *Via) mirror(axes geom.Axes) {
	if axes.Has(geom.X) {
		v.X = -v.X
	}
	if axes.Has(geom.Y) {
		v.Y = -v.Y
	}
	if axes.Has(geom.Z) {
		for i := range v.Z {
			v.Z[i] = ZRange{Start: -v.Z[i].Start, Stop: -v.Z[i].Stop}
		}
	}
}

func (v *Via) rotateCCW90() {
	v.X, v.Y = -v.Y, v.X
}

func (v *Via) translate(d geom.Vec3) {
	v.X += d.X
	v.Y += d.Y
	for i := range v.Z {
		v.Z[i].Start += d.Z
		v.Z[i].Stop += d.Z
	}
}

func (v *Via) clone() Primitive {
	c := *v
	c.Z = slices.Clone(v.Z)
	return &c
}

// EmitSolver adds one cylinder per z-range, barrel first. The description's
// via offset shifts every cylinder.
func (v *Via) EmitSolver(d *solver.Description) error {
	for _, c := range v.cylinders(d.Settings.ViaOffset) {
		d.AddShape(c)
	}
	return nil
}

// EmitFabrication adds a round plated through-hole pad. The mask opening
// shrinks to the middle of the annular ring.
func (v *Via) EmitFabrication(f *footprint.Footprint) error {
	if !v.fabricates() {
		return nil
	}
	pad := v.PadRadius
	if pad < v.DrillRadius {
		pad = v.DrillRadius
	}
	f.Add(&footprint.Pad{
		Name:       v.pad,
		Type:       footprint.PadThroughHole,
		Shape:      footprint.ShapeCircle,
		At:         sexp.Position{X: mm(v.X), Y: mm(v.Y)},
		Size:       sexp.Size{Width: mm(2 * pad), Height: mm(2 * pad)},
		Drill:      mm(2 * v.DrillRadius),
		Layers:     footprint.ThroughHoleLayers(),
		MaskMargin: -mm(pad-v.DrillRadius)/2 + ViaMaskOverlap,
		Source:     v.name,
	})
	return nil
}
