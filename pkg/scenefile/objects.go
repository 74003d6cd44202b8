package scenefile

import (
	"fmt"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

func vec3(v [3]float64, unit float64) geom.Vec3 {
	return geom.V3(v[0], v[1], v[2]).Scale(unit)
}

func (o Object) build(s *scene.Scene, unit float64) error {
	p, err := o.add(s, unit)
	if err != nil {
		return err
	}
	for i, op := range o.Ops {
		if p, err = op.apply(p, unit); err != nil {
			return fmt.Errorf("ops[%d]: %w", i, err)
		}
	}
	return nil
}

func (o Object) add(s *scene.Scene, unit float64) (scene.Primitive, error) {
	switch o.Type {
	case "box":
		return s.AddBox(scene.BoxSpec{
			Name: o.Name, Material: o.Material, Priority: o.Priority,
			Start: vec3(o.Start, unit), Stop: vec3(o.Stop, unit),
			Pad: o.Pad, Layer: o.Layer,
		})
	case "cylinder":
		return s.AddCylinder(scene.CylinderSpec{
			Name: o.Name, Material: o.Material, Priority: o.Priority,
			Start: vec3(o.Start, unit), Stop: vec3(o.Stop, unit),
			Radius: o.Radius * unit,
		})
	case "via":
		z := make([]scene.ZRange, len(o.Z))
		for i, r := range o.Z {
			z[i] = scene.ZRange{Start: r[0] * unit, Stop: r[1] * unit}
		}
		return s.AddVia(scene.ViaSpec{
			Name: o.Name, Material: o.Material, Priority: o.Priority,
			X: o.At[0] * unit, Y: o.At[1] * unit, Z: z,
			DrillRadius: o.Drill * unit, PadRadius: o.PadRadius * unit,
			WallThickness: o.WallThickness * unit,
			Pad: o.Pad, Layer: o.Layer,
		})
	case "polygon":
		normal := geom.Z
		if o.Normal != "" {
			var err error
			if normal, err = geom.ParseAxis(o.Normal); err != nil {
				return nil, err
			}
		}
		pts := make([]geom.Vec2, len(o.Points))
		for i, p := range o.Points {
			pts[i] = geom.V2(p[0], p[1]).Scale(unit)
		}
		spec := scene.PolygonSpec{
			Name: o.Name, Material: o.Material, Priority: o.Priority,
			Points: pts, Normal: normal,
			Elevation: [2]float64{o.Elevation[0] * unit, o.Elevation[1] * unit},
			Width:     o.Width * unit,
			Pad:       o.Pad, Layer: o.Layer,
		}
		if o.Anchor != nil {
			a := geom.V2(o.Anchor[0], o.Anchor[1]).Scale(unit)
			spec.Anchor = &a
		}
		return s.AddPolygon(spec)
	case "port":
		dir, err := geom.ParseAxis(o.Direction)
		if err != nil {
			return nil, err
		}
		z0 := o.Z0
		if z0 == 0 {
			z0 = 50
		}
		return s.AddPort(scene.PortSpec{
			Name: o.Name, Start: vec3(o.Start, unit), Stop: vec3(o.Stop, unit),
			Z0: z0, Direction: dir, Pad: o.Pad, Layer: o.Layer,
		})
	}
	return nil, fmt.Errorf("object type %q: %w", o.Type, ErrInvalid)
}

// apply runs one op and returns the primitive the chain continues with
func (op Op) apply(p scene.Primitive, unit float64) (scene.Primitive, error) {
	set := 0
	for _, on := range []bool{op.Mirror != nil, op.Rotate != 0, op.Offset != nil, op.Duplicate != nil, op.Repeat != nil} {
		if on {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("op needs exactly one action, got %d: %w", set, ErrInvalid)
	}

	switch {
	case op.Mirror != nil:
		axes, err := geom.ParseAxes(*op.Mirror)
		if err != nil {
			return nil, err
		}
		return scene.Mirror(p, axes), nil
	case op.Rotate != 0:
		// quarter turns, negative is clockwise
		n := ((op.Rotate % 4) + 4) % 4
		for range n {
			scene.RotateCCW90(p)
		}
		return p, nil
	case op.Offset != nil:
		return scene.Offset(p, vec3(*op.Offset, unit)), nil
	case op.Duplicate != nil:
		return scene.Duplicate(p, *op.Duplicate)
	}
	if _, err := scene.DuplicateN(p, vec3(op.Repeat.Step, unit), op.Repeat.Count); err != nil {
		return nil, err
	}
	return p, nil
}
