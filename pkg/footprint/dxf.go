package footprint

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"

	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp"
)

// DrillLayer is the DXF layer holding drill outlines
const DrillLayer = "Drill"

// circleSegments is the number of segments used for round outlines
const circleSegments = 48

func layerColor(layer string) color.ColorNumber {
	switch layer {
	case "F.Cu":
		return color.Red
	case "B.Cu":
		return color.Blue
	case DrillLayer:
		return color.White
	}
	return color.Green
}

type dxfWriter struct {
	d      *dxf.Drawing
	layers map[string]bool
}

func (w *dxfWriter) useLayer(name string) error {
	if !w.layers[name] {
		if _, err := w.d.AddLayer(name, layerColor(name), dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("add layer %s: %w", name, err)
		}
		w.layers[name] = true
	}
	return w.d.ChangeLayer(name)
}

// outline adds a closed polyline; the first vertex is repeated at the end
func (w *dxfWriter) outline(layer string, pts []sexp.Position) error {
	if len(pts) == 0 {
		return nil
	}
	if err := w.useLayer(layer); err != nil {
		return err
	}
	lwp := entity.NewLwPolyline(len(pts) + 1)
	for j, p := range pts {
		lwp.Vertices[j] = []float64{p.X, p.Y}
	}
	lwp.Vertices[len(pts)] = []float64{pts[0].X, pts[0].Y}
	w.d.AddEntity(lwp)
	return nil
}

func circlePoints(c sexp.Position, r float64) []sexp.Position {
	pts := make([]sexp.Position, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = sexp.Position{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}

func rectPoints(c sexp.Position, s sexp.Size) []sexp.Position {
	hw, hh := s.Width/2, s.Height/2
	return []sexp.Position{
		{X: c.X - hw, Y: c.Y - hh},
		{X: c.X + hw, Y: c.Y - hh},
		{X: c.X + hw, Y: c.Y + hh},
		{X: c.X - hw, Y: c.Y + hh},
	}
}

// padOutline returns the copper outline of a pad in absolute coordinates
func padOutline(p *Pad) []sexp.Position {
	if p.Shape == ShapeCircle {
		return circlePoints(p.At, p.Size.Width/2)
	}
	return rectPoints(p.At, p.Size)
}

func (p *CustomPad) absolute() []sexp.Position {
	pts := make([]sexp.Position, len(p.Points))
	for i, q := range p.Points {
		pts[i] = sexp.Position{X: p.At.X + q.X, Y: p.At.Y + q.Y}
	}
	return pts
}

// copperLayer picks the layer a pad is drawn on: the first explicit copper
// layer, or F.Cu for wildcard layer sets.
func copperLayer(layers []string) string {
	for _, l := range layers {
		if l != "*.Cu" && l != "*.Mask" {
			return l
		}
	}
	return "F.Cu"
}

// WriteDXF writes the copper outlines of every item, one DXF layer per KiCad
// layer, plus drill circles on DrillLayer. Coordinates are millimeters.
func WriteDXF(path string, f *Footprint) error {
	w := &dxfWriter{d: dxf.NewDrawing(), layers: make(map[string]bool)}
	w.d.Header().LtScale = 1.0

	for i, it := range f.Items {
		var err error
		switch it := it.(type) {
		case *Pad:
			err = w.outline(copperLayer(it.Layers), padOutline(it))
			if err == nil && it.Drill > 0 {
				err = w.outline(DrillLayer, circlePoints(it.At, it.Drill/2))
			}
		case *Poly:
			err = w.outline(it.Layer, it.Points)
		case *CustomPad:
			err = w.outline(it.Layer, it.absolute())
		}
		if err != nil {
			return fmt.Errorf("footprint %q item %d: %w", f.Name, i, err)
		}
	}

	if err := w.d.SaveAs(path); err != nil {
		return fmt.Errorf("save dxf: %w", err)
	}
	return nil
}
