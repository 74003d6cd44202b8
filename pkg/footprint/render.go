package footprint

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp"
)

// RenderOptions control the PNG preview
type RenderOptions struct {
	// PixelsPerMM is the drawing scale
	PixelsPerMM float64
	// Margin around the footprint, in pixels
	Margin int
	// MaxSize caps the image width and height, in pixels
	MaxSize int
}

// DefaultRenderOptions gives a 40 px/mm preview capped at 4096 px
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{PixelsPerMM: 40, Margin: 20, MaxSize: 4096}
}

type layerPaint struct{ r, g, b, a float64 }

func paintFor(layer string) layerPaint {
	switch layer {
	case "F.Cu":
		return layerPaint{0.8, 0.2, 0.2, 0.85}
	case "B.Cu":
		return layerPaint{0.2, 0.3, 0.8, 0.85}
	}
	return layerPaint{0.6, 0.6, 0.2, 0.85}
}

// RenderPNG draws a top view of the footprint and encodes it as PNG.
// KiCad's y axis points down, as does the image's.
func RenderPNG(w io.Writer, f *Footprint, opts RenderOptions) error {
	bb := f.Bounds()
	if bb.IsEmpty() {
		return fmt.Errorf("footprint %q has nothing to render", f.Name)
	}
	if opts.PixelsPerMM <= 0 {
		opts.PixelsPerMM = DefaultRenderOptions().PixelsPerMM
	}

	scale := opts.PixelsPerMM
	if opts.MaxSize > 0 {
		longest := math.Max(bb.Width(), bb.Height())
		if fit := float64(opts.MaxSize-2*opts.Margin) / longest; longest > 0 && fit < scale {
			scale = fit
		}
	}
	width := int(math.Ceil(bb.Width()*scale)) + 2*opts.Margin
	height := int(math.Ceil(bb.Height()*scale)) + 2*opts.Margin

	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(0.05, 0.05, 0.1))

	toPx := func(p sexp.Position) (float64, float64) {
		return (p.X-bb.Min.X)*scale + float64(opts.Margin), (p.Y-bb.Min.Y)*scale + float64(opts.Margin)
	}
	fillPath := func(layer string, pts []sexp.Position) error {
		if len(pts) == 0 {
			return nil
		}
		c := paintFor(layer)
		dc.SetRGBA(c.r, c.g, c.b, c.a)
		x, y := toPx(pts[0])
		dc.MoveTo(x, y)
		for _, p := range pts[1:] {
			x, y = toPx(p)
			dc.LineTo(x, y)
		}
		dc.ClosePath()
		return dc.Fill()
	}

	for i, it := range f.Items {
		var err error
		switch it := it.(type) {
		case *Pad:
			c := paintFor(copperLayer(it.Layers))
			dc.SetRGBA(c.r, c.g, c.b, c.a)
			x, y := toPx(it.At)
			if it.Shape == ShapeCircle {
				dc.DrawCircle(x, y, it.Size.Width/2*scale)
			} else {
				dc.DrawRectangle(x-it.Size.Width/2*scale, y-it.Size.Height/2*scale,
					it.Size.Width*scale, it.Size.Height*scale)
			}
			err = dc.Fill()
			if err == nil && it.Drill > 0 {
				dc.SetRGB(0, 0, 0)
				dc.DrawCircle(x, y, it.Drill/2*scale)
				err = dc.Fill()
			}
		case *Poly:
			err = fillPath(it.Layer, it.Points)
		case *CustomPad:
			err = fillPath(it.Layer, it.absolute())
		}
		if err != nil {
			return fmt.Errorf("footprint %q item %d: %w", f.Name, i, err)
		}
	}

	return dc.EncodePNG(w)
}
