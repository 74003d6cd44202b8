package footprint

import (
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp"
	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp/kicadsexp"
)

// KiCadVersion is the footprint file format version written
const KiCadVersion = 20211014

// Generator is written into the generator field
const Generator = "planarem"

// customAnchorSize is the anchor pad size of custom pads, in mm
const customAnchorSize = 0.1

// tstampSpace scopes the deterministic item timestamps
var tstampSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/OpenTraceLab/planarem/footprint"))

// tstamp returns a stable UUID for the i-th item of a footprint so that
// regenerating an unchanged design yields an identical file.
func tstamp(fpName string, i int) kicadsexp.Sexp {
	id := uuid.NewSHA1(tstampSpace, []byte(fpName+"/"+strconv.Itoa(i)))
	return kicadsexp.L("tstamp", kicadsexp.Symbol(id.String()))
}

func xy(x, y float64) *kicadsexp.List {
	return kicadsexp.L("xy", kicadsexp.Num(x), kicadsexp.Num(y))
}

func quotedList(head string, vals []string) *kicadsexp.List {
	l := kicadsexp.L(head)
	for _, v := range vals {
		l.Append(kicadsexp.Quoted(v))
	}
	return l
}

func (f *Footprint) attr() string {
	for _, p := range f.Pads() {
		if p.Type == PadThroughHole {
			return "through_hole"
		}
	}
	return "smd"
}

// Sexp builds the KiCad footprint expression
func (f *Footprint) Sexp() (*kicadsexp.List, error) {
	root := kicadsexp.L("footprint", kicadsexp.Quoted(f.Name),
		kicadsexp.L("version", kicadsexp.Int(KiCadVersion)),
		kicadsexp.L("generator", kicadsexp.Symbol(Generator)),
		kicadsexp.L("layer", kicadsexp.Quoted("F.Cu")),
		kicadsexp.L("attr", kicadsexp.Symbol(f.attr())),
		fpText("reference", "REF**", -1.5),
		fpText("value", f.Name, 1.5),
	)

	for i, it := range f.Items {
		var node *kicadsexp.List
		switch it := it.(type) {
		case *Pad:
			node = padSexp(it)
		case *Poly:
			node = polySexp(it)
		case *CustomPad:
			node = customPadSexp(it)
		default:
			return nil, fmt.Errorf("footprint %q item %d: unsupported type %T", f.Name, i, it)
		}
		node.Append(tstamp(f.Name, i))
		root.Append(node)
	}
	return root, nil
}

func fpText(kind, text string, y float64) *kicadsexp.List {
	layer := "F.Fab"
	if kind == "reference" {
		layer = "F.SilkS"
	}
	return kicadsexp.L("fp_text", kicadsexp.Symbol(kind), kicadsexp.Quoted(text),
		kicadsexp.L("at", kicadsexp.Num(0), kicadsexp.Num(y)),
		kicadsexp.L("layer", kicadsexp.Quoted(layer)),
		kicadsexp.L("effects", kicadsexp.L("font",
			kicadsexp.L("size", kicadsexp.Num(1), kicadsexp.Num(1)),
			kicadsexp.L("thickness", kicadsexp.Num(0.15)))),
	)
}

func padSexp(p *Pad) *kicadsexp.List {
	node := kicadsexp.L("pad", kicadsexp.Quoted(p.Name), kicadsexp.Symbol(p.Type), kicadsexp.Symbol(p.Shape),
		kicadsexp.L("at", kicadsexp.Num(p.At.X), kicadsexp.Num(p.At.Y)),
		kicadsexp.L("size", kicadsexp.Num(p.Size.Width), kicadsexp.Num(p.Size.Height)),
	)
	if p.Drill > 0 {
		node.Append(kicadsexp.L("drill", kicadsexp.Num(p.Drill)))
	}
	node.Append(quotedList("layers", p.Layers))
	if p.MaskMargin != 0 {
		node.Append(kicadsexp.L("solder_mask_margin", kicadsexp.Num(p.MaskMargin)))
	}
	return node
}

func ptsSexp(points []sexp.Position) *kicadsexp.List {
	pts := kicadsexp.L("pts")
	for _, pt := range points {
		pts.Append(xy(pt.X, pt.Y))
	}
	return pts
}

func polySexp(p *Poly) *kicadsexp.List {
	pts := ptsSexp(p.Points)
	return kicadsexp.L("fp_poly", pts,
		kicadsexp.L("layer", kicadsexp.Quoted(p.Layer)),
		kicadsexp.L("width", kicadsexp.Num(p.Width)),
		kicadsexp.L("fill", kicadsexp.Symbol("solid")),
	)
}

func customPadSexp(p *CustomPad) *kicadsexp.List {
	pts := ptsSexp(p.Points)
	return kicadsexp.L("pad", kicadsexp.Quoted(p.Name), kicadsexp.Symbol(PadSMD), kicadsexp.Symbol(ShapeCustom),
		kicadsexp.L("at", kicadsexp.Num(p.At.X), kicadsexp.Num(p.At.Y)),
		kicadsexp.L("size", kicadsexp.Num(customAnchorSize), kicadsexp.Num(customAnchorSize)),
		quotedList("layers", SMDLayers(p.Layer)),
		kicadsexp.L("options",
			kicadsexp.L("clearance", kicadsexp.Symbol("outline")),
			kicadsexp.L("anchor", kicadsexp.Symbol("rect"))),
		kicadsexp.L("primitives",
			kicadsexp.L("gr_poly", pts,
				kicadsexp.L("width", kicadsexp.Num(p.Width)),
				kicadsexp.L("fill", kicadsexp.Symbol("yes")))),
	)
}

// WriteKiCad writes the footprint as a KiCad .kicad_mod file
func WriteKiCad(w io.Writer, f *Footprint) error {
	root, err := f.Sexp()
	if err != nil {
		return err
	}
	return kicadsexp.Write(w, root)
}
