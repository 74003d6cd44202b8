package footprint

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp"
	"github.com/OpenTraceLab/planarem/pkg/kicad/sexp/kicadsexp"
)

// ParseKiCad reads a .kicad_mod footprint. Pads, custom pads and fp_poly
// items are kept; text and graphics on other layers are ignored.
func ParseKiCad(r io.Reader) (*Footprint, error) {
	nodes, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("empty footprint file")
	}
	root := nodes[0]

	head, err := sexp.GetNodeName(root)
	if err != nil || (head != "footprint" && head != "module") {
		return nil, fmt.Errorf("expected footprint, got %q", head)
	}
	name, err := sexp.GetString(root, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}

	fp := New(name)
	for i, item := range sexp.GetListItems(root) {
		key, err := sexp.GetNodeName(item)
		if err != nil || item.IsLeaf() {
			continue
		}
		switch key {
		case "pad":
			it, err := parsePad(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			fp.Add(it)
		case "fp_poly":
			poly, err := parsePoly(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			fp.Add(poly)
		}
	}
	return fp, nil
}

func parsePad(node kicadsexp.Sexp) (Item, error) {
	// Parse pad number/name (second element after "pad")
	name, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}
	padType, err := sexp.GetString(node, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad type: %w", err)
	}
	shape, err := sexp.GetString(node, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad shape: %w", err)
	}

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return nil, fmt.Errorf("pad %q: missing required 'at' position", name)
	}
	at, err := sexp.GetPositionXY(atNode)
	if err != nil {
		return nil, fmt.Errorf("pad %q: %w", name, err)
	}

	var layers []string
	if layersNode, found := sexp.FindNode(node, "layers"); found {
		layers = sexp.GetStrings(layersNode)
	} else {
		return nil, fmt.Errorf("pad %q: missing required 'layers' field", name)
	}

	if PadShape(shape) == ShapeCustom {
		return parseCustomPad(node, name, at, layers)
	}

	sizeNode, found := sexp.FindNode(node, "size")
	if !found {
		return nil, fmt.Errorf("pad %q: missing required 'size' field", name)
	}
	size, err := sexp.GetSize(sizeNode)
	if err != nil {
		return nil, fmt.Errorf("pad %q: %w", name, err)
	}

	pad := &Pad{
		Name:   name,
		Type:   PadType(padType),
		Shape:  PadShape(shape),
		At:     at,
		Size:   size,
		Layers: layers,
	}
	if drillNode, found := sexp.FindNode(node, "drill"); found {
		if drill, err := sexp.GetFloat(drillNode, 1); err == nil {
			pad.Drill = drill
		}
	}
	if marginNode, found := sexp.FindNode(node, "solder_mask_margin"); found {
		if margin, err := sexp.GetFloat(marginNode, 1); err == nil {
			pad.MaskMargin = margin
		}
	}
	return pad, nil
}

func parseCustomPad(node kicadsexp.Sexp, name string, at sexp.Position, layers []string) (*CustomPad, error) {
	prims, found := sexp.FindNode(node, "primitives")
	if !found {
		return nil, fmt.Errorf("custom pad %q: missing primitives", name)
	}
	poly, found := sexp.FindNode(prims, "gr_poly")
	if !found {
		return nil, fmt.Errorf("custom pad %q: no gr_poly primitive", name)
	}
	pts, err := parsePts(poly)
	if err != nil {
		return nil, fmt.Errorf("custom pad %q: %w", name, err)
	}
	cp := &CustomPad{Name: name, At: at, Points: pts}
	if len(layers) > 0 {
		cp.Layer = layers[0]
	}
	if widthNode, found := sexp.FindNode(poly, "width"); found {
		cp.Width, _ = sexp.GetFloat(widthNode, 1)
	}
	return cp, nil
}

func parsePoly(node kicadsexp.Sexp) (*Poly, error) {
	pts, err := parsePts(node)
	if err != nil {
		return nil, fmt.Errorf("fp_poly: %w", err)
	}
	poly := &Poly{Points: pts}
	if layerNode, found := sexp.FindNode(node, "layer"); found {
		poly.Layer, _ = sexp.GetString(layerNode, 1)
	}
	if widthNode, found := sexp.FindNode(node, "width"); found {
		poly.Width, _ = sexp.GetFloat(widthNode, 1)
	}
	return poly, nil
}

func parsePts(node kicadsexp.Sexp) ([]sexp.Position, error) {
	ptsNode, found := sexp.FindNode(node, "pts")
	if !found {
		return nil, fmt.Errorf("missing pts")
	}
	return sexp.GetPoints(ptsNode)
}
