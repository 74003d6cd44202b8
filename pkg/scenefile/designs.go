package scenefile

import (
	"fmt"
	"maps"
	"slices"

	"github.com/OpenTraceLab/planarem/pkg/designs"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// designTypes creates the zero value Params is decoded into. Keys of the
// params mapping are the lowercased field names.
var designTypes = map[string]func() designs.Design{
	"miter":     func() designs.Design { return &designs.Miter{} },
	"lpf":       func() designs.Design { return &designs.LPF{} },
	"idbpf":     func() designs.Design { return &designs.IDBPF{} },
	"ecbpf":     func() designs.Design { return &designs.ECBPF{} },
	"coupler":   func() designs.Design { return &designs.Coupler{} },
	"wilkinson": func() designs.Design { return &designs.Wilkinson{} },
	"resistor":  func() designs.Design { return &designs.Resistor{} },
	"smp": func() designs.Design {
		c := designs.NewSMPConnector(0, 0, 0, 0)
		return &c
	},
}

// DesignTypes lists the design types a scene file can name
func DesignTypes() []string {
	return slices.Sorted(maps.Keys(designTypes))
}

func (d DesignRef) build(s *scene.Scene) error {
	switch {
	case d.Example != "" && d.Type != "":
		return fmt.Errorf("set either example or type, not both: %w", ErrInvalid)
	case d.Example != "":
		ex, ok := designs.LookupExample(d.Example)
		if !ok {
			return fmt.Errorf("example %q: %w", d.Example, ErrInvalid)
		}
		return ex.Build(s)
	}

	newDesign, ok := designTypes[d.Type]
	if !ok {
		return fmt.Errorf("design type %q: %w", d.Type, ErrInvalid)
	}
	design := newDesign()
	if !d.Params.IsZero() {
		if err := d.Params.Decode(design); err != nil {
			return fmt.Errorf("%s params: %w", d.Type, err)
		}
	}
	return design.Generate(s)
}
