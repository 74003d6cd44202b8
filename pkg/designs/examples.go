package designs

import (
	"math"
	"slices"
	"strings"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/material"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

const mil = 25.4e-6

// speed of light in vacuum, m/s
const c0 = 299792458.0

// Example is a complete structure ready for export: materials, solver
// settings, extra mesh lines and the design itself.
type Example struct {
	Name    string
	Summary string
	Build   func(s *scene.Scene) error
}

// Examples returns the built-in structures sorted by name
func Examples() []Example {
	out := []Example{
		{Name: "miter", Summary: "90 degree mitered microstrip bend on 6.6 mil RO4350B", Build: buildMiter},
		{Name: "lpf", Summary: "7-section stepped-impedance low-pass filter, 20 GHz span", Build: buildLPF},
		{Name: "idbpf", Summary: "5-finger interdigital band-pass filter around 7 GHz with via fence", Build: buildIDBPF},
		{Name: "ecbpf", Summary: "3-resonator edge-coupled stripline band-pass filter", Build: buildECBPF},
		{Name: "coupler", Summary: "microstrip directional coupler with mitered coupled arms", Build: buildCoupler},
		{Name: "wilkinson", Summary: "4-section meandered Wilkinson divider with 0201 resistor", Build: buildWilkinson},
		{Name: "smp", Summary: "vertical SMP connector over a ground plane with a clearance hole", Build: buildSMP},
	}
	slices.SortFunc(out, func(a, b Example) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// LookupExample finds a built-in structure by name
func LookupExample(name string) (Example, bool) {
	for _, e := range Examples() {
		if e.Name == name {
			return e, true
		}
	}
	return Example{}, false
}

func addMaterials(s *scene.Scene, mats ...material.Material) error {
	for _, m := range mats {
		if err := s.AddMaterial(m); err != nil {
			return err
		}
	}
	return nil
}

func buildMiter(s *scene.Scene) error {
	set := s.Settings()
	set.FMin, set.FMax = 0, 40e9
	set.Resolution = 50e-6
	if err := addMaterials(s,
		material.NewMetal("pec"),
		material.NewDielectric("ro4350b", 3.66).SetTanD(0.0035, 40e9),
	); err != nil {
		return err
	}
	z := NewStackup(6.6*mil, 0.033*mm)
	s.AddMeshLines(geom.Z, z.Metal+1*mm)
	return Miter{
		Metal: "pec", Substrate: "ro4350b", Z: z,
		Miter: 0.35 * mm, PortLength: 0.1 * mm, Width: 0.3 * mm, BoxSize: 1.2 * mm,
	}.Generate(s)
}

func buildLPF(s *scene.Scene) error {
	set := s.Settings()
	set.FMax = 20e9
	set.Resolution = c0 / (set.FMax * math.Sqrt(3)) / 100
	if err := addMaterials(s,
		material.NewMetal("pec"),
		material.NewDielectric("fr408", 3.66).SetTanD(0.012, 6e9),
	); err != nil {
		return err
	}
	z := NewStackup(6.6*mil, 0.035*mm)
	s.AddMeshLines(geom.Z, z.Metal+1*mm)
	narrow, wide := 0.127*mm, 1.5*mm
	return LPF{
		Metal: "pec", Substrate: "fr408", Z: z,
		PortLength: 0.1 * mm, Width: 0.36 * mm, BoxWidth: 1.8 * mm,
		Sections: []Section{
			{1.5 * mm, narrow}, {1.3 * mm, wide}, {4.0 * mm, narrow}, {1.7 * mm, wide},
			{4.0 * mm, narrow}, {1.3 * mm, wide}, {1.5 * mm, narrow},
		},
	}.Generate(s)
}

func buildIDBPF(s *scene.Scene) error {
	set := s.Settings()
	set.FMax = 16e9
	set.Resolution = c0 / (set.FMax * math.Sqrt(3.66)) / 100
	if err := addMaterials(s,
		material.NewMetal("pec"),
		material.NewDielectric("sub", 3.66).SetTanD(0.0035, 7.12e9),
	); err != nil {
		return err
	}
	z := NewStackup(22*mil, 0.035*mm)
	s.AddMeshLines(geom.Z, z.Metal+2*mm)
	rl := slices.Repeat([]float64{6.1 * mm}, 5)
	rl[1] -= 0.025 * mm
	return IDBPF{
		Metal: "pec", Substrate: "sub", Z: z,
		Space:        []float64{0.15 * mm, 0.50 * mm, 0.61 * mm, 0.66 * mm, 0.66 * mm},
		RL:           rl,
		RW:           slices.Repeat([]float64{0.3 * mm}, 5),
		RingIX:       3.5 * mm,
		RingOX:       4.5 * mm,
		RingYWidth:   1 * mm,
		PortLength:   0.2 * mm,
		FeedWidth:    0.3 * mm,
		FeedGap:      0.2 * mm,
		ViaRadius:    0.15 * mm,
		ViaPadRadius: 0.3 * mm,
		InnerMetalZ: [][2]float64{
			{z.Top - 6.6*mil, z.Top - 8*mil},
			{z.Bottom + 6.6*mil, z.Bottom + 8*mil},
		},
	}.Generate(s)
}

func buildECBPF(s *scene.Scene) error {
	set := s.Settings()
	set.FMax = 38e9
	set.Resolution = 50e-6
	if err := addMaterials(s,
		material.NewMetal("pec"),
		material.NewDielectric("ptfe", 2.1),
	); err != nil {
		return err
	}
	f := ECBPF{
		Metal:  "pec",
		MetalZ: [2]float64{0, 0.2 * mm},
		Space:  []float64{0.15 * mm, 0.25 * mm, 0.3 * mm},
		Length: slices.Repeat([]float64{2.6 * mm}, 3),
		Width:  slices.Repeat([]float64{0.15 * mm}, 3),
	}
	if err := f.Generate(s); err != nil {
		return err
	}

	// feeds continue the outer resonators to the box edge
	ext := f.Extent()
	feedLen, portLen := 1*mm, 0.2*mm
	y0 := ext.Y - f.Width[0]
	feed, err := s.AddBox(scene.BoxSpec{
		Name: "feed1", Material: "pec", Priority: DefaultPriority,
		Start: geom.V3(ext.X, y0, f.MetalZ[0]), Stop: geom.V3(ext.X+feedLen, ext.Y, f.MetalZ[1]),
	})
	if err != nil {
		return err
	}
	feed2, err := feed.DuplicateAs("feed2")
	if err != nil {
		return err
	}
	feed2.Mirror(geom.AxesXY)
	p, err := s.AddPort(scene.PortSpec{
		Start: geom.V3(ext.X+feedLen, y0, f.MetalZ[0]), Stop: geom.V3(ext.X+feedLen+portLen, ext.Y, f.MetalZ[1]),
		Z0: PortImpedance, Direction: geom.X,
	})
	if err != nil {
		return err
	}
	p.Duplicate().Mirror(geom.AxesXY)

	xEdge := ext.X + feedLen + portLen
	slab := Slab{X: [2]float64{-xEdge, xEdge}, Y: [2]float64{-ext.Y - 1*mm, ext.Y + 1*mm}}
	_, err = slab.Add(s, "ptfe", [2]float64{-1 * mm, 1.2 * mm}, 1)
	return err
}

func buildCoupler(s *scene.Scene) error {
	set := s.Settings()
	set.FMax = 20e9
	set.Resolution = 50e-6
	if err := addMaterials(s,
		material.NewMetal("pec"),
		material.NewDielectric("ro4350b", 3.66).SetTanD(0.0035, 10e9),
	); err != nil {
		return err
	}
	z := NewStackup(6.6*mil, 0.035*mm)
	s.AddMeshLines(geom.Z, z.Metal+1*mm)
	return Coupler{
		Metal: "pec", Substrate: "ro4350b", Z: z,
		Miter: 0.2 * mm, PortLength: 0.1 * mm, BoxLength: 6 * mm,
		BoxY:  [2]float64{-1 * mm, 2 * mm},
		Width: 0.36 * mm, CouplerGap: 0.15 * mm, CouplerLength: 3 * mm, CouplerWidth: 0.36 * mm,
	}.Generate(s)
}

func buildWilkinson(s *scene.Scene) error {
	set := s.Settings()
	set.FMin, set.FMax = 0, 5e9
	set.EndCriteria = 1e-4
	set.Resolution = 50e-6
	if err := addMaterials(s,
		material.NewMetal("pec_wilkinson"),
		material.NewDielectric("ro4350b", 3.66).SetTanD(0.012, 1e9),
		material.NewDielectric("alumina", 9.8),
	); err != nil {
		return err
	}
	z := NewStackup(180e-6, 35e-6)
	s.AddMeshLines(geom.Z, z.Metal+700e-6)
	return Wilkinson{
		Metal: "pec_wilkinson", Substrate: "ro4350b", ResistorBody: "alumina", Z: z,
		Y1: 5.5 * mm, Y2: 0.5 * mm, R: 0.2 * mm,
		Resistors:  []float64{0, 0, 0, 100},
		Widths:     slices.Repeat([]float64{175e-6}, 4),
		PortLength: 100e-6, Width: 0.36 * mm, EndSpace: 0.5 * mm,
	}.Generate(s)
}

func buildSMP(s *scene.Scene) error {
	set := s.Settings()
	set.FMax = 40e9
	set.Resolution = 50e-6
	if err := addMaterials(s,
		material.NewMetal("pec"),
		material.NewMetal("smp_shield"),
		material.NewMetal("smp_pin"),
		material.NewDielectric("lcp", 3.2),
		material.NewDielectric("fr4", 4.3),
	); err != nil {
		return err
	}
	board := Slab{X: [2]float64{-3 * mm, 3 * mm}, Y: [2]float64{-3 * mm, 3 * mm}}
	if _, err := board.Add(s, "fr4", [2]float64{-0.2 * mm, -0.035 * mm}, 1); err != nil {
		return err
	}
	if _, err := board.AddCenterHole(s, "pec", [2]float64{-0.035 * mm, 0}, 1.2*mm, 2, "", ""); err != nil {
		return err
	}
	return NewSMPConnector(0, 0, 0, 3*mm).Generate(s)
}
