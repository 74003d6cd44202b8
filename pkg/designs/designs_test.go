package designs

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/material"
	"github.com/OpenTraceLab/planarem/pkg/polygon"
	"github.com/OpenTraceLab/planarem/pkg/scene"
	"github.com/OpenTraceLab/planarem/pkg/solver"
)

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12+1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func buildExample(t *testing.T, name string) *scene.Scene {
	t.Helper()
	ex, ok := LookupExample(name)
	if !ok {
		t.Fatalf("example %q not found", name)
	}
	s := scene.New(name)
	if err := ex.Build(s); err != nil {
		t.Fatalf("%s: build failed: %v", name, err)
	}
	return s
}

func TestExamplesBuildAndExport(t *testing.T) {
	tests := []struct {
		name  string
		ports int
		pads  bool
	}{
		{name: "coupler", ports: 4, pads: true},
		{name: "ecbpf", ports: 2},
		{name: "idbpf", ports: 2, pads: true},
		{name: "lpf", ports: 2, pads: true},
		{name: "miter", ports: 2, pads: true},
		{name: "smp", ports: 1},
		{name: "wilkinson", ports: 3, pads: true},
	}

	if got := len(Examples()); got != len(tests) {
		t.Fatalf("Examples() has %d entries, want %d", got, len(tests))
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buildExample(t, tt.name)

			ports := s.Ports()
			if len(ports) != tt.ports {
				t.Fatalf("got %d ports, want %d", len(ports), tt.ports)
			}
			for i, p := range ports {
				if p.Number() != i+1 {
					t.Errorf("port %d has number %d", i, p.Number())
				}
				if want := fmt.Sprintf("p%d", i+1); p.Name() != want {
					t.Errorf("port %d named %q, want %q", i, p.Name(), want)
				}
			}

			if err := s.Settings().Validate(); err != nil {
				t.Fatalf("settings invalid: %v", err)
			}
			d, err := s.ExportSolverDescription()
			if err != nil {
				t.Fatalf("ExportSolverDescription failed: %v", err)
			}
			var buf bytes.Buffer
			if err := solver.WriteOctave(&buf, d); err != nil {
				t.Fatalf("WriteOctave failed: %v", err)
			}
			if !strings.Contains(buf.String(), "AddLumpedPort") {
				t.Errorf("script has no ports")
			}

			f, err := s.ExportFabrication(geom.AxesNone)
			if err != nil {
				t.Fatalf("ExportFabrication failed: %v", err)
			}
			hasPads := len(f.Pads())+len(f.Polys())+len(f.CustomPads()) > 0
			if hasPads != tt.pads {
				t.Errorf("footprint has pads = %v, want %v", hasPads, tt.pads)
			}
			if tt.pads {
				buf.Reset()
				if err := footprint.WriteKiCad(&buf, f); err != nil {
					t.Fatalf("WriteKiCad failed: %v", err)
				}
			}

			if diags := s.Diagnostics(); len(diags) != 0 {
				t.Errorf("unexpected diagnostics: %v", diags)
			}
		})
	}
}

func TestExamplesSorted(t *testing.T) {
	ex := Examples()
	for i := 1; i < len(ex); i++ {
		if ex[i-1].Name >= ex[i].Name {
			t.Errorf("examples not sorted: %q before %q", ex[i-1].Name, ex[i].Name)
		}
	}
	if _, ok := LookupExample("nope"); ok {
		t.Error("LookupExample found a missing example")
	}
}

func TestOutlinesAreValid(t *testing.T) {
	lpf := LPF{
		PortLength: 0.1 * mm,
		Sections:   []Section{{1.5 * mm, 0.127 * mm}, {1.3 * mm, 1.5 * mm}, {1.5 * mm, 0.127 * mm}},
	}
	wil := Wilkinson{
		Y1: 5.5 * mm, Y2: 0.5 * mm, R: 0.2 * mm,
		Resistors: []float64{0, 0, 100},
		Widths:    []float64{175e-6, 175e-6, 175e-6},
	}
	slab := Slab{X: [2]float64{-3 * mm, 3 * mm}, Y: [2]float64{-2 * mm, 2 * mm}}

	tests := []struct {
		name string
		pts  []geom.Vec2
	}{
		{name: "lpf", pts: lpf.Outline()},
		{name: "wilkinson", pts: wil.Outline()},
		{name: "slab hole", pts: slab.HalfWithHole(1 * mm)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := polygon.ValidateSimple(tt.pts); err != nil {
				t.Fatalf("outline invalid: %v", err)
			}
		})
	}

	// symmetric about y=0
	out := lpf.Outline()
	n := len(out)
	for i := 0; i < n/2; i++ {
		a, b := out[i], out[n-1-i]
		if !closeTo(a.X, b.X) || !closeTo(a.Y, -b.Y) {
			t.Errorf("lpf point %d %v does not mirror %v", i, a, b)
		}
	}
}

func TestLPFLength(t *testing.T) {
	f := LPF{PortLength: 0.1 * mm, Sections: []Section{{1 * mm, 0}, {2 * mm, 0}}}
	if got := f.BoxLength(); !closeTo(got, 3.2*mm) {
		t.Errorf("BoxLength() = %g, want %g", got, 3.2*mm)
	}
}

func TestResistorPlacement(t *testing.T) {
	tests := []struct {
		name      string
		direction geom.Axis
		invert    bool
		wantMin   geom.Vec3
		wantMax   geom.Vec3
	}{
		{
			name:      "along y",
			direction: geom.Y,
			wantMin:   geom.V3(0.85*mm, 1.73*mm, 0.12*mm),
			wantMax:   geom.V3(1.15*mm, 2.27*mm, 0.33*mm),
		},
		{
			name:      "along x",
			direction: geom.X,
			wantMin:   geom.V3(0.73*mm, 1.85*mm, 0.12*mm),
			wantMax:   geom.V3(1.27*mm, 2.15*mm, 0.33*mm),
		},
		{
			name:      "inverted",
			direction: geom.Y,
			invert:    true,
			wantMin:   geom.V3(0.85*mm, 1.73*mm, -0.13*mm),
			wantMax:   geom.V3(1.15*mm, 2.27*mm, 0.08*mm),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.New("res")
			for _, m := range []material.Material{material.NewMetal("pec"), material.NewDielectric("alumina", 9.8)} {
				if err := s.AddMaterial(m); err != nil {
					t.Fatal(err)
				}
			}
			r := Resistor{
				Name: "r1", Origin: geom.V3(1*mm, 2*mm, 0.1*mm), Direction: tt.direction,
				Value: 100, Invert: tt.invert, Dielectric: "alumina", Metal: "pec",
			}
			if err := r.Generate(s); err != nil {
				t.Fatalf("Generate failed: %v", err)
			}

			m, ok := s.Material("r1_element")
			if !ok || m.Kind() != material.KindLumped {
				t.Fatalf("lumped element material not registered")
			}
			if el := m.(*material.LumpedElement); el.Direction != tt.direction {
				t.Errorf("element direction = %v, want %v", el.Direction, tt.direction)
			}

			body, ok := s.Object("r1_body")
			if !ok {
				t.Fatal("body missing")
			}
			b := body.Bounds()
			for _, a := range []geom.Axis{geom.X, geom.Y, geom.Z} {
				if !closeTo(b.Min.Get(a), tt.wantMin.Get(a)) || !closeTo(b.Max.Get(a), tt.wantMax.Get(a)) {
					t.Errorf("body %v range = [%g, %g], want [%g, %g]", a,
						b.Min.Get(a), b.Max.Get(a), tt.wantMin.Get(a), tt.wantMax.Get(a))
				}
			}
			if got := len(s.Objects()); got != 4 {
				t.Errorf("got %d objects, want 4", got)
			}
		})
	}
}

func TestResistorRejectsZDirection(t *testing.T) {
	s := scene.New("res")
	err := Resistor{Name: "r", Direction: geom.Z, Value: 1}.Generate(s)
	if !errors.Is(err, scene.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestIDBPFViasArePointSymmetric(t *testing.T) {
	s := buildExample(t, "idbpf")

	var vias []*scene.Via
	for _, obj := range s.Objects() {
		if v, ok := obj.(*scene.Via); ok {
			vias = append(vias, v)
		}
	}
	if len(vias) == 0 || len(vias)%2 != 0 {
		t.Fatalf("got %d vias, want a non-zero even count", len(vias))
	}
	for i := 0; i < len(vias)/2; i++ {
		a, ok1 := s.Object(fmt.Sprintf("via%d", 2*i))
		b, ok2 := s.Object(fmt.Sprintf("via%d", 2*i+1))
		if !ok1 || !ok2 {
			t.Fatalf("via pair %d missing", i)
		}
		va, vb := a.(*scene.Via), b.(*scene.Via)
		if !closeTo(va.X, -vb.X) || !closeTo(va.Y, -vb.Y) {
			t.Errorf("via pair %d at (%g, %g) and (%g, %g)", i, va.X, va.Y, vb.X, vb.Y)
		}
	}

	for _, name := range []string{"r0", "r0m", "pext1", "pext2", "ring1", "ring4", "sub1", "mi0", "mi7"} {
		if _, ok := s.Object(name); !ok {
			t.Errorf("object %q missing", name)
		}
	}
}

func TestIDBPFRejectsShortLists(t *testing.T) {
	s := scene.New("idbpf")
	err := IDBPF{Space: []float64{1, 2}, RL: []float64{1}, RW: []float64{1, 2}}.Generate(s)
	if !errors.Is(err, scene.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestECBPFResonators(t *testing.T) {
	f := ECBPF{
		Metal:  "pec",
		MetalZ: [2]float64{0, 0.2 * mm},
		Space:  []float64{0.1 * mm, 0.2 * mm},
		Length: []float64{2 * mm, 2 * mm},
		Width:  []float64{0.1 * mm, 0.1 * mm},
	}
	s := scene.New("ecbpf")
	if err := s.AddMaterial(material.NewMetal("pec")); err != nil {
		t.Fatal(err)
	}
	if err := f.Generate(s); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// inner resonator straddles the center, outer one is half length
	r1, _ := s.Object("r1")
	b := r1.Bounds()
	if !closeTo(b.Min.X, -1*mm) || !closeTo(b.Max.X, 3*mm) || !closeTo(b.Min.Y, 0.1*mm) {
		t.Errorf("r1 bounds = %v..%v", b.Min, b.Max)
	}
	r0, _ := s.Object("r0")
	b = r0.Bounds()
	if !closeTo(b.Min.X, 1*mm) || !closeTo(b.Max.X, 3*mm) {
		t.Errorf("r0 bounds = %v..%v", b.Min, b.Max)
	}
	ext := f.Extent()
	if !closeTo(ext.X, 3*mm) || !closeTo(ext.Y, 0.4*mm) {
		t.Errorf("Extent() = %v", ext)
	}
	m, _ := s.Object("r0m")
	if mb := m.Bounds(); !closeTo(mb.Max.X, -1*mm) || !closeTo(mb.Min.Y, -0.4*mm) {
		t.Errorf("r0m bounds = %v..%v", mb.Min, mb.Max)
	}
}

func TestCenterHole(t *testing.T) {
	s := scene.New("slab")
	if err := s.AddMaterial(material.NewMetal("pec")); err != nil {
		t.Fatal(err)
	}
	slab := Slab{X: [2]float64{-3 * mm, 3 * mm}, Y: [2]float64{-2 * mm, 2 * mm}}
	r := 1 * mm
	halves, err := slab.AddCenterHole(s, "pec", [2]float64{0, 35e-6}, r, 1, "", "")
	if err != nil {
		t.Fatalf("AddCenterHole failed: %v", err)
	}
	if len(halves) != 2 {
		t.Fatalf("got %d halves, want 2", len(halves))
	}

	area := polygon.Area(halves[0].Points) + polygon.Area(halves[1].Points)
	want := 6*mm*4*mm - math.Pi*r*r
	if math.Abs(area-want)/want > 0.01 {
		t.Errorf("copper area = %g, want about %g", area, want)
	}
	for _, p := range halves[1].Points {
		if p.X > 1e-15 {
			t.Fatalf("mirrored half has point at x=%g", p.X)
		}
	}
}

func TestSMPConnector(t *testing.T) {
	s := buildExample(t, "smp")

	var cylinders int
	for _, obj := range s.Objects() {
		if obj.Kind() == scene.KindCylinder {
			cylinders++
		}
	}
	if cylinders != 3 {
		t.Errorf("got %d cylinders, want 3", cylinders)
	}
	p := s.Ports()[0]
	if p.Direction != geom.Z {
		t.Errorf("coax port direction = %v", p.Direction)
	}
	if !s.Mesh().Contains(geom.Z, 2.8*mm) {
		t.Errorf("mesh missing port plane")
	}
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		a, b float64
		n    int
		want []float64
	}{
		{0, 1, 3, []float64{0, 0.5, 1}},
		{2, 2, 1, []float64{2}},
		{0, 1, 0, nil},
	}
	for _, tt := range tests {
		got := linspace(tt.a, tt.b, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("linspace(%g, %g, %d) = %v", tt.a, tt.b, tt.n, got)
		}
		for i := range got {
			if !closeTo(got[i], tt.want[i]) {
				t.Errorf("linspace(%g, %g, %d)[%d] = %g", tt.a, tt.b, tt.n, i, got[i])
			}
		}
	}
}
