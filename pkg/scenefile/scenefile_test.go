package scenefile

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/material"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

const stubScene = `
name: stub
unit: 1e-3
materials:
  - {name: pec, type: metal}
  - {name: fr4, type: dielectric, eps_r: 4.3, tan_d: 0.02, tan_d_freq: 1e9}
  - {name: cu, type: lossy_metal, conductivity: 5.8e7, thickness: 0.035}
  - {name: r50, type: lumped, element: R, value: 50, direction: x}
mesh:
  z: [1.5]
objects:
  - type: box
    name: sub
    material: fr4
    priority: 1
    start: [-2, -1, 0]
    stop: [2, 1, 0.2]
  - type: box
    name: line
    material: pec
    priority: 9
    start: [0, -0.2, 0.2]
    stop: [1.8, 0.2, 0.235]
    pad: "1"
    ops:
      - duplicate: line2
      - mirror: x
      - offset: [0, 0, 0.001]
  - type: via
    name: v
    material: pec
    at: [0.5, 0.5]
    z: [[0, 0.235]]
    drill: 0.15
    pad_radius: 0.3
    pad: "2"
    ops:
      - repeat: {step: [0.5, 0, 0], count: 3}
  - type: polygon
    name: tri
    material: pec
    points: [[0, 0], [1, 0], [0, 1]]
    elevation: [0.2, 0.235]
    ops:
      - rotate: -1
  - type: port
    start: [-2, -0.2, 0.2]
    stop: [-1.8, 0.2, 0.235]
    direction: x
    ops:
      - duplicate: ""
      - mirror: x
`

func TestBuildStub(t *testing.T) {
	f, err := Parse(strings.NewReader(stubScene))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	s, err := f.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if s.Name() != "stub" {
		t.Errorf("Name() = %q", s.Name())
	}
	var names []string
	for _, m := range s.Materials() {
		names = append(names, m.Name())
	}
	if diff := cmp.Diff([]string{"cu", "fr4", "pec", "r50"}, names); diff != "" {
		t.Errorf("materials (-want +got):\n%s", diff)
	}
	if m, _ := s.Material("cu"); m.(*material.LossyMetal).Thickness != 0.035 {
		t.Errorf("lossy metal thickness is not in meters as given")
	}

	var objects []string
	for _, p := range s.Objects() {
		objects = append(objects, p.Name())
	}
	want := []string{"sub", "line", "line2", "v", "v_2", "v_3", "tri", "p1", "p2"}
	if diff := cmp.Diff(want, objects); diff != "" {
		t.Errorf("objects (-want +got):\n%s", diff)
	}

	// the chain continues on the copy: line stays put, line2 is mirrored
	// and lifted
	line, _ := s.Object("line")
	if b := line.Bounds(); !near(b.Min.X, 0) || !near(b.Max.X, 1.8e-3) {
		t.Errorf("line bounds = %v..%v", b.Min, b.Max)
	}
	line2, _ := s.Object("line2")
	if b := line2.Bounds(); !near(b.Min.X, -1.8e-3) || !near(b.Max.Z, 0.236e-3) {
		t.Errorf("line2 bounds = %v..%v", b.Min, b.Max)
	}

	v3, _ := s.Object("v_3")
	if v := v3.(*scene.Via); !near(v.X, 1.5e-3) || !near(v.Y, 0.5e-3) {
		t.Errorf("v_3 at (%g, %g)", v.X, v.Y)
	}

	// a clockwise quarter turn is three counterclockwise ones, which a
	// polygon reports but does not apply
	if got := len(s.Diagnostics()); got != 3 {
		t.Errorf("got %d diagnostics, want 3", got)
	}

	ports := s.Ports()
	if len(ports) != 2 || ports[1].Number() != 2 {
		t.Fatalf("ports = %v", ports)
	}
	if b := ports[1].Bounds(); !near(b.Max.X, 2e-3) {
		t.Errorf("mirrored port bounds = %v..%v", b.Min, b.Max)
	}
	if !s.Mesh().Contains(geom.Z, 1.5e-3) {
		t.Error("mesh line not scaled")
	}

	if _, err := s.ExportSolverDescription(); err != nil {
		t.Fatalf("ExportSolverDescription failed: %v", err)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestBuildDesigns(t *testing.T) {
	input := `
name: combo
materials:
  - {name: pec, type: metal}
  - {name: sub, type: dielectric, eps_r: 3.66}
designs:
  - type: lpf
    params:
      metal: pec
      substrate: sub
      z: {bottom: 0, top: 0.000168, metal: 0.000203}
      portlength: 0.0001
      width: 0.00036
      boxwidth: 0.0018
      sections:
        - {length: 0.0015, width: 0.000127}
        - {length: 0.0013, width: 0.0015}
        - {length: 0.0015, width: 0.000127}
`
	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	s, err := f.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if n := len(s.Ports()); n != 2 {
		t.Errorf("got %d ports, want 2", n)
	}
	if _, ok := s.Object("f"); !ok {
		t.Error("filter polygon missing")
	}
}

func TestBuildExample(t *testing.T) {
	f, err := Parse(strings.NewReader("name: m\ndesigns:\n  - example: miter\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	s, err := f.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Settings().FMax != 40e9 {
		t.Errorf("example settings not applied: fmax = %g", s.Settings().FMax)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		invalid bool
	}{
		{name: "unknown key", input: "name: x\ncolour: red\n"},
		{name: "empty", input: "", invalid: true},
		{name: "negative unit", input: "unit: -1\n", invalid: true},
		{name: "unknown material type", input: "materials:\n  - {name: a, type: plasma}\n", invalid: true},
		{name: "unknown object type", input: "objects:\n  - {type: sphere}\n", invalid: true},
		{name: "unknown design", input: "designs:\n  - {type: balun}\n", invalid: true},
		{name: "unknown example", input: "designs:\n  - {example: balun}\n", invalid: true},
		{name: "example and type", input: "designs:\n  - {example: lpf, type: lpf}\n", invalid: true},
		{
			name:    "two actions in one op",
			input:   "materials:\n  - {name: m, type: metal}\nobjects:\n  - {type: box, material: m, stop: [1, 1, 1], ops: [{mirror: x, rotate: 1}]}\n",
			invalid: true,
		},
		{name: "undefined material", input: "objects:\n  - {type: box, material: m, stop: [1, 1, 1]}\n"},
		{name: "bad port direction", input: "objects:\n  - {type: port, stop: [1, 1, 1], direction: w}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				_, err = f.Build()
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.invalid && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stub.yaml")
	if err := os.WriteFile(path, []byte(stubScene), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if f.Unit != 1e-3 || len(f.Objects) != 5 {
		t.Errorf("parsed unit %g with %d objects", f.Unit, len(f.Objects))
	}
	if _, err := ParseFile(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDesignTypes(t *testing.T) {
	got := DesignTypes()
	want := []string{"coupler", "ecbpf", "idbpf", "lpf", "miter", "resistor", "smp", "wilkinson"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
