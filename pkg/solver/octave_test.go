package solver

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/material"
)

func sampleDescription(t *testing.T) *Description {
	t.Helper()
	d := New(DefaultSettings())
	d.AddMaterial(material.NewMetal("pec"))
	d.AddMaterial(material.NewDielectric("sub", 3.66).SetTanD(0.004, 10e9))
	cu, err := material.NewLossyMetal("cu", 56e6, 0, 18e-6, 1)
	if err != nil {
		t.Fatalf("NewLossyMetal() error: %v", err)
	}
	d.AddMaterial(cu)
	r, err := material.NewLumpedElement("r1", material.Resistor, 50, geom.Y)
	if err != nil {
		t.Fatalf("NewLumpedElement() error: %v", err)
	}
	d.AddMaterial(r)

	d.AddShape(&Box{Object: "sub", Material: "sub", Priority: 1, Start: geom.V3(-1e-3, -1e-3, 0), Stop: geom.V3(1e-3, 1e-3, 1.6e-4)})
	d.AddShape(&Cylinder{Object: "via", Material: "pec", Priority: 9, Start: geom.V3(0, 0, 0), Stop: geom.V3(0, 0, 1.6e-4), Radius: 1e-4})
	d.AddShape(&LinPoly{Object: "trace", Material: "pec", Priority: 9, Normal: geom.Z, Elevation: 1.6e-4, Height: 0,
		Points: []geom.Vec2{{X: 0, Y: 0}, {X: 1e-3, Y: 0}, {X: 1e-3, Y: 2e-4}}})
	d.AddPort(Port{Object: "p1", Number: 1, Z0: 50, Start: geom.V3(-1e-3, -1e-4, 0), Stop: geom.V3(-1e-3, 1e-4, 1.6e-4), Direction: geom.Z})
	d.AddPort(Port{Object: "p2", Number: 2, Z0: 25, Start: geom.V3(1e-3, -1e-4, 0), Stop: geom.V3(1e-3, 1e-4, 1.6e-4), Direction: geom.Z})
	return d
}

func TestWriteOctave(t *testing.T) {
	d := sampleDescription(t)
	var b strings.Builder
	if err := WriteOctave(&b, d); err != nil {
		t.Fatalf("WriteOctave() error: %v", err)
	}
	out := b.String()

	want := []string{
		"FDTD = InitFDTD('NrTS', 1e+06, 'EndCriteria', 1e-06);",
		"FDTD = SetGaussExcite(FDTD, 2.49995e+10, 2.50005e+10);",
		"FDTD = SetBoundaryCond(FDTD, {'PEC' 'PEC' 'PEC' 'PEC' 'PEC' 'PEC'});",
		"CSX = AddMetal(CSX, 'pec');",
		"CSX = SetMaterialProperty(CSX, 'sub', 'Epsilon', 3.66, 'Kappa', ",
		"CSX = AddConductingSheet(CSX, 'cu', 5.6e+07, 1.8e-05);",
		"CSX = AddLumpedElement(CSX, 'r1', 1, 'Caps', 0, 'R', 50);",
		"CSX = AddBox(CSX, 'sub', 1, [-0.001 -0.001 0], [0.001 0.001 0.00016]);",
		"CSX = AddCylinder(CSX, 'pec', 9, [0 0 0], [0 0 0.00016], 0.0001);",
		"p(1,3) = 0.001; p(2,3) = 0.0002;",
		"CSX = AddLinPoly(CSX, 'pec', 9, 'z', 0.00016, p, 0);",
		"[CSX, port{1}] = AddLumpedPort(CSX, 999, 1, 50, [-0.001 -0.0001 0], [-0.001 0.0001 0.00016], [0 0 1], 1);",
		"[CSX, port{2}] = AddLumpedPort(CSX, 999, 2, 25, [0.001 -0.0001 0], [0.001 0.0001 0.00016], [0 0 1], 0);",
		"mesh = DetectEdges(CSX);",
		"mesh = SmoothMesh(mesh, 0.0001);",
		"WriteOpenEMS('openems_data/csx.xml', FDTD, CSX);",
		"RunOpenEMS('openems_data', 'csx.xml');",
		"f = linspace(1e+06, 5e+10, 1601);",
		"s11 = 1 * port{1}.uf.ref ./ port{1}.uf.inc;",
		"s21 = 1.4142135623730951 * port{2}.uf.ref ./ port{1}.uf.inc;",
		"save 'openems_data/sim.mat' f s11 s21 -mat4-binary",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("script missing %q\n%s", w, out)
		}
	}
	if strings.Contains(out, "CSXGeomPlot") {
		t.Errorf("geometry plot emitted without View")
	}
}

func TestWriteOctaveOptions(t *testing.T) {
	d := sampleDescription(t)
	d.Settings.NoExcite = true
	d.Settings.NoDetectEdges = true
	d.Settings.NoSmoothMesh = true
	d.Settings.Solve = false
	d.Settings.View = true

	var b strings.Builder
	if err := WriteOctave(&b, d); err != nil {
		t.Fatalf("WriteOctave() error: %v", err)
	}
	out := b.String()

	for _, absent := range []string{"SetGaussExcite", "DetectEdges", "SmoothMesh", "RunOpenEMS", "calcPort"} {
		if strings.Contains(out, absent) {
			t.Errorf("script unexpectedly contains %s", absent)
		}
	}
	for _, present := range []string{"mesh.x = [];", "CSXGeomPlot('openems_data/csx.xml');"} {
		if !strings.Contains(out, present) {
			t.Errorf("script missing %q", present)
		}
	}
}

func TestWriteOctaveErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *Description)
	}{
		{name: "missing excitation port", modify: func(d *Description) { d.Settings.ExcitationPort = 7 }},
		{name: "inverted band", modify: func(d *Description) { d.Settings.FMax = 0 }},
		{name: "zero impedance", modify: func(d *Description) { d.Ports[1].Z0 = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDescription(t)
			tt.modify(d)
			var b strings.Builder
			if err := WriteOctave(&b, d); err == nil {
				t.Errorf("WriteOctave() expected error")
			}
		})
	}
}

func TestMeshFromShapes(t *testing.T) {
	d := sampleDescription(t)
	for _, x := range []float64{-1e-3, 1e-3, -1e-4, 1e-4} {
		if !d.Mesh.Contains(geom.X, x) {
			t.Errorf("mesh x lines missing %g", x)
		}
	}
	if !d.Mesh.Contains(geom.Z, 1.6e-4) {
		t.Errorf("mesh z lines missing substrate top")
	}
}

func TestLinPolyBounds(t *testing.T) {
	p := &LinPoly{Normal: geom.X, Elevation: 1, Height: 2, Points: []geom.Vec2{{X: 3, Y: 4}, {X: 5, Y: 6}}}
	b := p.Bounds()
	if b.Min != geom.V3(1, 3, 4) || b.Max != geom.V3(3, 5, 6) {
		t.Errorf("Bounds() = %v..%v", b.Min, b.Max)
	}
}

func TestCylinderBounds(t *testing.T) {
	diag := 1 / math.Sqrt2
	tests := []struct {
		name     string
		cyl      Cylinder
		min, max geom.Vec3
	}{
		{
			name: "along z",
			cyl:  Cylinder{Start: geom.V3(0, 0, 0), Stop: geom.V3(0, 0, 2), Radius: 0.5},
			min:  geom.V3(-0.5, -0.5, 0), max: geom.V3(0.5, 0.5, 2),
		},
		{
			name: "diagonal in xz",
			cyl:  Cylinder{Start: geom.V3(0, 0, 0), Stop: geom.V3(1, 0, 1), Radius: 1},
			min:  geom.V3(-diag, -1, -diag), max: geom.V3(1+diag, 1, 1+diag),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.cyl.Bounds()
			for a := geom.X; a <= geom.Z; a++ {
				if math.Abs(b.Min.Get(a)-tt.min.Get(a)) > 1e-12 || math.Abs(b.Max.Get(a)-tt.max.Get(a)) > 1e-12 {
					t.Fatalf("Bounds() = %v..%v, want %v..%v", b.Min, b.Max, tt.min, tt.max)
				}
			}
		})
	}
}

func TestDriverPrepare(t *testing.T) {
	dir := t.TempDir()
	simDir := filepath.Join(dir, "openems_data")
	if err := os.MkdirAll(simDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(simDir, "ABORT"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	drv := &OctaveDriver{Dir: dir}
	path, err := drv.Prepare(sampleDescription(t))
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if path != filepath.Join(simDir, ScriptName) {
		t.Errorf("Prepare() path = %s", path)
	}
	if _, err := os.Stat(filepath.Join(simDir, "ABORT")); !os.IsNotExist(err) {
		t.Errorf("ABORT file was not removed")
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "InitCSX") {
		t.Errorf("script not written correctly: %v", err)
	}
}

func TestDriverRunMissingBinary(t *testing.T) {
	drv := &OctaveDriver{Dir: t.TempDir(), Octave: filepath.Join(t.TempDir(), "no-such-octave")}
	if err := drv.Run(context.Background(), sampleDescription(t)); err == nil {
		t.Errorf("Run() expected error for missing interpreter")
	}
}
