package material

import (
	"errors"
	"math"
	"testing"

	"github.com/OpenTraceLab/planarem/pkg/geom"
)

func TestDielectricSetTanD(t *testing.T) {
	d := NewDielectric("ro4350b", 3.66).SetTanD(0.0037, 10e9)
	want := 0.0037 * 2 * math.Pi * 10e9 * Epsilon0 * 3.66
	if math.Abs(d.Kappa-want) > 1e-15 {
		t.Errorf("Kappa = %g, want %g", d.Kappa, want)
	}
	if d.Conducting() {
		t.Errorf("dielectric must not be conducting")
	}
}

func TestNewLossyMetal(t *testing.T) {
	tests := []struct {
		name      string
		sigma     float64
		freq      float64
		thickness float64
		want      float64
		wantErr   bool
	}{
		{name: "explicit thickness", sigma: 56e6, thickness: 35e-6, want: 35e-6},
		{name: "skin depth at 10GHz", sigma: 56e6, freq: 10e9, want: math.Sqrt((2 / 56e6) / (2 * math.Pi * 10e9 * Mu0))},
		{name: "default conductivity", freq: 1e9, want: SkinDepth(DefaultConductivity, 1e9, 1)},
		{name: "no thickness no frequency", sigma: 56e6, wantErr: true},
		{name: "negative conductivity", sigma: -1, thickness: 1e-6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewLossyMetal("cu", tt.sigma, tt.freq, tt.thickness, 0)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("NewLossyMetal() error = %v, want ErrInvalid", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLossyMetal() unexpected error: %v", err)
			}
			if math.Abs(m.Thickness-tt.want) > 1e-15 {
				t.Errorf("Thickness = %g, want %g", m.Thickness, tt.want)
			}
			if m.Mue != 1 {
				t.Errorf("Mue = %g, want 1", m.Mue)
			}
		})
	}
}

func TestNewLumpedElement(t *testing.T) {
	e, err := NewLumpedElement("r1", Resistor, 100, geom.Y)
	if err != nil {
		t.Fatalf("NewLumpedElement() unexpected error: %v", err)
	}
	if e.Kind() != KindLumped || e.Direction != geom.Y {
		t.Errorf("unexpected element %+v", e)
	}
	if _, err := NewLumpedElement("bad", ElementType("Q"), 1, geom.X); err == nil {
		t.Errorf("expected error for element type Q")
	}
	if typ, err := ParseElementType("c"); err != nil || typ != Capacitor {
		t.Errorf("ParseElementType(c) = %v, %v", typ, err)
	}
}
