package touchstone

import (
	"bytes"
	"errors"
	"math/cmplx"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestWriteSymmetric2Port(t *testing.T) {
	n, err := Symmetric2Port([]float64{1e9}, []complex128{0.1}, []complex128{0.9i})
	if err != nil {
		t.Fatalf("Symmetric2Port failed: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, n, DB); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	s11 := "   -20.000000     0.000000"
	s21 := "    -0.915150    90.000000"
	want := "# GHz S DB R 50\n" +
		"    1.000000" + s11 + s21 + s21 + s11 + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Write mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteZeroMagnitudeDB(t *testing.T) {
	n, err := Symmetric2Port([]float64{2e9}, []complex128{0}, []complex128{1})
	if err != nil {
		t.Fatalf("Symmetric2Port failed: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, n, DB); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if strings.Contains(buf.String(), "Inf") || !strings.Contains(buf.String(), "-300.000000") {
		t.Fatalf("zero magnitude not floored:\n%s", buf.String())
	}

	got, err := Parse(&buf, 2)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s11 := got.At(0, 0, 0); cmplx.Abs(s11) > 1e-14 {
		t.Errorf("S11 = %v, want ~0", s11)
	}
}

func TestSymmetric2PortLengthMismatch(t *testing.T) {
	_, err := Symmetric2Port([]float64{1, 2}, []complex128{0}, []complex128{0, 0})
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ports int
		z0    float64
		freq  []float64
		s     [][]complex128
	}{
		{
			name: "one port RI in MHz",
			input: `! reflection only
# MHz S RI R 75
100 0.5 -0.5
200 0.25 0
`,
			ports: 1,
			z0:    75,
			freq:  []float64{100e6, 200e6},
			s:     [][]complex128{{complex(0.5, -0.5)}, {0.25}},
		},
		{
			name: "two port column-major",
			input: `# GHz S MA R 50
1.5 0.1 0 0.9 90 0.8 -90 0.2 180
`,
			ports: 2,
			z0:    50,
			freq:  []float64{1.5e9},
			s: [][]complex128{{
				0.1, cmplx.Rect(0.8, -cmplx.Phase(1i)),
				cmplx.Rect(0.9, cmplx.Phase(1i)), -0.2,
			}},
		},
		{
			name: "three port row-major over several lines",
			input: `# hz s ri
1000 1 0 2 0 3 0
     4 0 5 0 6 0 ! row 2
     7 0 8 0 9 0
`,
			ports: 3,
			z0:    DefaultImpedance,
			freq:  []float64{1000},
			s:     [][]complex128{{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		},
		{
			name: "defaults without option line",
			input: `2 1 0
`,
			ports: 1,
			z0:    DefaultImpedance,
			freq:  []float64{2e9},
			s:     [][]complex128{{1}},
		},
	}

	opt := cmpopts.EquateApprox(0, 1e-9)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(strings.NewReader(tt.input), tt.ports)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if n.Z0 != tt.z0 {
				t.Errorf("Z0 = %g, want %g", n.Z0, tt.z0)
			}
			if diff := cmp.Diff(tt.freq, n.Freq, opt); diff != "" {
				t.Errorf("frequencies (-want +got):\n%s", diff)
			}
			if len(n.S) != len(tt.s) {
				t.Fatalf("got %d points, want %d", len(n.S), len(tt.s))
			}
			for k := range tt.s {
				for i, want := range tt.s[k] {
					if cmplx.Abs(n.S[k][i]-want) > 1e-9 {
						t.Errorf("point %d value %d = %v, want %v", k, i, n.S[k][i], want)
					}
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ports int
	}{
		{name: "short record", input: "# GHz S DB R 50\n1 0 0 0\n", ports: 2},
		{name: "y parameters", input: "# GHz Y MA R 50\n1 0 0\n", ports: 1},
		{name: "no ports", input: "1 0 0\n", ports: 0},
		{name: "stray token", input: "# GHz S MA R 50\n1 0 0 ;\n", ports: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input), tt.ports); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteThenParse(t *testing.T) {
	n := NewNetwork(3, 50)
	n.Comments = []string{"generated"}
	for k := 1; k <= 2; k++ {
		s := make([]complex128, 9)
		for i := range s {
			s[i] = complex(0.1*float64(i+1), -0.05*float64(k))
		}
		if err := n.Append(float64(k)*1e9, s); err != nil {
			t.Fatal(err)
		}
	}

	for _, format := range []Format{DB, MA, RI} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, n, format); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			got, err := Parse(&buf, 3)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			// six decimals in the file
			near := cmp.Comparer(func(a, b complex128) bool { return cmplx.Abs(a-b) < 1e-4 })
			if diff := cmp.Diff(n.S, got.S, near); diff != "" {
				t.Errorf("values (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPortsFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    int
		wantErr bool
	}{
		{path: "filter.s2p", want: 2},
		{path: "/tmp/x.S4P", want: 4},
		{path: "divider.s12p", want: 12},
		{path: "notes.txt", wantErr: true},
		{path: "x.sp", wantErr: true},
		{path: "x.s0p", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := PortsFromPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("PortsFromPath(%q) expected error", tt.path)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("PortsFromPath(%q) = %d, %v, want %d", tt.path, got, err, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("db"); err != nil || f != DB {
		t.Errorf("ParseFormat(db) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xx"); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}
