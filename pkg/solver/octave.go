package solver

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/material"
)

const octaveScript = `% {{ .Settings.Name }}: generated by planarem
unit = 1.0;
FDTD = InitFDTD('NrTS', {{ num .Settings.MaxTimesteps }}, 'EndCriteria', {{ num .Settings.EndCriteria }});
{{- if not .Settings.NoExcite }}
FDTD = SetGaussExcite(FDTD, {{ num .Settings.GaussHalfWidth }}, {{ num .Settings.GaussCenter }});
{{- end }}
FDTD = SetBoundaryCond(FDTD, { {{- boundaries .Settings.Boundaries -}} });
CSX = InitCSX();
{{ range .Materials }}{{ material . }}{{ end -}}
{{ range .Shapes }}{{ shape . }}{{ end -}}
{{ range .Ports }}{{ port . $.Settings.ExcitationPort }}{{ end -}}
{{- if .Settings.NoDetectEdges }}
mesh.x = [];
mesh.y = [];
mesh.z = [];
{{- else }}
mesh = DetectEdges(CSX);
{{- end }}
mesh.x = [mesh.x, {{ lines .MeshX }}];
mesh.y = [mesh.y, {{ lines .MeshY }}];
mesh.z = [mesh.z, {{ lines .MeshZ }}];
{{- if not .Settings.NoSmoothMesh }}
mesh = SmoothMesh(mesh, {{ num .Settings.Resolution }});
{{- end }}
CSX = DefineRectGrid(CSX, unit, mesh);
WriteOpenEMS({{ .CSXFile | squote }}, FDTD, CSX);
{{- if .Settings.View }}
CSXGeomPlot({{ .CSXFile | squote }});
{{- end }}
{{- if .Settings.Solve }}
RunOpenEMS({{ .Settings.SimPath | squote }}, 'csx.xml');
close all
f = linspace({{ num .Settings.FMin }}, {{ num .Settings.FMax }}, {{ .Settings.FSteps }});
{{- if gt (len .Ports) 0 }}
port = calcPort(port, {{ .Settings.SimPath | squote }}, f);
{{- range .SParams }}
{{ .Var }} = {{ num .ZRatio }} * port{ {{- .Port -}} }.uf.ref ./ port{ {{- .Excite -}} }.uf.inc;
{{- end }}
save {{ .MatFile | squote }} f {{ .SParamList | join " " }} -mat4-binary
{{- end }}
{{- end }}
`

// sparam is one extracted reflection or transmission coefficient
type sparam struct {
	Var    string
	Port   int
	Excite int
	ZRatio float64
}

type scriptData struct {
	*Description
	MeshX, MeshY, MeshZ []float64
	CSXFile             string
	MatFile             string
	SParams             []sparam
	SParamList          []string
}

var scriptTemplate = template.Must(template.New("openems").
	Funcs(sprig.TxtFuncMap()).
	Funcs(template.FuncMap{
		"num":        formatNum,
		"lines":      formatLines,
		"boundaries": formatBoundaries,
		"material":   materialLines,
		"shape":      shapeLines,
		"port":       portLine,
	}).
	Parse(octaveScript))

// WriteOctave renders the description as an openEMS Octave script
func WriteOctave(w io.Writer, d *Description) error {
	if err := d.Settings.Validate(); err != nil {
		return err
	}
	data := scriptData{
		Description: d,
		MeshX:       d.Mesh.Sorted(geom.X),
		MeshY:       d.Mesh.Sorted(geom.Y),
		MeshZ:       d.Mesh.Sorted(geom.Z),
		CSXFile:     d.Settings.SimPath + "/csx.xml",
		MatFile:     d.Settings.SimPath + "/sim.mat",
	}
	if len(d.Ports) > 0 {
		excite, ok := d.Port(d.Settings.ExcitationPort)
		if !ok {
			return fmt.Errorf("solver: excitation port %d does not exist", d.Settings.ExcitationPort)
		}
		for _, p := range d.Ports {
			if p.Z0 <= 0 {
				return fmt.Errorf("solver: port %d has non-positive impedance %g", p.Number, p.Z0)
			}
			sp := sparam{
				Var:    fmt.Sprintf("s%d%d", p.Number, excite.Number),
				Port:   p.Number,
				Excite: excite.Number,
				ZRatio: math.Sqrt(excite.Z0 / p.Z0),
			}
			data.SParams = append(data.SParams, sp)
			data.SParamList = append(data.SParamList, sp.Var)
		}
	}
	if err := scriptTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("solver: render script: %w", err)
	}
	return nil
}

// formatNum prints a number Octave reads back exactly
func formatNum(v any) string {
	switch n := v.(type) {
	case float64:
		if n == 0 {
			return "0"
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	case int:
		return strconv.Itoa(n)
	}
	return fmt.Sprint(v)
}

func formatLines(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatNum(v)
	}
	return strings.Join(parts, " ")
}

func formatVec(v geom.Vec3) string {
	return "[" + formatNum(v.X) + " " + formatNum(v.Y) + " " + formatNum(v.Z) + "]"
}

func formatBoundaries(b [6]string) string {
	parts := make([]string, len(b))
	for i, s := range b {
		parts[i] = "'" + s + "'"
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func materialLines(m material.Material) (string, error) {
	switch m := m.(type) {
	case *material.Dielectric:
		props := "'Epsilon', " + formatNum(m.EpsR)
		if m.Mue != 0 {
			props += ", 'Mue', " + formatNum(m.Mue)
		}
		if m.Kappa != 0 {
			props += ", 'Kappa', " + formatNum(m.Kappa)
		}
		return fmt.Sprintf("CSX = AddMaterial(CSX, %s);\nCSX = SetMaterialProperty(CSX, %s, %s);\n",
			quote(m.Name()), quote(m.Name()), props), nil
	case *material.Metal:
		return fmt.Sprintf("CSX = AddMetal(CSX, %s);\n", quote(m.Name())), nil
	case *material.LossyMetal:
		return fmt.Sprintf("CSX = AddConductingSheet(CSX, %s, %s, %s);\n",
			quote(m.Name()), formatNum(m.Conductivity), formatNum(m.Thickness)), nil
	case *material.LumpedElement:
		return fmt.Sprintf("CSX = AddLumpedElement(CSX, %s, %d, 'Caps', 0, '%s', %s);\n",
			quote(m.Name()), int(m.Direction), m.Element, formatNum(m.Value)), nil
	}
	return "", fmt.Errorf("unsupported material %T", m)
}

func shapeLines(s Shape) (string, error) {
	switch s := s.(type) {
	case *Box:
		return fmt.Sprintf("CSX = AddBox(CSX, %s, %d, %s, %s);\n",
			quote(s.Material), s.Priority, formatVec(s.Start), formatVec(s.Stop)), nil
	case *Cylinder:
		return fmt.Sprintf("CSX = AddCylinder(CSX, %s, %d, %s, %s, %s);\n",
			quote(s.Material), s.Priority, formatVec(s.Start), formatVec(s.Stop), formatNum(s.Radius)), nil
	case *LinPoly:
		var b strings.Builder
		b.WriteString("p = zeros(2, " + strconv.Itoa(len(s.Points)) + ");\n")
		for i, p := range s.Points {
			fmt.Fprintf(&b, "p(1,%d) = %s; p(2,%d) = %s;\n", i+1, formatNum(p.X), i+1, formatNum(p.Y))
		}
		fmt.Fprintf(&b, "CSX = AddLinPoly(CSX, %s, %d, '%s', %s, p, %s);\n",
			quote(s.Material), s.Priority, s.Normal, formatNum(round8(s.Elevation)), formatNum(round8(s.Height)))
		return b.String(), nil
	}
	return "", fmt.Errorf("unsupported shape %T", s)
}

// round8 rounds to eight decimals, hiding summation noise in elevations
func round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}

func portLine(p Port, excitationPort int) string {
	excite := 0
	if p.Number == excitationPort {
		excite = 1
	}
	dir := p.Direction.Unit()
	return fmt.Sprintf("[CSX, port{%d}] = AddLumpedPort(CSX, 999, %d, %s, %s, %s, %s, %d);\n",
		p.Number, p.Number, formatNum(p.Z0), formatVec(p.Start), formatVec(p.Stop), formatVec(dir), excite)
}
