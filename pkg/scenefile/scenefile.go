// Package scenefile reads scenes described in YAML: materials, primitives
// with transform chains, parametric designs and extra mesh lines.
//
//	name: stub
//	unit: 1e-3
//	materials:
//	  - {name: pec, type: metal}
//	  - {name: fr4, type: dielectric, eps_r: 4.3, tan_d: 0.02, tan_d_freq: 1e9}
//	objects:
//	  - type: box
//	    name: line
//	    material: pec
//	    start: [-1, -0.2, 0.2]
//	    stop: [1, 0.2, 0.235]
//	    pad: "1"
//	    ops:
//	      - duplicate: line2
//	      - mirror: x
//	designs:
//	  - example: miter
//	  - type: lpf
//	    params: {metal: pec, substrate: fr4, ...}
//
// Coordinates of objects, ops and mesh lines are multiplied by unit (meters
// when omitted). Design params are always in meters.
package scenefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/material"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// ErrInvalid is returned for a structurally valid file with unusable content
var ErrInvalid = errors.New("scenefile: invalid scene")

// File is the document root
type File struct {
	Name      string      `yaml:"name"`
	Unit      float64     `yaml:"unit"`
	Materials []Material  `yaml:"materials"`
	Mesh      Mesh        `yaml:"mesh"`
	Objects   []Object    `yaml:"objects"`
	Designs   []DesignRef `yaml:"designs"`
}

// Material is one entry of the materials list
type Material struct {
	Name string `yaml:"name"`
	// Type is dielectric, metal, lossy_metal or lumped
	Type string `yaml:"type"`

	EpsR     float64 `yaml:"eps_r"`
	TanD     float64 `yaml:"tan_d"`
	TanDFreq float64 `yaml:"tan_d_freq"`
	Mue      float64 `yaml:"mue"`

	Conductivity float64 `yaml:"conductivity"`
	Frequency    float64 `yaml:"frequency"`
	Thickness    float64 `yaml:"thickness"`

	Element   string  `yaml:"element"`
	Value     float64 `yaml:"value"`
	Direction string  `yaml:"direction"`
}

// Mesh holds extra mesh lines per axis
type Mesh struct {
	X []float64 `yaml:"x"`
	Y []float64 `yaml:"y"`
	Z []float64 `yaml:"z"`
}

// Object is one primitive. Fields that do not apply to Type are ignored.
type Object struct {
	Type     string `yaml:"type"`
	Name     string `yaml:"name"`
	Material string `yaml:"material"`
	Priority int    `yaml:"priority"`
	Pad      string `yaml:"pad"`
	Layer    string `yaml:"layer"`

	// box, cylinder and port corners or axis endpoints
	Start [3]float64 `yaml:"start"`
	Stop  [3]float64 `yaml:"stop"`

	// cylinder
	Radius float64 `yaml:"radius"`

	// via
	At            [2]float64   `yaml:"at"`
	Z             [][2]float64 `yaml:"z"`
	Drill         float64      `yaml:"drill"`
	PadRadius     float64      `yaml:"pad_radius"`
	WallThickness float64      `yaml:"wall_thickness"`

	// polygon
	Points    [][2]float64 `yaml:"points"`
	Normal    string       `yaml:"normal"`
	Elevation [2]float64   `yaml:"elevation"`
	Width     float64      `yaml:"width"`
	Anchor    *[2]float64  `yaml:"anchor"`

	// port
	Z0        float64 `yaml:"z0"`
	Direction string  `yaml:"direction"`

	Ops []Op `yaml:"ops"`
}

// Op is one transform step. Exactly one field is set. Duplicate switches
// the rest of the chain to the copy.
type Op struct {
	Mirror    *string     `yaml:"mirror"`
	Rotate    int         `yaml:"rotate"`
	Offset    *[3]float64 `yaml:"offset"`
	Duplicate *string     `yaml:"duplicate"`
	Repeat    *Repeat     `yaml:"repeat"`
}

// Repeat places count-1 stepped copies
type Repeat struct {
	Step  [3]float64 `yaml:"step"`
	Count int        `yaml:"count"`
}

// DesignRef adds either a catalog example, which brings its own materials
// and solver settings, or a parametric design decoded from Params.
type DesignRef struct {
	Example string    `yaml:"example"`
	Type    string    `yaml:"type"`
	Params  yaml.Node `yaml:"params"`
}

// Parse decodes a scene file. Unknown keys are errors.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	f := &File{}
	if err := dec.Decode(f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scenefile: empty document: %w", ErrInvalid)
		}
		return nil, fmt.Errorf("scenefile: parse error: %w", err)
	}
	if f.Unit == 0 {
		f.Unit = 1
	}
	if f.Unit < 0 {
		return nil, fmt.Errorf("scenefile: unit %g: %w", f.Unit, ErrInvalid)
	}
	return f, nil
}

// ParseFile reads and decodes a scene file
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Build creates the scene: materials first, then designs, then objects in
// file order, then mesh lines.
func (f *File) Build(opts ...scene.Option) (*scene.Scene, error) {
	name := f.Name
	if name == "" {
		name = "scene"
	}
	s := scene.New(name, opts...)

	for i, m := range f.Materials {
		mat, err := m.build()
		if err != nil {
			return nil, fmt.Errorf("materials[%d]: %w", i, err)
		}
		if err := s.AddMaterial(mat); err != nil {
			return nil, fmt.Errorf("materials[%d]: %w", i, err)
		}
	}
	for i, d := range f.Designs {
		if err := d.build(s); err != nil {
			return nil, fmt.Errorf("designs[%d]: %w", i, err)
		}
	}
	for i, o := range f.Objects {
		if err := o.build(s, f.Unit); err != nil {
			return nil, fmt.Errorf("objects[%d] %q: %w", i, o.Name, err)
		}
	}
	for _, axis := range []struct {
		a    geom.Axis
		vals []float64
	}{{geom.X, f.Mesh.X}, {geom.Y, f.Mesh.Y}, {geom.Z, f.Mesh.Z}} {
		for _, v := range axis.vals {
			s.AddMeshLines(axis.a, v*f.Unit)
		}
	}
	return s, nil
}

func (m Material) build() (material.Material, error) {
	switch m.Type {
	case "dielectric":
		d := material.NewDielectric(m.Name, m.EpsR)
		d.Mue = m.Mue
		if m.TanD != 0 {
			d.SetTanD(m.TanD, m.TanDFreq)
		}
		return d, nil
	case "metal":
		return material.NewMetal(m.Name), nil
	case "lossy_metal":
		lm, err := material.NewLossyMetal(m.Name, m.Conductivity, m.Frequency, m.Thickness, m.Mue)
		if err != nil {
			return nil, err
		}
		return lm, nil
	case "lumped":
		el, err := material.ParseElementType(m.Element)
		if err != nil {
			return nil, err
		}
		dir, err := geom.ParseAxis(m.Direction)
		if err != nil {
			return nil, err
		}
		le, err := material.NewLumpedElement(m.Name, el, m.Value, dir)
		if err != nil {
			return nil, err
		}
		return le, nil
	}
	return nil, fmt.Errorf("material %q: type %q: %w", m.Name, m.Type, ErrInvalid)
}
