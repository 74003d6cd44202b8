// Package config loads project settings for the planarem command from YAML
// or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/solver"
	"github.com/OpenTraceLab/planarem/pkg/touchstone"
)

// Format is a configuration file syntax
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ErrUnknownFormat is returned for a file extension that is neither YAML
// nor TOML
var ErrUnknownFormat = errors.New("config: unknown format")

// FormatFromPath picks the syntax from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Config is a planarem project
type Config struct {
	Project   string    `yaml:"project" toml:"project"`
	Solver    Solver    `yaml:"solver" toml:"solver"`
	Footprint Footprint `yaml:"footprint" toml:"footprint"`
	Output    Output    `yaml:"output" toml:"output"`
}

// Solver mirrors solver.Settings in file form
type Solver struct {
	SimPath        string     `yaml:"sim_path" toml:"sim_path"`
	FMin           float64    `yaml:"fmin" toml:"fmin"`
	FMax           float64    `yaml:"fmax" toml:"fmax"`
	FSteps         int        `yaml:"fsteps" toml:"fsteps"`
	MaxTimesteps   float64    `yaml:"max_timesteps" toml:"max_timesteps"`
	EndCriteria    float64    `yaml:"end_criteria" toml:"end_criteria"`
	Boundaries     []string   `yaml:"boundaries" toml:"boundaries"`
	Resolution     float64    `yaml:"resolution" toml:"resolution"`
	ExcitationPort int        `yaml:"excitation_port" toml:"excitation_port"`
	ViaOffset      [2]float64 `yaml:"via_offset" toml:"via_offset"`
	NoExcite       bool       `yaml:"no_excite" toml:"no_excite"`
	NoDetectEdges  bool       `yaml:"no_detect_edges" toml:"no_detect_edges"`
	NoSmoothMesh   bool       `yaml:"no_smooth_mesh" toml:"no_smooth_mesh"`
	View           bool       `yaml:"view" toml:"view"`
	Solve          bool       `yaml:"solve" toml:"solve"`
	// Octave is the interpreter used by "build --run"
	Octave string `yaml:"octave" toml:"octave"`
}

// Footprint controls the fabrication export
type Footprint struct {
	// Name defaults to the project name
	Name string `yaml:"name" toml:"name"`
	// Mirror is an axis set such as "x" applied to the whole footprint
	Mirror      string  `yaml:"mirror" toml:"mirror"`
	PixelsPerMM float64 `yaml:"pixels_per_mm" toml:"pixels_per_mm"`
}

// Output selects which files "build" writes
type Output struct {
	Dir    string `yaml:"dir" toml:"dir"`
	Octave bool   `yaml:"octave" toml:"octave"`
	KiCad  bool   `yaml:"kicad" toml:"kicad"`
	DXF    bool   `yaml:"dxf" toml:"dxf"`
	PNG    bool   `yaml:"png" toml:"png"`
	// Touchstone is the format "touchstone" converts to: DB, MA or RI
	Touchstone string `yaml:"touchstone" toml:"touchstone"`
}

// Default returns the settings used when no file is given
func Default() *Config {
	c := &Config{
		Footprint: Footprint{PixelsPerMM: footprint.DefaultRenderOptions().PixelsPerMM},
		Output: Output{
			Dir:        ".",
			Octave:     true,
			KiCad:      true,
			Touchstone: string(touchstone.DB),
		},
	}
	c.SetSettings(solver.DefaultSettings())
	c.Solver.Octave = "octave"
	return c
}

// SetSettings replaces the project name and the solver section with s. The
// Octave interpreter is not part of the solver settings and is kept.
func (c *Config) SetSettings(s solver.Settings) {
	c.Project = s.Name
	c.Solver = Solver{
		SimPath:        s.SimPath,
		FMin:           s.FMin,
		FMax:           s.FMax,
		FSteps:         s.FSteps,
		MaxTimesteps:   s.MaxTimesteps,
		EndCriteria:    s.EndCriteria,
		Boundaries:     slices.Clone(s.Boundaries[:]),
		Resolution:     s.Resolution,
		ExcitationPort: s.ExcitationPort,
		ViaOffset:      [2]float64{s.ViaOffset.X, s.ViaOffset.Y},
		NoExcite:       s.NoExcite,
		NoDetectEdges:  s.NoDetectEdges,
		NoSmoothMesh:   s.NoSmoothMesh,
		View:           s.View,
		Solve:          s.Solve,
		Octave:         c.Solver.Octave,
	}
}

// Load reads a file over the defaults; keys the file leaves out keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(Default(), path)
}

// LoadOver reads a file over base, which is modified and returned. Callers
// use it to let a file override the settings a built-in design chose.
func LoadOver(base *Config, path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := DecodeOver(base, bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a configuration over the defaults and validates it
func Decode(r io.Reader, format Format) (*Config, error) {
	return DecodeOver(Default(), r, format)
}

// DecodeOver reads a configuration over cfg and validates the result
func DecodeOver(cfg *Config, r io.Reader, format Format) (*Config, error) {
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	case TOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes the configuration in the given syntax
func (c *Config) Encode(w io.Writer, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(c)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Validate checks the values a solver or exporter would reject later
func (c *Config) Validate() error {
	if len(c.Solver.Boundaries) != 6 {
		return fmt.Errorf("config: solver.boundaries needs 6 entries, got %d", len(c.Solver.Boundaries))
	}
	if _, err := c.MirrorAxes(); err != nil {
		return err
	}
	if _, err := touchstone.ParseFormat(c.Output.Touchstone); err != nil {
		return fmt.Errorf("config: output.touchstone: %w", err)
	}
	if c.Footprint.PixelsPerMM <= 0 {
		return fmt.Errorf("config: footprint.pixels_per_mm must be positive")
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Settings converts the solver section. The simulation name is the project.
func (c *Config) Settings() solver.Settings {
	s := solver.Settings{
		Name:           c.Project,
		SimPath:        c.Solver.SimPath,
		FMin:           c.Solver.FMin,
		FMax:           c.Solver.FMax,
		FSteps:         c.Solver.FSteps,
		MaxTimesteps:   c.Solver.MaxTimesteps,
		EndCriteria:    c.Solver.EndCriteria,
		Resolution:     c.Solver.Resolution,
		ExcitationPort: c.Solver.ExcitationPort,
		ViaOffset:      geom.V2(c.Solver.ViaOffset[0], c.Solver.ViaOffset[1]),
		NoExcite:       c.Solver.NoExcite,
		NoDetectEdges:  c.Solver.NoDetectEdges,
		NoSmoothMesh:   c.Solver.NoSmoothMesh,
		View:           c.Solver.View,
		Solve:          c.Solver.Solve,
	}
	copy(s.Boundaries[:], c.Solver.Boundaries)
	return s
}

// MirrorAxes parses the footprint mirror
func (c *Config) MirrorAxes() (geom.Axes, error) {
	axes, err := geom.ParseAxes(c.Footprint.Mirror)
	if err != nil {
		return 0, fmt.Errorf("config: footprint.mirror: %w", err)
	}
	return axes, nil
}

// FootprintName returns the footprint name, falling back to the project
func (c *Config) FootprintName() string {
	if c.Footprint.Name != "" {
		return c.Footprint.Name
	}
	return c.Project
}

// RenderOptions returns the PNG preview options
func (c *Config) RenderOptions() footprint.RenderOptions {
	opts := footprint.DefaultRenderOptions()
	opts.PixelsPerMM = c.Footprint.PixelsPerMM
	return opts
}
