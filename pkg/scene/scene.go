// Package scene is the geometry kernel: a container of named primitives
// (boxes, cylinders, vias, extruded polygons and lumped ports) with material
// assignments, a transform algebra over them, and the two exports that turn
// one scene into a solver description and a fabrication footprint.
//
// A Scene is built by one goroutine; it has no internal locking.
package scene

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/material"
	"github.com/OpenTraceLab/planarem/pkg/mesh"
	"github.com/OpenTraceLab/planarem/pkg/solver"
)

// AutoNamePrefix starts every generated primitive name
const AutoNamePrefix = "pad_"

// Scene owns primitives and materials by name
type Scene struct {
	name      string
	objects   map[string]Primitive
	order     []Primitive
	materials map[string]material.Material

	nameCount int
	portCount int

	mesh        *mesh.Lines
	settings    solver.Settings
	diagnostics []Diagnostic
	logger      *slog.Logger
}

// Option configures a new scene
type Option func(*Scene)

// WithLogger sets the scene logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSettings sets the solver settings used by ExportSolverDescription
func WithSettings(settings solver.Settings) Option {
	return func(s *Scene) {
		s.settings = settings
	}
}

// New creates an empty scene
func New(name string, opts ...Option) *Scene {
	settings := solver.DefaultSettings()
	settings.Name = name
	s := &Scene{
		name:      name,
		objects:   make(map[string]Primitive),
		materials: make(map[string]material.Material),
		mesh:      mesh.New(),
		settings:  settings,
		logger:    Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("scene", name)
	return s
}

// Name returns the scene name
func (s *Scene) Name() string {
	return s.name
}

// Settings returns the solver settings for modification
func (s *Scene) Settings() *solver.Settings {
	return &s.settings
}

// AddMaterial registers a material. Names are unique across materials.
func (s *Scene) AddMaterial(m material.Material) error {
	if m == nil || m.Name() == "" {
		return fmt.Errorf("add material: empty name: %w", ErrUndefinedMaterial)
	}
	if _, taken := s.materials[m.Name()]; taken {
		return fmt.Errorf("material %q: %w", m.Name(), ErrDuplicateName)
	}
	s.materials[m.Name()] = m
	s.logger.Debug("material added", "material", m.Name(), "kind", m.Kind())
	return nil
}

// Material returns a registered material
func (s *Scene) Material(name string) (material.Material, bool) {
	m, ok := s.materials[name]
	return m, ok
}

// Materials returns all materials sorted by name
func (s *Scene) Materials() []material.Material {
	names := slices.Sorted(maps.Keys(s.materials))
	out := make([]material.Material, len(names))
	for i, n := range names {
		out[i] = s.materials[n]
	}
	return out
}

// Objects returns the primitives in creation order
func (s *Scene) Objects() []Primitive {
	return slices.Clone(s.order)
}

// Object returns a primitive by name
func (s *Scene) Object(name string) (Primitive, bool) {
	p, ok := s.objects[name]
	return p, ok
}

// Ports returns the ports in creation order, which is port number order
func (s *Scene) Ports() []*Port {
	var out []*Port
	for _, p := range s.order {
		if port, ok := p.(*Port); ok {
			out = append(out, port)
		}
	}
	return out
}

// Diagnostics returns the unsupported-operation notices recorded so far
func (s *Scene) Diagnostics() []Diagnostic {
	return slices.Clone(s.diagnostics)
}

// Mesh returns the user mesh lines. Exports copy it and never modify it.
func (s *Scene) Mesh() *mesh.Lines {
	return s.mesh
}

// AddMeshLines proposes user mesh lines along one axis
func (s *Scene) AddMeshLines(a geom.Axis, values ...float64) {
	s.mesh.Add(a, values...)
}

// AllocatePortNumber returns the next port number: 1, 2, 3, …
func (s *Scene) AllocatePortNumber() int {
	s.portCount++
	return s.portCount
}

// autoName returns the next free generated name
func (s *Scene) autoName() string {
	for {
		s.nameCount++
		name := fmt.Sprintf("%s%d", AutoNamePrefix, s.nameCount)
		if _, taken := s.objects[name]; !taken {
			return name
		}
	}
}

func (s *Scene) checkMaterial(name string) error {
	if _, ok := s.materials[name]; !ok {
		return fmt.Errorf("material %q: %w", name, ErrUndefinedMaterial)
	}
	return nil
}

// add checks the material and registers p
func (s *Scene) add(p Primitive, name string) error {
	if err := s.checkMaterial(p.MaterialName()); err != nil {
		return fmt.Errorf("%s %q: %w", p.Kind(), name, err)
	}
	return s.registerOrAuto(p, name)
}

// register adds p under name; the name must be free
func (s *Scene) register(p Primitive, name string) error {
	if _, taken := s.objects[name]; taken {
		return fmt.Errorf("%s %q: %w", p.Kind(), name, ErrDuplicateName)
	}
	b := p.base()
	b.scene = s
	b.name = name
	s.objects[name] = p
	s.order = append(s.order, p)
	s.logger.Debug("primitive added", "name", name, "kind", p.Kind())
	return nil
}

// registerOrAuto registers under name, or an automatic name when empty
func (s *Scene) registerOrAuto(p Primitive, name string) error {
	if name == "" {
		name = s.autoName()
	}
	return s.register(p, name)
}

// registerPort numbers a port and registers it as "p<N>" unless an explicit
// name is given. A taken "p<N>" falls back to an automatic name.
func (s *Scene) registerPort(p *Port, name string) error {
	if name != "" {
		if _, taken := s.objects[name]; taken {
			return fmt.Errorf("port %q: %w", name, ErrDuplicateName)
		}
	} else {
		name = fmt.Sprintf("p%d", s.portCount+1)
		if _, taken := s.objects[name]; taken {
			name = s.autoName()
		}
	}
	p.number = s.AllocatePortNumber()
	return s.register(p, name)
}

// diagnose records a non-fatal notice for an operation that was skipped
func (s *Scene) diagnose(p Primitive, op, msg string) {
	d := Diagnostic{Severity: SeverityWarning, Object: p.Name(), Op: op, Message: msg}
	s.diagnostics = append(s.diagnostics, d)
	s.logger.Warn("operation not supported", "object", d.Object, "op", op, "reason", msg)
}

// ExportSolverDescription builds the solver view: materials sorted by name,
// then every primitive in creation order. Mesh lines are the user lines plus
// the extrema of every emitted shape and port.
func (s *Scene) ExportSolverDescription() (*solver.Description, error) {
	d := solver.New(s.settings)
	d.Mesh = s.mesh.Clone()
	for _, m := range s.Materials() {
		d.AddMaterial(m)
	}
	for _, p := range s.order {
		if err := p.EmitSolver(d); err != nil {
			return nil, fmt.Errorf("export %s %q: %w", p.Kind(), p.Name(), err)
		}
	}
	s.logger.Debug("solver description exported",
		"materials", len(d.Materials), "shapes", len(d.Shapes), "ports", len(d.Ports))
	return d, nil
}

// ExportFabrication builds the footprint view of every primitive with a pad,
// in creation order, then mirrors the whole footprint about the given axes.
func (s *Scene) ExportFabrication(mirror geom.Axes) (*footprint.Footprint, error) {
	f := footprint.New(s.name)
	for _, p := range s.order {
		if err := p.EmitFabrication(f); err != nil {
			return nil, fmt.Errorf("export %s %q: %w", p.Kind(), p.Name(), err)
		}
	}
	f.Mirror(mirror)
	s.logger.Debug("footprint exported", "items", len(f.Items), "mirror", mirror.String())
	return f, nil
}
