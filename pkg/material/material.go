// Package material defines the named physical-property records that scene
// primitives reference: dielectrics, perfect and lossy metals, and lumped
// R/L/C elements.
package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/OpenTraceLab/planarem/pkg/geom"
)

// Physical constants in SI units
const (
	Epsilon0 = 8.8541878128e-12
	Mu0      = 4e-7 * math.Pi
)

// ErrInvalid is returned when a material cannot be constructed from the
// given parameters.
var ErrInvalid = errors.New("material: invalid parameters")

// Kind tags the material variant
type Kind int

const (
	KindDielectric Kind = iota
	KindMetal
	KindLossyMetal
	KindLumped
)

func (k Kind) String() string {
	switch k {
	case KindDielectric:
		return "dielectric"
	case KindMetal:
		return "metal"
	case KindLossyMetal:
		return "lossy_metal"
	case KindLumped:
		return "lumped"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Material is implemented by every material variant
type Material interface {
	Name() string
	Kind() Kind
	// Conducting reports whether geometry of this material is copper on
	// the fabricated board.
	Conducting() bool
}

// Dielectric is an insulating material.
// Kappa is the electric conductivity used to model loss; zero means lossless.
// Mue is the relative permeability; zero means "not set" (1.0).
type Dielectric struct {
	MaterialName string
	EpsR         float64
	Kappa        float64
	Mue          float64
}

// NewDielectric creates a lossless dielectric
func NewDielectric(name string, epsR float64) *Dielectric {
	return &Dielectric{MaterialName: name, EpsR: epsR}
}

// SetTanD derives the conductivity from a loss tangent at a frequency
func (d *Dielectric) SetTanD(tanD, freq float64) *Dielectric {
	d.Kappa = tanD * 2 * math.Pi * freq * Epsilon0 * d.EpsR
	return d
}

func (d *Dielectric) Name() string     { return d.MaterialName }
func (d *Dielectric) Kind() Kind       { return KindDielectric }
func (d *Dielectric) Conducting() bool { return false }

// Metal is a perfect electric conductor
type Metal struct {
	MaterialName string
}

// NewMetal creates a perfect conductor
func NewMetal(name string) *Metal {
	return &Metal{MaterialName: name}
}

func (m *Metal) Name() string     { return m.MaterialName }
func (m *Metal) Kind() Kind       { return KindMetal }
func (m *Metal) Conducting() bool { return true }

// LossyMetal is a finite-conductivity metal modeled as conducting sheets
// of the given effective thickness.
type LossyMetal struct {
	MaterialName string
	Conductivity float64
	Thickness    float64
	Mue          float64
}

// DefaultConductivity is the conductivity of copper in S/m
const DefaultConductivity = 56e6

// NewLossyMetal creates a lossy metal. When thickness is zero it is derived
// from the skin depth at frequency. A zero conductivity defaults to copper
// and a zero mue to 1.
func NewLossyMetal(name string, conductivity, frequency, thickness, mue float64) (*LossyMetal, error) {
	if conductivity == 0 {
		conductivity = DefaultConductivity
	}
	if mue == 0 {
		mue = 1
	}
	if conductivity < 0 || mue < 0 || thickness < 0 {
		return nil, fmt.Errorf("lossy metal %q: %w", name, ErrInvalid)
	}
	if thickness == 0 {
		if frequency <= 0 {
			return nil, fmt.Errorf("lossy metal %q needs a thickness or a frequency: %w", name, ErrInvalid)
		}
		thickness = SkinDepth(conductivity, frequency, mue)
	}
	return &LossyMetal{
		MaterialName: name,
		Conductivity: conductivity,
		Thickness:    thickness,
		Mue:          mue,
	}, nil
}

// SkinDepth returns sqrt(2/σ / (2πf·μ0·μr)) in meters
func SkinDepth(conductivity, frequency, mue float64) float64 {
	return math.Sqrt((2.0 / conductivity) / (2 * math.Pi * frequency * Mu0 * mue))
}

func (m *LossyMetal) Name() string     { return m.MaterialName }
func (m *LossyMetal) Kind() Kind       { return KindLossyMetal }
func (m *LossyMetal) Conducting() bool { return true }

// ElementType selects the lumped element behaviour
type ElementType string

const (
	Resistor  ElementType = "R"
	Inductor  ElementType = "L"
	Capacitor ElementType = "C"
)

// ParseElementType accepts "R", "L" or "C" in either case
func ParseElementType(s string) (ElementType, error) {
	switch s {
	case "R", "r":
		return Resistor, nil
	case "L", "l":
		return Inductor, nil
	case "C", "c":
		return Capacitor, nil
	}
	return "", fmt.Errorf("element type %q: %w", s, ErrInvalid)
}

// LumpedElement is an R, L or C concentrated in a box, oriented along an axis
type LumpedElement struct {
	MaterialName string
	Element      ElementType
	Value        float64
	Direction    geom.Axis
}

// NewLumpedElement creates a lumped element material
func NewLumpedElement(name string, element ElementType, value float64, direction geom.Axis) (*LumpedElement, error) {
	switch element {
	case Resistor, Inductor, Capacitor:
	default:
		return nil, fmt.Errorf("lumped element %q type %q: %w", name, element, ErrInvalid)
	}
	if !direction.Valid() {
		return nil, fmt.Errorf("lumped element %q direction: %w", name, ErrInvalid)
	}
	return &LumpedElement{MaterialName: name, Element: element, Value: value, Direction: direction}, nil
}

func (e *LumpedElement) Name() string     { return e.MaterialName }
func (e *LumpedElement) Kind() Kind       { return KindLumped }
func (e *LumpedElement) Conducting() bool { return false }
