package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned when a name is already taken in the scene
	ErrDuplicateName = errors.New("scene: duplicate name")
	// ErrUndefinedMaterial is returned when a primitive references a
	// material the scene does not know
	ErrUndefinedMaterial = errors.New("scene: undefined material")
	// ErrInvalidGeometry is returned for geometry that cannot be built:
	// empty or zero-length via ranges, non-positive radii, bad axes
	ErrInvalidGeometry = errors.New("scene: invalid geometry")
	// ErrMalformedPolygon is returned at export for a polygon requesting
	// fabrication copper with unusable points
	ErrMalformedPolygon = errors.New("scene: malformed polygon")
)

// Severity grades a diagnostic
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Diagnostic records an operation that was requested but not carried out.
// Diagnostics never abort construction; the primitive is left unchanged.
type Diagnostic struct {
	Severity Severity
	Object   string
	Op       string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Severity, d.Object, d.Op, d.Message)
}
