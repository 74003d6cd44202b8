package solver

import (
	"fmt"

	"github.com/OpenTraceLab/planarem/pkg/geom"
)

// Boundary condition names understood by openEMS
const (
	BoundaryPEC  = "PEC"
	BoundaryPMC  = "PMC"
	BoundaryMUR  = "MUR"
	BoundaryPML8 = "PML_8"
)

// Settings are the simulation parameters written into the script header and
// footer.
type Settings struct {
	// Name is used for the generated result files
	Name string
	// SimPath is the directory openEMS writes into
	SimPath string

	FMin   float64
	FMax   float64
	FSteps int

	MaxTimesteps float64
	EndCriteria  float64

	// Boundaries are xmin xmax ymin ymax zmin zmax
	Boundaries [6]string

	// Resolution is the maximum mesh cell size passed to SmoothMesh
	Resolution float64

	ExcitationPort int

	// ViaOffset shifts via barrels in the solver output only; pads stay put
	ViaOffset geom.Vec2

	NoExcite      bool
	NoDetectEdges bool
	NoSmoothMesh  bool

	// View adds a geometry plot call, Solve runs the engine and extracts
	// S-parameters.
	View  bool
	Solve bool
}

// DefaultSettings returns the usual 1 MHz to 50 GHz PEC-box simulation
func DefaultSettings() Settings {
	return Settings{
		Name:           "sim",
		SimPath:        "openems_data",
		FMin:           1e6,
		FMax:           50e9,
		FSteps:         1601,
		MaxTimesteps:   1e6,
		EndCriteria:    1e-6,
		Boundaries:     [6]string{BoundaryPEC, BoundaryPEC, BoundaryPEC, BoundaryPEC, BoundaryPEC, BoundaryPEC},
		Resolution:     1e-4,
		ExcitationPort: 1,
		Solve:          true,
	}
}

// GaussCenter returns the center of the excitation band
func (s Settings) GaussCenter() float64 {
	return (s.FMin + s.FMax) / 2
}

// GaussHalfWidth returns the distance from the band center to FMin
func (s Settings) GaussHalfWidth() float64 {
	return s.GaussCenter() - s.FMin
}

// Validate checks the frequency plan and mesh resolution
func (s Settings) Validate() error {
	if s.FMin < 0 || s.FMax <= s.FMin {
		return fmt.Errorf("solver: invalid frequency range %g..%g", s.FMin, s.FMax)
	}
	if s.FSteps < 2 {
		return fmt.Errorf("solver: need at least 2 frequency steps, got %d", s.FSteps)
	}
	if s.Resolution <= 0 && !s.NoSmoothMesh {
		return fmt.Errorf("solver: mesh resolution must be positive")
	}
	for i, b := range s.Boundaries {
		if b == "" {
			return fmt.Errorf("solver: boundary %d not set", i)
		}
	}
	return nil
}
