package designs

import (
	"fmt"
	"slices"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// ECBPF is an edge-coupled band-pass filter of stacked half-wave
// resonators, point-symmetric about the origin. Only the resonators are
// built; feeds and enclosure come from the caller.
type ECBPF struct {
	Metal  string
	MetalZ [2]float64
	// Space, Length and Width are per resonator, outermost first. The
	// outermost resonator is half length and couples to the feed.
	Space    []float64
	Length   []float64
	Width    []float64
	Priority int
}

// Extent returns the outer corner (x, y) of the resonator stack
func (f ECBPF) Extent() geom.Vec2 {
	var corner geom.Vec2
	f.walk(func(_ int, _, stop geom.Vec3) { corner = stop.XY() })
	return corner
}

// walk yields the resonator rectangles from the center outwards
func (f ECBPF) walk(yield func(i int, start, stop geom.Vec3)) {
	n := len(f.Length)
	if n == 0 {
		return
	}
	rlMax := slices.Max(f.Length)
	x := 0.5 * rlMax
	y := 0.5 * f.Space[n-1]
	for i := n - 1; i >= 0; i-- {
		if i != n-1 {
			x += rlMax
			y += f.Space[i]
		}
		start := geom.V3(x-f.Length[i], y, f.MetalZ[0])
		y += f.Width[i]
		stopX := x + f.Length[i]
		if i == 0 {
			stopX = x
		}
		yield(i, start, geom.V3(stopX, y, f.MetalZ[1]))
	}
}

func (f ECBPF) Generate(s *scene.Scene) error {
	n := len(f.Length)
	if n == 0 || len(f.Space) < n || len(f.Width) < n {
		return fmt.Errorf("ecbpf: %d resonators need as many gaps and widths: %w", n, scene.ErrInvalidGeometry)
	}
	var err error
	f.walk(func(i int, start, stop geom.Vec3) {
		if err != nil {
			return
		}
		name := fmt.Sprintf("r%d", i)
		var b *scene.Box
		b, err = s.AddBox(scene.BoxSpec{Name: name, Material: f.Metal, Priority: priority(f.Priority), Start: start, Stop: stop})
		if err != nil {
			return
		}
		var twin *scene.Box
		if twin, err = b.DuplicateAs(name + "m"); err == nil {
			twin.Mirror(geom.AxesXY)
		}
	})
	return wrap("ecbpf", err)
}
