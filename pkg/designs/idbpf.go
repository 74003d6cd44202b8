package designs

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/planarem/pkg/geom"
	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// IDBPF is an interdigital band-pass filter: grounded quarter-wave fingers
// alternating from a via-stitched ground ring, fed by tapped lines from -x
// and +x. The structure is point-symmetric: each half is built once and
// duplicated with an xy mirror.
type IDBPF struct {
	Metal     string
	Substrate string
	Z         Stackup

	// Space, RL and RW are per finger, outermost first: the gap before the
	// finger, its length and its width. Space[0] is the feed coupling gap.
	Space []float64
	RL    []float64
	RW    []float64

	// RingIX and RingOX are the inner and outer x edges of the ground ring
	RingIX     float64
	RingOX     float64
	RingYWidth float64

	PortLength float64
	FeedWidth  float64
	FeedGap    float64

	ViaRadius    float64
	ViaPadRadius float64

	// Mask, when MaskThickness is positive, covers the board with a
	// solder mask dielectric
	Mask          string
	MaskThickness float64

	// InnerMetalZ adds unpadded ground ring copies on inner layers
	InnerMetalZ [][2]float64

	Priority int
}

func (f IDBPF) Generate(s *scene.Scene) error {
	n := len(f.Space)
	if n == 0 || len(f.RL) < n || len(f.RW) < n {
		return fmt.Errorf("idbpf: %d gaps need as many finger lengths and widths: %w", n, scene.ErrInvalidGeometry)
	}
	return wrap("idbpf", f.generate(s))
}

func (f IDBPF) generate(s *scene.Scene) error {
	prio := priority(f.Priority)
	n := len(f.Space)
	box := func(name, mat string, prio int, pad string, start, stop geom.Vec3) (*scene.Box, error) {
		return s.AddBox(scene.BoxSpec{Name: name, Material: mat, Priority: prio, Pad: pad, Start: start, Stop: stop})
	}

	// fingers, innermost last so the outermost pair carries the feed pads
	y := -0.5 * f.Space[n-1]
	flip := false
	for i := n - 1; i >= 0; i-- {
		x1 := 0.5 * (f.RingOX + f.RingIX)
		x2 := f.RingIX - f.RL[i]
		y += f.Space[i]
		start := geom.V3(x1, y, f.Z.Top)
		y += f.RW[i]
		stop := geom.V3(x2, y, f.Z.Metal)

		name := fmt.Sprintf("r%d", i)
		finger, err := box(name, f.Metal, prio, "2", start, stop)
		if err != nil {
			return err
		}
		finger.Mirror(mirrorIf(flip))
		flip = !flip
		twin, err := finger.DuplicateAs(name + "m")
		if err != nil {
			return err
		}
		twin.Mirror(geom.AxesXY)
		if i == 0 {
			finger.SetPad("1")
			twin.SetPad("3")
		}
	}
	flip = !flip
	m := mirrorIf(flip)

	// feed lines
	y -= 0.5 * f.RW[0]
	hw := 0.5 * f.FeedWidth
	feed, err := box("pext1", f.Metal, prio, "1",
		geom.V3(f.RingIX, y+hw, f.Z.Top), geom.V3(f.RingOX-f.PortLength, y-hw, f.Z.Metal))
	if err != nil {
		return err
	}
	feed.Mirror(m)
	feed2, err := feed.DuplicateAs("pext2")
	if err != nil {
		return err
	}
	withPad(feed2.Mirror(geom.AxesXY), "3")

	port, err := s.AddPort(scene.PortSpec{
		Start: geom.V3(f.RingOX, y+hw, f.Z.Top), Stop: geom.V3(f.RingOX-f.PortLength, y-hw, f.Z.Metal),
		Z0: PortImpedance, Direction: geom.X,
	})
	if err != nil {
		return err
	}
	port.Mirror(m).Duplicate().Mirror(geom.AxesXY)

	// ground ring
	y1 := y + hw + f.FeedGap
	y2 := y1 + f.RingYWidth
	y3 := y - (hw + f.FeedGap)
	ring1, err := box("ring1", f.Metal, prio, "2", geom.V3(f.RingOX, y1, f.Z.Top), geom.V3(-f.RingOX, y2, f.Z.Metal))
	if err != nil {
		return err
	}
	ring2, err := ring1.Mirror(m).DuplicateAs("ring2")
	if err != nil {
		return err
	}
	ring2.Mirror(geom.AxesXY)
	ring3, err := box("ring3", f.Metal, prio, "2", geom.V3(f.RingOX, y3, f.Z.Top), geom.V3(f.RingIX, -y2, f.Z.Metal))
	if err != nil {
		return err
	}
	ring4, err := ring3.Mirror(m).DuplicateAs("ring4")
	if err != nil {
		return err
	}
	ring4.Mirror(geom.AxesXY)

	for k, z := range f.InnerMetalZ {
		inner := []struct {
			start, stop geom.Vec3
		}{
			{geom.V3(f.RingOX, y1, z[0]), geom.V3(-f.RingOX, y2, z[1])},
			{geom.V3(f.RingOX, y2, z[0]), geom.V3(f.RingIX, -y2, z[1])},
		}
		for j, in := range inner {
			idx := 4*k + 2*j
			b, err := box(fmt.Sprintf("mi%d", idx), f.Metal, prio, "", in.start, in.stop)
			if err != nil {
				return err
			}
			c, err := b.DuplicateAs(fmt.Sprintf("mi%d", idx+1))
			if err != nil {
				return err
			}
			c.Mirror(geom.AxesXY)
		}
	}

	corner := geom.V3(f.RingOX, y2, f.Z.Bottom)
	if _, err := box("sub1", f.Substrate, 1, "", corner, corner.Mirror(geom.AxesXY).With(geom.Z, f.Z.Top)); err != nil {
		return err
	}
	if f.MaskThickness > 0 {
		top := corner.With(geom.Z, f.Z.Top)
		stop := top.Mirror(geom.AxesXY).With(geom.Z, f.Z.Top+f.MaskThickness)
		if _, err := box("mask", f.Mask, 1, "", top, stop); err != nil {
			return err
		}
	}

	return f.stitch(s, m, y1, y3)
}

// stitch places the ground vias along the ring: first down the inner edge
// in y, then along the bottom in x.
func (f IDBPF) stitch(s *scene.Scene, m geom.Axes, y1, y3 float64) error {
	r := f.ViaPadRadius
	z := []scene.ZRange{{Start: f.Z.Bottom, Stop: f.Z.Metal}}
	count := func(a, b float64) int {
		return 1 + int(math.Floor(math.Abs(a-b)/(2*r)))
	}

	var sites []geom.Vec2
	yStart, yStop := y3-r, -y1-r
	for _, y := range linspace(yStart, yStop, count(yStart, yStop)) {
		sites = append(sites, geom.V2(f.RingIX+r, y))
	}
	xStart, xStop := f.RingIX+r, r-f.RingOX
	xs := linspace(xStart, xStop, count(xStart, xStop))
	for _, x := range xs[1:] {
		sites = append(sites, geom.V2(x, yStop))
	}

	for i, at := range sites {
		v, err := s.AddVia(scene.ViaSpec{
			Name: fmt.Sprintf("via%d", 2*i), Material: f.Metal, Priority: 2,
			X: at.X, Y: at.Y, Z: z,
			DrillRadius: f.ViaRadius, PadRadius: r, Pad: "2",
		})
		if err != nil {
			return err
		}
		twin, err := v.Mirror(m).DuplicateAs(fmt.Sprintf("via%d", 2*i+1))
		if err != nil {
			return err
		}
		twin.Mirror(geom.AxesXY)
	}
	return nil
}
