package touchstone

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// pairs per data line for networks above two ports; each matrix row
// also starts a new line
const pairsPerLine = 4

// Write emits the sweep with frequencies in GHz:
//
//	# GHz S DB R 50
//	    1.000000   -20.000000     0.000000 ...
func Write(w io.Writer, n *Network, format Format) error {
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	if n.Ports < 1 {
		return fmt.Errorf("touchstone: %d ports: %w", n.Ports, ErrFormat)
	}
	z0 := n.Z0
	if z0 == 0 {
		z0 = DefaultImpedance
	}

	bw := bufio.NewWriter(w)
	for _, c := range n.Comments {
		fmt.Fprintf(bw, "! %s\n", c)
	}
	fmt.Fprintf(bw, "# GHz S %s R %g\n", format, z0)

	seq := order(n.Ports)
	for k, f := range n.Freq {
		if len(n.S[k]) != n.Ports*n.Ports {
			return fmt.Errorf("touchstone: point %d has %d values: %w", k, len(n.S[k]), ErrFormat)
		}
		var line strings.Builder
		fmt.Fprintf(&line, "%12f", f/1e9)
		for idx, ij := range seq {
			if n.Ports > 2 && idx > 0 && (idx%n.Ports)%pairsPerLine == 0 {
				line.WriteString("\n" + strings.Repeat(" ", 12))
			}
			a, b := toPair(n.At(k, ij[0], ij[1]), format)
			fmt.Fprintf(&line, " %12f %12f", a, b)
		}
		line.WriteByte('\n')
		if _, err := bw.WriteString(line.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
