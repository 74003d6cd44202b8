// Package touchstone reads and writes S-parameter data in the Touchstone
// version 1 text format (.s1p, .s2p, ...).
package touchstone

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"path/filepath"
	"strconv"
	"strings"
)

// Format selects how each complex value is written
type Format string

const (
	// DB is magnitude in dB and angle in degrees
	DB Format = "DB"
	// MA is linear magnitude and angle in degrees
	MA Format = "MA"
	// RI is real and imaginary parts
	RI Format = "RI"
)

// ParseFormat accepts DB, MA or RI in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToUpper(s)); f {
	case DB, MA, RI:
		return f, nil
	}
	return "", fmt.Errorf("touchstone: format %q: %w", s, ErrFormat)
}

// ErrFormat is returned for data that does not follow the Touchstone layout
var ErrFormat = errors.New("touchstone: malformed data")

// DefaultImpedance is the reference impedance when a file does not say
const DefaultImpedance = 50.0

// MinDB is written for magnitudes too small for a finite dB value
const MinDB = -300.0

// Network is an N-port S-parameter sweep
type Network struct {
	Ports int
	// Z0 is the reference impedance of every port
	Z0 float64
	// Freq holds the sweep in Hz
	Freq []float64
	// S holds one row-major Ports x Ports matrix per frequency
	S [][]complex128
	// Comments are written as "!" lines before the option line
	Comments []string
}

// NewNetwork returns an empty sweep
func NewNetwork(ports int, z0 float64) *Network {
	return &Network{Ports: ports, Z0: z0}
}

// Append adds one frequency point; s is row-major
func (n *Network) Append(freq float64, s []complex128) error {
	if len(s) != n.Ports*n.Ports {
		return fmt.Errorf("touchstone: %d-port point needs %d values, got %d: %w", n.Ports, n.Ports*n.Ports, len(s), ErrFormat)
	}
	n.Freq = append(n.Freq, freq)
	n.S = append(n.S, append([]complex128(nil), s...))
	return nil
}

// Len returns the number of frequency points
func (n *Network) Len() int {
	return len(n.Freq)
}

// At returns S(i+1, j+1) at point k
func (n *Network) At(k, i, j int) complex128 {
	return n.S[k][i*n.Ports+j]
}

// Symmetric2Port builds a reciprocal, symmetric 2-port from S11 and S21:
// S22 = S11 and S12 = S21.
func Symmetric2Port(freq []float64, s11, s21 []complex128) (*Network, error) {
	if len(s11) != len(freq) || len(s21) != len(freq) {
		return nil, fmt.Errorf("touchstone: %d frequencies, %d S11 and %d S21 values: %w", len(freq), len(s11), len(s21), ErrFormat)
	}
	n := NewNetwork(2, DefaultImpedance)
	for k, f := range freq {
		if err := n.Append(f, []complex128{s11[k], s21[k], s21[k], s11[k]}); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// PortsFromPath reads the port count from a ".sNp" extension
func PortsFromPath(path string) (int, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if len(ext) < 4 || ext[1] != 's' || ext[len(ext)-1] != 'p' {
		return 0, fmt.Errorf("touchstone: %q is not a .sNp file: %w", path, ErrFormat)
	}
	n, err := strconv.Atoi(ext[2 : len(ext)-1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("touchstone: %q is not a .sNp file: %w", path, ErrFormat)
	}
	return n, nil
}

// order returns the (i, j) sequence values appear in. Two-port files are
// column-major (S11 S21 S12 S22); every other size is row-major.
func order(ports int) [][2]int {
	out := make([][2]int, 0, ports*ports)
	for a := 0; a < ports; a++ {
		for b := 0; b < ports; b++ {
			if ports == 2 {
				out = append(out, [2]int{b, a})
			} else {
				out = append(out, [2]int{a, b})
			}
		}
	}
	return out
}

func toPair(v complex128, f Format) (float64, float64) {
	deg := cmplx.Phase(v) * 180 / math.Pi
	switch f {
	case DB:
		return math.Max(20*math.Log10(cmplx.Abs(v)), MinDB), deg
	case MA:
		return cmplx.Abs(v), deg
	}
	return real(v), imag(v)
}

func fromPair(a, b float64, f Format) complex128 {
	switch f {
	case DB:
		return cmplx.Rect(math.Pow(10, a/20), b*math.Pi/180)
	case MA:
		return cmplx.Rect(a, b*math.Pi/180)
	}
	return complex(a, b)
}
