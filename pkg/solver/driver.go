package solver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// ScriptName is the file the driver writes inside the simulation directory
const ScriptName = "sim.m"

// OctaveDriver writes the solver script next to the simulation data and
// optionally runs it with GNU Octave.
type OctaveDriver struct {
	// Octave is the interpreter binary; empty means "octave" from PATH
	Octave string
	// Dir is the working directory; SimPath is resolved relative to it
	Dir string
	// Stdout and Stderr receive the interpreter output when set
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

func (d *OctaveDriver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (d *OctaveDriver) simDir(desc *Description) string {
	return filepath.Join(d.Dir, desc.Settings.SimPath)
}

// Prepare renders the script into the simulation directory and returns its path
func (d *OctaveDriver) Prepare(desc *Description) (string, error) {
	var buf bytes.Buffer
	if err := WriteOctave(&buf, desc); err != nil {
		return "", err
	}

	dir := d.simDir(desc)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create simulation directory: %w", err)
	}
	path := filepath.Join(dir, ScriptName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}
	// a stale ABORT file stops openEMS immediately
	if err := os.Remove(filepath.Join(dir, "ABORT")); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("remove ABORT: %w", err)
	}

	d.logger().Debug("solver script written", "path", path,
		"shapes", len(desc.Shapes), "ports", len(desc.Ports))
	return path, nil
}

// Run prepares the script and executes it. The context bounds the solver run.
func (d *OctaveDriver) Run(ctx context.Context, desc *Description) error {
	path, err := d.Prepare(desc)
	if err != nil {
		return err
	}

	bin := d.Octave
	if bin == "" {
		bin = "octave"
	}
	cmd := exec.CommandContext(ctx, bin, "--no-gui", path)
	cmd.Dir = d.Dir
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	d.logger().Info("running solver", "octave", bin, "script", path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", bin, err)
	}
	return nil
}
