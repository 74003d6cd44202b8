// Package logging builds the command-line logger and hands it to the
// library packages.
package logging

import (
	"io"
	"log/slog"

	"github.com/OpenTraceLab/planarem/pkg/scene"
)

// New returns a text logger writing to w: info and above, or debug and
// above when verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup installs the logger as the process default and as the scene
// package default, and returns it.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	l := New(w, verbose)
	slog.SetDefault(l)
	scene.SetLogger(l)
	return l
}
