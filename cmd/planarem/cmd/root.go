package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/planarem/internal/logging"
	"github.com/OpenTraceLab/planarem/pkg/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "planarem",
	Short: "planarem - parametric EM structures for openEMS and KiCad",
	Long: `planarem builds planar RF structures from scene files or the built-in
design catalog and exports them twice: as an openEMS Octave script for
simulation, and as a KiCad footprint (plus DXF and PNG) for fabrication.

Examples:
  planarem designs                          # List built-in structures
  planarem build --example lpf -o out       # Script and footprint for the LPF
  planarem build stub.yaml --dxf --png      # Build a scene file
  planarem inspect out/lpf.kicad_mod        # Summarize a footprint
  planarem touchstone lpf.s2p --format ri   # Show or convert S-parameters`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.Setup(os.Stderr, verbose)
	},
}

// Execute runs the root command. An interrupt cancels a running solver.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"project config file (.yaml, .yml or .toml)")
}

// loadConfig returns the --config file over the defaults, or the defaults
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", "path", configPath, "project", cfg.Project)
	return cfg, nil
}
