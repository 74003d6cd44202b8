package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/planarem/pkg/config"
	"github.com/OpenTraceLab/planarem/pkg/designs"
	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/scene"
	"github.com/OpenTraceLab/planarem/pkg/scenefile"
	"github.com/OpenTraceLab/planarem/pkg/solver"
)

var (
	buildExample string
	buildOut     string
	buildMirror  string
	buildOctave  bool
	buildKiCad   bool
	buildDXF     bool
	buildPNG     bool
	buildRun     bool

	buildFMin       float64
	buildFMax       float64
	buildResolution float64
)

var buildCmd = &cobra.Command{
	Use:   "build [scene.yaml]",
	Short: "Export a scene as an openEMS script and a KiCad footprint",
	Long: `Build a scene from a YAML scene file or a catalog example and write:

  <name>.m          openEMS Octave script (--octave, default on)
  <name>.kicad_mod  KiCad footprint (--kicad, default on)
  <name>.dxf        DXF outline of the footprint (--dxf)
  <name>.png        PNG preview of the footprint (--png)

With --run the script is written into the simulation directory and run
with Octave instead.

Examples:
  planarem build --example miter -o out
  planarem build stub.yaml --mirror x --dxf --png
  planarem build -c project.toml --example idbpf --run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildExample, "example", "e", "",
		"build a catalog example instead of a scene file")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "",
		"output directory (default from config)")
	buildCmd.Flags().StringVar(&buildMirror, "mirror", "",
		"mirror the footprint about these axes, e.g. x")
	buildCmd.Flags().BoolVar(&buildOctave, "octave", true, "write the openEMS script")
	buildCmd.Flags().BoolVar(&buildKiCad, "kicad", true, "write the KiCad footprint")
	buildCmd.Flags().BoolVar(&buildDXF, "dxf", false, "write a DXF outline")
	buildCmd.Flags().BoolVar(&buildPNG, "png", false, "write a PNG preview")
	buildCmd.Flags().BoolVar(&buildRun, "run", false, "run the script with Octave")
	buildCmd.Flags().Float64Var(&buildFMin, "fmin", 0, "lowest simulated frequency in Hz")
	buildCmd.Flags().Float64Var(&buildFMax, "fmax", 0, "highest simulated frequency in Hz")
	buildCmd.Flags().Float64Var(&buildResolution, "resolution", 0, "maximum mesh cell size in meters")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if (len(args) == 1) == (buildExample != "") {
		return fmt.Errorf("give either a scene file or --example")
	}
	s, err := buildScene(args)
	if err != nil {
		return err
	}

	// the scene's own settings are the base, the config file overrides the
	// keys it names and flags override both
	cfg := config.Default()
	cfg.SetSettings(*s.Settings())
	if configPath != "" {
		if cfg, err = config.LoadOver(cfg, configPath); err != nil {
			return err
		}
		logger.Debug("config loaded", "path", configPath, "project", cfg.Project)
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Dir = buildOut
	}
	if flags.Changed("mirror") {
		cfg.Footprint.Mirror = buildMirror
	}
	for name, dst := range map[string]*bool{
		"octave": &cfg.Output.Octave,
		"kicad":  &cfg.Output.KiCad,
		"dxf":    &cfg.Output.DXF,
		"png":    &cfg.Output.PNG,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}
	for name, dst := range map[string]*float64{
		"fmin":       &cfg.Solver.FMin,
		"fmax":       &cfg.Solver.FMax,
		"resolution": &cfg.Solver.Resolution,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetFloat64(name)
		}
	}
	mirror, err := cfg.MirrorAxes()
	if err != nil {
		return err
	}
	*s.Settings() = cfg.Settings()

	fmt.Printf("✓ Built scene %q\n", s.Name())
	fmt.Printf("  Materials: %d\n", len(s.Materials()))
	fmt.Printf("  Objects: %d\n", len(s.Objects()))
	fmt.Printf("  Ports: %d\n", len(s.Ports()))
	for _, d := range s.Diagnostics() {
		fmt.Printf("  ! %s\n", d)
	}

	dir := cfg.Output.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	base := filepath.Join(dir, s.Name())

	if cfg.Output.Octave || buildRun {
		if err := writeSolver(cmd, s, base, dir, cfg.Solver.Octave); err != nil {
			return err
		}
	}

	if !(cfg.Output.KiCad || cfg.Output.DXF || cfg.Output.PNG) {
		return nil
	}
	fp, err := s.ExportFabrication(mirror)
	if err != nil {
		return err
	}
	fp.Name = cfg.FootprintName()
	if configPath == "" {
		fp.Name = s.Name()
	}
	if len(fp.Items) == 0 {
		fmt.Printf("  (no fabrication items, footprint skipped)\n")
		return nil
	}

	if cfg.Output.KiCad {
		var buf bytes.Buffer
		if err := footprint.WriteKiCad(&buf, fp); err != nil {
			return err
		}
		if err := writeFile(base+".kicad_mod", buf.Bytes()); err != nil {
			return err
		}
	}
	if cfg.Output.DXF {
		if err := footprint.WriteDXF(base+".dxf", fp); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s.dxf\n", base)
	}
	if cfg.Output.PNG {
		var buf bytes.Buffer
		if err := footprint.RenderPNG(&buf, fp, cfg.RenderOptions()); err != nil {
			return err
		}
		if err := writeFile(base+".png", buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// buildScene builds the --example or the scene file with default settings
func buildScene(args []string) (*scene.Scene, error) {
	if buildExample != "" {
		ex, ok := designs.LookupExample(buildExample)
		if !ok {
			return nil, fmt.Errorf("unknown example %q (see \"planarem designs\")", buildExample)
		}
		s := scene.New(ex.Name, scene.WithLogger(logger))
		if err := ex.Build(s); err != nil {
			return nil, fmt.Errorf("build %s: %w", ex.Name, err)
		}
		return s, nil
	}
	file, err := scenefile.ParseFile(args[0])
	if err != nil {
		return nil, err
	}
	s, err := file.Build(scene.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", args[0], err)
	}
	return s, nil
}

func writeSolver(cmd *cobra.Command, s *scene.Scene, base, dir, octave string) error {
	desc, err := s.ExportSolverDescription()
	if err != nil {
		return err
	}
	if err := desc.Settings.Validate(); err != nil {
		return err
	}

	if buildRun {
		drv := &solver.OctaveDriver{
			Octave: octave,
			Dir:    dir,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
			Logger: logger,
		}
		fmt.Printf("Running openEMS for %s...\n", s.Name())
		return drv.Run(cmd.Context(), desc)
	}

	var buf bytes.Buffer
	if err := solver.WriteOctave(&buf, desc); err != nil {
		return err
	}
	return writeFile(base+".m", buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("✓ Wrote %s\n", path)
	return nil
}
