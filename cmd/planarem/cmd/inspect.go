package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/planarem/pkg/footprint"
	"github.com/OpenTraceLab/planarem/pkg/scene"
	"github.com/OpenTraceLab/planarem/pkg/scenefile"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize a scene file or a KiCad footprint",
	Long: `Print what a file contains.

  .kicad_mod   pads, polygons and custom pads with the footprint extent
  .yaml/.yml   the scene it builds: materials, objects, ports, diagnostics

Examples:
  planarem inspect out/lpf.kicad_mod
  planarem inspect stub.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kicad_mod":
		return inspectFootprint(path)
	case ".yaml", ".yml":
		return inspectScene(path)
	}
	return fmt.Errorf("don't know how to inspect %q", path)
}

func inspectFootprint(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fp, err := footprint.ParseKiCad(file)
	if err != nil {
		return fmt.Errorf("error parsing footprint: %w", err)
	}

	fmt.Printf("Footprint: %s\n", fp.Name)
	fmt.Printf("  Layers: %s\n", strings.Join(fp.Layers(), " "))
	if bb := fp.Bounds(); !bb.IsEmpty() {
		fmt.Printf("  Size: %.3f x %.3f mm\n", bb.Width(), bb.Height())
		fmt.Printf("  Center: (%.3f, %.3f) mm\n", bb.Center().X, bb.Center().Y)
	}

	pads := fp.Pads()
	fmt.Printf("\nPads (%d):\n", len(pads))
	for _, p := range pads {
		fmt.Printf("  %-4s %-9s %-6s at (%.3f, %.3f) size %.3f x %.3f",
			p.Name, p.Type, p.Shape, p.At.X, p.At.Y, p.Size.Width, p.Size.Height)
		if p.Drill > 0 {
			fmt.Printf(" drill %.3f", p.Drill)
		}
		fmt.Println()
	}
	if polys := fp.Polys(); len(polys) > 0 {
		fmt.Printf("\nPolygons (%d):\n", len(polys))
		for _, p := range polys {
			fmt.Printf("  %-6s %d points\n", p.Layer, len(p.Points))
		}
	}
	if custom := fp.CustomPads(); len(custom) > 0 {
		fmt.Printf("\nCustom pads (%d):\n", len(custom))
		for _, p := range custom {
			fmt.Printf("  %-4s at (%.3f, %.3f) %d points\n", p.Name, p.At.X, p.At.Y, len(p.Points))
		}
	}
	return nil
}

func inspectScene(path string) error {
	file, err := scenefile.ParseFile(path)
	if err != nil {
		return err
	}
	s, err := file.Build(scene.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Printf("Scene: %s\n", s.Name())
	fmt.Printf("\nMaterials (%d):\n", len(s.Materials()))
	for _, m := range s.Materials() {
		fmt.Printf("  %-16s %s\n", m.Name(), m.Kind())
	}

	fmt.Printf("\nObjects (%d):\n", len(s.Objects()))
	for _, p := range s.Objects() {
		b := p.Bounds()
		fmt.Printf("  %-16s %-8s %-12s prio %-2d pad %-5q %v..%v\n",
			p.Name(), p.Kind(), p.MaterialName(), p.Priority(), p.Pad(), b.Min, b.Max)
	}

	if ports := s.Ports(); len(ports) > 0 {
		fmt.Printf("\nPorts (%d):\n", len(ports))
		for _, p := range ports {
			fmt.Printf("  %d  %-8s dir %s  Z0 %g\n", p.Number(), p.Name(), p.Direction, p.Z0)
		}
	}
	if diags := s.Diagnostics(); len(diags) > 0 {
		fmt.Printf("\nDiagnostics (%d):\n", len(diags))
		for _, d := range diags {
			fmt.Printf("  %s\n", d)
		}
	}
	return nil
}
