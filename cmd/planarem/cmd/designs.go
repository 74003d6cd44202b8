package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/planarem/pkg/designs"
	"github.com/OpenTraceLab/planarem/pkg/scenefile"
)

var designsCmd = &cobra.Command{
	Use:   "designs",
	Short: "List the built-in example structures and design types",
	Long: `List the catalog of ready-to-build examples (use with "build --example")
and the parametric design types a scene file can instantiate.`,
	Args: cobra.NoArgs,
	RunE: runDesigns,
}

func init() {
	rootCmd.AddCommand(designsCmd)
}

func runDesigns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Examples:\n")
	for _, ex := range designs.Examples() {
		fmt.Fprintf(out, "  %-12s %s\n", ex.Name, ex.Summary)
	}
	fmt.Fprintf(out, "\nScene file design types:\n  %s\n", strings.Join(scenefile.DesignTypes(), ", "))
	return nil
}
