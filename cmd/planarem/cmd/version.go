package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version, overridden at link time with
// -ldflags "-X github.com/OpenTraceLab/planarem/cmd/planarem/cmd.Version=..."
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the planarem version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "planarem %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
