package cmd

import (
	"bytes"
	"fmt"
	"math"
	"math/cmplx"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/planarem/pkg/touchstone"
)

var touchstoneFormat string

var touchstoneCmd = &cobra.Command{
	Use:   "touchstone <in.sNp> [out.sNp]",
	Short: "Show or convert a Touchstone S-parameter file",
	Long: `Without an output file, print the sweep and the worst-case return loss
and best insertion loss. With one, rewrite the data in --format (DB, MA or
RI, default from config).

Examples:
  planarem touchstone lpf.s2p
  planarem touchstone lpf.s2p lpf_ri.s2p --format ri`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTouchstone,
}

func init() {
	rootCmd.AddCommand(touchstoneCmd)

	touchstoneCmd.Flags().StringVarP(&touchstoneFormat, "format", "f", "",
		"output format: db, ma or ri")
}

func runTouchstone(cmd *cobra.Command, args []string) error {
	in := args[0]
	ports, err := touchstone.PortsFromPath(in)
	if err != nil {
		return err
	}
	file, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	net, err := touchstone.Parse(file, ports)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	if len(args) == 1 {
		printNetwork(in, net)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	name := cfg.Output.Touchstone
	if touchstoneFormat != "" {
		name = touchstoneFormat
	}
	format, err := touchstone.ParseFormat(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := touchstone.Write(&buf, net, format); err != nil {
		return err
	}
	return writeFile(args[1], buf.Bytes())
}

func db(v complex128) float64 {
	return 20 * math.Log10(cmplx.Abs(v))
}

func printNetwork(path string, net *touchstone.Network) {
	fmt.Printf("Touchstone: %s\n", path)
	fmt.Printf("  Ports: %d\n", net.Ports)
	fmt.Printf("  Reference: %g ohm\n", net.Z0)
	fmt.Printf("  Points: %d\n", net.Len())
	if net.Len() == 0 {
		return
	}
	fmt.Printf("  Range: %.6g - %.6g GHz\n", net.Freq[0]/1e9, net.Freq[net.Len()-1]/1e9)

	worstRL, bestIL := math.Inf(-1), math.Inf(-1)
	for k := range net.Freq {
		for i := 0; i < net.Ports; i++ {
			worstRL = math.Max(worstRL, db(net.At(k, i, i)))
			for j := 0; j < net.Ports; j++ {
				if i != j {
					bestIL = math.Max(bestIL, db(net.At(k, i, j)))
				}
			}
		}
	}
	fmt.Printf("  Worst |Sii|: %.2f dB\n", worstRL)
	if net.Ports > 1 {
		fmt.Printf("  Best |Sij|: %.2f dB\n", bestIL)
	}
}
