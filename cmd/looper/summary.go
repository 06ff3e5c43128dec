// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/audlooper/sampler"
)

var summaryWidth int

var summaryCmd = &cobra.Command{
	Use:   "summary [input]",
	Short: "Print the waveform overview of the recorded buffer",
	Long: `Summary renders the input like render does and prints the RMS overview
of channel 0's recording, one bucket per line.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := renderInput(cmd.Context(), cmd, args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "recorded %v samples, %d frames rendered, diagnostics: %s\n",
			res.Recorded, res.Frames, res.Diagnostics)
		printSummary(cmd.OutOrStdout(), res.Waveform, summaryWidth)
		return nil
	},
}

// printSummary draws one bar per bucket, scaled between the summary's
// min and max.
func printSummary(w io.Writer, s sampler.WaveformSummary, width int) {
	fmt.Fprintf(w, "min %.4f max %.4f\n", s.Min, s.Max)
	span := s.Max - s.Min
	for i, v := range s.Data {
		n := 0
		if span > 0 {
			n = int((v - s.Min) / span * float32(width))
		}
		fmt.Fprintf(w, "%4d %.4f %s\n", i, v, strings.Repeat("#", n))
	}
}

func init() {
	addRenderFlags(summaryCmd)
	summaryCmd.Flags().IntVar(&summaryWidth, "width", 60, "width of the widest bar")
}
