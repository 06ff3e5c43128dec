// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ik5/audlooper/internal/playback"
)

var playCmd = &cobra.Command{
	Use:   "play [input]",
	Short: "Render a script over an audio file and play the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := renderInput(cmd.Context(), cmd, args[0])
		if err != nil {
			return err
		}

		slog.Info("playing", "frames", res.Frames, "rate", res.SampleRate, "channels", res.Channels)
		if err := playback.Play(cmd.Context(), res.SampleRate, res.Channels, res.Output); err != nil {
			return fmt.Errorf("playback failed: %w", err)
		}
		return nil
	},
}

func init() {
	addRenderFlags(playCmd)
}
