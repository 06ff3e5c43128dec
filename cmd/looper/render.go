// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/audlooper"
	"github.com/ik5/audlooper/session"
)

var (
	scriptFile string
	outputPath string
	tailSecs   float64
	takePath   string
)

var renderCmd = &cobra.Command{
	Use:   "render [input]",
	Short: "Run a script over an audio file and write the result as WAV",
	Long: `Render decodes the input, converts it to the engine rate and channel
count, and plays the script against it. Use -o - to write to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := renderInput(cmd.Context(), cmd, args[0])
		if err != nil {
			return err
		}

		out := outputPath
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			out = filepath.Join(cfg.Output.Directory, base+"-looped.wav")
		}
		if out == "-" {
			return audlooper.WriteWAV(os.Stdout, res)
		}

		if err := writeFile(out, res); err != nil {
			return err
		}
		slog.Info("render written", "path", out, "frames", res.Frames)

		if takePath != "" {
			take := &session.Result{
				Output:     res.Take(),
				SampleRate: res.SampleRate,
				Channels:   len(res.Takes),
			}
			if err := writeFile(takePath, take); err != nil {
				return err
			}
			slog.Info("take written", "path", takePath, "frames", slices.Max(res.Recorded))
		}
		return nil
	},
}

func writeFile(path string, res *session.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := audlooper.WriteWAV(f, res); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// renderInput applies the config and the shared render flags to input.
func renderInput(ctx context.Context, cmd *cobra.Command, input string) (*session.Result, error) {
	rate := cfg.Engine.SampleRate
	params, err := cfg.SamplerParams(rate)
	if err != nil {
		return nil, err
	}

	var script *session.Script
	if scriptFile != "" {
		if script, err = session.LoadScript(scriptFile); err != nil {
			return nil, err
		}
	}

	tail := cfg.TailFrames(rate)
	if cmd.Flags().Changed("tail") {
		tail = int64(tailSecs * float64(rate))
	}

	opts := session.Options{
		SampleRate:         rate,
		Channels:           cfg.Engine.Channels,
		TailFrames:         tail,
		BlockFrames:        cfg.Engine.BlockSize,
		WaveformResolution: cfg.Output.WaveformResolution,
	}
	return audlooper.RenderFile(ctx, input, params, script, opts, slog.Default())
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&scriptFile, "script", "s", "", "YAML script of timed events (default: record the input, then loop it)")
	cmd.Flags().Float64Var(&tailSecs, "tail", 0, "seconds rendered after the input ends (overrides config)")
}

func init() {
	addRenderFlags(renderCmd)
	renderCmd.Flags().StringVar(&takePath, "take", "", "also write the recorded buffers as WAV")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output WAV path, - for stdout (default <output.directory>/<input>-looped.wav)")
}
