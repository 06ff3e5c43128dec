// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spf13/cobra"

	"github.com/ik5/audlooper/formats"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var configParamsCmd = &cobra.Command{
	Use:   "params",
	Short: "Show the engine parameters the configuration resolves to",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cfg.SamplerParams(cfg.Engine.SampleRate)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("error marshaling params: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the input file extensions that can be decoded",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(formats.Default().Formats(), " "))
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configParamsCmd)
}
