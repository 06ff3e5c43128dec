// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/audlooper/formats/wav"
	"github.com/ik5/audlooper/sampler"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("looper %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "looper.yaml")
	content := "profiles:\n  default:\n    engine:\n      sample_rate: 8000\n      channels: 1\n" +
		"    params:\n      attack_ms: 0\n      decay_ms: 0\n    output:\n      tail_seconds: 0.001\n" +
		"      waveform_resolution: 4\n      directory: " + dir + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	if out := run(t, "formats", "--config", cfgPath); !strings.Contains(out, "wav") {
		t.Errorf("formats output = %q", out)
	}
	if out := run(t, "config", "show", "--config", cfgPath); !strings.Contains(out, "sample_rate: 8000") {
		t.Errorf("config show output = %q", out)
	}

	input := filepath.Join(dir, "take.wav")
	f, err := os.Create(input)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.WriteWAV16(f, 8000, 1, []int16{1000, -1000, 2000, -2000}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	takeOut := filepath.Join(dir, "recorded.wav")
	run(t, "render", input, "--config", cfgPath, "--take", takeOut)
	if _, err := os.Stat(filepath.Join(dir, "take-looped.wav")); err != nil {
		t.Errorf("render output missing: %v", err)
	}
	if _, err := os.Stat(takeOut); err != nil {
		t.Errorf("take output missing: %v", err)
	}

	if out := run(t, "summary", input, "--config", cfgPath); !strings.Contains(out, "recorded [4]") {
		t.Errorf("summary output = %q", out)
	}
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printSummary(&out, sampler.WaveformSummary{Data: []float32{0, 0.5, 1}, Min: 0, Max: 1}, 4)

	want := "min 0.0000 max 1.0000\n" +
		"   0 0.0000 \n" +
		"   1 0.5000 ##\n" +
		"   2 1.0000 ####\n"
	if out.String() != want {
		t.Errorf("printSummary() =\n%s\nwant\n%s", out.String(), want)
	}
}
