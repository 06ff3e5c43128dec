// SPDX-License-Identifier: EPL-2.0

// Package config loads looper settings with viper. A file holds named
// profiles; the selected one is layered over profiles.default, which is
// layered over the built-in defaults. LOOPER_* environment variables win
// over all of them, e.g. LOOPER_ENGINE_SAMPLE_RATE=48000.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/ik5/audlooper/sampler"
)

const DefaultProfile = "default"

var (
	ErrProfileNotFound = errors.New("configuration profile not found")
	ErrInvalid         = errors.New("invalid configuration")
)

type EngineConfig struct {
	SampleRate   int  `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels     int  `mapstructure:"channels" yaml:"channels"`
	AutoPassthru bool `mapstructure:"auto_passthru" yaml:"auto_passthru"`
	BlockSize    int  `mapstructure:"block_size" yaml:"block_size"`
}

type ParamsConfig struct {
	AttackMs         float64 `mapstructure:"attack_ms" yaml:"attack_ms"`
	DecayMs          float64 `mapstructure:"decay_ms" yaml:"decay_ms"`
	LoopMode         string  `mapstructure:"loop_mode" yaml:"loop_mode"`
	LoopLength       string  `mapstructure:"loop_length" yaml:"loop_length"`
	StartOffset      float64 `mapstructure:"start_offset" yaml:"start_offset"`
	Speed            float64 `mapstructure:"speed" yaml:"speed"`
	Reverse          bool    `mapstructure:"reverse" yaml:"reverse"`
	RecordingMode    string  `mapstructure:"recording_mode" yaml:"recording_mode"`
	FixedSizeSeconds float64 `mapstructure:"fixed_size_seconds" yaml:"fixed_size_seconds"`
	NoteOffBehavior  string  `mapstructure:"note_off_behavior" yaml:"note_off_behavior"`
	Tempo            float64 `mapstructure:"tempo" yaml:"tempo"`
	TimeSignature    string  `mapstructure:"time_signature" yaml:"time_signature"`
	Volume           float64 `mapstructure:"volume" yaml:"volume"`
}

type OutputConfig struct {
	Directory          string  `mapstructure:"directory" yaml:"directory"`
	TailSeconds        float64 `mapstructure:"tail_seconds" yaml:"tail_seconds"`
	WaveformResolution int     `mapstructure:"waveform_resolution" yaml:"waveform_resolution"`
}

type Config struct {
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Params ParamsConfig `mapstructure:"params" yaml:"params"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Profile is the name the config was resolved from.
	Profile string `mapstructure:"-" yaml:"profile"`
}

// Default mirrors sampler.DefaultParams at 44.1 kHz stereo.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			SampleRate:   44100,
			Channels:     2,
			AutoPassthru: true,
			BlockSize:    1024,
		},
		Params: ParamsConfig{
			AttackMs:         2.27,
			DecayMs:          2.27,
			LoopMode:         sampler.Loop.String(),
			LoopLength:       "100%",
			Speed:            1,
			RecordingMode:    sampler.NoteTriggered.String(),
			FixedSizeSeconds: 4,
			NoteOffBehavior:  sampler.DecayAndZeroCrossing.String(),
			Tempo:            120,
			TimeSignature:    "4/4",
			Volume:           1,
		},
		Output: OutputConfig{
			Directory:          filepath.Join(os.Getenv("HOME"), "Audio", "Looper"),
			TailSeconds:        4,
			WaveformResolution: 64,
		},
		Profile: DefaultProfile,
	}
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("engine.sample_rate", c.Engine.SampleRate)
	v.SetDefault("engine.channels", c.Engine.Channels)
	v.SetDefault("engine.auto_passthru", c.Engine.AutoPassthru)
	v.SetDefault("engine.block_size", c.Engine.BlockSize)

	v.SetDefault("params.attack_ms", c.Params.AttackMs)
	v.SetDefault("params.decay_ms", c.Params.DecayMs)
	v.SetDefault("params.loop_mode", c.Params.LoopMode)
	v.SetDefault("params.loop_length", c.Params.LoopLength)
	v.SetDefault("params.start_offset", c.Params.StartOffset)
	v.SetDefault("params.speed", c.Params.Speed)
	v.SetDefault("params.reverse", c.Params.Reverse)
	v.SetDefault("params.recording_mode", c.Params.RecordingMode)
	v.SetDefault("params.fixed_size_seconds", c.Params.FixedSizeSeconds)
	v.SetDefault("params.note_off_behavior", c.Params.NoteOffBehavior)
	v.SetDefault("params.tempo", c.Params.Tempo)
	v.SetDefault("params.time_signature", c.Params.TimeSignature)
	v.SetDefault("params.volume", c.Params.Volume)

	v.SetDefault("output.directory", c.Output.Directory)
	v.SetDefault("output.tail_seconds", c.Output.TailSeconds)
	v.SetDefault("output.waveform_resolution", c.Output.WaveformResolution)
}

// Load reads configFile and resolves profile. An empty profile falls back to
// the file's active_profile, then to "default". An empty configFile yields
// the defaults plus environment overrides.
func Load(configFile, profile string) (*Config, error) {
	file := viper.New()
	if configFile != "" {
		file.SetConfigFile(configFile)
		if err := file.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	name := profile
	if name == "" {
		name = file.GetString("active_profile")
	}
	if name == "" {
		name = DefaultProfile
	}

	eff := viper.New()
	eff.SetEnvPrefix("LOOPER")
	eff.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	eff.AutomaticEnv()
	setDefaults(eff, Default())

	layers := []string{DefaultProfile}
	if name != DefaultProfile {
		layers = append(layers, name)
	}
	for _, l := range layers {
		key := "profiles." + l
		if !file.IsSet(key) {
			if l == name && l != DefaultProfile {
				return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, l)
			}
			continue
		}
		if err := eff.MergeConfigMap(file.GetStringMap(key)); err != nil {
			return nil, fmt.Errorf("merging profile %q: %w", l, err)
		}
	}

	cfg := &Config{}
	if err := eff.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Profile = name
	cfg.Output.Directory = expandPath(cfg.Output.Directory)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func expandPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return os.ExpandEnv(path)
}

func (c *Config) Validate() error {
	switch {
	case c.Engine.SampleRate <= 0:
		return fmt.Errorf("%w: engine.sample_rate must be positive", ErrInvalid)
	case c.Engine.Channels < 1:
		return fmt.Errorf("%w: engine.channels must be at least 1", ErrInvalid)
	case c.Engine.BlockSize <= 0:
		return fmt.Errorf("%w: engine.block_size must be positive", ErrInvalid)
	case c.Params.AttackMs < 0 || c.Params.DecayMs < 0:
		return fmt.Errorf("%w: attack and decay must not be negative", ErrInvalid)
	case c.Params.Tempo <= 0:
		return fmt.Errorf("%w: params.tempo must be positive", ErrInvalid)
	case math.IsNaN(c.Params.Speed) || math.IsInf(c.Params.Speed, 0):
		return fmt.Errorf("%w: params.speed must be finite", ErrInvalid)
	case c.Params.Volume < 0:
		return fmt.Errorf("%w: params.volume must not be negative", ErrInvalid)
	case c.Output.TailSeconds < 0:
		return fmt.Errorf("%w: output.tail_seconds must not be negative", ErrInvalid)
	}
	if _, _, err := parseTimeSignature(c.Params.TimeSignature); err != nil {
		return err
	}
	_, err := c.SamplerParams(c.Engine.SampleRate)
	return err
}

func parseTimeSignature(s string) (int, int, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	n, err1 := strconv.Atoi(strings.TrimSpace(num))
	d, err2 := strconv.Atoi(strings.TrimSpace(den))
	if !ok || err1 != nil || err2 != nil || n <= 0 || d <= 0 {
		return 0, 0, fmt.Errorf("%w: time signature %q", ErrInvalid, s)
	}
	return n, d, nil
}

func msToSamples(ms float64, rate int) int {
	return int(math.Round(ms * float64(rate) / 1000))
}

// SamplerParams converts the params section for an engine running at rate.
func (c *Config) SamplerParams(rate int) (sampler.Params, error) {
	p := sampler.DefaultParams()
	pc := c.Params

	var err error
	if p.LoopMode, err = sampler.ParseLoopMode(pc.LoopMode); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if p.LoopLength, err = sampler.ParseLoopLength(pc.LoopLength); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if p.RecordingMode, err = sampler.ParseRecordingMode(pc.RecordingMode); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if p.NoteOffBehavior, err = sampler.ParseNoteOffBehavior(pc.NoteOffBehavior); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	num, den, err := parseTimeSignature(pc.TimeSignature)
	if err != nil {
		return p, err
	}

	p.AttackSamples = msToSamples(pc.AttackMs, rate)
	p.DecaySamples = msToSamples(pc.DecayMs, rate)
	p.AutoPassthru = c.Engine.AutoPassthru
	p.StartOffset = float32(pc.StartOffset)
	p.Speed = float32(pc.Speed)
	p.Reverse = pc.Reverse
	p.FixedSizeSamples = int(math.Round(pc.FixedSizeSeconds * float64(rate)))
	p.Volume = float32(pc.Volume)
	p.Transport = sampler.Transport{
		SampleRate:         float32(rate),
		Tempo:              float32(pc.Tempo),
		TimeSigNumerator:   num,
		TimeSigDenominator: den,
	}
	return p, nil
}

// TailFrames is the silent tail rendered after the input at rate.
func (c *Config) TailFrames(rate int) int64 {
	return int64(math.Round(c.Output.TailSeconds * float64(rate)))
}
