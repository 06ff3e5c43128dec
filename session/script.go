// SPDX-License-Identifier: EPL-2.0

package session

import (
	"cmp"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audlooper/sampler"
)

type Action string

const (
	ActionStartRecording Action = "start_recording"
	ActionStopRecording  Action = "stop_recording"
	ActionStartPlaying   Action = "start_playing"
	ActionStopPlaying    Action = "stop_playing"
	ActionSetNoteSpeed   Action = "set_note_speed"
	ActionSetParams      Action = "set_params"
)

func (a Action) valid() bool {
	switch a {
	case ActionStartRecording, ActionStopRecording, ActionStartPlaying,
		ActionStopPlaying, ActionSetNoteSpeed, ActionSetParams:
		return true
	}
	return false
}

// Event is one host call, fired before the frame it is scheduled on is
// processed. AtSeconds wins over At when both are set.
type Event struct {
	At        int64    `yaml:"at,omitempty"`
	AtSeconds *float64 `yaml:"at_seconds,omitempty"`
	Action    Action   `yaml:"action"`

	Key         uint8    `yaml:"key,omitempty"`
	NoteChannel uint8    `yaml:"note_channel,omitempty"`
	Position    *float32 `yaml:"position,omitempty"`
	Velocity    *float32 `yaml:"velocity,omitempty"`
	Speed       float32  `yaml:"speed,omitempty"`

	Params *ParamsPatch `yaml:"params,omitempty"`
}

// Frame resolves the event time at rate.
func (e Event) Frame(rate int) int64 {
	if e.AtSeconds != nil {
		return int64(math.Round(*e.AtSeconds * float64(rate)))
	}
	return e.At
}

func (e Event) Note() sampler.Note {
	return sampler.Note{Key: e.Key, Channel: e.NoteChannel}
}

// position is the loop start fraction; the start offset of p when unset.
func (e Event) position(p *sampler.Params) float32 {
	if e.Position == nil {
		return p.StartOffset
	}
	return *e.Position
}

func (e Event) velocity() float32 {
	if e.Velocity == nil {
		return 1
	}
	return *e.Velocity
}

// ParamsPatch overrides the fields that are set.
type ParamsPatch struct {
	AttackSamples    *int                     `yaml:"attack_samples,omitempty"`
	DecaySamples     *int                     `yaml:"decay_samples,omitempty"`
	AutoPassthru     *bool                    `yaml:"auto_passthru,omitempty"`
	LoopMode         *sampler.LoopMode        `yaml:"loop_mode,omitempty"`
	LoopLength       *sampler.LoopLength      `yaml:"loop_length,omitempty"`
	StartOffset      *float32                 `yaml:"start_offset,omitempty"`
	Speed            *float32                 `yaml:"speed,omitempty"`
	Reverse          *bool                    `yaml:"reverse,omitempty"`
	RecordingMode    *sampler.RecordingMode   `yaml:"recording_mode,omitempty"`
	FixedSizeSamples *int                     `yaml:"fixed_size_samples,omitempty"`
	NoteOffBehavior  *sampler.NoteOffBehavior `yaml:"note_off_behavior,omitempty"`
	Volume           *float32                 `yaml:"volume,omitempty"`
	Tempo            *float32                 `yaml:"tempo,omitempty"`
}

func (pp *ParamsPatch) Apply(p *sampler.Params) {
	if pp == nil {
		return
	}
	set(&p.AttackSamples, pp.AttackSamples)
	set(&p.DecaySamples, pp.DecaySamples)
	set(&p.AutoPassthru, pp.AutoPassthru)
	set(&p.LoopMode, pp.LoopMode)
	set(&p.LoopLength, pp.LoopLength)
	set(&p.StartOffset, pp.StartOffset)
	set(&p.Speed, pp.Speed)
	set(&p.Reverse, pp.Reverse)
	set(&p.RecordingMode, pp.RecordingMode)
	set(&p.FixedSizeSamples, pp.FixedSizeSamples)
	set(&p.NoteOffBehavior, pp.NoteOffBehavior)
	set(&p.Volume, pp.Volume)
	set(&p.Transport.Tempo, pp.Tempo)
}

// Validate rejects values the engine cannot run with.
func (pp *ParamsPatch) Validate() error {
	if pp == nil {
		return nil
	}
	switch {
	case negative(pp.AttackSamples):
		return fmt.Errorf("%w: attack_samples %d", ErrInvalidParams, *pp.AttackSamples)
	case negative(pp.DecaySamples):
		return fmt.Errorf("%w: decay_samples %d", ErrInvalidParams, *pp.DecaySamples)
	case negative(pp.FixedSizeSamples):
		return fmt.Errorf("%w: fixed_size_samples %d", ErrInvalidParams, *pp.FixedSizeSamples)
	case pp.Volume != nil && !(*pp.Volume >= 0 && finite(*pp.Volume)):
		return fmt.Errorf("%w: volume %v", ErrInvalidParams, *pp.Volume)
	case pp.Tempo != nil && !(*pp.Tempo > 0 && finite(*pp.Tempo)):
		return fmt.Errorf("%w: tempo %v", ErrInvalidParams, *pp.Tempo)
	case pp.Speed != nil && !finite(*pp.Speed):
		return fmt.Errorf("%w: speed %v", ErrInvalidParams, *pp.Speed)
	case pp.StartOffset != nil && !finite(*pp.StartOffset):
		return fmt.Errorf("%w: start_offset %v", ErrInvalidParams, *pp.StartOffset)
	}
	return nil
}

func negative(v *int) bool { return v != nil && *v < 0 }

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Script is a timed list of host calls.
type Script struct {
	Name   string  `yaml:"name,omitempty"`
	Events []Event `yaml:"events"`
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Script) Validate() error {
	for i, e := range s.Events {
		if !e.Action.valid() {
			return fmt.Errorf("%w: event %d: %q", ErrUnknownAction, i, e.Action)
		}
		if e.At < 0 || (e.AtSeconds != nil && *e.AtSeconds < 0) {
			return fmt.Errorf("%w: event %d", ErrNegativeTime, i)
		}
		if e.Action == ActionSetParams && e.Params == nil {
			return fmt.Errorf("%w: event %d", ErrMissingParams, i)
		}
		if err := e.Params.Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if e.Action == ActionSetNoteSpeed && !finite(e.Speed) {
			return fmt.Errorf("%w: event %d: speed %v", ErrInvalidParams, i, e.Speed)
		}
	}
	return nil
}

// schedule returns the events ordered by frame at rate. Events on the same
// frame keep their script order.
func (s *Script) schedule(rate int) []scheduled {
	out := make([]scheduled, len(s.Events))
	for i, e := range s.Events {
		out[i] = scheduled{frame: e.Frame(rate), Event: e}
	}
	slices.SortStableFunc(out, func(a, b scheduled) int {
		return cmp.Compare(a.frame, b.frame)
	})
	return out
}

type scheduled struct {
	frame int64
	Event
}

// DefaultScript records the first recordFrames of the input on note 60 and
// then loops it until the render ends.
func DefaultScript(recordFrames int64) *Script {
	return &Script{
		Name: "record-then-loop",
		Events: []Event{
			{At: 0, Action: ActionStartRecording},
			{At: recordFrames, Action: ActionStopRecording},
			{At: recordFrames, Action: ActionStartPlaying, Key: 60},
		},
	}
}
