// SPDX-License-Identifier: EPL-2.0

package sampler

import (
	"fmt"
	"strings"
)

// LoopMode selects how a voice walks its loop window.
type LoopMode int

const (
	PlayOnce LoopMode = iota
	Loop
	PingPong
)

var loopModeNames = map[string]LoopMode{
	"play_once": PlayOnce,
	"playonce":  PlayOnce,
	"once":      PlayOnce,
	"loop":      Loop,
	"ping_pong": PingPong,
	"pingpong":  PingPong,
}

func (m LoopMode) String() string {
	switch m {
	case PlayOnce:
		return "play_once"
	case Loop:
		return "loop"
	case PingPong:
		return "ping_pong"
	default:
		return fmt.Sprintf("LoopMode(%d)", int(m))
	}
}

// ParseLoopMode accepts the names printed by String plus a few aliases.
func ParseLoopMode(s string) (LoopMode, error) {
	m, ok := loopModeNames[normalizeName(s)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLoopMode, s)
	}
	return m, nil
}

func (m LoopMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *LoopMode) UnmarshalText(b []byte) error {
	v, err := ParseLoopMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// RecordingMode selects between host-triggered takes and continuous ring
// recording that follows the transport.
type RecordingMode int

const (
	NoteTriggered RecordingMode = iota
	AlwaysOn
)

func (m RecordingMode) String() string {
	switch m {
	case NoteTriggered:
		return "note_triggered"
	case AlwaysOn:
		return "always_on"
	default:
		return fmt.Sprintf("RecordingMode(%d)", int(m))
	}
}

func ParseRecordingMode(s string) (RecordingMode, error) {
	switch normalizeName(s) {
	case "note_triggered", "notetriggered", "triggered":
		return NoteTriggered, nil
	case "always_on", "alwayson", "ring":
		return AlwaysOn, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRecMode, s)
}

func (m RecordingMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *RecordingMode) UnmarshalText(b []byte) error {
	v, err := ParseRecordingMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// NoteOffBehavior decides when a released voice may be dropped.
type NoteOffBehavior int

const (
	// Decay drops the voice once its volume ramp has reached silence.
	Decay NoteOffBehavior = iota
	// ZeroCrossing drops the voice at the first zero crossing after the
	// decay window has elapsed.
	ZeroCrossing
	// DecayAndZeroCrossing drops the voice on whichever comes first.
	DecayAndZeroCrossing
)

func (b NoteOffBehavior) String() string {
	switch b {
	case Decay:
		return "decay"
	case ZeroCrossing:
		return "zero_crossing"
	case DecayAndZeroCrossing:
		return "decay_and_zero_crossing"
	default:
		return fmt.Sprintf("NoteOffBehavior(%d)", int(b))
	}
}

func ParseNoteOffBehavior(s string) (NoteOffBehavior, error) {
	switch normalizeName(s) {
	case "decay":
		return Decay, nil
	case "zero_crossing", "zerocrossing":
		return ZeroCrossing, nil
	case "decay_and_zero_crossing", "decayandzerocrossing", "both":
		return DecayAndZeroCrossing, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNoteOff, s)
}

func (b NoteOffBehavior) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *NoteOffBehavior) UnmarshalText(t []byte) error {
	v, err := ParseNoteOffBehavior(string(t))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(strings.ReplaceAll(s, "-", "_"), " ", "_")
}

// Transport is the host's musical clock.
type Transport struct {
	SampleRate         float32
	Tempo              float32 // quarter notes per minute
	TimeSigNumerator   int
	TimeSigDenominator int
	// PosSamples is the playhead in samples; only meaningful when PosValid.
	PosSamples int64
	PosValid   bool
}

func DefaultTransport() Transport {
	return Transport{
		SampleRate:         44100,
		Tempo:              120,
		TimeSigNumerator:   4,
		TimeSigDenominator: 4,
	}
}

func (t Transport) SamplesPerQuarterNote() float32 {
	return t.SampleRate * 60 / t.Tempo
}

func (t Transport) SamplesPerBar() float32 {
	qn := float32(t.TimeSigNumerator) / float32(t.TimeSigDenominator) * 4
	return t.SamplesPerQuarterNote() * qn
}

// Note identifies the host note that owns a voice.
type Note struct {
	Key     uint8
	Channel uint8
}

func (n Note) String() string {
	return fmt.Sprintf("%d/%d", n.Key, n.Channel)
}

// Params is the full parameter set read on every tick.
type Params struct {
	AttackSamples    int
	DecaySamples     int
	AutoPassthru     bool
	LoopMode         LoopMode
	LoopLength       LoopLength
	StartOffset      float32
	Speed            float32
	Reverse          bool
	RecordingMode    RecordingMode
	FixedSizeSamples int
	Transport        Transport
	NoteOffBehavior  NoteOffBehavior
	// Volume scales the mixed output of every channel. Zero mutes.
	Volume float32
}

func DefaultParams() Params {
	return Params{
		AttackSamples:    100,
		DecaySamples:     100,
		AutoPassthru:     true,
		LoopMode:         Loop,
		LoopLength:       Ratio(1),
		Speed:            1,
		RecordingMode:    NoteTriggered,
		FixedSizeSamples: 44100 * 4,
		Transport:        DefaultTransport(),
		NoteOffBehavior:  DecayAndZeroCrossing,
		Volume:           1,
	}
}

// EffectiveSpeed is the global playback speed with Reverse applied.
func (p *Params) EffectiveSpeed() float32 {
	if p.Reverse {
		return -p.Speed
	}
	return p.Speed
}

// LoopLengthSamples resolves the loop length against a buffer of dataLen samples.
func (p *Params) LoopLengthSamples(dataLen int) float32 {
	return p.LoopLength.Samples(dataLen, p.Transport)
}
