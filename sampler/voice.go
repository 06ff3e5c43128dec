// SPDX-License-Identifier: EPL-2.0

package sampler

import "math"

// VoiceState is the lifecycle stage of a voice.
type VoiceState int

const (
	VoiceActive VoiceState = iota
	// VoiceReleasing voices are fading out and will be dropped once the
	// note-off policy allows it.
	VoiceReleasing
)

func (s VoiceState) String() string {
	if s == VoiceReleasing {
		return "releasing"
	}
	return "active"
}

type voice struct {
	note      Note
	startFrac float32
	mult      float32 // per-note speed multiplier
	cursor    Cursor
	env       Envelope
	state     VoiceState
	// releasedAt is the tick the note-off arrived.
	releasedAt int
	// played is the signed distance covered, used to end PlayOnce voices.
	played         float32
	atZeroCrossing bool
	lastIndex      int
	lastValue      float32
}

func (v *voice) release(now int, p *Params) {
	if v.state != VoiceActive {
		invariant("voice release", "voice %s released twice", v.note)
	}
	v.env.To(now, p.DecaySamples, 0)
	v.releasedAt = now
	v.state = VoiceReleasing
}

// removable reports whether the note-off policy lets the voice go.
func (v *voice) removable(now int, p *Params) bool {
	if v.state != VoiceReleasing {
		return false
	}
	faded := v.env.IsStaticAndMute()
	crossed := now-v.releasedAt >= p.DecaySamples && v.atZeroCrossing
	switch p.NoteOffBehavior {
	case Decay:
		return faded
	case ZeroCrossing:
		return crossed
	default:
		return faded || crossed
	}
}

// observe records the sample just produced.
func (v *voice) observe(index int, value float32) {
	v.atZeroCrossing = value == 0 ||
		math.Signbit(float64(value)) != math.Signbit(float64(v.lastValue))
	v.lastIndex = index
	v.lastValue = value
}
