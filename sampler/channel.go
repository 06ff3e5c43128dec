// SPDX-License-Identifier: EPL-2.0

package sampler

import (
	"github.com/ik5/audlooper/utils"
)

// Channel owns one recorded buffer, its voices and its passthrough gain.
// A Channel is not safe for concurrent use.
type Channel struct {
	data       []float32
	voices     []voice
	now        int
	recorder   Recorder
	passthru   Envelope
	passthruOn bool
	diag       Diagnostics
}

// NewChannel returns an empty channel. With autoPassthru the input is audible
// from the first tick.
func NewChannel(autoPassthru bool) *Channel {
	c := &Channel{voices: make([]voice, 0, 8)}
	c.Reset(autoPassthru)
	return c
}

// Reset clears the buffer, voices, counters and clock.
func (c *Channel) Reset(autoPassthru bool) {
	var v float32
	if autoPassthru {
		v = 1
	}
	c.data = c.data[:0]
	c.voices = c.voices[:0]
	c.now = 0
	c.recorder = Recorder{last: -1}
	c.passthru = NewEnvelope(v)
	c.passthruOn = false
	c.diag = Diagnostics{}
}

func (c *Channel) Now() int     { return c.now }
func (c *Channel) DataLen() int { return len(c.data) }

// Data returns a copy of the recorded buffer.
func (c *Channel) Data() []float32 {
	return append([]float32(nil), c.data...)
}

// SetData replaces the recorded buffer, as if it had just been recorded.
func (c *Channel) SetData(data []float32) {
	c.data = append(c.data[:0], data...)
}

func (c *Channel) IsRecording() bool { return c.recorder.IsRecording() }

func (c *Channel) Diagnostics() Diagnostics {
	return c.diag.Add(c.recorder.Diagnostics())
}

// LastRecordedOffset returns the buffer index of the newest recorded sample.
func (c *Channel) LastRecordedOffset() (int, bool) {
	return c.recorder.LastOffset()
}

func (c *Channel) StartRecording(p *Params) {
	c.recorder.Start(p)
}

func (c *Channel) StopRecording(p *Params) {
	c.recorder.Stop(&c.data, p)
}

// StartPlaying adds a voice reading from startFrac of the buffer. It is
// ignored while the buffer is empty.
func (c *Channel) StartPlaying(startFrac float32, note Note, velocity float32, p *Params) {
	if len(c.data) == 0 {
		return
	}
	if !(startFrac >= 0 && startFrac <= 1) {
		c.diag.InvalidArgument++
		if startFrac > 1 {
			startFrac = 1
		} else {
			startFrac = 0
		}
	}
	if !(velocity >= 0 && velocity <= 1) {
		c.diag.InvalidArgument++
		if velocity > 1 {
			velocity = 1
		} else {
			velocity = 0
		}
	}

	dataLen := float32(len(c.data))
	v := voice{
		note:      note,
		startFrac: startFrac,
		mult:      1,
		cursor: NewCursor(c.now, startFrac*dataLen, p.EffectiveSpeed(),
			p.LoopLengthSamples(len(c.data)), dataLen, p.LoopMode),
		env:       NewEnvelope(0),
		lastIndex: -1,
	}
	v.env.To(c.now, p.AttackSamples, velocity)
	c.voices = append(c.voices, v)
	c.handlePassthru(p)
}

// StopPlaying releases the oldest active voice of note. Hosts may send
// note-offs for notes that never played; those are only counted.
func (c *Channel) StopPlaying(note Note, p *Params) {
	for i := range c.voices {
		v := &c.voices[i]
		if v.note == note && v.state == VoiceActive {
			v.release(c.now, p)
			c.handlePassthru(p)
			return
		}
	}
	c.diag.UnknownNote++
}

// SetNoteSpeed sets the speed multiplier of the oldest voice playing note.
func (c *Channel) SetNoteSpeed(note Note, mult float32) {
	for i := range c.voices {
		if c.voices[i].note == note {
			c.voices[i].mult = mult
			return
		}
	}
	c.diag.UnknownNote++
}

// ActiveNotes appends the notes of voices that have not been released.
func (c *Channel) ActiveNotes(dst []Note) []Note {
	for i := range c.voices {
		if c.voices[i].state == VoiceActive {
			dst = append(dst, c.voices[i].note)
		}
	}
	return dst
}

func (c *Channel) hasActiveVoices() bool {
	for i := range c.voices {
		if c.voices[i].state == VoiceActive {
			return true
		}
	}
	return false
}

// handlePassthru fades the input in while nothing plays and out otherwise.
func (c *Channel) handlePassthru(p *Params) {
	on := p.AutoPassthru && !c.hasActiveVoices()
	if on == c.passthruOn {
		return
	}
	c.passthruOn = on
	if on {
		c.passthru.To(c.now, p.AttackSamples, 1)
	} else {
		c.passthru.To(c.now, p.DecaySamples, 0)
	}
}

// ProcessSample records in, mixes the voices and the passthrough, and
// advances the clock by one tick.
func (c *Channel) ProcessSample(in float32, p *Params) float32 {
	c.recorder.ProcessSample(in, &c.data, p)

	var out float32
	if len(c.data) > 0 {
		out = c.playVoices(p)
	}

	out += float32(in * c.passthru.Value(c.now))
	c.passthru.Step(c.now)
	c.handlePassthru(p)

	c.now++
	return out
}

func (c *Channel) playVoices(p *Params) float32 {
	now := c.now
	dataLen := float32(len(c.data))
	loopLen := p.LoopLengthSamples(len(c.data))
	speed := p.EffectiveSpeed()

	var out float32
	for i := range c.voices {
		v := &c.voices[i]
		if v.removable(now, p) {
			continue
		}

		vs := v.mult * speed
		v.cursor.UpdateLength(now, loopLen)
		v.cursor.UpdateSpeed(now, vs)
		v.cursor.UpdateDataLength(now, dataLen)
		v.cursor.UpdateMode(now, p.LoopMode)

		idx := utils.FloorInt(v.cursor.Offset(now))
		value := c.data[idx] * v.env.Value(now)
		out += value
		v.observe(idx, value)

		v.played += vs
		if v.state == VoiceActive && p.LoopMode == PlayOnce &&
			abs32(v.played) >= float32(utils.FloorInt(loopLen)) {
			v.release(now, p)
		}
	}

	kept := c.voices[:0]
	for i := range c.voices {
		v := &c.voices[i]
		v.env.Step(now)
		if v.removable(now, p) {
			continue
		}
		kept = append(kept, *v)
	}
	c.voices = kept

	return out
}

// VoiceInfo describes where each voice sits in the buffer, as fractions of
// the buffer length.
type VoiceInfo struct {
	Note  Note
	Start float32
	End   float32
	Pos   float32
	State VoiceState
}

// VoiceInfo appends one entry per voice to dst.
func (c *Channel) VoiceInfo(dst []VoiceInfo, p *Params) []VoiceInfo {
	if len(c.data) == 0 {
		return dst
	}
	dataLen := float32(len(c.data))
	loopFrac := p.LoopLengthSamples(len(c.data)) / dataLen
	for i := range c.voices {
		v := &c.voices[i]
		var pos float32
		if v.lastIndex >= 0 {
			pos = float32(v.lastIndex) / dataLen
		} else {
			pos = v.startFrac
		}
		dst = append(dst, VoiceInfo{
			Note:  v.note,
			Start: v.startFrac,
			End:   utils.WrapFloat32(v.startFrac+loopFrac, 1),
			Pos:   pos,
			State: v.state,
		})
	}
	return dst
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
