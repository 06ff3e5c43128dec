// SPDX-License-Identifier: EPL-2.0

package sampler

import (
	"fmt"
	"math"

	"github.com/ik5/audlooper/utils"
)

// InitParams are fixed at construction.
type InitParams struct {
	AutoPassthru bool
}

// Sampler is a set of independent channels driven by the same commands.
// It is not safe for concurrent use; the host serialises commands with
// processing.
type Sampler struct {
	channels []*Channel
}

// New returns a sampler with channelCount empty channels.
func New(channelCount int, init InitParams) (*Sampler, error) {
	if channelCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrChannelCount, channelCount)
	}
	s := &Sampler{channels: make([]*Channel, channelCount)}
	for i := range s.channels {
		s.channels[i] = NewChannel(init.AutoPassthru)
	}
	return s, nil
}

func (s *Sampler) Channels() int { return len(s.channels) }

// Channel returns channel i.
func (s *Sampler) Channel(i int) (*Channel, error) {
	if i < 0 || i >= len(s.channels) {
		return nil, fmt.Errorf("%w: %d of %d", ErrChannelIndex, i, len(s.channels))
	}
	return s.channels[i], nil
}

func (s *Sampler) StartRecording(p *Params) {
	for _, ch := range s.channels {
		ch.StartRecording(p)
	}
}

func (s *Sampler) StopRecording(p *Params) {
	for _, ch := range s.channels {
		ch.StopRecording(p)
	}
}

func (s *Sampler) StartPlaying(startFrac float32, note Note, velocity float32, p *Params) {
	for _, ch := range s.channels {
		ch.StartPlaying(startFrac, note, velocity, p)
	}
}

func (s *Sampler) StopPlaying(note Note, p *Params) {
	for _, ch := range s.channels {
		ch.StopPlaying(note, p)
	}
}

func (s *Sampler) SetNoteSpeed(note Note, mult float32) {
	for _, ch := range s.channels {
		ch.SetNoteSpeed(note, mult)
	}
}

// ProcessSample runs one tick of channel ch. It panics if ch is out of range.
func (s *Sampler) ProcessSample(ch int, in float32, p *Params) float32 {
	return s.channels[ch].ProcessSample(in, p) * p.Volume
}

// ProcessFrame runs one tick on every channel in place; frame holds one
// sample per channel.
func (s *Sampler) ProcessFrame(frame []float32, p *Params) error {
	if len(frame) != len(s.channels) {
		return fmt.Errorf("%w: frame of %d for %d channels", ErrBlockShape, len(frame), len(s.channels))
	}
	for i := range frame {
		frame[i] = s.ProcessSample(i, frame[i], p)
	}
	return nil
}

// ProcessBlock processes a block of per-channel buffers. out may alias in.
// When the transport position is valid it advances by one per frame.
func (s *Sampler) ProcessBlock(in, out [][]float32, p *Params) error {
	if len(in) != len(s.channels) || len(out) != len(s.channels) {
		return fmt.Errorf("%w: %d in, %d out, %d channels", ErrBlockShape, len(in), len(out), len(s.channels))
	}
	frames := len(in[0])
	for c := range in {
		if len(in[c]) != frames || len(out[c]) != frames {
			return fmt.Errorf("%w: channel %d has %d/%d frames, want %d",
				ErrBlockShape, c, len(in[c]), len(out[c]), frames)
		}
	}

	tick := *p
	for f := range frames {
		if p.Transport.PosValid {
			tick.Transport.PosSamples = p.Transport.PosSamples + int64(f)
		}
		for c, ch := range s.channels {
			out[c][f] = ch.ProcessSample(in[c][f], &tick) * tick.Volume
		}
	}
	return nil
}

// Reset empties every channel and restarts the clocks.
func (s *Sampler) Reset(init InitParams) {
	for _, ch := range s.channels {
		ch.Reset(init.AutoPassthru)
	}
}

// IsRecording reports whether channel 0 is recording.
func (s *Sampler) IsRecording() bool { return s.channels[0].IsRecording() }

// DataLen returns the recorded length of channel ch.
func (s *Sampler) DataLen(ch int) int { return s.channels[ch].DataLen() }

// Buffer returns a copy of the recording of channel ch.
func (s *Sampler) Buffer(ch int) []float32 { return s.channels[ch].Data() }

// FramesProcessed returns the tick counter of channel ch.
func (s *Sampler) FramesProcessed(ch int) int { return s.channels[ch].Now() }

// LastRecordedOffsets returns, per channel, the newest recorded index or -1.
func (s *Sampler) LastRecordedOffsets() []int {
	r := make([]int, len(s.channels))
	for i, ch := range s.channels {
		if off, ok := ch.LastRecordedOffset(); ok {
			r[i] = off
		} else {
			r[i] = -1
		}
	}
	return r
}

// ActiveNotes lists the unreleased notes of channel 0.
func (s *Sampler) ActiveNotes() []Note {
	return s.channels[0].ActiveNotes(nil)
}

// VoiceInfo describes the voices of channel ch.
func (s *Sampler) VoiceInfo(ch int, p *Params) []VoiceInfo {
	return s.channels[ch].VoiceInfo(nil, p)
}

// Diagnostics sums the anomaly counters of all channels.
func (s *Sampler) Diagnostics() Diagnostics {
	var d Diagnostics
	for _, ch := range s.channels {
		d = d.Add(ch.Diagnostics())
	}
	return d
}

// WaveformSummary is an RMS overview of the recorded buffer.
type WaveformSummary struct {
	Data []float32
	Min  float32
	Max  float32
}

// WaveformSummary splits channel 0 into resolution buckets and returns the
// RMS of each. Buckets that cover no samples are zero.
func (s *Sampler) WaveformSummary(resolution int) WaveformSummary {
	if resolution <= 0 {
		return WaveformSummary{}
	}
	return Summarize(s.channels[0].data, resolution)
}

// Summarize computes the RMS summary of data with resolution buckets.
func Summarize(data []float32, resolution int) WaveformSummary {
	r := WaveformSummary{Data: make([]float32, resolution)}
	step := float32(len(data)) / float32(resolution)
	for i := range resolution {
		a := utils.FloorInt(float32(i) * step)
		b := min(utils.FloorInt(float32(i+1)*step), len(data))
		var v float32
		if b > a {
			var sum float32
			for _, x := range data[a:b] {
				sum += x * x
			}
			v = float32(math.Sqrt(float64(sum / float32(b-a))))
		}
		r.Data[i] = v
		if i == 0 {
			r.Min, r.Max = v, v
		} else {
			r.Min = min(r.Min, v)
			r.Max = max(r.Max, v)
		}
	}
	return r
}
