// SPDX-License-Identifier: EPL-2.0

package sampler

import "github.com/ik5/audlooper/utils"

// RecorderState is the recording state of a channel.
type RecorderState int

const (
	RecorderIdle RecorderState = iota
	// RecorderTriggered writes sequentially from the start of the buffer.
	RecorderTriggered
	// RecorderAlwaysOn writes into a ring indexed by the transport position.
	RecorderAlwaysOn
)

func (s RecorderState) String() string {
	switch s {
	case RecorderIdle:
		return "idle"
	case RecorderTriggered:
		return "triggered"
	case RecorderAlwaysOn:
		return "always_on"
	}
	return "unknown"
}

// Recorder writes incoming samples into a channel buffer.
type Recorder struct {
	state RecorderState
	write int // next index while triggered
	ring  int // ring size while always on
	last  int // last ring index written, -1 for none
	diag  Diagnostics
}

func (r *Recorder) State() RecorderState { return r.state }

// IsRecording reports whether incoming samples are being written.
func (r *Recorder) IsRecording() bool { return r.state != RecorderIdle }

// Diagnostics returns the anomalies counted so far.
func (r *Recorder) Diagnostics() Diagnostics { return r.diag }

// LastOffset returns the index of the most recently written sample.
func (r *Recorder) LastOffset() (int, bool) {
	switch r.state {
	case RecorderTriggered:
		if r.write > 0 {
			return r.write - 1, true
		}
	case RecorderAlwaysOn:
		if r.last >= 0 {
			return r.last, true
		}
	}
	return 0, false
}

// Start begins a triggered take at the start of the buffer.
func (r *Recorder) Start(p *Params) {
	r.transition(p)
	if r.state != RecorderIdle {
		r.diag.IncorrectState++
		return
	}
	r.state = RecorderTriggered
	r.write = 0
}

// Stop ends a triggered take; the buffer is cut to what was written.
func (r *Recorder) Stop(buf *[]float32, p *Params) {
	r.transition(p)
	if r.state != RecorderTriggered {
		r.diag.IncorrectState++
		return
	}
	*buf = (*buf)[:r.write]
	r.state = RecorderIdle
}

// Reset returns to idle without touching the buffer or the counters.
func (r *Recorder) Reset() {
	r.state = RecorderIdle
	r.write = 0
	r.last = -1
}

func (r *Recorder) transition(p *Params) {
	switch p.RecordingMode {
	case AlwaysOn:
		if r.state != RecorderAlwaysOn || r.ring != p.FixedSizeSamples {
			r.state = RecorderAlwaysOn
			r.ring = p.FixedSizeSamples
			r.last = -1
		}
	case NoteTriggered:
		if r.state == RecorderAlwaysOn {
			r.state = RecorderIdle
		}
	}
}

// ProcessSample records one input sample according to the current state.
func (r *Recorder) ProcessSample(sample float32, buf *[]float32, p *Params) {
	r.transition(p)

	switch r.state {
	case RecorderTriggered:
		if r.write == len(*buf) {
			*buf = append(*buf, sample)
		} else {
			(*buf)[r.write] = sample
		}
		r.write++
	case RecorderAlwaysOn:
		if r.ring <= 0 {
			r.diag.DisabledRing++
			return
		}
		if !p.Transport.PosValid {
			return
		}
		pos := p.Transport.PosSamples
		if pos < 0 {
			r.diag.NegativeTransport++
		}
		resize(buf, r.ring)
		i := int(utils.WrapInt64(pos, int64(r.ring)))
		(*buf)[i] = sample
		if r.last >= 0 && i != r.last+1 && !(i == 0 && r.last == r.ring-1) {
			r.diag.SkippedSamples++
		}
		r.last = i
	}
}

// resize sets len(*buf) to n, zero filling any new samples.
func resize(buf *[]float32, n int) {
	b := *buf
	switch {
	case len(b) == n:
		return
	case len(b) > n:
		*buf = b[:n]
	case cap(b) >= n:
		old := len(b)
		b = b[:n]
		clear(b[old:])
		*buf = b
	default:
		*buf = append(b, make([]float32, n-len(b))...)
	}
}
