// SPDX-License-Identifier: EPL-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/audlooper/audio"
	"github.com/ik5/audlooper/sampler"
)

// Options shape the engine a Renderer builds.
type Options struct {
	// SampleRate converts the input when set and different from it.
	SampleRate int
	// Channels remixes the input when set and different from it.
	Channels int
	// TailFrames of silence are processed after the input ends.
	TailFrames int64
	// BlockFrames is the number of frames read from the source at a time.
	BlockFrames int
	// WaveformResolution sets the buckets of Result.Waveform; 0 skips it.
	WaveformResolution int
}

// Result is everything one render produced.
type Result struct {
	Output      []float32
	SampleRate  int
	Channels    int
	Frames      int64
	Recorded    []int
	Takes       [][]float32
	Diagnostics sampler.Diagnostics
	Waveform    sampler.WaveformSummary
}

// Renderer drives a Sampler from a source and a script, the way a host
// would from its audio callback.
type Renderer struct {
	params sampler.Params
	script *Script
	opts   Options
	log    *slog.Logger
}

func New(params sampler.Params, script *Script, opts Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if script == nil {
		script = &Script{}
	}
	if opts.BlockFrames <= 0 {
		opts.BlockFrames = 1024
	}
	return &Renderer{params: params, script: script, opts: opts, log: logger}
}

// prepare converts src to the requested rate and channel count.
func (r *Renderer) prepare(src audio.Source) audio.Source {
	if r.opts.SampleRate > 0 && r.opts.SampleRate != src.SampleRate() {
		r.log.Debug("resampling input", "from", src.SampleRate(), "to", r.opts.SampleRate)
		src = audio.NewResampler(src, r.opts.SampleRate)
	}
	if r.opts.Channels > 0 && r.opts.Channels != src.Channels() {
		r.log.Debug("remixing input", "from", src.Channels(), "to", r.opts.Channels)
		src = audio.NewRemixer(src, r.opts.Channels)
	}
	return src
}

// Render processes src to its end plus the configured tail. The source is
// not closed.
func (r *Renderer) Render(ctx context.Context, src audio.Source) (*Result, error) {
	if err := r.script.Validate(); err != nil {
		return nil, err
	}
	src = r.prepare(src)
	rate, channels := src.SampleRate(), src.Channels()
	if channels < 1 {
		return nil, ErrNoChannels
	}

	params := r.params
	params.Transport.SampleRate = float32(rate)
	params.Transport.PosValid = true

	s, err := sampler.New(channels, sampler.InitParams{AutoPassthru: params.AutoPassthru})
	if err != nil {
		return nil, fmt.Errorf("creating sampler: %w", err)
	}

	events := r.script.schedule(rate)
	res := &Result{SampleRate: rate, Channels: channels}
	if frames := audio.FramesOf(src); frames > 0 {
		res.Output = make([]float32, 0, (int64(frames)+r.opts.TailFrames)*int64(channels))
	}

	r.log.Info("render started", "script", r.script.Name, "events", len(events),
		"rate", rate, "channels", channels)

	buf := make([]float32, r.opts.BlockFrames*channels)
	var frame, tailLeft int64
	eof := false
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var n int
		if !eof {
			n, err = src.ReadSamples(buf)
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("reading input at frame %d: %w", frame, err)
			}
			if errors.Is(err, io.EOF) || (n == 0 && err == nil) {
				eof = true
				tailLeft = r.opts.TailFrames
			}
			n -= n % channels
		}
		if n == 0 {
			if !eof {
				continue
			}
			if tailLeft == 0 {
				break
			}
			n = int(min(tailLeft, int64(r.opts.BlockFrames))) * channels
			clear(buf[:n])
			tailLeft -= int64(n / channels)
		}

		for i := 0; i < n; i += channels {
			for len(events) > 0 && events[0].frame <= frame {
				r.apply(s, &params, events[0])
				events = events[1:]
			}
			params.Transport.PosSamples = frame
			if err := s.ProcessFrame(buf[i:i+channels], &params); err != nil {
				return nil, err
			}
			frame++
		}
		res.Output = append(res.Output, buf[:n]...)
	}

	if len(events) > 0 {
		r.log.Warn("script events past the end of the render", "dropped", len(events),
			"first_frame", events[0].frame)
	}

	res.Frames = frame
	res.Diagnostics = s.Diagnostics()
	for c := range channels {
		res.Recorded = append(res.Recorded, s.DataLen(c))
		res.Takes = append(res.Takes, s.Buffer(c))
	}
	if r.opts.WaveformResolution > 0 {
		res.Waveform = s.WaveformSummary(r.opts.WaveformResolution)
	}

	r.log.Info("render finished", "frames", res.Frames, "recorded", res.Recorded,
		"diagnostics", res.Diagnostics.String())
	return res, nil
}

// Take interleaves the recorded buffers. Channels with shorter recordings
// are padded with silence.
func (res *Result) Take() []float32 {
	frames := 0
	for _, t := range res.Takes {
		frames = max(frames, len(t))
	}
	out := make([]float32, frames*len(res.Takes))
	for c, t := range res.Takes {
		for f, x := range t {
			out[f*len(res.Takes)+c] = x
		}
	}
	return out
}

func (r *Renderer) apply(s *sampler.Sampler, p *sampler.Params, e scheduled) {
	r.log.Debug("event", "frame", e.frame, "action", e.Action, "note", e.Note())

	switch e.Action {
	case ActionStartRecording:
		s.StartRecording(p)
	case ActionStopRecording:
		s.StopRecording(p)
	case ActionStartPlaying:
		s.StartPlaying(e.position(p), e.Note(), e.velocity(), p)
	case ActionStopPlaying:
		s.StopPlaying(e.Note(), p)
	case ActionSetNoteSpeed:
		s.SetNoteSpeed(e.Note(), e.Speed)
	case ActionSetParams:
		e.Params.Apply(p)
	}
}
