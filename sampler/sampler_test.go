// SPDX-License-Identifier: EPL-2.0

package sampler

import (
	"errors"
	"math"
	"testing"
)

func TestSampler_Playback(t *testing.T) {
	t.Parallel()

	tens := func(n int) []float32 { return repeat(100, n) }

	tests := []struct {
		name    string
		mode    LoopMode
		ratio   float32
		speed   float32
		reverse bool
		playAt  int
		start   float32
		stopAt  int // 0 means never
		after   int
		want    []float32
	}{
		{
			name: "loop whole buffer", mode: Loop, ratio: 1, speed: 1,
			playAt: 10, after: 10,
			want: oneToTen(),
		},
		{
			name: "play once half", mode: PlayOnce, ratio: 0.5, speed: 1,
			playAt: 10, after: 10,
			want: concat([]float32{1, 2, 3, 4, 5}, tens(5)),
		},
		{
			name: "play once half started late", mode: PlayOnce, ratio: 0.5, speed: 1,
			playAt: 12, after: 10,
			want: []float32{100, 100, 1, 2, 3, 4, 5, 100, 100, 100},
		},
		{
			name: "play once whole buffer started late", mode: PlayOnce, ratio: 1, speed: 1,
			playAt: 12, after: 20,
			want: concat(tens(2), oneToTen(), tens(8)),
		},
		{
			name: "play once backwards", mode: PlayOnce, ratio: 1, speed: -1,
			playAt: 12, after: 20,
			want: concat(tens(2), []float32{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, tens(8)),
		},
		{
			name: "play once reversed from the middle", mode: PlayOnce, ratio: 1, speed: 1, reverse: true,
			playAt: 10, start: 0.5, after: 20,
			want: concat([]float32{5, 4, 3, 2, 1, 10, 9, 8, 7, 6}, tens(10)),
		},
		{
			name: "loop half", mode: Loop, ratio: 0.5, speed: 1,
			playAt: 10, after: 10,
			want: []float32{1, 2, 3, 4, 5, 1, 2, 3, 4, 5},
		},
		{
			name: "loop half from 20%", mode: Loop, ratio: 0.5, speed: 1,
			playAt: 12, start: 0.2, after: 10,
			want: []float32{100, 100, 3, 4, 5, 6, 7, 3, 4, 5},
		},
		{
			name: "loop wraps around buffer end", mode: Loop, ratio: 0.5, speed: 1,
			playAt: 10, start: 0.8, after: 10,
			want: []float32{9, 10, 1, 2, 3, 9, 10, 1, 2, 3},
		},
		{
			name: "loop backwards from the middle", mode: Loop, ratio: 0.6, speed: -1,
			playAt: 10, start: 0.5, after: 10,
			want: []float32{1, 10, 9, 8, 7, 6, 1, 10, 9, 8},
		},
		{
			name: "loop backwards", mode: Loop, ratio: 1, speed: -1,
			playAt: 10, after: 20,
			want: []float32{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
		},
		{
			name: "loop backwards then note off", mode: Loop, ratio: 0.5, speed: -1,
			playAt: 10, stopAt: 20, after: 20,
			want: concat([]float32{5, 4, 3, 2, 1, 5, 4, 3, 2, 1}, tens(10)),
		},
		{
			name: "ping pong", mode: PingPong, ratio: 1, speed: 1,
			playAt: 10, after: 30,
			want: concat(oneToTen(), []float32{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, oneToTen()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := testParams()
			p.LoopMode = tt.mode
			p.LoopLength = Ratio(tt.ratio)
			p.Speed = tt.speed
			p.Reverse = tt.reverse

			h := newTestHost(t, p)
			h.schedule(0, cmdStartRecording, 0)
			h.schedule(10, cmdStopRecording, 0)
			h.schedule(tt.playAt, cmdStartPlaying, tt.start)
			if tt.stopAt > 0 {
				h.schedule(tt.stopAt, cmdStopPlaying, 0)
			}

			out := h.runInput(concat(oneToTen(), tens(tt.after)))
			assertSamples(t, "passthrough while recording", out[:10], oneToTen())
			assertSamples(t, "playback", out[10:], tt.want)
		})
	}
}

func TestSampler_EmptyBufferPassesInputThrough(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.LoopMode = PingPong

	h := newTestHost(t, p)
	h.schedule(10, cmdStartPlaying, 0)

	input := concat(oneToTen(), repeat(0, 10), repeat(0, 10))
	assertSamples(t, "output", h.runInput(input), input)
	if n := h.sampler.DataLen(0); n != 0 {
		t.Errorf("DataLen(0) = %d, want 0", n)
	}
}

func TestSampler_ParameterChangesKeepPosition(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.AutoPassthru = false
	h := newTestHost(t, p)
	h.record(oneToTen())
	h.startPlaying(0)

	assertSamples(t, "first pass", h.run(3), []float32{1, 2, 3})
	assertSamples(t, "rest of first pass", h.run(7), []float32{4, 5, 6, 7, 8, 9, 10})
	assertSamples(t, "second pass", h.run(3), []float32{1, 2, 3})

	h.params.LoopLength = Ratio(0.5)
	assertSamples(t, "shortened to half", h.run(7), []float32{4, 5, 1, 2, 3, 4, 5})
	assertSamples(t, "half loop", h.run(3), []float32{1, 2, 3})

	h.params.LoopLength = Ratio(0.3)
	assertSamples(t, "shortened past position", h.run(7), []float32{1, 2, 3, 1, 2, 3, 1})
	assertSamples(t, "short loop", h.run(3), []float32{2, 3, 1})

	// Reversing keeps the read position rather than restarting the window:
	// playback turns around at 2, the sample after the last one played, and
	// runs backwards from there.
	h.params.Reverse = true
	assertSamples(t, "reversed", h.run(7), []float32{2, 1, 3, 2, 1, 3, 2})

	h.params.LoopLength = Ratio(1)
	assertSamples(t, "reversed whole buffer", h.run(7), []float32{1, 10, 9, 8, 7, 6, 5})

	h.params.LoopMode = PingPong
	assertSamples(t, "ping pong", h.run(10), []float32{4, 3, 2, 1, 2, 3, 4, 5, 6, 7})
}

func TestSampler_RecordingWhilePlaying(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.AutoPassthru = false
	h := newTestHost(t, p)
	h.record(oneToTen())
	h.startPlaying(0)

	assertSamples(t, "before overdub", h.run(3), []float32{1, 2, 3})

	h.sampler.StartRecording(&h.params)
	assertSamples(t, "during take", h.runInput([]float32{11, 22, 33}), []float32{4, 5, 6})
	h.sampler.StopRecording(&h.params)
	assertSamples(t, "after shrink", h.run(3), []float32{11, 22, 33})
	assertSamples(t, "looping new take", h.run(2), []float32{11, 22})

	h.sampler.StartRecording(&h.params)
	assertSamples(t, "second take", h.runInput([]float32{111, 222, 333}), []float32{33, 111, 222})
	h.sampler.StopRecording(&h.params)
	assertSamples(t, "after second take", h.run(3), []float32{333, 111, 222})
}

func TestSampler_PassthroughRamps(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.AttackSamples = 4
	p.DecaySamples = 4
	h := newTestHost(t, p)

	h.record(repeat(0, 8))
	h.startPlaying(0)
	out := h.runInput(repeat(1, 5))
	assertSamples(t, "fade out", out, []float32{1, 0.75, 0.5, 0.25, 0})

	h.sampler.StopPlaying(Note{}, &h.params)
	out = h.runInput(repeat(1, 5))
	assertSamples(t, "fade in", out, []float32{0, 0.25, 0.5, 0.75, 1})
}

func TestSampler_AttackRamp(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.AttackSamples = 4
	p.AutoPassthru = false
	h := newTestHost(t, p)
	h.record(repeat(1, 8))
	h.startPlaying(0)

	assertSamples(t, "attack", h.run(6), []float32{0, 0.25, 0.5, 0.75, 1, 1})
}

func TestSampler_NoteOffBehavior(t *testing.T) {
	t.Parallel()

	// Alternating buffer so every other sample is a sign change.
	data := []float32{1, -1, 1, -1, 1, -1, 1, -1}

	tests := []struct {
		name     string
		behavior NoteOffBehavior
		decay    int
		// removedAfter is the number of ticks after the note-off until the
		// voice is gone.
		removedAfter int
	}{
		{name: "decay waits for silence", behavior: Decay, decay: 4, removedAfter: 5},
		{name: "zero crossing waits for window", behavior: ZeroCrossing, decay: 2, removedAfter: 3},
		{name: "either ends on crossing", behavior: DecayAndZeroCrossing, decay: 2, removedAfter: 3},
		{name: "either ends on silence", behavior: DecayAndZeroCrossing, decay: 0, removedAfter: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := testParams()
			p.AutoPassthru = false
			p.NoteOffBehavior = tt.behavior
			p.DecaySamples = tt.decay

			s, err := New(1, InitParams{})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			ch, _ := s.Channel(0)
			ch.SetData(data)
			s.StartPlaying(0, Note{Key: 60}, 1, &p)
			for range 3 {
				s.ProcessSample(0, 0, &p)
			}

			s.StopPlaying(Note{Key: 60}, &p)
			if got := s.ActiveNotes(); len(got) != 0 {
				t.Fatalf("ActiveNotes() after note-off = %v, want none", got)
			}

			ticks := 0
			for len(s.VoiceInfo(0, &p)) > 0 {
				s.ProcessSample(0, 0, &p)
				ticks++
				if ticks > 100 {
					t.Fatal("voice never removed")
				}
			}
			if ticks != tt.removedAfter {
				t.Errorf("voice removed after %d ticks, want %d", ticks, tt.removedAfter)
			}
		})
	}
}

func TestSampler_SetNoteSpeed(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.AutoPassthru = false
	h := newTestHost(t, p)
	h.record(oneToTen())
	h.sampler.StartPlaying(0, Note{Key: 1}, 1, &h.params)

	assertSamples(t, "normal speed", h.run(2), []float32{1, 2})
	h.sampler.SetNoteSpeed(Note{Key: 1}, 2)
	assertSamples(t, "double speed", h.run(4), []float32{3, 5, 7, 9})

	h.sampler.SetNoteSpeed(Note{Key: 9}, 2)
	if d := h.sampler.Diagnostics(); d.UnknownNote != 1 {
		t.Errorf("UnknownNote = %d, want 1", d.UnknownNote)
	}
}

func TestSampler_UnmatchedNoteOffIsCounted(t *testing.T) {
	t.Parallel()

	p := testParams()
	s, err := New(2, InitParams{AutoPassthru: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.StopPlaying(Note{Key: 3}, &p)

	if d := s.Diagnostics(); d.UnknownNote != 2 {
		t.Errorf("UnknownNote = %d, want one per channel", d.UnknownNote)
	}
}

func TestSampler_RecordingStateErrors(t *testing.T) {
	t.Parallel()

	p := testParams()
	s, _ := New(1, InitParams{})

	s.StopRecording(&p)
	s.StartRecording(&p)
	s.StartRecording(&p)
	if !s.IsRecording() {
		t.Error("IsRecording() = false after StartRecording")
	}

	if d := s.Diagnostics(); d.IncorrectState != 2 {
		t.Errorf("IncorrectState = %d, want 2", d.IncorrectState)
	}
}

func TestSampler_StartPlayingClampsFraction(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.AutoPassthru = false
	h := newTestHost(t, p)
	h.record(oneToTen())

	h.startPlaying(1.5)
	assertSamples(t, "clamped to buffer start", h.run(2), []float32{1, 2})
	if d := h.sampler.Diagnostics(); d.InvalidArgument != 1 {
		t.Errorf("InvalidArgument = %d, want 1", d.InvalidArgument)
	}
}

func TestSampler_StartPlayingClampsVelocity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		velocity float32
		want     []float32
	}{
		{name: "above one", velocity: 3, want: []float32{1, 2, 3}},
		{name: "negative", velocity: -0.5, want: []float32{0, 0, 0}},
		{name: "nan", velocity: float32(math.NaN()), want: []float32{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := testParams()
			p.AutoPassthru = false
			h := newTestHost(t, p)
			h.record(oneToTen())

			h.sampler.StartPlaying(0, Note{}, tt.velocity, &h.params)
			assertSamples(t, "clamped velocity", h.run(3), tt.want)
			if d := h.sampler.Diagnostics(); d.InvalidArgument != 1 {
				t.Errorf("InvalidArgument = %d, want 1", d.InvalidArgument)
			}
		})
	}
}

func TestSampler_Volume(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.Volume = 0.5
	s, _ := New(1, InitParams{AutoPassthru: true})

	if got := s.ProcessSample(0, 0.8, &p); got != 0.4 {
		t.Errorf("ProcessSample() = %v, want 0.4", got)
	}
}

func TestNew_InvalidChannelCount(t *testing.T) {
	t.Parallel()

	_, err := New(0, InitParams{})
	if !errors.Is(err, ErrChannelCount) {
		t.Errorf("New(0) error = %v, want ErrChannelCount", err)
	}
}

func TestSampler_Channel(t *testing.T) {
	t.Parallel()

	s, _ := New(2, InitParams{})
	if _, err := s.Channel(1); err != nil {
		t.Errorf("Channel(1) error = %v", err)
	}
	if _, err := s.Channel(2); !errors.Is(err, ErrChannelIndex) {
		t.Errorf("Channel(2) error = %v, want ErrChannelIndex", err)
	}
}

func TestSampler_ProcessBlock(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.AutoPassthru = false
	s, _ := New(2, InitParams{})

	s.StartRecording(&p)
	in := [][]float32{{1, 2, 3, 4}, {-1, -2, -3, -4}}
	out := [][]float32{make([]float32, 4), make([]float32, 4)}
	if err := s.ProcessBlock(in, out, &p); err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}
	s.StopRecording(&p)
	s.StartPlaying(0, Note{}, 1, &p)

	// In-place processing.
	block := [][]float32{make([]float32, 4), make([]float32, 4)}
	if err := s.ProcessBlock(block, block, &p); err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}
	assertSamples(t, "left", block[0], []float32{1, 2, 3, 4})
	assertSamples(t, "right", block[1], []float32{-1, -2, -3, -4})

	if got := s.FramesProcessed(1); got != 8 {
		t.Errorf("FramesProcessed(1) = %d, want 8", got)
	}
}

func TestSampler_ProcessBlockShape(t *testing.T) {
	t.Parallel()

	p := testParams()
	s, _ := New(2, InitParams{})

	tests := []struct {
		name    string
		in, out [][]float32
	}{
		{name: "too few channels", in: [][]float32{{0}}, out: [][]float32{{0}}},
		{name: "ragged input", in: [][]float32{{0, 0}, {0}}, out: [][]float32{{0, 0}, {0, 0}}},
		{name: "short output", in: [][]float32{{0}, {0}}, out: [][]float32{{0}, {}}},
	}
	for _, tt := range tests {
		if err := s.ProcessBlock(tt.in, tt.out, &p); !errors.Is(err, ErrBlockShape) {
			t.Errorf("%s: ProcessBlock() error = %v, want ErrBlockShape", tt.name, err)
		}
	}
	if err := s.ProcessFrame([]float32{0}, &p); !errors.Is(err, ErrBlockShape) {
		t.Errorf("ProcessFrame() error = %v, want ErrBlockShape", err)
	}
}

func TestSampler_AlwaysOnFollowsTransport(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.RecordingMode = AlwaysOn
	p.FixedSizeSamples = 8
	p.Transport.PosValid = true
	p.Transport.PosSamples = 6

	s, _ := New(1, InitParams{})
	in := [][]float32{{1, 2, 3, 4}}
	if err := s.ProcessBlock(in, [][]float32{make([]float32, 4)}, &p); err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	ch, _ := s.Channel(0)
	assertSamples(t, "ring", ch.Data(), []float32{3, 4, 0, 0, 0, 0, 1, 2})
	if got := s.LastRecordedOffsets(); got[0] != 1 {
		t.Errorf("LastRecordedOffsets() = %v, want [1]", got)
	}
	if d := s.Diagnostics(); d.SkippedSamples != 0 {
		t.Errorf("SkippedSamples = %d, want 0", d.SkippedSamples)
	}
}

func TestSampler_Buffer(t *testing.T) {
	t.Parallel()

	h := newTestHost(t, testParams())
	h.record(oneToTen())

	buf := h.sampler.Buffer(0)
	assertSamples(t, "buffer", buf, oneToTen())

	buf[0] = -1
	assertSamples(t, "after mutation", h.sampler.Buffer(0), oneToTen())
}

func TestSampler_Reset(t *testing.T) {
	t.Parallel()

	p := testParams()
	h := newTestHost(t, p)
	h.record(oneToTen())
	h.startPlaying(0)
	h.run(3)

	h.sampler.Reset(InitParams{AutoPassthru: true})
	if h.sampler.DataLen(0) != 0 || h.sampler.FramesProcessed(0) != 0 {
		t.Errorf("after Reset: DataLen = %d, FramesProcessed = %d, want 0, 0",
			h.sampler.DataLen(0), h.sampler.FramesProcessed(0))
	}
	if got := h.sampler.ProcessSample(0, 0.5, &p); got != 0.5 {
		t.Errorf("ProcessSample() after Reset = %v, want passthrough 0.5", got)
	}
}

func TestSampler_WaveformSummary(t *testing.T) {
	t.Parallel()

	const n = 44100
	p := testParams()
	h := newTestHost(t, p)
	input := make([]float32, n)
	for i := range input {
		input[i] = float32(math.Cos(2 * math.Pi * 441 * float64(i) / n))
	}
	h.record(input)

	w := h.sampler.WaveformSummary(20)
	if len(w.Data) != 20 {
		t.Fatalf("len(Data) = %d, want 20", len(w.Data))
	}
	for i, v := range w.Data {
		if v < w.Min || v > w.Max {
			t.Errorf("Data[%d] = %v outside [%v, %v]", i, v, w.Min, w.Max)
		}
		// Each bucket holds whole periods of a full-scale cosine.
		if math.Abs(float64(v)-math.Sqrt2/2) > 0.05 {
			t.Errorf("Data[%d] = %v, want about %v", i, v, math.Sqrt2/2)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       []float32
		resolution int
		want       []float32
		min, max   float32
	}{
		{
			name: "exact buckets", data: []float32{3, -3, 1, 1}, resolution: 2,
			want: []float32{3, 1}, min: 1, max: 3,
		},
		{
			name: "more buckets than samples", data: []float32{2, 2}, resolution: 4,
			want: []float32{0, 2, 0, 2}, min: 0, max: 2,
		},
		{
			name: "empty data", data: nil, resolution: 3,
			want: []float32{0, 0, 0}, min: 0, max: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Summarize(tt.data, tt.resolution)
			assertSamples(t, "buckets", got.Data, tt.want)
			if got.Min != tt.min || got.Max != tt.max {
				t.Errorf("Min, Max = %v, %v, want %v, %v", got.Min, got.Max, tt.min, tt.max)
			}
		})
	}
}

func TestSampler_VoiceInfo(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.LoopLength = Ratio(0.5)
	h := newTestHost(t, p)
	h.record(oneToTen())

	if got := h.sampler.VoiceInfo(0, &h.params); len(got) != 0 {
		t.Fatalf("VoiceInfo() with no voices = %v", got)
	}

	h.sampler.StartPlaying(0.8, Note{Key: 64, Channel: 2}, 1, &h.params)
	h.run(3)

	info := h.sampler.VoiceInfo(0, &h.params)
	if len(info) != 1 {
		t.Fatalf("len(VoiceInfo()) = %d, want 1", len(info))
	}
	v := info[0]
	if v.Note != (Note{Key: 64, Channel: 2}) {
		t.Errorf("Note = %v", v.Note)
	}
	if v.Start != 0.8 {
		t.Errorf("Start = %v, want 0.8", v.Start)
	}
	if math.Abs(float64(v.End)-0.3) > 1e-6 {
		t.Errorf("End = %v, want 0.3", v.End)
	}
	// Third sample read is index 0 after wrapping 8, 9.
	if v.Pos != 0 {
		t.Errorf("Pos = %v, want 0", v.Pos)
	}
	if v.State != VoiceActive {
		t.Errorf("State = %v, want active", v.State)
	}
}

func TestSampler_ProcessSample_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	p := DefaultParams()
	s, _ := New(1, InitParams{AutoPassthru: true})
	ch, _ := s.Channel(0)
	ch.SetData(make([]float32, 4096))
	for k := range 4 {
		s.StartPlaying(float32(k)/4, Note{Key: uint8(k)}, 1, &p)
	}

	allocs := testing.AllocsPerRun(1000, func() {
		_ = s.ProcessSample(0, 0.1, &p)
	})

	if allocs > 0 {
		t.Errorf("ProcessSample allocated %v times, want 0", allocs)
	}
}

func BenchmarkSampler_ProcessSample(b *testing.B) {
	p := DefaultParams()
	p.LoopMode = PingPong
	s, _ := New(1, InitParams{AutoPassthru: true})
	ch, _ := s.Channel(0)
	ch.SetData(make([]float32, 44100))
	for k := range 8 {
		s.StartPlaying(float32(k)/8, Note{Key: uint8(k)}, 1, &p)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		_ = s.ProcessSample(0, 0.1, &p)
	}
}

func BenchmarkSampler_ProcessBlock(b *testing.B) {
	p := DefaultParams()
	s, _ := New(2, InitParams{AutoPassthru: true})
	for c := range 2 {
		ch, _ := s.Channel(c)
		ch.SetData(make([]float32, 44100))
	}
	s.StartPlaying(0, Note{}, 1, &p)
	block := [][]float32{make([]float32, 512), make([]float32, 512)}

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		_ = s.ProcessBlock(block, block, &p)
	}
}
