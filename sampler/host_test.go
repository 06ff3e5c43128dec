// SPDX-License-Identifier: EPL-2.0

package sampler

import (
	"testing"
)

type cmdKind int

const (
	cmdStartRecording cmdKind = iota
	cmdStopRecording
	cmdStartPlaying
	cmdStopPlaying
)

type scheduled struct {
	at    int
	kind  cmdKind
	start float32
}

// testHost drives a one-channel sampler the way a plugin host would:
// commands land at the start of a tick, before that tick is processed.
type testHost struct {
	t        *testing.T
	sampler  *Sampler
	params   Params
	commands []scheduled
	now      int
}

func newTestHost(t *testing.T, p Params) *testHost {
	t.Helper()

	s, err := New(1, InitParams{AutoPassthru: p.AutoPassthru})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &testHost{t: t, sampler: s, params: p}
}

func (h *testHost) schedule(at int, kind cmdKind, start float32) {
	h.commands = append(h.commands, scheduled{at: at, kind: kind, start: start})
}

func (h *testHost) dispatch() {
	note := Note{}
	for _, c := range h.commands {
		if c.at != h.now {
			continue
		}
		switch c.kind {
		case cmdStartRecording:
			h.sampler.StartRecording(&h.params)
		case cmdStopRecording:
			h.sampler.StopRecording(&h.params)
		case cmdStartPlaying:
			h.sampler.StartPlaying(c.start, note, 1, &h.params)
		case cmdStopPlaying:
			h.sampler.StopPlaying(note, &h.params)
		}
	}
}

func (h *testHost) runInput(input []float32) []float32 {
	out := make([]float32, 0, len(input))
	for _, x := range input {
		h.dispatch()
		frame := []float32{x}
		if err := h.sampler.ProcessFrame(frame, &h.params); err != nil {
			h.t.Fatalf("ProcessFrame() error = %v", err)
		}
		out = append(out, frame[0])
		h.now++
	}
	return out
}

func (h *testHost) run(n int) []float32 {
	return h.runInput(make([]float32, n))
}

// record takes input as a new recording.
func (h *testHost) record(input []float32) []float32 {
	h.sampler.StartRecording(&h.params)
	out := h.runInput(input)
	h.sampler.StopRecording(&h.params)
	return out
}

func (h *testHost) startPlaying(start float32) {
	h.sampler.StartPlaying(start, Note{}, 1, &h.params)
}

func oneToTen() []float32 {
	r := make([]float32, 10)
	for i := range r {
		r[i] = float32(i + 1)
	}
	return r
}

func repeat(v float32, n int) []float32 {
	r := make([]float32, n)
	for i := range r {
		r[i] = v
	}
	return r
}

func concat(parts ...[]float32) []float32 {
	var r []float32
	for _, p := range parts {
		r = append(r, p...)
	}
	return r
}

func testParams() Params {
	p := DefaultParams()
	p.AttackSamples = 0
	p.DecaySamples = 0
	p.NoteOffBehavior = Decay
	return p
}

func assertSamples(t *testing.T, label string, got, want []float32) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("%s: got %d samples %v, want %d samples %v", label, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: sample %d = %v, want %v\n got: %v\nwant: %v", label, i, got[i], want[i], got, want)
		}
	}
}
