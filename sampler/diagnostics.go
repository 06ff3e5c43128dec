// SPDX-License-Identifier: EPL-2.0

package sampler

import "fmt"

// Diagnostics counts recoverable anomalies. None of them stop processing.
type Diagnostics struct {
	// IncorrectState counts start requests while already recording and stop
	// requests while not recording.
	IncorrectState int
	// SkippedSamples counts gaps in the transport position while recording
	// into the ring buffer.
	SkippedSamples int
	// NegativeTransport counts ring writes at a negative transport position.
	NegativeTransport int
	// DisabledRing counts ticks dropped because the ring size was not positive.
	DisabledRing int
	// UnknownNote counts speed changes and note-offs that matched no voice.
	UnknownNote int
	// InvalidArgument counts clamped out-of-range host arguments.
	InvalidArgument int
}

// Add returns the field-wise sum of d and o.
func (d Diagnostics) Add(o Diagnostics) Diagnostics {
	return Diagnostics{
		IncorrectState:    d.IncorrectState + o.IncorrectState,
		SkippedSamples:    d.SkippedSamples + o.SkippedSamples,
		NegativeTransport: d.NegativeTransport + o.NegativeTransport,
		DisabledRing:      d.DisabledRing + o.DisabledRing,
		UnknownNote:       d.UnknownNote + o.UnknownNote,
		InvalidArgument:   d.InvalidArgument + o.InvalidArgument,
	}
}

// Total is the number of anomalies of any kind.
func (d Diagnostics) Total() int {
	return d.IncorrectState + d.SkippedSamples + d.NegativeTransport +
		d.DisabledRing + d.UnknownNote + d.InvalidArgument
}

func (d Diagnostics) String() string {
	return fmt.Sprintf("state: %d, skip: %d, neg: %d, ring: %d, note: %d, arg: %d",
		d.IncorrectState, d.SkippedSamples, d.NegativeTransport,
		d.DisabledRing, d.UnknownNote, d.InvalidArgument)
}
