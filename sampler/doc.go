// SPDX-License-Identifier: EPL-2.0

// Package sampler is the record and playback engine of a live looper.
//
// A Sampler holds one Channel per audio channel. Every command (record,
// play, release, speed change) goes to all channels, and each channel keeps
// its own buffer, recorder and voices. Processing is one sample at a time so
// the engine can sit inside a host's audio callback.
//
// # Recording
//
// With RecordingMode NoteTriggered, StartRecording writes from the start of
// the buffer and StopRecording cuts the buffer to what was written. With
// AlwaysOn the channel keeps writing into a ring of FixedSizeSamples,
// indexed by the transport position, and the whole ring is the take.
//
// Recording and playback run together: voices read the buffer while it is
// being overwritten or grows.
//
// # Voices
//
// StartPlaying adds a voice that reads a window of the buffer starting at a
// fraction of its length:
//
//   - PlayOnce reads the window once and releases itself
//   - Loop wraps at the end of the window
//   - PingPong runs the window forwards then backwards
//
// The window length is the resolved LoopLength: a ratio of the buffer, or a
// duration in samples, seconds, notes or bars measured with the Transport.
// Speed scales the read rate and may be negative; Reverse flips its sign;
// SetNoteSpeed multiplies it per voice.
//
// A voice fades in over AttackSamples up to its velocity. StopPlaying
// releases it, and NoteOffBehavior decides when it is dropped: after the
// DecaySamples fade, on the next zero crossing once the fade is done, or
// whichever comes first.
//
// # Parameter Changes
//
// Params are read on every tick. Changing the loop length, speed, mode or
// buffer length while a voice plays keeps its read position where the new
// window still contains it; otherwise the voice restarts at the window
// start. See Cursor.
//
// # Passthrough
//
// With AutoPassthru the input is mixed into the output while no voice is
// active, faded with the attack and decay times. Volume scales the final
// mix.
//
// # Block Processing
//
//	in := [][]float32{left, right}
//	out := [][]float32{make([]float32, n), make([]float32, n)}
//	if err := s.ProcessBlock(in, out, &p); err != nil {
//	    return err // ErrBlockShape
//	}
//
// ProcessBlock takes one parameter snapshot per block and advances the
// transport position per sample.
//
// # Errors
//
// Host mistakes never stop the audio. Recording twice, releasing a note that
// is not playing or passing an out-of-range fraction or velocity is clamped
// or ignored and counted in Diagnostics. A broken internal invariant panics
// with *InvariantError.
//
// # Concurrency
//
// A Sampler is not safe for concurrent use. The steady-state tick does not
// allocate.
package sampler
