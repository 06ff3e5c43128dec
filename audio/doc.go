// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming PCM plumbing that feeds the looper.
//
//   - Source: interleaved float32 stream, optionally Sized
//   - Registry: decoders by format key or file extension
//   - Resampler: cubic rate conversion
//   - Remixer: channel count conversion (NewMonoMixer for down-mixing)
//   - SliceSource and ReadAll: in-memory sources and draining
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders, the resampler and the remixer all implement Source, so a decoded
// file can be brought to the engine's rate and channel count by chaining:
//
//	src, _ := wav.Decoder{}.Decode(f)
//	src = audio.NewRemixer(audio.NewResampler(src, 48000), 2)
//
// ReadSamples returns io.EOF once the stream is exhausted. Samples are in
// [-1.0, 1.0]; 0.0 is silence.
//
// Resampler and Remixer reuse their internal buffers, so steady-state reads
// do not allocate.
package audio
