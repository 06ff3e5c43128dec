// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files.
//
// # Decoding
//
// Decoder goes through github.com/go-audio/wav and accepts integer PCM:
//
//   - 8-bit unsigned, 16, 24 and 32-bit signed
//   - any channel count
//
// IEEE float and compressed files fail with ErrUnsupportedWavFormat, and
// non-RIFF input with ErrNotWavFile. Readers that cannot seek are buffered in
// memory first.
//
//	src, err := wav.Decoder{}.Decode(f)
//
// # Encoding
//
// Both writers produce 16-bit PCM from interleaved float32 or int16 data.
//
//   - Encode uses the go-audio encoder. It patches the header sizes when it
//     finishes, so the destination must be an io.WriteSeeker.
//   - WriteWAV16 computes the header up front and streams, so it works on a
//     pipe or stdout.
//
// Both reject channel counts below one with ErrInvalidChannels and sample
// counts that do not fill the last frame with ErrPartialFrame.
//
//	f, _ := os.Create("out.wav")
//	defer f.Close()
//	err := wav.Encode(f, 44100, 2, samples)
package wav
