// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files for the looper.
//
// Decoding is done by github.com/hajimehoshi/go-mp3; this package adapts
// its byte stream to an audio.Source.
//
// # Supported Formats
//
//   - MPEG-1 and MPEG-2 Layer III
//   - Constant and variable bitrates
//   - Mono files (go-mp3 duplicates the channel)
//
// # Decoding
//
//	f, _ := os.Open("riff.mp3")
//	defer f.Close()
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// # Output Format
//
//   - float32 in [-1.0, 1.0)
//   - always 2 channels, interleaved
//   - the file's sample rate, usually 44.1 or 48 kHz
//
// The frame count is known when the underlying reader can seek; it is
// reported through audio.FramesOf and is -1 otherwise.
//
// # Limitations
//
// Decoding only. go-mp3 yields 16-bit little-endian bytes, and a read may
// end between the two bytes of a sample; the odd byte is carried over to the
// next ReadSamples call, so callers always see whole samples.
package mp3
