// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files for the looper.
//
// Chunk parsing is done by github.com/go-audio/aiff; the integer PCM it
// returns is scaled to float32 by the shared intpcm source.
//
// # Supported Formats
//
//   - AIFF with 8, 16, 24 or 32-bit big-endian PCM
//   - any channel count
//
// Compressed AIFF-C data is not supported. A COMM chunk without channels
// fails with ErrUnsupportedAiffLayout, and other bit depths with
// ErrUnsupportedBitDepth.
//
// # Decoding
//
//	f, _ := os.Open("loop.aif")
//	defer f.Close()
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // try another decoder
//	}
//
// go-audio needs to seek, so readers that cannot are read into memory first.
//
// # Output Format
//
//   - float32 in [-1.0, 1.0)
//   - interleaved, in file channel order
//   - frame count from the COMM chunk, available through audio.FramesOf
package aiff
