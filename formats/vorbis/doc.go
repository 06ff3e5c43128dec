// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams for the looper.
//
// Decoding is done by github.com/jfreymuth/oggvorbis, which already produces
// float32 samples, so the source hands them through without conversion.
//
// # Decoding
//
//	f, _ := os.Open("pad.ogg")
//	defer f.Close()
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//
// # Output Format
//
//   - float32, nominally in [-1.0, 1.0]
//   - any channel count the stream declares, interleaved in Vorbis order
//   - the stream's sample rate
//
// Reads are trimmed to whole frames. Frames reports the stream length when
// oggvorbis can determine it and -1 otherwise.
//
// # Limitations
//
// Decoding only. Chained streams with changing channel counts are not
// supported.
package vorbis
