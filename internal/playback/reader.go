// SPDX-License-Identifier: EPL-2.0

// Package playback sends rendered audio to the default output device.
// Building with the headless tag drops the device backend.
package playback

import (
	"encoding/binary"
	"io"
	"math"
)

// Float32Reader serves interleaved samples as little-endian float32 bytes,
// the layout of oto.FormatFloat32LE.
type Float32Reader struct {
	samples []float32
	pos     int
	// partial holds the bytes of a sample split across two reads.
	partial [4]byte
	pending int
}

func NewFloat32Reader(samples []float32) *Float32Reader {
	return &Float32Reader{samples: samples}
}

func (r *Float32Reader) Read(p []byte) (int, error) {
	n := 0
	if r.pending > 0 {
		c := copy(p, r.partial[4-r.pending:])
		r.pending -= c
		n += c
	}
	for n+4 <= len(p) && r.pos < len(r.samples) {
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(r.samples[r.pos]))
		r.pos++
		n += 4
	}
	if n < len(p) && r.pending == 0 && r.pos < len(r.samples) {
		binary.LittleEndian.PutUint32(r.partial[:], math.Float32bits(r.samples[r.pos]))
		r.pos++
		c := copy(p[n:], r.partial[:])
		r.pending = 4 - c
		n += c
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Remaining is the number of samples not yet read.
func (r *Float32Reader) Remaining() int { return len(r.samples) - r.pos }
