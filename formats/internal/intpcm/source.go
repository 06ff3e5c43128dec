// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the integer PCM readers of go-audio to float32
// sources.
package intpcm

import (
	"errors"
	"io"

	goaudio "github.com/go-audio/audio"
)

var ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")

// Reader is the part of the go-audio wav and aiff decoders used here.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source reads integer PCM from a go-audio decoder as float32.
type Source struct {
	dec    Reader
	format *goaudio.Format
	frames int
	scale  float32
	bias   int
	intBuf *goaudio.IntBuffer
}

// New wraps dec. unsigned is set for 8-bit WAV, where silence is 128.
// frames may be -1 when the length is unknown.
func New(dec Reader, format *goaudio.Format, bitDepth, frames int, unsigned bool) (*Source, error) {
	scale, err := Scale(bitDepth)
	if err != nil {
		return nil, err
	}
	s := &Source{
		dec:    dec,
		format: format,
		frames: frames,
		scale:  scale,
	}
	if unsigned {
		s.bias = 1 << (bitDepth - 1)
	}
	return s, nil
}

// Scale returns the full-scale value for bitDepth.
func Scale(bitDepth int) (float32, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return float32(uint64(1) << (bitDepth - 1)), nil
	}
	return 0, ErrUnsupportedBitDepth
}

func (s *Source) SampleRate() int { return s.format.SampleRate }
func (s *Source) Channels() int   { return s.format.NumChannels }
func (s *Source) Frames() int     { return s.frames }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.Channels()
	if want == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, want),
			Format: s.format,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:want]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, err
		}
		return 0, io.EOF
	}

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = float32(v-s.bias) / s.scale
	}

	// A short read means the PCM chunk is exhausted.
	if n < want && err == nil {
		err = io.EOF
	}
	return n, err
}
