// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audlooper/audio"
)

// go-mp3 always produces interleaved stereo int16.
const (
	channels      = 2
	bytesPerFrame = channels * 2
)

// mp3Reader is the part of gomp3.Decoder used by source.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec mp3Reader
	buf []byte
	// carry holds the bytes of a sample split across two reads.
	carry []byte
}

func newSource(dec mp3Reader) *source {
	return &source{dec: dec, buf: make([]byte, 8192)}
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

// Frames is derived from the decoded byte length; go-mp3 reports -1 for
// streams it could not measure.
func (s *source) Frames() int {
	n := s.dec.Length()
	if n < 0 {
		return -1
	}
	return int(n / bytesPerFrame)
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	for {
		need := 2*len(dst) - len(s.carry)
		if cap(s.buf) < need {
			s.buf = make([]byte, need)
		}
		s.buf = s.buf[:need]

		n, err := s.dec.Read(s.buf)
		data := s.buf[:n]
		if len(s.carry) > 0 {
			data = append(s.carry, data...)
			s.carry = s.carry[:0]
		}

		samples := len(data) / 2
		for i := range samples {
			dst[i] = float32(int16(binary.LittleEndian.Uint16(data[2*i:]))) / 32768
		}
		if rest := data[2*samples:]; len(rest) > 0 {
			s.carry = append(s.carry[:0], rest...)
		}

		if samples > 0 || err != nil {
			return samples, err
		}
		if n == 0 {
			return 0, io.EOF
		}
	}
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}
	return newSource(dec), nil
}
