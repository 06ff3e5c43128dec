// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// SliceSource serves interleaved samples held in memory.
type SliceSource struct {
	rate     int
	channels int
	data     []float32
	pos      int
}

// NewSliceSource wraps data, which must hold whole frames.
func NewSliceSource(rate, channels int, data []float32) (*SliceSource, error) {
	if channels < 1 {
		return nil, ErrInvalidChannels
	}
	if rate <= 0 {
		return nil, ErrInvalidRate
	}
	if len(data)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples for %d channels", ErrInvalidDstSize, len(data), channels)
	}
	return &SliceSource{rate: rate, channels: channels, data: data}, nil
}

func (s *SliceSource) SampleRate() int { return s.rate }
func (s *SliceSource) Channels() int   { return s.channels }
func (s *SliceSource) BufSize() int    { return 4096 }
func (s *SliceSource) Close() error    { return nil }
func (s *SliceSource) Frames() int     { return len(s.data) / s.channels }

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := len(dst) - len(dst)%s.channels
	n = copy(dst[:n], s.data[s.pos:])
	s.pos += n
	return n, nil
}

// ReadAll drains src and returns every sample it produced.
func ReadAll(src Source) ([]float32, error) {
	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	size -= size % src.Channels()
	if size == 0 {
		size = src.Channels()
	}

	var out []float32
	if frames := FramesOf(src); frames > 0 {
		out = make([]float32, 0, frames*src.Channels())
	}
	buf := make([]float32, size)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read samples: %w", err)
		}
		if n == 0 {
			return out, nil
		}
	}
}
