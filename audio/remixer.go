// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Remixer changes the channel count of a Source. Going down to mono averages
// all channels, going up from mono copies the one channel, and any other
// change maps output channel c to input channel c mod n.
type Remixer struct {
	src      Source
	channels int
	tmp      []float32
}

// NewRemixer returns src with channels per frame.
func NewRemixer(src Source, channels int) *Remixer {
	return &Remixer{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}
}

// NewMonoMixer down-mixes src to a single channel.
func NewMonoMixer(src Source) *Remixer {
	return NewRemixer(src, 1)
}

func (m *Remixer) SampleRate() int { return m.src.SampleRate() }
func (m *Remixer) Channels() int   { return m.channels }
func (m *Remixer) BufSize() int    { return m.src.BufSize() }
func (m *Remixer) Frames() int     { return FramesOf(m.src) }

func (m *Remixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *Remixer) ReadSamples(dst []float32) (int, error) {
	in, out := m.src.Channels(), m.channels
	if len(dst)%out != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}
	if in == out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / out
	need := frames * in
	if cap(m.tmp) < need {
		m.tmp = make([]float32, max(need, 8192))
	}
	tmp := m.tmp[:need]

	n, err := m.src.ReadSamples(tmp)
	if n == 0 {
		return 0, err
	}
	frames = n / in

	switch {
	case out == 1 && in == 2:
		for f := range frames {
			dst[f] = (tmp[2*f] + tmp[2*f+1]) * 0.5
		}
	case out == 1:
		inv := 1 / float32(in)
		for f := range frames {
			var sum float32
			for _, v := range tmp[f*in : (f+1)*in] {
				sum += v
			}
			dst[f] = sum * inv
		}
	case in == 1:
		for f := range frames {
			for c := range out {
				dst[f*out+c] = tmp[f]
			}
		}
	default:
		for f := range frames {
			for c := range out {
				dst[f*out+c] = tmp[f*in+c%in]
			}
		}
	}

	return frames * out, err
}
