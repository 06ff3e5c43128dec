// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audlooper/utils"
)

// Resampler streams src at another sample rate using cubic interpolation.
// Channel count is preserved. When the rate goes down a one-pole low-pass
// runs ahead of the interpolator.
type Resampler struct {
	src      Source
	srcRate  int64
	rate     int64
	channels int

	// win holds the frames at t-1, t, t+1 and t+2; real marks the ones that
	// came from src rather than end padding.
	win  [4][]float32
	real [4]bool
	// out counts produced frames; at is the source index of win[1].
	out int64
	at  int64

	in     []float32
	inPos  int
	inLen  int
	eof    bool
	err    error
	primed bool

	lp     []float32
	alpha  float32
	filter bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	size := max(src.BufSize(), 1024)
	size -= size % channels

	r := &Resampler{
		src:      src,
		srcRate:  int64(src.SampleRate()),
		rate:     int64(dstRate),
		channels: channels,
		in:       make([]float32, size),
		lp:       make([]float32, channels),
		filter:   src.SampleRate() > dstRate,
		alpha:    0.5,
	}
	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) SampleRate() int { return int(r.rate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Frames estimates the output length from the source length hint.
func (r *Resampler) Frames() int {
	n := int64(FramesOf(r.src))
	if n < 0 {
		return -1
	}
	return int((n*r.rate + r.srcRate - 1) / r.srcRate)
}

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull copies the next source frame into dst.
func (r *Resampler) pull(dst []float32) bool {
	if r.inPos >= r.inLen {
		if r.eof {
			return false
		}
		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		switch {
		case err == io.EOF:
			r.eof = true
		case err != nil:
			r.eof = true
			r.err = fmt.Errorf("resample: %w", err)
		case n == 0:
			// A source that makes no progress is treated as finished.
			r.eof = true
		}
		if r.inLen == 0 {
			return false
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels
	if r.filter {
		for c := range dst {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.lp[c]
			r.lp[c] = dst[c]
		}
	}
	return true
}

// advance moves the window one source frame forward, padding with the last
// frame once src is exhausted.
func (r *Resampler) advance() {
	first := r.win[0]
	copy(r.win[:], r.win[1:])
	copy(r.real[:], r.real[1:])
	r.win[3] = first
	if r.pull(r.win[3]) {
		r.real[3] = true
		return
	}
	copy(r.win[3], r.win[2])
	r.real[3] = false
}

func (r *Resampler) prime() bool {
	r.primed = true
	if !r.pull(r.win[1]) {
		return false
	}
	if r.filter {
		// Start the low-pass from the first frame instead of silence.
		copy(r.lp, r.win[1])
	}
	copy(r.win[0], r.win[1])
	r.real[0], r.real[1] = true, true
	for i := 2; i < 4; i++ {
		if r.pull(r.win[i]) {
			r.real[i] = true
		} else {
			copy(r.win[i], r.win[i-1])
		}
	}
	return true
}

// ReadSamples produces resampled frames; len(dst) must be a multiple of the
// channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed && !r.prime() {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}

	n := 0
	for n < len(dst) {
		pos := r.out * r.srcRate
		target := pos / r.rate
		for r.at < target && r.real[1] {
			r.advance()
			r.at++
		}
		if !r.real[1] {
			break
		}

		x := float32(pos%r.rate) / float32(r.rate)
		for c := range r.channels {
			dst[n+c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], x)
		}
		n += r.channels
		r.out++
	}

	if n == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	return n, nil
}
