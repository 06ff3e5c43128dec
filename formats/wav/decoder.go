// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/ik5/audlooper/audio"
	"github.com/ik5/audlooper/formats/internal/intpcm"
)

const pcmFormat = 1

// Decoder reads integer PCM WAV files of 8, 16, 24 or 32 bits.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		// go-audio needs to seek between chunks.
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedWavFormat, dec.WavAudioFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locating wav data: %w", err)
	}

	format := dec.Format()
	bitDepth := int(dec.SampleBitDepth())
	frames := -1
	if bytesPerFrame := (bitDepth + 7) / 8 * format.NumChannels; bytesPerFrame > 0 {
		frames = int(dec.PCMLen()) / bytesPerFrame
	}

	src, err := intpcm.New(dec, format, bitDepth, frames, bitDepth == 8)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bits", err, bitDepth)
	}
	return src, nil
}
