// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/audlooper/utils"
)

// Encode writes interleaved float32 samples to ws as 16-bit PCM. The header
// sizes are patched on close, so ws must be seekable; use WriteWAV16 for
// pipes.
func Encode(ws io.WriteSeeker, sampleRate, channels int, samples []float32) error {
	if channels < 1 || channels > 0xffff {
		return ErrInvalidChannels
	}
	if len(samples)%channels != 0 {
		return ErrPartialFrame
	}

	enc := wav.NewEncoder(ws, sampleRate, 16, channels, pcmFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, x := range samples {
		buf.Data[i] = int(utils.Float32ToInt16(x))
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav: %w", err)
	}
	return nil
}
