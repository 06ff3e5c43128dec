// SPDX-License-Identifier: EPL-2.0

package audlooper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/audlooper/audio"
	"github.com/ik5/audlooper/formats"
	"github.com/ik5/audlooper/formats/wav"
	"github.com/ik5/audlooper/sampler"
	"github.com/ik5/audlooper/session"
	"github.com/ik5/audlooper/utils"
)

var ErrUnknownLength = errors.New("input length unknown, a script is required")

// RenderFile decodes the audio file at path and plays script over it.
// A nil script records the whole input and loops it for opts.TailFrames.
func RenderFile(ctx context.Context, path string, params sampler.Params, script *session.Script,
	opts session.Options, logger *slog.Logger,
) (*session.Result, error) {
	src, err := formats.Open(formats.Default(), path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if script == nil {
		frames := frameHint(audio.FramesOf(src), src.SampleRate(), opts.SampleRate)
		if frames <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLength, path)
		}
		script = session.DefaultScript(frames)
	}

	res, err := session.New(params, script, opts, logger).Render(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", path, err)
	}
	return res, nil
}

// frameHint is the input length in frames at the render rate.
func frameHint(frames, srcRate, dstRate int) int64 {
	n := int64(frames)
	if n <= 0 || dstRate <= 0 || dstRate == srcRate {
		return n
	}
	return (n*int64(dstRate) + int64(srcRate) - 1) / int64(srcRate)
}

// RenderToPCM16 converts the rendered output to interleaved 16-bit samples.
func RenderToPCM16(res *session.Result) []int16 {
	return utils.AppendInt16(make([]int16, 0, len(res.Output)), res.Output)
}

// WriteWAV stores res as 16-bit WAV. Writers that can seek get the go-audio
// encoder; pipes get the streaming writer.
func WriteWAV(w io.Writer, res *session.Result) error {
	if ws, ok := w.(io.WriteSeeker); ok {
		if _, err := ws.Seek(0, io.SeekCurrent); err == nil {
			return wav.Encode(ws, res.SampleRate, res.Channels, res.Output)
		}
	}
	return wav.WriteWAV16(w, res.SampleRate, res.Channels, RenderToPCM16(res))
}
