// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavFormat = errors.New("only integer PCM WAV is supported")
	ErrInvalidChannels      = errors.New("channel count must be between 1 and 65535")
	ErrPartialFrame         = errors.New("sample count is not a multiple of the channel count")
)
