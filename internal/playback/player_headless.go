//go:build headless

// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"context"
	"errors"
)

var ErrNoDevice = errors.New("built without audio output")

func Play(context.Context, int, int, []float32) error {
	return ErrNoDevice
}
