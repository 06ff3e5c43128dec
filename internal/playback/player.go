//go:build !headless

// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Play blocks until samples have been played or ctx is done.
func Play(ctx context.Context, sampleRate, channels int, samples []float32) error {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}
	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	player := otoCtx.NewPlayer(NewFloat32Reader(samples))
	defer player.Close()
	player.Play()

	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-tick.C:
		}
	}
	return player.Err()
}
