// SPDX-License-Identifier: EPL-2.0

// Package audlooper is a live-looping sampler engine with the plumbing to
// drive it offline.
//
// The engine lives in package sampler: each channel records a take, then
// plays it back through any number of voices that loop, play once or ping
// pong over a window of the take, with per-voice speed and a volume
// envelope. Everything happens one sample at a time so a host can call it
// from an audio callback.
//
// Package session feeds a decoded file through the engine following a YAML
// script of timed host calls. This package wraps the whole path:
//
//	res, err := audlooper.RenderFile(ctx, "guitar.wav", sampler.DefaultParams(),
//		nil, session.Options{TailFrames: 4 * 44100}, nil)
//	if err != nil {
//		return err
//	}
//	f, _ := os.Create("looped.wav")
//	defer f.Close()
//	return audlooper.WriteWAV(f, res)
//
// Input formats are WAV, AIFF, MP3 and Ogg Vorbis (see package formats).
// The looper command exposes the same operations from the shell.
package audlooper
