// SPDX-License-Identifier: EPL-2.0

// Package session drives the sampler offline from a decoded file and a
// script of timed host calls.
//
// # Scripts
//
// A script is YAML. Each event names an action and a time, either in frames
// (at) or in seconds (at_seconds):
//
//	name: verse
//	events:
//	  - {at: 0, action: start_recording}
//	  - {at_seconds: 2, action: stop_recording}
//	  - {at_seconds: 2, action: start_playing, key: 60}
//	  - {at_seconds: 4, action: set_note_speed, key: 60, speed: 0.5}
//	  - {at_seconds: 6, action: set_params, params: {loop_mode: ping_pong}}
//	  - {at_seconds: 8, action: stop_playing, key: 60}
//
// Actions:
//
//   - start_recording, stop_recording
//   - start_playing: position (default params.start_offset) and velocity
//     (default 1)
//   - stop_playing, set_note_speed: matched by key and note_channel
//   - set_params: a partial parameter set applied from then on
//
// Events fire before the frame they are scheduled on. Events on the same
// frame run in script order. ParseScript rejects unknown actions, negative
// times and parameter values the engine cannot run with.
//
// # Rendering
//
//	r := session.New(params, script, session.Options{
//	    SampleRate: 48000,
//	    Channels:   2,
//	    TailFrames: 4 * 48000,
//	}, logger)
//	res, err := r.Render(ctx, src)
//
// The source is resampled and remixed to the requested format, processed
// frame by frame, then followed by TailFrames of silence so loops keep
// playing after the input ends. Result holds the interleaved output, the
// recorded takes, the diagnostics and, when asked for, a waveform summary.
//
// Render checks ctx once per block and logs through the given slog.Logger.
package session
