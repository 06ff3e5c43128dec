// SPDX-License-Identifier: EPL-2.0

package sampler

import (
	"math"

	"github.com/ik5/audlooper/utils"
)

// Cursor maps time to a read position inside a loop window of the recorded
// buffer. The window begins at start, spans length samples and wraps around
// the end of the buffer.
//
// All arithmetic stays in float32 so that positions land on the same sample
// indexes regardless of platform.
type Cursor struct {
	since      int
	start      float32
	speed      float32
	length     float32
	dataLength float32
	mode       LoopMode
	shift      float32
}

// NewCursor starts a cursor at time now. start is taken modulo dataLength.
func NewCursor(now int, start, speed, length, dataLength float32, mode LoopMode) Cursor {
	if !(dataLength > 0) || !(length > 0) {
		invariant("new cursor", "length %v and data length %v must be positive", length, dataLength)
	}
	return Cursor{
		since:      now,
		start:      utils.WrapFloat32(start, dataLength),
		speed:      speed,
		length:     length,
		dataLength: dataLength,
		mode:       mode,
	}
}

func (c *Cursor) Since() int          { return c.since }
func (c *Cursor) Start() float32      { return c.start }
func (c *Cursor) Speed() float32      { return c.speed }
func (c *Cursor) Length() float32     { return c.length }
func (c *Cursor) DataLength() float32 { return c.dataLength }
func (c *Cursor) Mode() LoopMode      { return c.mode }
func (c *Cursor) Shift() float32      { return c.shift }

// A negative speed reads the sample behind the position rather than the one
// in front of it, so time is advanced by one before scaling.
func (c *Cursor) edge() float32 {
	if c.speed < 0 {
		return 1
	}
	return 0
}

func (c *Cursor) raw(now int) float32 {
	if now < c.since {
		invariant("cursor position", "time %d is before cursor start %d", now, c.since)
	}
	dt := float32(now - c.since)
	return c.shift + float32((dt+c.edge())*c.speed)
}

// ClipOffset returns the position inside the loop window, in [0, length).
func (c *Cursor) ClipOffset(now int) float32 {
	l := c.length
	x := c.raw(now)
	switch c.mode {
	case PlayOnce, Loop:
		x = utils.WrapFloat32(x, l)
	case PingPong:
		x = utils.ModFloat32(float32(math.Abs(float64(x))), 2*l)
		if x >= l {
			x = max(2*l-x-1, 0)
		}
	default:
		invariant("cursor position", "unknown loop mode %d", int(c.mode))
	}
	x = min(x, l-1)
	if !(x >= 0 && x < l) {
		invariant("cursor position", "clip offset %v outside [0, %v)", x, l)
	}
	return x
}

// Offset returns the absolute position in the buffer, in [0, dataLength).
func (c *Cursor) Offset(now int) float32 {
	return utils.ModFloat32(c.start+c.ClipOffset(now), c.dataLength)
}

// IsPingPongReversing reports whether a ping-pong cursor is on the backward
// half of its cycle.
func (c *Cursor) IsPingPongReversing(now int) bool {
	if c.mode != PingPong {
		return false
	}
	x := utils.ModFloat32(float32(math.Abs(float64(c.raw(now)))), 2*c.length)
	return x >= c.length
}

// toClip converts an absolute position to a window position. The second
// result is false when the window does not contain x.
func (c *Cursor) toClip(x float32) (float32, bool) {
	if !(x >= 0 && x < c.dataLength) {
		invariant("cursor rebase", "offset %v outside buffer of %v", x, c.dataLength)
	}
	var local float32
	if x >= c.start {
		local = x - c.start
	} else {
		local = x + c.dataLength - c.start
	}
	return local, local < c.length
}

// rebase restarts the cursor at now so that it reads absolute position x,
// keeping the direction it had. It reports false when the window no longer
// contains x, in which case nothing is changed.
func (c *Cursor) rebase(now int, x float32, reversing bool) bool {
	local, ok := c.toClip(x)
	if !ok {
		return false
	}
	if reversing && c.mode == PingPong {
		local = 2*c.length - local - 1
	}
	c.shift = local - c.edge()*c.speed
	c.since = now
	return true
}

func (c *Cursor) restart(now int) {
	c.shift = 0
	c.since = now
}

// UpdateLength changes the window length without moving the read position.
// When the position falls outside the new window the cursor restarts at the
// window start.
func (c *Cursor) UpdateLength(now int, length float32) {
	if length == c.length {
		return
	}
	if !(length > 0) {
		invariant("cursor length update", "length %v must be positive", length)
	}
	x := c.Offset(now)
	reversing := c.IsPingPongReversing(now)
	c.length = length
	if !c.rebase(now, x, reversing) {
		c.restart(now)
	}
}

// UpdateSpeed changes the speed without moving the read position.
func (c *Cursor) UpdateSpeed(now int, speed float32) {
	if speed == c.speed {
		return
	}
	x := c.Offset(now)
	reversing := c.IsPingPongReversing(now)
	c.speed = speed
	if !c.rebase(now, x, reversing) {
		invariant("cursor speed update", "offset %v left window [%v, +%v)", x, c.start, c.length)
	}
}

// UpdateDataLength follows a buffer that grew or shrank. The loop phase is
// kept while the old position is still inside the buffer, so a window that
// wraps past the old end reads the new samples from then on. Otherwise the
// cursor restarts.
func (c *Cursor) UpdateDataLength(now int, dataLength float32) {
	if dataLength == c.dataLength {
		return
	}
	if !(dataLength > 0) {
		invariant("cursor data length update", "data length %v must be positive", dataLength)
	}
	x := c.Offset(now)
	c.dataLength = dataLength
	c.start = utils.WrapFloat32(c.start, dataLength)
	if x >= dataLength {
		c.restart(now)
	}
}

// UpdateMode switches the loop mode. PlayOnce and Loop wrap identically, so
// moving between them keeps the cursor as is.
func (c *Cursor) UpdateMode(now int, mode LoopMode) {
	if mode == c.mode {
		return
	}
	if mode != PingPong && c.mode != PingPong {
		c.mode = mode
		return
	}
	x := c.Offset(now)
	reversing := c.IsPingPongReversing(now)
	c.mode = mode
	if !c.rebase(now, x, reversing) {
		c.restart(now)
	}
}
