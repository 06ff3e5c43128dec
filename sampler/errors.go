// SPDX-License-Identifier: EPL-2.0

package sampler

import (
	"errors"
	"fmt"
)

var (
	ErrChannelCount      = errors.New("sampler: channel count must be at least 1")
	ErrChannelIndex      = errors.New("sampler: channel index out of range")
	ErrBlockShape        = errors.New("sampler: block buffers must match channel count and frame count")
	ErrInvalidLoopLength = errors.New("sampler: invalid loop length")
	ErrUnknownLoopMode   = errors.New("sampler: unknown loop mode")
	ErrUnknownRecMode    = errors.New("sampler: unknown recording mode")
	ErrUnknownNoteOff    = errors.New("sampler: unknown note-off behavior")
)

// InvariantError describes a broken internal invariant. It is never returned;
// the engine panics with it because continuing would produce garbage audio.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("sampler: invariant violated in %s: %s", e.Op, e.Detail)
}

func invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
