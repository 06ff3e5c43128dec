// SPDX-License-Identifier: EPL-2.0

package session

import "errors"

var (
	ErrUnknownAction = errors.New("unknown script action")
	ErrNegativeTime  = errors.New("event time is negative")
	ErrMissingParams = errors.New("set_params event without params")
	ErrNoChannels    = errors.New("source has no channels")
	ErrInvalidParams = errors.New("invalid parameter value")
)
