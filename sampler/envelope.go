// SPDX-License-Identifier: EPL-2.0

package sampler

// Envelope is a volume that is either constant or a linear ramp between two
// points in time. The zero value is a constant silence.
type Envelope struct {
	ramping bool
	t0, t1  int
	v0, v1  float32 // v1 doubles as the constant value
}

// NewEnvelope returns a constant envelope at v.
func NewEnvelope(v float32) Envelope {
	return Envelope{v1: v}
}

// Value returns the volume at time now. Ramps clamp outside [t0, t1].
func (e *Envelope) Value(now int) float32 {
	if !e.ramping {
		return e.v1
	}
	if now <= e.t0 {
		return e.v0
	}
	if now >= e.t1 {
		return e.v1
	}
	t := float32(now-e.t0) / float32(e.t1-e.t0)
	return e.v0 + float32((e.v1-e.v0)*t)
}

// To starts a ramp from the current value to target over duration samples.
// A zero duration jumps straight to target.
func (e *Envelope) To(now, duration int, target float32) {
	if duration < 0 {
		invariant("envelope ramp", "negative duration %d", duration)
	}
	if duration == 0 {
		*e = NewEnvelope(target)
		return
	}
	*e = Envelope{
		ramping: true,
		t0:      now,
		t1:      now + duration,
		v0:      e.Value(now),
		v1:      target,
	}
}

// Step collapses a finished ramp into a constant.
func (e *Envelope) Step(now int) {
	if e.ramping && now >= e.t1 {
		*e = NewEnvelope(e.v1)
	}
}

// IsStatic reports whether the envelope is constant.
func (e *Envelope) IsStatic() bool {
	return !e.ramping
}

// IsStaticAndMute reports whether the envelope is a constant zero.
func (e *Envelope) IsStaticAndMute() bool {
	return !e.ramping && e.v1 == 0
}
