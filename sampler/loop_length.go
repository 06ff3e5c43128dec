// SPDX-License-Identifier: EPL-2.0

package sampler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TimeUnit is the unit of a LoopLength value.
type TimeUnit int

const (
	// UnitRatio is a fraction of the recorded buffer.
	UnitRatio TimeUnit = iota
	UnitSamples
	UnitSeconds
	UnitQuarterNotes
	UnitSixteenthNotes
	UnitBars
)

// LoopLength is a loop window size, either relative to the buffer or an
// absolute time resolved through the Transport.
type LoopLength struct {
	Unit  TimeUnit
	Value float32
}

// Ratio returns a LoopLength covering r times the recorded buffer.
func Ratio(r float32) LoopLength {
	return LoopLength{Unit: UnitRatio, Value: r}
}

// Samples resolves l into a sample count for a buffer of dataLen samples.
// The result is never below one sample.
func (l LoopLength) Samples(dataLen int, t Transport) float32 {
	var n float32
	switch l.Unit {
	case UnitRatio:
		n = float32(dataLen) * l.Value
	case UnitSamples:
		n = l.Value
	case UnitSeconds:
		n = l.Value * t.SampleRate
	case UnitQuarterNotes:
		n = l.Value * t.SamplesPerQuarterNote()
	case UnitSixteenthNotes:
		n = l.Value * t.SamplesPerQuarterNote() / 4
	case UnitBars:
		n = l.Value * t.SamplesPerBar()
	}
	// NaN falls through to the minimum.
	if !(n >= 1) {
		return 1
	}
	return n
}

func (l LoopLength) String() string {
	v := strconv.FormatFloat(float64(l.Value), 'f', -1, 32)
	switch l.Unit {
	case UnitRatio:
		return strconv.FormatFloat(float64(l.Value)*100, 'g', 6, 64) + "%"
	case UnitSamples:
		return v + "smp"
	case UnitSeconds:
		return v + "s"
	case UnitQuarterNotes:
		return v + "qn"
	case UnitSixteenthNotes:
		return v + "16th"
	case UnitBars:
		return v + "bars"
	}
	return fmt.Sprintf("LoopLength(%d, %s)", int(l.Unit), v)
}

type unitSuffix struct {
	suffix string
	unit   TimeUnit
	scale  float64
}

// Longer suffixes first so "ms" is not read as "s".
var loopLengthSuffixes = []unitSuffix{
	{"samples", UnitSamples, 1},
	{"smp", UnitSamples, 1},
	{"bars", UnitBars, 1},
	{"bar", UnitBars, 1},
	{"16th", UnitSixteenthNotes, 1},
	{"beats", UnitQuarterNotes, 1},
	{"beat", UnitQuarterNotes, 1},
	{"qn", UnitQuarterNotes, 1},
	{"ms", UnitSeconds, 0.001},
	{"sec", UnitSeconds, 1},
	{"s", UnitSeconds, 1},
	{"%", UnitRatio, 0.01},
	{"x", UnitRatio, 1},
}

// ParseLoopLength reads forms like "50%", "0.5", "2 bars", "3qn", "1.5s",
// "250ms", "8 16th" and "4410 samples". A bare number is a ratio.
func ParseLoopLength(s string) (LoopLength, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	unit, scale := UnitRatio, 1.0
	for _, us := range loopLengthSuffixes {
		if strings.HasSuffix(str, us.suffix) {
			str = strings.TrimSpace(strings.TrimSuffix(str, us.suffix))
			unit, scale = us.unit, us.scale
			break
		}
	}

	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return LoopLength{}, fmt.Errorf("%w: %q: %w", ErrInvalidLoopLength, s, err)
	}
	v *= scale
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return LoopLength{}, fmt.Errorf("%w: %q must be positive", ErrInvalidLoopLength, s)
	}

	return LoopLength{Unit: unit, Value: float32(v)}, nil
}

func (l LoopLength) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *LoopLength) UnmarshalText(b []byte) error {
	v, err := ParseLoopLength(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
