// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// WrapFloat32 returns x modulo n moved into [0, n).
// The remainder is truncated like C fmod before the shift, so for x in (-n, n)
// the value is exact; -0 is returned as-is.
func WrapFloat32(x, n float32) float32 {
	r := float32(math.Mod(float64(x), float64(n)))
	if r >= 0 {
		return r
	}
	return r + n
}

// ModFloat32 is the truncated remainder of x / n (the sign follows x).
func ModFloat32(x, n float32) float32 {
	return float32(math.Mod(float64(x), float64(n)))
}

// FloorInt returns floor(x) as an int.
func FloorInt(x float32) int {
	return int(math.Floor(float64(x)))
}

// WrapInt64 returns x modulo n in [0, n). n must be positive.
func WrapInt64(x, n int64) int64 {
	r := x % n
	if r < 0 {
		r += n
	}
	return r
}
