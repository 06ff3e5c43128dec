// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a sample in [-1, 1] to 16-bit PCM. Values outside
// the range are clipped and NaN becomes silence.
func Float32ToInt16(x float32) int16 {
	switch {
	case x != x:
		return 0
	case x > 1:
		x = 1
	case x < -1:
		x = -1
	}

	// 32767 keeps +1 from wrapping.
	return int16(x * 32767.0)
}

// AppendInt16 converts src and appends it to dst.
func AppendInt16(dst []int16, src []float32) []int16 {
	dst = append(dst, make([]int16, len(src))...)
	out := dst[len(dst)-len(src):]
	for i, x := range src {
		out[i] = Float32ToInt16(x)
	}
	return dst
}
