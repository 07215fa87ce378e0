package utils

import "math"

// MaxUint24 is the largest unsigned 24-bit PCM value.
const MaxUint24 = 1<<24 - 1

// Float64ToUint24 maps a sample in [-1, 1] to unsigned 24-bit PCM:
// round((x+1)/2 * (2^24-1)). Values outside [-1, 1] are clamped.
func Float64ToUint24(x float64) uint32 {
	normalized := (x + 1.0) * 0.5

	// Clamp; NaN maps to 0.
	if normalized > 1 {
		normalized = 1
	} else if !(normalized >= 0) {
		normalized = 0
	}

	return uint32(math.Round(normalized * MaxUint24))
}

// Uint24ToFloat64 inverts Float64ToUint24 up to one quantization step.
func Uint24ToFloat64(v uint32) float64 {
	v &= MaxUint24

	return float64(v)/MaxUint24*2.0 - 1.0
}
