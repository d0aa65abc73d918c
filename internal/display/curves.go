package display

import "math"

// Channel multiplier floors at maximum warmth. Red is never attenuated;
// green and blue fall linearly to these values as warmth goes 0 -> 1.
const (
	greenFloor = 0.82
	blueFloor  = 0.56
)

// maxContrastExponent stands in for the infinite exponent at contrast = 1.0,
// where the power-law formula would divide by zero. Output is near-binary.
const maxContrastExponent = 64.0

// ChannelMultipliers returns the per-channel gains (r, g, b) for a warmth
// level in [0,1]. Multipliers are monotonically non-increasing in warmth.
func ChannelMultipliers(warmth float64) (r, g, b float64) {
	warmth = clamp(warmth, 0, 1)
	r = 1.0
	g = 1.0 - (1.0-greenFloor)*warmth
	b = 1.0 - (1.0-blueFloor)*warmth
	return r, g, b
}

// ApplyContrast maps t in [0,1] through a symmetric S-curve around 0.5.
// Contrast 0.5 is the identity; values above steepen the curve, values below
// flatten it. Endpoints and the midpoint are fixed for every contrast level.
func ApplyContrast(t, contrast float64) float64 {
	t = clamp(t, 0, 1)
	contrast = clamp(contrast, 0, 1)

	var e float64
	if contrast >= 1 {
		e = maxContrastExponent
	} else {
		e = contrast / (1 - contrast)
	}

	if t < 0.5 {
		return 0.5 * math.Pow(2*t, e)
	}
	return 1 - 0.5*math.Pow(2*(1-t), e)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
