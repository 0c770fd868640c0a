package envelope

import "math"

// piTimesSqrt returns pi*sqrt(passes), the denominator term relating a
// multipass cascade's cutoff frequency to its per-pass window size.
func piTimesSqrt(passes int) float64 {
	return math.Pi * math.Sqrt(float64(passes))
}
