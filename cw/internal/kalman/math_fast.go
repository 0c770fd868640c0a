//go:build fastmath

package kalman

import "github.com/meko-christian/algo-approx"

// mathLog computes the natural logarithm using a fast polynomial
// approximation. The gate/threshold/duration math in this package runs
// per classified element, not per sample, but stays on this path under the
// fastmath tag for consistency with the rest of the decoder's hot loops.
func mathLog(x float64) float64 { return approx.FastLog(x) }

// mathExp computes e^x using a fast polynomial approximation.
func mathExp(x float64) float64 { return approx.FastExp(x) }
