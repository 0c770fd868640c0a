//go:build !fastmath

package kalman

import "math"

// mathLog computes the natural logarithm using the standard library.
func mathLog(x float64) float64 { return math.Log(x) }

// mathExp computes e^x using the standard library.
func mathExp(x float64) float64 { return math.Exp(x) }
