// Package iirdesign builds Butterworth lowpass and bandpass cascades as
// second-order sections (biquad.Coefficients) via the analog prototype ->
// bilinear transform route.
package iirdesign
