// Package envelope converts band-limited audio into a per-sample on/off
// trace via rectification, smoothing, peak tracking and hysteretic
// thresholding.
package envelope
