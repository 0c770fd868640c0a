// Package multipass implements a cascade of moving-average passes with
// O(1) per-sample running-sum updates and ring-buffered state that carries
// correctly across chunk boundaries regardless of how a caller slices its
// audio stream.
package multipass
