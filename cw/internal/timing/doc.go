// Package timing implements the sample-driven element finite state
// machine: it consumes on/off bits and classifies mark and gap durations
// into Morse elements and inter-character/inter-word boundaries.
package timing
