package cw

import "errors"

// Sentinel errors returned by NewDecoder for a structurally invalid
// Config. Use errors.Is to test for a specific cause.
var (
	ErrInvalidSampleRate   = errors.New("cw: sample rate must be positive")
	ErrInvalidThresholds   = errors.New("cw: threshold_off must be less than threshold_on, both in (0, 1]")
	ErrInvalidWPMRange     = errors.New("cw: min_wpm must be positive and less than max_wpm")
	ErrInvalidEnvelope     = errors.New("cw: envelope_window must be positive")
	ErrInvalidMultipass    = errors.New("cw: multipass_passes must be in [1, 8]")
	ErrInvalidMinWordLen   = errors.New("cw: min_word_length must be non-negative")
	ErrInvalidElementGuard = errors.New("cw: min_element_ratio and min_element_duration must be non-negative")
)
