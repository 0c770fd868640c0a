// Package cw decodes Morse code (CW) from a streaming audio signal: a
// bandpass/envelope front end recovers an on/off keying trace, a timing
// classifier turns run lengths into dits, dahs and spaces, and a pattern
// table converts the element stream to text.
package cw

import "github.com/cwbudde/cwdsp/cw/internal/envelope"

// TimingMode selects the duration classifier used by the timing FSM.
type TimingMode int

const (
	// KalmanTiming classifies durations with the 5-state log-domain
	// Kalman estimator (default).
	KalmanTiming TimingMode = iota
	// EMATiming classifies durations against a single exponential moving
	// average of dit duration.
	EMATiming
)

// EnvelopeMode selects the envelope smoothing stage.
type EnvelopeMode int

const (
	// MultipassEnvelope smooths with a cascaded moving average (default).
	MultipassEnvelope EnvelopeMode = iota
	// IIREnvelope smooths with a second-order Butterworth lowpass.
	IIREnvelope
)

// Config bundles every tuning parameter for a Decoder. Zero value is not
// meaningful; use DefaultConfig and override individual fields.
type Config struct {
	SampleRate float64
	CenterFreq float64
	Bandwidth  float64

	ThresholdOn  float64
	ThresholdOff float64

	TimingMode   TimingMode
	EnvelopeMode EnvelopeMode

	InitialWPM float64
	MinWPM     float64
	MaxWPM     float64

	EnvelopeWindow     float64
	MinElementRatio    float64
	MinElementDuration float64
	MinWordLength      int
	MultipassPasses    int
	UseHMM             bool
}

// DefaultConfig returns the decoder's default tuning: a 700 Hz, 100 Hz wide
// bandpass at 48 kHz, Kalman timing with multipass envelope smoothing,
// 20 WPM initial speed bounded to [5, 60].
func DefaultConfig() Config {
	return Config{
		SampleRate: 48000,
		CenterFreq: 700,
		Bandwidth:  100,

		ThresholdOn:  0.5,
		ThresholdOff: 0.4,

		TimingMode:   KalmanTiming,
		EnvelopeMode: MultipassEnvelope,

		InitialWPM: 20,
		MinWPM:     5,
		MaxWPM:     60,

		EnvelopeWindow:     0.005,
		MinElementRatio:    0.3,
		MinElementDuration: 0.010,
		MinWordLength:      2,
		MultipassPasses:    3,
		UseHMM:             false,
	}
}

func (c Config) envelopeMode() envelope.Mode {
	if c.EnvelopeMode == IIREnvelope {
		return envelope.IIR
	}
	return envelope.Multipass
}
