package envelope

import (
	"github.com/cwbudde/cwdsp/cw/internal/iirdesign"
	"github.com/cwbudde/cwdsp/cw/internal/multipass"
	"github.com/cwbudde/cwdsp/dsp/filter/biquad"
)

// Mode selects the smoothing stage of the envelope pipeline.
type Mode int

const (
	// IIR smooths with a second-order Butterworth lowpass.
	IIR Mode = iota
	// Multipass smooths with a cascaded moving-average (the default).
	Multipass
)

const (
	subChunkSize  = 4096
	minThreshold  = 1e-10
	peakAttackMix = 0.995
	peakDecayMix  = 0.005
)

type smoother interface {
	Smooth(buf []float64)
	Reset()
}

type iirSmoother struct{ chain *biquad.Chain }

func (s *iirSmoother) Smooth(buf []float64) { s.chain.ProcessBlock(buf) }
func (s *iirSmoother) Reset()               { s.chain.Reset() }

type multipassSmoother struct{ cascade *multipass.Cascade }

func (s *multipassSmoother) Smooth(buf []float64) { s.cascade.Process(buf) }
func (s *multipassSmoother) Reset()               { s.cascade.Reset() }

// Detector converts audio to a binary on/off trace: rectify, smooth, track
// peak, threshold with hysteresis. State persists across Process calls and
// no allocation occurs once constructed.
type Detector struct {
	smoother smoother

	thresholdOn  float64
	thresholdOff float64

	peakLevel float64
	prevState int

	scratch [subChunkSize]float64
}

// NewDetector builds an envelope detector. windowSeconds sets the smoothing
// cutoff (shared meaning for both modes): the IIR lowpass cutoff is
// 1/(2*windowSeconds); the multipass window size is derived from the same
// cutoff assuming a Gaussian-equivalent cascade of multipassPasses stages.
func NewDetector(mode Mode, sampleRate, windowSeconds, thresholdOn, thresholdOff float64, multipassPasses int) *Detector {
	d := &Detector{
		thresholdOn:  thresholdOn,
		thresholdOff: thresholdOff,
	}

	cutoffHz := 1.0 / (2.0 * windowSeconds)

	switch mode {
	case IIR:
		coeffs := iirdesign.ButterworthLowpass(2, cutoffHz, sampleRate)
		d.smoother = &iirSmoother{chain: biquad.NewChain(coeffs)}
	default:
		window := int(sampleRate / (cutoffHz * piTimesSqrt(multipassPasses)))
		d.smoother = &multipassSmoother{cascade: multipass.NewCascade(multipassPasses, window)}
	}

	return d
}

// Process rectifies, smooths and thresholds audio into onOff (same length,
// values 0 or 1), processing in sub-chunks of at most 4096 samples to bound
// scratch memory. State (peak level, hysteresis bit, smoother history)
// carries across calls.
func (d *Detector) Process(audio []float64, onOff []int) {
	n := len(audio)
	processed := 0

	for processed < n {
		chunk := n - processed
		if chunk > subChunkSize {
			chunk = subChunkSize
		}

		tmp := d.scratch[:chunk]
		for i, x := range audio[processed : processed+chunk] {
			tmp[i] = absFloat(x)
		}

		d.smoother.Smooth(tmp)

		chunkPeak := 0.0
		for _, v := range tmp {
			if v > chunkPeak {
				chunkPeak = v
			}
		}

		if chunkPeak > d.peakLevel {
			d.peakLevel = chunkPeak
		} else {
			d.peakLevel = peakAttackMix*d.peakLevel + peakDecayMix*chunkPeak
		}

		onThr := d.peakLevel * d.thresholdOn
		offThr := d.peakLevel * d.thresholdOff
		if onThr < minThreshold {
			onThr = minThreshold
		}
		if offThr < minThreshold {
			offThr = minThreshold
		}

		state := d.prevState
		dst := onOff[processed : processed+chunk]
		for i, v := range tmp {
			if state == 1 {
				state = boolToState(v >= offThr)
			} else {
				state = boolToState(v >= onThr)
			}
			dst[i] = state
		}
		d.prevState = state

		processed += chunk
	}
}

// Reset clears peak level, hysteresis state and smoother history.
func (d *Detector) Reset() {
	d.peakLevel = 0
	d.prevState = 0
	d.smoother.Reset()
}

// PeakLevel returns the current tracked peak, for diagnostics.
func (d *Detector) PeakLevel() float64 { return d.peakLevel }

func boolToState(b bool) int {
	if b {
		return 1
	}
	return 0
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
