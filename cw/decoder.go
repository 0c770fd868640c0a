package cw

import (
	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/cwdsp/cw/internal/envelope"
	"github.com/cwbudde/cwdsp/cw/internal/iirdesign"
	"github.com/cwbudde/cwdsp/cw/internal/morse"
	"github.com/cwbudde/cwdsp/cw/internal/outputfilter"
	"github.com/cwbudde/cwdsp/cw/internal/timing"
	"github.com/cwbudde/cwdsp/dsp/filter/biquad"
)

const (
	subChunkSize  = 4096
	maxPatternLen = 15
	bandpassOrder = 2
)

// Decoder turns streaming audio into Morse text. All state is allocated
// at construction; Process and Finalize never allocate.
type Decoder struct {
	cfg Config

	bandpass *biquad.Chain
	env      *envelope.Detector
	fsm      *timing.FSM
	filt     *outputfilter.Filter

	features cpu.Features

	pattern    [maxPatternLen]byte
	patternLen int

	scratchAudio [subChunkSize]float64
	scratchOnOff [subChunkSize]int
}

// NewDecoder validates cfg and builds a Decoder. The only error cases are
// structurally invalid configuration; there is no allocation-failure case
// to report.
func NewDecoder(cfg Config) (*Decoder, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	d := &Decoder{cfg: cfg, features: cpu.DetectFeatures()}

	if bp := buildBandpass(cfg); bp != nil {
		d.bandpass = bp
	}

	timingMode := timing.Kalman
	if cfg.TimingMode == EMATiming {
		timingMode = timing.EMA
	}

	d.env = envelope.NewDetector(cfg.envelopeMode(), cfg.SampleRate, cfg.EnvelopeWindow,
		cfg.ThresholdOn, cfg.ThresholdOff, cfg.MultipassPasses)

	d.fsm = timing.New(timing.Config{
		Mode:             timingMode,
		SampleRate:       cfg.SampleRate,
		InitialWPM:       cfg.InitialWPM,
		MinWPM:           cfg.MinWPM,
		MaxWPM:           cfg.MaxWPM,
		MinElementRatio:  cfg.MinElementRatio,
		MinElementSecond: cfg.MinElementDuration,
	})

	d.filt = outputfilter.New(cfg.MinWordLength)

	return d, nil
}

func buildBandpass(cfg Config) *biquad.Chain {
	if cfg.Bandwidth <= 0 {
		return nil
	}

	low := cfg.CenterFreq - cfg.Bandwidth/2
	high := cfg.CenterFreq + cfg.Bandwidth/2
	if low < 1 {
		low = 1
	}
	nyquist := cfg.SampleRate / 2
	if high >= nyquist {
		high = nyquist - 1
	}
	if low >= high {
		return nil
	}

	coeffs := iirdesign.ButterworthBandpass(bandpassOrder, low, high, cfg.SampleRate)
	return biquad.NewChain(coeffs)
}

func validateConfig(cfg Config) error {
	if cfg.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if cfg.ThresholdOn <= 0 || cfg.ThresholdOn > 1 ||
		cfg.ThresholdOff <= 0 || cfg.ThresholdOff > 1 ||
		cfg.ThresholdOff >= cfg.ThresholdOn {
		return ErrInvalidThresholds
	}
	if cfg.MinWPM <= 0 || cfg.MinWPM >= cfg.MaxWPM {
		return ErrInvalidWPMRange
	}
	if cfg.EnvelopeWindow <= 0 {
		return ErrInvalidEnvelope
	}
	if cfg.MultipassPasses < 1 || cfg.MultipassPasses > 8 {
		return ErrInvalidMultipass
	}
	if cfg.MinWordLength < 0 {
		return ErrInvalidMinWordLen
	}
	if cfg.MinElementRatio < 0 || cfg.MinElementDuration < 0 {
		return ErrInvalidElementGuard
	}
	return nil
}

// Process decodes audio, writing decoded ASCII into out and returning the
// number of bytes written. It never writes past len(out). State persists
// across calls, so audio may be fed in arbitrarily sized chunks without
// affecting the decoded output.
func (d *Decoder) Process(audio []float64, out []byte) int {
	totalWritten := 0
	processed := 0
	n := len(audio)

	for processed < n && totalWritten < len(out) {
		chunk := n - processed
		if chunk > subChunkSize {
			chunk = subChunkSize
		}

		work := d.scratchAudio[:chunk]
		copy(work, audio[processed:processed+chunk])

		if d.bandpass != nil {
			d.bandpass.ProcessBlock(work)
		}

		onOff := d.scratchOnOff[:chunk]
		d.env.Process(work, onOff)

		for i := 0; i < chunk && totalWritten < len(out); i++ {
			events := d.fsm.Step(onOff[i] == 1)
			for e := 0; e < events.Len() && totalWritten < len(out); e++ {
				totalWritten += d.feedElement(events.At(e).Kind, out[totalWritten:])
			}
		}

		processed += chunk
	}

	return totalWritten
}

// Finalize flushes any pending mark, pattern and word at stream end,
// writing decoded ASCII into out and returning the number of bytes
// written.
func (d *Decoder) Finalize(out []byte) int {
	written := 0

	events := d.fsm.Finalize()
	for i := 0; i < events.Len() && written < len(out); i++ {
		written += d.feedElement(events.At(i).Kind, out[written:])
	}

	if d.patternLen > 0 && written < len(out) {
		written += d.feedPattern(out[written:])
	}

	if written < len(out) {
		written += d.filt.Flush(out[written:])
	}

	return written
}

// WPM returns the decoder's current speed estimate.
func (d *Decoder) WPM() float64 { return d.fsm.WPM() }

// Features returns the CPU SIMD capabilities detected at construction.
// The decoder does not select a processing kernel from it; it is exposed
// purely as runtime diagnostics, the same role capability detection plays
// in the predecessor's dispatch layer.
func (d *Decoder) Features() cpu.Features { return d.features }

// Reset clears all transient state and re-initializes the timing
// estimator from the configured InitialWPM, without reallocating.
func (d *Decoder) Reset() {
	if d.bandpass != nil {
		d.bandpass.Reset()
	}
	d.env.Reset()
	d.fsm.Reset(d.cfg.InitialWPM)
	d.patternLen = 0
	d.filt.Reset()
}

func (d *Decoder) feedElement(kind timing.Kind, out []byte) int {
	switch kind {
	case timing.Dit:
		d.appendPattern('.')
		return 0
	case timing.Dah:
		d.appendPattern('-')
		return 0
	case timing.Char:
		return d.feedPattern(out)
	case timing.Word:
		written := d.feedPattern(out)
		if written < len(out) {
			written += d.filt.Feed(' ', out[written:])
		}
		return written
	}
	return 0
}

func (d *Decoder) appendPattern(ch byte) {
	if d.patternLen < len(d.pattern) {
		d.pattern[d.patternLen] = ch
		d.patternLen++
	}
}

// feedPattern resolves the pending pattern to one or two characters and
// runs each through the output filter. The lookup reads d.pattern
// directly (no string conversion) and writes into a stack-allocated
// [2]byte, so no heap allocation occurs on this per-character hot path.
func (d *Decoder) feedPattern(out []byte) int {
	if d.patternLen == 0 {
		return 0
	}

	var merged [2]byte
	n := morse.LookupMerged(d.pattern[:d.patternLen], &merged)
	d.patternLen = 0

	written := 0
	for i := 0; i < n && written < len(out); i++ {
		written += d.filt.Feed(merged[i], out[written:])
	}
	return written
}
