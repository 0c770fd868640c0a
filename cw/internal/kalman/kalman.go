package kalman

import (
	"math"

	"github.com/cwbudde/cwdsp/dsp/core"
)

// State indexes the 5-vector tracked by the estimator.
type State int

const (
	Dit State = iota
	Dah
	ElemSpace
	CharSpace
	WordSpace
	numStates
)

const (
	processNoise   = 0.01
	measureNoise   = 0.1
	initialP       = 0.1
	innovationGate = math.Ln2
)

// Estimator tracks the five Morse element/gap durations in log-sample
// space with a scalar Kalman update per measurement and Joseph-form
// covariance propagation. All state is fixed-size; no allocation occurs
// after construction.
type Estimator struct {
	sampleRate float64
	minWPM     float64
	maxWPM     float64

	x [numStates]float64
	p [numStates][numStates]float64
	q [numStates]float64
	r float64
	g float64
}

// NewEstimator builds an estimator initialized from initialWPM, bounded to
// [minWPM, maxWPM].
func NewEstimator(sampleRate, initialWPM, minWPM, maxWPM float64) *Estimator {
	e := &Estimator{
		sampleRate: sampleRate,
		minWPM:     minWPM,
		maxWPM:     maxWPM,
		r:          measureNoise,
		g:          innovationGate,
	}
	for i := range e.q {
		e.q[i] = processNoise
	}
	e.Reset(initialWPM)
	return e
}

// Reset reinitializes x from initialWPM and P to its initial diagonal,
// without reallocating.
func (e *Estimator) Reset(initialWPM float64) {
	ditSamples := (1.2 / initialWPM) * e.sampleRate

	e.x[Dit] = mathLog(ditSamples)
	e.x[Dah] = mathLog(ditSamples * 3)
	e.x[ElemSpace] = mathLog(ditSamples)
	e.x[CharSpace] = mathLog(ditSamples * 3)
	e.x[WordSpace] = mathLog(ditSamples * 7)

	for i := range e.p {
		for j := range e.p[i] {
			e.p[i][j] = 0
		}
		e.p[i][i] = initialP
	}
}

// Update folds a single measurement of duration (in samples) for the given
// state into the filter. Returns false if the innovation gate rejects the
// measurement (or the duration is non-positive); the filter is unchanged
// in that case.
func (e *Estimator) Update(state State, durationSamples float64) bool {
	if durationSamples <= 0 {
		return false
	}

	idx := int(state)
	z := mathLog(durationSamples)
	innovation := z - e.x[idx]

	if math.Abs(innovation) > e.g {
		return false
	}

	s := e.p[idx][idx] + e.r
	if s < 1e-10 {
		s = 1e-10
	}

	var k [numStates]float64
	for i := range k {
		k[i] = e.p[i][idx] / s
	}

	for i := range e.x {
		e.x[i] += k[i] * innovation
	}

	var pNew [numStates][numStates]float64
	for i := 0; i < int(numStates); i++ {
		for j := 0; j < int(numStates); j++ {
			ikhP := e.p[i][j] - k[i]*e.p[idx][j]
			v := ikhP - e.p[i][idx]*k[j] + k[i]*e.p[idx][idx]*k[j]
			v += k[i] * e.r * k[j]
			pNew[i][j] = v
		}
	}

	for i := 0; i < int(numStates); i++ {
		for j := 0; j < int(numStates); j++ {
			e.p[i][j] = pNew[i][j]
		}
		e.p[i][i] += e.q[i]
	}

	e.applyBounds()
	return true
}

func (e *Estimator) applyBounds() {
	minDit := (1.2 / e.maxWPM) * e.sampleRate
	maxDit := (1.2 / e.minWPM) * e.sampleRate
	logMin := math.Log(minDit)
	logMax := math.Log(maxDit)

	e.x[Dit] = core.Clamp(e.x[Dit], logMin, logMax)

	ld := e.x[Dit]
	e.x[Dah] = core.Clamp(e.x[Dah], ld+math.Log(2), ld+math.Log(4))
	e.x[ElemSpace] = core.Clamp(e.x[ElemSpace], ld-math.Ln2, ld+math.Ln2)
	e.x[CharSpace] = core.Clamp(e.x[CharSpace], ld+math.Log(2), ld+math.Log(4))
	e.x[WordSpace] = core.Clamp(e.x[WordSpace], ld+math.Log(5), ld+math.Log(9))
}

// Duration returns exp(x[state]), the current duration estimate in
// samples.
func (e *Estimator) Duration(state State) float64 {
	return mathExp(e.x[state])
}

// Threshold returns the geometric mean exp((x[a]+x[b])/2) of two state
// durations, used as a decision boundary between adjacent classes.
func (e *Estimator) Threshold(a, b State) float64 {
	return mathExp((e.x[a] + e.x[b]) / 2)
}

// WPM returns the current speed estimate derived from the dit state.
func (e *Estimator) WPM() float64 {
	ditSamples := mathExp(e.x[Dit])
	ditSeconds := ditSamples / e.sampleRate
	if ditSeconds <= 0 {
		return 20
	}
	return 1.2 / ditSeconds
}

// Covariance returns a copy of the current covariance matrix, for tests
// that verify symmetry and positive-semi-definiteness.
func (e *Estimator) Covariance() [numStates][numStates]float64 {
	return e.p
}
