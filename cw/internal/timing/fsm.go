package timing

import "github.com/cwbudde/cwdsp/cw/internal/kalman"

// Mode selects the duration classifier.
type Mode int

const (
	// Kalman classifies using the 5-state log-domain estimator (default).
	Kalman Mode = iota
	// EMA classifies using a single exponential moving average of dit
	// duration, with fixed ratio thresholds.
	EMA
)

// Kind identifies the classification of one completed element or gap.
type Kind int

const (
	Dit Kind = iota
	Dah
	Char
	Word
)

const (
	emaAlpha          = 0.1
	ditDahThreshold   = 2.0
	charPauseRatio    = 2.5
	wordPauseRatio    = 6.0
	kalmanWarmupCount = 8
)

// Event is one classified element or boundary, in the order it was
// produced.
type Event struct {
	Kind     Kind
	Duration int // samples
}

// Events holds at most two events produced by a single Step call: a
// pending mark classification followed by a gap classification, should
// both complete on the same sample. A fixed [2]Event backing array keeps
// this allocation-free.
type Events struct {
	items [2]Event
	n     int
}

// Len returns the number of events produced.
func (e *Events) Len() int { return e.n }

// At returns the i-th event.
func (e *Events) At(i int) Event { return e.items[i] }

func (e *Events) append(k Kind, dur int) {
	if e.n < len(e.items) {
		e.items[e.n] = Event{Kind: k, Duration: dur}
		e.n++
	}
}

// FSM tracks mark/gap run lengths and classifies them into Morse elements
// using either the Kalman estimator or a simple EMA fallback.
type FSM struct {
	mode       Mode
	sampleRate float64

	minElementRatio float64
	minElementAbs   int

	avgDit float64
	kalman *kalman.Estimator

	onDur, offDur int
	prevOn        bool
	seenSignal    bool
	elementCount  int
}

// Config bundles the timing classifier's construction parameters.
type Config struct {
	Mode             Mode
	SampleRate       float64
	InitialWPM       float64
	MinWPM           float64
	MaxWPM           float64
	MinElementRatio  float64
	MinElementSecond float64
}

// New builds an element FSM from cfg.
func New(cfg Config) *FSM {
	f := &FSM{
		mode:            cfg.Mode,
		sampleRate:      cfg.SampleRate,
		minElementRatio: cfg.MinElementRatio,
		minElementAbs:   int(cfg.MinElementSecond * cfg.SampleRate),
	}

	ditSeconds := 1.2 / cfg.InitialWPM
	f.avgDit = ditSeconds * cfg.SampleRate

	if cfg.Mode == Kalman {
		f.kalman = kalman.NewEstimator(cfg.SampleRate, cfg.InitialWPM, cfg.MinWPM, cfg.MaxWPM)
	}

	return f
}

// Step feeds one on/off sample and returns the events produced by any
// transition edge completed on this sample. At most one mark-edge event
// and one gap-edge event can be produced per sample (a single sample can
// never complete both a 1->0 and a 0->1 transition), but both are
// collected into the same Events value in edge order — mark first, then
// gap — so a caller consuming events in order never silently drops either
// classification.
func (f *FSM) Step(on bool) Events {
	var events Events

	if on {
		f.onDur++
	} else {
		f.offDur++
	}

	if f.prevOn && !on {
		kind, ok := f.classifySignal(f.onDur)
		if ok {
			events.append(kind, f.onDur)
		}
		f.onDur = 0
		f.seenSignal = true
	}

	if !f.prevOn && on {
		if f.seenSignal {
			kind, ok := f.classifyGap(f.offDur)
			if ok {
				events.append(kind, f.offDur)
			}
		}
		f.offDur = 0
	}

	f.prevOn = on
	return events
}

// Finalize classifies any still-pending mark at stream end.
func (f *FSM) Finalize() Events {
	var events Events
	if f.onDur > 0 && f.seenSignal {
		kind, ok := f.classifySignal(f.onDur)
		if ok {
			events.append(kind, f.onDur)
		}
		f.onDur = 0
	}
	return events
}

func (f *FSM) classifySignal(dur int) (Kind, bool) {
	if f.mode == Kalman {
		return f.classifySignalKalman(dur)
	}
	return f.classifySignalEMA(dur)
}

func (f *FSM) classifyGap(dur int) (Kind, bool) {
	if f.mode == Kalman {
		return f.classifyGapKalman(dur)
	}
	return f.classifyGapEMA(dur)
}

func (f *FSM) minDuration(ditEstimate float64) int {
	minDur := int(ditEstimate * f.minElementRatio)
	if minDur < f.minElementAbs {
		minDur = f.minElementAbs
	}
	return minDur
}

func (f *FSM) classifySignalKalman(dur int) (Kind, bool) {
	avgDit := f.kalman.Duration(kalman.Dit)
	if dur < f.minDuration(avgDit) {
		return 0, false
	}

	f.elementCount++
	warm := f.elementCount > kalmanWarmupCount

	thresh := f.kalman.Threshold(kalman.Dit, kalman.Dah)
	if float64(dur) < thresh {
		if warm {
			f.kalman.Update(kalman.Dit, float64(dur))
		}
		return Dit, true
	}

	if warm {
		f.kalman.Update(kalman.Dah, float64(dur))
	}
	return Dah, true
}

func (f *FSM) classifySignalEMA(dur int) (Kind, bool) {
	if dur < f.minDuration(f.avgDit) {
		return 0, false
	}

	thresh := f.avgDit * ditDahThreshold
	if float64(dur) < thresh {
		// Only a Dit refines avgDit; a Dah leaves it unchanged on purpose.
		f.avgDit = (1-emaAlpha)*f.avgDit + emaAlpha*float64(dur)
		return Dit, true
	}
	return Dah, true
}

func (f *FSM) classifyGapKalman(dur int) (Kind, bool) {
	warm := f.elementCount > kalmanWarmupCount

	wordThresh := f.kalman.Threshold(kalman.CharSpace, kalman.WordSpace)
	charThresh := f.kalman.Threshold(kalman.ElemSpace, kalman.CharSpace)

	switch {
	case float64(dur) >= wordThresh:
		if warm {
			f.kalman.Update(kalman.WordSpace, float64(dur))
		}
		return Word, true
	case float64(dur) >= charThresh:
		if warm {
			f.kalman.Update(kalman.CharSpace, float64(dur))
		}
		return Char, true
	default:
		if warm {
			f.kalman.Update(kalman.ElemSpace, float64(dur))
		}
		return 0, false
	}
}

func (f *FSM) classifyGapEMA(dur int) (Kind, bool) {
	wordThresh := f.avgDit * wordPauseRatio
	charThresh := f.avgDit * charPauseRatio

	switch {
	case float64(dur) >= wordThresh:
		return Word, true
	case float64(dur) >= charThresh:
		return Char, true
	default:
		return 0, false
	}
}

// WPM returns the current speed estimate.
func (f *FSM) WPM() float64 {
	if f.mode == Kalman {
		return f.kalman.WPM()
	}
	ditSeconds := f.avgDit / f.sampleRate
	if ditSeconds <= 0 {
		return 20
	}
	return 1.2 / ditSeconds
}

// Reset reinitializes all transient FSM and estimator state from
// initialWPM.
func (f *FSM) Reset(initialWPM float64) {
	ditSeconds := 1.2 / initialWPM
	f.avgDit = ditSeconds * f.sampleRate
	f.onDur = 0
	f.offDur = 0
	f.prevOn = false
	f.seenSignal = false
	f.elementCount = 0

	if f.mode == Kalman {
		f.kalman.Reset(initialWPM)
	}
}
