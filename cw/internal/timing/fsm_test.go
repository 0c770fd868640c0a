package timing

import "testing"

func newTestFSM(mode Mode) *FSM {
	return New(Config{
		Mode:             mode,
		SampleRate:       48000,
		InitialWPM:       20,
		MinWPM:           5,
		MaxWPM:           60,
		MinElementRatio:  0.3,
		MinElementSecond: 0.010,
	})
}

// feedRun pushes `on` for durSamples, returning the events from the final
// sample (the transition sample).
func feedRun(f *FSM, on bool, durSamples int) Events {
	var last Events
	for i := 0; i < durSamples; i++ {
		last = f.Step(on)
	}
	return last
}

func TestFSM_DitAndDah(t *testing.T) {
	f := newTestFSM(Kalman)
	ditSamples := 2880 // 60ms @ 48kHz, ~20 WPM dit

	// mark (dit) then gap then mark (dah) then trailing gap to flush it.
	feedRun(f, true, ditSamples)
	events := feedRun(f, false, ditSamples) // off->on edge fires on next "on"... handled below
	_ = events

	// Drive an explicit on->off transition for a dit.
	f2 := newTestFSM(Kalman)
	for i := 0; i < ditSamples; i++ {
		f2.Step(true)
	}
	ev := f2.Step(false)
	if ev.Len() != 1 || ev.At(0).Kind != Dit {
		t.Fatalf("expected a single Dit event, got %+v", ev)
	}

	dahSamples := ditSamples * 3
	for i := 0; i < dahSamples; i++ {
		f2.Step(true)
	}
	ev = f2.Step(false)
	if ev.Len() != 1 || ev.At(0).Kind != Dah {
		t.Fatalf("expected a single Dah event, got %+v", ev)
	}
}

func TestFSM_NoiseBelowFloorIsIgnored(t *testing.T) {
	f := newTestFSM(Kalman)
	for i := 0; i < 10; i++ {
		f.Step(true)
	}
	ev := f.Step(false)
	if ev.Len() != 0 {
		t.Fatalf("expected noise-length mark to produce no event, got %+v", ev)
	}
}

func TestFSM_GapClassification(t *testing.T) {
	f := newTestFSM(Kalman)
	ditSamples := 2880

	for i := 0; i < ditSamples; i++ {
		f.Step(true)
	}
	f.Step(false) // consume the dit event

	// Char-space gap: long enough to cross char_thr but not word_thr.
	charGap := ditSamples * 3
	for i := 0; i < charGap-1; i++ {
		f.Step(false)
	}
	ev := f.Step(true)
	if ev.Len() != 1 || ev.At(0).Kind != Char {
		t.Fatalf("expected Char gap event, got %+v", ev)
	}
}

func TestFSM_GapSkippedBeforeFirstSignal(t *testing.T) {
	f := newTestFSM(Kalman)
	for i := 0; i < 100000; i++ {
		f.Step(false)
	}
	ev := f.Step(true)
	if ev.Len() != 0 {
		t.Fatalf("expected no gap event before any signal seen, got %+v", ev)
	}
}

func TestFSM_FinalizeClassifiesPendingMark(t *testing.T) {
	f := newTestFSM(Kalman)
	ditSamples := 2880
	for i := 0; i < ditSamples; i++ {
		f.Step(true)
	}
	ev := f.Step(false)
	if ev.Len() != 1 {
		t.Fatalf("setup: expected first dit event")
	}

	for i := 0; i < ditSamples; i++ {
		f.Step(true)
	}
	ev = f.Finalize()
	if ev.Len() != 1 || ev.At(0).Kind != Dit {
		t.Fatalf("expected Finalize to classify the pending mark, got %+v", ev)
	}
}

func TestFSM_EMAUpdatesOnlyOnDit(t *testing.T) {
	f := newTestFSM(EMA)
	before := f.avgDit

	dahSamples := int(before * 3)
	for i := 0; i < dahSamples; i++ {
		f.Step(true)
	}
	f.Step(false)

	if f.avgDit != before {
		t.Fatalf("EMA dit estimate changed on a Dah classification: %v -> %v", before, f.avgDit)
	}
}

func TestFSM_Reset(t *testing.T) {
	f := newTestFSM(Kalman)
	for i := 0; i < 1000; i++ {
		f.Step(true)
	}
	f.Reset(20)

	if f.onDur != 0 || f.offDur != 0 || f.prevOn || f.seenSignal || f.elementCount != 0 {
		t.Fatalf("Reset left transient state non-zero: %+v", f)
	}
}
