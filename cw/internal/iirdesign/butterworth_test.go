package iirdesign

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/cwdsp/dsp/filter/biquad"
	"github.com/cwbudde/cwdsp/internal/testutil"
)

func chainMagnitude(sections []biquad.Coefficients, freqHz, sampleRate float64) float64 {
	h := complex(1, 0)
	for i := range sections {
		h *= sections[i].Response(freqHz, sampleRate)
	}
	return cmplx.Abs(h)
}

func TestButterworthLowpass_UnityGainAtDC(t *testing.T) {
	const sampleRate = 48000.0
	const cutoff = 1200.0

	for _, order := range []int{2, 4, 6} {
		sections := ButterworthLowpass(order, cutoff, sampleRate)
		if len(sections) == 0 {
			t.Fatalf("order %d: expected non-empty cascade", order)
		}

		mag := chainMagnitude(sections, 0, sampleRate)
		if math.Abs(mag-1) > 1e-3 {
			t.Errorf("order %d: |H(0)| = %v, want ~1.0", order, mag)
		}
	}
}

func TestButterworthLowpass_InvalidOrderReturnsNil(t *testing.T) {
	if got := ButterworthLowpass(0, 1000, 48000); got != nil {
		t.Fatalf("order 0: got %v sections, want nil", got)
	}
	if got := ButterworthLowpass(100, 1000, 48000); got != nil {
		t.Fatalf("order 100: got %v sections, want nil", got)
	}
}

func TestButterworthBandpass_UnityGainAtCenter(t *testing.T) {
	const sampleRate = 48000.0
	const low, high = 650.0, 750.0
	center := (low + high) / 2

	sections := ButterworthBandpass(2, low, high, sampleRate)
	if len(sections) == 0 {
		t.Fatalf("expected non-empty cascade")
	}

	mag := chainMagnitude(sections, center, sampleRate)
	if math.Abs(mag-1) > 1e-3 {
		t.Errorf("|H(center)| = %v, want ~1.0", mag)
	}
}

func TestButterworthBandpass_DegenerateEdgesReturnNil(t *testing.T) {
	if got := ButterworthBandpass(2, 1000, 900, 48000); got != nil {
		t.Fatalf("low >= high: got %v sections, want nil", got)
	}
	if got := ButterworthBandpass(0, 650, 750, 48000); got != nil {
		t.Fatalf("order 0: got %v sections, want nil", got)
	}
}

func TestButterworthBandpass_ImpulseResponseStaysFinite(t *testing.T) {
	const sampleRate = 48000.0
	sections := ButterworthBandpass(4, 650, 750, sampleRate)
	if len(sections) == 0 {
		t.Fatalf("expected non-empty cascade")
	}

	chain := biquad.NewChain(sections)
	block := testutil.Impulse(20000, 0)
	chain.ProcessBlock(block)

	testutil.RequireFinite(t, block)

	tail := block[len(block)-100:]
	if maxAbs, err := testutil.MaxAbsDiff(tail, make([]float64, len(tail))); err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	} else if maxAbs > 1e-6 {
		t.Errorf("impulse response did not decay: max |tail| = %v", maxAbs)
	}
}

func TestButterworthLowpass_SectionCount(t *testing.T) {
	tests := []struct {
		order int
		want  int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{6, 3},
	}
	for _, tt := range tests {
		sections := ButterworthLowpass(tt.order, 1000, 48000)
		if len(sections) != tt.want {
			t.Errorf("order %d: got %d sections, want %d", tt.order, len(sections), tt.want)
		}
	}
}
