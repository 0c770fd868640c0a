package biquad

import (
	"math/cmplx"
	"testing"
)

func TestResponse_Passthrough(t *testing.T) {
	// Passthrough (B0=1) should have magnitude 1 and phase 0 at all frequencies.
	c := passthrough()
	sr := 48000.0
	for _, freq := range []float64{0, 100, 1000, 10000, 24000} {
		h := c.Response(freq, sr)
		mag := cmplx.Abs(h)
		if !almostEqual(mag, 1, 1e-12) {
			t.Errorf("freq=%v: |H|=%v, want 1", freq, mag)
		}
	}
}

func TestResponse_Allpass(t *testing.T) {
	// Second-order allpass: B0=A2, B1=A1, B2=1, A1=A1, A2=A2
	// |H(f)| = 1 for all f.
	a1, a2 := -0.5, 0.3
	c := Coefficients{B0: a2, B1: a1, B2: 1, A1: a1, A2: a2}
	sr := 48000.0
	for _, freq := range []float64{100, 500, 1000, 5000, 10000, 20000} {
		h := c.Response(freq, sr)
		mag := cmplx.Abs(h)
		if !almostEqual(mag, 1, 1e-10) {
			t.Errorf("freq=%v: |H|=%.15f, want 1", freq, mag)
		}
	}
}

// TestResponse_CascadeIsProductOfSections exercises the identity the
// Butterworth gain normalizer (cw/internal/iirdesign) relies on: a
// cascade's response at any frequency is the product of each section's
// own Response.
func TestResponse_CascadeIsProductOfSections(t *testing.T) {
	coeffs := twoSectionCoeffs()
	sr := 48000.0

	for _, freq := range []float64{100, 1000, 10000} {
		h1 := coeffs[0].Response(freq, sr)
		h2 := coeffs[1].Response(freq, sr)
		want := h1 * h2

		got := complex(1, 0)
		for _, c := range coeffs {
			got *= c.Response(freq, sr)
		}

		if !almostEqual(real(got), real(want), 1e-10) || !almostEqual(imag(got), imag(want), 1e-10) {
			t.Errorf("freq=%v: product=%v, want=%v", freq, got, want)
		}
	}
}
