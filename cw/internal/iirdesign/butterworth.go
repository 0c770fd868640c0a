package iirdesign

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/cwdsp/dsp/filter/biquad"
)

const maxSections = 8

// clampNormalized maps a cutoff in Hz to a fraction of Nyquist, clamped away
// from 0 and 1 so the bilinear transform's tangent never blows up.
func clampNormalized(freqHz, sampleRate float64) float64 {
	wn := freqHz / (sampleRate / 2)
	if wn >= 1 {
		wn = 0.999
	}
	if wn <= 0 {
		wn = 0.001
	}
	return wn
}

func prewarp(wn, sampleRate float64) float64 {
	return 2 * sampleRate * math.Tan(math.Pi*wn/2)
}

// analogPoles returns the order Butterworth prototype poles on the unit
// circle's left half, indexed k=0..order-1.
func analogPoles(order int) []complex128 {
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		angle := math.Pi * float64(2*k+order+1) / float64(2*order)
		poles[k] = complex(math.Cos(angle), math.Sin(angle))
	}
	return poles
}

// bilinear maps one analog s-plane pole to the z-plane.
func bilinear(s complex128, sampleRate float64) complex128 {
	t := complex(1/(2*sampleRate), 0)
	num := 1 + s*t
	den := 1 - s*t
	return num / den
}

// ButterworthLowpass designs an order-N Butterworth lowpass as a cascade of
// SOS sections, normalized to unit gain at DC. An order outside [1, 16]
// returns a nil cascade rather than an error, matching the "degrade to
// pass-through" contract of the rest of the decoder; the cutoff is not
// rejected but clamped to just inside (0, Nyquist).
func ButterworthLowpass(order int, cutoffHz, sampleRate float64) []biquad.Coefficients {
	if order < 1 || order > 2*maxSections {
		return nil
	}

	wn := clampNormalized(cutoffHz, sampleRate)
	warped := prewarp(wn, sampleRate)

	poles := analogPoles(order)
	for i := range poles {
		poles[i] *= complex(warped, 0)
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)

	n2 := order / 2
	for k := 0; k < n2; k++ {
		pz := bilinear(poles[k], sampleRate)
		sections = append(sections, lowpassSOSFromPolePair(pz))
	}

	if order%2 == 1 {
		pz := bilinear(poles[n2], sampleRate)
		sections = append(sections, lowpassSOSFromRealPole(real(pz)))
	}

	normalizeGain(sections, 0, sampleRate)
	return sections
}

// ButterworthBandpass designs an order-N Butterworth bandpass as a cascade
// of N SOS sections (one per conjugate pair of bandpass poles), normalized to unit gain
// at the band center. Returns nil if the edges are degenerate after
// clamping (low >= high).
func ButterworthBandpass(order int, lowHz, highHz, sampleRate float64) []biquad.Coefficients {
	if order < 1 {
		return nil
	}

	nyquist := sampleRate / 2
	wnLow := lowHz / nyquist
	wnHigh := highHz / nyquist
	if wnLow <= 0 {
		wnLow = 0.001
	}
	if wnHigh >= 1 {
		wnHigh = 0.999
	}
	if wnLow >= wnHigh {
		return nil
	}

	wLow := prewarp(wnLow, sampleRate)
	wHigh := prewarp(wnHigh, sampleRate)
	bw := wHigh - wLow
	w0 := math.Sqrt(wLow * wHigh)

	poles := analogPoles(order)

	sections := make([]biquad.Coefficients, 0, 2*order)
	for _, p := range poles {
		if imag(p) < -1e-9 {
			continue // conj(p) yields the conjugates of p's poles, already covered by p
		}
		halfBW := p * complex(bw/2, 0)
		sq := halfBW*halfBW - complex(w0*w0, 0)
		root := cmplx.Sqrt(sq)

		s1 := halfBW + root
		s2 := halfBW - root

		z1 := bilinear(s1, sampleRate)
		z2 := bilinear(s2, sampleRate)

		if math.Abs(imag(p)) <= 1e-9 {
			// Real prototype pole (odd order): z1 and z2 are themselves one
			// conjugate or real pair, so they share a single section.
			sections = append(sections, biquad.Coefficients{
				B0: 1, B2: -1, A1: -real(z1 + z2), A2: real(z1 * z2),
			})
			continue
		}
		sections = append(sections, bandpassSOSFromPole(z1), bandpassSOSFromPole(z2))
	}

	normalizeGain(sections, (lowHz+highHz)/2, sampleRate)
	return sections
}

// lowpassSOSFromPolePair builds a section whose denominator has pz and its
// conjugate as poles and whose numerator has a double zero at z=-1.
func lowpassSOSFromPolePair(pz complex128) biquad.Coefficients {
	return biquad.Coefficients{
		B0: 1,
		B1: 2,
		B2: 1,
		A1: -2 * real(pz),
		A2: real(pz)*real(pz) + imag(pz)*imag(pz),
	}
}

// lowpassSOSFromRealPole builds the first-order section used for odd-order
// lowpass cascades (B2=A2=0).
func lowpassSOSFromRealPole(pz float64) biquad.Coefficients {
	return biquad.Coefficients{
		B0: 1,
		B1: 1,
		A1: -pz,
	}
}

// bandpassSOSFromPole builds a section with poles z, conj(z) and a
// numerator zero pair at z=+1, z=-1 (zeros at DC and Nyquist).
func bandpassSOSFromPole(z complex128) biquad.Coefficients {
	return biquad.Coefficients{
		B0: 1,
		B2: -1,
		A1: -2 * real(z),
		A2: real(z)*real(z) + imag(z)*imag(z),
	}
}

// normalizeGain scales the first section's numerator so the cascade has
// unit magnitude at referenceHz.
func normalizeGain(sections []biquad.Coefficients, referenceHz, sampleRate float64) {
	if len(sections) == 0 {
		return
	}

	total := complex(1, 0)
	for i := range sections {
		total *= sections[i].Response(referenceHz, sampleRate)
	}

	mag := cmplx.Abs(total)
	if mag <= 1e-12 {
		return
	}

	correction := 1 / mag
	sections[0].B0 *= correction
	sections[0].B1 *= correction
	sections[0].B2 *= correction
}
