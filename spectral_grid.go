// spectral_grid.go - Band boundary math and phosphor emission-weight generation

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import "math"

// bandMinNm and bandMaxNm give the half-open wavelength range [min,max) of
// band i, i in [0, BandCount) (spec.md §4.2: band_min(i) = 380 + i*25).
func bandMinNm(i int) float64 {
	return SpectrumMinNm + float64(i)*BandWidthNm
}

func bandMaxNm(i int) float64 {
	return bandMinNm(i) + BandWidthNm
}

func bandCenterNm(i int) float64 {
	return bandMinNm(i) + BandWidthNm/2
}

// bandIndexForWavelength returns the band containing lambdaNm, clamped to
// the grid's extent. Used when a caller needs the single band closest to a
// peak emission wavelength (spec.md §8 invariant 3: "peak band contains
// peak_nm").
func bandIndexForWavelength(lambdaNm float64) int {
	if lambdaNm <= SpectrumMinNm {
		return 0
	}
	if lambdaNm >= SpectrumMaxNm {
		return BandCount - 1
	}
	i := int((lambdaNm - SpectrumMinNm) / BandWidthNm)
	if i >= BandCount {
		i = BandCount - 1
	}
	return i
}

// gaussianEmissionWeights builds a per-band emission weight vector for a
// phosphor whose spectral output is approximated as a single Gaussian lobe
// centered at peakNm with the given full width at half maximum (spec.md
// §4.1). Weights are normalized so they sum to 1 across the grid, matching
// the invariant asserted in spec.md §8 ("sum=1 +/- 0.01, non-negative").
func gaussianEmissionWeights(peakNm, fwhmNm float64) [BandCount]float64 {
	sigma := fwhmNm / 2.3548
	var weights [BandCount]float64
	var total float64
	const subSamples = 8
	for b := 0; b < BandCount; b++ {
		lo := bandMinNm(b)
		step := BandWidthNm / subSamples
		var acc float64
		for s := 0; s < subSamples; s++ {
			lambda := lo + (float64(s)+0.5)*step
			t := (lambda - peakNm) / sigma
			acc += math.Exp(-0.5 * t * t)
		}
		weights[b] = acc / subSamples
		total += weights[b]
	}
	if total > 0 {
		for b := range weights {
			weights[b] /= total
		}
	}
	return weights
}

// curveSample is one (wavelength, relative intensity) point read from a
// measured spectrum CSV (spec.md §4.1 phosphor definition format).
type curveSample struct {
	WavelengthNm float64
	Intensity    float64
}

// integrateCurveToBands resamples an arbitrary, possibly irregularly
// spaced measured emission curve onto the band grid via piecewise-linear
// interpolation, averaged over 8 evenly spaced midpoints per band, then normalizes the
// result exactly as gaussianEmissionWeights does. Points must be sorted by
// WavelengthNm ascending; the caller (phosphor_loader.go) guarantees this.
func integrateCurveToBands(curve []curveSample) [BandCount]float64 {
	var weights [BandCount]float64
	if len(curve) == 0 {
		return weights
	}
	sampleAt := func(lambda float64) float64 {
		if lambda <= curve[0].WavelengthNm {
			return curve[0].Intensity
		}
		last := curve[len(curve)-1]
		if lambda >= last.WavelengthNm {
			return last.Intensity
		}
		for i := 0; i < len(curve)-1; i++ {
			a, b := curve[i], curve[i+1]
			if lambda >= a.WavelengthNm && lambda <= b.WavelengthNm {
				span := b.WavelengthNm - a.WavelengthNm
				if span <= 0 {
					return a.Intensity
				}
				frac := (lambda - a.WavelengthNm) / span
				return a.Intensity + frac*(b.Intensity-a.Intensity)
			}
		}
		return 0
	}

	var total float64
	const subSamples = 8
	for b := 0; b < BandCount; b++ {
		lo := bandMinNm(b)
		step := BandWidthNm / subSamples
		var acc float64
		for s := 0; s < subSamples; s++ {
			lambda := lo + (float64(s)+0.5)*step
			v := sampleAt(lambda)
			if v < 0 {
				v = 0
			}
			acc += v
		}
		weights[b] = acc / subSamples
		total += weights[b]
	}
	if total > 0 {
		for b := range weights {
			weights[b] /= total
		}
	}
	return weights
}
