// cie_tables.go - CIE 1931 color matching functions and band integration

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

/*
The 1931 2-degree standard observer color matching functions are generated
from the multi-lobe Gaussian analytic fit (Wyman, Sloan & Shirley 2013)
rather than carried as a hand-transcribed lookup table: it reproduces the
tabulated CIE data to within a few percent across the visible range and
keeps the constant entirely inside the source, which matters here because
the spectral grid's band count is a pipeline-overridable constant (spec
§4.2) - regenerating the table for a different grid is then one function
call instead of a second copy of a 81-row literal.
*/

package main

import "math"

type cieSample struct {
	x, y, z float64
}

func gaussianLobe(lambda, mu, sigma1, sigma2 float64) float64 {
	sigma := sigma1
	if lambda > mu {
		sigma = sigma2
	}
	t := (lambda - mu) / sigma
	return math.Exp(-0.5 * t * t)
}

// cieColorMatch evaluates x-bar, y-bar, z-bar at a single wavelength in nm.
func cieColorMatch(lambdaNm float64) cieSample {
	x := 1.056*gaussianLobe(lambdaNm, 599.8, 37.9, 31.0) +
		0.362*gaussianLobe(lambdaNm, 442.0, 16.0, 26.7) -
		0.065*gaussianLobe(lambdaNm, 501.1, 20.4, 26.2)
	y := 0.821*gaussianLobe(lambdaNm, 568.8, 46.9, 40.5) +
		0.286*gaussianLobe(lambdaNm, 530.9, 16.3, 31.1)
	z := 1.217*gaussianLobe(lambdaNm, 437.0, 11.8, 36.0) +
		0.681*gaussianLobe(lambdaNm, 459.0, 26.0, 13.8)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if z < 0 {
		z = 0
	}
	return cieSample{x, y, z}
}

// cieTabulate samples the color matching functions on the 5nm grid spec.md
// §4.2 specifies, from SpectrumMinNm to SpectrumMaxNm inclusive.
func cieTabulate() []cieSample {
	n := int(math.Round((SpectrumMaxNm-SpectrumMinNm)/CIESampleSpacingNm)) + 1
	table := make([]cieSample, n)
	for i := range table {
		lambda := SpectrumMinNm + float64(i)*CIESampleSpacingNm
		table[i] = cieColorMatch(lambda)
	}
	return table
}

// cieBandIntegrate pre-integrates the tabulated CMFs into three vectors of
// length BandCount, one weight per band, via trapezoidal integration over
// the 5nm samples falling inside each band's [min,max) wavelength range,
// divided by the covered width so each entry is the band-averaged CMF.
// Invariant asserted by tests: every entry is finite and ybar >= 0 (spec
// §8 invariant 3).
func cieBandIntegrate() (xBar, yBar, zBar [BandCount]float64) {
	table := cieTabulate()
	for b := 0; b < BandCount; b++ {
		lo := bandMinNm(b)
		hi := bandMaxNm(b)
		var sx, sy, sz, weight float64
		for i := 0; i < len(table)-1; i++ {
			l0 := SpectrumMinNm + float64(i)*CIESampleSpacingNm
			l1 := l0 + CIESampleSpacingNm
			if l1 <= lo || l0 >= hi {
				continue
			}
			// Trapezoidal contribution of the [l0,l1] sub-interval.
			s0, s1 := table[i], table[i+1]
			w := l1 - l0
			sx += 0.5 * (s0.x + s1.x) * w
			sy += 0.5 * (s0.y + s1.y) * w
			sz += 0.5 * (s0.z + s1.z) * w
			weight += w
		}
		if weight > 0 {
			sx /= weight
			sy /= weight
			sz /= weight
		}
		xBar[b], yBar[b], zBar[b] = sx, sy, sz
	}
	return
}

// IEC 61966-2-1 (sRGB) linear transform from CIE XYZ.
var xyzToLinearSRGB = [3][3]float64{
	{3.2406, -1.5372, -0.4986},
	{-0.9689, 1.8758, 0.0415},
	{0.0557, -0.2040, 1.0570},
}

func xyzToSRGBLinear(x, y, z float64) (r, g, b float64) {
	m := xyzToLinearSRGB
	r = m[0][0]*x + m[0][1]*y + m[0][2]*z
	g = m[1][0]*x + m[1][1]*y + m[1][2]*z
	b = m[2][0]*x + m[2][1]*y + m[2][2]*z
	return
}
