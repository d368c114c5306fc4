package main

import "testing"

func TestBandContiguityAndCoverage(t *testing.T) {
	if got := bandMinNm(0); got != SpectrumMinNm {
		t.Errorf("bandMinNm(0) = %v, want %v", got, SpectrumMinNm)
	}
	if got := bandMaxNm(BandCount - 1); got != SpectrumMaxNm {
		t.Errorf("bandMaxNm(last) = %v, want %v", got, SpectrumMaxNm)
	}
	for i := 0; i < BandCount-1; i++ {
		if bandMaxNm(i) != bandMinNm(i+1) {
			t.Errorf("band %d max %.2f != band %d min %.2f", i, bandMaxNm(i), i+1, bandMinNm(i+1))
		}
	}
}

func TestBandIndexForWavelengthClampsToGrid(t *testing.T) {
	if i := bandIndexForWavelength(SpectrumMinNm - 50); i != 0 {
		t.Errorf("below-range wavelength mapped to band %d, want 0", i)
	}
	if i := bandIndexForWavelength(SpectrumMaxNm + 50); i != BandCount-1 {
		t.Errorf("above-range wavelength mapped to band %d, want %d", i, BandCount-1)
	}
	mid := bandCenterNm(4)
	if i := bandIndexForWavelength(mid); i != 4 {
		t.Errorf("bandCenterNm(4) mapped to band %d, want 4", i)
	}
}

func TestGaussianEmissionWeightsNormalizedAndNonNegative(t *testing.T) {
	weights := gaussianEmissionWeights(525, 55)
	var sum float64
	for i, w := range weights {
		if w < 0 {
			t.Errorf("band %d weight %v is negative", i, w)
		}
		sum += w
	}
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("emission weights sum to %v, want ~1.0", sum)
	}
	peakBand := bandIndexForWavelength(525)
	if weights[peakBand] <= 0 {
		t.Errorf("peak band %d carries zero weight", peakBand)
	}
}

func TestIntegrateCurveToBandsNormalizes(t *testing.T) {
	curve := []curveSample{
		{WavelengthNm: 400, Intensity: 0},
		{WavelengthNm: 500, Intensity: 1},
		{WavelengthNm: 600, Intensity: 0.2},
		{WavelengthNm: 700, Intensity: 0},
	}
	weights := integrateCurveToBands(curve)
	var sum float64
	for i, w := range weights {
		if w < 0 {
			t.Errorf("band %d weight %v negative", i, w)
		}
		sum += w
	}
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("integrated weights sum to %v, want ~1.0", sum)
	}
}

func TestIntegrateCurveToBandsEmptyCurve(t *testing.T) {
	weights := integrateCurveToBands(nil)
	for i, w := range weights {
		if w != 0 {
			t.Errorf("band %d weight = %v for empty curve, want 0", i, w)
		}
	}
}
