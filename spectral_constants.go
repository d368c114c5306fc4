// spectral_constants.go - Spectral grid and phosphor tier constants

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import "time"

// Spectral grid (spec.md §4.2). BandCount is a process-wide constant shared
// by host code and the GPU pipeline-overridable constants, so changing it
// never requires edits to buffer layouts or shader arithmetic.
const (
	BandCount     = 16
	BandWidthNm   = 25.0
	SpectrumMinNm = 380.0
	SpectrumMaxNm = 780.0
)

// CIE 1931 2-degree color matching functions are tabulated at this spacing
// before being pre-integrated per band (spec.md §4.2).
const CIESampleSpacingNm = 5.0

// Decay tier classification (spec.md §3).
const (
	TauCutoffSeconds = 100e-6 // TAU_CUTOFF
	MaxDecayTerms    = 8      // per layer
	MaxLayers        = 24     // practical upper bound on L
)

// DecayThreshold is the value below which a decaying cell is snapped to
// zero (spec.md §4.10).
const DecayThreshold = 1e-6

// Beam-write stage constants (spec.md §4.8).
const (
	BeamWorkgroupSize  = 16
	ShortSegmentPixels = 0.5 // |AB| <= this falls back to point splat
	GaussianCutoffSig  = 4.0 // early-out distance, multiples of max(sigma)
)

// BeamEnergyScale brings arbitrary physical beam-current units into a
// useful dynamic range for the accumulation buffer (spec.md §4.4).
const BeamEnergyScale = 5000.0

// Simulation loop batching bounds (spec.md §4.6).
const (
	MinBatchInterval = 1 * time.Millisecond
	MaxBatchInterval = 10 * time.Millisecond
	DefaultBatch     = 5 * time.Millisecond
)

// Sample ring sizing (spec.md §4.5).
const MinRingCapacity = 65536
