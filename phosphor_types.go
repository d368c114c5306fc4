// phosphor_types.go - Phosphor decay term classification and layer model

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import "fmt"

// DecayKind distinguishes the three decay families spec.md §3 describes.
type DecayKind int

const (
	// DecayInstant covers tau < TauCutoffSeconds: visually indistinguishable
	// from an instantaneous write within a single displayed frame, so the
	// accumulation layer for it is resolved and discarded the same tick.
	DecayInstant DecayKind = iota
	// DecaySlowExponential covers tau >= TauCutoffSeconds: a conventional
	// single-exponential decay term tracked across frames.
	DecaySlowExponential
	// DecayPowerLaw models long-persistence phosphors (P31 afterglow tail)
	// whose brightness falls as a power of elapsed time rather than an
	// exponential, and therefore needs an elapsed-time accumulator instead
	// of a pure multiplicative decay factor.
	DecayPowerLaw
)

// DecayTerm is one term of a phosphor's multi-exponential/power-law decay
// sum (spec.md §3: "up to MaxDecayTerms terms per phosphor").
type DecayTerm struct {
	Kind   DecayKind
	Weight float64 // contribution of this term to total initial brightness
	TauSec float64 // exponential time constant; unused for DecayPowerLaw
	Alpha  float64 // power-law time scale in seconds, in (alpha/(t+alpha))^beta; unused for exponential kinds
	Beta   float64 // power-law falloff exponent; unused for exponential kinds
}

// classify buckets a single decay term by its time constant (spec.md §3).
func classifyTerm(tauSec float64, isPowerLaw bool) DecayKind {
	if isPowerLaw {
		return DecayPowerLaw
	}
	if tauSec < TauCutoffSeconds {
		return DecayInstant
	}
	return DecaySlowExponential
}

// PhosphorType is the immutable description of one phosphor compound:
// its spectral emission weights and its decay terms (spec.md §3, §4.1).
type PhosphorType struct {
	Name        string
	PeakNm      float64
	Emission    [BandCount]float64 // normalized, sums to 1
	Terms       []DecayTerm
	PersistMs   float64 // nominal "persistence" rating for display/UI only
}

// LayerRole identifies what an accumulation-buffer layer holds.
type LayerRole int

const (
	LayerSlowExponential LayerRole = iota
	LayerPowerLawPeak
	LayerPowerLawElapsed
	LayerInstant
)

// LayerPlan assigns each of a phosphor's decay terms to an
// accumulation-buffer layer index, implementing the grouped layer formula
// spec.md §3/§8 (invariant 4) states for a single emission group:
//
//	L = slow_count + 2*has_power_law + has_instant
//
// clamped to [1, MaxLayers]. A slow-exponential term gets its own layer.
// A power-law term claims two layers: one holds its peak amplitude, the
// other the per-texel elapsed-time accumulator (spec.md §4.8); only the
// first power-law term in a phosphor's term list is honored, matching
// spec.md's "at most one power-law term consumed per group." All instant
// terms collapse onto a single shared layer carrying their analytically
// integrated energy (spec.md §4.8: sum(amplitude*tau)), since a
// sub-cutoff flash is observed for exactly one resolved frame regardless
// of how many instant terms contributed to it.
type LayerPlan struct {
	// TermLayer[i] is the layer index Terms[i] deposits into.
	TermLayer []int

	SlowCount int

	HasPowerLaw    bool
	PowerLawTerm   int // index into Terms, -1 if none
	PowerLawPeak   int // layer index holding peak amplitude
	PowerLawElapse int // layer index holding per-texel elapsed time

	InstantCount  int // number of instant terms collapsed onto InstantLayer
	InstantLayer  int
	InstantEnergy float64 // sum(weight*tau) across instant terms (spec.md §4.8)

	Layers int // total accumulation-buffer layers, clamped to [1, MaxLayers]
}

// BuildLayerPlan computes the layer assignment for p's decay terms.
func (p *PhosphorType) BuildLayerPlan() LayerPlan {
	plan := LayerPlan{TermLayer: make([]int, len(p.Terms)), PowerLawTerm: -1}

	next := 0
	for i, t := range p.Terms {
		if t.Kind == DecaySlowExponential {
			plan.TermLayer[i] = next
			next++
			plan.SlowCount++
		}
	}

	for i, t := range p.Terms {
		if t.Kind == DecayPowerLaw {
			if !plan.HasPowerLaw {
				plan.HasPowerLaw = true
				plan.PowerLawTerm = i
				plan.PowerLawPeak = next
				plan.PowerLawElapse = next + 1
				next += 2
			}
			plan.TermLayer[i] = plan.PowerLawPeak
		}
	}

	for i, t := range p.Terms {
		if t.Kind == DecayInstant {
			if plan.InstantCount == 0 {
				plan.InstantLayer = next
				next++
			}
			plan.InstantCount++
			plan.InstantEnergy += t.Weight * t.TauSec
			plan.TermLayer[i] = plan.InstantLayer
		}
	}

	if next == 0 {
		next = 1
	}
	if next > MaxLayers {
		next = MaxLayers
	}
	plan.Layers = next
	return plan
}

// LayerCount returns the number of accumulation-buffer layers this
// phosphor requires (spec.md §3/§8 invariant 4); see BuildLayerPlan.
func (p *PhosphorType) LayerCount() int {
	return p.BuildLayerPlan().Layers
}

// Validate checks the invariants spec.md §8 asserts for a phosphor
// definition: emission weights normalized and non-negative, decay terms
// bounded, peak wavelength within the grid.
func (p *PhosphorType) Validate() error {
	if p.PeakNm < SpectrumMinNm || p.PeakNm > SpectrumMaxNm {
		return fmt.Errorf("phosphor %q: peak_nm %.1f out of grid range [%.0f,%.0f]", p.Name, p.PeakNm, SpectrumMinNm, SpectrumMaxNm)
	}
	var sum float64
	for i, w := range p.Emission {
		if w < 0 {
			return fmt.Errorf("phosphor %q: negative emission weight at band %d", p.Name, i)
		}
		sum += w
	}
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("phosphor %q: emission weights sum to %.4f, want ~1.0", p.Name, sum)
	}
	peakBand := bandIndexForWavelength(p.PeakNm)
	if p.Emission[peakBand] <= 0 {
		return fmt.Errorf("phosphor %q: peak band %d carries zero weight", p.Name, peakBand)
	}
	if len(p.Terms) == 0 {
		return fmt.Errorf("phosphor %q: no decay terms", p.Name)
	}
	if len(p.Terms) > MaxDecayTerms {
		return fmt.Errorf("phosphor %q: %d decay terms exceeds MaxDecayTerms %d", p.Name, len(p.Terms), MaxDecayTerms)
	}
	for i, t := range p.Terms {
		if t.Kind == DecayPowerLaw && (t.Alpha <= 0 || t.Beta <= 0) {
			return fmt.Errorf("phosphor %q: power-law term %d needs alpha>0 and beta>0, got alpha=%.4f beta=%.4f", p.Name, i, t.Alpha, t.Beta)
		}
	}
	return nil
}
