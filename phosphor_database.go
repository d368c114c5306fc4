// phosphor_database.go - Built-in phosphor types

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

// builtinPhosphor constructs a PhosphorType from a Gaussian emission lobe
// plus a list of (weight, tau) exponential terms, classifying each term by
// TauCutoffSeconds. persistMs is informational only (spec.md §4.1).
func builtinPhosphor(name string, peakNm, fwhmNm, persistMs float64, terms ...DecayTerm) *PhosphorType {
	p := &PhosphorType{
		Name:      name,
		PeakNm:    peakNm,
		Emission:  gaussianEmissionWeights(peakNm, fwhmNm),
		Terms:     terms,
		PersistMs: persistMs,
	}
	for i := range p.Terms {
		p.Terms[i].Kind = classifyTerm(p.Terms[i].TauSec, p.Terms[i].Kind == DecayPowerLaw)
	}
	return p
}

func expTerm(weight, tauSec float64) DecayTerm {
	return DecayTerm{Weight: weight, TauSec: tauSec}
}

func powerTerm(weight, alpha, beta float64) DecayTerm {
	return DecayTerm{Kind: DecayPowerLaw, Weight: weight, Alpha: alpha, Beta: beta}
}

// BuiltinPhosphors returns the reference phosphor library bundled with the
// simulator (spec.md §4.1's "shipped with a handful of built-in phosphor
// definitions"). Values approximate published compound characteristics;
// they are illustrative, not characterization-lab measurements.
func BuiltinPhosphors() map[string]*PhosphorType {
	db := map[string]*PhosphorType{
		// P1: green, medium persistence, classic oscilloscope phosphor.
		"P1": builtinPhosphor("P1", 525, 55, 24,
			expTerm(0.9, 24e-3),
			expTerm(0.1, 2e-3),
		),
		// P4: white, short persistence, monochrome TV/monitor phosphor.
		"P4": builtinPhosphor("P4", 555, 90, 1,
			expTerm(0.6, 60e-6),
			expTerm(0.4, 1e-3),
		),
		// P7: blue flash layer plus long yellow afterglow, classic radar tube.
		"P7": builtinPhosphor("P7", 460, 40, 400,
			expTerm(0.55, 20e-6),
			expTerm(0.3, 300e-3),
			powerTerm(0.15, 1.2, 0.9),
		),
		// P11: blue, short persistence, used for photographic oscilloscope work.
		"P11": builtinPhosphor("P11", 460, 45, 15,
			expTerm(0.85, 16e-3),
			expTerm(0.15, 500e-6),
		),
		// P22R/P22G/P22B: the RGB triad used by shadow-mask color CRTs.
		"P22R": builtinPhosphor("P22R", 630, 50, 1.5, expTerm(1.0, 1.5e-3)),
		"P22G": builtinPhosphor("P22G", 535, 60, 1.8, expTerm(1.0, 1.8e-3)),
		"P22B": builtinPhosphor("P22B", 450, 45, 1.2, expTerm(1.0, 1.2e-3)),
		// P31: green, long persistence, classic storage/radar tube: a fast
		// sub-cutoff flash (spec.md's "instant" tier) followed by a
		// pronounced power-law afterglow tail, no mid-range exponential
		// component (spec.md §4.10 calls this phosphor out explicitly as
		// an end-to-end test scenario for the power-law tier).
		"P31": builtinPhosphor("P31", 525, 50, 32,
			expTerm(0.3, 40e-6),
			powerTerm(0.7, 1.5, 0.8),
		),
	}
	return db
}
