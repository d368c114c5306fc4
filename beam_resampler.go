// beam_resampler.go - Arc-length resampling, aspect correction and energy scaling

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import "math"

// ArcLengthResampler merges a raw stream of beam samples down to a
// minimum spacing of 0.5*sigma (spec.md §5.4), conserving total energy
// (sum of intensity*dt) and re-emitting the first lit sample after a
// blanked gap unmerged, so retrace boundaries stay sharp.
type ArcLengthResampler struct {
	minSpacing float64
	pending    *BeamSample
	afterBlank bool
}

// NewArcLengthResampler builds a resampler whose minimum spacing is
// derived from the phosphor's beam sigma in normalized viewport units.
func NewArcLengthResampler(sigmaViewport float64) *ArcLengthResampler {
	spacing := 0.5 * sigmaViewport
	if spacing <= 0 {
		spacing = 1e-6
	}
	return &ArcLengthResampler{minSpacing: spacing, afterBlank: false}
}

// Resample consumes in and returns the merged output, conserving
// Sum(intensity*dt) exactly across merges (spec.md §8 invariant: "merges
// samples ... energy-conserving").
func (r *ArcLengthResampler) Resample(in []BeamSample) []BeamSample {
	out := make([]BeamSample, 0, len(in))
	for _, s := range in {
		if s.Blanked {
			if r.pending != nil {
				out = append(out, *r.pending)
				r.pending = nil
			}
			out = append(out, s)
			r.afterBlank = true
			continue
		}
		if r.afterBlank {
			// Anchor: first lit sample after a blank is always emitted
			// unmerged, so the beam's landing point after retrace is exact.
			out = append(out, s)
			r.afterBlank = false
			continue
		}
		if r.pending == nil {
			p := s
			r.pending = &p
			continue
		}
		dx := s.X - r.pending.X
		dy := s.Y - r.pending.Y
		dist := math.Hypot(dx, dy)
		if dist >= r.minSpacing {
			out = append(out, *r.pending)
			p := s
			r.pending = &p
			continue
		}
		// Merge into pending: energy-weighted position, summed intensity*dt.
		w0 := r.pending.Intensity * r.pending.DtSec
		w1 := s.Intensity * s.DtSec
		total := w0 + w1
		if total > 0 {
			r.pending.X = (r.pending.X*w0 + s.X*w1) / total
			r.pending.Y = (r.pending.Y*w0 + s.Y*w1) / total
		}
		r.pending.Intensity = total / (r.pending.DtSec + s.DtSec)
		r.pending.DtSec += s.DtSec
	}
	return out
}

// Flush emits any merged-but-unemitted sample, called at the end of a
// batch so energy is never silently dropped between ticks.
func (r *ArcLengthResampler) Flush(out []BeamSample) []BeamSample {
	if r.pending != nil {
		out = append(out, *r.pending)
		r.pending = nil
	}
	return out
}

// ApplyAspectCorrection adjusts sample coordinates so a source authored
// against a square coordinate space doesn't appear stretched on a
// non-square viewport (spec.md §5.4: "viewport A=W/H adjusts x or y").
func ApplyAspectCorrection(samples []BeamSample, viewportW, viewportH int) {
	if viewportH == 0 {
		return
	}
	aspect := float64(viewportW) / float64(viewportH)
	switch {
	case aspect > 1:
		for i := range samples {
			samples[i].X /= aspect
		}
	case aspect < 1:
		for i := range samples {
			samples[i].Y *= aspect
		}
	}
}

// ApplyEnergyScale brings source-unit intensities into the accumulation
// buffer's working range (spec.md §5.4, BeamEnergyScale).
func ApplyEnergyScale(samples []BeamSample) {
	for i := range samples {
		samples[i].Intensity *= BeamEnergyScale
	}
}
