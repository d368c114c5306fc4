// beam_source_vector.go - Display-list beam source for vector-drawn content

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import "math"

// VectorBeamSource replays a fixed display list of segments, subdividing
// each by arc length and inserting a blanked retrace gap between the end
// of one segment and the start of the next (spec.md §5.3), the way a
// vector monitor's deflection amplifier behaves between strokes.
type VectorBeamSource struct {
	Segments    []BeamSegment
	StepLen     float64 // subdivision step, in normalized viewport units
	RetraceSec  float64 // blanked dwell time inserted between segments

	segIndex int
	progress float64 // 0..1 position along the current segment
}

func NewVectorBeamSource(segments []BeamSegment, stepLen, retraceSec float64) *VectorBeamSource {
	if stepLen <= 0 {
		stepLen = 0.02
	}
	return &VectorBeamSource{Segments: segments, StepLen: stepLen, RetraceSec: retraceSec}
}

func (s *VectorBeamSource) Name() string { return "vector" }

func (s *VectorBeamSource) Close() error { return nil }

func (s *VectorBeamSource) NextBatch(dst []BeamSample, dtSec float64) []BeamSample {
	if len(s.Segments) == 0 || dtSec <= 0 {
		return dst
	}
	// Fixed sub-step sized so a full-length segment, normalized to [0,1]
	// viewport, is walked in StepLen increments.
	const subStepSec = 50e-6
	remaining := dtSec

	for remaining > 0 {
		step := subStepSec
		if step > remaining {
			step = remaining
		}
		remaining -= step

		seg := s.Segments[s.segIndex]
		length := math.Hypot(seg.X1-seg.X0, seg.Y1-seg.Y0)
		var dProgress float64
		if length > 0 {
			dProgress = s.StepLen / length
		} else {
			dProgress = 1
		}
		s.progress += dProgress
		if s.progress >= 1 {
			s.progress = 1
		}
		x := seg.X0 + (seg.X1-seg.X0)*s.progress
		y := seg.Y0 + (seg.Y1-seg.Y0)*s.progress
		dst = append(dst, BeamSample{X: x, Y: y, Intensity: seg.Intensity, DtSec: step, Blanked: seg.Blanked})

		if s.progress >= 1 {
			s.segIndex = (s.segIndex + 1) % len(s.Segments)
			s.progress = 0
			if s.RetraceSec > 0 {
				next := s.Segments[s.segIndex]
				dst = append(dst, BeamSample{X: next.X0, Y: next.Y0, DtSec: s.RetraceSec, Blanked: true})
			}
		}
	}
	return dst
}
