// beam_source_oscilloscope.go - Two-channel waveform generator beam source

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import (
	"math"
	"math/rand"
)

// WaveformKind selects one of the five generator shapes (spec.md §5.1).
type WaveformKind int

const (
	WaveformSine WaveformKind = iota
	WaveformTriangle
	WaveformSquare
	WaveformSawtooth
	WaveformNoise
)

const twoPi = 2 * math.Pi

// OscilloscopeBeamSource drives the X channel and Y channel independently
// from two waveform generators, the classic Lissajous-figure input (spec.md
// §5.1). Phase accumulation mirrors the fixed-point-free oscillator style
// used elsewhere in this codebase: advance phase by freq*2pi*dt each tick
// and wrap at 2pi.
type OscilloscopeBeamSource struct {
	XShape, YShape         WaveformKind
	XFreqHz, YFreqHz       float64
	XPhase, YPhase         float64
	Intensity              float64
	rng                    *rand.Rand
}

func NewOscilloscopeBeamSource(xShape, yShape WaveformKind, xFreq, yFreq, intensity float64) *OscilloscopeBeamSource {
	return &OscilloscopeBeamSource{
		XShape:    xShape,
		YShape:    yShape,
		XFreqHz:   xFreq,
		YFreqHz:   yFreq,
		Intensity: intensity,
		rng:       rand.New(rand.NewSource(1)),
	}
}

func (s *OscilloscopeBeamSource) Name() string { return "oscilloscope" }

func (s *OscilloscopeBeamSource) Close() error { return nil }

func (s *OscilloscopeBeamSource) waveformValue(kind WaveformKind, phase float64) float64 {
	switch kind {
	case WaveformSine:
		return math.Sin(phase)
	case WaveformTriangle:
		// Maps phase in [0,2pi) to a +/-1 triangle wave.
		return 2*math.Abs(2*(phase/twoPi)-1) - 1
	case WaveformSquare:
		if phase < math.Pi {
			return 1
		}
		return -1
	case WaveformSawtooth:
		return 2*(phase/twoPi) - 1
	case WaveformNoise:
		return s.rng.Float64()*2 - 1
	default:
		return 0
	}
}

// NextBatch advances the two generators by dtSec, emitting one sample per
// simulation sub-step sized from the higher of the two frequencies so the
// waveform shape is captured without aliasing.
func (s *OscilloscopeBeamSource) NextBatch(dst []BeamSample, dtSec float64) []BeamSample {
	if dtSec <= 0 {
		return dst
	}
	maxFreq := math.Max(s.XFreqHz, s.YFreqHz)
	if maxFreq <= 0 {
		maxFreq = 1
	}
	// At least 32 samples per cycle of the faster channel.
	subStep := 1.0 / (maxFreq * 32)
	if subStep > dtSec {
		subStep = dtSec
	}
	if subStep <= 0 {
		subStep = dtSec
	}

	remaining := dtSec
	for remaining > 0 {
		step := subStep
		if step > remaining {
			step = remaining
		}
		s.XPhase += s.XFreqHz * twoPi * step
		s.YPhase += s.YFreqHz * twoPi * step
		if s.XPhase >= twoPi {
			s.XPhase -= twoPi * math.Floor(s.XPhase/twoPi)
		}
		if s.YPhase >= twoPi {
			s.YPhase -= twoPi * math.Floor(s.YPhase/twoPi)
		}
		x := s.waveformValue(s.XShape, s.XPhase)
		y := s.waveformValue(s.YShape, s.YPhase)
		dst = append(dst, BeamSample{X: x, Y: y, Intensity: s.Intensity, DtSec: step})
		remaining -= step
	}
	return dst
}
