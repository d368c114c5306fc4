package main

import "testing"

func TestOscilloscopeSineStaysWithinUnitRange(t *testing.T) {
	src := NewOscilloscopeBeamSource(WaveformSine, WaveformSine, 440, 660, 1.0)
	var out []BeamSample
	out = src.NextBatch(out, 10e-3)
	if len(out) == 0 {
		t.Fatal("expected samples from a 10ms batch")
	}
	for _, s := range out {
		if s.X < -1 || s.X > 1 || s.Y < -1 || s.Y > 1 {
			t.Fatalf("sample (%v,%v) outside [-1,1] axis bounds", s.X, s.Y)
		}
	}
}

func TestOscilloscopeSquareWaveIsBimodal(t *testing.T) {
	src := NewOscilloscopeBeamSource(WaveformSquare, WaveformSquare, 100, 100, 1.0)
	var out []BeamSample
	out = src.NextBatch(out, 20e-3)
	for _, s := range out {
		if s.X != 1 && s.X != -1 {
			t.Fatalf("square wave sample X = %v, want exactly +1 or -1", s.X)
		}
	}
}

func TestOscilloscopeBlankedSamplesNeverProducedBySelf(t *testing.T) {
	src := NewOscilloscopeBeamSource(WaveformTriangle, WaveformSawtooth, 220, 330, 1.0)
	var out []BeamSample
	out = src.NextBatch(out, 5e-3)
	for _, s := range out {
		if s.Blanked {
			t.Fatal("oscilloscope source should never emit blanked samples")
		}
	}
}

func TestOscilloscopeZeroDtProducesNoSamples(t *testing.T) {
	src := NewOscilloscopeBeamSource(WaveformSine, WaveformSine, 440, 440, 1.0)
	out := src.NextBatch(nil, 0)
	if len(out) != 0 {
		t.Errorf("got %d samples for dtSec=0, want 0", len(out))
	}
}

func TestVectorSourceHorizontalLineHasConstantY(t *testing.T) {
	segs := []BeamSegment{{X0: -0.5, Y0: 0.25, X1: 0.5, Y1: 0.25, Intensity: 1}}
	src := NewVectorBeamSource(segs, 0.05, 0)
	var out []BeamSample
	for i := 0; i < 50; i++ {
		out = src.NextBatch(out, 50e-6)
	}
	for _, s := range out {
		if s.Blanked {
			continue
		}
		if diff := s.Y - 0.25; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("horizontal line sample Y = %v, want 0.25", s.Y)
		}
	}
}

func TestVectorSourceInsertsRetraceBetweenSegments(t *testing.T) {
	segs := []BeamSegment{
		{X0: -0.5, Y0: 0, X1: 0.5, Y1: 0, Intensity: 1},
		{X0: 0.5, Y0: 0.5, X1: -0.5, Y1: 0.5, Intensity: 1},
	}
	src := NewVectorBeamSource(segs, 1.0, 100e-6) // StepLen=1 completes a segment in one sub-step
	var out []BeamSample
	for i := 0; i < 5; i++ {
		out = src.NextBatch(out, 50e-6)
	}
	var sawBlank bool
	for _, s := range out {
		if s.Blanked {
			sawBlank = true
		}
	}
	if !sawBlank {
		t.Error("expected a blanked retrace sample between segments")
	}
}
