// beam_sample.go - Beam sample and segment types shared by all sources

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

// BeamSample is a single electron-beam deposit event produced by a beam
// source and consumed by the simulation loop (spec.md §5). Coordinates are
// in normalized viewport space [-1,1]; Intensity is a beam-current-like
// quantity in arbitrary source units prior to BeamEnergyScale.
type BeamSample struct {
	X, Y      float64
	Intensity float64
	DtSec     float64 // dwell time attributed to this sample
	Blanked   bool    // retrace/blank: no deposit, only positions the beam
}

// BeamSegment is a line from (X0,Y0) to (X1,Y1) to be subdivided by the
// arc-length resampler before becoming a stream of BeamSamples (spec.md
// §5.3: vector display lists, §6: the external "L" protocol line).
type BeamSegment struct {
	X0, Y0, X1, Y1 float64
	Intensity      float64
	Blanked        bool
}

// BeamSource is the common interface every beam-producing input implements
// (spec.md §5: oscilloscope, audio, vector, external).
type BeamSource interface {
	// Name identifies the source for logging/UI.
	Name() string
	// NextBatch appends samples produced since the last call, spanning
	// approximately dtSec of simulated time, to dst and returns the
	// extended slice. Returning the same dst (possibly nil) unmodified is
	// valid when the source has nothing to emit this tick.
	NextBatch(dst []BeamSample, dtSec float64) []BeamSample
	// Close releases any resources (open files, decoders, connections).
	Close() error
}
