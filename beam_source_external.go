// beam_source_external.go - Line-oriented external beam protocol source

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// ExternalBeamSource reads the line-oriented protocol described in spec.md
// §6 from an io.Reader, typically stdin or a named pipe:
//
//	B x y intensity dt   - single point deposit
//	L x0 y0 x1 y1 intensity - line segment, subdivided downstream
//	F                       - frame marker: carries no sample, skipped
//	# ...                   - comment, ignored
//	(blank line)            - ignored
//
// Malformed lines are logged and skipped; the source never terminates on
// a bad line (spec.md §6: "malformed lines logged non-fatally").
type ExternalBeamSource struct {
	scanner *bufio.Scanner
	log     *logrus.Logger
	lineNo  int

	mu      sync.Mutex
	pending []BeamSample
	flushed bool
}

func NewExternalBeamSource(r io.Reader, log *logrus.Logger) *ExternalBeamSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ExternalBeamSource{
		scanner: bufio.NewScanner(r),
		log:     log,
	}
}

func (s *ExternalBeamSource) Name() string { return "external" }

func (s *ExternalBeamSource) Close() error { return nil }

// Pump reads lines, blocking on the reader, until it reaches EOF or an
// error. It runs on its own goroutine (started by the orchestrator's
// UseExternalSource), not from NextBatch, so a slow or stalled producer
// never blocks the simulation tick.
func (s *ExternalBeamSource) Pump() {
	for s.scanner.Scan() {
		s.lineNo++
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "F" {
			continue
		}
		sample, segment, isSegment, ok := parseExternalLine(line)
		if !ok {
			s.log.WithFields(logrus.Fields{"line": s.lineNo}).Warn((&ProtocolError{Line: s.lineNo, Reason: "malformed line: " + line}).Error())
			continue
		}
		s.mu.Lock()
		if isSegment {
			s.pending = append(s.pending, subdivideSegmentFallback(segment)...)
		} else {
			s.pending = append(s.pending, sample)
		}
		s.mu.Unlock()
	}
}

// parseExternalLine parses one protocol line. The "F" flush command
// carries no sample data; it returns ok=false with no sample/segment.
// Pump skips a bare "F" line before calling this, so it is not logged as
// malformed.
func parseExternalLine(line string) (sample BeamSample, segment BeamSegment, isSegment bool, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "F":
		return BeamSample{}, BeamSegment{}, false, false
	case "B":
		if len(fields) != 5 {
			return
		}
		x, e1 := strconv.ParseFloat(fields[1], 64)
		y, e2 := strconv.ParseFloat(fields[2], 64)
		intensity, e3 := strconv.ParseFloat(fields[3], 64)
		dt, e4 := strconv.ParseFloat(fields[4], 64)
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
			return
		}
		return BeamSample{X: x, Y: y, Intensity: intensity, DtSec: dt}, BeamSegment{}, false, true
	case "L":
		if len(fields) != 6 {
			return
		}
		x0, e1 := strconv.ParseFloat(fields[1], 64)
		y0, e2 := strconv.ParseFloat(fields[2], 64)
		x1, e3 := strconv.ParseFloat(fields[3], 64)
		y1, e4 := strconv.ParseFloat(fields[4], 64)
		intensity, e5 := strconv.ParseFloat(fields[5], 64)
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil {
			return
		}
		return BeamSample{}, BeamSegment{X0: x0, Y0: y0, X1: x1, Y1: y1, Intensity: intensity}, true, true
	default:
		return
	}
}

// subdivideSegmentFallback turns a protocol "L" line into a short run of
// samples at a fixed step; the arc-length resampler downstream merges
// these further to the phosphor's minimum spacing.
func subdivideSegmentFallback(seg BeamSegment) []BeamSample {
	const steps = 16
	const dtPerStep = 20e-6
	out := make([]BeamSample, 0, steps)
	for i := 0; i <= steps; i++ {
		t := float64(i) / steps
		out = append(out, BeamSample{
			X:         seg.X0 + (seg.X1-seg.X0)*t,
			Y:         seg.Y0 + (seg.Y1-seg.Y0)*t,
			Intensity: seg.Intensity,
			DtSec:     dtPerStep,
		})
	}
	return out
}

// NextBatch drains whatever Pump has accumulated since the last call.
func (s *ExternalBeamSource) NextBatch(dst []BeamSample, dtSec float64) []BeamSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return dst
	}
	dst = append(dst, s.pending...)
	s.pending = s.pending[:0]
	return dst
}
