package main

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestExternalBeamSourceParsesPointAndLine(t *testing.T) {
	input := strings.NewReader(
		"B 0.0 0.0 1.0 0.0002\n" +
			"L -0.5 -0.5 0.5 0.5 1.0\n",
	)
	src := NewExternalBeamSource(input, testLogger())
	src.Pump()

	var out []BeamSample
	out = src.NextBatch(out, 1e-3)

	// One "B" sample plus 17 samples from subdivideSegmentFallback's
	// steps+1 points for the "L" line.
	want := 1 + 17
	if len(out) != want {
		t.Fatalf("got %d samples, want %d", len(out), want)
	}
}

func TestExternalBeamSourceSkipsCommentsAndBlankLines(t *testing.T) {
	input := strings.NewReader(
		"# header comment\n" +
			"\n" +
			"B 0.1 0.1 1.0 0.0001\n" +
			"   \n" +
			"# trailing comment\n",
	)
	src := NewExternalBeamSource(input, testLogger())
	src.Pump()

	var out []BeamSample
	out = src.NextBatch(out, 1e-3)
	if len(out) != 1 {
		t.Fatalf("got %d samples, want 1 (comments/blanks ignored)", len(out))
	}
}

func TestExternalBeamSourceMalformedLineSkippedNonFatally(t *testing.T) {
	input := strings.NewReader(
		"B not numbers here\n" +
			"B 0.1 0.1 1.0 0.0001\n" +
			"GARBAGE\n" +
			"B 0.2 0.2 1.0 0.0001\n",
	)
	src := NewExternalBeamSource(input, testLogger())
	src.Pump() // must not panic or stop on malformed lines

	var out []BeamSample
	out = src.NextBatch(out, 1e-3)
	if len(out) != 2 {
		t.Fatalf("got %d samples, want 2 (malformed lines skipped)", len(out))
	}
}

func TestExternalBeamSourceFlushIsNoOpMarker(t *testing.T) {
	input := strings.NewReader("B 0 0 1 0.0001\nF\nB 1 1 1 0.0001\n")
	src := NewExternalBeamSource(input, testLogger())
	src.Pump()

	var out []BeamSample
	out = src.NextBatch(out, 1e-3)
	if len(out) != 2 {
		t.Fatalf("got %d samples, want 2 (F carries no sample data)", len(out))
	}
}

func TestExternalBeamSourceNextBatchDrainsOnce(t *testing.T) {
	input := strings.NewReader("B 0 0 1 0.0001\n")
	src := NewExternalBeamSource(input, testLogger())
	src.Pump()

	first := src.NextBatch(nil, 1e-3)
	if len(first) != 1 {
		t.Fatalf("first NextBatch returned %d samples, want 1", len(first))
	}
	second := src.NextBatch(nil, 1e-3)
	if len(second) != 0 {
		t.Fatalf("second NextBatch returned %d samples, want 0 (already drained)", len(second))
	}
}
