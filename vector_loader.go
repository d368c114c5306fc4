// vector_loader.go - Display-list file parsing for the vector beam source

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadVectorFile parses a static display list for VectorBeamSource: one
// "L x0 y0 x1 y1 intensity" line per segment, reusing the same field
// syntax as the external beam protocol's line command (spec.md §6) so a
// recording of a live "L ..." stream can be replayed verbatim as a fixed
// display list. '#' starts a comment, blank lines are ignored.
func LoadVectorFile(path string) ([]BeamSegment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var segments []BeamSegment
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "L ") {
			return nil, &ParseError{Path: path, Line: lineNo, Field: "segment", Msg: "expected \"L x0 y0 x1 y1 intensity\", got: " + line}
		}
		_, segment, isSegment, ok := parseExternalLine(line)
		if !ok || !isSegment {
			return nil, &ParseError{Path: path, Line: lineNo, Field: "segment", Msg: "malformed segment: " + line}
		}
		segments = append(segments, segment)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%s: no segments found", path)
	}
	return segments, nil
}
