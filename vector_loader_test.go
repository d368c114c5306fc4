package main

import (
	"path/filepath"
	"testing"
)

func TestLoadVectorFileParsesSegments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.vector")
	writeFile(t, path, `
# a triangle outline
L -0.5 -0.5 0.5 -0.5 1.0
L 0.5 -0.5 0.0 0.5 1.0
L 0.0 0.5 -0.5 -0.5 1.0
`)
	segments, err := LoadVectorFile(path)
	if err != nil {
		t.Fatalf("LoadVectorFile: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("len(segments) = %d, want 3", len(segments))
	}
	if segments[0].X0 != -0.5 || segments[0].Y1 != -0.5 {
		t.Errorf("segments[0] = %+v, endpoints not parsed as expected", segments[0])
	}
}

func TestLoadVectorFileEmptyIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.vector")
	writeFile(t, path, "# nothing but comments\n\n")
	if _, err := LoadVectorFile(path); err == nil {
		t.Error("expected an error for a display list with no segments")
	}
}

func TestLoadVectorFileRejectsNonLLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.vector")
	writeFile(t, path, "B 0 0 1.0 1e-3\n")
	if _, err := LoadVectorFile(path); err == nil {
		t.Error("expected an error for a non-segment line in a vector display list")
	}
}
