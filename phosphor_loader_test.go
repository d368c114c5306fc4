package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPhosphorFileGaussianLobe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.phosphor")
	writeFile(t, path, `
# a custom short-persistence phosphor
name custom-test
peak_nm 540
fwhm_nm 60
persist_ms 5
term 3e-3 0.8
term 200e-6 0.2
`)
	p, err := LoadPhosphorFile(path)
	if err != nil {
		t.Fatalf("LoadPhosphorFile: %v", err)
	}
	if p.Name != "custom-test" {
		t.Errorf("Name = %q, want %q", p.Name, "custom-test")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("loaded phosphor fails Validate: %v", err)
	}
}

func TestLoadPhosphorFileParsesPowerLawTermWithAlphaAndBeta(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "afterglow.phosphor")
	writeFile(t, path, `
name afterglow-test
peak_nm 525
fwhm_nm 50
persist_ms 30
term 40e-6 0.3
term_power 1.5 0.8 0.7
`)
	p, err := LoadPhosphorFile(path)
	if err != nil {
		t.Fatalf("LoadPhosphorFile: %v", err)
	}
	var found bool
	for _, term := range p.Terms {
		if term.Kind == DecayPowerLaw {
			found = true
			if term.Alpha != 1.5 {
				t.Errorf("Alpha = %v, want 1.5", term.Alpha)
			}
			if term.Beta != 0.8 {
				t.Errorf("Beta = %v, want 0.8", term.Beta)
			}
		}
	}
	if !found {
		t.Fatal("expected a power-law term in the parsed phosphor")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("loaded phosphor fails Validate: %v", err)
	}
}

func TestLoadPhosphorFileRejectsTwoArgPowerTerm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad-power.phosphor")
	writeFile(t, path, `
name bad-power
peak_nm 500
fwhm_nm 50
term_power 1.5 0.7
`)
	if _, err := LoadPhosphorFile(path); err == nil {
		t.Error("expected an error for a two-arg term_power (missing beta)")
	}
}

func TestLoadPhosphorFileMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.phosphor")
	writeFile(t, path, `
name no-peak
fwhm_nm 50
term 1e-3 1.0
`)
	if _, err := LoadPhosphorFile(path); err == nil {
		t.Error("expected an error for a phosphor definition missing peak_nm")
	}
}

func TestLoadPhosphorFileUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad-key.phosphor")
	writeFile(t, path, `
name bad-key
peak_nm 500
fwhm_nm 50
term 1e-3 1.0
bogus_key 123
`)
	if _, err := LoadPhosphorFile(path); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestLoadSpectrumCSVSortsAscending(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curve.csv")
	writeFile(t, path, "600,0.2\n400,0.0\n500,1.0\n")
	curve, err := LoadSpectrumCSV(path)
	if err != nil {
		t.Fatalf("LoadSpectrumCSV: %v", err)
	}
	for i := 1; i < len(curve); i++ {
		if curve[i].WavelengthNm < curve[i-1].WavelengthNm {
			t.Fatalf("curve not sorted ascending: %v", curve)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
