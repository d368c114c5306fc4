// phosphor_loader.go - Phosphor definition file and spectrum CSV parsing

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// LoadPhosphorFile parses a phosphor definition file (spec.md §4.1): one
// "key value" pair per line, '#' starts a comment, blank lines ignored.
// Required keys: name, peak_nm. Either fwhm_nm (single Gaussian lobe) or
// spectrum_csv (a path to a measured curve, relative to the definition
// file's directory) selects how the emission weights are built. Decay
// terms are given as repeated "term tau weight" or "term_power alpha beta
// weight" lines.
func LoadPhosphorFile(path string) (*PhosphorType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parsePhosphorData(path, data)
}

func parsePhosphorData(path string, data []byte) (*PhosphorType, error) {
	var (
		name          string
		peakNm, fwhm  float64
		havePeak      bool
		haveFwhm      bool
		spectrumCSV   string
		persistMs     float64
		terms         []DecayTerm
	)

	pos := 0
	lineNo := 0
	for pos < len(data) {
		lineEnd := pos
		for lineEnd < len(data) && data[lineEnd] != '\n' {
			lineEnd++
		}
		raw := data[pos:lineEnd]
		if len(raw) > 0 && raw[len(raw)-1] == '\r' {
			raw = raw[:len(raw)-1]
		}
		lineNo++
		nextPos := lineEnd + 1

		line := bytes.TrimSpace(raw)
		if len(line) == 0 || line[0] == '#' {
			pos = nextPos
			continue
		}

		fields := strings.Fields(string(line))
		key := fields[0]
		args := fields[1:]

		switch key {
		case "name":
			if len(args) < 1 {
				return nil, &ParseError{Path: path, Line: lineNo, Field: key, Msg: "missing value"}
			}
			name = strings.Join(args, " ")
		case "peak_nm":
			v, err := parseFloatField(path, lineNo, key, args)
			if err != nil {
				return nil, err
			}
			peakNm, havePeak = v, true
		case "fwhm_nm":
			v, err := parseFloatField(path, lineNo, key, args)
			if err != nil {
				return nil, err
			}
			fwhm, haveFwhm = v, true
		case "spectrum_csv":
			if len(args) < 1 {
				return nil, &ParseError{Path: path, Line: lineNo, Field: key, Msg: "missing path"}
			}
			spectrumCSV = args[0]
		case "persist_ms":
			v, err := parseFloatField(path, lineNo, key, args)
			if err != nil {
				return nil, err
			}
			persistMs = v
		case "term":
			if len(args) != 2 {
				return nil, &ParseError{Path: path, Line: lineNo, Field: key, Msg: "want: term <tau_sec> <weight>"}
			}
			tau, err1 := strconv.ParseFloat(args[0], 64)
			weight, err2 := strconv.ParseFloat(args[1], 64)
			if err1 != nil || err2 != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Field: key, Msg: "non-numeric tau/weight"}
			}
			terms = append(terms, DecayTerm{
				Kind:   classifyTerm(tau, false),
				Weight: weight,
				TauSec: tau,
			})
		case "term_power":
			if len(args) != 3 {
				return nil, &ParseError{Path: path, Line: lineNo, Field: key, Msg: "want: term_power <alpha> <beta> <weight>"}
			}
			alpha, err1 := strconv.ParseFloat(args[0], 64)
			beta, err2 := strconv.ParseFloat(args[1], 64)
			weight, err3 := strconv.ParseFloat(args[2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Field: key, Msg: "non-numeric alpha/beta/weight"}
			}
			terms = append(terms, DecayTerm{Kind: DecayPowerLaw, Weight: weight, Alpha: alpha, Beta: beta})
		default:
			return nil, &ParseError{Path: path, Line: lineNo, Field: key, Msg: "unknown key"}
		}

		pos = nextPos
	}

	if name == "" {
		return nil, &ParseError{Path: path, Field: "name", Msg: "required"}
	}
	if !havePeak {
		return nil, &ParseError{Path: path, Field: "peak_nm", Msg: "required"}
	}
	if len(terms) == 0 {
		return nil, &ParseError{Path: path, Field: "term", Msg: "at least one decay term required"}
	}

	p := &PhosphorType{
		Name:      name,
		PeakNm:    peakNm,
		Terms:     terms,
		PersistMs: persistMs,
	}

	switch {
	case spectrumCSV != "":
		dir := ""
		if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
			dir = path[:idx+1]
		}
		curve, err := LoadSpectrumCSV(dir + spectrumCSV)
		if err != nil {
			return nil, fmt.Errorf("%s: loading spectrum_csv: %w", path, err)
		}
		p.Emission = integrateCurveToBands(curve)
	case haveFwhm:
		p.Emission = gaussianEmissionWeights(peakNm, fwhm)
	default:
		return nil, &ParseError{Path: path, Field: "fwhm_nm", Msg: "either fwhm_nm or spectrum_csv is required"}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseFloatField(path string, line int, field string, args []string) (float64, error) {
	if len(args) < 1 {
		return 0, &ParseError{Path: path, Line: line, Field: field, Msg: "missing value"}
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, &ParseError{Path: path, Line: line, Field: field, Msg: "not a number: " + args[0]}
	}
	return v, nil
}

// LoadSpectrumCSV reads a two-column "wavelength_nm,intensity" measured
// emission curve, sorted ascending by wavelength regardless of file order
// (spec.md §4.1: "resampled onto the band grid").
func LoadSpectrumCSV(path string) ([]curveSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	samples := make([]curveSample, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, ",")
		if len(cols) != 2 {
			return nil, &ParseError{Path: path, Line: i + 1, Field: "row", Msg: "want 2 columns, got " + strconv.Itoa(len(cols))}
		}
		lambda, err1 := strconv.ParseFloat(strings.TrimSpace(cols[0]), 64)
		intensity, err2 := strconv.ParseFloat(strings.TrimSpace(cols[1]), 64)
		if err1 != nil || err2 != nil {
			return nil, &ParseError{Path: path, Line: i + 1, Field: "row", Msg: "non-numeric value"}
		}
		samples = append(samples, curveSample{WavelengthNm: lambda, Intensity: intensity})
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].WavelengthNm < samples[j].WavelengthNm })
	return samples, nil
}
