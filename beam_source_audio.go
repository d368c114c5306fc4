// beam_source_audio.go - Decoded audio file beam source

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/go-mp3"
)

// AudioBeamSource drives the beam from a decoded stereo audio file: the
// left channel maps to X, the right channel to Y (spec.md §5.2), the same
// routing an external oscilloscope uses when fed a stereo line-level
// signal. Decoding happens once, up front, into an in-memory float buffer;
// playback position then advances by wall-clock-equivalent simulated time.
type AudioBeamSource struct {
	sampleRate int
	frames     [][2]float64 // decoded stereo samples in [-1,1]
	posFrames  float64
	intensity  float64

	mu sync.Mutex // guards posFrames for ReadMonitorFrames vs NextBatch
}

// LoadAudioBeamSource decodes path fully into memory: ".mp3" via go-mp3,
// ".wav" via a minimal PCM reader.
func LoadAudioBeamSource(path string, intensity float64) (*AudioBeamSource, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		return loadMP3BeamSource(path, intensity)
	case ".wav":
		return loadWAVBeamSource(path, intensity)
	default:
		return nil, fmt.Errorf("audio beam source: unsupported file extension %q", ext)
	}
}

func loadMP3BeamSource(path string, intensity float64) (*AudioBeamSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("audio beam source: decoding %s: %w", path, err)
	}

	var frames [][2]float64
	buf := make([]byte, 4096)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			// go-mp3 always produces 16-bit little-endian stereo PCM.
			for i := 0; i+4 <= n; i += 4 {
				l := int16(binary.LittleEndian.Uint16(buf[i : i+2]))
				r := int16(binary.LittleEndian.Uint16(buf[i+2 : i+4]))
				frames = append(frames, [2]float64{
					float64(l) / 32768.0,
					float64(r) / 32768.0,
				})
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audio beam source: reading %s: %w", path, err)
		}
	}

	return &AudioBeamSource{
		sampleRate: dec.SampleRate(),
		frames:     frames,
		intensity:  intensity,
	}, nil
}

// loadWAVBeamSource reads a canonical PCM "RIFF"/"WAVE" file: sniff the
// fmt/data chunk headers, then decode 16-bit samples directly (8-bit and
// 32-bit float are rejected rather than silently misdecoded). Mono files
// are duplicated to both channels so the beam still traces a visible path
// instead of collapsing to a vertical or horizontal line.
func loadWAVBeamSource(path string, intensity float64) (*AudioBeamSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, &ParseError{Path: path, Field: "header", Msg: "not a RIFF/WAVE file"}
	}

	var (
		channels      uint16
		sampleRate    uint32
		bitsPerSample uint16
		pcm           []byte
		haveFmt       bool
	)

	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkSize > len(data) {
			break
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, &ParseError{Path: path, Field: "fmt", Msg: "fmt chunk too short"}
			}
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			pcm = data[body : body+chunkSize]
		}
		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++ // chunks are word-aligned
		}
	}
	if !haveFmt || pcm == nil {
		return nil, &ParseError{Path: path, Field: "chunks", Msg: "missing fmt or data chunk"}
	}
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("audio beam source: %s: unsupported bit depth %d (only 16-bit PCM)", path, bitsPerSample)
	}
	if channels == 0 {
		return nil, &ParseError{Path: path, Field: "channels", Msg: "zero channels"}
	}

	bytesPerFrame := int(channels) * 2
	var frames [][2]float64
	for i := 0; i+bytesPerFrame <= len(pcm); i += bytesPerFrame {
		l := int16(binary.LittleEndian.Uint16(pcm[i : i+2]))
		var r int16
		if channels >= 2 {
			r = int16(binary.LittleEndian.Uint16(pcm[i+2 : i+4]))
		} else {
			r = l
		}
		frames = append(frames, [2]float64{float64(l) / 32768.0, float64(r) / 32768.0})
	}

	return &AudioBeamSource{
		sampleRate: int(sampleRate),
		frames:     frames,
		intensity:  intensity,
	}, nil
}

func (s *AudioBeamSource) Name() string { return "audio" }

func (s *AudioBeamSource) Close() error { return nil }

// NextBatch advances playback position by dtSec and emits one BeamSample
// per decoded frame covered, looping back to the start at end of file.
func (s *AudioBeamSource) NextBatch(dst []BeamSample, dtSec float64) []BeamSample {
	if len(s.frames) == 0 || dtSec <= 0 {
		return dst
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	framesToEmit := int(dtSec * float64(s.sampleRate))
	if framesToEmit < 1 {
		framesToEmit = 1
	}
	dtPerFrame := 1.0 / float64(s.sampleRate)

	for i := 0; i < framesToEmit; i++ {
		idx := int(s.posFrames) % len(s.frames)
		fr := s.frames[idx]
		dst = append(dst, BeamSample{X: fr[0], Y: fr[1], Intensity: s.intensity, DtSec: dtPerFrame})
		s.posFrames++
	}
	if int(s.posFrames) >= len(s.frames) {
		s.posFrames = math64Mod(s.posFrames, float64(len(s.frames)))
	}
	return dst
}

func math64Mod(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	for a >= b {
		a -= b
	}
	return a
}

// ReadMonitorFrames fills dst with interleaved stereo float32 frames for
// the optional OtoPlayer listen-along monitor, reading from the current
// playback position without moving it.
func (s *AudioBeamSource) ReadMonitorFrames(dst []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	n := len(dst) / 2
	base := int(s.posFrames)
	for i := 0; i < n; i++ {
		idx := (base + i) % len(s.frames)
		fr := s.frames[idx]
		dst[2*i] = float32(fr[0])
		dst[2*i+1] = float32(fr[1])
	}
}
