package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeTestWAV builds a minimal mono 16-bit PCM RIFF/WAVE file containing
// the given samples, the smallest valid header a real encoder would emit.
func writeTestWAV(t *testing.T, path string, sampleRate int, samples []int16) {
	t.Helper()
	dataSize := len(samples) * 2
	buf := make([]byte, 44+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(buf[32:34], 2)  // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16) // bits per sample
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[44+i*2:46+i*2], uint16(s))
	}

	writeFileBytes(t, path, buf)
}

func writeFileBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoadAudioBeamSourceWAVMonoDuplicatedToBothChannels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeTestWAV(t, path, 44100, []int16{0, 16384, -16384, 32767})

	src, err := LoadAudioBeamSource(path, 1.0)
	if err != nil {
		t.Fatalf("LoadAudioBeamSource: %v", err)
	}
	if len(src.frames) != 4 {
		t.Fatalf("len(frames) = %d, want 4", len(src.frames))
	}
	if src.frames[1][0] != src.frames[1][1] {
		t.Errorf("mono frame L/R mismatch: %v", src.frames[1])
	}
	if src.sampleRate != 44100 {
		t.Errorf("sampleRate = %d, want 44100", src.sampleRate)
	}
}

func TestLoadAudioBeamSourceWAVRejectsBadHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.wav")
	writeFileBytes(t, path, []byte("not a wav file at all"))

	if _, err := LoadAudioBeamSource(path, 1.0); err == nil {
		t.Error("expected an error for a malformed WAV header")
	}
}

func TestLoadAudioBeamSourceUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.ogg")
	writeFileBytes(t, path, []byte("irrelevant"))

	if _, err := LoadAudioBeamSource(path, 1.0); err == nil {
		t.Error("expected an error for an unsupported audio extension")
	}
}
