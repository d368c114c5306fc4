package main

import (
	"math"
	"testing"
)

func TestReinhardHuePreservingBoundedAndMonotonicOnGray(t *testing.T) {
	prev := float32(0)
	for _, v := range []float32{0, 0.5, 1, 2, 10, 1000} {
		r, g, b := reinhardHuePreserving(v, v, v, v)
		if r < 0 || r >= 1 || g < 0 || g >= 1 || b < 0 || b >= 1 {
			t.Errorf("reinhardHuePreserving(%v,%v,%v,%v) = (%v,%v,%v), want each in [0,1)", v, v, v, v, r, g, b)
		}
		if r < prev {
			t.Errorf("reinhardHuePreserving not monotonic at %v: got %v < prev %v", v, r, prev)
		}
		prev = r
	}
}

func TestReinhardHuePreservingKeepsChannelRatios(t *testing.T) {
	// Hue-preserving tonemap scales the whole rgb triple by one factor, so
	// channel ratios before and after must match (spec.md §4.12).
	r, g, b := reinhardHuePreserving(2, 1, 0.5, 3)
	if g == 0 || b == 0 {
		t.Fatal("expected nonzero g,b for this input")
	}
	if want, got := 2.0, float64(r/g); math.Abs(got-want) > 1e-5 {
		t.Errorf("r/g ratio = %v, want %v", got, want)
	}
	if want, got := 4.0, float64(r/b); math.Abs(got-want) > 1e-5 {
		t.Errorf("r/b ratio = %v, want %v", got, want)
	}
}

func TestReinhardHuePreservingZeroLuminanceIsBlack(t *testing.T) {
	r, g, b := reinhardHuePreserving(1, 1, 1, 0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("reinhardHuePreserving with l=0 = (%v,%v,%v), want (0,0,0)", r, g, b)
	}
}

func TestACESFilmClampedToUnitRange(t *testing.T) {
	for _, v := range []float32{-1, 0, 0.5, 1, 1000} {
		got := acesFilm(v)
		if got < 0 || got > 1 {
			t.Errorf("acesFilm(%v) = %v, want in [0,1]", v, got)
		}
	}
}

func TestToByteClampsExtremes(t *testing.T) {
	if b := toByte(-1); b != 0 {
		t.Errorf("toByte(-1) = %d, want 0", b)
	}
	if b := toByte(2); b != 255 {
		t.Errorf("toByte(2) = %d, want 255", b)
	}
	if b := toByte(1); b != 255 {
		t.Errorf("toByte(1) = %d, want 255", b)
	}
}

func TestTonemapModeString(t *testing.T) {
	cases := map[TonemapMode]string{
		TonemapNone: "none", TonemapClamp: "clamp",
		TonemapReinhard: "reinhard", TonemapACES: "aces",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", int(mode), got, want)
		}
	}
}

func TestEdgeFalloffFactorMatchesFourTimesRadiusSquaredFormula(t *testing.T) {
	x, y, strength := 0.3, 0.4, 0.5 // r^2 = 0.25
	got := edgeFalloffFactor(x, y, strength)
	want := float32(1 - 4*0.25*strength)
	if math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("edgeFalloffFactor(%v,%v,%v) = %v, want %v", x, y, strength, got, want)
	}
}

func TestEdgeFalloffFactorClampsAtZero(t *testing.T) {
	if got := edgeFalloffFactor(1, 1, 1); got != 0 {
		t.Errorf("edgeFalloffFactor far from center = %v, want 0 (clamped)", got)
	}
}

func TestCompositeProducesFullyOpaqueOutputForLitFrame(t *testing.T) {
	hdr := NewHDRFrame(4, 4)
	for i := 0; i < 4*4; i++ {
		idx := i * 4
		hdr.RGBA[idx], hdr.RGBA[idx+1], hdr.RGBA[idx+2], hdr.RGBA[idx+3] = 0.5, 0.5, 0.5, 1
	}
	dst := make([]byte, 4*4*4)
	params := DefaultCompositeParams()
	params.BarrelK = 0 // isolate tonemap/vignette behavior from the sampling warp
	Composite(hdr, params, dst, 4, 4)

	center := (2*4 + 2) * 4
	if dst[center+3] == 0 {
		t.Error("expected nonzero alpha near the center of a fully lit frame")
	}
}
