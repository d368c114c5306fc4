package main

import (
	"math"
	"testing"
)

func TestDecayMultiplierByOneTauIsInverseE(t *testing.T) {
	term := DecayTerm{Kind: DecaySlowExponential, TauSec: 10e-3}
	mult := decayMultiplier(term, term.TauSec, 0)
	want := 1 / math.E
	if math.Abs(mult-want) > 1e-9 {
		t.Errorf("decayMultiplier at dt=tau = %v, want %v (1/e)", mult, want)
	}
}

func TestDecayMultiplierMonotonicallyDecreasing(t *testing.T) {
	term := DecayTerm{Kind: DecaySlowExponential, TauSec: 5e-3}
	prev := 1.0
	for _, dt := range []float64{1e-3, 5e-3, 10e-3, 50e-3} {
		mult := decayMultiplier(term, dt, 0)
		if mult >= prev {
			t.Errorf("decayMultiplier(dt=%v) = %v, not less than previous %v", dt, mult, prev)
		}
		if mult < 0 || mult > 1 {
			t.Errorf("decayMultiplier(dt=%v) = %v, out of [0,1]", dt, mult)
		}
		prev = mult
	}
}

func TestDecayMultiplierPowerLawFlattensWithElapsed(t *testing.T) {
	// A power-law tail decays fastest early on and flattens out: the
	// per-tick multiplier should approach 1 (less relative loss per tick)
	// as the layer's cumulative elapsed time grows, the "afterglow tail"
	// behavior spec.md calls out for P31.
	term := DecayTerm{Kind: DecayPowerLaw, Alpha: 1.5, Beta: 0.8}
	m1 := decayMultiplier(term, 1e-3, 1e-3)
	m2 := decayMultiplier(term, 1e-3, 100e-3)
	if m2 <= m1 {
		t.Errorf("power-law multiplier at elapsed=100ms (%v) should be larger (closer to 1) than at elapsed=1ms (%v)", m2, m1)
	}
	if m1 <= 0 || m1 >= 1 || m2 <= 0 || m2 >= 1 {
		t.Errorf("multipliers out of (0,1): m1=%v m2=%v", m1, m2)
	}
}

func TestDecayMultiplierPowerLawMatchesPeakFormula(t *testing.T) {
	// Composing per-tick multipliers from elapsed=0 must reproduce
	// spec.md §4.9's peak*(alpha/(elapsed+alpha))^beta exactly.
	term := DecayTerm{Kind: DecayPowerLaw, Alpha: 2.0, Beta: 1.3}
	peak := 4.0
	elapsed, dt := 0.0, 5e-3
	v := peak
	for i := 0; i < 10; i++ {
		v *= decayMultiplier(term, dt, elapsed)
		elapsed += dt
	}
	want := peak * math.Pow(term.Alpha/(elapsed+term.Alpha), term.Beta)
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("composed power-law decay = %v, want %v", v, want)
	}
}

func TestAccumBufferAddAtAndSumBand(t *testing.T) {
	p := BuiltinPhosphors()["P22G"]
	b := NewAccumBuffer(4, 4, p)
	var emission [BandCount]float64
	emission[3] = 1.0
	b.AddAt(1, 1, 0, emission, 2.0)

	if got := b.At(3, 1, 1, 0); got != 2.0 {
		t.Errorf("At(band=3,1,1,0) = %v, want 2.0", got)
	}
	if got := b.SumBand(3, 1, 1); got != 2.0 {
		t.Errorf("SumBand(3,1,1) = %v, want 2.0", got)
	}
	if got := b.At(3, 2, 2, 0); got != 0 {
		t.Errorf("At(band=3,2,2,0) = %v, want 0 (untouched cell)", got)
	}
}

func TestAccumBufferAddAtOutOfBoundsIsNoOp(t *testing.T) {
	p := BuiltinPhosphors()["P1"]
	b := NewAccumBuffer(4, 4, p)
	var emission [BandCount]float64
	emission[0] = 1
	b.AddAt(-1, 0, 0, emission, 5.0)
	b.AddAt(100, 0, 0, emission, 5.0)
	b.AddAt(0, 0, 99, emission, 5.0)
	for band := 0; band < BandCount; band++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				for l := 0; l < b.Layers; l++ {
					if b.At(band, x, y, l) != 0 {
						t.Fatalf("out-of-bounds AddAt mutated cell band=%d x=%d y=%d l=%d", band, x, y, l)
					}
				}
			}
		}
	}
}

func TestAccumBufferZeroClearsPlanesAndElapsed(t *testing.T) {
	p := BuiltinPhosphors()["P31"] // carries a power-law term
	b := NewAccumBuffer(2, 2, p)
	var emission [BandCount]float64
	emission[0] = 1
	b.AddAt(0, 0, 0, emission, 1.0)
	b.AdvanceElapsed(1.5)

	b.Zero()
	if got := b.At(0, 0, 0, 0); got != 0 {
		t.Errorf("At after Zero = %v, want 0", got)
	}
	if got := b.ElapsedAt(0, 0); got != 0 {
		t.Errorf("ElapsedAt after Zero = %v, want 0", got)
	}
	if got := b.ElapsedAt(1, 1); got != 0 {
		t.Errorf("ElapsedAt(1,1) after Zero = %v, want 0", got)
	}
}

func TestAccumBufferElapsedIsPerTexelNotSharedAcrossPlane(t *testing.T) {
	p := BuiltinPhosphors()["P31"]
	b := NewAccumBuffer(4, 4, p)

	b.AdvanceElapsed(1.0) // as if 1000 frames of dt=1ms had passed everywhere
	b.ResetElapsedAt(2, 2)
	b.AdvanceElapsed(0.01) // a fresh hit one tick ago at (2,2)

	freshlyHit := b.ElapsedAt(2, 2)
	untouched := b.ElapsedAt(0, 0)
	if freshlyHit >= untouched {
		t.Errorf("freshly-reset texel elapsed %v should be far less than untouched texel elapsed %v", freshlyHit, untouched)
	}
	if math.Abs(freshlyHit-0.01) > 1e-9 {
		t.Errorf("freshly-reset texel elapsed = %v, want ~0.01", freshlyHit)
	}
	if math.Abs(untouched-1.01) > 1e-9 {
		t.Errorf("untouched texel elapsed = %v, want ~1.01", untouched)
	}
}

func TestAccumBufferReallocateChangesDimensions(t *testing.T) {
	p := BuiltinPhosphors()["P1"]
	b := NewAccumBuffer(4, 4, p)
	b.Reallocate(8, 6, p)
	if b.Width != 8 || b.Height != 6 {
		t.Errorf("Reallocate dims = (%d,%d), want (8,6)", b.Width, b.Height)
	}
	if len(b.planes[0]) != 8*6*b.Layers {
		t.Errorf("plane size = %d, want %d", len(b.planes[0]), 8*6*b.Layers)
	}
}
