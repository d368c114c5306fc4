// gpu_pipeline_software.go - CPU reference implementation of the beam-write/decay/resolve pipeline

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "math"

// SoftwarePipeline runs the six-stage pipeline (spec.md §4) entirely on
// the CPU. It is the pipeline the orchestrator runs and the reference the
// tests exercise; VulkanPipeline in gpu_pipeline_vulkan.go has the same
// WriteBatch/Decay method set but records no GPU work.
type SoftwarePipeline struct {
	Accum         *AccumBuffer
	Phosphor      *PhosphorType
	plan          LayerPlan // layer assignment for Phosphor.Terms
	SigmaPixels   float64
	Width, Height int
}

// NewSoftwarePipeline builds the pipeline for a given phosphor and output
// resolution. sigmaPixels is the electron beam spot's standard deviation
// in device pixels (spec.md §4.8).
func NewSoftwarePipeline(width, height int, phosphor *PhosphorType, sigmaPixels float64) *SoftwarePipeline {
	p := &SoftwarePipeline{
		Accum:       NewAccumBuffer(width, height, phosphor),
		Phosphor:    phosphor,
		SigmaPixels: sigmaPixels,
		Width:       width,
		Height:      height,
	}
	p.plan = phosphor.BuildLayerPlan()
	return p
}

// SetPhosphor reallocates the accumulation buffer for a new phosphor type
// (spec.md §4.3: "reallocated on ... layer-count change"), preserving
// width/height.
func (p *SoftwarePipeline) SetPhosphor(phosphor *PhosphorType) {
	p.Phosphor = phosphor
	p.Accum.Reallocate(p.Width, p.Height, phosphor)
	p.plan = phosphor.BuildLayerPlan()
}

// Resize reallocates for a new output resolution (spec.md §4.3).
func (p *SoftwarePipeline) Resize(width, height int) {
	p.Width, p.Height = width, height
	p.Accum.Reallocate(width, height, p.Phosphor)
}

// deviceCoord maps normalized viewport coordinates in [-1,1] to pixel
// space, with (-1,+1) at the top-left corner (y grows upward, so y=-1 is
// the bottom edge).
func (p *SoftwarePipeline) deviceCoord(x, y float64) (float64, float64) {
	px := (x + 1) * 0.5 * float64(p.Width)
	py := (1 - (y+1)*0.5) * float64(p.Height)
	return px, py
}

// WriteBatch performs the beam-write stage for one batch of samples
// (spec.md §4.8): blanked samples only move the beam and deposit nothing;
// consecutive lit samples are splatted as line segments, isolated lit
// samples (first after a gap, or shorter than ShortSegmentPixels) as
// point Gaussians.
func (p *SoftwarePipeline) WriteBatch(samples []BeamSample) {
	var havePrev bool
	var prevX, prevY float64

	for _, s := range samples {
		px, py := p.deviceCoord(s.X, s.Y)
		if s.Blanked {
			havePrev = false
			prevX, prevY = px, py
			continue
		}
		if !havePrev {
			p.writePoint(px, py, s.Intensity*s.DtSec)
			havePrev = true
			prevX, prevY = px, py
			continue
		}
		dist := math.Hypot(px-prevX, py-prevY)
		if dist <= ShortSegmentPixels {
			p.writePoint(px, py, s.Intensity*s.DtSec)
		} else {
			p.writeSegment(prevX, prevY, px, py, s.Intensity*s.DtSec)
		}
		havePrev = true
		prevX, prevY = px, py
	}
}

// writePoint splats a single beam deposit as an isotropic 2D Gaussian
// (spec.md §4.8), normalized so its integral over the plane equals energy.
func (p *SoftwarePipeline) writePoint(cx, cy, energy float64) {
	if energy == 0 {
		return
	}
	sigma := p.SigmaPixels
	if sigma <= 0 {
		sigma = 1
	}
	radius := int(math.Ceil(GaussianCutoffSig * sigma))
	cxi, cyi := int(math.Floor(cx)), int(math.Floor(cy))
	norm := 1.0 / (2 * math.Pi * sigma * sigma)

	for dy := -radius; dy <= radius; dy++ {
		y := cyi + dy
		if y < 0 || y >= p.Height {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			x := cxi + dx
			if x < 0 || x >= p.Width {
				continue
			}
			ddx := float64(x) + 0.5 - cx
			ddy := float64(y) + 0.5 - cy
			r2 := ddx*ddx + ddy*ddy
			w := energy * norm * math.Exp(-r2/(2*sigma*sigma))
			p.depositWeighted(x, y, w)
		}
	}
}

// writeSegment splats an analytical line-integral Gaussian between two
// points (spec.md §4.8, "erf-based profile"): the perpendicular profile
// is a 1D Gaussian, the tangential profile is the integral of a point
// Gaussian along the segment, expressed via the error function so the
// ends fall off smoothly rather than being hard-clipped.
func (p *SoftwarePipeline) writeSegment(x0, y0, x1, y1, energy float64) {
	if energy == 0 {
		return
	}
	sigma := p.SigmaPixels
	if sigma <= 0 {
		sigma = 1
	}
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		p.writePoint(x0, y0, energy)
		return
	}
	ux, uy := dx/length, dy/length // unit tangent
	nx, ny := -uy, ux              // unit normal

	margin := GaussianCutoffSig * sigma
	minX := int(math.Floor(math.Min(x0, x1) - margin))
	maxX := int(math.Ceil(math.Max(x0, x1) + margin))
	minY := int(math.Floor(math.Min(y0, y1) - margin))
	maxY := int(math.Ceil(math.Max(y0, y1) + margin))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > p.Width {
		maxX = p.Width
	}
	if maxY > p.Height {
		maxY = p.Height
	}

	sqrt2 := math.Sqrt2
	// energy is spread uniformly along the segment's dwell time, so the
	// per-unit-length density is energy/length; the tangential erf
	// integral below recovers the total when integrated end to end.
	density := energy / length
	normPerp := 1.0 / (sigma * math.Sqrt(2*math.Pi))

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			px := float64(x) + 0.5 - x0
			py := float64(y) + 0.5 - y0
			s := px*ux + py*uy   // tangential coordinate along segment, 0..length
			d := px*nx + py*ny   // perpendicular distance

			tang := 0.5 * (math.Erf((length-s)/(sigma*sqrt2)) - math.Erf((-s)/(sigma*sqrt2)))
			perp := normPerp * math.Exp(-(d*d)/(2*sigma*sigma))
			w := density * tang * perp
			p.depositWeighted(x, y, w)
		}
	}
}

// depositWeighted fans a single scalar weight out across every decay
// term's layer according to the phosphor's emission spectrum and term
// weight (spec.md §4.3, §4.8). Power-law deposits reset that pixel's
// per-texel elapsed accumulator; instant-term deposits carry the term's
// whole analytically-integrated lifetime energy (weight*tau, spec.md
// §4.8) rather than its instantaneous amplitude, since the instant layer
// is never decayed tick by tick — it is observed once and zeroed.
func (p *SoftwarePipeline) depositWeighted(x, y int, weight float64) {
	if weight == 0 {
		return
	}
	for i, term := range p.Phosphor.Terms {
		layer := p.plan.TermLayer[i]
		switch term.Kind {
		case DecayInstant:
			p.Accum.AddAt(x, y, layer, p.Phosphor.Emission, weight*term.Weight*term.TauSec)
		case DecayPowerLaw:
			p.Accum.AddAt(x, y, layer, p.Phosphor.Emission, weight*term.Weight)
			p.Accum.ResetElapsedAt(x, y)
		default:
			p.Accum.AddAt(x, y, layer, p.Phosphor.Emission, weight*term.Weight)
		}
	}
}

// Decay advances every layer's decay state by dtSec (spec.md §4.10).
// Slow-exponential layers scale uniformly by a single multiplier, since
// exp(-dt/tau) is memoryless. The power-law peak layer scales per texel
// using that pixel's own elapsed time (spec.md §1/§3/§4.8's "per-texel
// elapsed-time tracking"), then the elapsed plane advances by dtSec
// everywhere. The instant layer is unconditionally zeroed: a sub-cutoff
// flash is observed for exactly the one resolved frame it landed on
// (spec.md §4.8/§4.10), never decayed by a multiplier.
func (p *SoftwarePipeline) Decay(dtSec float64) {
	for i, term := range p.Phosphor.Terms {
		if term.Kind != DecaySlowExponential {
			continue
		}
		layer := p.plan.TermLayer[i]
		mult := decayMultiplier(term, dtSec, 0)
		p.Accum.ScaleLayer(layer, mult)
		p.snapLayerToZero(layer)
	}

	if p.plan.HasPowerLaw {
		term := p.Phosphor.Terms[p.plan.PowerLawTerm]
		layer := p.plan.PowerLawPeak
		for y := 0; y < p.Height; y++ {
			for x := 0; x < p.Width; x++ {
				elapsed := p.Accum.ElapsedAt(x, y)
				mult := decayMultiplier(term, dtSec, elapsed)
				p.Accum.ScaleLayerAt(x, y, layer, mult)
			}
		}
		p.snapLayerToZero(layer)
		p.Accum.AdvanceElapsed(dtSec)
	}

	if p.plan.InstantCount > 0 {
		p.Accum.ZeroLayer(p.plan.InstantLayer)
	}
}

// snapLayerToZero clamps every sub-DecayThreshold cell in layer to zero
// (spec.md §4.10), across all bands.
func (p *SoftwarePipeline) snapLayerToZero(layer int) {
	stride := p.Width * p.Height
	off := layer * stride
	for band := 0; band < BandCount; band++ {
		plane := p.Accum.planes[band]
		for i := 0; i < stride; i++ {
			if plane[off+i] < DecayThreshold {
				plane[off+i] = 0
			}
		}
	}
}
