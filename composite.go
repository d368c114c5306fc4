// composite.go - Composite stage: distortion, tint, vignette, tonemap

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "math"

// TonemapMode selects the HDR-to-display mapping (spec.md §4.11).
type TonemapMode int

const (
	TonemapNone TonemapMode = iota
	TonemapClamp
	TonemapReinhard
	TonemapACES
)

func (m TonemapMode) String() string {
	switch m {
	case TonemapClamp:
		return "clamp"
	case TonemapReinhard:
		return "reinhard"
	case TonemapACES:
		return "aces"
	default:
		return "none"
	}
}

// CompositeParams configures the final display stage (spec.md §4.11).
type CompositeParams struct {
	BarrelK     float64 // barrel distortion coefficient, 0 disables
	GlassTint   [3]float32
	EdgeFalloff float64 // vignette strength, 0 disables
	Tonemap     TonemapMode
	Exposure    float64
}

func DefaultCompositeParams() CompositeParams {
	return CompositeParams{
		BarrelK:     0.06,
		GlassTint:   [3]float32{0.96, 0.98, 1.0},
		EdgeFalloff: 0.25,
		Tonemap:     TonemapReinhard,
		Exposure:    1.0,
	}
}

// Composite renders hdr into an 8-bit RGBA output buffer sized
// dstW x dstH, applying barrel distortion (sampling the source at a
// pincushion-inverse-warped coordinate), faceplate glass tint, radial
// edge falloff and the selected tonemap curve (spec.md §4.11).
func Composite(hdr *HDRFrame, params CompositeParams, dst []byte, dstW, dstH int) {
	srcW, srcH := hdr.Width, hdr.Height
	for y := 0; y < dstH; y++ {
		ny := (float64(y)+0.5)/float64(dstH)*2 - 1 // [-1,1]
		for x := 0; x < dstW; x++ {
			nx := (float64(x)+0.5)/float64(dstW)*2 - 1

			sx, sy := nx, ny
			if params.BarrelK != 0 {
				sx, sy = applyBarrelDistortion(nx, ny, params.BarrelK)
			}

			idx := (y*dstW + x) * 4
			if sx < -1 || sx > 1 || sy < -1 || sy > 1 {
				dst[idx], dst[idx+1], dst[idx+2], dst[idx+3] = 0, 0, 0, 255
				continue
			}

			px := int((sx + 1) * 0.5 * float64(srcW))
			py := int((1 - (sy+1)*0.5) * float64(srcH))
			if px < 0 {
				px = 0
			}
			if px >= srcW {
				px = srcW - 1
			}
			if py < 0 {
				py = 0
			}
			if py >= srcH {
				py = srcH - 1
			}
			sIdx := (py*srcW + px) * 4
			r := hdr.RGBA[sIdx] * params.GlassTint[0] * float32(params.Exposure)
			g := hdr.RGBA[sIdx+1] * params.GlassTint[1] * float32(params.Exposure)
			b := hdr.RGBA[sIdx+2] * params.GlassTint[2] * float32(params.Exposure)
			l := hdr.RGBA[sIdx+3] * float32(params.Exposure) // CIE Y, exposure-scaled (spec.md §4.12)

			if params.EdgeFalloff > 0 {
				vf := edgeFalloffFactor(sx, sy, params.EdgeFalloff)
				r *= vf
				g *= vf
				b *= vf
				l *= vf
			}

			r, g, b = tonemap(params.Tonemap, r, g, b, l)

			dst[idx] = toByte(r)
			dst[idx+1] = toByte(g)
			dst[idx+2] = toByte(b)
			dst[idx+3] = 255
		}
	}
}

// applyBarrelDistortion warps a normalized output coordinate back into
// source space for a simple quadratic barrel/pincushion model: r' =
// r*(1+k*r^2). k>0 here samples a barrel-distorted source so the final
// image appears to bulge like a CRT faceplate.
func applyBarrelDistortion(x, y, k float64) (float64, float64) {
	r2 := x*x + y*y
	factor := 1 + k*r2
	return x * factor, y * factor
}

// edgeFalloffFactor computes the vignette dimming factor for a
// post-distortion normalized coordinate (spec.md §4.12: "1 - 4*|uv_d -
// center|^2 * falloff_strength"), evaluated on uv_d (the coordinate
// already warped by barrel distortion) so the dark ring follows the
// faceplate curvature rather than the undistorted viewport.
func edgeFalloffFactor(x, y, strength float64) float32 {
	r2 := x*x + y*y
	v := 1 - 4*r2*strength
	if v < 0 {
		v = 0
	}
	return float32(v)
}

// tonemap applies the selected HDR-to-display curve. l is the pixel's
// CIE Y luminance (already exposure-scaled), used by the hue-preserving
// Reinhard form (spec.md §4.12).
func tonemap(mode TonemapMode, r, g, b, l float32) (float32, float32, float32) {
	switch mode {
	case TonemapClamp:
		return clamp01(r), clamp01(g), clamp01(b)
	case TonemapReinhard:
		return reinhardHuePreserving(r, g, b, l)
	case TonemapACES:
		return acesFilm(r), acesFilm(g), acesFilm(b)
	default:
		return r, g, b
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// reinhardHuePreserving implements spec.md §4.12's hue-preserving Reinhard
// tonemap: rgb * (L/(1+L)) / L, with L the pixel's CIE Y luminance. Scaling
// the whole rgb triple by one factor derived from L (rather than rolling
// off each channel independently, as naive per-channel Reinhard does)
// keeps the tonemapped color's hue and saturation identical to the linear
// input's; only its overall brightness compresses toward white.
func reinhardHuePreserving(r, g, b, l float32) (float32, float32, float32) {
	if l <= 0 {
		return 0, 0, 0
	}
	scale := (l / (1 + l)) / l
	return r * scale, g * scale, b * scale
}

// acesFilm is the Narkowicz fit commonly used for a cheap approximate
// ACES filmic tonemap curve.
func acesFilm(v float32) float32 {
	const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
	if v < 0 {
		v = 0
	}
	result := (v * (a*v + b)) / (v*(c*v+d) + e)
	return clamp01(result)
}

func toByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
