// halation_scatter.go - Faceplate halation/scatter stage

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "math"

// ScatterParams configures the halation stage (spec.md §4.9).
type ScatterParams struct {
	Threshold   float64 // luminance floor before a pixel contributes to scatter
	DownsampleN int      // downsample factor, e.g. 4
	BlurSigma   float64  // Gaussian blur sigma, in downsampled pixels
	Intensity   float64  // scale applied when adding scatter back in
}

func DefaultScatterParams() ScatterParams {
	return ScatterParams{Threshold: 0.6, DownsampleN: 4, BlurSigma: 6, Intensity: 0.35}
}

// ScatterBuffer holds the low-resolution blurred bloom/halation contribution,
// stored at full resolution (Compute upsamples it by nearest-neighbor) so
// AddToFrame doesn't need a second resize pass.
type ScatterBuffer struct {
	Width, Height int
	Luma          []float32 // full-res scalar scatter contribution
}

func NewScatterBuffer(w, h int) *ScatterBuffer {
	return &ScatterBuffer{Width: w, Height: h, Luma: make([]float32, w*h)}
}

// Compute thresholds the HDR frame's luminance, downsamples, blurs
// separably (horizontal pass then vertical pass) and upsamples back to
// full resolution (spec.md §4.9: "threshold-downsample + separable
// Gaussian blur").
func (sb *ScatterBuffer) Compute(hdr *HDRFrame, params ScatterParams) {
	w, h := hdr.Width, hdr.Height
	if sb.Width != w || sb.Height != h {
		*sb = *NewScatterBuffer(w, h)
	}
	n := params.DownsampleN
	if n < 1 {
		n = 1
	}
	dw := (w + n - 1) / n
	dh := (h + n - 1) / n

	low := make([]float32, dw*dh)
	for dy := 0; dy < dh; dy++ {
		for dx := 0; dx < dw; dx++ {
			var sum float32
			var count int
			for sy := 0; sy < n; sy++ {
				y := dy*n + sy
				if y >= h {
					continue
				}
				for sx := 0; sx < n; sx++ {
					x := dx*n + sx
					if x >= w {
						continue
					}
					idx := (y*w + x) * 4
					luma := 0.2126*hdr.RGBA[idx] + 0.7152*hdr.RGBA[idx+1] + 0.0722*hdr.RGBA[idx+2]
					if float64(luma) > params.Threshold {
						sum += luma - float32(params.Threshold)
					}
					count++
				}
			}
			if count > 0 {
				low[dy*dw+dx] = sum / float32(count)
			}
		}
	}

	kernel := gaussianKernel1D(params.BlurSigma)
	tmp := make([]float32, dw*dh)
	separableBlurHorizontal(low, tmp, dw, dh, kernel)
	separableBlurVertical(tmp, low, dw, dh, kernel)

	// Nearest-neighbor upsample back to full resolution.
	for y := 0; y < h; y++ {
		sy := y / n
		if sy >= dh {
			sy = dh - 1
		}
		for x := 0; x < w; x++ {
			sx := x / n
			if sx >= dw {
				sx = dw - 1
			}
			sb.Luma[y*w+x] = low[sy*dw+sx] * float32(params.Intensity)
		}
	}
}

func gaussianKernel1D(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float32, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = float32(v)
		sum += v
	}
	for i := range kernel {
		kernel[i] = float32(float64(kernel[i]) / sum)
	}
	return kernel
}

func separableBlurHorizontal(src, dst []float32, w, h int, kernel []float32) {
	radius := len(kernel) / 2
	for y := 0; y < h; y++ {
		rowOff := y * w
		for x := 0; x < w; x++ {
			var acc float32
			for k := -radius; k <= radius; k++ {
				sx := x + k
				if sx < 0 {
					sx = 0
				}
				if sx >= w {
					sx = w - 1
				}
				acc += src[rowOff+sx] * kernel[k+radius]
			}
			dst[rowOff+x] = acc
		}
	}
}

func separableBlurVertical(src, dst []float32, w, h int, kernel []float32) {
	radius := len(kernel) / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float32
			for k := -radius; k <= radius; k++ {
				sy := y + k
				if sy < 0 {
					sy = 0
				}
				if sy >= h {
					sy = h - 1
				}
				acc += src[sy*w+x] * kernel[k+radius]
			}
			dst[y*w+x] = acc
		}
	}
}

// AddToFrame folds the scalar scatter contribution back into every RGB
// channel of the HDR frame (a white-light haze, matching faceplate
// scatter's lack of color selectivity).
func (sb *ScatterBuffer) AddToFrame(hdr *HDRFrame) {
	AddScatterToFrame(hdr.RGBA, sb.Luma, hdr.Width, hdr.Height)
}
