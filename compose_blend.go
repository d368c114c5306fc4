// compose_blend.go - Strip-parallel additive blending for the scatter stage

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "sync"

// blendStripHeight is the row-count per goroutine used when a frame is
// large enough that splitting the work pays for the goroutine overhead.
const blendStripHeight = 60

// AddScatterToFrame folds the faceplate scatter buffer into the resolved
// HDR RGBA frame in place (spec.md §4.9: composite reads HDR + scatter),
// one strip of rows per goroutine for frames taller than blendStripHeight.
func AddScatterToFrame(rgba []float32, luma []float32, w, h int) {
	if h <= blendStripHeight {
		addScatterRows(rgba, luma, w, 0, h)
		return
	}
	var wg sync.WaitGroup
	for y0 := 0; y0 < h; y0 += blendStripHeight {
		y1 := y0 + blendStripHeight
		if y1 > h {
			y1 = h
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			addScatterRows(rgba, luma, w, startY, endY)
		}(y0, y1)
	}
	wg.Wait()
}

func addScatterRows(rgba []float32, luma []float32, w, startY, endY int) {
	for y := startY; y < endY; y++ {
		rowOff := y * w
		for x := 0; x < w; x++ {
			idx := (rowOff + x) * 4
			s := luma[rowOff+x]
			rgba[idx] += s
			rgba[idx+1] += s
			rgba[idx+2] += s
		}
	}
}
