// sample_ring.go - Single-producer/single-consumer beam sample ring buffer

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import "sync/atomic"

// SampleRing is a lock-free SPSC ring buffer carrying BeamSamples from the
// simulation goroutine to the render thread (spec.md §5.5). Capacity must
// be a power of two so index wrapping is a mask instead of a modulo.
type SampleRing struct {
	buf      []BeamSample
	mask     uint64
	writePos atomic.Uint64
	readPos  atomic.Uint64
}

// NewSampleRing sizes the ring to the next power of two at or above both
// MinRingCapacity and 1.5x the expected sample rate (spec.md §5.5).
func NewSampleRing(sampleRateHz int) *SampleRing {
	want := int(1.5 * float64(sampleRateHz))
	if want < MinRingCapacity {
		want = MinRingCapacity
	}
	cap := nextPowerOfTwo(want)
	return &SampleRing{
		buf:  make([]BeamSample, cap),
		mask: uint64(cap - 1),
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (r *SampleRing) Capacity() int { return len(r.buf) }

// BulkPush writes as many samples from src as fit without overrunning the
// reader, returning the count actually written. The producer (simulation
// goroutine) is the sole caller.
func (r *SampleRing) BulkPush(src []BeamSample) int {
	write := r.writePos.Load()
	read := r.readPos.Load()
	free := uint64(len(r.buf)) - (write - read)
	n := uint64(len(src))
	if n > free {
		n = free
	}
	for i := uint64(0); i < n; i++ {
		r.buf[(write+i)&r.mask] = src[i]
	}
	r.writePos.Store(write + n)
	return int(n)
}

// BulkDrain copies up to len(dst) available samples into dst, returning
// the count read. The consumer (render thread) is the sole caller.
func (r *SampleRing) BulkDrain(dst []BeamSample) int {
	write := r.writePos.Load()
	read := r.readPos.Load()
	available := write - read
	n := uint64(len(dst))
	if n > available {
		n = available
	}
	for i := uint64(0); i < n; i++ {
		dst[i] = r.buf[(read+i)&r.mask]
	}
	r.readPos.Store(read + n)
	return int(n)
}

// Len reports the number of unread samples currently buffered.
func (r *SampleRing) Len() int {
	return int(r.writePos.Load() - r.readPos.Load())
}
