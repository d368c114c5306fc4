// sim_loop.go - Fixed-rate simulation goroutine producing beam samples

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// SimLoop owns the beam source, the arc-length resampler and the sample
// ring; it runs at an adaptive batch interval on its own goroutine
// (spec.md §4.6), the same ticker-driven "select over done/ticker.C"
// shape used elsewhere in this codebase for fixed-rate background work.
type SimLoop struct {
	mu             sync.Mutex
	source         BeamSource
	resampler      *ArcLengthResampler
	ring           *SampleRing
	control        chan SimControlMsg
	done           chan struct{}
	stats          *SimStats
	batchInterval  atomic.Int64 // nanoseconds
	paused         atomic.Bool
	viewportW      atomic.Int64
	viewportH      atomic.Int64
	log            *logrus.Logger
	wg             sync.WaitGroup
}

func NewSimLoop(source BeamSource, sigmaViewport float64, sampleRateHz int, log *logrus.Logger) *SimLoop {
	if log == nil {
		log = logrus.StandardLogger()
	}
	l := &SimLoop{
		source:    source,
		resampler: NewArcLengthResampler(sigmaViewport),
		ring:      NewSampleRing(sampleRateHz),
		control:   make(chan SimControlMsg, 64), // unbounded in practice; sized generously
		done:      make(chan struct{}),
		stats:     &SimStats{},
		log:       log,
	}
	l.batchInterval.Store(int64(DefaultBatch))
	l.viewportW.Store(640)
	l.viewportH.Store(480)
	return l
}

func (l *SimLoop) Ring() *SampleRing { return l.ring }
func (l *SimLoop) Stats() *SimStats  { return l.stats }
func (l *SimLoop) Control() chan<- SimControlMsg { return l.control }

func (l *SimLoop) SetViewport(w, h int) {
	l.viewportW.Store(int64(w))
	l.viewportH.Store(int64(h))
}

// Start spawns the simulation goroutine.
func (l *SimLoop) Start() {
	l.wg.Add(1)
	go l.run()
}

// Stop signals the goroutine to exit and waits for it.
func (l *SimLoop) Stop() {
	close(l.done)
	l.wg.Wait()
}

func (l *SimLoop) run() {
	defer l.wg.Done()

	interval := time.Duration(l.batchInterval.Load())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var batch []BeamSample
	lastTick := time.Now()

	for {
		select {
		case <-l.done:
			return
		case msg := <-l.control:
			l.applyControl(msg)
			newInterval := time.Duration(l.batchInterval.Load())
			if newInterval != interval {
				interval = newInterval
				ticker.Reset(interval)
			}
		case now := <-ticker.C:
			if l.paused.Load() {
				lastTick = now
				continue
			}
			dt := now.Sub(lastTick).Seconds()
			lastTick = now

			l.mu.Lock()
			source := l.source
			l.mu.Unlock()
			if source == nil {
				continue
			}

			batch = batch[:0]
			batch = source.NextBatch(batch, dt)
			batch = l.resampler.Resample(batch)
			batch = l.resampler.Flush(batch)

			ApplyAspectCorrection(batch, int(l.viewportW.Load()), int(l.viewportH.Load()))
			ApplyEnergyScale(batch)

			written := l.ring.BulkPush(batch)
			dropped := len(batch) - written
			if dropped > 0 {
				l.log.WithField("dropped", dropped).Warn("sample ring overrun, dropping the newest samples of this batch")
			}
			l.stats.RecordBatch(written, dropped, l.ring.Len())
			l.stats.SetBatchInterval(int64(interval))

			// Double the interval when generation took over 80% of it,
			// halve it under 20%, within [MinBatchInterval, MaxBatchInterval].
			next := interval
			if took := time.Since(now); took > interval*8/10 && interval < MaxBatchInterval {
				next = interval * 2
			} else if took < interval/5 && interval > MinBatchInterval {
				next = interval / 2
			}
			if next != interval {
				interval = min(max(next, MinBatchInterval), MaxBatchInterval)
				l.batchInterval.Store(int64(interval))
				ticker.Reset(interval)
			}
		}
	}
}

func (l *SimLoop) applyControl(msg SimControlMsg) {
	defer func() {
		if msg.Done != nil {
			close(msg.Done)
		}
	}()

	switch msg.Kind {
	case SimCtrlSetBatchInterval:
		ns := int64(msg.BatchInterval * float64(time.Second))
		if ns < int64(MinBatchInterval) {
			ns = int64(MinBatchInterval)
		}
		if ns > int64(MaxBatchInterval) {
			ns = int64(MaxBatchInterval)
		}
		l.batchInterval.Store(ns)
	case SimCtrlPause:
		l.paused.Store(true)
	case SimCtrlResume:
		l.paused.Store(false)
	case SimCtrlSwitchSource:
		// Source swaps go through SetSource, which replaces l.source
		// directly; this message only acknowledges.
	case SimCtrlSwitchPhosphor:
		// Phosphor swaps reallocate the accumulation buffer on the render
		// side; the sim loop doesn't own phosphor state.
	case SimCtrlShutdown:
	}
}

// SetSource swaps the active beam source under the loop's mutex, closing
// the previous one.
func (l *SimLoop) SetSource(src BeamSource) error {
	l.mu.Lock()
	old := l.source
	l.source = src
	l.mu.Unlock()
	if old != nil {
		return old.Close()
	}
	return nil
}
