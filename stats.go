// stats.go - Lock-free simulation/render statistics

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "sync/atomic"

// SimStats tracks counters updated from the simulation goroutine and read
// from the render thread and debug overlay without locking (spec.md
// §4.11 status line, §4.6 backlog cap).
type SimStats struct {
	samplesProduced atomic.Uint64
	samplesDropped  atomic.Uint64
	batchesRun      atomic.Uint64
	ringBacklog     atomic.Int64
	batchIntervalNs atomic.Int64
}

func (s *SimStats) RecordBatch(produced, dropped int, backlog int) {
	s.samplesProduced.Add(uint64(produced))
	s.samplesDropped.Add(uint64(dropped))
	s.batchesRun.Add(1)
	s.ringBacklog.Store(int64(backlog))
}

func (s *SimStats) SetBatchInterval(nanos int64) {
	s.batchIntervalNs.Store(nanos)
}

type SimStatsSnapshot struct {
	SamplesProduced uint64
	SamplesDropped  uint64
	BatchesRun      uint64
	RingBacklog     int64
	BatchIntervalNs int64
}

func (s *SimStats) Snapshot() SimStatsSnapshot {
	return SimStatsSnapshot{
		SamplesProduced: s.samplesProduced.Load(),
		SamplesDropped:  s.samplesDropped.Load(),
		BatchesRun:      s.batchesRun.Load(),
		RingBacklog:     s.ringBacklog.Load(),
		BatchIntervalNs: s.batchIntervalNs.Load(),
	}
}
