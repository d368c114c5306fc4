package main

import "testing"

func TestSimStatsSnapshot(t *testing.T) {
	s := &SimStats{}
	s.RecordBatch(100, 5, 42)
	s.SetBatchInterval(int64(DefaultBatch))

	snap := s.Snapshot()
	if snap.SamplesProduced != 100 {
		t.Errorf("SamplesProduced = %d, want 100", snap.SamplesProduced)
	}
	if snap.SamplesDropped != 5 {
		t.Errorf("SamplesDropped = %d, want 5", snap.SamplesDropped)
	}
	if snap.BatchesRun != 1 {
		t.Errorf("BatchesRun = %d, want 1", snap.BatchesRun)
	}
	if snap.RingBacklog != 42 {
		t.Errorf("RingBacklog = %d, want 42", snap.RingBacklog)
	}
	if snap.BatchIntervalNs != int64(DefaultBatch) {
		t.Errorf("BatchIntervalNs = %d, want %d", snap.BatchIntervalNs, int64(DefaultBatch))
	}
}

func TestSimStatsAccumulatesAcrossBatches(t *testing.T) {
	s := &SimStats{}
	s.RecordBatch(10, 0, 1)
	s.RecordBatch(20, 2, 5)
	snap := s.Snapshot()
	if snap.SamplesProduced != 30 {
		t.Errorf("SamplesProduced = %d, want 30", snap.SamplesProduced)
	}
	if snap.BatchesRun != 2 {
		t.Errorf("BatchesRun = %d, want 2", snap.BatchesRun)
	}
	if snap.RingBacklog != 5 {
		t.Errorf("RingBacklog = %d, want 5 (latest value, not accumulated)", snap.RingBacklog)
	}
}
