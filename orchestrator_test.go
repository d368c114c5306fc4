package main

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// fakeVideoOutput is a minimal in-memory VideoOutput for orchestrator tests,
// avoiding a real window (the default video_backend_ebiten.go build needs a
// live display/GL context it can't get under `go test`).
type fakeVideoOutput struct {
	config     DisplayConfig
	frameCount uint64
	lastFrame  []byte
	keyHandler func(UIKey)
}

func (f *fakeVideoOutput) Start() error { return nil }
func (f *fakeVideoOutput) Stop() error  { return nil }
func (f *fakeVideoOutput) Close() error { return nil }
func (f *fakeVideoOutput) IsStarted() bool { return true }
func (f *fakeVideoOutput) SetDisplayConfig(c DisplayConfig) error { f.config = c; return nil }
func (f *fakeVideoOutput) GetDisplayConfig() DisplayConfig        { return f.config }
func (f *fakeVideoOutput) UpdateFrame(buf []byte) error {
	f.frameCount++
	f.lastFrame = append(f.lastFrame[:0], buf...)
	return nil
}
func (f *fakeVideoOutput) WaitForVSync() error  { return nil }
func (f *fakeVideoOutput) GetFrameCount() uint64 { return f.frameCount }
func (f *fakeVideoOutput) GetRefreshRate() int   { return 500 } // fast tick for short test runs
func (f *fakeVideoOutput) SetKeyHandler(h func(UIKey)) { f.keyHandler = h }

func newTestOrchestrator(t *testing.T, phosphor string) (*Orchestrator, *fakeVideoOutput) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	display := &fakeVideoOutput{}
	orch, err := NewOrchestrator(32, 32, 8000, phosphor, display, log)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return orch, display
}

func TestOrchestratorOscilloscopeProducesFrames(t *testing.T) {
	orch, display := newTestOrchestrator(t, "P1")
	orch.Start()
	defer orch.Stop()

	deadline := time.After(2 * time.Second)
	for display.GetFrameCount() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only got %d frames before timeout", display.GetFrameCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestOrchestratorVectorSourceSwitch(t *testing.T) {
	orch, _ := newTestOrchestrator(t, "P1")
	if err := orch.CycleSource(true); err != nil { // oscilloscope -> vector
		t.Fatalf("CycleSource: %v", err)
	}
	if got := orch.State().SourceName; got != "vector" {
		t.Errorf("SourceName after one forward cycle = %q, want %q", got, "vector")
	}
}

func TestOrchestratorPhosphorSwitchReallocatesWithCorrectLayerCount(t *testing.T) {
	orch, _ := newTestOrchestrator(t, "P1")
	if err := orch.CyclePhosphor(true); err != nil {
		t.Fatalf("CyclePhosphor: %v", err)
	}
	name := orch.State().PhosphorName
	want := orch.phosphors[name].LayerCount()
	if got := orch.pipeline.Accum.Layers; got != want {
		t.Errorf("accumulation buffer has %d layers after switching to %s, want %d", got, name, want)
	}

	// Switching specifically to P31 must produce its 3-layer (power-law
	// peak + power-law elapsed + instant) accumulation buffer.
	for orch.State().PhosphorName != "P31" {
		orch.CyclePhosphor(true)
	}
	if got := orch.pipeline.Accum.Layers; got != 3 {
		t.Errorf("P31 accumulation buffer has %d layers, want 3", got)
	}
}

func TestOrchestratorTogglePause(t *testing.T) {
	orch, _ := newTestOrchestrator(t, "P1")
	if orch.State().Running != true {
		t.Fatal("orchestrator should start running")
	}
	orch.TogglePause()
	if orch.State().Running {
		t.Error("Running should be false after TogglePause")
	}
	orch.TogglePause()
	if !orch.State().Running {
		t.Error("Running should be true after a second TogglePause")
	}
}

func TestOrchestratorCycleTonemap(t *testing.T) {
	orch, _ := newTestOrchestrator(t, "P1")
	first := orch.State().Tonemap
	orch.CycleTonemap()
	if orch.State().Tonemap == first {
		t.Error("CycleTonemap did not change the tonemap mode")
	}
}

func TestOrchestratorUseExternalSourceExactSampleCount(t *testing.T) {
	orch, _ := newTestOrchestrator(t, "P1")
	input := strings.NewReader(
		"B 0.1 0.1 1.0 0.0001\n" +
			"B 0.2 0.2 1.0 0.0001\n" +
			"# a comment, ignored\n" +
			"\n" +
			"B 0.3 0.3 1.0 0.0001\n",
	)
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	if err := orch.UseExternalSource(input, log); err != nil {
		t.Fatalf("UseExternalSource: %v", err)
	}
	if got := orch.State().SourceName; got != "external" {
		t.Errorf("SourceName = %q, want %q", got, "external")
	}

	// Start only the simulation goroutine, not the render loop, so this
	// test is the ring's sole consumer (the ring is single-consumer).
	orch.sim.Start()
	defer orch.sim.Stop()

	deadline := time.After(2 * time.Second)
	for orch.sim.Ring().Len() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected 3 samples to reach the ring, got %d", orch.sim.Ring().Len())
		case <-time.After(5 * time.Millisecond):
		}
	}
	drained := make([]BeamSample, 3)
	if n := orch.sim.Ring().BulkDrain(drained); n != 3 {
		t.Errorf("drained %d samples, want exactly 3 for 3 well-formed B lines", n)
	}
}
