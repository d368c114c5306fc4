// orchestrator.go - Wires the simulation loop, pipeline and display together

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Orchestrator drives the render loop: drain ring -> beam write -> resolve
// -> decay -> scatter -> composite -> display, plus the UI control surface
// (spec.md §4.6, §4.11).
type Orchestrator struct {
	mu sync.Mutex

	sim      *SimLoop
	pipeline *SoftwarePipeline
	display  VideoOutput
	log      *logrus.Logger

	phosphors    map[string]*PhosphorType
	phosphorKeys []string
	phosphorIdx  int

	sources    map[string]func() (BeamSource, error)
	sourceKeys []string
	sourceIdx  int

	scatterParams   ScatterParams
	compositeParams CompositeParams
	scatter         *ScatterBuffer
	hdr             *HDRFrame

	width, height int
	sampleRateHz  int

	paused bool
	done   chan struct{}
	wg     sync.WaitGroup

	ui *UIActions
}

// NewOrchestrator builds the orchestrator around an initial phosphor and
// beam source, registering the full built-in phosphor library for
// runtime switching (spec.md §4.11: phosphor/source cycle keys).
func NewOrchestrator(width, height, sampleRateHz int, initialPhosphor string, display VideoOutput, log *logrus.Logger) (*Orchestrator, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	phosphors := BuiltinPhosphors()
	p, ok := phosphors[initialPhosphor]
	if !ok {
		return nil, fmt.Errorf("unknown phosphor %q", initialPhosphor)
	}

	keys := make([]string, 0, len(phosphors))
	for k := range phosphors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	idx := indexOf(keys, initialPhosphor)

	sigmaPixels := 1.2
	pipeline := NewSoftwarePipeline(width, height, p, sigmaPixels)
	sigmaViewport := sigmaPixels / float64(width) * 2

	source := NewOscilloscopeBeamSource(WaveformSine, WaveformSine, 440, 440, 1.0)
	sim := NewSimLoop(source, sigmaViewport, sampleRateHz, log)
	sim.SetViewport(width, height)

	o := &Orchestrator{
		sim:             sim,
		pipeline:        pipeline,
		display:         display,
		log:             log,
		phosphors:       phosphors,
		phosphorKeys:    keys,
		phosphorIdx:     idx,
		sources:         defaultSourceFactories(),
		scatterParams:   DefaultScatterParams(),
		compositeParams: DefaultCompositeParams(),
		scatter:         NewScatterBuffer(width, height),
		hdr:             NewHDRFrame(width, height),
		width:           width,
		height:          height,
		sampleRateHz:    sampleRateHz,
		done:            make(chan struct{}),
	}
	o.sourceKeys = []string{"oscilloscope", "vector", "external"}
	o.sourceIdx = 0
	o.ui = NewUIActions(o)
	return o, nil
}

func indexOf(keys []string, k string) int {
	for i, v := range keys {
		if v == k {
			return i
		}
	}
	return 0
}

// defaultSourceFactories returns constructors for the sources that need
// no external file argument (spec.md §5: oscilloscope and vector need
// only parameters; audio needs a file path supplied via CLI flag, wired
// separately in main.go).
func defaultSourceFactories() map[string]func() (BeamSource, error) {
	return map[string]func() (BeamSource, error){
		"oscilloscope": func() (BeamSource, error) {
			return NewOscilloscopeBeamSource(WaveformSine, WaveformSine, 440, 440, 1.0), nil
		},
		"vector": func() (BeamSource, error) {
			segs := []BeamSegment{
				{X0: -0.5, Y0: -0.5, X1: 0.5, Y1: -0.5, Intensity: 1},
				{X0: 0.5, Y0: -0.5, X1: 0.5, Y1: 0.5, Intensity: 1},
				{X0: 0.5, Y0: 0.5, X1: -0.5, Y1: 0.5, Intensity: 1},
				{X0: -0.5, Y0: 0.5, X1: -0.5, Y1: -0.5, Intensity: 1},
			}
			return NewVectorBeamSource(segs, 0.02, 50e-6), nil
		},
	}
}

// Start spawns the simulation goroutine and the render loop.
func (o *Orchestrator) Start() {
	o.sim.Start()
	o.wg.Add(1)
	go o.renderLoop()
}

func (o *Orchestrator) Stop() {
	close(o.done)
	o.wg.Wait()
	o.sim.Stop()
}

// backlogCap bounds how many samples (and therefore how much simulated
// dt) one render tick will absorb, so a stalled render thread doesn't
// apply a huge decay step when it catches up (spec.md §4.6: "backlog cap
// (2*frame_interval*sample_rate) bounding decay dt").
func (o *Orchestrator) backlogCap(frameInterval time.Duration) int {
	return int(2 * frameInterval.Seconds() * float64(o.sampleRateHz))
}

func (o *Orchestrator) renderLoop() {
	defer o.wg.Done()

	refreshRate := o.display.GetRefreshRate()
	if refreshRate <= 0 {
		refreshRate = 60
	}
	frameInterval := time.Second / time.Duration(refreshRate)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	drainBuf := make([]BeamSample, 4096)
	outBuf := make([]byte, o.width*o.height*4)

	for {
		select {
		case <-o.done:
			return
		case <-ticker.C:
			// The frame's pipeline work runs under o.mu, the lock that
			// phosphor switches hold while they reallocate the buffer.
			o.mu.Lock()
			if o.paused {
				o.mu.Unlock()
				continue
			}
			cap := o.backlogCap(frameInterval)

			total := 0
			for total < cap {
				want := cap - total
				if want > len(drainBuf) {
					want = len(drainBuf)
				}
				n := o.sim.Ring().BulkDrain(drainBuf[:want])
				if n == 0 {
					break
				}
				o.pipeline.WriteBatch(drainBuf[:n])
				total += n
			}

			o.pipeline.Resolve(o.hdr)
			// dt is simulation time, not wall time (spec.md §4.10): the
			// number of samples actually drained this frame divided by the
			// sample rate. Zero samples drained means zero decay, not a
			// frame-interval's worth — a render stall must not manufacture
			// decay that never happened in simulated time.
			if total > 0 {
				dt := float64(total) / float64(o.sampleRateHz)
				o.pipeline.Decay(dt)
			}

			o.scatter.Compute(o.hdr, o.scatterParams)
			o.scatter.AddToFrame(o.hdr)

			if len(outBuf) != o.width*o.height*4 {
				outBuf = make([]byte, o.width*o.height*4)
			}
			Composite(o.hdr, o.compositeParams, outBuf, o.width, o.height)
			o.mu.Unlock()
			if err := o.display.UpdateFrame(outBuf); err != nil {
				o.log.WithError(err).Warn("display update failed")
			}
		}
	}
}

// TogglePause pauses/resumes both the simulation and render loops
// (spec.md §4.11).
func (o *Orchestrator) TogglePause() {
	o.mu.Lock()
	o.paused = !o.paused
	paused := o.paused
	o.mu.Unlock()

	kind := SimCtrlResume
	if paused {
		kind = SimCtrlPause
	}
	o.sim.Control() <- SimControlMsg{Kind: kind}
}

// CyclePhosphor switches to the next/previous built-in phosphor,
// reallocating the accumulation buffer (spec.md §4.3, §8 "phosphor-switch
// reallocation" scenario).
func (o *Orchestrator) CyclePhosphor(forward bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := len(o.phosphorKeys)
	if forward {
		o.phosphorIdx = (o.phosphorIdx + 1) % n
	} else {
		o.phosphorIdx = (o.phosphorIdx - 1 + n) % n
	}
	name := o.phosphorKeys[o.phosphorIdx]
	o.pipeline.SetPhosphor(o.phosphors[name])
	return nil
}

// CycleSource switches the active beam source.
func (o *Orchestrator) CycleSource(forward bool) error {
	o.mu.Lock()
	n := len(o.sourceKeys)
	if forward {
		o.sourceIdx = (o.sourceIdx + 1) % n
	} else {
		o.sourceIdx = (o.sourceIdx - 1 + n) % n
	}
	name := o.sourceKeys[o.sourceIdx]
	factory, ok := o.sources[name]
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("no factory registered for source %q", name)
	}
	src, err := factory()
	if err != nil {
		return err
	}
	return o.sim.SetSource(src)
}

// LoadPhosphorFile hot-loads a phosphor definition from disk (e.g. via the
// IPC server) and installs it as the active phosphor, registering it under
// its own name for subsequent CyclePhosphor calls.
func (o *Orchestrator) LoadPhosphorFile(path string) error {
	p, err := LoadPhosphorFile(path)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.phosphors[p.Name]; !exists {
		o.phosphorKeys = append(o.phosphorKeys, p.Name)
		sort.Strings(o.phosphorKeys)
	}
	o.phosphors[p.Name] = p
	o.phosphorIdx = indexOf(o.phosphorKeys, p.Name)
	o.pipeline.SetPhosphor(p)
	return nil
}

// LoadAudioFile hot-swaps the active beam source to an audio source decoded
// from the given MP3 or WAV path (e.g. via the IPC server).
func (o *Orchestrator) LoadAudioFile(path string) error {
	src, err := LoadAudioBeamSource(path, 1.0)
	if err != nil {
		return err
	}
	if err := o.sim.SetSource(src); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	name := "audio:" + path
	o.sources[name] = func() (BeamSource, error) { return LoadAudioBeamSource(path, 1.0) }
	o.sourceKeys = append(o.sourceKeys, name)
	o.sourceIdx = len(o.sourceKeys) - 1
	return nil
}

// LoadVectorFile hot-swaps the active beam source to a static display
// list read from path (e.g. via the IPC server's "load-vector" command).
func (o *Orchestrator) LoadVectorFile(path string) error {
	segments, err := LoadVectorFile(path)
	if err != nil {
		return err
	}
	src := NewVectorBeamSource(segments, 0.02, 20e-6)
	if err := o.sim.SetSource(src); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	name := "vector:" + path
	o.sources[name] = func() (BeamSource, error) {
		segs, err := LoadVectorFile(path)
		if err != nil {
			return nil, err
		}
		return NewVectorBeamSource(segs, 0.02, 20e-6), nil
	}
	o.sourceKeys = append(o.sourceKeys, name)
	o.sourceIdx = len(o.sourceKeys) - 1
	return nil
}

// UseExternalSource switches the active beam source to one driven by the
// line protocol read from r (spec.md §5.4: "B x y intensity dt", "L ...",
// "F", "#"/blank ignored).
func (o *Orchestrator) UseExternalSource(r io.Reader, log *logrus.Logger) error {
	src := NewExternalBeamSource(r, log)
	go src.Pump()
	if err := o.sim.SetSource(src); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	name := "external"
	o.sources[name] = func() (BeamSource, error) { return nil, fmt.Errorf("external source requires an active stream") }
	found := false
	for _, k := range o.sourceKeys {
		if k == name {
			found = true
			break
		}
	}
	if !found {
		o.sourceKeys = append(o.sourceKeys, name)
	}
	o.sourceIdx = indexOf(o.sourceKeys, name)
	return nil
}

// CycleTonemap advances the composite stage's tonemap curve.
func (o *Orchestrator) CycleTonemap() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.compositeParams.Tonemap = (o.compositeParams.Tonemap + 1) % 4
}

// State returns a point-in-time snapshot for the debug overlay.
func (o *Orchestrator) State() SimState {
	o.mu.Lock()
	defer o.mu.Unlock()
	snap := o.sim.Stats().Snapshot()
	return SimState{
		Running:        !o.paused,
		PhosphorName:   o.phosphorKeys[o.phosphorIdx],
		SourceName:     o.sourceKeys[o.sourceIdx],
		Tonemap:        o.compositeParams.Tonemap,
		BatchInterval:  float64(snap.BatchIntervalNs) / float64(time.Second),
		BacklogSamples: int(snap.RingBacklog),
	}
}

// HandleUIKey routes a UIKey event from a display backend to the
// appropriate orchestrator action (spec.md §4.11).
func (o *Orchestrator) HandleUIKey(k UIKey) {
	switch k {
	case UIKeyPause:
		o.ui.TogglePause()
	case UIKeyNextSource:
		if err := o.ui.CycleSource(true); err != nil {
			o.log.WithError(err).Warn("source switch failed")
		}
	case UIKeyPrevSource:
		if err := o.ui.CycleSource(false); err != nil {
			o.log.WithError(err).Warn("source switch failed")
		}
	case UIKeyNextPhosphor:
		_ = o.ui.CyclePhosphor(true)
	case UIKeyPrevPhosphor:
		_ = o.ui.CyclePhosphor(false)
	case UIKeyNextTonemap:
		o.ui.CycleTonemap()
	case UIKeyToggleOverlay, UIKeyScreenshot, UIKeyQuit:
		// Handled by main.go / the debug overlay directly.
	}
}
