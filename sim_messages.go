// sim_messages.go - Control messages flowing from the UI into the simulation goroutine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

// SimControlKind tags a SimControlMsg's payload (spec.md §4.6: "unbounded
// lock-free UI->sim control-message channel").
type SimControlKind int

const (
	SimCtrlSetBatchInterval SimControlKind = iota
	SimCtrlSwitchSource
	SimCtrlSwitchPhosphor
	SimCtrlPause
	SimCtrlResume
	SimCtrlShutdown
)

// SimControlMsg is sent on the UI-to-sim channel; Done, if non-nil, is
// closed once the simulation goroutine has applied the message, letting
// callers that need synchronous semantics (switching a source or
// phosphor, which reallocates buffers) wait for completion.
type SimControlMsg struct {
	Kind          SimControlKind
	BatchInterval float64 // seconds, for SimCtrlSetBatchInterval
	SourceName    string  // for SimCtrlSwitchSource
	PhosphorName  string  // for SimCtrlSwitchPhosphor
	Done          chan struct{}
}
