// video_interface.go - Display output interface for the phosphor simulator

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"time"
)

// VideoError provides detailed error context for display operations.
type VideoError struct {
	Operation string
	Details   string
	Err       error
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("display %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("display %s failed: %s", e.Operation, e.Details)
}

// FrameSnapshot is a copy of the composited frame taken for screenshots or
// the debug overlay (spec.md §4.11 UI overlay).
type FrameSnapshot struct {
	Buffer    []byte
	Width     int
	Height    int
	Format    PixelFormat
	Timestamp time.Time
}

// DisplayConfig holds hardware-independent output configuration.
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int
	RefreshRate int
	PixelFormat PixelFormat
	VSync       bool
	Fullscreen  bool
}

func ClampScale(s int) int {
	if s < 1 {
		return 1
	}
	if s > 4 {
		return 4
	}
	return s
}

// VideoOutput is the minimal interface a display backend must implement;
// the composite stage (spec.md §4.11) feeds it one RGBA frame per tick.
type VideoOutput interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	UpdateFrame(buffer []byte) error

	WaitForVSync() error
	GetFrameCount() uint64
	GetRefreshRate() int
}

// KeyboardInput is implemented by backends that forward UI control keys
// (pause, source cycle, tonemap cycle - spec.md §4.11) to the orchestrator.
type KeyboardInput interface {
	SetKeyHandler(func(UIKey))
}

type PixelFormat int

const (
	PixelFormatRGBA PixelFormat = iota
	PixelFormatRGB565
	PixelFormatPaletted
)

const (
	VIDEO_BACKEND_EBITEN = iota
)

// NewVideoOutput creates a display backend instance of the given kind.
func NewVideoOutput(backend int) (VideoOutput, error) {
	switch backend {
	case VIDEO_BACKEND_EBITEN:
		return NewEbitenOutput()
	}
	return nil, &VideoError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
