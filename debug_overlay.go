//go:build !headless

// debug_overlay.go - Status line overlay rendering for Ebiten

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	overlayPadding = 6
	overlayLineGap = 14
	overlayBgAlpha = 200
)

// DebugOverlay renders the status readout described in spec.md §4.11:
// running/paused, phosphor name, beam source name, tonemap curve, batch
// interval and ring backlog. Visibility toggles via UIKeyToggleOverlay.
type DebugOverlay struct {
	orch    *Orchestrator
	visible bool
	image   *ebiten.Image
	buf     *image.RGBA
}

// NewDebugOverlay creates an overlay bound to an orchestrator's live state.
func NewDebugOverlay(orch *Orchestrator) *DebugOverlay {
	return &DebugOverlay{orch: orch, visible: true}
}

func (o *DebugOverlay) Toggle() { o.visible = !o.visible }

// lines formats the orchestrator's SimState into the overlay's text rows.
func (o *DebugOverlay) lines() []string {
	s := o.orch.State()
	status := "RUNNING"
	if !s.Running {
		status = "PAUSED"
	}
	return []string{
		fmt.Sprintf("%s  phosphor=%s  source=%s", status, s.PhosphorName, s.SourceName),
		fmt.Sprintf("tonemap=%s  batch=%.2fms  backlog=%d", s.Tonemap, s.BatchInterval*1000, s.BacklogSamples),
	}
}

// Draw composites the overlay onto screen when visible.
func (o *DebugOverlay) Draw(screen *ebiten.Image) {
	if !o.visible {
		return
	}
	lines := o.lines()

	w := screen.Bounds().Dx()
	overlayH := overlayPadding*2 + overlayLineGap*len(lines)
	if o.buf == nil || o.buf.Bounds().Dx() != w || o.buf.Bounds().Dy() != overlayH {
		o.buf = image.NewRGBA(image.Rect(0, 0, w, overlayH))
		o.image = ebiten.NewImage(w, overlayH)
	}

	bg := color.RGBA{0, 0, 0, overlayBgAlpha}
	for i := 0; i < len(o.buf.Pix); i += 4 {
		o.buf.Pix[i] = bg.R
		o.buf.Pix[i+1] = bg.G
		o.buf.Pix[i+2] = bg.B
		o.buf.Pix[i+3] = bg.A
	}

	drawer := &font.Drawer{
		Dst:  o.buf,
		Src:  image.NewUniform(color.RGBA{80, 255, 120, 255}),
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(overlayPadding, overlayPadding+overlayLineGap*i+10)
		drawer.DrawString(line)
	}

	o.image.WritePixels(o.buf.Pix)
	screen.DrawImage(o.image, nil)
}
