// Package ui is the ebiten-backed window host: texture upload, keyboard
// polling into the joypad, and a streaming audio player. Grounded on the
// teacher's internal/ui/ebitenapp.go Update/Draw/Layout loop and key
// mapping, trimmed of its save-state-slot, ROM-picker, and settings-menu
// overlay (out of scope here — spec.md §1 places UI/window concerns with
// the host, not the core).
package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/mnoll/gbcore/internal/emu"
	"github.com/mnoll/gbcore/internal/joypad"
	"github.com/mnoll/gbcore/internal/ppu"
)

var shade = [4][4]byte{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}

type App struct {
	cfg Config
	m   *emu.Machine
	tex *ebiten.Image

	paused bool

	audioCtx    *audio.Context
	audioPlayer *audio.Player
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)
	a := &App{cfg: cfg, m: m, tex: ebiten.NewImage(160, 144)}
	a.audioCtx = audio.NewContext(48000)
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

var keymap = []struct {
	key ebiten.Key
	btn byte
}{
	{ebiten.KeyArrowRight, joypad.Right},
	{ebiten.KeyArrowLeft, joypad.Left},
	{ebiten.KeyArrowUp, joypad.Up},
	{ebiten.KeyArrowDown, joypad.Down},
	{ebiten.KeyZ, joypad.A},
	{ebiten.KeyX, joypad.B},
	{ebiten.KeyEnter, joypad.Start},
	{ebiten.KeyShiftRight, joypad.Select},
}

func (a *App) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	var state byte
	for _, k := range keymap {
		if ebiten.IsKeyPressed(k.key) {
			state |= k.btn
		}
	}
	a.m.SetButtons(state)

	if a.paused {
		return nil
	}
	fb := a.m.StepFrame()
	a.upload(fb)

	if a.audioPlayer == nil {
		p, err := a.audioCtx.NewPlayer(newAPUStream(a.m))
		if err != nil {
			return fmt.Errorf("open audio player: %w", err)
		}
		p.Play()
		a.audioPlayer = p
	}
	return nil
}

func (a *App) upload(fb [144][160]ppu.Color) {
	pix := make([]byte, 160*144*4)
	i := 0
	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			c := shade[fb[y][x]&3]
			copy(pix[i:i+4], c[:])
			i += 4
		}
	}
	a.tex.WritePixels(pix)
}

func (a *App) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	scale := float64(a.cfg.Scale)
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(a.tex, op)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 160 * a.cfg.Scale, 144 * a.cfg.Scale
}
