// Package ppu implements the picture processing unit: the mode state
// machine (OAM scan / pixel transfer / HBlank / VBlank), VRAM/OAM storage
// with CPU access-window gating, and the scanline compositor (background,
// window, sprites). Cycle granularity is the M-cycle per spec.md §1
// Non-goals. Grounded on the teacher's internal/ppu/ppu.go mode scheduler
// (converted here from T-cycle "dots" to M-cycles) and internal/ppu/
// scanline.go / fetcher.go for the per-pixel compositing shape.
package ppu

import "github.com/mnoll/gbcore/internal/interrupt"

// Mode is the two-bit value exposed in STAT bits 0-1.
type Mode byte

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeDraw   Mode = 3
)

const (
	oamCycles  = 20
	drawCycles = 43
	hblankCycles = 51
	lineCycles = oamCycles + drawCycles + hblankCycles // 114
	visibleLines = 144
	totalLines   = 154
)

// Color is one of the four DMG shades, light to dark.
type Color byte

const (
	White Color = iota
	LightGray
	DarkGray
	Black
)

type PPU struct {
	vram [0x2000]byte // 8000-9FFF
	oam  [0xA0]byte   // FE00-FE9F

	lcdc, stat         byte
	scy, scx, ly, lyc  byte
	bgp, obp0, obp1    byte
	wy, wx             byte

	lineCycle int // 0..113 within the current scanline
	statLine  bool // combined OR of enabled STAT interrupt sources, for edge detection

	windowLine int  // internal window line counter, increments only on lines the window was drawn
	frameDone  bool // set for one Tick() call when LY wraps 154->0

	blankFirstLine bool // set on LCD re-enable; forces LY=0's scanline to color 0 of BGP

	fb [visibleLines][160]Color

	ic *interrupt.Controller
}

func New(ic *interrupt.Controller) *PPU { return &PPU{ic: ic} }

func (p *PPU) mode() Mode { return Mode(p.stat & 0x03) }

func (p *PPU) setMode(m Mode) {
	p.stat = (p.stat &^ 0x03) | byte(m)
}

func (p *PPU) lcdOn() bool { return p.lcdc&0x80 != 0 }

// Tick advances the PPU by exactly one M-cycle.
func (p *PPU) Tick() {
	p.frameDone = false
	if !p.lcdOn() {
		return
	}

	p.lineCycle++
	if p.lineCycle >= lineCycles {
		p.lineCycle = 0
		p.finishLine()
	}

	var m Mode
	switch {
	case p.ly >= visibleLines:
		m = ModeVBlank
	case p.lineCycle < oamCycles:
		m = ModeOAM
	case p.lineCycle < oamCycles+drawCycles:
		m = ModeDraw
	default:
		m = ModeHBlank
	}
	prev := p.mode()
	p.setMode(m)
	if m != prev {
		if m == ModeHBlank {
			p.renderLine()
		}
		p.updateStatLine()
	}
}

func (p *PPU) finishLine() {
	p.ly++
	if p.ly == visibleLines {
		p.ic.Request(interrupt.VBlank)
	}
	if p.ly >= totalLines {
		p.ly = 0
		p.windowLine = 0
		p.frameDone = true
	}
	p.updateLYC()
}

// FrameComplete reports whether the Tick() call just advanced LY past the
// last line of a frame (154->0).
func (p *PPU) FrameComplete() bool { return p.frameDone }

func (p *PPU) updateLYC() {
	if p.ly == p.lyc {
		p.stat |= 1 << 2
	} else {
		p.stat &^= 1 << 2
	}
	p.updateStatLine()
}

// updateStatLine recomputes the OR of all enabled STAT interrupt sources and
// requests one LCD STAT interrupt on a 0->1 rising edge, per spec.md §4.4.
func (p *PPU) updateStatLine() {
	line := false
	switch p.mode() {
	case ModeHBlank:
		line = p.stat&(1<<3) != 0
	case ModeVBlank:
		line = p.stat&(1<<4) != 0
	case ModeOAM:
		line = p.stat&(1<<5) != 0
	}
	if p.stat&(1<<6) != 0 && p.stat&(1<<2) != 0 {
		line = true
	}
	if line && !p.statLine {
		p.ic.Request(interrupt.LCDStat)
	}
	p.statLine = line
}

// --- CPU-facing memory-mapped access ---

func (p *PPU) ReadVRAM(addr uint16) byte {
	if p.lcdOn() && p.mode() == ModeDraw {
		return 0xFF
	}
	return p.vram[addr-0x8000]
}

func (p *PPU) WriteVRAM(addr uint16, v byte) {
	if p.lcdOn() && p.mode() == ModeDraw {
		return
	}
	p.vram[addr-0x8000] = v
}

func (p *PPU) ReadOAM(addr uint16) byte {
	if p.lcdOn() && (p.mode() == ModeOAM || p.mode() == ModeDraw) {
		return 0xFF
	}
	return p.oam[addr-0xFE00]
}

func (p *PPU) WriteOAM(addr uint16, v byte) {
	if p.lcdOn() && (p.mode() == ModeOAM || p.mode() == ModeDraw) {
		return
	}
	p.oam[addr-0xFE00] = v
}

// WriteOAMByte is the DMA-facing OAM write: it bypasses the mode gate above,
// since the DMA engine owns OAM exclusively while a transfer is active.
func (p *PPU) WriteOAMByte(offset int, v byte) { p.oam[offset] = v }

func (p *PPU) ReadReg(addr uint16) byte {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return 0x80 | p.stat
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

func (p *PPU) WriteReg(addr uint16, v byte) {
	switch addr {
	case 0xFF40:
		prev := p.lcdc
		p.lcdc = v
		if prev&0x80 != 0 && v&0x80 == 0 {
			p.ly = 0
			p.lineCycle = 0
			p.setMode(ModeHBlank)
			p.statLine = false
		} else if prev&0x80 == 0 && v&0x80 != 0 {
			p.ly = 0
			p.lineCycle = 0
			p.windowLine = 0
			p.blankFirstLine = true
			p.setMode(ModeOAM)
		}
	case 0xFF41:
		p.stat = (p.stat & 0x07) | (v & 0x78)
		p.updateStatLine()
	case 0xFF42:
		p.scy = v
	case 0xFF43:
		p.scx = v
	case 0xFF44:
		p.ly = 0
		p.updateLYC()
	case 0xFF45:
		p.lyc = v
		p.updateLYC()
	case 0xFF47:
		p.bgp = v
	case 0xFF48:
		p.obp0 = v
	case 0xFF49:
		p.obp1 = v
	case 0xFF4A:
		p.wy = v
	case 0xFF4B:
		p.wx = v
	}
}

// Line returns the composited 160-pixel row for screen line y (0-143).
func (p *PPU) Line(y int) [160]Color { return p.fb[y] }

// RGBA renders the full framebuffer as packed RGBA8888 bytes, 160x144, for
// host texture upload (spec.md §6 Framebuffer; the color->pixel mapping is
// explicitly the host's concern, this is one reasonable default shade ramp).
func (p *PPU) RGBA() []byte {
	out := make([]byte, 160*144*4)
	shade := [4][3]byte{{0xE0, 0xF8, 0xD0}, {0x88, 0xC0, 0x70}, {0x34, 0x68, 0x56}, {0x08, 0x18, 0x20}}
	i := 0
	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			c := shade[p.fb[y][x]&3]
			out[i], out[i+1], out[i+2], out[i+3] = c[0], c[1], c[2], 0xFF
			i += 4
		}
	}
	return out
}

type State struct {
	VRAM                  [0x2000]byte
	OAM                   [0xA0]byte
	LCDC, STAT            byte
	SCY, SCX, LY, LYC     byte
	BGP, OBP0, OBP1       byte
	WY, WX                byte
	LineCycle, WindowLine int
	StatLine              bool
	BlankFirstLine        bool
}

func (p *PPU) SaveState() State {
	return State{
		VRAM: p.vram, OAM: p.oam,
		LCDC: p.lcdc, STAT: p.stat,
		SCY: p.scy, SCX: p.scx, LY: p.ly, LYC: p.lyc,
		BGP: p.bgp, OBP0: p.obp0, OBP1: p.obp1,
		WY: p.wy, WX: p.wx,
		LineCycle: p.lineCycle, WindowLine: p.windowLine, StatLine: p.statLine,
		BlankFirstLine: p.blankFirstLine,
	}
}

func (p *PPU) LoadState(s State) {
	p.vram, p.oam = s.VRAM, s.OAM
	p.lcdc, p.stat = s.LCDC, s.STAT
	p.scy, p.scx, p.ly, p.lyc = s.SCY, s.SCX, s.LY, s.LYC
	p.bgp, p.obp0, p.obp1 = s.BGP, s.OBP0, s.OBP1
	p.wy, p.wx = s.WY, s.WX
	p.lineCycle, p.windowLine, p.statLine = s.LineCycle, s.WindowLine, s.StatLine
	p.blankFirstLine = s.BlankFirstLine
}
