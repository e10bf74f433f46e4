// Package bus implements the memory-mapped address decoder connecting the
// CPU to the cartridge, work RAM, high RAM, and every peripheral. Grounded
// on the teacher's internal/bus/bus.go field layout and its per-component
// ownership, generalized to the full address map of spec.md §3 and to
// driving every peripheral through its own package instead of inline state.
package bus

import (
	"github.com/mnoll/gbcore/internal/apu"
	"github.com/mnoll/gbcore/internal/bootrom"
	"github.com/mnoll/gbcore/internal/cart"
	"github.com/mnoll/gbcore/internal/dma"
	"github.com/mnoll/gbcore/internal/interrupt"
	"github.com/mnoll/gbcore/internal/joypad"
	"github.com/mnoll/gbcore/internal/ppu"
	"github.com/mnoll/gbcore/internal/serial"
	"github.com/mnoll/gbcore/internal/timer"
)

type Bus struct {
	Cart   cart.Cartridge
	PPU    *ppu.PPU
	APU    *apu.APU
	Timer  *timer.Timer
	Joypad *joypad.Joypad
	Serial *serial.Serial
	DMA    *dma.DMA
	IC     *interrupt.Controller
	Boot   *bootrom.BootROM

	wram [0x2000]byte // C000-DFFF, echoed at E000-FDFF
	hram [0x7F]byte   // FF80-FFFE
}

func New(c cart.Cartridge) *Bus {
	ic := interrupt.New()
	b := &Bus{
		Cart:   c,
		PPU:    ppu.New(ic),
		APU:    apu.New(),
		Timer:  timer.New(ic),
		Joypad: joypad.New(ic),
		Serial: serial.New(ic),
		DMA:    &dma.DMA{},
		IC:     ic,
		Boot:   bootrom.Load(nil),
	}
	return b
}

// LoadBootROM installs a 256-byte boot ROM overlay, mapping it over
// 0000-00FF until the first nonzero write to FF50.
func (b *Bus) LoadBootROM(data []byte) { b.Boot = bootrom.Load(data) }

// Tick advances every peripheral by one M-cycle, in the fixed order spec.md
// §5 mandates: PPU, Timer, OAM DMA, APU (the CPU itself has already run by
// the time this is called, from inside its own read/write/idle cycles).
func (b *Bus) Tick() {
	b.PPU.Tick()
	b.Timer.Tick()
	b.DMA.Tick(b, b.PPU)
	b.APU.Tick()
}

// Read is the CPU-facing read path. While an OAM DMA transfer is active, any
// address outside HRAM observes the byte the DMA engine is currently
// shuttling rather than its own target, per spec.md §4.1's bus lock.
func (b *Bus) Read(addr uint16) byte {
	if b.DMA.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) {
		return b.ReadForDMA(b.DMA.CurrentSourceAddr())
	}
	return b.read(addr)
}

func (b *Bus) read(addr uint16) byte {
	switch {
	case addr <= 0x00FF && b.Boot.Mapped():
		return b.Boot.Read(addr)
	case addr <= 0x7FFF:
		return b.Cart.Read(addr)
	case addr <= 0x9FFF:
		return b.PPU.ReadVRAM(addr)
	case addr <= 0xBFFF:
		return b.Cart.Read(addr)
	case addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr <= 0xFDFF:
		return b.wram[addr-0xE000]
	case addr <= 0xFE9F:
		return b.PPU.ReadOAM(addr)
	case addr <= 0xFEFF:
		return 0xFF
	case addr == 0xFF00:
		return b.Joypad.Read()
	case addr == 0xFF01:
		return b.Serial.ReadSB()
	case addr == 0xFF02:
		return b.Serial.ReadSC()
	case addr == 0xFF04:
		return b.Timer.ReadDIV()
	case addr == 0xFF05:
		return b.Timer.ReadTIMA()
	case addr == 0xFF06:
		return b.Timer.ReadTMA()
	case addr == 0xFF07:
		return b.Timer.ReadTAC()
	case addr == 0xFF0F:
		return b.IC.ReadIF()
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return b.APU.Read(addr)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		if addr == 0xFF46 {
			return 0xFF
		}
		return b.PPU.ReadReg(addr)
	case addr == 0xFF50:
		if b.Boot.Mapped() {
			return 0x00
		}
		return 0xFF
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.IC.ReadIE()
	default:
		return 0xFF
	}
}

// Write is the CPU-facing write path. Writes during an active OAM DMA reach
// their normal destination — spec.md §4.1 locks only what the CPU observes
// on read, not what its writes land on.
func (b *Bus) Write(addr uint16, v byte) {
	switch {
	case addr <= 0x7FFF:
		b.Cart.Write(addr, v)
	case addr <= 0x9FFF:
		b.PPU.WriteVRAM(addr, v)
	case addr <= 0xBFFF:
		b.Cart.Write(addr, v)
	case addr <= 0xDFFF:
		b.wram[addr-0xC000] = v
	case addr <= 0xFDFF:
		b.wram[addr-0xE000] = v
	case addr <= 0xFE9F:
		b.PPU.WriteOAM(addr, v)
	case addr <= 0xFEFF:
		// prohibited range, write has no effect
	case addr == 0xFF00:
		b.Joypad.WriteSelect(v)
	case addr == 0xFF01:
		b.Serial.WriteSB(v)
	case addr == 0xFF02:
		b.Serial.WriteSC(v)
	case addr == 0xFF04:
		b.Timer.WriteDIV()
	case addr == 0xFF05:
		b.Timer.WriteTIMA(v)
	case addr == 0xFF06:
		b.Timer.WriteTMA(v)
	case addr == 0xFF07:
		b.Timer.WriteTAC(v)
	case addr == 0xFF0F:
		b.IC.WriteIF(v)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.APU.Write(addr, v)
	case addr == 0xFF46:
		b.DMA.Trigger(v)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.PPU.WriteReg(addr, v)
	case addr == 0xFF50:
		if v != 0 {
			b.Boot.Unmap()
		}
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = v
	case addr == 0xFFFF:
		b.IC.WriteIE(v)
	}
}

// WRAMState is the work RAM and high RAM contents, the two blocks of memory
// the bus itself owns rather than delegating to a peripheral package.
type WRAMState struct {
	WRAM [0x2000]byte
	HRAM [0x7F]byte
}

func (b *Bus) SaveWRAMState() WRAMState { return WRAMState{WRAM: b.wram, HRAM: b.hram} }
func (b *Bus) LoadWRAMState(s WRAMState) {
	b.wram, b.hram = s.WRAM, s.HRAM
}

// ReadForDMA is the DMA engine's private read path: it sees the real
// cartridge/VRAM/WRAM/OAM contents regardless of mode gating or the lock the
// transfer itself creates, matching hardware (the DMA circuit, not the CPU,
// owns the bus while it runs).
func (b *Bus) ReadForDMA(addr uint16) byte {
	switch {
	case addr <= 0x7FFF:
		return b.Cart.Read(addr)
	case addr <= 0x9FFF:
		return b.PPU.ReadVRAM(addr)
	case addr <= 0xBFFF:
		return b.Cart.Read(addr)
	case addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr <= 0xFDFF:
		return b.wram[addr-0xE000]
	case addr <= 0xFE9F:
		return b.PPU.ReadOAM(addr)
	default:
		return 0xFF
	}
}
