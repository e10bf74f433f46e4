// Package dma implements the OAM DMA engine: a CPU write to FF46 arms a
// 160-M-cycle, one-byte-per-cycle copy from a source page into OAM, during
// which the bus is "locked" to everything but HRAM. Grounded on the
// teacher's inline dmaActive/dmaSrc/dmaIndex fields in internal/bus/bus.go,
// split into its own component per spec.md's component table, and on
// original_source/dmatransfer.cpp for the echo-range source clamp.
package dma

// Reader is the subset of the bus the DMA engine needs to pull source bytes.
// It is a plain byte source, not the CPU-facing Bus, so DMA reads are never
// themselves subject to the bus lock it creates.
type Reader interface {
	ReadForDMA(addr uint16) byte
}

// Writer receives the copied bytes directly into OAM, bypassing the PPU's
// mode-gated CPU-facing OAM write path (DMA can write OAM even in modes 2/3).
type Writer interface {
	WriteOAMByte(offset int, v byte)
}

const transferLength = 160

type DMA struct {
	active  bool
	src     uint16
	index   int
	arming  bool // true for the M-cycle the triggering write itself occupies
}

// Active reports whether a transfer is in progress (invariant: the CPU may
// only safely execute out of HRAM while this is true).
func (d *DMA) Active() bool { return d.active }

// CurrentSourceAddr is the source address the engine is reading from on the
// current M-cycle, the byte a locked bus read observes per spec.md §4.1.
func (d *DMA) CurrentSourceAddr() uint16 { return d.src + uint16(d.index) }

// Remaining is the number of M-cycles left in the transfer: the bytes still
// to copy, plus one while the arming cycle is pending. It strictly
// decreases every M-cycle until it reaches 0.
func (d *DMA) Remaining() int {
	if !d.active {
		return 0
	}
	if d.arming {
		return transferLength - d.index + 1
	}
	return transferLength - d.index
}

// Trigger arms (or re-arms) a transfer from the page selected by the value
// written to FF46. Values E0-FF are clamped to read from work RAM instead of
// echo/IO space, matching hardware and original_source/dmatransfer.cpp.
func (d *DMA) Trigger(value byte) {
	src := uint16(value) << 8
	if src >= 0xE000 {
		src -= 0x2000
	}
	d.src = src
	d.active = true
	d.index = 0
	d.arming = true
}

// Tick copies exactly one byte for one M-cycle of an active transfer. The
// M-cycle in which Trigger was called itself copies nothing — the first
// byte moves on the cycle after the triggering write, per spec.md §4.5.
func (d *DMA) Tick(r Reader, w Writer) {
	if !d.active {
		return
	}
	if d.arming {
		d.arming = false
		return
	}
	v := r.ReadForDMA(d.src + uint16(d.index))
	w.WriteOAMByte(d.index, v)
	d.index++
	if d.index >= transferLength {
		d.active = false
	}
}

type State struct {
	Active bool
	Src    uint16
	Index  int
	Arming bool
}

func (d *DMA) SaveState() State { return State{d.active, d.src, d.index, d.arming} }
func (d *DMA) LoadState(s State) {
	d.active, d.src, d.index, d.arming = s.Active, s.Src, s.Index, s.Arming
}
