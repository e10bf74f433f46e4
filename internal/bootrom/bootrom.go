// Package bootrom implements the 256-byte boot ROM overlay that shadows
// cartridge addresses 0000-00FF until software unmaps it by writing a
// nonzero value to FF50. Grounded on the teacher's bootROM/bootEnabled
// fields in internal/bus/bus.go, split into its own component since
// spec.md treats the unmap latch as a standalone invariant (#7).
package bootrom

const Size = 0x100

type BootROM struct {
	data   [Size]byte
	loaded bool
	mapped bool
}

// Load installs the 256-byte boot ROM image and maps it over 0000-00FF.
func Load(data []byte) *BootROM {
	b := &BootROM{loaded: len(data) > 0, mapped: len(data) > 0}
	copy(b.data[:], data)
	return b
}

// Mapped reports whether reads of 0000-00FF should be served from the boot
// ROM rather than the cartridge.
func (b *BootROM) Mapped() bool { return b.mapped }

func (b *BootROM) Read(addr uint16) byte { return b.data[addr] }

// Unmap permanently disables the overlay; per spec.md invariant #7 it can
// never be remapped afterward regardless of what is written to FF50 later.
func (b *BootROM) Unmap() { b.mapped = false }

type State struct {
	Mapped bool
}

func (b *BootROM) SaveState() State  { return State{b.mapped} }
func (b *BootROM) LoadState(s State) { b.mapped = s.Mapped && b.loaded }
