package cart

// Cartridge is the minimal interface the bus needs for ROM/RAM banking and
// RTC-register mapping. Addresses are CPU addresses.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// BatteryBacked cartridges expose their external RAM for host-side
// persistence between sessions. Every MBC type here implements it, with or
// without a battery in the header; MBC3's RTC registers are not included.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// New picks an MBC implementation from the parsed header. Callers should
// ParseHeader first and treat its error as a load error; New itself never
// fails because by this point cartTypeInfo has already rejected every
// CartType it doesn't cover, so the final case below only ever sees MBC5.
func New(rom []byte, h *Header) Cartridge {
	switch {
	case h.CartType == 0x00:
		return NewNoMBC(rom, h.RAMSizeBytes)
	case h.CartType >= 0x01 && h.CartType <= 0x03:
		return NewMBC1(rom, h.RAMSizeBytes)
	case h.CartType >= 0x0F && h.CartType <= 0x13:
		return NewMBC3(rom, h.RAMSizeBytes, h.HasRTC)
	default:
		return NewMBC5(rom, h.RAMSizeBytes)
	}
}
