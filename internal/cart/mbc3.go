package cart

import "time"

// MBC3 implements 7-bit ROM banking, 4-bank RAM, and (when the cartridge
// type carries a timer) the RTC register file mapped over the RAM-bank
// select range. Grounded on the teacher's internal/cart/mbc3.go for the
// banking shape; the RTC latch protocol itself is grounded directly on
// spec.md §4.2 since original_source/mbc3.cpp's RTC is an acknowledged stub
// (spec.md §9 Open Questions) with nothing to imitate line-by-line.
type MBC3 struct {
	rom []byte
	ram []byte

	ramRTCEnabled bool
	romBank       byte // 7 bits, 0 forced to 1
	ramOrRTCSel   byte // 0-3 selects RAM bank, 08-0C selects an RTC register

	hasRTC bool
	rtc    rtcState

	latchState byte // sequence state for the 6000-7FFF 0-then-1 latch write
}

type rtcState struct {
	seconds, minutes, hours byte
	days                    uint16 // 9-bit day counter: low 8 in DL, bit8 + halt+carry in DH
	halt                    bool
	carry                   bool

	// latched is the snapshot exposed to the CPU between latch operations;
	// real time only flows into the live counters, never directly into the
	// latched copy, matching hardware's latch-on-write semantics.
	latched rtcState_
	epoch   time.Time // wall-clock time corresponding to seconds=minutes=hours=days=0
}

// rtcState_ avoids embedding rtcState in itself for the latched snapshot.
type rtcState_ struct {
	seconds, minutes, hours byte
	days                    uint16
	halt, carry             bool
}

func NewMBC3(rom []byte, ramSize int, hasRTC bool) *MBC3 {
	m := &MBC3{rom: rom, romBank: 1, hasRTC: hasRTC}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	if hasRTC {
		m.rtc.epoch = time.Now()
	}
	return m
}

// advance recomputes the live RTC counters from wall-clock elapsed time,
// unless halted.
func (m *MBC3) advance() {
	if !m.hasRTC || m.rtc.halt {
		return
	}
	elapsed := time.Since(m.rtc.epoch)
	total := uint64(elapsed / time.Second)
	m.rtc.seconds = byte(total % 60)
	m.rtc.minutes = byte((total / 60) % 60)
	m.rtc.hours = byte((total / 3600) % 24)
	days := total / 86400
	if days > 0x1FF {
		m.rtc.carry = true
		days %= 0x200
	}
	m.rtc.days = uint16(days)
}

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank & 0x7F)
		if bank == 0 {
			bank = 1
		}
		off := bank*0x4000 + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramRTCEnabled {
			return 0xFF
		}
		if m.hasRTC && m.ramOrRTCSel >= 0x08 && m.ramOrRTCSel <= 0x0C {
			return m.readRTCReg()
		}
		if m.ramOrRTCSel <= 0x03 && len(m.ram) != 0 {
			off := int(m.ramOrRTCSel)*0x2000 + int(addr-0xA000)
			if off < len(m.ram) {
				return m.ram[off]
			}
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) readRTCReg() byte {
	l := m.rtc.latched
	switch m.ramOrRTCSel {
	case 0x08:
		return l.seconds
	case 0x09:
		return l.minutes
	case 0x0A:
		return l.hours
	case 0x0B:
		return byte(l.days)
	case 0x0C:
		v := byte(l.days>>8) & 0x01
		if l.halt {
			v |= 0x40
		}
		if l.carry {
			v |= 0x80
		}
		return v
	}
	return 0xFF
}

func (m *MBC3) writeRTCReg(value byte) {
	switch m.ramOrRTCSel {
	case 0x08:
		m.rtc.seconds = value % 60
	case 0x09:
		m.rtc.minutes = value % 60
	case 0x0A:
		m.rtc.hours = value % 24
	case 0x0B:
		m.rtc.days = (m.rtc.days &^ 0xFF) | uint16(value)
	case 0x0C:
		m.rtc.days = (m.rtc.days & 0xFF) | (uint16(value&0x01) << 8)
		wasHalted := m.rtc.halt
		m.rtc.halt = value&0x40 != 0
		m.rtc.carry = value&0x80 != 0
		if wasHalted && !m.rtc.halt {
			m.rtc.epoch = time.Now()
		}
	}
	// writing a register resets the epoch baseline so Read reflects it
	// immediately rather than drifting by the elapsed wall time since boot.
	m.rtc.epoch = time.Now().Add(-time.Duration(m.rtc.seconds)*time.Second -
		time.Duration(m.rtc.minutes)*time.Minute -
		time.Duration(m.rtc.hours)*time.Hour -
		time.Duration(m.rtc.days)*24*time.Hour)
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramRTCEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.ramOrRTCSel = value
	case addr < 0x8000:
		// Latch sequence: write 0x00 then 0x01 to copy live counters into
		// the latched snapshot exposed to reads.
		if value == 0x00 {
			m.latchState = 0x00
		} else if value == 0x01 && m.latchState == 0x00 {
			m.latchState = 0x01
			m.advance()
			m.rtc.latched = rtcState_{
				seconds: m.rtc.seconds, minutes: m.rtc.minutes, hours: m.rtc.hours,
				days: m.rtc.days, halt: m.rtc.halt, carry: m.rtc.carry,
			}
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramRTCEnabled {
			return
		}
		if m.hasRTC && m.ramOrRTCSel >= 0x08 && m.ramOrRTCSel <= 0x0C {
			m.advance()
			m.writeRTCReg(value)
			return
		}
		if m.ramOrRTCSel <= 0x03 && len(m.ram) != 0 {
			off := int(m.ramOrRTCSel)*0x2000 + int(addr-0xA000)
			if off < len(m.ram) {
				m.ram[off] = value
			}
		}
	}
}

func (m *MBC3) SaveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	return append([]byte(nil), m.ram...)
}

func (m *MBC3) LoadRAM(data []byte) { copy(m.ram, data) }
