package cpu

import "github.com/mnoll/gbcore/internal/interrupt"

// exec decodes and runs one unprefixed opcode. Regular register-indexed
// blocks (LD r,r', ALU A,r, INC/DEC r, PUSH/POP rr) use the get8/set8 index
// dispatch the teacher introduced for the LD r,r' block; everything
// irregular is spelled out case by case in the teacher's style.
func (c *CPU) exec(op byte, ic *interrupt.Controller) {
	switch op {
	case 0x00: // NOP

	case 0x10: // STOP: consumes its second byte and records the stopped flag;
		// it neither resets DIV nor waits for a button press.
		c.fetch8()
		c.stopped = true

	case 0x76: // HALT
		if !c.IME && ic.Pending() != 0 {
			c.haltBug = true
		} else {
			c.halted = true
		}

	case 0xF3: // DI
		c.IME = false
		c.eiPending = 0

	case 0xFB: // EI
		c.eiPending = 2

	case 0x27: // DAA
		c.daa()
	case 0x2F: // CPL
		c.A = ^c.A
		c.F = c.F&(flagZ|flagC) | flagN | flagH
	case 0x37: // SCF
		c.F = c.F&flagZ | flagC
	case 0x3F: // CCF
		cy := !c.flag(flagC)
		c.F = c.F & flagZ
		if cy {
			c.F |= flagC
		}

	// --- 8-bit immediate loads ---
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x3E:
		idx := (op >> 3) & 7
		c.set8(idx, c.fetch8())
	case 0x36:
		c.write8(c.getHL(), c.fetch8())

	// --- LD r,r' / LD r,(HL) / LD (HL),r ---
	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47,
		0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F,
		0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57,
		0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F,
		0x60, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67,
		0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F,
		0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F:
		d, s := (op>>3)&7, op&7
		c.set8(d, c.get8(s))

	// --- 16-bit immediate loads / SP ---
	case 0x01:
		c.setBC(c.fetch16())
	case 0x11:
		c.setDE(c.fetch16())
	case 0x21:
		c.setHL(c.fetch16())
	case 0x31:
		c.SP = c.fetch16()
	case 0x08: // LD (a16),SP
		addr := c.fetch16()
		c.write16(addr, c.SP)
	case 0xF9: // LD SP,HL
		c.idle()
		c.SP = c.getHL()
	case 0xF8: // LD HL,SP+r8
		r := int8(c.fetch8())
		c.idle()
		res := int32(c.SP) + int32(r)
		h := (c.SP&0x0F)+uint16(byte(r)&0x0F) > 0x0F
		cy := (c.SP&0xFF)+uint16(byte(r)) > 0xFF
		c.setZNHC(false, false, h, cy)
		c.setHL(uint16(res))

	// --- LD (BC)/(DE),A and A,(BC)/(DE) ---
	case 0x02:
		c.write8(c.getBC(), c.A)
	case 0x12:
		c.write8(c.getDE(), c.A)
	case 0x0A:
		c.A = c.read8(c.getBC())
	case 0x1A:
		c.A = c.read8(c.getDE())

	// --- LD (HL+/-),A and A,(HL+/-) ---
	case 0x22:
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl + 1)
	case 0x32:
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl - 1)
	case 0x2A:
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl + 1)
	case 0x3A:
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl - 1)

	// --- LDH / high-page loads ---
	case 0xE0:
		c.write8(0xFF00+uint16(c.fetch8()), c.A)
	case 0xF0:
		c.A = c.read8(0xFF00 + uint16(c.fetch8()))
	case 0xE2:
		c.write8(0xFF00+uint16(c.C), c.A)
	case 0xF2:
		c.A = c.read8(0xFF00 + uint16(c.C))
	case 0xEA:
		c.write8(c.fetch16(), c.A)
	case 0xFA:
		c.A = c.read8(c.fetch16())

	// --- INC/DEC r8 ---
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		idx := (op >> 3) & 7
		v := c.get8(idx)
		r := v + 1
		c.F = c.F&flagC | flagHIf(r&0x0F == 0) | flagZIf(r == 0)
		c.set8(idx, r)
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		idx := (op >> 3) & 7
		v := c.get8(idx)
		r := v - 1
		c.F = c.F&flagC | flagN | flagHIf(v&0x0F == 0) | flagZIf(r == 0)
		c.set8(idx, r)

	// --- INC/DEC r16 ---
	case 0x03:
		c.idle()
		c.setBC(c.getBC() + 1)
	case 0x13:
		c.idle()
		c.setDE(c.getDE() + 1)
	case 0x23:
		c.idle()
		c.setHL(c.getHL() + 1)
	case 0x33:
		c.idle()
		c.SP++
	case 0x0B:
		c.idle()
		c.setBC(c.getBC() - 1)
	case 0x1B:
		c.idle()
		c.setDE(c.getDE() - 1)
	case 0x2B:
		c.idle()
		c.setHL(c.getHL() - 1)
	case 0x3B:
		c.idle()
		c.SP--

	// --- ADD HL,rr / ADD SP,r8 ---
	case 0x09, 0x19, 0x29, 0x39:
		var rr uint16
		switch op {
		case 0x09:
			rr = c.getBC()
		case 0x19:
			rr = c.getDE()
		case 0x29:
			rr = c.getHL()
		case 0x39:
			rr = c.SP
		}
		c.idle()
		hl := c.getHL()
		res := uint32(hl) + uint32(rr)
		h := (hl&0x0FFF)+(rr&0x0FFF) > 0x0FFF
		c.F = c.F&flagZ | flagHIf(h) | flagCIf(res > 0xFFFF)
		c.setHL(uint16(res))
	case 0xE8: // ADD SP,r8
		r := int8(c.fetch8())
		c.idle()
		c.idle()
		h := (c.SP&0x0F)+uint16(byte(r)&0x0F) > 0x0F
		cy := (c.SP&0xFF)+uint16(byte(r)) > 0xFF
		c.setZNHC(false, false, h, cy)
		c.SP = uint16(int32(c.SP) + int32(r))

	// --- ALU A,r / A,d8 ---
	case 0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87:
		c.aluOp(0, c.get8(op&7))
	case 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F:
		c.aluOp(1, c.get8(op&7))
	case 0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97:
		c.aluOp(2, c.get8(op&7))
	case 0x98, 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, 0x9F:
		c.aluOp(3, c.get8(op&7))
	case 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7:
		c.aluOp(4, c.get8(op&7))
	case 0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF:
		c.aluOp(5, c.get8(op&7))
	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7:
		c.aluOp(6, c.get8(op&7))
	case 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF:
		c.aluOp(7, c.get8(op&7))
	case 0xC6:
		c.aluOp(0, c.fetch8())
	case 0xCE:
		c.aluOp(1, c.fetch8())
	case 0xD6:
		c.aluOp(2, c.fetch8())
	case 0xDE:
		c.aluOp(3, c.fetch8())
	case 0xE6:
		c.aluOp(4, c.fetch8())
	case 0xEE:
		c.aluOp(5, c.fetch8())
	case 0xF6:
		c.aluOp(6, c.fetch8())
	case 0xFE:
		c.aluOp(7, c.fetch8())

	// --- rotates on A (unconditional, no Z flag set from result==0) ---
	case 0x07: // RLCA
		cy := c.A&0x80 != 0
		c.A = c.A<<1 | b2u(cy)
		c.setZNHC(false, false, false, cy)
	case 0x0F: // RRCA
		cy := c.A&0x01 != 0
		c.A = c.A>>1 | b2u(cy)<<7
		c.setZNHC(false, false, false, cy)
	case 0x17: // RLA
		cy := c.A&0x80 != 0
		c.A = c.A<<1 | b2u(c.flag(flagC))
		c.setZNHC(false, false, false, cy)
	case 0x1F: // RRA
		cy := c.A&0x01 != 0
		c.A = c.A>>1 | b2u(c.flag(flagC))<<7
		c.setZNHC(false, false, false, cy)

	// --- PUSH / POP ---
	case 0xC5:
		c.push16(c.getBC())
	case 0xD5:
		c.push16(c.getDE())
	case 0xE5:
		c.push16(c.getHL())
	case 0xF5:
		c.push16(c.getAF())
	case 0xC1:
		c.setBC(c.pop16())
	case 0xD1:
		c.setDE(c.pop16())
	case 0xE1:
		c.setHL(c.pop16())
	case 0xF1:
		c.setAF(c.pop16())

	// --- jumps ---
	case 0xC3:
		addr := c.fetch16()
		c.idle()
		c.PC = addr
	case 0xE9:
		c.PC = c.getHL()
	case 0xC2, 0xD2, 0xCA, 0xDA:
		addr := c.fetch16()
		if c.takeCond(op) {
			c.idle()
			c.PC = addr
		}
	case 0x18:
		off := int8(c.fetch8())
		c.idle()
		c.PC = uint16(int32(c.PC) + int32(off))
	case 0x20, 0x30, 0x28, 0x38:
		off := int8(c.fetch8())
		if c.takeCond(op) {
			c.idle()
			c.PC = uint16(int32(c.PC) + int32(off))
		}

	// --- calls / returns / rst ---
	case 0xCD:
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
	case 0xC4, 0xD4, 0xCC, 0xDC:
		addr := c.fetch16()
		if c.takeCond(op) {
			c.push16(c.PC)
			c.PC = addr
		}
	case 0xC9:
		c.PC = c.pop16()
		c.idle()
	case 0xD9:
		c.PC = c.pop16()
		c.idle()
		c.IME = true
	case 0xC0, 0xD0, 0xC8, 0xD8:
		c.idle()
		if c.takeCond(op) {
			c.PC = c.pop16()
			c.idle()
		}
	case 0xC7, 0xD7, 0xE7, 0xF7, 0xCF, 0xDF, 0xEF, 0xFF:
		c.push16(c.PC)
		c.PC = uint16(op - 0xC7)

	case 0xCB:
		sub := c.fetch8()
		c.execCB(sub)

	default:
		// Illegal opcodes (D3 DB DD E3 E4 EB EC ED F4 FC FD): real
		// hardware locks the bus and never fetches again.
		c.stuck = true
	}
}

func flagZIf(v bool) byte {
	if v {
		return flagZ
	}
	return 0
}
func flagHIf(v bool) byte {
	if v {
		return flagH
	}
	return 0
}
func flagCIf(v bool) byte {
	if v {
		return flagC
	}
	return 0
}
func b2u(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// takeCond evaluates the NZ/Z/NC/C condition encoded in bits 3-4 of a
// conditional branch opcode.
func (c *CPU) takeCond(op byte) bool {
	switch (op >> 3) & 3 {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	default:
		return c.flag(flagC)
	}
}

// aluOp applies one of ADD/ADC/SUB/SBC/AND/XOR/OR/CP to A and the operand.
func (c *CPU) aluOp(kind byte, v byte) {
	switch kind {
	case 0:
		r, z, n, h, cy := c.add8(c.A, v)
		c.A = r
		c.setZNHC(z, n, h, cy)
	case 1:
		r, z, n, h, cy := c.adc8(c.A, v, c.flag(flagC))
		c.A = r
		c.setZNHC(z, n, h, cy)
	case 2:
		r, z, n, h, cy := c.sub8(c.A, v)
		c.A = r
		c.setZNHC(z, n, h, cy)
	case 3:
		r, z, n, h, cy := c.sbc8(c.A, v, c.flag(flagC))
		c.A = r
		c.setZNHC(z, n, h, cy)
	case 4:
		r, z, n, h, cy := c.and8(c.A, v)
		c.A = r
		c.setZNHC(z, n, h, cy)
	case 5:
		r, z, n, h, cy := c.xor8(c.A, v)
		c.A = r
		c.setZNHC(z, n, h, cy)
	case 6:
		r, z, n, h, cy := c.or8(c.A, v)
		c.A = r
		c.setZNHC(z, n, h, cy)
	case 7:
		z, n, h, cy := c.cp8(c.A, v)
		c.setZNHC(z, n, h, cy)
	}
}

// daa implements the binary-coded-decimal adjust following an 8-bit ALU op,
// using the N/H/C flags left over from it to decide the correction.
func (c *CPU) daa() {
	a := c.A
	if !c.flag(flagN) {
		if c.flag(flagC) || a > 0x99 {
			a += 0x60
			c.F |= flagC
		}
		if c.flag(flagH) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if c.flag(flagC) {
			a -= 0x60
		}
		if c.flag(flagH) {
			a -= 0x06
		}
	}
	c.A = a
	c.F &^= flagH
	if a == 0 {
		c.F |= flagZ
	} else {
		c.F &^= flagZ
	}
}
