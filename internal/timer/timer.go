// Package timer implements DIV/TIMA/TMA/TAC, including the one-M-cycle
// overflow-to-reload delay. Grounded on the teacher's inline timer logic in
// internal/bus/bus.go (timerInput/incrementTIMA/Tick), split into its own
// component the way spec.md's component table treats Timer as a standalone
// unit, and on original_source/clocktimer.cpp's countdown-then-fire shape
// for the reload delay counter.
package timer

import "github.com/mnoll/gbcore/internal/interrupt"

// muxBit maps TAC's low two bits to the system-counter bit that gates TIMA,
// expressed in M-cycle units (the system counter advances once per M-cycle,
// so these are the real-hardware T-cycle bit numbers 9/3/5/7 shifted down by
// two to account for the 4x coarser tick rate).
var muxBit = [4]uint{7, 1, 3, 5}

type Timer struct {
	counter uint16 // 16-bit free-running system counter, +1 per M-cycle
	tima    byte
	tma     byte
	tac     byte // low 3 bits used

	// reloadDelay counts down the one-M-cycle gap between TIMA overflowing
	// to 0x00 and it being reloaded from TMA with an interrupt request.
	// 0 = no pending reload. 1 = reload happens on this tick.
	reloadDelay int
	reloading   bool // true only during the tick the reload actually lands

	ic *interrupt.Controller
}

func New(ic *interrupt.Controller) *Timer {
	t := &Timer{ic: ic}
	t.counter = 0x2AC0 // post-boot DIV reads 0xAB ((0x2AC0>>6)&0xFF == 0xAB), the timer's share of the post-boot state cpu.ResetNoBoot sets up
	return t
}

func (t *Timer) enabled() bool { return t.tac&0x04 != 0 }

func (t *Timer) input() bool {
	if !t.enabled() {
		return false
	}
	return (t.counter>>muxBit[t.tac&0x03])&1 != 0
}

// Tick advances the timer by exactly one M-cycle. Must be called once per
// M-cycle in program order relative to the CPU so the overflow-reload delay
// lands on the correct tick.
func (t *Timer) Tick() {
	t.reloading = false
	before := t.input()
	t.counter++
	after := t.input()

	if t.reloadDelay > 0 {
		t.reloadDelay--
		if t.reloadDelay == 0 {
			t.tima = t.tma
			t.reloading = true
			t.ic.Request(interrupt.Timer)
		}
	}

	if before && !after {
		t.incrementTIMA()
	}
}

func (t *Timer) incrementTIMA() {
	if t.reloadDelay > 0 {
		return
	}
	if t.tima == 0xFF {
		t.tima = 0x00
		t.reloadDelay = 1
		return
	}
	t.tima++
}

func (t *Timer) ReadDIV() byte { return byte(t.counter >> 6) }

// WriteDIV resets the full system counter to zero. A falling edge on the
// selected mux bit caused by the reset still increments TIMA, matching
// hardware's DIV-write glitch.
func (t *Timer) WriteDIV() {
	before := t.input()
	t.counter = 0
	after := t.input()
	if before && !after {
		t.incrementTIMA()
	}
}

func (t *Timer) ReadTIMA() byte { return t.tima }

// WriteTIMA is ignored on the exact tick the overflow reload lands (the
// reload wins), but otherwise cancels any pending reload.
func (t *Timer) WriteTIMA(v byte) {
	if t.reloading {
		return
	}
	t.tima = v
	t.reloadDelay = 0
}

func (t *Timer) ReadTMA() byte { return t.tma }

// WriteTMA also updates TIMA when written on the tick the overflow reload
// lands, since on real hardware TIMA is wired to read TMA during that cycle.
func (t *Timer) WriteTMA(v byte) {
	t.tma = v
	if t.reloading {
		t.tima = v
	}
}

func (t *Timer) ReadTAC() byte { return 0xF8 | (t.tac & 0x07) }

func (t *Timer) WriteTAC(v byte) {
	before := t.input()
	t.tac = v & 0x07
	after := t.input()
	if before && !after {
		t.incrementTIMA()
	}
}

type State struct {
	Counter     uint16
	TIMA, TMA   byte
	TAC         byte
	ReloadDelay int
}

func (t *Timer) SaveState() State {
	return State{Counter: t.counter, TIMA: t.tima, TMA: t.tma, TAC: t.tac, ReloadDelay: t.reloadDelay}
}

func (t *Timer) LoadState(s State) {
	t.counter, t.tima, t.tma, t.tac, t.reloadDelay = s.Counter, s.TIMA, s.TMA, s.TAC, s.ReloadDelay
}
