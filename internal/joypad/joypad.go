// Package joypad implements the FF00 register: a 2x4 button matrix with
// edge-triggered interrupt on any selected bit's 1->0 transition. Grounded
// on the teacher's internal/bus/bus.go JOYP handling, extracted into its own
// component to match spec.md's component table.
package joypad

import "github.com/mnoll/gbcore/internal/interrupt"

// Button bitmask values for SetState. A set bit means "pressed".
const (
	Right = 1 << iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

type Joypad struct {
	selects byte // bits 5-4 as last written (1 = that row not selected)
	pressed byte // Button bitmask of currently pressed buttons
	lower4  byte // last computed active-low nibble, for edge detection

	ic *interrupt.Controller
}

func New(ic *interrupt.Controller) *Joypad { return &Joypad{selects: 0x30, lower4: 0x0F, ic: ic} }

func (j *Joypad) nibble() byte {
	n := byte(0x0F)
	if j.selects&0x10 == 0 { // P14 low selects D-pad
		if j.pressed&Right != 0 {
			n &^= 0x01
		}
		if j.pressed&Left != 0 {
			n &^= 0x02
		}
		if j.pressed&Up != 0 {
			n &^= 0x04
		}
		if j.pressed&Down != 0 {
			n &^= 0x08
		}
	}
	if j.selects&0x20 == 0 { // P15 low selects buttons
		if j.pressed&A != 0 {
			n &^= 0x01
		}
		if j.pressed&B != 0 {
			n &^= 0x02
		}
		if j.pressed&Select != 0 {
			n &^= 0x04
		}
		if j.pressed&Start != 0 {
			n &^= 0x08
		}
	}
	return n
}

func (j *Joypad) Read() byte { return 0xC0 | (j.selects & 0x30) | j.nibble() }

func (j *Joypad) WriteSelect(v byte) {
	j.selects = v & 0x30
	j.refresh()
}

// SetState replaces the pressed-button mask (the host calls this between
// M-cycles, never mid-instruction).
func (j *Joypad) SetState(mask byte) {
	j.pressed = mask
	j.refresh()
}

func (j *Joypad) refresh() {
	newLower := j.nibble()
	falling := j.lower4 &^ newLower // bits that went 1->0
	if falling != 0 {
		j.ic.Request(interrupt.Joypad)
	}
	j.lower4 = newLower
}

type State struct {
	Selects, Pressed, Lower4 byte
}

func (j *Joypad) SaveState() State { return State{j.selects, j.pressed, j.lower4} }
func (j *Joypad) LoadState(s State) {
	j.selects, j.pressed, j.lower4 = s.Selects, s.Pressed, s.Lower4
}
