// Package serial is the outbound-only serial port stub: a one-byte latch
// (SB, FF01) and control register (SC, FF02) that appends to a byte buffer
// and requests an interrupt on a transfer-start write, modeling the nominal
// transfer delay as immediate per spec.md §4.9. A real second device is not
// modeled (spec.md Non-goals).
package serial

import "github.com/mnoll/gbcore/internal/interrupt"

type Serial struct {
	sb  byte
	sc  byte
	out []byte

	ic *interrupt.Controller
}

func New(ic *interrupt.Controller) *Serial { return &Serial{ic: ic} }

func (s *Serial) ReadSB() byte { return s.sb }
func (s *Serial) WriteSB(v byte) { s.sb = v }

func (s *Serial) ReadSC() byte { return 0x7E | (s.sc & 0x81) }

func (s *Serial) WriteSC(v byte) {
	s.sc = v & 0x81
	if s.sc&0x80 != 0 && s.sc&0x01 != 0 {
		s.out = append(s.out, s.sb)
		s.ic.Request(interrupt.Serial)
		s.sc &^= 0x80
	}
}

// Buffer returns the accumulated outbound bytes as a string, the blargg
// test ROMs' pass/fail reporting channel (spec.md §6 Test observability).
func (s *Serial) Buffer() string { return string(s.out) }

type State struct {
	SB, SC byte
	Out    []byte
}

func (s *Serial) SaveState() State { return State{SB: s.sb, SC: s.sc, Out: append([]byte(nil), s.out...)} }
func (s *Serial) LoadState(st State) {
	s.sb, s.sc = st.SB, st.SC
	s.out = append([]byte(nil), st.Out...)
}
