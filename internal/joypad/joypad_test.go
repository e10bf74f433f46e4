package joypad

import (
	"testing"

	"github.com/mnoll/gbcore/internal/interrupt"
)

func TestReadSelectDPad(t *testing.T) {
	ic := interrupt.New()
	j := New(ic)
	j.WriteSelect(0x20) // select D-pad (P14 low, P15 high)
	j.SetState(Right | Up)
	got := j.Read()
	if got&0x01 != 0 {
		t.Fatalf("Right bit should read 0 (pressed), got %#02x", got)
	}
	if got&0x02 == 0 {
		t.Fatalf("Left bit should read 1 (released), got %#02x", got)
	}
	if got&0x04 != 0 {
		t.Fatalf("Up bit should read 0 (pressed), got %#02x", got)
	}
}

func TestReadSelectButtons(t *testing.T) {
	ic := interrupt.New()
	j := New(ic)
	j.WriteSelect(0x10) // select buttons
	j.SetState(A | Start)
	got := j.Read()
	if got&0x01 != 0 {
		t.Fatalf("A bit should read 0 (pressed), got %#02x", got)
	}
	if got&0x08 != 0 {
		t.Fatalf("Start bit should read 0 (pressed), got %#02x", got)
	}
}

func TestFallingEdgeRequestsInterrupt(t *testing.T) {
	ic := interrupt.New()
	ic.WriteIE(0xFF)
	j := New(ic)
	j.WriteSelect(0x20) // D-pad selected
	j.SetState(0)
	ic.WriteIF(0)
	j.SetState(Down)
	if ic.Pending()&(1<<interrupt.Joypad) == 0 {
		t.Fatal("expected Joypad interrupt on press-driven falling edge")
	}
}

func TestNoRowSelectedReadsAllOnes(t *testing.T) {
	ic := interrupt.New()
	j := New(ic)
	j.WriteSelect(0x30)
	j.SetState(A | Down)
	if got := j.Read() & 0x0F; got != 0x0F {
		t.Fatalf("lower nibble got %#02x want 0x0F with neither row selected", got)
	}
}
