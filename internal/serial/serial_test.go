package serial

import (
	"testing"

	"github.com/mnoll/gbcore/internal/interrupt"
)

func TestSBReadWriteRoundTrip(t *testing.T) {
	s := New(interrupt.New())
	s.WriteSB(0x42)
	if got := s.ReadSB(); got != 0x42 {
		t.Fatalf("SB got %#02x want 0x42", got)
	}
}

func TestReadSCFixedBits(t *testing.T) {
	s := New(interrupt.New())
	if got := s.ReadSC(); got != 0x7E {
		t.Fatalf("SC got %#02x want 0x7E at reset", got)
	}
	s.WriteSC(0x01) // internal clock selected, transfer not requested
	if got := s.ReadSC(); got != 0x7F {
		t.Fatalf("SC got %#02x want 0x7F with clock-select bit latched", got)
	}
}

func TestTransferStartAppendsByteAndRequestsInterrupt(t *testing.T) {
	ic := interrupt.New()
	ic.WriteIE(0xFF)
	s := New(ic)
	s.WriteSB('P')
	s.WriteSC(0x81) // start transfer, internal clock
	if got := s.Buffer(); got != "P" {
		t.Fatalf("buffer got %q want %q", got, "P")
	}
	if ic.Pending()&(1<<interrupt.Serial) == 0 {
		t.Fatal("expected Serial interrupt requested on transfer start")
	}
	if got := s.ReadSC(); got&0x80 != 0 {
		t.Fatal("expected transfer-start bit cleared once the (immediate) transfer completes")
	}
}

func TestTransferWithoutStartBitDoesNotAppend(t *testing.T) {
	ic := interrupt.New()
	s := New(ic)
	s.WriteSB('X')
	s.WriteSC(0x00)
	if got := s.Buffer(); got != "" {
		t.Fatalf("buffer got %q want empty", got)
	}
	if ic.Pending() != 0 {
		t.Fatal("expected no interrupt requested without the start bit")
	}
}

func TestBufferAccumulatesAcrossMultipleTransfers(t *testing.T) {
	ic := interrupt.New()
	s := New(ic)
	for _, b := range []byte("Passed") {
		s.WriteSB(b)
		s.WriteSC(0x81)
	}
	if got := s.Buffer(); got != "Passed" {
		t.Fatalf("buffer got %q want %q", got, "Passed")
	}
}

func TestSaveLoadState(t *testing.T) {
	ic := interrupt.New()
	s := New(ic)
	s.WriteSB('A')
	s.WriteSC(0x81)
	st := s.SaveState()

	r := New(interrupt.New())
	r.LoadState(st)
	if got := r.Buffer(); got != "A" {
		t.Fatalf("buffer got %q want %q after restore", got, "A")
	}
	if got := r.ReadSB(); got != 'A' {
		t.Fatalf("SB got %#02x want 'A' after restore", got)
	}
}
