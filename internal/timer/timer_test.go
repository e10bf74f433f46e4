package timer

import (
	"testing"

	"github.com/mnoll/gbcore/internal/interrupt"
)

func TestDIVIncrementsAndWriteResets(t *testing.T) {
	ic := interrupt.New()
	tm := New(ic)
	for i := 0; i < 64; i++ {
		tm.Tick()
	}
	if got := tm.ReadDIV(); got != 0xAC {
		t.Fatalf("DIV after 64 M-cycles got %#02x want 0xAC (post-boot 0xAB plus one)", got)
	}
	tm.WriteDIV()
	if got := tm.ReadDIV(); got != 0 {
		t.Fatalf("DIV after write got %d want 0", got)
	}
}

// TAC=0x05 selects mux bit 1, so TIMA increments every 4 M-cycles once enabled.
func TestTIMAIncrementsAtSelectedRate(t *testing.T) {
	ic := interrupt.New()
	tm := New(ic)
	tm.WriteDIV() // zero the counter so the phase is deterministic
	tm.WriteTAC(0x05)
	for i := 0; i < 4; i++ {
		tm.Tick()
	}
	if got := tm.ReadTIMA(); got != 1 {
		t.Fatalf("TIMA after 4 M-cycles at TAC=05 got %d want 1", got)
	}
}

// Overflow reloads from TMA and requests Timer one M-cycle later, not the
// same cycle TIMA rolls over to 0.
func TestTIMAOverflowReloadDelay(t *testing.T) {
	ic := interrupt.New()
	ic.WriteIE(0xFF)
	tm := New(ic)
	tm.WriteDIV()
	tm.WriteTAC(0x05) // every 4 M-cycles
	tm.WriteTMA(0x42)
	tm.WriteTIMA(0xFF)

	for i := 0; i < 4; i++ {
		tm.Tick()
	}
	if tm.ReadTIMA() != 0x00 {
		t.Fatalf("TIMA on overflow tick got %#02x want 0x00", tm.ReadTIMA())
	}
	if ic.Pending()&(1<<interrupt.Timer) != 0 {
		t.Fatal("Timer interrupt requested before the reload tick")
	}
	tm.Tick()
	if tm.ReadTIMA() != 0x42 {
		t.Fatalf("TIMA after reload tick got %#02x want 0x42", tm.ReadTIMA())
	}
	if ic.Pending()&(1<<interrupt.Timer) == 0 {
		t.Fatal("expected Timer interrupt requested on the reload tick")
	}
}

// A write on the pending-overflow cycle (TIMA already shows 0x00, but the
// reload hasn't landed yet) cancels the reload rather than being ignored by
// it: the write takes effect and reloadDelay is cleared.
func TestWriteTIMADuringPendingOverflowCancelsReload(t *testing.T) {
	ic := interrupt.New()
	ic.WriteIE(0xFF)
	tm := New(ic)
	tm.WriteDIV()
	tm.WriteTAC(0x05)
	tm.WriteTMA(0x10)
	tm.WriteTIMA(0xFF)
	for i := 0; i < 4; i++ {
		tm.Tick() // lands the overflow: tima=0x00, reloadDelay=1, reloading=false
	}
	tm.WriteTIMA(0x99) // cancels the pending reload
	tm.Tick()
	if tm.ReadTIMA() != 0x99 {
		t.Fatalf("TIMA got %#02x want 0x99 (write on the pending-overflow cycle cancels the reload)", tm.ReadTIMA())
	}
	if ic.Pending()&(1<<interrupt.Timer) != 0 {
		t.Fatal("expected no Timer interrupt once the reload was cancelled")
	}
}

// A write on the exact cycle the reload lands (TIMA just took TMA's value,
// reloading==true) is ignored: the reload wins.
func TestWriteTIMADuringReloadLandingCycleIgnored(t *testing.T) {
	ic := interrupt.New()
	ic.WriteIE(0xFF)
	tm := New(ic)
	tm.WriteDIV()
	tm.WriteTAC(0x05)
	tm.WriteTMA(0x10)
	tm.WriteTIMA(0xFF)
	for i := 0; i < 5; i++ {
		tm.Tick() // 4 ticks to overflow, 1 more to land the reload
	}
	tm.WriteTIMA(0x99) // must be discarded: this is the reload-landing cycle
	if tm.ReadTIMA() != 0x10 {
		t.Fatalf("TIMA got %#02x want 0x10 (write on the reload-landing cycle must be ignored)", tm.ReadTIMA())
	}
}

func TestDisabledTimerDoesNotIncrement(t *testing.T) {
	ic := interrupt.New()
	tm := New(ic)
	tm.WriteDIV()
	tm.WriteTAC(0x01) // enable bit clear
	for i := 0; i < 1000; i++ {
		tm.Tick()
	}
	if tm.ReadTIMA() != 0 {
		t.Fatalf("TIMA got %d, want 0 while timer disabled", tm.ReadTIMA())
	}
}

func TestReadTACUnusedBitsReadAsOne(t *testing.T) {
	ic := interrupt.New()
	tm := New(ic)
	tm.WriteTAC(0x05)
	if got := tm.ReadTAC(); got != 0xFD {
		t.Fatalf("ReadTAC got %#02x want 0xFD", got)
	}
}
