package dma

import "testing"

type fakeMem struct {
	src [0x100]byte
	oam [160]byte
}

func (f *fakeMem) ReadForDMA(addr uint16) byte  { return f.src[addr&0xFF] }
func (f *fakeMem) WriteOAMByte(offset int, v byte) { f.oam[offset] = v }

func TestTriggerDelaysFirstByteByOneCycle(t *testing.T) {
	var d DMA
	mem := &fakeMem{}
	mem.src[0] = 0x77

	d.Trigger(0xC0) // source page 0xC000, but fakeMem only indexes by low byte
	if !d.Active() {
		t.Fatal("expected transfer active immediately after Trigger")
	}

	d.Tick(mem, mem) // the arming cycle: no byte should move
	if mem.oam[0] != 0 {
		t.Fatalf("OAM[0] got %#02x, want 0x00 (arming cycle must not copy)", mem.oam[0])
	}

	d.Tick(mem, mem) // first real copy cycle
	if mem.oam[0] != 0x77 {
		t.Fatalf("OAM[0] got %#02x, want 0x77 after the second tick", mem.oam[0])
	}
}

func TestFullTransferTakes161Ticks(t *testing.T) {
	var d DMA
	mem := &fakeMem{}
	for i := range mem.src {
		mem.src[i] = byte(i)
	}
	d.Trigger(0x00)
	ticks := 0
	for d.Active() {
		d.Tick(mem, mem)
		ticks++
		if ticks > 1000 {
			t.Fatal("transfer never completed")
		}
	}
	if ticks != transferLength+1 {
		t.Fatalf("got %d ticks to complete, want %d (1 arming + 160 copy)", ticks, transferLength+1)
	}
	for i := 0; i < transferLength; i++ {
		if mem.oam[i] != byte(i) {
			t.Fatalf("OAM[%d] got %#02x want %#02x", i, mem.oam[i], byte(i))
		}
	}
}

func TestEchoSourceClampedToWRAM(t *testing.T) {
	var d DMA
	d.Trigger(0xFF) // 0xFF00, at or above 0xE000, should clamp to 0xDF00
	if got := d.CurrentSourceAddr(); got != 0xDF00 {
		t.Fatalf("source got %#04x want 0xDF00", got)
	}
}

func TestRemainingCountsDown(t *testing.T) {
	var d DMA
	mem := &fakeMem{}
	d.Trigger(0x00)
	d.Tick(mem, mem) // arming
	if got := d.Remaining(); got != transferLength {
		t.Fatalf("Remaining got %d want %d right after arming", got, transferLength)
	}
	d.Tick(mem, mem)
	if got := d.Remaining(); got != transferLength-1 {
		t.Fatalf("Remaining got %d want %d after first copy", got, transferLength-1)
	}
}
