package apu

import "testing"

func TestRegisterReadWritePassthrough(t *testing.T) {
	a := New()
	a.Write(0xFF10, 0x80)
	if got := a.Read(0xFF10); got != 0x80 {
		t.Fatalf("NR10 got %#02x want 0x80", got)
	}
}

func TestNR52DefaultPowerOnBits(t *testing.T) {
	a := New()
	if got := a.Read(0xFF26); got&0x80 == 0 {
		t.Fatal("expected power-on bit set by default")
	}
	if got := a.Read(0xFF24); got != 0x77 {
		t.Fatalf("NR50 default got %#02x want 0x77", got)
	}
	if got := a.Read(0xFF25); got != 0xF3 {
		t.Fatalf("NR51 default got %#02x want 0xF3", got)
	}
}

func TestDisablingNR52ClearsChannelRegistersButNotWaveRAM(t *testing.T) {
	a := New()
	a.Write(0xFF10, 0x7F)
	a.Write(0xFF30, 0xAB) // wave RAM
	a.Write(0xFF26, 0x00) // disable
	if got := a.Read(0xFF10); got != 0 {
		t.Fatalf("NR10 got %#02x want 0 after power-off clears it", got)
	}
	if got := a.Read(0xFF30); got != 0xAB {
		t.Fatal("wave RAM must survive a power-off clear")
	}
	if got := a.Read(0xFF26); got&0x80 != 0 {
		t.Fatal("expected power-on bit clear after disabling NR52")
	}
}

func TestWritesIgnoredWhilePoweredOffExceptWaveRAM(t *testing.T) {
	a := New()
	a.Write(0xFF26, 0x00)
	a.Write(0xFF10, 0x7F) // should be dropped, APU is off
	if got := a.Read(0xFF10); got != 0 {
		t.Fatalf("NR10 got %#02x want 0 (write while powered off must be ignored)", got)
	}
	a.Write(0xFF30, 0x55) // wave RAM writable regardless of power state
	if got := a.Read(0xFF30); got != 0x55 {
		t.Fatalf("wave RAM got %#02x want 0x55", got)
	}
}

func TestFrameSequencerAdvancesEvery2048Ticks(t *testing.T) {
	a := New()
	s := a.SaveState()
	if s.FSStep != 0 {
		t.Fatalf("fsStep got %d want 0 before any ticks", s.FSStep)
	}
	for i := 0; i < frameSequencerPeriod; i++ {
		a.Tick()
	}
	if got := a.SaveState().FSStep; got != 1 {
		t.Fatalf("fsStep got %d want 1 after one full period", got)
	}
}

func TestFrameSequencerFrozenWhilePoweredOff(t *testing.T) {
	a := New()
	a.Write(0xFF26, 0x00)
	for i := 0; i < frameSequencerPeriod*2; i++ {
		a.Tick()
	}
	if got := a.SaveState().FSStep; got != 0 {
		t.Fatalf("fsStep got %d want 0 while powered off", got)
	}
}

func TestTickAppendsSilentStereoSample(t *testing.T) {
	a := New()
	a.Tick()
	a.Tick()
	out := a.PullStereo(10)
	if len(out) != 2 {
		t.Fatalf("got %d samples want 2", len(out))
	}
	for _, s := range out {
		if s.L != 0 || s.R != 0 {
			t.Fatalf("expected silent sample, got %+v", s)
		}
	}
}

func TestPullStereoDrainsAndCapsAtMax(t *testing.T) {
	a := New()
	for i := 0; i < 5; i++ {
		a.Tick()
	}
	first := a.PullStereo(3)
	if len(first) != 3 {
		t.Fatalf("got %d want 3", len(first))
	}
	second := a.PullStereo(10)
	if len(second) != 2 {
		t.Fatalf("got %d want 2 remaining", len(second))
	}
	if got := a.PullStereo(10); got != nil {
		t.Fatal("expected nil once the buffer is drained")
	}
}

func TestSaveLoadState(t *testing.T) {
	a := New()
	a.Write(0xFF10, 0x7F)
	for i := 0; i < frameSequencerPeriod+5; i++ {
		a.Tick()
	}
	s := a.SaveState()

	b := New()
	b.LoadState(s)
	if got := b.Read(0xFF10); got != 0x7F {
		t.Fatalf("NR10 got %#02x want 0x7F after restore", got)
	}
	if got := b.SaveState().FSStep; got != s.FSStep {
		t.Fatalf("fsStep got %d want %d after restore", got, s.FSStep)
	}
}
