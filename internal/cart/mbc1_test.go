package cart

import "testing"

func TestMBC1ROMBanking(t *testing.T) {
	rom := make([]byte, 128*1024) // 8 banks
	for bank := 0; bank < 8; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m := NewMBC1(rom, 0)

	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("bank0 read got %#02x want 0x00", got)
	}
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("default switchable bank got %#02x want 0x01", got)
	}

	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %#02x want 0x03", got)
	}

	m.Write(0x2000, 0x00) // BANK1=0 forces to 1
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank0->1 remap got %#02x want 0x01", got)
	}
}

func TestMBC1BankMaskedByROMSize(t *testing.T) {
	rom := make([]byte, 64*1024) // 4 banks, needs only 2 bits
	for bank := 0; bank < 4; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m := NewMBC1(rom, 0)
	m.Write(0x2000, 0x1F) // request bank 31, masked down to the ROM's actual bank count
	got := m.Read(0x4000)
	if int(got) >= 4 {
		t.Fatalf("bank selection %d not masked to available %d banks", got, 4)
	}
}

func TestMBC1RAMGatingAndBanking(t *testing.T) {
	rom := make([]byte, 128*1024)
	m := NewMBC1(rom, 32*1024) // 4 RAM banks
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("RAM read while disabled got %#02x want 0xFF", got)
	}
	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0x6000, 0x01) // advanced mode
	m.Write(0x4000, 0x02) // RAM bank 2
	m.Write(0xA000, 0x55)
	if got := m.Read(0xA000); got != 0x55 {
		t.Fatalf("RAM round-trip got %#02x want 0x55", got)
	}
	m.Write(0x4000, 0x00)
	if got := m.Read(0xA000); got == 0x55 {
		t.Fatal("expected a different RAM bank after reselecting bank 0")
	}
}

func TestMBC1SaveLoadRAM(t *testing.T) {
	rom := make([]byte, 32*1024)
	m := NewMBC1(rom, 8*1024)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x42)
	data := m.SaveRAM()
	if len(data) != 8*1024 || data[0] != 0x42 {
		t.Fatalf("SaveRAM got len=%d [0]=%#02x", len(data), data[0])
	}
	m2 := NewMBC1(rom, 8*1024)
	m2.LoadRAM(data)
	m2.Write(0x0000, 0x0A)
	if got := m2.Read(0xA000); got != 0x42 {
		t.Fatalf("LoadRAM round-trip got %#02x want 0x42", got)
	}
}
