// Command gbemu runs a cartridge either in a window or headless, grounded on
// the teacher's cmd/gbemu/main.go flag set and headless CRC32/PNG-dump
// workflow for scripted test-ROM verification.
package main

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"flag"

	"github.com/mnoll/gbcore/internal/emu"
	"github.com/mnoll/gbcore/internal/ui"
)

type cliFlags struct {
	romPath string
	bootROM string
	scale   int
	title   string
	saveRAM bool

	headless bool
	frames   int
	pngOut   string
	expect   string
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.romPath, "rom", "", "path to ROM (.gb)")
	flag.StringVar(&f.bootROM, "bootrom", "", "optional DMG boot ROM")
	flag.IntVar(&f.scale, "scale", 3, "window scale")
	flag.StringVar(&f.title, "title", "gbemu", "window title")
	flag.BoolVar(&f.saveRAM, "save", true, "persist battery RAM to ROM.sav on exit and load on start")

	flag.BoolVar(&f.headless, "headless", false, "run without a window")
	flag.IntVar(&f.frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.pngOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func mustRead(path string) []byte {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	return b
}

func runHeadless(m *emu.Machine, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}
	start := time.Now()
	for i := 0; i < frames; i++ {
		m.StepFrame()
	}
	dur := time.Since(start)

	fb := m.Bus.PPU.RGBA()
	crc := crc32.ChecksumIEEE(fb)
	fps := float64(frames) / dur.Seconds()
	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x", frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(fb, 160, 144, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(pix []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    append([]byte(nil), pix...),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func savPathFor(romPath string) string {
	return strings.TrimSuffix(romPath, ".gb") + ".sav"
}

func main() {
	f := parseFlags()
	rom := mustRead(f.romPath)
	if len(rom) == 0 {
		log.Fatal("gbemu: -rom is required")
	}

	m, err := emu.New(rom)
	if err != nil {
		log.Fatalf("load cart: %v", err)
	}
	log.Printf("ROM loaded: %d bytes", len(rom))

	if boot := mustRead(f.bootROM); len(boot) >= 0x100 {
		m.LoadBootROM(boot)
	}

	savPath := savPathFor(f.romPath)
	if f.saveRAM {
		if data, err := os.ReadFile(savPath); err == nil {
			m.LoadBatteryRAM(data)
			log.Printf("loaded save RAM: %s (%d bytes)", savPath, len(data))
		}
	}

	persist := func() {
		if !f.saveRAM {
			return
		}
		if data := m.SaveBatteryRAM(); data != nil {
			if err := os.WriteFile(savPath, data, 0o644); err == nil {
				log.Printf("wrote %s", savPath)
			}
		}
	}

	if f.headless {
		if err := runHeadless(m, f.frames, f.pngOut, f.expect); err != nil {
			log.Fatal(err)
		}
		persist()
		return
	}

	app := ui.NewApp(ui.Config{Title: f.title, Scale: f.scale}, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
	persist()
}
