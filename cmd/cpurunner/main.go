// Command cpurunner drives a cartridge headlessly until its serial output
// contains a marker string (the blargg test ROM convention) or a step
// budget is exhausted. Grounded on the teacher's cmd/cpurunner/main.go
// -until/-auto/-timeout flag set, trimmed of its trace-window/fail-dump
// diagnostics.
package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mnoll/gbcore/internal/emu"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional boot ROM to run from 0x0000")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	until := flag.String("until", "Passed", "stop when serial output contains this substring; empty to disable")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (0 disables)")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}

	m, err := emu.New(rom)
	if err != nil {
		log.Fatalf("load cart: %v", err)
	}
	if *bootPath != "" {
		boot, err := os.ReadFile(*bootPath)
		if err != nil {
			log.Fatalf("read bootrom: %v", err)
		}
		if len(boot) >= 0x100 {
			m.LoadBootROM(boot)
		}
	}

	start := time.Now()
	for i := 0; i < *steps; i++ {
		m.Step()
		if *timeout > 0 && time.Since(start) > *timeout {
			log.Fatal("timeout waiting for serial marker")
		}
		if *until != "" && strings.Contains(m.SerialOutput(), *until) {
			log.Printf("matched %q after %d steps (%s)", *until, i+1, time.Since(start))
			os.Stdout.WriteString(m.SerialOutput())
			return
		}
	}
	log.Fatalf("step budget exhausted without matching %q; serial=%q", *until, m.SerialOutput())
}
