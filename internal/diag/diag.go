// Package diag is a toggleable logger for runtime anomalies: conditions the
// core tolerates without failing (a write to ROM with no MBC to accept it,
// a read from a prohibited address) but that a developer debugging a
// misbehaving ROM wants visibility into. Grounded on the teacher's
// internal/bus/bus.go debugTimer field, which gates fmt.Printf diagnostics
// behind a GB_DEBUG_TIMER environment variable; generalized into its own
// package using the stdlib log package (as cmd/gbemu and cmd/cpurunner
// already do) behind a GB_DEBUG_ANOMALIES toggle so every component can
// share one switch instead of each inventing its own env var.
package diag

import (
	"log"
	"os"
)

var enabled = os.Getenv("GB_DEBUG_ANOMALIES") != ""

// Anomalyf logs a tolerated runtime anomaly when diagnostics are enabled.
// It is a no-op otherwise, so the hot read/write paths pay only an
// unconditional bool check.
func Anomalyf(format string, args ...any) {
	if !enabled {
		return
	}
	log.Printf("[anomaly] "+format, args...)
}
