package ui

import "github.com/mnoll/gbcore/internal/emu"

// apuStream adapts the APU's pulled stereo samples to ebiten's
// io.Reader-based audio.Player source. spec.md §1 places the host-side
// audio resampler and output device out of scope for the core; this drains
// whatever the APU produced into 16-bit PCM at whatever rate the player was
// opened with, which is exact since the core's register-surface APU
// (internal/apu) currently emits silence (spec.md Non-goals: four-channel
// synthesis). Grounded on the teacher's internal/ui/audio.go apuStream
// shape, with the adaptive-buffering/resampling logic it layered on top
// left for a host that wants real audio to supply itself.
type apuStream struct {
	m *emu.Machine
}

func newAPUStream(m *emu.Machine) *apuStream { return &apuStream{m: m} }

// Read implements io.Reader, draining available stereo frames as
// interleaved little-endian 16-bit PCM.
func (s *apuStream) Read(p []byte) (int, error) {
	frames := len(p) / 4
	src := s.m.Bus.APU.PullStereo(frames)
	for i, smp := range src {
		writeStereo16(p[i*4:], smp.L, smp.R)
	}
	for i := len(src); i < frames; i++ {
		writeStereo16(p[i*4:], 0, 0)
	}
	return frames * 4, nil
}

func writeStereo16(p []byte, l, r float32) {
	li := int16(clamp(l) * 32767)
	ri := int16(clamp(r) * 32767)
	p[0], p[1] = byte(li), byte(li>>8)
	p[2], p[3] = byte(ri), byte(ri>>8)
}

func clamp(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
