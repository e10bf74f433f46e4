package ui

// Config holds the window/runtime settings the app needs. Grounded on the
// teacher's internal/ui Config (Title/Scale/AudioBufferMs), trimmed of the
// settings-file and save-state-slot fields the teacher's menu system used
// since that menu is out of scope here.
type Config struct {
	Title         string
	Scale         int
	AudioBufferMs int
}

func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.AudioBufferMs <= 0 {
		c.AudioBufferMs = 125
	}
}
