package tui

import (
	"time"

	"github.com/Veraticus/bankdash/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Now       func() time.Time
	StartPath string
	Width     int
	Height    int
	ShowHelp  bool
	Record    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Now:      time.Now,
		Width:    100,
		Height:   30,
		ShowHelp: true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithStartPath opens path instead of the remembered page.
func WithStartPath(path string) Option {
	return func(c *Config) {
		c.StartPath = path
	}
}

// WithClock replaces the clock used for banner countdowns.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithRecorder writes every frame to a temporary directory for debugging.
func WithRecorder(enabled bool) Option {
	return func(c *Config) {
		c.Record = enabled
	}
}

// WithHelp toggles the short help line.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
