// Package config loads retrodesk settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retrodesk/internal/geom"
	"github.com/1broseidon/retrodesk/internal/termbuf"
)

// Geometry is a window rectangle in terminal cells.
type Geometry struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rect converts the geometry to a geom.Rect.
func (g Geometry) Rect() geom.Rect {
	return geom.Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

// DesktopConfig controls what is drawn on the desktop.
type DesktopConfig struct {
	Wallpaper bool     `yaml:"wallpaper"`
	Icons     bool     `yaml:"icons"`
	Terminal  Geometry `yaml:"terminal"`
	About     Geometry `yaml:"about"`
}

// TerminalConfig configures the terminal window's line discipline.
type TerminalConfig struct {
	Prompt   string   `yaml:"prompt"`
	Clamp    string   `yaml:"clamp"`
	MaxLines int      `yaml:"max_lines"`
	Banner   []string `yaml:"banner"`
}

// SchedulerConfig configures the UI tick periods.
type SchedulerConfig struct {
	FastInterval time.Duration `yaml:"fast_interval"`
	SlowInterval time.Duration `yaml:"slow_interval"`
	ClockLayout  string        `yaml:"clock_layout"`
}

// MetricsConfig configures the frame-rate producer and exporter.
type MetricsConfig struct {
	MaxRate      float64       `yaml:"max_rate"`
	ReportWindow time.Duration `yaml:"report_window"`
	JoinTimeout  time.Duration `yaml:"join_timeout"`
	// Listen is the address for the Prometheus endpoint; empty disables it.
	Listen string `yaml:"listen"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// File defaults to $XDG_STATE_HOME/retrodesk/retrodesk.log
	File        string `yaml:"file"`
	Development bool   `yaml:"development"`
}

// Config is the effective configuration.
type Config struct {
	Desktop   DesktopConfig   `yaml:"desktop"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Desktop: DesktopConfig{
			Wallpaper: true,
			Icons:     true,
			Terminal:  Geometry{X: 12, Y: 3, Width: 64, Height: 16},
			About:     Geometry{X: 20, Y: 6, Width: 40, Height: 8},
		},
		Terminal: TerminalConfig{
			Prompt:   termbuf.DefaultPrompt,
			Clamp:    termbuf.ClampToEnd.String(),
			MaxLines: 500,
			Banner:   []string{"webOS 95 Terminal", "Type 'help' for commands."},
		},
		Scheduler: SchedulerConfig{
			FastInterval: 16 * time.Millisecond,
			SlowInterval: 250 * time.Millisecond,
			ClockLayout:  "15:04:05",
		},
		Metrics: MetricsConfig{
			MaxRate:      600,
			ReportWindow: 250 * time.Millisecond,
			JoinTimeout:  time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ClampMode returns the parsed terminal clamp mode.
func (c *Config) ClampMode() termbuf.ClampMode {
	mode, _ := termbuf.ParseClampMode(c.Terminal.Clamp)
	return mode
}

// LogFile returns the log file path, falling back to the state directory.
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return expandHome(c.Logging.File)
	}
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "retrodesk", "retrodesk.log")
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	windows := []struct {
		path string
		g    Geometry
	}{
		{"desktop.terminal", c.Desktop.Terminal},
		{"desktop.about", c.Desktop.About},
	}
	for _, w := range windows {
		if w.g.Width < 8 || w.g.Height < 3 {
			return &ValidationError{Path: w.path, Err: fmt.Errorf("window must be at least 8x3 cells")}
		}
		if w.g.X < 0 || w.g.Y < 0 {
			return &ValidationError{Path: w.path, Err: fmt.Errorf("position must be >= 0")}
		}
	}
	if strings.ContainsAny(c.Terminal.Prompt, "\r\n") {
		return &ValidationError{Path: "terminal.prompt", Err: fmt.Errorf("prompt must be a single line")}
	}
	if _, ok := termbuf.ParseClampMode(c.Terminal.Clamp); !ok {
		return &ValidationError{Path: "terminal.clamp", Err: fmt.Errorf("clamp must be one of: end, input_start")}
	}
	if c.Terminal.MaxLines < 0 {
		return &ValidationError{Path: "terminal.max_lines", Err: fmt.Errorf("max_lines must be >= 0")}
	}
	if c.Scheduler.FastInterval <= 0 {
		return &ValidationError{Path: "scheduler.fast_interval", Err: fmt.Errorf("fast_interval must be > 0")}
	}
	if c.Scheduler.SlowInterval < c.Scheduler.FastInterval {
		return &ValidationError{Path: "scheduler.slow_interval", Err: fmt.Errorf("slow_interval must be >= fast_interval")}
	}
	if strings.TrimSpace(c.Scheduler.ClockLayout) == "" {
		return &ValidationError{Path: "scheduler.clock_layout", Err: fmt.Errorf("clock_layout is required")}
	}
	if c.Metrics.MaxRate <= 0 {
		return &ValidationError{Path: "metrics.max_rate", Err: fmt.Errorf("max_rate must be > 0")}
	}
	if c.Metrics.ReportWindow <= 0 {
		return &ValidationError{Path: "metrics.report_window", Err: fmt.Errorf("report_window must be > 0")}
	}
	if c.Metrics.JoinTimeout <= 0 {
		return &ValidationError{Path: "metrics.join_timeout", Err: fmt.Errorf("join_timeout must be > 0")}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	return nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
