package config

import "time"

// The Raw types mirror the YAML file. Pointer fields distinguish "absent"
// from a zero value so absent keys keep their defaults.

type RawGeometry struct {
	X      *int `yaml:"x"`
	Y      *int `yaml:"y"`
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawDesktop struct {
	Wallpaper *bool        `yaml:"wallpaper"`
	Icons     *bool        `yaml:"icons"`
	Terminal  *RawGeometry `yaml:"terminal"`
	About     *RawGeometry `yaml:"about"`
}

type RawTerminal struct {
	Prompt   *string  `yaml:"prompt"`
	Clamp    *string  `yaml:"clamp"`
	MaxLines *int     `yaml:"max_lines"`
	Banner   []string `yaml:"banner"`
}

type RawScheduler struct {
	FastInterval *time.Duration `yaml:"fast_interval"`
	SlowInterval *time.Duration `yaml:"slow_interval"`
	ClockLayout  *string        `yaml:"clock_layout"`
}

type RawMetrics struct {
	MaxRate      *float64       `yaml:"max_rate"`
	ReportWindow *time.Duration `yaml:"report_window"`
	JoinTimeout  *time.Duration `yaml:"join_timeout"`
	Listen       *string        `yaml:"listen"`
}

type RawLogging struct {
	Level       *string `yaml:"level"`
	File        *string `yaml:"file"`
	Development *bool   `yaml:"development"`
}

// RawConfig is the file as written.
type RawConfig struct {
	Desktop   *RawDesktop   `yaml:"desktop"`
	Terminal  *RawTerminal  `yaml:"terminal"`
	Scheduler *RawScheduler `yaml:"scheduler"`
	Metrics   *RawMetrics   `yaml:"metrics"`
	Logging   *RawLogging   `yaml:"logging"`
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (g *RawGeometry) applyTo(dst *Geometry) {
	if g == nil {
		return
	}
	setIfPresent(&dst.X, g.X)
	setIfPresent(&dst.Y, g.Y)
	setIfPresent(&dst.Width, g.Width)
	setIfPresent(&dst.Height, g.Height)
}
