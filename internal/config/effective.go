package config

import "fmt"

// ValidationError ties a config problem to its YAML path and, when known,
// the file position that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv && e.Source.Name != "" {
		return fmt.Sprintf("%s (from %s): %v", e.Path, e.Source.Name, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if d := raw.Desktop; d != nil {
		setIfPresent(&cfg.Desktop.Wallpaper, d.Wallpaper)
		setIfPresent(&cfg.Desktop.Icons, d.Icons)
		d.Terminal.applyTo(&cfg.Desktop.Terminal)
		d.About.applyTo(&cfg.Desktop.About)
	}
	if t := raw.Terminal; t != nil {
		setIfPresent(&cfg.Terminal.Prompt, t.Prompt)
		setIfPresent(&cfg.Terminal.Clamp, t.Clamp)
		setIfPresent(&cfg.Terminal.MaxLines, t.MaxLines)
		if t.Banner != nil {
			cfg.Terminal.Banner = append([]string(nil), t.Banner...)
		}
	}
	if s := raw.Scheduler; s != nil {
		setIfPresent(&cfg.Scheduler.FastInterval, s.FastInterval)
		setIfPresent(&cfg.Scheduler.SlowInterval, s.SlowInterval)
		setIfPresent(&cfg.Scheduler.ClockLayout, s.ClockLayout)
	}
	if m := raw.Metrics; m != nil {
		setIfPresent(&cfg.Metrics.MaxRate, m.MaxRate)
		setIfPresent(&cfg.Metrics.ReportWindow, m.ReportWindow)
		setIfPresent(&cfg.Metrics.JoinTimeout, m.JoinTimeout)
		setIfPresent(&cfg.Metrics.Listen, m.Listen)
	}
	if l := raw.Logging; l != nil {
		setIfPresent(&cfg.Logging.Level, l.Level)
		setIfPresent(&cfg.Logging.File, l.File)
		setIfPresent(&cfg.Logging.Development, l.Development)
	}
	return cfg
}
