package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. RETRODESK_LOG_LEVEL.
const EnvPrefix = "RETRODESK"

type envOverrides struct {
	LogLevel      *string        `envconfig:"LOG_LEVEL"`
	LogFile       *string        `envconfig:"LOG_FILE"`
	MaxRate       *float64       `envconfig:"MAX_RATE"`
	ReportWindow  *time.Duration `envconfig:"REPORT_WINDOW"`
	MetricsListen *string        `envconfig:"METRICS_LISTEN"`
	Clamp         *string        `envconfig:"CLAMP"`
}

// applyEnv overlays environment overrides on cfg and records their sources.
func applyEnv(cfg *Config, sources map[string]Source) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	set := func(path, name string) {
		sources[path] = Source{Kind: SourceEnv, Name: EnvPrefix + "_" + name}
	}
	if env.LogLevel != nil {
		cfg.Logging.Level = *env.LogLevel
		set("logging.level", "LOG_LEVEL")
	}
	if env.LogFile != nil {
		cfg.Logging.File = *env.LogFile
		set("logging.file", "LOG_FILE")
	}
	if env.MaxRate != nil {
		cfg.Metrics.MaxRate = *env.MaxRate
		set("metrics.max_rate", "MAX_RATE")
	}
	if env.ReportWindow != nil {
		cfg.Metrics.ReportWindow = *env.ReportWindow
		set("metrics.report_window", "REPORT_WINDOW")
	}
	if env.MetricsListen != nil {
		cfg.Metrics.Listen = *env.MetricsListen
		set("metrics.listen", "METRICS_LISTEN")
	}
	if env.Clamp != nil {
		cfg.Terminal.Clamp = *env.Clamp
		set("terminal.clamp", "CLAMP")
	}
	return nil
}
