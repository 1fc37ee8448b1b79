package tui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/retrodesk/internal/config"
)

// ErrWizardAborted is returned when the user cancels the config wizard.
var ErrWizardAborted = errors.New("config wizard aborted")

// wizard holds the form-bound values (strings for huh, converted on submit).
type wizard struct {
	cfg *config.Config

	fWallpaper    bool
	fIcons        bool
	fPrompt       string
	fClamp        string
	fMaxLines     string
	fFastInterval string
	fMaxRate      string
	fListen       string
	fLogLevel     string
}

func newWizard(cfg *config.Config) *wizard {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &wizard{
		cfg:           cfg,
		fWallpaper:    cfg.Desktop.Wallpaper,
		fIcons:        cfg.Desktop.Icons,
		fPrompt:       cfg.Terminal.Prompt,
		fClamp:        cfg.Terminal.Clamp,
		fMaxLines:     strconv.Itoa(cfg.Terminal.MaxLines),
		fFastInterval: cfg.Scheduler.FastInterval.String(),
		fMaxRate:      strconv.FormatFloat(cfg.Metrics.MaxRate, 'f', -1, 64),
		fListen:       cfg.Metrics.Listen,
		fLogLevel:     cfg.Logging.Level,
	}
}

func (w *wizard) form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("wallpaper").
				Title("Wallpaper").
				Description("Draw the dot pattern behind windows").
				Value(&w.fWallpaper),
			huh.NewConfirm().
				Key("icons").
				Title("Desktop Icons").
				Description("Show the My Web and Terminal icons").
				Value(&w.fIcons),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("prompt").
				Title("Prompt").
				Value(&w.fPrompt),
			huh.NewSelect[string]().
				Key("clamp").
				Title("Cursor Clamp").
				Description("Where a cursor pushed before the input goes").
				Options(
					huh.NewOption("end of input", "end"),
					huh.NewOption("start of input", "input_start"),
				).
				Value(&w.fClamp),
			huh.NewInput().
				Key("max_lines").
				Title("Scrollback Lines").
				Description("0 keeps everything").
				Validate(validateNonNegativeInt).
				Value(&w.fMaxLines),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("fast_interval").
				Title("UI Tick").
				Description("Fast tick period, e.g. 16ms").
				Validate(validatePositiveDuration).
				Value(&w.fFastInterval),
			huh.NewInput().
				Key("max_rate").
				Title("Producer Max Rate").
				Description("Ticks per second").
				Validate(validatePositiveFloat).
				Value(&w.fMaxRate),
			huh.NewInput().
				Key("listen").
				Title("Metrics Listen Address").
				Description("Empty disables the Prometheus endpoint").
				Value(&w.fListen),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&w.fLogLevel),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// apply copies the form values into the config. Inputs were validated by the form.
func (w *wizard) apply() *config.Config {
	cfg := w.cfg
	cfg.Desktop.Wallpaper = w.fWallpaper
	cfg.Desktop.Icons = w.fIcons
	if w.fPrompt != "" {
		cfg.Terminal.Prompt = w.fPrompt
	}
	cfg.Terminal.Clamp = w.fClamp
	if v, err := strconv.Atoi(w.fMaxLines); err == nil && v >= 0 {
		cfg.Terminal.MaxLines = v
	}
	if d, err := time.ParseDuration(w.fFastInterval); err == nil && d > 0 {
		cfg.Scheduler.FastInterval = d
	}
	if v, err := strconv.ParseFloat(w.fMaxRate, 64); err == nil && v > 0 {
		cfg.Metrics.MaxRate = v
	}
	cfg.Metrics.Listen = w.fListen
	cfg.Logging.Level = w.fLogLevel
	return cfg
}

// RunWizard asks for the common settings, starting from cfg (or defaults),
// and returns the edited config.
func RunWizard(cfg *config.Config) (*config.Config, error) {
	w := newWizard(cfg)
	if err := w.form().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrWizardAborted
		}
		return nil, fmt.Errorf("config wizard: %w", err)
	}
	return w.apply(), nil
}

func validateNonNegativeInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("must be a whole number >= 0")
	}
	return nil
}

func validatePositiveDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fmt.Errorf("must be a positive duration like 16ms")
	}
	return nil
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a number > 0")
	}
	return nil
}
