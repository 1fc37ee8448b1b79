package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/retrodesk/internal/commands"
	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/logging"
	"github.com/1broseidon/retrodesk/internal/metrics"
	"github.com/1broseidon/retrodesk/internal/runtimepath"
	"github.com/1broseidon/retrodesk/internal/shell"
	"github.com/1broseidon/retrodesk/internal/tui"
)

// desktop is the wired core: scheduler, command handler and the metrics
// pipeline feeding it.
type desktop struct {
	cfg      *config.Config
	logger   *zap.Logger
	samples  *metrics.Channel
	board    *shell.Board
	sched    *shell.Scheduler
	producer *metrics.Producer
	exporter *metrics.Exporter
}

func newDesktop(cfg *config.Config, logger *zap.Logger) *desktop {
	d := &desktop{
		cfg:     cfg,
		logger:  logger,
		samples: &metrics.Channel{},
		board:   &shell.Board{},
	}
	if cfg.Metrics.Listen != "" {
		d.exporter = metrics.NewExporter(d.samples)
	}

	handler := commands.NewHandler(commands.Options{Logger: logger.Named("commands")})
	schedCfg := shell.Config{
		FastInterval:   cfg.Scheduler.FastInterval,
		SlowInterval:   cfg.Scheduler.SlowInterval,
		ClockLayout:    cfg.Scheduler.ClockLayout,
		TerminalBounds: cfg.Desktop.Terminal.Rect(),
		AboutBounds:    cfg.Desktop.About.Rect(),
		Prompt:         cfg.Terminal.Prompt,
		Banner:         cfg.Terminal.Banner,
		Clamp:          cfg.ClampMode(),
		MaxLines:       cfg.Terminal.MaxLines,
		Handler:        handler,
		Board:          d.board,
		Logger:         logger.Named("shell"),
	}
	prodCfg := metrics.ProducerConfig{
		MaxRate:      cfg.Metrics.MaxRate,
		ReportWindow: cfg.Metrics.ReportWindow,
		Logger:       logger.Named("producer"),
	}
	if d.exporter != nil {
		schedCfg.OnFrame = func(*shell.Snapshot) { d.exporter.ObserveFrame() }
		prodCfg.Observer = d.exporter
	}

	d.sched = shell.New(schedCfg, d.samples)
	handler.SetOnClear(d.sched.ClearTerminal)
	d.producer = metrics.NewProducer(prodCfg, d.samples)
	return d
}

// serveMetrics starts the Prometheus endpoint. The returned server is nil
// when metrics are disabled.
func (d *desktop) serveMetrics() *http.Server {
	if d.exporter == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.exporter.Handler())
	srv := &http.Server{
		Addr:              d.cfg.Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Warn("metrics endpoint stopped", zap.Error(err))
		}
	}()
	d.logger.Info("metrics endpoint listening", zap.String("addr", srv.Addr))
	return srv
}

// stopProducer stops the producer within the configured join timeout.
func (d *desktop) stopProducer(r *metrics.Runner) error {
	if err := r.Stop(d.cfg.Metrics.JoinTimeout); err != nil {
		d.logger.Error("metrics producer shutdown", zap.Error(err))
		return err
	}
	d.logger.Info("metrics producer stopped",
		zap.Uint64("published", d.samples.Published()),
		zap.Uint64("overwritten", d.samples.Overwritten()))
	return nil
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func newLogger(cfg *config.Config) (*zap.Logger, string, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		File:        cfg.LogFile(),
	})
	if err != nil {
		return nil, "", err
	}
	logger, session := logging.WithSession(logger)
	return logger, session, nil
}

func runDesktop(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/retrodesk/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: retrodesk run [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the desktop in this terminal.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  F1        Start menu")
		fmt.Fprintln(os.Stderr, "  Ctrl+T    Open terminal")
		fmt.Fprintln(os.Stderr, "  F2        About")
		fmt.Fprintln(os.Stderr, "  Ctrl+W    Close focused window")
		fmt.Fprintln(os.Stderr, "  Ctrl+C    Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	logger, session, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()
	logger.Info("retrodesk starting", zap.String("config", res.File), zap.Int("pid", os.Getpid()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := newDesktop(cfg, logger)
	runner := metrics.Start(ctx, d.producer)

	if srv := d.serveMetrics(); srv != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if socketPath, err := runtimepath.SocketPath(); err != nil {
		logger.Warn("status socket disabled", zap.Error(err))
	} else if ipcServer, err := ipc.NewServer(ipc.ServerConfig{
		SocketPath: socketPath,
		Snapshots:  d.board,
		Session:    session,
		Logger:     logger.Named("ipc"),
	}); err != nil {
		logger.Warn("status socket disabled", zap.Error(err))
	} else if err := ipcServer.Start(); err != nil {
		logger.Warn("status socket disabled", zap.Error(err))
	} else {
		defer ipcServer.Stop()
	}

	uiErr := tui.Run(ctx, tui.Options{
		Scheduler: d.sched,
		Wallpaper: cfg.Desktop.Wallpaper,
		Icons:     cfg.Desktop.Icons,
		Logger:    logger.Named("tui"),
	})
	stop()

	code := 0
	if uiErr != nil {
		logger.Error("desktop exited with error", zap.Error(uiErr))
		fmt.Fprintln(os.Stderr, uiErr)
		code = 1
	}
	if err := d.stopProducer(runner); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	logger.Info("retrodesk stopped", zap.Uint64("frames", d.sched.Frames()))
	return code
}
