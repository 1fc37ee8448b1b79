package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/retrodesk/internal/metrics"
	"github.com/1broseidon/retrodesk/internal/shell"
)

// headless runs the producer and scheduler without a display, printing each
// rate the scheduler drains, until ctx is done.
func headless(ctx context.Context, d *desktop, w io.Writer) error {
	runner := metrics.Start(ctx, d.producer)

	cfg := shell.Config{
		FastInterval: d.cfg.Scheduler.FastInterval,
		SlowInterval: d.cfg.Scheduler.SlowInterval,
		ClockLayout:  d.cfg.Scheduler.ClockLayout,
		OnSample: func(s metrics.Sample) {
			fmt.Fprintf(w, "FPS: %d (%d frames in %s)\n", s.RoundedRate(), s.Frames, s.Window.Round(time.Millisecond))
		},
		Board:  d.board,
		Logger: d.logger.Named("shell"),
	}
	if d.exporter != nil {
		cfg.OnFrame = func(*shell.Snapshot) { d.exporter.ObserveFrame() }
	}
	sched := shell.New(cfg, d.samples)

	runErr := sched.Run(ctx, nil)
	if err := d.stopProducer(runner); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return runErr
}

func runFPS(args []string) int {
	fs := flag.NewFlagSet("fps", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/retrodesk/config.yaml)")
	duration := fs.Duration("duration", 0, "Stop after this long (default: until Ctrl+C)")
	maxRate := fs.Float64("max-rate", 0, "Override metrics.max_rate")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: retrodesk fps [--path PATH] [--duration D] [--max-rate N]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the frame timer without a display and print each rate sample.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *duration < 0 || *maxRate < 0 {
		fmt.Fprintln(os.Stderr, "--duration and --max-rate must be >= 0")
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *maxRate > 0 {
		cfg.Metrics.MaxRate = *maxRate
	}

	logger, _, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	d := newDesktop(cfg, logger)
	if srv := d.serveMetrics(); srv != nil {
		defer srv.Close()
	}

	logger.Info("headless frame timer started", zap.Float64("max_rate", cfg.Metrics.MaxRate))
	if err := headless(ctx, d, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
