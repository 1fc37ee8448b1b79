package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultMaxRate caps producer ticks per second.
	DefaultMaxRate = 600
	// DefaultReportWindow is how much elapsed time each sample covers.
	DefaultReportWindow = 250 * time.Millisecond
)

// ErrJoinTimeout is returned by Runner.Stop when the producer goroutine does
// not exit within the allowed time.
var ErrJoinTimeout = errors.New("metrics: producer did not stop in time")

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Waiter blocks until the next tick is allowed or ctx is done.
// *rate.Limiter satisfies it.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Observer receives every published sample on the producer goroutine.
type Observer interface {
	ObserveSample(Sample)
}

// ProducerConfig holds configuration for the producer.
type ProducerConfig struct {
	MaxRate      float64
	ReportWindow time.Duration
	Clock        Clock
	Waiter       Waiter
	Observer     Observer
	Logger       *zap.Logger
}

// NewLimiter returns a limiter allowing maxRate ticks per second with no burst.
func NewLimiter(maxRate float64) *rate.Limiter {
	if maxRate <= 0 {
		maxRate = DefaultMaxRate
	}
	return rate.NewLimiter(rate.Limit(maxRate), 1)
}

// Producer is the free-running tick loop that measures its own rate.
type Producer struct {
	window   time.Duration
	clock    Clock
	waiter   Waiter
	observer Observer
	out      *Channel
	logger   *zap.Logger
}

// NewProducer creates a producer that publishes to out.
func NewProducer(cfg ProducerConfig, out *Channel) *Producer {
	p := &Producer{
		window:   cfg.ReportWindow,
		clock:    cfg.Clock,
		waiter:   cfg.Waiter,
		observer: cfg.Observer,
		out:      out,
		logger:   cfg.Logger,
	}
	if p.window <= 0 {
		p.window = DefaultReportWindow
	}
	if p.clock == nil {
		p.clock = systemClock{}
	}
	if p.waiter == nil {
		p.waiter = NewLimiter(cfg.MaxRate)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// Run ticks until ctx is cancelled. Cancellation is checked once per tick
// and also interrupts the tick wait. It returns nil on cancellation and an
// error only if the waiter fails for another reason.
func (p *Producer) Run(ctx context.Context) error {
	p.logger.Info("metrics producer started", zap.Duration("window", p.window))

	last := p.clock.Now()
	frames := 0
	var elapsed time.Duration

	for {
		if ctx.Err() != nil {
			p.logger.Info("metrics producer stopped")
			return nil
		}
		if err := p.waiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("metrics producer stopped")
				return nil
			}
			return fmt.Errorf("metrics: tick wait: %w", err)
		}

		now := p.clock.Now()
		elapsed += now.Sub(last)
		last = now
		frames++

		if elapsed < p.window {
			continue
		}
		s := Sample{
			Timestamp: now,
			Rate:      float64(frames) / elapsed.Seconds(),
			Frames:    frames,
			Window:    elapsed,
		}
		p.out.Publish(s)
		if p.observer != nil {
			p.observer.ObserveSample(s)
		}
		frames = 0
		elapsed = 0
	}
}

// Runner is a producer running on its own goroutine.
type Runner struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start runs p on a new goroutine under a child of ctx.
func Start(ctx context.Context, p *Producer) *Runner {
	ctx, cancel := context.WithCancel(ctx)
	r := &Runner{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(r.done)
		r.err = p.Run(ctx)
	}()
	return r
}

// Done is closed once the producer goroutine has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Stop cancels the producer and waits up to timeout for it to exit. A
// missed deadline returns ErrJoinTimeout and leaves the goroutine to finish
// on its own.
func (r *Runner) Stop(timeout time.Duration) error {
	r.cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-r.done:
		return r.err
	case <-timer.C:
		return ErrJoinTimeout
	}
}
