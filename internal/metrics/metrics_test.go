package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// stepWaiter advances the clock by step on every tick and cancels after limit ticks.
type stepWaiter struct {
	clock  *mockClock
	step   time.Duration
	limit  int
	calls  int
	cancel context.CancelFunc
}

func (w *stepWaiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.calls++
	if w.calls > w.limit {
		w.cancel()
		return ctx.Err()
	}
	w.clock.Advance(w.step)
	return nil
}

type recorder struct {
	samples []Sample
}

func (r *recorder) ObserveSample(s Sample) {
	r.samples = append(r.samples, s)
}

func TestChannelLatestWins(t *testing.T) {
	var ch Channel
	for i := 1; i <= 3; i++ {
		ch.Publish(Sample{Frames: i})
	}

	s, ok := ch.DrainLatest()
	require.True(t, ok)
	assert.Equal(t, 3, s.Frames)

	_, ok = ch.DrainLatest()
	assert.False(t, ok)
	assert.Equal(t, uint64(3), ch.Published())
	assert.Equal(t, uint64(2), ch.Overwritten())
}

func TestChannelEmptyDrain(t *testing.T) {
	var ch Channel
	_, ok := ch.DrainLatest()
	assert.False(t, ok)
}

func TestChannelFivePublishesOneDrain(t *testing.T) {
	var ch Channel
	for i := 1; i <= 5; i++ {
		ch.Publish(Sample{Rate: float64(i * 100)})
	}
	s, ok := ch.DrainLatest()
	require.True(t, ok)
	assert.Equal(t, 500.0, s.Rate)

	_, ok = ch.DrainLatest()
	assert.False(t, ok)
}

func TestChannelConcurrentDrainsNeverRepeat(t *testing.T) {
	var ch Channel
	const total = 20000

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= total; i++ {
			ch.Publish(Sample{Frames: i})
		}
	}()

	last := 0
	drain := func() {
		if s, ok := ch.DrainLatest(); ok {
			require.Greater(t, s.Frames, last)
			last = s.Frames
		}
	}
	for {
		select {
		case <-done:
			drain()
			assert.Equal(t, total, last)
			return
		default:
			drain()
		}
	}
}

func TestProducerComputesRatePerWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newMockClock()
	rec := &recorder{}
	var ch Channel
	p := NewProducer(ProducerConfig{
		ReportWindow: 250 * time.Millisecond,
		Clock:        clock,
		Waiter:       &stepWaiter{clock: clock, step: 10 * time.Millisecond, limit: 100, cancel: cancel},
		Observer:     rec,
	}, &ch)

	require.NoError(t, p.Run(ctx))

	require.Len(t, rec.samples, 4)
	for _, s := range rec.samples {
		assert.Equal(t, 25, s.Frames)
		assert.Equal(t, 250*time.Millisecond, s.Window)
		assert.InDelta(t, 100.0, s.Rate, 1e-9)
	}
	assert.Equal(t, uint64(4), ch.Published())

	s, ok := ch.DrainLatest()
	require.True(t, ok)
	assert.Equal(t, rec.samples[3], s)
	assert.Equal(t, 100, s.RoundedRate())
}

func TestProducerStopsBeforeFirstTickWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	clock := newMockClock()
	w := &stepWaiter{clock: clock, step: time.Millisecond, limit: 10, cancel: cancel}
	var ch Channel
	p := NewProducer(ProducerConfig{Clock: clock, Waiter: w}, &ch)

	require.NoError(t, p.Run(ctx))
	assert.Zero(t, w.calls)
	assert.Zero(t, ch.Published())
}

type failingWaiter struct{ err error }

func (w failingWaiter) Wait(context.Context) error { return w.err }

func TestProducerReportsWaiterFailure(t *testing.T) {
	boom := errors.New("boom")
	var ch Channel
	p := NewProducer(ProducerConfig{Waiter: failingWaiter{err: boom}}, &ch)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRunnerStopsWithinOneTick(t *testing.T) {
	var ch Channel
	// One tick per second: the second wait would block for about a second.
	p := NewProducer(ProducerConfig{MaxRate: 1, ReportWindow: time.Hour}, &ch)
	r := Start(context.Background(), p)

	time.Sleep(20 * time.Millisecond)
	start := time.Now()
	require.NoError(t, r.Stop(500*time.Millisecond))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	select {
	case <-r.Done():
	default:
		t.Fatal("runner not done after Stop")
	}
}

func TestRunnerPublishesWithRealLimiter(t *testing.T) {
	var ch Channel
	p := NewProducer(ProducerConfig{MaxRate: 2000, ReportWindow: 10 * time.Millisecond}, &ch)
	r := Start(context.Background(), p)

	require.Eventually(t, func() bool { return ch.Published() > 0 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, r.Stop(time.Second))

	s, ok := ch.DrainLatest()
	require.True(t, ok)
	assert.Greater(t, s.Rate, 0.0)
}

type stuckWaiter struct{ release chan struct{} }

func (w stuckWaiter) Wait(context.Context) error {
	<-w.release
	return nil
}

func TestRunnerStopReportsJoinTimeout(t *testing.T) {
	w := stuckWaiter{release: make(chan struct{})}
	var ch Channel
	r := Start(context.Background(), NewProducer(ProducerConfig{Waiter: w}, &ch))

	err := r.Stop(20 * time.Millisecond)
	assert.ErrorIs(t, err, ErrJoinTimeout)

	close(w.release)
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not exit after release")
	}
}

func TestExporterServesSamples(t *testing.T) {
	var ch Channel
	e := NewExporter(&ch)

	ch.Publish(Sample{Rate: 1})
	ch.Publish(Sample{Rate: 2})
	e.ObserveSample(Sample{Rate: 598.5, Frames: 150, Window: 250 * time.Millisecond})
	e.ObserveFrame()

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "retrodesk_producer_rate_hz 598.5")
	assert.Contains(t, text, "retrodesk_producer_samples_total 1")
	assert.Contains(t, text, "retrodesk_ui_frames_total 1")
	assert.Contains(t, text, "retrodesk_channel_published_total 2")
	assert.Contains(t, text, "retrodesk_channel_overwritten_total 1")
}
