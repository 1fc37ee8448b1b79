package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter mirrors producer samples into Prometheus collectors.
type Exporter struct {
	registry *prometheus.Registry

	// Producer metrics
	Rate          prometheus.Gauge
	SamplesTotal  prometheus.Counter
	WindowSeconds prometheus.Histogram

	// UI metrics
	UIFramesTotal prometheus.Counter
}

// NewExporter registers the collectors on a fresh registry. ch may be nil;
// when set, its publish and overwrite counts are exported too.
func NewExporter(ch *Channel) *Exporter {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	e := &Exporter{
		registry: reg,
		Rate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "retrodesk_producer_rate_hz",
			Help: "Most recent producer tick rate estimate",
		}),
		SamplesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "retrodesk_producer_samples_total",
			Help: "Total number of rate samples observed",
		}),
		WindowSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "retrodesk_producer_window_seconds",
			Help:    "Measured length of each reporting window",
			Buckets: []float64{.1, .2, .25, .3, .5, 1, 2},
		}),
		UIFramesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "retrodesk_ui_frames_total",
			Help: "Total number of fast ticks that produced a redraw",
		}),
	}

	if ch != nil {
		factory.NewCounterFunc(prometheus.CounterOpts{
			Name: "retrodesk_channel_published_total",
			Help: "Total number of samples published to the UI slot",
		}, func() float64 { return float64(ch.Published()) })
		factory.NewCounterFunc(prometheus.CounterOpts{
			Name: "retrodesk_channel_overwritten_total",
			Help: "Total number of samples replaced before the UI drained them",
		}, func() float64 { return float64(ch.Overwritten()) })
	}
	return e
}

// ObserveSample implements Observer.
func (e *Exporter) ObserveSample(s Sample) {
	e.Rate.Set(s.Rate)
	e.SamplesTotal.Inc()
	e.WindowSeconds.Observe(s.Window.Seconds())
}

// ObserveFrame counts one redrawn UI frame.
func (e *Exporter) ObserveFrame() {
	e.UIFramesTotal.Inc()
}

// Registry returns the registry holding the exporter's collectors.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
