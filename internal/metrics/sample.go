// Package metrics estimates frame rate on a background goroutine and hands the
// estimate to the UI through a latest-wins slot.
//
// The producer never blocks on the consumer and the consumer never blocks on
// the producer. The UI drains whatever sample is pending once per fast tick.
package metrics

import "time"

// Sample is one rate report covering a single reporting window.
type Sample struct {
	Timestamp time.Time
	Rate      float64 // ticks per second over Window
	Frames    int
	Window    time.Duration
}

// RoundedRate returns the rate rounded to the nearest whole tick, as shown in the taskbar.
func (s Sample) RoundedRate() int {
	return int(s.Rate + 0.5)
}
