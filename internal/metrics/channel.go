package metrics

import "sync/atomic"

// Channel is a single-slot handoff where a new sample replaces any unread one.
// The zero value is ready to use and is safe for concurrent use.
type Channel struct {
	slot        atomic.Pointer[Sample]
	published   atomic.Uint64
	overwritten atomic.Uint64
}

// Publish stores s, discarding any sample that was never drained. It never blocks.
func (c *Channel) Publish(s Sample) {
	if prev := c.slot.Swap(&s); prev != nil {
		c.overwritten.Add(1)
	}
	c.published.Add(1)
}

// DrainLatest takes the pending sample and empties the slot. It reports
// false when nothing was published since the last drain.
func (c *Channel) DrainLatest() (Sample, bool) {
	p := c.slot.Swap(nil)
	if p == nil {
		return Sample{}, false
	}
	return *p, true
}

// Published returns how many samples were ever published.
func (c *Channel) Published() uint64 {
	return c.published.Load()
}

// Overwritten returns how many samples were replaced before being drained.
func (c *Channel) Overwritten() uint64 {
	return c.overwritten.Load()
}
