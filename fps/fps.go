// Package fps measures the rate at which frames are rendered.
//
// A Counter is fed once per frame. It recomputes the rate only when the
// configured interval has elapsed since the last recomputation and returns
// the previous value in between, so the reading is stable while animating.
package fps

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Clock returns a monotonically non-decreasing millisecond tick. It may wrap
// around; elapsed times are computed with unsigned arithmetic.
type Clock func() uint32

// SystemClock returns a Clock counting milliseconds since the call.
func SystemClock() Clock {
	start := time.Now()
	return func() uint32 {
		return uint32(time.Since(start).Milliseconds())
	}
}

// Counter is a sliding frame rate counter. It is not safe for concurrent
// use.
type Counter struct {
	clock    Clock
	interval uint32
	last     uint32
	frames   uint32
	fps      float64
}

// NewCounter returns a Counter sampling clock and recomputing the rate every
// interval milliseconds. An interval of 0 recomputes on every frame that
// advances the clock.
func NewCounter(clock Clock, interval uint32) *Counter {
	if clock == nil {
		clock = SystemClock()
	}
	return &Counter{clock: clock, interval: interval, last: clock()}
}

// Update records one frame and returns the current rate in frames per
// second.
func (c *Counter) Update() float64 {
	c.frames++
	now := c.clock()
	elapsed := now - c.last
	if elapsed >= c.interval && elapsed > 0 {
		c.fps = float64(c.frames) * 1000 / float64(elapsed)
		c.frames = 0
		c.last = now
	}
	return c.fps
}

// FPS returns the last computed rate without recording a frame.
func (c *Counter) FPS() float64 {
	return c.fps
}

// Frequency returns the last computed rate.
func (c *Counter) Frequency() physic.Frequency {
	return physic.Frequency(c.fps * float64(physic.Hertz))
}

// Reset drops the frame tally and restarts the interval from now. The last
// computed rate is kept.
func (c *Counter) Reset() {
	c.frames = 0
	c.last = c.clock()
}

func (c *Counter) String() string {
	return fmt.Sprintf("fps.Counter{%.1f}", c.fps)
}
