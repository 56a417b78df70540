package testingx

import (
	"sync"
	"time"
)

// SteppingClock is a deterministic replacement for time.Now where each
// call returns a moment Step after the previous one. The first call
// returns Start, or the current time if Start is zero.
//
// It's safe to use this struct from multiple goroutine contexts.
type SteppingClock struct {
	// Start is the first moment returned by Now.
	Start time.Time

	// Step is the distance between consecutive moments. Zero means
	// one second.
	Step time.Duration

	mu    sync.Mutex
	calls int
}

// Now is like time.Now but deterministic.
func (c *SteppingClock) Now() time.Time {
	defer c.mu.Unlock()
	c.mu.Lock()
	if c.Start.IsZero() {
		c.Start = time.Now()
	}
	step := c.Step
	if step <= 0 {
		step = time.Second
	}
	res := c.Start.Add(time.Duration(c.calls) * step)
	c.calls++
	return res
}
