// Package clock abstracts the time operations used by the review poll loop
// so that tests can drive it without real sleeps.
package clock

import (
	"sync"
	"time"
)

// Clock is the subset of the time package the monitor depends on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once d has
	// elapsed. If d <= 0 the channel receives immediately.
	After(d time.Duration) <-chan time.Time
}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// FakeClock is a deterministic Clock. Every After call advances the fake
// time by d and fires at once, so a loop that waits N times completes
// instantly with Now() reflecting the sum of all waits.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waits   []time.Duration
}

// Fake returns a FakeClock starting at initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After advances the clock by d and returns a channel that already holds
// the new time.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d > 0 {
		c.current = c.current.Add(d)
	}
	c.waits = append(c.waits, d)

	channel := make(chan time.Time, 1)
	channel <- c.current
	return channel
}

// Waits returns every duration passed to After, in call order.
func (c *FakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

// Elapsed returns the total fake time waited since creation.
func (c *FakeClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total time.Duration
	for _, d := range c.waits {
		if d > 0 {
			total += d
		}
	}
	return total
}
