// Package simulated provides a software Pin and Clock for tests and example
// programs that do not have real GPIO hardware attached.
package simulated

import "sync"

// Pin is a software-settable buttonswitch.Pin: tests and example programs
// call Set to script a press/release trace.
type Pin struct {
	mu  sync.Mutex
	raw bool
}

// Init is a no-op; Pin has no electrical pull direction to configure.
func (p *Pin) Init(pulledUp bool) error { return nil }

// Read returns the last value given to Set.
func (p *Pin) Read() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.raw
}

// Set drives the simulated raw electrical level.
func (p *Pin) Set(v bool) {
	p.mu.Lock()
	p.raw = v
	p.mu.Unlock()
}

// Clock is a software-advanceable buttonswitch.Clock for deterministic
// tick-by-tick tests.
type Clock struct {
	mu  sync.Mutex
	now uint64
}

// NowMs returns the current simulated millisecond counter.
func (c *Clock) NowMs() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the simulated clock forward by ms milliseconds.
func (c *Clock) Advance(ms uint64) {
	c.mu.Lock()
	c.now += ms
	c.mu.Unlock()
}
