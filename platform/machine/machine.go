//go:build tinygo

// Package machine adapts a TinyGo machine.Pin to the buttonswitch.Pin
// interface for microcontroller targets.
package machine

import (
	"machine"

	"github.com/GabyGold67/buttontoswitch-go"
)

// Pin wraps a machine.Pin as a buttonswitch.Pin.
type Pin struct {
	pin machine.Pin
}

// New returns a buttonswitch.Pin backed by the given TinyGo machine.Pin.
func New(p machine.Pin) *Pin {
	return &Pin{pin: p}
}

// Init configures the pin as a digital input with the requested pull
// direction.
func (p *Pin) Init(pulledUp bool) error {
	mode := machine.PinInputPulldown
	if pulledUp {
		mode = machine.PinInputPullup
	}
	p.pin.Configure(machine.PinConfig{Mode: mode})
	return nil
}

// Read returns the raw electrical level of the pin.
func (p *Pin) Read() bool {
	return p.pin.Get()
}

var _ buttonswitch.Pin = (*Pin)(nil)
