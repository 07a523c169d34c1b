//go:build linux

// Package periph adapts a periph.io gpio.PinIO to the buttonswitch.Pin
// interface, giving this module a second real GPIO backend for hosts
// (Raspberry Pi and similar SBCs) that do not run under TinyGo.
package periph

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"

	"github.com/GabyGold67/buttontoswitch-go"
)

// Pin wraps a periph.io gpio.PinIO as a buttonswitch.Pin.
type Pin struct {
	io gpio.PinIO
}

// Open initializes the periph.io host drivers once and resolves pinName
// (e.g. "GPIO17") to a gpio.PinIO, wrapped as a buttonswitch.Pin.
func Open(pinName string) (*Pin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: host init: %w", err)
	}
	p := gpio.ByName(pinName)
	if p == nil {
		return nil, fmt.Errorf("periph: unknown pin %q", pinName)
	}
	return &Pin{io: p}, nil
}

// New wraps an already-resolved periph.io gpio.PinIO.
func New(io gpio.PinIO) *Pin {
	return &Pin{io: io}
}

// Init configures the pin as a digital input with the requested pull
// direction.
func (p *Pin) Init(pulledUp bool) error {
	pull := gpio.PullDown
	if pulledUp {
		pull = gpio.PullUp
	}
	return p.io.In(pull, gpio.NoEdge)
}

// Read returns the raw electrical level of the pin.
func (p *Pin) Read() bool {
	return p.io.Read() == gpio.High
}

var _ buttonswitch.Pin = (*Pin)(nil)
