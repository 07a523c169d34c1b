package buttonswitch

import "time"

// baseState is the five-state plain-debounce FSA.
type baseState uint8

const (
	stOffNotVPP baseState = iota
	stOffVPP
	stOn
	stOnVRP
	stDisabled
)

func (s baseState) String() string {
	switch s {
	case stOffNotVPP:
		return "OffNotVPP"
	case stOffVPP:
		return "OffVPP"
	case stOn:
		return "On"
	case stOnVRP:
		return "OnVRP"
	case stDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// Debounced is the plain momentary switch: the simplest variant, exposing
// only IsOn/IsEnabled/IsPressed.
type Debounced struct {
	*Button
	state baseState
}

// NewDebounced constructs a plain debounced momentary switch.
func NewDebounced(pin Pin, clock Clock, cfg Config) (*Debounced, error) {
	b := &Button{}
	if err := initCommon(b, pin, clock, cfg); err != nil {
		return nil, err
	}
	return &Debounced{Button: b, state: stOffNotVPP}, nil
}

// Begin starts the periodic callback driving this instance.
func (d *Debounced) Begin(pollMs uint32) bool {
	return d.begin(pollDuration(pollMs), d.Tick)
}

// Resume restarts the callback after Pause, first resetting the FSA so a
// press already in progress across the pause doesn't fabricate a spurious
// valid press on resume.
func (d *Debounced) Resume(pollMs uint32) bool {
	d.resetFda()
	return d.begin(pollDuration(pollMs), d.Tick)
}

// pollDuration converts a poll period expressed in milliseconds (0 meaning
// StdPollDelay) into a time.Duration.
func pollDuration(pollMs uint32) time.Duration {
	if pollMs == 0 {
		return StdPollDelay
	}
	return time.Duration(pollMs) * time.Millisecond
}

func (d *Debounced) resetFda() {
	d.mu.Lock()
	d.dbnc.reset()
	d.state = stOffNotVPP
	d.mu.Unlock()
}

// Tick is the per-tick orchestrator, run from the scheduler callback. It
// samples, advances the FSA, and posts a notification if any output
// changed.
func (d *Debounced) Tick() {
	d.mu.Lock()
	raw := d.pin.Read()
	d.isPressed = topology(raw, d.cfg.PulledUp, d.cfg.TypeNO)
	if d.isEnabled {
		d.dbnc.sample(d.isPressed, d.clock.NowMs())
	}
	d.stepLocked()
	d.mu.Unlock()

	d.postIfChanged(func() uint32 {
		d.mu.Lock()
		defer d.mu.Unlock()
		return EncodeStatus(OutputFlags{IsOn: d.isOn, IsEnabled: d.isEnabled})
	})
}

// stepLocked advances the base FSA by one tick; mu must already be held.
// stOffVPP/stOnVRP are never entered, so DebugState never reports them: the
// edge action fires in the same tick the triggering pend flag is observed,
// so a press/release is never delayed by an extra poll beyond its debounce
// window.
func (d *Debounced) stepLocked() {
	switch d.state {
	case stOffNotVPP:
		if d.dbnc.validDisablePend {
			d.enterDisabled()
			return
		}
		if d.dbnc.validPressPend {
			d.turnOn()
			d.dbnc.clearValidPress()
			d.state = stOn
		}
	case stOn:
		if d.dbnc.validDisablePend {
			d.enterDisabled()
			return
		}
		if d.dbnc.validReleasePend {
			d.turnOff()
			d.dbnc.clearValidRelease()
			d.state = stOffNotVPP
		}
	case stDisabled:
		if d.dbnc.validEnablePend {
			d.exitDisabled()
		}
	}
}

// enterDisabled fires the Disabled entry hook.
func (d *Debounced) enterDisabled() {
	d.dbnc.clearDisable()
	if d.isOn != d.cfg.IsOnDisabled {
		if d.cfg.IsOnDisabled {
			d.turnOn()
		} else {
			d.turnOff()
		}
	}
	d.outputsChanged = true
	d.dbnc.reset()
	d.isEnabled = false
	d.state = stDisabled
}

// exitDisabled fires the Disabled exit hook: only honoured once the button
// is next observed released, so a button held through an enable can't
// immediately fire a turn-on it was never actually pressed for.
func (d *Debounced) exitDisabled() {
	if d.isPressed {
		return
	}
	if d.isOn {
		d.turnOff()
	}
	d.dbnc.clearEnable()
	d.isEnabled = true
	d.clearStatusLocked(true)
	d.state = stOffNotVPP
}

// DebugState reports the current internal FSA state name, for diagnostics
// and tests; not meant as a stable type for callers to branch on.
func (d *Debounced) DebugState() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.String()
}

func (d *Debounced) clearStatusLocked(clearIsOn bool) {
	d.dbnc.reset()
	if clearIsOn && d.isOn {
		d.isOn = false
		d.outputsChanged = true
	}
}
