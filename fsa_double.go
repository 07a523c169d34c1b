package buttonswitch

import "time"

// doubleState is the eight-state double-action FSA.
type doubleState uint8

const (
	dOffNotVPP doubleState = iota
	dOffVPP
	dOnStrtScndMod
	dOnScndMod
	dOnEndScndMod
	dOnMPBRlsd
	dOnTurnOff
	dDisabled
)

func (s doubleState) String() string {
	switch s {
	case dOffNotVPP:
		return "OffNotVPP"
	case dOffVPP:
		return "OffVPP"
	case dOnStrtScndMod:
		return "OnStrtScndMod"
	case dOnScndMod:
		return "OnScndMod"
	case dOnEndScndMod:
		return "OnEndScndMod"
	case dOnMPBRlsd:
		return "OnMPBRlsd"
	case dOnTurnOff:
		return "OnTurnOff"
	case dDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// DoubleActionKind selects which secondary-mode behavior a double-action
// instance runs.
type DoubleActionKind uint8

const (
	// DelayedDoubleKind raises/clears IsOnSecondary on secondary-mode entry/exit.
	DelayedDoubleKind DoubleActionKind = iota
	// SliderDoubleKind drives a bounded integer output while in secondary mode.
	SliderDoubleKind
)

// DoubleActionConfig carries the variant-specific construction parameters
// for the double-action family.
type DoubleActionConfig struct {
	Kind                DoubleActionKind
	SecondaryModeDelay  time.Duration // must be >= MinSrvcTime
	Slider              SliderConfig  // SliderDoubleKind only
}

// SliderConfig carries the slider-specific parameters: bounds, step size,
// speed and direction.
type SliderConfig struct {
	ValMin, ValMax     int32
	CurVal             int32
	StepSize           int32
	SpeedMsPerStep     time.Duration
	DirUp              bool
	AutoSwapOnEnd      bool
	AutoSwapOnPress    bool
}

func (s SliderConfig) valid() bool {
	if s.ValMin >= s.ValMax {
		return false
	}
	if s.CurVal < s.ValMin || s.CurVal > s.ValMax {
		return false
	}
	if s.StepSize <= 0 || s.StepSize > s.ValMax-s.ValMin {
		return false
	}
	if s.SpeedMsPerStep <= 0 {
		return false
	}
	return true
}

// DoubleAction implements the eight-state double-action FSA family:
// DelayedDouble (Kind == DelayedDoubleKind) and SliderDouble
// (Kind == SliderDoubleKind).
type DoubleAction struct {
	*Button
	state doubleState
	dacfg DoubleActionConfig

	isOnSecondary bool

	slider SliderConfig

	secondaryStartSet bool
	secondaryStart    uint64
}

// NewDoubleAction constructs a double-action switch of the given kind.
func NewDoubleAction(pin Pin, clock Clock, cfg Config, dacfg DoubleActionConfig) (*DoubleAction, error) {
	if dacfg.SecondaryModeDelay < MinSrvcTime {
		return nil, ErrServiceTimeTooLow
	}
	if dacfg.Kind == SliderDoubleKind && !dacfg.Slider.valid() {
		return nil, ErrBadSliderRange
	}
	b := &Button{}
	if err := initCommon(b, pin, clock, cfg); err != nil {
		return nil, err
	}
	d := &DoubleAction{Button: b, state: dOffNotVPP, dacfg: dacfg}
	if dacfg.Kind == SliderDoubleKind {
		d.slider = dacfg.Slider
	}
	b.dbnc.secondaryModeDelay = dacfg.SecondaryModeDelay
	return d, nil
}

func (d *DoubleAction) Begin(pollMs uint32) bool { return d.begin(pollDuration(pollMs), d.Tick) }

func (d *DoubleAction) Resume(pollMs uint32) bool {
	d.resetFda()
	return d.begin(pollDuration(pollMs), d.Tick)
}

func (d *DoubleAction) resetFda() {
	d.mu.Lock()
	d.dbnc.reset()
	d.state = dOffNotVPP
	d.isOnSecondary = false
	d.mu.Unlock()
}

// GetIsOnSecondary reports the secondary-mode output (both kinds; only
// DelayedDouble also packs it into the status word).
func (d *DoubleAction) GetIsOnSecondary() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isOnSecondary
}

// GetCurOtptVal reports the slider's current output value (SliderDouble).
func (d *DoubleAction) GetCurOtptVal() int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.slider.CurVal
}

// SetOtptMin/SetOtptMax/SetOtptCurVal/SetStepSize/SetSliderSpeed validate and
// apply slider bounds; they reject violations.
func (d *DoubleAction) SetOtptMin(v int32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.slider
	c.ValMin = v
	if !c.valid() {
		return false
	}
	d.slider = c
	return true
}

func (d *DoubleAction) SetOtptMax(v int32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.slider
	c.ValMax = v
	if !c.valid() {
		return false
	}
	d.slider = c
	return true
}

func (d *DoubleAction) SetOtptCurVal(v int32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if v < d.slider.ValMin || v > d.slider.ValMax {
		return false
	}
	d.slider.CurVal = v
	d.outputsChanged = true
	return true
}

func (d *DoubleAction) SetStepSize(v int32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.slider
	c.StepSize = v
	if !c.valid() {
		return false
	}
	d.slider = c
	return true
}

func (d *DoubleAction) SetSliderSpeed(v time.Duration) bool {
	if v <= 0 {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slider.SpeedMsPerStep = v
	return true
}

func (d *DoubleAction) SetSliderDirUp()   { d.mu.Lock(); d.slider.DirUp = true; d.mu.Unlock() }
func (d *DoubleAction) SetSliderDirDown() { d.mu.Lock(); d.slider.DirUp = false; d.mu.Unlock() }
func (d *DoubleAction) SwapSliderDir() {
	d.mu.Lock()
	d.slider.DirUp = !d.slider.DirUp
	d.mu.Unlock()
}
func (d *DoubleAction) SetSwapDirOnEnd(v bool)   { d.mu.Lock(); d.dacfg.Slider.AutoSwapOnEnd = v; d.slider.AutoSwapOnEnd = v; d.mu.Unlock() }
func (d *DoubleAction) SetSwapDirOnPress(v bool) { d.mu.Lock(); d.dacfg.Slider.AutoSwapOnPress = v; d.slider.AutoSwapOnPress = v; d.mu.Unlock() }

// DebugState reports the current internal FSA state name, for diagnostics
// and tests; not meant as a stable type for callers to branch on.
func (d *DoubleAction) DebugState() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.String()
}

func (d *DoubleAction) Tick() {
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
		f := OutputFlags{IsOn: d.isOn, IsEnabled: d.isEnabled}
		if d.dacfg.Kind == DelayedDoubleKind {
			f.IsOnScndry = d.isOnSecondary
		} else {
			f.HasOtptVal = true
			f.OtptCurVal = uint16(d.slider.CurVal)
		}
		return EncodeStatus(f)
	})
}

// stepLocked advances the FSA by one tick; mu must already be held.
// dOnTurnOff is never entered, so DebugState never reports it: turn_off
// fires in the same tick the second valid press is observed.
func (d *DoubleAction) stepLocked() {
	switch d.state {
	case dOffNotVPP:
		if d.dbnc.validDisablePend {
			d.enterDisabled()
			return
		}
		if d.dbnc.validPressPend {
			d.turnOn()
			d.dbnc.clearValidPress()
			if d.dbnc.validSecondaryModePend {
				d.dbnc.clearValidSecondaryMode()
				d.state = dOnStrtScndMod
			} else if d.dbnc.validReleasePend {
				d.dbnc.clearValidRelease()
				d.state = dOnMPBRlsd
			} else {
				d.state = dOffVPP
			}
		}
	case dOffVPP:
		// turn_on already fired on the press edge; this state is re-entered
		// tick after tick until whichever of validReleasePend/
		// validSecondaryModePend arrives first decides a short toggle-press
		// from a long secondary-mode hold.
		if d.dbnc.validSecondaryModePend {
			d.dbnc.clearValidSecondaryMode()
			d.state = dOnStrtScndMod
		} else if d.dbnc.validReleasePend {
			d.dbnc.clearValidRelease()
			d.state = dOnMPBRlsd
		}
	case dOnStrtScndMod:
		d.isOnSecondary = true
		d.outputsChanged = true
		if d.dacfg.Kind == SliderDoubleKind {
			if d.dacfg.Slider.AutoSwapOnPress {
				d.slider.DirUp = !d.slider.DirUp
			}
			d.secondaryStart = d.clock.NowMs()
			d.secondaryStartSet = true
		}
		d.state = dOnScndMod
	case dOnScndMod:
		if d.dacfg.Kind == SliderDoubleKind {
			d.advanceSlider()
		}
		if d.dbnc.validReleasePend {
			d.dbnc.clearValidRelease()
			d.state = dOnEndScndMod
		}
	case dOnEndScndMod:
		d.isOnSecondary = false
		d.outputsChanged = true
		d.secondaryStartSet = false
		d.state = dOnMPBRlsd
	case dOnMPBRlsd:
		if d.dbnc.validDisablePend {
			d.enterDisabled()
			return
		}
		if d.dbnc.validReleasePend {
			d.dbnc.clearValidRelease()
		}
		if d.dbnc.validPressPend {
			d.dbnc.clearValidPress()
			d.turnOff()
			d.state = dOffNotVPP
		}
	case dDisabled:
		if d.dbnc.validEnablePend {
			d.exitDisabled()
		}
	}
}

// advanceSlider computes the per-tick slider movement while in secondary
// mode.
func (d *DoubleAction) advanceSlider() {
	now := d.clock.NowMs()
	if !d.secondaryStartSet {
		d.secondaryStart = now
		d.secondaryStartSet = true
		return
	}
	elapsed := now - d.secondaryStart
	speedMs := uint64(d.slider.SpeedMsPerStep.Milliseconds())
	if speedMs == 0 {
		return
	}
	steps := elapsed / speedMs
	if steps == 0 {
		return
	}
	delta := int32(steps) * d.slider.StepSize
	if d.slider.DirUp {
		d.slider.CurVal += delta
	} else {
		d.slider.CurVal -= delta
	}
	clamped := false
	if d.slider.CurVal >= d.slider.ValMax {
		d.slider.CurVal = d.slider.ValMax
		clamped = true
	}
	if d.slider.CurVal <= d.slider.ValMin {
		d.slider.CurVal = d.slider.ValMin
		clamped = true
	}
	if clamped && d.slider.AutoSwapOnEnd {
		d.slider.DirUp = !d.slider.DirUp
	}
	d.outputsChanged = true
	// Roll the leftover remainder forward so no fractional step is lost.
	// The original's _sldrTmrRemains computation multiplies the remainder
	// by speed again, which is dimensionally wrong (see DESIGN.md); this
	// keeps the remainder as a plain elapsed % speed.
	remainder := elapsed % speedMs
	d.secondaryStart = now - remainder
}

func (d *DoubleAction) enterDisabled() {
	d.dbnc.clearDisable()
	if d.isOn != d.cfg.IsOnDisabled {
		if d.cfg.IsOnDisabled {
			d.turnOn()
		} else {
			d.turnOff()
		}
	}
	d.outputsChanged = true
	d.isOnSecondary = false
	d.dbnc.reset()
	d.isEnabled = false
	d.state = dDisabled
}

func (d *DoubleAction) exitDisabled() {
	if d.isPressed {
		return
	}
	if d.isOn {
		d.turnOff()
	}
	d.dbnc.clearEnable()
	d.isEnabled = true
	d.dbnc.reset()
	d.state = dOffNotVPP
}
