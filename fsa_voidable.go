package buttonswitch

import "time"

// voidState is the twelve-state voidable FSA.
type voidState uint8

const (
	vOffNotVPP voidState = iota
	vOffVPP
	vOnNVRP
	vOnVVP
	vOnVddNVUP
	vOffVddNVUP
	vOffVddVUP
	vOffUnVdd
	vOnVRP
	vOnTurnOff
	vOff
	vDisabled
)

func (s voidState) String() string {
	switch s {
	case vOffNotVPP:
		return "OffNotVPP"
	case vOffVPP:
		return "OffVPP"
	case vOnNVRP:
		return "OnNVRP"
	case vOnVVP:
		return "OnVVP"
	case vOnVddNVUP:
		return "OnVddNVUP"
	case vOffVddNVUP:
		return "OffVddNVUP"
	case vOffVddVUP:
		return "OffVddVUP"
	case vOffUnVdd:
		return "OffUnVdd"
	case vOnVRP:
		return "OnVRP"
	case vOnTurnOff:
		return "OnTurnOff"
	case vOff:
		return "Off"
	case vDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// VoidKind selects which void-declaration policy a Voidable instance runs.
type VoidKind uint8

const (
	// TimedVoidableKind declares the void condition once held past VoidTime
	// (a maximum-hold semantic).
	TimedVoidableKind VoidKind = iota
	// SingleServiceVoidableKind declares the void condition immediately
	// when IsOn becomes true, producing a one-shot pulse per press.
	SingleServiceVoidableKind
)

// VoidConfig carries the variant-specific construction parameters for the
// voidable family.
type VoidConfig struct {
	Kind     VoidKind
	VoidTime time.Duration // TimedVoidableKind only; must be > 0
	// ForceOutputWhenVoid/StateOnWhenForced let the encoded IsOn bit be
	// pinned to a fixed value while voided, independent of the physical
	// turn-off this FSA always performs internally. Fixed to
	// (true, false) for SingleServiceVoidableKind.
	ForceOutputWhenVoid bool
	StateOnWhenForced   bool
}

// Voidable implements the twelve-state voidable FSA family: TimedVoidable
// (Kind == TimedVoidableKind) and SingleServiceVoidable
// (Kind == SingleServiceVoidableKind).
type Voidable struct {
	*Button
	state voidState
	vcfg  VoidConfig

	isVoided bool

	pressStart    uint64
	pressStartSet bool
}

// NewVoidable constructs a voidable switch of the given kind.
func NewVoidable(pin Pin, clock Clock, cfg Config, vcfg VoidConfig) (*Voidable, error) {
	if vcfg.Kind == TimedVoidableKind && vcfg.VoidTime <= 0 {
		return nil, ErrServiceTimeTooLow
	}
	if vcfg.Kind == SingleServiceVoidableKind {
		vcfg.ForceOutputWhenVoid = true
		vcfg.StateOnWhenForced = false
	}
	b := &Button{}
	if err := initCommon(b, pin, clock, cfg); err != nil {
		return nil, err
	}
	return &Voidable{Button: b, state: vOffNotVPP, vcfg: vcfg}, nil
}

func (v *Voidable) Begin(pollMs uint32) bool { return v.begin(pollDuration(pollMs), v.Tick) }

func (v *Voidable) Resume(pollMs uint32) bool {
	v.resetFda()
	return v.begin(pollDuration(pollMs), v.Tick)
}

func (v *Voidable) resetFda() {
	v.mu.Lock()
	v.dbnc.reset()
	v.state = vOffNotVPP
	v.isVoided = false
	v.pressStartSet = false
	v.mu.Unlock()
}

// GetIsVoided reports whether the switch is currently in its void window.
func (v *Voidable) GetIsVoided() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.isVoided
}

// SetVoidTime changes the max-hold void threshold (TimedVoidable); rejects non-positive values.
func (v *Voidable) SetVoidTime(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vcfg.VoidTime = d
	return true
}

// DebugState reports the current internal FSA state name, for diagnostics
// and tests; not meant as a stable type for callers to branch on.
func (v *Voidable) DebugState() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.String()
}

// SetIsVoided declares the void condition, as if it had just been met. It
// succeeds only while the switch is on and not yet voided (state OnNVRP) and
// returns false otherwise; the void flag is raised on the next Tick.
func (v *Voidable) SetIsVoided() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != vOnNVRP {
		return false
	}
	v.state = vOnVVP
	return true
}

// SetIsNotVoided forces an immediate unvoid if currently voided.
func (v *Voidable) SetIsNotVoided() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.isVoided {
		return false
	}
	v.isVoided = false
	v.outputsChanged = true
	if v.state == vOnVddNVUP || v.state == vOffVddNVUP || v.state == vOffVddVUP {
		v.state = vOffNotVPP
		v.dbnc.reset()
	}
	return true
}

func (v *Voidable) Tick() {
	v.mu.Lock()
	raw := v.pin.Read()
	v.isPressed = topology(raw, v.cfg.PulledUp, v.cfg.TypeNO)
	if v.isEnabled {
		v.dbnc.sample(v.isPressed, v.clock.NowMs())
	}
	v.stepLocked()
	v.mu.Unlock()

	v.postIfChanged(func() uint32 {
		v.mu.Lock()
		defer v.mu.Unlock()
		isOn := v.isOn
		if v.isVoided && v.vcfg.ForceOutputWhenVoid {
			isOn = v.vcfg.StateOnWhenForced
		}
		return EncodeStatus(OutputFlags{IsOn: isOn, IsEnabled: v.isEnabled, IsVoided: v.isVoided})
	})
}

// stepLocked advances the FSA by one tick; mu must already be held. vOffVPP
// is never entered, so DebugState never reports it: turn_on fires in the
// same tick the triggering pend flag is observed.
func (v *Voidable) stepLocked() {
	now := v.clock.NowMs()
	switch v.state {
	case vOffNotVPP:
		if v.dbnc.validDisablePend {
			v.enterDisabled()
			return
		}
		if v.dbnc.validPressPend {
			v.turnOn()
			v.dbnc.clearValidPress()
			v.pressStart = now
			v.pressStartSet = true
			if v.vcfg.Kind == SingleServiceVoidableKind {
				v.state = vOnVVP
			} else {
				v.state = vOnNVRP
			}
		}
	case vOnNVRP:
		if v.dbnc.validDisablePend {
			v.enterDisabled()
			return
		}
		if v.vcfg.Kind == TimedVoidableKind && v.pressStartSet &&
			now-v.pressStart >= uint64(v.vcfg.VoidTime.Milliseconds()) {
			v.state = vOnVVP
			return
		}
		if v.dbnc.validReleasePend {
			v.dbnc.clearValidRelease()
			v.state = vOnVRP
		}
	case vOnVVP:
		if v.isOn {
			v.turnOff()
		}
		v.isVoided = true
		v.outputsChanged = true
		v.state = vOnVddNVUP
	case vOnVddNVUP:
		if !v.isPressed {
			v.state = vOffVddNVUP
		}
	case vOffVddNVUP:
		if v.dbnc.validReleasePend {
			v.dbnc.clearValidRelease()
			v.state = vOffVddVUP
		}
	case vOffVddVUP:
		v.state = vOffUnVdd
	case vOffUnVdd:
		v.isVoided = false
		v.outputsChanged = true
		v.dbnc.reset()
		v.pressStartSet = false
		v.state = vOffNotVPP
	case vOnVRP:
		v.state = vOnTurnOff
	case vOnTurnOff:
		v.turnOff()
		v.state = vOff
	case vOff:
		v.dbnc.reset()
		v.pressStartSet = false
		v.state = vOffNotVPP
	case vDisabled:
		if v.dbnc.validEnablePend {
			v.exitDisabled()
		}
	}
}

func (v *Voidable) enterDisabled() {
	v.dbnc.clearDisable()
	if v.isOn != v.cfg.IsOnDisabled {
		if v.cfg.IsOnDisabled {
			v.turnOn()
		} else {
			v.turnOff()
		}
	}
	v.outputsChanged = true
	v.isVoided = false
	v.dbnc.reset()
	v.isEnabled = false
	v.state = vDisabled
}

func (v *Voidable) exitDisabled() {
	if v.isPressed {
		return
	}
	if v.isOn {
		v.turnOff()
	}
	v.dbnc.clearEnable()
	v.isEnabled = true
	v.dbnc.reset()
	v.state = vOffNotVPP
}
