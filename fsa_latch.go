package buttonswitch

import "time"

// latchState is the ten-state latch FSA.
type latchState uint8

const (
	lOffNotVPP latchState = iota
	lOffVPP
	lOnNVRP
	lOnVRP
	lLtchNVUP
	lLtchdVUP
	lOffVUP
	lOffNVURP
	lOffVURP
	lDisabled
)

func (s latchState) String() string {
	switch s {
	case lOffNotVPP:
		return "OffNotVPP"
	case lOffVPP:
		return "OffVPP"
	case lOnNVRP:
		return "OnNVRP"
	case lOnVRP:
		return "OnVRP"
	case lLtchNVUP:
		return "LtchNVUP"
	case lLtchdVUP:
		return "LtchdVUP"
	case lOffVUP:
		return "OffVUP"
	case lOffNVURP:
		return "OffNVURP"
	case lOffVURP:
		return "OffVURP"
	case lDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// LatchKind selects which unlatch policy a Latched instance runs, dispatched
// by tag rather than by virtual call.
type LatchKind uint8

const (
	// PlainLatch can only be unlatched by an explicit Unlatch() call.
	PlainLatch LatchKind = iota
	// TimedLatch unlatches automatically after ServiceTime has elapsed.
	TimedLatch
	// HintedTimedLatch is TimedLatch plus a pilot/warning lamp pair.
	HintedTimedLatch
	// ExternalUnlatch is driven by a companion Debounced button's edges.
	ExternalUnlatch
	// ToggleLatch unlatches on the next valid press of the same button.
	ToggleLatch
)

// LatchConfig carries the variant-specific construction parameters for the
// latch family.
type LatchConfig struct {
	Kind             LatchKind
	TrnOffAsap       bool
	ServiceTime      time.Duration // TimedLatch, HintedTimedLatch
	TmRestartable    bool          // TimedLatch, HintedTimedLatch
	WarningPercent   uint8         // HintedTimedLatch, 0..100
	KeepPilot        bool          // HintedTimedLatch
	Companion        *Debounced    // ExternalUnlatch; nil disables external unlatch
}

// Latched implements the ten-state latch FSA family.
type Latched struct {
	*Button
	state latchState
	cfg   LatchConfig

	isLatched bool
	pilotOn   bool
	warningOn bool

	unlatchPend        bool
	unlatchReleasePend bool
	manualUnlatch      bool

	serviceStartSet bool
	serviceStart    uint64

	companionWasOn bool
}

// NewLatched constructs a latch-family switch of the given kind.
func NewLatched(pin Pin, clock Clock, cfg Config, lcfg LatchConfig) (*Latched, error) {
	if lcfg.Kind == TimedLatch || lcfg.Kind == HintedTimedLatch {
		if lcfg.ServiceTime < MinSrvcTime {
			return nil, ErrServiceTimeTooLow
		}
	}
	if lcfg.Kind == HintedTimedLatch && lcfg.WarningPercent > 100 {
		return nil, ErrBadWarningPercent
	}
	b := &Button{}
	if err := initCommon(b, pin, clock, cfg); err != nil {
		return nil, err
	}
	return &Latched{Button: b, state: lOffNotVPP, cfg: lcfg}, nil
}

func (l *Latched) Begin(pollMs uint32) bool { return l.begin(pollDuration(pollMs), l.Tick) }

func (l *Latched) Resume(pollMs uint32) bool {
	l.resetFda()
	return l.begin(pollDuration(pollMs), l.Tick)
}

func (l *Latched) resetFda() {
	l.mu.Lock()
	l.dbnc.reset()
	l.state = lOffNotVPP
	l.unlatchPend = false
	l.unlatchReleasePend = false
	l.isLatched = false
	l.mu.Unlock()
}

// GetIsLatched reports whether the switch is currently latched on.
func (l *Latched) GetIsLatched() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isLatched
}

// GetPilotOn reports the pilot-lamp flag (HintedTimedLatch only; always
// false for other kinds).
func (l *Latched) GetPilotOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pilotOn
}

// GetWarningOn reports the warning-lamp flag (HintedTimedLatch only).
func (l *Latched) GetWarningOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warningOn
}

// SetTrnOffAsap toggles whether turn-off fires immediately on unlatch or is
// deferred until the unlatch-release edge.
func (l *Latched) SetTrnOffAsap(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.TrnOffAsap = v
}

// SetServiceTime changes the timed-latch service duration; rejects values
// below MinSrvcTime.
func (l *Latched) SetServiceTime(d time.Duration) bool {
	if d < MinSrvcTime {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.ServiceTime = d
	return true
}

// SetTmRestartable toggles whether a fresh press while latched restarts the
// service timer (TimedLatch/HintedTimedLatch).
func (l *Latched) SetTmRestartable(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.TmRestartable = v
}

// SetWarningPercent changes the hinted-timed warning window; rejects values
// outside [0,100].
func (l *Latched) SetWarningPercent(p uint8) bool {
	if p > 100 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.WarningPercent = p
	return true
}

// SetKeepPilot toggles the hinted-timed pilot-lamp behavior.
func (l *Latched) SetKeepPilot(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.KeepPilot = v
}

// Unlatch programmatically requests an unlatch (works for every kind; it is
// the only way to unlatch PlainLatch and a companion-less ExternalUnlatch).
func (l *Latched) Unlatch() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.manualUnlatch = true
}

// Tick is the per-tick orchestrator for the latch family.
func (l *Latched) Tick() {
	l.mu.Lock()
	raw := l.pin.Read()
	l.isPressed = topology(raw, l.cfg2().PulledUp, l.cfg2().TypeNO)
	if l.isEnabled {
		l.dbnc.sample(l.isPressed, l.clock.NowMs())
	}
	l.stepLocked()
	l.mu.Unlock()

	l.postIfChanged(func() uint32 {
		l.mu.Lock()
		defer l.mu.Unlock()
		f := OutputFlags{IsOn: l.isOn, IsEnabled: l.isEnabled}
		if l.cfg.Kind == HintedTimedLatch {
			f.PilotOn = l.pilotOn
			f.WarningOn = l.warningOn
		}
		return EncodeStatus(f)
	})
}

func (l *Latched) cfg2() Config { return l.Button.cfg }

// DebugState reports the current internal FSA state name, for diagnostics
// and tests; not meant as a stable type for callers to branch on.
func (l *Latched) DebugState() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.String()
}

// stepLocked advances the FSA by one tick; mu must already be held.
// lOffVPP/lOnVRP/lLtchdVUP/lOffVUP/lOffVURP are never entered, so DebugState
// never reports them: turn_on, the latch-engage edge, and both halves of the
// unlatch sequence fire in the same tick the triggering pend flag is
// observed.
func (l *Latched) stepLocked() {
	now := l.clock.NowMs()
	l.computeUnlatchHooks(now)

	switch l.state {
	case lOffNotVPP:
		if l.dbnc.validDisablePend {
			l.enterDisabled()
			return
		}
		if l.dbnc.validPressPend {
			l.turnOn()
			l.dbnc.clearValidPress()
			l.state = lOnNVRP
			if l.cfg.Kind == TimedLatch || l.cfg.Kind == HintedTimedLatch {
				l.serviceStart = now
				l.serviceStartSet = true
			}
		}
	case lOnNVRP:
		if l.dbnc.validDisablePend {
			l.enterDisabled()
			return
		}
		if l.cfg.Kind == TimedLatch || l.cfg.Kind == HintedTimedLatch {
			if l.cfg.TmRestartable && l.dbnc.validPressPend {
				l.dbnc.clearValidPress()
				l.serviceStart = now
				l.serviceStartSet = true
			}
		}
		if l.dbnc.validReleasePend {
			l.dbnc.clearValidRelease()
			l.isLatched = true
			l.outputsChanged = true
			l.state = lLtchNVUP
		}
	case lLtchNVUP:
		if l.cfg.Kind == TimedLatch || l.cfg.Kind == HintedTimedLatch {
			if l.cfg.TmRestartable && l.dbnc.validPressPend && !l.unlatchPend {
				l.dbnc.clearValidPress()
				l.serviceStart = now
				l.serviceStartSet = true
			}
		}
		if l.unlatchPend {
			if l.cfg.TrnOffAsap {
				l.turnOff()
			}
			l.unlatchPend = false
			l.state = lOffNVURP
		}
	case lOffNVURP:
		if l.unlatchReleasePend {
			if l.isOn {
				l.turnOff()
			}
			l.isLatched = false
			l.unlatchReleasePend = false
			l.dbnc.reset()
			l.manualUnlatch = false
			l.state = lOffNotVPP
		}
	case lDisabled:
		if l.dbnc.validEnablePend {
			l.exitDisabled()
		}
	}
}

// computeUnlatchHooks runs the per-variant hooks that compute
// unlatchPend/unlatchReleasePend while latched, plus HintedTimedLatch's
// pilot/warning hook which runs any time the switch is on & enabled.
func (l *Latched) computeUnlatchHooks(now uint64) {
	if l.manualUnlatch && (l.state == lLtchNVUP || l.state == lOffNotVPP && l.cfg.Kind == ExternalUnlatch) {
		l.unlatchPend = true
	}

	switch l.cfg.Kind {
	case TimedLatch, HintedTimedLatch:
		if l.state == lLtchNVUP && l.serviceStartSet {
			if now-l.serviceStart >= uint64(l.cfg.ServiceTime.Milliseconds()) {
				l.unlatchPend = true
			}
		}
		if l.state == lOffVUP || l.state == lOffNVURP {
			l.unlatchReleasePend = true
		}
		if l.cfg.Kind == HintedTimedLatch {
			l.computeWarningHook(now)
		}
	case ToggleLatch:
		if l.state == lLtchNVUP && l.dbnc.validPressPend {
			l.dbnc.clearValidPress()
			l.unlatchPend = true
		}
		if l.state == lOffVUP || l.state == lOffNVURP {
			if l.dbnc.validReleasePend {
				l.dbnc.clearValidRelease()
				l.unlatchReleasePend = true
			}
		}
	case ExternalUnlatch:
		if l.cfg.Companion != nil {
			companionOn := l.cfg.Companion.GetIsOn()
			if l.state == lLtchNVUP && companionOn && !l.companionWasOn {
				l.unlatchPend = true
			}
			if (l.state == lOffVUP || l.state == lOffNVURP) && !companionOn && l.companionWasOn {
				l.unlatchReleasePend = true
			}
			l.companionWasOn = companionOn
		}
	case PlainLatch:
		if l.state == lOffVUP || l.state == lOffNVURP {
			l.unlatchReleasePend = true
		}
	}
}

func (l *Latched) computeWarningHook(now uint64) {
	prevWarning, prevPilot := l.warningOn, l.pilotOn
	defer func() {
		if l.warningOn != prevWarning || l.pilotOn != prevPilot {
			l.outputsChanged = true
		}
	}()
	if !l.isOn || !l.isEnabled {
		l.warningOn = false
		if l.cfg.KeepPilot {
			l.pilotOn = !l.isOn && l.isEnabled
		} else {
			l.pilotOn = false
		}
		return
	}
	warningMs := uint64(l.cfg.ServiceTime.Milliseconds()) * uint64(l.cfg.WarningPercent) / 100
	serviceMs := uint64(l.cfg.ServiceTime.Milliseconds())
	elapsed := uint64(0)
	if l.serviceStartSet {
		elapsed = now - l.serviceStart
	}
	l.warningOn = elapsed >= serviceMs-warningMs
	if l.cfg.KeepPilot {
		l.pilotOn = !l.isOn
	} else {
		l.pilotOn = false
	}
}

func (l *Latched) enterDisabled() {
	l.dbnc.clearDisable()
	if l.isOn != l.cfg2().IsOnDisabled {
		if l.cfg2().IsOnDisabled {
			l.turnOn()
		} else {
			l.turnOff()
		}
	}
	l.outputsChanged = true
	l.isLatched = false
	l.dbnc.reset()
	l.isEnabled = false
	l.state = lDisabled
}

func (l *Latched) exitDisabled() {
	if l.isPressed {
		return
	}
	if l.isOn {
		l.turnOff()
	}
	l.dbnc.clearEnable()
	l.isEnabled = true
	l.dbnc.reset()
	l.state = lOffNotVPP
}
