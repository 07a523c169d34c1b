// Package buttonswitch turns the noisy signal of a momentary push-button
// (MPB) into the stable, semantically rich output of one of several classes
// of electromechanical switch: momentary, latching (plain, timed, hinted
// timed, externally unlatched, toggle), double-action (delayed, slider) and
// voidable (timed, single-service).
//
// A Button owns a debounce/validation layer (see debounce.go) feeding one of
// the finite-state-automaton families in fsa_base.go/fsa_latch.go/
// fsa_double.go/fsa_voidable.go. A periodic Ticker (scheduler.go) drives the
// FSA at a fixed cadence; a Notifier (notify.go) receives a packed status
// word (status.go) whenever an observable flag changes.
package buttonswitch

import (
	"errors"
	"sync"
	"time"
)

// Constants fixed by the wire/timing contract.
const (
	// HwMinDbnc is the documented minimum wait time for an MPB signal to
	// stabilize before it is considered pressed or released.
	HwMinDbnc = 20 * time.Millisecond
	// StdPollDelay is the default interval between polls of an MPB.
	StdPollDelay = 10 * time.Millisecond
	// MinSrvcTime is the minimum valid service/active time for timed
	// latches and double-action secondary-mode delays.
	MinSrvcTime = 100 * time.Millisecond
	// InvalidPin marks a not-yet-assigned pin identifier.
	InvalidPin = 0xFFFF
)

// Sentinel errors returned by constructors or recorded as the sticky
// LastError, as errors.New values with names so callers can branch with
// errors.Is instead of string comparison. Setters report rejection with a
// false return instead.
var (
	ErrNoPin             = errors.New("buttonswitch: no pin given")
	ErrNoNotifier        = errors.New("buttonswitch: notify channel full, notification dropped")
	ErrDebounceTooShort  = errors.New("buttonswitch: debounce time below HwMinDbnc")
	ErrServiceTimeTooLow = errors.New("buttonswitch: service time below MinSrvcTime")
	ErrBadWarningPercent = errors.New("buttonswitch: warning percent out of [0,100]")
	ErrBadSliderRange    = errors.New("buttonswitch: slider min/max/step/cur out of range")
	ErrBadSliderSpeed    = errors.New("buttonswitch: slider speed must be > 0")
	ErrTimerUnavailable  = errors.New("buttonswitch: periodic timer could not be created or started")
)

// Pin is the narrow GPIO read surface this module consumes: a binary-level
// read and an init, nothing more. Implementations live under platform/.
type Pin interface {
	// Init configures the pin for input with the given pull direction.
	Init(pulledUp bool) error
	// Read returns the raw electrical level: true = high.
	Read() bool
}

// Clock is the narrow time-base surface this module consumes: a single
// monotonic millisecond counter.
type Clock interface {
	NowMs() uint64
}

// SystemClock is a Clock backed by the Go runtime monotonic clock.
type SystemClock struct{ start time.Time }

// NewSystemClock returns a Clock whose NowMs is relative to its own creation
// time, avoiding reliance on wall-clock epoch semantics.
func NewSystemClock() *SystemClock { return &SystemClock{start: time.Now()} }

func (c *SystemClock) NowMs() uint64 { return uint64(time.Since(c.start).Milliseconds()) }

// topology maps a raw pin level to a logical "pressed" boolean, combining
// pull direction and normally-open/normally-closed wiring.
func topology(raw, pulledUp, typeNO bool) bool {
	// NO + pulled-up: pressed pulls the line low -> pressed == !raw.
	// NO + pulled-down: pressed pulls the line high -> pressed == raw.
	// NC inverts the above.
	pressed := raw
	if pulledUp {
		pressed = !raw
	}
	if !typeNO {
		pressed = !pressed
	}
	return pressed
}

// Config carries the construction-time parameters shared by every button
// variant. Variant-specific parameters live in each variant's own Config
// type (LatchConfig, SliderConfig, ...).
type Config struct {
	PulledUp     bool
	TypeNO       bool
	DbncTime     time.Duration // must be >= HwMinDbnc once resolved (0 means HwMinDbnc)
	StartDelay   time.Duration
	IsOnDisabled bool
}

func (c Config) resolved() Config {
	if c.DbncTime <= 0 {
		c.DbncTime = HwMinDbnc
	}
	return c
}

// Button is the common record every switch-class variant embeds: the
// debounce layer, the volatile output/enable flags, the critical-section
// lock, and the scheduler/notifier wiring. It owns no FSA state itself —
// each variant's FSA lives alongside it and is advanced from the variant's
// Tick.
type Button struct {
	mu sync.Mutex

	pin   Pin
	clock Clock

	cfg Config

	dbnc debouncer

	isPressed bool
	isOn      bool
	isEnabled bool

	outputsChanged bool
	lastErr        error

	ticker   *Ticker
	notifier Notifier

	onTurnOn, onTurnOff func()

	taskWhileOnResume, taskWhileOnSuspend func()
}

// initCommon wires the shared fields; called by every variant constructor.
func initCommon(b *Button, pin Pin, clock Clock, cfg Config) error {
	if pin == nil {
		return ErrNoPin
	}
	cfg = cfg.resolved()
	if cfg.DbncTime < HwMinDbnc {
		return ErrDebounceTooShort
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	b.pin = pin
	b.clock = clock
	b.cfg = cfg
	b.isEnabled = true
	b.isOn = false
	b.dbnc = debouncer{dbncTime: cfg.DbncTime, rlsDbncTime: HwMinDbnc, startDelay: cfg.StartDelay}
	if err := pin.Init(cfg.PulledUp); err != nil {
		return err
	}
	return nil
}

// Begin starts the periodic callback driving this instance's FSA at pollMs
// cadence (default StdPollDelay if pollMs <= 0). Idempotent if already
// started; a ticker stopped by Pause is started again with its original
// period. Advance is supplied by each variant (it closes over the variant's
// own Tick method).
func (b *Button) begin(pollMs time.Duration, advance func()) bool {
	if pollMs <= 0 {
		pollMs = StdPollDelay
	}
	b.mu.Lock()
	existing := b.ticker
	b.mu.Unlock()
	if existing != nil {
		return existing.Start()
	}
	t, err := NewTicker(pollMs, advance)
	if err != nil {
		b.mu.Lock()
		b.lastErr = ErrTimerUnavailable
		b.mu.Unlock()
		return false
	}
	b.mu.Lock()
	b.ticker = t
	b.mu.Unlock()
	t.Start()
	return true
}

// Pause stops the periodic callback without losing configuration.
func (b *Button) Pause() bool {
	b.mu.Lock()
	t := b.ticker
	b.mu.Unlock()
	if t == nil {
		return false
	}
	t.Stop()
	return true
}

// End stops and frees the periodic callback.
func (b *Button) End() bool {
	b.mu.Lock()
	t := b.ticker
	b.ticker = nil
	b.mu.Unlock()
	if t == nil {
		return false
	}
	t.Delete()
	return true
}

// GetIsOn reports whether the button's primary output is on.
func (b *Button) GetIsOn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isOn
}

// GetIsEnabled reports whether the button is processing input.
func (b *Button) GetIsEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isEnabled
}

// GetIsPressed reports the last logical-pressed sample read from the pin
// (mapped through pull direction and NO/NC wiring, not debounced).
func (b *Button) GetIsPressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isPressed
}

// GetOutputsChange reports and does not clear the outputs-changed sentinel.
func (b *Button) GetOutputsChange() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.outputsChanged
}

// DebounceTime returns the currently configured press-side debounce time.
func (b *Button) DebounceTime() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.DbncTime
}

// StartDelay returns the currently configured start delay.
func (b *Button) StartDelay() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.StartDelay
}

// LastError returns the sticky last error recorded by this instance, if
// any. Notification faults are sticky: they are recorded but do not halt
// processing.
func (b *Button) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// SetDbncTime changes the press-side debounce time; rejected below HwMinDbnc.
func (b *Button) SetDbncTime(d time.Duration) bool {
	if d < HwMinDbnc {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg.DbncTime = d
	b.dbnc.dbncTime = d
	return true
}

// SetStartDelay changes the additional delay added before a press debounces.
func (b *Button) SetStartDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg.StartDelay = d
	b.dbnc.startDelay = d
}

// SetIsOnWhenDisabled sets the forced output level observed while disabled;
// if currently disabled, applying it may immediately flip IsOn.
func (b *Button) SetIsOnWhenDisabled(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg.IsOnDisabled = v
	if !b.isEnabled {
		changed := b.isOn != v
		b.isOn = v
		if changed {
			b.outputsChanged = true
		}
	}
}

// SetTaskToNotify installs the channel-based notification sink; replaces any
// previous one.
func (b *Button) SetTaskToNotify(n Notifier) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notifier = n
}

// SetTaskWhileOn installs resume/suspend hooks the library drives while the
// button is on/off.
func (b *Button) SetTaskWhileOn(resume, suspend func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taskWhileOnResume = resume
	b.taskWhileOnSuspend = suspend
}

// SetFnOnTurnOn installs a callback fired every time IsOn transitions false->true.
func (b *Button) SetFnOnTurnOn(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onTurnOn = fn
}

// SetFnOnTurnOff installs a callback fired every time IsOn transitions true->false.
func (b *Button) SetFnOnTurnOff(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onTurnOff = fn
}

// ClearStatus resets pending flags/timers; optionally forces IsOn false.
func (b *Button) ClearStatus(clearIsOn bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dbnc.reset()
	if clearIsOn && b.isOn {
		b.isOn = false
		b.outputsChanged = true
	}
}

// turnOn flips IsOn on, idempotent, firing side effects.
func (b *Button) turnOn() {
	if b.isOn {
		return
	}
	b.isOn = true
	b.outputsChanged = true
	if b.taskWhileOnResume != nil {
		b.taskWhileOnResume()
	}
	if b.onTurnOn != nil {
		b.onTurnOn()
	}
}

// turnOff flips IsOn off, idempotent, firing side effects.
func (b *Button) turnOff() {
	if !b.isOn {
		return
	}
	b.isOn = false
	b.outputsChanged = true
	if b.taskWhileOnSuspend != nil {
		b.taskWhileOnSuspend()
	}
	if b.onTurnOff != nil {
		b.onTurnOff()
	}
}

// enable queues a pending enable, honoured once the FSA next observes a
// non-pressed raw sample.
func (b *Button) enable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dbnc.validEnablePend = true
}

// disable queues a pending disable.
func (b *Button) disable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dbnc.validDisablePend = true
}

// Enable queues the pending-enable event.
func (b *Button) Enable() { b.enable() }

// Disable queues the pending-disable event.
func (b *Button) Disable() { b.disable() }

// postIfChanged packs and delivers the status word when outputsChanged is
// set, then clears the sentinel. mu must not be held by the caller: pack
// acquires mu itself, and notifier.Notify is called outside the lock.
func (b *Button) postIfChanged(pack func() uint32) {
	b.mu.Lock()
	changed := b.outputsChanged
	b.outputsChanged = false
	n := b.notifier
	b.mu.Unlock()
	var word uint32
	if changed {
		word = pack()
	}
	if changed && n != nil {
		if !n.Notify(word) {
			b.mu.Lock()
			b.lastErr = ErrNoNotifier
			b.mu.Unlock()
		}
	}
}
