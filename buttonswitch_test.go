package buttonswitch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bsw "github.com/GabyGold67/buttontoswitch-go"
	"github.com/GabyGold67/buttontoswitch-go/platform/simulated"
)

type stepper interface{ Tick() }

// drive advances the simulated clock by 10ms and calls Tick for each symbol
// in trace, where 'P' means pressed and '_' means released for that poll.
func drive(t stepper, pin *simulated.Pin, clock *simulated.Clock, trace string) {
	for _, sym := range trace {
		pin.Set(sym == 'P')
		clock.Advance(10)
		t.Tick()
	}
}

func newDebounced(t *testing.T, dbncMs uint64) (*bsw.Debounced, *simulated.Pin, *simulated.Clock) {
	pin := &simulated.Pin{}
	clock := &simulated.Clock{}
	d, err := bsw.NewDebounced(pin, clock, bsw.Config{
		PulledUp: false,
		TypeNO:   true,
		DbncTime: time.Duration(dbncMs) * time.Millisecond,
	})
	require.NoError(t, err)
	return d, pin, clock
}

func TestStatusRoundTrip(t *testing.T) {
	cases := []bsw.OutputFlags{
		{},
		{IsOn: true, IsEnabled: true},
		{IsOn: true, IsEnabled: true, PilotOn: true, WarningOn: true},
		{IsVoided: true, IsOnScndry: true},
		{HasOtptVal: true, OtptCurVal: 1234, IsEnabled: true},
	}
	for _, f := range cases {
		word := bsw.EncodeStatus(f)
		got := bsw.DecodeStatus(word)
		assert.Equal(t, f.IsOn, got.IsOn)
		assert.Equal(t, f.IsEnabled, got.IsEnabled)
		assert.Equal(t, f.PilotOn, got.PilotOn)
		assert.Equal(t, f.WarningOn, got.WarningOn)
		assert.Equal(t, f.IsVoided, got.IsVoided)
		assert.Equal(t, f.IsOnScndry, got.IsOnScndry)
		if f.HasOtptVal {
			assert.Equal(t, f.OtptCurVal, got.OtptCurVal)
		}
	}
}

// dbnc=50, start_delay=0, trace `_ _ _ P P P P P P _ _ _`.
func TestBaseDebounce(t *testing.T) {
	d, pin, clock := newDebounced(t, 50)
	require.False(t, d.GetIsOn())

	drive(d, pin, clock, "___")
	assert.False(t, d.GetIsOn())

	drive(d, pin, clock, "PPPPP")
	assert.False(t, d.GetIsOn(), "should not yet be on before 50ms of continuous press")

	drive(d, pin, clock, "P")
	assert.True(t, d.GetIsOn(), "turn_on should fire once 50ms of continuous press elapsed")

	drive(d, pin, clock, "__")
	assert.True(t, d.GetIsOn(), "release debounce (HwMinDbnc=20ms) not yet elapsed")

	drive(d, pin, clock, "_")
	assert.False(t, d.GetIsOn(), "turn_off should fire once release debounces")
}

// A press shorter than the debounce time never turns the switch on.
func TestDebounceLowerBound(t *testing.T) {
	d, pin, clock := newDebounced(t, 50)
	drive(d, pin, clock, "PPPP")
	assert.False(t, d.GetIsOn())
}

// Release debounces symmetrically to press.
func TestReleaseSymmetry(t *testing.T) {
	d, pin, clock := newDebounced(t, 20)
	drive(d, pin, clock, "PPP")
	require.True(t, d.GetIsOn())
	drive(d, pin, clock, "__")
	assert.True(t, d.GetIsOn(), "release debounce (20ms=HwMinDbnc) needs one more poll")
	drive(d, pin, clock, "_")
	assert.False(t, d.GetIsOn())
}

// Disabling twice is the same as disabling once.
func TestIdempotentDisable(t *testing.T) {
	d, pin, clock := newDebounced(t, 20)
	d.Disable()
	d.Disable()
	drive(d, pin, clock, "_")
	assert.False(t, d.GetIsEnabled())
	assert.False(t, d.GetIsOn())
}

// Disabled safety: IsOn forced to IsOnWhenDisabled, and exit
// requires observing a released sample first.
func TestDisabledSafety(t *testing.T) {
	d, pin, clock := newDebounced(t, 20)
	d.SetIsOnWhenDisabled(false)
	drive(d, pin, clock, "_")
	d.Disable()
	drive(d, pin, clock, "_")
	assert.False(t, d.GetIsEnabled())
	assert.False(t, d.GetIsOn())

	// enabling while pressed must not re-enable into a pressed state
	pin.Set(true)
	d.Enable()
	drive(d, pin, clock, "P")
	assert.False(t, d.GetIsEnabled(), "must stay disabled until a released sample is observed")

	pin.Set(false)
	drive(d, pin, clock, "_")
	assert.True(t, d.GetIsEnabled())
}

func TestDebugStateTracksTransitions(t *testing.T) {
	d, pin, clock := newDebounced(t, 20)
	assert.Equal(t, "OffNotVPP", d.DebugState())
	drive(d, pin, clock, "PPP")
	assert.True(t, d.GetIsOn())
	assert.Equal(t, "On", d.DebugState())
}
