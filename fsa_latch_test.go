package buttonswitch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bsw "github.com/GabyGold67/buttontoswitch-go"
	"github.com/GabyGold67/buttontoswitch-go/platform/simulated"
)

func newLatched(t *testing.T, lcfg bsw.LatchConfig) (*bsw.Latched, *simulated.Pin, *simulated.Clock) {
	pin := &simulated.Pin{}
	clock := &simulated.Clock{}
	l, err := bsw.NewLatched(pin, clock, bsw.Config{TypeNO: true, DbncTime: 20 * time.Millisecond}, lcfg)
	require.NoError(t, err)
	return l, pin, clock
}

// Timed latch unlatch: service=3000ms, tm_restartable=true,
// trn_off_asap=true; short press then hold off.
func TestTimedLatchUnlatch(t *testing.T) {
	l, pin, clock := newLatched(t, bsw.LatchConfig{
		Kind:          bsw.TimedLatch,
		ServiceTime:   3000 * time.Millisecond,
		TmRestartable: true,
		TrnOffAsap:    true,
	})

	drive(l, pin, clock, "PPP")
	require.True(t, l.GetIsOn(), "turn_on should have fired")
	drive(l, pin, clock, "___")
	require.True(t, l.GetIsOn(), "stays on, now latched, after release")
	require.True(t, l.GetIsLatched())

	// advance through the 3000ms service window
	for i := 0; i < 320; i++ {
		drive(l, pin, clock, "_")
	}
	assert.False(t, l.GetIsOn(), "should have unlatched by now")
	assert.False(t, l.GetIsLatched())
}

// External unlatch: main latches on press; companion pressed 500ms later.
func TestExternalUnlatch(t *testing.T) {
	companionPin := &simulated.Pin{}
	companionClock := &simulated.Clock{}
	companion, err := bsw.NewDebounced(companionPin, companionClock, bsw.Config{TypeNO: true, DbncTime: 20 * time.Millisecond})
	require.NoError(t, err)

	l, pin, clock := newLatched(t, bsw.LatchConfig{
		Kind:       bsw.ExternalUnlatch,
		TrnOffAsap: true,
		Companion:  companion,
	})

	drive(l, pin, clock, "PPP___")
	require.True(t, l.GetIsOn())
	require.True(t, l.GetIsLatched())

	// companion not yet pressed: stays latched
	for i := 0; i < 10; i++ {
		drive(l, pin, clock, "_")
		companion.Tick()
	}
	assert.True(t, l.GetIsLatched())

	// companion rising edge unlatches (trn_off_asap=true -> turns off immediately)
	companionPin.Set(true)
	for i := 0; i < 3; i++ {
		companionClock.Advance(10)
		companion.Tick()
		drive(l, pin, clock, "_")
	}
	assert.False(t, l.GetIsOn(), "companion rising edge should have turned the main switch off")

	// companion falling edge clears is_latched
	companionPin.Set(false)
	for i := 0; i < 3; i++ {
		companionClock.Advance(10)
		companion.Tick()
		drive(l, pin, clock, "_")
	}
	assert.False(t, l.GetIsLatched())
}

// Hinted warning: service=10000ms, warning_percent=20.
func TestHintedWarning(t *testing.T) {
	l, pin, clock := newLatched(t, bsw.LatchConfig{
		Kind:           bsw.HintedTimedLatch,
		ServiceTime:    10000 * time.Millisecond,
		WarningPercent: 20,
		TrnOffAsap:     true,
	})

	drive(l, pin, clock, "PPP___")
	require.True(t, l.GetIsOn())
	assert.False(t, l.GetWarningOn())

	// advance to just before the 8000ms warning threshold
	for i := 0; i < 795; i++ {
		drive(l, pin, clock, "_")
	}
	assert.False(t, l.GetWarningOn())

	for i := 0; i < 10; i++ {
		drive(l, pin, clock, "_")
	}
	assert.True(t, l.GetWarningOn(), "warning should be on by ~8000ms into the on interval")

	for i := 0; i < 250; i++ {
		drive(l, pin, clock, "_")
	}
	assert.False(t, l.GetIsOn(), "should have unlatched by 10000ms")
}

func TestToggleLatch(t *testing.T) {
	l, pin, clock := newLatched(t, bsw.LatchConfig{Kind: bsw.ToggleLatch, TrnOffAsap: true})
	drive(l, pin, clock, "PPP___")
	require.True(t, l.GetIsOn())
	require.True(t, l.GetIsLatched())

	drive(l, pin, clock, "___PPP_")
	assert.False(t, l.GetIsOn(), "a second valid press should unlatch a toggle latch")
}
