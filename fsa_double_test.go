package buttonswitch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bsw "github.com/GabyGold67/buttontoswitch-go"
	"github.com/GabyGold67/buttontoswitch-go/platform/simulated"
)

// Slider: min=0, max=2000, step=1, speed=1ms/step, cur=1000, dir=down,
// auto_swap_on_end=false, auto_swap_on_press=true, scnd_mode_delay=2000.
// Hold press 3500ms.
func TestSlider(t *testing.T) {
	pin := &simulated.Pin{}
	clock := &simulated.Clock{}
	d, err := bsw.NewDoubleAction(pin, clock,
		bsw.Config{TypeNO: true, DbncTime: 20 * time.Millisecond},
		bsw.DoubleActionConfig{
			Kind:               bsw.SliderDoubleKind,
			SecondaryModeDelay: 2000 * time.Millisecond,
			Slider: bsw.SliderConfig{
				ValMin: 0, ValMax: 2000, CurVal: 1000, StepSize: 1,
				SpeedMsPerStep: time.Millisecond, DirUp: false,
				AutoSwapOnEnd: false, AutoSwapOnPress: true,
			},
		})
	require.NoError(t, err)

	pin.Set(true)
	for i := 0; i < 350; i++ { // 3500ms, 10ms per poll
		clock.Advance(10)
		d.Tick()
	}
	assert.True(t, d.GetIsOnSecondary(), "should have entered secondary mode by ~2050ms")

	pin.Set(false)
	for i := 0; i < 5; i++ {
		clock.Advance(10)
		d.Tick()
	}
	assert.False(t, d.GetIsOnSecondary(), "secondary mode should end on release")

	got := d.GetCurOtptVal()
	assert.InDelta(t, 2000, got, 50, "direction swapped to up on secondary entry, should climb toward/clamp at max")
}

// Slider stays within bounds and moves monotonically non-decreasing when
// direction is up without auto-swap.
func TestSliderBoundsMonotonic(t *testing.T) {
	pin := &simulated.Pin{}
	clock := &simulated.Clock{}
	d, err := bsw.NewDoubleAction(pin, clock,
		bsw.Config{TypeNO: true, DbncTime: 20 * time.Millisecond},
		bsw.DoubleActionConfig{
			Kind:               bsw.SliderDoubleKind,
			SecondaryModeDelay: 100 * time.Millisecond,
			Slider: bsw.SliderConfig{
				ValMin: 0, ValMax: 100, CurVal: 0, StepSize: 1,
				SpeedMsPerStep: time.Millisecond, DirUp: true,
				AutoSwapOnEnd: false, AutoSwapOnPress: false,
			},
		})
	require.NoError(t, err)

	pin.Set(true)
	last := int32(0)
	for i := 0; i < 50; i++ {
		clock.Advance(10)
		d.Tick()
		cur := d.GetCurOtptVal()
		assert.GreaterOrEqual(t, cur, last)
		assert.LessOrEqual(t, cur, int32(100))
		assert.GreaterOrEqual(t, cur, int32(0))
		last = cur
	}
}

func TestDelayedDouble(t *testing.T) {
	pin := &simulated.Pin{}
	clock := &simulated.Clock{}
	d, err := bsw.NewDoubleAction(pin, clock,
		bsw.Config{TypeNO: true, DbncTime: 20 * time.Millisecond},
		bsw.DoubleActionConfig{Kind: bsw.DelayedDoubleKind, SecondaryModeDelay: 350 * time.Millisecond})
	require.NoError(t, err)

	pin.Set(true)
	for i := 0; i < 30; i++ {
		clock.Advance(10)
		d.Tick()
	}
	assert.True(t, d.GetIsOn())
	assert.False(t, d.GetIsOnSecondary(), "should not yet be in secondary mode")

	for i := 0; i < 10; i++ {
		clock.Advance(10)
		d.Tick()
	}
	assert.True(t, d.GetIsOnSecondary())
}

func TestDoubleActionShortPressToggleOff(t *testing.T) {
	pin := &simulated.Pin{}
	clock := &simulated.Clock{}
	d, err := bsw.NewDoubleAction(pin, clock,
		bsw.Config{TypeNO: true, DbncTime: 20 * time.Millisecond},
		bsw.DoubleActionConfig{Kind: bsw.DelayedDoubleKind, SecondaryModeDelay: 500 * time.Millisecond})
	require.NoError(t, err)

	// short press + release
	pin.Set(true)
	for i := 0; i < 3; i++ {
		clock.Advance(10)
		d.Tick()
	}
	pin.Set(false)
	for i := 0; i < 3; i++ {
		clock.Advance(10)
		d.Tick()
	}
	require.True(t, d.GetIsOn())

	// second short press toggles off
	pin.Set(true)
	for i := 0; i < 3; i++ {
		clock.Advance(10)
		d.Tick()
	}
	assert.False(t, d.GetIsOn())
}
