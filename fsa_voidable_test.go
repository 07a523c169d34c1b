package buttonswitch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bsw "github.com/GabyGold67/buttontoswitch-go"
	"github.com/GabyGold67/buttontoswitch-go/platform/simulated"
)

// Voidable single-service: two consecutive presses of 200ms each,
// separated by 100ms release. Expected: exactly two distinct turn_on/turn_off
// pairs, each visible for one tick; is_voided true between turn_off and the
// subsequent release.
func TestSingleServiceVoidable(t *testing.T) {
	pin := &simulated.Pin{}
	clock := &simulated.Clock{}
	v, err := bsw.NewVoidable(pin, clock,
		bsw.Config{TypeNO: true, DbncTime: 20 * time.Millisecond},
		bsw.VoidConfig{Kind: bsw.SingleServiceVoidableKind})
	require.NoError(t, err)

	turnOnTicks := 0
	var wasOn bool

	press := func(ms int) {
		pin.Set(true)
		for i := 0; i < ms/10; i++ {
			clock.Advance(10)
			v.Tick()
			on := v.GetIsOn()
			if on && !wasOn {
				turnOnTicks++
			}
			wasOn = on
		}
	}
	release := func(ms int) {
		pin.Set(false)
		for i := 0; i < ms/10; i++ {
			clock.Advance(10)
			v.Tick()
			on := v.GetIsOn()
			if on && !wasOn {
				turnOnTicks++
			}
			wasOn = on
		}
	}

	press(200)
	release(100)
	press(200)
	release(100)

	assert.Equal(t, 2, turnOnTicks, "exactly two distinct turn_on edges for two presses")
}

// A continuous press on a single-service voidable switch produces at most one
// tick where IsOn is observed true.
func TestVoidableOneShot(t *testing.T) {
	pin := &simulated.Pin{}
	clock := &simulated.Clock{}
	v, err := bsw.NewVoidable(pin, clock,
		bsw.Config{TypeNO: true, DbncTime: 20 * time.Millisecond},
		bsw.VoidConfig{Kind: bsw.SingleServiceVoidableKind})
	require.NoError(t, err)

	pin.Set(true)
	onTicks := 0
	for i := 0; i < 50; i++ {
		clock.Advance(10)
		v.Tick()
		if v.GetIsOn() {
			onTicks++
		}
	}
	assert.LessOrEqual(t, onTicks, 1)
}

// TimedVoidable: holding past VoidTime voids the switch (max-hold semantic).
func TestTimedVoidableMaxHold(t *testing.T) {
	pin := &simulated.Pin{}
	clock := &simulated.Clock{}
	v, err := bsw.NewVoidable(pin, clock,
		bsw.Config{TypeNO: true, DbncTime: 20 * time.Millisecond},
		bsw.VoidConfig{Kind: bsw.TimedVoidableKind, VoidTime: 500 * time.Millisecond})
	require.NoError(t, err)

	pin.Set(true)
	for i := 0; i < 30; i++ { // 300ms: below VoidTime
		clock.Advance(10)
		v.Tick()
	}
	assert.True(t, v.GetIsOn())
	assert.False(t, v.GetIsVoided())

	for i := 0; i < 30; i++ { // +300ms: now past the 500ms void threshold
		clock.Advance(10)
		v.Tick()
	}
	assert.True(t, v.GetIsVoided(), "holding past VoidTime should void the switch")
	assert.False(t, v.GetIsOn(), "void forces the switch off")
}
