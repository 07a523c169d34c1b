// Command example wires up a plain Debounced switch and a timed latch over
// simulated pins: two independent buttons, each publishing to its own
// notification channel, each consumed by its own goroutine.
package main

import (
	"fmt"
	"time"

	"github.com/GabyGold67/buttontoswitch-go"
	"github.com/GabyGold67/buttontoswitch-go/platform/simulated"
)

func main() {
	alicePin := &simulated.Pin{}
	aliceClock := buttonswitch.NewSystemClock()
	alice, err := buttonswitch.NewDebounced(alicePin, aliceClock, buttonswitch.Config{
		PulledUp: false,
		TypeNO:   true,
		DbncTime: 30 * time.Millisecond,
	})
	if err != nil {
		println("couldn't make alice's button:", err.Error())
		return
	}
	aliceNotify := buttonswitch.NewChannelNotifier()
	alice.SetTaskToNotify(aliceNotify)

	bobPin := &simulated.Pin{}
	bobClock := buttonswitch.NewSystemClock()
	bob, err := buttonswitch.NewLatched(bobPin, bobClock, buttonswitch.Config{
		PulledUp: false,
		TypeNO:   true,
		DbncTime: 30 * time.Millisecond,
	}, buttonswitch.LatchConfig{
		Kind:          buttonswitch.TimedLatch,
		ServiceTime:   3 * time.Second,
		TmRestartable: true,
		TrnOffAsap:    true,
	})
	if err != nil {
		println("couldn't make bob's button:", err.Error())
		return
	}
	bobNotify := buttonswitch.NewChannelNotifier()
	bob.SetTaskToNotify(bobNotify)

	if !alice.Begin(0) {
		println("couldn't start alice's poll timer")
		return
	}
	if !bob.Begin(0) {
		println("couldn't start bob's poll timer")
		return
	}

	go reactToPresses("Alice", aliceNotify.C())
	go reactToPresses("Bob", bobNotify.C())

	// Simulate a press-and-hold on alice's pin to demonstrate the flow.
	alicePin.Set(true)
	time.Sleep(200 * time.Millisecond)
	alicePin.Set(false)

	time.Sleep(500 * time.Millisecond)
	alice.End()
	bob.End()
}

func reactToPresses(name string, ch <-chan uint32) {
	for word := range ch {
		f := buttonswitch.DecodeStatus(word)
		fmt.Printf("%s: isOn=%v isEnabled=%v\n", name, f.IsOn, f.IsEnabled)
	}
}
