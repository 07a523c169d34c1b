package buttonswitch

import "time"

// debouncer implements the debounce/validation layer: given a
// raw logical-pressed sample and the monotonic clock, it produces the
// pending-event flags consumed by every FSA family.
type debouncer struct {
	dbncTime    time.Duration
	rlsDbncTime time.Duration
	startDelay  time.Duration
	// secondaryModeDelay is 0 unless the owning variant is a double-action
	// family member.
	secondaryModeDelay time.Duration

	pressTimerStart   uint64
	pressTimerSet     bool
	releaseTimerStart uint64
	releaseTimerSet   bool

	prc bool // press-release-cycle: valid press declared, matching release not yet

	validPressPend         bool
	validReleasePend       bool
	validSecondaryModePend bool
	validDisablePend       bool
	validEnablePend        bool
}

func (d *debouncer) reset() {
	d.pressTimerSet = false
	d.releaseTimerSet = false
	d.prc = false
	d.validPressPend = false
	d.validReleasePend = false
	d.validSecondaryModePend = false
}

// sample updates pending flags from one raw-pressed observation at time now
// (milliseconds). It must be called only while the owner is enabled;
// sampling while disabled is skipped so the raw level can still be tracked
// without accumulating pending-event state.
func (d *debouncer) sample(pressed bool, nowMs uint64) {
	if pressed {
		d.releaseTimerSet = false
		if d.prc {
			// Press/release cycle already has its valid_press_pend edge; a
			// double-action button keeps watching the same continuous hold
			// for promotion into secondary mode (the double-action family's additional
			// threshold), independent of the release-side debounce below.
			if d.secondaryModeDelay > 0 && !d.validSecondaryModePend && d.pressTimerSet {
				elapsed := nowMs - d.pressTimerStart
				secondaryThresh := uint64((d.dbncTime + d.startDelay + d.secondaryModeDelay).Milliseconds())
				if elapsed >= secondaryThresh {
					d.validSecondaryModePend = true
				}
			}
			return
		}
		if !d.pressTimerSet {
			d.pressTimerStart = nowMs
			d.pressTimerSet = true
			return
		}
		elapsed := nowMs - d.pressTimerStart
		pressThresh := uint64((d.dbncTime + d.startDelay).Milliseconds())
		if elapsed >= pressThresh {
			d.validPressPend = true
			d.validReleasePend = false
			d.prc = true
		}
		return
	}

	// unpressed sample
	d.pressTimerSet = false
	if !d.prc {
		d.releaseTimerSet = false
		return
	}
	if !d.releaseTimerSet {
		d.releaseTimerStart = nowMs
		d.releaseTimerSet = true
		return
	}
	elapsed := nowMs - d.releaseTimerStart
	if elapsed >= uint64(d.rlsDbncTime.Milliseconds()) {
		d.validReleasePend = true
		d.prc = false
		d.releaseTimerSet = false
	}
}

func (d *debouncer) clearValidPress()         { d.validPressPend = false }
func (d *debouncer) clearValidRelease()       { d.validReleasePend = false }
func (d *debouncer) clearValidSecondaryMode() { d.validSecondaryModePend = false }
func (d *debouncer) clearDisable()            { d.validDisablePend = false }
func (d *debouncer) clearEnable()             { d.validEnablePend = false }
