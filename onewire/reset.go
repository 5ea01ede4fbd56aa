// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

type startSubstate int

const (
	startBegin startSubstate = iota
	startDelay1
	startDelay2
	startDelay3
)

// processStart drives the reset/presence slot. Grounded on the reference
// implementation's processStart (onewire.c): drive low for ResetTimeUS,
// release and sample for presence after ReleaseTimeUS, then pad the slot
// out to WaitTimeUS before reporting Success.
func (b *Bus) processStart() Result {
	switch b.startSub {
	case startBegin:
		b.port.SetDir(Output)
		b.port.SetLevel(Low)
		b.port.RestartTimer()
		b.startSub = startDelay1
		return Working

	case startDelay1:
		if timerPassed(b.port, ResetTimeUS) {
			b.port.SetDir(Input)
			b.port.RestartTimer()
			b.startSub = startDelay2
		}
		return Working

	case startDelay2:
		if timerPassed(b.port, ReleaseTimeUS) {
			present := b.port.ReadLevel() == Low
			if present && b.onPresence != nil {
				b.onPresence(b)
			}
			if !present && b.failOnNoPresence {
				b.lastErr = errNoPresence
				b.startSub = startBegin
				return Failed
			}
			b.port.RestartTimer()
			b.startSub = startDelay3
		}
		return Working

	case startDelay3:
		if timerPassed(b.port, WaitTimeUS) {
			b.startSub = startBegin
			return Success
		}
		return Working
	}
	return Working
}
