// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ds18b20

import "periph.io/x/onewire/v3/onewire"

type scratchpadSubstate int

const (
	scratchpadBegin scratchpadSubstate = iota
	scratchpadStart
	scratchpadWrite
	scratchpadProcessing
	scratchpadReading
)

// processReadScratchpad drives a scratchpad read, sized by d.readMode.
//
// Grounded on the reference implementation's processReadScratchpad
// (ds18b20.c).
func (d *Dev) processReadScratchpad() {
	switch d.scratchpadSub {
	case scratchpadBegin:
		d.bus.Start()
		d.scratchpadSub = scratchpadStart

	case scratchpadStart:
		switch d.bus.Process() {
		case onewire.Success:
			d.scratchpadSub = scratchpadWrite
			d.port.RestartTimer()
		case onewire.Failed:
			d.scratchpadSub = scratchpadBegin
		}

	case scratchpadWrite:
		if d.timerPassed(1000) {
			d.writeCommand(cmdReadScratchpad, d.currentAddress, nil)
			d.scratchpadSub = scratchpadProcessing
		}

	case scratchpadProcessing:
		if d.bus.Process() == onewire.Success {
			d.scratchpadSub = scratchpadReading
			clearBuffer(d.buffer[:])
			d.bus.Read(d.buffer[:d.readMode])
		}

	case scratchpadReading:
		if d.bus.Process() == onewire.Success {
			d.state = StateFinished
			d.scratchpadSub = scratchpadBegin
			if d.onFinished != nil {
				d.onFinished(d, OpReadScratchpad, d.currentAddress, FlagNormal)
			}
			d.currentAddress = 0
		}
	}
}

// processWriteScratchpad drives a scratchpad write. d.buffer/d.datalen were
// already prepared by BeginWriteScratchpad.
//
// Grounded on the reference implementation's processWriteScratchpad
// (ds18b20.c).
func (d *Dev) processWriteScratchpad() {
	switch d.scratchpadSub {
	case scratchpadReading:
		// A read happened to be mid-flight (sharing scratchpadSub with
		// processReadScratchpad) when a write was requested; ignored, as
		// in the reference implementation, since Begin* already rejected
		// any overlapping request via idle().

	case scratchpadBegin:
		d.bus.Start()
		d.scratchpadSub = scratchpadStart

	case scratchpadStart:
		switch d.bus.Process() {
		case onewire.Success:
			d.scratchpadSub = scratchpadWrite
			d.port.RestartTimer()
		case onewire.Failed:
			d.scratchpadSub = scratchpadBegin
		}

	case scratchpadWrite:
		if d.timerPassed(1000) {
			d.bus.Write(d.buffer[:d.datalen])
			d.scratchpadSub = scratchpadProcessing
		}

	case scratchpadProcessing:
		if d.bus.Process() == onewire.Success {
			d.state = StateFinished
			d.scratchpadSub = scratchpadBegin
			if d.onFinished != nil {
				d.onFinished(d, OpWriteScratchpad, 0, FlagNormal)
			}
			d.currentAddress = 0
		}
	}
}
