// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ds18b20

import "periph.io/x/onewire/v3/onewire"

type recallSubstate int

const (
	recallStart recallSubstate = iota
	recallWriting
	recallProcess
)

// processRecallEeprom drives reloading the scratchpad from EEPROM. The
// device holds the line low until the recall completes, so this polls a
// single read bit (d.temp) until it comes back non-zero.
//
// Grounded on the reference implementation's processRecallEeprom
// (ds18b20.c).
func (d *Dev) processRecallEeprom() {
	switch d.recallSub {
	case recallStart:
		switch d.bus.Process() {
		case onewire.NothingToDo:
			d.bus.Start()
		case onewire.Success:
			d.recallSub = recallWriting
			d.port.RestartTimer()
		}

	case recallWriting:
		if d.timerPassed(1000) {
			d.writeCommand(cmdRecallEeprom, d.currentAddress, nil)
			d.recallSub = recallProcess
			d.temp[0] = 0
		}

	case recallProcess:
		if d.bus.Process() == onewire.Success {
			if d.temp[0] != 0 {
				d.state = StateFinished
				d.recallSub = recallStart
				if d.onFinished != nil {
					d.onFinished(d, OpRecallEeprom, d.currentAddress, FlagNormal)
				}
				d.currentAddress = 0
			} else {
				d.bus.Read(d.temp[:])
			}
		}
	}
}
