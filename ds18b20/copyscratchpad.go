// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ds18b20

import "periph.io/x/onewire/v3/onewire"

type copySubstate int

const (
	copyStart copySubstate = iota
	copyWriting
	copyProcess
	copyWait
)

// copyScratchpadWaitUS is how long processCopyScratchpad waits after the
// copy-scratchpad command for the EEPROM write to finish: twice the 10 ms
// maximum write cycle time the DS18B20 datasheet specifies.
const copyScratchpadWaitUS = 20000

// processCopyScratchpad drives copying the scratchpad to EEPROM.
//
// Grounded on the reference implementation's processCopyScratchpad
// (ds18b20.c).
func (d *Dev) processCopyScratchpad() {
	switch d.copySub {
	case copyStart:
		switch d.bus.Process() {
		case onewire.NothingToDo:
			d.bus.Start()
		case onewire.Success:
			d.copySub = copyWriting
			d.port.RestartTimer()
		}

	case copyWriting:
		if d.timerPassed(1000) {
			d.writeCommand(cmdCopyScratchpad, d.currentAddress, nil)
			d.copySub = copyProcess
		}

	case copyProcess:
		if d.bus.Process() == onewire.Success {
			d.copySub = copyWait
			d.port.RestartTimer()
		}

	case copyWait:
		if d.timerPassed(copyScratchpadWaitUS) {
			d.state = StateFinished
			d.copySub = copyStart
			if d.onFinished != nil {
				d.onFinished(d, OpCopyScratchpad, d.currentAddress, FlagNormal)
			}
			d.currentAddress = 0
		}
	}
}
