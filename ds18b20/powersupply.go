// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ds18b20

import "periph.io/x/onewire/v3/onewire"

type powerSubstate int

const (
	powerStart powerSubstate = iota
	powerWriting
	powerProcess
	powerRead
)

// processReadPowerSupply drives the parasite-power test. It broadcasts to
// every device on the bus (no ROM matching): any parasite-powered device
// holds the line low through the read slot, any externally-powered device
// releases it.
//
// Grounded on the reference implementation's processReadPowerSupply
// (ds18b20.c), with the function opcode corrected to cmdReadPowerSupply
// (0xB4); the reference implementation issued cmdRecallEeprom (0xB8) here
// instead (see DESIGN.md).
func (d *Dev) processReadPowerSupply() {
	switch d.powerSub {
	case powerStart:
		switch d.bus.Process() {
		case onewire.NothingToDo:
			d.bus.Start()
		case onewire.Success:
			d.powerSub = powerWriting
			d.port.RestartTimer()
		}

	case powerWriting:
		if d.timerPassed(1000) {
			d.writeCommand(cmdReadPowerSupply, d.currentAddress, nil)
			d.powerSub = powerProcess
			d.temp[0] = 0
		}

	case powerProcess:
		if d.bus.Process() == onewire.Success {
			d.bus.Read(d.temp[:])
			d.powerSub = powerRead
		}

	case powerRead:
		if d.bus.Process() == onewire.Success {
			d.state = StateFinished
			d.powerSub = powerStart
			if d.onFinished != nil {
				flag := FlagNoParasitic
				if d.temp[0] == 0 {
					flag = FlagParasitic
				}
				d.onFinished(d, OpReadPowerSupply, d.currentAddress, flag)
			}
			d.currentAddress = 0
		}
	}
}
