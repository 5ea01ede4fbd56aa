// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ds18b20

import "periph.io/x/onewire/v3/onewire"

type convertSubstate int

const (
	convertBegin convertSubstate = iota
	convertStart
	convertWrite
	convertProcessing
	convertDelay
)

// processConvert drives a temperature conversion request.
//
// Grounded on the reference implementation's processConvert (ds18b20.c).
func (d *Dev) processConvert() {
	switch d.convertSub {
	case convertBegin:
		d.bus.Start()
		d.convertSub = convertStart

	case convertStart:
		switch d.bus.Process() {
		case onewire.Success:
			d.convertSub = convertWrite
			d.port.RestartTimer()
		case onewire.Failed:
			d.convertSub = convertBegin
		}

	case convertWrite:
		if d.timerPassed(1000) {
			d.writeCommand(cmdConvert, d.currentAddress, nil)
			d.convertSub = convertProcessing
		}

	case convertProcessing:
		if d.bus.Process() == onewire.Success {
			d.convertSub = convertDelay
			d.port.RestartTimer()
		}

	case convertDelay:
		if d.timerPassed(d.resolution.convertTimeUS()) {
			d.state = StateFinished
			d.convertSub = convertBegin
			if d.onFinished != nil {
				d.onFinished(d, OpConvert, 0, FlagNormal)
			}
			d.currentAddress = 0
		}
	}
}
