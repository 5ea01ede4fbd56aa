// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ds18b20

import "periph.io/x/onewire/v3/onewire"

type readRomSubstate int

const (
	readRomStart readRomSubstate = iota
	readRomWriting
	readRomProcess
	readRomReading
)

// processReadROM drives a direct ROM readout (no ROM matching: only valid
// with a single device on the bus).
//
// Grounded on the reference implementation's processReadROM (ds18b20.c).
func (d *Dev) processReadROM() {
	switch d.readRomSub {
	case readRomStart:
		switch d.bus.Process() {
		case onewire.NothingToDo:
			d.bus.Start()
		case onewire.Success:
			d.readRomSub = readRomWriting
			d.port.RestartTimer()
		}

	case readRomWriting:
		if d.timerPassed(1000) {
			d.buffer[0] = cmdReadROM
			d.bus.Write(d.buffer[:1])
			d.readRomSub = readRomProcess
		}

	case readRomProcess:
		if d.bus.Process() == onewire.Success {
			d.readRomSub = readRomReading
			clearBuffer(d.buffer[:])
			d.bus.Read(d.buffer[:8])
		}

	case readRomReading:
		if d.bus.Process() == onewire.Success {
			d.state = StateFinished
			d.readRomSub = readRomStart
			if d.onFinished != nil {
				d.onFinished(d, OpReadRom, 0, FlagNormal)
			}
			d.currentAddress = 0
		}
	}
}
