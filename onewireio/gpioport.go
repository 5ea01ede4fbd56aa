// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewireio

import (
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/onewire/v3/onewire"
)

// GPIOPort adapts a single gpio.PinIO into an onewire.Port, for 1-Wire
// buses driven directly from a host GPIO (as opposed to a dedicated 1-Wire
// bus master peripheral). It assumes an external pull-up resistor on the
// line, per the 1-Wire electrical spec, and never drives the pin high
// itself.
//
// Grounded on the gpio.PinIO adapters in this module's retrieved pack
// (e.g. periph-host/ftdi's dbusPinSync, periph-host/gpioioctl's GPIOLine)
// and on bitbang.I2C's use of a free-running clock for sub-millisecond
// protocol timing.
type GPIOPort struct {
	pin   gpio.PinIO
	level onewire.Level
	start time.Time
}

// NewGPIOPort constructs a GPIOPort driving pin. pin must already be
// registered and opened by the host package the caller is using (e.g.
// gpioreg.ByName); GPIOPort does not perform board bring-up itself.
func NewGPIOPort(pin gpio.PinIO) *GPIOPort {
	return &GPIOPort{pin: pin}
}

// SetDir implements onewire.Port.
func (p *GPIOPort) SetDir(dir onewire.Direction) {
	if dir == onewire.Output {
		l := gpio.Low
		if p.level == onewire.High {
			l = gpio.High
		}
		p.pin.Out(l)
		return
	}
	p.pin.In(gpio.PullNoChange, gpio.NoEdge)
}

// SetLevel implements onewire.Port. It only takes effect once SetDir
// switches the pin to Output; 1-Wire never drives the line high itself, so
// in practice this is only ever called with onewire.Low.
func (p *GPIOPort) SetLevel(level onewire.Level) {
	p.level = level
}

// ReadLevel implements onewire.Port.
func (p *GPIOPort) ReadLevel() onewire.Level {
	if p.pin.Read() == gpio.High {
		return onewire.High
	}
	return onewire.Low
}

// RestartTimer implements onewire.Port.
func (p *GPIOPort) RestartTimer() {
	p.start = time.Now()
}

// ReadTimer implements onewire.Port. It reports microseconds elapsed since
// the last RestartTimer, saturating at the 16-bit range the link and device
// layers compare against — well above any threshold either one uses.
func (p *GPIOPort) ReadTimer() uint16 {
	us := time.Since(p.start).Microseconds()
	if us > 0xFFFF {
		us = 0xFFFF
	}
	return uint16(us)
}
