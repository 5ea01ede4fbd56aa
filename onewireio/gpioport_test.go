// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewireio

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/onewire/v3/onewire"
)

// fakePin is a minimal gpio.PinIO, in the style of the adapters this
// package itself is modelled on (e.g. periph-host/ftdi's dbusPinSync).
type fakePin struct {
	level gpio.Level
	dir   gpio.Pull
}

func (p *fakePin) String() string                            { return "fakePin" }
func (p *fakePin) Halt() error                               { return nil }
func (p *fakePin) Name() string                              { return "fakePin" }
func (p *fakePin) Number() int                               { return 0 }
func (p *fakePin) Function() string                          { return "" }
func (p *fakePin) In(pull gpio.Pull, e gpio.Edge) error       { p.dir = pull; return nil }
func (p *fakePin) Read() gpio.Level                           { return p.level }
func (p *fakePin) WaitForEdge(t time.Duration) bool           { return false }
func (p *fakePin) DefaultPull() gpio.Pull                     { return gpio.PullUp }
func (p *fakePin) Pull() gpio.Pull                            { return p.dir }
func (p *fakePin) Out(l gpio.Level) error                     { p.level = l; return nil }
func (p *fakePin) PWM(d gpio.Duty, f physic.Frequency) error  { return nil }

func TestGPIOPortDrivesLevelOnOutput(t *testing.T) {
	pin := &fakePin{}
	port := NewGPIOPort(pin)

	port.SetLevel(onewire.Low)
	port.SetDir(onewire.Output)
	if pin.Read() != gpio.Low {
		t.Fatalf("pin level = %v, want Low", pin.Read())
	}
}

func TestGPIOPortReadsInputLevel(t *testing.T) {
	pin := &fakePin{level: gpio.High}
	port := NewGPIOPort(pin)

	port.SetDir(onewire.Input)
	if got := port.ReadLevel(); got != onewire.High {
		t.Fatalf("ReadLevel() = %v, want High", got)
	}
}

func TestGPIOPortTimerAdvances(t *testing.T) {
	pin := &fakePin{}
	port := NewGPIOPort(pin)

	port.RestartTimer()
	time.Sleep(time.Millisecond)
	if got := port.ReadTimer(); got == 0 {
		t.Fatalf("ReadTimer() = 0 after a millisecond of real time, want > 0")
	}
}
