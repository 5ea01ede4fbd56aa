// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ds18b20

import (
	"testing"

	"periph.io/x/onewire/v3/onewire"
	"periph.io/x/onewire/v3/onewiretest"
)

func TestGetTemperaturePositive(t *testing.T) {
	d := &Dev{}
	// +25.0625 C, the DS18B20 datasheet's own worked example.
	d.buffer[0] = 0x91
	d.buffer[1] = 0x01
	if got, want := d.GetTemperature(), 25.0625; got != want {
		t.Fatalf("GetTemperature() = %v, want %v", got, want)
	}
}

func TestGetTemperatureNegative(t *testing.T) {
	d := &Dev{}
	// -25.0625 C from the same datasheet table: two's complement of 0x0191.
	d.buffer[0] = 0x6f
	d.buffer[1] = 0xfe
	if got, want := d.GetTemperature(), -25.0625; got != want {
		t.Fatalf("GetTemperature() = %v, want %v", got, want)
	}
}

func TestVerifyCRCOnlyMeaningfulInCRCMode(t *testing.T) {
	d := &Dev{readMode: ReadTemperature}
	d.buffer[0], d.buffer[1] = 0xff, 0xff // garbage; not checked outside ReadCRC mode
	if !d.VerifyCRC() {
		t.Fatal("VerifyCRC() = false outside ReadCRC mode, want true (nothing to check)")
	}
}

func TestVerifyCRCDetectsMismatch(t *testing.T) {
	d := &Dev{readMode: ReadCRC}
	copy(d.buffer[:8], []byte{0x50, 0x05, 0x4b, 0x46, 0x7f, 0xff, 0x0c, 0x10})
	d.buffer[8] = onewire.CRC8(d.buffer[:8])
	if !d.VerifyCRC() {
		t.Fatal("VerifyCRC() = false with a correct trailing CRC byte")
	}
	d.buffer[8] ^= 0xff
	if d.VerifyCRC() {
		t.Fatal("VerifyCRC() = true with a corrupted trailing CRC byte")
	}
}

func TestTimerPassedIsPerInstance(t *testing.T) {
	p1 := &onewiretest.Port{TickStep: 600}
	p2 := &onewiretest.Port{TickStep: 600}
	d1 := &Dev{port: p1}
	d2 := &Dev{port: p2}

	d1.timerPassed(2000)
	d1.timerPassed(2000)
	if d1.passedMillis == 0 {
		t.Fatal("expected d1 to have accumulated at least one millisecond")
	}
	if d2.passedMillis != 0 {
		t.Fatal("d2.passedMillis should be unaffected by d1's ticks; the reference implementation's function-local static accumulator would have let them leak into each other")
	}
}

func TestCheckAuthentic(t *testing.T) {
	cases := []struct {
		addr uint64
		want bool
	}{
		{0x0000000000000028, true},
		{0x0000000000000029, false},   // wrong family code
		{0x00ff000000000028, false},   // non-zero at bit 48
		{0x0000ff0000000028, false},   // non-zero at bit 40
		{0xff00000000000028, true},    // bit 56 is not part of the heuristic
	}
	for _, c := range cases {
		if got := CheckAuthentic(c.addr); got != c.want {
			t.Errorf("CheckAuthentic(%#016x) = %v, want %v", c.addr, got, c.want)
		}
	}
}
