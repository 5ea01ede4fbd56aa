// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

import "testing"

func TestCRC8(t *testing.T) {
	// A known-good 8-byte DS18B20 scratchpad prefix and its CRC, checked
	// against the reference implementation's byte-by-byte onewireCrc.
	data := []byte{0x50, 0x05, 0x4b, 0x46, 0x7f, 0xff, 0x0c, 0x10}
	if got, want := CRC8(data), byte(0x1c); got != want {
		t.Fatalf("CRC8(%x) = %#x, want %#x", data, got, want)
	}
}

func TestCRC8SelfCheck(t *testing.T) {
	data := []byte{0x50, 0x05, 0x4b, 0x46, 0x7f, 0xff, 0x0c, 0x10}
	crc := CRC8(data)
	full := append(append([]byte{}, data...), crc)
	// Appending the correct CRC and running CRC8 over the whole buffer
	// always yields zero: the classic self-check property of this CRC.
	if got := CRC8(full); got != 0 {
		t.Fatalf("CRC8(data+crc) = %#x, want 0", got)
	}
}

func TestCRC8Empty(t *testing.T) {
	if got := CRC8(nil); got != 0 {
		t.Fatalf("CRC8(nil) = %#x, want 0", got)
	}
}
