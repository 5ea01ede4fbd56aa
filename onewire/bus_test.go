// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire_test

import (
	"testing"

	"periph.io/x/onewire/v3/onewire"
	"periph.io/x/onewire/v3/onewiretest"
)

func TestProcessIdleIsNothingToDo(t *testing.T) {
	port := &onewiretest.Port{}
	b := onewire.New(0, port)
	for i := 0; i < 3; i++ {
		if got := b.Process(); got != onewire.NothingToDo {
			t.Fatalf("Process() on idle bus = %v, want NothingToDo", got)
		}
	}
}

func TestResetWithPresence(t *testing.T) {
	port := &onewiretest.Port{
		TickStep: 500,
		Pulldown: onewiretest.PresenceWindow(0, 0xffff), // low for the whole release window
	}
	var sawPresence bool
	b := onewire.New(0, port, onewire.WithPresenceCallback(func(*onewire.Bus) { sawPresence = true }))
	b.Start()
	res := onewiretest.RunUntil(10, b.Process)
	if res != onewire.Success {
		t.Fatalf("reset result = %v, want Success", res)
	}
	if !sawPresence {
		t.Fatal("presence callback was not invoked")
	}
}

func TestResetNoPresenceIgnoredByDefault(t *testing.T) {
	port := &onewiretest.Port{TickStep: 500}
	b := onewire.New(0, port)
	b.Start()
	res := onewiretest.RunUntil(10, b.Process)
	if res != onewire.Success {
		t.Fatalf("reset result = %v, want Success (absence is silently ignored by default)", res)
	}
}

func TestResetNoPresenceError(t *testing.T) {
	port := &onewiretest.Port{TickStep: 500}
	b := onewire.New(0, port, onewire.WithNoDevicesError())
	b.Start()
	res := onewiretest.RunUntil(10, b.Process)
	if res != onewire.Failed {
		t.Fatalf("reset result = %v, want Failed", res)
	}
	nde, ok := b.LastError().(onewire.NoDevicesError)
	if !ok || !nde.NoDevices() {
		t.Fatalf("LastError() = %v, want a NoDevicesError", b.LastError())
	}
}

func TestWriteCompletes(t *testing.T) {
	port := &onewiretest.Port{TickStep: 500}
	b := onewire.New(0, port)

	b.Write([]byte{0xa5})
	if res := onewiretest.RunUntil(100, b.Process); res != onewire.Success {
		t.Fatalf("write result = %v, want Success", res)
	}
}

func TestReadOnlyOrsBitsIn(t *testing.T) {
	// Every sampled slot reads High (no device ever pulls the line low),
	// so a Read must only ever set bits, never clear the ones the caller
	// pre-seeded in the buffer.
	port := &onewiretest.Port{TickStep: 500}
	b := onewire.New(0, port)

	buf := []byte{0x0f}
	b.Read(buf)
	if res := onewiretest.RunUntil(100, b.Process); res != onewire.Success {
		t.Fatalf("read result = %v, want Success", res)
	}
	if buf[0] != 0xff {
		t.Fatalf("buf[0] = %#x, want 0xff (OR of pre-seeded 0x0f and all-high samples)", buf[0])
	}
}

func TestSearchSingleDevice(t *testing.T) {
	const addr = uint64(0x330000000001d228)

	var readCount int
	port := &onewiretest.Port{
		TickStep: 500,
		Pulldown: func(uint16) bool {
			idx := readCount
			readCount++
			if idx == 0 {
				// Presence pulse.
				return true
			}
			bitPos := (idx - 1) / 2
			phase := (idx - 1) % 2 // 0: direct bit, 1: complement
			bit := (addr >> uint(bitPos)) & 1
			if phase == 0 {
				return bit == 0
			}
			return bit == 1
		},
	}

	var done uint64
	b := onewire.New(0, port, onewire.WithSearchDoneCallback(func(bus *onewire.Bus) {
		done = bus.Address()
	}))
	b.Search(false)
	res := onewiretest.RunUntil(4000, b.Process)
	if res != onewire.Success {
		t.Fatalf("search result = %v, want Success", res)
	}
	if done != addr {
		t.Fatalf("search found %#016x, want %#016x", done, addr)
	}
	if b.LastDiscrepancy() != 0 {
		t.Fatalf("LastDiscrepancy() = %d, want 0 after a clean single-device search", b.LastDiscrepancy())
	}
}

func TestSearchNoDevices(t *testing.T) {
	port := &onewiretest.Port{TickStep: 500}
	b := onewire.New(0, port)
	b.Search(false)
	res := onewiretest.RunUntil(100, b.Process)
	if res != onewire.Success {
		t.Fatalf("search result = %v, want Success (empty round)", res)
	}
	if b.LastDiscrepancy() != 0 {
		t.Fatalf("LastDiscrepancy() = %d, want 0", b.LastDiscrepancy())
	}
}
