// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

type writeSubstate int

const (
	writeBegin writeSubstate = iota
	writeHigh1
	writeHigh2
	writeLow1
)

type readSubstate int

const (
	readBegin readSubstate = iota
	read1
	read2
	read3
)

// advanceCursor moves the bit/byte cursor forward one position and reports
// whether the whole buffer has now been consumed. On completion it resets
// both cursors to 0, matching the reference implementation's behaviour of
// leaving a Bus ready for the next Write/Read without an extra reset.
func (b *Bus) advanceCursor() (done bool) {
	b.bitIndex++
	if b.bitIndex >= b.bitLength {
		b.bitIndex = 0
		b.byteIndex++
		if b.byteIndex >= len(b.buffer) {
			b.byteIndex = 0
			return true
		}
	}
	return false
}

// processWrite drives one write slot per call. Each byte is transmitted
// LSB-first; bitLength is 8 for ordinary writes and is narrowed to 1 by the
// ROM search sub-machine when writing a single direction bit.
//
// Grounded on the reference implementation's processWrite (onewire.c).
func (b *Bus) processWrite() Result {
	switch b.writeSub {
	case writeBegin:
		data := b.buffer[b.byteIndex]
		bit := data & (1 << uint(b.bitIndex))
		b.port.SetLevel(Low)
		b.port.SetDir(Output)
		b.port.RestartTimer()
		if bit == 0 {
			b.writeSub = writeLow1
		} else {
			b.writeSub = writeHigh1
		}
		return Working

	case writeHigh1:
		if timerPassed(b.port, WriteHighLowTimeUS) {
			b.port.SetDir(Input)
			b.port.RestartTimer()
			b.writeSub = writeHigh2
		}
		return Working

	case writeHigh2:
		if timerPassed(b.port, WriteHighReleaseTimeUS) {
			if b.advanceCursor() {
				b.writeSub = writeBegin
				return Success
			}
			b.writeSub = writeBegin
		}
		return Working

	case writeLow1:
		if timerPassed(b.port, WriteLowLowTimeUS) {
			b.port.SetDir(Input)
			if b.advanceCursor() {
				b.writeSub = writeBegin
				return Success
			}
			b.writeSub = writeBegin
		}
		return Working
	}
	return Working
}

// processRead drives one read slot per call. Because the slot samples the
// line after re-releasing it to the pull-up, Read's caller must zero buf
// first: bits are only ever ORed in, never cleared.
//
// Grounded on the reference implementation's processRead (onewire.c).
func (b *Bus) processRead() Result {
	switch b.readSub {
	case readBegin:
		b.port.SetDir(Input)
		b.port.RestartTimer()
		b.readSub = read1
		return Working

	case read1:
		if timerPassed(b.port, ReadBeginTimeUS) {
			b.port.SetLevel(Low)
			b.port.SetDir(Output)
			b.port.RestartTimer()
			b.readSub = read2
		}
		return Working

	case read2:
		if timerPassed(b.port, ReadLowTimeUS) {
			b.port.SetDir(Input)
			var bit byte
			if b.port.ReadLevel() == High {
				bit = 1
			}
			b.buffer[b.byteIndex] |= bit << uint(b.bitIndex)

			if b.advanceCursor() {
				b.readSub = readBegin
				return Success
			}
			b.port.RestartTimer()
			b.readSub = read3
			return Working
		}
		return Working

	case read3:
		if timerPassed(b.port, ReadWaitTimeUS) {
			b.readSub = read1
		}
		return Working
	}
	return Working
}
