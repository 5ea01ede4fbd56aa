// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

type searchSubstate int

const (
	searchBegin searchSubstate = iota
	searchWriteCommand
	searchRead
	searchWriteDirection
)

// processSearch drives one step of the Maxim ROM search algorithm,
// composed out of the same processStart/processWrite/processRead
// primitives ordinary transfers use. One full round (searchBegin through
// bitMask wrapping back to 0) discovers at most one ROM address; while
// LastDiscrepancy() is non-zero after a round, the next round starts here
// without returning to the caller.
//
// Grounded on the reference implementation's processSearch (onewire.c).
func (b *Bus) processSearch() Result {
	switch b.searchSub {
	case searchBegin:
		if b.processStart() == Success {
			if b.state == Searching {
				b.searchScratch[0] = cmdSearchROM
			} else {
				b.searchScratch[0] = cmdSearchROMAlarm
			}
			b.buffer = b.searchScratch[:]
			b.bitLength = 8
			b.byteIndex = 0
			b.bitIndex = 0
			b.writeSub = writeBegin
			b.searchSub = searchWriteCommand
		}
		return Working

	case searchWriteCommand:
		if b.processWrite() == Success {
			b.searchScratch[0] = 0
			b.buffer = b.searchScratch[:]
			b.bitLength = 2
			b.byteIndex = 0
			b.bitIndex = 0
			b.readSub = readBegin
			b.searchSub = searchRead
		}
		return Working

	case searchRead:
		if b.processRead() == Success {
			pair := b.searchScratch[0]

			if pair == 0x03 {
				// No device responded to this bit position: the bus went
				// silent mid-round. The round is abandoned; the address
				// accumulated so far is incomplete and the caller
				// discards it.
				b.searchSub = searchBegin
				return Success
			}

			var bit uint64
			if pair == 0x01 || pair == 0x02 {
				bit = uint64(pair & 0x01)
			} else {
				// Discrepancy: both a 0 and a 1 are present at this bit
				// position. While a marked discrepancy lies at a later bit
				// position, repeat last round's choice here (0 if this
				// position is marked, 1 if not). Otherwise, a marked
				// position takes the 1 branch and loses its mark, and an
				// unmarked one takes the 0 branch and is marked to be
				// revisited next round.
				if b.lastDiscrepancy >= (b.bitMask << 1) {
					if b.lastDiscrepancy&b.bitMask == 0 {
						bit = 1
					}
				} else {
					if b.lastDiscrepancy&b.bitMask != 0 {
						bit = 1
					}
					b.lastDiscrepancy ^= b.bitMask
				}
			}

			if bit != 0 {
				b.address |= b.bitMask
			} else {
				b.address &^= b.bitMask
			}

			if bit != 0 {
				b.searchScratch[0] = 1
			} else {
				b.searchScratch[0] = 0
			}
			b.buffer = b.searchScratch[:]
			b.bitLength = 1
			b.byteIndex = 0
			b.bitIndex = 0
			b.writeSub = writeBegin
			b.searchSub = searchWriteDirection
		}
		return Working

	case searchWriteDirection:
		if b.processWrite() == Success {
			b.bitMask <<= 1

			if b.bitMask != 0 {
				b.searchScratch[0] = 0
				b.buffer = b.searchScratch[:]
				b.bitLength = 2
				b.byteIndex = 0
				b.bitIndex = 0
				b.readSub = readBegin
				b.searchSub = searchRead
			} else {
				if b.onSearchDone != nil {
					b.onSearchDone(b)
				}
				b.bitMask = 1
				b.searchSub = searchBegin
				if b.lastDiscrepancy == 0 {
					return Success
				}
			}
		}
		return Working
	}
	return Working
}
