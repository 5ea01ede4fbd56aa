// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

// Timing constants, in microseconds, from the Dallas/Maxim 1-Wire
// datasheet minima. Names mirror the reference C implementation's
// ONEWIRE_* macros.
const (
	// ResetTimeUS is how long the line is held low to issue a reset.
	ResetTimeUS = 480
	// ReleaseTimeUS is how long after releasing the line a presence pulse
	// is sampled.
	ReleaseTimeUS = 80
	// WaitTimeUS is the additional wait after sampling presence so the
	// reset slot totals at least ResetTimeUS+ReleaseTimeUS+WaitTimeUS
	// (≥960 µs) before the next slot may begin.
	WaitTimeUS = 400

	// WriteHighLowTimeUS is how long the line is held low to write a 1 bit.
	WriteHighLowTimeUS = 10
	// WriteHighReleaseTimeUS is the recovery time after releasing for a
	// written 1 bit.
	WriteHighReleaseTimeUS = 55
	// WriteLowLowTimeUS is how long the line is held low to write a 0 bit;
	// the release itself provides the slot's recovery time.
	WriteLowLowTimeUS = 65

	// ReadBeginTimeUS is the release period before a read slot pulls the
	// line low.
	ReadBeginTimeUS = 2
	// ReadLowTimeUS is how long the line is pulled low to initiate a read
	// slot.
	ReadLowTimeUS = 2
	// ReadWaitTimeUS is the recovery time after sampling a read bit.
	ReadWaitTimeUS = 50
)

// Search command bytes, unchanged from the DS18B20/1-Wire command set.
const (
	cmdSearchROM      = 0xF0
	cmdSearchROMAlarm = 0xEC
)
