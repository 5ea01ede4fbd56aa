// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewiretest

import "periph.io/x/onewire/v3/onewire"

// SearchSim is a fake onewire.Port simulating a population of slave ROMs
// that participate in the Maxim ROM search algorithm faithfully: at each
// bit position it reports the true/complement pair its live devices would
// assert, and narrows its live set by the direction bit the master writes
// back — exactly what real 1-Wire silicon does, and unlike Port's scripted
// Pulldown function.
//
// SearchSim tells a reset, a write-0, a write-1, and a read slot's own
// low-initiation pulse apart by the one thing that actually differs
// between them on the wire: how long the line was held low. It needs no
// side channel into Bus's internals to do this.
type SearchSim struct {
	// ROMs is the population that responds to a normal search (command
	// 0xF0).
	ROMs []uint64
	// AlarmROMs is the subset that responds to an alarm search (command
	// 0xEC). Nil means no device is alarmed.
	AlarmROMs []uint64

	Ops []Op

	dir   onewire.Direction
	timer uint16

	phase   simPhase
	alive   []uint64
	bitPos  uint
	pairIdx int

	cmdBits int
	cmdByte byte
}

type simPhase int

const (
	simAwaitReset simPhase = iota
	simAwaitPresence
	simAwaitCommand
	simAwaitReadPair
	simAwaitDirection
)

const (
	simCmdSearch      = 0xf0
	simCmdSearchAlarm = 0xec
)

func (s *SearchSim) SetDir(dir onewire.Direction) {
	if dir == onewire.Input && s.dir == onewire.Output {
		s.onLowPulseEnd(s.timer)
	}
	s.dir = dir
	s.Ops = append(s.Ops, Op{Kind: "SetDir", Dir: dir})
}

func (s *SearchSim) SetLevel(level onewire.Level) {
	s.Ops = append(s.Ops, Op{Kind: "SetLevel", Level: level})
}

func (s *SearchSim) ReadLevel() onewire.Level {
	lvl := s.sampleLevel()
	s.Ops = append(s.Ops, Op{Kind: "ReadLevel", Level: lvl})
	return lvl
}

func (s *SearchSim) RestartTimer() {
	s.timer = 0
	s.Ops = append(s.Ops, Op{Kind: "RestartTimer"})
}

func (s *SearchSim) ReadTimer() uint16 {
	s.timer++
	s.Ops = append(s.Ops, Op{Kind: "ReadTimer", Timer: s.timer})
	return s.timer
}

// onLowPulseEnd fires the instant the line is released after having been
// driven low for pulse microseconds. The duration alone identifies which
// protocol slot just happened: 480 is a reset, 10 or 65 is a written bit,
// 2 is a read slot's own low-initiation (not itself bit-bearing — the
// sampled value comes from the ReadLevel call that follows).
func (s *SearchSim) onLowPulseEnd(pulse uint16) {
	switch {
	case pulse >= onewire.ResetTimeUS:
		s.phase = simAwaitPresence

	case s.phase == simAwaitCommand:
		if pulseIsOne(pulse) {
			s.cmdByte |= 1 << uint(s.cmdBits)
		}
		s.cmdBits++
		if s.cmdBits == 8 {
			s.startRound()
		}

	case s.phase == simAwaitDirection:
		var bit uint64
		if pulseIsOne(pulse) {
			bit = 1
		}
		s.narrow(bit)
		s.bitPos++
		if s.bitPos == 64 {
			// The round is over; the next reset starts a fresh one.
			s.phase = simAwaitReset
		} else {
			s.phase = simAwaitReadPair
			s.pairIdx = 0
		}
	}
}

func pulseIsOne(pulse uint16) bool {
	return pulse <= (onewire.WriteHighLowTimeUS+onewire.WriteLowLowTimeUS)/2
}

func (s *SearchSim) startRound() {
	if s.cmdByte == simCmdSearchAlarm {
		s.alive = append([]uint64(nil), s.AlarmROMs...)
	} else {
		s.alive = append([]uint64(nil), s.ROMs...)
	}
	s.bitPos = 0
	s.cmdBits = 0
	s.cmdByte = 0
	s.phase = simAwaitReadPair
	s.pairIdx = 0
}

func (s *SearchSim) narrow(bit uint64) {
	kept := s.alive[:0]
	for _, rom := range s.alive {
		if (rom>>s.bitPos)&1 == bit {
			kept = append(kept, rom)
		}
	}
	s.alive = kept
}

func (s *SearchSim) sampleLevel() onewire.Level {
	switch s.phase {
	case simAwaitPresence:
		s.phase = simAwaitCommand
		s.cmdBits = 0
		s.cmdByte = 0
		if len(s.ROMs) == 0 && len(s.AlarmROMs) == 0 {
			return onewire.High
		}
		return onewire.Low

	case simAwaitReadPair:
		var anyZero, anyOne bool
		for _, rom := range s.alive {
			if (rom>>s.bitPos)&1 == 0 {
				anyZero = true
			} else {
				anyOne = true
			}
		}
		var lvl onewire.Level
		if s.pairIdx == 0 {
			lvl = onewire.Level(!anyZero) // id_bit: pulled low by any 0-bit device
		} else {
			lvl = onewire.Level(!anyOne) // cmp_id_bit: pulled low by any 1-bit device
			s.phase = simAwaitDirection
		}
		s.pairIdx++
		return lvl
	}
	return onewire.High
}
