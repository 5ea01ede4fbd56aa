// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewiretest

import "periph.io/x/onewire/v3/onewire"

// Op records one call made against a Port, in order, so tests can assert on
// the exact sequence of pin operations a state machine performs.
type Op struct {
	Kind  string // "SetDir", "SetLevel", "ReadLevel", "RestartTimer", "ReadTimer"
	Dir   onewire.Direction
	Level onewire.Level
	Timer uint16
}

// Port is a fake onewire.Port. It models an open-drain line with an
// external pull-up: ReadLevel reports High whenever neither this side nor
// Pulldown is holding the line low, exactly as a real bus behaves.
//
// The timer is virtual: every ReadTimer call advances it by TickStep (1 if
// unset) rather than measuring wall-clock time, so tests can drive a state
// machine deterministically to any point in its timing budget by counting
// Process calls.
type Port struct {
	Dir   onewire.Direction
	Level onewire.Level // last level passed to SetLevel; meaningful only while Dir == Output

	TickStep uint16
	timer    uint16

	// Pulldown, when non-nil, is consulted on every ReadLevel call with the
	// current virtual timer value and may report the line held low by
	// something downstream — a simulated presence pulse or a search
	// respondent's bit.
	Pulldown func(timer uint16) bool

	Ops []Op
}

// Reset clears the recorded Ops and virtual timer, leaving Dir/Level/
// Pulldown untouched. Useful between sub-tests sharing one Port.
func (p *Port) Reset() {
	p.Ops = nil
	p.timer = 0
}

func (p *Port) SetDir(dir onewire.Direction) {
	p.Dir = dir
	p.Ops = append(p.Ops, Op{Kind: "SetDir", Dir: dir})
}

func (p *Port) SetLevel(level onewire.Level) {
	p.Level = level
	p.Ops = append(p.Ops, Op{Kind: "SetLevel", Level: level})
}

func (p *Port) ReadLevel() onewire.Level {
	lvl := onewire.High
	switch {
	case p.Dir == onewire.Output && p.Level == onewire.Low:
		lvl = onewire.Low
	case p.Pulldown != nil && p.Pulldown(p.timer):
		lvl = onewire.Low
	}
	p.Ops = append(p.Ops, Op{Kind: "ReadLevel", Level: lvl})
	return lvl
}

func (p *Port) RestartTimer() {
	p.timer = 0
	p.Ops = append(p.Ops, Op{Kind: "RestartTimer"})
}

func (p *Port) ReadTimer() uint16 {
	step := p.TickStep
	if step == 0 {
		step = 1
	}
	p.timer += step
	p.Ops = append(p.Ops, Op{Kind: "ReadTimer", Timer: p.timer})
	return p.timer
}

// PresenceWindow returns a Pulldown func that holds the line low from tick
// lo (inclusive) to tick hi (exclusive), simulating a slave's presence
// pulse during a reset slot's release phase.
func PresenceWindow(lo, hi uint16) func(timer uint16) bool {
	return func(timer uint16) bool { return timer >= lo && timer < hi }
}

// RunUntil calls step repeatedly, up to max times, until it returns a
// result other than onewire.Working. It returns the final result, or
// onewire.Working if max was reached first — the test's signal that the
// state machine did not converge within the expected tick budget.
func RunUntil(max int, step func() onewire.Result) onewire.Result {
	res := onewire.Working
	for i := 0; i < max && res == onewire.Working; i++ {
		res = step()
	}
	return res
}
