// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ds18b20

import (
	"encoding/binary"
	"errors"

	"periph.io/x/onewire/v3/onewire"
)

// bufferSize is the largest buffer a single transaction needs: one ROM
// command byte, an 8-byte match-ROM address, one function command byte,
// and a 3-byte scratchpad write (or a 9-byte scratchpad read).
const bufferSize = 13

// FamilyCode is the DS18B20's 1-Wire family code, the low byte of every
// genuine DS18B20's ROM address.
const FamilyCode = 0x28

// Conversion times, in microseconds, for each resolution setting. Each is
// rounded up from the DS18B20 datasheet's maximum conversion time (93.75,
// 187.5, 375 and 750 ms).
const (
	ConvertTimeRes9US  = 95000
	ConvertTimeRes10US = 190000
	ConvertTimeRes11US = 400000
	ConvertTimeRes12US = 800000
)

// Function command opcodes.
const (
	cmdReadROM         = 0x33
	cmdMatchROM        = 0x55
	cmdSkipROM         = 0xCC
	cmdConvert         = 0x44
	cmdWriteScratchpad = 0x4E
	cmdReadScratchpad  = 0xBE
	cmdCopyScratchpad  = 0x48
	cmdRecallEeprom    = 0xB8
	// cmdReadPowerSupply is 0xB4 per the DS18B20 datasheet. The reference
	// implementation issued cmdRecallEeprom (0xB8) here instead, which
	// never elicits the parasite-power read slot from real hardware; fixed
	// here (see DESIGN.md).
	cmdReadPowerSupply = 0xB4
)

// Resolution selects the DS18B20's ADC resolution, encoded exactly as the
// sensor's configuration register expects it.
type Resolution byte

const (
	Resolution9Bit  Resolution = 0x1F
	Resolution10Bit Resolution = 0x3F
	Resolution11Bit Resolution = 0x5F
	Resolution12Bit Resolution = 0x7F
)

func (r Resolution) convertTimeUS() uint32 {
	switch r {
	case Resolution9Bit:
		return ConvertTimeRes9US
	case Resolution10Bit:
		return ConvertTimeRes10US
	case Resolution11Bit:
		return ConvertTimeRes11US
	case Resolution12Bit:
		return ConvertTimeRes12US
	}
	return 0
}

// ReadMode selects how many scratchpad bytes ReadScratchpad reads, trading
// transaction time for how much of the scratchpad is returned.
type ReadMode byte

const (
	ReadTemperature ReadMode = 0x02
	ReadUserByte1   ReadMode = 0x03
	ReadUserByte2   ReadMode = 0x04
	ReadConfig      ReadMode = 0x05
	ReadCRC         ReadMode = 0x09
)

// Operation identifies which transaction a Finished callback refers to.
type Operation int

const (
	OpConvert Operation = iota
	OpReadScratchpad
	OpReadRom
	OpWriteScratchpad
	OpCopyScratchpad
	OpRecallEeprom
	OpReadPowerSupply
)

func (op Operation) String() string {
	switch op {
	case OpConvert:
		return "Convert"
	case OpReadScratchpad:
		return "ReadScratchpad"
	case OpReadRom:
		return "ReadRom"
	case OpWriteScratchpad:
		return "WriteScratchpad"
	case OpCopyScratchpad:
		return "CopyScratchpad"
	case OpRecallEeprom:
		return "RecallEeprom"
	case OpReadPowerSupply:
		return "ReadPowerSupply"
	default:
		return "Operation(?)"
	}
}

// CallbackFlags carries operation-specific detail alongside a Finished
// callback. It is only meaningful for OpReadPowerSupply.
type CallbackFlags int

const (
	FlagNormal CallbackFlags = iota
	FlagNoParasitic
	FlagParasitic
)

// State is the device layer's top-level status.
type State int

const (
	StateIdle State = iota
	StateConvert
	StateReadScratchpad
	StateWriteScratchpad
	StateReadRom
	StateCopyScratchpad
	StateRecallEeprom
	StateReadPowersupply
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateConvert:
		return "Convert"
	case StateReadScratchpad:
		return "ReadScratchpad"
	case StateWriteScratchpad:
		return "WriteScratchpad"
	case StateReadRom:
		return "ReadRom"
	case StateCopyScratchpad:
		return "CopyScratchpad"
	case StateRecallEeprom:
		return "RecallEeprom"
	case StateReadPowersupply:
		return "ReadPowersupply"
	case StateFinished:
		return "Finished"
	default:
		return "State(?)"
	}
}

// ErrBusy is returned by every Begin* method when a transaction is already
// in progress.
var ErrBusy = errors.New("ds18b20: device busy")

// CRCError is implemented by errors reporting a scratchpad CRC mismatch.
// Modelled on onewire.NoDevicesError.
type CRCError interface {
	error
	CRC() bool
}

type crcError string

func (e crcError) Error() string { return string(e) }
func (e crcError) CRC() bool     { return true }

const errCRCMismatch = crcError("ds18b20: scratchpad CRC mismatch")

// Option configures a Dev at construction time.
type Option func(*Dev)

// WithFinishedCallback registers a callback invoked synchronously, from
// within Process, the instant a transaction completes.
func WithFinishedCallback(cb func(d *Dev, op Operation, addr uint64, flags CallbackFlags)) Option {
	return func(d *Dev) { d.onFinished = cb }
}

// Dev drives DS18B20 transactions over a Bus. One Dev can address any
// device on the bus by ROM code, so a single Dev is enough for a bus with
// many sensors; addr == 0 skips ROM matching and broadcasts to whatever
// single device is listening.
type Dev struct {
	bus  *onewire.Bus
	port onewire.Port

	onFinished func(d *Dev, op Operation, addr uint64, flags CallbackFlags)

	currentAddress uint64
	resolution     Resolution
	readMode       ReadMode

	state State

	convertSub    convertSubstate
	scratchpadSub scratchpadSubstate
	readRomSub    readRomSubstate
	copySub       copySubstate
	recallSub     recallSubstate
	powerSub      powerSubstate

	datalen int
	buffer  [bufferSize]byte
	temp    [1]byte

	// passedMillis accumulates elapsed milliseconds for timerPassed. It is
	// a field on Dev, not a function-local static, so that two Devs
	// sharing a process (or a test constructing several Devs) never share
	// timing state (see DESIGN.md).
	passedMillis uint32
}

// New constructs a Dev driving transactions through bus using port for its
// own long-delay bookkeeping (conversion waits, EEPROM copy waits). port
// must be the same Port given to onewire.New(id, port, ...) for bus: the
// device layer borrows the hardware timer directly between bus operations,
// the same way the link layer does during a transfer.
func New(bus *onewire.Bus, port onewire.Port, opts ...Option) *Dev {
	d := &Dev{bus: bus, port: port, resolution: Resolution12Bit}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// String implements fmt.Stringer.
func (d *Dev) String() string { return "ds18b20.Dev" }

// State returns the current top-level transaction state.
func (d *Dev) State() State { return d.state }

// SetReadMode controls how many scratchpad bytes ReadScratchpad reads.
func (d *Dev) SetReadMode(mode ReadMode) { d.readMode = mode }

// timerPassed reports whether thresholdUS microseconds have elapsed since
// the caller last restarted the port timer. Each call that finds the timer
// at 1000 µs or more restarts it and adds one millisecond to passedMillis,
// which is cleared when timerPassed returns true. It shares the
// Bus's port timer directly rather than going through Process, which is
// safe because only one of the two layers touches the port at a time:
// this is only ever called between completed Bus operations.
//
// Grounded on the reference implementation's ds_timerPassed (ds18b20.c),
// with its function-local static millisecond accumulator turned into a Dev
// field so concurrent Devs (or repeated tests) don't share timing state.
func (d *Dev) timerPassed(thresholdUS uint32) bool {
	t := d.port.ReadTimer()
	if t >= 1000 {
		d.port.RestartTimer()
		d.passedMillis++
	}
	ms := thresholdUS / 1000
	us := thresholdUS - ms*1000
	if d.passedMillis >= ms && uint32(t) >= us {
		d.passedMillis = 0
		return true
	}
	return false
}

func clearBuffer(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// prepareBuffer lays out a ROM-selection prefix (match or skip) followed by
// cmd and any params, and returns the number of bytes written.
func (d *Dev) prepareBuffer(cmd byte, romAddress uint64, params []byte) int {
	i := 0
	if romAddress != 0 {
		d.buffer[i] = cmdMatchROM
		i++
		binary.LittleEndian.PutUint64(d.buffer[i:i+8], romAddress)
		i += 8
	} else {
		d.buffer[i] = cmdSkipROM
		i++
	}
	d.buffer[i] = cmd
	i++
	i += copy(d.buffer[i:], params)
	return i
}

func (d *Dev) writeCommand(cmd byte, romAddress uint64, params []byte) {
	n := d.prepareBuffer(cmd, romAddress, params)
	d.bus.Write(d.buffer[:n])
}

// Process advances whichever transaction is in progress by one cooperative
// step and returns the resulting top-level state. Call it repeatedly from
// the same loop driving the underlying Bus.
func (d *Dev) Process() State {
	switch d.state {
	case StateIdle, StateFinished:
	case StateConvert:
		d.processConvert()
	case StateReadScratchpad:
		d.processReadScratchpad()
	case StateWriteScratchpad:
		d.processWriteScratchpad()
	case StateReadRom:
		d.processReadROM()
	case StateCopyScratchpad:
		d.processCopyScratchpad()
	case StateRecallEeprom:
		d.processRecallEeprom()
	case StateReadPowersupply:
		d.processReadPowerSupply()
	}
	return d.state
}

func (d *Dev) idle() bool { return d.state == StateIdle || d.state == StateFinished }

// BeginConversion starts a temperature conversion on the device at address,
// or the sole device on the bus if address is 0.
func (d *Dev) BeginConversion(address uint64) error {
	if !d.idle() {
		return ErrBusy
	}
	d.currentAddress = address
	d.state = StateConvert
	return nil
}

// BeginReadScratchpad starts reading the scratchpad of the device at
// address, governed by the Dev's current ReadMode.
func (d *Dev) BeginReadScratchpad(address uint64) error {
	if !d.idle() {
		return ErrBusy
	}
	d.currentAddress = address
	d.state = StateReadScratchpad
	return nil
}

// BeginReadROM starts a direct ROM readout. Only valid when exactly one
// device is present on the bus: it does not perform ROM matching.
func (d *Dev) BeginReadROM() error {
	if !d.idle() {
		return ErrBusy
	}
	d.state = StateReadRom
	return nil
}

// BeginWriteScratchpad starts writing bytes (the two user bytes followed by
// the configuration register) to the scratchpad of the device at address.
func (d *Dev) BeginWriteScratchpad(bytes []byte, address uint64) error {
	if !d.idle() {
		return ErrBusy
	}
	d.currentAddress = address
	d.datalen = d.prepareBuffer(cmdWriteScratchpad, address, bytes)
	d.state = StateWriteScratchpad
	return nil
}

// BeginSetResolution writes resolution into the device's configuration
// register alongside the two supplied user bytes, and records resolution so
// BeginConversion waits the right amount of time afterwards.
func (d *Dev) BeginSetResolution(resolution Resolution, userBytes [2]byte, address uint64) error {
	if !d.idle() {
		return ErrBusy
	}
	d.resolution = resolution
	return d.BeginWriteScratchpad([]byte{userBytes[0], userBytes[1], byte(resolution)}, address)
}

// BeginCopyScratchpad starts copying the device's scratchpad to its EEPROM.
func (d *Dev) BeginCopyScratchpad(address uint64) error {
	if !d.idle() {
		return ErrBusy
	}
	d.currentAddress = address
	d.state = StateCopyScratchpad
	return nil
}

// BeginRecallEeprom starts reloading the device's scratchpad from its
// EEPROM.
func (d *Dev) BeginRecallEeprom(address uint64) error {
	if !d.idle() {
		return ErrBusy
	}
	d.currentAddress = address
	d.state = StateRecallEeprom
	return nil
}

// BeginReadPowerSupply starts a parasite-power test across every device on
// the bus (it does not use ROM matching).
func (d *Dev) BeginReadPowerSupply() error {
	if !d.idle() {
		return ErrBusy
	}
	d.state = StateReadPowersupply
	return nil
}

// Wait blocks, calling Process in a tight loop, until the current
// transaction finishes. It exists for callers outside a cooperative loop
// (e.g. a CLI tool) and is never called by the state machine itself.
func (d *Dev) Wait() {
	for d.Process() != StateFinished {
	}
}

// VerifyCRC reports whether the scratchpad buffer's trailing CRC byte
// matches the CRC-8 computed over the bytes preceding it. It is only
// meaningful when ReadMode is ReadCRC; for any narrower read mode there is
// no CRC byte in the buffer to check, so VerifyCRC reports true.
func (d *Dev) VerifyCRC() bool {
	if d.readMode != ReadCRC {
		return true
	}
	n := int(ReadCRC)
	return onewire.CRC8(d.buffer[:n-1]) == d.buffer[n-1]
}

// CheckVerifiedCRC is like VerifyCRC but returns a CRCError instead of a
// bool, for callers that want the uniform error-handling convention used
// elsewhere in this module.
func (d *Dev) CheckVerifiedCRC() error {
	if !d.VerifyCRC() {
		return errCRCMismatch
	}
	return nil
}

// CheckAuthentic reports whether address looks like a genuine DS18B20 ROM
// code rather than a cheaper clone, using the heuristic documented at
// https://github.com/cpetrich/counterfeit_DS18B20: genuine parts always
// read back zero in two of the reserved serial-number bytes.
func CheckAuthentic(address uint64) bool {
	return byte(address) == FamilyCode &&
		byte(address>>40) == 0 &&
		byte(address>>48) == 0
}

// GetTemperature decodes the scratchpad buffer's first two bytes (valid
// after any ReadMode completes, since ReadTemperature is its narrowest
// mode) into degrees Celsius. The 12-bit two's-complement reading is sign
// extended before scaling, unlike the reference implementation's
// ds18b20GetTemperatureFloat, which never sign extended and so reported
// incorrect magnitudes below zero (see DESIGN.md).
func (d *Dev) GetTemperature() float64 {
	// Keep the low 12 bits, sign-extending from bit 11.
	raw := int16(uint16(d.buffer[0])|uint16(d.buffer[1])<<8) << 4 >> 4
	return float64(raw) / 16.0
}
