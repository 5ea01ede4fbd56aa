// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

// Result is the outcome of one Bus.Process call.
type Result int

const (
	// NothingToDo means the bus was Idle; Process did not touch any state.
	NothingToDo Result = iota
	// Working means the current operation has not yet completed.
	Working
	// Success means the current operation just completed; the bus state
	// has transitioned back to Idle.
	Success
	// Failed is a terminal negative result. The link layer only produces
	// it for an absent presence pulse, and only when the bus was built
	// with WithNoDevicesError; it is otherwise reserved for the device
	// layer to consume (see periph.io/x/onewire/v3/ds18b20).
	Failed
)

// String implements fmt.Stringer.
func (r Result) String() string {
	switch r {
	case NothingToDo:
		return "NothingToDo"
	case Working:
		return "Working"
	case Success:
		return "Success"
	case Failed:
		return "Failed"
	default:
		return "Result(?)"
	}
}

// State is the top-level link-layer state.
type State int

const (
	// Idle accepts a new request.
	Idle State = iota
	// Starting is running the reset/presence slot.
	Starting
	// Writing is transmitting a buffer.
	Writing
	// Reading is receiving into a buffer.
	Reading
	// Searching is running a normal ROM search round.
	Searching
	// SearchingAlarm is running an alarm-only ROM search round.
	SearchingAlarm
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Starting:
		return "Starting"
	case Writing:
		return "Writing"
	case Reading:
		return "Reading"
	case Searching:
		return "Searching"
	case SearchingAlarm:
		return "SearchingAlarm"
	default:
		return "State(?)"
	}
}

// NoDevicesError is implemented by errors that indicate no slave responded
// with a presence pulse after a reset. Modelled on the NoDevicesError
// interface of the real periph.io/x/periph/conn/onewire package.
type NoDevicesError interface {
	error
	NoDevices() bool
}

type noDevicesError string

func (e noDevicesError) Error() string   { return string(e) }
func (e noDevicesError) NoDevices() bool { return true }

// errNoPresence is returned (wrapped) by LastError after a Starting slot
// that completed without detecting a presence pulse, when the bus was
// constructed with WithNoDevicesError.
const errNoPresence = noDevicesError("onewire: no presence pulse detected")

// Option configures a Bus at construction time.
type Option func(*Bus)

// WithPresenceCallback registers a callback invoked synchronously, from
// within Process, the instant a presence pulse is sampled during a reset
// slot.
func WithPresenceCallback(cb func(*Bus)) Option {
	return func(b *Bus) { b.onPresence = cb }
}

// WithSearchDoneCallback registers a callback invoked synchronously, from
// within Process, once per completed ROM search round, after b.Address()
// has been populated with the round's result.
func WithSearchDoneCallback(cb func(*Bus)) Option {
	return func(b *Bus) { b.onSearchDone = cb }
}

// WithNoDevicesError makes Process return Failed (and record a
// NoDevicesError retrievable from LastError) from a Starting reset slot
// that samples no presence pulse. Without this option — the default,
// matching the reference C implementation — absence of a presence pulse is
// silently ignored by the link layer; the caller discovers the absence of
// any device only when a subsequent write/read/search elicits no response.
func WithNoDevicesError() Option {
	return func(b *Bus) { b.failOnNoPresence = true }
}

// Bus is one physical 1-Wire line, driven through a Port. The zero value is
// not usable; construct with New.
type Bus struct {
	id   int
	port Port

	onPresence       func(*Bus)
	onSearchDone     func(*Bus)
	failOnNoPresence bool

	// buffer is borrowed from the caller for the duration of one
	// Write/Read operation (or supplied internally during a search round).
	buffer    []byte
	bitLength int
	byteIndex int
	bitIndex  int

	state State

	startSub  startSubstate
	writeSub  writeSubstate
	readSub   readSubstate
	searchSub searchSubstate

	address         uint64
	bitMask         uint64
	lastDiscrepancy uint64
	searchScratch   [1]byte

	lastErr error
}

// New constructs a Bus identified by id (a caller-assigned value useful
// when one Port implementation multiplexes several logical buses) driven
// through port.
func New(id int, port Port, opts ...Option) *Bus {
	b := &Bus{id: id, port: port}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ID returns the id supplied to New.
func (b *Bus) ID() int { return b.id }

// String implements fmt.Stringer, matching the conn.Resource convention
// used throughout the periph.io ecosystem.
func (b *Bus) String() string {
	return "onewire.Bus"
}

// State returns the current top-level link-layer state.
func (b *Bus) State() State { return b.state }

// LastError returns the error recorded by the most recent Failed result, or
// nil. It is cleared by the next call to Start.
func (b *Bus) LastError() error { return b.lastErr }

// Process advances the state machine by one cooperative step. It performs
// at most one pin operation and returns immediately; it never blocks.
func (b *Bus) Process() Result {
	var res Result
	switch b.state {
	case Idle:
		return NothingToDo
	case Starting:
		res = b.processStart()
	case Writing:
		res = b.processWrite()
	case Reading:
		res = b.processRead()
	case Searching, SearchingAlarm:
		res = b.processSearch()
	default:
		res = Working
	}
	if res == Success || res == Failed {
		b.state = Idle
	}
	return res
}

// Start begins a reset/presence slot.
func (b *Bus) Start() {
	b.state = Starting
	b.startSub = startBegin
	b.lastErr = nil
}

// Write begins transmitting buf, LSB-first within each byte. buf is
// borrowed: the caller must not mutate or reclaim it until Process returns
// Success or Failed.
func (b *Bus) Write(buf []byte) {
	b.state = Writing
	b.writeSub = writeBegin
	b.buffer = buf
	b.byteIndex = 0
	b.bitIndex = 0
	b.bitLength = 8
}

// Read begins receiving len(buf) bytes into buf, LSB-first within each
// byte. buf must be zeroed by the caller first: Read only ORs bits in and
// never clears existing ones.
func (b *Bus) Read(buf []byte) {
	b.state = Reading
	b.readSub = readBegin
	b.buffer = buf
	b.byteIndex = 0
	b.bitIndex = 0
	b.bitLength = 8
}

// Search begins a Maxim ROM search. alarm selects the alarm-only search
// command. One call runs the whole enumeration: after each round it reports
// the round's address through the search-done callback and starts the next
// round itself, and Process returns Success only once LastDiscrepancy is 0
// (or earlier, when a bit position gets no response). Process does not
// return between rounds, and calling Search again restarts the enumeration
// from the beginning.
func (b *Bus) Search(alarm bool) {
	b.resetSearch()
	if alarm {
		b.state = SearchingAlarm
	} else {
		b.state = Searching
	}
	b.searchSub = searchBegin
}

// SearchTarget begins a ROM search round restricted to family, by priming
// the search state with the family code so the first 8 bits of the round
// are pre-selected. This matches the published Maxim algorithm; the
// reference C implementation accepted a familyCode parameter but silently
// ignored it (see this package's design notes / DESIGN.md).
func (b *Bus) SearchTarget(alarm bool, family byte) {
	b.resetSearch()
	b.address = uint64(family)
	b.bitMask = 1 << 8
	if alarm {
		b.state = SearchingAlarm
	} else {
		b.state = Searching
	}
	b.searchSub = searchBegin
}

// AbortSearch immediately returns the bus to Idle if a search is in
// progress. It has no effect mid-round beyond ending the current request:
// partially-discovered discrepancy state is discarded.
func (b *Bus) AbortSearch() {
	if b.state == Searching || b.state == SearchingAlarm {
		b.state = Idle
	}
}

func (b *Bus) resetSearch() {
	b.lastDiscrepancy = 0
	b.address = 0
	b.bitMask = 1
}

// Address returns the 64-bit ROM address populated by the most recently
// completed search round.
func (b *Bus) Address() uint64 { return b.address }

// LastDiscrepancy returns the Maxim search algorithm's discrepancy marker.
// It is 0 once the enumeration is exhausted.
func (b *Bus) LastDiscrepancy() uint64 { return b.lastDiscrepancy }

func timerPassed(port Port, threshold uint16) bool {
	return port.ReadTimer() >= threshold
}
