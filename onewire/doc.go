// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package onewire implements the Dallas/Maxim 1-Wire link layer as a
// non-blocking, cooperatively-ticked state machine.
//
// It drives the reset/presence slot, byte-level write and read slots, and
// the Maxim ROM search algorithm from a host-supplied Port (see Port) at
// microsecond granularity. Nothing in this package starts a goroutine,
// allocates on the happy path, or blocks: callers drive progress by calling
// Bus.Process repeatedly, typically from a device layer such as
// periph.io/x/onewire/v3/ds18b20.
//
// Board bring-up — which physical GPIO chip and line backs a Bus, and how
// its timer is clocked — is deliberately outside this package's
// responsibility; it is expressed only through the Port interface.
package onewire
