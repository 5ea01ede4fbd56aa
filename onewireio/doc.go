// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package onewireio adapts a periph.io/x/conn/v3/gpio.PinIO into the
// onewire.Port interface, the one piece of hardware wiring this module
// needs from the host: board bring-up, pin assignment, and physical timer
// configuration stay the caller's responsibility, exactly as they would for
// any other periph.io driver.
package onewireio
