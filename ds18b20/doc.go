// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ds18b20 implements the DS18B20 temperature sensor's transaction
// protocol as a non-blocking cooperative state machine layered on top of
// periph.io/x/onewire/v3/onewire.Bus. Like the link layer underneath it,
// Dev.Process is driven by repeated calls from the caller's own loop; it
// never blocks and never allocates once constructed.
package ds18b20
