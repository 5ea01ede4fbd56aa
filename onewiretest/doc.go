// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package onewiretest provides a fake onewire.Port for exercising the link
// and device state machines without real hardware, in the spirit of
// periph.io's gpiotest/conntest fakes.
package onewiretest
