// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// owtool polls DS18B20 sensors on a single GPIO-driven 1-Wire bus.
//
// It either enumerates every ROM address present on the bus, or converts
// and prints the temperature of one address (or the sole device present,
// if -addr is omitted).
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
	"periph.io/x/onewire/v3/ds18b20"
	"periph.io/x/onewire/v3/onewire"
	"periph.io/x/onewire/v3/onewireio"
)

func enumerate(bus *onewire.Bus) ([]uint64, error) {
	var addrs []uint64
	onewire.WithSearchDoneCallback(func(b *onewire.Bus) {
		addrs = append(addrs, b.Address())
	})(bus)
	bus.Search(false)
	res := onewire.Working
	for res == onewire.Working {
		res = bus.Process()
	}
	if res == onewire.Failed {
		return addrs, bus.LastError()
	}
	return addrs, nil
}

func readTemperature(dev *ds18b20.Dev, addr uint64) (float64, error) {
	dev.SetReadMode(ds18b20.ReadCRC)
	if err := dev.BeginConversion(addr); err != nil {
		return 0, err
	}
	dev.Wait()
	if err := dev.BeginReadScratchpad(addr); err != nil {
		return 0, err
	}
	dev.Wait()
	if err := dev.CheckVerifiedCRC(); err != nil {
		return 0, err
	}
	return dev.GetTemperature(), nil
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
	pinName := flag.String("pin", "", "GPIO pin name driving the 1-Wire bus, e.g. GPIO4")
	list := flag.Bool("list", false, "enumerate ROM addresses present on the bus and exit")
	addrFlag := flag.String("addr", "", "hex ROM address to read; if empty, addresses the sole device on the bus")
	flag.Parse()

	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)

	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *pinName == "" {
		return errors.New("-pin is required")
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	pin := gpioreg.ByName(*pinName)
	if pin == nil {
		return fmt.Errorf("no such pin: %s", *pinName)
	}

	port := onewireio.NewGPIOPort(pin)
	bus := onewire.New(0, port)
	dev := ds18b20.New(bus, port)

	if *list {
		addrs, err := enumerate(bus)
		if err != nil {
			return err
		}
		for _, a := range addrs {
			authentic := ""
			if !ds18b20.CheckAuthentic(a) {
				authentic = " (not recognized as a genuine DS18B20)"
			}
			fmt.Printf("%016x%s\n", a, authentic)
		}
		return nil
	}

	var addr uint64
	if *addrFlag != "" {
		a, err := strconv.ParseUint(*addrFlag, 16, 64)
		if err != nil {
			return fmt.Errorf("invalid -addr: %w", err)
		}
		addr = a
	}

	t, err := readTemperature(dev, addr)
	if err != nil {
		return err
	}
	fmt.Printf("%.4f\n", t)
	return nil
}

func main() {
	start := time.Now()
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "owtool: %s.\n", err)
		os.Exit(1)
	}
	log.Printf("done in %s", time.Since(start))
}
