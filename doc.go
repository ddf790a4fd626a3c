// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

// Package mcp41hvx1 drives the Microchip MCP41HVX1 family of digitally
// controlled potentiometers over SPI.
//
// The driver is split into three layers. A Peripheral interface abstracts
// the serial peripheral at byte granularity, so the same protocol code runs
// against real hardware (periph/spidev, periph/serialbridge) or a simulated
// chip (internal/chipsim) in host-side tests. A Bus owns one Peripheral and
// serializes transactions on it: every chip operation acquires the bus,
// forces SPI mode 0, asserts chip select, runs the command exchange, drains
// and disables the peripheral, and restores the previous clock mode before
// releasing the bus. A Device binds a Bus to one chip-select line and
// exposes the chip's operations: wiper movement, resistance set/get, raw
// register access, and terminal connect/disconnect.
//
// All operations are synchronous and complete a full select/transact/
// deselect cycle before returning, even on chip-reported errors, so the
// bus is always left idle. The driver performs no internal retries; see
// RetryWithConfig for caller-side retry policy.
//
// Basic usage:
//
//	per, cs, err := spidev.Open("/dev/spidev0.0", "GPIO22")
//	if err != nil { ... }
//	bus := mcp41hvx1.NewBus(per)
//	dev, err := mcp41hvx1.New(bus, cs)
//	if err != nil { ... }
//	if err := dev.Startup(); err != nil { ... }
//	if err := dev.SetResistance(9804.0); err != nil { ... }
package mcp41hvx1
